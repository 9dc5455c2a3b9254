package sqlstore

import (
	"fmt"
	"strings"

	"github.com/bobmcallan/marketdash/internal/models"
)

// SQLiteDialect speaks SQLite 3.25+: double-quoted identifiers, TEXT columns,
// INSERT ... ON CONFLICT ... DO UPDATE, and a row-value IN subquery for the
// retention trim.
type SQLiteDialect struct{}

func (SQLiteDialect) Name() string { return "sqlite3" }

func (SQLiteDialect) QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func (d SQLiteDialect) CreateTableSQL(spec models.TableSpec) string {
	defs := make([]string, 0, len(spec.Columns)+1)
	for _, col := range spec.Columns {
		defs = append(defs, d.QuoteIdent(col)+" TEXT")
	}
	if len(spec.PrimaryKey) > 0 {
		defs = append(defs, fmt.Sprintf("PRIMARY KEY (%s)", quoteAll(d, spec.PrimaryKey)))
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)",
		d.QuoteIdent(spec.Name), strings.Join(defs, ", "))
}

func (d SQLiteDialect) UpsertSQL(spec models.TableSpec) string {
	insert := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		d.QuoteIdent(spec.Name), quoteAll(d, spec.Columns), placeholders(len(spec.Columns)))

	if len(spec.PrimaryKey) == 0 {
		return insert
	}

	conflict := quoteAll(d, spec.PrimaryKey)

	nonKey := spec.NonKeyColumns()
	if len(nonKey) == 0 {
		return fmt.Sprintf("%s ON CONFLICT (%s) DO NOTHING", insert, conflict)
	}

	sets := make([]string, len(nonKey))
	for i, col := range nonKey {
		q := d.QuoteIdent(col)
		sets[i] = fmt.Sprintf("%s = excluded.%s", q, q)
	}
	return fmt.Sprintf("%s ON CONFLICT (%s) DO UPDATE SET %s", insert, conflict, strings.Join(sets, ", "))
}

func (d SQLiteDialect) RetentionDeleteSQL(spec models.TableSpec) string {
	table := d.QuoteIdent(spec.Name)
	keys := quoteAll(d, spec.PrimaryKey)

	return fmt.Sprintf(
		"DELETE FROM %s WHERE (%s) IN ("+
			"SELECT %s FROM ("+
			"SELECT %s, ROW_NUMBER() OVER (PARTITION BY %s ORDER BY %s) AS row_num FROM %s"+
			") AS ranked WHERE ranked.row_num > ?"+
			")",
		table, keys, keys, keys,
		d.QuoteIdent(spec.Retention.PartitionColumn), rankingOrder(d, spec), table)
}
