package sqlstore

import (
	"fmt"
	"strings"

	"github.com/bobmcallan/marketdash/internal/models"
)

// MySQLDialect speaks MySQL 8+: backtick identifiers, VARCHAR(255) columns
// (key columns need a bounded type), INSERT ... ON DUPLICATE KEY UPDATE, and
// the DELETE ... JOIN form for the retention trim since MySQL refuses a
// subquery on the delete target.
type MySQLDialect struct{}

func (MySQLDialect) Name() string { return "mysql" }

func (MySQLDialect) QuoteIdent(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

func (d MySQLDialect) CreateTableSQL(spec models.TableSpec) string {
	defs := make([]string, 0, len(spec.Columns)+1)
	for _, col := range spec.Columns {
		defs = append(defs, d.QuoteIdent(col)+" VARCHAR(255)")
	}
	if len(spec.PrimaryKey) > 0 {
		defs = append(defs, fmt.Sprintf("PRIMARY KEY (%s)", quoteAll(d, spec.PrimaryKey)))
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s) ENGINE=InnoDB",
		d.QuoteIdent(spec.Name), strings.Join(defs, ", "))
}

func (d MySQLDialect) UpsertSQL(spec models.TableSpec) string {
	insert := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		d.QuoteIdent(spec.Name), quoteAll(d, spec.Columns), placeholders(len(spec.Columns)))

	if len(spec.PrimaryKey) == 0 {
		return insert
	}

	nonKey := spec.NonKeyColumns()
	if len(nonKey) == 0 {
		// All columns are key columns; there is nothing to overwrite, but the
		// clause still needs one assignment to swallow the duplicate.
		pk := d.QuoteIdent(spec.PrimaryKey[0])
		return fmt.Sprintf("%s ON DUPLICATE KEY UPDATE %s = %s", insert, pk, pk)
	}

	sets := make([]string, len(nonKey))
	for i, col := range nonKey {
		q := d.QuoteIdent(col)
		sets[i] = fmt.Sprintf("%s = VALUES(%s)", q, q)
	}
	return fmt.Sprintf("%s ON DUPLICATE KEY UPDATE %s", insert, strings.Join(sets, ", "))
}

func (d MySQLDialect) RetentionDeleteSQL(spec models.TableSpec) string {
	table := d.QuoteIdent(spec.Name)
	keys := quoteAll(d, spec.PrimaryKey)

	conds := make([]string, len(spec.PrimaryKey))
	for i, pk := range spec.PrimaryKey {
		q := d.QuoteIdent(pk)
		conds[i] = fmt.Sprintf("t.%s = sub.%s", q, q)
	}

	return fmt.Sprintf(
		"DELETE t FROM %s AS t JOIN ("+
			"SELECT %s FROM ("+
			"SELECT %s, ROW_NUMBER() OVER (PARTITION BY %s ORDER BY %s) AS row_num FROM %s"+
			") AS ranked WHERE ranked.row_num > ?"+
			") AS sub ON %s",
		table, keys, keys,
		d.QuoteIdent(spec.Retention.PartitionColumn), rankingOrder(d, spec), table,
		strings.Join(conds, " AND "))
}
