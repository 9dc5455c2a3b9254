package sqlstore

import (
	"fmt"
	"strings"

	"github.com/bobmcallan/marketdash/internal/models"
)

// Dialect generates the engine-specific SQL for the store. Any relational
// engine with transactions, an upsert clause, and window functions qualifies.
type Dialect interface {
	Name() string

	// QuoteIdent quotes a table or column identifier.
	QuoteIdent(name string) string

	// CreateTableSQL returns the idempotent table-creation statement: every
	// column variable-length text, composite primary key when declared.
	CreateTableSQL(spec models.TableSpec) string

	// UpsertSQL returns a single-row parameterized insert-or-overwrite
	// statement with one placeholder per declared column. Without a primary
	// key it degrades to a plain insert.
	UpsertSQL(spec models.TableSpec) string

	// RetentionDeleteSQL returns the trim statement with one placeholder for
	// the per-partition row cap. Ranked rows are matched back to concrete
	// rows by every primary-key column so that partitions sharing only part
	// of the key can never delete each other's rows.
	RetentionDeleteSQL(spec models.TableSpec) string
}

// DialectFor maps a database/sql driver name to its dialect.
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case "mysql":
		return MySQLDialect{}, nil
	case "sqlite3":
		return SQLiteDialect{}, nil
	default:
		return nil, fmt.Errorf("sqlstore: no dialect for driver %q", driver)
	}
}

// quoteAll quotes every identifier and joins with ", ".
func quoteAll(d Dialect, names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = d.QuoteIdent(n)
	}
	return strings.Join(quoted, ", ")
}

// placeholders returns "?, ?, ..." with n entries.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// rankingOrder builds the window ORDER BY: sort column descending, then every
// primary-key column descending. The key suffix is the documented tie-break
// for equal sort values; without it the retained set depends on incidental
// scan order.
func rankingOrder(d Dialect, spec models.TableSpec) string {
	terms := []string{d.QuoteIdent(spec.Retention.SortColumn) + " DESC"}
	for _, pk := range spec.PrimaryKey {
		terms = append(terms, d.QuoteIdent(pk)+" DESC")
	}
	return strings.Join(terms, ", ")
}
