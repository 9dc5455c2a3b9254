// Package sqlstore implements the bounded upsert store: a thin SQL-generation
// layer that persists batches of text rows into a declared table with
// at-most-one-row-per-primary-key semantics, then trims each partition to its
// configured row cap.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/bobmcallan/marketdash/internal/common"
	"github.com/bobmcallan/marketdash/internal/interfaces"
	"github.com/bobmcallan/marketdash/internal/models"
)

// Store persists rows for one declared table. It does not own the *sql.DB;
// the caller opens one exclusive connection per job run and must close it on
// every exit path.
type Store struct {
	db      *sql.DB
	dialect Dialect
	spec    models.TableSpec
	logger  *common.Logger
}

// New builds a store for the given table spec. The spec is validated up
// front: malformed specs are configuration errors and fatal at startup.
func New(db *sql.DB, dialect Dialect, spec models.TableSpec, logger *common.Logger) (*Store, error) {
	if err := validateSpec(spec); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Store{db: db, dialect: dialect, spec: spec, logger: logger}, nil
}

// Spec returns the table spec the store was built with.
func (s *Store) Spec() models.TableSpec {
	return s.spec
}

func validateSpec(spec models.TableSpec) error {
	if spec.Name == "" {
		return fmt.Errorf("sqlstore: table name is required")
	}
	if len(spec.Columns) == 0 {
		return fmt.Errorf("sqlstore: table %s: at least one column is required", spec.Name)
	}
	seen := make(map[string]bool, len(spec.Columns))
	for _, c := range spec.Columns {
		if c == "" {
			return fmt.Errorf("sqlstore: table %s: empty column name", spec.Name)
		}
		if seen[c] {
			return fmt.Errorf("sqlstore: table %s: duplicate column %q", spec.Name, c)
		}
		seen[c] = true
	}
	for _, pk := range spec.PrimaryKey {
		if !seen[pk] {
			return fmt.Errorf("sqlstore: table %s: primary key column %q not declared", spec.Name, pk)
		}
	}
	if r := spec.Retention; r.Enforceable() {
		if !seen[r.SortColumn] {
			return fmt.Errorf("sqlstore: table %s: retention sort column %q not declared", spec.Name, r.SortColumn)
		}
		if r.PartitionColumn != "" && !seen[r.PartitionColumn] {
			return fmt.Errorf("sqlstore: table %s: retention partition column %q not declared", spec.Name, r.PartitionColumn)
		}
	}
	return nil
}

// EnsureTable creates the backing table if absent. Idempotent; no schema
// migration is attempted against an existing table.
func (s *Store) EnsureTable(ctx context.Context) error {
	if s.db == nil {
		return ErrStorageUnavailable
	}
	if _, err := s.db.ExecContext(ctx, s.dialect.CreateTableSQL(s.spec)); err != nil {
		return fmt.Errorf("sqlstore: create table %s: %w", s.spec.Name, err)
	}
	return nil
}

// InsertOrUpdate upserts a batch of rows in a single transaction: insert
// where the primary-key tuple is new, overwrite the non-key columns where it
// exists. Rows colliding within the batch resolve last-write-wins. An empty
// batch is a reported no-op. On success the retention policy, when
// enforceable, is applied automatically.
func (s *Store) InsertOrUpdate(ctx context.Context, rows []models.Row) error {
	if s.db == nil {
		return ErrStorageUnavailable
	}
	if len(rows) == 0 {
		s.logger.Info().Str("table", s.spec.Name).Msg("No rows to insert")
		return nil
	}

	if err := s.checkColumns(rows); err != nil {
		return err
	}

	if err := s.EnsureTable(ctx); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlstore: begin transaction: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, s.dialect.UpsertSQL(s.spec))
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("sqlstore: prepare upsert for %s: %w", s.spec.Name, err)
	}

	args := make([]any, len(s.spec.Columns))
	for i, row := range rows {
		for j, col := range s.spec.Columns {
			args[j] = row[col] // absent columns store as empty text
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			stmt.Close()
			tx.Rollback()
			return &InsertError{Table: s.spec.Name, Row: i, Err: err}
		}
	}
	stmt.Close()

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlstore: commit batch into %s: %w", s.spec.Name, err)
	}

	s.logger.Info().Str("table", s.spec.Name).Int("rows", len(rows)).Msg("Batch upserted")

	if s.spec.Retention.Enforceable() {
		return s.EnforceRetention(ctx)
	}
	return nil
}

// checkColumns rejects rows carrying columns outside the declared schema.
func (s *Store) checkColumns(rows []models.Row) error {
	var unknown []string
	seen := make(map[string]bool)
	for _, row := range rows {
		for col := range row {
			if !s.spec.HasColumn(col) && !seen[col] {
				seen[col] = true
				unknown = append(unknown, col)
			}
		}
	}
	if len(unknown) > 0 {
		return &SchemaError{Table: s.spec.Name, Unknown: unknown}
	}
	return nil
}

// EnforceRetention trims each partition to the configured row cap, keeping
// the top-N rows by sort column descending. Ties on the sort column break by
// primary-key order descending, so the retained set is deterministic. Without
// a complete policy, or without a primary key to address rows by, this is a
// reported no-op.
func (s *Store) EnforceRetention(ctx context.Context) error {
	if s.db == nil {
		return ErrStorageUnavailable
	}
	if !s.spec.Retention.Enforceable() {
		s.logger.Debug().Str("table", s.spec.Name).Msg("Retention skipped: no complete policy configured")
		return nil
	}
	if len(s.spec.PrimaryKey) == 0 {
		s.logger.Warn().Str("table", s.spec.Name).Msg("Retention skipped: no primary key to address rows by")
		return nil
	}

	res, err := s.db.ExecContext(ctx, s.dialect.RetentionDeleteSQL(s.spec), s.spec.Retention.MaxRowsPerPartition)
	if err != nil {
		return fmt.Errorf("sqlstore: enforce retention on %s: %w", s.spec.Name, err)
	}

	if trimmed, err := res.RowsAffected(); err == nil && trimmed > 0 {
		s.logger.Info().Str("table", s.spec.Name).Int64("trimmed", trimmed).Msg("Retention enforced")
	}
	return nil
}

// ReadTable returns the full current contents of the table in declared
// column order. Failure is reported as an error, never conflated with a
// legitimately empty table.
func (s *Store) ReadTable(ctx context.Context) ([]models.Row, error) {
	if s.db == nil {
		return nil, ErrStorageUnavailable
	}

	query := fmt.Sprintf("SELECT %s FROM %s", quoteAll(s.dialect, s.spec.Columns), s.dialect.QuoteIdent(s.spec.Name))
	dbRows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: read table %s: %w", s.spec.Name, err)
	}
	defer dbRows.Close()

	var out []models.Row
	cells := make([]sql.NullString, len(s.spec.Columns))
	ptrs := make([]any, len(cells))
	for i := range cells {
		ptrs[i] = &cells[i]
	}

	for dbRows.Next() {
		if err := dbRows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("sqlstore: scan row from %s: %w", s.spec.Name, err)
		}
		row := make(models.Row, len(s.spec.Columns))
		for i, col := range s.spec.Columns {
			if cells[i].Valid {
				row[col] = cells[i].String
			} else {
				row[col] = ""
			}
		}
		out = append(out, row)
	}
	if err := dbRows.Err(); err != nil {
		return nil, fmt.Errorf("sqlstore: iterate rows from %s: %w", s.spec.Name, err)
	}

	return out, nil
}

// Ensure Store implements TableStore
var _ interfaces.TableStore = (*Store)(nil)
