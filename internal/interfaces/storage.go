package interfaces

import (
	"context"

	"github.com/bobmcallan/marketdash/internal/models"
)

// TableStore is the bounded upsert store contract for one declared table.
type TableStore interface {
	// EnsureTable creates the backing table if absent. Idempotent.
	EnsureTable(ctx context.Context) error

	// InsertOrUpdate applies a batch in one transaction: new primary-key
	// tuples insert, existing ones overwrite their non-key columns. An empty
	// batch is a no-op.
	InsertOrUpdate(ctx context.Context, rows []models.Row) error

	// EnforceRetention trims each partition to the configured row cap.
	EnforceRetention(ctx context.Context) error

	// ReadTable returns the full table contents. Errors are distinct from an
	// empty result.
	ReadTable(ctx context.Context) ([]models.Row, error)
}

// StoreFactory builds a TableStore for a table spec. The collector service
// uses it so jobs can be tested against in-memory stores.
type StoreFactory func(spec models.TableSpec) (TableStore, error)

// SheetWriter publishes a tabular frame to one worksheet of a spreadsheet,
// replacing the previous contents.
type SheetWriter interface {
	WriteSheet(ctx context.Context, worksheet string, header []string, rows [][]string) error
}

// FrameWriter persists a tabular frame to a local file.
type FrameWriter interface {
	WriteFrame(path string, header []string, rows [][]string) error
}
