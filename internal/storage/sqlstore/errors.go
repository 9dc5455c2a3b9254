package sqlstore

import (
	"errors"
	"fmt"
	"strings"
)

// ErrStorageUnavailable indicates the store has no usable database
// connection. It is fatal to the current job; the next scheduled run is the
// retry.
var ErrStorageUnavailable = errors.New("sqlstore: no database connection")

// SchemaError indicates a batch referenced columns the table spec does not
// declare. Batches with unknown columns are rejected rather than silently
// widening the table.
type SchemaError struct {
	Table   string
	Unknown []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("sqlstore: table %s: unknown columns [%s]", e.Table, strings.Join(e.Unknown, ", "))
}

// InsertError indicates the sink rejected a batch. The batch is applied as a
// single transaction, so a failed batch leaves no partially-applied rows.
type InsertError struct {
	Table string
	Row   int // index of the offending row within the batch
	Err   error
}

func (e *InsertError) Error() string {
	return fmt.Sprintf("sqlstore: insert into %s failed at row %d: %v", e.Table, e.Row, e.Err)
}

func (e *InsertError) Unwrap() error {
	return e.Err
}
