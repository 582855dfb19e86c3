package ports

import (
	"context"
)

// RecordIndex stores imported records in a search index.
type RecordIndex interface {
	EnsureTable(ctx context.Context, table string) error
	BulkInsertRecords(ctx context.Context, table string, records [][]string) error
	Count(ctx context.Context, table string) (int64, error)
}
