package services

import (
	"context"
	"fmt"
	"time"

	"github.com/go-logr/logr"

	"github.com/terratensor/csvhelpers/internal/core/domain"
	"github.com/terratensor/csvhelpers/internal/core/ports"
)

type ExportService struct {
	codec ports.Codec
	log   logr.Logger
}

func NewExportService(codec ports.Codec, log logr.Logger) *ExportService {
	return &ExportService{
		codec: codec,
		log:   log,
	}
}

// Export writes every row of table to path and returns how many rows were written.
// Cancelling ctx stops the export before the next row.
func (s *ExportService) Export(ctx context.Context, path string, table *Table) (int, error) {
	s.log.Info("Starting export", "path", path, "rows", table.Len())
	start := time.Now()

	cursor := NewCursor(table)
	err := s.codec.WriteCsv(path, func(opts domain.Options, log logr.Logger) ([]any, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return cursor.Next(opts, log)
	})
	if err != nil {
		return cursor.Position(), fmt.Errorf("failed to export %s: %w", path, err)
	}

	s.log.Info("Export completed", "path", path, "records", cursor.Position(), "elapsed", time.Since(start))
	return cursor.Position(), nil
}
