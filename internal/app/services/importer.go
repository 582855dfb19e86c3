package services

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/go-logr/logr"

	"github.com/terratensor/csvhelpers/internal/core/domain"
	"github.com/terratensor/csvhelpers/internal/core/ports"
)

// Fetcher turns a remote import source into a local file path.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (string, error)
}

type Importer struct {
	codec     ports.Codec
	writer    ports.RecordWriter
	log       logr.Logger
	fetcher   Fetcher
	index     ports.RecordIndex
	table     string
	batchSize int
	normalize bool
}

type ImportOption func(*Importer)

// WithFetcher enables http(s) import sources.
func WithFetcher(f Fetcher) ImportOption {
	return func(i *Importer) {
		i.fetcher = f
	}
}

// WithIndex copies every imported record into table, batchSize records per insert.
func WithIndex(index ports.RecordIndex, table string, batchSize int) ImportOption {
	return func(i *Importer) {
		i.index = index
		i.table = table
		if batchSize > 0 {
			i.batchSize = batchSize
		}
	}
}

// WithNormalize strips diacritics from text fields before they are written or indexed.
func WithNormalize() ImportOption {
	return func(i *Importer) {
		i.normalize = true
	}
}

func NewImporter(codec ports.Codec, writer ports.RecordWriter, log logr.Logger, opts ...ImportOption) *Importer {
	i := &Importer{
		codec:     codec,
		writer:    writer,
		log:       log,
		batchSize: 1000,
	}
	for _, o := range opts {
		o(i)
	}
	return i
}

// Run decodes source and hands every record to the writer and, when
// configured, the index. It returns the number of records read.
func (i *Importer) Run(ctx context.Context, source string) (int64, error) {
	path, err := i.resolve(ctx, source)
	if err != nil {
		return 0, err
	}

	if i.index != nil {
		if err := i.index.EnsureTable(ctx, i.table); err != nil {
			return 0, fmt.Errorf("failed to prepare index %s: %w", i.table, err)
		}
	}

	i.log.Info("Starting import", "path", path)
	start := time.Now()

	var count int64
	batch := make([][]string, 0, i.batchSize)

	err = i.codec.ReadCsv(path, func(fields []string, _ domain.Options, _ logr.Logger) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if i.normalize {
			fields = normalizeFields(fields)
		}
		if err := i.writer.WriteRecord(fields); err != nil {
			return fmt.Errorf("failed to write record %d: %w", count+1, err)
		}
		count++

		if i.index == nil {
			return nil
		}
		batch = append(batch, fields)
		if len(batch) < i.batchSize {
			return nil
		}
		if err := i.index.BulkInsertRecords(ctx, i.table, batch); err != nil {
			return fmt.Errorf("failed to index batch ending at record %d: %w", count, err)
		}
		batch = make([][]string, 0, i.batchSize)
		return nil
	})
	if err != nil {
		return count, fmt.Errorf("failed to import %s: %w", source, err)
	}

	// Final batch
	if i.index != nil && len(batch) > 0 {
		if err := i.index.BulkInsertRecords(ctx, i.table, batch); err != nil {
			return count, fmt.Errorf("failed to index final batch: %w", err)
		}
	}

	i.log.Info("Import completed", "path", path, "records", count, "elapsed", time.Since(start))
	return count, nil
}

func (i *Importer) resolve(ctx context.Context, source string) (string, error) {
	if !isRemote(source) {
		return source, nil
	}
	if i.fetcher == nil {
		return "", fmt.Errorf("remote import source %s is not supported", source)
	}
	path, err := i.fetcher.Fetch(ctx, source)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", source, err)
	}
	return path, nil
}

func isRemote(source string) bool {
	u, err := url.Parse(source)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
