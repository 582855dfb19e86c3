package ports

import (
	"github.com/go-logr/logr"

	"github.com/terratensor/csvhelpers/internal/core/domain"
)

// ReadHandler receives every decoded line. Returning an error aborts the read.
type ReadHandler func(fields []string, opts domain.Options, log logr.Logger) error

// WriteHandler supplies the next record to encode. A nil or empty record ends the write.
type WriteHandler func(opts domain.Options, log logr.Logger) ([]any, error)

// Codec is the line-oriented read/write engine.
type Codec interface {
	ReadCsv(path string, handler ReadHandler) error
	WriteCsv(path string, handler WriteHandler) error
}
