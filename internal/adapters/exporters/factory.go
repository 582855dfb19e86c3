package exporters

import (
	"fmt"
	"io"

	"github.com/go-logr/logr"

	"github.com/terratensor/csvhelpers/internal/core/ports"
)

var _ ports.WriterFactory = (*WriterFactory)(nil)

type WriterFactory struct {
	log logr.Logger
}

func NewWriterFactory(log logr.Logger) *WriterFactory {
	return &WriterFactory{log: log}
}

func (f *WriterFactory) CreateWriter(w io.Writer, format ports.ViewFormat, separator rune) (ports.RecordWriter, error) {
	switch format {
	case ports.ViewLog, "":
		return NewLogWriter(f.log, separator), nil
	case ports.ViewTable:
		return NewTableWriter(w), nil
	case ports.ViewNone:
		return discardWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported view: %s", format)
	}
}

type discardWriter struct{}

func (discardWriter) WriteRecord([]string) error { return nil }
func (discardWriter) Close() error               { return nil }
