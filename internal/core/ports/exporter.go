package ports

import (
	"io"
)

type ViewFormat string

const (
	ViewLog   ViewFormat = "log"
	ViewTable ViewFormat = "table"
	ViewNone  ViewFormat = "none"
)

// RecordWriter presents decoded records to the user.
type RecordWriter interface {
	WriteRecord(fields []string) error
	Close() error
}

// WriterFactory builds a RecordWriter for a view format.
type WriterFactory interface {
	CreateWriter(w io.Writer, format ViewFormat, separator rune) (RecordWriter, error)
}
