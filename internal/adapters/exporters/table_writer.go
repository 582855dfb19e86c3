package exporters

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// TableWriter collects records and renders them as one table on Close.
type TableWriter struct {
	out    io.Writer
	rows   []table.Row
	widest int
}

func NewTableWriter(out io.Writer) *TableWriter {
	return &TableWriter{out: out}
}

func (w *TableWriter) WriteRecord(fields []string) error {
	row := make(table.Row, 0, len(fields)+1)
	row = append(row, len(w.rows)+1)
	for _, f := range fields {
		row = append(row, f)
	}
	if len(fields) > w.widest {
		w.widest = len(fields)
	}
	w.rows = append(w.rows, row)
	return nil
}

// Close renders the collected records. Columns are numbered because the
// format carries no header.
func (w *TableWriter) Close() error {
	header := table.Row{""}
	for i := 1; i <= w.widest; i++ {
		header = append(header, i)
	}

	t := table.NewWriter()
	t.AppendHeader(header)
	t.AppendRows(w.rows)
	t.SetStyle(table.StyleLight)
	t.Style().Format = table.FormatOptions{
		Footer: text.FormatDefault,
		Header: text.FormatDefault,
		Row:    text.FormatDefault,
	}
	t.Style().Options.DrawBorder = false
	t.SuppressTrailingSpaces()

	_, err := io.WriteString(w.out, t.Render()+"\n")
	return err
}
