package exporters

import (
	"bytes"
	"strings"
	"testing"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terratensor/csvhelpers/internal/core/ports"
)

func TestWriterFactory(t *testing.T) {
	f := NewWriterFactory(logr.Discard())

	w, err := f.CreateWriter(&bytes.Buffer{}, ports.ViewLog, ',')
	require.NoError(t, err)
	assert.IsType(t, &LogWriter{}, w)

	w, err = f.CreateWriter(&bytes.Buffer{}, ports.ViewTable, ',')
	require.NoError(t, err)
	assert.IsType(t, &TableWriter{}, w)

	w, err = f.CreateWriter(&bytes.Buffer{}, ports.ViewNone, ',')
	require.NoError(t, err)
	require.NoError(t, w.WriteRecord([]string{"a"}))
	require.NoError(t, w.Close())

	_, err = f.CreateWriter(&bytes.Buffer{}, "xml", ',')
	require.Error(t, err)
}

func TestLogWriter(t *testing.T) {
	var lines []string
	logger := funcr.New(func(prefix, args string) {
		lines = append(lines, args)
	}, funcr.Options{Verbosity: 4})

	w := NewLogWriter(logger, ';')
	require.NoError(t, w.WriteRecord([]string{"1", "Acme", ""}))
	require.NoError(t, w.Close())

	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], `"Read: 1;Acme;"`)
}

func TestLogWriterQuietByDefault(t *testing.T) {
	var lines []string
	logger := funcr.New(func(prefix, args string) {
		lines = append(lines, args)
	}, funcr.Options{})

	require.NoError(t, NewLogWriter(logger, ',').WriteRecord([]string{"a"}))
	assert.Empty(t, lines)
}

func TestTableWriter(t *testing.T) {
	var out bytes.Buffer
	w := NewTableWriter(&out)

	require.NoError(t, w.WriteRecord([]string{"1", "true", "Acme"}))
	require.NoError(t, w.WriteRecord([]string{"2", "false"}))
	require.NoError(t, w.Close())

	rendered := out.String()
	assert.Contains(t, rendered, "Acme")
	assert.Contains(t, rendered, "false")
	// header row plus two records
	assert.GreaterOrEqual(t, strings.Count(rendered, "\n"), 3)
}
