// Package pipeline implements the line-oriented CSV read/write engine.
//
// The engine never holds more than one record. On read it owns the loop and
// pushes each decoded line to a ReadHandler; on write it pulls records from a
// WriteHandler until the handler returns an empty record.
//
// The format is deliberately not RFC 4180: a record is one physical line,
// fields cannot contain line breaks, and a separator inside an unquoted text
// field splits it. Quote markers are stripped from text fields on read by
// removing every occurrence, and a text field is considered already quoted on
// write when it contains the marker anywhere.
package pipeline

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-logr/logr"
	"github.com/pkg/errors"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/terratensor/csvhelpers/internal/core/domain"
	"github.com/terratensor/csvhelpers/internal/core/ports"
)

const defaultMaxLineBytes = 1 << 20

var _ ports.Codec = (*Engine)(nil)

// Engine reads and writes delimited files one record at a time.
// An Engine is not safe for concurrent use on the same file.
type Engine struct {
	opts         domain.Options
	log          logr.Logger
	quoting      bool
	progress     io.Writer
	maxLineBytes int
}

type EngineOption func(*Engine)

// WithProgress draws a progress bar on w for every ReadCsv and WriteCsv call.
func WithProgress(w io.Writer) EngineOption {
	return func(e *Engine) {
		e.progress = w
	}
}

// WithMaxLineBytes bounds the length of a single physical line on read.
func WithMaxLineBytes(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.maxLineBytes = n
		}
	}
}

// NewEngine validates opts and returns an engine bound to a private copy of them.
// logger is forwarded to every handler call.
func NewEngine(opts *domain.Options, logger logr.Logger, options ...EngineOption) (*Engine, error) {
	if opts == nil {
		return nil, ErrNilOptions
	}
	if !opts.IsValid() {
		return nil, errors.Wrapf(ErrInvalidOptions, "separator %q", opts.Separator)
	}
	if logger.GetSink() == nil {
		logger = logr.Discard()
	}

	e := &Engine{
		opts:         *opts,
		log:          logger,
		quoting:      opts.QuotingEnabled(),
		maxLineBytes: defaultMaxLineBytes,
	}
	e.opts.LineTerminator = opts.Terminator()
	for _, o := range options {
		o(e)
	}

	if !e.quoting && !domain.IsBlank(opts.Quote) {
		e.log.Info("quote marker contains the field separator, quoting disabled",
			"separator", opts.SeparatorString(), "quote", opts.Quote)
	}
	return e, nil
}

// Options returns a copy of the engine's options.
func (e *Engine) Options() domain.Options {
	return e.opts
}

// ReadCsv decodes the file at path and calls handler once per physical line.
func (e *Engine) ReadCsv(path string, handler ports.ReadHandler) error {
	if domain.IsBlank(path) {
		return ErrMissingPath
	}
	if handler == nil {
		return ErrMissingHandler
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &NotFoundError{Path: path}
		}
		return ioError(ErrRead, "stat", path, err)
	}
	if info.IsDir() {
		return &NotFoundError{Path: path}
	}

	file, err := os.Open(path)
	if err != nil {
		return ioError(ErrRead, "open", path, err)
	}
	defer file.Close()

	e.log.V(4).Info("reading", "path", path, "bytes", info.Size())

	var src io.Reader = file
	if e.progress != nil {
		bar := newByteBar(e.progress, info.Size(), "Reading "+filepath.Base(path))
		defer bar.Finish()
		src = io.TeeReader(file, bar)
	}

	if err := e.Decode(src, handler); err != nil {
		return errors.WithMessage(err, path)
	}
	return nil
}

// Decode reads lines from r and calls handler for each of them. A leading
// byte order mark is consumed. Lines end at "\n", "\r" or "\r\n".
func (e *Engine) Decode(r io.Reader, handler ports.ReadHandler) error {
	if handler == nil {
		return ErrMissingHandler
	}

	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	scanner := bufio.NewScanner(decoded)
	scanner.Buffer(make([]byte, 0, 4096), e.maxLineBytes)
	scanner.Split(scanLines)

	line := 0
	for scanner.Scan() {
		line++
		fields := e.splitLine(scanner.Text())
		if err := handler(fields, e.opts, e.log); err != nil {
			return errors.Wrapf(err, "read handler failed on line %d", line)
		}
	}
	if err := scanner.Err(); err != nil {
		return ioError(ErrRead, "line", strconv.Itoa(line+1), err)
	}
	return nil
}

// WriteCsv replaces the file at path with the records supplied by handler.
// Content written before a failure is left in place.
func (e *Engine) WriteCsv(path string, handler ports.WriteHandler) (err error) {
	if domain.IsBlank(path) {
		return ErrMissingPath
	}
	if handler == nil {
		return ErrMissingHandler
	}
	if err := removeExisting(path); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return ioError(ErrWrite, "create", path, err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = ioError(ErrWrite, "close", path, cerr)
		}
	}()

	e.log.V(4).Info("writing", "path", path)

	var onRecord func()
	if e.progress != nil {
		bar := newRecordBar(e.progress, "Writing "+filepath.Base(path))
		defer bar.Finish()
		onRecord = func() { _ = bar.Add(1) }
	}

	n, err := e.encode(file, handler, onRecord)
	if err != nil {
		return errors.WithMessage(err, path)
	}
	e.log.V(4).Info("written", "path", path, "records", n)
	return nil
}

// Encode writes the records supplied by handler to w and returns how many were written.
func (e *Engine) Encode(w io.Writer, handler ports.WriteHandler) (int, error) {
	if handler == nil {
		return 0, ErrMissingHandler
	}
	return e.encode(w, handler, nil)
}

func (e *Engine) encode(w io.Writer, handler ports.WriteHandler, onRecord func()) (int, error) {
	bw := bufio.NewWriter(w)
	written, err := e.writeRecords(bw, handler, onRecord)
	if ferr := bw.Flush(); ferr != nil && err == nil {
		err = ioError(ErrWrite, "flush", "output", ferr)
	}
	return written, err
}

func (e *Engine) writeRecords(bw *bufio.Writer, handler ports.WriteHandler, onRecord func()) (int, error) {
	sep := e.opts.SeparatorString()
	written := 0
	for {
		record, err := handler(e.opts, e.log)
		if err != nil {
			return written, errors.Wrapf(err, "write handler failed on record %d", written+1)
		}
		if len(record) == 0 {
			return written, nil
		}

		for i, v := range record {
			if i > 0 {
				bw.WriteString(sep)
			}
			bw.WriteString(e.encodeField(v))
		}
		// bufio.Writer errors are sticky, so the last write reports any earlier failure.
		if _, err := bw.WriteString(e.opts.LineTerminator); err != nil {
			return written, ioError(ErrWrite, "record", strconv.Itoa(written+1), err)
		}

		written++
		if onRecord != nil {
			onRecord()
		}
	}
}

func (e *Engine) splitLine(line string) []string {
	fields := strings.Split(line, e.opts.SeparatorString())
	if !e.quoting {
		return fields
	}
	for i, f := range fields {
		if domain.IsText(f) {
			fields[i] = strings.TrimSpace(strings.ReplaceAll(f, e.opts.Quote, ""))
		}
	}
	return fields
}

func (e *Engine) encodeField(v any) string {
	s := domain.Stringify(v)
	if e.quoting && domain.IsText(s) && !e.IsQuoted(s) {
		return e.QuoteIt(s)
	}
	return s
}

// QuoteIt wraps the string form of v in the quote marker.
func (e *Engine) QuoteIt(v any) string {
	return e.opts.Quote + domain.Stringify(v) + e.opts.Quote
}

// IsQuoted reports whether the string form of v contains the quote marker.
// This is a containment test: "it's" counts as quoted when the marker is "'".
func (e *Engine) IsQuoted(v any) bool {
	s := domain.Stringify(v)
	if domain.IsBlank(s) {
		return false
	}
	return strings.Contains(s, e.opts.Quote)
}

func removeExisting(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return ioError(ErrWrite, "stat", path, err)
	}
	if info.IsDir() {
		return nil
	}
	if err := os.Remove(path); err != nil {
		return ioError(ErrWrite, "remove", path, err)
	}
	return nil
}
