package pipeline

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrNilOptions is returned by NewEngine when no options are given.
	ErrNilOptions = errors.New("csvhelpers: options are required")
	// ErrInvalidOptions is returned by NewEngine when the field separator is unusable.
	ErrInvalidOptions = errors.New("csvhelpers: options are not valid, field separator is required")
	// ErrMissingPath is returned when the file path is blank.
	ErrMissingPath = errors.New("csvhelpers: file path is required")
	// ErrMissingHandler is returned when the read or write callback is nil.
	ErrMissingHandler = errors.New("csvhelpers: line handler is required")
	// ErrFileNotFound matches every *NotFoundError.
	ErrFileNotFound = errors.New("csvhelpers: file not found")
	// ErrRead wraps I/O failures while decoding.
	ErrRead = errors.New("csvhelpers: read failed")
	// ErrWrite wraps I/O failures while encoding.
	ErrWrite = errors.New("csvhelpers: write failed")
)

// NotFoundError reports a decode target that does not exist.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%v: %s", ErrFileNotFound, e.Path)
}

// Is lets errors.Is(err, ErrFileNotFound) match.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrFileNotFound
}

// ioError wraps both the sentinel kind and the underlying cause. pkg/errors
// keeps a single cause, so this uses fmt's multiple %w.
func ioError(kind error, op, target string, err error) error {
	return fmt.Errorf("%w: %s %s: %w", kind, op, target, err)
}
