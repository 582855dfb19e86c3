package domain

import (
	"runtime"
	"strings"
	"unicode"
)

const (
	DefaultSeparator = ','
	DefaultQuote     = "\""
)

// Options holds the field separator and quote marker used by the codec.
type Options struct {
	// Separator divides fields within a line.
	Separator rune
	// Quote wraps text fields on write and is stripped from them on read.
	// An empty marker disables quoting.
	Quote string
	// LineTerminator ends every written line.
	LineTerminator string
}

// DefaultOptions returns comma-separated, double-quoted options with the
// platform line terminator.
func DefaultOptions() *Options {
	return &Options{
		Separator:      DefaultSeparator,
		Quote:          DefaultQuote,
		LineTerminator: PlatformNewline(),
	}
}

// PlatformNewline returns the native line terminator of the running OS.
func PlatformNewline() string {
	if runtime.GOOS == "windows" {
		return "\r\n"
	}
	return "\n"
}

// IsValid reports whether the separator renders as a non-blank string.
// Whitespace separators (tab included) are not valid.
func (o *Options) IsValid() bool {
	if o == nil {
		return false
	}
	return o.Separator != 0 && !IsBlank(string(o.Separator))
}

// QuotingEnabled reports whether text fields are wrapped on write and stripped on read.
// A marker that contains the separator would split fields on its own, so it
// switches quoting off.
func (o *Options) QuotingEnabled() bool {
	if o == nil || IsBlank(o.Quote) {
		return false
	}
	return !strings.ContainsRune(o.Quote, o.Separator)
}

// Terminator returns the configured line terminator, falling back to the platform one.
func (o *Options) Terminator() string {
	if o.LineTerminator == "" {
		return PlatformNewline()
	}
	return o.LineTerminator
}

// SeparatorString is the separator as it appears between fields.
func (o *Options) SeparatorString() string {
	return string(o.Separator)
}

// IsBlank mirrors the "null or whitespace" notion used throughout the codec.
func IsBlank(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool { return !unicode.IsSpace(r) }) < 0
}
