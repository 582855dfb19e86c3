package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOptionsIsValid(t *testing.T) {
	tests := []struct {
		name      string
		separator rune
		expected  bool
	}{
		{"comma", ',', true},
		{"semicolon", ';', true},
		{"pipe", '|', true},
		{"unicode", '§', true},
		{"zero", 0, false},
		{"space", ' ', false},
		{"tab", '\t', false},
		{"newline", '\n', false},
		{"no-break space", '\u00a0', false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := &Options{Separator: tt.separator, Quote: DefaultQuote}
			assert.Equal(t, tt.expected, opts.IsValid())
		})
	}

	var nilOpts *Options
	assert.False(t, nilOpts.IsValid())
}

func TestOptionsQuotingEnabled(t *testing.T) {
	tests := []struct {
		name     string
		opts     Options
		expected bool
	}{
		{"default", Options{Separator: ',', Quote: `"`}, true},
		{"single quote", Options{Separator: ',', Quote: "'"}, true},
		{"multi char marker", Options{Separator: ',', Quote: "~~"}, true},
		{"empty marker", Options{Separator: ',', Quote: ""}, false},
		{"blank marker", Options{Separator: ',', Quote: "  "}, false},
		{"marker equals separator", Options{Separator: ',', Quote: ","}, false},
		{"marker contains separator", Options{Separator: ';', Quote: `";`}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.opts.QuotingEnabled())
		})
	}
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	assert.Equal(t, ',', opts.Separator)
	assert.Equal(t, `"`, opts.Quote)
	assert.Equal(t, PlatformNewline(), opts.Terminator())
	assert.True(t, opts.IsValid())
	assert.Equal(t, ",", opts.SeparatorString())

	opts.LineTerminator = ""
	assert.Equal(t, PlatformNewline(), opts.Terminator())
}

func TestIsBlank(t *testing.T) {
	assert.True(t, IsBlank(""))
	assert.True(t, IsBlank(" \t\r\n"))
	assert.False(t, IsBlank(" a "))
}
