package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type company struct{ name string }

func (c company) String() string { return "Company " + c.name }

func TestKind(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected FieldKind
	}{
		{"integer", "42", KindNumeric},
		{"float", "3.14", KindNumeric},
		{"negative exponent", "-1.5e-3", KindNumeric},
		{"padded number", "  7 ", KindNumeric},
		{"overflow", "1e400", KindNumeric},
		{"int value", 12, KindNumeric},
		{"float value", 2.5, KindNumeric},
		{"decimal value", decimal.RequireFromString("12.34"), KindNumeric},
		{"hex is text", "0x1p-2", KindText},
		{"thousands separator is text", "1,000", KindText},
		{"inf is text", "inf", KindText},
		{"signed infinity is text", "+Infinity", KindText},
		{"nan is text", "NaN", KindText},
		{"negative inf is text", "-INF", KindText},
		{"true", "true", KindBool},
		{"mixed case", "FaLsE", KindBool},
		{"bool value", true, KindBool},
		{"one is numeric not bool", "1", KindNumeric},
		{"t is text", "t", KindText},
		{"word", "alpha", KindText},
		{"empty", "", KindText},
		{"whitespace", "   ", KindText},
		{"nil", nil, KindText},
		{"stringer", company{"Acme"}, KindText},
		{"quoted number", `"3"`, KindText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Kind(tt.input), "Kind(%v)", tt.input)
			assert.Equal(t, tt.expected == KindText, IsText(tt.input))
			assert.Equal(t, tt.expected == KindNumeric, IsNumeric(tt.input))
			assert.Equal(t, tt.expected == KindBool, IsBool(tt.input))
		})
	}
}

func TestStringify(t *testing.T) {
	assert.Equal(t, "", Stringify(nil))
	assert.Equal(t, "abc", Stringify("abc"))
	assert.Equal(t, "raw", Stringify([]byte("raw")))
	assert.Equal(t, "Company Acme", Stringify(company{"Acme"}))
	assert.Equal(t, "true", Stringify(true))
	assert.Equal(t, "12.5", Stringify(12.5))
	assert.Equal(t, "7", Stringify(int64(7)))
}

func TestFieldKindString(t *testing.T) {
	assert.Equal(t, "numeric", KindNumeric.String())
	assert.Equal(t, "boolean", KindBool.String())
	assert.Equal(t, "text", KindText.String())
}
