package domain

import (
	"encoding"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// FieldKind is the runtime classification of a field's string form.
type FieldKind int

const (
	KindText FieldKind = iota
	KindNumeric
	KindBool
)

func (k FieldKind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindBool:
		return "boolean"
	default:
		return "text"
	}
}

// Stringify renders an encode-path value the way it is written to a line.
func Stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	case fmt.Stringer:
		return t.String()
	case encoding.TextMarshaler:
		b, err := t.MarshalText()
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(b)
	default:
		return fmt.Sprint(v)
	}
}

// Kind classifies v. The result is derived on every call and never cached.
func Kind(v any) FieldKind {
	s := Stringify(v)
	switch {
	case isNumeric(s):
		return KindNumeric
	case isBool(s):
		return KindBool
	default:
		return KindText
	}
}

// IsNumeric reports whether v parses as a float64 in plain decimal notation.
func IsNumeric(v any) bool {
	return isNumeric(Stringify(v))
}

// IsBool reports whether v is a true/false literal, ignoring case.
func IsBool(v any) bool {
	return isBool(Stringify(v))
}

// IsText reports whether v is neither numeric nor boolean. Blank values are text.
func IsText(v any) bool {
	return Kind(v) == KindText
}

func isNumeric(s string) bool {
	if IsBlank(s) {
		return false
	}
	s = strings.TrimSpace(s)
	unsigned := strings.TrimLeft(s, "+-")
	if len(unsigned) > 1 && unsigned[0] == '0' && (unsigned[1] == 'x' || unsigned[1] == 'X') {
		return false
	}
	// ParseFloat also takes the special values; only decimal notation counts.
	for _, special := range []string{"inf", "infinity", "nan"} {
		if strings.EqualFold(unsigned, special) {
			return false
		}
	}
	if _, err := strconv.ParseFloat(s, 64); err != nil {
		// Overflow still means the text is a number.
		return errors.Is(err, strconv.ErrRange)
	}
	return true
}

func isBool(s string) bool {
	if IsBlank(s) {
		return false
	}
	s = strings.TrimSpace(s)
	return strings.EqualFold(s, "true") || strings.EqualFold(s, "false")
}
