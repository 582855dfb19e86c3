package services

import (
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/terratensor/csvhelpers/internal/core/domain"
)

// normalizeDiacritics removes combining marks.
// Example: München → Munchen, Crème Brûlée → Creme Brulee
func normalizeDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return result
}

// normalizeFields rewrites text fields in place; numeric and boolean fields are left alone.
func normalizeFields(fields []string) []string {
	for i, f := range fields {
		if domain.IsText(f) {
			fields[i] = normalizeDiacritics(f)
		}
	}
	return fields
}
