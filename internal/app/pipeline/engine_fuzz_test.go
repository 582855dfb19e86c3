package pipeline

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/go-logr/logr"

	"github.com/terratensor/csvhelpers/internal/core/domain"
)

func FuzzDecodeFieldCount(f *testing.F) {
	seeds := []string{
		"",
		"a,b,c\n",
		"a,,c",
		"\"a\",1,true\r\n\"b\",2,false\r\n",
		"one\rtwo\n\nthree",
		"\ufeffbom,first\n",
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	e, err := NewEngine(&domain.Options{Separator: ',', Quote: `"`}, logr.Discard())
	if err != nil {
		f.Fatal(err)
	}

	f.Fuzz(func(t *testing.T, input string) {
		if len(input) > 1<<12 || !utf8.ValidString(input) {
			t.Skip()
		}

		lines, fields := 0, 0
		err := e.Decode(strings.NewReader(input), func(got []string, _ domain.Options, _ logr.Logger) error {
			lines++
			fields += len(got)
			for _, field := range got {
				if strings.Contains(field, ",") {
					t.Fatalf("field %q still holds a separator", field)
				}
			}
			return nil
		})
		if err != nil {
			t.Fatalf("Decode() error = %v", err)
		}

		wantLines := countLines(strings.TrimPrefix(input, "\ufeff"))
		if lines != wantLines {
			t.Fatalf("lines = %d, want %d, input=%q", lines, wantLines, input)
		}
		if want := strings.Count(input, ",") + lines; fields != want {
			t.Fatalf("fields = %d, want %d, input=%q", fields, want, input)
		}
	})
}

func countLines(s string) int {
	n := 0
	for len(s) > 0 {
		i := strings.IndexAny(s, "\r\n")
		if i < 0 {
			return n + 1
		}
		n++
		if s[i] == '\r' && i+1 < len(s) && s[i+1] == '\n' {
			i++
		}
		s = s[i+1:]
	}
	return n
}
