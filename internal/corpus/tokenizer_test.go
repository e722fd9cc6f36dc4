package corpus

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{name: "Simple", line: "Hello World", want: []string{"hello", "world"}},
		{name: "Punctuation", line: "Well, that's... fine!", want: []string{"well", "that's", "fine"}},
		{name: "Digits", line: "route 66 rocks", want: []string{"route", "66", "rocks"}},
		{name: "Unicode", line: "Caffè én røst", want: []string{"caffè", "én", "røst"}},
		{name: "Empty", line: "", want: nil},
		{name: "Only Separators", line: " .,;! ", want: nil},
		{name: "Collapsed Whitespace", line: "  spaced    out  ", want: []string{"spaced", "out"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, Tokenize(tt.line)); diff != "" {
				t.Errorf("Tokenize(%q) mismatch (-want +got):\n%s", tt.line, diff)
			}
		})
	}
}
