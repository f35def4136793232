package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		maxChars int
		want     string
	}{
		{
			name:     "short text used verbatim",
			text:     "  a short document  ",
			maxChars: 500,
			want:     "a short document",
		},
		{
			name:     "first paragraph within bound",
			text:     "First paragraph here.\n\nSecond paragraph that goes on and on.",
			maxChars: 500,
			want:     "First paragraph here.",
		},
		{
			name:     "oversized first paragraph falls back to truncation",
			text:     strings.Repeat("word ", 30) + "\n\nshort tail",
			maxChars: 20,
			want:     strings.Repeat("word ", 3) + "word" + Ellipsis,
		},
		{
			name:     "truncation breaks at last space before cutoff",
			text:     "alpha beta gamma delta",
			maxChars: 12,
			want:     "alpha beta" + Ellipsis,
		},
		{
			name:     "no word boundary appends marker at raw cutoff",
			text:     strings.Repeat("x", 30),
			maxChars: 10,
			want:     strings.Repeat("x", 10) + Ellipsis,
		},
		{
			name:     "exactly at bound is kept whole",
			text:     strings.Repeat("a", 400),
			maxChars: 500,
			want:     strings.Repeat("a", 400),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Summarize(tt.text, tt.maxChars)
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, len(got), tt.maxChars+len(Ellipsis))
		})
	}
}

func TestSummarizeLengthInvariant(t *testing.T) {
	texts := []string{
		"",
		"one",
		strings.Repeat("lorem ipsum dolor sit amet ", 1000),
		strings.Repeat("z", 10_000),
		"para one\n\n" + strings.Repeat("tail ", 500),
	}
	for _, bound := range []int{10, 100, 500} {
		for _, text := range texts {
			got := Summarize(text, bound)
			assert.LessOrEqual(t, len(got), bound+len(Ellipsis),
				"bound %d violated for input of %d bytes", bound, len(text))
		}
	}
}
