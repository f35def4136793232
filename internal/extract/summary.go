package extract

import "strings"

// Ellipsis is appended when a summary had to be truncated.
const Ellipsis = "..."

// Summarize derives a bounded summary from extracted text. The first
// blank-line paragraph is used verbatim when it fits within maxChars;
// otherwise the text is cut at maxChars and trimmed back to the last word
// boundary before the cutoff. The result is never longer than
// maxChars + len(Ellipsis).
func Summarize(text string, maxChars int) string {
	trimmed := strings.TrimSpace(text)

	if i := strings.Index(trimmed, "\n\n"); i >= 0 {
		first := trimmed[:i]
		if len(first) <= maxChars {
			return first
		}
	}

	return preview(trimmed, maxChars)
}

// preview truncates text to maxChars, breaking at the last space before the
// cutoff when one exists.
func preview(text string, maxChars int) string {
	if len(text) <= maxChars {
		return text
	}
	cut := text[:maxChars]
	if i := strings.LastIndexByte(cut, ' '); i >= 0 {
		cut = cut[:i]
	}
	return cut + Ellipsis
}
