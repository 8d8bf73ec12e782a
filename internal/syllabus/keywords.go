package syllabus

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Keywords returns the words of content that look like proper nouns or
// technical terms: capitalized and longer than minRunes. Surrounding
// punctuation is trimmed first, so "Sets." yields "Sets". Order and
// duplicates are preserved.
func Keywords(content string, minRunes int) []string {
	var out []string
	for _, w := range strings.Fields(content) {
		w = strings.TrimFunc(w, unicode.IsPunct)
		if utf8.RuneCountInString(w) <= minRunes {
			continue
		}
		first, _ := utf8.DecodeRuneInString(w)
		if unicode.IsUpper(first) {
			out = append(out, w)
		}
	}
	return out
}
