// Package syllabus turns raw syllabus text into a structured model of units,
// topics, and course/program outcomes.
package syllabus

import (
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// Topic is a titled span of syllabus content.
type Topic struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// OutcomeMap maps an outcome id such as "CO3" to its description.
type OutcomeMap map[string]string

// IDs returns the outcome ids in natural order, so "CO2" sorts before "CO10".
func (m OutcomeMap) IDs() []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return naturalLess(ids[i], ids[j]) })
	return ids
}

// Structure is the result of extraction.
type Structure struct {
	Topics          []Topic    `json:"topics"`
	Units           []string   `json:"units"`
	CourseOutcomes  OutcomeMap `json:"course_outcomes"`
	ProgramOutcomes OutcomeMap `json:"program_outcomes"`
}

// Document is an uploaded syllabus together with its extracted structure.
type Document struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	Text       string    `json:"-"`
	UploadedAt time.Time `json:"uploaded_at"`
	Structure
}

// NewDocument extracts text and builds an unsaved document.
func NewDocument(filename, text string) Document {
	return Document{
		Filename:  filename,
		Text:      text,
		Structure: Extract(text),
	}
}

// naturalLess orders strings by their non-digit prefix, then by trailing number.
func naturalLess(a, b string) bool {
	pa, na := splitTrailingNumber(a)
	pb, nb := splitTrailingNumber(b)
	if !strings.EqualFold(pa, pb) {
		return strings.ToLower(pa) < strings.ToLower(pb)
	}
	if na != nb {
		return na < nb
	}
	return a < b
}

func splitTrailingNumber(s string) (string, int) {
	i := len(s)
	for i > 0 && unicode.IsDigit(rune(s[i-1])) {
		i--
	}
	n, err := strconv.Atoi(s[i:])
	if err != nil {
		return s, -1
	}
	return strings.TrimSpace(s[:i]), n
}
