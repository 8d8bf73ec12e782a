package syllabus_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/p-n-ai/pai-syllabus/internal/syllabus"
)

func TestKeywords(t *testing.T) {
	tests := []struct {
		name    string
		content string
		min     int
		want    []string
	}{
		{"capitalized longer than three", "Intro to Sets and Venn Diagrams.", 3, []string{"Intro", "Sets", "Venn", "Diagrams"}},
		{"punctuation trimmed", "(Boolean) algebra, Karnaugh-maps.", 3, []string{"Boolean", "Karnaugh-maps"}},
		{"stricter minimum", "Sets Graphs Trees", 4, []string{"Graphs", "Trees"}},
		{"nothing qualifies", "lower case only", 3, nil},
		{"unicode capitals", "Élan Ärger", 3, []string{"Élan", "Ärger"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, syllabus.Keywords(tt.content, tt.min))
		})
	}
}
