// Package mapping generates course-outcome to program-outcome correlation
// matrices.
package mapping

import (
	"github.com/p-n-ai/pai-syllabus/internal/platform/random"
	"github.com/p-n-ai/pai-syllabus/internal/syllabus"
)

// strengths is the draw pool; 0 means no correlation.
var strengths = []int{0, 1, 1, 2, 2, 2, 3, 3}

// Mapping maps a CO id to the PO ids it supports and their strength (1-3).
// Uncorrelated pairs are absent.
type Mapping map[string]map[string]int

// Correlate draws an independent strength for every CO/PO pair. Every CO
// gets an entry, possibly empty.
func Correlate(rng random.Source, courseOutcomes, programOutcomes syllabus.OutcomeMap) Mapping {
	m := make(Mapping, len(courseOutcomes))
	poIDs := programOutcomes.IDs()
	for _, co := range courseOutcomes.IDs() {
		row := make(map[string]int)
		for _, po := range poIDs {
			if s := random.Pick(rng, strengths); s > 0 {
				row[po] = s
			}
		}
		m[co] = row
	}
	return m
}

// Pairs counts the stored correlations.
func (m Mapping) Pairs() int {
	n := 0
	for _, row := range m {
		n += len(row)
	}
	return n
}

// Row is one stored correlation, used for tabular export.
type Row struct {
	CourseOutcome  string `json:"course_outcome"`
	ProgramOutcome string `json:"program_outcome"`
	Strength       int    `json:"strength"`
}

// Rows flattens the mapping in natural id order.
func (m Mapping) Rows() []Row {
	cos := make(syllabus.OutcomeMap, len(m))
	for co := range m {
		cos[co] = ""
	}
	var rows []Row
	for _, co := range cos.IDs() {
		pos := make(syllabus.OutcomeMap, len(m[co]))
		for po := range m[co] {
			pos[po] = ""
		}
		for _, po := range pos.IDs() {
			rows = append(rows, Row{CourseOutcome: co, ProgramOutcome: po, Strength: m[co][po]})
		}
	}
	return rows
}
