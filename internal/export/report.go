// Package export renders generated artifacts as CSV, PDF, XLSX and ZIP.
package export

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"github.com/p-n-ai/pai-syllabus/internal/mapping"
	"github.com/p-n-ai/pai-syllabus/internal/planner"
	"github.com/p-n-ai/pai-syllabus/internal/questions"
	"github.com/p-n-ai/pai-syllabus/internal/syllabus"
)

// Report types accepted by the download endpoints.
const (
	TypeQuestions   = "questions"
	TypeLessonPlan  = "lesson_plan"
	TypeCorrelation = "copo_mapping"
	TypeSchedule    = "schedule"
)

var (
	// ErrUnknownType is returned for a report type not listed above.
	ErrUnknownType = errors.New("invalid report type")
	// ErrEmpty is returned when a report has no records to export.
	ErrEmpty = errors.New("no items to export")
)

// Report is the typed body of a download request. Only the records that
// match Type are read.
type Report struct {
	Type            string                    `json:"reportType"`
	Questions       []questions.Question      `json:"questions,omitempty"`
	LessonPlan      []planner.LessonPlanEntry `json:"lessonPlan,omitempty"`
	Mapping         mapping.Mapping           `json:"mapping,omitempty"`
	CourseOutcomes  syllabus.OutcomeMap       `json:"courseOutcomes,omitempty"`
	ProgramOutcomes syllabus.OutcomeMap       `json:"programOutcomes,omitempty"`
	Schedule        []planner.ScheduleEntry   `json:"schedule,omitempty"`
	Filename        string                    `json:"filename,omitempty"`
}

// Table is a report flattened to rows of text.
type Table struct {
	Title  string
	Header []string
	Rows   [][]string
	// Grid marks a matrix better drawn as a grid than as records.
	Grid bool
	// Notes are extra lines printed after the table in documents.
	Notes []string
}

// Table flattens the report. Header cells are the record's field names.
func (r Report) Table() (Table, error) {
	switch r.Type {
	case TypeQuestions:
		return QuestionsTable(r.Questions)
	case TypeLessonPlan:
		return LessonPlanTable(r.LessonPlan)
	case TypeCorrelation:
		return CorrelationTable(r.Mapping, r.CourseOutcomes, r.ProgramOutcomes)
	case TypeSchedule:
		return ScheduleTable(r.Schedule)
	default:
		return Table{}, fmt.Errorf("%w: %q", ErrUnknownType, r.Type)
	}
}

// FileName returns the requested file name with ext, or a default based on
// the report type.
func (r Report) FileName(ext string) string {
	base := strings.TrimSuffix(filepath.Base(r.Filename), filepath.Ext(r.Filename))
	if r.Filename == "" || base == "" || base == "." {
		switch r.Type {
		case TypeQuestions:
			base = "question_bank"
		case TypeLessonPlan:
			base = "lesson_plan"
		case TypeCorrelation:
			base = "copo_mapping"
		case TypeSchedule:
			base = "schedule"
		default:
			base = "export"
		}
	}
	return base + ext
}

func QuestionsTable(qs []questions.Question) (Table, error) {
	if len(qs) == 0 {
		return Table{}, ErrEmpty
	}
	t := Table{
		Title:  "Question Bank",
		Header: []string{"topic", "taxonomy", "difficulty", "question", "answer"},
	}
	for _, q := range qs {
		t.Rows = append(t.Rows, []string{q.Topic, q.Taxonomy, q.Difficulty, q.Question, q.Answer})
	}
	return t, nil
}

func LessonPlanTable(entries []planner.LessonPlanEntry) (Table, error) {
	if len(entries) == 0 {
		return Table{}, ErrEmpty
	}
	t := Table{
		Title:  "Lesson Plan",
		Header: []string{"week", "day", "unit", "topic", "teachingMethod", "activities"},
	}
	for _, e := range entries {
		t.Rows = append(t.Rows, []string{
			strconv.Itoa(e.Week), strconv.Itoa(e.Day), e.Unit, e.Topic, e.TeachingMethod, e.Activities,
		})
	}
	return t, nil
}

func ScheduleTable(entries []planner.ScheduleEntry) (Table, error) {
	if len(entries) == 0 {
		return Table{}, ErrEmpty
	}
	t := Table{
		Title:  "Course Schedule",
		Header: []string{"id", "week", "session", "day", "unit", "topic", "description", "activities"},
	}
	for _, e := range entries {
		t.Rows = append(t.Rows, []string{
			strconv.Itoa(e.ID), strconv.Itoa(e.Week), strconv.Itoa(e.Session),
			e.Day, e.Unit, e.Topic, e.Description, e.Activities,
		})
	}
	return t, nil
}

// CorrelationTable lays the mapping out as a CO by PO matrix. Columns come
// from programOutcomes when given, otherwise from the mapping itself.
// Uncorrelated cells are blank.
func CorrelationTable(m mapping.Mapping, courseOutcomes, programOutcomes syllabus.OutcomeMap) (Table, error) {
	cos := syllabus.OutcomeMap{}
	for id := range courseOutcomes {
		cos[id] = courseOutcomes[id]
	}
	pos := syllabus.OutcomeMap{}
	for id := range programOutcomes {
		pos[id] = programOutcomes[id]
	}
	for co, row := range m {
		if _, ok := cos[co]; !ok {
			cos[co] = ""
		}
		if len(programOutcomes) == 0 {
			for po := range row {
				pos[po] = ""
			}
		}
	}
	if len(m) == 0 || len(cos) == 0 {
		return Table{}, ErrEmpty
	}

	poIDs := pos.IDs()
	t := Table{
		Title:  "CO-PO Mapping",
		Header: append([]string{"course_outcome"}, poIDs...),
		Grid:   true,
	}
	for _, co := range cos.IDs() {
		row := []string{co}
		for _, po := range poIDs {
			cell := ""
			if s, ok := m[co][po]; ok {
				cell = strconv.Itoa(s)
			}
			row = append(row, cell)
		}
		t.Rows = append(t.Rows, row)
	}
	for _, id := range cos.IDs() {
		if d := cos[id]; d != "" {
			t.Notes = append(t.Notes, id+": "+d)
		}
	}
	for _, id := range poIDs {
		if d := pos[id]; d != "" {
			t.Notes = append(t.Notes, id+": "+d)
		}
	}
	return t, nil
}

// Label turns a field name such as "teachingMethod" or "course_outcome"
// into a column label.
func Label(field string) string {
	var words []string
	var cur []rune
	runes := []rune(field)
	for i, r := range runes {
		switch {
		case r == '_' || r == ' ':
			if len(cur) > 0 {
				words = append(words, string(cur))
				cur = nil
			}
			continue
		case unicode.IsUpper(r) && i > 0 && unicode.IsLower(runes[i-1]):
			words = append(words, string(cur))
			cur = nil
		}
		cur = append(cur, r)
	}
	if len(cur) > 0 {
		words = append(words, string(cur))
	}
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
