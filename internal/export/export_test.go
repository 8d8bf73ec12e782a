package export

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/p-n-ai/pai-syllabus/internal/mapping"
	"github.com/p-n-ai/pai-syllabus/internal/planner"
	"github.com/p-n-ai/pai-syllabus/internal/questions"
	"github.com/p-n-ai/pai-syllabus/internal/syllabus"
)

func sampleQuestions() []questions.Question {
	return []questions.Question{
		{Topic: "Unit I", Taxonomy: "Remember", Difficulty: "Easy", Question: "What is a set?", Answer: "A collection, of things."},
		{Topic: "Unit II", Taxonomy: "Apply", Difficulty: "Hard", Question: "Compose R and S.", Answer: "R∘S"},
	}
}

func TestReport_Table(t *testing.T) {
	tests := []struct {
		name       string
		report     Report
		wantHeader []string
		wantRows   int
	}{
		{
			name:       "questions",
			report:     Report{Type: TypeQuestions, Questions: sampleQuestions()},
			wantHeader: []string{"topic", "taxonomy", "difficulty", "question", "answer"},
			wantRows:   2,
		},
		{
			name:       "lesson plan",
			report:     Report{Type: TypeLessonPlan, LessonPlan: []planner.LessonPlanEntry{{Week: 1, Day: 2, Unit: "U", Topic: "T"}}},
			wantHeader: []string{"week", "day", "unit", "topic", "teachingMethod", "activities"},
			wantRows:   1,
		},
		{
			name:       "schedule",
			report:     Report{Type: TypeSchedule, Schedule: []planner.ScheduleEntry{{ID: 1, Week: 1, Session: 1}}},
			wantHeader: []string{"id", "week", "session", "day", "unit", "topic", "description", "activities"},
			wantRows:   1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tab, err := tt.report.Table()
			require.NoError(t, err)
			assert.Equal(t, tt.wantHeader, tab.Header)
			assert.Len(t, tab.Rows, tt.wantRows)
			for _, row := range tab.Rows {
				assert.Len(t, row, len(tab.Header))
			}
		})
	}
}

func TestReport_TableErrors(t *testing.T) {
	_, err := Report{Type: "slides"}.Table()
	assert.True(t, errors.Is(err, ErrUnknownType))

	for _, typ := range []string{TypeQuestions, TypeLessonPlan, TypeCorrelation, TypeSchedule} {
		_, err := Report{Type: typ}.Table()
		assert.ErrorIs(t, err, ErrEmpty, typ)
	}
}

func TestReport_FileName(t *testing.T) {
	assert.Equal(t, "question_bank.csv", Report{Type: TypeQuestions}.FileName(".csv"))
	assert.Equal(t, "copo_mapping.pdf", Report{Type: TypeCorrelation}.FileName(".pdf"))
	assert.Equal(t, "my_plan.xlsx", Report{Type: TypeLessonPlan, Filename: "my_plan.pdf"}.FileName(".xlsx"))
	assert.Equal(t, "passwd.csv", Report{Type: TypeSchedule, Filename: "../../passwd"}.FileName(".csv"))
}

func TestCorrelationTable(t *testing.T) {
	m := mapping.Mapping{"CO1": {"PO2": 3}, "CO2": {"PO1": 1, "PO10": 2}}
	pos := syllabus.OutcomeMap{"PO1": "Knowledge", "PO2": "Analysis", "PO10": "Communication"}
	cos := syllabus.OutcomeMap{"CO1": "Solve", "CO2": "Explain"}

	tab, err := CorrelationTable(m, cos, pos)
	require.NoError(t, err)
	assert.True(t, tab.Grid)
	assert.Equal(t, []string{"course_outcome", "PO1", "PO2", "PO10"}, tab.Header)
	assert.Equal(t, [][]string{
		{"CO1", "", "3", ""},
		{"CO2", "1", "", "2"},
	}, tab.Rows)
	assert.Contains(t, tab.Notes, "CO1: Solve")
	assert.Contains(t, tab.Notes, "PO10: Communication")
}

func TestCorrelationTable_ColumnsFromMapping(t *testing.T) {
	tab, err := CorrelationTable(mapping.Mapping{"CO1": {"PO3": 1, "PO1": 2}}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"course_outcome", "PO1", "PO3"}, tab.Header)
	assert.Empty(t, tab.Notes)
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Teaching Method", Label("teachingMethod"))
	assert.Equal(t, "Course Outcome", Label("course_outcome"))
	assert.Equal(t, "PO10", Label("PO10"))
	assert.Equal(t, "Topic", Label("topic"))
}

func TestWriteCSV(t *testing.T) {
	tab, err := QuestionsTable(sampleQuestions())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, tab))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, tab.Header, records[0])
	assert.Equal(t, "A collection, of things.", records[1][4])
}

func TestWritePDF(t *testing.T) {
	for _, report := range []Report{
		{Type: TypeQuestions, Questions: sampleQuestions()},
		{Type: TypeCorrelation, Mapping: mapping.Mapping{"CO1": {"PO1": 2}}, ProgramOutcomes: syllabus.DefaultProgramOutcomes()},
	} {
		tab, err := report.Table()
		require.NoError(t, err)

		var buf bytes.Buffer
		require.NoError(t, WritePDF(&buf, tab))
		assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")), report.Type)
	}
}

func TestWriteDocument(t *testing.T) {
	var buf bytes.Buffer
	body := "# Brief Introduction\nSets are **collections**.\n\n## Key Concepts\n- Union\n- Intersection"
	require.NoError(t, WriteDocument(&buf, "Unit: Unit I", body))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	assert.Greater(t, buf.Len(), 500)
}

func TestWriteXLSX(t *testing.T) {
	tab, err := LessonPlanTable([]planner.LessonPlanEntry{
		{Week: 1, Day: 1, Unit: "Unit I", Topic: "Sets", TeachingMethod: "Lecture", Activities: "Quiz"},
		{Week: 1, Day: 2, Unit: "Unit I", Topic: "Sets", TeachingMethod: "Debate", Activities: "Quiz"},
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, tab))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Lesson Plan")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "teachingMethod", rows[0][4])
	assert.Equal(t, "Debate", rows[2][4])
	assert.Equal(t, "2", rows[2][1])
}

func TestSheetName(t *testing.T) {
	assert.Equal(t, "CO-PO Mapping", sheetName("CO-PO Mapping"))
	assert.Equal(t, "a-b-c", sheetName("a/b:c"))
	assert.Equal(t, "Sheet1", sheetName(""))
	assert.Len(t, []rune(sheetName("a very long title that exceeds the excel limit")), 31)
}

func TestWriteZIP(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteZIP(&buf, []File{
		{Name: "Unit_I.pdf", Data: []byte("one")},
		{Name: "Unit_II.pdf", Data: []byte("two")},
		{Name: "Unit_I.pdf", Data: []byte("three")},
	}))

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)

	names := make([]string, len(zr.File))
	for i, f := range zr.File {
		names[i] = f.Name
	}
	assert.Equal(t, []string{"Unit_I.pdf", "Unit_II.pdf", "2_Unit_I.pdf"}, names)

	rc, err := zr.File[2].Open()
	require.NoError(t, err)
	defer rc.Close()
	b, _ := io.ReadAll(rc)
	assert.Equal(t, "three", string(b))
}
