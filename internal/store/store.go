// Package store keeps uploaded syllabi and everything generated from them.
package store

import (
	"errors"
	"time"

	"github.com/p-n-ai/pai-syllabus/internal/mapping"
	"github.com/p-n-ai/pai-syllabus/internal/planner"
	"github.com/p-n-ai/pai-syllabus/internal/questions"
	"github.com/p-n-ai/pai-syllabus/internal/syllabus"
)

// ErrNotFound is returned when an id does not name a stored record.
var ErrNotFound = errors.New("not found")

// recentLimit is how many uploads Stats reports.
const recentLimit = 3

// QuestionSet is one generate-questions result.
type QuestionSet struct {
	ID         string               `json:"id"`
	SyllabusID string               `json:"syllabus_id,omitempty"`
	Questions  []questions.Question `json:"questions"`
	CreatedAt  time.Time            `json:"created_at"`
}

// LessonPlan is either a day-by-day calendar, a per-unit outline, or both.
type LessonPlan struct {
	ID         string                    `json:"id"`
	SyllabusID string                    `json:"syllabus_id,omitempty"`
	Entries    []planner.LessonPlanEntry `json:"plan,omitempty"`
	Outline    []planner.UnitOutline     `json:"units,omitempty"`
	CreatedAt  time.Time                 `json:"created_at"`
}

// Correlation is a stored CO-PO mapping with the outcomes it was drawn over.
type Correlation struct {
	ID              string              `json:"id"`
	SyllabusID      string              `json:"syllabus_id,omitempty"`
	Mapping         mapping.Mapping     `json:"mapping"`
	CourseOutcomes  syllabus.OutcomeMap `json:"course_outcomes"`
	ProgramOutcomes syllabus.OutcomeMap `json:"program_outcomes"`
	CreatedAt       time.Time           `json:"created_at"`
}

// Schedule is a stored session schedule.
type Schedule struct {
	ID           string                  `json:"id"`
	SyllabusID   string                  `json:"syllabus_id,omitempty"`
	Entries      []planner.ScheduleEntry `json:"schedule"`
	TotalWeeks   int                     `json:"total_weeks"`
	HoursPerWeek int                     `json:"hours_per_week"`
	CreatedAt    time.Time               `json:"created_at"`
}

// Material is an uploaded course file. Path locates the bytes on disk.
type Material struct {
	ID         string    `json:"id"`
	FileName   string    `json:"fileName"`
	Category   string    `json:"category"`
	SyllabusID string    `json:"syllabus_id"`
	Path       string    `json:"-"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// Stats summarises the store for the dashboard.
type Stats struct {
	Syllabi      int
	Questions    int
	LessonPlans  int
	Correlations int
	Schedules    int
	Materials    int
	// Recent holds the latest uploads, oldest first.
	Recent []syllabus.Document
}

// Store is the artifact registry. Ids are assigned by the store, are
// sequential per record kind starting at "1", and are never reused.
type Store interface {
	AddSyllabus(doc syllabus.Document) (syllabus.Document, error)
	GetSyllabus(id string) (syllabus.Document, error)
	ListSyllabi() ([]syllabus.Document, error)

	AddQuestions(set QuestionSet) (string, error)
	AddLessonPlan(plan LessonPlan) (string, error)
	AddCorrelation(c Correlation) (string, error)
	AddSchedule(s Schedule) (string, error)

	AddMaterial(m Material) (Material, error)
	GetMaterial(id string) (Material, error)

	Stats() (Stats, error)
}
