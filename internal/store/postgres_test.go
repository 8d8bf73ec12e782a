package store_test

import (
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/p-n-ai/pai-syllabus/internal/mapping"
	"github.com/p-n-ai/pai-syllabus/internal/planner"
	"github.com/p-n-ai/pai-syllabus/internal/questions"
	"github.com/p-n-ai/pai-syllabus/internal/store"
	"github.com/p-n-ai/pai-syllabus/internal/syllabus"
)

func newPostgresStore(t *testing.T) *store.PostgresStore {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}

	ctx := t.Context()
	ctr, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("syllabus"),
		postgres.WithUsername("syllabus"),
		postgres.WithPassword("syllabus"),
		postgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, ctr)
	if err != nil {
		t.Skipf("postgres container unavailable: %v", err)
	}

	url, err := ctr.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("ConnectionString() error = %v", err)
	}
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		t.Fatalf("pgxpool.New() error = %v", err)
	}
	t.Cleanup(pool.Close)

	s, err := store.NewPostgresStore(ctx, pool)
	if err != nil {
		t.Fatalf("NewPostgresStore() error = %v", err)
	}
	// Applying the schema twice must be harmless.
	if _, err := store.NewPostgresStore(ctx, pool); err != nil {
		t.Fatalf("NewPostgresStore() second call error = %v", err)
	}
	return s
}

func TestPostgresStore(t *testing.T) {
	s := newPostgresStore(t)

	doc, err := s.AddSyllabus(syllabus.NewDocument("algebra.txt", "Unit I Sets.\nUnit II Relations.\nCO1: Solve problems"))
	if err != nil {
		t.Fatalf("AddSyllabus() error = %v", err)
	}
	if doc.ID != "1" {
		t.Errorf("ID = %q, want 1", doc.ID)
	}

	got, err := s.GetSyllabus(doc.ID)
	if err != nil {
		t.Fatalf("GetSyllabus() error = %v", err)
	}
	if got.Filename != "algebra.txt" {
		t.Errorf("Filename = %q", got.Filename)
	}
	if len(got.Topics) != 2 || got.Topics[1].Title != "Unit II" {
		t.Errorf("Topics = %+v", got.Topics)
	}
	if got.CourseOutcomes["CO1"] != "Solve problems" {
		t.Errorf("CourseOutcomes = %+v", got.CourseOutcomes)
	}
	if got.Text == "" {
		t.Error("raw text was not stored")
	}

	if _, err := s.GetSyllabus("999"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("GetSyllabus(999) error = %v, want ErrNotFound", err)
	}
	if _, err := s.GetSyllabus("abc"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("GetSyllabus(abc) error = %v, want ErrNotFound", err)
	}

	qid, err := s.AddQuestions(store.QuestionSet{
		SyllabusID: doc.ID,
		Questions:  []questions.Question{{Topic: "Unit I", Question: "What is a set?"}, {Topic: "Unit II", Question: "Define a relation."}},
	})
	if err != nil {
		t.Fatalf("AddQuestions() error = %v", err)
	}
	if qid != "1" {
		t.Errorf("question set id = %q, want 1", qid)
	}

	if _, err := s.AddLessonPlan(store.LessonPlan{
		SyllabusID: doc.ID,
		Entries:    []planner.LessonPlanEntry{{Week: 1, Day: 1, Unit: "Unit I", Topic: "Unit I"}},
	}); err != nil {
		t.Fatalf("AddLessonPlan() error = %v", err)
	}
	if _, err := s.AddCorrelation(store.Correlation{
		Mapping:         mapping.Mapping{"CO1": {"PO1": 2}},
		CourseOutcomes:  got.CourseOutcomes,
		ProgramOutcomes: got.ProgramOutcomes,
	}); err != nil {
		t.Fatalf("AddCorrelation() error = %v", err)
	}
	if _, err := s.AddSchedule(store.Schedule{SyllabusID: doc.ID, TotalWeeks: 16, HoursPerWeek: 3}); err != nil {
		t.Fatalf("AddSchedule() error = %v", err)
	}

	m, err := s.AddMaterial(store.Material{FileName: "slides.pdf", Category: "Lecture Slides", Path: "/data/x_slides.pdf", UploadedAt: time.Now()})
	if err != nil {
		t.Fatalf("AddMaterial() error = %v", err)
	}
	gotM, err := s.GetMaterial(m.ID)
	if err != nil {
		t.Fatalf("GetMaterial() error = %v", err)
	}
	if gotM.Path != "/data/x_slides.pdf" || gotM.SyllabusID != "" {
		t.Errorf("GetMaterial() = %+v", gotM)
	}

	st, err := s.Stats()
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if st.Syllabi != 1 || st.Questions != 2 || st.LessonPlans != 1 || st.Correlations != 1 || st.Schedules != 1 || st.Materials != 1 {
		t.Errorf("Stats() = %+v", st)
	}
	if len(st.Recent) != 1 || st.Recent[0].ID != doc.ID {
		t.Errorf("Recent = %+v", st.Recent)
	}

	list, err := s.ListSyllabi()
	if err != nil {
		t.Fatalf("ListSyllabi() error = %v", err)
	}
	if len(list) != 1 {
		t.Errorf("ListSyllabi() count = %d, want 1", len(list))
	}
}
