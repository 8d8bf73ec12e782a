package store_test

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/p-n-ai/pai-syllabus/internal/mapping"
	"github.com/p-n-ai/pai-syllabus/internal/questions"
	"github.com/p-n-ai/pai-syllabus/internal/store"
	"github.com/p-n-ai/pai-syllabus/internal/syllabus"
)

func TestMemoryStore_SyllabusLifecycle(t *testing.T) {
	s := store.NewMemoryStore()

	doc, err := s.AddSyllabus(syllabus.NewDocument("algebra.txt", "Unit I Sets and functions.\nUnit II Relations."))
	if err != nil {
		t.Fatalf("AddSyllabus() error = %v", err)
	}
	if doc.ID != "1" {
		t.Errorf("ID = %q, want 1", doc.ID)
	}
	if doc.UploadedAt.IsZero() {
		t.Error("UploadedAt should be set")
	}

	got, err := s.GetSyllabus("1")
	if err != nil {
		t.Fatalf("GetSyllabus() error = %v", err)
	}
	if got.Filename != "algebra.txt" {
		t.Errorf("Filename = %q, want algebra.txt", got.Filename)
	}
	if len(got.Topics) != 2 {
		t.Errorf("Topics count = %d, want 2", len(got.Topics))
	}

	second, _ := s.AddSyllabus(syllabus.NewDocument("b.txt", "text"))
	if second.ID != "2" {
		t.Errorf("second ID = %q, want 2", second.ID)
	}

	list, err := s.ListSyllabi()
	if err != nil {
		t.Fatalf("ListSyllabi() error = %v", err)
	}
	if len(list) != 2 || list[0].ID != "1" || list[1].ID != "2" {
		t.Errorf("ListSyllabi() = %+v, want ids 1,2 in order", list)
	}
}

func TestMemoryStore_NotFound(t *testing.T) {
	s := store.NewMemoryStore()
	s.AddSyllabus(syllabus.NewDocument("a.txt", "x"))

	for _, id := range []string{"", "0", "2", "abc", "-1"} {
		if _, err := s.GetSyllabus(id); !errors.Is(err, store.ErrNotFound) {
			t.Errorf("GetSyllabus(%q) error = %v, want ErrNotFound", id, err)
		}
	}
	if _, err := s.GetMaterial("1"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("GetMaterial() error = %v, want ErrNotFound", err)
	}
}

func TestMemoryStore_Stats(t *testing.T) {
	s := store.NewMemoryStore()
	for i := range 5 {
		s.AddSyllabus(syllabus.NewDocument(fmt.Sprintf("s%d.txt", i+1), "x"))
	}
	s.AddQuestions(store.QuestionSet{Questions: make([]questions.Question, 4)})
	s.AddQuestions(store.QuestionSet{Questions: make([]questions.Question, 2)})
	s.AddLessonPlan(store.LessonPlan{})
	s.AddCorrelation(store.Correlation{Mapping: mapping.Mapping{}})
	s.AddSchedule(store.Schedule{})
	s.AddMaterial(store.Material{FileName: "slides.pdf"})

	st, err := s.Stats()
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if st.Syllabi != 5 {
		t.Errorf("Syllabi = %d, want 5", st.Syllabi)
	}
	if st.Questions != 6 {
		t.Errorf("Questions = %d, want 6", st.Questions)
	}
	if st.LessonPlans != 1 || st.Correlations != 1 || st.Schedules != 1 || st.Materials != 1 {
		t.Errorf("Stats = %+v", st)
	}
	if len(st.Recent) != 3 {
		t.Fatalf("Recent count = %d, want 3", len(st.Recent))
	}
	if st.Recent[0].Filename != "s3.txt" || st.Recent[2].Filename != "s5.txt" {
		t.Errorf("Recent = %s..%s, want s3.txt..s5.txt", st.Recent[0].Filename, st.Recent[2].Filename)
	}
}

func TestMemoryStore_ConcurrentIDsAreUnique(t *testing.T) {
	s := store.NewMemoryStore()

	const n = 100
	ids := make(chan string, n)
	var wg sync.WaitGroup
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			doc, err := s.AddSyllabus(syllabus.Document{Filename: "x"})
			if err != nil {
				t.Errorf("AddSyllabus() error = %v", err)
				return
			}
			ids <- doc.ID
		}()
	}
	wg.Wait()
	close(ids)

	seen := map[string]bool{}
	for id := range ids {
		if seen[id] {
			t.Errorf("duplicate id %q", id)
		}
		seen[id] = true
	}
	if len(seen) != n {
		t.Errorf("unique ids = %d, want %d", len(seen), n)
	}
	for i := 1; i <= n; i++ {
		if !seen[fmt.Sprint(i)] {
			t.Errorf("missing id %d", i)
		}
	}
}

func TestMemoryStore_MaterialRoundTrip(t *testing.T) {
	s := store.NewMemoryStore()

	m, err := s.AddMaterial(store.Material{FileName: "notes.pdf", Category: "Lecture Slides", SyllabusID: "1", Path: "/tmp/x"})
	if err != nil {
		t.Fatalf("AddMaterial() error = %v", err)
	}
	if m.ID != "1" {
		t.Errorf("ID = %q, want 1", m.ID)
	}

	got, err := s.GetMaterial("1")
	if err != nil {
		t.Fatalf("GetMaterial() error = %v", err)
	}
	if got.Path != "/tmp/x" || got.Category != "Lecture Slides" {
		t.Errorf("GetMaterial() = %+v", got)
	}
}
