package store

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/p-n-ai/pai-syllabus/internal/syllabus"
)

// MemoryStore is an in-memory Store. Contents live until the process exits.
type MemoryStore struct {
	mu           sync.RWMutex
	syllabi      []syllabus.Document
	questionSets []QuestionSet
	questions    int
	lessonPlans  []LessonPlan
	correlations []Correlation
	schedules    []Schedule
	materials    []Material
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) AddSyllabus(doc syllabus.Document) (syllabus.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc.ID = nextID(len(s.syllabi))
	if doc.UploadedAt.IsZero() {
		doc.UploadedAt = time.Now()
	}
	s.syllabi = append(s.syllabi, doc)
	return doc, nil
}

func (s *MemoryStore) GetSyllabus(id string) (syllabus.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := index(id, len(s.syllabi))
	if !ok {
		return syllabus.Document{}, fmt.Errorf("syllabus %s: %w", id, ErrNotFound)
	}
	return s.syllabi[i], nil
}

func (s *MemoryStore) ListSyllabi() ([]syllabus.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]syllabus.Document, len(s.syllabi))
	copy(out, s.syllabi)
	return out, nil
}

func (s *MemoryStore) AddQuestions(set QuestionSet) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	set.ID = nextID(len(s.questionSets))
	set.CreatedAt = stamp(set.CreatedAt)
	s.questionSets = append(s.questionSets, set)
	s.questions += len(set.Questions)
	return set.ID, nil
}

func (s *MemoryStore) AddLessonPlan(plan LessonPlan) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	plan.ID = nextID(len(s.lessonPlans))
	plan.CreatedAt = stamp(plan.CreatedAt)
	s.lessonPlans = append(s.lessonPlans, plan)
	return plan.ID, nil
}

func (s *MemoryStore) AddCorrelation(c Correlation) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c.ID = nextID(len(s.correlations))
	c.CreatedAt = stamp(c.CreatedAt)
	s.correlations = append(s.correlations, c)
	return c.ID, nil
}

func (s *MemoryStore) AddSchedule(sc Schedule) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sc.ID = nextID(len(s.schedules))
	sc.CreatedAt = stamp(sc.CreatedAt)
	s.schedules = append(s.schedules, sc)
	return sc.ID, nil
}

func (s *MemoryStore) AddMaterial(m Material) (Material, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m.ID = nextID(len(s.materials))
	m.UploadedAt = stamp(m.UploadedAt)
	s.materials = append(s.materials, m)
	return m, nil
}

func (s *MemoryStore) GetMaterial(id string) (Material, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := index(id, len(s.materials))
	if !ok {
		return Material{}, fmt.Errorf("material %s: %w", id, ErrNotFound)
	}
	return s.materials[i], nil
}

func (s *MemoryStore) Stats() (Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	recent := s.syllabi[max(0, len(s.syllabi)-recentLimit):]
	return Stats{
		Syllabi:      len(s.syllabi),
		Questions:    s.questions,
		LessonPlans:  len(s.lessonPlans),
		Correlations: len(s.correlations),
		Schedules:    len(s.schedules),
		Materials:    len(s.materials),
		Recent:       append([]syllabus.Document(nil), recent...),
	}, nil
}

// Records are append-only, so the id of the n-th record is n.
func nextID(count int) string {
	return strconv.Itoa(count + 1)
}

func index(id string, count int) (int, bool) {
	n, err := strconv.Atoi(id)
	if err != nil || n < 1 || n > count {
		return 0, false
	}
	return n - 1, true
}

func stamp(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now()
	}
	return t
}
