// Package generator runs every content generator against one syllabus and
// compiles model-written course material.
package generator

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/p-n-ai/pai-syllabus/internal/catalog"
	"github.com/p-n-ai/pai-syllabus/internal/mapping"
	"github.com/p-n-ai/pai-syllabus/internal/planner"
	"github.com/p-n-ai/pai-syllabus/internal/platform/random"
	"github.com/p-n-ai/pai-syllabus/internal/questions"
	"github.com/p-n-ai/pai-syllabus/internal/store"
	"github.com/p-n-ai/pai-syllabus/internal/syllabus"
)

// Generate-all stage names, as reported in Progress events.
const (
	StageQuestions  = "questions"
	StageLessonPlan = "lesson_plan"
	StageMapping    = "copo_mapping"
	StageSchedule   = "schedule"
)

// Question mix used by GenerateAll: the first three taxonomy levels at the
// first two difficulties, one question each.
var (
	allLevels       = catalog.Levels[:3]
	allDifficulties = []string{"Easy", "Medium"}
)

// Progress reports a finished stage. Count is the number of records the
// stage produced; ID is the stored record id when there is one.
type Progress struct {
	Stage string `json:"stage"`
	Count int    `json:"count"`
	ID    string `json:"id,omitempty"`
}

// Result summarises a GenerateAll run.
type Result struct {
	SyllabusID      string
	Questions       int
	LessonPlanID    string
	CorrelationID   string
	ScheduleEntries int
}

// Generator produces and stores the full material set for a syllabus.
type Generator struct {
	store store.Store
	cat   *catalog.Catalog
	rng   random.Source
}

// New returns a Generator. rng is wrapped so stages can share it.
func New(st store.Store, cat *catalog.Catalog, rng random.Source) *Generator {
	if cat == nil {
		cat = catalog.Default()
	}
	if rng == nil {
		rng = random.Default()
	}
	return &Generator{store: st, cat: cat, rng: random.Synchronized(rng)}
}

// GenerateAll runs the question, outline, mapping and schedule stages
// concurrently and stores each result. progress, if non-nil, is called once
// per finished stage; calls never overlap.
func (g *Generator) GenerateAll(ctx context.Context, doc syllabus.Document, progress func(Progress)) (Result, error) {
	var mu sync.Mutex
	report := func(p Progress) {
		slog.Debug("generate-all stage done", "syllabus_id", doc.ID, "stage", p.Stage, "count", p.Count)
		if progress == nil {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		progress(p)
	}

	res := Result{SyllabusID: doc.ID}
	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		synth := questions.NewSynthesizer(g.cat, g.rng)
		var qs []questions.Question
		for _, topic := range doc.Topics {
			for _, level := range allLevels {
				for _, difficulty := range allDifficulties {
					qs = append(qs, synth.Synthesize(topic, level, difficulty, 1)...)
				}
			}
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		id, err := g.store.AddQuestions(store.QuestionSet{SyllabusID: doc.ID, Questions: qs})
		if err != nil {
			return fmt.Errorf("store questions: %w", err)
		}
		res.Questions = len(qs)
		report(Progress{Stage: StageQuestions, Count: len(qs), ID: id})
		return nil
	})

	eg.Go(func() error {
		outline := planner.OutlinePlan(g.rng, g.cat, doc.Units, doc.Topics)
		if err := ctx.Err(); err != nil {
			return err
		}
		id, err := g.store.AddLessonPlan(store.LessonPlan{SyllabusID: doc.ID, Outline: outline})
		if err != nil {
			return fmt.Errorf("store lesson plan: %w", err)
		}
		res.LessonPlanID = id
		report(Progress{Stage: StageLessonPlan, Count: len(outline), ID: id})
		return nil
	})

	eg.Go(func() error {
		m := mapping.Correlate(g.rng, doc.CourseOutcomes, doc.ProgramOutcomes)
		if err := ctx.Err(); err != nil {
			return err
		}
		id, err := g.store.AddCorrelation(store.Correlation{
			SyllabusID:      doc.ID,
			Mapping:         m,
			CourseOutcomes:  doc.CourseOutcomes,
			ProgramOutcomes: doc.ProgramOutcomes,
		})
		if err != nil {
			return fmt.Errorf("store mapping: %w", err)
		}
		res.CorrelationID = id
		report(Progress{Stage: StageMapping, Count: m.Pairs(), ID: id})
		return nil
	})

	eg.Go(func() error {
		entries := planner.Schedule(g.rng, g.cat, doc.Topics, doc.Units, planner.DefaultTotalWeeks, planner.DefaultHoursPerWeek)
		if err := ctx.Err(); err != nil {
			return err
		}
		id, err := g.store.AddSchedule(store.Schedule{
			SyllabusID:   doc.ID,
			Entries:      entries,
			TotalWeeks:   planner.DefaultTotalWeeks,
			HoursPerWeek: planner.DefaultHoursPerWeek,
		})
		if err != nil {
			return fmt.Errorf("store schedule: %w", err)
		}
		res.ScheduleEntries = len(entries)
		report(Progress{Stage: StageSchedule, Count: len(entries), ID: id})
		return nil
	})

	if err := eg.Wait(); err != nil {
		return Result{}, err
	}
	return res, nil
}
