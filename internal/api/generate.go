package api

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/p-n-ai/pai-syllabus/internal/ai"
	"github.com/p-n-ai/pai-syllabus/internal/export"
	"github.com/p-n-ai/pai-syllabus/internal/generator"
	"github.com/p-n-ai/pai-syllabus/internal/mapping"
	"github.com/p-n-ai/pai-syllabus/internal/planner"
	"github.com/p-n-ai/pai-syllabus/internal/questions"
	"github.com/p-n-ai/pai-syllabus/internal/store"
	"github.com/p-n-ai/pai-syllabus/internal/syllabus"
)

// Generation modes.
const (
	modeTemplate = "template"
	modeModel    = "model"
)

// modelsFor returns the completer for mode, or nil for template mode.
func (s *Server) modelsFor(mode string) (ai.Completer, error) {
	if mode != modeModel {
		return nil, nil
	}
	if s.models == nil {
		return nil, ai.ErrNoProvider
	}
	return s.models, nil
}

type questionsRequest struct {
	Topics     []syllabus.Topic `json:"topics"`
	Taxonomies []string         `json:"taxonomies"`
	Difficulty string           `json:"difficulty"`
	SyllabusID recordID         `json:"syllabus_id"`
	Mode       string           `json:"mode"`
}

func (s *Server) handleGenerateQuestions(w http.ResponseWriter, r *http.Request) {
	var req questionsRequest
	if err := decode(w, r, questionsSchema, &req); err != nil {
		fail(w, r, err)
		return
	}

	topics := req.Topics
	if req.SyllabusID != "" {
		doc, err := s.lookupSyllabus(req.SyllabusID)
		if err != nil {
			fail(w, r, err)
			return
		}
		if len(topics) == 0 {
			topics = doc.Topics
		}
	}
	if len(topics) == 0 {
		fail(w, r, badRequest("No topics available to generate questions"))
		return
	}

	models, err := s.modelsFor(req.Mode)
	if err != nil {
		fail(w, r, err)
		return
	}
	var gen questions.Generator = questions.NewSynthesizer(s.cat, s.rng)
	if models != nil {
		gen = questions.NewModelGenerator(models)
	}

	bank, err := questions.Bank(r.Context(), gen, topics, req.Taxonomies, req.Difficulty)
	if err != nil {
		fail(w, r, modelFailure(err))
		return
	}
	id, err := s.store.AddQuestions(store.QuestionSet{SyllabusID: string(req.SyllabusID), Questions: bank})
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "questions": bank})
}

type lessonPlanRequest struct {
	SyllabusID    recordID           `json:"syllabus_id"`
	Topics        []syllabus.Topic   `json:"topics"`
	Units         []string           `json:"units"`
	Weeks         int                `json:"weeks"`
	DaysPerWeek   int                `json:"daysPerWeek"`
	UnitWeightage map[string]float64 `json:"unitWeightage"`
	Mode          string             `json:"mode"`
}

type lessonPlanResponse struct {
	ID         string                    `json:"id"`
	LessonPlan []planner.LessonPlanEntry `json:"lessonPlan"`
	WeeklyPlan []planner.WeekPlan        `json:"weeklyPlan,omitempty"`
}

func (s *Server) handleGenerateLessonPlan(w http.ResponseWriter, r *http.Request) {
	var req lessonPlanRequest
	if err := decode(w, r, lessonPlanSchema, &req); err != nil {
		fail(w, r, err)
		return
	}

	topics, units := req.Topics, req.Units
	if req.SyllabusID != "" {
		doc, err := s.lookupSyllabus(req.SyllabusID)
		if err != nil {
			fail(w, r, err)
			return
		}
		topics, units = doc.Topics, doc.Units
	}

	models, err := s.modelsFor(req.Mode)
	if err != nil {
		fail(w, r, err)
		return
	}
	var opts []planner.Option
	if models != nil {
		opts = append(opts, planner.WithEstimator(planner.NewModelEstimator(models)))
	}

	entries, err := planner.New(s.cat, s.rng, opts...).LessonPlan(r.Context(), planner.LessonPlanParams{
		Units:       units,
		Topics:      topics,
		Weeks:       req.Weeks,
		DaysPerWeek: req.DaysPerWeek,
		Weights:     req.UnitWeightage,
	})
	if err != nil {
		fail(w, r, modelFailure(err))
		return
	}

	resp := lessonPlanResponse{LessonPlan: entries}
	if models != nil {
		resp.WeeklyPlan, err = planner.NewModelPlanner(models).Generate(r.Context(), topics, req.Weeks)
		if err != nil {
			fail(w, r, modelFailure(err))
			return
		}
	}

	resp.ID, err = s.store.AddLessonPlan(store.LessonPlan{SyllabusID: string(req.SyllabusID), Entries: entries})
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

type correlationRequest struct {
	SyllabusID      recordID            `json:"syllabus_id"`
	CourseOutcomes  syllabus.OutcomeMap `json:"courseOutcomes"`
	ProgramOutcomes syllabus.OutcomeMap `json:"programOutcomes"`
}

type correlationResponse struct {
	ID              string              `json:"id"`
	Mapping         mapping.Mapping     `json:"mapping"`
	CourseOutcomes  syllabus.OutcomeMap `json:"course_outcomes"`
	ProgramOutcomes syllabus.OutcomeMap `json:"program_outcomes"`
	Format          string              `json:"format"`
}

func (s *Server) handleGenerateCorrelation(w http.ResponseWriter, r *http.Request) {
	var req correlationRequest
	if err := decode(w, r, correlationSchema, &req); err != nil {
		fail(w, r, err)
		return
	}

	co, po := req.CourseOutcomes, req.ProgramOutcomes
	if req.SyllabusID != "" {
		doc, err := s.lookupSyllabus(req.SyllabusID)
		if err != nil {
			fail(w, r, err)
			return
		}
		co, po = doc.CourseOutcomes, doc.ProgramOutcomes
	}
	if len(co) == 0 || len(po) == 0 {
		fail(w, r, badRequest("Missing course outcomes or program outcomes"))
		return
	}

	m := mapping.Correlate(s.rng, co, po)
	id, err := s.store.AddCorrelation(store.Correlation{
		SyllabusID:      string(req.SyllabusID),
		Mapping:         m,
		CourseOutcomes:  co,
		ProgramOutcomes: po,
	})
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, correlationResponse{
		ID:              id,
		Mapping:         m,
		CourseOutcomes:  co,
		ProgramOutcomes: po,
		Format:          "json",
	})
}

type scheduleRequest struct {
	SyllabusID   recordID `json:"syllabus_id"`
	TotalWeeks   int      `json:"total_weeks"`
	HoursPerWeek int      `json:"hours_per_week"`
}

type scheduleResponse struct {
	Success      bool                    `json:"success"`
	ID           string                  `json:"id"`
	Schedule     []planner.ScheduleEntry `json:"schedule"`
	TotalHours   int                     `json:"total_hours"`
	TotalWeeks   int                     `json:"total_weeks"`
	HoursPerWeek int                     `json:"hours_per_week"`
}

func (s *Server) handleGenerateSchedule(w http.ResponseWriter, r *http.Request) {
	var req scheduleRequest
	if err := decode(w, r, scheduleSchema, &req); err != nil {
		fail(w, r, err)
		return
	}
	doc, err := s.lookupSyllabus(req.SyllabusID)
	if err != nil {
		fail(w, r, err)
		return
	}

	if req.TotalWeeks <= 0 {
		req.TotalWeeks = planner.DefaultTotalWeeks
	}
	if req.HoursPerWeek <= 0 {
		req.HoursPerWeek = planner.DefaultHoursPerWeek
	}

	entries := planner.Schedule(s.rng, s.cat, doc.Topics, doc.Units, req.TotalWeeks, req.HoursPerWeek)
	id, err := s.store.AddSchedule(store.Schedule{
		SyllabusID:   doc.ID,
		Entries:      entries,
		TotalWeeks:   req.TotalWeeks,
		HoursPerWeek: req.HoursPerWeek,
	})
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, scheduleResponse{
		Success:      true,
		ID:           id,
		Schedule:     entries,
		TotalHours:   planner.TotalHours(req.TotalWeeks, req.HoursPerWeek),
		TotalWeeks:   req.TotalWeeks,
		HoursPerWeek: req.HoursPerWeek,
	})
}

type syllabusRef struct {
	SyllabusID recordID `json:"syllabus_id"`
}

type materialsSummary struct {
	Questions   int    `json:"questions"`
	LessonPlan  string `json:"lesson_plan"`
	CopoMapping string `json:"copo_mapping"`
	Schedule    int    `json:"schedule"`
}

func summarize(res generator.Result) materialsSummary {
	return materialsSummary{
		Questions:   res.Questions,
		LessonPlan:  res.LessonPlanID,
		CopoMapping: res.CorrelationID,
		Schedule:    res.ScheduleEntries,
	}
}

func (s *Server) handleGenerateAll(w http.ResponseWriter, r *http.Request) {
	var req syllabusRef
	if err := decode(w, r, syllabusRefSchema, &req); err != nil {
		fail(w, r, err)
		return
	}
	doc, err := s.lookupSyllabus(req.SyllabusID)
	if err != nil {
		fail(w, r, err)
		return
	}

	res, err := s.gen.GenerateAll(r.Context(), doc, nil)
	if err != nil {
		fail(w, r, fmt.Errorf("generating materials for syllabus %s: %w", doc.ID, err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"materials":   summarize(res),
		"syllabus_id": doc.ID,
	})
}

func (s *Server) handleCourseMaterial(w http.ResponseWriter, r *http.Request) {
	var req syllabusRef
	if err := decode(w, r, syllabusRefSchema, &req); err != nil {
		fail(w, r, err)
		return
	}
	doc, err := s.lookupSyllabus(req.SyllabusID)
	if err != nil {
		fail(w, r, err)
		return
	}
	models, err := s.modelsFor(modeModel)
	if err != nil {
		fail(w, r, err)
		return
	}

	files, err := generator.NewMaterialCompiler(models, s.parallelism).Compile(r.Context(), doc.Topics)
	if err != nil {
		fail(w, r, modelFailure(err))
		return
	}
	var buf bytes.Buffer
	if err := export.WriteZIP(&buf, files); err != nil {
		fail(w, r, err)
		return
	}
	slog.Info("course material compiled", "syllabus_id", doc.ID, "files", len(files))
	attach(w, export.ZIPContentType, "course_materials.zip", buf.Bytes())
}
