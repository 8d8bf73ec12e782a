// Package planner turns a syllabus's units and topics into teaching
// calendars: a weighted day-by-day lesson plan, a session schedule, and
// per-topic outlines.
package planner

import (
	"context"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/p-n-ai/pai-syllabus/internal/catalog"
	"github.com/p-n-ai/pai-syllabus/internal/platform/random"
	"github.com/p-n-ai/pai-syllabus/internal/syllabus"
)

// Lesson plan defaults.
const (
	DefaultWeeks       = 15
	DefaultDaysPerWeek = 3
)

// LessonPlanEntry is one teaching day.
type LessonPlanEntry struct {
	Week           int    `json:"week"`
	Day            int    `json:"day"`
	Unit           string `json:"unit"`
	Topic          string `json:"topic"`
	TeachingMethod string `json:"teachingMethod"`
	Activities     string `json:"activities"`
}

// LessonPlanParams are the inputs to weighted day allocation.
type LessonPlanParams struct {
	Units       []string
	Topics      []syllabus.Topic
	Weeks       int
	DaysPerWeek int
	// Weights maps unit name to relative weight. Units absent from the map
	// weigh 1. Entries naming unknown units still count toward the total.
	Weights map[string]float64
}

func (p LessonPlanParams) withDefaults() LessonPlanParams {
	if p.Weeks <= 0 {
		p.Weeks = DefaultWeeks
	}
	if p.DaysPerWeek <= 0 {
		p.DaysPerWeek = DefaultDaysPerWeek
	}
	if len(p.Units) == 0 {
		p.Units = syllabus.DefaultUnits()
	}
	return p
}

// Estimator estimates how many days a topic needs.
type Estimator interface {
	Estimate(ctx context.Context, topic syllabus.Topic, unit string, totalDays int) (int, error)
}

// Planner builds lesson plans. The zero value is not usable; use New.
type Planner struct {
	cat       *catalog.Catalog
	rng       random.Source
	estimator Estimator
}

// Option configures a Planner.
type Option func(*Planner)

// WithEstimator splits each unit's days in proportion to per-topic
// estimates instead of evenly.
func WithEstimator(e Estimator) Option {
	return func(p *Planner) {
		p.estimator = e
	}
}

// New returns a Planner drawing labels from cat and randomness from rng.
func New(cat *catalog.Catalog, rng random.Source, opts ...Option) *Planner {
	if cat == nil {
		cat = catalog.Default()
	}
	if rng == nil {
		rng = random.Default()
	}
	p := &Planner{cat: cat, rng: rng}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// UnitDays gives each unit max(1, round(weight/Σweights × totalDays)) days.
// Rounding is half-to-even and the total is not corrected, so the result
// may not sum to totalDays.
func UnitDays(units []string, weights map[string]float64, totalDays int) map[string]int {
	w := make(map[string]float64, len(units))
	for _, u := range units {
		w[u] = 1
	}
	for name, v := range weights {
		w[name] = max(v, 0)
	}

	var sum float64
	for _, v := range w {
		sum += v
	}
	if sum <= 0 {
		for name := range w {
			w[name] = 1
		}
		sum = float64(len(w))
	}

	days := make(map[string]int, len(units))
	for _, u := range units {
		days[u] = max(1, int(math.RoundToEven(w[u]/sum*float64(totalDays))))
	}
	return days
}

// GroupTopics assigns each topic to the first unit whose name appears in
// the topic's title, or to the first unit.
func GroupTopics(units []string, topics []syllabus.Topic) map[string][]syllabus.Topic {
	grouped := make(map[string][]syllabus.Topic, len(units))
	if len(units) == 0 {
		return grouped
	}
	for _, t := range topics {
		unit := units[0]
		if i := slices.IndexFunc(units, func(u string) bool { return strings.Contains(t.Title, u) }); i >= 0 {
			unit = units[i]
		}
		grouped[unit] = append(grouped[unit], t)
	}
	return grouped
}

// LessonPlan allocates teaching days across units by weight and across each
// unit's topics, then lays them out week by week. Emission stops once the
// calendar passes the last week; anything not yet placed is dropped.
func (p *Planner) LessonPlan(ctx context.Context, params LessonPlanParams) ([]LessonPlanEntry, error) {
	params = params.withDefaults()
	totalDays := params.Weeks * params.DaysPerWeek
	unitDays := UnitDays(params.Units, params.Weights, totalDays)
	grouped := GroupTopics(params.Units, params.Topics)

	plan := []LessonPlanEntry{}
	week, day := 1, 1
	for _, unit := range params.Units {
		topics := grouped[unit]
		if len(topics) == 0 {
			continue
		}

		perTopic, err := p.topicDays(ctx, unit, topics, unitDays[unit], totalDays)
		if err != nil {
			return nil, err
		}

		for i, topic := range topics {
			for range perTopic[i] {
				if week > params.Weeks {
					return plan, nil
				}
				plan = append(plan, LessonPlanEntry{
					Week:           week,
					Day:            day,
					Unit:           unit,
					Topic:          topic.Title,
					TeachingMethod: random.Pick(p.rng, p.cat.TeachingMethods),
					Activities:     random.Pick(p.rng, p.cat.LessonActivities),
				})
				day++
				if day > params.DaysPerWeek {
					day = 1
					week++
				}
			}
		}
	}
	return plan, nil
}

func (p *Planner) topicDays(ctx context.Context, unit string, topics []syllabus.Topic, unitDays, totalDays int) ([]int, error) {
	days := make([]int, len(topics))
	if p.estimator == nil {
		even := max(1, unitDays/len(topics))
		for i := range days {
			days[i] = even
		}
		return days, nil
	}

	estimates := make([]int, len(topics))
	var sum int
	for i, t := range topics {
		est, err := p.estimator.Estimate(ctx, t, unit, totalDays)
		if err != nil {
			return nil, fmt.Errorf("estimating days for %q: %w", t.Title, err)
		}
		estimates[i] = max(1, est)
		sum += estimates[i]
	}
	for i, est := range estimates {
		days[i] = max(1, int(math.RoundToEven(float64(est)/float64(sum)*float64(unitDays))))
	}
	return days, nil
}

// EqualSplit is an Estimator that gives every topic one day, which makes
// the proportional split even.
type EqualSplit struct{}

func (EqualSplit) Estimate(context.Context, syllabus.Topic, string, int) (int, error) {
	return 1, nil
}
