package planner

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/p-n-ai/pai-syllabus/internal/catalog"
	"github.com/p-n-ai/pai-syllabus/internal/platform/random"
	"github.com/p-n-ai/pai-syllabus/internal/syllabus"
)

func TestUnitDays(t *testing.T) {
	tests := []struct {
		name      string
		units     []string
		weights   map[string]float64
		totalDays int
		want      map[string]int
	}{
		{
			name:      "equal weights round half to even",
			units:     []string{"A", "B"},
			totalDays: 45,
			want:      map[string]int{"A": 22, "B": 22},
		},
		{
			name:      "proportional",
			units:     []string{"A", "B"},
			weights:   map[string]float64{"A": 2, "B": 1},
			totalDays: 45,
			want:      map[string]int{"A": 30, "B": 15},
		},
		{
			name:      "zero weight still gets a day",
			units:     []string{"A", "B"},
			weights:   map[string]float64{"A": 1, "B": 0},
			totalDays: 10,
			want:      map[string]int{"A": 10, "B": 1},
		},
		{
			name:      "missing unit weighs one",
			units:     []string{"A", "B"},
			weights:   map[string]float64{"A": 3},
			totalDays: 8,
			want:      map[string]int{"A": 6, "B": 2},
		},
		{
			name:      "unknown unit dilutes the share",
			units:     []string{"A"},
			weights:   map[string]float64{"A": 1, "Z": 1},
			totalDays: 10,
			want:      map[string]int{"A": 5},
		},
		{
			name:      "all zero treated as equal",
			units:     []string{"A", "B"},
			weights:   map[string]float64{"A": 0, "B": 0},
			totalDays: 6,
			want:      map[string]int{"A": 3, "B": 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UnitDays(tt.units, tt.weights, tt.totalDays))
		})
	}
}

func TestUnitDays_DriftIsNotCorrected(t *testing.T) {
	days := UnitDays([]string{"A", "B", "C"}, nil, 10)
	sum := 0
	for _, d := range days {
		sum += d
	}
	assert.Equal(t, 9, sum)
}

func TestGroupTopics(t *testing.T) {
	units := []string{"Unit I", "Unit II"}
	topics := []syllabus.Topic{
		{Title: "Unit I", Content: "a"},
		{Title: "Chapter 3", Content: "b"},
		{Title: "Unit II", Content: "c"},
	}

	got := GroupTopics(units, topics)
	// "Unit I" is a substring of "Unit II", so the first unit wins.
	assert.Len(t, got["Unit I"], 3)
	assert.Empty(t, got["Unit II"])

	got = GroupTopics([]string{"Unit 2", "Unit 1"}, topics[:1])
	assert.Len(t, got["Unit 2"], 1)
}

func newTestPlanner(opts ...Option) *Planner {
	return New(catalog.Default(), random.NewSeeded(7, 11), opts...)
}

func TestLessonPlan_FillsCalendar(t *testing.T) {
	p := newTestPlanner()
	plan, err := p.LessonPlan(context.Background(), LessonPlanParams{
		Units:       []string{"Unit 1", "Unit 2"},
		Topics:      []syllabus.Topic{{Title: "Unit 1 Sets", Content: "x"}, {Title: "Unit 2 Logic", Content: "y"}},
		Weeks:       2,
		DaysPerWeek: 3,
	})
	require.NoError(t, err)
	require.Len(t, plan, 6)

	want := []struct {
		week, day int
		unit      string
	}{
		{1, 1, "Unit 1"}, {1, 2, "Unit 1"}, {1, 3, "Unit 1"},
		{2, 1, "Unit 2"}, {2, 2, "Unit 2"}, {2, 3, "Unit 2"},
	}
	cat := catalog.Default()
	for i, w := range want {
		assert.Equal(t, w.week, plan[i].Week, "entry %d week", i)
		assert.Equal(t, w.day, plan[i].Day, "entry %d day", i)
		assert.Equal(t, w.unit, plan[i].Unit, "entry %d unit", i)
		assert.Contains(t, cat.TeachingMethods, plan[i].TeachingMethod)
		assert.Contains(t, cat.LessonActivities, plan[i].Activities)
	}
	assert.Equal(t, "Unit 1 Sets", plan[0].Topic)
}

func TestLessonPlan_StopsAtLastWeek(t *testing.T) {
	p := newTestPlanner()
	plan, err := p.LessonPlan(context.Background(), LessonPlanParams{
		Units:       []string{"Unit 1", "Unit 2"},
		Topics:      []syllabus.Topic{{Title: "Unit 1", Content: "x"}, {Title: "Unit 2", Content: "y"}},
		Weeks:       1,
		DaysPerWeek: 3,
	})
	require.NoError(t, err)
	require.Len(t, plan, 3)
	assert.Equal(t, "Unit 2", plan[2].Unit)
	for _, e := range plan {
		assert.LessOrEqual(t, e.Week, 1)
	}
}

func TestLessonPlan_Defaults(t *testing.T) {
	p := newTestPlanner()
	topics := make([]syllabus.Topic, 0, 10)
	for _, u := range syllabus.DefaultUnits() {
		topics = append(topics, syllabus.Topic{Title: u + " part", Content: "c"})
	}
	plan, err := p.LessonPlan(context.Background(), LessonPlanParams{Topics: topics})
	require.NoError(t, err)
	// 45 days over five units is 9 days each.
	assert.Len(t, plan, 45)
	assert.Equal(t, DefaultWeeks, plan[len(plan)-1].Week)
}

func TestLessonPlan_NeverExceedsWeeks(t *testing.T) {
	p := newTestPlanner()
	weights := map[string]float64{"A": 5, "B": 1, "C": 1}
	topics := []syllabus.Topic{
		{Title: "A1", Content: "x"}, {Title: "A2", Content: "x"},
		{Title: "B1", Content: "x"}, {Title: "C1", Content: "x"}, {Title: "C2", Content: "x"},
	}
	for weeks := 1; weeks <= 6; weeks++ {
		for dpw := 1; dpw <= 5; dpw++ {
			plan, err := p.LessonPlan(context.Background(), LessonPlanParams{
				Units: []string{"A", "B", "C"}, Topics: topics, Weeks: weeks, DaysPerWeek: dpw, Weights: weights,
			})
			require.NoError(t, err)
			for _, e := range plan {
				assert.LessOrEqual(t, e.Week, weeks)
				assert.LessOrEqual(t, e.Day, dpw)
			}
		}
	}
}

type fixedEstimator map[string]int

func (f fixedEstimator) Estimate(_ context.Context, topic syllabus.Topic, _ string, _ int) (int, error) {
	return f[topic.Title], nil
}

func TestLessonPlan_WithEstimator(t *testing.T) {
	p := newTestPlanner(WithEstimator(fixedEstimator{"A intro": 1, "A deep": 3}))
	plan, err := p.LessonPlan(context.Background(), LessonPlanParams{
		Units:       []string{"A"},
		Topics:      []syllabus.Topic{{Title: "A intro", Content: "x"}, {Title: "A deep", Content: "y"}},
		Weeks:       2,
		DaysPerWeek: 4,
	})
	require.NoError(t, err)

	counts := map[string]int{}
	for _, e := range plan {
		counts[e.Topic]++
	}
	assert.Equal(t, map[string]int{"A intro": 2, "A deep": 6}, counts)
}

func TestLessonPlan_EqualSplitMatchesDefault(t *testing.T) {
	params := LessonPlanParams{
		Units:       []string{"A"},
		Topics:      []syllabus.Topic{{Title: "A1", Content: "x"}, {Title: "A2", Content: "y"}},
		Weeks:       2,
		DaysPerWeek: 3,
	}
	even, err := newTestPlanner().LessonPlan(context.Background(), params)
	require.NoError(t, err)
	split, err := newTestPlanner(WithEstimator(EqualSplit{})).LessonPlan(context.Background(), params)
	require.NoError(t, err)
	assert.Equal(t, even, split)
}

type failingEstimator struct{}

func (failingEstimator) Estimate(context.Context, syllabus.Topic, string, int) (int, error) {
	return 0, errors.New("model down")
}

func TestLessonPlan_EstimatorError(t *testing.T) {
	p := newTestPlanner(WithEstimator(failingEstimator{}))
	_, err := p.LessonPlan(context.Background(), LessonPlanParams{
		Units:  []string{"A"},
		Topics: []syllabus.Topic{{Title: "A1", Content: "x"}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model down")
}
