package planner

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/p-n-ai/pai-syllabus/internal/catalog"
	"github.com/p-n-ai/pai-syllabus/internal/platform/random"
	"github.com/p-n-ai/pai-syllabus/internal/syllabus"
)

func TestObjectives(t *testing.T) {
	cat := catalog.Default()
	rng := random.NewSeeded(5, 6)

	objs := Objectives(rng, cat, "Introduction to Matrices and Determinants")
	require.Len(t, objs, 3)
	for _, o := range objs {
		assert.True(t, strings.HasSuffix(o, " and their significance in the context of the topic"), o)
		assert.True(t,
			strings.Contains(o, "the Introduction ") || strings.Contains(o, "the Matrices ") || strings.Contains(o, "the Determinants "),
			o)
	}
}

func TestObjectives_DistinctLevels(t *testing.T) {
	// Shuffle draws are all zero, so the levels rotate to Understand,
	// Apply, Analyze; verb and keyword draws then take index zero.
	rng := &random.Scripted{Ints: []int{0}}
	objs := Objectives(rng, catalog.Default(), "lowercase only")

	assert.Equal(t, []string{
		"explain the concepts and their significance in the context of the topic",
		"apply the concepts and their significance in the context of the topic",
		"analyze the concepts and their significance in the context of the topic",
	}, objs)
}

func TestOutline(t *testing.T) {
	cat := catalog.Default()
	for seed := uint64(0); seed < 20; seed++ {
		o := Outline(random.NewSeeded(seed, 9), cat, syllabus.Topic{Title: "Unit I", Content: "Graph Theory basics"})

		assert.Equal(t, "Unit I", o.Title)
		assert.Len(t, o.Objectives, 3)
		assert.True(t, len(o.Strategies) >= 2 && len(o.Strategies) <= 3)
		assert.True(t, len(o.Activities) >= 2 && len(o.Activities) <= 3)
		assert.True(t, len(o.Assessment) >= 1 && len(o.Assessment) <= 2)
		assertDistinct(t, o.Strategies)
		assertDistinct(t, o.Activities)
		assertDistinct(t, o.Assessment)
		for _, s := range o.Strategies {
			assert.Contains(t, cat.TeachingStrategies, s)
		}
	}
}

func assertDistinct(t *testing.T, items []string) {
	t.Helper()
	seen := map[string]bool{}
	for _, s := range items {
		assert.False(t, seen[s], "duplicate %q", s)
		seen[s] = true
	}
}

func TestOutlinePlan(t *testing.T) {
	units := []string{"Unit 1", "Unit 2", "Unit 3"}
	plan := OutlinePlan(random.NewSeeded(1, 2), nil, units, makeTopics(7))

	require.Len(t, plan, 3)
	assert.Equal(t, "Unit 1", plan[0].Title)
	assert.Len(t, plan[0].Topics, 5)
	assert.Equal(t, "Topic 5", plan[0].Topics[4].Title)
	assert.NotNil(t, plan[1].Topics)
	assert.Empty(t, plan[1].Topics)
	assert.Empty(t, plan[2].Topics)
}

func TestOutlinePlan_FewTopics(t *testing.T) {
	plan := OutlinePlan(random.NewSeeded(1, 2), nil, []string{"Unit 1"}, makeTopics(2))
	require.Len(t, plan, 1)
	assert.Len(t, plan[0].Topics, 2)
}
