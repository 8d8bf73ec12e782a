package planner

import (
	"fmt"

	"github.com/p-n-ai/pai-syllabus/internal/catalog"
	"github.com/p-n-ai/pai-syllabus/internal/platform/random"
	"github.com/p-n-ai/pai-syllabus/internal/syllabus"
)

const (
	objectivesPerTopic = 3
	outlineTopicLimit  = 5
)

// TopicOutline is the teaching outline for one topic.
type TopicOutline struct {
	Title      string   `json:"title"`
	Objectives []string `json:"learning_objectives"`
	Strategies []string `json:"teaching_strategies"`
	Activities []string `json:"activities"`
	Assessment []string `json:"assessment"`
}

// UnitOutline groups topic outlines under a unit.
type UnitOutline struct {
	Title  string         `json:"unit_title"`
	Topics []TopicOutline `json:"topics"`
}

// Outline draws objectives, strategies, activities and assessment methods
// for a topic.
func Outline(rng random.Source, cat *catalog.Catalog, topic syllabus.Topic) TopicOutline {
	if cat == nil {
		cat = catalog.Default()
	}
	return TopicOutline{
		Title:      topic.Title,
		Objectives: Objectives(rng, cat, topic.Content),
		Strategies: random.Sample(rng, cat.TeachingStrategies, random.Between(rng, 2, 3)),
		Activities: random.Sample(rng, cat.LearningActivities, random.Between(rng, 2, 3)),
		Assessment: random.Sample(rng, cat.AssessmentMethods, random.Between(rng, 1, 2)),
	}
}

// Objectives writes three learning objectives, each at a different
// taxonomy level.
func Objectives(rng random.Source, cat *catalog.Catalog, content string) []string {
	keywords := syllabus.Keywords(content, 4)
	if len(keywords) == 0 {
		keywords = cat.ObjectiveKeywords
	}

	levels := random.Shuffle(rng, catalog.Levels)
	out := make([]string, 0, objectivesPerTopic)
	for _, level := range levels[:min(objectivesPerTopic, len(levels))] {
		verb := random.Pick(rng, cat.Verbs(level))
		keyword := random.Pick(rng, keywords)
		out = append(out, fmt.Sprintf("%s the %s and their significance in the context of the topic", verb, keyword))
	}
	return out
}

// OutlinePlan outlines up to the first five topics under the first unit.
// The remaining units are listed with no topics.
func OutlinePlan(rng random.Source, cat *catalog.Catalog, units []string, topics []syllabus.Topic) []UnitOutline {
	plan := make([]UnitOutline, 0, len(units))
	for i, unit := range units {
		u := UnitOutline{Title: unit, Topics: []TopicOutline{}}
		if i == 0 {
			for _, t := range topics[:min(outlineTopicLimit, len(topics))] {
				u.Topics = append(u.Topics, Outline(rng, cat, t))
			}
		}
		plan = append(plan, u)
	}
	return plan
}
