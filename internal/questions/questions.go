// Package questions builds question banks for syllabus topics, either from
// catalog templates or from a language model.
package questions

import (
	"context"
	"fmt"
	"strings"

	"github.com/p-n-ai/pai-syllabus/internal/catalog"
	"github.com/p-n-ai/pai-syllabus/internal/platform/random"
	"github.com/p-n-ai/pai-syllabus/internal/syllabus"
)

// PerLevel is how many questions are produced for each topic and level.
const PerLevel = 3

// Question is one generated question with its companion answer.
type Question struct {
	Topic      string `json:"topic"`
	Taxonomy   string `json:"taxonomy"`
	Difficulty string `json:"difficulty"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
}

// Generator produces count questions for one topic at one level.
type Generator interface {
	Generate(ctx context.Context, topic syllabus.Topic, level, difficulty string, count int) ([]Question, error)
}

// Synthesizer fills catalog templates with terms taken from topic content.
type Synthesizer struct {
	cat *catalog.Catalog
	rng random.Source
}

// NewSynthesizer returns a template Synthesizer. A nil catalog means the
// embedded default.
func NewSynthesizer(cat *catalog.Catalog, rng random.Source) *Synthesizer {
	if cat == nil {
		cat = catalog.Default()
	}
	if rng == nil {
		rng = random.Default()
	}
	return &Synthesizer{cat: cat, rng: rng}
}

// Synthesize returns exactly count questions. An unknown level uses the
// Remember templates but keeps the requested label.
func (s *Synthesizer) Synthesize(topic syllabus.Topic, level, difficulty string, count int) []Question {
	if count <= 0 {
		return []Question{}
	}

	terms := Terms(s.cat, topic.Content)
	templates := s.cat.Templates(level)

	out := make([]Question, 0, count)
	for range count {
		template := random.Pick(s.rng, templates)
		term := random.Pick(s.rng, terms)
		out = append(out, Question{
			Topic:      topic.Title,
			Taxonomy:   level,
			Difficulty: difficulty,
			Question:   strings.ReplaceAll(template, catalog.Term, term),
			Answer:     Answer(term, level),
		})
	}
	return out
}

// Generate implements Generator. It never fails.
func (s *Synthesizer) Generate(_ context.Context, topic syllabus.Topic, level, difficulty string, count int) ([]Question, error) {
	return s.Synthesize(topic, level, difficulty, count), nil
}

// Terms returns the capitalised words longer than three letters in content,
// or the catalog's fallback terms when there are none.
func Terms(cat *catalog.Catalog, content string) []string {
	if terms := syllabus.Keywords(content, 3); len(terms) > 0 {
		return terms
	}
	return cat.FallbackTerms
}

// Answer is the placeholder answer attached to synthesized questions.
func Answer(term, level string) string {
	return fmt.Sprintf("Answer relates to %s in the context of %s cognitive level.", term, strings.ToLower(level))
}

// Bank runs gen for every topic and level, PerLevel questions each. Topics
// with blank content are skipped.
func Bank(ctx context.Context, gen Generator, topics []syllabus.Topic, levels []string, difficulty string) ([]Question, error) {
	bank := []Question{}
	for _, topic := range topics {
		if strings.TrimSpace(topic.Content) == "" {
			continue
		}
		for _, level := range levels {
			qs, err := gen.Generate(ctx, topic, level, difficulty, PerLevel)
			if err != nil {
				return nil, fmt.Errorf("generating %s questions for %q: %w", level, topic.Title, err)
			}
			bank = append(bank, qs...)
		}
	}
	return bank, nil
}
