package questions

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/p-n-ai/pai-syllabus/internal/catalog"
	"github.com/p-n-ai/pai-syllabus/internal/platform/random"
	"github.com/p-n-ai/pai-syllabus/internal/syllabus"
)

func TestSynthesize_ReturnsExactCount(t *testing.T) {
	s := NewSynthesizer(nil, random.NewSeeded(1, 2))
	topics := []syllabus.Topic{
		{Title: "Unit I", Content: "Sets and Relations with Venn diagrams"},
		{Title: "Unit II", Content: "all lower case words only"},
		{Title: "Unit III", Content: ""},
	}

	for _, topic := range topics {
		for _, level := range catalog.Levels {
			for _, n := range []int{1, 3, 7} {
				qs := s.Synthesize(topic, level, "Medium", n)
				require.Len(t, qs, n)
				for _, q := range qs {
					assert.NotEmpty(t, q.Question)
					assert.NotEmpty(t, q.Answer)
					assert.Equal(t, topic.Title, q.Topic)
					assert.Equal(t, level, q.Taxonomy)
					assert.Equal(t, "Medium", q.Difficulty)
					assert.NotContains(t, q.Question, catalog.Term)
				}
			}
		}
	}
}

func TestSynthesize_ZeroCount(t *testing.T) {
	s := NewSynthesizer(nil, random.NewSeeded(1, 2))
	qs := s.Synthesize(syllabus.Topic{Title: "T", Content: "Graphs"}, "Apply", "Easy", 0)
	assert.NotNil(t, qs)
	assert.Empty(t, qs)
}

func TestSynthesize_ScriptedDraws(t *testing.T) {
	// Draws alternate template index, term index.
	rng := &random.Scripted{Ints: []int{2, 1}}
	s := NewSynthesizer(catalog.Default(), rng)

	qs := s.Synthesize(syllabus.Topic{Title: "Unit I", Content: "study of Matrices and Vectors."}, "Remember", "Hard", 1)
	require.Len(t, qs, 1)
	assert.Equal(t, "What is Vectors?", qs[0].Question)
	assert.Equal(t, "Answer relates to Vectors in the context of remember cognitive level.", qs[0].Answer)
}

func TestSynthesize_FallbackTerms(t *testing.T) {
	rng := &random.Scripted{Ints: []int{0, 3}}
	s := NewSynthesizer(catalog.Default(), rng)

	qs := s.Synthesize(syllabus.Topic{Title: "T", Content: "no capitals here"}, "Remember", "Easy", 1)
	require.Len(t, qs, 1)
	assert.Equal(t, "Define the concept of this methodology.", qs[0].Question)
}

func TestSynthesize_UnknownLevelUsesRememberTemplates(t *testing.T) {
	rng := &random.Scripted{Ints: []int{0, 0}}
	s := NewSynthesizer(catalog.Default(), rng)

	qs := s.Synthesize(syllabus.Topic{Title: "T", Content: "Graphs"}, "Memorise", "Easy", 1)
	require.Len(t, qs, 1)
	assert.Equal(t, "Define the concept of Graphs.", qs[0].Question)
	assert.Equal(t, "Memorise", qs[0].Taxonomy)
	assert.Contains(t, qs[0].Answer, "memorise cognitive level")
}

func TestTerms(t *testing.T) {
	cat := catalog.Default()
	assert.Equal(t, []string{"Matrices", "Vectors"}, Terms(cat, "The Matrices, and Vectors. also Sum"))
	assert.Equal(t, cat.FallbackTerms, Terms(cat, ""))
}

func TestBank(t *testing.T) {
	s := NewSynthesizer(nil, random.NewSeeded(3, 4))
	topics := []syllabus.Topic{
		{Title: "Unit I", Content: "Logic and Proofs"},
		{Title: "Unit II", Content: "Counting Principles"},
		{Title: "Blank", Content: "   "},
	}

	bank, err := Bank(context.Background(), s, topics, []string{"Remember", "Apply"}, "Easy")
	require.NoError(t, err)
	assert.Len(t, bank, 2*2*PerLevel)
	for _, q := range bank {
		assert.NotEqual(t, "Blank", q.Topic)
	}
}

type failingGenerator struct{}

func (failingGenerator) Generate(context.Context, syllabus.Topic, string, string, int) ([]Question, error) {
	return nil, errors.New("boom")
}

func TestBank_PropagatesError(t *testing.T) {
	_, err := Bank(context.Background(), failingGenerator{}, []syllabus.Topic{{Title: "A", Content: "x"}}, []string{"Apply"}, "Easy")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "boom"))
}
