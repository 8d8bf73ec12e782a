package questions

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/p-n-ai/pai-syllabus/internal/ai"
	"github.com/p-n-ai/pai-syllabus/internal/syllabus"
)

const questionSystemPrompt = "You are an education expert who writes exam questions."

// ModelGenerator asks a language model for questions.
type ModelGenerator struct {
	completer ai.Completer
	maxTokens int
}

// NewModelGenerator returns a Generator backed by completer.
func NewModelGenerator(completer ai.Completer) *ModelGenerator {
	return &ModelGenerator{completer: completer, maxTokens: 1024}
}

func (g *ModelGenerator) Generate(ctx context.Context, topic syllabus.Topic, level, difficulty string, count int) ([]Question, error) {
	if count <= 0 {
		return []Question{}, nil
	}

	req := ai.Prompt(ai.TaskQuestions, questionSystemPrompt, questionPrompt(topic, level, difficulty, count))
	req.MaxTokens = g.maxTokens

	resp, err := g.completer.Complete(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("question completion: %w", err)
	}

	qs := ParseQuestions(resp.Content, Question{Topic: topic.Title, Taxonomy: level, Difficulty: difficulty})
	if len(qs) > count {
		qs = qs[:count]
	}
	return qs, nil
}

func questionPrompt(topic syllabus.Topic, level, difficulty string, count int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate %d unique questions for the topic %q ", count, topic.Title+": "+topic.Content)
	fmt.Fprintf(&b, "based on Bloom's Taxonomy level %q and difficulty %q.\n\n", level, difficulty)
	b.WriteString("Write each question as a block separated by a blank line:\n")
	b.WriteString("Question: <question text>\n")
	b.WriteString("Taxonomy: <level>\n")
	b.WriteString("Difficulty: <difficulty>\n")
	b.WriteString("Answer: <short model answer>\n")
	return b.String()
}

// ParseQuestions reads "Question:", "Taxonomy:", "Difficulty:" and "Answer:"
// lines from model output. Blank lines end a record. Unrecognised lines are
// ignored and records without a question are dropped; missing fields are
// taken from defaults. The parse is best effort.
func ParseQuestions(text string, defaults Question) []Question {
	out := []Question{}
	cur := defaults
	flush := func() {
		if cur.Question != "" {
			out = append(out, cur)
		}
		cur = defaults
	}

	sc := bufio.NewScanner(strings.NewReader(text))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := cleanLine(sc.Text())
		if line == "" {
			flush()
			continue
		}
		if v, ok := cutPrefix(line, "Question:"); ok {
			if cur.Question != "" {
				flush()
			}
			cur.Question = v
		} else if v, ok := cutPrefix(line, "Taxonomy:"); ok && v != "" {
			cur.Taxonomy = v
		} else if v, ok := cutPrefix(line, "Difficulty:"); ok && v != "" {
			cur.Difficulty = v
		} else if v, ok := cutPrefix(line, "Answer:"); ok {
			cur.Answer = v
		}
	}
	flush()
	return out
}

// cleanLine strips list and markdown decoration models like to add.
func cleanLine(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimLeft(s, "-*# ")
	return strings.ReplaceAll(s, "**", "")
}

func cutPrefix(line, prefix string) (string, bool) {
	if len(line) < len(prefix) || !strings.EqualFold(line[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(line[len(prefix):]), true
}
