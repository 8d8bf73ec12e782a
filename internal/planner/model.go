package planner

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/p-n-ai/pai-syllabus/internal/ai"
	"github.com/p-n-ai/pai-syllabus/internal/syllabus"
)

const (
	estimatorSystemPrompt = "You are an AI tutor allocating time for topics."
	plannerSystemPrompt   = "You are an experienced teacher writing a weekly lesson plan."
)

// ModelEstimator asks a language model how many days a topic needs.
type ModelEstimator struct {
	completer ai.Completer
}

// NewModelEstimator returns an Estimator backed by completer.
func NewModelEstimator(completer ai.Completer) *ModelEstimator {
	return &ModelEstimator{completer: completer}
}

// Estimate returns the model's whole-day estimate. Replies that are not a
// bare number count as one day.
func (e *ModelEstimator) Estimate(ctx context.Context, topic syllabus.Topic, unit string, totalDays int) (int, error) {
	prompt := fmt.Sprintf(`Given the topic below, estimate the number of days needed based on complexity:
- Topic: %s
- Unit Name: %s
- Total Course Days: %d
Return only a whole number of days (minimum 1).`, topic.Title+": "+topic.Content, unit, totalDays)

	req := ai.Prompt(ai.TaskEstimate, estimatorSystemPrompt, prompt)
	req.MaxTokens = 16
	resp, err := e.completer.Complete(ctx, req)
	if err != nil {
		return 0, fmt.Errorf("estimate completion: %w", err)
	}
	return parseDays(resp.Content), nil
}

func parseDays(s string) int {
	s = strings.TrimSpace(s)
	if s == "" || strings.IndexFunc(s, func(r rune) bool { return r < '0' || r > '9' }) >= 0 {
		return 1
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// WeekPlan is one week of a model-written lesson plan.
type WeekPlan struct {
	Week       int    `json:"week"`
	Title      string `json:"title"`
	Objectives string `json:"objectives"`
	Methods    string `json:"methods"`
	Activities string `json:"activities"`
	Assessment string `json:"assessment"`
}

// ModelPlanner asks a language model for a week-by-week plan.
type ModelPlanner struct {
	completer ai.Completer
}

// NewModelPlanner returns a ModelPlanner backed by completer.
func NewModelPlanner(completer ai.Completer) *ModelPlanner {
	return &ModelPlanner{completer: completer}
}

// Generate prompts for a plan covering topics over weeks and parses the
// reply with ParseLessonPlan.
func (p *ModelPlanner) Generate(ctx context.Context, topics []syllabus.Topic, weeks int) ([]WeekPlan, error) {
	if weeks <= 0 {
		weeks = DefaultWeeks
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Write a %d-week lesson plan covering these topics in order:\n", weeks)
	for _, t := range topics {
		fmt.Fprintf(&b, "- %s: %s\n", t.Title, truncate(t.Content, 300))
	}
	b.WriteString("\nFor each week write a block separated by a blank line:\n")
	b.WriteString("Week <n>: <title>\nObjectives: <text>\nMethods: <text>\nActivities: <text>\nAssessment: <text>\n")

	req := ai.Prompt(ai.TaskLessonPlan, plannerSystemPrompt, b.String())
	req.MaxTokens = 4096
	resp, err := p.completer.Complete(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("lesson plan completion: %w", err)
	}

	plan := ParseLessonPlan(resp.Content)
	if len(plan) > weeks {
		plan = plan[:weeks]
	}
	return plan, nil
}

// ParseLessonPlan reads "Week", "Objectives:", "Methods:", "Activities:" and
// "Assessment:" lines. A Week line or a blank line starts a new record.
// Other lines are ignored. Weeks without a number are numbered by position.
// The parse is best effort.
func ParseLessonPlan(text string) []WeekPlan {
	out := []WeekPlan{}
	var cur WeekPlan
	started := false
	flush := func() {
		if started {
			if cur.Week == 0 {
				cur.Week = len(out) + 1
			}
			out = append(out, cur)
		}
		cur, started = WeekPlan{}, false
	}

	sc := bufio.NewScanner(strings.NewReader(text))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.ReplaceAll(strings.TrimLeft(strings.TrimSpace(sc.Text()), "-*# "), "**", "")
		if line == "" {
			flush()
			continue
		}
		if rest, ok := cutPrefix(line, "Week"); ok && !startsWithLetter(line[len("Week"):]) {
			flush()
			cur.Week, cur.Title = parseWeekHeading(rest)
			started = true
			continue
		}
		fields := []struct {
			prefix string
			dst    *string
		}{
			{"Objectives:", &cur.Objectives},
			{"Methods:", &cur.Methods},
			{"Activities:", &cur.Activities},
			{"Assessment:", &cur.Assessment},
		}
		for _, f := range fields {
			if v, ok := cutPrefix(line, f.prefix); ok {
				*f.dst = v
				started = true
				break
			}
		}
	}
	flush()
	return out
}

func startsWithLetter(s string) bool {
	for _, r := range s {
		return unicode.IsLetter(r)
	}
	return false
}

// parseWeekHeading splits " 3: Sets and Relations" into 3 and the title.
func parseWeekHeading(s string) (int, string) {
	s = strings.TrimSpace(s)
	end := strings.IndexFunc(s, func(r rune) bool { return !unicode.IsDigit(r) })
	if end < 0 {
		end = len(s)
	}
	n, _ := strconv.Atoi(s[:end])
	title := strings.TrimSpace(strings.TrimLeft(s[end:], ":.-) "))
	return n, title
}

func cutPrefix(line, prefix string) (string, bool) {
	if len(line) < len(prefix) || !strings.EqualFold(line[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(line[len(prefix):]), true
}
