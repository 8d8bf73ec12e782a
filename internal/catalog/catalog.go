// Package catalog holds the sentence templates and word lists the generators
// draw from. A default catalog is embedded; deployments may override any
// section with YAML files on disk.
package catalog

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var embedded []byte

// Term is the placeholder substituted into question templates.
const Term = "{term}"

// Levels lists the Bloom levels every per-level section must cover, in order.
var Levels = []string{"Remember", "Understand", "Apply", "Analyze", "Evaluate", "Create"}

// Catalog is read-only once loaded.
type Catalog struct {
	QuestionTemplates  map[string][]string `yaml:"question_templates"`
	FallbackTerms      []string            `yaml:"fallback_terms"`
	TeachingMethods    []string            `yaml:"teaching_methods"`
	LessonActivities   []string            `yaml:"lesson_activities"`
	ScheduleActivities string              `yaml:"schedule_activities"`
	ObjectiveVerbs     map[string][]string `yaml:"objective_verbs"`
	ObjectiveKeywords  []string            `yaml:"objective_keywords"`
	TeachingStrategies []string            `yaml:"teaching_strategies"`
	LearningActivities []string            `yaml:"learning_activities"`
	AssessmentMethods  []string            `yaml:"assessment_methods"`
}

// Default returns the embedded catalog.
func Default() *Catalog {
	c, err := parse(embedded)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog: %v", err))
	}
	return c
}

// Load returns the embedded catalog overlaid with the YAML found at path.
// path may be a single file or a directory walked for *.yaml / *.yml files,
// applied in lexical order. An empty path returns Default().
func Load(path string) (*Catalog, error) {
	c := Default()
	if path == "" {
		return c, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}

	if !info.IsDir() {
		if err := c.overlayFile(path); err != nil {
			return nil, err
		}
		return validated(c)
	}

	var files []string
	err = filepath.Walk(path, func(p string, fi os.FileInfo, err error) error {
		if err != nil || fi.IsDir() {
			return nil
		}
		if strings.HasSuffix(p, ".yaml") || strings.HasSuffix(p, ".yml") {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking catalog dir: %w", err)
	}
	sort.Strings(files)

	for _, f := range files {
		if err := c.overlayFile(f); err != nil {
			slog.Warn("skipping invalid catalog YAML", "path", f, "error", err)
		}
	}

	slog.Info("catalog loaded", "path", path, "files", len(files))
	return validated(c)
}

func validated(c *Catalog) (*Catalog, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Templates returns the question templates for a level, falling back to
// the Remember set for unknown levels.
func (c *Catalog) Templates(level string) []string {
	if t, ok := c.QuestionTemplates[level]; ok && len(t) > 0 {
		return t
	}
	return c.QuestionTemplates[Levels[0]]
}

// Verbs returns the objective verbs for a level, falling back like Templates.
func (c *Catalog) Verbs(level string) []string {
	if v, ok := c.ObjectiveVerbs[level]; ok && len(v) > 0 {
		return v
	}
	return c.ObjectiveVerbs[Levels[0]]
}

// Validate checks that every section the generators draw from is non-empty.
func (c *Catalog) Validate() error {
	for _, level := range Levels {
		if len(c.QuestionTemplates[level]) == 0 {
			return fmt.Errorf("catalog: no question templates for %s", level)
		}
		for _, tmpl := range c.QuestionTemplates[level] {
			if !strings.Contains(tmpl, Term) {
				return fmt.Errorf("catalog: template %q has no %s slot", tmpl, Term)
			}
		}
		if len(c.ObjectiveVerbs[level]) == 0 {
			return fmt.Errorf("catalog: no objective verbs for %s", level)
		}
	}

	lists := map[string][]string{
		"fallback_terms":      c.FallbackTerms,
		"teaching_methods":    c.TeachingMethods,
		"lesson_activities":   c.LessonActivities,
		"objective_keywords":  c.ObjectiveKeywords,
		"teaching_strategies": c.TeachingStrategies,
		"learning_activities": c.LearningActivities,
		"assessment_methods":  c.AssessmentMethods,
	}
	for name, l := range lists {
		if len(l) == 0 {
			return fmt.Errorf("catalog: %s is empty", name)
		}
	}
	if c.ScheduleActivities == "" {
		return fmt.Errorf("catalog: schedule_activities is empty")
	}
	return nil
}

func (c *Catalog) overlayFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading catalog file: %w", err)
	}
	over, err := parse(data)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	c.overlay(over)
	return nil
}

// overlay replaces each section that o sets.
func (c *Catalog) overlay(o *Catalog) {
	for level, t := range o.QuestionTemplates {
		c.QuestionTemplates[level] = t
	}
	for level, v := range o.ObjectiveVerbs {
		c.ObjectiveVerbs[level] = v
	}
	replace(&c.FallbackTerms, o.FallbackTerms)
	replace(&c.TeachingMethods, o.TeachingMethods)
	replace(&c.LessonActivities, o.LessonActivities)
	replace(&c.ObjectiveKeywords, o.ObjectiveKeywords)
	replace(&c.TeachingStrategies, o.TeachingStrategies)
	replace(&c.LearningActivities, o.LearningActivities)
	replace(&c.AssessmentMethods, o.AssessmentMethods)
	if o.ScheduleActivities != "" {
		c.ScheduleActivities = o.ScheduleActivities
	}
}

func replace(dst *[]string, src []string) {
	if len(src) > 0 {
		*dst = src
	}
}

func parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	if c.QuestionTemplates == nil {
		c.QuestionTemplates = make(map[string][]string)
	}
	if c.ObjectiveVerbs == nil {
		c.ObjectiveVerbs = make(map[string][]string)
	}
	return &c, nil
}
