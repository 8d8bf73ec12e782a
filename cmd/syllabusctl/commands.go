package main

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/p-n-ai/pai-syllabus/internal/catalog"
	"github.com/p-n-ai/pai-syllabus/internal/export"
	"github.com/p-n-ai/pai-syllabus/internal/mapping"
	"github.com/p-n-ai/pai-syllabus/internal/planner"
	"github.com/p-n-ai/pai-syllabus/internal/questions"
	"github.com/p-n-ai/pai-syllabus/internal/syllabus"
)

func newExtractCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "extract <file>",
		Short: "Print the topics, units and outcomes found in a syllabus",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readSyllabus(args[0])
			if err != nil {
				return err
			}
			return emit(cmd, doc.Structure, func() (export.Table, error) {
				if len(doc.Topics) == 0 {
					return export.Table{}, export.ErrEmpty
				}
				t := export.Table{Title: "Topics", Header: []string{"title", "content"}}
				for _, topic := range doc.Topics {
					t.Rows = append(t.Rows, []string{topic.Title, topic.Content})
				}
				return t, nil
			})
		},
	}
}

func newQuestionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "questions <file>",
		Short: "Generate a question bank for every topic",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			levels, _ := cmd.Flags().GetStringSlice("taxonomies")
			difficulty, _ := cmd.Flags().GetString("difficulty")
			for _, level := range levels {
				if !slices.Contains(catalog.Levels, level) {
					return fmt.Errorf("unknown taxonomy level %q (want one of %v)", level, catalog.Levels)
				}
			}
			if len(levels) == 0 {
				return fmt.Errorf("--taxonomies must name at least one level")
			}

			cat, err := loadCatalog(cmd)
			if err != nil {
				return err
			}
			doc, err := readSyllabus(args[0])
			if err != nil {
				return err
			}

			synth := questions.NewSynthesizer(cat, randSource(cmd))
			bank, err := questions.Bank(cmd.Context(), synth, doc.Topics, levels, difficulty)
			if err != nil {
				return err
			}
			return emit(cmd, bank, func() (export.Table, error) { return export.QuestionsTable(bank) })
		},
	}
	cmd.Flags().StringSlice("taxonomies", catalog.Levels[:3], "Bloom levels to generate questions for")
	cmd.Flags().String("difficulty", "Medium", "Difficulty label attached to every question")
	return cmd
}

func newLessonPlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lesson-plan <file>",
		Short: "Allocate teaching days to units and topics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			weeks, _ := cmd.Flags().GetInt("weeks")
			days, _ := cmd.Flags().GetInt("days-per-week")
			rawWeights, _ := cmd.Flags().GetStringToString("weight")
			weights, err := parseWeights(rawWeights)
			if err != nil {
				return err
			}

			cat, err := loadCatalog(cmd)
			if err != nil {
				return err
			}
			doc, err := readSyllabus(args[0])
			if err != nil {
				return err
			}

			plan, err := planner.New(cat, randSource(cmd)).LessonPlan(cmd.Context(), planner.LessonPlanParams{
				Units:       doc.Units,
				Topics:      doc.Topics,
				Weeks:       weeks,
				DaysPerWeek: days,
				Weights:     weights,
			})
			if err != nil {
				return err
			}
			return emit(cmd, plan, func() (export.Table, error) { return export.LessonPlanTable(plan) })
		},
	}
	cmd.Flags().Int("weeks", planner.DefaultWeeks, "Number of teaching weeks")
	cmd.Flags().Int("days-per-week", planner.DefaultDaysPerWeek, "Teaching days per week")
	cmd.Flags().StringToString("weight", nil, "Relative unit weight, e.g. --weight \"Unit I=2\"")
	return cmd
}

func parseWeights(raw map[string]string) (map[string]float64, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	weights := make(map[string]float64, len(raw))
	for unit, s := range raw {
		w, err := strconv.ParseFloat(s, 64)
		if err != nil || w < 0 {
			return nil, fmt.Errorf("invalid weight %q for %s", s, unit)
		}
		weights[unit] = w
	}
	return weights, nil
}

func newScheduleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule <file>",
		Short: "Lay topics out over teaching hours",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			totalWeeks, _ := cmd.Flags().GetInt("total-weeks")
			hours, _ := cmd.Flags().GetInt("hours-per-week")
			if totalWeeks <= 0 || hours <= 0 {
				return fmt.Errorf("--total-weeks and --hours-per-week must be positive")
			}

			cat, err := loadCatalog(cmd)
			if err != nil {
				return err
			}
			doc, err := readSyllabus(args[0])
			if err != nil {
				return err
			}

			schedule := planner.Schedule(randSource(cmd), cat, doc.Topics, doc.Units, totalWeeks, hours)
			return emit(cmd, schedule, func() (export.Table, error) { return export.ScheduleTable(schedule) })
		},
	}
	cmd.Flags().Int("total-weeks", planner.DefaultTotalWeeks, "Number of weeks to schedule")
	cmd.Flags().Int("hours-per-week", planner.DefaultHoursPerWeek, "Teaching hours per week")
	return cmd
}

type correlationOutput struct {
	Mapping         mapping.Mapping     `json:"mapping"`
	CourseOutcomes  syllabus.OutcomeMap `json:"course_outcomes"`
	ProgramOutcomes syllabus.OutcomeMap `json:"program_outcomes"`
}

func newCorrelationCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "copo <file>",
		Aliases: []string{"copo-mapping"},
		Short:   "Correlate course outcomes with program outcomes",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readSyllabus(args[0])
			if err != nil {
				return err
			}
			m := mapping.Correlate(randSource(cmd), doc.CourseOutcomes, doc.ProgramOutcomes)
			out := correlationOutput{Mapping: m, CourseOutcomes: doc.CourseOutcomes, ProgramOutcomes: doc.ProgramOutcomes}
			return emit(cmd, out, func() (export.Table, error) {
				return export.CorrelationTable(m, doc.CourseOutcomes, doc.ProgramOutcomes)
			})
		},
	}
}
