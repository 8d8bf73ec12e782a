package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/p-n-ai/pai-syllabus/internal/catalog"
	"github.com/p-n-ai/pai-syllabus/internal/export"
	"github.com/p-n-ai/pai-syllabus/internal/platform/random"
	"github.com/p-n-ai/pai-syllabus/internal/syllabus"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "syllabusctl",
		Short:         "Generate course material from a syllabus file",
		Long:          "syllabusctl extracts topics, units and outcomes from a syllabus (PDF or text) and generates questions, lesson plans, schedules and CO-PO mappings offline.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			verbose, _ := cmd.Flags().GetBool("verbose")
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
		},
	}

	root.PersistentFlags().String("catalog", "", "Path to a catalog YAML file or directory (overrides LEARN_CATALOG_PATH)")
	root.PersistentFlags().Uint64("seed", 0, "Seed for reproducible output (0 picks a random seed)")
	root.PersistentFlags().Bool("csv", false, "Print CSV instead of JSON")
	root.PersistentFlags().BoolP("verbose", "v", false, "Log debug output to stderr")

	root.AddCommand(newExtractCmd())
	root.AddCommand(newQuestionsCmd())
	root.AddCommand(newLessonPlanCmd())
	root.AddCommand(newScheduleCmd())
	root.AddCommand(newCorrelationCmd())
	return root
}

// loadCatalog resolves the catalog from --catalog, then LEARN_CATALOG_PATH,
// then the embedded default.
func loadCatalog(cmd *cobra.Command) (*catalog.Catalog, error) {
	path, _ := cmd.Flags().GetString("catalog")
	if path == "" {
		path = os.Getenv("LEARN_CATALOG_PATH")
	}
	cat, err := catalog.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}
	return cat, nil
}

func randSource(cmd *cobra.Command) random.Source {
	seed, _ := cmd.Flags().GetUint64("seed")
	if seed == 0 {
		return random.Default()
	}
	return random.NewSeeded(seed, seed)
}

// readSyllabus extracts a document from a local file the same way an upload
// is handled.
func readSyllabus(path string) (syllabus.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return syllabus.Document{}, fmt.Errorf("reading syllabus: %w", err)
	}
	name := filepath.Base(path)
	doc := syllabus.NewDocument(name, syllabus.TextFromUpload(name, data))
	slog.Debug("syllabus extracted", "file", name, "topics", len(doc.Topics), "units", len(doc.Units))
	return doc, nil
}

// emit writes v as indented JSON, or table as CSV when --csv is set.
// table is only built when needed.
func emit(cmd *cobra.Command, v any, table func() (export.Table, error)) error {
	asCSV, _ := cmd.Flags().GetBool("csv")
	out := cmd.OutOrStdout()
	if asCSV {
		t, err := table()
		if err != nil {
			return err
		}
		return export.WriteCSV(out, t)
	}
	return writeJSON(out, v)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
