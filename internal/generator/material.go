package generator

import (
	"bytes"
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/p-n-ai/pai-syllabus/internal/ai"
	"github.com/p-n-ai/pai-syllabus/internal/export"
	"github.com/p-n-ai/pai-syllabus/internal/store"
	"github.com/p-n-ai/pai-syllabus/internal/syllabus"
)

const (
	materialSystemPrompt = "You are an experienced lecturer preparing course notes."
	defaultParallelism   = 4
)

// MaterialCompiler asks a model to write notes for each topic and renders
// every reply as a PDF.
type MaterialCompiler struct {
	completer   ai.Completer
	parallelism int
}

// NewMaterialCompiler returns a compiler that runs at most parallelism
// model calls at once.
func NewMaterialCompiler(completer ai.Completer, parallelism int) *MaterialCompiler {
	if parallelism <= 0 {
		parallelism = defaultParallelism
	}
	return &MaterialCompiler{completer: completer, parallelism: parallelism}
}

// Compile returns one PDF per topic, in topic order, named after the topic
// title. Any failed topic fails the whole run.
func (c *MaterialCompiler) Compile(ctx context.Context, topics []syllabus.Topic) ([]export.File, error) {
	files := make([]export.File, len(topics))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(c.parallelism)
	for i, topic := range topics {
		eg.Go(func() error {
			req := ai.Prompt(ai.TaskMaterial, materialSystemPrompt, materialPrompt(topic))
			req.MaxTokens = 2048
			resp, err := c.completer.Complete(ctx, req)
			if err != nil {
				return fmt.Errorf("material for %q: %w", topic.Title, err)
			}

			var buf bytes.Buffer
			if err := export.WriteDocument(&buf, "Unit: "+topic.Title, resp.Content); err != nil {
				return fmt.Errorf("render material for %q: %w", topic.Title, err)
			}
			files[i] = export.File{Name: store.SafeFilename(topic.Title) + ".pdf", Data: buf.Bytes()}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return files, nil
}

func materialPrompt(topic syllabus.Topic) string {
	return fmt.Sprintf(`Generate structured course material for:
- Unit: %s
- Content: %s

Include:
1. Brief Introduction
2. Key Concepts
3. Examples
4. Diagrams (Textual Description)`, topic.Title, topic.Content)
}
