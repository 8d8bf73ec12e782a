package ai_test

import (
	"context"
	"testing"

	"github.com/p-n-ai/pai-syllabus/internal/ai"
)

func TestMockProvider_Complete(t *testing.T) {
	mock := ai.NewMockProvider("test response")

	resp, err := mock.Complete(context.Background(), ai.CompletionRequest{
		Messages: []ai.Message{
			{Role: "user", Content: "Hello"},
		},
	})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if resp.Content != "test response" {
		t.Errorf("Content = %q, want %q", resp.Content, "test response")
	}
	if resp.Model != "mock" {
		t.Errorf("Model = %q, want %q", resp.Model, "mock")
	}
	if mock.Calls() != 1 {
		t.Errorf("Calls() = %d, want 1", mock.Calls())
	}
}

func TestMockProvider_Respond(t *testing.T) {
	mock := &ai.MockProvider{Respond: func(req ai.CompletionRequest) string {
		return "echo: " + req.Messages[len(req.Messages)-1].Content
	}}

	resp, err := mock.Complete(context.Background(), ai.Prompt(ai.TaskQuestions, "", "ping"))
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if resp.Content != "echo: ping" {
		t.Errorf("Content = %q, want %q", resp.Content, "echo: ping")
	}
}

func TestPrompt(t *testing.T) {
	req := ai.Prompt(ai.TaskMaterial, "be brief", "write notes")
	if len(req.Messages) != 2 {
		t.Fatalf("len(Messages) = %d, want 2", len(req.Messages))
	}
	if req.Messages[0].Role != ai.RoleSystem || req.Messages[1].Role != ai.RoleUser {
		t.Errorf("roles = %q,%q", req.Messages[0].Role, req.Messages[1].Role)
	}
	if req.Task != ai.TaskMaterial {
		t.Errorf("Task = %v, want %v", req.Task, ai.TaskMaterial)
	}

	if got := ai.Prompt(ai.TaskQuestions, "", "q"); len(got.Messages) != 1 {
		t.Errorf("Prompt without system has %d messages, want 1", len(got.Messages))
	}
}

func TestTaskType_String(t *testing.T) {
	tests := []struct {
		task     ai.TaskType
		expected string
	}{
		{ai.TaskQuestions, "questions"},
		{ai.TaskLessonPlan, "lesson_plan"},
		{ai.TaskEstimate, "estimate"},
		{ai.TaskMaterial, "material"},
		{ai.TaskType(99), "unknown"},
	}
	for _, tt := range tests {
		if tt.task.String() != tt.expected {
			t.Errorf("TaskType.String() = %q, want %q", tt.task.String(), tt.expected)
		}
	}
}

func TestCompletionResponse_TotalTokens(t *testing.T) {
	resp := ai.CompletionResponse{InputTokens: 100, OutputTokens: 50}
	if got := resp.TotalTokens(); got != 150 {
		t.Errorf("TotalTokens() = %d, want 150", got)
	}
}
