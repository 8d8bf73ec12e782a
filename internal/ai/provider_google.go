package ai

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

const defaultGoogleModel = "gemini-2.0-flash"

// GoogleProvider implements Provider using the Gemini SDK.
type GoogleProvider struct {
	client *genai.Client
	model  string
}

// GoogleOption configures a GoogleProvider.
type GoogleOption func(*genai.ClientConfig, *string)

// WithGoogleBaseURL sets the API base URL (for testing).
func WithGoogleBaseURL(url string) GoogleOption {
	return func(cfg *genai.ClientConfig, _ *string) {
		cfg.HTTPOptions.BaseURL = url
	}
}

// WithGoogleModel sets the default model.
func WithGoogleModel(model string) GoogleOption {
	return func(_ *genai.ClientConfig, m *string) {
		if model != "" {
			*m = model
		}
	}
}

// NewGoogleProvider creates a Gemini provider.
func NewGoogleProvider(ctx context.Context, apiKey string, opts ...GoogleOption) (*GoogleProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("google API key is required")
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	model := defaultGoogleModel
	for _, opt := range opts {
		opt(cfg, &model)
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GoogleProvider{client: client, model: model}, nil
}

func (p *GoogleProvider) Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, error) {
	model := req.Model
	if model == "" {
		model = p.model
	}

	system, turns := splitSystem(req.Messages)
	contents := make([]*genai.Content, len(turns))
	for i, m := range turns {
		role := "user"
		if m.Role == RoleAssistant {
			role = "model"
		}
		contents[i] = &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: m.Content}},
		}
	}

	config := &genai.GenerateContentConfig{}
	if req.MaxTokens > 0 {
		config.MaxOutputTokens = int32(req.MaxTokens)
	}
	if req.Temperature > 0 {
		temp := float32(req.Temperature)
		config.Temperature = &temp
	}
	if system != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: system}},
		}
	}

	result, err := p.client.Models.GenerateContent(ctx, model, contents, config)
	if err != nil {
		var apiErr *genai.APIError
		if errors.As(err, &apiErr) {
			return CompletionResponse{}, fmt.Errorf("gemini api error (status %d): %w", apiErr.Code, err)
		}
		return CompletionResponse{}, fmt.Errorf("gemini request: %w", err)
	}

	text := result.Text()
	if text == "" {
		return CompletionResponse{}, fmt.Errorf("no text content in gemini response")
	}

	resp := CompletionResponse{Content: text, Model: model}
	if result.UsageMetadata != nil {
		resp.InputTokens = int(result.UsageMetadata.PromptTokenCount)
		resp.OutputTokens = int(result.UsageMetadata.CandidatesTokenCount)
	}
	return resp, nil
}
