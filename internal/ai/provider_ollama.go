package ai

import "strings"

const (
	defaultOllamaURL   = "http://localhost:11434"
	defaultOllamaModel = "deepseek-r1:8b"
)

// NewOllamaProvider creates a provider for a self-hosted Ollama server.
// Ollama exposes an OpenAI-compatible API under /v1 and ignores the API key.
func NewOllamaProvider(baseURL string, opts ...OpenAIOption) *OpenAIProvider {
	if baseURL == "" {
		baseURL = defaultOllamaURL
	}
	opts = append([]OpenAIOption{
		WithBaseURL(strings.TrimSuffix(baseURL, "/") + "/v1"),
		WithProviderName("ollama"),
		WithModel(defaultOllamaModel),
	}, opts...)
	return NewOpenAIProvider("ollama", opts...)
}
