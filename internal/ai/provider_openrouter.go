package ai

const (
	defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"
	defaultOpenRouterModel   = "openai/gpt-4o-mini"
)

// NewOpenRouterProvider creates a provider for OpenRouter. OpenRouter speaks
// the OpenAI API and asks callers to identify themselves with extra headers.
func NewOpenRouterProvider(apiKey string, opts ...OpenAIOption) *OpenAIProvider {
	opts = append([]OpenAIOption{
		WithBaseURL(defaultOpenRouterBaseURL),
		WithProviderName("openrouter"),
		WithModel(defaultOpenRouterModel),
		withHeader("HTTP-Referer", "https://github.com/p-n-ai/pai-syllabus"),
		withHeader("X-Title", "pai-syllabus"),
	}, opts...)
	return NewOpenAIProvider(apiKey, opts...)
}
