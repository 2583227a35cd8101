package llm

import "time"

// Provider constants
const (
	// DefaultProvider is the default LLM provider
	DefaultProvider = ProviderOpenAI

	// ProviderOpenAI covers OpenAI and any gateway speaking the chat-completions protocol
	ProviderOpenAI Provider = "openai"

	// ProviderOllama represents the Ollama provider
	ProviderOllama Provider = "ollama"

	// ProviderAnthropic represents the Anthropic provider
	ProviderAnthropic Provider = "anthropic"

	// ProviderGemini represents the Google Gemini provider
	ProviderGemini Provider = "gemini"
)

// DefaultBaseURL is the OpenAI-compatible AI gateway used when none is configured.
const DefaultBaseURL = "https://ai.gateway.lovable.dev/v1"

// DefaultOllamaURL is the default URL for Ollama server
const DefaultOllamaURL = "http://localhost:11434"

// DefaultModel is the model requested from the default gateway.
const DefaultModel = "google/gemini-2.5-flash"

// DefaultTemperature is the fixed sampling temperature for plan generation.
const DefaultTemperature float32 = 0.7

// DefaultTimeout bounds a single upstream completion call.
const DefaultTimeout = 30 * time.Second

// DefaultMaxTokens is sent to providers that require an explicit output budget.
const DefaultMaxTokens = 4096

// DefaultModelForProvider returns the default model ID for a given provider.
func DefaultModelForProvider(provider Provider) string {
	switch provider {
	case ProviderOpenAI:
		return DefaultModel
	case ProviderOllama:
		return "llama3.2"
	case ProviderAnthropic:
		return "claude-3-5-sonnet-latest"
	case ProviderGemini:
		return "gemini-2.5-flash"
	default:
		return ""
	}
}
