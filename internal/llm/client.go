// Package llm provides a unified chat-completion interface over the supported upstream providers.
package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/hashicorp/go-cleanhttp"
)

// Provider identifies the LLM provider to use.
type Provider string

// Role is the author of a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one chat turn sent upstream.
type Message struct {
	Role    Role
	Content string
}

// SystemMessage builds a system-role message.
func SystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// UserMessage builds a user-role message.
func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// Request is a single non-streamed completion request.
type Request struct {
	Model       string
	Messages    []Message
	Temperature float32
}

// Completion is the text of the first choice returned upstream.
// Content is empty when the provider returned no choices or no text.
type Completion struct {
	Content      string
	Model        string
	FinishReason string
	Choices      int
}

// Completer sends one completion request upstream.
// Non-success HTTP statuses are reported as *StatusError.
type Completer interface {
	Complete(ctx context.Context, req Request) (*Completion, error)
}

// Config holds configuration for creating an LLM client.
type Config struct {
	Provider Provider
	Model    string        // Chat model
	APIKey   string        // Bearer credential; not needed for Ollama
	BaseURL  string        // Gateway or Ollama URL
	Timeout  time.Duration // Per-call transport timeout
}

// RequiresAPIKey reports whether the provider needs a credential before any call is made.
func RequiresAPIKey(p Provider) bool {
	return p != ProviderOllama
}

// NewCompleter creates a Completer for the configured provider.
// Construction never performs network I/O; provider clients that need a
// credential are created lazily on first use.
func NewCompleter(cfg Config) (Completer, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	switch cfg.Provider {
	case ProviderOpenAI, "":
		return NewOpenAICompleter(cfg, newHTTPClient(cfg.Timeout)), nil
	case ProviderOllama, ProviderAnthropic, ProviderGemini:
		return NewEinoCompleter(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s (supported: openai, ollama, anthropic, gemini)", cfg.Provider)
	}
}

func newHTTPClient(timeout time.Duration) *http.Client {
	c := cleanhttp.DefaultPooledClient()
	c.Timeout = timeout
	return c
}
