package llm

import (
	"context"
	"fmt"
	"sync"

	"github.com/cloudwego/eino-ext/components/model/claude"
	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino-ext/components/model/ollama"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"
)

// EinoCompleter serves non-OpenAI providers through CloudWeGo Eino chat models.
// The chat model is created on first use so a missing credential surfaces per call.
type EinoCompleter struct {
	cfg Config

	mu        sync.Mutex
	chatModel model.BaseChatModel
	newModel  func(ctx context.Context, cfg Config) (model.BaseChatModel, error)
}

// NewEinoCompleter creates a lazily initialised Eino-backed completer.
func NewEinoCompleter(cfg Config) *EinoCompleter {
	return &EinoCompleter{cfg: cfg, newModel: NewChatModel}
}

// Complete sends the messages to the provider and returns the first reply.
func (c *EinoCompleter) Complete(ctx context.Context, req Request) (*Completion, error) {
	cm, err := c.model(ctx)
	if err != nil {
		return nil, fmt.Errorf("create chat model: %w", err)
	}

	messages := make([]*schema.Message, 0, len(req.Messages))
	for _, m := range req.Messages {
		switch m.Role {
		case RoleSystem:
			messages = append(messages, schema.SystemMessage(m.Content))
		case RoleAssistant:
			messages = append(messages, schema.AssistantMessage(m.Content, nil))
		default:
			messages = append(messages, schema.UserMessage(m.Content))
		}
	}

	opts := []model.Option{model.WithTemperature(req.Temperature)}
	if req.Model != "" {
		opts = append(opts, model.WithModel(req.Model))
	}

	resp, err := cm.Generate(ctx, messages, opts...)
	if err != nil {
		if code := statusFromText(err.Error()); code >= 400 {
			return nil, &StatusError{StatusCode: code, Body: err.Error(), Err: err}
		}
		return nil, fmt.Errorf("LLM generate: %w", err)
	}
	if resp == nil {
		return &Completion{Model: req.Model}, nil
	}

	out := &Completion{Content: resp.Content, Model: req.Model, Choices: 1}
	if resp.ResponseMeta != nil {
		out.FinishReason = resp.ResponseMeta.FinishReason
	}
	return out, nil
}

func (c *EinoCompleter) model(ctx context.Context) (model.BaseChatModel, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.chatModel != nil {
		return c.chatModel, nil
	}
	cm, err := c.newModel(ctx, c.cfg)
	if err != nil {
		return nil, err
	}
	c.chatModel = cm
	return cm, nil
}

// NewChatModel creates a ChatModel instance based on the provider configuration.
func NewChatModel(ctx context.Context, cfg Config) (model.BaseChatModel, error) {
	modelName := cfg.Model
	if modelName == "" {
		modelName = DefaultModelForProvider(cfg.Provider)
	}

	switch cfg.Provider {
	case ProviderOllama:
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = DefaultOllamaURL
		}
		return ollama.NewChatModel(ctx, &ollama.ChatModelConfig{
			BaseURL: baseURL,
			Model:   modelName,
			Timeout: cfg.Timeout,
		})

	case ProviderAnthropic:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("anthropic API key is required")
		}
		claudeCfg := &claude.Config{
			APIKey:    cfg.APIKey,
			Model:     modelName,
			MaxTokens: DefaultMaxTokens,
		}
		if cfg.BaseURL != "" {
			baseURL := cfg.BaseURL
			claudeCfg.BaseURL = &baseURL
		}
		return claude.NewChatModel(ctx, claudeCfg)

	case ProviderGemini:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("gemini API key is required")
		}
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  cfg.APIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, fmt.Errorf("create gemini client: %w", err)
		}
		return gemini.NewChatModel(ctx, &gemini.Config{
			Client: client,
			Model:  modelName,
		})

	default:
		return nil, fmt.Errorf("unsupported eino provider: %s (supported: ollama, anthropic, gemini)", cfg.Provider)
	}
}
