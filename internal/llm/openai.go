package llm

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAICompleter talks to any endpoint that implements the OpenAI chat-completions protocol.
type OpenAICompleter struct {
	client *openai.Client
}

// NewOpenAICompleter creates a completer for cfg.BaseURL authenticated with cfg.APIKey.
func NewOpenAICompleter(cfg Config, httpClient *http.Client) *OpenAICompleter {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	} else {
		clientCfg.BaseURL = DefaultBaseURL
	}
	if httpClient != nil {
		clientCfg.HTTPClient = httpClient
	}
	return &OpenAICompleter{client: openai.NewClientWithConfig(clientCfg)}
}

// Complete issues one chat completion request and waits for the full reply.
func (c *OpenAICompleter) Complete(ctx context.Context, req Request) (*Completion, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    string(m.Role),
			Content: m.Content,
		})
	}

	// The request field is omitempty, so zero has to travel as the smallest float.
	temperature := req.Temperature
	if temperature == 0 {
		temperature = math.SmallestNonzeroFloat32
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    messages,
		Temperature: temperature,
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) && apiErr.HTTPStatusCode != 0 {
			return nil, &StatusError{StatusCode: apiErr.HTTPStatusCode, Body: apiErr.Message, Err: err}
		}
		var reqErr *openai.RequestError
		if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
			return nil, &StatusError{StatusCode: reqErr.HTTPStatusCode, Body: reqErr.Error(), Err: err}
		}
		return nil, fmt.Errorf("chat completion: %w", err)
	}

	out := &Completion{Model: resp.Model, Choices: len(resp.Choices)}
	if len(resp.Choices) > 0 {
		out.Content = resp.Choices[0].Message.Content
		out.FinishReason = string(resp.Choices[0].FinishReason)
	}
	return out, nil
}
