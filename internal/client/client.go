// Package client calls a running relay over HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/josephgoksu/TaskFlow/internal/relay"
	"github.com/josephgoksu/TaskFlow/internal/server"
	"github.com/josephgoksu/TaskFlow/internal/task"
)

// DefaultTimeout covers a full upstream timeout on the relay side plus overhead.
const DefaultTimeout = 45 * time.Second

// DefaultRelayURL is where `taskflow serve` listens by default.
const DefaultRelayURL = "http://localhost:8080"

const maxResponseBytes = 4 << 20

// Client posts goals to the relay's generate-tasks endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
	log        *slog.Logger
}

// New creates a client for the relay at baseURL.
// A baseURL that already ends in the endpoint path is used as-is.
func New(baseURL string, timeout time.Duration, log *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultRelayURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = slog.Default()
	}

	endpoint := strings.TrimRight(baseURL, "/")
	if !strings.HasSuffix(endpoint, server.PathGenerateTasks) && !strings.HasSuffix(endpoint, server.PathGenerateTasksAlias) {
		endpoint += server.PathGenerateTasks
	}

	httpClient := cleanhttp.DefaultPooledClient()
	httpClient.Timeout = timeout

	return &Client{endpoint: endpoint, httpClient: httpClient, log: log}
}

// Endpoint returns the full URL requests are sent to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Generate asks the relay to break goal down into tasks.
// Non-2xx answers come back as *relay.Error with the relay's message.
func (c *Client) Generate(ctx context.Context, goal string) ([]task.Task, error) {
	payload, err := json.Marshal(server.GenerateRequest{Goal: goal})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("Error generating tasks", "error", err)
		return nil, relay.NewError(relay.KindTransport, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, relay.NewError(relay.KindTransport, fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		relayErr := errorFromResponse(resp.StatusCode, body)
		c.log.Error("Error generating tasks", "status", resp.StatusCode, "error", relayErr.Message)
		return nil, relayErr
	}

	var out server.GenerateResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, relay.NewError(relay.KindMalformedJSON, err)
	}
	if out.Tasks == nil {
		out.Tasks = []task.Task{}
	}
	return out.Tasks, nil
}

func errorFromResponse(status int, body []byte) *relay.Error {
	var kind relay.Kind
	switch status {
	case http.StatusTooManyRequests:
		kind = relay.KindRateLimited
	case http.StatusPaymentRequired:
		kind = relay.KindQuotaExhausted
	default:
		kind = relay.KindUpstream
	}

	e := relay.NewError(kind, nil)
	e.StatusCode = status
	e.Body = string(body)

	var er server.ErrorResponse
	if json.Unmarshal(body, &er) == nil && er.Error != "" {
		e.Message = er.Error
	}
	return e
}
