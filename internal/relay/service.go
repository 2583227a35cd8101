// Package relay turns a free-text goal into a task list with one upstream completion call.
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/josephgoksu/TaskFlow/internal/llm"
	"github.com/josephgoksu/TaskFlow/internal/logger"
	"github.com/josephgoksu/TaskFlow/internal/planner"
	"github.com/josephgoksu/TaskFlow/internal/task"
	"github.com/josephgoksu/TaskFlow/internal/telemetry"
	"github.com/josephgoksu/TaskFlow/internal/utils"
)

// Config holds the upstream settings for a Service.
type Config struct {
	Provider    llm.Provider
	APIKey      string
	Model       string
	Temperature *float32 // nil means llm.DefaultTemperature; zero is kept
	Timeout     time.Duration
}

// Service relays goals to the upstream model and returns the parsed tasks.
type Service struct {
	cfg       Config
	completer llm.Completer
	log       *slog.Logger
	metrics   *Metrics
	telemetry telemetry.Client
}

// Option customizes a Service.
type Option func(*Service)

// WithLogger sets the logger; slog.Default() is used otherwise.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.log = l }
}

// WithMetrics records generation metrics.
func WithMetrics(m *Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithTelemetry sends anonymous generation events.
func WithTelemetry(c telemetry.Client) Option {
	return func(s *Service) { s.telemetry = c }
}

// NewService creates a relay. The credential is checked on every call,
// so a Service built without one still reports the failure through Generate.
func NewService(cfg Config, completer llm.Completer, opts ...Option) *Service {
	if cfg.Provider == "" {
		cfg.Provider = llm.DefaultProvider
	}
	if cfg.Model == "" {
		cfg.Model = llm.DefaultModelForProvider(cfg.Provider)
	}
	if cfg.Temperature == nil {
		temperature := llm.DefaultTemperature
		cfg.Temperature = &temperature
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = llm.DefaultTimeout
	}

	s := &Service{
		cfg:       cfg,
		completer: completer,
		log:       slog.Default(),
		telemetry: telemetry.NewNoopClient(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate breaks goal down into tasks with exactly one upstream request.
// Failures are returned as *Error.
func (s *Service) Generate(ctx context.Context, goal string) ([]task.Task, error) {
	start := time.Now()
	provider := string(s.cfg.Provider)

	tasks, err := s.generate(ctx, goal)
	if err != nil {
		kind := KindOf(err)
		s.metrics.recordOutcome(provider, kind.String())
		s.telemetry.TrackPlan(telemetry.PlanEvent{Provider: provider, Model: s.cfg.Model, Elapsed: time.Since(start), ErrorKind: kind.String()})
		return nil, err
	}

	report := planner.Check(tasks)
	if !report.Clean() {
		s.logReport(report)
	}

	s.metrics.recordOutcome(provider, "success")
	s.metrics.recordTasks(len(tasks))
	s.telemetry.TrackPlan(telemetry.PlanEvent{Provider: provider, Model: s.cfg.Model, Elapsed: time.Since(start), Tasks: len(tasks), Issues: report.Issues()})

	s.log.Info("Successfully generated tasks", "count", len(tasks), "duration", time.Since(start))
	return tasks, nil
}

func (s *Service) generate(ctx context.Context, goal string) ([]task.Task, error) {
	s.log.Info("Generating tasks for goal", "goal", goal)
	logger.SetLastInput(goal)

	if s.cfg.APIKey == "" && llm.RequiresAPIKey(s.cfg.Provider) {
		err := NewError(KindConfiguration, nil)
		s.log.Error("Relay credential missing", "provider", s.cfg.Provider)
		return nil, err
	}

	userPrompt := UserPrompt(goal)
	logger.SetLastPrompt(userPrompt)

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	upstreamStart := time.Now()
	completion, err := s.completer.Complete(ctx, llm.Request{
		Model:       s.cfg.Model,
		Messages:    []llm.Message{llm.SystemMessage(SystemPrompt), llm.UserMessage(userPrompt)},
		Temperature: *s.cfg.Temperature,
	})
	s.metrics.observeUpstream(string(s.cfg.Provider), s.cfg.Model, time.Since(upstreamStart).Seconds())
	if err != nil {
		return nil, s.classifyUpstream(err)
	}
	if completion == nil {
		completion = &llm.Completion{}
	}

	s.log.Debug("AI response", "model", completion.Model, "finish_reason", completion.FinishReason, "content", completion.Content)

	tasks, err := ParseTasks(completion.Content)
	if err != nil {
		if KindOf(err) == KindMalformedJSON {
			s.log.Error("Failed to parse AI response", "content", completion.Content, "error", errors.Unwrap(err))
		} else {
			s.log.Error("Rejected AI response", "kind", KindOf(err), "error", err)
		}
		return nil, err
	}
	return tasks, nil
}

func (s *Service) classifyUpstream(err error) error {
	status := llm.StatusCode(err)
	switch {
	case status == http.StatusTooManyRequests:
		s.log.Error("Rate limit exceeded")
		return &Error{Kind: KindRateLimited, Message: MsgRateLimited, StatusCode: status, Err: err}
	case status == http.StatusPaymentRequired:
		s.log.Error("Payment required")
		return &Error{Kind: KindQuotaExhausted, Message: MsgQuotaExhausted, StatusCode: status, Err: err}
	case status != 0:
		var se *llm.StatusError
		body := ""
		if errors.As(err, &se) {
			body = se.Body
		}
		s.log.Error("AI gateway error", "status", status, "body", body)
		return &Error{Kind: KindUpstream, Message: MsgUpstream, StatusCode: status, Body: body, Err: err}
	default:
		s.log.Error("AI gateway unreachable", "timeout", s.cfg.Timeout, "error", err)
		return NewError(KindTransport, err)
	}
}

func (s *Service) logReport(r planner.Report) {
	if !r.CountInRange {
		s.log.Warn("Task count outside guideline", "count", r.TaskCount, "min", planner.MinTasks, "max", planner.MaxTasks)
		s.metrics.recordIssue("count", 1)
	}
	for _, f := range r.Findings {
		s.log.Warn("Task deviates from schema", "index", f.Index, "title", f.Title, "issues", f.Result.ErrorSummary())
		s.metrics.recordIssue("field", len(f.Result.Errors))
	}
	if !r.Dependencies.OK() {
		s.log.Warn("Task dependencies do not resolve", "report", r.Dependencies.String())
		s.metrics.recordIssue("dependencies", 1)
	}
}

// ParseTasks extracts the task array from an upstream reply.
// A single surrounding markdown fence is removed first. Elements are never
// rejected: each keeps its original JSON, so the array is relayed verbatim.
func ParseTasks(content string) ([]task.Task, error) {
	cleaned := utils.StripCodeFence(content)
	if cleaned == "" {
		return nil, NewError(KindEmptyCompletion, nil)
	}

	var doc any
	if err := json.Unmarshal([]byte(cleaned), &doc); err != nil {
		return nil, NewError(KindMalformedJSON, err)
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &envelope); err != nil {
		return nil, NewError(KindInvalidShape, fmt.Errorf("response is not a JSON object: %w", err))
	}
	raw, ok := envelope["tasks"]
	if !ok {
		return nil, NewError(KindInvalidShape, errors.New(`missing "tasks"`))
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, NewError(KindInvalidShape, fmt.Errorf(`"tasks" is not an array: %s`, utils.Truncate(string(raw), 40)))
	}

	var tasks []task.Task
	if err := json.Unmarshal(raw, &tasks); err != nil {
		return nil, NewError(KindInvalidShape, err)
	}
	if tasks == nil {
		tasks = []task.Task{}
	}
	return tasks, nil
}
