package telemetry

import (
	"io"
	"runtime"
	"sync"
	"time"

	"github.com/posthog/posthog-go"
)

// Client reports relay activity. Implementations are safe for concurrent use.
type Client interface {
	// TrackPlan reports the outcome of one generation.
	TrackPlan(e PlanEvent)

	// TrackServerStarted reports that the relay began serving.
	TrackServerStarted(provider, model string)

	// Close flushes pending events.
	Close() error
}

// Properties is an event payload.
type Properties = map[string]any

// enqueuer is the subset of the PostHog client used here.
type enqueuer interface {
	io.Closer
	Enqueue(msg posthog.Message) error
}

// PostHogClient sends relay events to PostHog in the background.
type PostHogClient struct {
	client  enqueuer
	config  *Config
	version string

	mu     sync.Mutex
	closed bool

	// plans counts generations reported in this process, sent with each plan event.
	plans int
}

// ClientConfig holds configuration for initializing the telemetry client.
type ClientConfig struct {
	// APIKey is the PostHog project API key.
	APIKey string

	// Version is the binary version string.
	Version string

	// Config carries the enabled flag and anonymous ID.
	Config *Config

	// Endpoint is an optional self-hosted PostHog endpoint.
	Endpoint string
}

// NewPostHogClient creates a PostHog telemetry client.
// An empty APIKey or nil Config yields a client that sends nothing.
func NewPostHogClient(cfg ClientConfig) (*PostHogClient, error) {
	c := &PostHogClient{config: cfg.Config, version: cfg.Version}
	if cfg.APIKey == "" || cfg.Config == nil {
		return c, nil
	}

	phConfig := posthog.Config{
		BatchSize: 10,
		Interval:  time.Second,
		Logger:    quietPostHogLogger{},
		Endpoint:  cfg.Endpoint,
	}
	client, err := posthog.NewWithConfig(cfg.APIKey, phConfig)
	if err != nil {
		return nil, err
	}
	c.client = client
	return c, nil
}

func newPostHogClientWithEnqueuer(enq enqueuer, cfg *Config, version string) *PostHogClient {
	return &PostHogClient{client: enq, config: cfg, version: version}
}

// TrackPlan reports a generation as plan_generated or plan_failed.
func (c *PostHogClient) TrackPlan(e PlanEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.sending() {
		return
	}
	c.plans++
	props := e.Properties()
	props["plans_in_process"] = c.plans
	c.capture(e.Name(), props)
}

// TrackServerStarted reports the provider and model a relay serves with.
func (c *PostHogClient) TrackServerStarted(provider, model string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.sending() {
		return
	}
	c.capture(EventServerStarted, Properties{"provider": provider, "model": model})
}

// sending reports whether events go out. Callers hold c.mu.
func (c *PostHogClient) sending() bool {
	return c.client != nil && !c.closed && c.config.IsEnabled()
}

func (c *PostHogClient) capture(event string, properties Properties) {
	props := posthog.NewProperties()
	for k, v := range properties {
		props.Set(k, v)
	}
	props.Set("os", runtime.GOOS)
	props.Set("arch", runtime.GOARCH)
	props.Set("version", c.version)
	// No person profiles: events stay anonymous.
	props.Set("$process_person_profile", false)

	_ = c.client.Enqueue(posthog.Capture{
		DistinctId: c.config.AnonymousID,
		Event:      event,
		Properties: props,
	})
}

// Close flushes pending events. Later events are dropped.
func (c *PostHogClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client == nil || c.closed {
		return nil
	}
	c.closed = true
	return c.client.Close()
}

// NoopClient drops every event.
type NoopClient struct{}

func (NoopClient) TrackPlan(PlanEvent)               {}
func (NoopClient) TrackServerStarted(string, string) {}
func (NoopClient) Close() error                      { return nil }

// NewNoopClient returns a client that does nothing.
func NewNoopClient() *NoopClient {
	return &NoopClient{}
}

// quietPostHogLogger keeps PostHog transport warnings out of the relay logs.
type quietPostHogLogger struct{}

func (quietPostHogLogger) Debugf(string, ...interface{}) {}
func (quietPostHogLogger) Logf(string, ...interface{})   {}
func (quietPostHogLogger) Warnf(string, ...interface{})  {}
func (quietPostHogLogger) Errorf(string, ...interface{}) {}

// New returns a PostHog client when enabled and keyed, otherwise a NoopClient.
func New(cfg ClientConfig) (Client, error) {
	if !cfg.Config.IsEnabled() || cfg.APIKey == "" {
		return NewNoopClient(), nil
	}
	c, err := NewPostHogClient(cfg)
	if err != nil {
		return nil, err
	}
	return c, nil
}
