package cmd

import (
	"fmt"
	"log/slog"

	"github.com/josephgoksu/TaskFlow/internal/client"
	"github.com/josephgoksu/TaskFlow/internal/config"
	"github.com/josephgoksu/TaskFlow/internal/llm"
	"github.com/josephgoksu/TaskFlow/internal/relay"
	"github.com/josephgoksu/TaskFlow/internal/session"
	"github.com/josephgoksu/TaskFlow/internal/telemetry"
)

// newRelayService wires the completer for the configured provider into a relay.
func newRelayService(cfg *config.AppConfig, log *slog.Logger, opts ...relay.Option) (*relay.Service, error) {
	completer, err := llm.NewCompleter(cfg.LLM())
	if err != nil {
		return nil, fmt.Errorf("create completer: %w", err)
	}
	opts = append([]relay.Option{relay.WithLogger(log)}, opts...)
	return relay.NewService(cfg.RelayService(), completer, opts...), nil
}

// newGenerator returns the in-process relay when client.local is set and the
// HTTP client otherwise.
func newGenerator(cfg *config.AppConfig, log *slog.Logger) (session.Generator, error) {
	if cfg.Client.Local {
		svc, err := newRelayService(cfg, log)
		if err != nil {
			return nil, err
		}
		return svc, nil
	}
	c := client.New(cfg.Client.RelayURL, cfg.Client.Timeout, log)
	log.Debug("using remote relay", "endpoint", c.Endpoint())
	return c, nil
}

// newTelemetry returns a PostHog client when enabled, otherwise a no-op.
func newTelemetry(cfg *config.AppConfig, log *slog.Logger) telemetry.Client {
	tc, err := telemetry.New(telemetry.ClientConfig{
		APIKey:   cfg.Telemetry.APIKey,
		Version:  version,
		Config:   telemetry.NewConfig(cfg.Telemetry.Enabled),
		Endpoint: cfg.Telemetry.Endpoint,
	})
	if err != nil {
		log.Warn("telemetry disabled", "error", err)
		return telemetry.NewNoopClient()
	}
	return tc
}
