// Package telemetry reports anonymous plan-generation events to PostHog.
// It is off unless telemetry.enabled is set and a project key is configured.
package telemetry

import "github.com/google/uuid"

// Config holds the telemetry state for one process.
type Config struct {
	// Enabled indicates whether events are sent at all.
	Enabled bool

	// AnonymousID identifies this process run; it is not tied to a user.
	AnonymousID string
}

// NewConfig returns a config with a fresh anonymous ID.
func NewConfig(enabled bool) *Config {
	return &Config{Enabled: enabled, AnonymousID: uuid.NewString()}
}

// IsEnabled reports whether events should be sent.
func (c *Config) IsEnabled() bool {
	return c != nil && c.Enabled && c.AnonymousID != ""
}
