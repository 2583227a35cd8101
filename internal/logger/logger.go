// Package logger configures structured logging and crash capture for TaskFlow.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Format selects the slog handler.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Options controls the handler built by New.
type Options struct {
	Level  string
	Format Format
	// Verbose forces debug level regardless of Level.
	Verbose bool
}

// ParseLevel maps a config string to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q (use debug, info, warn, error)", s)
	}
}

// level backs the default logger installed by Setup so it can change at runtime.
var level = new(slog.LevelVar)

// New builds a logger writing to w.
func New(w io.Writer, opts Options) (*slog.Logger, error) {
	l, err := resolveLevel(opts)
	if err != nil {
		return nil, err
	}
	return newLogger(w, opts.Format, l)
}

func resolveLevel(opts Options) (slog.Level, error) {
	if opts.Verbose {
		return slog.LevelDebug, nil
	}
	return ParseLevel(opts.Level)
}

func newLogger(w io.Writer, format Format, l slog.Leveler) (*slog.Logger, error) {
	handlerOpts := &slog.HandlerOptions{Level: l}
	switch format {
	case FormatJSON:
		return slog.New(slog.NewJSONHandler(w, handlerOpts)), nil
	case FormatText, "":
		return slog.New(slog.NewTextHandler(w, handlerOpts)), nil
	default:
		return nil, fmt.Errorf("unknown log format %q (use text or json)", format)
	}
}

// Setup builds a logger and installs it as the slog default.
// Its level can later be changed with SetLevel.
func Setup(w io.Writer, opts Options) (*slog.Logger, error) {
	l, err := resolveLevel(opts)
	if err != nil {
		return nil, err
	}
	log, err := newLogger(w, opts.Format, level)
	if err != nil {
		return nil, err
	}
	level.Set(l)
	slog.SetDefault(log)
	return log, nil
}

// SetLevel changes the level of the logger installed by Setup.
func SetLevel(s string) error {
	l, err := ParseLevel(s)
	if err != nil {
		return err
	}
	level.Set(l)
	return nil
}

// Level returns the current level of the logger installed by Setup.
func Level() slog.Level {
	return level.Level()
}
