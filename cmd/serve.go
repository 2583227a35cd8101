package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/josephgoksu/TaskFlow/internal/config"
	"github.com/josephgoksu/TaskFlow/internal/llm"
	"github.com/josephgoksu/TaskFlow/internal/logger"
	"github.com/josephgoksu/TaskFlow/internal/relay"
	"github.com/josephgoksu/TaskFlow/internal/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the relay HTTP service",
	Long: `Run the relay that turns goals into task lists.

Endpoints:
  POST /functions/v1/generate-tasks   {"goal": "..."} -> {"tasks": [...]}
  POST /api/generate-tasks            alias of the above
  GET  /healthz                       liveness
  GET  /metrics                       Prometheus metrics
  GET  /openapi.json                  OpenAPI description of the above

The upstream credential is read from relay.apiKey, TASKFLOW_RELAY_APIKEY,
LOVABLE_API_KEY or the provider's usual environment variable.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "listen address (default :8080)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}
	log := slog.Default()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	tel := newTelemetry(cfg, log)
	defer func() { _ = tel.Close() }()

	svc, err := newRelayService(cfg, log, relay.WithMetrics(relay.NewMetrics(reg)), relay.WithTelemetry(tel))
	if err != nil {
		return err
	}

	provider := llm.Provider(cfg.Relay.Provider)
	if cfg.Relay.APIKey == "" && llm.RequiresAPIKey(provider) {
		log.Warn("no upstream API key configured; requests will fail until one is set", "provider", provider)
	}

	srv := server.New(cfg.HTTPServer(), svc, reg, log)
	watchLogLevel(viper.GetViper(), log)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup
	serverErr := make(chan error, 1)
	if err := srv.Start(&wg, serverErr); err != nil {
		return err
	}
	log.Info("relay ready", "provider", provider, "model", cfg.Relay.Model, "timeout", cfg.Relay.Timeout)
	tel.TrackServerStarted(string(provider), cfg.Relay.Model)

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		log.Info("shutting down relay")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	wg.Wait()
	log.Info("relay stopped")
	return nil
}

// watchLogLevel applies log.level edits in the config file without a restart.
// Other settings are read once at startup.
func watchLogLevel(v *viper.Viper, log *slog.Logger) {
	if v.ConfigFileUsed() == "" || v.GetBool("verbose") {
		return
	}
	v.OnConfigChange(func(e fsnotify.Event) {
		lvl := v.GetString("log.level")
		if err := logger.SetLevel(lvl); err != nil {
			log.Warn("ignoring config change", "file", e.Name, "error", err)
			return
		}
		log.Info("log level updated", "file", e.Name, "level", lvl)
	})
	v.WatchConfig()
}
