// Package config loads TaskFlow settings from flags, environment, .env and YAML.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/josephgoksu/TaskFlow/internal/llm"
	"github.com/josephgoksu/TaskFlow/internal/relay"
	"github.com/josephgoksu/TaskFlow/internal/server"
	"github.com/spf13/viper"
)

// AppConfig is the full application configuration.
type AppConfig struct {
	Relay     RelayConfig     `mapstructure:"relay"`
	Server    ServerConfig    `mapstructure:"server"`
	Client    ClientConfig    `mapstructure:"client"`
	Log       LogConfig       `mapstructure:"log"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Export    ExportConfig    `mapstructure:"export"`
}

// RelayConfig configures the upstream completion call.
type RelayConfig struct {
	Provider    string        `mapstructure:"provider" validate:"oneof=openai ollama anthropic gemini"`
	APIKey      string        `mapstructure:"apiKey"`
	BaseURL     string        `mapstructure:"baseURL" validate:"omitempty,url"`
	Model       string        `mapstructure:"model"`
	Temperature float32       `mapstructure:"temperature" validate:"gte=0,lte=2"`
	Timeout     time.Duration `mapstructure:"timeout" validate:"gt=0"`
}

// ServerConfig configures `taskflow serve`.
type ServerConfig struct {
	Addr         string        `mapstructure:"addr" validate:"required"`
	ReadTimeout  time.Duration `mapstructure:"readTimeout" validate:"gt=0"`
	WriteTimeout time.Duration `mapstructure:"writeTimeout" validate:"gtfield=ReadTimeout"`
	IdleTimeout  time.Duration `mapstructure:"idleTimeout" validate:"gt=0"`
}

// ClientConfig configures how `taskflow ui` and `taskflow plan` reach the relay.
type ClientConfig struct {
	RelayURL string        `mapstructure:"relayURL" validate:"omitempty,url"`
	Timeout  time.Duration `mapstructure:"timeout" validate:"gt=0"`
	// Local runs the relay in-process instead of over HTTP.
	Local bool `mapstructure:"local"`
}

type LogConfig struct {
	Level    string `mapstructure:"level" validate:"oneof=debug info warn warning error"`
	Format   string `mapstructure:"format" validate:"oneof=text json"`
	StateDir string `mapstructure:"stateDir"`
}

type TelemetryConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	APIKey   string `mapstructure:"apiKey"`
	Endpoint string `mapstructure:"endpoint" validate:"omitempty,url"`
}

type ExportConfig struct {
	Dir string `mapstructure:"dir"`
}

// validate is a single instance of Validate, it caches struct info
var validate = validator.New()

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("relay.provider", string(llm.DefaultProvider))
	v.SetDefault("relay.apiKey", "")
	v.SetDefault("relay.baseURL", "")
	v.SetDefault("relay.model", "")
	v.SetDefault("relay.temperature", llm.DefaultTemperature)
	v.SetDefault("relay.timeout", llm.DefaultTimeout)

	sd := server.DefaultConfig()
	v.SetDefault("server.addr", sd.Addr)
	v.SetDefault("server.readTimeout", sd.ReadTimeout)
	v.SetDefault("server.writeTimeout", sd.WriteTimeout)
	v.SetDefault("server.idleTimeout", sd.IdleTimeout)

	v.SetDefault("client.relayURL", "http://localhost:8080")
	v.SetDefault("client.timeout", 45*time.Second)
	v.SetDefault("client.local", false)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.stateDir", "")

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.apiKey", "")
	v.SetDefault("telemetry.endpoint", "")

	v.SetDefault("export.dir", ".")
}

// Load unmarshals and validates the configuration held by v.
func Load(v *viper.Viper) (*AppConfig, error) {
	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.Relay.Provider = strings.ToLower(strings.TrimSpace(cfg.Relay.Provider))
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	provider := llm.Provider(cfg.Relay.Provider)
	cfg.Relay.APIKey = ResolveAPIKey(v, provider)
	if cfg.Relay.Model == "" {
		cfg.Relay.Model = llm.DefaultModelForProvider(provider)
	}
	if cfg.Relay.BaseURL == "" {
		switch provider {
		case llm.ProviderOpenAI:
			cfg.Relay.BaseURL = llm.DefaultBaseURL
		case llm.ProviderOllama:
			cfg.Relay.BaseURL = llm.DefaultOllamaURL
		}
	}
	return &cfg, nil
}

// ResolveAPIKey returns the upstream credential for provider.
// Order: relay.apiKey (config, TASKFLOW_RELAY_APIKEY, flag), then
// LOVABLE_API_KEY, then the provider's conventional env var.
func ResolveAPIKey(v *viper.Viper, provider llm.Provider) string {
	if key := strings.TrimSpace(v.GetString("relay.apiKey")); key != "" {
		return key
	}
	if provider == llm.ProviderOpenAI {
		if key := strings.TrimSpace(os.Getenv("LOVABLE_API_KEY")); key != "" {
			return key
		}
	}
	return providerEnvKey(provider)
}

func providerEnvKey(provider llm.Provider) string {
	switch provider {
	case llm.ProviderOpenAI:
		return strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	case llm.ProviderAnthropic:
		return strings.TrimSpace(os.Getenv("ANTHROPIC_API_KEY"))
	case llm.ProviderGemini:
		key := strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
		if key == "" {
			key = strings.TrimSpace(os.Getenv("GOOGLE_API_KEY"))
		}
		return key
	default:
		return ""
	}
}

// LLM returns the completer settings.
func (c *AppConfig) LLM() llm.Config {
	return llm.Config{
		Provider: llm.Provider(c.Relay.Provider),
		Model:    c.Relay.Model,
		APIKey:   c.Relay.APIKey,
		BaseURL:  c.Relay.BaseURL,
		Timeout:  c.Relay.Timeout,
	}
}

// RelayService returns the relay settings.
func (c *AppConfig) RelayService() relay.Config {
	temperature := c.Relay.Temperature
	return relay.Config{
		Provider:    llm.Provider(c.Relay.Provider),
		APIKey:      c.Relay.APIKey,
		Model:       c.Relay.Model,
		Temperature: &temperature,
		Timeout:     c.Relay.Timeout,
	}
}

// HTTPServer returns the listener settings.
func (c *AppConfig) HTTPServer() server.Config {
	return server.Config{
		Addr:         c.Server.Addr,
		ReadTimeout:  c.Server.ReadTimeout,
		WriteTimeout: c.Server.WriteTimeout,
		IdleTimeout:  c.Server.IdleTimeout,
	}
}
