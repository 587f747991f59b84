package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load reads configuration from environment variables and an optional
// config file. Environment variables take precedence over values from the
// config file. Returns a populated Config struct or an error if loading or
// validation fails.
//
// Environment variables use the NEWSAGENT_ prefix with underscores for
// nesting, e.g. NEWSAGENT_SERVER_PORT, NEWSAGENT_DATABASE_URL,
// NEWSAGENT_INGEST_SOURCES (comma separated), NEWSAGENT_LLM_GEMINI_API_KEY.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	// Optional config file in the working directory.
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// No config file is fine; environment variables carry the load.
	}

	v.SetEnvPrefix("NEWSAGENT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	// Viper delivers comma separated env lists as a single string, and
	// its slice hook splits without trimming.
	if len(cfg.Ingest.Sources) == 1 && strings.Contains(cfg.Ingest.Sources[0], ",") {
		cfg.Ingest.Sources = splitAndTrim(cfg.Ingest.Sources[0])
	}
	cfg.Ingest.Sources = trimAll(cfg.Ingest.Sources)
	if len(cfg.Ingest.Sources) == 0 {
		cfg.Ingest.Sources = append([]string(nil), DefaultSources...)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	// Registering empty defaults makes AutomaticEnv visible to Unmarshal
	// for keys that have no real default.
	v.SetDefault("database.url", "")
	v.SetDefault("llm.gemini_api_key", "")
	v.SetDefault("ingest.sources", []string{})
	v.SetDefault("ingest.interval_minutes", 60)
	v.SetDefault("ingest.rate_limit", 10)
	v.SetDefault("ingest.rate_window_minutes", 60)
	v.SetDefault("ingest.fetch_timeout_seconds", 30)
	v.SetDefault("llm.model_name", "gemini-2.0-flash")
	v.SetDefault("llm.max_retries", 3)
	v.SetDefault("llm.retry_delay_seconds", 2)
	v.SetDefault("llm.request_timeout_seconds", 30)
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
