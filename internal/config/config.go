package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Ingest   IngestConfig   `mapstructure:"ingest"   validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm"      validate:"required"`
}

// ServerConfig contains all HTTP server related settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database related settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// IngestConfig contains the settings that drive the feed ingestion engine:
// which sources to poll, how often, and how many cycles the rate limiter
// allows per window.
type IngestConfig struct {
	// Sources is the list of feed URLs polled each cycle. When empty, the
	// loader substitutes DefaultSources.
	Sources []string `mapstructure:"sources" validate:"required,min=1,dive,url"`

	// IntervalMinutes is the delay between scheduled ingestion cycles.
	IntervalMinutes int `mapstructure:"interval_minutes" validate:"required,gt=0"`

	// RateLimit is the maximum number of ingestion cycles allowed per
	// rate window. Manual triggers count against the same budget.
	RateLimit int `mapstructure:"rate_limit" validate:"required,gt=0"`

	// RateWindowMinutes is the length of the rate limiter's window.
	RateWindowMinutes int `mapstructure:"rate_window_minutes" validate:"required,gt=0"`

	// FetchTimeoutSeconds bounds each per-source HTTP fetch.
	FetchTimeoutSeconds int `mapstructure:"fetch_timeout_seconds" validate:"required,gt=0"`
}

// LLMConfig contains all generation service related settings.
type LLMConfig struct {
	GeminiAPIKey string `mapstructure:"gemini_api_key" validate:"required"`
	ModelName    string `mapstructure:"model_name"     validate:"required"`

	// MaxRetries is the number of additional attempts after a failed
	// generation call before giving up.
	MaxRetries int `mapstructure:"max_retries" validate:"gte=0"`

	// RetryDelaySeconds is the base delay for exponential backoff between
	// generation retries.
	RetryDelaySeconds int `mapstructure:"retry_delay_seconds" validate:"gte=0"`

	// RequestTimeoutSeconds bounds each individual generation call.
	RequestTimeoutSeconds int `mapstructure:"request_timeout_seconds" validate:"required,gt=0"`
}

// DefaultSources is the fallback feed list used when no sources are
// configured, mirroring the service's original defaults.
var DefaultSources = []string{
	"https://feeds.bbci.co.uk/news/rss.xml",
	"https://rss.cnn.com/rss/edition.rss",
	"https://feeds.reuters.com/reuters/topNews",
	"https://feeds.npr.org/1001/rss.xml",
}
