package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	Weather  WeatherConfig  `mapstructure:"weather"  validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm"      validate:"required"`
	Jobs     JobsConfig     `mapstructure:"jobs"     validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	// LogFormat selects the slog handler: "json" for production log
	// aggregators, "console" for tinted human-readable development output.
	LogFormat string `mapstructure:"log_format" validate:"required,oneof=json console"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// AuthConfig contains authentication settings. The service issues JWTs to a
// single configured operator identity; user management proper lives outside
// this service.
type AuthConfig struct {
	JWTSecret          string `mapstructure:"jwt_secret"           validate:"required,min=32"`
	TokenExpiryMinutes int    `mapstructure:"token_expiry_minutes" validate:"required,gt=0"`
	// OperatorName and OperatorPasswordHash (bcrypt) gate the token
	// endpoint used by operators and the frontend's server-side proxy.
	OperatorName         string `mapstructure:"operator_name"          validate:"required"`
	OperatorPasswordHash string `mapstructure:"operator_password_hash" validate:"required"`
}

// WeatherConfig contains settings for the forecast provider and its cache.
type WeatherConfig struct {
	APIKey  string `mapstructure:"api_key"  validate:"required"`
	BaseURL string `mapstructure:"base_url" validate:"required,url"`
	// CacheTTL bounds how long a fetched forecast is served from memory
	// before the provider is consulted again.
	CacheTTL        time.Duration `mapstructure:"cache_ttl"         validate:"required"`
	CacheMaxEntries int           `mapstructure:"cache_max_entries" validate:"gte=0"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"   validate:"required"`
}

// LLMConfig contains all LLM integration related settings.
type LLMConfig struct {
	GeminiAPIKey    string `mapstructure:"gemini_api_key"    validate:"required"`
	ModelName       string `mapstructure:"model_name"        validate:"required"`
	MaxOutputTokens int    `mapstructure:"max_output_tokens" validate:"gt=0"`
}

// JobsConfig contains the guardrails for the trip generation job scheduler.
type JobsConfig struct {
	// WorkerCount bounds how many generation pipelines run concurrently.
	WorkerCount int `mapstructure:"worker_count" validate:"required,gt=0"`
	// QueueSize is the submission buffer; enqueues beyond it are rejected.
	QueueSize int `mapstructure:"queue_size" validate:"required,gt=0"`
	// MaxRetries is the number of retries after the initial attempt for
	// transient failures.
	MaxRetries int `mapstructure:"max_retries" validate:"gte=0"`
	// HardTimeout is the wall-clock ceiling for a job including retries.
	HardTimeout time.Duration `mapstructure:"hard_timeout" validate:"required"`
	// WarningAfter logs a slow-job warning for attempts that run past it.
	WarningAfter time.Duration `mapstructure:"warning_after" validate:"required"`
	// RetentionAge is how long terminal jobs are kept before the janitor
	// deletes them.
	RetentionAge    time.Duration `mapstructure:"retention_age"    validate:"required"`
	JanitorInterval time.Duration `mapstructure:"janitor_interval" validate:"required"`
}
