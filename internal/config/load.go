package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// envPrefix is the prefix for all environment variables read by Load,
// e.g. PACKLANE_SERVER_PORT or PACKLANE_JOBS_HARD_TIMEOUT.
const envPrefix = "PACKLANE"

// Load reads configuration from environment variables and an optional
// config.yaml in the working directory. Environment variables take
// precedence over values from the config file.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	// Optional config file; absence is not an error.
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// setDefaults registers every configuration key with viper so AutomaticEnv
// can see it, along with the defaults the orchestrator guardrails assume.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.log_format", "json")

	v.SetDefault("database.url", "")

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_expiry_minutes", 30)
	v.SetDefault("auth.operator_name", "")
	v.SetDefault("auth.operator_password_hash", "")

	v.SetDefault("weather.api_key", "")
	v.SetDefault("weather.base_url", "http://api.weatherapi.com/v1")
	v.SetDefault("weather.cache_ttl", 6*time.Hour)
	v.SetDefault("weather.cache_max_entries", 100)
	v.SetDefault("weather.request_timeout", 10*time.Second)

	v.SetDefault("llm.gemini_api_key", "")
	v.SetDefault("llm.model_name", "gemini-2.0-flash")
	v.SetDefault("llm.max_output_tokens", 4096)

	v.SetDefault("jobs.worker_count", 4)
	v.SetDefault("jobs.queue_size", 100)
	v.SetDefault("jobs.max_retries", 2)
	v.SetDefault("jobs.hard_timeout", 180*time.Second)
	v.SetDefault("jobs.warning_after", 30*time.Second)
	v.SetDefault("jobs.retention_age", time.Hour)
	v.SetDefault("jobs.janitor_interval", 5*time.Minute)
}
