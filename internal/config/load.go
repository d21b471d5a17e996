package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Default configuration values applied before file/env sources.
const (
	defaultPort     = 8080
	defaultLogLevel = "info"
)

// Load reads configuration from an optional config.yaml in the working
// directory and from environment variables with the TASKAPI_ prefix
// (TASKAPI_SERVER_PORT, TASKAPI_DATABASE_URL, ...). Environment variables
// take precedence over file values. Returns a validated Config or an
// error describing what is missing or malformed.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("server.port", defaultPort)
	v.SetDefault("server.log_level", defaultLogLevel)
	// Registering the key is what lets AutomaticEnv feed it into Unmarshal.
	v.SetDefault("database.url", "")
	v.SetDefault("database.seed_demo_data", false)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("TASKAPI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; env vars and defaults carry it.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}
