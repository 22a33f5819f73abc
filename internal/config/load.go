package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load reads configuration from environment variables and an optional
// config.yaml in the working directory. Environment variables use the TMS_
// prefix with underscores for nesting (e.g. TMS_SERVER_PORT) and take
// precedence over values from the config file.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("auth.token_lifetime_minutes", 60*24*15) // 15 days, matching session lifetime
	v.SetDefault("cache.assigned_tasks_ttl_seconds", 600)
	v.SetDefault("mail.smtp_port", 587)

	// Keys without meaningful defaults still need to be registered so
	// AutomaticEnv can populate them during Unmarshal.
	for _, key := range []string{
		"database.url",
		"auth.jwt_secret",
		"cache.redis_addr",
		"cache.redis_password",
		"mail.smtp_host",
		"mail.username",
		"mail.password",
		"mail.from_name",
		"mail.from_email",
	} {
		v.SetDefault(key, "")
	}

	// Optional config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; anything else is a real failure.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Environment variables
	v.SetEnvPrefix("TMS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}
