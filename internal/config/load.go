package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load configuration from environment variables and optionally config files.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	// An optional config.yaml next to the binary; env vars override it.
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// TASKMILL_SERVER_PORT=8080 maps onto server.port, and so on.
	v.SetEnvPrefix("TASKMILL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// setDefaults registers defaults for every knob that has a sensible one.
// Secrets and connection strings deliberately have none.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")

	v.SetDefault("mail.port", 587)
	v.SetDefault("mail.timeout", "10s")

	v.SetDefault("calendar.time_zone", "UTC")

	v.SetDefault("scheduler.sweep_interval", "1m")
	v.SetDefault("scheduler.sweep_batch_size", 50)
	v.SetDefault("scheduler.holiday_cache_ttl", "15m")

	// Bind keys without defaults so AutomaticEnv picks them up on Unmarshal.
	for _, key := range []string{
		"database.url",
		"auth.jwt_secret",
		"mail.host",
		"mail.from",
		"mail.username",
		"mail.password",
		"calendar.credentials_file",
		"calendar.token_file",
	} {
		if err := v.BindEnv(key); err != nil {
			// BindEnv only fails on an empty key, which cannot happen here.
			panic(err)
		}
	}
}
