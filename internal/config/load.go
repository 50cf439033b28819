package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable Load consults,
// e.g. SHOP_SERVER_PORT or SHOP_PRODUCT_STORE_URL.
const EnvPrefix = "SHOP"

// Load configuration from environment variables and optionally config files.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	return LoadFrom(".")
}

// LoadFrom behaves like Load but searches dir for config.yaml.
func LoadFrom(dir string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override it during
// Unmarshal; viper only consults the environment for keys it knows about.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("product_store.driver", "memory")
	v.SetDefault("product_store.url", "")

	v.SetDefault("review_store.driver", "memory")
	v.SetDefault("review_store.dsn", "")

	v.SetDefault("events.bus", "memory")
	v.SetDefault("events.redis_url", "")
	v.SetDefault("events.partition_count", 2)
	v.SetDefault("events.max_attempts", 3)
	v.SetDefault("events.backoff_initial", 100*time.Millisecond)
	v.SetDefault("events.backoff_max", 2*time.Second)
	v.SetDefault("events.buffer_size", 64)
	v.SetDefault("events.claim_min_idle", 30*time.Second)
}
