package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server       ServerConfig       `mapstructure:"server"        validate:"required"`
	ProductStore ProductStoreConfig `mapstructure:"product_store" validate:"required"`
	ReviewStore  ReviewStoreConfig  `mapstructure:"review_store"  validate:"required"`
	Events       EventsConfig       `mapstructure:"events"        validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port            int           `mapstructure:"port"             validate:"required,gt=0,lt=65536"`
	LogLevel        string        `mapstructure:"log_level"        validate:"required,oneof=debug info warn error"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

// ProductStoreConfig selects and configures the product record store.
type ProductStoreConfig struct {
	Driver string `mapstructure:"driver" validate:"required,oneof=postgres memory"`
	URL    string `mapstructure:"url"    validate:"required_if=Driver postgres"`
}

// ReviewStoreConfig selects and configures the review record store.
type ReviewStoreConfig struct {
	Driver string `mapstructure:"driver" validate:"required,oneof=mysql memory"`
	DSN    string `mapstructure:"dsn"    validate:"required_if=Driver mysql"`
}

// EventsConfig contains the message bus and event consumer settings.
type EventsConfig struct {
	Bus            string        `mapstructure:"bus"             validate:"required,oneof=memory redis"`
	RedisURL       string        `mapstructure:"redis_url"       validate:"required_if=Bus redis"`
	PartitionCount int           `mapstructure:"partition_count" validate:"gte=1,lte=64"`
	MaxAttempts    int           `mapstructure:"max_attempts"    validate:"gte=1"`
	BackoffInitial time.Duration `mapstructure:"backoff_initial" validate:"gt=0"`
	BackoffMax     time.Duration `mapstructure:"backoff_max"     validate:"gtefield=BackoffInitial"`
	BufferSize     int           `mapstructure:"buffer_size"     validate:"gte=1"`
	// ClaimMinIdle is how long a delivered but unacknowledged message stays
	// pending before a consumer reclaims it. Only used by the redis bus.
	ClaimMinIdle time.Duration `mapstructure:"claim_min_idle" validate:"gt=0"`
}
