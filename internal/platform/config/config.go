// Package config loads service configuration from the environment so main
// stays lean.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config is the full environment-driven configuration.
type Config struct {
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
	Addr        string `envconfig:"VERITASK_ADDR" default:":8080"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	// JWTSigningKey secures the HTTP surface. Auth is disabled when empty,
	// which is only acceptable in development.
	JWTSigningKey string `envconfig:"JWT_SIGNING_KEY"`

	// PostgresURL enables the durable store; the in-memory store is used
	// when empty.
	PostgresURL string `envconfig:"DATABASE_URL"`

	Redis RedisConfig
	Kafka KafkaConfig

	// Hub is the dispatch origin agents travel from. Distance fees are
	// computed relative to this point.
	HubLatitude  float64 `envconfig:"HUB_LATITUDE" default:"6.5244"`
	HubLongitude float64 `envconfig:"HUB_LONGITUDE" default:"3.3792"`

	// SurgeFallback is used when Redis is not configured.
	SurgeFallback float64 `envconfig:"SURGE_FALLBACK_MULTIPLIER" default:"1.0"`
}

// RedisConfig configures the surge demand feed.
type RedisConfig struct {
	URL          string        `envconfig:"REDIS_URL"`
	PoolSize     int           `envconfig:"REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"REDIS_READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"REDIS_WRITE_TIMEOUT" default:"3s"`
}

// KafkaConfig configures the status event publisher.
type KafkaConfig struct {
	Brokers []string `envconfig:"KAFKA_BROKERS"`
	Topic   string   `envconfig:"KAFKA_STATUS_TOPIC" default:"verification.status"`
}

// Load builds a Config from environment variables.
func Load() (*Config, error) {
	cfg := new(Config)
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("process environment config: %w", err)
	}
	if cfg.Environment == "production" && cfg.JWTSigningKey == "" {
		return nil, fmt.Errorf("set JWT_SIGNING_KEY in production")
	}
	return cfg, nil
}
