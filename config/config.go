// Package config defines the environment-driven configuration for the
// factgate service, loaded with the github.com/caarlos0/env library. See the
// individual domain config files for available variables:
//   - database.go: Postgres and Redis configuration
//   - consumer.go: queue consumer and notifier configuration
//   - verify.go: verification upstream configuration
package config

import (
	"os"
	"strings"
)

// AppConfig is the main application configuration struct composing
// domain-specific configuration from separate files.
type AppConfig struct {
	// IsDev controls development mode behavior (text logs, relaxed limits).
	// Set DEV=true or NODE_ENV=development for development mode.
	IsDev bool `env:"DEV" envDefault:"false"`

	// Database configuration
	Postgres DBConfig    `envPrefix:"DB_"`
	Redis    RedisConfig `envPrefix:"REDIS_"`

	// Queue consumer configuration
	Consumer ConsumerConfig

	// Notification delivery configuration
	Notifier NotifierConfig

	// Background task configuration
	Background BackgroundConfig

	// Verification upstream configuration
	Reputation ReputationConfig `envPrefix:"REPUTATION_"`
	URLScan    URLScanConfig    `envPrefix:"URLSCAN_"`
	Warehouse  WarehouseConfig  `envPrefix:"WAREHOUSE_"`
}

// Sanitize applies guardrails to configuration values loaded from env.
// Call it after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.Consumer.Sanitize()
	c.Background.Sanitize()
	c.Reputation.Sanitize()
	c.URLScan.Sanitize()
	c.Warehouse.Sanitize()
	c.detectDevMode()
}

// detectDevMode checks both DEV and NODE_ENV environment variables.
func (c *AppConfig) detectDevMode() {
	if !c.IsDev {
		nodeEnv := strings.ToLower(os.Getenv("NODE_ENV"))
		c.IsDev = nodeEnv == "development" || nodeEnv == "dev"
	}
}
