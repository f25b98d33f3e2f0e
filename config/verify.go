package config

import "time"

// ReputationConfig contains reputation scan upstream configuration.
type ReputationConfig struct {
	BaseURL string `env:"BASE_URL" envDefault:"https://api.reputation.example.com"`
	APIKey  string `env:"API_KEY"  envDefault:""`

	// Interval is the fixed wait between poll attempts.
	Interval time.Duration `env:"POLL_INTERVAL" envDefault:"2s"`

	// MaxAttempts is the poll ceiling before a scan times out.
	MaxAttempts int `env:"MAX_ATTEMPTS" envDefault:"15"`
}

// Sanitize applies guardrails to reputation configuration. The upstream
// asks clients to poll no faster than once a second.
func (c *ReputationConfig) Sanitize() {
	if c.Interval < time.Second {
		c.Interval = time.Second
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 15
	}
}

// URLScanConfig contains malicious-URL scan upstream configuration.
type URLScanConfig struct {
	BaseURL    string `env:"BASE_URL"   envDefault:"https://urlscan.io"`
	APIKey     string `env:"API_KEY"    envDefault:""`
	Visibility string `env:"VISIBILITY" envDefault:"public"`

	Interval    time.Duration `env:"POLL_INTERVAL" envDefault:"2s"`
	MaxAttempts int           `env:"MAX_ATTEMPTS"  envDefault:"15"`
}

// Sanitize applies guardrails to URL scan configuration.
func (c *URLScanConfig) Sanitize() {
	if c.Interval < time.Second {
		c.Interval = time.Second
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 15
	}
}

// WarehouseConfig contains warehouse query upstream configuration.
type WarehouseConfig struct {
	BaseURL string `env:"BASE_URL" envDefault:"https://warehouse.example.com/v2"`
	APIKey  string `env:"API_KEY"  envDefault:""`

	// InitialInterval seeds the exponential backoff between result polls.
	InitialInterval time.Duration `env:"INITIAL_INTERVAL" envDefault:"1s"`

	// MaxAttempts is the poll ceiling before a query times out.
	MaxAttempts int `env:"MAX_ATTEMPTS" envDefault:"10"`

	// RowExpression is the JMESPath expression extracting rows from the raw
	// query response.
	RowExpression string `env:"ROW_EXPRESSION" envDefault:"rows"`
}

// Sanitize applies guardrails to warehouse configuration.
func (c *WarehouseConfig) Sanitize() {
	if c.InitialInterval <= 0 {
		c.InitialInterval = time.Second
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 10
	}
	if c.RowExpression == "" {
		c.RowExpression = "rows"
	}
}
