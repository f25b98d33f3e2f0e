package config

import "time"

// ConsumerConfig contains queue consumer configuration.
type ConsumerConfig struct {
	// Stream is the Redis Stream carrying check update events.
	Stream string `env:"CONSUMER_STREAM" envDefault:"check-updates"`

	// Group is the consumer group name.
	Group string `env:"CONSUMER_GROUP" envDefault:"factgate-notifier"`

	// BatchSize is the number of events fetched per read.
	BatchSize int64 `env:"CONSUMER_BATCH_SIZE" envDefault:"16"`

	// Block is how long one read blocks waiting for events.
	Block time.Duration `env:"CONSUMER_BLOCK" envDefault:"5s"`

	// Workers is the number of concurrent consumer loops.
	Workers int `env:"CONSUMER_WORKERS" envDefault:"1"`

	// EventStream is the Redis Stream domain events are published to.
	EventStream string `env:"CONSUMER_EVENT_STREAM" envDefault:"check-events"`
}

// Sanitize applies guardrails to consumer configuration.
func (c *ConsumerConfig) Sanitize() {
	if c.BatchSize <= 0 {
		c.BatchSize = 16
	}
	if c.Block <= 0 {
		c.Block = 5 * time.Second
	}
	if c.Workers <= 0 {
		c.Workers = 1
	}
	if c.Workers > 16 {
		c.Workers = 16
	}
}

// NotifierConfig contains notification delivery configuration.
type NotifierConfig struct {
	// BaseURL is the notification service base URL.
	BaseURL string `env:"NOTIFIER_BASE_URL" envDefault:"http://localhost:8085"`

	// AuthToken authenticates requests to the notification service.
	AuthToken string `env:"NOTIFIER_AUTH_TOKEN" envDefault:""`
}

// BackgroundConfig contains background task scheduler configuration.
type BackgroundConfig struct {
	// TaskTimeout bounds each background task's detached context.
	TaskTimeout time.Duration `env:"BACKGROUND_TASK_TIMEOUT" envDefault:"2m"`

	// ArtifactTTL is how long archived artifacts are kept.
	ArtifactTTL time.Duration `env:"BACKGROUND_ARTIFACT_TTL" envDefault:"168h"`
}

// Sanitize applies guardrails to background task configuration.
func (c *BackgroundConfig) Sanitize() {
	if c.TaskTimeout <= 0 {
		c.TaskTimeout = 2 * time.Minute
	}
	if c.ArtifactTTL <= 0 {
		c.ArtifactTTL = 7 * 24 * time.Hour
	}
}
