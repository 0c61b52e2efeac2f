package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultBaseURL         = "https://www.myfxbook.com/api"
	DefaultAPITimeout      = 30 * time.Second
	DefaultDBPort          = 5432
	DefaultDBSSLMode       = "prefer"
	DefaultMaxConns        = 4
	DefaultMinConns        = 1
	DefaultPollInterval    = 15 * time.Minute
	DefaultPollConcurrency = 4
	DefaultPollTimeout     = 30 * time.Second
	DefaultHistoryDays     = 7
	DefaultLogLevel        = "info"
)

func (c *RecorderConfig) applyDefaults() {
	// API defaults
	if c.API.BaseURL == "" {
		c.API.BaseURL = DefaultBaseURL
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = DefaultAPITimeout
	}

	// Database defaults
	if c.Database.Port == 0 {
		c.Database.Port = DefaultDBPort
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = DefaultDBSSLMode
	}
	if c.Database.MaxConns == 0 {
		c.Database.MaxConns = DefaultMaxConns
	}
	if c.Database.MinConns == 0 {
		c.Database.MinConns = DefaultMinConns
	}

	// Poller defaults
	if c.Poller.Interval == 0 {
		c.Poller.Interval = DefaultPollInterval
	}
	if c.Poller.Concurrency == 0 {
		c.Poller.Concurrency = DefaultPollConcurrency
	}
	if c.Poller.Timeout == 0 {
		c.Poller.Timeout = DefaultPollTimeout
	}
	if c.Poller.HistoryDays == 0 {
		c.Poller.HistoryDays = DefaultHistoryDays
	}

	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
}
