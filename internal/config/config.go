package config

import "time"

// RecorderConfig is the root configuration for a recorder instance.
type RecorderConfig struct {
	API      APIConfig     `yaml:"api"`
	Database DBConfig      `yaml:"database"`
	Poller   PollerConfig  `yaml:"poller"`
	Health   HealthConfig  `yaml:"health"`
	Logging  LoggingConfig `yaml:"logging"`
}

// APIConfig holds Myfxbook API settings.
type APIConfig struct {
	BaseURL  string        `yaml:"base_url"`
	Email    string        `yaml:"email"`
	Password string        `yaml:"password"`
	Timeout  time.Duration `yaml:"timeout"`
}

// DBConfig holds the PostgreSQL connection.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// PollerConfig holds snapshot poller settings.
type PollerConfig struct {
	Interval    time.Duration `yaml:"interval"`
	Concurrency int           `yaml:"concurrency"`
	Timeout     time.Duration `yaml:"timeout"`

	// Symbols get a by-country outlook breakdown each cycle (e.g. "eurusd").
	Symbols []string `yaml:"symbols"`

	// Accounts get their daily gain over the last HistoryDays recorded.
	Accounts    []int64 `yaml:"accounts"`
	HistoryDays int     `yaml:"history_days"`
}

// HealthConfig holds the health endpoint settings. Port 0 disables it.
type HealthConfig struct {
	Port int `yaml:"port"`
}

// LoggingConfig holds log settings.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`
}
