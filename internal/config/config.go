// Package config provides centralized configuration management for the
// application. It loads configuration from environment variables with sensible
// defaults and validates all settings on startup to fail fast on
// misconfiguration.
package config

import "time"

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Database DatabaseConfig
	Excel    ExcelConfig
	Logging  LoggingConfig
}

// DatabaseConfig holds SQL Server connection settings.
type DatabaseConfig struct {
	// Server is the SQL Server address (default: "." for the local instance)
	Server string `env:"DB_SERVER" default:"."`

	// Database is the target database name. It may be empty at startup;
	// the connection negotiator then resolves it interactively and rewrites
	// this field. It is the only configuration value mutated at runtime.
	Database string `env:"DB_DATABASE"`

	// Table is the target items table (default: Items)
	Table string `env:"DB_TABLE" default:"Items"`

	// LoginTimeout is the connection login timeout (default: 15s)
	LoginTimeout time.Duration `env:"DB_TIMEOUT" envAlt:"DB_LOGIN_TIMEOUT" default:"15s"`

	// TrustedConnection selects Windows integrated authentication (default: true)
	TrustedConnection bool `env:"DB_TRUSTED_CONNECTION" default:"true"`

	// User and Password are SQL authentication credentials, used only when
	// TrustedConnection is false.
	User     string `env:"DB_USER"`
	Password string `env:"DB_PASSWORD"`
}

// ExcelConfig holds spreadsheet defaults.
type ExcelConfig struct {
	// File is the default spreadsheet path offered in save dialogs (optional)
	File string `env:"EXCEL_FILE"`

	// SheetIndex is the zero-based sheet used when the named sheet is absent
	// (default: 0)
	SheetIndex int `env:"EXCEL_SHEET" default:"0"`

	// SkipRows is the number of leading rows skipped before the header
	// (default: 0)
	SkipRows int `env:"EXCEL_SKIPROWS" default:"0"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log output format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}
