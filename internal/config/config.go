// Package config provides centralized configuration management for the application.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Storage StorageConfig
	Ingest  IngestConfig
	Logging LoggingConfig
}

// StorageConfig holds the locations of the group config and the saved tables.
type StorageConfig struct {
	// GroupsPath is the group config file; a .yaml or .yml name selects YAML
	// (default: df_manager_config.json)
	GroupsPath string `env:"GROUPS_CONFIG_PATH" default:"df_manager_config.json"`

	// DataPath is the directory for saved tables when the backend is file based
	// (default: saved_dataframes)
	DataPath string `env:"DATA_PATH" default:"saved_dataframes"`

	// Backend selects the table store: fs, bolt, sqlite, or postgres (default: fs)
	Backend string `env:"STORE_BACKEND" default:"fs"`

	// DatabaseURL is the PostgreSQL connection string, required for the postgres backend.
	// Supports both DATABASE_URL and DB_URL env vars for compatibility
	DatabaseURL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	// MaxConns is the maximum number of connections in the pool (default: 4)
	MaxConns int32 `env:"DB_MAX_CONNS" default:"4"`
}

// IngestConfig holds file reading and processing settings.
type IngestConfig struct {
	// MaxFileSize is the maximum allowed file size in bytes (default: 100MB)
	MaxFileSize int64 `env:"INGEST_MAX_FILE_SIZE" default:"104857600"`

	// NullPolicy is applied when a command does not name one: drop, zero, or keep (default: drop)
	NullPolicy string `env:"NULL_POLICY" default:"drop"`

	// PreviewRows is the number of rows shown by preview (default: 50)
	PreviewRows int `env:"PREVIEW_ROWS" default:"50"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`

	// SeqURL, when set, also ships logs to a Seq server
	SeqURL string `env:"LOG_SEQ_URL"`
}
