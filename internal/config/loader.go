package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
)

// Load reads configuration from environment variables.
// It applies defaults for unset values and validates the result.
// Returns an error if a value cannot be parsed or validation fails.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := loadStruct(reflect.ValueOf(cfg).Elem()); err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// loadStruct recursively populates struct fields from environment variables.
func loadStruct(v reflect.Value) error {
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldVal := v.Field(i)

		// Skip unexported fields
		if !fieldVal.CanSet() {
			continue
		}

		// Recurse into config sections
		if field.Type.Kind() == reflect.Struct {
			if err := loadStruct(fieldVal); err != nil {
				return err
			}
			continue
		}

		envName := field.Tag.Get("env")
		if envName == "" {
			continue
		}

		// Try primary env var, then alternate, then the default
		value := os.Getenv(envName)
		if envAlt := field.Tag.Get("envAlt"); value == "" && envAlt != "" {
			value = os.Getenv(envAlt)
		}
		if value == "" {
			value = field.Tag.Get("default")
		}
		if value == "" {
			continue
		}

		if err := setField(fieldVal, value); err != nil {
			return fmt.Errorf("invalid value for %s=%q: %w", envName, value, err)
		}
	}

	return nil
}

// setField sets a string or integer field from its environment text.
func setField(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int32, reflect.Int64:
		i, err := strconv.ParseInt(strings.TrimSpace(value), 10, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("invalid integer: %w", err)
		}
		field.SetInt(i)

	default:
		return fmt.Errorf("unsupported field type: %s", field.Kind())
	}

	return nil
}

// Validate checks that the configuration is valid.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errs []string

	// Storage validation
	if c.Storage.GroupsPath == "" {
		errs = append(errs, "GROUPS_CONFIG_PATH must not be empty")
	}
	switch strings.ToLower(c.Storage.Backend) {
	case "fs", "bolt", "sqlite":
		if c.Storage.DataPath == "" {
			errs = append(errs, "DATA_PATH must not be empty")
		}
	case "postgres":
		if c.Storage.DatabaseURL == "" {
			errs = append(errs, "DATABASE_URL is required when STORE_BACKEND is postgres")
		}
		if c.Storage.MaxConns <= 0 {
			errs = append(errs, "DB_MAX_CONNS must be positive")
		}
	default:
		errs = append(errs, fmt.Sprintf("STORE_BACKEND (%q) must be one of: fs, bolt, sqlite, postgres", c.Storage.Backend))
	}

	// Ingest validation
	if c.Ingest.MaxFileSize <= 0 {
		errs = append(errs, "INGEST_MAX_FILE_SIZE must be positive")
	}
	if c.Ingest.PreviewRows <= 0 {
		errs = append(errs, "PREVIEW_ROWS must be positive")
	}
	validPolicies := map[string]bool{"drop": true, "zero": true, "keep": true}
	if !validPolicies[strings.ToLower(c.Ingest.NullPolicy)] {
		errs = append(errs, fmt.Sprintf("NULL_POLICY (%q) must be one of: drop, zero, keep", c.Ingest.NullPolicy))
	}

	// Logging validation
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Sprintf("LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.Logging.Level))
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, fmt.Sprintf("LOG_FORMAT (%q) must be one of: text, json", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// String returns a safe string representation of the config for logging.
// The database URL is masked.
func (c *Config) String() string {
	url := ""
	if c.Storage.DatabaseURL != "" {
		url = "[MASKED]"
	}

	var b strings.Builder
	b.WriteString("Config{")
	b.WriteString(fmt.Sprintf("Storage: {GroupsPath: %q, DataPath: %q, Backend: %q, DatabaseURL: %s, MaxConns: %d}, ",
		c.Storage.GroupsPath, c.Storage.DataPath, c.Storage.Backend, url, c.Storage.MaxConns))
	b.WriteString(fmt.Sprintf("Ingest: {MaxFileSize: %d, NullPolicy: %q, PreviewRows: %d}, ",
		c.Ingest.MaxFileSize, c.Ingest.NullPolicy, c.Ingest.PreviewRows))
	b.WriteString(fmt.Sprintf("Logging: {Level: %q, Format: %q, SeqURL: %q}",
		c.Logging.Level, c.Logging.Format, c.Logging.SeqURL))
	b.WriteString("}")
	return b.String()
}
