package types

import (
	"errors"
	"strings"
)

// Config holds the settings read from config.yaml and global flags.
type Config struct {
	WorkDir     string `json:"work_dir" yaml:"work_dir,omitempty"`
	Separator   bool   `json:"separator" yaml:"separator"`
	LogLevel    string `json:"log_level" yaml:"log_level"`
	LogFormat   string `json:"log_format" yaml:"log_format"`
	SQLiteTable string `json:"sqlite_table" yaml:"sqlite_table"`
}

// Defaults.
const (
	DefaultLogLevel    = "warn"
	DefaultLogFormat   = "text"
	DefaultSQLiteTable = "csvdesk"
)

// Config validation errors.
var (
	ErrInvalidLogLevel  = errors.New("invalid log level")
	ErrInvalidLogFormat = errors.New("invalid log format")
	ErrInvalidTableName = errors.New("sqlite table name must not be empty")
)

var knownLogLevels = map[string]bool{
	"debug":   true,
	"info":    true,
	"warn":    true,
	"warning": true,
	"error":   true,
}

var knownLogFormats = map[string]bool{
	"text": true,
	"json": true,
}

// DefaultConfig returns the configuration used when no config.yaml exists.
func DefaultConfig() Config {
	return Config{
		LogLevel:    DefaultLogLevel,
		LogFormat:   DefaultLogFormat,
		SQLiteTable: DefaultSQLiteTable,
	}
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if !knownLogLevels[strings.ToLower(c.LogLevel)] {
		return ErrInvalidLogLevel
	}
	if !knownLogFormats[strings.ToLower(c.LogFormat)] {
		return ErrInvalidLogFormat
	}
	if strings.TrimSpace(c.SQLiteTable) == "" {
		return ErrInvalidTableName
	}
	return nil
}
