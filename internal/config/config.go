// Package config loads csvdesk settings from config.yaml in the configuration
// directory, with CSVDESK_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/csvdesk/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	envPrefix = "CSVDESK"
)

// Config keys.
const (
	KeyWorkDir     = "work_dir"
	KeySeparator   = "separator"
	KeyLogLevel    = "log_level"
	KeyLogFormat   = "log_format"
	KeySQLiteTable = "sqlite_table"
)

// Path returns the location of config.yaml inside configDir.
func Path(configDir string) string {
	return filepath.Join(configDir, configFileExt)
}

// Load reads config.yaml from configDir. A missing directory or file is not
// an error; defaults apply. The result is validated.
func Load(configDir string) (types.Config, error) {
	def := types.DefaultConfig()

	v := viper.New()
	v.SetDefault(KeyWorkDir, def.WorkDir)
	v.SetDefault(KeySeparator, def.Separator)
	v.SetDefault(KeyLogLevel, def.LogLevel)
	v.SetDefault(KeyLogFormat, def.LogFormat)
	v.SetDefault(KeySQLiteTable, def.SQLiteTable)
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return types.Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := types.Config{
		WorkDir:     v.GetString(KeyWorkDir),
		Separator:   v.GetBool(KeySeparator),
		LogLevel:    v.GetString(KeyLogLevel),
		LogFormat:   v.GetString(KeyLogFormat),
		SQLiteTable: v.GetString(KeySQLiteTable),
	}
	if err := cfg.Validate(); err != nil {
		return types.Config{}, fmt.Errorf("config %s: %w", Path(configDir), err)
	}
	return cfg, nil
}

// WriteDefault creates configDir and writes config.yaml with default values
// if the file does not exist. It reports whether a file was written.
func WriteDefault(configDir string, cfg types.Config) (bool, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return false, fmt.Errorf("create config directory: %w", err)
	}

	path := Path(configDir)
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("stat config file: %w", err)
	}

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return false, fmt.Errorf("marshal config: %w", err)
	}

	header := []byte("# csvdesk configuration\n")
	if err := os.WriteFile(path, append(header, data...), 0o644); err != nil {
		return false, fmt.Errorf("write config: %w", err)
	}
	return true, nil
}
