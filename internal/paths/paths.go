// Package paths resolves the configuration and work directory locations and
// discovers importable files.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
)

// DefaultConfigDirName is the per-project configuration directory name.
const DefaultConfigDirName = ".csvdesk"

// EnvConfigDir overrides the configuration directory. The work directory
// is overridden through config (CSVDESK_WORK_DIR).
const EnvConfigDir = "CSVDESK_CONFIG_DIR"

// CSVExt is the extension offered for numbered import.
const CSVExt = ".csv"

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir returns the platform-specific default configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/csvdesk (fallback ~/.config/csvdesk)
// macOS:   ~/Library/Application Support/csvdesk
// Windows: %APPDATA%/csvdesk
func DefaultConfigDir() (string, error) {
	switch runtime.GOOS {
	case "linux":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "csvdesk"), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", "csvdesk"), nil
	default:
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, "csvdesk"), nil
	}
}

// ResolveConfigDir returns the configuration directory following the precedence
// chain: flag > CSVDESK_CONFIG_DIR env > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveWorkDir returns the directory searched for importable files: flag,
// then the configured work_dir (which already reflects CSVDESK_WORK_DIR),
// then ".".
//
// The value is cleaned but kept relative so that table keys for files in the
// current directory stay short.
func ResolveWorkDir(flag, configValue string) string {
	for _, v := range []string{flag, configValue} {
		if v != "" {
			return filepath.Clean(v)
		}
	}
	return "."
}

// ListFiles returns the paths of regular files in dir whose extension
// matches ext, case-insensitively, sorted by name.
func ListFiles(dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var out []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ext) {
			continue
		}
		out = append(out, filepath.Join(dir, e.Name()))
	}
	slices.Sort(out)
	return out, nil
}

// ListCSV returns the .csv files in dir.
func ListCSV(dir string) ([]string, error) {
	return ListFiles(dir, CSVExt)
}

// WithExt appends ext to name when name has no extension.
func WithExt(name, ext string) string {
	if filepath.Ext(name) != "" {
		return name
	}
	return name + ext
}
