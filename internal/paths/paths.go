// Package paths resolves the configuration and data directory locations
// used by the propcat CLI. Explicit flags win over the config file, which
// wins over environment variables; the final fallback is a project-local
// directory under the working directory, keeping catalogs scoped to the
// project that owns them.
package paths

import (
	"os"
	"path/filepath"
)

// Working-directory-relative directory names used when nothing overrides
// the defaults.
const (
	DefaultConfigDirName = ".propcat"
	DefaultDataDirName   = ".propcat-db"
)

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "PROPCAT_CONFIG_DIR"
	EnvDataDir   = "PROPCAT_DATA_DIR"
)

// ResolveConfigDir returns the configuration directory, following the
// precedence chain flag > PROPCAT_CONFIG_DIR > $(CWD)/.propcat. Relative
// overrides are made absolute.
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, DefaultConfigDirName), nil
}

// ResolveDataDir returns the data directory, following the precedence chain
// flag > config file value > PROPCAT_DATA_DIR > $(CWD)/.propcat-db.
func ResolveDataDir(flag, configValue string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if configValue != "" {
		return filepath.Abs(configValue)
	}
	if env := os.Getenv(EnvDataDir); env != "" {
		return filepath.Abs(env)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, DefaultDataDirName), nil
}
