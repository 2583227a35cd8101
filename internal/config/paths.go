package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// DirName is the per-user and per-project TaskFlow directory name.
const DirName = ".taskflow"

// GetGlobalConfigDir returns the path to the global configuration directory (~/.taskflow).
// It's a variable to allow overriding in tests.
var GetGlobalConfigDir = func() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, DirName), nil
}

// GetStateDir returns where crash logs are written.
// Resolution order (first match wins):
// 1. Explicit config via "log.stateDir" (Viper/env/flag)
// 2. Local project directory: .taskflow (if exists)
// 3. XDG_STATE_HOME/taskflow (if XDG_STATE_HOME is set)
// 4. Global fallback: ~/.taskflow
func GetStateDir(v *viper.Viper) string {
	if path := v.GetString("log.stateDir"); path != "" {
		return path
	}

	if info, err := os.Stat(DirName); err == nil && info.IsDir() {
		return DirName
	}

	if xdgState := os.Getenv("XDG_STATE_HOME"); xdgState != "" {
		return filepath.Join(xdgState, "taskflow")
	}

	dir, err := GetGlobalConfigDir()
	if err != nil {
		return DirName
	}
	return dir
}
