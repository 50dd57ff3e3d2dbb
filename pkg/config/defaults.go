package config

import (
	"os"
	"path/filepath"
)

// defaultDBPath returns the default cache database file path.
//
// Returns: ~/.config/killstats/cache.db.
func defaultDBPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./cache.db"
	}

	return filepath.Join(homeDir, ".config", "killstats", "cache.db")
}

// defaultReportDir returns the default report output directory.
//
// Returns: ~/.config/killstats/reports/.
func defaultReportDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./reports"
	}

	return filepath.Join(homeDir, ".config", "killstats", "reports")
}

// defaultConfigPath returns the default configuration file path.
//
// Returns: ~/.config/killstats/config.yaml.
func defaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./config.yaml"
	}

	return filepath.Join(homeDir, ".config", "killstats", "config.yaml")
}
