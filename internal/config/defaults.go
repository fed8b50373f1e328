package config

import (
	"os"
	"path/filepath"

	"gameview-desktop/internal/domain"
)

// DefaultSettings returns baseline local configuration for first launch.
func DefaultSettings() domain.Settings {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}

	return domain.Settings{
		Theme:             "system",
		DefaultOutputDir:  filepath.Join(homeDir, "Documents", "GameView"),
		DefaultPreset:     "balanced",
		RecentProductions: []domain.RecentProduction{},
	}
}
