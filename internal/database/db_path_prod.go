//go:build prod

package database

import (
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// GetDefaultDBPath returns the database path for production mode.
// In production, the database is stored in the user's config directory.
func GetDefaultDBPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		logrus.Warnf("Failed to get user config dir: %v. Using fallback.", err)
		return "modelshelf.db"
	}

	appDir := filepath.Join(configDir, "modelshelf")

	err = os.MkdirAll(appDir, 0755)
	if err != nil {
		logrus.Warnf("Failed to create app config dir: %v. Using fallback.", err)
		return "modelshelf.db"
	}

	dbPath := filepath.Join(appDir, "modelshelf.db")

	return dbPath
}

func IsDevelopment() bool {
	return false
}
