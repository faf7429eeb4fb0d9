package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"modelshelf/internal/database"
	"modelshelf/internal/utils"
)

const (
	envPrefix = "MODELSHELF_"

	DefaultQuietPeriod = 500 * time.Millisecond
)

// Config is the runtime configuration assembled from .env and the environment.
type Config struct {
	DBPath      string
	LogLevel    logrus.Level
	LogFile     string
	QuietPeriod time.Duration
	UseKeyring  bool
}

// Load reads .env (if present) and MODELSHELF_* variables.
func Load() (*Config, error) {
	if err := utils.LoadEnv(); err != nil {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function so tests can avoid the process env.
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		DBPath:      database.GetDefaultDBPath(),
		LogLevel:    logrus.InfoLevel,
		QuietPeriod: DefaultQuietPeriod,
	}

	if v := strings.TrimSpace(getenv(envPrefix + "DB_PATH")); v != "" {
		cfg.DBPath = v
	}
	if v := strings.TrimSpace(getenv(envPrefix + "LOG_LEVEL")); v != "" {
		lvl, err := logrus.ParseLevel(v)
		if err != nil {
			return nil, fmt.Errorf("%sLOG_LEVEL: %w", envPrefix, err)
		}
		cfg.LogLevel = lvl
	}
	cfg.LogFile = strings.TrimSpace(getenv(envPrefix + "LOG_FILE"))
	if v := strings.TrimSpace(getenv(envPrefix + "AUTOSAVE_QUIET_MS")); v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil || ms <= 0 {
			return nil, fmt.Errorf("%sAUTOSAVE_QUIET_MS must be a positive integer, got %q", envPrefix, v)
		}
		cfg.QuietPeriod = time.Duration(ms) * time.Millisecond
	}
	if v := strings.TrimSpace(getenv(envPrefix + "USE_KEYRING")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("%sUSE_KEYRING: %w", envPrefix, err)
		}
		cfg.UseKeyring = b
	}
	return cfg, nil
}
