// Package config resolves runtime settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"github.com/sadopc/studybuddy/internal/store"
)

const (
	EnvDBPath   = "STUDYBUDDY_DB_PATH"
	EnvLogFile  = "STUDYBUDDY_LOG_FILE"
	EnvLogLevel = "STUDYBUDDY_LOG_LEVEL"
)

type Config struct {
	DBPath   string
	LogFile  string
	LogLevel log.Level
}

// Load reads envFiles (".env" when none are given) into the process
// environment without overriding variables that are already set, then
// builds a Config. Missing env files are not an error.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("loading %s: %w", f, err)
		}
	}

	cfg := Config{
		DBPath:  os.Getenv(EnvDBPath),
		LogFile: os.Getenv(EnvLogFile),
	}

	if cfg.DBPath == "" {
		p, err := store.DefaultDBPath()
		if err != nil {
			return Config{}, err
		}
		cfg.DBPath = p
	}
	if cfg.LogFile == "" {
		cfg.LogFile = filepath.Join(filepath.Dir(cfg.DBPath), "studybuddy.log")
	}

	level, err := ParseLevel(getEnv(EnvLogLevel, "info"))
	if err != nil {
		return Config{}, err
	}
	cfg.LogLevel = level
	return cfg, nil
}

// ParseLevel accepts debug, info, warn, error and fatal.
func ParseLevel(s string) (log.Level, error) {
	level, err := log.ParseLevel(s)
	if err != nil {
		return log.InfoLevel, fmt.Errorf("invalid log level %q", s)
	}
	return level, nil
}

// NewLogger returns a logger writing to w at the configured level.
func (c Config) NewLogger(w io.Writer) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           c.LogLevel,
		ReportTimestamp: true,
		Prefix:          "studybuddy",
	})
}

// OpenLogFile opens the log file for appending, creating its directory.
func (c Config) OpenLogFile() (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(c.LogFile), 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	return f, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
