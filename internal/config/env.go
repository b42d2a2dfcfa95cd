package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultPort      = "8080"
	defaultPresetDir = "examples/presets"
	defaultResultTTL = time.Hour
)

// Env holds server settings sourced from environment variables.
type Env struct {
	Port       string
	Production bool
	PresetDir  string
	ResultTTL  time.Duration
	LogLevel   string
}

// LoadEnv reads the process environment, after loading dotenvPath if it exists.
// Variables already set in the environment are not overwritten.
func LoadEnv(dotenvPath string) (Env, error) {
	if dotenvPath != "" {
		if err := godotenv.Load(dotenvPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Env{}, err
		}
	}

	e := Env{
		Port:       os.Getenv("API_PORT"),
		Production: os.Getenv("API_ENV") == "production",
		PresetDir:  os.Getenv("PRESET_DIR"),
		ResultTTL:  defaultResultTTL,
		LogLevel:   os.Getenv("LOG_LEVEL"),
	}
	if e.Port == "" {
		e.Port = defaultPort
	}
	if e.PresetDir == "" {
		e.PresetDir = defaultPresetDir
	}
	if abs, err := filepath.Abs(e.PresetDir); err == nil {
		e.PresetDir = abs
	}
	if v := os.Getenv("RESULT_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return Env{}, err
		}
		e.ResultTTL = ttl
	}
	if e.LogLevel == "" {
		e.LogLevel = "info"
	}
	return e, nil
}
