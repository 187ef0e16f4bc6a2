package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v2"
)

// EnvPath overrides the default config file location.
const EnvPath = "STEGANON_CONFIG"

type Config struct {
	ChunkSize int    `yaml:"chunkSize"`
	Format    string `yaml:"format"`
	RawSeeds  bool   `yaml:"rawSeeds"`
	LogLevel  string `yaml:"logLevel"`
	Progress  bool   `yaml:"progress"`
}

// DefaultPath is $STEGANON_CONFIG or ~/.config/steganon/config.yaml.
func DefaultPath() string {
	if p := os.Getenv(EnvPath); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "steganon", "config.yaml")
}

// Load reads the YAML file at path. A missing file is not an error and yields
// the defaults.
func Load(path string) (Config, error) {
	var config Config
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &config); err != nil {
				return Config{}, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	if config.ChunkSize == 0 {
		config.ChunkSize = 64 << 10
	}

	if config.Format == "" {
		config.Format = "png"
	}

	if config.LogLevel == "" {
		config.LogLevel = "info"
	}

	if _, err := parseLevel(config.LogLevel); err != nil {
		return Config{}, err
	}

	return config, nil
}

// Level is the slog level named by LogLevel.
func (c Config) Level() slog.Level {
	l, _ := parseLevel(c.LogLevel)
	return l
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("config: invalid logLevel %q", s)
	}
	return l, nil
}
