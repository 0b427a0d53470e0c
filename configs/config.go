// SPDX-FileCopyrightText: © 2025 Olivier Meunier <olivier@neokraft.net>
//
// SPDX-License-Identifier: AGPL-3.0-only

// Package configs contains the fontgrab configuration.
package configs

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/komkom/toml"
)

// EnvPrefix is the prefix of every configuration environment variable.
const EnvPrefix = "FONTGRAB_"

// ErrConfig is returned when the configuration can't be loaded.
var ErrConfig = errors.New("invalid configuration")

// Duration is a [time.Duration] that reads values like "30s" or "1m30s".
type Duration time.Duration

// UnmarshalText implements [encoding.TextUnmarshaler].
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	if v < 0 {
		return fmt.Errorf("negative duration %q", text)
	}
	*d = Duration(v)
	return nil
}

// Config holds the application configuration.
type Config struct {
	OutputDir string     `json:"output_dir" env:"OUTPUT_DIR"`
	LogLevel  slog.Level `json:"log_level"  env:"LOG_LEVEL"`
	UserAgent string     `json:"user_agent" env:"USER_AGENT"`
	Timeout   Duration   `json:"timeout"    env:"TIMEOUT"`
	NoColor   bool       `json:"no_color"   env:"NO_COLOR"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		OutputDir: "downloads",
		LogLevel:  slog.LevelInfo,
	}
}

// Load returns the configuration built from the defaults, the TOML file
// at path when not empty, then the FONTGRAB_* environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrConfig, path, err)
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (cfg *Config) loadFile(path string) error {
	fd, err := os.Open(path)
	if err != nil {
		return err
	}
	defer fd.Close() //nolint:errcheck

	dec := json.NewDecoder(toml.New(fd))
	dec.DisallowUnknownFields()
	return dec.Decode(cfg)
}

// Validate checks the configuration values.
func (cfg *Config) Validate() error {
	if cfg.OutputDir == "" {
		return fmt.Errorf("%w: output_dir cannot be empty", ErrConfig)
	}
	return nil
}
