// Package config holds the module-wide options: storage selection and
// namespacing, the timezone handling mode, and logging. There is no
// hidden global; the host constructs a Config (or a Manager) explicitly
// and passes it down.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"crontask/pkg/storage"
	"crontask/pkg/timezone"
)

// Config is the effective module configuration.
type Config struct {
	Storage  storage.Config    `json:"storage" envPrefix:"CRON_STORAGE_"`
	Timezone *timezone.Options `json:"timezone,omitempty" envPrefix:"CRON_TIMEZONE_"`
	Log      LogConfig         `json:"log" envPrefix:"CRON_LOG_"`
}

type LogConfig struct {
	Level string `json:"level" yaml:"level" env:"LEVEL"`
}

// Default returns the stock configuration: in-memory storage under the
// "cron:" prefix, validated non-strict UTC timezone handling.
func Default() *Config {
	return &Config{
		Storage: storage.Config{
			Driver: "memory",
			Prefix: storage.DefaultPrefix,
		},
		Timezone: &timezone.Options{
			Type:     "UTC",
			Validate: true,
			Strict:   false,
		},
		Log: LogConfig{Level: "info"},
	}
}

// LoadFile reads a yaml or json configuration file over the defaults.
// Unknown keys and trailing data are rejected.
func LoadFile(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parse(path, b)
}

func parse(path string, b []byte) (*Config, error) {
	jb, _, err := coerceToJSONBytes(path, b)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	dec := json.NewDecoder(bytes.NewReader(jb))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return nil, err
	}
	// Reject trailing tokens (e.g. concatenated JSON documents).
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return nil, fmt.Errorf("invalid config: trailing data")
		}
		return nil, err
	}
	return cfg, nil
}

// FromEnv overlays CRON_* environment variables onto cfg.
func FromEnv(cfg *Config) error {
	return env.Parse(cfg)
}

// LoadDotenv loads the given dotenv files (".env" when none are named)
// into the process environment before FromEnv runs. Missing files are
// not an error.
func LoadDotenv(paths ...string) error {
	err := godotenv.Load(paths...)
	if err != nil && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// IsStrictTimezone reports whether the configuration demands strict
// timezone handling. No timezone configuration means not strict.
func IsStrictTimezone(c *Config) bool {
	return c != nil && c.Timezone != nil && c.Timezone.Strict
}

// IsFlexibleTimezone reports whether timezone handling is configured and
// non-strict. No timezone configuration means not flexible either.
func IsFlexibleTimezone(c *Config) bool {
	return c != nil && c.Timezone != nil && !c.Timezone.Strict
}
