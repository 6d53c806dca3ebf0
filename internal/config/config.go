// Package config loads imhotep settings from an optional .imhotep.yaml file
// and IMHOTEP_* environment variables.
//
// Precedence, highest first: command-line flags (applied by the caller),
// environment, config file, defaults.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"
	_ "time/tzdata" // zone names resolve without a system zoneinfo

	"github.com/spf13/viper"
)

// Config keys.
const (
	KeyDatabasePath = "database.path"
	KeyOwner        = "owner"
	KeyTimezone     = "calendar.timezone"
	KeyLogLevel     = "log.level"
)

// Defaults.
const (
	DefaultDatabasePath = "imhotep.db"
	DefaultOwner        = "default"
	DefaultLogLevel     = "info"
)

// Config is the resolved configuration.
type Config struct {
	DatabasePath string `json:"database_path"`
	Owner        string `json:"owner"`

	// Timezone decides which calendar date counts as today. Empty means the
	// system's local zone.
	Timezone string `json:"timezone,omitempty"`
	LogLevel string `json:"log_level"`

	// File is the config file that was read, empty if none was found.
	File string `json:"file,omitempty"`
}

// Options controls where Load looks.
type Options struct {
	// File is an explicit config file. It must exist when set.
	File string

	// SearchPaths are the directories searched for .imhotep.yaml when File is
	// empty, in order.
	SearchPaths []string
}

// DefaultSearchPaths returns the working directory followed by the home
// directory.
func DefaultSearchPaths() []string {
	paths := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, home)
	}
	return paths
}

// Load resolves the configuration. A missing config file in the search paths
// is not an error; defaults and environment apply.
func Load(opts Options) (*Config, error) {
	v := viper.New()

	v.SetDefault(KeyDatabasePath, DefaultDatabasePath)
	v.SetDefault(KeyOwner, DefaultOwner)
	v.SetDefault(KeyTimezone, "")
	v.SetDefault(KeyLogLevel, DefaultLogLevel)

	v.SetEnvPrefix("IMHOTEP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.File != "" {
		v.SetConfigFile(opts.File)
	} else {
		v.SetConfigName(".imhotep")
		v.SetConfigType("yaml")
		for _, p := range opts.SearchPaths {
			v.AddConfigPath(p)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.File != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	cfg := &Config{
		DatabasePath: v.GetString(KeyDatabasePath),
		Owner:        v.GetString(KeyOwner),
		Timezone:     v.GetString(KeyTimezone),
		LogLevel:     v.GetString(KeyLogLevel),
		File:         v.ConfigFileUsed(),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that every field is usable.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DatabasePath) == "" {
		return fmt.Errorf("config: %s must not be empty", KeyDatabasePath)
	}
	if strings.TrimSpace(c.Owner) == "" {
		return fmt.Errorf("config: %s must not be empty", KeyOwner)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Location returns the configured time zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", KeyTimezone, err)
	}
	return loc, nil
}

// Level returns the configured log level.
func (c *Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("config: %s: %w", KeyLogLevel, err)
	}
	return lvl, nil
}
