package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets IMHOTEP_* variables for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"IMHOTEP_DATABASE_PATH", "IMHOTEP_OWNER", "IMHOTEP_CALENDAR_TIMEZONE", "IMHOTEP_LOG_LEVEL"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, ".imhotep.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_DefaultsWhenNoFile(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(Options{SearchPaths: []string{t.TempDir()}})
	require.NoError(t, err)
	assert.Equal(t, DefaultDatabasePath, cfg.DatabasePath)
	assert.Equal(t, DefaultOwner, cfg.Owner)
	assert.Equal(t, "", cfg.Timezone)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.Empty(t, cfg.File)
}

func TestLoad_ReadsFileFromSearchPath(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := writeConfig(t, dir, `
database:
  path: /var/lib/imhotep/tasks.db
owner: alice
calendar:
  timezone: Africa/Cairo
log:
  level: debug
`)

	cfg, err := Load(Options{SearchPaths: []string{t.TempDir(), dir}})
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/imhotep/tasks.db", cfg.DatabasePath)
	assert.Equal(t, "alice", cfg.Owner)
	assert.Equal(t, "Africa/Cairo", cfg.Timezone)
	assert.Equal(t, path, cfg.File)

	lvl, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, lvl)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeConfig(t, dir, "owner: alice\n")
	t.Setenv("IMHOTEP_OWNER", "bob")
	t.Setenv("IMHOTEP_DATABASE_PATH", "/tmp/env.db")

	cfg, err := Load(Options{SearchPaths: []string{dir}})
	require.NoError(t, err)
	assert.Equal(t, "bob", cfg.Owner)
	assert.Equal(t, "/tmp/env.db", cfg.DatabasePath)
}

func TestLoad_ExplicitFileMustExist(t *testing.T) {
	clearEnv(t)
	_, err := Load(Options{File: filepath.Join(t.TempDir(), "missing.yaml")})
	assert.Error(t, err)
}

func TestLoad_ExplicitFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("owner: carol\n"), 0o644))

	cfg, err := Load(Options{File: path})
	require.NoError(t, err)
	assert.Equal(t, "carol", cfg.Owner)
	assert.Equal(t, path, cfg.File)
}

func TestLoad_MalformedFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeConfig(t, dir, "owner: [unclosed\n")

	_, err := Load(Options{SearchPaths: []string{dir}})
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := Config{DatabasePath: "x.db", Owner: "alice", LogLevel: "info"}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"empty db", func(c *Config) { c.DatabasePath = " " }, KeyDatabasePath},
		{"empty owner", func(c *Config) { c.Owner = "" }, KeyOwner},
		{"bad zone", func(c *Config) { c.Timezone = "Mars/Olympus" }, KeyTimezone},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }, KeyLogLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLocation(t *testing.T) {
	c := Config{}
	loc, err := c.Location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)

	c.Timezone = "UTC"
	loc, err = c.Location()
	require.NoError(t, err)
	assert.Equal(t, "UTC", loc.String())
}
