// Package config handles persistent settings for nslpulse.
//
// Settings are stored as JSON at ~/.config/nslpulse/config.json (or the
// platform-equivalent path returned by os.UserConfigDir). Only the pulse
// daemon reads them; the probe client takes everything from its arguments.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const (
	appDir   = "nslpulse"
	fileName = "config.json"
)

// Defaults applied when a key is unset.
const (
	DefaultServeAddr   = ":50110"
	DefaultServePath   = "/pulse"
	DefaultDiskMount   = "/"
	DefaultDBProcesses = "mysql,mysqld,mysqld.exe"
)

// pathOverride, when non-empty, replaces the default config file path.
var pathOverride string

// SetPath overrides the config file path. Intended for testing.
func SetPath(p string) { pathOverride = p }

// ResetPath clears the path override. Intended for testing.
func ResetPath() { pathOverride = "" }

// Config holds daemon settings that persist across invocations. Empty
// fields fall back to the Default* constants.
type Config struct {
	ServeAddr   string `json:"serve_addr,omitempty"`
	ServePath   string `json:"serve_path,omitempty"`
	DiskMount   string `json:"disk_mount,omitempty"`
	DBProcesses string `json:"db_processes,omitempty"`
}

// Addr returns the listen address for the daemon.
func (c *Config) Addr() string { return orDefault(c.ServeAddr, DefaultServeAddr) }

// PulsePath returns the URL path the pulse string is served on.
func (c *Config) PulsePath() string { return orDefault(c.ServePath, DefaultServePath) }

// Mount returns the filesystem whose usage is reported.
func (c *Config) Mount() string { return orDefault(c.DiskMount, DefaultDiskMount) }

// DatabaseProcesses returns the process names that mark the database as up.
func (c *Config) DatabaseProcesses() []string {
	return SplitList(orDefault(c.DBProcesses, DefaultDBProcesses))
}

// SplitList splits a comma-separated list, dropping blanks.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// Path returns the absolute path to the config file.
func Path() (string, error) {
	if pathOverride != "" {
		return pathOverride, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config: unable to determine config directory: %w", err)
	}
	return filepath.Join(base, appDir, fileName), nil
}

// Load reads the config file. A missing file yields a zero-value Config.
func Load() (*Config, error) {
	return loadFrom("")
}

func loadFrom(path string) (*Config, error) {
	if path == "" {
		var err error
		path, err = Path()
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}

	return &cfg, nil
}

// Save writes the config to disk, creating the parent directory if needed.
func (c *Config) Save() error {
	return c.saveTo("")
}

func (c *Config) saveTo(path string) error {
	if path == "" {
		var err error
		path, err = Path()
		if err != nil {
			return err
		}
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("config: failed to create directory %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("config: failed to marshal config: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: failed to write %s: %w", path, err)
	}

	return nil
}

// LoadFrom reads the config from the given path. Intended for testing.
func LoadFrom(path string) (*Config, error) {
	return loadFrom(path)
}

// SaveTo writes the config to the given path. Intended for testing.
func (c *Config) SaveTo(path string) error {
	return c.saveTo(path)
}
