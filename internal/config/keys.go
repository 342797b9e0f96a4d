package config

import (
	"fmt"
	"net"
	"strings"
	"unicode"
)

// KeySpec describes a single configuration key.
type KeySpec struct {
	// Name is the CLI-facing key name (e.g. "serve-addr").
	Name string

	// Description is a short human-readable explanation shown in help text.
	Description string

	// Default is shown when the key is unset.
	Default string

	// Get returns the stored value for this key, empty when unset.
	Get func(cfg *Config) string

	// Set applies a value to the given Config in memory; the caller saves.
	Set func(cfg *Config, value string)

	// Validate rejects bad values before Set. Optional.
	Validate func(value string) error
}

// Keys is the authoritative list of all supported configuration keys.
var Keys = []KeySpec{
	{
		Name:        "serve-addr",
		Description: "Listen address for 'nslpulse serve'",
		Default:     DefaultServeAddr,
		Get:         func(cfg *Config) string { return cfg.ServeAddr },
		Set:         func(cfg *Config, v string) { cfg.ServeAddr = v },
		Validate:    validateAddr,
	},
	{
		Name:        "serve-path",
		Description: "URL path the pulse string is published on",
		Default:     DefaultServePath,
		Get:         func(cfg *Config) string { return cfg.ServePath },
		Set:         func(cfg *Config, v string) { cfg.ServePath = v },
		Validate:    validatePath,
	},
	{
		Name:        "disk-mount",
		Description: "Mount point whose disk usage is reported",
		Default:     DefaultDiskMount,
		Get:         func(cfg *Config) string { return cfg.DiskMount },
		Set:         func(cfg *Config, v string) { cfg.DiskMount = v },
	},
	{
		Name:        "db-processes",
		Description: "Comma-separated process names that mark the database as up",
		Default:     DefaultDBProcesses,
		Get:         func(cfg *Config) string { return cfg.DBProcesses },
		Set:         func(cfg *Config, v string) { cfg.DBProcesses = strings.Join(SplitList(v), ",") },
		Validate:    validateList,
	},
}

// Lookup returns the KeySpec for the given name, or nil if not found.
// The name is matched case-insensitively after trimming whitespace.
func Lookup(name string) *KeySpec {
	normalized := strings.ToLower(strings.TrimSpace(name))
	for i := range Keys {
		if Keys[i].Name == normalized {
			return &Keys[i]
		}
	}
	return nil
}

// KeyNames returns the names of all registered keys.
func KeyNames() []string {
	names := make([]string, len(Keys))
	for i, k := range Keys {
		names[i] = k.Name
	}
	return names
}

// KeysHelp builds a formatted block listing all available keys, suitable
// for inclusion in Cobra Long help text.
func KeysHelp() string {
	if len(Keys) == 0 {
		return ""
	}

	maxLen := 0
	for _, k := range Keys {
		if len(k.Name) > maxLen {
			maxLen = len(k.Name)
		}
	}

	var b strings.Builder
	b.WriteString("Available keys:\n")
	for _, k := range Keys {
		fmt.Fprintf(&b, "  %-*s   %s (default %q)\n", maxLen, k.Name, k.Description, k.Default)
	}
	return b.String()
}

func validateAddr(v string) error {
	if _, _, err := net.SplitHostPort(v); err != nil {
		return fmt.Errorf("invalid listen address %q: %w", v, err)
	}
	return nil
}

func validatePath(v string) error {
	if !strings.HasPrefix(v, "/") {
		return fmt.Errorf("path %q must start with '/'", v)
	}
	for _, r := range v {
		if invalidPathRune(r) {
			return fmt.Errorf("path %q contains invalid character %q", v, r)
		}
	}
	return nil
}

// invalidPathRune matches characters that are not allowed in a literal
// http.ServeMux path: whitespace, controls, and wildcard braces.
func invalidPathRune(r rune) bool {
	return unicode.IsSpace(r) || unicode.IsControl(r) || r == '{' || r == '}'
}

func validateList(v string) error {
	if len(SplitList(v)) == 0 {
		return fmt.Errorf("process list %q is empty", v)
	}
	return nil
}
