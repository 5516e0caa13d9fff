// Package config persists user settings for the prayer-times CLI in
// $XDG_CONFIG_HOME/prayer-times/config.json (~/.config when unset).
//
// Flags override the file, and the file overrides Defaults.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // timezone names must resolve on hosts without zoneinfo

	"github.com/smokyabdulrahman/prayer-engine/internal/prayer"
)

const (
	appDir   = "prayer-times"
	fileName = "config.json"
)

// Config holds the user's settings. A zero field is unset.
type Config struct {
	City       string         `json:"city,omitempty" yaml:"city,omitempty"`
	Country    string         `json:"country,omitempty" yaml:"country,omitempty"` // ISO 3166 alpha-2
	Latitude   float64        `json:"latitude,omitempty" yaml:"latitude,omitempty"`
	Longitude  float64        `json:"longitude,omitempty" yaml:"longitude,omitempty"`
	Timezone   string         `json:"timezone,omitempty" yaml:"timezone,omitempty"` // IANA name
	Convention string         `json:"convention,omitempty" yaml:"convention,omitempty"`
	School     *prayer.School `json:"school,omitempty" yaml:"school,omitempty"` // nil is unset, not standard
	Offsets    prayer.Offsets `json:"offsets,omitempty" yaml:"offsets,omitempty"`
	TimeFormat string         `json:"time_format,omitempty" yaml:"time_format,omitempty"`
	Prayers    string         `json:"prayers,omitempty" yaml:"prayers,omitempty"`
	CacheDir   string         `json:"cache_dir,omitempty" yaml:"cache_dir,omitempty"`
}

// key binds a `config set/get` name to a Config field.
type key struct {
	name string
	get  func(*Config) string
	set  func(*Config, string) error
}

var keys = []key{
	{"city", func(c *Config) string { return c.City }, func(c *Config, v string) error {
		c.City = v
		return nil
	}},
	{"country", func(c *Config) string { return c.Country }, func(c *Config, v string) error {
		c.Country = strings.ToUpper(strings.TrimSpace(v))
		return nil
	}},
	{"latitude", func(c *Config) string { return formatCoordinate(c.Latitude) }, func(c *Config, v string) error {
		f, err := parseCoordinate(v, 90)
		if err != nil {
			return err
		}
		c.Latitude = f
		return nil
	}},
	{"longitude", func(c *Config) string { return formatCoordinate(c.Longitude) }, func(c *Config, v string) error {
		f, err := parseCoordinate(v, 180)
		if err != nil {
			return err
		}
		c.Longitude = f
		return nil
	}},
	{"timezone", func(c *Config) string { return c.Timezone }, func(c *Config, v string) error {
		if _, err := time.LoadLocation(v); err != nil {
			return err
		}
		c.Timezone = v
		return nil
	}},
	{"convention", func(c *Config) string { return c.Convention }, func(c *Config, v string) error {
		conv, ok := prayer.Lookup(v)
		if !ok {
			return fmt.Errorf("valid conventions: %s", strings.Join(conventionNames(), ", "))
		}
		c.Convention = conv.Name
		return nil
	}},
	{"school", func(c *Config) string {
		if c.School == nil {
			return ""
		}
		return c.School.String()
	}, func(c *Config, v string) error {
		s, err := prayer.ParseSchool(v)
		if err != nil {
			return errors.New(`must be "standard" or "hanafi"`)
		}
		c.School = &s
		return nil
	}},
	{"offsets", func(c *Config) string { return c.Offsets.String() }, func(c *Config, v string) error {
		o, err := prayer.ParseOffsets(v)
		if err != nil {
			return err
		}
		c.Offsets = o
		return nil
	}},
	{"time_format", func(c *Config) string { return c.TimeFormat }, func(c *Config, v string) error {
		if v != "12h" && v != "24h" {
			return errors.New(`must be "12h" or "24h"`)
		}
		c.TimeFormat = v
		return nil
	}},
	{"prayers", func(c *Config) string { return c.Prayers }, func(c *Config, v string) error {
		events, err := prayer.ParseEventList(v)
		if err != nil {
			return err
		}
		if len(events) == 0 {
			return errors.New("no prayer names")
		}
		c.Prayers = v
		return nil
	}},
	{"cache_dir", func(c *Config) string { return c.CacheDir }, func(c *Config, v string) error {
		c.CacheDir = v
		return nil
	}},
}

// ValidKeys lists the keys accepted by Set and Get, in display order.
var ValidKeys = func() []string {
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.name
	}
	return names
}()

func lookupKey(name string) (key, bool) {
	for _, k := range keys {
		if k.name == name {
			return k, true
		}
	}
	return key{}, false
}

// Set parses value into the field named by name.
func (c *Config) Set(name, value string) error {
	k, ok := lookupKey(name)
	if !ok {
		return fmt.Errorf("unknown config key %q; valid keys: %s", name, strings.Join(ValidKeys, ", "))
	}
	if err := k.set(c, value); err != nil {
		return fmt.Errorf("invalid %s %q: %w", name, value, err)
	}
	return nil
}

// Get returns the field named by name as Set would accept it, or "" when unset.
func (c *Config) Get(name string) (string, error) {
	k, ok := lookupKey(name)
	if !ok {
		return "", fmt.Errorf("unknown config key %q", name)
	}
	return k.get(c), nil
}

// Defaults returns the settings used when neither flags nor the file set one.
func Defaults() Config {
	school := prayer.Standard
	return Config{
		Convention: prayer.DefaultConvention,
		School:     &school,
		TimeFormat: "24h",
	}
}

// SchoolOrDefault returns the configured school or def.
func (c *Config) SchoolOrDefault(def prayer.School) prayer.School {
	if c.School == nil {
		return def
	}
	return *c.School
}

// ConventionOrDefault returns the configured convention name or def.
func (c *Config) ConventionOrDefault(def string) string {
	if c.Convention == "" {
		return def
	}
	return c.Convention
}

// HasLocation reports whether coordinates were configured.
func (c *Config) HasLocation() bool {
	return c.Latitude != 0 || c.Longitude != 0
}

// Dir returns the directory holding the config file.
func Dir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, appDir), nil
}

// Path returns the config file location.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fileName), nil
}

// Load reads the config file. A missing file is an empty Config.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom is Load for an explicit path.
func LoadFrom(path string) (*Config, error) {
	cfg := &Config{}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return cfg, nil
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config file, creating its directory.
func (c *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes c to path through a temporary file so a crash never leaves
// a truncated config behind.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create config directory %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, fileName+".*")
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	defer os.Remove(tmp.Name())

	_, err = tmp.Write(append(data, '\n'))
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Chmod(tmp.Name(), 0o644)
	}
	if err == nil {
		err = os.Rename(tmp.Name(), path)
	}
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Reset removes the config file.
func Reset() error {
	path, err := Path()
	if err != nil {
		return err
	}
	return ResetAt(path)
}

// ResetAt removes the config file at path. A missing file is not an error.
func ResetAt(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete config file: %w", err)
	}
	return nil
}

func parseCoordinate(value string, limit float64) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, errors.New("must be a number")
	}
	if v < -limit || v > limit {
		return 0, fmt.Errorf("must be between %g and %g", -limit, limit)
	}
	return v, nil
}

func formatCoordinate(v float64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func conventionNames() []string {
	var names []string
	for _, c := range prayer.Conventions() {
		names = append(names, c.Name)
	}
	return names
}
