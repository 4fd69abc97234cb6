// Package config provides centralized configuration management using Viper.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DefaultUserAgent identifies homekey to the geocoding service. Nominatim's
// usage policy requires a descriptive client identifier.
const DefaultUserAgent = "homekey/1.0 (+https://github.com/homekey-labs/homekey)"

// Config holds all configuration values for homekey.
type Config struct {
	DataDir     string         `mapstructure:"data_dir" yaml:"data_dir"`
	LogLevel    string         `mapstructure:"log_level" yaml:"log_level"`
	LogFile     string         `mapstructure:"log_file" yaml:"log_file"`
	CompanyName string         `mapstructure:"company_name" yaml:"company_name"`
	Phone       string         `mapstructure:"phone" yaml:"phone"`
	ContentFile string         `mapstructure:"content_file" yaml:"content_file"`
	Geocoder    GeocoderConfig `mapstructure:"geocoder" yaml:"geocoder"`
	Lookup      LookupConfig   `mapstructure:"lookup" yaml:"lookup"`
	Splash      SplashConfig   `mapstructure:"splash" yaml:"splash"`
}

// GeocoderConfig configures the address search client.
type GeocoderConfig struct {
	BaseURL       string        `mapstructure:"base_url" yaml:"base_url"`
	UserAgent     string        `mapstructure:"user_agent" yaml:"user_agent"`
	CountryCodes  string        `mapstructure:"country_codes" yaml:"country_codes"`
	Limit         int           `mapstructure:"limit" yaml:"limit"`
	Timeout       time.Duration `mapstructure:"timeout" yaml:"timeout"`
	RatePerSecond float64       `mapstructure:"rate_per_second" yaml:"rate_per_second"`
}

// LookupConfig configures the address autocomplete field.
type LookupConfig struct {
	Debounce time.Duration `mapstructure:"debounce" yaml:"debounce"`
	MinChars int           `mapstructure:"min_chars" yaml:"min_chars"`
}

// SplashConfig configures the loading splash screen.
type SplashConfig struct {
	Duration time.Duration `mapstructure:"duration" yaml:"duration"`
	Always   bool          `mapstructure:"always" yaml:"always"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		DataDir:     ".homekey",
		LogLevel:    "info",
		CompanyName: "HomeKey Home Buyers",
		Phone:       "(555) 010-4663",
		Geocoder: GeocoderConfig{
			BaseURL:       "https://nominatim.openstreetmap.org",
			UserAgent:     DefaultUserAgent,
			CountryCodes:  "us",
			Limit:         5,
			Timeout:       10 * time.Second,
			RatePerSecond: 1,
		},
		Lookup: LookupConfig{
			Debounce: 400 * time.Millisecond,
			MinChars: 3,
		},
		Splash: SplashConfig{
			Duration: 1500 * time.Millisecond,
		},
	}
}

// envKeys lists every key that can be set through a HOMEKEY_ variable.
var envKeys = []string{
	"data_dir",
	"log_level",
	"log_file",
	"company_name",
	"phone",
	"content_file",
	"geocoder.base_url",
	"geocoder.user_agent",
	"geocoder.country_codes",
	"geocoder.limit",
	"geocoder.timeout",
	"geocoder.rate_per_second",
	"lookup.debounce",
	"lookup.min_chars",
	"splash.duration",
	"splash.always",
}

// Load loads configuration with full precedence:
// ENV vars > project config > XDG global config > defaults.
// CLI flags are applied on top by the commands that own them.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigName("homekey")

	d := Default()
	v.SetDefault("data_dir", d.DataDir)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_file", d.LogFile)
	v.SetDefault("company_name", d.CompanyName)
	v.SetDefault("phone", d.Phone)
	v.SetDefault("content_file", d.ContentFile)
	v.SetDefault("geocoder.base_url", d.Geocoder.BaseURL)
	v.SetDefault("geocoder.user_agent", d.Geocoder.UserAgent)
	v.SetDefault("geocoder.country_codes", d.Geocoder.CountryCodes)
	v.SetDefault("geocoder.limit", d.Geocoder.Limit)
	v.SetDefault("geocoder.timeout", d.Geocoder.Timeout)
	v.SetDefault("geocoder.rate_per_second", d.Geocoder.RatePerSecond)
	v.SetDefault("lookup.debounce", d.Lookup.Debounce)
	v.SetDefault("lookup.min_chars", d.Lookup.MinChars)
	v.SetDefault("splash.duration", d.Splash.Duration)
	v.SetDefault("splash.always", d.Splash.Always)

	// HOMEKEY_GEOCODER_BASE_URL -> geocoder.base_url
	v.SetEnvPrefix("HOMEKEY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range envKeys {
		envName := "HOMEKEY_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, envName); err != nil {
			return nil, fmt.Errorf("binding %s env: %w", key, err)
		}
	}

	globalPath := GlobalPath()
	if fileExists(globalPath) {
		v.SetConfigFile(globalPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading global config: %w", err)
		}
	}

	projectPath := ProjectPath()
	if fileExists(projectPath) {
		v.SetConfigFile(projectPath)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("merging project config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// Validate reports the first setting that would break the kiosk at runtime.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}

	u, err := url.Parse(c.Geocoder.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("geocoder.base_url must be an http(s) URL, got %q", c.Geocoder.BaseURL)
	}
	if strings.TrimSpace(c.Geocoder.UserAgent) == "" {
		return fmt.Errorf("geocoder.user_agent is required")
	}
	if c.Geocoder.Limit < 1 || c.Geocoder.Limit > 40 {
		return fmt.Errorf("geocoder.limit must be between 1 and 40, got %d", c.Geocoder.Limit)
	}
	if c.Geocoder.Timeout <= 0 {
		return fmt.Errorf("geocoder.timeout must be positive")
	}
	if c.Geocoder.RatePerSecond <= 0 {
		return fmt.Errorf("geocoder.rate_per_second must be positive")
	}

	if c.Lookup.MinChars < 1 {
		return fmt.Errorf("lookup.min_chars must be at least 1, got %d", c.Lookup.MinChars)
	}
	if c.Lookup.Debounce < 0 {
		return fmt.Errorf("lookup.debounce cannot be negative")
	}
	if c.Splash.Duration < 0 {
		return fmt.Errorf("splash.duration cannot be negative")
	}

	return nil
}

// Exists returns true if any config file exists (global or project).
func Exists() bool {
	return fileExists(GlobalPath()) || fileExists(ProjectPath())
}

// GlobalPath returns the XDG global config path.
// Returns ~/.config/homekey/homekey.yml or $XDG_CONFIG_HOME/homekey/homekey.yml.
func GlobalPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "homekey", "homekey.yml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "homekey", "homekey.yml")
}

// ProjectPath returns the project-local config path.
func ProjectPath() string {
	return "homekey.yml"
}

// WriteGlobal writes the config to the XDG global location.
func WriteGlobal(cfg *Config) error {
	path := GlobalPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	return write(path, cfg)
}

// WriteProject writes the config to the project-local location.
func WriteProject(cfg *Config) error {
	return write(ProjectPath(), cfg)
}

func write(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// fileExists checks if a file exists.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
