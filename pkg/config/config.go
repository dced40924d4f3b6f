// Package config loads flowcheck settings from defaults, an optional config
// file, FLOWCHECK_* environment variables and command-line flags, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, e.g. FLOWCHECK_BASE_URL.
const EnvPrefix = "FLOWCHECK"

// Config holds run configuration.
type Config struct {
	BaseURL     string                `mapstructure:"base_url"`
	ArtifactDir string                `mapstructure:"artifact_dir"`
	Headless    bool                  `mapstructure:"headless"`
	Timeout     time.Duration         `mapstructure:"timeout"`     // default assertion/action timeout
	IdleWindow  time.Duration         `mapstructure:"idle_window"` // network idle quiet window
	BrowserBin  string                `mapstructure:"browser_bin"`
	MocksFile   string                `mapstructure:"mocks_file"` // replaces the transparency mocks
	LogLevel    string                `mapstructure:"log_level"`
	Flows       map[string]FlowConfig `mapstructure:"flows"`
}

// FlowConfig holds per-flow overrides.
type FlowConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

// Default returns the built-in configuration. The transparency flow runs
// against the preview server, the others against the dev server; an
// explicit base_url replaces both (see Load).
func Default() Config {
	return Config{
		BaseURL:     "http://localhost:5173",
		ArtifactDir: "verification",
		Headless:    true,
		Timeout:     5 * time.Second,
		IdleWindow:  500 * time.Millisecond,
		LogLevel:    "info",
		Flows: map[string]FlowConfig{
			"transparency": {BaseURL: "http://localhost:4173"},
		},
	}
}

// New returns a viper instance primed with defaults and environment
// bindings.
func New() *viper.Viper {
	v := viper.New()
	d := Default()
	v.SetDefault("artifact_dir", d.ArtifactDir)
	v.SetDefault("headless", d.Headless)
	v.SetDefault("timeout", d.Timeout)
	v.SetDefault("idle_window", d.IdleWindow)
	v.SetDefault("browser_bin", d.BrowserBin)
	v.SetDefault("mocks_file", d.MocksFile)
	v.SetDefault("log_level", d.LogLevel)
	// Per-flow keys are registered empty so FLOWCHECK_FLOWS_<NAME>_BASE_URL
	// is picked up; the built-in values are applied in Load.
	for name := range d.Flows {
		v.SetDefault("flows."+name+".base_url", "")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// base_url has no viper default so that IsSet reports whether a flag,
	// the environment or a config file chose it.
	_ = v.BindEnv("base_url")
	return v
}

// Load reads file (if non-empty) into v and decodes the result. Without an
// explicit file, flowcheck.{yaml,json,toml} in the working directory is
// used when present.
//
// The built-in per-flow base URLs only apply while base_url itself is left
// unset: pointing flowcheck at one server sends every flow there unless a
// flow's own base_url says otherwise.
func Load(v *viper.Viper, file string) (Config, error) {
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("flowcheck")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	explicitBase := v.IsSet("base_url")
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	d := Default()
	if cfg.BaseURL == "" {
		cfg.BaseURL = d.BaseURL
	}
	if !explicitBase {
		if cfg.Flows == nil {
			cfg.Flows = make(map[string]FlowConfig, len(d.Flows))
		}
		for name, fc := range d.Flows {
			if cfg.Flows[name].BaseURL == "" {
				cfg.Flows[name] = fc
			}
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings no run could use.
func (c Config) Validate() error {
	if err := checkURL("base_url", c.BaseURL); err != nil {
		return err
	}
	for name, fc := range c.Flows {
		if fc.BaseURL == "" {
			continue
		}
		if err := checkURL("flows."+name+".base_url", fc.BaseURL); err != nil {
			return err
		}
	}
	if c.ArtifactDir == "" {
		return errors.New("artifact_dir must not be empty")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}
	if c.IdleWindow < 0 {
		return fmt.Errorf("idle_window must not be negative, got %v", c.IdleWindow)
	}
	return nil
}

// BaseURLs returns the per-flow base URL overrides.
func (c Config) BaseURLs() map[string]string {
	out := make(map[string]string, len(c.Flows))
	for name, fc := range c.Flows {
		if fc.BaseURL != "" {
			out[name] = fc.BaseURL
		}
	}
	return out
}

func checkURL(key, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s: want http or https URL, got %q", key, raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%s: missing host in %q", key, raw)
	}
	return nil
}
