package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/zeroclaw/zeroclaw-ui/internal/bounded"
)

// CurrentVersion is the only config file version this build reads.
const CurrentVersion = 1

// Environment overrides applied by ApplyEnv.
const (
	EnvBaseURL = "ZEROCLAW_BASE_URL"
	EnvAPIKey  = "ZEROCLAW_API_KEY"
)

// Config represents the entire configuration file.
type Config struct {
	Version      int           `yaml:"version"`
	Server       ServerConfig  `yaml:"server"`
	Wifi         WifiConfig    `yaml:"wifi"`
	Display      DisplayConfig `yaml:"display"`
	HistoryLimit int           `yaml:"history_limit"`
	LogLevel     string        `yaml:"log_level,omitempty"` // debug, info, warn, error; empty is silent

	// overridden lists the fields ApplyEnv replaced, with their file values.
	overridden map[string]string
}

// ServerConfig describes how to reach the ZeroClaw gateway.
type ServerConfig struct {
	BaseURL         string        `yaml:"base_url"`
	APIKey          string        `yaml:"api_key,omitempty"`
	Timeout         time.Duration `yaml:"timeout"`
	HealthInterval  time.Duration `yaml:"health_interval"`  // 0s disables the gateway probe
	Discover        bool          `yaml:"discover"`         // Browse mDNS when base_url is empty
	DiscoverTimeout time.Duration `yaml:"discover_timeout"` // How long to browse
}

// WifiConfig holds station credentials and the connect retry policy.
type WifiConfig struct {
	SSID         string        `yaml:"ssid,omitempty"`
	Password     string        `yaml:"password,omitempty"`
	PollInterval time.Duration `yaml:"poll_interval"`
	MaxAttempts  int           `yaml:"max_attempts"`
}

// DisplayConfig is the panel geometry used to clamp touch coordinates.
type DisplayConfig struct {
	Width             uint16        `yaml:"width"`
	Height            uint16        `yaml:"height"`
	TouchPollInterval time.Duration `yaml:"touch_poll_interval"`
}

// Default returns a configuration with every field set to its default.
func Default() *Config {
	return &Config{
		Version: CurrentVersion,
		Server: ServerConfig{
			BaseURL:         "http://localhost:8080",
			Timeout:         30 * time.Second,
			HealthInterval:  30 * time.Second,
			Discover:        true,
			DiscoverTimeout: 5 * time.Second,
		},
		Wifi: WifiConfig{
			PollInterval: time.Second,
			MaxAttempts:  30,
		},
		Display: DisplayConfig{
			Width:             320,
			Height:            240,
			TouchPollInterval: 20 * time.Millisecond,
		},
		HistoryLimit: 32,
	}
}

// fillDefaults sets zero-valued tuning fields to their defaults.
// Credentials and the base URL are left alone.
func (c *Config) fillDefaults() {
	d := Default()
	if c.Server.Timeout == 0 {
		c.Server.Timeout = d.Server.Timeout
	}
	if c.Server.DiscoverTimeout == 0 {
		c.Server.DiscoverTimeout = d.Server.DiscoverTimeout
	}
	if c.Wifi.PollInterval == 0 {
		c.Wifi.PollInterval = d.Wifi.PollInterval
	}
	if c.Wifi.MaxAttempts == 0 {
		c.Wifi.MaxAttempts = d.Wifi.MaxAttempts
	}
	if c.Display.Width == 0 {
		c.Display.Width = d.Display.Width
	}
	if c.Display.Height == 0 {
		c.Display.Height = d.Display.Height
	}
	if c.Display.TouchPollInterval == 0 {
		c.Display.TouchPollInterval = d.Display.TouchPollInterval
	}
	if c.HistoryLimit == 0 {
		c.HistoryLimit = d.HistoryLimit
	}
}

// ApplyEnv replaces the base URL and API key with ZEROCLAW_BASE_URL and
// ZEROCLAW_API_KEY when they are set.
func (c *Config) ApplyEnv() {
	if v, ok := os.LookupEnv(EnvBaseURL); ok && v != "" {
		c.override("server.base_url", c.Server.BaseURL)
		c.Server.BaseURL = v
	}
	if v, ok := os.LookupEnv(EnvAPIKey); ok && v != "" {
		c.override("server.api_key", c.Server.APIKey)
		c.Server.APIKey = v
	}
}

func (c *Config) override(field, fileValue string) {
	if c.overridden == nil {
		c.overridden = make(map[string]string)
	}
	if _, seen := c.overridden[field]; !seen {
		c.overridden[field] = fileValue
	}
}

// Overridden reports whether field (e.g. "server.api_key") came from the environment.
func (c *Config) Overridden(field string) bool {
	_, ok := c.overridden[field]
	return ok
}

// Validate checks every field against the buffers it will be copied into.
func (c *Config) Validate() error {
	var errs []error

	if c.Version != CurrentVersion {
		errs = append(errs, fmt.Errorf("unsupported config version: %d (expected %d)", c.Version, CurrentVersion))
	}

	if c.Server.BaseURL != "" {
		if len(c.Server.BaseURL) > bounded.URLCapacity {
			errs = append(errs, fmt.Errorf("server.base_url is %d bytes (max %d)", len(c.Server.BaseURL), bounded.URLCapacity))
		}
		if u, err := url.Parse(c.Server.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, fmt.Errorf("server.base_url %q is not an http(s) URL", c.Server.BaseURL))
		}
	} else if !c.Server.Discover {
		errs = append(errs, errors.New("server.base_url is empty and discovery is disabled"))
	}
	if len(c.Server.APIKey) > bounded.APIKeyCapacity {
		errs = append(errs, fmt.Errorf("server.api_key is %d bytes (max %d)", len(c.Server.APIKey), bounded.APIKeyCapacity))
	}
	if c.Server.Timeout < 0 {
		errs = append(errs, errors.New("server.timeout must not be negative"))
	}
	if c.Server.HealthInterval < 0 {
		errs = append(errs, errors.New("server.health_interval must not be negative"))
	}

	if len(c.Wifi.SSID) > bounded.SSIDCapacity {
		errs = append(errs, fmt.Errorf("wifi.ssid is %d bytes (max %d)", len(c.Wifi.SSID), bounded.SSIDCapacity))
	}
	if len(c.Wifi.Password) > bounded.PasswordCapacity {
		errs = append(errs, fmt.Errorf("wifi.password is %d bytes (max %d)", len(c.Wifi.Password), bounded.PasswordCapacity))
	}
	if c.Wifi.MaxAttempts < 0 {
		errs = append(errs, errors.New("wifi.max_attempts must not be negative"))
	}
	if c.Wifi.PollInterval < 0 {
		errs = append(errs, errors.New("wifi.poll_interval must not be negative"))
	}

	if c.Display.Width == 0 || c.Display.Height == 0 {
		errs = append(errs, fmt.Errorf("display size %dx%d must be non-zero", c.Display.Width, c.Display.Height))
	}
	if c.HistoryLimit < 0 {
		errs = append(errs, errors.New("history_limit must not be negative"))
	}

	return errors.Join(errs...)
}
