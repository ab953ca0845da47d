package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

func TestGetConfigDir(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG layout only applies on linux")
	}
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")

	dir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}
	if dir != filepath.Join("/tmp/xdg", "zeroclaw") {
		t.Errorf("GetConfigDir() = %q", dir)
	}

	path, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() error = %v", err)
	}
	if filepath.Base(path) != "config.yaml" {
		t.Errorf("GetConfigPath() = %q, want config.yaml", path)
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() error = %v", err)
	}
	if cfg.Display.Width != 320 || cfg.Display.Height != 240 {
		t.Errorf("display = %dx%d, want 320x240", cfg.Display.Width, cfg.Display.Height)
	}
	if cfg.Wifi.MaxAttempts != 30 || cfg.Wifi.PollInterval != time.Second {
		t.Errorf("wifi retry = %d x %v, want 30 x 1s", cfg.Wifi.MaxAttempts, cfg.Wifi.PollInterval)
	}
	if cfg.HistoryLimit != 32 {
		t.Errorf("HistoryLimit = %d, want 32", cfg.HistoryLimit)
	}
}

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(`
version: 1
server:
  base_url: http://10.0.0.5:8080
  api_key: secret
  timeout: 5s
wifi:
  ssid: home
  password: hunter22
display:
  width: 480
`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cfg.Server.BaseURL != "http://10.0.0.5:8080" || cfg.Server.APIKey != "secret" {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.Server.Timeout != 5*time.Second {
		t.Errorf("timeout = %v, want 5s", cfg.Server.Timeout)
	}
	if cfg.Server.HealthInterval != 30*time.Second {
		t.Errorf("health interval default not filled: %v", cfg.Server.HealthInterval)
	}
	if cfg.Display.Width != 480 || cfg.Display.Height != 240 {
		t.Errorf("display = %dx%d, want 480x240", cfg.Display.Width, cfg.Display.Height)
	}
	if cfg.Wifi.MaxAttempts != 30 {
		t.Errorf("max attempts default not filled: %d", cfg.Wifi.MaxAttempts)
	}
}

func TestParse_ZeroHealthIntervalDisables(t *testing.T) {
	cfg, err := Parse([]byte(`version: 1
server:
  base_url: http://10.0.0.5:8080
  health_interval: 0s
`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cfg.Server.HealthInterval != 0 {
		t.Errorf("health interval = %v, want 0 (disabled)", cfg.Server.HealthInterval)
	}
	if cfg.Server.Timeout != 30*time.Second {
		t.Errorf("timeout default not filled: %v", cfg.Server.Timeout)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{name: "bad yaml", data: "version: [", want: "failed to parse"},
		{name: "wrong version", data: "version: 2", want: "unsupported config version"},
		{name: "missing version", data: "history_limit: 5", want: "unsupported config version"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Parse() error = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{name: "long url", mutate: func(c *Config) { c.Server.BaseURL = "http://" + strings.Repeat("a", 130) }, want: "server.base_url is"},
		{name: "not http", mutate: func(c *Config) { c.Server.BaseURL = "ftp://x" }, want: "not an http(s) URL"},
		{name: "no url no discovery", mutate: func(c *Config) { c.Server.BaseURL = ""; c.Server.Discover = false }, want: "discovery is disabled"},
		{name: "long key", mutate: func(c *Config) { c.Server.APIKey = strings.Repeat("k", 65) }, want: "server.api_key"},
		{name: "long ssid", mutate: func(c *Config) { c.Wifi.SSID = strings.Repeat("s", 33) }, want: "wifi.ssid"},
		{name: "long password", mutate: func(c *Config) { c.Wifi.Password = strings.Repeat("p", 65) }, want: "wifi.password"},
		{name: "negative health interval", mutate: func(c *Config) { c.Server.HealthInterval = -time.Second }, want: "server.health_interval"},
		{name: "zero width", mutate: func(c *Config) { c.Display.Width = 0 }, want: "display size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Validate() error = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestValidate_EmptyURLWithDiscovery(t *testing.T) {
	cfg := Default()
	cfg.Server.BaseURL = ""
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v, want nil when discovery will find the gateway", err)
	}
}

func TestSaveAndLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Server.APIKey = "secret"
	cfg.Wifi.SSID = "home"
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if runtime.GOOS != "windows" && info.Mode().Perm() != 0600 {
		t.Errorf("file mode = %v, want 0600", info.Mode().Perm())
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file left behind")
	}

	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if loaded.Server.APIKey != "secret" || loaded.Wifi.SSID != "home" {
		t.Errorf("loaded = %+v", loaded)
	}
	if loaded.Server.Timeout != cfg.Server.Timeout {
		t.Errorf("timeout = %v, want %v", loaded.Server.Timeout, cfg.Server.Timeout)
	}
}

func TestLoadFile_Missing(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "none.yaml"))
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if cfg.Server.BaseURL != Default().Server.BaseURL {
		t.Errorf("missing file should give defaults, got %+v", cfg.Server)
	}
}

func TestLoadFile_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "version: 1\nwifi:\n  ssid: " + strings.Repeat("s", 40) + "\n"
	if err := os.WriteFile(path, []byte(data), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil || !strings.Contains(err.Error(), "wifi.ssid") {
		t.Errorf("LoadFile() error = %v, want wifi.ssid validation failure", err)
	}
}

func TestEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := Default()
	cfg.Server.APIKey = "from-file"
	if err := cfg.SaveTo(path); err != nil {
		t.Fatal(err)
	}

	t.Setenv(EnvBaseURL, "http://override:9000")
	t.Setenv(EnvAPIKey, "from-env")

	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if loaded.Server.BaseURL != "http://override:9000" || loaded.Server.APIKey != "from-env" {
		t.Errorf("server = %+v, want env values", loaded.Server)
	}
	if !loaded.Overridden("server.api_key") {
		t.Error("Overridden(server.api_key) = false")
	}

	// Saving must not persist environment values.
	if err := loaded.SaveTo(path); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "from-env") || !strings.Contains(string(data), "from-file") {
		t.Errorf("saved file leaked env override:\n%s", data)
	}
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := WriteDefault(path, false); err != nil {
		t.Fatalf("WriteDefault() error = %v", err)
	}
	if err := WriteDefault(path, false); err == nil {
		t.Error("WriteDefault() should refuse to overwrite")
	}
	if err := WriteDefault(path, true); err != nil {
		t.Errorf("WriteDefault(force) error = %v", err)
	}
}

func TestLoadAndReload(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	if runtime.GOOS == "windows" {
		t.Setenv("LOCALAPPDATA", os.Getenv("XDG_CONFIG_HOME"))
	}
	if runtime.GOOS == "darwin" {
		t.Setenv("HOME", os.Getenv("XDG_CONFIG_HOME"))
	}

	cfg, err := Reload()
	if err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	cfg.HistoryLimit = 7
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	again, err := Load()
	if err != nil || again != cfg {
		t.Fatalf("Load() should return the cached config")
	}

	fresh, err := Reload()
	if err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if fresh == cfg || fresh.HistoryLimit != 7 {
		t.Errorf("Reload() = %+v, want fresh read with history_limit 7", fresh)
	}
}
