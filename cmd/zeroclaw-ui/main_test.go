package main

import (
	"bytes"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/zeroclaw/zeroclaw-ui/internal/config"
	"github.com/zeroclaw/zeroclaw-ui/internal/server"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	// Reset flags shared across runs.
	configPath, serverURL, apiKey, logLevel, discover = "", "", "", "", false
	outputJSON, configForce = false, false

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func newGateway(t *testing.T, cfg *server.Config) string {
	t.Helper()
	ts := httptest.NewServer(server.New(cfg, nil).Handler())
	t.Cleanup(ts.Close)
	return ts.URL
}

func TestSendCommand(t *testing.T) {
	url := newGateway(t, &server.Config{})
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")

	out, err := execute(t, "send", "--config", cfgPath, "--server", url, "hello", "there")
	if err != nil {
		t.Fatalf("send: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Echo: hello there") {
		t.Errorf("output missing reply:\n%s", out)
	}
}

func TestSendCommandServerError(t *testing.T) {
	url := newGateway(t, &server.Config{})
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")

	out, err := execute(t, "send", "--config", cfgPath, "--server", url, "/error", "model", "offline")
	if err == nil {
		t.Fatal("send succeeded, want error")
	}
	if !strings.Contains(out, "model offline") {
		t.Errorf("output missing server error:\n%s", out)
	}
}

func TestExecCommand(t *testing.T) {
	url := newGateway(t, &server.Config{})
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")

	out, err := execute(t, "exec", "--config", cfgPath, "--server", url, `"get_status"`)
	if err != nil {
		t.Fatalf("exec: %v\n%s", err, out)
	}
	if !strings.Contains(out, `"success": true`) || !strings.Contains(out, `"connected": true`) {
		t.Errorf("unexpected reply:\n%s", out)
	}

	if _, err := execute(t, "exec", "--config", cfgPath, "--server", url, `{"dance": {}}`); err == nil {
		t.Error("exec with unknown command succeeded")
	}
}

func TestHealthCommand(t *testing.T) {
	url := newGateway(t, &server.Config{})
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")

	out, err := execute(t, "health", "--config", cfgPath, "--server", url)
	if err != nil {
		t.Fatalf("health: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Gateway reachable") {
		t.Errorf("output:\n%s", out)
	}
}

func TestConfigInitAndShow(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")

	if out, err := execute(t, "config", "init", "--config", cfgPath); err != nil {
		t.Fatalf("config init: %v\n%s", err, out)
	}
	cfg, err := config.LoadFile(cfgPath)
	if err != nil {
		t.Fatalf("written config does not load: %v", err)
	}
	if cfg.Server.BaseURL != config.Default().Server.BaseURL {
		t.Errorf("base_url = %q", cfg.Server.BaseURL)
	}

	// Existing file and no confirmation on stdin: left alone.
	if out, err := execute(t, "config", "init", "--config", cfgPath); err != nil || strings.Contains(out, "Configuration written") {
		t.Errorf("second init: err=%v\n%s", err, out)
	}

	out, err := execute(t, "config", "show", "--config", cfgPath, "--api-key", "supersecret")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if strings.Contains(out, "supersecret") || !strings.Contains(out, "su*********") {
		t.Errorf("API key not masked:\n%s", out)
	}

	out, err = execute(t, "config", "path", "--config", cfgPath)
	if err != nil || strings.TrimSpace(out) != cfgPath {
		t.Errorf("config path = %q, err = %v", out, err)
	}
}

func TestWifiConnectCommand(t *testing.T) {
	url := newGateway(t, &server.Config{})
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")

	if _, err := execute(t, "config", "init", "--config", cfgPath); err != nil {
		t.Fatal(err)
	}
	cfg, _ := config.LoadFile(cfgPath)
	cfg.Wifi.PollInterval = 10 * time.Millisecond
	if err := cfg.SaveTo(cfgPath); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "wifi", "connect", "--config", cfgPath, "--server", url,
		"--ssid", "home", "--password", "secret", "--save")
	if err != nil {
		t.Fatalf("wifi connect: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Connected") {
		t.Errorf("output:\n%s", out)
	}

	saved, err := config.LoadFile(cfgPath)
	if err != nil {
		t.Fatal(err)
	}
	if saved.Wifi.SSID != "home" || saved.Wifi.Password != "secret" {
		t.Errorf("saved credentials = %q/%q", saved.Wifi.SSID, saved.Wifi.Password)
	}
	if saved.Server.BaseURL == url {
		t.Error("--server flag leaked into the saved file")
	}
}

func TestMask(t *testing.T) {
	tests := []struct{ in, want string }{
		{"", ""},
		{"abc", "***"},
		{"abcdef", "ab****"},
	}
	for _, tt := range tests {
		if got := mask(tt.in); got != tt.want {
			t.Errorf("mask(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
