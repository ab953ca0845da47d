// Package config loads and saves the zeroclaw device configuration.
//
// The configuration is a YAML file holding the gateway address and API key,
// the WiFi credentials, the display geometry and a few tuning knobs. It
// follows OS-specific conventions for storage location:
//   - Linux: $XDG_CONFIG_HOME/zeroclaw/config.yaml or $HOME/.config/zeroclaw/config.yaml
//   - macOS: $HOME/.config/zeroclaw/config.yaml
//   - Windows: %LOCALAPPDATA%\zeroclaw\config.yaml
//
// # Security
//
// The file contains the API key and the WiFi password, so it is always
// written with 0600 permissions inside a 0700 directory.
//
// # Environment
//
// ZEROCLAW_BASE_URL and ZEROCLAW_API_KEY override the file values after
// loading. They are never written back by Save.
//
// # Usage Example
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	cfg.Server.BaseURL = "http://192.168.1.10:8080"
//	if err := cfg.Save(); err != nil {
//	    log.Fatal(err)
//	}
package config
