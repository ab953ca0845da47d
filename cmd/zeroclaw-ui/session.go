package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/zeroclaw/zeroclaw-ui/internal/client"
	"github.com/zeroclaw/zeroclaw-ui/internal/config"
	"github.com/zeroclaw/zeroclaw-ui/internal/discovery"
	"github.com/zeroclaw/zeroclaw-ui/internal/logging"
	"github.com/zeroclaw/zeroclaw-ui/internal/runtime"
	"github.com/zeroclaw/zeroclaw-ui/internal/server"
	"github.com/zeroclaw/zeroclaw-ui/internal/simulator"
	"github.com/zeroclaw/zeroclaw-ui/internal/touch"
	"github.com/zeroclaw/zeroclaw-ui/internal/wifi"
)

// Signal reported by the simulated access point.
const simulatedRSSI = -55

// loadConfig reads the config file and applies command-line overrides.
func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if serverURL != "" {
		cfg.Server.BaseURL = serverURL
	}
	if apiKey != "" {
		cfg.Server.APIKey = apiKey
	}
	if discover {
		cfg.Server.BaseURL = ""
		cfg.Server.Discover = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// The flag wins; otherwise the config file may turn logging on.
	if logLevel == "" && cfg.LogLevel != "" {
		if err := logging.Initialize(cfg.LogLevel); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// resolveBaseURL returns the configured base URL, or browses mDNS for one.
func resolveBaseURL(ctx context.Context, cfg *config.Config) (string, error) {
	if cfg.Server.BaseURL != "" {
		return cfg.Server.BaseURL, nil
	}
	if !cfg.Server.Discover {
		return "", errors.New("no server configured: set server.base_url or pass --server")
	}

	scanner := discovery.NewScanner()
	scanner.Timeout = cfg.Server.DiscoverTimeout

	gw, err := scanner.FindFirst(ctx)
	if err != nil {
		return "", fmt.Errorf("gateway discovery failed: %w", err)
	}
	if gw.RequiresKey() && cfg.Server.APIKey == "" {
		logging.Warn("Gateway requires an API key but none is configured", zap.String("gateway", gw.Instance))
	}
	logging.Info("Using discovered gateway", zap.String("gateway", gw.String()))
	return gw.BaseURL(), nil
}

// newClient builds the chat client for cfg.
func newClient(ctx context.Context, cfg *config.Config) (*client.Client, error) {
	baseURL, err := resolveBaseURL(ctx, cfg)
	if err != nil {
		return nil, err
	}

	opts := []client.Option{client.WithTimeout(cfg.Server.Timeout)}
	if cfg.Server.APIKey != "" {
		opts = append(opts, client.WithAPIKey(cfg.Server.APIKey))
	}
	return client.New(baseURL, opts...)
}

// sessionOptions selects the simulated peripherals for a session.
type sessionOptions struct {
	simulateWifi bool   // attach a simulated radio
	battery      int    // simulated battery level, negative for none
	touchAddr    string // listen address for /touch injection, empty disables
	healthCheck  bool   // run the periodic gateway probe
}

// session is a running device runtime and its collaborators.
type session struct {
	cfg     *config.Config
	client  *client.Client
	wifi    *wifi.Manager
	radio   *simulator.Radio
	runtime *runtime.Runtime

	touchServer *http.Server
	touchAddr   net.Addr

	cancel context.CancelFunc
	done   chan error
}

// startSession wires the runtime and starts serving commands.
func startSession(ctx context.Context, cfg *config.Config, opts sessionOptions) (*session, error) {
	c, err := newClient(ctx, cfg)
	if err != nil {
		return nil, err
	}

	mgr := wifi.NewManager()
	mgr.PollInterval = cfg.Wifi.PollInterval
	mgr.MaxAttempts = cfg.Wifi.MaxAttempts

	rtCfg := runtime.Config{
		HistoryLimit:      cfg.HistoryLimit,
		HealthInterval:    cfg.Server.HealthInterval,
		TouchPollInterval: cfg.Display.TouchPollInterval,
	}
	if !opts.healthCheck {
		rtCfg.HealthInterval = 0
	}

	s := &session{cfg: cfg, client: c, wifi: mgr}

	if opts.simulateWifi {
		s.radio = simulatedRadio(cfg)
		rtCfg.Radio = s.radio
	}

	if opts.battery >= 0 {
		rtCfg.Battery = simulator.NewBattery(uint8(min(opts.battery, 100)))
	}

	if opts.touchAddr != "" {
		panel := simulator.NewPanel(0)
		dec, err := touch.New(panel, cfg.Display.Width, cfg.Display.Height)
		if err != nil {
			return nil, err
		}
		if err := s.listenTouch(opts.touchAddr, panel); err != nil {
			return nil, err
		}
		rtCfg.Touch = dec
	}

	s.runtime = runtime.New(mgr, c, rtCfg)

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan error, 1)
	go func() {
		s.done <- s.runtime.Run(runCtx)
	}()

	return s, nil
}

// simulatedRadio offers the configured network, or a lab network when
// none is configured.
func simulatedRadio(cfg *config.Config) *simulator.Radio {
	ssid := cfg.Wifi.SSID
	if ssid == "" {
		ssid = "zeroclaw-lab"
	}

	radio := simulator.NewRadio(wifi.AccessPoint{
		SSID:    ssid,
		RSSI:    simulatedRSSI,
		Channel: 6,
		Secured: cfg.Wifi.Password != "",
	})
	if cfg.Wifi.Password != "" {
		radio.Passwords = map[string]string{ssid: cfg.Wifi.Password}
	}
	// A couple of polls makes the progress visible.
	radio.ConnectAfter = 2
	return radio
}

func (s *session) listenTouch(addr string, panel *simulator.Panel) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen for touch events on %s: %w", addr, err)
	}

	hub := server.NewTouchHub(panel)
	mux := http.NewServeMux()
	mux.Handle("GET /touch", hub)

	s.touchAddr = ln.Addr()
	s.touchServer = &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	s.touchServer.RegisterOnShutdown(hub.CloseAll)

	go func() {
		if err := s.touchServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Warn("Touch endpoint stopped", zap.Error(err))
		}
	}()
	logging.Info("Touch injection endpoint listening", zap.String("url", server.TouchURL(ln.Addr().String())))
	return nil
}

// Close stops the runtime and the touch endpoint.
func (s *session) Close() error {
	s.cancel()
	err := <-s.done

	if s.touchServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = s.touchServer.Shutdown(ctx)
	}

	logging.Sync()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
