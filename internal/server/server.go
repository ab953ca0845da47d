package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/grandcat/zeroconf"
	"github.com/zeroclaw/zeroclaw-ui/internal/discovery"
	"github.com/zeroclaw/zeroclaw-ui/internal/logging"
	"github.com/zeroclaw/zeroclaw-ui/internal/simulator"
	"github.com/zeroclaw/zeroclaw-ui/internal/version"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// Config holds the server configuration
type Config struct {
	Host      string
	Port      int
	Reply     string // Fixed assistant reply; empty echoes the message
	APIKey    string // Required bearer token; empty disables the check
	Advertise bool   // Register the service over mDNS
	Instance  string // mDNS instance name (default "zeroclaw-sim")
}

// Server is the simulated gateway
type Server struct {
	config *Config
	panel  *simulator.Panel
	touch  *TouchHub
	mux    *http.ServeMux

	mu       sync.Mutex
	httpSrv  *http.Server
	listener net.Listener
	mdns     *zeroconf.Server

	served atomic.Uint64
}

// New creates a new Server. panel receives events sent to /touch; when nil
// a fresh simulator.Panel is created.
func New(config *Config, panel *simulator.Panel) *Server {
	if panel == nil {
		panel = simulator.NewPanel(0)
	}
	if config.Instance == "" {
		config.Instance = "zeroclaw-sim"
	}

	s := &Server{
		config: config,
		panel:  panel,
		touch:  NewTouchHub(panel),
	}
	s.mux = http.NewServeMux()
	s.mux.HandleFunc("POST /webhook", s.handleWebhook)
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.Handle("GET /touch", s.touch)
	return s
}

// Handler returns the HTTP handler, for embedding or httptest.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Panel returns the panel fed by /touch.
func (s *Server) Panel() *simulator.Panel {
	return s.panel
}

// Listen binds the configured address. Port 0 picks a free port.
func (s *Server) Listen() (net.Addr, error) {
	addr := net.JoinHostPort(s.config.Host, strconv.Itoa(s.config.Port))
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	s.mu.Lock()
	s.listener = listener
	s.httpSrv = &http.Server{
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.mu.Unlock()
	return listener.Addr(), nil
}

// Start listens, serves and blocks until SIGINT/SIGTERM or a serve error.
func (s *Server) Start() error {
	addr, err := s.Listen()
	if err != nil {
		return err
	}

	logging.Info("Starting ZeroClaw simulator",
		zap.String("addr", addr.String()),
		zap.Bool("auth", s.config.APIKey != ""),
		zap.Bool("advertise", s.config.Advertise),
	)

	if s.config.Advertise {
		if err := s.advertise(addr); err != nil {
			logging.Warn("mDNS advertisement failed", zap.Error(err))
		}
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.Serve()
	}()

	select {
	case <-sigChan:
		logging.Info("Shutdown signal received, stopping server...")
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.Shutdown(ctx)
	case err := <-errChan:
		return err
	}
}

// Serve serves on the listener bound by Listen until Shutdown.
func (s *Server) Serve() error {
	s.mu.Lock()
	srv, listener := s.httpSrv, s.listener
	s.mu.Unlock()
	if srv == nil {
		return errors.New("server not listening")
	}

	if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

func (s *Server) advertise(addr net.Addr) error {
	tcp, ok := addr.(*net.TCPAddr)
	if !ok {
		return fmt.Errorf("cannot advertise non-TCP address %s", addr)
	}

	txt := []string{"version=" + version.ProtocolVersion, "path=/"}
	if s.config.APIKey != "" {
		txt = append(txt, "auth=bearer")
	}

	mdns, err := zeroconf.Register(s.config.Instance, discovery.ServiceType, discovery.ServiceDomain, tcp.Port, txt, nil)
	if err != nil {
		return fmt.Errorf("failed to register mDNS service: %w", err)
	}

	s.mu.Lock()
	s.mdns = mdns
	s.mu.Unlock()

	logging.Info("Advertising over mDNS",
		zap.String("instance", s.config.Instance),
		zap.String("service", discovery.ServiceType),
		zap.Int("port", tcp.Port),
	)
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down server...")

	s.mu.Lock()
	srv, mdns := s.httpSrv, s.mdns
	s.mdns = nil
	s.mu.Unlock()

	if mdns != nil {
		mdns.Shutdown()
	}
	s.touch.CloseAll()

	var err error
	if srv != nil {
		if err = srv.Shutdown(ctx); err != nil {
			logging.Warn("Shutdown timeout, forcing close", zap.Error(err))
			_ = srv.Close()
		}
	}

	logging.Info("Server stopped", zap.Uint64("webhook_requests", s.served.Load()))
	logging.Sync()
	return err
}

// ActiveSockets returns the number of open /touch connections
func (s *Server) ActiveSockets() int {
	return s.touch.Active()
}
