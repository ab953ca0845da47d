package wifi

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/zeroclaw/zeroclaw-ui/internal/bounded"
	"github.com/zeroclaw/zeroclaw-ui/internal/logging"
	"github.com/zeroclaw/zeroclaw-ui/internal/protocol"
	"go.uber.org/zap"
)

const (
	// DefaultPollInterval is the delay before each link check.
	DefaultPollInterval = 1 * time.Second

	// DefaultMaxAttempts is how many link checks ConnectAsync makes before giving up.
	DefaultMaxAttempts = 30

	// progressEvery controls how often attempt progress is logged.
	progressEvery = 5
)

var (
	ErrSSIDTooLong       = errors.New("SSID too long (max 32 chars)")
	ErrPasswordTooLong   = errors.New("password too long (max 64 chars)")
	ErrConnectionTimeout = errors.New("WiFi connection timeout")
	ErrNotConnected      = errors.New("WiFi not connected")
	ErrAlreadyConnected  = errors.New("WiFi already connected")
	ErrConnecting        = errors.New("WiFi connection already in progress")
	ErrRadio             = errors.New("WiFi radio error")
	ErrCancelled         = errors.New("WiFi connection cancelled")
)

// State is the connection state machine.
type State int

const (
	StateIdle State = iota
	StateConnecting
	StateConnected
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Credentials is the stored network identity.
type Credentials struct {
	SSID      bounded.Text
	Password  bounded.Text
	Connected bool
}

// Manager owns the WiFi credentials and connection state.
// All methods are safe for concurrent use.
type Manager struct {
	// PollInterval is the delay before each link check (default: 1s)
	PollInterval time.Duration

	// MaxAttempts is the link check ceiling (default: 30)
	MaxAttempts int

	mu           sync.Mutex
	creds        Credentials
	state        State
	attempts     int
	radio        Radio
	cancel       context.CancelFunc
	gen          uint64 // bumped by every ConnectAsync and Disconnect
	onTransition func(from, to State)
}

// NewManager creates an idle manager with empty credentials.
func NewManager() *Manager {
	return &Manager{
		PollInterval: DefaultPollInterval,
		MaxAttempts:  DefaultMaxAttempts,
		creds: Credentials{
			SSID:     bounded.New(bounded.SSIDCapacity),
			Password: bounded.New(bounded.PasswordCapacity),
		},
	}
}

// OnTransition registers fn to be called after every state change.
// fn runs without the manager lock held.
func (m *Manager) OnTransition(fn func(from, to State)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onTransition = fn
}

// Connect replaces the stored credentials without touching the radio.
// On error both fields are left empty.
func (m *Manager) Connect(ssid, password string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.storeLocked(ssid, password)
}

func (m *Manager) storeLocked(ssid, password string) error {
	m.creds.SSID.Clear()
	m.creds.Password.Clear()

	s, err := bounded.From(bounded.SSIDCapacity, ssid)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSSIDTooLong, err)
	}
	p, err := bounded.From(bounded.PasswordCapacity, password)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPasswordTooLong, err)
	}

	m.creds.SSID = s
	m.creds.Password = p
	logging.Info("WiFi credentials set", zap.String("ssid", ssid))
	return nil
}

// ConnectAsync stores the credentials, brings the radio up and waits for a
// link, checking once per PollInterval for at most MaxAttempts checks.
// Cancelling ctx, or calling Disconnect, aborts the wait and returns the
// manager to Idle.
func (m *Manager) ConnectAsync(ctx context.Context, radio Radio, ssid, password string) error {
	if radio == nil {
		return fmt.Errorf("%w: no radio", ErrRadio)
	}

	m.mu.Lock()
	switch m.state {
	case StateConnected:
		m.mu.Unlock()
		return ErrAlreadyConnected
	case StateConnecting:
		m.mu.Unlock()
		return ErrConnecting
	}
	if err := m.storeLocked(ssid, password); err != nil {
		m.mu.Unlock()
		return err
	}
	ctx, cancel := context.WithCancel(ctx)
	m.gen++
	gen := m.gen
	m.cancel = cancel
	m.radio = radio
	m.attempts = 0
	m.creds.Connected = false
	interval, maxAttempts := m.PollInterval, m.MaxAttempts
	notify := m.setStateLocked(StateConnecting)
	m.mu.Unlock()
	notify()
	defer cancel()

	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}

	if err := m.bringUp(radio, ssid, password); err != nil {
		if !m.finish(ctx, gen, StateFailed) && ctx.Err() != nil {
			return fmt.Errorf("%w: %w", ErrCancelled, ctx.Err())
		}
		return err
	}

	timer := time.NewTimer(interval)
	defer timer.Stop()

	for i := 0; i < maxAttempts; i++ {
		select {
		case <-ctx.Done():
			m.finish(ctx, gen, StateIdle)
			return fmt.Errorf("%w: %w", ErrCancelled, ctx.Err())
		case <-timer.C:
		}

		m.mu.Lock()
		if m.gen == gen {
			m.attempts = i + 1
		}
		m.mu.Unlock()

		if radio.IsConnected() {
			if !m.finish(ctx, gen, StateConnected) {
				return fmt.Errorf("%w: %w", ErrCancelled, context.Canceled)
			}
			logging.Info("WiFi connected", zap.String("ssid", ssid), zap.Int("attempts", i+1))
			return nil
		}

		if i%progressEvery == 0 {
			logging.Info("WiFi connection attempt",
				zap.Int("attempt", i+1),
				zap.Int("max_attempts", maxAttempts),
			)
		}
		timer.Reset(interval)
	}

	if !m.finish(ctx, gen, StateFailed) {
		return fmt.Errorf("%w: %w", ErrCancelled, context.Canceled)
	}
	logging.Error("WiFi connection timeout",
		zap.String("ssid", ssid),
		zap.Int("attempts", maxAttempts),
	)
	return ErrConnectionTimeout
}

func (m *Manager) bringUp(radio Radio, ssid, password string) error {
	if err := radio.Start(); err != nil {
		return fmt.Errorf("%w: start: %w", ErrRadio, err)
	}
	logging.Info("WiFi starting")

	aps, err := radio.Scan()
	if err != nil {
		return fmt.Errorf("%w: scan: %w", ErrRadio, err)
	}
	if ap, ok := findNetwork(aps, ssid); ok {
		logging.Info("WiFi scan complete",
			zap.Int("networks", len(aps)),
			zap.Int8("rssi", ap.RSSI),
			zap.Uint8("channel", ap.Channel),
		)
	} else {
		logging.Warn("WiFi scan did not see requested network",
			zap.Int("networks", len(aps)),
			zap.String("ssid", ssid),
		)
	}

	if err := radio.Configure(ssid, password); err != nil {
		return fmt.Errorf("%w: configure: %w", ErrRadio, err)
	}
	if err := radio.Connect(); err != nil {
		return fmt.Errorf("%w: connect: %w", ErrRadio, err)
	}
	logging.Info("WiFi connecting")
	return nil
}

// finish moves attempt gen to its terminal state unless Disconnect or a
// newer attempt already took over. It reports whether the transition was
// applied.
func (m *Manager) finish(ctx context.Context, gen uint64, to State) bool {
	m.mu.Lock()
	if m.gen != gen || m.state != StateConnecting || ctx.Err() != nil && to == StateConnected {
		m.mu.Unlock()
		return false
	}
	m.cancel = nil
	m.creds.Connected = to == StateConnected
	notify := m.setStateLocked(to)
	m.mu.Unlock()
	notify()
	return true
}

// Disconnect cancels any in-flight ConnectAsync, drops the radio link if the
// radio supports it and returns to Idle. It is idempotent.
func (m *Manager) Disconnect() error {
	m.mu.Lock()
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.gen++
	radio := m.radio
	wasUp := m.state == StateConnected || m.state == StateConnecting
	m.creds.Connected = false
	notify := m.setStateLocked(StateIdle)
	m.mu.Unlock()
	notify()

	if d, ok := radio.(Disconnector); ok && wasUp {
		if err := d.Disconnect(); err != nil {
			return fmt.Errorf("%w: disconnect: %w", ErrRadio, err)
		}
	}
	return nil
}

// setStateLocked records a transition and returns the hook invocation to run
// after the lock is released.
func (m *Manager) setStateLocked(to State) func() {
	from := m.state
	if from == to {
		return func() {}
	}
	m.state = to
	ssid := m.creds.SSID.String()
	hook := m.onTransition
	return func() {
		logging.LogWifiTransition(from.String(), to.String(), ssid)
		if hook != nil {
			hook(from, to)
		}
	}
}

// State returns the current state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// IsConnected reports whether the last connect succeeded and has not been
// undone by Disconnect.
func (m *Manager) IsConnected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.creds.Connected
}

// SSID returns the stored network name.
func (m *Manager) SSID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.creds.SSID.String()
}

// Credentials returns a copy of the stored credentials.
func (m *Manager) Credentials() Credentials {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.creds
}

// Attempts returns the number of link checks made by the latest ConnectAsync.
func (m *Manager) Attempts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.attempts
}

// RequireConnected returns ErrNotConnected unless the link is up.
func (m *Manager) RequireConnected() error {
	if !m.IsConnected() {
		return ErrNotConnected
	}
	return nil
}

// GetStatus reports the WiFi portion of the device status. The SSID is only
// included while connected.
func (m *Manager) GetStatus() protocol.UiStatus {
	m.mu.Lock()
	connected := m.creds.Connected
	ssid := m.creds.SSID.Clone()
	radio := m.radio
	m.mu.Unlock()

	status := protocol.UiStatus{Connected: connected}
	if !connected {
		return status
	}
	status.WifiSSID = &ssid
	if r, ok := radio.(SignalReporter); ok {
		if rssi, ok := r.RSSI(); ok {
			pct := SignalPercent(rssi)
			status.SignalStrength = &pct
		}
	}
	return status
}
