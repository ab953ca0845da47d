package simulator

import (
	"errors"
	"sync"

	"github.com/zeroclaw/zeroclaw-ui/internal/wifi"
)

// ErrRadioStopped is returned by Scan, Configure and Connect before Start.
var ErrRadioStopped = errors.New("radio not started")

// Radio is an in-memory wifi.Radio. After Connect it reports a link once
// IsConnected has been polled ConnectAfter times, provided the configured
// SSID is among the scan results and the password matches (when one is set).
type Radio struct {
	// ConnectAfter is the poll on which the link comes up (default 1). Negative never connects.
	ConnectAfter int

	// Networks are returned by Scan.
	Networks []wifi.AccessPoint

	// Passwords maps SSID to the password the access point expects.
	Passwords map[string]string

	// StartErr, when set, is returned by Start.
	StartErr error

	mu         sync.Mutex
	started    bool
	ssid       string
	password   string
	connecting bool
	polls      int
	linked     bool
}

// NewRadio returns a radio that sees the given networks and links on the
// first poll.
func NewRadio(networks ...wifi.AccessPoint) *Radio {
	return &Radio{ConnectAfter: 1, Networks: networks}
}

func (r *Radio) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.StartErr != nil {
		return r.StartErr
	}
	r.started = true
	return nil
}

func (r *Radio) Scan() ([]wifi.AccessPoint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.started {
		return nil, ErrRadioStopped
	}
	out := make([]wifi.AccessPoint, len(r.Networks))
	copy(out, r.Networks)
	return out, nil
}

func (r *Radio) Configure(ssid, password string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.started {
		return ErrRadioStopped
	}
	r.ssid, r.password = ssid, password
	r.linked = false
	return nil
}

func (r *Radio) Connect() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.started {
		return ErrRadioStopped
	}
	r.connecting = true
	r.polls = 0
	return nil
}

func (r *Radio) IsConnected() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.linked {
		return true
	}
	if !r.connecting || r.ConnectAfter < 0 || !r.reachableLocked() {
		return false
	}
	r.polls++
	after := r.ConnectAfter
	if after == 0 {
		after = 1
	}
	if r.polls >= after {
		r.linked = true
		r.connecting = false
	}
	return r.linked
}

func (r *Radio) reachableLocked() bool {
	if _, ok := r.apLocked(); !ok {
		return false
	}
	want, ok := r.Passwords[r.ssid]
	return !ok || want == r.password
}

func (r *Radio) apLocked() (wifi.AccessPoint, bool) {
	for _, ap := range r.Networks {
		if ap.SSID == r.ssid {
			return ap, true
		}
	}
	return wifi.AccessPoint{}, false
}

// RSSI reports the signal of the associated network.
func (r *Radio) RSSI() (int8, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.linked {
		return 0, false
	}
	ap, ok := r.apLocked()
	return ap.RSSI, ok
}

// Disconnect drops the link.
func (r *Radio) Disconnect() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.linked = false
	r.connecting = false
	return nil
}

// Polls returns how many times IsConnected counted toward the link.
func (r *Radio) Polls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.polls
}
