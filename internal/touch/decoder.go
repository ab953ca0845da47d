package touch

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/zeroclaw/zeroclaw-ui/internal/logging"
	"go.uber.org/zap"
)

var (
	// ErrNotInitialized is returned by Poll when no peripheral is attached.
	ErrNotInitialized = errors.New("touch not initialized")

	// ErrReadFailed wraps errors returned by the peripheral.
	ErrReadFailed = errors.New("touch read failed")

	// ErrInvalidDimensions is returned by New for a zero-sized display.
	ErrInvalidDimensions = errors.New("display dimensions must be non-zero")
)

// EventKind classifies a raw controller event.
type EventKind int

const (
	EventNone EventKind = iota
	EventTouch
	EventRelease
)

func (k EventKind) String() string {
	switch k {
	case EventNone:
		return "none"
	case EventTouch:
		return "touch"
	case EventRelease:
		return "release"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// RawEvent is one reading from the controller, in controller coordinates.
type RawEvent struct {
	Kind EventKind
	X    uint16
	Y    uint16
}

// Peripheral is the touch controller driver.
type Peripheral interface {
	ReadEvent() (RawEvent, error)
	IsPressed() (bool, error)
}

// TouchPoint is a decoded point in display coordinates.
type TouchPoint struct {
	X       uint16
	Y       uint16
	Pressed bool
}

// Stats counts what the decoder has seen since it was created.
type Stats struct {
	Touches  uint64
	Releases uint64
	Failures uint64
}

// Decoder turns controller events into clamped display coordinates.
type Decoder struct {
	mu         sync.Mutex // guards peripheral
	peripheral Peripheral
	width      uint16
	height     uint16

	touches  atomic.Uint64
	releases atomic.Uint64
	failures atomic.Uint64
}

// New creates a decoder for a width x height display.
// A nil peripheral yields an uninitialised decoder that never reports events.
func New(p Peripheral, width, height uint16) (*Decoder, error) {
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}

	if p != nil {
		logging.Info("Touch controller initialized",
			zap.Uint16("width", width),
			zap.Uint16("height", height),
		)
	}

	return &Decoder{peripheral: p, width: width, height: height}, nil
}

// Detach drops the peripheral, leaving the decoder uninitialised.
func (d *Decoder) Detach() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.peripheral = nil
}

// Initialized reports whether a peripheral is attached.
func (d *Decoder) Initialized() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.peripheral != nil
}

// Dimensions returns the display size used for clamping.
func (d *Decoder) Dimensions() (width, height uint16) {
	return d.width, d.height
}

// Poll reads one event. ok is false when there is nothing to report.
// Unlike GetTouchEvent, read failures are returned.
func (d *Decoder) Poll() (point TouchPoint, ok bool, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.peripheral == nil {
		return TouchPoint{}, false, ErrNotInitialized
	}

	event, err := d.peripheral.ReadEvent()
	if err != nil {
		d.failures.Add(1)
		return TouchPoint{}, false, fmt.Errorf("%w: %w", ErrReadFailed, err)
	}

	switch event.Kind {
	case EventTouch:
		d.touches.Add(1)
		return TouchPoint{
			X:       clamp(event.X, d.width),
			Y:       clamp(event.Y, d.height),
			Pressed: true,
		}, true, nil
	case EventRelease:
		d.releases.Add(1)
		return TouchPoint{X: 0, Y: 0, Pressed: false}, true, nil
	default:
		return TouchPoint{}, false, nil
	}
}

// GetTouchEvent reads one event, treating read failures as no event.
func (d *Decoder) GetTouchEvent() (TouchPoint, bool) {
	point, ok, err := d.Poll()
	if err != nil {
		if !errors.Is(err, ErrNotInitialized) {
			logging.Debug("Touch read failed", zap.Error(err))
		}
		return TouchPoint{}, false
	}
	if ok {
		logging.LogTouch(point.X, point.Y, point.Pressed)
	}
	return point, ok
}

// IsPressed reports whether the panel is currently pressed.
// It returns false when uninitialised or when the read fails.
func (d *Decoder) IsPressed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.peripheral == nil {
		return false
	}
	pressed, err := d.peripheral.IsPressed()
	if err != nil {
		d.failures.Add(1)
		return false
	}
	return pressed
}

// Stats returns the event counters.
func (d *Decoder) Stats() Stats {
	return Stats{
		Touches:  d.touches.Load(),
		Releases: d.releases.Load(),
		Failures: d.failures.Load(),
	}
}

// clamp saturates v to [0, limit-1]. limit is never zero (checked in New).
func clamp(v, limit uint16) uint16 {
	if v >= limit {
		return limit - 1
	}
	return v
}
