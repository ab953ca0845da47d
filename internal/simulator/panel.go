package simulator

import (
	"errors"
	"sync"

	"github.com/zeroclaw/zeroclaw-ui/internal/touch"
)

// ErrPanelFull is returned by Inject when the queue is at capacity.
var ErrPanelFull = errors.New("touch queue full")

// DefaultPanelQueue is the number of raw events a Panel buffers.
const DefaultPanelQueue = 64

// Panel is a touch.Peripheral fed from a queue of raw events.
type Panel struct {
	mu       sync.Mutex
	queue    []touch.RawEvent
	limit    int
	pressed  bool
	failNext error
}

// NewPanel creates a panel buffering up to limit events.
func NewPanel(limit int) *Panel {
	if limit <= 0 {
		limit = DefaultPanelQueue
	}
	return &Panel{limit: limit}
}

// Inject queues a raw event for the decoder to read.
func (p *Panel) Inject(ev touch.RawEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.queue) >= p.limit {
		return ErrPanelFull
	}
	p.queue = append(p.queue, ev)
	return nil
}

// FailNext makes the next ReadEvent return err.
func (p *Panel) FailNext(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failNext = err
}

// Pending returns how many events are queued.
func (p *Panel) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.queue)
}

func (p *Panel) ReadEvent() (touch.RawEvent, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.failNext; err != nil {
		p.failNext = nil
		return touch.RawEvent{}, err
	}
	if len(p.queue) == 0 {
		return touch.RawEvent{Kind: touch.EventNone}, nil
	}

	ev := p.queue[0]
	p.queue = p.queue[1:]
	switch ev.Kind {
	case touch.EventTouch:
		p.pressed = true
	case touch.EventRelease:
		p.pressed = false
	}
	return ev, nil
}

func (p *Panel) IsPressed() (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pressed, nil
}
