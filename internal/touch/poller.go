package touch

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/zeroclaw/zeroclaw-ui/internal/logging"
	"go.uber.org/zap"
)

// DefaultPollInterval is how often the Poller reads the controller.
const DefaultPollInterval = 20 * time.Millisecond

// Poller reads a Decoder on a fixed interval and forwards points on a channel.
type Poller struct {
	decoder  *Decoder
	interval time.Duration
	points   chan TouchPoint
	dropped  atomic.Uint64
}

// NewPoller creates a poller. buffer is the channel capacity; points that
// arrive while the channel is full are dropped.
func NewPoller(d *Decoder, interval time.Duration, buffer int) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if buffer < 1 {
		buffer = 1
	}
	return &Poller{
		decoder:  d,
		interval: interval,
		points:   make(chan TouchPoint, buffer),
	}
}

// Points returns the channel decoded points are sent on.
// It is closed when Run returns.
func (p *Poller) Points() <-chan TouchPoint {
	return p.points
}

// Dropped returns how many points were discarded because the consumer lagged.
func (p *Poller) Dropped() uint64 {
	return p.dropped.Load()
}

// Run polls until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) {
	defer close(p.points)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		point, ok := p.decoder.GetTouchEvent()
		if !ok {
			continue
		}

		select {
		case p.points <- point:
		default:
			if n := p.dropped.Add(1); n%100 == 1 {
				logging.Warn("Touch consumer lagging, dropping points", zap.Uint64("dropped", n))
			}
		}
	}
}
