package simulator

import "sync/atomic"

// Battery is a gauge reporting a settable charge level.
type Battery struct {
	level   atomic.Uint32
	present atomic.Bool
}

// NewBattery returns a battery at level percent.
func NewBattery(level uint8) *Battery {
	b := &Battery{}
	b.Set(level)
	return b
}

// Set changes the reported level, capped at 100.
func (b *Battery) Set(level uint8) {
	if level > 100 {
		level = 100
	}
	b.level.Store(uint32(level))
	b.present.Store(true)
}

// Remove makes the gauge report no battery.
func (b *Battery) Remove() {
	b.present.Store(false)
}

// Level implements runtime.BatteryGauge.
func (b *Battery) Level() (uint8, bool) {
	if !b.present.Load() {
		return 0, false
	}
	return uint8(b.level.Load()), true
}
