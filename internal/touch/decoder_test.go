package touch

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// fakePanel replays a fixed sequence of reads, then reports no events.
type fakePanel struct {
	mu       sync.Mutex
	events   []RawEvent
	errs     []error
	pressed  bool
	pressErr error
}

func (f *fakePanel) ReadEvent() (RawEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		if err != nil {
			return RawEvent{}, err
		}
	}
	if len(f.events) == 0 {
		return RawEvent{Kind: EventNone}, nil
	}
	ev := f.events[0]
	f.events = f.events[1:]
	return ev, nil
}

func (f *fakePanel) IsPressed() (bool, error) {
	return f.pressed, f.pressErr
}

func TestNew_InvalidDimensions(t *testing.T) {
	for _, dims := range [][2]uint16{{0, 240}, {320, 0}, {0, 0}} {
		if _, err := New(&fakePanel{}, dims[0], dims[1]); !errors.Is(err, ErrInvalidDimensions) {
			t.Errorf("New(%dx%d) error = %v, want ErrInvalidDimensions", dims[0], dims[1], err)
		}
	}
}

func TestGetTouchEvent_Clamping(t *testing.T) {
	tests := []struct {
		name   string
		width  uint16
		height uint16
		raw    RawEvent
		wantX  uint16
		wantY  uint16
	}{
		{name: "inside", width: 320, height: 240, raw: RawEvent{Kind: EventTouch, X: 10, Y: 20}, wantX: 10, wantY: 20},
		{name: "origin", width: 320, height: 240, raw: RawEvent{Kind: EventTouch, X: 0, Y: 0}, wantX: 0, wantY: 0},
		{name: "on width boundary", width: 320, height: 240, raw: RawEvent{Kind: EventTouch, X: 320, Y: 240}, wantX: 319, wantY: 239},
		{name: "far outside", width: 320, height: 240, raw: RawEvent{Kind: EventTouch, X: 65535, Y: 1000}, wantX: 319, wantY: 239},
		{name: "8-bit controller on small display", width: 100, height: 50, raw: RawEvent{Kind: EventTouch, X: 255, Y: 255}, wantX: 99, wantY: 49},
		{name: "8-bit controller on wide display", width: 320, height: 240, raw: RawEvent{Kind: EventTouch, X: 255, Y: 200}, wantX: 255, wantY: 200},
		{name: "one pixel display", width: 1, height: 1, raw: RawEvent{Kind: EventTouch, X: 7, Y: 9}, wantX: 0, wantY: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := New(&fakePanel{events: []RawEvent{tt.raw}}, tt.width, tt.height)
			if err != nil {
				t.Fatal(err)
			}

			point, ok := d.GetTouchEvent()
			if !ok {
				t.Fatal("GetTouchEvent() ok = false, want true")
			}
			if point.X != tt.wantX || point.Y != tt.wantY || !point.Pressed {
				t.Errorf("GetTouchEvent() = %+v, want {%d %d true}", point, tt.wantX, tt.wantY)
			}
			if point.X > tt.width-1 || point.Y > tt.height-1 {
				t.Errorf("point %+v outside %dx%d", point, tt.width, tt.height)
			}
		})
	}
}

func TestGetTouchEvent_ClampInvariant(t *testing.T) {
	const width, height = 320, 240
	for x := 0; x <= 65535; x += 257 {
		for _, y := range []uint16{0, 1, 239, 240, 241, 255, 65535} {
			d, _ := New(&fakePanel{events: []RawEvent{{Kind: EventTouch, X: uint16(x), Y: y}}}, width, height)
			point, ok := d.GetTouchEvent()
			if !ok || point.X > width-1 || point.Y > height-1 {
				t.Fatalf("raw (%d,%d) decoded to %+v ok=%v", x, y, point, ok)
			}
		}
	}
}

func TestGetTouchEvent_ReleaseAndNone(t *testing.T) {
	d, _ := New(&fakePanel{events: []RawEvent{
		{Kind: EventRelease, X: 50, Y: 60},
		{Kind: EventNone},
	}}, 320, 240)

	point, ok := d.GetTouchEvent()
	if !ok {
		t.Fatal("release: ok = false, want true")
	}
	if point != (TouchPoint{X: 0, Y: 0, Pressed: false}) {
		t.Errorf("release = %+v, want zero point", point)
	}

	if _, ok := d.GetTouchEvent(); ok {
		t.Error("none: ok = true, want false")
	}
}

func TestGetTouchEvent_SwallowsReadErrors(t *testing.T) {
	panel := &fakePanel{
		errs:   []error{errors.New("i2c nack"), nil},
		events: []RawEvent{{Kind: EventTouch, X: 1, Y: 2}},
	}
	d, _ := New(panel, 320, 240)

	if _, ok := d.GetTouchEvent(); ok {
		t.Error("read error: ok = true, want false")
	}
	point, ok := d.GetTouchEvent()
	if !ok || point.X != 1 || point.Y != 2 {
		t.Errorf("after error: %+v ok=%v, want {1 2 true}", point, ok)
	}
	if got := d.Stats().Failures; got != 1 {
		t.Errorf("Failures = %d, want 1", got)
	}
}

func TestPoll_SeparatesErrorFromNoEvent(t *testing.T) {
	readErr := errors.New("bus error")
	d, _ := New(&fakePanel{errs: []error{readErr}}, 320, 240)

	_, ok, err := d.Poll()
	if ok || !errors.Is(err, ErrReadFailed) || !errors.Is(err, readErr) {
		t.Errorf("Poll() ok=%v err=%v, want read failure wrapping bus error", ok, err)
	}

	_, ok, err = d.Poll()
	if ok || err != nil {
		t.Errorf("Poll() ok=%v err=%v, want no event and no error", ok, err)
	}
}

func TestUninitialized(t *testing.T) {
	d, err := New(nil, 320, 240)
	if err != nil {
		t.Fatal(err)
	}

	if d.Initialized() {
		t.Error("Initialized() = true for nil peripheral")
	}
	if _, ok := d.GetTouchEvent(); ok {
		t.Error("GetTouchEvent() ok = true when uninitialised")
	}
	if d.IsPressed() {
		t.Error("IsPressed() = true when uninitialised")
	}
	if _, _, err := d.Poll(); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Poll() error = %v, want ErrNotInitialized", err)
	}
}

func TestDetach(t *testing.T) {
	d, _ := New(&fakePanel{pressed: true, events: []RawEvent{{Kind: EventTouch}}}, 320, 240)
	if !d.IsPressed() {
		t.Fatal("IsPressed() = false before Detach")
	}

	d.Detach()

	if d.IsPressed() {
		t.Error("IsPressed() = true after Detach")
	}
	if _, ok := d.GetTouchEvent(); ok {
		t.Error("GetTouchEvent() ok = true after Detach")
	}
}

func TestIsPressed_ReadError(t *testing.T) {
	d, _ := New(&fakePanel{pressed: true, pressErr: errors.New("timeout")}, 320, 240)
	if d.IsPressed() {
		t.Error("IsPressed() = true on read error")
	}
}

func TestStats(t *testing.T) {
	d, _ := New(&fakePanel{events: []RawEvent{
		{Kind: EventTouch, X: 1, Y: 1},
		{Kind: EventTouch, X: 2, Y: 2},
		{Kind: EventRelease},
	}}, 320, 240)

	for i := 0; i < 4; i++ {
		d.GetTouchEvent()
	}

	stats := d.Stats()
	if stats.Touches != 2 || stats.Releases != 1 || stats.Failures != 0 {
		t.Errorf("Stats() = %+v, want {2 1 0}", stats)
	}
}

func TestPoller_ForwardsPoints(t *testing.T) {
	d, _ := New(&fakePanel{events: []RawEvent{
		{Kind: EventTouch, X: 400, Y: 5},
		{Kind: EventRelease},
	}}, 320, 240)

	p := NewPoller(d, time.Millisecond, 4)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	want := []TouchPoint{{X: 319, Y: 5, Pressed: true}, {}}
	for i, w := range want {
		select {
		case got := <-p.Points():
			if got != w {
				t.Errorf("point %d = %+v, want %+v", i, got, w)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for point %d", i)
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	if _, open := <-p.Points(); open {
		t.Error("Points() channel should be closed after Run returns")
	}
}
