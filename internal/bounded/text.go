package bounded

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// Capacities used across the device. Each one is the largest input the
// corresponding field is expected to hold.
const (
	URLCapacity         = 128
	APIKeyCapacity      = 64
	MessageCapacity     = 512
	RequestCapacity     = 1024
	ResponseCapacity    = 2048
	TimestampCapacity   = 32
	SSIDCapacity        = 32
	PasswordCapacity    = 64
	ErrorCapacity       = 256
	StatusErrorCapacity = 128
)

// ErrCapacityExceeded is returned when a write would exceed a Text's capacity.
var ErrCapacityExceeded = errors.New("capacity exceeded")

// CapacityError describes a rejected write.
type CapacityError struct {
	Capacity  int // Maximum bytes the Text can hold
	Len       int // Bytes held before the write
	Attempted int // Bytes the caller tried to add
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("capacity exceeded: %d + %d bytes > %d", e.Len, e.Attempted, e.Capacity)
}

// Is lets errors.Is(err, ErrCapacityExceeded) match a *CapacityError.
func (e *CapacityError) Is(target error) bool {
	return target == ErrCapacityExceeded
}

// Text is a byte string with a fixed maximum length.
// The zero value has capacity 0 and rejects every non-empty write.
type Text struct {
	s        string
	capacity int
}

// New returns an empty Text that can hold up to capacity bytes.
func New(capacity int) Text {
	if capacity < 0 {
		capacity = 0
	}
	return Text{capacity: capacity}
}

// From returns a Text holding s, or an error if s does not fit.
func From(capacity int, s string) (Text, error) {
	t := New(capacity)
	if err := t.Push(s); err != nil {
		return t, err
	}
	return t, nil
}

// MustFrom is like From but panics if s does not fit.
// Only use it with constant input.
func MustFrom(capacity int, s string) Text {
	t, err := From(capacity, s)
	if err != nil {
		panic(err)
	}
	return t
}

// Truncated returns a Text holding the longest prefix of s that fits in
// capacity without splitting a UTF-8 sequence. Use it for display and log
// text only.
func Truncated(capacity int, s string) Text {
	t := New(capacity)
	if len(s) <= t.capacity {
		t.s = s
		return t
	}
	cut := t.capacity
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	t.s = s[:cut]
	return t
}

// Push appends s. If the result would exceed the capacity the Text is left
// unchanged and a *CapacityError is returned.
func (t *Text) Push(s string) error {
	if len(t.s)+len(s) > t.capacity {
		return &CapacityError{Capacity: t.capacity, Len: len(t.s), Attempted: len(s)}
	}
	t.s += s
	return nil
}

// PushBytes appends b with the same all-or-nothing rule as Push.
func (t *Text) PushBytes(b []byte) error {
	return t.Push(string(b))
}

// Set replaces the content with s. On failure the previous content is kept.
func (t *Text) Set(s string) error {
	if len(s) > t.capacity {
		return &CapacityError{Capacity: t.capacity, Len: 0, Attempted: len(s)}
	}
	t.s = s
	return nil
}

// Clear empties the Text. The capacity is unchanged.
func (t *Text) Clear() {
	t.s = ""
}

// Clone returns an independent copy.
func (t Text) Clone() Text {
	return t
}

// String returns the content.
func (t Text) String() string {
	return t.s
}

// Bytes returns a copy of the content.
func (t Text) Bytes() []byte {
	return []byte(t.s)
}

// Len returns the content length in bytes.
func (t Text) Len() int {
	return len(t.s)
}

// Cap returns the capacity in bytes.
func (t Text) Cap() int {
	return t.capacity
}

// Remaining returns how many more bytes fit.
func (t Text) Remaining() int {
	return t.capacity - len(t.s)
}

// IsEmpty reports whether the Text holds no bytes.
func (t Text) IsEmpty() bool {
	return len(t.s) == 0
}

// Equal compares content only; capacities may differ.
func (t Text) Equal(other Text) bool {
	return t.s == other.s
}

// MarshalText implements encoding.TextMarshaler.
func (t Text) MarshalText() ([]byte, error) {
	return []byte(t.s), nil
}
