package protocol

import (
	"fmt"
	"strconv"
	"time"

	"github.com/zeroclaw/zeroclaw-ui/internal/bounded"
)

// MessageRole identifies who authored a chat message.
type MessageRole int

const (
	RoleUser MessageRole = iota
	RoleAssistant
	RoleSystem
)

// String returns the wire name of the role.
func (r MessageRole) String() string {
	switch r {
	case RoleUser:
		return "user"
	case RoleAssistant:
		return "assistant"
	case RoleSystem:
		return "system"
	default:
		return fmt.Sprintf("MessageRole(%d)", int(r))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (r MessageRole) MarshalText() ([]byte, error) {
	switch r {
	case RoleUser, RoleAssistant, RoleSystem:
		return []byte(r.String()), nil
	default:
		return nil, fmt.Errorf("unknown message role %d", int(r))
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *MessageRole) UnmarshalText(b []byte) error {
	switch string(b) {
	case "user":
		*r = RoleUser
	case "assistant":
		*r = RoleAssistant
	case "system":
		*r = RoleSystem
	default:
		return fmt.Errorf("unknown message role %q", string(b))
	}
	return nil
}

// Clock reports time elapsed since an arbitrary fixed instant (normally boot).
type Clock interface {
	Elapsed() time.Duration
}

type monotonicClock struct {
	start time.Time
}

// NewMonotonicClock returns a Clock that measures from the moment it is created.
func NewMonotonicClock() Clock {
	return monotonicClock{start: time.Now()}
}

func (c monotonicClock) Elapsed() time.Duration {
	return time.Since(c.start)
}

// ChatMessage is a single entry in the conversation. It is immutable once
// created.
type ChatMessage struct {
	role      MessageRole
	content   bounded.Text
	timestamp bounded.Text
}

// NewChatMessage creates a message stamped with the clock's elapsed seconds.
// Content longer than bounded.MessageCapacity fails with ErrMessageTooLong.
func NewChatMessage(role MessageRole, content string, clock Clock) (ChatMessage, error) {
	text, err := bounded.From(bounded.MessageCapacity, content)
	if err != nil {
		return ChatMessage{}, fmt.Errorf("%w: %d bytes (max %d)", ErrMessageTooLong, len(content), bounded.MessageCapacity)
	}

	secs := int64(clock.Elapsed() / time.Second)
	ts := bounded.MustFrom(bounded.TimestampCapacity, strconv.FormatInt(secs, 10))

	return ChatMessage{role: role, content: text, timestamp: ts}, nil
}

// Role returns the message author.
func (m ChatMessage) Role() MessageRole { return m.role }

// Content returns the message text.
func (m ChatMessage) Content() string { return m.content.String() }

// Timestamp returns the creation instant as decimal elapsed seconds.
func (m ChatMessage) Timestamp() string { return m.timestamp.String() }

// MarshalJSON encodes the message with the field names the UI expects.
func (m ChatMessage) MarshalJSON() ([]byte, error) {
	return marshalNoEscape(struct {
		Role      MessageRole  `json:"role"`
		Content   bounded.Text `json:"content"`
		Timestamp bounded.Text `json:"timestamp"`
	}{m.role, m.content, m.timestamp})
}

func (m ChatMessage) String() string {
	return fmt.Sprintf("[%ss] %s: %s", m.timestamp.String(), m.role, m.content.String())
}

// UiStatus is a point-in-time snapshot of connectivity for the UI.
type UiStatus struct {
	Connected         bool          `json:"connected"`
	WifiSSID          *bounded.Text `json:"wifi_ssid"`
	SignalStrength    *uint8        `json:"signal_strength"`
	BatteryLevel      *uint8        `json:"battery_level"`
	ZeroclawConnected bool          `json:"zeroclaw_connected"`
}

// SSID returns the reported network name, or "" when none is reported.
func (s UiStatus) SSID() string {
	if s.WifiSSID == nil {
		return ""
	}
	return s.WifiSSID.String()
}
