package protocol

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/zeroclaw/zeroclaw-ui/internal/bounded"
)

type fixedClock time.Duration

func (c fixedClock) Elapsed() time.Duration { return time.Duration(c) }

func TestNewChatMessage(t *testing.T) {
	msg, err := NewChatMessage(RoleUser, "hello", fixedClock(90*time.Second+400*time.Millisecond))
	if err != nil {
		t.Fatalf("NewChatMessage() error = %v", err)
	}

	if msg.Role() != RoleUser {
		t.Errorf("Role() = %v, want user", msg.Role())
	}
	if msg.Content() != "hello" {
		t.Errorf("Content() = %q, want hello", msg.Content())
	}
	if msg.Timestamp() != "90" {
		t.Errorf("Timestamp() = %q, want 90", msg.Timestamp())
	}
}

func TestNewChatMessage_TooLong(t *testing.T) {
	_, err := NewChatMessage(RoleAssistant, strings.Repeat("x", bounded.MessageCapacity+1), fixedClock(0))
	if !errors.Is(err, ErrMessageTooLong) {
		t.Errorf("NewChatMessage() error = %v, want ErrMessageTooLong", err)
	}
}

func TestChatMessage_MarshalJSON(t *testing.T) {
	msg, err := NewChatMessage(RoleAssistant, "a b", fixedClock(5*time.Second))
	if err != nil {
		t.Fatal(err)
	}

	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	want := `{"role":"assistant","content":"a b","timestamp":"5"}`
	if string(data) != want {
		t.Errorf("Marshal() = %s, want %s", data, want)
	}
}

func TestMessageRole_Text(t *testing.T) {
	for _, role := range []MessageRole{RoleUser, RoleAssistant, RoleSystem} {
		text, err := role.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%v) error = %v", role, err)
		}
		var got MessageRole
		if err := got.UnmarshalText(text); err != nil {
			t.Fatalf("UnmarshalText(%s) error = %v", text, err)
		}
		if got != role {
			t.Errorf("role %v decoded as %v", role, got)
		}
	}

	var r MessageRole
	if err := r.UnmarshalText([]byte("robot")); err == nil {
		t.Error("UnmarshalText(robot) error = nil, want error")
	}
	if _, err := MessageRole(9).MarshalText(); err == nil {
		t.Error("MarshalText(9) error = nil, want error")
	}
}

func TestUiStatus_JSON(t *testing.T) {
	ssid := bounded.MustFrom(bounded.SSIDCapacity, "home")
	signal := uint8(70)
	status := UiStatus{Connected: true, WifiSSID: &ssid, SignalStrength: &signal}

	data, err := json.Marshal(status)
	if err != nil {
		t.Fatal(err)
	}

	want := `{"connected":true,"wifi_ssid":"home","signal_strength":70,"battery_level":null,"zeroclaw_connected":false}`
	if string(data) != want {
		t.Errorf("Marshal() = %s, want %s", data, want)
	}
	if status.SSID() != "home" {
		t.Errorf("SSID() = %q, want home", status.SSID())
	}
	if (UiStatus{}).SSID() != "" {
		t.Error("SSID() on empty status should be empty")
	}
}

func TestMonotonicClock(t *testing.T) {
	clock := NewMonotonicClock()
	if clock.Elapsed() < 0 {
		t.Error("Elapsed() < 0")
	}
}
