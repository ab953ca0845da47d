package runtime

import (
	"fmt"

	"github.com/zeroclaw/zeroclaw-ui/internal/protocol"
	"github.com/zeroclaw/zeroclaw-ui/internal/wifi"
)

// EventKind identifies what an Event reports.
type EventKind int

const (
	EventStatusChanged EventKind = iota
	EventWifiStateChanged
	EventMessageAdded
)

func (k EventKind) String() string {
	switch k {
	case EventStatusChanged:
		return "status_changed"
	case EventWifiStateChanged:
		return "wifi_state_changed"
	case EventMessageAdded:
		return "message_added"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event is pushed to the UI layer. Only the fields for Kind are set.
type Event struct {
	Kind EventKind

	Status *protocol.UiStatus // EventStatusChanged

	From wifi.State // EventWifiStateChanged
	To   wifi.State

	Message *protocol.ChatMessage // EventMessageAdded
}

func statusEqual(a, b protocol.UiStatus) bool {
	return a.Connected == b.Connected &&
		a.ZeroclawConnected == b.ZeroclawConnected &&
		a.SSID() == b.SSID() &&
		(a.WifiSSID == nil) == (b.WifiSSID == nil) &&
		bytePtrEqual(a.SignalStrength, b.SignalStrength) &&
		bytePtrEqual(a.BatteryLevel, b.BatteryLevel)
}

func bytePtrEqual(a, b *uint8) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
