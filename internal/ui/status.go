package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/zeroclaw/zeroclaw-ui/internal/discovery"
	"github.com/zeroclaw/zeroclaw-ui/internal/protocol"
)

// StatusLines renders a status snapshot as aligned key/value lines.
func StatusLines(status protocol.UiStatus) []Param {
	params := []Param{
		{"Network", onOff(status.Connected, "connected", "offline")},
		{"SSID", orDash(status.SSID())},
		{"Signal", "—"},
		{"Battery", "—"},
		{"Assistant", onOff(status.ZeroclawConnected, "reachable", "unreachable")},
	}
	if status.SignalStrength != nil {
		params[2].Value = fmt.Sprintf("%d%%", *status.SignalStrength)
	}
	if status.BatteryLevel != nil {
		params[3].Value = fmt.Sprintf("%d%%", *status.BatteryLevel)
	}
	return params
}

// RenderStatusCard renders a status snapshot in a rounded box.
func RenderStatusCard(status protocol.UiStatus, width int) string {
	width = clampWidth(width)

	lines := []string{HeaderTitleStyle.Render("DEVICE STATUS"), ""}
	for _, p := range StatusLines(status) {
		lines = append(lines, ResultKeyStyle.Render("  "+p.Key+":")+" "+ResultValueStyle.Render(p.Value))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(PrimaryColor).
		Width(width - 2).
		Render(strings.Join(lines, "\n"))
}

// StatusBar renders a one-line status summary for the chat console.
func StatusBar(status protocol.UiStatus) string {
	var parts []string

	if status.Connected {
		wifi := OnlineMarker + " wifi"
		if ssid := status.SSID(); ssid != "" {
			wifi += " " + ssid
		}
		if status.SignalStrength != nil {
			wifi += fmt.Sprintf(" %d%%", *status.SignalStrength)
		}
		parts = append(parts, lipgloss.NewStyle().Foreground(SuccessColor).Render(wifi))
	} else {
		parts = append(parts, lipgloss.NewStyle().Foreground(ErrorColor).Render(OfflineMarker+" wifi"))
	}

	if status.ZeroclawConnected {
		parts = append(parts, lipgloss.NewStyle().Foreground(SuccessColor).Render(OnlineMarker+" zeroclaw"))
	} else {
		parts = append(parts, lipgloss.NewStyle().Foreground(MutedColor).Render(OfflineMarker+" zeroclaw"))
	}

	if status.BatteryLevel != nil {
		parts = append(parts, TimestampStyle.Render(fmt.Sprintf("bat %d%%", *status.BatteryLevel)))
	}

	return strings.Join(parts, "  ")
}

// RenderMessage renders one chat message with a role label.
func RenderMessage(msg protocol.ChatMessage, width int) string {
	var label string
	switch msg.Role() {
	case protocol.RoleUser:
		label = UserLabelStyle.Render("You")
	case protocol.RoleAssistant:
		label = AssistantLabelStyle.Render("ZeroClaw")
	default:
		label = SystemLabelStyle.Render("System")
	}

	head := label + " " + TimestampStyle.Render("+"+msg.Timestamp()+"s")
	body := MessageBodyStyle.Width(clampWidth(width) - 2).Render(msg.Content())
	return head + "\n" + body
}

// RenderTranscript renders messages oldest first, separated by blank lines.
func RenderTranscript(messages []protocol.ChatMessage, width int) string {
	rendered := make([]string, 0, len(messages))
	for _, m := range messages {
		rendered = append(rendered, RenderMessage(m, width))
	}
	return strings.Join(rendered, "\n\n")
}

// RenderGateways renders discovered gateways as a list.
func RenderGateways(gateways []*discovery.Gateway, width int) string {
	if len(gateways) == 0 {
		return NewWarningResult("No gateways found",
			Param{"Service", discovery.ServiceType},
			Param{"Hint", "start one with: zeroclaw-sim serve --advertise"},
		).SetWidth(width).Render()
	}

	r := NewSuccessResult(fmt.Sprintf("Found %d gateway(s)", len(gateways))).SetWidth(width)
	for _, gw := range gateways {
		value := gw.BaseURL()
		if gw.RequiresKey() {
			value += " (api key)"
		}
		r.AddDetail(gw.Instance, value)
	}
	return r.Render()
}

func onOff(on bool, yes, no string) string {
	if on {
		return OnlineMarker + " " + yes
	}
	return OfflineMarker + " " + no
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}
