package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/zeroclaw/zeroclaw-ui/internal/wifi"
)

// WifiProgress shows how many link checks a WiFi connect has used.
type WifiProgress struct {
	SSID        string
	Attempt     int
	MaxAttempts int
	State       wifi.State
	Width       int
	bar         progress.Model
}

// NewWifiProgress creates a progress display for a connect to ssid.
func NewWifiProgress(ssid string, maxAttempts int) *WifiProgress {
	p := &WifiProgress{
		SSID:        ssid,
		MaxAttempts: maxAttempts,
		State:       wifi.StateConnecting,
	}
	return p.SetWidth(GetTerminalWidth())
}

// SetWidth sets the terminal width for responsive rendering
func (p *WifiProgress) SetWidth(width int) *WifiProgress {
	p.Width = width
	barWidth := width - 24 // Leave room for the attempt counter
	if barWidth < 20 {
		barWidth = 20
	}
	if barWidth > 50 {
		barWidth = 50
	}
	p.bar = progress.New(
		progress.WithGradient(string(PrimaryColor), string(SuccessColor)),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)
	return p
}

// Update records the manager's current attempt count and state.
func (p *WifiProgress) Update(attempt int, state wifi.State) {
	p.Attempt = attempt
	p.State = state
}

// Percent returns the fraction of the attempt budget used, 1 once connected.
func (p *WifiProgress) Percent() float64 {
	if p.State == wifi.StateConnected {
		return 1
	}
	if p.MaxAttempts <= 0 {
		return 0
	}
	pct := float64(p.Attempt) / float64(p.MaxAttempts)
	if pct > 1 {
		pct = 1
	}
	return pct
}

// Render returns the label and bar on two lines.
func (p *WifiProgress) Render() string {
	var b strings.Builder

	b.WriteString(ProgressLabelStyle.Render(fmt.Sprintf("Connecting to %q...", p.SSID)))
	b.WriteString("\n")
	b.WriteString("  ")
	b.WriteString(p.bar.ViewAs(p.Percent()))
	b.WriteString(TimestampStyle.Render(fmt.Sprintf("  %d/%d  %s", p.Attempt, p.MaxAttempts, p.State)))

	return b.String()
}
