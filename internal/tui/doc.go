// Package tui provides the interactive chat console for zeroclaw-ui.
//
// The console is a Bubble Tea program that stands in for the device's touch
// screen. It talks to a runtime.Runtime through Submit and renders the
// runtime's event stream:
//
//   - EventMessageAdded appends to the transcript viewport
//   - EventStatusChanged refreshes the status bar
//   - EventWifiStateChanged shows WiFi progress
//
// # Screens
//
//   - Chat: transcript, status bar and message input
//   - WiFi: SSID/password form that issues connect_wifi
//
// # Slash commands
//
// Lines starting with "/" are console commands rather than messages:
//
//	/status              refresh status
//	/clear               clear the transcript
//	/wifi [ssid [pass]]  connect (opens the form without arguments)
//	/disconnect          drop WiFi
//	/help                toggle full help
//	/quit                exit
//
// A doubled slash ("//etc") sends the text with one slash stripped.
package tui
