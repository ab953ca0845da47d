package tui

import "github.com/charmbracelet/bubbles/key"

// chatKeyMap defines key bindings for the chat screen
type chatKeyMap struct {
	Send     key.Binding
	Wifi     key.Binding
	Status   key.Binding
	Clear    key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Help     key.Binding
	Quit     key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k chatKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Send, k.Wifi, k.Status, k.Help, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k chatKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Send, k.PageUp, k.PageDown},
		{k.Wifi, k.Status, k.Clear},
		{k.Help, k.Quit},
	}
}

// wifiKeyMap defines key bindings for the WiFi form
type wifiKeyMap struct {
	Next    key.Binding
	Connect key.Binding
	Cancel  key.Binding
}

func (k wifiKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Connect, k.Cancel}
}

func (k wifiKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Next, k.Connect, k.Cancel}}
}

func newChatKeyMap() chatKeyMap {
	return chatKeyMap{
		Send: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "send"),
		),
		Wifi: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("ctrl+n", "wifi"),
		),
		Status: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "status"),
		),
		Clear: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "clear"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "scroll up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdn", "scroll down"),
		),
		Help: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("f1", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "esc"),
			key.WithHelp("esc", "quit"),
		),
	}
}

func newWifiKeyMap() wifiKeyMap {
	return wifiKeyMap{
		Next: key.NewBinding(
			key.WithKeys("tab", "shift+tab"),
			key.WithHelp("tab", "next field"),
		),
		Connect: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "connect"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
	}
}
