package tui

import (
	"errors"
	"strings"

	"github.com/zeroclaw/zeroclaw-ui/internal/protocol"
)

type action int

const (
	actionNone action = iota
	actionSubmit
	actionWifiForm
	actionHelp
	actionQuit
)

var errUnknownSlash = errors.New("unknown command, try /help")

// parseInput maps a line typed into the chat box to what the console does.
func parseInput(line string) (action, protocol.UiCommand, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return actionNone, protocol.UiCommand{}, nil
	}

	if strings.HasPrefix(line, "//") {
		return actionSubmit, protocol.SendMessage(line[1:]), nil
	}
	if !strings.HasPrefix(line, "/") {
		return actionSubmit, protocol.SendMessage(line), nil
	}

	fields := strings.Fields(line)
	switch fields[0] {
	case "/status":
		return actionSubmit, protocol.GetStatus(), nil
	case "/clear":
		return actionSubmit, protocol.ClearMessages(), nil
	case "/disconnect":
		return actionSubmit, protocol.Disconnect(), nil
	case "/wifi":
		switch len(fields) {
		case 1:
			return actionWifiForm, protocol.UiCommand{}, nil
		case 2:
			return actionSubmit, protocol.ConnectWifi(fields[1], ""), nil
		default:
			// Passwords may contain spaces; keep everything after the SSID.
			rest := strings.TrimSpace(strings.TrimPrefix(line, fields[0]))
			password := strings.TrimSpace(strings.TrimPrefix(rest, fields[1]))
			return actionSubmit, protocol.ConnectWifi(fields[1], password), nil
		}
	case "/help":
		return actionHelp, protocol.UiCommand{}, nil
	case "/quit", "/exit":
		return actionQuit, protocol.UiCommand{}, nil
	}
	return actionNone, protocol.UiCommand{}, errUnknownSlash
}

// busyLabel is shown next to the spinner while cmd is in flight.
func busyLabel(cmd protocol.UiCommand) string {
	switch cmd.Kind {
	case protocol.CommandSendMessage:
		return "Waiting for ZeroClaw..."
	case protocol.CommandConnectWifi:
		return "Connecting to " + cmd.SSID + "..."
	case protocol.CommandDisconnect:
		return "Disconnecting..."
	case protocol.CommandGetStatus:
		return "Refreshing status..."
	default:
		return "Working..."
	}
}
