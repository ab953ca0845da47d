package protocol

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/zeroclaw/zeroclaw-ui/internal/bounded"
)

// CommandKind selects the action a UiCommand asks the runtime to perform.
type CommandKind string

const (
	CommandSendMessage   CommandKind = "send_message"
	CommandGetStatus     CommandKind = "get_status"
	CommandConnectWifi   CommandKind = "connect_wifi"
	CommandDisconnect    CommandKind = "disconnect"
	CommandClearMessages CommandKind = "clear_messages"
)

// UiCommand is a request from the UI layer to the device runtime.
//
// On the wire commands without arguments are bare strings and commands with
// arguments are single-key objects:
//
//	"get_status"
//	{"send_message": {"text": "hello"}}
//	{"connect_wifi": {"ssid": "home", "password": "secret"}}
type UiCommand struct {
	Kind     CommandKind
	Text     string // send_message
	SSID     string // connect_wifi
	Password string // connect_wifi
}

// SendMessage builds a send_message command.
func SendMessage(text string) UiCommand {
	return UiCommand{Kind: CommandSendMessage, Text: text}
}

// GetStatus builds a get_status command.
func GetStatus() UiCommand {
	return UiCommand{Kind: CommandGetStatus}
}

// ConnectWifi builds a connect_wifi command.
func ConnectWifi(ssid, password string) UiCommand {
	return UiCommand{Kind: CommandConnectWifi, SSID: ssid, Password: password}
}

// Disconnect builds a disconnect command.
func Disconnect() UiCommand {
	return UiCommand{Kind: CommandDisconnect}
}

// ClearMessages builds a clear_messages command.
func ClearMessages() UiCommand {
	return UiCommand{Kind: CommandClearMessages}
}

// Validate checks argument sizes against the buffers the runtime will copy
// them into.
func (c UiCommand) Validate() error {
	switch c.Kind {
	case CommandSendMessage:
		if len(c.Text) > bounded.MessageCapacity {
			return fmt.Errorf("%w: %d bytes (max %d)", ErrMessageTooLong, len(c.Text), bounded.MessageCapacity)
		}
	case CommandConnectWifi:
		if len(c.SSID) > bounded.SSIDCapacity {
			return fmt.Errorf("ssid too long: %d bytes (max %d)", len(c.SSID), bounded.SSIDCapacity)
		}
		if len(c.Password) > bounded.PasswordCapacity {
			return fmt.Errorf("password too long: %d bytes (max %d)", len(c.Password), bounded.PasswordCapacity)
		}
	case CommandGetStatus, CommandDisconnect, CommandClearMessages:
	default:
		return fmt.Errorf("unknown command %q", c.Kind)
	}
	return nil
}

type sendMessageArgs struct {
	Text string `json:"text"`
}

type connectWifiArgs struct {
	SSID     string `json:"ssid"`
	Password string `json:"password"`
}

// MarshalJSON implements json.Marshaler.
func (c UiCommand) MarshalJSON() ([]byte, error) {
	switch c.Kind {
	case CommandSendMessage:
		return marshalNoEscape(map[CommandKind]sendMessageArgs{c.Kind: {Text: c.Text}})
	case CommandConnectWifi:
		return marshalNoEscape(map[CommandKind]connectWifiArgs{c.Kind: {SSID: c.SSID, Password: c.Password}})
	case CommandGetStatus, CommandDisconnect, CommandClearMessages:
		return json.Marshal(string(c.Kind))
	default:
		return nil, fmt.Errorf("unknown command %q", c.Kind)
	}
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *UiCommand) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var kind string
		if err := json.Unmarshal(data, &kind); err != nil {
			return err
		}
		switch CommandKind(kind) {
		case CommandGetStatus, CommandDisconnect, CommandClearMessages:
			*c = UiCommand{Kind: CommandKind(kind)}
			return nil
		case CommandSendMessage, CommandConnectWifi:
			return fmt.Errorf("command %q requires arguments", kind)
		default:
			return fmt.Errorf("unknown command %q", kind)
		}
	}

	var tagged map[CommandKind]json.RawMessage
	if err := json.Unmarshal(data, &tagged); err != nil {
		return err
	}
	if len(tagged) != 1 {
		return fmt.Errorf("command object must have exactly one key, got %d", len(tagged))
	}

	for kind, raw := range tagged {
		switch kind {
		case CommandSendMessage:
			var args sendMessageArgs
			if err := json.Unmarshal(raw, &args); err != nil {
				return fmt.Errorf("send_message: %w", err)
			}
			*c = SendMessage(args.Text)
		case CommandConnectWifi:
			var args connectWifiArgs
			if err := json.Unmarshal(raw, &args); err != nil {
				return fmt.Errorf("connect_wifi: %w", err)
			}
			*c = ConnectWifi(args.SSID, args.Password)
		case CommandGetStatus, CommandDisconnect, CommandClearMessages:
			*c = UiCommand{Kind: kind}
		default:
			return fmt.Errorf("unknown command %q", kind)
		}
	}
	return nil
}

// UiResponse is the runtime's reply to a UiCommand.
type UiResponse struct {
	Success  bool          `json:"success"`
	Messages []ChatMessage `json:"messages,omitempty"`
	Status   *UiStatus     `json:"status,omitempty"`
	Error    *bounded.Text `json:"error,omitempty"`
}

// OK is a bare success reply.
func OK() UiResponse {
	return UiResponse{Success: true}
}

// WithStatus is a success reply carrying a status snapshot.
func WithStatus(status UiStatus) UiResponse {
	return UiResponse{Success: true, Status: &status}
}

// WithMessages is a success reply carrying chat messages.
func WithMessages(messages []ChatMessage) UiResponse {
	return UiResponse{Success: true, Messages: messages}
}

// Err is a failure reply. Long messages are cut to bounded.StatusErrorCapacity.
func Err(msg string) UiResponse {
	text := bounded.Truncated(bounded.StatusErrorCapacity, msg)
	return UiResponse{Success: false, Error: &text}
}

// ErrorText returns the failure message, or "" for successful replies.
func (r UiResponse) ErrorText() string {
	if r.Error == nil {
		return ""
	}
	return r.Error.String()
}
