package protocol

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/zeroclaw/zeroclaw-ui/internal/bounded"
)

func TestUiCommand_JSON(t *testing.T) {
	tests := []struct {
		name string
		cmd  UiCommand
		wire string
	}{
		{name: "send_message", cmd: SendMessage("hi there"), wire: `{"send_message":{"text":"hi there"}}`},
		{name: "get_status", cmd: GetStatus(), wire: `"get_status"`},
		{name: "connect_wifi", cmd: ConnectWifi("home", "secret"), wire: `{"connect_wifi":{"ssid":"home","password":"secret"}}`},
		{name: "disconnect", cmd: Disconnect(), wire: `"disconnect"`},
		{name: "clear_messages", cmd: ClearMessages(), wire: `"clear_messages"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.cmd)
			if err != nil {
				t.Fatalf("Marshal() error = %v", err)
			}
			if string(data) != tt.wire {
				t.Errorf("Marshal() = %s, want %s", data, tt.wire)
			}

			var decoded UiCommand
			if err := json.Unmarshal([]byte(tt.wire), &decoded); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if decoded != tt.cmd {
				t.Errorf("Unmarshal() = %+v, want %+v", decoded, tt.cmd)
			}
		})
	}
}

func TestUiCommand_UnmarshalErrors(t *testing.T) {
	inputs := []string{
		`"reboot"`,
		`"send_message"`,
		`{"send_message":{"text":"a"},"get_status":{}}`,
		`{}`,
		`{"fly":{}}`,
		`{"connect_wifi":"home"}`,
		`42`,
	}

	for _, input := range inputs {
		var cmd UiCommand
		if err := json.Unmarshal([]byte(input), &cmd); err == nil {
			t.Errorf("Unmarshal(%s) error = nil, want error", input)
		}
	}
}

func TestUiCommand_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cmd     UiCommand
		wantErr bool
	}{
		{name: "short message", cmd: SendMessage("hi")},
		{name: "message at capacity", cmd: SendMessage(strings.Repeat("m", bounded.MessageCapacity))},
		{name: "message over capacity", cmd: SendMessage(strings.Repeat("m", bounded.MessageCapacity+1)), wantErr: true},
		{name: "ssid over capacity", cmd: ConnectWifi(strings.Repeat("s", 33), "pw"), wantErr: true},
		{name: "password over capacity", cmd: ConnectWifi("home", strings.Repeat("p", 65)), wantErr: true},
		{name: "unit command", cmd: Disconnect()},
		{name: "unknown kind", cmd: UiCommand{Kind: "reboot"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cmd.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestUiResponse(t *testing.T) {
	ok := OK()
	if !ok.Success || ok.ErrorText() != "" {
		t.Errorf("OK() = %+v", ok)
	}

	status := WithStatus(UiStatus{Connected: true})
	if !status.Success || status.Status == nil || !status.Status.Connected {
		t.Errorf("WithStatus() = %+v", status)
	}

	msg, _ := NewChatMessage(RoleUser, "hi", fixedClock(time.Second))
	withMsgs := WithMessages([]ChatMessage{msg})
	if !withMsgs.Success || len(withMsgs.Messages) != 1 {
		t.Errorf("WithMessages() = %+v", withMsgs)
	}

	long := Err(strings.Repeat("e", 500))
	if long.Success {
		t.Error("Err().Success = true")
	}
	if len(long.ErrorText()) != bounded.StatusErrorCapacity {
		t.Errorf("Err() text length = %d, want %d", len(long.ErrorText()), bounded.StatusErrorCapacity)
	}

	data, err := json.Marshal(Err("boom"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"success":false,"error":"boom"}` {
		t.Errorf("Marshal(Err) = %s", data)
	}
}
