package server

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

// TouchURL turns an http(s) base URL into the /touch WebSocket URL.
// ws:// and wss:// URLs are returned unchanged.
func TouchURL(base string) string {
	switch {
	case strings.HasPrefix(base, "ws://"), strings.HasPrefix(base, "wss://"):
		return base
	case strings.HasPrefix(base, "https://"):
		base = "wss://" + strings.TrimPrefix(base, "https://")
	case strings.HasPrefix(base, "http://"):
		base = "ws://" + strings.TrimPrefix(base, "http://")
	default:
		base = "ws://" + base
	}
	return strings.TrimRight(base, "/") + "/touch"
}

// SendTouches dials url, sends each message in order and returns the acks.
// A rejected event does not stop the sequence; check each ack.
func SendTouches(ctx context.Context, url string, msgs ...TouchMessage) ([]TouchAck, error) {
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", url, err)
	}
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	defer conn.Close()

	deadline := time.Now().Add(writeWait)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	acks := make([]TouchAck, 0, len(msgs))
	for _, msg := range msgs {
		_ = conn.SetWriteDeadline(deadline)
		if err := conn.WriteJSON(msg); err != nil {
			return acks, fmt.Errorf("failed to send touch event: %w", err)
		}

		_ = conn.SetReadDeadline(deadline)
		var ack TouchAck
		if err := conn.ReadJSON(&ack); err != nil {
			return acks, fmt.Errorf("failed to read touch ack: %w", err)
		}
		acks = append(acks, ack)
	}

	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	return acks, nil
}
