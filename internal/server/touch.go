package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/zeroclaw/zeroclaw-ui/internal/logging"
	"github.com/zeroclaw/zeroclaw-ui/internal/simulator"
	"github.com/zeroclaw/zeroclaw-ui/internal/touch"
	"go.uber.org/zap"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next message from the peer.
	pongWait = 60 * time.Second

	// Send pings with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Local test tool; any origin may inject touches.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// TouchMessage is one raw event sent over /touch.
type TouchMessage struct {
	Kind string `json:"kind"`
	X    uint16 `json:"x"`
	Y    uint16 `json:"y"`
}

// TouchAck is the server's answer to a TouchMessage.
type TouchAck struct {
	OK      bool   `json:"ok"`
	Pending int    `json:"pending,omitempty"`
	Error   string `json:"error,omitempty"`
}

var errUnknownKind = errors.New(`kind must be "touch", "release" or "none"`)

// RawEvent converts the message to a controller event.
func (m TouchMessage) RawEvent() (touch.RawEvent, error) {
	switch m.Kind {
	case "touch":
		return touch.RawEvent{Kind: touch.EventTouch, X: m.X, Y: m.Y}, nil
	case "release":
		return touch.RawEvent{Kind: touch.EventRelease}, nil
	case "none", "":
		return touch.RawEvent{Kind: touch.EventNone}, nil
	default:
		return touch.RawEvent{}, errUnknownKind
	}
}

// TouchHub serves /touch, queueing each received event on a panel.
type TouchHub struct {
	panel *simulator.Panel

	mu      sync.Mutex
	sockets map[*websocket.Conn]struct{}
}

// NewTouchHub creates a hub feeding panel.
func NewTouchHub(panel *simulator.Panel) *TouchHub {
	return &TouchHub{panel: panel, sockets: make(map[*websocket.Conn]struct{})}
}

// Active returns the number of open connections.
func (h *TouchHub) Active() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sockets)
}

// CloseAll sends a going-away close frame to every connection and closes it.
// Hijacked connections are not tracked by http.Server.Shutdown.
func (h *TouchHub) CloseAll() {
	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.sockets))
	for c := range h.sockets {
		conns = append(conns, c)
	}
	h.mu.Unlock()

	for _, c := range conns {
		_ = c.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(writeWait))
		_ = c.Close()
	}
}

func (h *TouchHub) track(c *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sockets[c] = struct{}{}
}

func (h *TouchHub) untrack(c *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.sockets, c)
}

// ServeHTTP upgrades the request and reads touch events until the peer
// goes away.
func (h *TouchHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		logging.Debug("WebSocket upgrade failed", zap.Error(err))
		return
	}

	remote := r.RemoteAddr
	logging.Info("Touch client connected", zap.String("remote", remote))

	done := make(chan struct{})
	h.track(conn)
	defer func() {
		close(done)
		h.untrack(conn)
		_ = conn.Close()
		logging.Info("Touch client disconnected", zap.String("remote", remote))
	}()

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	// WriteControl may run concurrently with the ack writer below.
	go func() {
		pings := time.NewTicker(pingPeriod)
		defer pings.Stop()
		for {
			select {
			case <-pings.C:
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logging.Warn("Touch connection error", zap.String("remote", remote), zap.Error(err))
			}
			return
		}

		ack := h.inject(data)

		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(ack); err != nil {
			logging.Debug("Failed to write touch ack", zap.Error(err))
			return
		}
	}
}

func (h *TouchHub) inject(data []byte) TouchAck {
	var msg TouchMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return TouchAck{Error: "invalid JSON: " + err.Error()}
	}

	ev, err := msg.RawEvent()
	if err != nil {
		return TouchAck{Error: err.Error()}
	}

	if err := h.panel.Inject(ev); err != nil {
		return TouchAck{Error: err.Error()}
	}

	logging.Debug("Injected touch event",
		zap.Stringer("kind", ev.Kind),
		zap.Uint16("x", ev.X),
		zap.Uint16("y", ev.Y),
	)
	return TouchAck{OK: true, Pending: h.panel.Pending()}
}
