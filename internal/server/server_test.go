package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/zeroclaw/zeroclaw-ui/internal/bounded"
	"github.com/zeroclaw/zeroclaw-ui/internal/client"
	"github.com/zeroclaw/zeroclaw-ui/internal/simulator"
	"github.com/zeroclaw/zeroclaw-ui/internal/touch"
)

func newTestServer(t *testing.T, cfg *Config) (*Server, *httptest.Server) {
	t.Helper()
	s := New(cfg, nil)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func post(t *testing.T, url, body, token string) (int, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, url+"/webhook", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("POST /webhook: %v", err)
	}
	defer resp.Body.Close()

	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode reply: %v", err)
	}
	return resp.StatusCode, out
}

func TestWebhookReplies(t *testing.T) {
	_, ts := newTestServer(t, &Config{})

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantKey    string
		wantValue  string
	}{
		{"echo", `{"message":"hello"}`, 200, "response", "Echo: hello"},
		{"error trigger", `{"message":"/error model offline"}`, 200, "error", "model offline"},
		{"error default", `{"message":"/error"}`, 200, "error", "simulated failure"},
		{"status trigger", `{"message":"/status 503"}`, 503, "error", "Service Unavailable"},
		{"bad status", `{"message":"/status abc"}`, 200, "error", "usage: /status <code>"},
		{"sleep", `{"message":"/sleep 1ms"}`, 200, "response", "slept 1ms"},
		{"bad sleep", `{"message":"/sleep soon"}`, 200, "error", "usage: /sleep <duration>"},
		{"invalid json", `{"message":`, 400, "error", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, out := post(t, ts.URL, tt.body, "")
			if status != tt.wantStatus {
				t.Errorf("status = %d, want %d", status, tt.wantStatus)
			}
			got, ok := out[tt.wantKey].(string)
			if !ok {
				t.Fatalf("reply %v has no %q", out, tt.wantKey)
			}
			if tt.wantValue != "" && got != tt.wantValue {
				t.Errorf("%s = %q, want %q", tt.wantKey, got, tt.wantValue)
			}
		})
	}
}

func TestWebhookSilentAndBig(t *testing.T) {
	_, ts := newTestServer(t, &Config{})

	_, out := post(t, ts.URL, `{"message":"/silent"}`, "")
	if len(out) != 0 {
		t.Errorf("silent reply = %v, want empty object", out)
	}

	_, out = post(t, ts.URL, `{"message":"/big"}`, "")
	if got := len(out["response"].(string)); got <= bounded.ResponseCapacity {
		t.Errorf("big reply length = %d, want > %d", got, bounded.ResponseCapacity)
	}
}

func TestWebhookFixedReply(t *testing.T) {
	_, ts := newTestServer(t, &Config{Reply: "42"})

	_, out := post(t, ts.URL, `{"message":"meaning of life?"}`, "")
	if out["response"] != "42" {
		t.Errorf("response = %v, want 42", out["response"])
	}
}

func TestWebhookAuth(t *testing.T) {
	_, ts := newTestServer(t, &Config{APIKey: "secret"})

	if status, _ := post(t, ts.URL, `{"message":"hi"}`, ""); status != http.StatusUnauthorized {
		t.Errorf("no token: status = %d, want 401", status)
	}
	if status, _ := post(t, ts.URL, `{"message":"hi"}`, "wrong"); status != http.StatusUnauthorized {
		t.Errorf("wrong token: status = %d, want 401", status)
	}
	if status, out := post(t, ts.URL, `{"message":"hi"}`, "secret"); status != http.StatusOK || out["response"] != "Echo: hi" {
		t.Errorf("good token: status = %d, reply = %v", status, out)
	}
}

func TestHealth(t *testing.T) {
	_, ts := newTestServer(t, &Config{})

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}

	resp, err = http.Get(ts.URL + "/webhook")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("GET /webhook status = %d, want 405", resp.StatusCode)
	}
}

// The device client is the intended consumer; drive it end to end.
func TestClientAgainstServer(t *testing.T) {
	_, ts := newTestServer(t, &Config{APIKey: "k"})

	c, err := client.New(ts.URL, client.WithAPIKey("k"))
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	reply, err := c.SendMessage(ctx, "ping")
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if reply != "Echo: ping" {
		t.Errorf("reply = %q", reply)
	}

	tests := []struct {
		message string
		want    error
	}{
		{"/error nope", client.ErrServer},
		{"/status 500", client.ErrHTTP},
		{"/silent", client.ErrNoResponse},
		{"/big", client.ErrResponseTooLarge},
	}
	for _, tt := range tests {
		_, err := c.SendMessage(ctx, tt.message)
		if !errors.Is(err, tt.want) {
			t.Errorf("SendMessage(%q) error = %v, want %v", tt.message, err, tt.want)
		}
	}

	if !c.CheckConnection(ctx) {
		t.Error("CheckConnection() = false, want true")
	}
}

func dialTouch(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/touch"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	resp.Body.Close()
	t.Cleanup(func() { conn.Close() })
	return conn
}

func exchange(t *testing.T, conn *websocket.Conn, msg string) TouchAck {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if err := conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
		t.Fatalf("write: %v", err)
	}
	var ack TouchAck
	if err := conn.ReadJSON(&ack); err != nil {
		t.Fatalf("read ack: %v", err)
	}
	return ack
}

func TestTouchSocket(t *testing.T) {
	s, ts := newTestServer(t, &Config{})
	conn := dialTouch(t, ts)

	ack := exchange(t, conn, `{"kind":"touch","x":120,"y":80}`)
	if !ack.OK || ack.Pending != 1 {
		t.Errorf("touch ack = %+v, want ok with 1 pending", ack)
	}
	ack = exchange(t, conn, `{"kind":"release"}`)
	if !ack.OK || ack.Pending != 2 {
		t.Errorf("release ack = %+v, want ok with 2 pending", ack)
	}

	if ack := exchange(t, conn, `{"kind":"swipe"}`); ack.OK || ack.Error == "" {
		t.Errorf("unknown kind ack = %+v, want error", ack)
	}
	if ack := exchange(t, conn, `not json`); ack.OK {
		t.Errorf("invalid JSON ack = %+v, want error", ack)
	}

	ev, err := s.Panel().ReadEvent()
	if err != nil {
		t.Fatal(err)
	}
	if ev != (touch.RawEvent{Kind: touch.EventTouch, X: 120, Y: 80}) {
		t.Errorf("first event = %+v", ev)
	}
	ev, _ = s.Panel().ReadEvent()
	if ev.Kind != touch.EventRelease {
		t.Errorf("second event kind = %v, want release", ev.Kind)
	}
}

func TestTouchFeedsDecoder(t *testing.T) {
	panel := simulator.NewPanel(0)
	s := New(&Config{}, panel)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	dec, err := touch.New(panel, 100, 50)
	if err != nil {
		t.Fatal(err)
	}

	conn := dialTouch(t, ts)
	exchange(t, conn, `{"kind":"touch","x":500,"y":10}`)

	point, ok := dec.GetTouchEvent()
	if !ok {
		t.Fatal("GetTouchEvent() reported no touch")
	}
	if point.X != 99 || point.Y != 10 || !point.Pressed {
		t.Errorf("point = %+v, want clamped (99,10) pressed", point)
	}
}

func TestShutdownClosesSockets(t *testing.T) {
	s := New(&Config{Host: "127.0.0.1", Port: 0}, nil)
	addr, err := s.Listen()
	if err != nil {
		t.Fatal(err)
	}
	go s.Serve()

	url := "ws://" + addr.String() + "/touch"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	resp.Body.Close()
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for s.ActiveSockets() != 1 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if s.ActiveSockets() != 1 {
		t.Fatalf("ActiveSockets() = %d, want 1", s.ActiveSockets())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("read after shutdown succeeded, want close")
	}
}

func TestServeWithoutListen(t *testing.T) {
	if err := New(&Config{}, nil).Serve(); err == nil {
		t.Error("Serve() before Listen() = nil, want error")
	}
}

func TestTouchURL(t *testing.T) {
	tests := []struct{ in, want string }{
		{"http://localhost:8080", "ws://localhost:8080/touch"},
		{"https://gw.example/", "wss://gw.example/touch"},
		{"127.0.0.1:7070", "ws://127.0.0.1:7070/touch"},
		{"ws://host/custom", "ws://host/custom"},
	}
	for _, tt := range tests {
		if got := TouchURL(tt.in); got != tt.want {
			t.Errorf("TouchURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSendTouches(t *testing.T) {
	s, ts := newTestServer(t, &Config{})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	acks, err := SendTouches(ctx, TouchURL(ts.URL),
		TouchMessage{Kind: "touch", X: 5, Y: 6},
		TouchMessage{Kind: "bogus"},
		TouchMessage{Kind: "release"},
	)
	if err != nil {
		t.Fatalf("SendTouches: %v", err)
	}
	if len(acks) != 3 {
		t.Fatalf("got %d acks, want 3", len(acks))
	}
	if !acks[0].OK || acks[1].OK || !acks[2].OK {
		t.Errorf("acks = %+v", acks)
	}
	if s.Panel().Pending() != 2 {
		t.Errorf("Pending() = %d, want 2", s.Panel().Pending())
	}
}

func TestSendTouchesUnreachable(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := TouchURL(ts.URL)
	ts.Close()

	if _, err := SendTouches(context.Background(), url, TouchMessage{Kind: "release"}); err == nil {
		t.Error("SendTouches to closed server succeeded")
	}
}

func TestPanelFullAck(t *testing.T) {
	panel := simulator.NewPanel(1)
	hub := NewTouchHub(panel)
	ts := httptest.NewServer(hub)
	defer ts.Close()

	conn := dialTouch(t, ts)
	if ack := exchange(t, conn, `{"kind":"touch","x":1,"y":1}`); !ack.OK {
		t.Fatalf("first ack = %+v", ack)
	}
	if ack := exchange(t, conn, `{"kind":"touch","x":2,"y":2}`); ack.OK || ack.Error == "" {
		t.Errorf("ack on full panel = %+v, want error", ack)
	}
}
