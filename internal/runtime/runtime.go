package runtime

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zeroclaw/zeroclaw-ui/internal/bounded"
	"github.com/zeroclaw/zeroclaw-ui/internal/client"
	"github.com/zeroclaw/zeroclaw-ui/internal/logging"
	"github.com/zeroclaw/zeroclaw-ui/internal/protocol"
	"github.com/zeroclaw/zeroclaw-ui/internal/touch"
	"github.com/zeroclaw/zeroclaw-ui/internal/wifi"
	"go.uber.org/zap"
)

const (
	// DefaultHistoryLimit is how many chat messages are kept.
	DefaultHistoryLimit = 32

	eventBuffer = 64
)

// ErrNotRunning is returned by Submit when Run has exited.
var ErrNotRunning = errors.New("runtime is not running")

// BatteryGauge reports the battery charge in percent.
type BatteryGauge interface {
	Level() (uint8, bool)
}

// Config wires the optional collaborators.
type Config struct {
	// Radio drives connect_wifi. Without one, send_message is not gated on WiFi.
	Radio wifi.Radio

	// Battery fills battery_level in status replies.
	Battery BatteryGauge

	// Touch is polled every TouchPollInterval when set.
	Touch             *touch.Decoder
	TouchPollInterval time.Duration

	// HistoryLimit caps the conversation (default: 32, oldest dropped).
	HistoryLimit int

	// HealthInterval is the gateway probe period. Zero or negative disables
	// the probe.
	HealthInterval time.Duration

	// Clock stamps chat messages (default: monotonic since New).
	Clock protocol.Clock
}

// Request is one command and where to send its reply.
type Request struct {
	Command protocol.UiCommand
	Reply   chan<- protocol.UiResponse
}

type connectResult struct {
	reply chan<- protocol.UiResponse
	err   error
}

// Runtime serialises every UiCommand onto one goroutine.
type Runtime struct {
	wifi   *wifi.Manager
	client *client.Client
	cfg    Config

	requests chan Request
	events   chan Event
	done     chan struct{}
	poller   *touch.Poller

	histMu  sync.Mutex
	history []protocol.ChatMessage

	// owned by the Run goroutine
	lastStatus protocol.UiStatus
	connecting bool
	connectWG  sync.WaitGroup
	results    chan connectResult

	dropped atomic.Uint64
	started atomic.Bool
}

// New creates a runtime. Call Run to start serving commands.
func New(w *wifi.Manager, c *client.Client, cfg Config) *Runtime {
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = DefaultHistoryLimit
	}
	if cfg.Clock == nil {
		cfg.Clock = protocol.NewMonotonicClock()
	}

	r := &Runtime{
		wifi:     w,
		client:   c,
		cfg:      cfg,
		requests: make(chan Request),
		events:   make(chan Event, eventBuffer),
		done:     make(chan struct{}),
		results:  make(chan connectResult, 1),
	}
	if cfg.Touch != nil {
		r.poller = touch.NewPoller(cfg.Touch, cfg.TouchPollInterval, 16)
	}

	w.OnTransition(func(from, to wifi.State) {
		r.publish(Event{Kind: EventWifiStateChanged, From: from, To: to})
	})
	return r
}

// Events delivers status changes. Events are dropped if nobody reads them.
func (r *Runtime) Events() <-chan Event {
	return r.events
}

// Touches delivers decoded touch points, or nil when no decoder is configured.
func (r *Runtime) Touches() <-chan touch.TouchPoint {
	if r.poller == nil {
		return nil
	}
	return r.poller.Points()
}

// Requests is the channel Run serves. Send a Request with a buffered Reply.
func (r *Runtime) Requests() chan<- Request {
	return r.requests
}

// Submit sends cmd and waits for the reply.
func (r *Runtime) Submit(ctx context.Context, cmd protocol.UiCommand) (protocol.UiResponse, error) {
	reply := make(chan protocol.UiResponse, 1)
	select {
	case r.requests <- Request{Command: cmd, Reply: reply}:
	case <-r.done:
		return protocol.UiResponse{}, ErrNotRunning
	case <-ctx.Done():
		return protocol.UiResponse{}, ctx.Err()
	}

	select {
	case resp := <-reply:
		return resp, nil
	case <-ctx.Done():
		return protocol.UiResponse{}, ctx.Err()
	}
}

// Run serves commands until ctx is cancelled. It may be called once.
func (r *Runtime) Run(ctx context.Context) error {
	if !r.started.CompareAndSwap(false, true) {
		return errors.New("runtime already started")
	}
	defer close(r.done)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if r.poller != nil {
		go r.poller.Run(ctx)
	}

	var health <-chan time.Time
	if r.cfg.HealthInterval > 0 {
		ticker := time.NewTicker(r.cfg.HealthInterval)
		defer ticker.Stop()
		health = ticker.C
	}

	logging.Info("Runtime started",
		zap.String("gateway", r.client.BaseURL()),
		zap.Bool("radio", r.cfg.Radio != nil),
		zap.Bool("touch", r.poller != nil),
		zap.Duration("health_interval", r.cfg.HealthInterval),
	)

	for {
		select {
		case <-ctx.Done():
			if r.connecting {
				_ = r.wifi.Disconnect()
				r.connectWG.Wait()
				res := <-r.results
				resp := protocol.WithStatus(r.status())
				if res.err != nil {
					resp = protocol.Err(res.err.Error())
				}
				deliver(res.reply, protocol.CommandConnectWifi, resp)
			}
			logging.Info("Runtime stopped")
			return nil

		case req := <-r.requests:
			r.handle(ctx, req)

		case res := <-r.results:
			r.connecting = false
			r.finishConnect(ctx, res)

		case <-health:
			r.checkHealth(ctx)
		}
	}
}

func (r *Runtime) handle(ctx context.Context, req Request) {
	if err := req.Command.Validate(); err != nil {
		r.reply(req, protocol.Err(err.Error()))
		return
	}

	logging.Debug("Handling command", zap.String("command", string(req.Command.Kind)))

	switch req.Command.Kind {
	case protocol.CommandSendMessage:
		r.reply(req, r.sendMessage(ctx, req.Command.Text))
	case protocol.CommandGetStatus:
		r.reply(req, protocol.WithStatus(r.status()))
	case protocol.CommandConnectWifi:
		r.connectWifi(ctx, req)
	case protocol.CommandDisconnect:
		if err := r.wifi.Disconnect(); err != nil {
			r.reply(req, protocol.Err(err.Error()))
			return
		}
		r.publishStatus()
		r.reply(req, protocol.OK())
	case protocol.CommandClearMessages:
		r.histMu.Lock()
		r.history = r.history[:0]
		r.histMu.Unlock()
		r.reply(req, protocol.OK())
	default:
		r.reply(req, protocol.Err(fmt.Sprintf("unknown command %q", req.Command.Kind)))
	}
}

func (r *Runtime) reply(req Request, resp protocol.UiResponse) {
	deliver(req.Reply, req.Command.Kind, resp)
}

func deliver(ch chan<- protocol.UiResponse, kind protocol.CommandKind, resp protocol.UiResponse) {
	if ch == nil {
		return
	}
	select {
	case ch <- resp:
	default:
		logging.Warn("Dropping reply, channel full or unbuffered", zap.String("command", string(kind)))
	}
}

func (r *Runtime) sendMessage(ctx context.Context, text string) protocol.UiResponse {
	if r.cfg.Radio != nil {
		if err := r.wifi.RequireConnected(); err != nil {
			return protocol.Err(err.Error())
		}
	}

	userMsg, err := protocol.NewChatMessage(protocol.RoleUser, text, r.cfg.Clock)
	if err != nil {
		return protocol.Err(err.Error())
	}
	added := []protocol.ChatMessage{userMsg}
	r.record(userMsg)

	wasConnected := r.client.IsConnected()
	answer, sendErr := r.client.SendMessage(ctx, text)

	var reply protocol.ChatMessage
	if sendErr != nil {
		logging.Warn("Send failed", zap.Error(sendErr))
		reply = r.systemMessage(client.ShortMessage(sendErr))
	} else {
		reply = r.assistantMessage(answer)
	}
	added = append(added, reply)
	r.record(reply)

	if r.client.IsConnected() != wasConnected {
		r.publishStatus()
	}

	if sendErr != nil {
		resp := protocol.Err(client.ShortMessage(sendErr))
		resp.Messages = added
		return resp
	}
	return protocol.WithMessages(added)
}

// assistantMessage records a reply, cutting it to what a chat bubble holds.
func (r *Runtime) assistantMessage(answer string) protocol.ChatMessage {
	content := answer
	if len(content) > bounded.MessageCapacity {
		content = bounded.Truncated(bounded.MessageCapacity, content).String()
		logging.Debug("Reply shortened for history",
			zap.Int("length", len(answer)),
			zap.Int("kept", len(content)),
		)
	}
	msg, _ := protocol.NewChatMessage(protocol.RoleAssistant, content, r.cfg.Clock)
	return msg
}

func (r *Runtime) systemMessage(text string) protocol.ChatMessage {
	msg, _ := protocol.NewChatMessage(protocol.RoleSystem,
		bounded.Truncated(bounded.MessageCapacity, text).String(), r.cfg.Clock)
	return msg
}

func (r *Runtime) record(msg protocol.ChatMessage) {
	r.histMu.Lock()
	r.history = append(r.history, msg)
	if over := len(r.history) - r.cfg.HistoryLimit; over > 0 {
		r.history = append(r.history[:0], r.history[over:]...)
	}
	r.histMu.Unlock()
	r.publish(Event{Kind: EventMessageAdded, Message: &msg})
}

// History returns a copy of the conversation, oldest first.
func (r *Runtime) History() []protocol.ChatMessage {
	r.histMu.Lock()
	defer r.histMu.Unlock()
	out := make([]protocol.ChatMessage, len(r.history))
	copy(out, r.history)
	return out
}

func (r *Runtime) connectWifi(ctx context.Context, req Request) {
	if r.cfg.Radio == nil {
		r.reply(req, protocol.Err("no WiFi radio configured"))
		return
	}
	if r.connecting {
		r.reply(req, protocol.Err(wifi.ErrConnecting.Error()))
		return
	}
	if r.wifi.IsConnected() {
		r.reply(req, protocol.Err(wifi.ErrAlreadyConnected.Error()))
		return
	}

	r.connecting = true
	r.connectWG.Add(1)
	ssid, password := req.Command.SSID, req.Command.Password
	go func() {
		defer r.connectWG.Done()
		err := r.wifi.ConnectAsync(ctx, r.cfg.Radio, ssid, password)
		r.results <- connectResult{reply: req.Reply, err: err}
	}()
}

func (r *Runtime) finishConnect(ctx context.Context, res connectResult) {
	var resp protocol.UiResponse
	if res.err != nil {
		logging.Warn("WiFi connect failed", zap.Error(res.err))
		resp = protocol.Err(res.err.Error())
	} else {
		r.client.CheckConnection(ctx)
		resp = protocol.WithStatus(r.status())
	}
	r.publishStatus()
	deliver(res.reply, protocol.CommandConnectWifi, resp)
}

func (r *Runtime) checkHealth(ctx context.Context) {
	before := r.client.IsConnected()
	after := r.client.CheckConnection(ctx)
	if before != after {
		logging.Info("Gateway reachability changed", zap.Bool("connected", after))
	}
	r.publishStatus()
}

func (r *Runtime) status() protocol.UiStatus {
	status := r.wifi.GetStatus()
	if r.cfg.Radio == nil {
		// the host network stands in for the radio
		status.Connected = true
	}
	status.ZeroclawConnected = r.client.IsConnected()
	if r.cfg.Battery != nil {
		if level, ok := r.cfg.Battery.Level(); ok {
			status.BatteryLevel = &level
		}
	}
	return status
}

// publishStatus emits StatusChanged when the snapshot differs from the last one.
func (r *Runtime) publishStatus() {
	status := r.status()
	if statusEqual(status, r.lastStatus) {
		return
	}
	r.lastStatus = status
	r.publish(Event{Kind: EventStatusChanged, Status: &status})
}

func (r *Runtime) publish(ev Event) {
	select {
	case r.events <- ev:
	default:
		if n := r.dropped.Add(1); n%50 == 1 {
			logging.Warn("Event consumer lagging, dropping events",
				zap.Uint64("dropped", n),
				zap.String("kind", ev.Kind.String()),
			)
		}
	}
}
