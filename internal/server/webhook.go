package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/zeroclaw/zeroclaw-ui/internal/bounded"
	"github.com/zeroclaw/zeroclaw-ui/internal/logging"
	"github.com/zeroclaw/zeroclaw-ui/internal/protocol"
	"go.uber.org/zap"
)

// maxRequestBody bounds what the webhook reads from a client.
const maxRequestBody = 64 * 1024

// Trigger prefixes understood by the echo assistant.
const (
	triggerError  = "/error"
	triggerStatus = "/status"
	triggerSilent = "/silent"
	triggerBig    = "/big"
	triggerSleep  = "/sleep"
)

type webhookReply struct {
	Response *string `json:"response,omitempty"`
	Error    *string `json:"error,omitempty"`
}

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	s.served.Add(1)

	if !s.authorized(r) {
		logging.Warn("Rejected webhook request", zap.String("remote", r.RemoteAddr))
		writeJSON(w, http.StatusUnauthorized, webhookReply{Error: ptr("unauthorized")})
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, webhookReply{Error: ptr("failed to read request")})
		return
	}

	var req protocol.ChatRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, webhookReply{Error: ptr("invalid JSON: " + err.Error())})
		return
	}

	logging.Debug("Webhook message",
		zap.String("remote", r.RemoteAddr),
		zap.Int("length", len(req.Message)),
	)

	status, reply := s.answer(r, req.Message)
	writeJSON(w, status, reply)
}

// answer picks the assistant's reply for message.
func (s *Server) answer(r *http.Request, message string) (int, any) {
	command, arg, _ := strings.Cut(strings.TrimSpace(message), " ")
	arg = strings.TrimSpace(arg)

	switch command {
	case triggerError:
		if arg == "" {
			arg = "simulated failure"
		}
		return http.StatusOK, webhookReply{Error: ptr(arg)}

	case triggerStatus:
		code, err := strconv.Atoi(arg)
		if err != nil || code < 100 || code > 599 {
			return http.StatusOK, webhookReply{Error: ptr("usage: /status <code>")}
		}
		return code, webhookReply{Error: ptr(http.StatusText(code))}

	case triggerSilent:
		return http.StatusOK, struct{}{}

	case triggerBig:
		return http.StatusOK, webhookReply{Response: ptr(strings.Repeat("x", bounded.ResponseCapacity+1))}

	case triggerSleep:
		d, err := time.ParseDuration(arg)
		if err != nil {
			return http.StatusOK, webhookReply{Error: ptr("usage: /sleep <duration>")}
		}
		select {
		case <-time.After(d):
		case <-r.Context().Done():
		}
		return http.StatusOK, webhookReply{Response: ptr("slept " + d.String())}
	}

	if s.config.Reply != "" {
		return http.StatusOK, webhookReply{Response: ptr(s.config.Reply)}
	}
	return http.StatusOK, webhookReply{Response: ptr("Echo: " + message)}
}

func (s *Server) authorized(r *http.Request) bool {
	if s.config.APIKey == "" {
		return true
	}
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	return ok && token == s.config.APIKey
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "zeroclaw-sim",
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil && !errors.Is(err, http.ErrHandlerTimeout) {
		logging.Debug("Failed to write reply", zap.Error(err))
	}
}

func ptr(s string) *string { return &s }
