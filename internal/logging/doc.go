// Package logging provides structured logging for the ZeroClaw device runtime.
//
// This package wraps a global zap logger with convenience functions for the
// logging patterns used by the chat client, the WiFi manager and the touch
// decoder.
//
// # Log Levels
//
//   - Debug: touch events, raw request/response bytes
//   - Info: WiFi transitions, requests sent, health results
//   - Warn: health check failures, dropped touch points
//   - Error: WiFi connection timeout, server-reported errors
//
// # Silent By Default
//
// The console UI owns the terminal, so logging is disabled unless a level is
// requested explicitly or ZEROCLAW_LOG_LEVEL is set:
//
//	if err := logging.Initialize(cfg.LogLevel); err != nil {
//	    return err
//	}
//	defer logging.Sync()
//
// # Structured Logging
//
//	logging.Info("Sending message",
//	    zap.String("url", url),
//	    zap.Int("body_length", len(body)),
//	)
//
// # Thread Safety
//
// All logging functions are safe for concurrent use.
package logging
