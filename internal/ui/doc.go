// Package ui renders styled terminal output for the zeroclaw-ui commands.
//
// These components follow a "print once and exit" pattern: one-shot commands
// (send, status, scan, wifi connect) build a box, print it and return. The
// interactive chat console lives in the tui package and reuses the palette
// defined here.
//
// Components:
//
//   - Header: command banner with ordered parameters
//   - Result: success, failure and warning boxes
//   - StatusCard: a UiStatus snapshot
//   - Transcript: chat history with per-role styling
//   - WifiProgress: attempt counter bar for WiFi connects
//
// # Logging Integration
//
// Logging is controlled by ZEROCLAW_LOG_LEVEL (or --log-level). When unset,
// zap is silent so the curated output is not interleaved with log lines.
package ui
