// Zeroclaw-sim is a stand-in ZeroClaw gateway for testing the chat client
// without the real assistant.
//
// It serves /webhook (an echo assistant with failure triggers), /health and
// a /touch WebSocket for injecting touch events, and can advertise itself
// over mDNS.
//
// Usage:
//
//	zeroclaw-sim serve [flags]
//	zeroclaw-sim touch [flags] <x> <y> | --release
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/zeroclaw/zeroclaw-ui/internal/logging"
	"github.com/zeroclaw/zeroclaw-ui/internal/server"
	"github.com/zeroclaw/zeroclaw-ui/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "zeroclaw-sim",
	Short: "Simulated ZeroClaw gateway",
	Long: `A stand-in ZeroClaw gateway for developing and testing zeroclaw-ui.

The assistant echoes each message back. Messages starting with /error,
/status, /silent, /big or /sleep trigger the failure modes a real gateway
can produce.`,
	Version:      version.Full(),
	SilenceUsage: true,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(touchCmd)
	rootCmd.AddCommand(versionCmd)
}

// Serve command flags
var (
	host      string
	port      int
	reply     string
	apiKey    string
	advertise bool
	instance  string
	logLevel  string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the simulated gateway",
	Example: `  # Echo assistant on :8080
  zeroclaw-sim serve

  # Require a bearer token and advertise over mDNS
  zeroclaw-sim serve --api-key secret --advertise

  # Always answer with the same text
  zeroclaw-sim serve --reply "The answer is 42."`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&host, "host", "", "Listen host (empty = all interfaces)")
	serveCmd.Flags().IntVar(&port, "port", 8080, "Listen port")
	serveCmd.Flags().StringVar(&reply, "reply", "", "Fixed assistant reply (default: echo the message)")
	serveCmd.Flags().StringVar(&apiKey, "api-key", "", "Require this bearer token on /webhook")
	serveCmd.Flags().BoolVar(&advertise, "advertise", false, "Advertise the gateway over mDNS")
	serveCmd.Flags().StringVar(&instance, "instance", "zeroclaw-sim", "mDNS instance name")
	serveCmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := logging.Initialize(logLevel); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer logging.Sync()

	srv := server.New(&server.Config{
		Host:      host,
		Port:      port,
		Reply:     reply,
		APIKey:    apiKey,
		Advertise: advertise,
		Instance:  instance,
	}, nil)

	return srv.Start()
}

// Touch command flags
var (
	touchURL     string
	touchRelease bool
)

var touchCmd = &cobra.Command{
	Use:   "touch [x y]",
	Short: "Inject a touch event over WebSocket",
	Long: `Send one raw touch event to a /touch endpoint: either a running
'zeroclaw-sim serve' or a console started with 'zeroclaw-ui --touch-addr'.

Coordinates are raw controller values; the decoder clamps them to the
display size.`,
	Example: `  # Touch at (120, 80), then release
  zeroclaw-sim touch --url 127.0.0.1:7070 120 80
  zeroclaw-sim touch --url 127.0.0.1:7070 --release`,
	Args: func(cmd *cobra.Command, args []string) error {
		if touchRelease {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.ExactArgs(2)(cmd, args)
	},
	RunE: runTouch,
}

func init() {
	touchCmd.Flags().StringVar(&touchURL, "url", "127.0.0.1:8080", "Endpoint host:port or URL")
	touchCmd.Flags().BoolVar(&touchRelease, "release", false, "Send a release instead of a touch")
}

func runTouch(cmd *cobra.Command, args []string) error {
	msg := server.TouchMessage{Kind: "release"}
	if !touchRelease {
		x, err := parseCoord(args[0])
		if err != nil {
			return err
		}
		y, err := parseCoord(args[1])
		if err != nil {
			return err
		}
		msg = server.TouchMessage{Kind: "touch", X: x, Y: y}
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
	defer cancel()

	acks, err := server.SendTouches(ctx, server.TouchURL(touchURL), msg)
	if err != nil {
		return err
	}
	if ack := acks[0]; !ack.OK {
		return fmt.Errorf("touch rejected: %s", ack.Error)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s sent (%d pending)\n", msg.Kind, acks[0].Pending)
	return nil
}

func parseCoord(s string) (uint16, error) {
	v, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid coordinate %q: must be 0-65535", s)
	}
	return uint16(v), nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("zeroclaw-sim %s (commit: %s, protocol: %s)\n", version.Version, version.Commit, version.ProtocolVersion)
	},
}
