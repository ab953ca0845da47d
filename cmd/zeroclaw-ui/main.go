// Zeroclaw-ui is a desktop build of the ZeroClaw touch-screen chat client.
//
// It runs the same runtime the device runs (bounded buffers, WiFi manager,
// chat client and touch decoder) against a real or simulated ZeroClaw
// gateway, with a terminal chat console standing in for the display.
//
// Usage:
//
//	zeroclaw-ui [command] [flags]
//
// Running without arguments launches the chat console.
// See 'zeroclaw-ui --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zeroclaw/zeroclaw-ui/internal/logging"
	"github.com/zeroclaw/zeroclaw-ui/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// Global flags
var (
	configPath string
	serverURL  string
	apiKey     string
	logLevel   string
	discover   bool
)

var rootCmd = &cobra.Command{
	Use:   "zeroclaw-ui",
	Short: "ZeroClaw chat client",
	Long: `A terminal build of the ZeroClaw touch-screen chat client.

Sends messages to a ZeroClaw gateway's /webhook endpoint and shows the
assistant's replies, the device status (WiFi, signal, battery) and the
conversation history.

If no command is specified, the interactive chat console launches.`,
	Version:       version.Full(),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logging.Initialize(logLevel)
	},
	RunE: runChat,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: ~/.config/zeroclaw/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "Gateway base URL (overrides server.base_url)")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "Bearer token for the gateway (overrides server.api_key)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); silent when empty")
	rootCmd.PersistentFlags().BoolVar(&discover, "discover", false, "Find the gateway over mDNS instead of using server.base_url")

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("zeroclaw-ui %s (commit: %s, protocol: %s)\n", version.Version, version.Commit, version.ProtocolVersion)
	},
}
