package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/zeroclaw/zeroclaw-ui/internal/discovery"
	"github.com/zeroclaw/zeroclaw-ui/internal/protocol"
	"github.com/zeroclaw/zeroclaw-ui/internal/tui"
	"github.com/zeroclaw/zeroclaw-ui/internal/ui"
)

// Command flags
var (
	simulateWifi bool
	batteryLevel int
	touchAddr    string
	scanTimeout  time.Duration
	outputJSON   bool
)

func init() {
	rootCmd.Flags().BoolVar(&simulateWifi, "simulate-wifi", false, "Attach a simulated WiFi radio (gates sending on a connection)")
	rootCmd.Flags().IntVar(&batteryLevel, "battery", -1, "Simulated battery level in percent (negative: no battery)")
	rootCmd.Flags().StringVar(&touchAddr, "touch-addr", "", "Listen address for touch injection, e.g. 127.0.0.1:7070")

	statusCmd.Flags().BoolVar(&outputJSON, "json", false, "Print the raw status JSON")
	scanCmd.Flags().DurationVar(&scanTimeout, "timeout", discovery.DefaultScanTimeout, "How long to listen for gateways")

	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(execCmd)
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// chatCmd launches the interactive console
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Launch the interactive chat console",
	Long: `Launch the chat console: a transcript, a status bar and a message box.

Type a message and press Enter to send it. Lines starting with "/" are
console commands (/status, /clear, /wifi, /disconnect, /help, /quit).`,
	Example: `  # Chat with a local gateway (chat is the default command)
  zeroclaw-ui --server http://localhost:8080

  # Find the gateway over mDNS
  zeroclaw-ui chat --discover

  # Behave like the device: WiFi must connect before sending
  zeroclaw-ui chat --simulate-wifi --battery 80

  # Accept injected touches (see: zeroclaw-sim touch)
  zeroclaw-ui chat --touch-addr 127.0.0.1:7070`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().AddFlagSet(rootCmd.Flags())
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	s, err := startSession(ctx, cfg, sessionOptions{
		simulateWifi: simulateWifi,
		battery:      batteryLevel,
		touchAddr:    touchAddr,
		healthCheck:  true,
	})
	if err != nil {
		return err
	}
	defer s.Close()

	s.client.CheckConnection(ctx)

	if s.radio != nil && cfg.Wifi.SSID != "" {
		// The console follows progress through runtime events.
		go func() {
			_, _ = s.runtime.Submit(ctx, protocol.ConnectWifi(cfg.Wifi.SSID, cfg.Wifi.Password))
		}()
	}

	return tui.Run(ctx, s.runtime, s.client.BaseURL())
}

// sendCmd sends one message and prints the reply
var sendCmd = &cobra.Command{
	Use:   "send <message>",
	Short: "Send one message and print the reply",
	Long: `Send a single message to the gateway and print the exchange.

All arguments are joined with spaces. The exit status is non-zero when the
gateway could not be reached or answered with an error.`,
	Example: `  zeroclaw-ui send "What's the weather like?"
  zeroclaw-ui send --server http://192.168.1.10:8080 hello`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSend,
}

func runSend(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	s, err := startSession(ctx, cfg, sessionOptions{battery: -1})
	if err != nil {
		return err
	}
	defer s.Close()

	resp, err := s.runtime.Submit(ctx, protocol.SendMessage(strings.Join(args, " ")))
	if err != nil {
		return err
	}

	ui.NewPrinter(cmd.OutOrStdout()).PrintResponse("Send message", resp)
	if !resp.Success {
		return fmt.Errorf("send failed: %s", resp.ErrorText())
	}
	return nil
}

// statusCmd prints the device status
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show device status",
	Long: `Probe the gateway and print the status the device would display:
network, SSID, signal, battery and whether ZeroClaw is reachable.`,
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	s, err := startSession(ctx, cfg, sessionOptions{battery: -1})
	if err != nil {
		return err
	}
	defer s.Close()

	s.client.CheckConnection(ctx)
	resp, err := s.runtime.Submit(ctx, protocol.GetStatus())
	if err != nil {
		return err
	}

	if outputJSON {
		return writeJSON(cmd, resp)
	}
	ui.NewPrinter(cmd.OutOrStdout()).PrintResponse("Status", resp)
	return nil
}

// healthCmd checks the gateway
var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the gateway is reachable",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx, stop := signalContext()
		defer stop()

		c, err := newClient(ctx, cfg)
		if err != nil {
			return err
		}

		p := ui.NewPrinter(cmd.OutOrStdout())
		start := time.Now()
		if !c.CheckConnection(ctx) {
			p.PrintWarning("Gateway unreachable", ui.Param{Key: "Server", Value: c.BaseURL()})
			return fmt.Errorf("gateway at %s is not healthy", c.BaseURL())
		}
		p.PrintSuccess("Gateway reachable",
			ui.Param{Key: "Server", Value: c.BaseURL()},
			ui.Param{Key: "Latency", Value: time.Since(start).Round(time.Millisecond).String()},
		)
		return nil
	},
}

// scanCmd discovers gateways on the network
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan for ZeroClaw gateways on the network",
	Long: `Scan for gateways advertising ` + discovery.ServiceType + ` over mDNS/DNS-SD.`,
	Example: `  # Scan for 5 seconds (default)
  zeroclaw-ui scan

  # Longer scan for slow networks
  zeroclaw-ui scan --timeout 15s`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext()
		defer stop()

		scanner := discovery.NewScanner()
		scanner.Timeout = scanTimeout

		gateways, err := scanner.Scan(ctx)
		if err != nil {
			return fmt.Errorf("scan failed: %w", err)
		}
		ui.NewPrinter(cmd.OutOrStdout()).PrintGateways(gateways)
		return nil
	},
}

// execCmd runs one raw UiCommand
var execCmd = &cobra.Command{
	Use:   "exec <command-json>",
	Short: "Run one UI command and print the JSON reply",
	Long: `Run a UI command exactly as the display layer would send it and print
the runtime's JSON reply. Useful for scripting and protocol debugging.`,
	Example: `  zeroclaw-ui exec '"get_status"'
  zeroclaw-ui exec '{"send_message": {"text": "hello"}}'
  zeroclaw-ui exec --simulate-wifi '{"connect_wifi": {"ssid": "zeroclaw-lab", "password": ""}}'`,
	Args: cobra.ExactArgs(1),
	RunE: runExec,
}

var execSimulateWifi bool

func init() {
	execCmd.Flags().BoolVar(&execSimulateWifi, "simulate-wifi", false, "Attach a simulated WiFi radio")
}

func runExec(cmd *cobra.Command, args []string) error {
	var command protocol.UiCommand
	if err := json.Unmarshal([]byte(args[0]), &command); err != nil {
		return fmt.Errorf("invalid command: %w", err)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	s, err := startSession(ctx, cfg, sessionOptions{simulateWifi: execSimulateWifi, battery: -1})
	if err != nil {
		return err
	}
	defer s.Close()

	resp, err := s.runtime.Submit(ctx, command)
	if err != nil {
		return err
	}
	return writeJSON(cmd, resp)
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
