package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/zeroclaw/zeroclaw-ui/internal/protocol"
	"github.com/zeroclaw/zeroclaw-ui/internal/ui"
)

// WiFi command flags
var (
	wifiSSID     string
	wifiPassword string
	wifiSave     bool
)

var wifiCmd = &cobra.Command{
	Use:   "wifi",
	Short: "Exercise the WiFi manager against a simulated radio",
}

var wifiConnectCmd = &cobra.Command{
	Use:   "connect",
	Short: "Connect to a network and show progress",
	Long: `Run the device's WiFi connect sequence (start, scan, configure, connect,
then poll the link) against a simulated radio and show each attempt.

The simulated access point is the configured wifi.ssid with the configured
password, so connecting with other credentials times out after
wifi.max_attempts polls, exactly like a real device would.`,
	Example: `  # Connect to the configured network
  zeroclaw-ui wifi connect

  # Try other credentials (times out unless they match the config)
  zeroclaw-ui wifi connect --ssid office --password hunter2

  # Store the credentials in the config file after a successful connect
  zeroclaw-ui wifi connect --ssid home --password secret --save`,
	RunE: runWifiConnect,
}

func init() {
	wifiConnectCmd.Flags().StringVar(&wifiSSID, "ssid", "", "Network name (default: wifi.ssid)")
	wifiConnectCmd.Flags().StringVar(&wifiPassword, "password", "", "Network password (default: wifi.password)")
	wifiConnectCmd.Flags().BoolVar(&wifiSave, "save", false, "Save the credentials to the config file on success")

	wifiCmd.AddCommand(wifiConnectCmd)
	rootCmd.AddCommand(wifiCmd)
}

func runWifiConnect(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ssid, password := wifiSSID, wifiPassword
	if ssid == "" {
		ssid, password = cfg.Wifi.SSID, cfg.Wifi.Password
	}
	if ssid == "" {
		return fmt.Errorf("no network given: pass --ssid or set wifi.ssid")
	}
	if cfg.Wifi.SSID == "" {
		// Nothing configured: simulate the requested network.
		cfg.Wifi.SSID, cfg.Wifi.Password = ssid, password
	}

	ctx, stop := signalContext()
	defer stop()

	s, err := startSession(ctx, cfg, sessionOptions{simulateWifi: true, battery: -1})
	if err != nil {
		return err
	}
	defer s.Close()

	p := ui.NewPrinter(cmd.OutOrStdout())
	p.PrintHeader("WiFi connect", "zeroclaw-ui wifi connect",
		ui.Param{Key: "SSID", Value: ssid},
		ui.Param{Key: "Attempts", Value: fmt.Sprintf("%d x %s", s.wifi.MaxAttempts, s.wifi.PollInterval)},
	)

	type result struct {
		resp protocol.UiResponse
		err  error
	}
	done := make(chan result, 1)
	go func() {
		resp, err := s.runtime.Submit(ctx, protocol.ConnectWifi(ssid, password))
		done <- result{resp, err}
	}()

	progress := ui.NewWifiProgress(ssid, s.wifi.MaxAttempts).SetWidth(p.Width())
	ticker := time.NewTicker(max(s.wifi.PollInterval/2, 50*time.Millisecond))
	defer ticker.Stop()

	live := ui.IsTerminal()
	var res result
wait:
	for {
		select {
		case res = <-done:
			break wait
		case <-ticker.C:
			if live {
				progress.Update(s.wifi.Attempts(), s.wifi.State())
				fmt.Fprint(cmd.OutOrStdout(), "\r\033[2K"+progress.Render()+"\033[1A\r")
			}
		}
	}

	progress.Update(s.wifi.Attempts(), s.wifi.State())
	p.Println(progress.Render())
	p.Println("")

	if res.err != nil {
		return res.err
	}
	if !res.resp.Success {
		p.PrintResponse("WiFi connect", res.resp)
		return fmt.Errorf("wifi connect failed: %s", res.resp.ErrorText())
	}

	p.PrintSuccess("Connected",
		ui.Param{Key: "SSID", Value: ssid},
		ui.Param{Key: "Polls", Value: fmt.Sprintf("%d", s.wifi.Attempts())},
		ui.Param{Key: "Signal", Value: signalText(res.resp.Status)},
	)

	if wifiSave {
		if err := saveWifiCredentials(ssid, password); err != nil {
			return err
		}
		p.Println(ui.TimestampStyle.Render("  Credentials saved."))
	}
	return nil
}

func signalText(status *protocol.UiStatus) string {
	if status == nil || status.SignalStrength == nil {
		return "—"
	}
	return fmt.Sprintf("%d%%", *status.SignalStrength)
}
