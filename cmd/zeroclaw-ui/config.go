package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/zeroclaw/zeroclaw-ui/internal/config"
	"github.com/zeroclaw/zeroclaw-ui/internal/ui"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	Long: `Write a configuration file with every setting at its default.

If the file exists you are asked to confirm; --force overwrites silently.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := configFilePath()
		if err != nil {
			return err
		}

		force := configForce
		if !force {
			if _, err := os.Stat(path); err == nil {
				force = ui.Confirm(cmd.InOrStdin(), cmd.OutOrStdout(), "Overwrite configuration",
					[]string{
						"A configuration file already exists at " + path,
						"Its server, API key and WiFi settings will be replaced by defaults",
					})
				if !force {
					return nil
				}
			}
		}

		if err := config.WriteDefault(path, force); err != nil {
			return err
		}
		ui.NewPrinter(cmd.OutOrStdout()).PrintSuccess("Configuration written", ui.Param{Key: "Path", Value: path})
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration (secrets masked)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		masked := *cfg
		masked.Server.APIKey = mask(masked.Server.APIKey)
		masked.Wifi.Password = mask(masked.Wifi.Password)

		// Marshal would restore file values; show what is in effect instead.
		data, err := yaml.Marshal(&masked)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), string(data))
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := configFilePath()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite an existing file without asking")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

// configFilePath is --config or the default location.
func configFilePath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	return config.GetConfigPath()
}

// saveWifiCredentials stores ssid and password in the config file, leaving
// every other setting as the file has it.
func saveWifiCredentials(ssid, password string) error {
	path, err := configFilePath()
	if err != nil {
		return err
	}

	cfg, err := config.LoadFile(path)
	if err != nil {
		return err
	}
	cfg.Wifi.SSID = ssid
	cfg.Wifi.Password = password
	return cfg.SaveTo(path)
}

// mask keeps the first two characters of a secret.
func mask(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) <= 4 {
		return strings.Repeat("*", len(secret))
	}
	return secret[:2] + strings.Repeat("*", len(secret)-2)
}
