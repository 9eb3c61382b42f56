package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vidyasagar/navsync/internal/config"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
)

var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:   "navsync",
		Short: "Keep application state in step with the browser address",
		Long: `navsync tracks a browser's address fragment and fires one navigation
event per change, using pushState where the browser supports it and
falling back to hash tracking or an emulated history elsewhere.

Run the interactive playground against a simulated browser, or inspect
how a fragment parses and how a user agent would be tracked.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default is the user config dir)")

	rootCmd.AddCommand(
		runCmd(),
		parseCmd(),
		probeCmd(),
		journalCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

// loadConfig reads and validates the configuration named by --config.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s:\n%w", cfg.Path(), err)
	}
	return cfg, nil
}
