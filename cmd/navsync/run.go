package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/vidyasagar/navsync/internal/app"
	"github.com/vidyasagar/navsync/internal/config"
	"github.com/vidyasagar/navsync/internal/logging"
	"github.com/vidyasagar/navsync/internal/storage"
	"github.com/vidyasagar/navsync/internal/telemetry"
	"github.com/vidyasagar/navsync/internal/theme"
)

func runCmd() *cobra.Command {
	var (
		themeName   string
		preset      string
		startURL    string
		metricsAddr string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start the interactive playground",
		Long: `Start the playground: a simulated browser window driven through the
navigation service. Every detected change is listed in the event log and
recorded in the journal.`,
		Example: `  navsync run
  navsync run --preset ios-webview
  navsync run --start-url 'https://app.local/#inbox?id=3' --metrics-addr :9100`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if themeName != "" {
				cfg.UI.Theme = themeName
			}
			if preset != "" {
				cfg.Browser.Preset = preset
			}
			if startURL != "" {
				cfg.Browser.StartURL = startURL
			}
			if metricsAddr != "" {
				cfg.Metrics.Addr = metricsAddr
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runPlayground(cfg)
		},
	}

	cmd.Flags().StringVar(&themeName, "theme", "", "color theme ("+joinThemes()+")")
	cmd.Flags().StringVar(&preset, "preset", "", "browser preset to simulate")
	cmd.Flags().StringVar(&startURL, "start-url", "", "address the simulated browser opens at")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve /metrics on this address")

	return cmd
}

func runPlayground(cfg *config.Config) error {
	if !theme.Set(cfg.UI.Theme) {
		return fmt.Errorf("unknown theme: %s (available: %s)", cfg.UI.Theme, joinThemes())
	}

	dataDir, err := cfg.DataDir()
	if err != nil {
		return err
	}

	// The terminal belongs to the UI, so logs go to a file.
	logFile := cfg.Log.File
	if logFile == "" {
		logFile = filepath.Join(dataDir, "navsync.log")
	}
	log, logCloser, err := logging.New(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   logFile,
	})
	if err != nil {
		return err
	}
	defer logCloser.Close()
	slog.SetDefault(log)

	db, err := storage.OpenDB(dataDir)
	if err != nil {
		return err
	}
	defer db.Close()

	var journal *storage.Journal
	if cfg.Storage.Journal {
		journal = storage.NewJournal(db, cfg.Storage.MaxEntries)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m, err := app.New(app.Options{
		Config:     cfg,
		Logger:     log,
		Registerer: reg,
		Journal:    journal,
		Bookmarks:  storage.NewBookmarkStore(db),
	})
	if err != nil {
		return err
	}
	defer m.Close()

	if cfg.Metrics.Addr != "" {
		srv, err := telemetry.Start(cfg.Metrics.Addr, telemetry.NewRouter(telemetry.Routes{
			Gatherer: reg,
			Location: m.Service().Get,
		}), log)
		if err != nil {
			return fmt.Errorf("starting metrics server: %w", err)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			srv.Shutdown(ctx)
		}()
	}

	log.Info("playground starting",
		"config", cfg.Path(),
		"preset", cfg.Browser.Preset,
		"start_url", cfg.Browser.StartURL)

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running playground: %w", err)
	}
	return nil
}
