package main

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vidyasagar/navsync/internal/browser"
	"github.com/vidyasagar/navsync/internal/env"
	"github.com/vidyasagar/navsync/internal/events"
	"github.com/vidyasagar/navsync/internal/logging"
	"github.com/vidyasagar/navsync/internal/navigation"
	"github.com/vidyasagar/navsync/internal/storage"
	"github.com/vidyasagar/navsync/internal/theme"
	"github.com/vidyasagar/navsync/internal/ui"
)

func parseCmd() *cobra.Command {
	var attrs []string

	cmd := &cobra.Command{
		Use:   "parse <fragment>",
		Short: "Show how a fragment parses and which parameters an event carries",
		Example: `  navsync parse '#inbox?id=3&q=a%20b'
  navsync parse 'reports?page=2' --attr page`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("attr") {
				cfg, err := loadConfig()
				if err != nil {
					return err
				}
				attrs = cfg.Navigation.Attributes
			}

			loc := navigation.ParseLocation(args[0])
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "token:       %q\n", loc.Token)
			fmt.Fprintf(out, "querystring: %q\n", loc.Querystring)

			keys := make([]string, 0, len(loc.Params))
			for k := range loc.Params {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(out, "param:       %s=%q\n", k, loc.Params[k])
			}

			fmt.Fprintln(out)
			fmt.Fprintln(out, "event parameters:")
			fired, err := fireOnce(args[0], attrs)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, ui.FormatEvent(fired))
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&attrs, "attr", nil, "attribute names the event declares (default from config)")
	return cmd
}

// fireOnce runs fragment through a notifier bound to a throwaway event and
// returns what a handler would receive.
func fireOnce(fragment string, attrs []string) (events.Fired, error) {
	const name = "navsync:parse"

	reg := events.NewRegistry()
	reg.Register(events.Def{Name: name, Attributes: attrs})

	var got events.Fired
	reg.Handle(name, func(f events.Fired) { got = f })

	n := navigation.NewNotifier(reg, name, nil, logging.Discard(), nil, nil)
	if err := n.Notify(context.Background(), strings.TrimPrefix(fragment, "#")); err != nil {
		return events.Fired{}, err
	}
	return got, nil
}

func probeCmd() *cobra.Command {
	var preset string

	cmd := &cobra.Command{
		Use:   "probe [user-agent]",
		Short: "Show how a browser would be tracked",
		Long: `Probe classifies a user agent and reports the tracking strategy and
change detection the navigation service would pick for it. Without an
argument the preset (or every preset) is probed.`,
		Example: `  navsync probe
  navsync probe --preset ios-webview
  navsync probe 'Mozilla/5.0 (iPad; CPU OS 9_0 like Mac OS X) AppleWebKit/601.1.46 (KHTML, like Gecko) Mobile/13A344'`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			names := env.PresetNames()
			if preset != "" {
				names = []string{preset}
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "PRESET\tRESTRICTED\tLEGACY ANDROID\tCAPABILITY\tSTRATEGY\tDETECTION")
			for _, name := range names {
				p, err := env.LookupPreset(name)
				if err != nil {
					return err
				}
				sc := browser.SimConfig{
					URL:          "https://probe.local/",
					UserAgent:    p.UserAgent,
					PushState:    p.PushState,
					HashChange:   p.HashChange,
					DocumentMode: p.DocumentMode,
				}
				if len(args) == 1 {
					sc.UserAgent = args[0]
				}
				writeProbe(tw, name, sc)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&preset, "preset", "", "probe only this preset")
	return cmd
}

func writeProbe(tw *tabwriter.Writer, name string, sc browser.SimConfig) {
	probe := env.NewProbe(sc.UserAgent)
	det := navigation.NewDetector()

	reg := events.NewRegistry()
	reg.Register(events.Def{Name: navigation.DefaultEvent})
	svc := navigation.New(browser.NewSim(sc), reg,
		navigation.WithDetector(det),
		navigation.WithLogger(logging.Discard()),
	)
	svc.Init(context.Background())
	defer svc.Close()

	fmt.Fprintf(tw, "%s\t%t\t%t\t%s\t%s\t%s\n",
		name,
		probe.IsRestrictedWebview(),
		probe.IsLegacyAndroidBrowser(),
		det.Capability(),
		svc.Strategy(),
		svc.Detection())
}

func journalCmd() *cobra.Command {
	var (
		limit  int
		search string
	)

	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Print recorded navigation events",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			dir, err := cfg.DataDir()
			if err != nil {
				return err
			}
			db, err := storage.OpenDB(dir)
			if err != nil {
				return err
			}
			defer db.Close()

			j := storage.NewJournal(db, cfg.Storage.MaxEntries)
			var entries []storage.JournalEntry
			title := "Journal"
			if search != "" {
				entries, err = j.Search(cmd.Context(), search)
				title = fmt.Sprintf("Journal: %q", search)
			} else {
				entries, err = j.Recent(cmd.Context(), limit)
			}
			if err != nil {
				return err
			}

			theme.Set(cfg.UI.Theme)
			fmt.Fprint(cmd.OutOrStdout(), ui.RenderMarkdown(ui.JournalMarkdown(title, entries), 100))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of entries to show")
	cmd.Flags().StringVarP(&search, "search", "s", "", "only entries whose token or querystring contains this")
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "navsync %s (%s)\n", version, commit)
		},
	}
}

func joinThemes() string {
	return strings.Join(theme.List(), ", ")
}
