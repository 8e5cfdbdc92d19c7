package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"casetrack/internal/analyze"
	"casetrack/internal/history"
	"casetrack/internal/logging"
	"casetrack/internal/report"
	"casetrack/internal/source"
	"casetrack/internal/track"
)

var trackFlags struct {
	pagesDir    string
	baseURL     string
	delay       time.Duration
	showBrowser bool
	dryRun      bool
}

func newTrackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "track",
		Short: "Check every listed case and append new key status entries",
		Long: `Reads each listed case's timeline, one case at a time, and appends key
status entries that are new or changed to the history file. Existing rows are
never modified. Cases whose timeline cannot be read are reported and skipped.

Timelines come from headless Chrome, or from saved page text
(<pages-dir>/<id>.txt) when --pages-dir is set.`,
		Args: cobra.NoArgs,
		RunE: runTrack,
	}

	f := cmd.Flags()
	f.StringVar(&trackFlags.pagesDir, "pages-dir", "", "Read saved page text from this directory instead of the web")
	f.StringVar(&trackFlags.baseURL, "base-url", source.DefaultBaseURL, "Case page site")
	f.DurationVar(&trackFlags.delay, "delay", track.DefaultDelay, "Minimum pause between case fetches")
	f.BoolVar(&trackFlags.showBrowser, "show-browser", false, "Run Chrome with a visible window")
	f.BoolVar(&trackFlags.dryRun, "dry-run", false, "Report changes without writing the history file")
	return cmd
}

func runTrack(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	flags := cmd.Flags()
	if flags.Changed("pages-dir") {
		settings.Track.PagesDir = trackFlags.pagesDir
	}
	if flags.Changed("base-url") {
		settings.Browser.BaseURL = trackFlags.baseURL
	}
	if flags.Changed("delay") {
		settings.Track.Delay = trackFlags.delay.String()
	}
	if flags.Changed("show-browser") {
		settings.Browser.Visible = trackFlags.showBrowser
	}
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ids, h, err := loadInputs()
	if err != nil {
		return err
	}

	fetcher, closeFetcher, err := openFetcher(ctx)
	if err != nil {
		return err
	}
	defer closeFetcher()

	delay, _ := settings.DelayDuration()
	runner := track.NewRunner(fetcher,
		track.WithDelay(delay),
		track.WithLogger(logging.New("track")),
	)
	start := time.Now()
	run, runErr := runner.Run(ctx, ids.Sorted())
	elapsed := time.Since(start)

	res := analyze.Analyze(ids, h, run.Observed())
	appended := res.Appended()
	if len(appended) > 0 && !trackFlags.dryRun {
		upgraded, err := history.Upgrade(h)
		if err != nil {
			return err
		}
		if upgraded {
			logging.New("history").Info("upgraded history header", "path", settings.History, "columns", h.Columns)
		}
		if err := history.AppendFile(settings.History, h.Columns, appended); err != nil {
			return err
		}
		logging.New("history").Info("appended key status entries", "path", settings.History, "count", len(appended))
	}

	rep := newReport(res, h, run)
	rep.Appended = len(appended)
	rep.DryRun = trackFlags.dryRun
	rep.Elapsed = elapsed
	if err := report.Write(cmd.OutOrStdout(), rep, outputMode()); err != nil {
		return err
	}
	if runErr != nil {
		return fmt.Errorf("tracking interrupted after %d of %d cases: %w", len(run.Observations), ids.Len(), runErr)
	}
	return nil
}

// openFetcher returns the configured timeline source and its cleanup.
func openFetcher(ctx context.Context) (source.Fetcher, func(), error) {
	if dir := settings.Track.PagesDir; dir != "" {
		d, err := source.NewDir(dir)
		if err != nil {
			return nil, nil, err
		}
		return d, func() {}, nil
	}

	wait, _ := settings.WaitDuration()
	settle, _ := settings.SettleDuration()
	opts := []source.Option{
		source.WithBaseURL(settings.Browser.BaseURL),
		source.WithWaitTimeout(wait),
		source.WithSettle(settle),
		source.WithVisible(settings.Browser.Visible),
		source.WithLogger(logging.New("browser")),
	}
	if settings.Browser.ChromePath != "" {
		opts = append(opts, source.WithExecPath(settings.Browser.ChromePath))
	}
	if settings.Browser.UserAgent != "" {
		opts = append(opts, source.WithUserAgent(settings.Browser.UserAgent))
	}
	b, err := source.NewBrowser(ctx, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("start browser: %w", err)
	}
	return b, b.Close, nil
}
