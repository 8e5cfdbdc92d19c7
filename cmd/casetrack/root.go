package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"casetrack/internal/config"
	"casetrack/internal/logging"
)

var rootFlags struct {
	configPath string
	cases      string
	history    string
	strict     bool
	output     string
	logLevel   string
	logFormat  string
}

// settings is the effective configuration, resolved before every command.
var settings *config.Config

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "casetrack",
		Short: "Track status changes across a list of similar cases",
		Long: `casetrack reads case identifiers from a list file, checks each case's
processing timeline, and appends new key status entries (case received,
interview cancelled, last status) to an append-only CSV history.

Run without a subcommand to perform a tracking run.`,
		Version:           version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: resolveSettings,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&rootFlags.configPath, "config", "", "Config file (YAML, TOML or JSON); default: casetrack.{yaml,yml,toml,json} in the working directory")
	pf.StringVar(&rootFlags.cases, "cases", config.DefaultCasesFile, "Case list file, one identifier per line")
	pf.StringVar(&rootFlags.history, "history", config.DefaultHistoryFile, "History CSV file")
	pf.BoolVar(&rootFlags.strict, "strict", false, "Fail on malformed history rows instead of skipping them")
	pf.StringVarP(&rootFlags.output, "output", "o", "ascii", "Output format: ascii, markdown or json")
	pf.StringVar(&rootFlags.logLevel, "log-level", "info", "Log level: debug, info, warn or error")
	pf.StringVar(&rootFlags.logFormat, "log-format", "text", "Log format: text or json")

	track := newTrackCmd()
	root.RunE = track.RunE
	root.Flags().AddFlagSet(track.Flags())

	root.AddCommand(track)
	root.AddCommand(newAnalyzeCmd())
	root.AddCommand(newHistoryCmd())
	root.AddCommand(newCompactCmd())
	root.AddCommand(newServeCmd())
	return root
}

// resolveSettings layers defaults, config file, .env and environment, then
// explicitly set flags, and configures logging.
func resolveSettings(cmd *cobra.Command, _ []string) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	cfg, err := config.Load(rootFlags.configPath, ".")
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("cases") {
		cfg.Cases = rootFlags.cases
	}
	if flags.Changed("history") {
		cfg.History = rootFlags.history
	}
	if flags.Changed("strict") {
		cfg.Strict = rootFlags.strict
	}
	if flags.Changed("output") {
		cfg.Output = rootFlags.output
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = rootFlags.logLevel
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = rootFlags.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	level, _ := logging.ParseLevel(cfg.Log.Level)
	logging.Init(level, cfg.Log.Format, cmd.ErrOrStderr())
	slog.Debug("configuration resolved", "cases", cfg.Cases, "history", cfg.History, "strict", cfg.Strict, "output", cfg.Output)

	settings = cfg
	return nil
}
