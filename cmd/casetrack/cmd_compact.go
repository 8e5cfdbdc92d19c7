package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"casetrack/internal/history"
	"casetrack/internal/logging"
)

var compactFlags struct {
	dryRun bool
}

func newCompactCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compact",
		Short: "Rewrite the history file keeping only current key status entries",
		Long: `Rewrites the history file so each case keeps one row per status type, the
most recent one. Unclassified and malformed rows are dropped. The file is
replaced atomically. This is the only command that rewrites existing rows.`,
		Args: cobra.NoArgs,
		RunE: runCompact,
	}
	cmd.Flags().BoolVar(&compactFlags.dryRun, "dry-run", false, "Report what would be removed without rewriting the file")
	return cmd
}

func runCompact(cmd *cobra.Command, _ []string) error {
	h, err := loadHistory()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if !h.Exists {
		fmt.Fprintf(out, "No history file at %s\n", h.Path)
		return nil
	}

	kept := history.Compact(h)
	removed := len(h.Records) - len(kept) + len(h.Skipped)
	if compactFlags.dryRun {
		fmt.Fprintf(out, "Dry run: would keep %d of %d rows in %s\n", len(kept), len(h.Records)+len(h.Skipped), h.Path)
		return nil
	}
	if err := history.WriteFile(h.Path, history.UpgradedColumns(h.Columns), kept); err != nil {
		return err
	}
	logging.New("history").Info("history compacted", "path", h.Path, "kept", len(kept), "removed", removed)
	fmt.Fprintf(out, "Kept %d rows, removed %d from %s\n", len(kept), removed, h.Path)
	return nil
}
