package main

import (
	"github.com/spf13/cobra"

	"casetrack/internal/history"
	"casetrack/internal/report"
)

var historyFlags struct {
	all bool
	csv bool
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [id...]",
		Short: "Show stored key status entries",
		Long: `Shows the current key status entries of the given cases, or of every case
in the history file when no id is given. With --all, every stored row is shown,
superseded ones included. With --csv, the selected rows are written as CSV
under the history file's header.`,
		RunE: runHistory,
	}
	cmd.Flags().BoolVar(&historyFlags.all, "all", false, "Show every stored row, not just the current entries")
	cmd.Flags().BoolVar(&historyFlags.csv, "csv", false, "Write the selected rows as CSV instead of a report")
	return cmd
}

func runHistory(cmd *cobra.Command, args []string) error {
	h, err := loadHistory()
	if err != nil {
		return err
	}
	ids := args
	if len(ids) == 0 {
		ids = h.Cases()
	}
	list := report.BuildHistory(h, ids, historyFlags.all)
	if historyFlags.csv {
		var recs []history.Record
		for _, ch := range list {
			if historyFlags.all {
				recs = append(recs, ch.Rows...)
			} else {
				recs = append(recs, ch.Latest...)
			}
		}
		return history.Write(cmd.OutOrStdout(), history.UpgradedColumns(h.Columns), recs)
	}
	return report.WriteHistory(cmd.OutOrStdout(), list, outputMode())
}
