package main

import (
	"github.com/spf13/cobra"

	"casetrack/internal/analyze"
	"casetrack/internal/report"
)

func newAnalyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze",
		Short: "Compare the case list against the history without fetching anything",
		Long: `Loads the case list and the history file and reports, for each listed case,
its key status entries, plus totals and history cases missing from the list.
Nothing is fetched and nothing is written. Output is identical across runs on
unchanged inputs.`,
		Args: cobra.NoArgs,
		RunE: runAnalyze,
	}
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	ids, h, err := loadInputs()
	if err != nil {
		return err
	}
	res := analyze.Analyze(ids, h, nil)
	return report.Write(cmd.OutOrStdout(), newReport(res, h, nil), outputMode())
}
