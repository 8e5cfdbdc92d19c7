package main

import (
	"casetrack/internal/analyze"
	"casetrack/internal/cases"
	"casetrack/internal/format"
	"casetrack/internal/history"
	"casetrack/internal/logging"
	"casetrack/internal/report"
	"casetrack/internal/track"
)

// loadInputs reads the case list and the history named by settings.
// Malformed history rows are logged once each when not strict.
func loadInputs() (cases.Set, *history.History, error) {
	ids, err := cases.Load(settings.Cases)
	if err != nil {
		return nil, nil, err
	}
	h, err := loadHistory()
	if err != nil {
		return nil, nil, err
	}
	if ids.Len() == 0 {
		logging.New("cases").Warn("case list is empty", "path", settings.Cases)
	}
	return ids, h, nil
}

func loadHistory() (*history.History, error) {
	h, err := history.Load(settings.History, history.WithStrict(settings.Strict))
	if err != nil {
		return nil, err
	}
	logger := logging.New("history")
	for _, row := range h.Skipped {
		logger.Warn("skipped malformed row", "line", row.Line, "error", row)
	}
	logger.Debug("history loaded", "path", h.Path, "exists", h.Exists, "rows", len(h.Records))
	return h, nil
}

func outputMode() format.Mode {
	m, _ := settings.OutputMode()
	return m
}

// newReport assembles the report of an analysis. run is nil for offline
// analysis.
func newReport(res *analyze.Result, h *history.History, run *track.Run) *report.Report {
	rep := &report.Report{
		Result:      res,
		HistoryPath: h.Path,
		Skipped:     h.Skipped,
	}
	if run == nil {
		return rep
	}
	rep.CheckedAt = run.Timestamp()
	rep.RunID = run.ID
	for _, o := range run.Failed() {
		rep.Unavailable = append(rep.Unavailable, report.Unavailable{CaseID: o.CaseID, Error: o.Err.Error()})
	}
	return rep
}
