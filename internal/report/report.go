// Package report renders analysis results for the terminal, Markdown, or
// JSON consumers.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"casetrack/internal/analyze"
	"casetrack/internal/display"
	"casetrack/internal/format"
	"casetrack/internal/history"
)

const (
	statusWidth = 60
	errorLength = 200
)

// Unavailable records a case whose timeline could not be read this run.
type Unavailable struct {
	CaseID string `json:"case_id"`
	Error  string `json:"error"`
}

// Report bundles an analysis result with the context it was produced in.
type Report struct {
	Result *analyze.Result
	// CheckedAt and RunID are set for tracking runs and empty for offline
	// analysis, which keeps offline output identical across runs.
	CheckedAt   string
	RunID       string
	HistoryPath string
	Appended    int
	DryRun      bool
	// Elapsed is the wall time of the tracking run. It is left out of JSON
	// output.
	Elapsed     time.Duration
	Unavailable []Unavailable
	Skipped     []*history.MalformedRowError
}

// Write renders rep to w in the given mode.
func Write(w io.Writer, rep *Report, mode format.Mode) error {
	if mode == format.JSON {
		return writeJSON(w, rep)
	}
	p := &printer{w: w, mode: mode}
	p.summary(rep)
	p.changes(rep)
	p.keyStatuses(rep.Result.Cases)
	p.unavailable(rep.Unavailable)
	p.orphans(rep.Result.Orphans)
	p.skipped(rep.Skipped)
	p.footer(rep)
	return p.err
}

type jsonReport struct {
	CheckedAt   string          `json:"checked_at,omitempty"`
	RunID       string          `json:"run_id,omitempty"`
	History     string          `json:"history,omitempty"`
	Appended    int             `json:"appended"`
	DryRun      bool            `json:"dry_run,omitempty"`
	Average     float64         `json:"average_entries_per_case"`
	Result      *analyze.Result `json:"result"`
	Unavailable []Unavailable   `json:"unavailable,omitempty"`
	Skipped     []skippedRow    `json:"skipped_rows,omitempty"`
}

type skippedRow struct {
	Line  int    `json:"line"`
	Error string `json:"error"`
}

func writeJSON(w io.Writer, rep *Report) error {
	out := jsonReport{
		CheckedAt:   rep.CheckedAt,
		RunID:       rep.RunID,
		History:     rep.HistoryPath,
		Appended:    rep.Appended,
		DryRun:      rep.DryRun,
		Average:     rep.Result.Average(),
		Result:      rep.Result,
		Unavailable: rep.Unavailable,
	}
	for _, s := range rep.Skipped {
		out.Skipped = append(out.Skipped, skippedRow{Line: s.Line, Error: s.Error()})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// printer writes sections and remembers the first write error.
type printer struct {
	w    io.Writer
	mode format.Mode
	err  error
}

func (p *printer) printf(f string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, f, args...)
}

func (p *printer) heading(title string) {
	if p.mode == format.Markdown {
		p.printf("\n## %s\n\n", title)
		return
	}
	p.printf("\n%s\n", title)
}

func (p *printer) table(tb format.TableBuilder) {
	p.printf("%s\n", tb.String())
}

func (p *printer) summary(rep *Report) {
	title := "Summary"
	if rep.CheckedAt != "" {
		title = fmt.Sprintf("Summary (%s)", rep.CheckedAt)
	}
	p.heading(title)
	res := rep.Result

	tb := format.NewTable(p.mode)
	tb.Header("Metric", "Value")
	tb.Columns(format.ColumnConfig{Number: 2, Align: format.AlignRight})
	tb.Row("Cases in list", len(res.Cases))
	tb.Row("Cases tracked", res.TrackedCases)
	tb.Row("Key status entries", res.KeyEntries)
	tb.Row("Average entries per case", fmt.Sprintf("%.1f", res.Average()))
	for _, o := range []analyze.Outcome{analyze.New, analyze.Updated, analyze.Unchanged, analyze.NoHistory} {
		tb.Row(display.Outcome(string(o)), res.Count(o))
	}
	p.table(tb)
}

func (p *printer) changes(rep *Report) {
	changed := rep.Result.Changed()
	p.heading("Cases with new key status entries")
	if len(changed) == 0 {
		p.printf("No new key status entries detected\n")
		return
	}
	tb := format.NewTable(p.mode)
	tb.Header("", "Case", "Outcome", "Entries", "Status types")
	total := 0
	for _, c := range changed {
		tb.Row(display.OutcomeMark(string(c.Outcome)), c.CaseID, display.Outcome(string(c.Outcome)),
			len(c.Appended), display.StatusTypes(analyze.Classes(c.Appended)))
		total += len(c.Appended)
	}
	if tb.Len() > 1 {
		tb.Footer("", "Total", format.Plural(tb.Len(), "case", "cases"), total, "")
	}
	p.table(tb)
}

func (p *printer) keyStatuses(results []analyze.CaseResult) {
	p.heading("Key status summary")
	if len(results) == 0 {
		p.printf("No cases in list\n")
		return
	}
	tb := format.NewTable(p.mode)
	tb.Header("Case", "Type", "Date", "Status")
	tb.Columns(format.ColumnConfig{Number: 4, MaxWidth: statusWidth})
	for _, c := range results {
		if len(c.Current) == 0 {
			tb.Row(c.CaseID, "-", "-", "No key status entries found")
			continue
		}
		for i, r := range c.Current {
			id := c.CaseID
			if i > 0 && p.mode != format.Markdown {
				id = ""
			}
			tb.Row(id, display.StatusType(r.Class), r.StatusDate, r.Status)
		}
	}
	p.table(tb)
}

func (p *printer) unavailable(list []Unavailable) {
	if len(list) == 0 {
		return
	}
	p.heading("Could not get timeline")
	tb := format.NewTable(p.mode)
	tb.Header("Case", "Error")
	tb.Columns(format.ColumnConfig{Number: 2, MaxWidth: statusWidth})
	for _, u := range list {
		tb.Row(u.CaseID, format.Truncate(u.Error, errorLength))
	}
	p.table(tb)
}

func (p *printer) orphans(ids []string) {
	if len(ids) == 0 {
		return
	}
	p.heading("History entries for cases not in the list")
	p.printf("%s: %s\n", format.Plural(len(ids), "case", "cases"), strings.Join(ids, ", "))
}

func (p *printer) skipped(rows []*history.MalformedRowError) {
	if len(rows) == 0 {
		return
	}
	p.heading("Skipped history rows")
	for _, r := range rows {
		p.printf("- %s\n", r.Error())
	}
}

func (p *printer) footer(rep *Report) {
	if rep.HistoryPath == "" || rep.CheckedAt == "" {
		return
	}
	if rep.Elapsed > 0 {
		p.printf("\nChecked %s in %s\n", format.Plural(len(rep.Result.Cases), "case", "cases"), format.FmtDuration(rep.Elapsed))
	}
	switch {
	case rep.DryRun:
		p.printf("\nDry run: %s not written to %s\n", format.Plural(rep.Appended, "entry", "entries"), rep.HistoryPath)
	case rep.Appended == 0:
		p.printf("\nNo new key status entries to add to %s\n", rep.HistoryPath)
	default:
		p.printf("\nAdded %s to %s\n", format.Plural(rep.Appended, "key status entry", "key status entries"), rep.HistoryPath)
	}
}
