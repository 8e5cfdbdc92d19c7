package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"casetrack/internal/analyze"
	"casetrack/internal/cases"
	"casetrack/internal/format"
	"casetrack/internal/history"
)

func sampleResult() *analyze.Result {
	h := history.New("h.csv")
	h.Add(history.Record{CaseID: "A", Status: "Case Was Received", StatusDate: "Jan 5, 2024", Class: history.ClassCaseReceived})
	h.Add(history.Record{CaseID: "Z", Status: "Case Was Received", StatusDate: "Feb 1, 2024", Class: history.ClassCaseReceived})
	observed := map[string][]history.Record{
		"A": {
			{CaseID: "A", Status: "Case Was Received", StatusDate: "Jan 5, 2024", Class: history.ClassCaseReceived},
			{CaseID: "A", Status: "Case Was Approved", StatusDate: "Mar 9, 2024", Class: history.ClassLastStatus},
		},
	}
	return analyze.Analyze(cases.NewSet("A", "B"), h, observed)
}

func render(t *testing.T, rep *Report, mode format.Mode) string {
	t.Helper()
	var buf bytes.Buffer
	if err := Write(&buf, rep, mode); err != nil {
		t.Fatalf("Write: %v", err)
	}
	return buf.String()
}

func TestWrite_ASCIISections(t *testing.T) {
	out := render(t, &Report{Result: sampleResult()}, format.ASCII)
	for _, want := range []string{
		"Summary",
		"Cases with new key status entries",
		"Case Was Approved",
		"Last Status",
		"No key status entries found",
		"History entries for cases not in the list",
		"1 case: Z",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Summary (") {
		t.Errorf("offline report should not carry a timestamp:\n%s", out)
	}
}

func TestWrite_OfflineIsDeterministic(t *testing.T) {
	a := render(t, &Report{Result: sampleResult()}, format.ASCII)
	b := render(t, &Report{Result: sampleResult()}, format.ASCII)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("output differs between runs (-first +second):\n%s", diff)
	}
}

func TestWrite_NoChanges(t *testing.T) {
	res := analyze.Analyze(cases.NewSet("B"), history.New(""), nil)
	out := render(t, &Report{Result: res}, format.ASCII)
	if !strings.Contains(out, "No new key status entries detected") {
		t.Errorf("expected no-change message:\n%s", out)
	}
}

func TestWrite_Markdown(t *testing.T) {
	out := render(t, &Report{
		Result:      sampleResult(),
		CheckedAt:   "2024-03-10 08:00:00",
		HistoryPath: "h.csv",
		Appended:    1,
	}, format.Markdown)
	for _, want := range []string{
		"## Summary (2024-03-10 08:00:00)",
		"| Case |",
		"Added 1 key status entry to h.csv",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestWrite_DryRunFooter(t *testing.T) {
	out := render(t, &Report{
		Result:      sampleResult(),
		CheckedAt:   "2024-03-10 08:00:00",
		HistoryPath: "h.csv",
		Appended:    2,
		DryRun:      true,
	}, format.ASCII)
	if !strings.Contains(out, "Dry run: 2 entries not written to h.csv") {
		t.Errorf("missing dry-run footer:\n%s", out)
	}
}

func TestWrite_UnavailableAndSkipped(t *testing.T) {
	out := render(t, &Report{
		Result:      sampleResult(),
		Unavailable: []Unavailable{{CaseID: "B", Error: "no timeline"}},
		Skipped:     []*history.MalformedRowError{{Path: "h.csv", Line: 4, Fields: 2, Want: 5}},
	}, format.ASCII)
	for _, want := range []string{"Could not get timeline", "no timeline", "Skipped history rows", "h.csv"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestWrite_JSON(t *testing.T) {
	out := render(t, &Report{Result: sampleResult(), RunID: "run-1"}, format.JSON)

	var got struct {
		RunID   string  `json:"run_id"`
		Average float64 `json:"average_entries_per_case"`
		Result  struct {
			Cases []struct {
				CaseID  string `json:"case_id"`
				Outcome string `json:"outcome"`
			} `json:"cases"`
			Orphans []string `json:"orphans"`
		} `json:"result"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if got.RunID != "run-1" {
		t.Errorf("run_id = %q", got.RunID)
	}
	var outcomes []string
	for _, c := range got.Result.Cases {
		outcomes = append(outcomes, c.CaseID+"="+c.Outcome)
	}
	if diff := cmp.Diff([]string{"A=updated", "B=no_history"}, outcomes); diff != "" {
		t.Errorf("outcomes (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Z"}, got.Result.Orphans); diff != "" {
		t.Errorf("orphans (-want +got):\n%s", diff)
	}
}

func TestWriteHistory(t *testing.T) {
	h := history.New("h.csv")
	h.Add(
		history.Record{CaseID: "A", Status: "Case Was Received", StatusDate: "Jan 5, 2024", Class: history.ClassCaseReceived, ScrapedAt: "2024-01-06 10:00:00"},
		history.Record{CaseID: "A", Status: "Fingerprint Taken", StatusDate: "Feb 1, 2024", Class: history.ClassLastStatus, ScrapedAt: "2024-02-02 10:00:00"},
		history.Record{CaseID: "A", Status: "Case Was Approved", StatusDate: "Mar 9, 2024", Class: history.ClassLastStatus, ScrapedAt: "2024-03-10 10:00:00"},
	)

	latest := BuildHistory(h, []string{"A", "B"}, false)
	if len(latest[0].Latest) != 2 || latest[0].Rows != nil {
		t.Fatalf("latest view = %+v", latest[0])
	}
	var buf bytes.Buffer
	if err := WriteHistory(&buf, latest, format.ASCII); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if strings.Contains(out, "Fingerprint Taken") {
		t.Errorf("superseded row shown without --all:\n%s", out)
	}
	if !strings.Contains(out, "No key status entries found") {
		t.Errorf("missing empty-case message:\n%s", out)
	}

	all := BuildHistory(h, []string{"A"}, true)
	buf.Reset()
	if err := WriteHistory(&buf, all, format.ASCII); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "Fingerprint Taken") {
		t.Errorf("--all should include superseded rows:\n%s", buf.String())
	}
	if !strings.Contains(buf.String(), "Last Status (last_status)") {
		t.Errorf("--all should show raw type codes:\n%s", buf.String())
	}
}

func TestWrite_ChangesTotal(t *testing.T) {
	observed := map[string][]history.Record{
		"A": {{CaseID: "A", Status: "Case Was Received", StatusDate: "Jan 5, 2024", Class: history.ClassCaseReceived}},
		"B": {
			{CaseID: "B", Status: "Case Was Received", StatusDate: "Jan 6, 2024", Class: history.ClassCaseReceived},
			{CaseID: "B", Status: "Case Was Approved", StatusDate: "Mar 9, 2024", Class: history.ClassLastStatus},
		},
	}
	res := analyze.Analyze(cases.NewSet("A", "B"), history.New(""), observed)
	out := strings.ToUpper(render(t, &Report{Result: res}, format.ASCII))
	if !strings.Contains(out, "TOTAL") || !strings.Contains(out, "2 CASES") {
		t.Errorf("changes table missing total footer:\n%s", out)
	}

	single := strings.ToUpper(render(t, &Report{Result: sampleResult()}, format.ASCII))
	if strings.Contains(single, "TOTAL") {
		t.Errorf("single change should not get a total footer:\n%s", single)
	}
}

func TestWrite_TruncatesLongErrors(t *testing.T) {
	long := strings.Repeat("x", errorLength+50)
	rep := &Report{Result: sampleResult(), Unavailable: []Unavailable{{CaseID: "B", Error: long}}}

	out := render(t, rep, format.Markdown)
	if got := strings.Count(out, "x"); got >= len(long) {
		t.Errorf("error text was not truncated, %d of %d characters shown:\n%s", got, len(long), out)
	}
	if !strings.Contains(out, "...") {
		t.Errorf("truncated error should end in an ellipsis:\n%s", out)
	}

	js := render(t, rep, format.JSON)
	if !strings.Contains(js, long) {
		t.Error("JSON output should keep the full error")
	}
}

func TestWrite_ElapsedFooter(t *testing.T) {
	rep := &Report{
		Result:      sampleResult(),
		CheckedAt:   "2024-03-10 08:00:00",
		HistoryPath: "h.csv",
		Elapsed:     75 * time.Second,
	}
	if out := render(t, rep, format.ASCII); !strings.Contains(out, "Checked 2 cases in 1m 15s") {
		t.Errorf("missing elapsed footer:\n%s", out)
	}
	if out := render(t, rep, format.JSON); strings.Contains(out, "1m 15s") || strings.Contains(out, "elapsed") {
		t.Errorf("JSON output should not carry wall time:\n%s", out)
	}
	rep.Elapsed = 0
	if out := render(t, rep, format.ASCII); strings.Contains(out, "Checked 2 cases") {
		t.Errorf("elapsed footer shown without a duration:\n%s", out)
	}
}
