package timeline

import (
	"testing"

	"casetrack/internal/history"

	"github.com/google/go-cmp/cmp"
)

func TestReduce_ThreeKeyTypes(t *testing.T) {
	entries := []Entry{
		{Date: "2025-05-09", Status: "Interview Cancelled"},
		{Date: "2025-01-10", Status: "Case Was Received"},
		{Date: "2025-04-02", Status: "Interview Was Scheduled"},
		{Date: "2025-06-20", Status: "Case Was Updated"},
		{Date: "not a date", Status: "Ignored"},
	}
	got := Reduce(entries, "A", "2025-07-01 12:00:00", "run-1")
	want := []history.Record{
		{CaseID: "A", Status: "Case Was Received", StatusDate: "2025-01-10", Class: history.ClassCaseReceived, ScrapedAt: "2025-07-01 12:00:00", RunID: "run-1"},
		{CaseID: "A", Status: "Interview Cancelled", StatusDate: "2025-05-09", Class: history.ClassInterviewCancelled, ScrapedAt: "2025-07-01 12:00:00", RunID: "run-1"},
		{CaseID: "A", Status: "Case Was Updated", StatusDate: "2025-06-20", Class: history.ClassLastStatus, ScrapedAt: "2025-07-01 12:00:00", RunID: "run-1"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Reduce mismatch (-want +got):\n%s", diff)
	}
}

func TestReduce_LastIsCancellationNotRepeated(t *testing.T) {
	entries := []Entry{
		{Date: "2025-01-10", Status: "Case Was Received"},
		{Date: "2025-05-09", Status: "Interview Canceled"},
	}
	got := Reduce(entries, "A", "ts", "")
	var classes []string
	for _, r := range got {
		classes = append(classes, r.Class)
	}
	want := []string{history.ClassCaseReceived, history.ClassInterviewCancelled}
	if diff := cmp.Diff(want, classes); diff != "" {
		t.Errorf("classes mismatch (-want +got):\n%s", diff)
	}
}

func TestReduce_SingleEntry(t *testing.T) {
	got := Reduce([]Entry{{Date: "2025-01-10", Status: "Case Was Received"}}, "A", "ts", "")
	if len(got) != 1 || got[0].Class != history.ClassCaseReceived {
		t.Errorf("expected one case_received row, got %+v", got)
	}
}

func TestReduce_OnlyCancellation(t *testing.T) {
	got := Reduce([]Entry{{Date: "2025-05-09", Status: "Interview Cancelled"}}, "A", "ts", "")
	if len(got) != 1 || got[0].Class != history.ClassInterviewCancelled {
		t.Errorf("expected one interview_cancelled row, got %+v", got)
	}
}

func TestReduce_NoValidDates(t *testing.T) {
	if got := Reduce([]Entry{{Date: "soon", Status: "x"}}, "A", "ts", ""); got != nil {
		t.Errorf("expected nil, got %+v", got)
	}
}

func TestReduce_AtMostOneRowPerType(t *testing.T) {
	var entries []Entry
	for _, d := range []string{"2025-01-01", "2025-02-01", "2025-03-01", "2025-04-01"} {
		entries = append(entries, Entry{Date: d, Status: "Interview Cancelled"}, Entry{Date: d, Status: "Case Was Updated"})
	}
	got := Reduce(entries, "A", "ts", "")
	seen := make(map[string]bool)
	for _, r := range got {
		if seen[r.Class] {
			t.Fatalf("duplicate class %s in %+v", r.Class, got)
		}
		seen[r.Class] = true
	}
	if len(got) != 3 {
		t.Errorf("rows = %d, want 3", len(got))
	}
}
