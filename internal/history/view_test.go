package history

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLatest_LastRowPerClassWins(t *testing.T) {
	h := New("")
	h.Add(
		Record{CaseID: "A", Class: ClassLastStatus, Status: "Case Was Updated", StatusDate: "2025-03-01"},
		Record{CaseID: "A", Class: ClassCaseReceived, Status: "Case Was Received", StatusDate: "2025-01-01"},
		Record{CaseID: "B", Class: ClassLastStatus, Status: "Card Was Produced", StatusDate: "2025-04-01"},
		Record{CaseID: "A", Class: ClassLastStatus, Status: "Case Was Approved", StatusDate: "2025-05-01"},
		Record{CaseID: "A", Class: ClassUnknown, Status: "old", StatusDate: "2024-01-01"},
	)

	want := []Record{
		{CaseID: "A", Class: ClassCaseReceived, Status: "Case Was Received", StatusDate: "2025-01-01"},
		{CaseID: "A", Class: ClassLastStatus, Status: "Case Was Approved", StatusDate: "2025-05-01"},
	}
	if diff := cmp.Diff(want, h.Latest("A")); diff != "" {
		t.Errorf("Latest mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"A", "B"}, h.Cases()); diff != "" {
		t.Errorf("Cases mismatch (-want +got):\n%s", diff)
	}
	if got := len(h.Rows("A")); got != 4 {
		t.Errorf("Rows(A) = %d rows, want 4", got)
	}
}

func TestCompact_BoundsRowsPerCase(t *testing.T) {
	h := New("")
	for _, d := range []string{"2025-02-01", "2025-03-01", "2025-04-01"} {
		h.Add(Record{CaseID: "A", Class: ClassLastStatus, Status: "s " + d, StatusDate: d})
	}
	h.Add(
		Record{CaseID: "A", Class: ClassCaseReceived, Status: "Case Was Received", StatusDate: "2025-01-01"},
		Record{CaseID: "A", Class: ClassInterviewCancelled, Status: "Interview Cancelled", StatusDate: "2025-03-15"},
		Record{CaseID: "0", Class: ClassUnknown, Status: "legacy"},
	)

	got := Compact(h)
	want := []Record{
		{CaseID: "A", Class: ClassCaseReceived, Status: "Case Was Received", StatusDate: "2025-01-01"},
		{CaseID: "A", Class: ClassInterviewCancelled, Status: "Interview Cancelled", StatusDate: "2025-03-15"},
		{CaseID: "A", Class: ClassLastStatus, Status: "s 2025-04-01", StatusDate: "2025-04-01"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Compact mismatch (-want +got):\n%s", diff)
	}
}

func TestSortRecords_StableOnTies(t *testing.T) {
	recs := []Record{
		{CaseID: "B", StatusDate: "2025-01-01", Class: ClassLastStatus},
		{CaseID: "A", StatusDate: "2025-01-01", Class: ClassLastStatus},
		{CaseID: "A", StatusDate: "2025-01-01", Class: ClassCaseReceived},
	}
	SortRecords(recs)
	var got []string
	for _, r := range recs {
		got = append(got, r.CaseID+"/"+r.Class)
	}
	want := "A/case_received A/last_status B/last_status"
	if strings.Join(got, " ") != want {
		t.Errorf("order = %v, want %s", got, want)
	}
}
