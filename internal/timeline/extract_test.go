package timeline

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

const historyPage = `IOE0912345678
FILED DATE
Jan 10, 2025
FORM I-485
HISTORY
MAY 9, 2025
Interview Cancelled And Will Be Rescheduled
Apr 2, 2025
Interview Was Scheduled
Jan 10, 2025
Case Was Received and A Receipt Notice Was Sent
Feb 1, 2025
Discover more
Mar 3, 2025
Name Was Updated
CASE NUMBER PATTERN
Jun 1, 2025
Case Was Approved
`

func TestExtract_HistorySection(t *testing.T) {
	got := Extract(historyPage)
	want := []Entry{
		{Date: "2025-01-10", Status: "Case Was Received"},
		{Date: "2025-05-09", Status: "Interview Cancelled"},
		{Date: "2025-04-02", Status: "Interview Was Scheduled"},
		{Date: "2025-03-03", Status: "Name Was Updated"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Extract mismatch (-want +got):\n%s", diff)
	}
}

func TestExtract_FallbackWhenHistoryMissing(t *testing.T) {
	page := "IOE0900000009\nYour case status: Card Was Produced\nOn Aug 14, 2025, we ordered your new card."
	got := Extract(page)
	want := []Entry{{Date: "2025-08-14", Status: "Card Was Produced"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Extract mismatch (-want +got):\n%s", diff)
	}
}

func TestExtract_EmptyPage(t *testing.T) {
	if got := Extract(""); len(got) != 0 {
		t.Errorf("expected no entries, got %v", got)
	}
}

func TestMatchStatus(t *testing.T) {
	cases := map[string]string{
		"Request For Evidence Was Sent": "Request for Evidence",
		"Card Was Mailed To Me":         "Card Was Mailed To Me",
		"Jan 2, 2025":                   "",
		"OK":                            "",
		"Discover related cases":        "",
	}
	for in, want := range cases {
		if got := matchStatus(in); got != want {
			t.Errorf("matchStatus(%q) = %q, want %q", in, got, want)
		}
	}
}
