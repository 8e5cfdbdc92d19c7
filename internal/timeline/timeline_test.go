package timeline

import "testing"

func TestParseDate(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Mar 17, 2025", "2025-03-17"},
		{"March 17, 2025", "2025-03-17"},
		{"MAY 9, 2025", "2025-05-09"},
		{"Oct 2, 2025", "2025-10-02"},
		{"September 30, 2024", "2024-09-30"},
		{"2025-03-17", "2025-03-17"},
		{"03/17/2025", "2025-03-17"},
		{"3/17/2025", "2025-03-17"},
		{"3/7/2025", "2025-03-07"},
		{"12/1/2024", "2024-12-01"},
		{"  Mar   17,  2025 ", "2025-03-17"},
		{"May 9 2025", "2025-05-09"},
		{"Mar 17,2025", "2025-03-17"},
		{"sometime soon", "sometime soon"},
	}
	for _, c := range cases {
		if got := ParseDate(c.in); got != c.want {
			t.Errorf("ParseDate(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestValidDate(t *testing.T) {
	if !ValidDate("2025-01-02") {
		t.Error("2025-01-02 should be valid")
	}
	for _, s := range []string{"", "2025-1-2", "Mar 17, 2025", "2025-01-02 10:00"} {
		if ValidDate(s) {
			t.Errorf("ValidDate(%q) = true, want false", s)
		}
	}
}

func TestIsInterviewCancelled(t *testing.T) {
	for _, s := range []string{"Interview Cancelled", "interview was canceled", "INTERVIEW CANCELLED AND WILL BE RESCHEDULED"} {
		if !IsInterviewCancelled(s) {
			t.Errorf("IsInterviewCancelled(%q) = false", s)
		}
	}
	for _, s := range []string{"Interview Was Scheduled", "Case Was Cancelled"} {
		if IsInterviewCancelled(s) {
			t.Errorf("IsInterviewCancelled(%q) = true", s)
		}
	}
}
