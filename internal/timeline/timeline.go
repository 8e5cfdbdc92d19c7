// Package timeline turns the rendered text of a case status page into dated
// status entries, and reduces those entries to the key status rows kept in
// the history.
package timeline

import (
	"regexp"
	"strings"
	"time"
)

// Entry is one dated status on a case timeline.
type Entry struct {
	Date   string `json:"date"`
	Status string `json:"status"`
}

// DateLayout is the normalised date format used for entries and history rows.
const DateLayout = "2006-01-02"

var dateLayouts = []string{
	"Jan 2, 2006",
	"January 2, 2006",
	DateLayout,
	"1/2/2006", // also accepts zero-padded month and day
	"Jan 2 2006",
	"January 2 2006",
	"Jan 2,2006",
	"January 2,2006",
}

var isoDate = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ParseDate normalises s to YYYY-MM-DD. Month names match case-insensitively.
// Input in no known layout is returned trimmed and unchanged.
func ParseDate(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(DateLayout)
		}
	}
	return s
}

// ValidDate reports whether s is already in YYYY-MM-DD form.
func ValidDate(s string) bool {
	return isoDate.MatchString(s)
}

// IsInterviewCancelled reports whether status describes a cancelled
// interview, in either spelling.
func IsInterviewCancelled(status string) bool {
	s := strings.ToLower(status)
	return strings.Contains(s, "interview") &&
		(strings.Contains(s, "cancelled") || strings.Contains(s, "canceled"))
}
