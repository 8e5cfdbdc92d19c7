package timeline

import (
	"regexp"
	"strings"
)

// StatusReceived is the status recorded for the filing date.
const StatusReceived = "Case Was Received"

// Keywords are the status phrases recognised on a status page. Order matters:
// the first keyword contained in a line wins.
var Keywords = []string{
	"Interview Cancelled",
	"Interview Canceled",
	"Interview Was Scheduled",
	"Card Was Delivered",
	"Card Was Produced",
	"Card Is Being Produced",
	"Case Was Approved",
	"Case Was Updated",
	"Request for Evidence",
	"Request For Initial Evidence Was Sent",
	"New Card Is Being Produced",
	"Case Was Received",
	"Case Was Received and A Receipt Notice Was Sent",
	"Fingerprint Fee Was Received",
	"Case Was Transferred",
	"Case Is Being Actively Reviewed By USCIS",
	"Biometrics Appointment Was Scheduled",
}

var (
	filedDateRe   = regexp.MustCompile(`(?i)FILED\s*DATE\s*\n?\s*([A-Za-z]+\s+\d+,?\s*\d{4})`)
	historyRe     = regexp.MustCompile(`(?is)HISTORY\s*\n(.*?)(?:CASE NUMBER PATTERN|Nearby Cases|$)`)
	dateLineRe    = regexp.MustCompile(`^([A-Za-z]+\s+\d+,?\s*\d{4})$`)
	fallbackRes   = compileFallbacks()
	minEntries    = 2
	minStatusLine = 4
)

func compileFallbacks() []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(Keywords))
	for i, kw := range Keywords {
		out[i] = regexp.MustCompile(`(?is)` + regexp.QuoteMeta(kw) + `.*?(?:On\s+)?([A-Za-z]+\s+\d+,?\s*\d{4})`)
	}
	return out
}

// Extract reads timeline entries from the visible text of a case page.
//
// The filing date becomes a "Case Was Received" entry. The HISTORY section
// is read as alternating date and status lines. When fewer than two entries
// are found, each known keyword followed by a date anywhere on the page is
// used instead. Duplicate (date, status) pairs are dropped.
func Extract(pageText string) []Entry {
	var entries []Entry
	seen := make(map[Entry]bool)
	add := func(e Entry) {
		if e.Date == "" || e.Status == "" || seen[e] {
			return
		}
		seen[e] = true
		entries = append(entries, e)
	}

	if m := filedDateRe.FindStringSubmatch(pageText); m != nil {
		add(Entry{Date: ParseDate(m[1]), Status: StatusReceived})
	}

	if m := historyRe.FindStringSubmatch(pageText); m != nil {
		lines := strings.Split(strings.TrimSpace(m[1]), "\n")
		for i := 0; i < len(lines); i++ {
			dm := dateLineRe.FindStringSubmatch(strings.TrimSpace(lines[i]))
			if dm == nil || i+1 >= len(lines) {
				continue
			}
			if status := matchStatus(strings.TrimSpace(lines[i+1])); status != "" {
				add(Entry{Date: ParseDate(dm[1]), Status: status})
			}
			i++
		}
	}

	if len(entries) < minEntries {
		for i, re := range fallbackRes {
			if m := re.FindStringSubmatch(pageText); m != nil {
				add(Entry{Date: ParseDate(m[1]), Status: Keywords[i]})
			}
		}
	}
	return entries
}

// matchStatus maps a status line to a known keyword, or accepts the line
// itself when it looks like a status rather than a date or page chrome.
func matchStatus(line string) string {
	lower := strings.ToLower(line)
	for _, kw := range Keywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			return kw
		}
	}
	if len(line) < minStatusLine || dateLineRe.MatchString(line) || strings.HasPrefix(line, "Discover") {
		return ""
	}
	return line
}
