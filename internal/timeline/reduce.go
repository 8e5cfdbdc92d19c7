package timeline

import (
	"sort"

	"casetrack/internal/history"
)

// Reduce converts a case timeline to at most three key status rows:
//
//   - case_received: the earliest entry that is not an interview cancellation
//   - interview_cancelled: the earliest interview cancellation
//   - last_status: the latest entry
//
// Entries without a YYYY-MM-DD date are ignored. A row whose (date, status)
// was already emitted under an earlier type is not repeated, so a timeline
// with a single entry yields a single row.
func Reduce(entries []Entry, caseID, checkedAt, runID string) []history.Record {
	var valid []Entry
	for _, e := range entries {
		if ValidDate(e.Date) {
			valid = append(valid, e)
		}
	}
	if len(valid) == 0 {
		return nil
	}
	sort.SliceStable(valid, func(i, j int) bool { return valid[i].Date < valid[j].Date })

	var received, cancelled *Entry
	for i := range valid {
		e := &valid[i]
		if IsInterviewCancelled(e.Status) {
			if cancelled == nil {
				cancelled = e
			}
		} else if received == nil {
			received = e
		}
	}
	last := &valid[len(valid)-1]

	var out []history.Record
	emitted := make(map[Entry]bool)
	emit := func(e *Entry, class string) {
		if e == nil || emitted[*e] {
			return
		}
		emitted[*e] = true
		out = append(out, history.Record{
			CaseID:     caseID,
			Status:     e.Status,
			StatusDate: e.Date,
			Class:      class,
			ScrapedAt:  checkedAt,
			RunID:      runID,
		})
	}
	emit(received, history.ClassCaseReceived)
	emit(cancelled, history.ClassInterviewCancelled)
	emit(last, history.ClassLastStatus)
	return out
}
