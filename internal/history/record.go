// Package history reads and appends the similar-cases history CSV.
//
// The file is an append-only log: each run adds rows and never rewrites old
// ones. The "key status view" (Latest) collapses it to the newest row per
// case and status type.
package history

import "strings"

// Status types assigned by timeline reduction.
const (
	ClassCaseReceived       = "case_received"
	ClassInterviewCancelled = "interview_cancelled"
	ClassLastStatus         = "last_status"

	// ClassUnknown marks rows from files written before the status_type
	// column existed. They are kept on load but excluded from Latest.
	ClassUnknown = "unknown"
)

// Canonical column names, in the order new files are written.
const (
	ColCaseID     = "receipt_number"
	ColStatus     = "status"
	ColStatusDate = "status_date"
	ColClass      = "status_type"
	ColScrapedAt  = "scraped_at"
	ColRunID      = "run_id"
)

// DefaultColumns is the header written to a new history file.
var DefaultColumns = []string{ColCaseID, ColStatus, ColStatusDate, ColClass, ColScrapedAt, ColRunID}

var columnAliases = map[string]string{
	"receipt_number": ColCaseID,
	"id":             ColCaseID,
	"case":           ColCaseID,
	"case_id":        ColCaseID,
	"identifier":     ColCaseID,
	"status":         ColStatus,
	"status_date":    ColStatusDate,
	"date":           ColStatusDate,
	"status_type":    ColClass,
	"class":          ColClass,
	"classification": ColClass,
	"scraped_at":     ColScrapedAt,
	"ts":             ColScrapedAt,
	"timestamp":      ColScrapedAt,
	"checked_at":     ColScrapedAt,
	"run_id":         ColRunID,
	"run":            ColRunID,
}

// canonicalColumn returns the canonical name for a header cell. Unrecognised
// cells keep their trimmed name.
func canonicalColumn(name string) string {
	name = strings.TrimSpace(name)
	if c, ok := columnAliases[strings.ToLower(name)]; ok {
		return c
	}
	return name
}

// Record is one history row: a case, one of its statuses, and when it was
// observed.
type Record struct {
	CaseID     string `json:"receipt_number"`
	Status     string `json:"status,omitempty"`
	StatusDate string `json:"status_date,omitempty"`
	Class      string `json:"status_type"`
	ScrapedAt  string `json:"scraped_at,omitempty"`
	RunID      string `json:"run_id,omitempty"`
	// Extra holds values of unrecognised columns, keyed by header name, so
	// rewriting the file keeps them.
	Extra map[string]string `json:"-"`
}

// SameStatus reports whether r and o describe the same status on the same
// date. Observation metadata (ScrapedAt, RunID) is ignored.
func (r Record) SameStatus(o Record) bool {
	return r.Status == o.Status && r.StatusDate == o.StatusDate
}

func (r Record) field(col string) string {
	switch col {
	case ColCaseID:
		return r.CaseID
	case ColStatus:
		return r.Status
	case ColStatusDate:
		return r.StatusDate
	case ColClass:
		return r.Class
	case ColScrapedAt:
		return r.ScrapedAt
	case ColRunID:
		return r.RunID
	}
	return r.Extra[col]
}

func (r *Record) set(col, v string) {
	switch col {
	case ColCaseID:
		r.CaseID = v
	case ColStatus:
		r.Status = v
	case ColStatusDate:
		r.StatusDate = v
	case ColClass:
		r.Class = v
	case ColScrapedAt:
		r.ScrapedAt = v
	case ColRunID:
		r.RunID = v
	case "":
	default:
		if r.Extra == nil {
			r.Extra = make(map[string]string)
		}
		r.Extra[col] = v
	}
}

// classRank orders the standard status types ahead of custom ones.
func classRank(class string) int {
	switch class {
	case ClassCaseReceived:
		return 0
	case ClassInterviewCancelled:
		return 1
	case ClassLastStatus:
		return 2
	}
	return 3
}
