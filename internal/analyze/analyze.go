// Package analyze compares the case list and its history against fresh
// observations and decides, per case, what changed.
package analyze

import (
	"casetrack/internal/cases"
	"casetrack/internal/history"
)

// Outcome classifies a case after analysis.
type Outcome string

const (
	// New: the case has no key status rows and was observed this run.
	New Outcome = "new"
	// Updated: at least one observed key status is missing from, or differs
	// from, the history.
	Updated Outcome = "updated"
	// Unchanged: the history already holds every observed key status, or the
	// case was not observed this run.
	Unchanged Outcome = "unchanged"
	// NoHistory: the case has no key status rows and nothing was observed.
	NoHistory Outcome = "no_history"
)

// CaseResult is the analysis of one case.
type CaseResult struct {
	CaseID  string  `json:"case_id"`
	Outcome Outcome `json:"outcome"`
	// Observed is true when fresh records were supplied for the case.
	Observed bool `json:"observed"`
	// Appended holds the rows to add to the history file.
	Appended []history.Record `json:"appended,omitempty"`
	// Current is the key status view after Appended is applied.
	Current []history.Record `json:"current,omitempty"`
}

// Result is the analysis of a whole case list.
type Result struct {
	Cases []CaseResult `json:"cases"`
	// Orphans are identifiers present in the history but not in the list.
	Orphans []string `json:"orphans,omitempty"`
	// TrackedCases and KeyEntries describe the key status view of the whole
	// history after Appended rows are applied, orphans included.
	TrackedCases int `json:"tracked_cases"`
	KeyEntries   int `json:"key_entries"`
}

// Appended returns the rows to append for every case, in case order.
func (r *Result) Appended() []history.Record {
	var out []history.Record
	for _, c := range r.Cases {
		out = append(out, c.Appended...)
	}
	return out
}

// Changed returns the cases whose outcome is New or Updated.
func (r *Result) Changed() []CaseResult {
	var out []CaseResult
	for _, c := range r.Cases {
		if c.Outcome == New || c.Outcome == Updated {
			out = append(out, c)
		}
	}
	return out
}

// Count returns how many cases have outcome o.
func (r *Result) Count(o Outcome) int {
	n := 0
	for _, c := range r.Cases {
		if c.Outcome == o {
			n++
		}
	}
	return n
}

// Average returns key entries per tracked case, or 0 when nothing is tracked.
func (r *Result) Average() float64 {
	if r.TrackedCases == 0 {
		return 0
	}
	return float64(r.KeyEntries) / float64(r.TrackedCases)
}

// Analyze compares ids and h against observed, which maps a case id to the
// key status rows read for it this run (nil or missing means not observed).
// h is not modified. The result depends only on its inputs, and running
// Analyze again after appending Result.Appended to h yields Unchanged for
// every observed case.
func Analyze(ids cases.Set, h *history.History, observed map[string][]history.Record) *Result {
	res := &Result{}
	for _, id := range ids.Sorted() {
		res.Cases = append(res.Cases, analyzeCase(id, h.LatestByClass(id), observed[id]))
	}

	for _, id := range h.Cases() {
		if !ids.Has(id) {
			res.Orphans = append(res.Orphans, id)
		}
	}

	// Totals cover the whole history view, so orphans count as tracked.
	current := make(map[string]int)
	for _, id := range h.Cases() {
		current[id] = len(h.Latest(id))
	}
	for _, c := range res.Cases {
		current[c.CaseID] = len(c.Current)
	}
	for _, n := range current {
		if n > 0 {
			res.TrackedCases++
			res.KeyEntries += n
		}
	}
	return res
}

func analyzeCase(id string, existing map[string]history.Record, obs []history.Record) CaseResult {
	cr := CaseResult{CaseID: id, Observed: len(obs) > 0}

	switch {
	case !cr.Observed && len(existing) == 0:
		cr.Outcome = NoHistory
	case !cr.Observed:
		cr.Outcome = Unchanged
	case len(existing) == 0:
		cr.Outcome = New
		cr.Appended = append(cr.Appended, obs...)
	default:
		for _, r := range obs {
			if e, ok := existing[r.Class]; ok && e.SameStatus(r) {
				continue
			}
			cr.Appended = append(cr.Appended, r)
		}
		cr.Outcome = Unchanged
		if len(cr.Appended) > 0 {
			cr.Outcome = Updated
		}
	}

	merged := make(map[string]history.Record, len(existing)+len(cr.Appended))
	for class, r := range existing {
		merged[class] = r
	}
	for _, r := range cr.Appended {
		merged[r.Class] = r
	}
	for _, r := range merged {
		cr.Current = append(cr.Current, r)
	}
	history.SortRecords(cr.Current)
	return cr
}

// Classes returns the status types of recs, in order.
func Classes(recs []history.Record) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.Class
	}
	return out
}
