package history

import "sort"

// Add appends records to the in-memory history.
func (h *History) Add(recs ...Record) {
	h.Records = append(h.Records, recs...)
}

// Rows returns every row for caseID in file order.
func (h *History) Rows(caseID string) []Record {
	var out []Record
	for _, r := range h.Records {
		if r.CaseID == caseID {
			out = append(out, r)
		}
	}
	return out
}

// Cases returns the distinct identifiers referenced by the history, sorted.
func (h *History) Cases() []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range h.Records {
		if !seen[r.CaseID] {
			seen[r.CaseID] = true
			out = append(out, r.CaseID)
		}
	}
	sort.Strings(out)
	return out
}

// Latest returns the key status view for caseID: the last row per status
// type, ordered case_received, interview_cancelled, last_status, then any
// other types alphabetically. Rows of type unknown are excluded.
func (h *History) Latest(caseID string) []Record {
	byClass := make(map[string]Record)
	for _, r := range h.Records {
		if r.CaseID != caseID || r.Class == ClassUnknown || r.Class == "" {
			continue
		}
		byClass[r.Class] = r
	}
	out := make([]Record, 0, len(byClass))
	for _, r := range byClass {
		out = append(out, r)
	}
	sortByClass(out)
	return out
}

// LatestByClass is Latest keyed by status type.
func (h *History) LatestByClass(caseID string) map[string]Record {
	out := make(map[string]Record)
	for _, r := range h.Latest(caseID) {
		out[r.Class] = r
	}
	return out
}

// Compact returns the key status view of every case, sorted by identifier
// then status date. Writing it back with WriteFile drops superseded and
// unknown-typed rows.
func Compact(h *History) []Record {
	var out []Record
	for _, id := range h.Cases() {
		out = append(out, h.Latest(id)...)
	}
	SortRecords(out)
	return out
}

// SortRecords orders records by identifier, status date, then status type.
func SortRecords(recs []Record) {
	sort.SliceStable(recs, func(i, j int) bool {
		a, b := recs[i], recs[j]
		if a.CaseID != b.CaseID {
			return a.CaseID < b.CaseID
		}
		if a.StatusDate != b.StatusDate {
			return a.StatusDate < b.StatusDate
		}
		return classRank(a.Class) < classRank(b.Class)
	})
}

func sortByClass(recs []Record) {
	sort.Slice(recs, func(i, j int) bool {
		ri, rj := classRank(recs[i].Class), classRank(recs[j].Class)
		if ri != rj {
			return ri < rj
		}
		return recs[i].Class < recs[j].Class
	})
}
