package report

import (
	"encoding/json"
	"io"

	"casetrack/internal/display"
	"casetrack/internal/format"
	"casetrack/internal/history"
)

// CaseHistory is the stored history of one case.
type CaseHistory struct {
	CaseID string           `json:"case_id"`
	Latest []history.Record `json:"latest"`
	Rows   []history.Record `json:"rows,omitempty"`
}

// BuildHistory collects the stored rows of each id. Every row is included
// when all is true; otherwise only the key status view.
func BuildHistory(h *history.History, ids []string, all bool) []CaseHistory {
	out := make([]CaseHistory, 0, len(ids))
	for _, id := range ids {
		ch := CaseHistory{CaseID: id, Latest: h.Latest(id)}
		if all {
			ch.Rows = h.Rows(id)
		}
		out = append(out, ch)
	}
	return out
}

// WriteHistory renders stored case histories.
func WriteHistory(w io.Writer, list []CaseHistory, mode format.Mode) error {
	if mode == format.JSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(list)
	}
	p := &printer{w: w, mode: mode}
	for _, ch := range list {
		p.heading(ch.CaseID)
		rows, typeName := ch.Latest, display.StatusType
		if ch.Rows != nil {
			// Every stored row is shown, so keep the raw type code visible.
			rows, typeName = ch.Rows, display.StatusTypeWithCode
		}
		tb := format.NewTable(mode)
		tb.Header("Type", "Date", "Status", "Checked")
		tb.Columns(format.ColumnConfig{Number: 3, MaxWidth: statusWidth})
		for _, r := range rows {
			tb.Row(typeName(r.Class), r.StatusDate, r.Status, r.ScrapedAt)
		}
		if tb.Len() == 0 {
			p.printf("No key status entries found\n")
			continue
		}
		p.table(tb)
	}
	return p.err
}
