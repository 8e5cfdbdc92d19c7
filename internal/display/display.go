// Package display provides human-readable names for machine codes.
//
// Rule: code is for machines, words are for humans.
// Use these functions in CLI output and markdown reports.
// Keep raw codes for CSV columns, JSON fields and equality comparisons.
package display

import "strings"

// --- Status types ---

var statusTypes = map[string]string{
	"case_received":       "Case Received",
	"interview_cancelled": "Interview Cancelled",
	"last_status":         "Last Status",
	"unknown":             "Unclassified",
}

// StatusType returns the human-readable name for a status type code.
// Unknown codes are returned as-is.
func StatusType(code string) string {
	if name, ok := statusTypes[code]; ok {
		return name
	}
	return code
}

// StatusTypeWithCode returns "Case Received (case_received)" format.
func StatusTypeWithCode(code string) string {
	if name, ok := statusTypes[code]; ok {
		return name + " (" + code + ")"
	}
	return code
}

// StatusTypes converts a slice of codes to a comma-separated list of names.
// ["case_received", "last_status"] -> "Case Received, Last Status"
func StatusTypes(codes []string) string {
	names := make([]string, len(codes))
	for i, c := range codes {
		names[i] = StatusType(c)
	}
	return strings.Join(names, ", ")
}

// --- Outcomes ---

var outcomes = map[string]string{
	"new":        "New",
	"updated":    "Updated",
	"unchanged":  "Unchanged",
	"no_history": "No History",
}

var outcomeMarks = map[string]string{
	"new":        "+",
	"updated":    "~",
	"unchanged":  "=",
	"no_history": "?",
}

// Outcome returns the human-readable name for an analysis outcome.
func Outcome(code string) string {
	if name, ok := outcomes[code]; ok {
		return name
	}
	return code
}

// OutcomeMark returns a one-character marker for terminal tables:
// "+" new, "~" updated, "=" unchanged, "?" no history.
func OutcomeMark(code string) string {
	if m, ok := outcomeMarks[code]; ok {
		return m
	}
	return " "
}
