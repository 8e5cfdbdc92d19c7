package history

import "fmt"

// MissingColumns returns the canonical columns absent from columns, in
// DefaultColumns order.
func MissingColumns(columns []string) []string {
	have := make(map[string]bool, len(columns))
	for _, c := range columns {
		have[c] = true
	}
	var missing []string
	for _, c := range DefaultColumns {
		if !have[c] {
			missing = append(missing, c)
		}
	}
	return missing
}

// UpgradedColumns returns columns followed by any missing canonical columns.
func UpgradedColumns(columns []string) []string {
	out := make([]string, 0, len(columns)+len(DefaultColumns))
	out = append(out, columns...)
	return append(out, MissingColumns(columns)...)
}

// Upgrade extends the header of h with the canonical columns it lacks and,
// if the file exists, rewrites it once under the new header. Existing rows
// keep their values, unrecognised columns included; rows loaded without a
// status type are written as unknown. It reports whether the file was
// rewritten.
//
// A history with skipped rows is not upgraded since the rewrite would drop
// them.
func Upgrade(h *History) (bool, error) {
	missing := MissingColumns(h.Columns)
	if len(missing) == 0 {
		return false, nil
	}
	if len(h.Skipped) > 0 {
		return false, fmt.Errorf("upgrade history header: %d malformed rows would be lost: %w", len(h.Skipped), h.Skipped[0])
	}
	columns := UpgradedColumns(h.Columns)
	if h.Exists {
		if err := WriteFile(h.Path, columns, h.Records); err != nil {
			return false, fmt.Errorf("upgrade history header: %w", err)
		}
	}
	h.Columns = columns
	return h.Exists, nil
}
