package history

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// AppendFile appends recs to the CSV at path, laying fields out in the order
// of columns (the file's existing header). A new or empty file gets the
// header first. Existing rows are never touched.
func AppendFile(path string, columns []string, recs []Record) error {
	if len(columns) == 0 {
		columns = DefaultColumns
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open history for append: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("stat history: %w", err)
	}

	if err := write(f, columns, recs, info.Size() == 0); err != nil {
		_ = f.Close()
		return fmt.Errorf("append history: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close history: %w", err)
	}
	return nil
}

// WriteFile replaces the CSV at path with recs under the given header. The
// new content is written to a temporary file in the same directory and
// renamed into place, keeping the permissions of any file it replaces.
func WriteFile(path string, columns []string, recs []Record) error {
	if len(columns) == 0 {
		columns = DefaultColumns
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp history: %w", err)
	}
	defer os.Remove(tmp.Name())
	if info, err := os.Stat(path); err == nil {
		if err := tmp.Chmod(info.Mode().Perm()); err != nil {
			_ = tmp.Close()
			return fmt.Errorf("chmod temp history: %w", err)
		}
	}

	if err := write(tmp, columns, recs, true); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write history: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp history: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace history: %w", err)
	}
	return nil
}

// Write encodes recs as CSV with a header row. Empty columns means
// DefaultColumns.
func Write(w io.Writer, columns []string, recs []Record) error {
	if len(columns) == 0 {
		columns = DefaultColumns
	}
	return write(w, columns, recs, true)
}

func write(w io.Writer, columns []string, recs []Record, header bool) error {
	cw := csv.NewWriter(w)
	if header {
		row := make([]string, len(columns))
		for i, c := range columns {
			if c == "" {
				c = fmt.Sprintf("column_%d", i+1)
			}
			row[i] = c
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	row := make([]string, len(columns))
	for _, r := range recs {
		for i, c := range columns {
			row[i] = r.field(c)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
