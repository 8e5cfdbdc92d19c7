package history

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
)

// History is the parsed history file.
type History struct {
	// Path is the file the history was loaded from ("" for Parse).
	Path string
	// Columns is the canonical name of each header cell in file order.
	// Unrecognised header cells keep their own name so appends line up.
	Columns []string
	// Records holds every usable row in file order.
	Records []Record
	// Skipped lists malformed rows dropped in lenient mode.
	Skipped []*MalformedRowError
	// Exists is false when the file was absent and the history is new.
	Exists bool
}

// LoadOption configures Load and Parse.
type LoadOption func(*loadConfig)

type loadConfig struct {
	strict bool
}

// Strict makes the first malformed row fatal instead of skipping it.
func Strict() LoadOption {
	return func(c *loadConfig) { c.strict = true }
}

// WithStrict sets strictness from a flag value.
func WithStrict(strict bool) LoadOption {
	return func(c *loadConfig) { c.strict = strict }
}

// New returns an empty history that will be written with DefaultColumns.
func New(path string) *History {
	return &History{Path: path, Columns: append([]string(nil), DefaultColumns...)}
}

// Load reads the history CSV at path. A missing file is not an error: the
// result is an empty history with Exists=false.
func Load(path string, opts ...LoadOption) (*History, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return New(path), nil
	}
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	defer f.Close()

	h, err := parse(f, path, opts)
	if err != nil {
		return nil, err
	}
	h.Path = path
	h.Exists = true
	return h, nil
}

// Parse reads history rows from r.
func Parse(r io.Reader, opts ...LoadOption) (*History, error) {
	return parse(r, "", opts)
}

func parse(r io.Reader, path string, opts []LoadOption) (*History, error) {
	cfg := &loadConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return New(path), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read history header: %w", err)
	}

	cols := make([]string, len(header))
	hasID, hasClass := false, false
	for i, name := range header {
		cols[i] = canonicalColumn(strings.TrimPrefix(name, "\ufeff"))
		hasID = hasID || cols[i] == ColCaseID
		hasClass = hasClass || cols[i] == ColClass
	}
	if !hasID {
		return nil, &MalformedRowError{Path: path, Line: 1, Fields: len(header), Want: len(header),
			Reason: fmt.Sprintf("header %q has no identifier column", strings.Join(header, ","))}
	}

	h := &History{Path: path, Columns: cols}
	line := 1
	for {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			var pe *csv.ParseError
			if !errors.As(err, &pe) {
				return nil, fmt.Errorf("read history: %w", err)
			}
			bad := &MalformedRowError{Path: path, Line: pe.StartLine, Reason: pe.Err.Error()}
			if cfg.strict {
				return nil, bad
			}
			h.Skipped = append(h.Skipped, bad)
			continue
		}
		if l, _ := cr.FieldPos(0); l > 0 {
			line = l
		}

		if len(fields) != len(cols) {
			bad := &MalformedRowError{Path: path, Line: line, Fields: len(fields), Want: len(cols)}
			if cfg.strict {
				return nil, bad
			}
			h.Skipped = append(h.Skipped, bad)
			continue
		}

		var rec Record
		for i, v := range fields {
			rec.set(cols[i], strings.TrimSpace(v))
		}
		if rec.CaseID == "" {
			bad := &MalformedRowError{Path: path, Line: line, Fields: len(fields), Want: len(cols), Reason: "empty identifier"}
			if cfg.strict {
				return nil, bad
			}
			h.Skipped = append(h.Skipped, bad)
			continue
		}
		if !hasClass || rec.Class == "" {
			rec.Class = ClassUnknown
		}
		h.Records = append(h.Records, rec)
	}
	return h, nil
}
