package cases

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// Set is a deduplicated collection of case identifiers.
type Set map[string]struct{}

// NewSet builds a set from ids, ignoring empty strings.
func NewSet(ids ...string) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Add inserts id after trimming surrounding whitespace. Empty ids are dropped.
func (s Set) Add(id string) {
	id = strings.TrimSpace(id)
	if id == "" {
		return
	}
	s[id] = struct{}{}
}

// Has reports whether id is in the set.
func (s Set) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Len returns the number of distinct identifiers.
func (s Set) Len() int { return len(s) }

// Sorted returns the identifiers in ascending order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Load reads the identifier file at path. A missing file yields a
// *MissingFileError; an empty file yields an empty set.
func Load(path string) (Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, missing(path, err)
	}
	defer f.Close()

	s, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("read cases %s: %w", path, err)
	}
	return s, nil
}

// Read parses newline-separated identifiers from r.
func Read(r io.Reader) (Set, error) {
	s := make(Set)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		s.Add(line)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return s, nil
}
