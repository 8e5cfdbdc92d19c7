package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"casetrack/internal/timeline"
)

// Dir reads saved page text from <Root>/<caseID>.txt.
type Dir struct {
	Root string
}

// NewDir returns a Dir source rooted at root, which must be an existing
// directory.
func NewDir(root string) (*Dir, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("pages dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("pages dir %s is not a directory", root)
	}
	return &Dir{Root: root}, nil
}

func (d *Dir) Fetch(ctx context.Context, caseID string) ([]timeline.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(d.Root, filepath.Base(caseID)+".txt"))
	if err != nil {
		return nil, fmt.Errorf("read page for %s: %w", caseID, err)
	}
	return entriesFrom(string(data))
}
