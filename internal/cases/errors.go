package cases

import (
	"errors"
	"fmt"
	"io/fs"
)

// MissingFileError reports that a required input file does not exist.
type MissingFileError struct {
	Path string
	Err  error
}

func (e *MissingFileError) Error() string {
	return fmt.Sprintf("required input %s not found", e.Path)
}

func (e *MissingFileError) Unwrap() error { return e.Err }

// IsMissingFile reports whether err is (or wraps) a *MissingFileError.
func IsMissingFile(err error) bool {
	var mf *MissingFileError
	return errors.As(err, &mf)
}

func missing(path string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return &MissingFileError{Path: path, Err: err}
	}
	return fmt.Errorf("open cases %s: %w", path, err)
}
