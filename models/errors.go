package models

import (
	"errors"
	"fmt"
)

// ParseError reports a malformed value or missing column in an input CSV.
type ParseError struct {
	Path   string
	Line   int // 1-based, header is line 1; 0 when not tied to a row
	Column string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	switch {
	case e.Line == 0:
		return fmt.Sprintf("parse %s: column %q: %v", e.Path, e.Column, e.Err)
	case e.Column == "":
		return fmt.Sprintf("parse %s:%d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("parse %s:%d: column %q value %q: %v", e.Path, e.Line, e.Column, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ErrMissingColumn is wrapped by a ParseError when the header lacks a required column.
var ErrMissingColumn = errors.New("missing column")

// EmptyRecordingError is returned when a recording has too few samples to
// interpolate.
type EmptyRecordingError struct {
	Path    string
	Samples int
}

func (e *EmptyRecordingError) Error() string {
	return fmt.Sprintf("recording %s: %d sample(s), need at least 2", e.Path, e.Samples)
}

// FileSystemError wraps an os-level failure on an input or output path.
type FileSystemError struct {
	Op   string // "open", "read", "create", "write", "mkdir", "readdir"
	Path string
	Err  error
}

func (e *FileSystemError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileSystemError) Unwrap() error { return e.Err }

// Kind names the taxonomy bucket of err for run summaries.
func Kind(err error) string {
	var (
		pe *ParseError
		ee *EmptyRecordingError
		fe *FileSystemError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &pe):
		return "parse"
	case errors.As(err, &ee):
		return "empty"
	case errors.As(err, &fe):
		return "filesystem"
	default:
		return "other"
	}
}
