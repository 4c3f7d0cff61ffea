package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// File is an append-only log file the CLI mirrors its log output into.
type File struct {
	file *os.File
	path string
}

// OpenFile opens (or creates) path for appending, creating parent
// directories as needed. An empty path returns a nil *File, which is valid
// and discards everything.
func OpenFile(path string) (*File, error) {
	if path == "" {
		return nil, nil
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	return &File{file: f, path: path}, nil
}

// Close closes the log file.
func (f *File) Close() error {
	if f == nil || f.file == nil {
		return nil
	}
	return f.file.Close()
}

// Path returns the path to the log file.
func (f *File) Path() string {
	if f == nil {
		return ""
	}
	return f.path
}

// Writer returns an io.Writer that writes to the log file.
func (f *File) Writer() io.Writer {
	if f == nil || f.file == nil {
		return io.Discard
	}
	return f.file
}

// Setup configures the global logger from textual settings. Output goes to
// stderr and, when path is non-empty, to the log file as well. The caller
// closes the returned file.
func Setup(level, format, path string) (*File, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	fmtt, err := ParseFormat(format)
	if err != nil {
		return nil, err
	}

	f, err := OpenFile(path)
	if err != nil {
		return nil, err
	}

	var w io.Writer = os.Stderr
	if f != nil {
		w = io.MultiWriter(os.Stderr, f.Writer())
	}
	Init(lvl, fmtt, w)

	if f != nil {
		Debug("logging to file", "path", f.Path())
	}
	return f, nil
}
