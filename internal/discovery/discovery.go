// Package discovery finds replay scenario files.
package discovery

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	dofperrors "github.com/five82/dofp/internal/errors"
	"github.com/five82/dofp/internal/logging"
)

// ErrNoScenarios is returned when a directory holds no scenario files.
var ErrNoScenarios = errors.New("no scenario files found")

// IsScenarioFile reports whether path has a YAML extension.
func IsScenarioFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// FindScenarioFiles finds scenario files in the given directory.
// Hidden files are skipped. Returns files sorted alphabetically by filename.
func FindScenarioFiles(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, dofperrors.NewIOError("directory does not exist: "+dir, err)
	}
	if !info.IsDir() {
		return nil, dofperrors.NewIOError(fmt.Sprintf("%s is not a directory", dir), nil)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, dofperrors.NewIOError("cannot read directory "+dir, err)
	}

	var files []string
	skipped := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if IsScenarioFile(name) {
			files = append(files, filepath.Join(dir, name))
		} else {
			skipped++
		}
	}

	if len(files) == 0 {
		return nil, dofperrors.NewConfigError(ErrNoScenarios, "in %s", dir)
	}

	sort.Slice(files, func(i, j int) bool {
		return strings.ToLower(filepath.Base(files[i])) < strings.ToLower(filepath.Base(files[j]))
	})

	logging.Debug("discovered scenarios", "dir", dir, "count", len(files), "skipped", skipped)
	return files, nil
}

// Resolve expands directory arguments into their scenario files. File
// arguments are kept as given, in order.
func Resolve(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, dofperrors.NewIOError("reading scenario", err)
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		found, err := FindScenarioFiles(arg)
		if err != nil {
			return nil, err
		}
		files = append(files, found...)
	}
	return files, nil
}
