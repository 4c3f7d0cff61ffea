package discovery

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	dofperrors "github.com/five82/dofp/internal/errors"
)

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("history: \"1,?\"\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestFindScenarioFiles(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "b.yaml", "A.yml", ".hidden.yaml", "notes.txt")
	if err := os.Mkdir(filepath.Join(dir, "nested.yaml"), 0o755); err != nil {
		t.Fatal(err)
	}

	files, err := FindScenarioFiles(dir)
	if err != nil {
		t.Fatalf("FindScenarioFiles() error = %v", err)
	}
	want := []string{filepath.Join(dir, "A.yml"), filepath.Join(dir, "b.yaml")}
	if !reflect.DeepEqual(files, want) {
		t.Errorf("FindScenarioFiles() = %v, want %v", files, want)
	}
}

func TestFindScenarioFilesErrors(t *testing.T) {
	empty := t.TempDir()
	touch(t, empty, "readme.md")
	if _, err := FindScenarioFiles(empty); !errors.Is(err, ErrNoScenarios) {
		t.Errorf("FindScenarioFiles(empty) error = %v, want ErrNoScenarios", err)
	}

	_, err := FindScenarioFiles(filepath.Join(empty, "missing"))
	if !dofperrors.IsKind(err, dofperrors.KindIO) {
		t.Errorf("FindScenarioFiles(missing) error = %v, want I/O error", err)
	}

	_, err = FindScenarioFiles(filepath.Join(empty, "readme.md"))
	if !dofperrors.IsKind(err, dofperrors.KindIO) {
		t.Errorf("FindScenarioFiles(file) error = %v, want I/O error", err)
	}
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "suite")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	touch(t, dir, "single.txt")
	touch(t, sub, "two.yaml", "one.yaml")

	files, err := Resolve([]string{filepath.Join(dir, "single.txt"), sub})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	want := []string{
		filepath.Join(dir, "single.txt"),
		filepath.Join(sub, "one.yaml"),
		filepath.Join(sub, "two.yaml"),
	}
	if !reflect.DeepEqual(files, want) {
		t.Errorf("Resolve() = %v, want %v", files, want)
	}

	if _, err := Resolve([]string{filepath.Join(dir, "absent.yaml")}); !dofperrors.IsKind(err, dofperrors.KindIO) {
		t.Errorf("Resolve(absent) error = %v, want I/O error", err)
	}
}

func TestIsScenarioFile(t *testing.T) {
	for path, want := range map[string]bool{
		"a.yaml": true, "a.YML": true, "a.json": false, "yaml": false,
	} {
		if got := IsScenarioFile(path); got != want {
			t.Errorf("IsScenarioFile(%q) = %v, want %v", path, got, want)
		}
	}
}
