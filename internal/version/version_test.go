package version

import (
	"encoding/json"
	"runtime"
	"strings"
	"testing"
)

func TestGetInfo(t *testing.T) {
	info := GetInfo()

	if info.Version == "" {
		t.Error("expected non-empty version")
	}
	if !strings.Contains(info.Platform, runtime.GOOS) {
		t.Errorf("expected platform to contain %s, got %s", runtime.GOOS, info.Platform)
	}
}

func TestString(t *testing.T) {
	originalCommit := Commit
	defer func() { Commit = originalCommit }()

	Commit = "unknown"
	if s := String(); !strings.HasPrefix(s, ApplicationName+" version ") {
		t.Errorf("String() = %q", s)
	}

	Commit = "0123456789abcdef"
	if s := String(); !strings.Contains(s, "commit: 01234567") {
		t.Errorf("String() = %q, want short commit", s)
	}
}

func TestShort(t *testing.T) {
	originalVersion, originalCommit := Version, Commit
	defer func() { Version, Commit = originalVersion, originalCommit }()

	Version, Commit = "1.0.0", "unknown"
	if s := Short(); s != "1.0.0" {
		t.Errorf("Short() = %q, want 1.0.0", s)
	}
}

func TestJSON(t *testing.T) {
	var info Info
	if err := json.Unmarshal([]byte(JSON()), &info); err != nil {
		t.Fatalf("JSON() is not valid JSON: %v", err)
	}
	if info.Version != Version {
		t.Errorf("JSON() version = %q, want %q", info.Version, Version)
	}
}
