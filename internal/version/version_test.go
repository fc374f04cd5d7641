package version

import (
	"strings"
	"testing"
)

func TestGet(t *testing.T) {
	info := Get()

	if info.Version == "" {
		t.Error("Version should not be empty")
	}
	if info.GoVersion == "" {
		t.Error("GoVersion should not be empty")
	}
	if !strings.Contains(info.Platform, "/") {
		t.Errorf("Platform = %q, want os/arch format", info.Platform)
	}
}

func TestInfoString(t *testing.T) {
	info := Info{Version: "1.2.3", Commit: "abc1234", Date: "2026-01-01T00:00:00Z"}
	s := info.String()
	if !strings.Contains(s, "1.2.3") || !strings.Contains(s, "abc1234") {
		t.Errorf("String() = %q, missing version or commit", s)
	}

	info.Dirty = true
	if !strings.Contains(info.String(), "-dirty") {
		t.Error("String() should include -dirty marker")
	}
}

func TestInfoShort(t *testing.T) {
	info := Info{Version: "1.2.3"}
	if got := info.Short(); got != "1.2.3" {
		t.Errorf("Short() = %q, want 1.2.3", got)
	}

	info.Dirty = true
	if got := info.Short(); got != "1.2.3-dirty" {
		t.Errorf("Short() = %q, want 1.2.3-dirty", got)
	}
}
