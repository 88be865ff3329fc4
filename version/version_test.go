package version

import (
	"strings"
	"testing"
)

func TestNew_Defaults(t *testing.T) {
	info := New("bleurgh")
	if info.Version != "0.0.0-dev" {
		t.Errorf("expected Version '0.0.0-dev', got %q", info.Version)
	}
	if info.BuildDate != "unknown" {
		t.Errorf("expected BuildDate 'unknown', got %q", info.BuildDate)
	}
	if info.GitCommit != "unknown" {
		t.Errorf("expected GitCommit 'unknown', got %q", info.GitCommit)
	}
	if info.Name != "bleurgh" {
		t.Errorf("expected Name 'bleurgh', got %q", info.Name)
	}
}

func TestInfo_String(t *testing.T) {
	info := &Info{
		Version:   "1.2.3",
		BuildDate: "2024-01-01",
		GitCommit: "abc123",
		Name:      "bleurgh",
	}
	s := info.String()
	for _, want := range []string{"bleurgh", "1.2.3", "abc123", "2024-01-01"} {
		if !strings.Contains(s, want) {
			t.Errorf("String() = %q, missing %q", s, want)
		}
	}
}

func TestNewCommand_QuietFlag(t *testing.T) {
	info := New("bleurgh")
	cmd := NewCommand(info, nil)
	if cmd.Use != "version" {
		t.Errorf("expected Use 'version', got %q", cmd.Use)
	}
	if cmd.Flags().Lookup("quiet") == nil {
		t.Error("expected quiet flag to be registered")
	}
}
