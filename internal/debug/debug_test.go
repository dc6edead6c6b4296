package debug

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestActionSortsFields(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(nil)

	Action("split", map[string]any{"friend": "Clark", "balance": "-70"})

	got := buf.String()
	if !strings.Contains(got, "split balance=-70 friend=Clark") {
		t.Errorf("Unexpected log line %q", got)
	}
}

func TestDisabledWritesNothing(t *testing.T) {
	SetOutput(nil)

	Action("select", map[string]any{"friend": "Clark"})
	Log("nothing")

	if IsEnabled() {
		t.Error("Expected logging to be disabled")
	}
}

func TestEnableWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "debug.log")
	if err := Enable(path); err != nil {
		t.Fatalf("Enable failed: %v", err)
	}
	Action("add", map[string]any{"name": "Zoe"})
	Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read log: %v", err)
	}
	if !strings.Contains(string(data), "add name=Zoe") {
		t.Errorf("Expected add action in log, got %q", data)
	}
}
