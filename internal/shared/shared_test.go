package shared

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFormatDuration(t *testing.T) {
	tc := []struct {
		name    string
		seconds int
		want    string
	}{
		{name: "zero", seconds: 0, want: "0:00"},
		{name: "under a minute", seconds: 7, want: "0:07"},
		{name: "minutes", seconds: 215, want: "3:35"},
		{name: "hours", seconds: 3725, want: "1:02:05"},
		{name: "negative clamps", seconds: -4, want: "0:00"},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatDuration(tt.seconds); got != tt.want {
				t.Errorf("FormatDuration(%d) = %q, want %q", tt.seconds, got, tt.want)
			}
		})
	}
}

func TestGenerateShareID(t *testing.T) {
	seen := make(map[string]bool)
	for range 50 {
		id, err := GenerateShareID()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(id) != ShareIDLength {
			t.Fatalf("expected %d characters, got %q", ShareIDLength, id)
		}
		if seen[id] {
			t.Fatalf("duplicate share id %q", id)
		}
		seen[id] = true
	}
}

func TestLocalUserID(t *testing.T) {
	t.Run("stable for a name", func(t *testing.T) {
		if LocalUserID("ada") != LocalUserID("ada") {
			t.Error("expected identical ids for the same name")
		}
	})

	t.Run("distinct across names", func(t *testing.T) {
		if LocalUserID("ada") == LocalUserID("grace") {
			t.Error("expected different ids for different names")
		}
	})
}

func TestMarshalJSON(t *testing.T) {
	data, err := MarshalJSON(map[string]int{"a": 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(data), "\n  \"a\": 1") {
		t.Errorf("expected indented output, got %s", data)
	}
}

func TestNewFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "echoplay.log")

	logger, f, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	logger.Info("hello", "key", "value")
	f.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log: %v", err)
	}
	if !strings.Contains(string(data), "hello") || !strings.Contains(string(data), "key=value") {
		t.Errorf("log file missing entry: %s", data)
	}
}
