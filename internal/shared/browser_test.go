package shared

import (
	"strings"
	"testing"
)

func TestBrowserCommand(t *testing.T) {
	tc := []struct {
		goos string
		bin  string
	}{
		{goos: "darwin", bin: "open"},
		{goos: "linux", bin: "xdg-open"},
		{goos: "windows", bin: "rundll32"},
	}

	for _, tt := range tc {
		t.Run(tt.goos, func(t *testing.T) {
			cmd, err := browserCommand(tt.goos, "https://example.com")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !strings.HasSuffix(cmd.Path, tt.bin) && cmd.Args[0] != tt.bin {
				t.Errorf("expected %s, got %v", tt.bin, cmd.Args)
			}
			if cmd.Args[len(cmd.Args)-1] != "https://example.com" {
				t.Errorf("url should be the last argument, got %v", cmd.Args)
			}
		})
	}

	t.Run("unsupported", func(t *testing.T) {
		orig := getRuntime
		getRuntime = func() string { return "plan9" }
		defer func() { getRuntime = orig }()
		if err := OpenBrowser("https://example.com"); err == nil {
			t.Error("expected error for unsupported platform")
		}
	})
}
