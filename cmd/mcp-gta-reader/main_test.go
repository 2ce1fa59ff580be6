package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/a3tai/mcp-gta-reader/internal/config"
)

const testVersion = "1.2.3"

func TestPrintVersion(t *testing.T) {
	oldVersion, oldBuildTime, oldGitCommit := version, buildTime, gitCommit
	defer func() {
		version, buildTime, gitCommit = oldVersion, oldBuildTime, oldGitCommit
	}()

	tests := []struct {
		name                       string
		version, buildTime, commit string
		expected                   []string
	}{
		{
			name:      "build values",
			version:   testVersion,
			buildTime: "2023-12-01_10:30:00",
			commit:    "abc123",
			expected: []string{
				"MCP GTA Reader",
				"Version: " + testVersion,
				"Build Time: 2023-12-01_10:30:00",
				"Git Commit: abc123",
				"Built with:",
			},
		},
		{
			name:      "defaults",
			version:   "dev",
			buildTime: "unknown",
			commit:    "unknown",
			expected:  []string{"Version: dev", "Build Time: unknown", "Git Commit: unknown"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			version, buildTime, gitCommit = tt.version, tt.buildTime, tt.commit

			var buf bytes.Buffer
			printVersion(&buf)
			output := buf.String()

			for _, expected := range tt.expected {
				if !strings.Contains(output, expected) {
					t.Errorf("printVersion() output missing expected string: %s\nActual output:\n%s", expected, output)
				}
			}
		})
	}
}

func TestRun_ServerMode(t *testing.T) {
	root := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Mode = config.ModeServer
	cfg.Port = 0
	cfg.GTADirectory = filepath.Join(root, "GTAs")
	cfg.PautaDirectory = filepath.Join(root, "Pautas Fiscais")
	cfg.ReportDirectory = filepath.Join(root, "Relatórios")
	cfg.JSONDirectory = filepath.Join(root, "JSON")
	cfg.LogFormat = "json"

	ctx, cancel := context.WithCancel(context.Background())
	var logs bytes.Buffer
	done := make(chan error, 1)
	go func() { done <- run(ctx, cfg, &logs) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("run did not return after cancellation")
	}
}

func TestRun_InvalidGTADirectory(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.GTADirectory = ""

	if err := run(context.Background(), cfg, &bytes.Buffer{}); err == nil {
		t.Error("expected an error for an empty GTA directory")
	}
}
