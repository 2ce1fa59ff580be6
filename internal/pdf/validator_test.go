package pdf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/a3tai/mcp-gta-reader/internal/pdf/pdftest"
)

func TestValidator_ValidateFile(t *testing.T) {
	dir := t.TempDir()
	valid := pdftest.Write(t, dir, "gta.pdf", "Numero 123456")
	broken := filepath.Join(dir, "broken.pdf")
	if err := os.WriteFile(broken, []byte("%PDF-1.4\nnot really"), 0o600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	empty := filepath.Join(dir, "empty.pdf")
	if err := os.WriteFile(empty, nil, 0o600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	validator := NewValidator(1024 * 1024)

	tests := []struct {
		name        string
		path        string
		expectValid bool
		expectPages int
	}{
		{"valid pdf", valid, true, 1},
		{"empty path", "", false, 0},
		{"non-existent file", "/non/existent/file.pdf", false, 0},
		{"empty file", empty, false, 0},
		{"broken pdf", broken, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := validator.ValidateFile(PDFValidateFileRequest{Path: tt.path})
			if err != nil {
				t.Fatalf("ValidateFile() returned processing error: %v", err)
			}
			if result.Valid != tt.expectValid {
				t.Errorf("expected Valid=%v but got %v (%s)", tt.expectValid, result.Valid, result.Message)
			}
			if result.Pages != tt.expectPages {
				t.Errorf("expected Pages=%d but got %d", tt.expectPages, result.Pages)
			}
			if result.Path != tt.path {
				t.Errorf("expected Path=%s but got %s", tt.path, result.Path)
			}
			if !tt.expectValid && result.Message == "" {
				t.Errorf("expected validation message for invalid file")
			}
		})
	}
}

func TestValidator_ValidateFileInfo(t *testing.T) {
	dir := t.TempDir()
	files := map[string][]byte{
		"gta.pdf":   []byte("%PDF-1.4 small"),
		"large.pdf": make([]byte, 2048),
		"empty.pdf": nil,
		"notes.txt": []byte("text"),
	}
	for name, data := range files {
		if err := os.WriteFile(filepath.Join(dir, name), data, 0o600); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}

	validator := NewValidator(1024)
	tests := []struct {
		name      string
		wantError bool
	}{
		{"gta.pdf", false},
		{"large.pdf", true},
		{"empty.pdf", true},
		{"notes.txt", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name)
			info, err := os.Stat(path)
			if err != nil {
				t.Fatalf("stat: %v", err)
			}
			err = validator.ValidateFileInfo(path, info)
			if tt.wantError != (err != nil) {
				t.Errorf("ValidateFileInfo(%s) error = %v, wantError %v", tt.name, err, tt.wantError)
			}
		})
	}

	info, _ := os.Stat(dir)
	if validator.ValidateFileInfo(dir, info) == nil {
		t.Error("ValidateFileInfo() accepted a directory")
	}
}
