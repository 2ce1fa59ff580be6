package security

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewPathValidator(t *testing.T) {
	tempDir := t.TempDir()

	tests := []struct {
		name      string
		roots     []string
		wantError bool
	}{
		{name: "valid directory", roots: []string{tempDir}},
		{name: "several roots", roots: []string{tempDir, filepath.Join(tempDir, "pautas")}},
		{name: "no roots", roots: nil, wantError: true},
		{name: "empty default root", roots: []string{""}, wantError: true},
		{name: "non-existent directory", roots: []string{"/non/existent/path"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			validator, err := NewPathValidator(tt.roots...)
			if tt.wantError {
				if err == nil {
					t.Error("Expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if validator.Root() != filepath.Clean(tt.roots[0]) {
				t.Errorf("Root() = %s, want %s", validator.Root(), tt.roots[0])
			}
		})
	}
}

func TestPathValidator_ValidatePath(t *testing.T) {
	gtaDir := t.TempDir()
	pautaDir := t.TempDir()
	outside := t.TempDir()

	if err := os.Mkdir(filepath.Join(gtaDir, "2025"), 0o755); err != nil {
		t.Fatalf("Failed to create subdirectory: %v", err)
	}

	validator, err := NewPathValidator(gtaDir, pautaDir)
	if err != nil {
		t.Fatalf("Failed to create validator: %v", err)
	}

	tests := []struct {
		name      string
		path      string
		wantError bool
	}{
		{"file in default root", filepath.Join(gtaDir, "gta.pdf"), false},
		{"file in subdirectory", filepath.Join(gtaDir, "2025", "gta.pdf"), false},
		{"file in second root", filepath.Join(pautaDir, "pauta.xlsx"), false},
		{"root itself", gtaDir, false},
		{"file outside", filepath.Join(outside, "gta.pdf"), true},
		{"traversal", filepath.Join(gtaDir, "..", "gta.pdf"), true},
		{"sibling with shared prefix", gtaDir + "-other/gta.pdf", true},
		{"empty path", "", true},
		{"null byte", filepath.Join(gtaDir, "a\x00.pdf"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidatePath(tt.path)
			if tt.wantError && err == nil {
				t.Errorf("ValidatePath(%q) expected error", tt.path)
			}
			if !tt.wantError && err != nil {
				t.Errorf("ValidatePath(%q) unexpected error: %v", tt.path, err)
			}
		})
	}
}

func TestPathValidator_Symlink(t *testing.T) {
	gtaDir := t.TempDir()
	outside := t.TempDir()

	target := filepath.Join(outside, "secret.pdf")
	if err := os.WriteFile(target, []byte("%PDF"), 0o600); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	link := filepath.Join(gtaDir, "link.pdf")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	validator, err := NewPathValidator(gtaDir)
	if err != nil {
		t.Fatalf("Failed to create validator: %v", err)
	}
	if err := validator.ValidatePath(link); err == nil {
		t.Error("ValidatePath() accepted a symlink leaving the root")
	}
}

func TestPathValidator_NormalizePath(t *testing.T) {
	gtaDir := t.TempDir()
	validator, err := NewPathValidator(gtaDir)
	if err != nil {
		t.Fatalf("Failed to create validator: %v", err)
	}

	got, err := validator.NormalizePath("gta.pdf")
	if err != nil {
		t.Fatalf("NormalizePath() unexpected error: %v", err)
	}
	if want := filepath.Join(validator.Root(), "gta.pdf"); got != want {
		t.Errorf("NormalizePath() = %s, want %s", got, want)
	}

	if _, err := validator.NormalizePath("../escape.pdf"); err == nil {
		t.Error("NormalizePath() accepted a path escaping the root")
	}
	if _, err := validator.NormalizePath(""); err == nil {
		t.Error("NormalizePath() accepted an empty path")
	}
}

func TestPathValidator_ValidateDirectory(t *testing.T) {
	gtaDir := t.TempDir()
	file := filepath.Join(gtaDir, "gta.pdf")
	if err := os.WriteFile(file, []byte("%PDF"), 0o600); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	validator, err := NewPathValidator(gtaDir)
	if err != nil {
		t.Fatalf("Failed to create validator: %v", err)
	}

	if err := validator.ValidateDirectory(gtaDir); err != nil {
		t.Errorf("ValidateDirectory(root) unexpected error: %v", err)
	}
	if err := validator.ValidateDirectory(filepath.Join(gtaDir, "later")); err != nil {
		t.Errorf("ValidateDirectory(missing) unexpected error: %v", err)
	}
	if err := validator.ValidateDirectory(file); err == nil {
		t.Error("ValidateDirectory(file) expected error")
	}
	if err := validator.ValidateDirectory(t.TempDir()); err == nil {
		t.Error("ValidateDirectory(outside) expected error")
	}
}
