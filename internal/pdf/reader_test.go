package pdf

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ledongthuc/pdf"

	"github.com/a3tai/mcp-gta-reader/internal/pdf/pdftest"
)

func TestNewReader(t *testing.T) {
	reader := NewReader(1024)
	if reader.maxFileSize != 1024 {
		t.Errorf("expected maxFileSize=1024, got %d", reader.maxFileSize)
	}
	if reader.maxTextSize != 10*1024*1024 {
		t.Errorf("expected 10MB text limit, got %d", reader.maxTextSize)
	}
}

func TestReader_ReadText(t *testing.T) {
	dir := t.TempDir()
	path := pdftest.Write(t, dir, "gta.pdf",
		"Numero",
		"123456",
		"Município - UF: ARAGUAINA - TO",
		"Fêmea",
	)

	result, err := NewReader(1024 * 1024).ReadText(PDFReadTextRequest{Path: path})
	if err != nil {
		t.Fatalf("ReadText() unexpected error: %v", err)
	}

	want := "Numero\n123456\nMunicípio - UF: ARAGUAINA - TO\nFêmea\n"
	if result.Text != want {
		t.Errorf("ReadText() text = %q, want %q", result.Text, want)
	}
	if result.Pages != 1 {
		t.Errorf("ReadText() pages = %d, want 1", result.Pages)
	}
	if result.Size == 0 || result.Path != path {
		t.Errorf("ReadText() result = %+v", result)
	}
}

func TestReader_ReadText_NoText(t *testing.T) {
	path := pdftest.Write(t, t.TempDir(), "blank.pdf")

	_, err := NewReader(1024 * 1024).ReadText(PDFReadTextRequest{Path: path})
	if !errors.Is(err, ErrNoText) {
		t.Errorf("ReadText() error = %v, want ErrNoText", err)
	}
}

func TestReader_ReadText_Errors(t *testing.T) {
	dir := t.TempDir()

	textFile := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(textFile, []byte("not a pdf"), 0o600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	large := pdftest.Write(t, dir, "large.pdf", "Numero 123456")
	broken := filepath.Join(dir, "broken.pdf")
	if err := os.WriteFile(broken, []byte("%PDF-1.4 garbage"), 0o600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	tests := []struct {
		name    string
		path    string
		maxSize int64
		wantErr string
	}{
		{"empty path", "", 1024, "path cannot be empty"},
		{"missing file", filepath.Join(dir, "missing.pdf"), 1024, "does not exist"},
		{"directory", dir, 1024, "is a directory"},
		{"wrong extension", textFile, 1024, "not a PDF"},
		{"too large", large, 10, "file too large"},
		{"broken pdf", broken, 1024 * 1024, "failed to open PDF"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewReader(tt.maxSize).ReadText(PDFReadTextRequest{Path: tt.path})
			if err == nil {
				t.Fatalf("ReadText() expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("ReadText() error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestJoinRow(t *testing.T) {
	tests := []struct {
		name  string
		texts pdf.TextHorizontal
		want  string
	}{
		{
			name:  "kerned pieces share a position",
			texts: pdf.TextHorizontal{{S: "Nu", X: 10}, {S: "mero", X: 10}},
			want:  "Numero",
		},
		{
			name:  "separate runs get a space",
			texts: pdf.TextHorizontal{{S: "Nome:", X: 10, W: 25, FontSize: 10}, {S: "João", X: 45}},
			want:  "Nome: João",
		},
		{
			name:  "adjacent runs stay joined",
			texts: pdf.TextHorizontal{{S: "12", X: 10, W: 10, FontSize: 10}, {S: "34", X: 20.5}},
			want:  "1234",
		},
		{
			name:  "empty runs are ignored",
			texts: pdf.TextHorizontal{{S: "", X: 0}, {S: "UF", X: 10}, {S: "", X: 30}},
			want:  "UF",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := joinRow(tt.texts); got != tt.want {
				t.Errorf("joinRow() = %q, want %q", got, tt.want)
			}
		})
	}
}
