// Package pdftest writes small single-page text PDFs for tests.
package pdftest

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/text/encoding/charmap"
)

const (
	top     = 800
	leading = 14
)

// Build returns a PDF with one Helvetica text row per line, top to bottom.
// Text is encoded as WinAnsi so Portuguese accents survive extraction.
func Build(lines []string) ([]byte, error) {
	var content bytes.Buffer
	enc := charmap.Windows1252.NewEncoder()
	for i, line := range lines {
		raw, err := enc.String(line)
		if err != nil {
			return nil, fmt.Errorf("encoding line %d: %w", i, err)
		}
		fmt.Fprintf(&content, "BT /F1 10 Tf 1 0 0 1 40 %d Tm (%s) Tj ET\n", top-i*leading, escape(raw))
	}

	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 595 842] " +
			"/Resources << /Font << /F1 5 0 R >> >> /Contents 4 0 R >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%sendstream", content.Len(), content.String()),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	}

	var out bytes.Buffer
	out.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = out.Len()
		fmt.Fprintf(&out, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := out.Len()
	fmt.Fprintf(&out, "xref\n0 %d\n", len(objects)+1)
	out.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&out, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&out, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)

	return out.Bytes(), nil
}

// Write builds a PDF from lines into dir/name and returns its path
func Write(t testing.TB, dir, name string, lines ...string) string {
	t.Helper()
	data, err := Build(lines)
	if err != nil {
		t.Fatalf("building PDF: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("writing PDF: %v", err)
	}
	return path
}

func escape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)
	return r.Replace(s)
}

// SampleGTA is the text of a Tocantins GTA for two lots of cattle sold for
// slaughter, one printed line per entry
var SampleGTA = []string{
	"GUIA DE TRÂNSITO ANIMAL - GTA",
	"Numero",
	"123456",
	"UF",
	"TO",
	"Série",
	"A",
	"Emissão: 10/05/2025   Validade: 20/05/2025",
	"PROCEDÊNCIA",
	"CPF/CNPJ: 12345678901",
	"Nome: JOAO DA SILVA",
	"Estabelecimento: FAZENDA BOA VISTA",
	"Município - UF: ARAGUAINA - TO",
	"DESTINO",
	"CPF/CNPJ: 98765432100",
	"Nome: FRIGORIFICO TOCANTINS LTDA",
	"Estabelecimento: UNIDADE GURUPI",
	"Município - UF: GURUPI - TO",
	"Finalidade: ABATE",
	"Meio de Transporte: RODOVIARIO",
	"Grupo", "Espécie", "Categoria", "Faixa Etária", "Sexo", "Quantidade",
	"Bovídeos", "Bovinos", "-", "13 a 24 meses", "Fêmea", "10 cab.",
	"Bovídeos", "Bovinos", "-", "25 a 36 meses", "Macho", "12 cab.",
}
