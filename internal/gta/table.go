package gta

import (
	"strconv"
	"strings"
	"unicode"
)

// CategorySource produces candidate category lines from a document
type CategorySource interface {
	Categories(doc *Document) []CategoryLine
}

// BlockLayout describes a one-value-per-line table: a header anchor, the
// distance from the header to the first data line, the number of lines per
// row and how a row block is turned into a CategoryLine.
type BlockLayout struct {
	Header string
	Offset int
	Stride int
	// Parse returns false when the block is not a valid row; the scan stops there.
	Parse func(block []string) (CategoryLine, bool)
}

// Categories implements CategorySource. Rows are read until the first
// invalid or incomplete block; nothing after it is considered.
func (l BlockLayout) Categories(doc *Document) []CategoryLine {
	idx := doc.findAnchor(l.Header)
	if idx < 0 {
		return nil
	}

	var lines []CategoryLine
	for start := idx + l.Offset; start+l.Stride <= len(doc.Lines); start += l.Stride {
		line, ok := l.Parse(doc.Lines[start : start+l.Stride])
		if !ok {
			break
		}
		lines = append(lines, line)
	}
	return lines
}

// VerticalTable is the GTA category table laid out as a header "Grupo",
// five sub-header labels and then six lines per row.
var VerticalTable = BlockLayout{
	Header: "GRUPO",
	Offset: 6,
	Stride: 6,
	Parse:  parseVerticalBlock,
}

func parseVerticalBlock(block []string) (CategoryLine, bool) {
	grupo := strings.TrimSpace(block[0])
	especie := strings.TrimSpace(block[1])
	faixa := strings.TrimSpace(block[3])
	sexo := strings.TrimSpace(block[4])
	if grupo == "" || especie == "" || faixa == "" {
		return CategoryLine{}, false
	}

	quantidade, ok := ParseQuantity(block[5])
	if !ok {
		return CategoryLine{}, false
	}

	var categoria *string
	if c := strings.TrimSpace(block[2]); c != "-" {
		categoria = strPtr(c)
	}

	return CategoryLine{
		Grupo:      grupo,
		Especie:    especie,
		Categoria:  categoria,
		Faixa:      faixa,
		Sexo:       sexo,
		Quantidade: quantidade,
	}, true
}

// ParseQuantity keeps only the decimal digits of v, in any script, and
// parses them as an integer. "12 cab." yields 12.
func ParseQuantity(v string) (int, bool) {
	digits := strings.Map(func(r rune) rune {
		if !unicode.IsDigit(r) {
			return -1
		}
		return '0' + digitValue(r)
	}, v)
	if digits == "" {
		return 0, false
	}

	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return n, true
}

// digitValue returns the value of a decimal digit rune. Decimal digits are
// encoded in contiguous runs of whole 0-9 sequences.
func digitValue(r rune) rune {
	start := r
	for unicode.IsDigit(start - 1) {
		start--
	}
	return (r - start) % 10
}
