package gta

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// lookaheadWindow is how many lines after an anchor label are inspected
const lookaheadWindow = 5

// space and digit stand in for \s and \d with their Unicode meaning, so
// NBSP and other non-ASCII separators common in PDF text still match.
const (
	space = `[\t\n\v\f\r\x1c-\x1f\x{85}\p{Zs}\x{2028}\x{2029}]`
	digit = `\p{Nd}`
)

var (
	numeroPattern     = regexp.MustCompile(`(?is)\bNumero\b.*?(` + digit + `{5,})`)
	validadePattern   = regexp.MustCompile(`Validade` + space + `*[:\-]` + space + `*(` + digit + `{2}/` + digit + `{2}/` + digit + `{4})`)
	finalidadePattern = regexp.MustCompile(`(?s)Finalidade:` + space + `*(.+?)` + space + `+Meio de Transporte`)

	cpfPattern             = regexp.MustCompile(`CPF/CNPJ:` + space + `*(` + digit + `+)`)
	nomePattern            = regexp.MustCompile(`Nome:` + space + `*(.+)`)
	estabelecimentoPattern = regexp.MustCompile(`Estabelecimento:` + space + `*(.+)`)
	municipioPattern       = regexp.MustCompile(`Município - UF:` + space + `*(.+)`)

	ufPattern = regexp.MustCompile(`^[A-Z]{2}$`)
)

// FieldExtractor recovers one optional scalar field from a document
type FieldExtractor interface {
	Extract(doc *Document) *string
}

// RegexField captures the first submatch of a pattern over the raw text
type RegexField struct {
	Pattern *regexp.Regexp
}

// Extract implements FieldExtractor
func (f RegexField) Extract(doc *Document) *string {
	m := f.Pattern.FindStringSubmatch(doc.Raw)
	if len(m) < 2 {
		return nil
	}
	return strPtr(strings.TrimSpace(m[1]))
}

// PartyField captures the n-th occurrence of a repeated pattern, where the
// n-th occurrence in document order belongs to the n-th party.
type PartyField struct {
	Pattern *regexp.Regexp
	Party   Party
}

// Extract implements FieldExtractor
func (f PartyField) Extract(doc *Document) *string {
	matches := f.Pattern.FindAllStringSubmatch(doc.Raw, int(f.Party)+1)
	if len(matches) <= int(f.Party) {
		return nil
	}
	return strPtr(strings.TrimSpace(matches[f.Party][1]))
}

// LookaheadField finds the first line equal to one of the anchor labels and
// returns the first of the following lines that satisfies Accept.
type LookaheadField struct {
	Anchors []string
	Accept  func(value string) bool
}

// Extract implements FieldExtractor
func (f LookaheadField) Extract(doc *Document) *string {
	idx := doc.findAnchor(f.Anchors...)
	if idx < 0 {
		return nil
	}

	end := min(idx+1+lookaheadWindow, len(doc.Lines))
	for _, candidate := range doc.Lines[idx+1 : end] {
		if f.Accept(candidate) {
			return strPtr(candidate)
		}
	}
	return nil
}

// IsUF reports whether v is a two-letter uppercase state code
func IsUF(v string) bool {
	return ufPattern.MatchString(v)
}

// IsSerie reports whether v is a single letter or number, including
// numeric symbols such as "²" or "Ⅳ"
func IsSerie(v string) bool {
	if utf8.RuneCountInString(v) != 1 {
		return false
	}
	r, _ := utf8.DecodeRuneInString(v)
	return unicode.IsLetter(r) || unicode.IsNumber(r)
}

var (
	NumeroField     FieldExtractor = RegexField{Pattern: numeroPattern}
	ValidadeField   FieldExtractor = RegexField{Pattern: validadePattern}
	FinalidadeField FieldExtractor = RegexField{Pattern: finalidadePattern}
	UFField         FieldExtractor = LookaheadField{Anchors: []string{"UF"}, Accept: IsUF}
	SerieField      FieldExtractor = LookaheadField{Anchors: []string{"SÉRIE", "SERIE"}, Accept: IsSerie}
)

// CPFField returns the CPF/CNPJ extractor for a party
func CPFField(p Party) FieldExtractor { return PartyField{Pattern: cpfPattern, Party: p} }

// NomeField returns the name extractor for a party
func NomeField(p Party) FieldExtractor { return PartyField{Pattern: nomePattern, Party: p} }

// EstabelecimentoField returns the establishment extractor for a party
func EstabelecimentoField(p Party) FieldExtractor {
	return PartyField{Pattern: estabelecimentoPattern, Party: p}
}

// MunicipioField returns the municipality extractor for a party
func MunicipioField(p Party) FieldExtractor {
	return PartyField{Pattern: municipioPattern, Party: p}
}
