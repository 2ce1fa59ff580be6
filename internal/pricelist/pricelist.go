// Package pricelist loads the state "pauta fiscal" spreadsheet and prices the
// categories extracted from a GTA.
package pricelist

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/a3tai/mcp-gta-reader/internal/gta"
	"github.com/a3tai/mcp-gta-reader/internal/textnorm"
)

const (
	// SheetName is the worksheet holding the price table
	SheetName = "Dados"

	classColumn       = "Classe"
	descriptionColumn = "Descrição"
	priceColumnHint   = "valor"
)

// ErrMissingColumns is returned when the sheet lacks a required column
var ErrMissingColumns = errors.New("pricelist: required column not found")

// Entry is one row of the price list
type Entry struct {
	Classe    string
	Descricao string
	RawPrice  string
	Price     *float64

	classeKey    string
	descricaoKey string
}

// PriceList is the loaded price table
type PriceList struct {
	Path        string
	PriceColumn string
	Entries     []Entry
}

// PricedLine is a category line joined with its price-list entry
type PricedLine struct {
	gta.CategoryLine
	Classe   string
	Matched  bool
	RawPrice string
	Price    *float64
}

// Load reads the price list from an xlsx file
func Load(path string) (*PriceList, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening price list: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", SheetName, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty: %w", SheetName, ErrMissingColumns)
	}

	return fromRows(path, rows)
}

func fromRows(path string, rows [][]string) (*PriceList, error) {
	header := rows[0]
	classIdx, descIdx, priceIdx := -1, -1, -1
	for i, name := range header {
		name = strings.TrimSpace(name)
		switch {
		case name == classColumn:
			classIdx = i
		case name == descriptionColumn:
			descIdx = i
		case priceIdx < 0 && strings.Contains(strings.ToLower(name), priceColumnHint):
			priceIdx = i
		}
	}
	if classIdx < 0 || descIdx < 0 {
		return nil, fmt.Errorf("columns %q and %q: %w", classColumn, descriptionColumn, ErrMissingColumns)
	}
	if priceIdx < 0 {
		return nil, fmt.Errorf("price column containing %q: %w", priceColumnHint, ErrMissingColumns)
	}

	pl := &PriceList{
		Path:        path,
		PriceColumn: strings.TrimSpace(header[priceIdx]),
	}
	for _, row := range rows[1:] {
		classe := cell(row, classIdx)
		descricao := cell(row, descIdx)
		if classe == "" && descricao == "" {
			continue
		}
		raw := cell(row, priceIdx)
		pl.Entries = append(pl.Entries, Entry{
			Classe:       classe,
			Descricao:    descricao,
			RawPrice:     raw,
			Price:        ParsePrice(raw),
			classeKey:    textnorm.Normalize(classe),
			descricaoKey: textnorm.NormalizeDescription(descricao),
		})
	}
	return pl, nil
}

func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// Classes returns the distinct livestock classes in sorted order
func (pl *PriceList) Classes() []string {
	seen := make(map[string]bool)
	var classes []string
	for _, e := range pl.Entries {
		if e.Classe == "" || seen[e.Classe] {
			continue
		}
		seen[e.Classe] = true
		classes = append(classes, e.Classe)
	}
	sort.Strings(classes)
	return classes
}

// Lookup returns the first entry matching a category description within a class
func (pl *PriceList) Lookup(classe, descricao string) (Entry, bool) {
	classeKey := textnorm.Normalize(classe)
	descKey := textnorm.NormalizeDescription(descricao)
	for _, e := range pl.Entries {
		if e.classeKey == classeKey && e.descricaoKey == descKey {
			return e, true
		}
	}
	return Entry{}, false
}

// Match prices every category of the record for the chosen class. Lines
// without an entry are kept with a nil price.
func (pl *PriceList) Match(rec gta.DocumentRecord, classe string) []PricedLine {
	priced := make([]PricedLine, 0, len(rec.Categorias))
	for _, c := range rec.Categorias {
		p := PricedLine{CategoryLine: c, Classe: classe}
		if e, ok := pl.Lookup(classe, Description(c)); ok {
			p.Matched = true
			p.RawPrice = e.RawPrice
			p.Price = e.Price
		}
		priced = append(priced, p)
	}
	return priced
}

// Description builds the price-list description of a category:
// species, sex and age range.
func Description(c gta.CategoryLine) string {
	return c.Especie + " " + c.Sexo + " " + c.Faixa
}

// ParsePrice parses plain ("3500.5") and Brazilian ("R$ 3.500,50") amounts
func ParsePrice(raw string) *float64 {
	s := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "R$"))
	if s == "" {
		return nil
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return &v
	}

	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
