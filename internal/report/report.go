// Package report writes the artifacts of a GTA run: the extracted record as
// JSON and the priced spreadsheet report with its product list.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/a3tai/mcp-gta-reader/internal/gta"
	"github.com/a3tai/mcp-gta-reader/internal/pricelist"
	"github.com/a3tai/mcp-gta-reader/internal/textnorm"
)

const (
	// SheetName is the worksheet of the generated report
	SheetName = "Dados GTA"

	productHeaderRow = 12
	timestampLayout  = "02.01.2006_15-04-05"
	dateLayout       = "02/01/2006"
	dirPerm          = 0o750
)

var productColumns = []string{
	"Espécie", "Sexo", "Faixa", "Quantidade", "Classe", "Preço Pauta Fiscal", "Data",
}

// Result lists the files written by Generate
type Result struct {
	ExcelPath    string
	ProductsPath string
	Products     []Product
}

// Generate writes the xlsx report into reportDir and the products JSON into
// jsonDir for a priced record
func Generate(reportDir, jsonDir string, rec gta.DocumentRecord, priced []pricelist.PricedLine, classe string, now time.Time) (*Result, error) {
	for _, dir := range []string{reportDir, jsonDir} {
		if err := os.MkdirAll(dir, dirPerm); err != nil {
			return nil, fmt.Errorf("creating output directory: %w", err)
		}
	}

	products := NewProducts(priced, classe, now)
	base := BaseName(rec, now)

	excelPath := filepath.Join(reportDir, base+".xlsx")
	if err := writeWorkbook(excelPath, rec, products); err != nil {
		return nil, err
	}

	productsPath := filepath.Join(jsonDir, base+"_produtos.json")
	if err := writeJSON(productsPath, products); err != nil {
		return nil, fmt.Errorf("writing products JSON: %w", err)
	}

	return &Result{
		ExcelPath:    excelPath,
		ProductsPath: productsPath,
		Products:     products,
	}, nil
}

// BaseName is the file name shared by the report and its products JSON
func BaseName(rec gta.DocumentRecord, now time.Time) string {
	return fmt.Sprintf("RELATORIO_NFE_GTA_%s_%s_%s",
		gta.Value(rec.NumeroGTA),
		textnorm.CleanName(gta.Value(rec.NomeProcedencia)),
		now.Format(timestampLayout))
}

func writeWorkbook(path string, rec gta.DocumentRecord, products []Product) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating style: %w", err)
	}

	w := &sheetWriter{f: f, bold: bold}

	w.label("A1", "GTA")
	w.set("A2", "Número")
	w.set("B2", gta.Value(rec.NumeroGTA))
	w.set("A3", "UF")
	w.set("B3", gta.Value(rec.UF))
	w.set("A4", "Série")
	w.set("B4", gta.Value(rec.Serie))

	w.label("A6", "PROCEDÊNCIA")
	w.label("D6", "DESTINO")

	w.label("A7", "CPF / CNPJ Procedencia")
	w.label("A8", "Nome Procedencia")
	w.label("A9", "Estabelecimento Procedencia")
	w.label("A10", "Municipio Procedencia")
	w.set("B7", gta.Value(rec.CPFProcedencia))
	w.set("B8", gta.Value(rec.NomeProcedencia))
	w.set("B9", gta.Value(rec.EstabelecimentoProcedencia))
	w.set("B10", gta.Value(rec.MunicipioProcedencia))

	w.label("D7", "CPF / CNPJ Destino")
	w.label("D8", "Nome Destino")
	w.label("D9", "Estabelecimento Destino")
	w.label("D10", "Municipio Destino")
	w.set("E7", gta.Value(rec.CPFDestino))
	w.set("E8", gta.Value(rec.NomeDestino))
	w.set("E9", gta.Value(rec.EstabelecimentoDestino))
	w.set("E10", gta.Value(rec.MunicipioDestino))

	for col, header := range productColumns {
		w.label(cellName(col+1, productHeaderRow), header)
	}
	for i, p := range products {
		row := productHeaderRow + 1 + i
		for col, v := range p.values() {
			w.set(cellName(col+1, row), v)
		}
	}

	footer := productHeaderRow + 1 + len(products) + 1
	w.label(fmt.Sprintf("A%d", footer), "DADOS ADICIONAIS")
	w.set(fmt.Sprintf("A%d", footer+1), "Finalidade")
	w.set(fmt.Sprintf("B%d", footer+1), gta.Value(rec.Finalidade))
	w.set(fmt.Sprintf("A%d", footer+2), "Validade")
	w.set(fmt.Sprintf("B%d", footer+2), gta.Value(rec.Validade))

	if w.err != nil {
		return fmt.Errorf("filling report: %w", w.err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving report: %w", err)
	}
	return nil
}

// sheetWriter keeps the first error so the layout code reads top to bottom
type sheetWriter struct {
	f    *excelize.File
	bold int
	err  error
}

func (w *sheetWriter) set(cell string, v any) {
	if w.err != nil || v == nil {
		return
	}
	w.err = w.f.SetCellValue(SheetName, cell, v)
}

func (w *sheetWriter) label(cell, text string) {
	w.set(cell, text)
	if w.err != nil {
		return
	}
	w.err = w.f.SetCellStyle(SheetName, cell, cell, w.bold)
}

func cellName(col, row int) string {
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		// col and row are always positive here
		panic(err)
	}
	return name
}
