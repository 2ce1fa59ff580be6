package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/a3tai/mcp-gta-reader/internal/gta"
	"github.com/a3tai/mcp-gta-reader/internal/pricelist"
)

func s(v string) *string { return &v }

func sampleRecord() gta.DocumentRecord {
	return gta.DocumentRecord{
		NumeroGTA:            s("123456"),
		UF:                   s("TO"),
		Serie:                s("A"),
		Validade:             s("20/05/2025"),
		CPFProcedencia:       s("12345678901"),
		CPFDestino:           s("98765432100"),
		NomeProcedencia:      s("João da Silva"),
		NomeDestino:          s("Frigorífico Tocantins"),
		MunicipioProcedencia: s("ARAGUAINA - TO"),
		Finalidade:           s("ABATE"),
		Categorias: []gta.CategoryLine{
			{Grupo: "Bovídeos", Especie: "Bovinos", Faixa: "13 a 24 meses", Sexo: "Fêmea", Quantidade: 10},
			{Grupo: "Bovídeos", Especie: "Bovinos", Faixa: "25 a 36 meses", Sexo: "Macho", Quantidade: 12},
		},
	}
}

func samplePriced(rec gta.DocumentRecord) []pricelist.PricedLine {
	price := 2500.0
	return []pricelist.PricedLine{
		{CategoryLine: rec.Categorias[0], Classe: "Gado de Corte", Matched: true, RawPrice: "2500", Price: &price},
		{CategoryLine: rec.Categorias[1], Classe: "Gado de Corte"},
	}
}

func TestBaseName(t *testing.T) {
	now := time.Date(2025, 5, 12, 14, 3, 9, 0, time.UTC)
	assert.Equal(t, "RELATORIO_NFE_GTA_123456_JOAO_DA_SILVA_12.05.2025_14-03-09", BaseName(sampleRecord(), now))
	assert.Equal(t, "RELATORIO_NFE_GTA___12.05.2025_14-03-09", BaseName(gta.DocumentRecord{}, now))
}

func TestGenerate(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "Relatórios")
	jsonDir := filepath.Join(root, "JSON")
	now := time.Date(2025, 5, 12, 14, 3, 9, 0, time.UTC)
	rec := sampleRecord()

	res, err := Generate(dir, jsonDir, rec, samplePriced(rec), "Gado de Corte", now)
	require.NoError(t, err)
	assert.FileExists(t, res.ExcelPath)
	assert.FileExists(t, res.ProductsPath)
	assert.Equal(t, jsonDir, filepath.Dir(res.ProductsPath))
	assert.True(t, strings.HasSuffix(res.ProductsPath, "_produtos.json"))

	f, err := excelize.OpenFile(res.ExcelPath)
	require.NoError(t, err)
	defer f.Close()

	get := func(cell string) string {
		v, err := f.GetCellValue(SheetName, cell)
		require.NoError(t, err)
		return v
	}

	assert.Equal(t, "GTA", get("A1"))
	assert.Equal(t, "123456", get("B2"))
	assert.Equal(t, "TO", get("B3"))
	assert.Equal(t, "A", get("B4"))
	assert.Equal(t, "PROCEDÊNCIA", get("A6"))
	assert.Equal(t, "DESTINO", get("D6"))
	assert.Equal(t, "12345678901", get("B7"))
	assert.Equal(t, "Frigorífico Tocantins", get("E8"))

	assert.Equal(t, "Espécie", get("A12"))
	assert.Equal(t, "Preço Pauta Fiscal", get("F12"))
	assert.Equal(t, "Bovinos", get("A13"))
	assert.Equal(t, "10", get("D13"))
	assert.Equal(t, "2500", get("F13"))
	assert.Equal(t, "", get("F14"))
	assert.Equal(t, "12/05/2025", get("G14"))

	// footer follows the product rows with one blank line
	assert.Equal(t, "DADOS ADICIONAIS", get("A16"))
	assert.Equal(t, "ABATE", get("B17"))
	assert.Equal(t, "20/05/2025", get("B18"))

	data, err := os.ReadFile(res.ProductsPath)
	require.NoError(t, err)
	var products []map[string]any
	require.NoError(t, json.Unmarshal(data, &products))
	require.Len(t, products, 2)
	assert.Equal(t, "Bovinos", products[0]["Espécie"])
	assert.Equal(t, float64(2500), products[0]["Preço Pauta Fiscal"])
	assert.Nil(t, products[1]["Preço Pauta Fiscal"])
	assert.Equal(t, "Gado de Corte", products[1]["Classe"])
}

func TestGenerate_NoCategories(t *testing.T) {
	now := time.Now()
	res, err := Generate(t.TempDir(), t.TempDir(), gta.DocumentRecord{}, nil, "Gado de Corte", now)
	require.NoError(t, err)
	assert.Empty(t, res.Products)

	f, err := excelize.OpenFile(res.ExcelPath)
	require.NoError(t, err)
	defer f.Close()

	v, err := f.GetCellValue(SheetName, "A14")
	require.NoError(t, err)
	assert.Equal(t, "DADOS ADICIONAIS", v)
}

func TestWriteRecordJSON(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "JSON")
	rec := sampleRecord()

	path, err := WriteRecordJSON(dir, "/tmp/gtas/GTA 123456.pdf", rec)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "GTA 123456_dados.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	// Accents are written as-is and the output is indented
	assert.Contains(t, string(data), "\"nome_procedencia\": \"João da Silva\"")
	assert.Contains(t, string(data), "\"estabelecimento_procedencia\": null")

	var decoded gta.DocumentRecord
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, rec, decoded)
}
