package pricelist

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/a3tai/mcp-gta-reader/internal/gta"
)

func writeSheet(t *testing.T, sheet string, rows [][]any) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	_, err := f.NewSheet(sheet)
	require.NoError(t, err)
	if sheet != "Sheet1" {
		require.NoError(t, f.DeleteSheet("Sheet1"))
	}

	for i, row := range rows {
		ref, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow(sheet, ref, &r))
	}

	path := filepath.Join(t.TempDir(), "PAUTA FISCAL.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func samplePauta(t *testing.T) string {
	return writeSheet(t, SheetName, [][]any{
		{"Código", "Classe", "Descrição", "Valor (R$)"},
		{"1", "Gado de Corte", "BOVINO FÊMEA 13 A 24 MESES", "2500,00"},
		{"2", "Gado de Corte", "Bovino Macho 25 a 36 meses", "3.800,50"},
		{"3", "Gado de Leite", "BOVINO FEMEA 13 A 24 MESES", "1900"},
		{"4", "Gado de Corte", "BOVINO FEMEA 13 A 24 MESES", "9999"},
		{"", "", "", ""},
	})
}

func TestLoad(t *testing.T) {
	pl, err := Load(samplePauta(t))
	require.NoError(t, err)

	assert.Equal(t, "Valor (R$)", pl.PriceColumn)
	assert.Len(t, pl.Entries, 4)
	assert.Equal(t, []string{"Gado de Corte", "Gado de Leite"}, pl.Classes())
}

func TestLoad_MissingColumns(t *testing.T) {
	tests := []struct {
		name string
		rows [][]any
	}{
		{name: "no price column", rows: [][]any{{"Classe", "Descrição", "Preço"}}},
		{name: "no description", rows: [][]any{{"Classe", "Valor"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeSheet(t, SheetName, tt.rows))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMissingColumns))
		})
	}
}

func TestLoad_MissingSheet(t *testing.T) {
	_, err := Load(writeSheet(t, "Outra", [][]any{{"Classe", "Descrição", "Valor"}}))
	assert.Error(t, err)
}

func TestMatch(t *testing.T) {
	pl, err := Load(samplePauta(t))
	require.NoError(t, err)

	rec := gta.DocumentRecord{Categorias: []gta.CategoryLine{
		{Grupo: "Bovídeos", Especie: "Bovinos", Faixa: "13 a 24 meses", Sexo: "Fêmea", Quantidade: 10},
		{Grupo: "Bovídeos", Especie: "Bovinos", Faixa: "25 a 36 meses", Sexo: "Macho", Quantidade: 12},
		{Grupo: "Bovídeos", Especie: "Bubalinos", Faixa: "0 a 12 meses", Sexo: "Macho", Quantidade: 1},
	}}

	priced := pl.Match(rec, "gado de corte")
	require.Len(t, priced, 3)

	// First matching entry wins
	assert.True(t, priced[0].Matched)
	require.NotNil(t, priced[0].Price)
	assert.InDelta(t, 2500.0, *priced[0].Price, 0.001)

	assert.True(t, priced[1].Matched)
	assert.InDelta(t, 3800.50, *priced[1].Price, 0.001)
	assert.Equal(t, "3.800,50", priced[1].RawPrice)

	assert.False(t, priced[2].Matched)
	assert.Nil(t, priced[2].Price)
	assert.Equal(t, "gado de corte", priced[2].Classe)
	assert.Equal(t, 1, priced[2].Quantidade)
}

func TestMatch_OtherClass(t *testing.T) {
	pl, err := Load(samplePauta(t))
	require.NoError(t, err)

	rec := gta.DocumentRecord{Categorias: []gta.CategoryLine{
		{Especie: "Bovinos", Faixa: "13 a 24 meses", Sexo: "Fêmea", Quantidade: 3},
	}}
	priced := pl.Match(rec, "Gado de Leite")
	require.Len(t, priced, 1)
	assert.InDelta(t, 1900.0, *priced[0].Price, 0.001)
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		in   string
		want *float64
	}{
		{in: "1900", want: ptr(1900)},
		{in: "3500.5", want: ptr(3500.5)},
		{in: "R$ 3.500,50", want: ptr(3500.5)},
		{in: "2500,00", want: ptr(2500)},
		{in: "", want: nil},
		{in: "sob consulta", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := ParsePrice(tt.in)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, *tt.want, *got, 0.0001)
		})
	}
}

func ptr(v float64) *float64 { return &v }
