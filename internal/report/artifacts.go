package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/a3tai/mcp-gta-reader/internal/gta"
	"github.com/a3tai/mcp-gta-reader/internal/pricelist"
)

// Product is one row of the report's product table. The JSON keys are the
// spreadsheet column titles.
type Product struct {
	Especie    string   `json:"Espécie"`
	Sexo       string   `json:"Sexo"`
	Faixa      string   `json:"Faixa"`
	Quantidade int      `json:"Quantidade"`
	Classe     string   `json:"Classe"`
	Preco      *float64 `json:"Preço Pauta Fiscal"`
	Data       string   `json:"Data"`
}

// NewProducts converts priced category lines into report rows dated now
func NewProducts(priced []pricelist.PricedLine, classe string, now time.Time) []Product {
	products := make([]Product, 0, len(priced))
	for _, p := range priced {
		products = append(products, Product{
			Especie:    p.Especie,
			Sexo:       p.Sexo,
			Faixa:      p.Faixa,
			Quantidade: p.Quantidade,
			Classe:     classe,
			Preco:      p.Price,
			Data:       now.Format(dateLayout),
		})
	}
	return products
}

func (p Product) values() []any {
	var preco any
	if p.Preco != nil {
		preco = *p.Preco
	}
	return []any{p.Especie, p.Sexo, p.Faixa, p.Quantidade, p.Classe, preco, p.Data}
}

// WriteRecordJSON stores the extracted record as <dir>/<source base>_dados.json
func WriteRecordJSON(dir, sourcePath string, rec gta.DocumentRecord) (string, error) {
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return "", fmt.Errorf("creating JSON directory: %w", err)
	}

	base := strings.TrimSuffix(filepath.Base(sourcePath), filepath.Ext(sourcePath))
	path := filepath.Join(dir, base+"_dados.json")
	if err := writeJSON(path, rec); err != nil {
		return "", fmt.Errorf("writing record JSON: %w", err)
	}
	return path, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
