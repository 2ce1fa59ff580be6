package gta

// CategoryLine is one row of the livestock quantity table
type CategoryLine struct {
	Grupo      string  `json:"grupo"`
	Especie    string  `json:"especie"`
	Categoria  *string `json:"categoria"` // nil when the source carries a "-" placeholder
	Faixa      string  `json:"faixa"`
	Sexo       string  `json:"sexo"`
	Quantidade int     `json:"quantidade"`
}

// CategoryKey identifies a CategoryLine for deduplication. Grupo is not part
// of the key.
type CategoryKey struct {
	Especie    string
	Categoria  string
	Faixa      string
	Sexo       string
	Quantidade int
}

// Key returns the deduplication key of the line
func (c CategoryLine) Key() CategoryKey {
	categoria := ""
	if c.Categoria != nil {
		categoria = *c.Categoria
	}
	return CategoryKey{
		Especie:    c.Especie,
		Categoria:  categoria,
		Faixa:      c.Faixa,
		Sexo:       c.Sexo,
		Quantidade: c.Quantidade,
	}
}

// Party is one side of the transport: origin (procedência) or destination
type Party int

const (
	Procedencia Party = iota
	Destino
)

// DocumentRecord is the structured result of one extraction run.
// Field order and JSON keys are a compatibility contract for downstream
// consumers (report generation, price-list merge).
type DocumentRecord struct {
	NumeroGTA *string `json:"numero_gta"`
	UF        *string `json:"uf"`
	Serie     *string `json:"serie"`
	Validade  *string `json:"validade"`

	CPFProcedencia             *string `json:"cpf_procedencia"`
	CPFDestino                 *string `json:"cpf_destino"`
	NomeProcedencia            *string `json:"nome_procedencia"`
	NomeDestino                *string `json:"nome_destino"`
	EstabelecimentoProcedencia *string `json:"estabelecimento_procedencia"`
	EstabelecimentoDestino     *string `json:"estabelecimento_destino"`
	MunicipioProcedencia       *string `json:"municipio_procedencia"`
	MunicipioDestino           *string `json:"municipio_destino"`

	Finalidade *string `json:"finalidade"`

	Categorias []CategoryLine `json:"categorias"`
}

// Value dereferences an optional field, returning "" for nil
func Value(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func strPtr(s string) *string {
	return &s
}
