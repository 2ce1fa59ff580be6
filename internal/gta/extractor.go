// Package gta turns the plain text of a GTA (Guia de Trânsito Animal) into a
// DocumentRecord: scalar header fields located by anchors and the table of
// livestock categories.
//
// Extraction is a pure function of the text. A field that cannot be found is
// nil and a table that cannot be found is empty; neither is an error.
package gta

// Extractor assembles a DocumentRecord from independent field extractors and
// an ordered list of category sources whose output is merged and deduplicated.
type Extractor struct {
	Sources []CategorySource
}

// NewExtractor returns an Extractor using the vertical table followed by the
// horizontal fallback pattern
func NewExtractor() *Extractor {
	return &Extractor{
		Sources: []CategorySource{VerticalTable, HorizontalTable},
	}
}

// Extract runs the default extractor over raw text
func Extract(raw string) DocumentRecord {
	return NewExtractor().Extract(raw)
}

// Extract builds the record for raw text
func (e *Extractor) Extract(raw string) DocumentRecord {
	doc := NewDocument(raw)

	lists := make([][]CategoryLine, 0, len(e.Sources))
	for _, src := range e.Sources {
		lists = append(lists, src.Categories(doc))
	}

	return DocumentRecord{
		NumeroGTA: NumeroField.Extract(doc),
		UF:        UFField.Extract(doc),
		Serie:     SerieField.Extract(doc),
		Validade:  ValidadeField.Extract(doc),

		CPFProcedencia:             CPFField(Procedencia).Extract(doc),
		CPFDestino:                 CPFField(Destino).Extract(doc),
		NomeProcedencia:            NomeField(Procedencia).Extract(doc),
		NomeDestino:                NomeField(Destino).Extract(doc),
		EstabelecimentoProcedencia: EstabelecimentoField(Procedencia).Extract(doc),
		EstabelecimentoDestino:     EstabelecimentoField(Destino).Extract(doc),
		MunicipioProcedencia:       MunicipioField(Procedencia).Extract(doc),
		MunicipioDestino:           MunicipioField(Destino).Extract(doc),

		Finalidade: FinalidadeField.Extract(doc),

		Categorias: Dedupe(lists...),
	}
}
