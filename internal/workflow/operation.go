package workflow

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/a3tai/mcp-gta-reader/internal/gta"
	"github.com/a3tai/mcp-gta-reader/internal/textnorm"
)

// Fiscal operations offered when invoicing a GTA
const (
	OperationTransfer  = "REMESSA INTERNA DE TRANSFERÊNCIA DE BOVINO"
	OperationSlaughter = "VENDA INTERNA DE BOVINO PARA ABATE"
	OperationRearing   = "VENDA INTERNA DE BOVINO PARA RECRIA, MONTARIA, TRAÇÃO E ENGORDA"
)

// Operations lists the selectable operations in menu order
var Operations = []string{OperationTransfer, OperationSlaughter, OperationRearing}

// SameOwner reports whether origin and destination share a non-empty CPF/CNPJ
func SameOwner(rec gta.DocumentRecord) bool {
	p := gta.Value(rec.CPFProcedencia)
	return p != "" && p == gta.Value(rec.CPFDestino)
}

// ChooseOperation picks the fiscal operation for a record. A transfer between
// establishments of the same owner is always a transfer; otherwise choice
// goes through ParseOperation.
func ChooseOperation(rec gta.DocumentRecord, choice string) (string, error) {
	if SameOwner(rec) {
		return OperationTransfer, nil
	}
	return ParseOperation(choice)
}

// ParseOperation resolves choice to one of Operations, by name (accents and
// case are ignored) or by its 1-based position.
func ParseOperation(choice string) (string, error) {
	const op = "choose operation"

	choice = strings.TrimSpace(choice)
	if choice == "" {
		return "", wrap(KindOperation, op, "", fmt.Errorf("%w: a choice is required", ErrUnknownOperation))
	}

	if n, err := strconv.Atoi(choice); err == nil {
		if n >= 1 && n <= len(Operations) {
			return Operations[n-1], nil
		}
		return "", wrap(KindOperation, op, "", fmt.Errorf("%w: %d", ErrUnknownOperation, n))
	}

	want := textnorm.Normalize(choice)
	for _, o := range Operations {
		if textnorm.Normalize(o) == want {
			return o, nil
		}
	}
	return "", wrap(KindOperation, op, "", fmt.Errorf("%w: %q", ErrUnknownOperation, choice))
}

// RequireCategories fails when the record carries no livestock lines
func RequireCategories(rec gta.DocumentRecord) error {
	if len(rec.Categorias) == 0 {
		return ErrNoCategories
	}
	return nil
}
