package workflow

import (
	"errors"
	"fmt"

	"github.com/a3tai/mcp-gta-reader/internal/pricelist"
)

// Kind classifies workflow failures
type Kind int

const (
	KindUnknown Kind = iota
	KindNoInput
	KindInvalidPDF
	KindNoText
	KindPriceList
	KindReport
	KindArchive
	KindOperation
)

// String returns a string representation of the Kind
func (k Kind) String() string {
	switch k {
	case KindNoInput:
		return "NO_INPUT"
	case KindInvalidPDF:
		return "INVALID_PDF"
	case KindNoText:
		return "NO_TEXT"
	case KindPriceList:
		return "PRICE_LIST"
	case KindReport:
		return "REPORT"
	case KindArchive:
		return "ARCHIVE"
	case KindOperation:
		return "OPERATION"
	default:
		return "UNKNOWN"
	}
}

var (
	// ErrNoInput means no certificate PDF was given or found
	ErrNoInput = errors.New("no GTA PDF selected")
	// ErrNoCategories means the certificate lists no livestock lines
	ErrNoCategories = errors.New("GTA has no livestock categories")
	// ErrUnknownOperation means the fiscal operation choice is not recognised
	ErrUnknownOperation = errors.New("unknown fiscal operation")
	// ErrPriceListColumns means the price list lacks Classe, Descrição or a price column
	ErrPriceListColumns = pricelist.ErrMissingColumns
	// ErrNoPriceList means no price list spreadsheet was given or found
	ErrNoPriceList = errors.New("no price list spreadsheet found")
	// ErrUnknownClass means the livestock class is missing from the price list
	ErrUnknownClass = errors.New("livestock class not in price list")
	// ErrArchiveDisabled means no SQLite archive is configured
	ErrArchiveDisabled = errors.New("archive is disabled")
)

// Error is a failed workflow step
type Error struct {
	Kind Kind
	Op   string
	Path string
	Err  error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s %s [%s]: %v", e.Op, e.Path, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind of the first *Error in err's chain
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func wrap(kind Kind, op, path string, err error) error {
	return &Error{Kind: kind, Op: op, Path: path, Err: err}
}
