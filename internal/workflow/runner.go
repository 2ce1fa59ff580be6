// Package workflow chains the GTA steps: pick and validate the PDF, extract
// the record, write its JSON, archive it, and price it into a report.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/a3tai/mcp-gta-reader/internal/gta"
	"github.com/a3tai/mcp-gta-reader/internal/pdf"
	"github.com/a3tai/mcp-gta-reader/internal/pricelist"
	"github.com/a3tai/mcp-gta-reader/internal/report"
	"github.com/a3tai/mcp-gta-reader/internal/store"
	"github.com/a3tai/mcp-gta-reader/internal/textnorm"
)

// Options configures a Runner. Store may be nil to disable archiving.
type Options struct {
	PDF       *pdf.Service
	Store     *store.Store
	Extractor *gta.Extractor

	JSONDir   string
	ReportDir string
	PautaDir  string
	Classe    string // default livestock class

	Logger zerolog.Logger
	Now    func() time.Time
}

// Runner executes the workflow steps
type Runner struct {
	pdf       *pdf.Service
	store     *store.Store
	extractor *gta.Extractor

	jsonDir   string
	reportDir string
	pautaDir  string
	classe    string

	log zerolog.Logger
	now func() time.Time
}

// ExtractResult is the outcome of Extract
type ExtractResult struct {
	Path      string             `json:"path"`
	Pages     int                `json:"pages"`
	JSONPath  string             `json:"json_path"`
	ArchiveID int64              `json:"archive_id,omitempty"`
	Record    gta.DocumentRecord `json:"record"`
}

// ReportResult is the outcome of Report
type ReportResult struct {
	Extract       *ExtractResult     `json:"extract"`
	PriceListPath string             `json:"price_list_path"`
	Classe        string             `json:"classe"`
	ExcelPath     string             `json:"excel_path"`
	ProductsPath  string             `json:"products_path"`
	Products      []report.Product   `json:"products"`
	Unmatched     []gta.CategoryLine `json:"unmatched,omitempty"`
}

// New creates a Runner
func New(opts Options) *Runner {
	extractor := opts.Extractor
	if extractor == nil {
		extractor = gta.NewExtractor()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Runner{
		pdf:       opts.PDF,
		store:     opts.Store,
		extractor: extractor,
		jsonDir:   opts.JSONDir,
		reportDir: opts.ReportDir,
		pautaDir:  opts.PautaDir,
		classe:    opts.Classe,
		log:       opts.Logger,
		now:       now,
	}
}

// Extract reads the GTA at path (the newest PDF of the configured directory
// when path is empty), writes its JSON and archives it. A record without
// categories is returned with a warning logged; use RequireCategories to
// reject it.
func (r *Runner) Extract(ctx context.Context, path string) (*ExtractResult, error) {
	const op = "extract"

	path, err := r.resolvePDF(path)
	if err != nil {
		return nil, err
	}
	log := r.log.With().Str("path", path).Logger()

	validation, err := r.pdf.PDFValidateFile(pdf.PDFValidateFileRequest{Path: path})
	if err != nil {
		return nil, wrap(KindInvalidPDF, op, path, err)
	}
	if !validation.Valid {
		return nil, wrap(KindInvalidPDF, op, path, errors.New(validation.Message))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	text, err := r.pdf.PDFReadText(pdf.PDFReadTextRequest{Path: path})
	if err != nil {
		if errors.Is(err, pdf.ErrNoText) {
			return nil, wrap(KindNoText, op, path, err)
		}
		return nil, wrap(KindInvalidPDF, op, path, err)
	}
	log.Debug().Int("pages", text.Pages).Int("chars", len(text.Text)).Msg("text extracted")

	rec := r.extractor.Extract(text.Text)
	log = log.With().Str("numero_gta", gta.Value(rec.NumeroGTA)).Logger()
	if len(rec.Categorias) == 0 {
		log.Warn().Msg("no livestock categories found")
	} else {
		log.Info().Int("categories", len(rec.Categorias)).Msg("GTA extracted")
	}

	jsonPath, err := report.WriteRecordJSON(r.jsonDir, path, rec)
	if err != nil {
		return nil, wrap(KindReport, op, path, err)
	}

	result := &ExtractResult{
		Path:     path,
		Pages:    text.Pages,
		JSONPath: jsonPath,
		Record:   rec,
	}

	if r.store != nil {
		id, err := r.store.Save(ctx, path, rec)
		if err != nil {
			return nil, wrap(KindArchive, op, path, err)
		}
		result.ArchiveID = id
		log.Debug().Int64("archive_id", id).Msg("record archived")
	}

	return result, nil
}

// Report extracts the GTA at path, prices its categories for classe using
// the price list at pautaPath (the newest spreadsheet of the price list
// directory when empty) and writes the report files.
func (r *Runner) Report(ctx context.Context, path, classe, pautaPath string) (*ReportResult, error) {
	const op = "report"

	extracted, err := r.Extract(ctx, path)
	if err != nil {
		return nil, err
	}
	if err := RequireCategories(extracted.Record); err != nil {
		return nil, wrap(KindReport, op, extracted.Path, err)
	}

	pl, err := r.LoadPriceList(pautaPath)
	if err != nil {
		return nil, err
	}

	classe, err = r.resolveClass(pl, classe)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	priced := pl.Match(extracted.Record, classe)
	var unmatched []gta.CategoryLine
	for _, p := range priced {
		if !p.Matched {
			unmatched = append(unmatched, p.CategoryLine)
			r.log.Warn().
				Str("descricao", pricelist.Description(p.CategoryLine)).
				Str("classe", classe).
				Msg("no price list entry")
		}
	}

	res, err := report.Generate(r.reportDir, r.jsonDir, extracted.Record, priced, classe, r.now())
	if err != nil {
		return nil, wrap(KindReport, op, extracted.Path, err)
	}
	r.log.Info().Str("report", res.ExcelPath).Str("classe", classe).Msg("report written")

	return &ReportResult{
		Extract:       extracted,
		PriceListPath: pl.Path,
		Classe:        classe,
		ExcelPath:     res.ExcelPath,
		ProductsPath:  res.ProductsPath,
		Products:      res.Products,
		Unmatched:     unmatched,
	}, nil
}

// LoadPriceList loads pautaPath, or the newest .xlsx of the price list
// directory when pautaPath is empty
func (r *Runner) LoadPriceList(pautaPath string) (*pricelist.PriceList, error) {
	const op = "load price list"

	if pautaPath == "" {
		latest, err := pdf.LatestFile(r.pautaDir, ".xlsx")
		if err != nil {
			return nil, wrap(KindPriceList, op, r.pautaDir, fmt.Errorf("%w: %v", ErrNoPriceList, err))
		}
		pautaPath = latest
	} else if r.pdf != nil {
		resolved, err := r.pdf.ResolvePath(pautaPath)
		if err != nil {
			return nil, wrap(KindPriceList, op, pautaPath, err)
		}
		pautaPath = resolved
	}

	pl, err := pricelist.Load(pautaPath)
	if err != nil {
		return nil, wrap(KindPriceList, op, pautaPath, err)
	}
	r.log.Debug().Str("path", pautaPath).Int("entries", len(pl.Entries)).Msg("price list loaded")
	return pl, nil
}

// Classes lists the livestock classes of a price list
func (r *Runner) Classes(pautaPath string) (string, []string, error) {
	pl, err := r.LoadPriceList(pautaPath)
	if err != nil {
		return "", nil, err
	}
	return pl.Path, pl.Classes(), nil
}

// History returns the newest archived records
func (r *Runner) History(ctx context.Context, limit int) ([]store.Record, error) {
	if r.store == nil {
		return nil, wrap(KindArchive, "history", "", ErrArchiveDisabled)
	}
	records, err := r.store.List(ctx, limit)
	if err != nil {
		return nil, wrap(KindArchive, "history", "", err)
	}
	return records, nil
}

// Lookup returns the newest archived record for a GTA number
func (r *Runner) Lookup(ctx context.Context, numero string) (*store.Record, error) {
	if r.store == nil {
		return nil, wrap(KindArchive, "lookup", "", ErrArchiveDisabled)
	}
	rec, err := r.store.Get(ctx, numero)
	if err != nil {
		return nil, wrap(KindArchive, "lookup", numero, err)
	}
	return rec, nil
}

// Totals sums the archived heads per species and sex
func (r *Runner) Totals(ctx context.Context) ([]store.CategoryTotal, error) {
	if r.store == nil {
		return nil, wrap(KindArchive, "totals", "", ErrArchiveDisabled)
	}
	totals, err := r.store.Totals(ctx)
	if err != nil {
		return nil, wrap(KindArchive, "totals", "", err)
	}
	return totals, nil
}

func (r *Runner) resolvePDF(path string) (string, error) {
	if strings.TrimSpace(path) != "" {
		return path, nil
	}
	latest, err := r.pdf.LatestPDF()
	if err != nil {
		return "", wrap(KindNoInput, "extract", r.pdf.Directory(), fmt.Errorf("%w: %v", ErrNoInput, err))
	}
	r.log.Info().Str("path", latest).Msg("using newest GTA")
	return latest, nil
}

func (r *Runner) resolveClass(pl *pricelist.PriceList, classe string) (string, error) {
	classes := pl.Classes()
	if strings.TrimSpace(classe) == "" {
		classe = r.classe
	}
	if strings.TrimSpace(classe) == "" {
		return "", wrap(KindPriceList, "report", pl.Path,
			fmt.Errorf("%w: choose one of %s", ErrUnknownClass, strings.Join(classes, ", ")))
	}

	// Match case and accent insensitively but report the spreadsheet spelling
	for _, c := range classes {
		if textnorm.Normalize(c) == textnorm.Normalize(classe) {
			return c, nil
		}
	}
	return "", wrap(KindPriceList, "report", pl.Path,
		fmt.Errorf("%w: %q (available: %s)", ErrUnknownClass, classe, strings.Join(classes, ", ")))
}
