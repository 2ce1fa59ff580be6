package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/a3tai/mcp-gta-reader/internal/config"
	"github.com/a3tai/mcp-gta-reader/internal/descriptions"
	"github.com/a3tai/mcp-gta-reader/internal/gta"
	"github.com/a3tai/mcp-gta-reader/internal/pdf"
	"github.com/a3tai/mcp-gta-reader/internal/workflow"
)

const (
	shutdownTimeout = 5 * time.Second
	mcpEndpoint     = "/mcp"
)

// Server represents the MCP server instance
type Server struct {
	config     *config.Config
	pdfService *pdf.Service
	runner     *workflow.Runner
	mcpServer  *server.MCPServer
	log        zerolog.Logger
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, pdfService *pdf.Service, runner *workflow.Runner, logger zerolog.Logger) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if pdfService == nil {
		return nil, errors.New("pdfService cannot be nil")
	}
	if runner == nil {
		return nil, errors.New("runner cannot be nil")
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	s := &Server{
		config:     cfg,
		pdfService: pdfService,
		runner:     runner,
		mcpServer:  mcpServer,
		log:        logger,
	}
	s.registerTools()

	return s, nil
}

func (s *Server) registerTools() {
	pathArg := mcp.WithString("path",
		mcp.Description("GTA PDF path, absolute or relative to the GTA directory (newest PDF when empty)"),
	)

	s.mcpServer.AddTool(mcp.NewTool("gta_extract",
		mcp.WithDescription(descriptions.GetToolDescription("gta_extract")),
		pathArg,
	), s.handleExtract)

	s.mcpServer.AddTool(mcp.NewTool("gta_report",
		mcp.WithDescription(descriptions.GetToolDescription("gta_report")),
		pathArg,
		mcp.WithString("classe", mcp.Description("Livestock class of the price list (configured default when empty)")),
		mcp.WithString("pauta", mcp.Description("Price list .xlsx (newest of the price list directory when empty)")),
	), s.handleReport)

	s.mcpServer.AddTool(mcp.NewTool("gta_operation",
		mcp.WithDescription(descriptions.GetToolDescription("gta_operation")),
		pathArg,
		mcp.WithString("choice", mcp.Description("Operation name or its number (1-3)")),
	), s.handleOperation)

	s.mcpServer.AddTool(mcp.NewTool("gta_price_classes",
		mcp.WithDescription(descriptions.GetToolDescription("gta_price_classes")),
		mcp.WithString("pauta", mcp.Description("Price list .xlsx (newest of the price list directory when empty)")),
	), s.handlePriceClasses)

	s.mcpServer.AddTool(mcp.NewTool("gta_history",
		mcp.WithDescription(descriptions.GetToolDescription("gta_history")),
		mcp.WithString("numero", mcp.Description("GTA number to look up")),
		mcp.WithNumber("limit", mcp.Description("Maximum records to list"), mcp.DefaultNumber(20), mcp.Min(1)),
		mcp.WithBoolean("totals", mcp.Description("Sum heads per species and sex instead of listing")),
	), s.handleHistory)

	s.mcpServer.AddTool(mcp.NewTool("gta_server_info",
		mcp.WithDescription(descriptions.GetToolDescription("gta_server_info")),
	), s.handleServerInfo)

	s.mcpServer.AddTool(mcp.NewTool("pdf_validate_file",
		mcp.WithDescription(descriptions.GetToolDescription("pdf_validate_file")),
		mcp.WithString("path", mcp.Required(), mcp.Description("Full path to the PDF file")),
	), s.handlePDFValidateFile)

	s.mcpServer.AddTool(mcp.NewTool("pdf_search_directory",
		mcp.WithDescription(descriptions.GetToolDescription("pdf_search_directory")),
		mcp.WithString("directory", mcp.Description("Directory path to search (uses default if empty)")),
		mcp.WithString("query", mcp.Description("Optional search query matched against file names")),
	), s.handlePDFSearchDirectory)
}

func (s *Server) handleExtract(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	res, err := s.runner.Extract(ctx, request.GetString("path", ""))
	if err != nil {
		return s.toolError("gta_extract", err), nil
	}

	text := fmt.Sprintf("Extracted GTA %s from %s\n", display(res.Record.NumeroGTA), res.Path)
	text += fmt.Sprintf("Categories: %d\n", len(res.Record.Categorias))
	text += fmt.Sprintf("JSON: %s\n", res.JSONPath)
	if res.ArchiveID > 0 {
		text += fmt.Sprintf("Archive ID: %d\n", res.ArchiveID)
	}
	if len(res.Record.Categorias) == 0 {
		text += "\n⚠️  WARNING: no livestock categories were found in this GTA.\n"
	}
	return s.withJSON(text, res.Record)
}

func (s *Server) handleReport(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	res, err := s.runner.Report(ctx,
		request.GetString("path", ""),
		request.GetString("classe", ""),
		request.GetString("pauta", ""),
	)
	if err != nil {
		return s.toolError("gta_report", err), nil
	}

	text := fmt.Sprintf("Report for GTA %s (class %s)\n", display(res.Extract.Record.NumeroGTA), res.Classe)
	text += fmt.Sprintf("Price list: %s\n", res.PriceListPath)
	text += fmt.Sprintf("Excel: %s\n", res.ExcelPath)
	text += fmt.Sprintf("Products JSON: %s\n", res.ProductsPath)
	if len(res.Unmatched) > 0 {
		text += fmt.Sprintf("\n⚠️  %d line(s) without a price list entry:\n", len(res.Unmatched))
		for _, c := range res.Unmatched {
			text += fmt.Sprintf("   • %s %s %s (%d)\n", c.Especie, c.Sexo, c.Faixa, c.Quantidade)
		}
	}
	return s.withJSON(text, res.Products)
}

func (s *Server) handleOperation(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	res, err := s.runner.Extract(ctx, request.GetString("path", ""))
	if err != nil {
		return s.toolError("gta_operation", err), nil
	}

	choice := request.GetString("choice", "")
	if choice == "" && !workflow.SameOwner(res.Record) {
		return mcp.NewToolResultText(formatOperationChoices(res.Record)), nil
	}

	op, err := workflow.ChooseOperation(res.Record, choice)
	if err != nil {
		return s.toolError("gta_operation", err), nil
	}

	text := fmt.Sprintf("GTA %s: %s\n", display(res.Record.NumeroGTA), op)
	if workflow.SameOwner(res.Record) {
		text += "Origin and destination share the same CPF/CNPJ.\n"
	}
	return mcp.NewToolResultText(text), nil
}

func (s *Server) handlePriceClasses(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, classes, err := s.runner.Classes(request.GetString("pauta", ""))
	if err != nil {
		return s.toolError("gta_price_classes", err), nil
	}

	text := fmt.Sprintf("Price list: %s\n", path)
	if len(classes) == 0 {
		return mcp.NewToolResultText(text + "No classes found\n"), nil
	}
	text += fmt.Sprintf("Classes (%d):\n", len(classes))
	for i, c := range classes {
		text += fmt.Sprintf("%d. %s\n", i+1, c)
	}
	return mcp.NewToolResultText(text), nil
}

func (s *Server) handleHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if request.GetBool("totals", false) {
		totals, err := s.runner.Totals(ctx)
		if err != nil {
			return s.toolError("gta_history", err), nil
		}
		text := "Heads per species and sex:\n"
		for _, t := range totals {
			text += fmt.Sprintf("   %s %s: %d\n", t.Especie, t.Sexo, t.Quantidade)
		}
		return mcp.NewToolResultText(text), nil
	}

	if numero := strings.TrimSpace(request.GetString("numero", "")); numero != "" {
		rec, err := s.runner.Lookup(ctx, numero)
		if err != nil {
			return s.toolError("gta_history", err), nil
		}
		text := fmt.Sprintf("GTA %s archived from %s (updated %s)\n", rec.NumeroGTA, rec.SourcePath, rec.UpdatedAt)
		return s.withJSON(text, rec.Data)
	}

	records, err := s.runner.History(ctx, request.GetInt("limit", 20))
	if err != nil {
		return s.toolError("gta_history", err), nil
	}
	if len(records) == 0 {
		return mcp.NewToolResultText("The archive is empty"), nil
	}

	text := fmt.Sprintf("%d archived GTA(s), newest first:\n", len(records))
	for i, r := range records {
		numero := r.NumeroGTA
		if numero == "" {
			numero = "(no number)"
		}
		text += fmt.Sprintf("%d. %s - %d categories - %s\n", i+1, numero, len(r.Data.Categorias), r.SourcePath)
	}
	return mcp.NewToolResultText(text), nil
}

func (s *Server) handleServerInfo(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(s.formatServerInfo()), nil
}

func (s *Server) handlePDFValidateFile(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.pdfService.PDFValidateFile(pdf.PDFValidateFileRequest{Path: path})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var responseText string
	if result.Valid {
		responseText = fmt.Sprintf("PDF file %s is valid and readable (%d page(s))", result.Path, result.Pages)
	} else {
		responseText = fmt.Sprintf("PDF validation failed for %s: %s", result.Path, result.Message)
	}
	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handlePDFSearchDirectory(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := s.pdfService.PDFSearchDirectory(pdf.PDFSearchDirectoryRequest{
		Directory: request.GetString("directory", ""),
		Query:     request.GetString("query", ""),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if result.TotalCount == 0 {
		text := fmt.Sprintf("No PDF files found in directory: %s", result.Directory)
		if result.SearchQuery != "" {
			text += fmt.Sprintf(" (searched for: %s)", result.SearchQuery)
		}
		return mcp.NewToolResultText(text), nil
	}
	return mcp.NewToolResultText(formatSearchResult(result)), nil
}

// toolError logs a failed call and turns it into an MCP error result
func (s *Server) toolError(tool string, err error) *mcp.CallToolResult {
	kind := workflow.KindOf(err)
	s.log.Warn().Err(err).Str("tool", tool).Stringer("kind", kind).Msg("tool call failed")
	if kind == workflow.KindUnknown {
		return mcp.NewToolResultError(err.Error())
	}
	return mcp.NewToolResultError(fmt.Sprintf("%s: %v", kind, err))
}

func (s *Server) withJSON(text string, v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding result: %v", err)), nil
	}
	return mcp.NewToolResultText(text + "\n" + string(data)), nil
}

func formatOperationChoices(rec gta.DocumentRecord) string {
	text := fmt.Sprintf("GTA %s needs a fiscal operation. Call again with choice set to one of:\n",
		display(rec.NumeroGTA))
	for i, op := range workflow.Operations {
		text += fmt.Sprintf("%d. %s\n", i+1, op)
	}
	return text
}

func formatSearchResult(result *pdf.PDFSearchDirectoryResult) string {
	text := fmt.Sprintf("Found %d PDF file(s) in directory: %s\n", result.TotalCount, result.Directory)
	if result.SearchQuery != "" {
		text += fmt.Sprintf("Search query: %s\n", result.SearchQuery)
	}
	text += "\nFiles:\n"

	for i, file := range result.Files {
		text += fmt.Sprintf("%d. %s\n", i+1, file.Name)
		text += fmt.Sprintf("   Path: %s\n", file.Path)
		text += fmt.Sprintf("   Size: %d bytes\n", file.Size)
		text += fmt.Sprintf("   Modified: %s\n", file.ModifiedTime)
		if i < len(result.Files)-1 {
			text += "\n"
		}
	}
	return text
}

func (s *Server) formatServerInfo() string {
	c := s.config
	text := fmt.Sprintf("📋 %s v%s - Server Information\n", c.ServerName, c.Version)
	text += fmt.Sprintf("📁 GTA directory: %s\n", c.GTADirectory)
	text += fmt.Sprintf("💲 Price list directory: %s\n", c.PautaDirectory)
	text += fmt.Sprintf("📊 Report directory: %s\n", c.ReportDirectory)
	text += fmt.Sprintf("🗂️  JSON directory: %s\n", c.JSONDirectory)
	if c.ArchiveEnabled() {
		text += fmt.Sprintf("🗄️  Archive: %s\n", c.DBPath)
	} else {
		text += "🗄️  Archive: disabled\n"
	}
	if c.Classe != "" {
		text += fmt.Sprintf("🐄 Default class: %s\n", c.Classe)
	}
	text += fmt.Sprintf("📏 Max File Size: %d MB\n", s.pdfService.GetMaxFileSize()/(1024*1024))
	if c.IsStdioMode() {
		text += "🔌 Transport: stdio\n"
	} else {
		text += fmt.Sprintf("🔌 Transport: streamable HTTP at http://%s%s\n", c.Address(), mcpEndpoint)
	}

	if stats, err := s.pdfService.PDFStatsDirectory(pdf.PDFStatsDirectoryRequest{}); err == nil && stats.TotalFiles > 0 {
		text += fmt.Sprintf("\n📂 %d GTA PDF(s), %d bytes in total\n", stats.TotalFiles, stats.TotalSize)
		text += fmt.Sprintf("📄 Newest GTA: %s (%s)\n", stats.NewestFileName, stats.NewestModified)
		text += fmt.Sprintf("   Oldest GTA: %s (%s)\n", stats.OldestFileName, stats.OldestModified)
	} else {
		text += "\n📂 No GTA PDFs found in the GTA directory\n"
	}

	text += "\n🛠️  Available Tools:\n"
	for _, name := range descriptions.GetAllToolNames() {
		text += fmt.Sprintf("• %s: %s\n", name, descriptions.Summary(name))
	}
	return text
}

func display(s *string) string {
	if v := gta.Value(s); v != "" {
		return v
	}
	return "(no number)"
}

// Run starts the MCP server in the configured mode and blocks until ctx is
// cancelled or the transport stops
func (s *Server) Run(ctx context.Context) error {
	if s.config.IsServerMode() {
		return s.runServerMode(ctx)
	}
	return s.runStdioMode(ctx)
}

func (s *Server) runStdioMode(ctx context.Context) error {
	s.log.Info().Str("dir", s.config.GTADirectory).Msg("starting GTA MCP server in stdio mode")

	stdio := server.NewStdioServer(s.mcpServer)
	stdio.SetErrorLogger(log.New(s.log, "", 0))
	if err := stdio.Listen(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}

func (s *Server) runServerMode(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.Handle(mcpEndpoint, server.NewStreamableHTTPServer(s.mcpServer))
	httpServer := &http.Server{
		Addr:              s.config.Address(),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", httpServer.Addr).Str("endpoint", mcpEndpoint).Msg("starting GTA MCP server in HTTP mode")
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to serve http: %w", err)
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down http server: %w", err)
		}
		return nil
	}
}
