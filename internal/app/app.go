// Package app wires a loaded configuration into the services shared by the
// MCP server and the command line tool.
package app

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/a3tai/mcp-gta-reader/internal/config"
	"github.com/a3tai/mcp-gta-reader/internal/logging"
	"github.com/a3tai/mcp-gta-reader/internal/pdf"
	"github.com/a3tai/mcp-gta-reader/internal/store"
	"github.com/a3tai/mcp-gta-reader/internal/workflow"
)

// App holds the wired services
type App struct {
	Config *config.Config
	Logger zerolog.Logger
	PDF    *pdf.Service
	Store  *store.Store // nil when archiving is disabled
	Runner *workflow.Runner

	RunLogPath string

	closers []func() error
}

// New builds the logger, PDF service, archive and workflow runner for cfg.
// Log output goes to out, plus a run log file when cfg.LogDirectory is set.
func New(cfg *config.Config, out io.Writer) (*App, error) {
	a := &App{Config: cfg}

	opts := cfg.LoggingOptions()
	opts.Output = out
	if cfg.LogDirectory != "" {
		logger, path, closeLog, err := logging.NewWithRunLog(opts, cfg.LogDirectory, time.Now())
		if err != nil {
			return nil, err
		}
		a.Logger = logger
		a.RunLogPath = path
		a.closers = append(a.closers, closeLog)
	} else {
		a.Logger = logging.New(opts)
	}
	if cfg.IsDebug() {
		a.Logger = a.Logger.With().Caller().Logger()
	}

	pdfService, err := pdf.NewService(cfg.MaxFileSize, cfg.GTADirectory, cfg.PautaDirectory)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("creating PDF service: %w", err)
	}
	a.PDF = pdfService

	if cfg.ArchiveEnabled() {
		s, err := store.New(cfg.DBPath)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("opening archive: %w", err)
		}
		a.Store = s
		a.closers = append(a.closers, s.Close)
	}

	a.Runner = workflow.New(workflow.Options{
		PDF:       a.PDF,
		Store:     a.Store,
		JSONDir:   cfg.JSONDirectory,
		ReportDir: cfg.ReportDirectory,
		PautaDir:  cfg.PautaDirectory,
		Classe:    cfg.Classe,
		Logger:    a.Logger,
	})

	a.Logger.Debug().Str("config", cfg.String()).Msg("configuration loaded")
	return a, nil
}

// Close releases the archive and the run log, newest first
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
