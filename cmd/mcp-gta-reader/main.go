package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/a3tai/mcp-gta-reader/internal/app"
	"github.com/a3tai/mcp-gta-reader/internal/config"
	"github.com/a3tai/mcp-gta-reader/internal/mcp"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

func main() {
	cfg, err := config.LoadFromFlags()
	if errors.Is(err, config.ErrVersionRequested) {
		printVersion(os.Stdout)
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if version != "dev" {
		cfg.Version = version
	}

	// SIGHUP too: an MCP client closing its end should stop the server
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	if err := run(ctx, cfg, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}

// run serves MCP until ctx is cancelled. Logs always go to logOut (stderr in
// production) so stdout stays reserved for the stdio protocol stream.
func run(ctx context.Context, cfg *config.Config, logOut io.Writer) error {
	a, err := app.New(cfg, logOut)
	if err != nil {
		return err
	}
	defer a.Close()

	server, err := mcp.NewServer(cfg, a.PDF, a.Runner, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	a.Logger.Info().
		Str("version", cfg.Version).
		Str("mode", cfg.Mode).
		Bool("archive", cfg.ArchiveEnabled()).
		Msg("starting")

	if err := server.Run(ctx); err != nil {
		return err
	}

	a.Logger.Info().Msg("server stopped")
	return nil
}

// printVersion prints version information
func printVersion(w io.Writer) {
	fmt.Fprintf(w, "MCP GTA Reader\n")
	fmt.Fprintf(w, "Version: %s\n", version)
	fmt.Fprintf(w, "Build Time: %s\n", buildTime)
	fmt.Fprintf(w, "Git Commit: %s\n", gitCommit)
	fmt.Fprintf(w, "Built with: %s\n", runtime.Version())
}
