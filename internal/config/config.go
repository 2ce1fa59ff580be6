package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/a3tai/mcp-gta-reader/internal/logging"
)

const (
	// Mode constants
	ModeStdio  = "stdio"
	ModeServer = "server"

	// Default values
	DefaultPort        = 8080
	DefaultHost        = "127.0.0.1"
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "console"
	DefaultMaxFileSize = 50 * 1024 * 1024 // 50MB
	DefaultClasse      = ""

	// Default folder names, relative to the working directory
	DefaultPautaDir  = "Pautas Fiscais"
	DefaultReportDir = "Relatórios"
	DefaultJSONDir   = "JSON"
	DefaultLogDir    = "logs"

	// Directory permissions
	DefaultDirPerm = 0o750

	envPrefix = "GTA"
)

// ErrVersionRequested is returned by LoadFromFlags when --version was passed
var ErrVersionRequested = errors.New("version requested")

// Config holds all configuration for the GTA reader
type Config struct {
	// Server configuration
	Mode string // "server" or "stdio"
	Host string
	Port int

	// Folders
	GTADirectory    string
	PautaDirectory  string
	ReportDirectory string
	JSONDirectory   string
	LogDirectory    string // empty disables the run log file

	// Archive, empty disables it
	DBPath string

	// Report defaults
	Classe string

	// Application configuration
	Version     string
	ServerName  string
	LogLevel    string
	LogFormat   string
	MaxFileSize int64 // Maximum PDF file size in bytes
}

// DefaultConfig returns a configuration rooted in the working directory
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		currentDir = "."
	}

	return &Config{
		Mode:            ModeStdio,
		Host:            DefaultHost,
		Port:            DefaultPort,
		GTADirectory:    currentDir,
		PautaDirectory:  filepath.Join(currentDir, DefaultPautaDir),
		ReportDirectory: filepath.Join(currentDir, DefaultReportDir),
		JSONDirectory:   filepath.Join(currentDir, DefaultJSONDir),
		Version:         "1.0.0",
		ServerName:      "mcp-gta-reader",
		LogLevel:        DefaultLogLevel,
		LogFormat:       DefaultLogFormat,
		MaxFileSize:     DefaultMaxFileSize,
		Classe:          DefaultClasse,
	}
}

// LoadFromFlags parses the process command line and returns a configuration
func LoadFromFlags() (*Config, error) {
	pflag.Usage = usage(pflag.CommandLine)

	// Check for version flag before parsing
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			return nil, ErrVersionRequested
		}
	}

	return Load(pflag.CommandLine, os.Args[1:])
}

// Load registers the configuration flags on fs, parses args and merges
// GTA_* environment variables over the defaults. Flags already defined on fs
// (a cobra command's persistent flags, for instance) are reused.
func Load(fs *pflag.FlagSet, args []string) (*Config, error) {
	return LoadWithDefaults(fs, args, DefaultConfig())
}

// LoadWithDefaults is Load starting from cfg instead of DefaultConfig. cfg is
// filled in place and returned.
func LoadWithDefaults(fs *pflag.FlagSet, args []string, cfg *Config) (*Config, error) {
	v := viper.New()

	setupViperEnvironment(v, cfg)
	DefineFlags(fs, cfg)
	if err := bindFlags(v, fs); err != nil {
		return nil, err
	}

	if !fs.Parsed() {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
	}

	populateConfigFromViper(v, cfg)
	cfg.expandPaths()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

var keys = []string{
	"mode", "host", "port", "dir", "pautadir", "reportdir", "jsondir", "logdir",
	"db", "loglevel", "logformat", "maxfilesize", "classe",
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(v *viper.Viper, cfg *Config) {
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	v.SetDefault("mode", cfg.Mode)
	v.SetDefault("host", cfg.Host)
	v.SetDefault("port", cfg.Port)
	v.SetDefault("dir", cfg.GTADirectory)
	v.SetDefault("pautadir", cfg.PautaDirectory)
	v.SetDefault("reportdir", cfg.ReportDirectory)
	v.SetDefault("jsondir", cfg.JSONDirectory)
	v.SetDefault("logdir", cfg.LogDirectory)
	v.SetDefault("db", cfg.DBPath)
	v.SetDefault("loglevel", cfg.LogLevel)
	v.SetDefault("logformat", cfg.LogFormat)
	v.SetDefault("maxfilesize", cfg.MaxFileSize)
	v.SetDefault("classe", cfg.Classe)
}

// DefineFlags adds the configuration flags to fs, skipping any already there
func DefineFlags(fs *pflag.FlagSet, cfg *Config) {
	str := func(name, value, usage string) {
		if fs.Lookup(name) == nil {
			fs.String(name, value, usage)
		}
	}

	str("mode", cfg.Mode, "Server mode: 'stdio' for MCP standard I/O, 'server' for HTTP server")
	str("host", cfg.Host, "Server host address (server mode only)")
	if fs.Lookup("port") == nil {
		fs.Int("port", cfg.Port, "Server port (server mode only)")
	}
	str("dir", cfg.GTADirectory, "Directory containing GTA PDF files")
	str("pautadir", cfg.PautaDirectory, "Directory containing price list (pauta fiscal) spreadsheets")
	str("reportdir", cfg.ReportDirectory, "Directory for generated reports")
	str("jsondir", cfg.JSONDirectory, "Directory for extracted JSON files")
	str("logdir", cfg.LogDirectory, "Directory for run log files (empty disables them)")
	str("db", cfg.DBPath, "SQLite archive path (empty disables archiving)")
	str("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	str("logformat", cfg.LogFormat, "Log format (console, json)")
	if fs.Lookup("maxfilesize") == nil {
		fs.Int64("maxfilesize", cfg.MaxFileSize, "Maximum PDF file size in bytes")
	}
	str("classe", cfg.Classe, "Default livestock class for price lookups")
}

// bindFlags binds command line flags to viper configuration
func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for _, key := range keys {
		if err := v.BindPFlag(key, fs.Lookup(key)); err != nil {
			return fmt.Errorf("binding flag %s: %w", key, err)
		}
	}
	return nil
}

func usage(fs *pflag.FlagSet) func() {
	return func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nMCP GTA Reader - extracts livestock transport certificates (GTA) from PDF files\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                                  # stdio mode, current directory (default)\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --dir=/path/to/gtas              # stdio mode with custom directory\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --db=gta.db --loglevel=debug     # archive every extraction\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mode=server --dir=/path/to/gtas # server mode\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  GTA_MODE, GTA_HOST, GTA_PORT, GTA_DIR, GTA_PAUTADIR, GTA_REPORTDIR,\n")
		fmt.Fprintf(os.Stderr, "  GTA_JSONDIR, GTA_LOGDIR, GTA_DB, GTA_LOGLEVEL, GTA_LOGFORMAT,\n")
		fmt.Fprintf(os.Stderr, "  GTA_MAXFILESIZE, GTA_CLASSE\n")
	}
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(v *viper.Viper, cfg *Config) {
	cfg.Mode = v.GetString("mode")
	cfg.Host = v.GetString("host")
	cfg.Port = v.GetInt("port")
	cfg.GTADirectory = v.GetString("dir")
	cfg.PautaDirectory = v.GetString("pautadir")
	cfg.ReportDirectory = v.GetString("reportdir")
	cfg.JSONDirectory = v.GetString("jsondir")
	cfg.LogDirectory = v.GetString("logdir")
	cfg.DBPath = v.GetString("db")
	cfg.LogLevel = v.GetString("loglevel")
	cfg.LogFormat = v.GetString("logformat")
	cfg.MaxFileSize = v.GetInt64("maxfilesize")
	cfg.Classe = v.GetString("classe")
}

func (c *Config) expandPaths() {
	for _, p := range []*string{&c.GTADirectory, &c.PautaDirectory, &c.ReportDirectory, &c.JSONDirectory, &c.LogDirectory, &c.DBPath} {
		if *p == "" {
			continue
		}
		if abs, err := filepath.Abs(*p); err == nil {
			*p = abs
		}
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Mode != ModeStdio && c.Mode != ModeServer {
		return errors.New("mode must be either 'stdio' or 'server'")
	}

	// Port only matters in server mode
	if c.Mode == ModeServer && (c.Port < 1 || c.Port > 65535) {
		return errors.New("port must be between 1 and 65535")
	}

	for _, d := range []struct{ name, dir string }{
		{"GTA", c.GTADirectory},
		{"price list", c.PautaDirectory},
		{"report", c.ReportDirectory},
		{"JSON", c.JSONDirectory},
	} {
		if d.dir == "" {
			return fmt.Errorf("%s directory cannot be empty", d.name)
		}
		if err := ensureDir(d.name, d.dir); err != nil {
			return err
		}
	}

	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	if c.LogFormat != "console" && c.LogFormat != "json" {
		return fmt.Errorf("invalid log format: %s (must be console or json)", c.LogFormat)
	}

	return nil
}

// ensureDir creates dir when it does not exist yet
func ensureDir(name, dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, DefaultDirPerm); err != nil {
			return fmt.Errorf("cannot create %s directory %s: %w", name, dir, err)
		}
	} else if err != nil {
		return fmt.Errorf("cannot access %s directory %s: %w", name, dir, err)
	}
	return nil
}

// LoggingOptions maps the log settings onto logging.Options
func (c *Config) LoggingOptions() logging.Options {
	return logging.Options{
		Level:   c.LogLevel,
		Format:  c.LogFormat,
		Service: c.ServerName,
	}
}

// ArchiveEnabled reports whether extractions are stored in SQLite
func (c *Config) ArchiveEnabled() bool {
	return c.DBPath != ""
}

// Address returns the server address as host:port
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{Mode: %s, Host: %s, Port: %d, GTADirectory: %s, PautaDirectory: %s, "+
		"ReportDirectory: %s, JSONDirectory: %s, DBPath: %s, LogLevel: %s, MaxFileSize: %d}",
		c.Mode, c.Host, c.Port, c.GTADirectory, c.PautaDirectory,
		c.ReportDirectory, c.JSONDirectory, c.DBPath, c.LogLevel, c.MaxFileSize)
}

// IsServerMode returns true if the server is running in HTTP server mode
func (c *Config) IsServerMode() bool {
	return c.Mode == ModeServer
}

// IsStdioMode returns true if the server is running in stdio mode
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}
