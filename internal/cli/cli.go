// Package cli holds the kong command tree of the sitegen binary.
package cli

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/sitegen/internal/config"
)

// Global is bound into every command's Run method.
type Global struct {
	Logger *slog.Logger
	Out    io.Writer // command output; logs go to stderr
}

// NewGlobal returns the state used by the real binary.
func NewGlobal() *Global {
	return &Global{Logger: slog.Default(), Out: os.Stdout}
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"sitegen.yaml" type:"path"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build   BuildCmd   `cmd:"" help:"Render the site into the output directory"`
	Serve   ServeCmd   `cmd:"" help:"Build, serve and rebuild the site on change"`
	Lint    LintCmd    `cmd:"" help:"Check content for problems before building"`
	Convert ConvertCmd `cmd:"" help:"Convert one markdown file to HTML on stdout"`
	Init    InitCmd    `cmd:"" help:"Create a configuration file and a starter site"`
}

// AfterApply runs after flag parsing and installs a baseline logger. Commands
// that load the configuration replace it with the configured one.
func (c *CLI) AfterApply(g *Global) error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	g.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(g.Logger)
	return nil
}

// loadConfig reads the configuration. A missing file is only an error when
// the path was given explicitly; the default path falls back to defaults.
// Relative paths in a loaded file are taken relative to the file.
func (c *CLI) loadConfig(g *Global) (*config.Config, error) {
	cfg, err := config.Load(c.Config)
	switch {
	case err == nil:
		cfg.ResolvePaths(filepath.Dir(c.Config))
	case config.IsNotFound(err) && isDefaultConfigPath(c.Config):
		g.Logger.Debug("No configuration file; using defaults", slog.String("path", c.Config))
		cfg = config.Default()
	default:
		return nil, err
	}
	c.configureLogging(g, cfg.Logging)
	return cfg, nil
}

func (c *CLI) configureLogging(g *Global, lc config.LoggingConfig) {
	level := lc.Level.SlogLevel()
	if c.Verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if lc.Format == config.LogFormatJSON {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	g.Logger = slog.New(handler)
	slog.SetDefault(g.Logger)
}

// isDefaultConfigPath reports whether path is the default config file. kong
// resolves path flags to absolute paths, so compare against that too.
func isDefaultConfigPath(path string) bool {
	if path == config.DefaultPath {
		return true
	}
	wd, err := os.Getwd()
	if err != nil {
		return false
	}
	return path == filepath.Join(wd, config.DefaultPath)
}
