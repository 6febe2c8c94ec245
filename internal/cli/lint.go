package cli

import (
	"strings"

	ferrors "git.home.luguber.info/inful/sitegen/internal/foundation/errors"
	"git.home.luguber.info/inful/sitegen/internal/lint"
)

// LintCmd implements the 'lint' command.
type LintCmd struct {
	Format string   `short:"f" default:"text" help:"Output format (text or json)" enum:"text,json"`
	Quiet  bool     `short:"q" help:"Quiet mode: only show errors, suppress warnings"`
	Paths  []string `arg:"" optional:"" help:"Files or directory to lint. Defaults to content_dir." type:"path"`
}

// Run lints the paths and fails when errors were found. Several paths are
// linted file by file, the way a pre-commit hook passes staged files.
func (l *LintCmd) Run(g *Global, root *CLI) error {
	paths := l.Paths
	if len(paths) == 0 {
		cfg, err := root.loadConfig(g)
		if err != nil {
			return err
		}
		paths = []string{cfg.ContentDir}
	}

	linter := lint.NewLinter(&lint.Config{Quiet: l.Quiet, Format: l.Format})
	var (
		result *lint.Result
		err    error
	)
	if len(paths) == 1 {
		result, err = linter.LintPath(paths[0])
	} else {
		result, err = linter.LintFiles(paths)
	}
	if err != nil {
		return err
	}
	if err := lint.NewFormatter(l.Format).Format(g.Out, result, strings.Join(paths, ", ")); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to write lint report").Build()
	}

	if result.HasErrors() {
		return ferrors.ValidationError("lint found errors").
			WithContext("errors", result.ErrorCount()).
			WithSeverity(ferrors.SeverityWarning).
			Build()
	}
	return nil
}
