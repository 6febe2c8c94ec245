package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"git.home.luguber.info/inful/sitegen/internal/build"
	ferrors "git.home.luguber.info/inful/sitegen/internal/foundation/errors"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Output  string `short:"o" help:"Override output_dir"`
	Drafts  bool   `help:"Render pages marked draft: true"`
	NoClean bool   `name:"no-clean" help:"Keep existing output instead of removing it first"`
	Strict  bool   `help:"Fail when the link check finds broken links"`
}

// Run executes the build command.
func (b *BuildCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig(g)
	if err != nil {
		return err
	}
	if b.Output != "" {
		cfg.OutputDir = b.Output
	}
	if b.Drafts {
		cfg.Drafts = true
	}
	if b.NoClean {
		cfg.Clean = false
	}
	if b.Strict {
		cfg.Links.Check = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	rt, err := newRuntime(cfg, g.Logger)
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := build.New(cfg, rt.options...).Run(ctx)
	if err != nil {
		return err
	}
	printReport(g, report, cfg.OutputDir)

	if b.Strict && len(report.BrokenLinks) > 0 {
		return ferrors.BuildError("broken links found").
			WithContext("count", len(report.BrokenLinks)).
			UserAction().
			Build()
	}
	return nil
}

func printReport(g *Global, r *build.Report, outputDir string) {
	_, _ = fmt.Fprintf(g.Out, "Built %s in %s\n", outputDir, r.Duration.Round(time.Millisecond))
	_, _ = fmt.Fprintf(g.Out, "  pages rendered: %d, unchanged: %d, drafts skipped: %d, static files: %d\n",
		r.Rendered, r.Cached, r.Drafts, r.Copied)
	for _, w := range r.Warnings {
		_, _ = fmt.Fprintf(g.Out, "  warning: %s\n", w)
	}
	for _, l := range r.BrokenLinks {
		_, _ = fmt.Fprintf(g.Out, "  broken link: %s -> %s (%s)\n", l.Page, l.Target, l.Tag)
	}
}
