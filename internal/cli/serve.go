package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/sitegen/internal/build"
	"git.home.luguber.info/inful/sitegen/internal/preview"
)

// ServeCmd implements the 'serve' command.
type ServeCmd struct {
	Port   int  `short:"p" help:"Override serve.port"`
	Drafts bool `help:"Render pages marked draft: true"`
}

// Run starts the preview server and blocks until interrupted.
func (s *ServeCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig(g)
	if err != nil {
		return err
	}
	if s.Port != 0 {
		cfg.Serve.Port = s.Port
	}
	if s.Drafts {
		cfg.Drafts = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	rt, err := newRuntime(cfg, g.Logger)
	if err != nil {
		return err
	}
	defer rt.Close()

	opts := []preview.Option{preview.WithLogger(g.Logger)}
	if h := rt.metricsHandler(); h != nil {
		opts = append(opts, preview.WithMetricsHandler(h))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return preview.New(cfg, build.New(cfg, rt.options...), opts...).Run(ctx)
}
