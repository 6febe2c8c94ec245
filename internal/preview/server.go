// Package preview serves the generated site and rebuilds it when sources change.
package preview

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"git.home.luguber.info/inful/sitegen/internal/build"
	"git.home.luguber.info/inful/sitegen/internal/config"
	ferrors "git.home.luguber.info/inful/sitegen/internal/foundation/errors"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
)

const shutdownTimeout = 5 * time.Second

// Builder is the part of build.Builder the preview server drives.
type Builder interface {
	Run(ctx context.Context) (*build.Report, error)
	SetClean(clean bool)
}

// Server is a local preview: one initial build, a static file server over the
// output directory and a rebuild after every burst of source changes.
type Server struct {
	cfg      *config.Config
	builder  Builder
	metrics  http.Handler
	listener net.Listener
	logger   *slog.Logger

	status   buildStatus
	requests chan struct{}
}

// Option configures a Server.
type Option func(*Server)

// WithMetricsHandler mounts h at /metrics.
func WithMetricsHandler(h http.Handler) Option { return func(s *Server) { s.metrics = h } }

// WithListener serves on l instead of listening on the configured port.
func WithListener(l net.Listener) Option { return func(s *Server) { s.listener = l } }

// WithLogger sets the logger; the default is slog.Default().
func WithLogger(l *slog.Logger) Option { return func(s *Server) { s.logger = l } }

// New returns a preview server for cfg.
func New(cfg *config.Config, builder Builder, opts ...Option) *Server {
	s := &Server{
		cfg:      cfg,
		builder:  builder,
		logger:   slog.Default(),
		requests: make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the HTTP routes: /healthz, /metrics when configured and the
// output directory for everything else.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/healthz", &s.status)
	if s.metrics != nil {
		mux.Handle("/metrics", s.metrics)
	}
	mux.Handle("/", http.FileServer(http.Dir(s.cfg.OutputDir)))
	return mux
}

// Status returns the current build status.
func (s *Server) Status() Status {
	return s.status.snapshot()
}

// Run builds the site, serves it and rebuilds on change until ctx is canceled.
// A failing build does not stop the server; the previous output stays online.
func (s *Server) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.rebuild(ctx)
	if ctx.Err() != nil {
		return nil
	}
	s.builder.SetClean(false)

	ln, err := s.listen()
	if err != nil {
		return err
	}
	srv := &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 10 * time.Second}
	serveErr := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()
	s.logger.Info("Preview server listening", logfields.Addr(ln.Addr().String()))

	defer func() {
		shutdownCtx, cancelShutdown := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancelShutdown()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn("HTTP server shutdown error", logfields.Error(err))
		}
	}()

	w, err := newWatcher(s.watchDirs(), []string{s.cfg.Template}, s.logger)
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()

	debounce := newDebouncer(s.cfg.Serve.Debounce, s.requests)
	defer debounce.Stop()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.worker(ctx)
	}()
	defer wg.Wait()
	defer cancel()

	if s.cfg.Serve.RebuildSchedule > 0 {
		sched, err := s.startScheduler(s.cfg.Serve.RebuildSchedule)
		if err != nil {
			return err
		}
		defer func() { _ = sched.Shutdown() }()
	}

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Shutting down preview server")
			return nil
		case err := <-serveErr:
			return ferrors.WrapError(err, ferrors.CategoryNetwork, "preview server stopped").Build()
		case ev, ok := <-w.Events():
			if !ok {
				return nil
			}
			if w.handle(ev) {
				s.logger.Debug("File change detected", logfields.Path(ev.Name), logfields.Event(ev.Op.String()))
				debounce.Trigger()
			}
		case err, ok := <-w.Errors():
			if !ok {
				return nil
			}
			s.logger.Warn("Watcher error", logfields.Error(err))
		}
	}
}

func (s *Server) listen() (net.Listener, error) {
	if s.listener != nil {
		return s.listener, nil
	}
	addr := fmt.Sprintf(":%d", s.cfg.Serve.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryNetwork, "cannot listen for preview").
			WithContext("addr", addr).
			UserAction().
			Build()
	}
	return ln, nil
}

func (s *Server) watchDirs() []string {
	dirs := []string{s.cfg.ContentDir}
	if s.cfg.StaticDir != "" {
		dirs = append(dirs, s.cfg.StaticDir)
	}
	return dirs
}

// worker runs queued rebuilds one at a time. Requests arriving during a
// build collapse into a single follow-up build.
func (s *Server) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.requests:
			s.logger.Info("Change detected; rebuilding site")
			s.rebuild(ctx)
		}
	}
}

func (s *Server) rebuild(ctx context.Context) {
	report, err := s.builder.Run(ctx)
	if errors.Is(err, context.Canceled) && ctx.Err() != nil {
		return
	}
	s.status.record(report, err)
}

func (s *Server) startScheduler(interval time.Duration) (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryInternal, "failed to create scheduler").Build()
	}
	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			s.logger.Debug("Scheduled rebuild", slog.Duration("interval", interval))
			request(s.requests)
		}),
		gocron.WithName("periodic-rebuild"),
	)
	if err != nil {
		_ = sched.Shutdown()
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to schedule periodic rebuild").
			WithContext("interval", interval.String()).
			Build()
	}
	sched.Start()
	s.logger.Info("Periodic rebuild scheduled", slog.Duration("interval", interval))
	return sched, nil
}
