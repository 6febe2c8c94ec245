package build

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/events"
	"git.home.luguber.info/inful/sitegen/internal/linkcheck"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/metrics"
	"git.home.luguber.info/inful/sitegen/internal/page"
	"git.home.luguber.info/inful/sitegen/internal/sitefs"
)

// Stage names used for logging and metrics.
const (
	StageClean         = "clean"
	StageCopyStatic    = "copy_static"
	StageLoadTemplate  = "load_template"
	StageGeneratePages = "generate_pages"
	StageCheckLinks    = "check_links"
)

// Builder runs builds for one configuration. Concurrent calls to Run are serialized.
type Builder struct {
	cfg       *config.Config
	cache     page.Cache
	recorder  metrics.Recorder
	publisher events.Publisher
	logger    *slog.Logger

	mu    sync.Mutex
	clean bool
}

// Option configures a Builder.
type Option func(*Builder)

// WithCache enables incremental page rendering.
func WithCache(c page.Cache) Option { return func(b *Builder) { b.cache = c } }

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option { return func(b *Builder) { b.recorder = r } }

// WithPublisher sets where build events go.
func WithPublisher(p events.Publisher) Option { return func(b *Builder) { b.publisher = p } }

// WithLogger sets the logger; the default is slog.Default().
func WithLogger(l *slog.Logger) Option { return func(b *Builder) { b.logger = l } }

// New returns a Builder for cfg.
func New(cfg *config.Config, opts ...Option) *Builder {
	b := &Builder{
		cfg:       cfg,
		recorder:  metrics.NoopRecorder{},
		publisher: events.Noop{},
		logger:    slog.Default(),
		clean:     cfg.Clean,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// SetClean overrides the configured clean behavior for later runs. The preview
// server turns it off after the first build so rebuilds stay incremental.
func (b *Builder) SetClean(clean bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.clean = clean
}

// Run executes the build. The returned report is never nil and its Err
// mirrors the returned error.
func (b *Builder) Run(ctx context.Context) (*Report, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	report := &Report{
		BuildID:   uuid.NewString(),
		StartTime: time.Now(),
		Revision:  sourceRevision(b.cfg.ContentDir),
	}
	logger := b.logger.With(logfields.BuildID(report.BuildID))
	logger.Info("Build started",
		slog.String("content_dir", b.cfg.ContentDir),
		slog.String("output_dir", b.cfg.OutputDir),
		slog.String("revision", report.Revision))

	err := b.run(ctx, logger, report)

	status := StatusSuccess
	switch {
	case err == nil:
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status = StatusCanceled
	default:
		status = StatusFailed
	}
	report.finish(status, err)
	b.recorder.ObserveBuildDuration(report.Duration)
	b.recorder.IncBuildOutcome(outcomeLabel(status))

	if status == StatusSuccess {
		logger.Info("Build completed",
			logfields.DurationMS(float64(report.Duration.Milliseconds())),
			slog.Int("rendered", report.Rendered),
			slog.Int("cached", report.Cached),
			slog.Int("drafts", report.Drafts),
			slog.Int("broken_links", len(report.BrokenLinks)))
	} else {
		logger.Error("Build failed", slog.String("status", string(status)), logfields.Error(err))
	}

	// ctx may already be canceled; delivery gets its own deadline.
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if perr := b.publisher.Publish(pubCtx, report.Event()); perr != nil {
		logger.Warn("Failed to publish build event", logfields.Error(perr))
	}
	return report, err
}

func (b *Builder) run(ctx context.Context, logger *slog.Logger, report *Report) error {
	if b.clean {
		if err := b.stage(ctx, logger, StageClean, func(context.Context) error {
			return sitefs.Clean(b.cfg.OutputDir)
		}); err != nil {
			return err
		}
	}

	if b.cfg.StaticDir != "" {
		if err := b.stage(ctx, logger, StageCopyStatic, func(ctx context.Context) error {
			n, err := sitefs.CopyTree(ctx, b.cfg.StaticDir, b.cfg.OutputDir)
			report.Copied = n
			return err
		}); err != nil {
			return err
		}
	}

	var tmpl *page.Template
	if err := b.stage(ctx, logger, StageLoadTemplate, func(context.Context) error {
		var err error
		if tmpl, err = page.LoadTemplate(b.cfg.Template); err != nil {
			return err
		}
		for _, w := range tmpl.Warnings {
			logger.Warn("Template warning", logfields.Path(b.cfg.Template), slog.String("warning", w))
		}
		report.Warnings = append(report.Warnings, tmpl.Warnings...)
		return nil
	}); err != nil {
		return err
	}

	if err := b.stage(ctx, logger, StageGeneratePages, func(ctx context.Context) error {
		opts := []page.Option{
			page.WithDrafts(b.cfg.Drafts),
			page.WithRecorder(b.recorder),
			page.WithLogger(logger),
		}
		if b.cache != nil {
			opts = append(opts, page.WithCache(b.cache))
		}
		summary, err := page.NewGenerator(tmpl, opts...).GenerateAll(ctx, b.cfg.ContentDir, b.cfg.OutputDir)
		report.Rendered, report.Cached, report.Drafts = summary.Rendered, summary.Cached, summary.Drafts
		return err
	}); err != nil {
		return err
	}

	if !b.cfg.Links.Check {
		return nil
	}
	return b.stage(ctx, logger, StageCheckLinks, func(ctx context.Context) error {
		broken, err := linkcheck.CheckTree(ctx, b.cfg.OutputDir)
		report.BrokenLinks = broken
		b.recorder.AddBrokenLinks(len(broken))
		for _, l := range broken {
			logger.Warn("Broken link", logfields.Page(l.Page), slog.String("target", l.Target), slog.String("tag", l.Tag))
		}
		return err
	})
}

// stage runs fn and records its duration and result.
func (b *Builder) stage(ctx context.Context, logger *slog.Logger, name string, fn func(context.Context) error) error {
	if err := ctx.Err(); err != nil {
		b.recorder.IncStageResult(name, metrics.ResultCanceled)
		return err
	}

	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)
	b.recorder.ObserveStageDuration(name, elapsed)

	switch {
	case err == nil:
		b.recorder.IncStageResult(name, metrics.ResultSuccess)
		logger.Debug("Stage complete", logfields.Stage(name), logfields.DurationMS(float64(elapsed.Microseconds())/1000))
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		b.recorder.IncStageResult(name, metrics.ResultCanceled)
	default:
		b.recorder.IncStageResult(name, metrics.ResultFatal)
		logger.Error("Stage failed", logfields.Stage(name), logfields.Error(err))
	}
	return err
}

func outcomeLabel(s Status) metrics.ResultLabel {
	switch s {
	case StatusSuccess:
		return metrics.ResultSuccess
	case StatusCanceled:
		return metrics.ResultCanceled
	default:
		return metrics.ResultFatal
	}
}
