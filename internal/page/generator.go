package page

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/sitegen/internal/buildcache"
	ferrors "git.home.luguber.info/inful/sitegen/internal/foundation/errors"
	"git.home.luguber.info/inful/sitegen/internal/frontmatter"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/metrics"
)

// Cache is the subset of buildcache.Store the generator needs.
type Cache interface {
	Lookup(ctx context.Context, page string) (buildcache.Entry, bool, error)
	Put(ctx context.Context, entry buildcache.Entry) error
	Delete(ctx context.Context, page string) error
}

// Status is what happened to a page.
type Status string

const (
	StatusRendered Status = "rendered"
	StatusCached   Status = "cached"
	StatusDraft    Status = "draft"
)

// Result describes one processed page.
type Result struct {
	Source      string
	Destination string
	Title       string
	Status      Status
}

// Summary aggregates the results of GenerateAll.
type Summary struct {
	Pages    []Result
	Rendered int
	Cached   int
	Drafts   int
}

func (s *Summary) add(r Result) {
	s.Pages = append(s.Pages, r)
	switch r.Status {
	case StatusRendered:
		s.Rendered++
	case StatusCached:
		s.Cached++
	case StatusDraft:
		s.Drafts++
	}
}

// Generator renders markdown pages into a template.
type Generator struct {
	template *Template
	cache    Cache
	drafts   bool
	recorder metrics.Recorder
	logger   *slog.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithCache skips pages whose source and template are unchanged since the last render.
func WithCache(c Cache) Option { return func(g *Generator) { g.cache = c } }

// WithDrafts renders pages marked draft instead of skipping them.
func WithDrafts(enabled bool) Option { return func(g *Generator) { g.drafts = enabled } }

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option { return func(g *Generator) { g.recorder = r } }

// WithLogger sets the logger; the default is slog.Default().
func WithLogger(l *slog.Logger) Option { return func(g *Generator) { g.logger = l } }

// NewGenerator returns a generator rendering into tmpl.
func NewGenerator(tmpl *Template, opts ...Option) *Generator {
	g := &Generator{
		template: tmpl,
		recorder: metrics.NoopRecorder{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// GeneratePage converts the markdown file src into the HTML page dst.
func (g *Generator) GeneratePage(ctx context.Context, src, dst string) (Result, error) {
	result := Result{Source: src, Destination: dst}
	if err := ctx.Err(); err != nil {
		return result, err
	}

	data, err := os.ReadFile(src)
	if err != nil {
		return result, readError(err, src)
	}

	doc, err := frontmatter.Split(string(data))
	if err != nil {
		return result, withPage(err, src)
	}
	meta, err := doc.Meta()
	if err != nil {
		return result, withPage(err, src)
	}
	if meta.Draft && !g.drafts {
		result.Status = StatusDraft
		g.recorder.IncPageResult(metrics.PageDraft)
		g.logger.Debug("Skipped draft page", logfields.Page(src))
		g.forget(ctx, src)
		return result, nil
	}

	fingerprint := buildcache.Fingerprint(doc.Raw, doc.Body)
	if g.unchanged(ctx, src, dst, fingerprint) {
		result.Status = StatusCached
		g.recorder.IncPageResult(metrics.PageCached)
		g.logger.Debug("Page unchanged", logfields.Page(src))
		return result, nil
	}

	title, content, err := convertBody(meta, doc.Body, true)
	if err != nil {
		g.recorder.IncPageResult(metrics.PageFailed)
		return result, withPage(err, src)
	}
	result.Title = title

	if err := writeFile(dst, g.template.Render(title, content)); err != nil {
		g.recorder.IncPageResult(metrics.PageFailed)
		return result, err
	}

	if g.cache != nil {
		entry := buildcache.Entry{Page: src, Fingerprint: fingerprint, Template: g.template.Fingerprint()}
		if err := g.cache.Put(ctx, entry); err != nil {
			g.logger.Warn("Failed to update build cache", logfields.Page(src), logfields.Error(err))
		}
	}

	result.Status = StatusRendered
	g.recorder.IncPageResult(metrics.PageRendered)
	g.logger.Info("Generated page", logfields.Source(src), logfields.Destination(dst))
	return result, nil
}

// forget drops the cache entry of a page that no longer renders.
func (g *Generator) forget(ctx context.Context, src string) {
	if g.cache == nil {
		return
	}
	if err := g.cache.Delete(ctx, src); err != nil {
		g.logger.Warn("Failed to update build cache", logfields.Page(src), logfields.Error(err))
	}
}

// unchanged reports whether dst exists and was rendered from the same source
// and template. Cache failures only cost a re-render.
func (g *Generator) unchanged(ctx context.Context, src, dst, fingerprint string) bool {
	if g.cache == nil {
		return false
	}
	entry, ok, err := g.cache.Lookup(ctx, src)
	if err != nil {
		g.logger.Warn("Build cache lookup failed", logfields.Page(src), logfields.Error(err))
		return false
	}
	if !ok || entry.Fingerprint != fingerprint || entry.Template != g.template.Fingerprint() {
		return false
	}
	_, err = os.Stat(dst)
	return err == nil
}

// GenerateAll renders every .md file below contentDir to the same relative
// path below outputDir with an .html extension. The first failing page stops
// the run.
func (g *Generator) GenerateAll(ctx context.Context, contentDir, outputDir string) (Summary, error) {
	var summary Summary

	sources, err := markdownFiles(contentDir)
	if err != nil {
		return summary, err
	}
	for _, src := range sources {
		rel, err := filepath.Rel(contentDir, src)
		if err != nil {
			return summary, ferrors.WrapError(err, ferrors.CategoryInternal, "failed to resolve page path").
				WithContext("page", src).
				Build()
		}
		dst := filepath.Join(outputDir, strings.TrimSuffix(rel, filepath.Ext(rel))+".html")

		result, err := g.GeneratePage(ctx, src, dst)
		if err != nil {
			return summary, err
		}
		summary.add(result)
	}
	return summary, nil
}

// markdownFiles lists .md files below dir in lexical order.
func markdownFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".md") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, readError(err, dir)
	}
	return files, nil
}

func readError(err error, path string) error {
	category := ferrors.CategoryFileSystem
	if errors.Is(err, fs.ErrNotExist) {
		category = ferrors.CategoryNotFound
	}
	return ferrors.WrapError(err, category, "failed to read content").
		WithContext("path", path).
		Build()
}

func writeFile(path, data string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to create output directory").
			WithContext("path", filepath.Dir(path)).
			Build()
	}
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to write page").
			WithContext("path", path).
			Build()
	}
	return nil
}

func withPage(err error, page string) error {
	if classified, ok := ferrors.AsClassified(err); ok {
		return classified.WithContext("page", page)
	}
	return err
}
