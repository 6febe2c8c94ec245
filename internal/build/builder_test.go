package build

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitegen/internal/buildcache"
	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/events"
	"git.home.luguber.info/inful/sitegen/internal/markdown"
	"git.home.luguber.info/inful/sitegen/internal/metrics"
)

const siteTemplate = `<html><head><title>{{ Title }}</title></head><body>{{ Content }}</body></html>`

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// newSite lays out a small site below a temp dir and returns its config.
func newSite(t *testing.T) *config.Config {
	t.Helper()
	root := t.TempDir()
	cfg := config.Default()
	cfg.ContentDir = filepath.Join(root, "content")
	cfg.StaticDir = filepath.Join(root, "static")
	cfg.OutputDir = filepath.Join(root, "public")
	cfg.Template = filepath.Join(root, "template.html")
	cfg.Links.Check = true

	write(t, cfg.Template, siteTemplate)
	write(t, filepath.Join(cfg.StaticDir, "index.css"), "body{}")
	write(t, filepath.Join(cfg.StaticDir, "images", "logo.png"), "png")
	write(t, filepath.Join(cfg.ContentDir, "index.md"), "# Home\n\n![logo](/images/logo.png)\n\n[Post](/blog/post.html)")
	write(t, filepath.Join(cfg.ContentDir, "blog", "post.md"), "# Post\n\nText with a [dead link](/missing.html)")
	write(t, filepath.Join(cfg.ContentDir, "blog", "draft.md"), "---\ndraft: true\n---\n# Draft\n")
	return cfg
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.BuildCompleted
}

func (p *recordingPublisher) Publish(_ context.Context, e events.BuildCompleted) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

type stageRecorder struct {
	metrics.NoopRecorder
	mu       sync.Mutex
	stages   map[string]metrics.ResultLabel
	outcomes []metrics.ResultLabel
}

func (r *stageRecorder) IncStageResult(stage string, result metrics.ResultLabel) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stages == nil {
		r.stages = map[string]metrics.ResultLabel{}
	}
	r.stages[stage] = result
}

func (r *stageRecorder) IncBuildOutcome(outcome metrics.ResultLabel) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, outcome)
}

func TestBuilder_Run(t *testing.T) {
	cfg := newSite(t)
	pub := &recordingPublisher{}
	rec := &stageRecorder{}

	report, err := New(cfg, WithPublisher(pub), WithRecorder(rec)).Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, StatusSuccess, report.Status)
	require.NotEmpty(t, report.BuildID)
	require.Equal(t, 2, report.Copied)
	require.Equal(t, 2, report.Rendered)
	require.Equal(t, 1, report.Drafts)
	require.Empty(t, report.Warnings)
	require.Len(t, report.BrokenLinks, 1)
	require.Equal(t, "/missing.html", report.BrokenLinks[0].Target)
	require.Equal(t, "blog/post.html", report.BrokenLinks[0].Page)
	require.Empty(t, report.Revision)

	require.FileExists(t, filepath.Join(cfg.OutputDir, "index.css"))
	require.FileExists(t, filepath.Join(cfg.OutputDir, "index.html"))
	require.FileExists(t, filepath.Join(cfg.OutputDir, "blog", "post.html"))
	require.NoFileExists(t, filepath.Join(cfg.OutputDir, "blog", "draft.html"))

	home, err := os.ReadFile(filepath.Join(cfg.OutputDir, "index.html"))
	require.NoError(t, err)
	require.Equal(t, `<html><head><title>Home</title></head><body><div><h1>Home</h1>`+
		`<p><img src="/images/logo.png" alt="logo"/></p><p><a href="/blog/post.html">Post</a></p></div></body></html>`, string(home))

	require.Len(t, pub.events, 1)
	require.Equal(t, report.BuildID, pub.events[0].BuildID)
	require.Equal(t, events.StatusSuccess, pub.events[0].Status)
	require.Equal(t, 1, pub.events[0].BrokenLinks)

	require.Equal(t, metrics.ResultSuccess, rec.stages[StageClean])
	require.Equal(t, metrics.ResultSuccess, rec.stages[StageCheckLinks])
	require.Equal(t, []metrics.ResultLabel{metrics.ResultSuccess}, rec.outcomes)
}

func TestBuilder_CleanRemovesStaleOutput(t *testing.T) {
	cfg := newSite(t)
	stale := filepath.Join(cfg.OutputDir, "old.html")
	write(t, stale, "old")

	_, err := New(cfg).Run(context.Background())
	require.NoError(t, err)
	require.NoFileExists(t, stale)

	write(t, stale, "old")
	b := New(cfg)
	b.SetClean(false)
	_, err = b.Run(context.Background())
	require.NoError(t, err)
	require.FileExists(t, stale)
}

func TestBuilder_IncrementalWithCache(t *testing.T) {
	cfg := newSite(t)
	store, err := buildcache.Open(":memory:")
	require.NoError(t, err)
	defer store.Close()

	b := New(cfg, WithCache(store))
	report, err := b.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, report.Rendered)

	b.SetClean(false)
	report, err = b.Run(context.Background())
	require.NoError(t, err)
	require.Zero(t, report.Rendered)
	require.Equal(t, 2, report.Cached)

	write(t, filepath.Join(cfg.ContentDir, "index.md"), "# Home again\n")
	report, err = b.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, report.Rendered)
	require.Equal(t, 1, report.Cached)
}

func TestBuilder_FailsOnBadPage(t *testing.T) {
	cfg := newSite(t)
	write(t, filepath.Join(cfg.ContentDir, "bad.md"), "# Bad\n\n_unclosed")
	pub := &recordingPublisher{}
	rec := &stageRecorder{}

	report, err := New(cfg, WithPublisher(pub), WithRecorder(rec)).Run(context.Background())
	require.ErrorIs(t, err, markdown.ErrUnbalancedDelimiter)
	require.Equal(t, StatusFailed, report.Status)
	require.Equal(t, metrics.ResultFatal, rec.stages[StageGeneratePages])
	require.NotContains(t, rec.stages, StageCheckLinks)
	require.Len(t, pub.events, 1)
	require.Equal(t, events.StatusFailed, pub.events[0].Status)
	require.NotEmpty(t, pub.events[0].Error)
}

func TestBuilder_MissingTemplate(t *testing.T) {
	cfg := newSite(t)
	require.NoError(t, os.Remove(cfg.Template))

	report, err := New(cfg).Run(context.Background())
	require.Error(t, err)
	require.Equal(t, StatusFailed, report.Status)
}

func TestBuilder_Canceled(t *testing.T) {
	cfg := newSite(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	pub := &recordingPublisher{}

	report, err := New(cfg, WithPublisher(pub)).Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, StatusCanceled, report.Status)
	require.Len(t, pub.events, 1, "events are still published for canceled builds")
}

func TestBuilder_Revision(t *testing.T) {
	cfg := newSite(t)
	root := filepath.Dir(cfg.ContentDir)

	repo, err := git.PlainInit(root, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("content/index.md")
	require.NoError(t, err)
	hash, err := wt.Commit("initial", &git.CommitOptions{
		Author: &object.Signature{Name: "tester", Email: "tester@example.com", When: time.Now()},
	})
	require.NoError(t, err)

	report, err := New(cfg).Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, hash.String(), report.Revision)
}

func TestReport_Event(t *testing.T) {
	r := &Report{BuildID: "id", StartTime: time.Now(), Rendered: 4}
	r.finish(StatusFailed, os.ErrPermission)
	e := r.Event()
	require.Equal(t, "failed", e.Status)
	require.Equal(t, 4, e.Rendered)
	require.Equal(t, os.ErrPermission.Error(), e.Error)
	require.False(t, e.Timestamp.IsZero())
}
