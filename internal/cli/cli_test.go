package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/sitegen/internal/foundation/errors"
	"git.home.luguber.info/inful/sitegen/internal/lint"
)

// run parses args like the binary does and executes the selected command.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var root CLI
	var out bytes.Buffer
	g := &Global{Logger: slog.New(slog.NewTextHandler(io.Discard, nil)), Out: &out}

	parser, err := kong.New(&root,
		kong.Name("sitegen"),
		kong.Vars{"version": "test"},
		kong.Bind(g, &root),
		kong.Exit(func(int) { t.Fatal("unexpected exit") }),
	)
	require.NoError(t, err)
	ctx, err := parser.Parse(args)
	require.NoError(t, err)
	err = ctx.Run()
	return out.String(), err
}

func initSite(t *testing.T) (dir, cfgPath string) {
	t.Helper()
	dir = t.TempDir()
	cfgPath = filepath.Join(dir, "sitegen.yaml")
	out, err := run(t, "-c", cfgPath, "init")
	require.NoError(t, err)
	require.Contains(t, out, "Site initialized")
	return dir, cfgPath
}

func TestInitAndBuild(t *testing.T) {
	dir, cfgPath := initSite(t)
	require.FileExists(t, filepath.Join(dir, "template.html"))
	require.FileExists(t, filepath.Join(dir, "content", "index.md"))
	require.FileExists(t, filepath.Join(dir, "static", "style.css"))

	out, err := run(t, "-c", cfgPath, "build")
	require.NoError(t, err)
	require.Contains(t, out, "pages rendered: 1, unchanged: 0, drafts skipped: 0, static files: 1")

	html, err := os.ReadFile(filepath.Join(dir, "public", "index.html"))
	require.NoError(t, err)
	require.Contains(t, string(html), "<title>Welcome</title>")
	require.Contains(t, string(html), "<b>sitegen</b>")
	require.FileExists(t, filepath.Join(dir, "public", "style.css"))
	require.FileExists(t, filepath.Join(dir, ".sitegen", "cache.db"))

	out, err = run(t, "-c", cfgPath, "build", "--no-clean")
	require.NoError(t, err)
	require.Contains(t, out, "pages rendered: 0, unchanged: 1")
}

func TestInit_RefusesOverwrite(t *testing.T) {
	_, cfgPath := initSite(t)

	_, err := run(t, "-c", cfgPath, "init")
	require.Error(t, err)
	require.Equal(t, ferrors.CategoryConfig, ferrors.GetCategory(err))

	_, err = run(t, "-c", cfgPath, "init", "--force")
	require.NoError(t, err)
}

func TestBuild_StrictFailsOnBrokenLinks(t *testing.T) {
	dir, cfgPath := initSite(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "content", "about.md"), []byte("# About\n\n[home](/nowhere.html)\n"), 0o644))

	out, err := run(t, "-c", cfgPath, "build")
	require.NoError(t, err)
	require.Contains(t, out, "broken link: about.html -> /nowhere.html (a)")

	_, err = run(t, "-c", cfgPath, "build", "--strict")
	require.Error(t, err)
	require.Equal(t, ferrors.CategoryBuild, ferrors.GetCategory(err))
}

func TestBuild_MissingExplicitConfig(t *testing.T) {
	_, err := run(t, "-c", filepath.Join(t.TempDir(), "nope.yaml"), "build")
	require.Error(t, err)
	require.Equal(t, ferrors.CategoryNotFound, ferrors.GetCategory(err))
}

func TestConvert(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "page.md")
	require.NoError(t, os.WriteFile(src, []byte("# Hi\n\nthere"), 0o644))

	out, err := run(t, "convert", src)
	require.NoError(t, err)
	require.Equal(t, "<div><h1>Hi</h1><p>there</p></div>\n", out)

	tmpl := filepath.Join(dir, "t.html")
	require.NoError(t, os.WriteFile(tmpl, []byte("<title>{{ Title }}</title><body>{{ Content }}</body>"), 0o644))
	out, err = run(t, "convert", "--page", "-t", tmpl, src)
	require.NoError(t, err)
	require.Equal(t, "<title>Hi</title><body><div><h1>Hi</h1><p>there</p></div></body>", out)
}

func TestConvert_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := run(t, "convert", filepath.Join(dir, "missing.md"))
	require.Equal(t, ferrors.CategoryNotFound, ferrors.GetCategory(err))

	bad := filepath.Join(dir, "bad.md")
	require.NoError(t, os.WriteFile(bad, []byte("# Bad\n\n`open"), 0o644))
	_, err = run(t, "convert", bad)
	require.Equal(t, ferrors.CategoryMarkdown, ferrors.GetCategory(err))
}

func TestLint(t *testing.T) {
	dir, cfgPath := initSite(t)

	out, err := run(t, "-c", cfgPath, "lint")
	require.NoError(t, err)
	require.Contains(t, out, "All sources pass linting")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "content", "bad.md"), []byte("# Bad\n\n*open\n"), 0o644))
	out, err = run(t, "-c", cfgPath, "lint", "--format", "json")
	require.Error(t, err)
	require.Equal(t, ferrors.CategoryValidation, ferrors.GetCategory(err))

	var report lint.JSONOutput
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.Equal(t, 1, report.ErrorCount)
	require.Equal(t, "inline-syntax", report.Issues[0].Rule)
}

func TestLint_ExplicitPath(t *testing.T) {
	dir := t.TempDir()
	page := filepath.Join(dir, "Notes.md")
	require.NoError(t, os.WriteFile(page, []byte("# Notes\n"), 0o644))

	out, err := run(t, "-c", filepath.Join(dir, "absent.yaml"), "lint", page)
	require.NoError(t, err, "an explicit path does not need the configuration")
	require.Contains(t, out, "Filename contains uppercase letters")
}

func TestLint_SeveralFiles(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.md")
	bad := filepath.Join(dir, "bad.md")
	require.NoError(t, os.WriteFile(good, []byte("# Good\n"), 0o644))
	require.NoError(t, os.WriteFile(bad, []byte("# Bad\n\n`open\n"), 0o644))

	out, err := run(t, "lint", "--format", "json", good, bad)
	require.Error(t, err)

	var report lint.JSONOutput
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.Equal(t, 2, report.FilesTotal)
	require.Equal(t, 1, report.ErrorCount)
	require.Equal(t, bad, report.Issues[0].FilePath)
}
