package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/sitegen/internal/config"
	ferrors "git.home.luguber.info/inful/sitegen/internal/foundation/errors"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
)

const starterTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>{{ Title }}</title>
  <link rel="stylesheet" href="/style.css">
</head>
<body>
  <main>
    {{ Content }}
  </main>
</body>
</html>
`

const starterPage = `# Welcome

This site is built with **sitegen**. Edit ` + "`content/index.md`" + ` and run ` + "`sitegen build`" + `.

- Pages are markdown files below content/
- Files in static/ are copied as they are
`

const starterStyle = `body { font-family: sans-serif; max-width: 42rem; margin: 2rem auto; line-height: 1.5; }
code { background: #f3f3f3; padding: 0 .2em; }
`

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force bool `help:"Overwrite existing files"`
}

// Run writes the configuration file and a starter site next to it.
func (i *InitCmd) Run(g *Global, root *CLI) error {
	if err := config.Init(root.Config, i.Force); err != nil {
		return err
	}
	g.Logger.Info("Configuration written", logfields.Path(root.Config))

	base := filepath.Dir(root.Config)
	files := []struct {
		path    string
		content string
	}{
		{filepath.Join(base, config.DefaultTemplate), starterTemplate},
		{filepath.Join(base, config.DefaultContentDir, "index.md"), starterPage},
		{filepath.Join(base, config.DefaultStaticDir, "style.css"), starterStyle},
	}
	for _, f := range files {
		written, err := writeStarterFile(f.path, f.content, i.Force)
		if err != nil {
			return err
		}
		if !written {
			g.Logger.Info("Keeping existing file", logfields.Path(f.path))
		}
	}

	_, _ = fmt.Fprintf(g.Out, "Site initialized in %s. Run 'sitegen build' or 'sitegen serve'.\n", base)
	return nil
}

func writeStarterFile(path, content string, force bool) (bool, error) {
	if _, err := os.Stat(path); err == nil && !force {
		return false, nil
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return false, ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to stat starter file").
			WithContext("path", path).
			Build()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to create directory").
			WithContext("path", filepath.Dir(path)).
			Build()
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return false, ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to write starter file").
			WithContext("path", path).
			Build()
	}
	return true, nil
}
