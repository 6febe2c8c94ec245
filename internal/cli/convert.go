package cli

import (
	"errors"
	"io"
	"io/fs"
	"os"

	ferrors "git.home.luguber.info/inful/sitegen/internal/foundation/errors"
	"git.home.luguber.info/inful/sitegen/internal/page"
)

// ConvertCmd implements the 'convert' command.
type ConvertCmd struct {
	File     string `arg:"" help:"Markdown file to convert, or - for stdin"`
	Page     bool   `help:"Wrap the fragment in the configured template"`
	Template string `short:"t" help:"Template to use with --page instead of the configured one" type:"path"`
}

// Run writes the converted file to stdout.
func (c *ConvertCmd) Run(g *Global, root *CLI) error {
	source, err := c.read()
	if err != nil {
		return err
	}

	converted, err := page.Convert(string(source), c.Page)
	if err != nil {
		return err
	}
	if !c.Page {
		_, err = io.WriteString(g.Out, converted.Content+"\n")
		return err
	}

	path := c.Template
	if path == "" {
		cfg, err := root.loadConfig(g)
		if err != nil {
			return err
		}
		path = cfg.Template
	}
	tmpl, err := page.LoadTemplate(path)
	if err != nil {
		return err
	}
	for _, w := range tmpl.Warnings {
		g.Logger.Warn("Template warning", "warning", w)
	}
	_, err = io.WriteString(g.Out, tmpl.Render(converted.Title, converted.Content))
	return err
}

func (c *ConvertCmd) read() ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if c.File == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(c.File)
	}
	if err == nil {
		return data, nil
	}

	category := ferrors.CategoryFileSystem
	if errors.Is(err, fs.ErrNotExist) {
		category = ferrors.CategoryNotFound
	}
	return nil, ferrors.WrapError(err, category, "cannot read markdown file").
		WithContext("path", c.File).
		UserAction().
		Build()
}
