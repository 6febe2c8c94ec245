package page

import (
	"errors"
	"strings"

	ferrors "git.home.luguber.info/inful/sitegen/internal/foundation/errors"
	"git.home.luguber.info/inful/sitegen/internal/markdown"
)

// ErrTitleFormat reports a document that does not open with a level 1 heading.
var ErrTitleFormat = errors.New(`markdown document must start with "# Your Title"`)

// ExtractTitle returns the text of the level 1 heading on the first line of doc.
//
// This is stricter than heading classification: "## x" is a valid heading block
// but not a title.
func ExtractTitle(doc string) (string, error) {
	if doc == "" {
		return "", ferrors.WrapError(markdown.ErrEmptyInput, ferrors.CategoryValidation, "markdown document can't be empty").
			UserAction().
			Build()
	}

	line, _, _ := strings.Cut(doc, "\n")
	rest, ok := strings.CutPrefix(line, "# ")
	if !ok {
		return "", titleError(line)
	}
	title := strings.TrimSpace(rest)
	if title == "" {
		return "", titleError(line)
	}
	return title, nil
}

func titleError(line string) error {
	b := ferrors.WrapError(ErrTitleFormat, ferrors.CategoryMarkdown, "missing title heading").
		UserAction().
		WithContext("line", line)
	if level := len(line) - len(strings.TrimLeft(line, "#")); level > 1 {
		b = b.WithContext("level", level)
	}
	return b.Build()
}
