// Package frontmatter separates an optional YAML header from a markdown page.
package frontmatter

import (
	"errors"
	"strings"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/sitegen/internal/foundation/errors"
)

const delimiter = "---"

// ErrMissingClosingDelimiter indicates the page opened a frontmatter block but never closed it.
var ErrMissingClosingDelimiter = errors.New("frontmatter start delimiter found but closing delimiter is missing")

// Meta holds the frontmatter keys the generator understands. Other keys are kept in Extra.
type Meta struct {
	Title string         `yaml:"title"`
	Draft bool           `yaml:"draft"`
	Extra map[string]any `yaml:",inline"`
}

// Page is a markdown source split into its header and body.
type Page struct {
	Raw  string // YAML between the delimiters, without them
	Body string
	Had  bool
}

// Split separates a `---` delimited YAML header from the body.
//
// Without a leading delimiter line, Had is false and Body is the whole input.
// CRLF line endings are accepted for the delimiter lines.
func Split(content string) (Page, error) {
	first, rest, _ := cutLine(content)
	if first != delimiter {
		return Page{Body: content}, nil
	}

	var raw strings.Builder
	for {
		line, next, more := cutLine(rest)
		if line == delimiter {
			return Page{Raw: raw.String(), Body: next, Had: true}, nil
		}
		if !more {
			return Page{}, ferrors.WrapError(ErrMissingClosingDelimiter, ferrors.CategoryValidation, "unterminated frontmatter").
				UserAction().
				Build()
		}
		raw.WriteString(line)
		raw.WriteByte('\n')
		rest = next
	}
}

// cutLine returns the first line of s without its terminator.
// more is false when s had no newline left.
func cutLine(s string) (line, rest string, more bool) {
	line, rest, more = strings.Cut(s, "\n")
	return strings.TrimSuffix(line, "\r"), rest, more
}

// Meta decodes the header. A page without frontmatter yields a zero Meta.
func (p Page) Meta() (Meta, error) {
	var meta Meta
	if strings.TrimSpace(p.Raw) == "" {
		return meta, nil
	}
	if err := yaml.Unmarshal([]byte(p.Raw), &meta); err != nil {
		return Meta{}, ferrors.WrapError(err, ferrors.CategoryValidation, "invalid frontmatter YAML").
			UserAction().
			Build()
	}
	return meta, nil
}
