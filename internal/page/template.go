package page

import (
	"errors"
	"io"
	"os"
	"strings"

	"github.com/inful/mdfp"
	"golang.org/x/net/html"

	ferrors "git.home.luguber.info/inful/sitegen/internal/foundation/errors"
)

// Placeholders substituted by Template.Render.
const (
	TitlePlaceholder   = "{{ Title }}"
	ContentPlaceholder = "{{ Content }}"
)

// ErrTemplatePlaceholder reports a template without one of the required placeholders.
var ErrTemplatePlaceholder = errors.New("template placeholder missing")

// Template is a page layout with Title and Content placeholders.
type Template struct {
	source      string
	fingerprint string

	// Warnings lists placements the HTML parser found suspicious, such as a
	// title placeholder outside <title>. They never stop a build.
	Warnings []string
}

// LoadTemplate reads and parses the template at path.
func LoadTemplate(path string) (*Template, error) {
	f, err := os.Open(path)
	if err != nil {
		category := ferrors.CategoryFileSystem
		if errors.Is(err, os.ErrNotExist) {
			category = ferrors.CategoryNotFound
		}
		return nil, ferrors.WrapError(err, category, "failed to open template").
			WithContext("path", path).
			Build()
	}
	defer f.Close()

	tmpl, err := ParseTemplate(f)
	if err != nil {
		if classified, ok := ferrors.AsClassified(err); ok {
			return nil, classified.WithContext("path", path)
		}
		return nil, err
	}
	return tmpl, nil
}

// ParseTemplate reads a template and checks its placeholders.
func ParseTemplate(r io.Reader) (*Template, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to read template").Build()
	}
	source := string(data)

	for _, placeholder := range [...]string{TitlePlaceholder, ContentPlaceholder} {
		if !strings.Contains(source, placeholder) {
			return nil, ferrors.WrapError(ErrTemplatePlaceholder, ferrors.CategoryTemplate, "template is missing "+placeholder).
				WithContext("placeholder", placeholder).
				UserAction().
				Build()
		}
	}

	warnings, err := inspect(source)
	if err != nil {
		return nil, err
	}

	return &Template{
		source:      source,
		fingerprint: mdfp.CalculateFingerprintFromParts("", source),
		Warnings:    warnings,
	}, nil
}

// Render substitutes every placeholder in a single pass, so placeholder text
// inside title or content is left alone.
func (t *Template) Render(title, content string) string {
	return strings.NewReplacer(TitlePlaceholder, title, ContentPlaceholder, content).Replace(t.source)
}

// Fingerprint identifies the template source; pages rendered with another
// fingerprint are stale.
func (t *Template) Fingerprint() string {
	return t.fingerprint
}

// inspect parses the template as HTML and reports where the placeholders ended up.
func inspect(source string) ([]string, error) {
	doc, err := html.Parse(strings.NewReader(source))
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryTemplate, "failed to parse template HTML").Build()
	}

	var hasTitle, titleUsed, contentInBody bool
	var walk func(n *html.Node, inBody, inTitle bool)
	walk = func(n *html.Node, inBody, inTitle bool) {
		switch n.Type {
		case html.ElementNode:
			switch n.Data {
			case "body":
				inBody = true
			case "title":
				inTitle = true
				hasTitle = true
			}
		case html.TextNode:
			if inTitle && strings.Contains(n.Data, TitlePlaceholder) {
				titleUsed = true
			}
			if inBody && strings.Contains(n.Data, ContentPlaceholder) {
				contentInBody = true
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, inBody, inTitle)
		}
	}
	walk(doc, false, false)

	var warnings []string
	switch {
	case !hasTitle:
		warnings = append(warnings, "template has no <title> element")
	case !titleUsed:
		warnings = append(warnings, "<title> does not contain "+TitlePlaceholder)
	}
	if !contentInBody {
		warnings = append(warnings, ContentPlaceholder+" is not part of the <body> text")
	}
	return warnings, nil
}
