package page

import (
	"strings"

	"git.home.luguber.info/inful/sitegen/internal/frontmatter"
	"git.home.luguber.info/inful/sitegen/internal/markdown"
)

// Converted is a page source rendered to an HTML fragment.
type Converted struct {
	Meta    frontmatter.Meta
	Title   string // empty when the page has no title and none was required
	Content string
}

// Convert renders a page source the way GeneratePage does, without a template.
// With requireTitle unset a page without a title still converts.
func Convert(source string, requireTitle bool) (Converted, error) {
	doc, err := frontmatter.Split(source)
	if err != nil {
		return Converted{}, err
	}
	meta, err := doc.Meta()
	if err != nil {
		return Converted{}, err
	}

	title, content, err := convertBody(meta, doc.Body, requireTitle)
	if err != nil {
		return Converted{}, err
	}
	return Converted{Meta: meta, Title: title, Content: content}, nil
}

// convertBody turns a page body into HTML and picks its title: the
// frontmatter title wins over the leading heading.
func convertBody(meta frontmatter.Meta, body string, requireTitle bool) (title, content string, err error) {
	body = strings.TrimLeft(body, "\r\n")
	if content, err = markdown.ToHTML(body); err != nil {
		return "", "", err
	}

	if title = strings.TrimSpace(meta.Title); title != "" {
		return title, content, nil
	}
	title, err = ExtractTitle(body)
	if err != nil {
		if requireTitle {
			return "", "", err
		}
		return "", content, nil
	}
	return title, content, nil
}
