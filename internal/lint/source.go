package lint

import (
	"strings"

	"git.home.luguber.info/inful/sitegen/internal/frontmatter"
)

// pageSource is a page split the same way the generator splits it.
type pageSource struct {
	meta frontmatter.Meta
	body string
	// offset is the number of lines before body, so body line n is file line offset+n.
	offset int
}

func parsePage(content []byte) (pageSource, error) {
	text := string(content)
	doc, err := frontmatter.Split(text)
	if err != nil {
		return pageSource{}, err
	}
	meta, err := doc.Meta()
	if err != nil {
		return pageSource{}, err
	}

	body := strings.TrimLeft(doc.Body, "\r\n")
	return pageSource{
		meta:   meta,
		body:   body,
		offset: strings.Count(text[:len(text)-len(body)], "\n"),
	}, nil
}

// blockLine returns the 1-based body line on which block index starts.
// blocks must come from markdown.SplitBlocks(body). It returns 0 when the
// block cannot be located.
func blockLine(body string, blocks []string, index int) int {
	if index < 0 || index >= len(blocks) {
		return 0
	}

	lines := strings.Split(strings.ReplaceAll(body, "\r\n", "\n"), "\n")
	cursor := 0
	for i := 0; i <= index; i++ {
		first, _, _ := strings.Cut(blocks[i], "\n")
		found := false
		for ; cursor < len(lines); cursor++ {
			if strings.TrimSpace(lines[cursor]) == first {
				found = true
				break
			}
		}
		if !found {
			return 0
		}
		if i == index {
			return cursor + 1
		}
		cursor += strings.Count(blocks[i], "\n") + 1
	}
	return 0
}
