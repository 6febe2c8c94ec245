package markdown

import (
	"strconv"
	"strings"

	ferrors "git.home.luguber.info/inful/sitegen/internal/foundation/errors"
	"git.home.luguber.info/inful/sitegen/internal/markup"
)

// SpanToLeaf maps a span to its HTML leaf.
func SpanToLeaf(span Span) (*markup.Leaf, error) {
	switch span.Style {
	case StylePlain:
		return markup.Text(span.Text), nil
	case StyleStrong:
		return markup.NewLeaf("b", span.Text), nil
	case StyleEmphasis:
		return markup.NewLeaf("i", span.Text), nil
	case StyleCode:
		return markup.NewLeaf("code", span.Text), nil
	case StyleLink:
		return markup.NewLeaf("a", span.Text, markup.Attr{Key: "href", Value: span.Target}), nil
	case StyleImage:
		return markup.NewLeaf("img", "",
			markup.Attr{Key: "src", Value: span.Target},
			markup.Attr{Key: "alt", Value: span.Text},
		), nil
	default:
		return nil, invalidStyleError("no leaf mapping for style", span.Style)
	}
}

// inlineContainer parses text and wraps the resulting leaves in a tag.
func inlineContainer(tag, text string) (*markup.Container, error) {
	spans, err := ParseInline(text)
	if err != nil {
		return nil, err
	}
	c := &markup.Container{Tag: tag, Children: make([]markup.Node, 0, len(spans))}
	for _, span := range spans {
		leaf, err := SpanToLeaf(span)
		if err != nil {
			return nil, err
		}
		c.Children = append(c.Children, leaf)
	}
	return c, nil
}

// BuildBlock converts one classified block into its node fragment.
func BuildBlock(block string, kind BlockKind) (markup.Node, error) {
	if block == "" {
		return nil, emptyInputError("block")
	}

	switch kind.Type {
	case BlockHeading:
		return buildHeading(block, kind)
	case BlockParagraph:
		return inlineContainer("p", block)
	case BlockQuote:
		return buildQuote(block, kind)
	case BlockCodeFence:
		return buildCode(block, kind)
	case BlockUnorderedList:
		return buildList(block, kind, "ul", func(_ int, line string) (string, bool) {
			for _, marker := range [...]string{"* ", "- "} {
				if rest, ok := strings.CutPrefix(line, marker); ok {
					return rest, true
				}
			}
			return "", false
		})
	case BlockOrderedList:
		return buildList(block, kind, "ol", func(i int, line string) (string, bool) {
			return strings.CutPrefix(line, orderedMarker(i+1))
		})
	default:
		return nil, blockShapeError(kind, "unknown block type")
	}
}

func buildHeading(block string, kind BlockKind) (markup.Node, error) {
	if kind.Level < 1 || kind.Level > 6 {
		return nil, blockShapeError(kind, "heading level out of range")
	}
	prefix := strings.Repeat("#", kind.Level)
	rest, ok := strings.CutPrefix(block, prefix)
	if !ok || rest == "" || (rest[0] != ' ' && rest[0] != '\t') {
		return nil, blockShapeError(kind, "heading without matching hash prefix")
	}
	return inlineContainer("h"+strconv.Itoa(kind.Level), strings.TrimLeft(rest, " \t"))
}

func buildQuote(block string, kind BlockKind) (markup.Node, error) {
	lines := strings.Split(block, "\n")
	for i, line := range lines {
		rest, ok := strings.CutPrefix(line, ">")
		if !ok {
			return nil, blockShapeError(kind, "quote line without marker")
		}
		lines[i] = strings.TrimPrefix(rest, " ")
	}
	return inlineContainer("blockquote", strings.TrimSpace(strings.Join(lines, "\n")))
}

// buildCode keeps the fence interior verbatim; inline syntax is not applied to code.
func buildCode(block string, kind BlockKind) (markup.Node, error) {
	lines := strings.Split(block, "\n")
	if len(lines) < 2 || !strings.HasPrefix(lines[0], fenceMarker) || lines[len(lines)-1] != fenceMarker {
		return nil, blockShapeError(kind, "code block without opening and closing fence")
	}
	code := strings.Join(lines[1:len(lines)-1], "\n")
	return markup.NewContainer("pre", markup.NewLeaf("code", code)), nil
}

func buildList(block string, kind BlockKind, tag string, strip func(int, string) (string, bool)) (markup.Node, error) {
	lines := strings.Split(block, "\n")
	if len(lines) == 0 {
		return nil, blockShapeError(kind, "list without items")
	}
	list := &markup.Container{Tag: tag, Children: make([]markup.Node, 0, len(lines))}
	for i, line := range lines {
		item, ok := strip(i, line)
		if !ok {
			return nil, blockShapeError(kind, "list item without marker")
		}
		li, err := inlineContainer("li", item)
		if err != nil {
			return nil, err
		}
		list.Append(li)
	}
	return list, nil
}

// ToTree converts a whole document into a tree rooted at a div.
// The first failing block aborts the conversion.
func ToTree(doc string) (*markup.Container, error) {
	blocks, err := SplitBlocks(doc)
	if err != nil {
		return nil, err
	}

	root := &markup.Container{Tag: "div", Children: make([]markup.Node, 0, len(blocks))}
	for i, block := range blocks {
		kind, err := ClassifyBlock(block)
		if err != nil {
			return nil, withBlock(err, i)
		}
		fragment, err := BuildBlock(block, kind)
		if err != nil {
			return nil, withBlock(err, i)
		}
		root.Append(fragment)
	}
	return root, nil
}

// ToHTML converts a document and serializes the tree.
func ToHTML(doc string) (string, error) {
	root, err := ToTree(doc)
	if err != nil {
		return "", err
	}
	return markup.Render(root), nil
}

func withBlock(err error, index int) error {
	if classified, ok := ferrors.AsClassified(err); ok {
		return classified.WithContext("block", index)
	}
	return err
}
