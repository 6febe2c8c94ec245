package lint

import (
	"bytes"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// UnsupportedConstructRule parses pages as CommonMark and reports constructs
// the site converter does not implement. Such pages usually convert without
// error but render differently from what a CommonMark preview shows.
type UnsupportedConstructRule struct{}

// Name returns the rule identifier.
func (r *UnsupportedConstructRule) Name() string {
	return "unsupported-construct"
}

// AppliesTo returns true for pages.
func (r *UnsupportedConstructRule) AppliesTo(filePath string) bool {
	return IsPageFile(filePath)
}

// Check walks the CommonMark AST of the body.
func (r *UnsupportedConstructRule) Check(filePath string, content []byte) ([]Issue, error) {
	src, err := parsePage(content)
	if err != nil {
		return nil, nil
	}

	body := []byte(src.body)
	root := goldmark.New().Parser().Parse(text.NewReader(body))

	var issues []Issue
	report := func(n gmast.Node, message, explanation, fix string) {
		issue := Issue{
			FilePath:    filePath,
			Severity:    SeverityWarning,
			Rule:        r.Name(),
			Message:     message,
			Explanation: explanation,
			Fix:         fix,
		}
		if line := lineOf(n, body); line > 0 {
			issue.Line = src.offset + line
		}
		issues = append(issues, issue)
	}

	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *gmast.List:
			if hasAncestor(node, gmast.KindListItem) {
				report(node, "Nested list",
					"Lists cannot be nested. Indented items are rendered as text of the parent item.",
					"Flatten the list or split it into separate lists")
			}
			if node.IsOrdered() && node.Start != 1 {
				report(node, "Ordered list does not start at 1",
					"Ordered lists must be numbered 1., 2., 3. in sequence, otherwise the block is a paragraph.",
					"Renumber the list starting at 1")
			}
			if !node.IsTight {
				report(node, "List items are separated by blank lines",
					"A blank line ends the block, so every item becomes a list of its own.",
					"Remove the blank lines between items")
			}
		case *gmast.Blockquote:
			if hasAncestor(node, gmast.KindBlockquote) {
				report(node, "Nested blockquote",
					"Quotes cannot be nested. Inner > markers are kept as text.",
					"Use a single level of >")
			}
		case *gmast.HTMLBlock:
			report(node, "HTML block",
				"HTML is copied to the output unescaped and split at blank lines like any other block.",
				"Replace the HTML with markdown or move it into the page template")
			return gmast.WalkSkipChildren, nil
		case *gmast.RawHTML:
			report(node, "Inline HTML",
				"Inline HTML is copied to the output unescaped.",
				"Replace the HTML with markdown")
		case *gmast.Heading:
			if isSetextHeading(node, body) {
				report(node, "Setext heading",
					"Only # headings are recognized. Underlined headings render as paragraphs.",
					"Write the heading as \"# Heading\"")
			}
		case *gmast.CodeBlock:
			report(node, "Indented code block",
				"Only fenced code blocks are recognized. Indentation is stripped and the lines render as a paragraph.",
				"Wrap the code in ``` fences")
		case *gmast.ThematicBreak:
			report(node, "Thematic break",
				"Horizontal rules are not supported and render as text or fail as unbalanced emphasis.",
				"Remove the rule or put it in the page template")
		}
		return gmast.WalkContinue, nil
	})

	return issues, nil
}

func hasAncestor(n gmast.Node, kind gmast.NodeKind) bool {
	for p := n.Parent(); p != nil; p = p.Parent() {
		if p.Kind() == kind {
			return true
		}
	}
	return false
}

// isSetextHeading reports whether h was written as an underlined heading.
// For ATX headings the text segment is preceded by the # markers on its line.
func isSetextHeading(h *gmast.Heading, src []byte) bool {
	if h.Lines().Len() == 0 {
		return false
	}
	start := h.Lines().At(0).Start
	lineStart := bytes.LastIndexByte(src[:start], '\n') + 1
	return !bytes.Contains(src[lineStart:start], []byte("#"))
}

// lineOf returns the 1-based line of n in src, or 0 when unknown.
func lineOf(n gmast.Node, src []byte) int {
	if off, ok := startOffset(n); ok {
		return lineAt(src, off)
	}

	// Thematic breaks carry no segments; they sit on the first non-blank
	// line after the previous sibling.
	from := 0
	if prev := n.PreviousSibling(); prev != nil {
		end, ok := endOffset(prev)
		if !ok {
			return 0
		}
		from = end
	}
	line := lineAt(src, from)
	if from > 0 {
		line++
	}
	rest := src[min(lineStartAfter(src, from), len(src)):]
	for _, l := range bytes.Split(rest, []byte("\n")) {
		if len(bytes.TrimSpace(l)) > 0 {
			return line
		}
		line++
	}
	return 0
}

func lineStartAfter(src []byte, off int) int {
	if off == 0 {
		return 0
	}
	i := bytes.IndexByte(src[off:], '\n')
	if i < 0 {
		return len(src)
	}
	return off + i + 1
}

func startOffset(n gmast.Node) (int, bool) {
	switch node := n.(type) {
	case *gmast.Text:
		return node.Segment.Start, true
	case *gmast.RawHTML:
		if node.Segments.Len() > 0 {
			return node.Segments.At(0).Start, true
		}
	}
	if n.Type() == gmast.TypeBlock && n.Lines().Len() > 0 {
		return n.Lines().At(0).Start, true
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if off, ok := startOffset(c); ok {
			return off, true
		}
	}
	return 0, false
}

func endOffset(n gmast.Node) (int, bool) {
	for c := n.LastChild(); c != nil; c = c.PreviousSibling() {
		if off, ok := endOffset(c); ok {
			return off, true
		}
	}
	switch node := n.(type) {
	case *gmast.Text:
		return node.Segment.Stop, true
	case *gmast.RawHTML:
		if node.Segments.Len() > 0 {
			return node.Segments.At(node.Segments.Len() - 1).Stop, true
		}
	}
	if n.Type() == gmast.TypeBlock && n.Lines().Len() > 0 {
		return n.Lines().At(n.Lines().Len() - 1).Stop, true
	}
	return 0, false
}

func lineAt(src []byte, off int) int {
	return bytes.Count(src[:min(off, len(src))], []byte("\n")) + 1
}
