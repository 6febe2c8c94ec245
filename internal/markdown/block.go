package markdown

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const fenceMarker = "```"

// BlockType is the structural kind of a block.
type BlockType int

const (
	BlockParagraph BlockType = iota
	BlockHeading
	BlockCodeFence
	BlockQuote
	BlockUnorderedList
	BlockOrderedList
)

// BlockKind is a classified block type; Level is the heading level (1-6) and zero otherwise.
type BlockKind struct {
	Type  BlockType
	Level int
}

// String returns a compact name such as "heading(2)" or "quote".
func (k BlockKind) String() string {
	switch k.Type {
	case BlockParagraph:
		return "paragraph"
	case BlockHeading:
		return fmt.Sprintf("heading(%d)", k.Level)
	case BlockCodeFence:
		return "code"
	case BlockQuote:
		return "quote"
	case BlockUnorderedList:
		return "unordered_list"
	case BlockOrderedList:
		return "ordered_list"
	default:
		return "unknown"
	}
}

// SplitBlocks cuts a document into blank-line separated blocks.
//
// A line starting with ``` toggles a fence; blank lines inside a fence belong to
// the current block. Outside fences lines are trimmed; inside they keep their
// indentation. Blocks are returned trimmed and in document order.
func SplitBlocks(doc string) ([]string, error) {
	if doc == "" {
		return nil, emptyInputError("markdown document")
	}

	var (
		blocks  []string
		current []string
		inFence bool
	)
	flush := func() {
		if len(current) == 0 {
			return
		}
		if block := strings.TrimSpace(strings.Join(current, "\n")); block != "" {
			blocks = append(blocks, block)
		}
		current = current[:0]
	}

	for _, line := range strings.Split(strings.ReplaceAll(doc, "\r\n", "\n"), "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, fenceMarker):
			inFence = !inFence
			current = append(current, trimmed)
		case inFence:
			current = append(current, strings.TrimRight(line, " \t"))
		case trimmed == "":
			flush()
		default:
			current = append(current, trimmed)
		}
	}
	flush()
	return blocks, nil
}

var (
	headingPattern = regexp.MustCompile(`\A(#{1,6})[ \t]+\S`)
	codePattern    = regexp.MustCompile("\\A```[^\\n]*\\n(?:[\\s\\S]*\\n)?```\\z")
)

// ClassifyBlock returns the kind of a block. Patterns are tried in a fixed order
// (heading, code, quote, unordered list, ordered list) and the first match wins;
// anything else is a paragraph.
func ClassifyBlock(block string) (BlockKind, error) {
	if block == "" {
		return BlockKind{}, emptyInputError("block")
	}

	if m := headingPattern.FindStringSubmatch(block); m != nil {
		return BlockKind{Type: BlockHeading, Level: len(m[1])}, nil
	}
	if codePattern.MatchString(block) {
		return BlockKind{Type: BlockCodeFence}, nil
	}

	lines := strings.Split(block, "\n")
	switch {
	case allLines(lines, isQuoteLine):
		return BlockKind{Type: BlockQuote}, nil
	case allLines(lines, isUnorderedItem):
		return BlockKind{Type: BlockUnorderedList}, nil
	case isOrderedList(lines):
		return BlockKind{Type: BlockOrderedList}, nil
	}
	return BlockKind{Type: BlockParagraph}, nil
}

func allLines(lines []string, match func(string) bool) bool {
	for _, line := range lines {
		if !match(line) {
			return false
		}
	}
	return len(lines) > 0
}

func isQuoteLine(line string) bool {
	return strings.HasPrefix(line, ">")
}

func isUnorderedItem(line string) bool {
	return strings.HasPrefix(line, "* ") || strings.HasPrefix(line, "- ")
}

func orderedMarker(position int) string {
	return strconv.Itoa(position) + ". "
}

func isOrderedList(lines []string) bool {
	for i, line := range lines {
		if !strings.HasPrefix(line, orderedMarker(i+1)) {
			return false
		}
	}
	return len(lines) > 0
}
