package markdown

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplitBlocks(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want []string
	}{
		{
			name: "fence keeps inner blank line",
			doc:  "a\n\n```\nb\n\nc\n```\n\nd",
			want: []string{"a", "```\nb\n\nc\n```", "d"},
		},
		{
			name: "nicely formatted",
			doc: "# This is a heading\n\n" +
				"This is a paragraph of text. It has some **bold** and *italic* words inside of it.\n\n" +
				"* This is the first list item in a list block\n* This is a list item\n* This is another list item",
			want: []string{
				"# This is a heading",
				"This is a paragraph of text. It has some **bold** and *italic* words inside of it.",
				"* This is the first list item in a list block\n* This is a list item\n* This is another list item",
			},
		},
		{
			name: "outer whitespace trimmed per line",
			doc:  "   # Heading   \n\n   * one\n   * two   ",
			want: []string{"# Heading", "* one\n* two"},
		},
		{
			name: "excessive blank lines",
			doc:  "# Heading\n\n\n\nParagraph\n\n\n\n\n* item\n\n\n",
			want: []string{"# Heading", "Paragraph", "* item"},
		},
		{
			name: "whitespace-only lines separate blocks",
			doc:  "one\n   \t\ntwo",
			want: []string{"one", "two"},
		},
		{
			name: "fence without blank lines stays in one block",
			doc:  "# This is a heading\nThis is a paragraph of text.\n```python\nprint(\"Hello, World!\")\n```",
			want: []string{"# This is a heading\nThis is a paragraph of text.\n```python\nprint(\"Hello, World!\")\n```"},
		},
		{
			name: "indentation inside fence preserved",
			doc:  "```\nfunc main() {\n    return\n}\n```",
			want: []string{"```\nfunc main() {\n    return\n}\n```"},
		},
		{
			name: "crlf line endings",
			doc:  "a\r\n\r\nb",
			want: []string{"a", "b"},
		},
		{
			name: "whitespace only document",
			doc:  " \n\n ",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SplitBlocks(tt.doc)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestSplitBlocks_Empty(t *testing.T) {
	_, err := SplitBlocks("")
	require.ErrorIs(t, err, ErrEmptyInput)
}

func TestClassifyBlock(t *testing.T) {
	tests := []struct {
		block string
		want  BlockKind
	}{
		{"plain text", BlockKind{Type: BlockParagraph}},
		{"# h1", BlockKind{Type: BlockHeading, Level: 1}},
		{"## h2", BlockKind{Type: BlockHeading, Level: 2}},
		{"### h3", BlockKind{Type: BlockHeading, Level: 3}},
		{"#### h4", BlockKind{Type: BlockHeading, Level: 4}},
		{"##### h5", BlockKind{Type: BlockHeading, Level: 5}},
		{"###### h6", BlockKind{Type: BlockHeading, Level: 6}},
		{"####### too deep", BlockKind{Type: BlockParagraph}},
		{"#no space", BlockKind{Type: BlockParagraph}},
		{"```\ncode\n```", BlockKind{Type: BlockCodeFence}},
		{"```python\nprint(\"Hello, World!\")\n```", BlockKind{Type: BlockCodeFence}},
		{"```\n```", BlockKind{Type: BlockCodeFence}},
		{"```\nunterminated", BlockKind{Type: BlockParagraph}},
		{"> quote", BlockKind{Type: BlockQuote}},
		{"> one\n>two", BlockKind{Type: BlockQuote}},
		{"> one\ntwo", BlockKind{Type: BlockParagraph}},
		{"* x", BlockKind{Type: BlockUnorderedList}},
		{"- x", BlockKind{Type: BlockUnorderedList}},
		{"* x\n- y", BlockKind{Type: BlockUnorderedList}},
		{"* x\ny", BlockKind{Type: BlockParagraph}},
		{"**bold** start", BlockKind{Type: BlockParagraph}},
		{"1. x\n2. y", BlockKind{Type: BlockOrderedList}},
		{"1. x", BlockKind{Type: BlockOrderedList}},
		{"1. x\n3. y", BlockKind{Type: BlockParagraph}},
		{"2. x", BlockKind{Type: BlockParagraph}},
		{"1.x", BlockKind{Type: BlockParagraph}},
	}

	for _, tt := range tests {
		t.Run(tt.block, func(t *testing.T) {
			got, err := ClassifyBlock(tt.block)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestClassifyBlock_HeadingWinsOverList(t *testing.T) {
	got, err := ClassifyBlock("# title\n* item")
	require.NoError(t, err)
	require.Equal(t, BlockKind{Type: BlockHeading, Level: 1}, got)
}

func TestClassifyBlock_Empty(t *testing.T) {
	_, err := ClassifyBlock("")
	require.ErrorIs(t, err, ErrEmptyInput)
}

func TestBlockKind_String(t *testing.T) {
	require.Equal(t, "heading(3)", BlockKind{Type: BlockHeading, Level: 3}.String())
	require.Equal(t, "ordered_list", BlockKind{Type: BlockOrderedList}.String())
	require.Equal(t, "paragraph", BlockKind{}.String())
}
