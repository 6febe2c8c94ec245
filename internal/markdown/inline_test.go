package markdown

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/sitegen/internal/foundation/errors"
)

func TestSplitDelimiter(t *testing.T) {
	tests := []struct {
		name  string
		input []Span
		delim Delimiter
		want  []Span
	}{
		{
			name:  "empty delimiter is a no-op",
			input: []Span{{Text: "a **b** c", Style: StylePlain}},
			delim: Delimiter{Marker: "", Style: StylePlain},
			want:  []Span{{Text: "a **b** c", Style: StylePlain}},
		},
		{
			name:  "strong",
			input: []Span{{Text: "This is text with a **bolded phrase** in the middle", Style: StylePlain}},
			delim: Delimiter{Marker: "**", Style: StyleStrong},
			want: []Span{
				{Text: "This is text with a ", Style: StylePlain},
				{Text: "bolded phrase", Style: StyleStrong},
				{Text: " in the middle", Style: StylePlain},
			},
		},
		{
			name:  "drops empty segments at the edges",
			input: []Span{{Text: "**bold** and **more**", Style: StylePlain}},
			delim: Delimiter{Marker: "**", Style: StyleStrong},
			want: []Span{
				{Text: "bold", Style: StyleStrong},
				{Text: " and ", Style: StylePlain},
				{Text: "more", Style: StyleStrong},
			},
		},
		{
			name:  "code",
			input: []Span{{Text: "run `go test` now", Style: StylePlain}},
			delim: Delimiter{Marker: "`", Style: StyleCode},
			want: []Span{
				{Text: "run ", Style: StylePlain},
				{Text: "go test", Style: StyleCode},
				{Text: " now", Style: StylePlain},
			},
		},
		{
			name: "resolved spans pass through",
			input: []Span{
				{Text: "a_b", Style: StyleLink, Target: "x_y"},
				{Text: "_c_", Style: StyleStrong},
				{Text: "_d_", Style: StylePlain},
			},
			delim: Delimiter{Marker: "_", Style: StyleEmphasis},
			want: []Span{
				{Text: "a_b", Style: StyleLink, Target: "x_y"},
				{Text: "_c_", Style: StyleStrong},
				{Text: "d", Style: StyleEmphasis},
			},
		},
		{
			name:  "text without marker is unchanged",
			input: []Span{{Text: "nothing here", Style: StylePlain}},
			delim: Delimiter{Marker: "*", Style: StyleEmphasis},
			want:  []Span{{Text: "nothing here", Style: StylePlain}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SplitDelimiter(tt.input, tt.delim)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestSplitDelimiter_Unbalanced(t *testing.T) {
	_, err := SplitDelimiter([]Span{{Text: "a **b", Style: StylePlain}}, Delimiter{Marker: "**", Style: StyleStrong})
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrUnbalancedDelimiter))
	require.Equal(t, ferrors.CategoryMarkdown, ferrors.GetCategory(err))

	classified, ok := ferrors.AsClassified(err)
	require.True(t, ok)
	marker, _ := classified.Context().GetString("delimiter")
	require.Equal(t, "**", marker)
}

func TestSplitDelimiter_UnknownPair(t *testing.T) {
	_, err := SplitDelimiter([]Span{{Text: "~x~"}}, Delimiter{Marker: "~", Style: StyleEmphasis})
	require.ErrorIs(t, err, ErrInvalidStyle)

	_, err = SplitDelimiter([]Span{{Text: "*x*"}}, Delimiter{Marker: "*", Style: StyleStrong})
	require.ErrorIs(t, err, ErrInvalidStyle)
}

func TestSplitDelimiter_ReconstructsText(t *testing.T) {
	inputs := []string{
		"plain",
		"a **b** c **d**",
		"**lead** tail",
		"x **y**",
		"****",
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			spans, err := SplitDelimiter([]Span{{Text: input}}, Delimiter{Marker: "**", Style: StyleStrong})
			require.NoError(t, err)

			var b strings.Builder
			for _, s := range spans {
				require.NotEmpty(t, s.Text)
				b.WriteString(s.Text)
			}
			require.Equal(t, strings.ReplaceAll(input, "**", ""), b.String())
		})
	}
}

func TestSplitReferences(t *testing.T) {
	t.Run("images", func(t *testing.T) {
		got, err := SplitReferences([]Span{{
			Text: "This is text with an ![image](https://i.imgur.com/zjjcJKZ.png) and another ![second image](https://i.imgur.com/3elNhQu.png)",
		}}, StyleImage)
		require.NoError(t, err)
		require.Equal(t, []Span{
			{Text: "This is text with an ", Style: StylePlain},
			{Text: "image", Style: StyleImage, Target: "https://i.imgur.com/zjjcJKZ.png"},
			{Text: " and another ", Style: StylePlain},
			{Text: "second image", Style: StyleImage, Target: "https://i.imgur.com/3elNhQu.png"},
		}, got)
	})

	t.Run("links skip images", func(t *testing.T) {
		got, err := SplitReferences([]Span{{
			Text: "![pic](a.png) then [to boot dev](https://www.boot.dev) end",
		}}, StyleLink)
		require.NoError(t, err)
		require.Equal(t, []Span{
			{Text: "![pic](a.png) then ", Style: StylePlain},
			{Text: "to boot dev", Style: StyleLink, Target: "https://www.boot.dev"},
			{Text: " end", Style: StylePlain},
		}, got)
	})

	t.Run("leftover keeps original style", func(t *testing.T) {
		got, err := SplitReferences([]Span{{Text: "see [x](y) now", Style: StyleStrong}}, StyleLink)
		require.NoError(t, err)
		require.Equal(t, []Span{
			{Text: "see ", Style: StyleStrong},
			{Text: "x", Style: StyleLink, Target: "y"},
			{Text: " now", Style: StyleStrong},
		}, got)
	})

	t.Run("no match leaves span unchanged", func(t *testing.T) {
		in := []Span{{Text: "[not a link] (nope)", Style: StylePlain}}
		got, err := SplitReferences(in, StyleLink)
		require.NoError(t, err)
		require.Equal(t, in, got)
	})

	t.Run("brackets excluded from label", func(t *testing.T) {
		got, err := SplitReferences([]Span{{Text: "[x [a](b)"}}, StyleLink)
		require.NoError(t, err)
		require.Equal(t, []Span{
			{Text: "[x ", Style: StylePlain},
			{Text: "a", Style: StyleLink, Target: "b"},
		}, got)
	})

	t.Run("repeated identical references", func(t *testing.T) {
		got, err := SplitReferences([]Span{{Text: "[a](b)[a](b)"}}, StyleLink)
		require.NoError(t, err)
		require.Equal(t, []Span{
			{Text: "a", Style: StyleLink, Target: "b"},
			{Text: "a", Style: StyleLink, Target: "b"},
		}, got)
	})

	t.Run("rejects other styles", func(t *testing.T) {
		_, err := SplitReferences([]Span{{Text: "x"}}, StyleCode)
		require.ErrorIs(t, err, ErrInvalidStyle)
		require.Equal(t, ferrors.CategoryInternal, ferrors.GetCategory(err))
	})
}

func TestParseInline(t *testing.T) {
	got, err := ParseInline("This is **text** with an *italic* word and a `code block` and an " +
		"![obi wan image](https://i.imgur.com/fJRm4Vk.jpeg) and a [link](https://boot.dev)")
	require.NoError(t, err)
	require.Equal(t, []Span{
		{Text: "This is ", Style: StylePlain},
		{Text: "text", Style: StyleStrong},
		{Text: " with an ", Style: StylePlain},
		{Text: "italic", Style: StyleEmphasis},
		{Text: " word and a ", Style: StylePlain},
		{Text: "code block", Style: StyleCode},
		{Text: " and an ", Style: StylePlain},
		{Text: "obi wan image", Style: StyleImage, Target: "https://i.imgur.com/fJRm4Vk.jpeg"},
		{Text: " and a ", Style: StylePlain},
		{Text: "link", Style: StyleLink, Target: "https://boot.dev"},
	}, got)
}

func TestParseInline_Underscore(t *testing.T) {
	got, err := ParseInline("an _italic_ word")
	require.NoError(t, err)
	require.Equal(t, []Span{
		{Text: "an ", Style: StylePlain},
		{Text: "italic", Style: StyleEmphasis},
		{Text: " word", Style: StylePlain},
	}, got)
}

func TestParseInline_StrongBeforeEmphasis(t *testing.T) {
	got, err := ParseInline("**a** *b*")
	require.NoError(t, err)
	require.Equal(t, []Span{
		{Text: "a", Style: StyleStrong},
		{Text: " ", Style: StylePlain},
		{Text: "b", Style: StyleEmphasis},
	}, got)
}

func TestParseInline_DelimiterInsideLinkLabel(t *testing.T) {
	got, err := ParseInline("[a **b**](x) and ![my_pic](a_b.png)")
	require.NoError(t, err)
	require.Equal(t, []Span{
		{Text: "a **b**", Style: StyleLink, Target: "x"},
		{Text: " and ", Style: StylePlain},
		{Text: "my_pic", Style: StyleImage, Target: "a_b.png"},
	}, got)
}

func TestParseInline_LinkInsideDelimiterRun(t *testing.T) {
	_, err := ParseInline("**see [x](y)**")
	require.ErrorIs(t, err, ErrUnbalancedDelimiter)
}

func TestParseInline_Errors(t *testing.T) {
	_, err := ParseInline("")
	require.ErrorIs(t, err, ErrEmptyInput)

	_, err = ParseInline("a **b")
	require.ErrorIs(t, err, ErrUnbalancedDelimiter)

	_, err = ParseInline("snake_case")
	require.ErrorIs(t, err, ErrUnbalancedDelimiter)
}

func TestDelimiters_Order(t *testing.T) {
	table := Delimiters()
	require.Equal(t, []Delimiter{
		{Marker: "", Style: StylePlain},
		{Marker: "**", Style: StyleStrong},
		{Marker: "*", Style: StyleEmphasis},
		{Marker: "_", Style: StyleEmphasis},
		{Marker: "`", Style: StyleCode},
	}, table)

	table[1].Marker = "!!"
	require.Equal(t, "**", Delimiters()[1].Marker)
}
