package markdown

import "regexp"

var (
	imagePattern = regexp.MustCompile(`!\[([^\[\]]*)\]\(([^\(\)]*)\)`)
	linkPattern  = regexp.MustCompile(`\[([^\[\]]*)\]\(([^\(\)]*)\)`)
)

// SplitReferences cuts link or image references out of every span's text.
//
// style must be StyleLink or StyleImage. Each `[label](target)` (images: `![label](target)`)
// becomes a span with the label as text and the target attached. Text around the
// matches keeps the original span's style and target. A link match preceded by
// "!" is an image and is left alone.
func SplitReferences(spans []Span, style Style) ([]Span, error) {
	var find func(string) [][]int
	switch style {
	case StyleImage:
		find = findImages
	case StyleLink:
		find = findLinks
	case StylePlain, StyleStrong, StyleEmphasis, StyleCode:
		return nil, invalidStyleError("reference style must be link or image", style)
	default:
		return nil, invalidStyleError("unknown style", style)
	}

	out := make([]Span, 0, len(spans))
	for _, span := range spans {
		matches := find(span.Text)
		if len(matches) == 0 {
			out = append(out, span)
			continue
		}

		rest := 0
		for _, m := range matches {
			if m[0] > rest {
				out = append(out, Span{Text: span.Text[rest:m[0]], Style: span.Style, Target: span.Target})
			}
			out = append(out, Span{
				Text:   span.Text[m[2]:m[3]],
				Style:  style,
				Target: span.Text[m[4]:m[5]],
			})
			rest = m[1]
		}
		if rest < len(span.Text) {
			out = append(out, Span{Text: span.Text[rest:], Style: span.Style, Target: span.Target})
		}
	}
	return out, nil
}

func findImages(text string) [][]int {
	return imagePattern.FindAllStringSubmatchIndex(text, -1)
}

// findLinks drops matches whose "[" follows a "!"; RE2 has no lookbehind.
func findLinks(text string) [][]int {
	matches := linkPattern.FindAllStringSubmatchIndex(text, -1)
	kept := matches[:0]
	for _, m := range matches {
		if m[0] > 0 && text[m[0]-1] == '!' {
			continue
		}
		kept = append(kept, m)
	}
	return kept
}
