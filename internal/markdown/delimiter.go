package markdown

import "strings"

// SplitDelimiter replaces every pair of d.Marker inside plain spans with a span
// styled d.Style, dropping the markers.
//
// Spans that already carry a style (including links and images) pass through
// untouched. An odd number of markers in a span is ErrUnbalancedDelimiter.
// Empty segments between markers produce no span.
func SplitDelimiter(spans []Span, d Delimiter) ([]Span, error) {
	if !knownDelimiter(d) {
		return nil, invalidStyleError("delimiter "+d.Marker+" is not in the delimiter table", d.Style)
	}
	if d.Marker == "" {
		return spans, nil
	}

	out := make([]Span, 0, len(spans))
	for _, span := range spans {
		if span.Style != StylePlain || !strings.Contains(span.Text, d.Marker) {
			out = append(out, span)
			continue
		}

		segments := strings.Split(span.Text, d.Marker)
		if len(segments)%2 == 0 {
			return nil, unbalancedError(d, span.Text)
		}
		for i, segment := range segments {
			if segment == "" {
				continue
			}
			if i%2 == 0 {
				out = append(out, Span{Text: segment, Style: span.Style, Target: span.Target})
			} else {
				out = append(out, Span{Text: segment, Style: d.Style})
			}
		}
	}
	return out, nil
}
