package markdown

// ParseInline splits one run of text into styled spans.
//
// References are extracted first (images, then links) so their syntax is never
// torn apart by delimiter splitting; delimiters then apply to the remaining
// plain spans in table order. Consequently a delimiter inside a link label stays
// literal, and a link inside a delimiter run leaves each half of the run
// unbalanced.
func ParseInline(text string) ([]Span, error) {
	if text == "" {
		return nil, emptyInputError("inline text")
	}

	spans := []Span{{Text: text, Style: StylePlain}}
	var err error
	for _, style := range [...]Style{StyleImage, StyleLink} {
		if spans, err = SplitReferences(spans, style); err != nil {
			return nil, err
		}
	}
	for _, d := range delimiterTable {
		if spans, err = SplitDelimiter(spans, d); err != nil {
			return nil, err
		}
	}
	return spans, nil
}
