package markdown

// Style is the inline style of a span.
type Style int

const (
	StylePlain Style = iota
	StyleStrong
	StyleEmphasis
	StyleCode
	StyleLink
	StyleImage
)

// String returns the lowercase style name.
func (s Style) String() string {
	switch s {
	case StylePlain:
		return "plain"
	case StyleStrong:
		return "strong"
	case StyleEmphasis:
		return "emphasis"
	case StyleCode:
		return "code"
	case StyleLink:
		return "link"
	case StyleImage:
		return "image"
	default:
		return "unknown"
	}
}

// Span is a run of text carrying one inline style.
// Target holds the destination of a link or image and is empty otherwise.
type Span struct {
	Text   string
	Style  Style
	Target string
}

// Delimiter pairs an inline wrapper marker with the style it produces.
type Delimiter struct {
	Marker string
	Style  Style
}

// delimiterTable is applied in order. "**" must precede "*" or it is never
// seen as a unit. The empty marker seeds the pipeline and splits nothing.
var delimiterTable = [...]Delimiter{
	{Marker: "", Style: StylePlain},
	{Marker: "**", Style: StyleStrong},
	{Marker: "*", Style: StyleEmphasis},
	{Marker: "_", Style: StyleEmphasis},
	{Marker: "`", Style: StyleCode},
}

// Delimiters returns the delimiter table in application order.
func Delimiters() []Delimiter {
	out := make([]Delimiter, len(delimiterTable))
	copy(out, delimiterTable[:])
	return out
}

func knownDelimiter(d Delimiter) bool {
	for _, known := range delimiterTable {
		if known == d {
			return true
		}
	}
	return false
}
