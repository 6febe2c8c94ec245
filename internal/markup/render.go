package markup

import (
	"fmt"
	"io"
	"strings"
)

// voidTags render self-closing and ignore their value.
var voidTags = map[string]bool{
	"img": true,
}

// Render serializes n to HTML.
//
// Values and attribute values are written verbatim; callers must supply safe text.
func Render(n Node) string {
	var b strings.Builder
	write(&b, n)
	return b.String()
}

// WriteTo serializes n into w.
func WriteTo(w io.Writer, n Node) (int64, error) {
	var b strings.Builder
	write(&b, n)
	written, err := io.WriteString(w, b.String())
	return int64(written), err
}

func write(b *strings.Builder, n Node) {
	switch n := n.(type) {
	case *Leaf:
		writeLeaf(b, n)
	case *Container:
		openTag(b, n.Tag, n.Attrs)
		for _, child := range n.Children {
			write(b, child)
		}
		closeTag(b, n.Tag)
	default:
		panic(fmt.Sprintf("markup: unknown node type %T", n))
	}
}

func writeLeaf(b *strings.Builder, l *Leaf) {
	if l.Tag == "" {
		b.WriteString(l.Value)
		return
	}
	if voidTags[l.Tag] {
		b.WriteByte('<')
		b.WriteString(l.Tag)
		writeAttrs(b, l.Attrs)
		b.WriteString("/>")
		return
	}
	openTag(b, l.Tag, l.Attrs)
	b.WriteString(l.Value)
	closeTag(b, l.Tag)
}

func openTag(b *strings.Builder, tag string, attrs Attrs) {
	b.WriteByte('<')
	b.WriteString(tag)
	writeAttrs(b, attrs)
	b.WriteByte('>')
}

func closeTag(b *strings.Builder, tag string) {
	b.WriteString("</")
	b.WriteString(tag)
	b.WriteByte('>')
}

func writeAttrs(b *strings.Builder, attrs Attrs) {
	for _, attr := range attrs {
		b.WriteByte(' ')
		b.WriteString(attr.Key)
		b.WriteString(`="`)
		b.WriteString(attr.Value)
		b.WriteByte('"')
	}
}
