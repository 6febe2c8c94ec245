// Package markup holds the HTML node tree produced from markdown and renders it to text.
//
// A tree is built once and only read afterwards. Every node is owned by exactly
// one parent; the root container is owned by the caller.
package markup

// Node is either a *Leaf or a *Container. The set is closed: only this package
// can add variants, and Render switches over both.
type Node interface {
	node()
}

// Attr is a single HTML attribute.
type Attr struct {
	Key   string
	Value string
}

// Attrs is an ordered attribute list; rendering follows insertion order.
type Attrs []Attr

// Set replaces the value of an existing key in place or appends a new attribute.
func (a Attrs) Set(key, value string) Attrs {
	for i := range a {
		if a[i].Key == key {
			a[i].Value = value
			return a
		}
	}
	return append(a, Attr{Key: key, Value: value})
}

// Get returns the value stored under key.
func (a Attrs) Get(key string) (string, bool) {
	for _, attr := range a {
		if attr.Key == key {
			return attr.Value, true
		}
	}
	return "", false
}

// Leaf is a node without children. An empty Tag renders Value as raw text.
type Leaf struct {
	Tag   string
	Value string
	Attrs Attrs
}

// Container is a tagged node whose content is its children, in order.
type Container struct {
	Tag      string
	Children []Node
	Attrs    Attrs
}

func (*Leaf) node()      {}
func (*Container) node() {}

// Text returns an untagged leaf.
func Text(value string) *Leaf {
	return &Leaf{Value: value}
}

// NewLeaf returns a tagged leaf.
func NewLeaf(tag, value string, attrs ...Attr) *Leaf {
	return &Leaf{Tag: tag, Value: value, Attrs: Attrs(attrs)}
}

// NewContainer returns a container owning children.
func NewContainer(tag string, children ...Node) *Container {
	return &Container{Tag: tag, Children: children}
}

// Append adds children at the end.
func (c *Container) Append(children ...Node) {
	c.Children = append(c.Children, children...)
}
