// Package markup is a small typed HTML builder. Elements, attributes and
// children are assembled as values and serialised through
// golang.org/x/net/html, which escapes attribute values and text. Raw
// fragments (already rendered markup or template source) are emitted
// verbatim.
package markup

import (
	"bytes"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Node is anything the builder can serialise.
type Node interface {
	nodes() []*html.Node
}

// Attr is a single attribute. Attributes keep insertion order.
type Attr struct {
	Key string
	Val string
}

// A is shorthand for an Attr literal.
func A(key, val string) Attr { return Attr{Key: key, Val: val} }

// Text is escaped character data.
type Text string

func (t Text) nodes() []*html.Node {
	return []*html.Node{{Type: html.TextNode, Data: string(t)}}
}

// Raw is inserted without escaping.
type Raw string

func (r Raw) nodes() []*html.Node {
	return []*html.Node{{Type: html.RawNode, Data: string(r)}}
}

// Group renders its members one after another with no wrapper.
type Group []Node

func (g Group) nodes() []*html.Node {
	var out []*html.Node
	for _, child := range g {
		if child == nil {
			continue
		}
		out = append(out, child.nodes()...)
	}
	return out
}

// Element is an HTML element under construction.
type Element struct {
	Tag      string
	Attrs    []Attr
	Children []Node
}

// El starts an element.
func El(tag string, attrs ...Attr) *Element {
	return &Element{Tag: strings.ToLower(tag), Attrs: attrs}
}

// Attr appends an attribute.
func (e *Element) Attr(key, val string) *Element {
	e.Attrs = append(e.Attrs, Attr{Key: key, Val: val})
	return e
}

// AttrIf appends an attribute only when cond holds.
func (e *Element) AttrIf(cond bool, key, val string) *Element {
	if cond {
		return e.Attr(key, val)
	}
	return e
}

// Class appends a class attribute built from the non-empty names.
func (e *Element) Class(names ...string) *Element {
	kept := names[:0:0]
	for _, name := range names {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			kept = append(kept, trimmed)
		}
	}
	if len(kept) == 0 {
		return e
	}
	return e.Attr("class", strings.Join(kept, " "))
}

// Append adds children.
func (e *Element) Append(children ...Node) *Element {
	for _, child := range children {
		if child != nil {
			e.Children = append(e.Children, child)
		}
	}
	return e
}

// Get returns the value of the first attribute named key.
func (e *Element) Get(key string) (string, bool) {
	for _, attr := range e.Attrs {
		if attr.Key == key {
			return attr.Val, true
		}
	}
	return "", false
}

func (e *Element) nodes() []*html.Node {
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     e.Tag,
		DataAtom: atom.Lookup([]byte(e.Tag)),
	}
	for _, attr := range e.Attrs {
		n.Attr = append(n.Attr, html.Attribute{Key: attr.Key, Val: attr.Val})
	}
	for _, child := range e.Children {
		for _, c := range child.nodes() {
			n.AppendChild(c)
		}
	}
	return []*html.Node{n}
}

// Render writes the serialised node to w.
func Render(w io.Writer, node Node) error {
	if node == nil {
		return nil
	}
	for _, n := range node.nodes() {
		if err := html.Render(w, n); err != nil {
			return err
		}
	}
	return nil
}

// String serialises node. Rendering into memory cannot fail for builder
// produced trees, so errors are not surfaced.
func String(node Node) string {
	var buf bytes.Buffer
	_ = Render(&buf, node)
	return buf.String()
}

// String serialises the element.
func (e *Element) String() string { return String(e) }

// Open serialises only the opening tag of e, for helpers that stream their
// body between an opening and closing tag.
func Open(e *Element) string {
	rendered := String(&Element{Tag: e.Tag, Attrs: e.Attrs, Children: []Node{Raw("\x00")}})
	if idx := strings.IndexByte(rendered, 0); idx >= 0 {
		return rendered[:idx]
	}
	return rendered
}

// Close returns the closing tag for e.
func Close(e *Element) string {
	return "</" + e.Tag + ">"
}
