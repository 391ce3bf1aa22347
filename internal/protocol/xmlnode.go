package protocol

import (
	"sort"
	"strings"
)

// Child is one item of a Node's mixed content: either a nested element or
// a run of text. Exactly one of the two fields is meaningful, distinguished
// by IsText.
type Child struct {
	IsText bool
	Text   string
	Node   *Node
}

// Node is the generic shape every decoded XML element is parsed into
// before (and regardless of whether) it is interpreted as a Value,
// Result, or Feedback.
type Node struct {
	Name     string
	Attrs    map[string]string
	Children []Child
}

// Elements returns the element children of n, skipping text runs.
func (n *Node) Elements() []*Node {
	var out []*Node
	for _, c := range n.Children {
		if !c.IsText && c.Node != nil {
			out = append(out, c.Node)
		}
	}
	return out
}

// Text concatenates the direct text children of n (not recursive).
func (n *Node) Text() string {
	var b strings.Builder
	for _, c := range n.Children {
		if c.IsText {
			b.WriteString(c.Text)
		}
	}
	return b.String()
}

// Attr returns an attribute value and whether it was present.
func (n *Node) Attr(name string) (string, bool) {
	if n.Attrs == nil {
		return "", false
	}
	v, ok := n.Attrs[name]
	return v, ok
}

// Encode renders the node back to its wire form. Attributes are written
// in sorted order, so feeding the output back through the Decoder yields
// an identical node.
func (n *Node) Encode() string {
	var b strings.Builder
	n.encodeNode(&b)
	return b.String()
}

func (n *Node) encodeNode(b *strings.Builder) {
	b.WriteString("<")
	b.WriteString(n.Name)
	names := make([]string, 0, len(n.Attrs))
	for k := range n.Attrs {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		b.WriteString(" ")
		b.WriteString(k)
		b.WriteString(`="`)
		b.WriteString(escapeAttr(n.Attrs[k]))
		b.WriteString(`"`)
	}
	if len(n.Children) == 0 {
		b.WriteString("/>")
		return
	}
	b.WriteString(">")
	for _, c := range n.Children {
		if c.IsText {
			b.WriteString(Escape(c.Text))
		} else {
			c.Node.encodeNode(b)
		}
	}
	b.WriteString("</")
	b.WriteString(n.Name)
	b.WriteString(">")
}

// escapeAttr is Escape plus the double quote, which must not terminate
// the attribute value it appears in.
func escapeAttr(s string) string {
	return strings.ReplaceAll(Escape(s), `"`, "&quot;")
}
