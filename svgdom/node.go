// Provides a generic SVG node tree used by the normalization
// pipeline: parsing into the tree, transform decomposition,
// bounding box computation and serialization back to SVG text.
// The tree is owned top-down: each node owns its children and keeps
// no back references, so subtrees can be moved between documents.
package svgdom

import (
	"strconv"
	"strings"
)

// Kind is the closed set of node categories the normalizer
// distinguishes. Every element not covered maps to Other.
type Kind uint8

const (
	Other Kind = iota
	Group
	Shape
	Defs
	Style
	Use
	Switch
)

func (k Kind) String() string {
	switch k {
	case Group:
		return "group"
	case Shape:
		return "shape"
	case Defs:
		return "defs"
	case Style:
		return "style"
	case Use:
		return "use"
	case Switch:
		return "switch"
	default:
		return "other"
	}
}

// kindByTag resolves the element name once, at parse time.
// Shapes keep their concrete tag on the node.
var kindByTag = map[string]Kind{
	"svg":      Group, // nested viewports recurse like groups
	"g":        Group,
	"circle":   Shape,
	"rect":     Shape,
	"ellipse":  Shape,
	"polygon":  Shape,
	"path":     Shape,
	"polyline": Shape,
	"defs":     Defs,
	"style":    Style,
	"use":      Use,
	"switch":   Switch,
}

// KindOfTag returns the kind an element name parses to.
func KindOfTag(tag string) Kind { return kindByTag[tag] }

// Attr is one element attribute. Order is preserved from the source
// document so serialization stays stable.
type Attr struct {
	Key, Value string
}

// Node is a tagged node in an SVG tree.
// The transform attribute is not kept in Attrs: it is parsed into
// the Transform field and re-synthesized when writing.
type Node struct {
	Kind      Kind
	Tag       string
	Attrs     []Attr
	Transform Transform
	Children  []*Node
	Text      string // character data, kept for style nodes
}

// NewNode returns an empty node of the given kind and element name.
func NewNode(kind Kind, tag string) *Node {
	return &Node{Kind: kind, Tag: tag, Transform: NewTransform()}
}

// NewGroup returns an empty group node.
func NewGroup() *Node { return NewNode(Group, "g") }

// Append adds children to the node, transferring ownership.
func (n *Node) Append(children ...*Node) {
	n.Children = append(n.Children, children...)
}

// Attr returns the value of the named attribute, or "".
func (n *Node) Attr(key string) string {
	for _, a := range n.Attrs {
		if a.Key == key {
			return a.Value
		}
	}
	return ""
}

// SetAttr replaces or appends the named attribute.
func (n *Node) SetAttr(key, value string) {
	for i, a := range n.Attrs {
		if a.Key == key {
			n.Attrs[i].Value = value
			return
		}
	}
	n.Attrs = append(n.Attrs, Attr{Key: key, Value: value})
}

// Float returns the named attribute parsed as a float, or 0.
// A trailing px unit is accepted; anything else is a zero value,
// matching the silent-skip policy for malformed geometry.
func (n *Node) Float(key string) float64 {
	f, _ := parseFloat(n.Attr(key))
	return f
}

// Clone returns a deep copy of the node and its subtree.
func (n *Node) Clone() *Node {
	c := &Node{
		Kind:      n.Kind,
		Tag:       n.Tag,
		Transform: n.Transform,
		Text:      n.Text,
	}
	if len(n.Attrs) > 0 {
		c.Attrs = append([]Attr(nil), n.Attrs...)
	}
	for _, child := range n.Children {
		c.Children = append(c.Children, child.Clone())
	}
	return c
}

// CountShapes returns the number of primitive shape nodes in the
// subtree, the node included.
func (n *Node) CountShapes() int {
	count := 0
	if n.Kind == Shape {
		count++
	}
	for _, child := range n.Children {
		count += child.CountShapes()
	}
	return count
}

func parseFloat(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "px")
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

// parsePoints reads a whitespace or comma separated float list, as
// found in points attributes and transform arguments.
func parsePoints(s string) ([]float64, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	points := make([]float64, 0, len(fields))
	for _, f := range fields {
		p, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, nil
}
