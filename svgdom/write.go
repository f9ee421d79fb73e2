package svgdom

import (
	"fmt"
	"strings"

	svg "github.com/ajstarks/svgo/float"
)

// Serialization of node trees onto an svgo canvas. Shape geometry
// goes through the typed svgo calls; the remaining attributes are
// carried verbatim as raw attribute strings.

var attrEscaper = strings.NewReplacer(
	`&`, "&amp;",
	`<`, "&lt;",
	`>`, "&gt;",
	`"`, "&quot;",
)

var textEscaper = strings.NewReplacer(
	`&`, "&amp;",
	`<`, "&lt;",
)

// WriteTo emits the node and its subtree on the canvas.
// Use, switch and unknown nodes do not survive normalization and are
// not written.
func (n *Node) WriteTo(canvas *svg.SVG) {
	switch n.Kind {
	case Group:
		canvas.Group(n.rawAttrs()...)
		for _, child := range n.Children {
			child.WriteTo(canvas)
		}
		canvas.Gend()
	case Shape:
		n.writeShape(canvas)
	case Defs:
		canvas.Def()
		for _, child := range n.Children {
			child.WriteTo(canvas)
		}
		canvas.DefEnd()
	case Style:
		// written by hand: svgo's Style helper does not carry the
		// original attributes, which must survive verbatim
		fmt.Fprintf(canvas.Writer, "<style%s>%s</style>\n",
			joined(n.rawAttrs()), textEscaper.Replace(n.Text))
	}
}

func (n *Node) writeShape(canvas *svg.SVG) {
	switch n.Tag {
	case "rect":
		canvas.Rect(n.Float("x"), n.Float("y"), n.Float("width"), n.Float("height"),
			n.rawAttrs("x", "y", "width", "height")...)
	case "circle":
		canvas.Circle(n.Float("cx"), n.Float("cy"), n.Float("r"),
			n.rawAttrs("cx", "cy", "r")...)
	case "ellipse":
		canvas.Ellipse(n.Float("cx"), n.Float("cy"), n.Float("rx"), n.Float("ry"),
			n.rawAttrs("cx", "cy", "rx", "ry")...)
	case "polygon", "polyline":
		points, err := parsePoints(n.Attr("points"))
		if err != nil {
			points = nil
		}
		xs := make([]float64, 0, len(points)/2)
		ys := make([]float64, 0, len(points)/2)
		for i := 0; i+1 < len(points); i += 2 {
			xs = append(xs, points[i])
			ys = append(ys, points[i+1])
		}
		if n.Tag == "polygon" {
			canvas.Polygon(xs, ys, n.rawAttrs("points")...)
		} else {
			canvas.Polyline(xs, ys, n.rawAttrs("points")...)
		}
	case "path":
		canvas.Path(n.Attr("d"), n.rawAttrs("d")...)
	}
}

// rawAttrs formats the node's attributes (transform included) as
// ready-to-embed strings, skipping the geometry keys the typed svgo
// call already consumed.
func (n *Node) rawAttrs(consumed ...string) []string {
	var out []string
	if tr := n.Transform.Attr(); tr != "" {
		out = append(out, `transform="`+attrEscaper.Replace(tr)+`"`)
	}
attrs:
	for _, a := range n.Attrs {
		for _, key := range consumed {
			if a.Key == key {
				continue attrs
			}
		}
		out = append(out, a.Key+`="`+attrEscaper.Replace(a.Value)+`"`)
	}
	return out
}

func joined(attrs []string) string {
	if len(attrs) == 0 {
		return ""
	}
	return " " + strings.Join(attrs, " ")
}
