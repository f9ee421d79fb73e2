// Rebuilds an arbitrary parsed SVG fragment into a single flattened
// group holding only primitive shapes, rotation-correction wrapper
// groups and re-synthesized style blocks.
// The source tree is never mutated: every recursion step returns
// freshly built destination nodes.
package svgflatten

import (
	"github.com/benoitkugler/svgflat/svgdom"
)

// Flatten normalizes the fragment rooted at root and returns a new
// group with the flattened content. No visible shape of the input is
// lost or duplicated, modulo the defs inlining described on
// flattenInto: defs-backed geometry becomes visible clones, since
// def/use linkage is not reconstructed.
func Flatten(root *svgdom.Node) *svgdom.Node {
	dest := svgdom.NewGroup()
	f := flattener{root: dest}
	f.flattenInto(root, dest)
	return dest
}

// flattener carries the destination root, which receives hoisted
// defs content: definitions are document global, not locally scoped.
type flattener struct {
	root *svgdom.Node
}

// flattenInto rebuilds the children of src under dst, depth first in
// one pass. The kind switch is exhaustive over the modelled kinds;
// everything else is dropped without failing the conversion.
func (f *flattener) flattenInto(src, dst *svgdom.Node) {
	for _, child := range src.Children {
		switch child.Kind {
		case svgdom.Group:
			g := svgdom.NewGroup()
			g.Attrs = cloneAttrs(child.Attrs)
			if child.Transform.IsMirror() {
				// a scale(1,-1) vertical mirror: re-express as a 180
				// degree rotation about the group's own box center,
				// which keeps text and shapes readable downstream.
				// Best effort: only the exact (1,-1) pair is detected.
				box := child.BoundingBox()
				g.Transform = svgdom.Rotation(180, box.X+box.W/2, box.Y+box.H/2)
			} else {
				g.Transform = child.Transform
			}
			f.flattenInto(child, g)
			if len(g.Children) == 0 {
				// nothing survived: a group carrying no shapes has no
				// reason to exist in the flattened output
				continue
			}
			g.Transform.ResetTranslation()
			dst.Append(g)
		case svgdom.Shape:
			dst.Append(f.placeShape(child))
		case svgdom.Defs:
			f.inlineDefs(child, dst)
		case svgdom.Style:
			// a stylesheet outside defs is preserved the same way as
			// one captured inside defs
			f.appendStyleBlock(dst, child)
		case svgdom.Use, svgdom.Switch, svgdom.Other:
			// use references are already covered by the defs
			// inlining; switch branch selection is not implemented,
			// its children are dropped
		}
	}
}

// inlineDefs flattens a defs node: shape definitions are cloned as
// visible shapes into the destination root (they are assumed to
// exist only to back use references), one level of grouping is
// un-grouped, and a style sheet is captured and re-synthesized as a
// fresh defs/style block under the current destination parent.
func (f *flattener) inlineDefs(defs, dst *svgdom.Node) {
	var styles []*svgdom.Node
	for _, child := range defs.Children {
		switch child.Kind {
		case svgdom.Group:
			f.hoistDefsGroup(child)
		case svgdom.Shape:
			f.root.Append(f.placeShape(child))
		case svgdom.Style:
			styles = append(styles, child)
		}
	}
	if len(styles) > 0 {
		f.appendStyleBlock(dst, styles...)
	}
}

// hoistDefsGroup un-groups a group found inside defs, cloning its
// shapes directly into the destination root.
func (f *flattener) hoistDefsGroup(group *svgdom.Node) {
	for _, child := range group.Children {
		switch child.Kind {
		case svgdom.Shape:
			f.root.Append(f.placeShape(child))
		case svgdom.Group:
			f.hoistDefsGroup(child)
		}
	}
}

// placeShape clones a primitive shape into the destination tree.
// Shapes are leaves: no recursion.
func (f *flattener) placeShape(shape *svgdom.Node) *svgdom.Node {
	s := shape.Clone()
	s.Transform.ResetTranslation()
	return s
}

// appendStyleBlock synthesizes a fresh defs node holding fresh style
// nodes carrying the captured text and attributes verbatim.
func (f *flattener) appendStyleBlock(dst *svgdom.Node, styles ...*svgdom.Node) {
	block := svgdom.NewNode(svgdom.Defs, "defs")
	for _, style := range styles {
		s := svgdom.NewNode(svgdom.Style, "style")
		s.Attrs = cloneAttrs(style.Attrs)
		s.Text = style.Text
		block.Append(s)
	}
	dst.Append(block)
}

func cloneAttrs(attrs []svgdom.Attr) []svgdom.Attr {
	if len(attrs) == 0 {
		return nil
	}
	return append([]svgdom.Attr(nil), attrs...)
}
