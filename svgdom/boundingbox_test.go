package svgdom

import (
	"math"
	"testing"
)

// paths go through 26.6 fixed points, the analytic shapes do not
const boxEps = 0.05

func shapeNode(tag string, attrs ...string) *Node {
	n := NewNode(Shape, tag)
	for i := 0; i+1 < len(attrs); i += 2 {
		n.SetAttr(attrs[i], attrs[i+1])
	}
	return n
}

func boundsNear(a, b Bounds) bool {
	return math.Abs(a.X-b.X) < boxEps && math.Abs(a.Y-b.Y) < boxEps &&
		math.Abs(a.W-b.W) < boxEps && math.Abs(a.H-b.H) < boxEps
}

func TestShapeBounds(t *testing.T) {
	for _, test := range []struct {
		node     *Node
		expected Bounds
	}{
		{shapeNode("rect", "x", "2", "y", "3", "width", "10", "height", "20"), Bounds{2, 3, 10, 20}},
		{shapeNode("rect", "width", "10", "height", "0"), Bounds{}}, // not drawn
		{shapeNode("circle", "cx", "5", "cy", "5", "r", "3"), Bounds{2, 2, 6, 6}},
		{shapeNode("circle", "cx", "5", "cy", "5"), Bounds{}},
		{shapeNode("ellipse", "cx", "0", "cy", "0", "rx", "4", "ry", "2"), Bounds{-4, -2, 8, 4}},
		{shapeNode("polygon", "points", "0,0 10,0 5,8"), Bounds{0, 0, 10, 8}},
		{shapeNode("polyline", "points", "0,5 10,5"), Bounds{0, 5, 10, 0}}, // degenerate, not empty
		{shapeNode("polygon", "points", "1,junk"), Bounds{}},
		{shapeNode("path", "d", "M0 0 L10 5"), Bounds{0, 0, 10, 5}},
		{shapeNode("path", "d", "Mbroken"), Bounds{}},
	} {
		got := test.node.BoundingBox()
		if !boundsNear(got, test.expected) {
			t.Errorf("%s: expected %v, got %v", test.node.Tag, test.expected, got)
		}
	}
	if shapeNode("polyline", "points", "0,5 10,5").BoundingBox().IsEmpty() {
		t.Error("a degenerate box still has an extent")
	}
}

// Curve boxes come from the critical points of the polynomial, not
// from the control points, so the hull overshoot must not show up.
func TestPathCurveBounds(t *testing.T) {
	for _, test := range []struct {
		d        string
		expected Bounds
	}{
		// the quadratic peaks at t=1/2, y=5, below the control point
		{"M0 0 Q5 10 10 0", Bounds{0, 0, 10, 5}},
		// the cubic peaks at t=1/2, y=15, below the 20 of the controls
		{"M0 0 C0 20 10 20 10 0", Bounds{0, 0, 10, 15}},
		// closing the subpath boxes the closing segment too
		{"M0 0 L10 0 L10 10 Z", Bounds{0, 0, 10, 10}},
		// half circle arc, swept above the chord
		{"M0 0 A5 5 0 0 1 10 0", Bounds{0, -5, 10, 5}},
	} {
		node := shapeNode("path", "d", test.d)
		got := node.BoundingBox()
		if !boundsNear(got, test.expected) {
			t.Errorf("path %s: expected %v, got %v", test.d, test.expected, got)
		}
	}
}

func TestGroupBounds(t *testing.T) {
	child := NewGroup()
	child.Append(shapeNode("rect", "x", "0", "y", "0", "width", "10", "height", "10"))
	var err error
	child.Transform, err = ParseTransform("translate(5 5)")
	if err != nil {
		t.Fatal(err)
	}

	group := NewGroup()
	group.Append(child, shapeNode("circle", "cx", "0", "cy", "0", "r", "2"))
	group.Transform, err = ParseTransform("scale(2)")
	if err != nil {
		t.Fatal(err)
	}

	// own-space box: children transforms apply, the group's own does not
	if got, expected := group.BoundingBox(), (Bounds{-2, -2, 17, 17}); !boundsNear(got, expected) {
		t.Errorf("expected %v, got %v", expected, got)
	}
	// parent-space box: the group's own transform applies on top
	if got, expected := group.TransformedBounds(), (Bounds{-4, -4, 34, 34}); !boundsNear(got, expected) {
		t.Errorf("expected %v, got %v", expected, got)
	}
}

func TestEmptyBounds(t *testing.T) {
	group := NewGroup()
	if !group.BoundingBox().IsEmpty() {
		t.Error("a group without geometry has the empty box")
	}
	group.Append(NewNode(Style, "style"), NewNode(Other, "text"))
	if !group.BoundingBox().IsEmpty() {
		t.Error("style and unknown nodes contribute no geometry")
	}
}
