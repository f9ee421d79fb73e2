package svgdom

import (
	"math"

	"golang.org/x/image/math/fixed"
)

// Geometric bounding boxes for the node tree. Boxes are value types,
// recomputed on every request and never cached across mutations.

// Bounds is an axis-aligned rectangle in the coordinate space of the
// element it was computed against. The zero value is the empty box.
type Bounds struct {
	X, Y, W, H float64
}

// IsEmpty reports whether the box holds no geometry at all.
// A degenerate box (zero width or height at a real position) is not
// empty: a horizontal polyline still has an extent.
func (b Bounds) IsEmpty() bool { return b == Bounds{} }

// accumulator grows a box point by point.
type accumulator struct {
	minX, minY, maxX, maxY float64
	set                    bool
}

func (a *accumulator) point(x, y float64) {
	if !a.set {
		a.minX, a.maxX = x, x
		a.minY, a.maxY = y, y
		a.set = true
		return
	}
	a.minX = math.Min(a.minX, x)
	a.maxX = math.Max(a.maxX, x)
	a.minY = math.Min(a.minY, y)
	a.maxY = math.Max(a.maxY, y)
}

func (a *accumulator) bounds(b Bounds) {
	if b.IsEmpty() {
		return
	}
	a.point(b.X, b.Y)
	a.point(b.X+b.W, b.Y+b.H)
}

func (a *accumulator) box() Bounds {
	if !a.set {
		return Bounds{}
	}
	return Bounds{X: a.minX, Y: a.minY, W: a.maxX - a.minX, H: a.maxY - a.minY}
}

// transformed returns the axis-aligned box enclosing b mapped
// through the transform (the four corners are mapped, then boxed).
func (b Bounds) transformed(t Transform) Bounds {
	if b.IsEmpty() {
		return Bounds{}
	}
	var acc accumulator
	acc.point(t.Apply(b.X, b.Y))
	acc.point(t.Apply(b.X+b.W, b.Y))
	acc.point(t.Apply(b.X, b.Y+b.H))
	acc.point(t.Apply(b.X+b.W, b.Y+b.H))
	return acc.box()
}

// BoundingBox computes the box of the node in its own user space:
// children transforms are applied, the node's own transform is not,
// matching getBBox semantics. Nodes without measurable geometry
// (style, defs content already measured elsewhere, unknown elements)
// yield the empty box.
func (n *Node) BoundingBox() Bounds {
	switch n.Kind {
	case Shape:
		return n.shapeBounds()
	case Group:
		var acc accumulator
		for _, child := range n.Children {
			acc.bounds(child.TransformedBounds())
		}
		return acc.box()
	default:
		return Bounds{}
	}
}

// TransformedBounds is the node's bounding box in its parent's
// coordinate space: BoundingBox mapped through the node's transform.
func (n *Node) TransformedBounds() Bounds {
	return n.BoundingBox().transformed(n.Transform)
}

func (n *Node) shapeBounds() Bounds {
	switch n.Tag {
	case "rect":
		w, h := n.Float("width"), n.Float("height")
		if w == 0 || h == 0 { // not drawn, matching the renderer
			return Bounds{}
		}
		return Bounds{X: n.Float("x"), Y: n.Float("y"), W: w, H: h}
	case "circle":
		r := n.Float("r")
		if r == 0 {
			return Bounds{}
		}
		return Bounds{X: n.Float("cx") - r, Y: n.Float("cy") - r, W: 2 * r, H: 2 * r}
	case "ellipse":
		rx, ry := n.Float("rx"), n.Float("ry")
		if rx == 0 || ry == 0 {
			return Bounds{}
		}
		return Bounds{X: n.Float("cx") - rx, Y: n.Float("cy") - ry, W: 2 * rx, H: 2 * ry}
	case "polygon", "polyline":
		points, err := parsePoints(n.Attr("points"))
		if err != nil || len(points) < 2 {
			return Bounds{}
		}
		var acc accumulator
		for i := 0; i+1 < len(points); i += 2 {
			acc.point(points[i], points[i+1])
		}
		return acc.box()
	case "path":
		path, err := CompilePath(n.Attr("d"))
		if err != nil {
			return Bounds{}
		}
		return pathBounds(path)
	}
	return Bounds{}
}

// pathBounds walks the compiled path, boxing each segment by its
// curve's critical points.
func pathBounds(p Path) Bounds {
	var acc accumulator
	var cur, start fixed.Point26_6
	for _, op := range p {
		switch op := op.(type) {
		case MoveTo:
			cur = fixed.Point26_6(op)
			start = cur
			x, y := fixedTof(cur)
			acc.point(x, y)
		case LineTo:
			to := fixed.Point26_6(op)
			segmentBounds(&acc, line{cur, to})
			cur = to
		case QuadTo:
			segmentBounds(&acc, quadBezier{cur, op[0], op[1]})
			cur = op[1]
		case CubicTo:
			segmentBounds(&acc, cubicBezier{cur, op[0], op[1], op[2]})
			cur = op[2]
		case Close:
			segmentBounds(&acc, line{cur, start})
			cur = start
		}
	}
	return acc.box()
}

// A bezier exposes enough of a curve to box it exactly.
type bezier interface {
	// compute the t zeroing the derivative
	criticalPoints() (tX, tY []float64)
	// compute the point at time t
	evaluateCurve(t float64) (x, y float64)
}

// segmentBounds samples the curve at its end points and at every
// critical point of each coordinate.
func segmentBounds(acc *accumulator, curve bezier) {
	resX, resY := curve.criticalPoints()
	for _, t := range append(append(resX, 0, 1), resY...) {
		if !(0 <= t && t <= 1) { // filter invalid values
			continue
		}
		acc.point(curve.evaluateCurve(t))
	}
}

type line [2]fixed.Point26_6

func (l line) criticalPoints() (tX, tY []float64) {
	return nil, nil
}

func (l line) evaluateCurve(t float64) (x, y float64) {
	p0x, p0y := fixedTof(l[0])
	p1x, p1y := fixedTof(l[1])
	return bezierLine(p0x, p1x, t), bezierLine(p0y, p1y, t)
}

func bezierLine(p0, p1, t float64) float64 {
	return (p1-p0)*t + p0
}

type quadBezier [3]fixed.Point26_6

// quadratic polynomial
// x = At^2 + Bt + C
// where
// A = p0 + p2 - 2p1
// B = 2(p1 - p0)
// C = p0
func bezierQuad(p0, p1, p2, t float64) float64 {
	return (p0+p2-2*p1)*t*t + 2*(p1-p0)*t + p0
}

// derivative as at + b where a,b :
func quadraticDerivative(p0, p1, p2 float64) (a, b float64) {
	return 2 * (p2 - p1 - (p1 - p0)), 2 * (p1 - p0)
}

// handle the case where a = 0
func linearRoots(a, b float64) []float64 {
	if a == 0 {
		return nil
	}
	return []float64{-b / a}
}

func (cu quadBezier) criticalPoints() (tX, tY []float64) {
	p0x, p0y := fixedTof(cu[0])
	p1x, p1y := fixedTof(cu[1])
	p2x, p2y := fixedTof(cu[2])

	aX, bX := quadraticDerivative(p0x, p1x, p2x)
	aY, bY := quadraticDerivative(p0y, p1y, p2y)

	return linearRoots(aX, bX), linearRoots(aY, bY)
}

func (cu quadBezier) evaluateCurve(t float64) (x, y float64) {
	p0x, p0y := fixedTof(cu[0])
	p1x, p1y := fixedTof(cu[1])
	p2x, p2y := fixedTof(cu[2])
	return bezierQuad(p0x, p1x, p2x, t), bezierQuad(p0y, p1y, p2y, t)
}

type cubicBezier [4]fixed.Point26_6

func (cu cubicBezier) criticalPoints() (tX, tY []float64) {
	p1x, p1y := fixedTof(cu[0])
	c1x, c1y := fixedTof(cu[1])
	c2x, c2y := fixedTof(cu[2])
	p2x, p2y := fixedTof(cu[3])

	aX, bX, cX := cubicDerivative(p1x, c1x, c2x, p2x)
	aY, bY, cY := cubicDerivative(p1y, c1y, c2y, p2y)

	return quadraticRoots(aX, bX, cX), quadraticRoots(aY, bY, cY)
}

func (cu cubicBezier) evaluateCurve(t float64) (x, y float64) {
	p0x, p0y := fixedTof(cu[0])
	p1x, p1y := fixedTof(cu[1])
	p2x, p2y := fixedTof(cu[2])
	p3x, p3y := fixedTof(cu[3])
	return bezierSpline(p0x, p1x, p2x, p3x, t), bezierSpline(p0y, p1y, p2y, p3y, t)
}

// cubic polynomial
// x = At^3 + Bt^2 + Ct + D
// where A,B,C,D:
// A = p3 -3 * p2 + 3 * p1 - p0
// B = 3 * p2 - 6 * p1 +3 * p0
// C = 3 * p1 - 3 * p0
// D = p0
func bezierSpline(p0, p1, p2, p3, t float64) float64 {
	return (p3-3*p2+3*p1-p0)*t*t*t +
		(3*p2-6*p1+3*p0)*t*t +
		(3*p1-3*p0)*t +
		(p0)
}

// the derivative of the cubic polynomial, taken as at^2 + bt + c :
func cubicDerivative(p0, p1, p2, p3 float64) (a, b, c float64) {
	return 3*p3 - 9*p2 + 9*p1 - 3*p0, 6*p2 - 12*p1 + 6*p0, 3*p1 - 3*p0
}

func quadraticRoots(a, b, c float64) []float64 {
	if a == 0 {
		// at^2 + bt + c is a line
		return linearRoots(b, c)
	}
	d := b*b - 4*a*c // determinant
	if d < 0 {
		return nil
	}
	if d == 0 {
		return []float64{-b / (2 * a)}
	}
	sq := math.Sqrt(d)
	return []float64{(-b + sq) / (2 * a), (-b - sq) / (2 * a)}
}
