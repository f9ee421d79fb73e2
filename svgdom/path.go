package svgdom

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"golang.org/x/image/math/fixed"
)

// Abstract representation of svg path data, reduced to the four
// primitive operations. The normalizer only measures paths, it never
// re-emits their geometry, so this is the whole surface we need.

// Operation groups the different SVG path commands.
type Operation interface {
	// isOp is a marker, dispatch is by type switch
	isOp()
}

type MoveTo fixed.Point26_6

type LineTo fixed.Point26_6

type QuadTo [2]fixed.Point26_6

type CubicTo [3]fixed.Point26_6

type Close struct{}

func (MoveTo) isOp()  {}
func (LineTo) isOp()  {}
func (QuadTo) isOp()  {}
func (CubicTo) isOp() {}
func (Close) isOp()   {}

// Path describes a sequence of basic SVG operations.
// Higher-level shapes may be reduced to a path.
type Path []Operation

// ToSVGPath returns a string representation of the path
func (p Path) ToSVGPath() string {
	chunks := make([]string, len(p))
	for i, op := range p {
		switch op := op.(type) {
		case MoveTo:
			chunks[i] = fmt.Sprintf("M%4.3f,%4.3f", float32(op.X)/64, float32(op.Y)/64)
		case LineTo:
			chunks[i] = fmt.Sprintf("L%4.3f,%4.3f", float32(op.X)/64, float32(op.Y)/64)
		case QuadTo:
			chunks[i] = fmt.Sprintf("Q%4.3f,%4.3f,%4.3f,%4.3f", float32(op[0].X)/64, float32(op[0].Y)/64,
				float32(op[1].X)/64, float32(op[1].Y)/64)
		case CubicTo:
			chunks[i] = fmt.Sprintf("C%4.3f,%4.3f,%4.3f,%4.3f,%4.3f,%4.3f", float32(op[0].X)/64, float32(op[0].Y)/64,
				float32(op[1].X)/64, float32(op[1].Y)/64, float32(op[2].X)/64, float32(op[2].Y)/64)
		case Close:
			chunks[i] = "Z"
		}
	}
	return strings.Join(chunks, " ")
}

// String returns a readable representation of a Path.
func (p Path) String() string { return p.ToSVGPath() }

// toFixedP converts two floats to a fixed point.
func toFixedP(x, y float64) (p fixed.Point26_6) {
	p.X = fixed.Int26_6(x * 64)
	p.Y = fixed.Int26_6(y * 64)
	return
}

func fixedTof(p fixed.Point26_6) (x, y float64) {
	return float64(p.X) / 64, float64(p.Y) / 64
}

// Start starts a new curve at the given point.
func (p *Path) Start(a fixed.Point26_6) {
	*p = append(*p, MoveTo{a.X, a.Y})
}

// Line adds a linear segment to the current curve.
func (p *Path) Line(b fixed.Point26_6) {
	*p = append(*p, LineTo{b.X, b.Y})
}

// QuadBezier adds a quadratic segment to the current curve.
func (p *Path) QuadBezier(b, c fixed.Point26_6) {
	*p = append(*p, QuadTo{b, c})
}

// CubeBezier adds a cubic segment to the current curve.
func (p *Path) CubeBezier(b, c, d fixed.Point26_6) {
	*p = append(*p, CubicTo{b, c, d})
}

// Stop joins the ends of the path
func (p *Path) Stop(closeLoop bool) {
	if closeLoop {
		*p = append(*p, Close{})
	}
}

var errCommand = errors.New("invalid path command")

// pathCursor compiles a path data attribute into a Path.
type pathCursor struct {
	path                   Path
	placeX, placeY         float64 // current point
	pathStartX, pathStartY float64 // subpath origin, for Z
	cntlPtX, cntlPtY       float64 // last control point, for S and T
	lastKey                byte
	inPath                 bool
}

// CompilePath reads SVG path data into a Path. Unknown or malformed
// commands abort the compilation; the caller treats the path as
// having no measurable geometry.
func CompilePath(d string) (Path, error) {
	c := &pathCursor{}
	var cmd byte
	var args []float64
	flush := func() error {
		if cmd == 0 {
			return nil
		}
		return c.addSeg(cmd, args)
	}
	i := 0
	for i < len(d) {
		r := d[i]
		switch {
		case r == ' ' || r == ',' || r == '\t' || r == '\n' || r == '\r':
			i++
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
			if err := flush(); err != nil {
				return nil, err
			}
			cmd, args = r, args[:0]
			i++
		default:
			f, n, err := scanNumber(d[i:])
			if err != nil {
				return nil, err
			}
			args = append(args, f)
			i += n
		}
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return c.path, nil
}

// scanNumber reads one float at the start of s, accepting the sign,
// decimal and exponent forms path data allows to run together.
func scanNumber(s string) (float64, int, error) {
	n := 0
	seenDot, seenExp := false, false
	for n < len(s) {
		r := s[n]
		switch {
		case r >= '0' && r <= '9':
		case r == '.' && !seenDot:
			seenDot = true
		case (r == 'e' || r == 'E') && !seenExp:
			seenExp = true
			seenDot = true // no dot after the exponent
		case (r == '-' || r == '+') && (n == 0 || s[n-1] == 'e' || s[n-1] == 'E'):
		default:
			goto done
		}
		n++
	}
done:
	if n == 0 {
		return 0, 0, errCommand
	}
	f, err := parseFloat(s[:n])
	return f, n, err
}

// addSeg applies one path command and its arguments.
func (c *pathCursor) addSeg(cmd byte, points []float64) error {
	rel := cmd >= 'a'
	k := cmd
	if rel {
		k -= 'a' - 'A'
	}
	rx, ry := 0.0, 0.0
	if rel {
		rx, ry = c.placeX, c.placeY
	}
	ln := len(points)
	switch k {
	case 'Z':
		if ln != 0 {
			return errParamMismatch
		}
		if c.inPath {
			c.path.Stop(true)
			c.placeX, c.placeY = c.pathStartX, c.pathStartY
			c.inPath = false
		}
	case 'M':
		if ln < 2 || ln%2 != 0 {
			return errParamMismatch
		}
		c.placeX, c.placeY = points[0]+rx, points[1]+ry
		c.pathStartX, c.pathStartY = c.placeX, c.placeY
		c.inPath = true
		c.path.Start(toFixedP(c.placeX, c.placeY))
		for i := 2; i < ln; i += 2 {
			c.lineTo(points[i]+rx, points[i+1]+ry)
			if rel {
				rx, ry = c.placeX, c.placeY
			}
		}
	case 'L':
		if ln < 2 || ln%2 != 0 {
			return errParamMismatch
		}
		for i := 0; i < ln; i += 2 {
			c.lineTo(points[i]+rx, points[i+1]+ry)
			if rel {
				rx, ry = c.placeX, c.placeY
			}
		}
	case 'H':
		if ln == 0 {
			return errParamMismatch
		}
		for _, p := range points {
			c.lineTo(p+rx, c.placeY)
			if rel {
				rx = c.placeX
			}
		}
	case 'V':
		if ln == 0 {
			return errParamMismatch
		}
		for _, p := range points {
			c.lineTo(c.placeX, p+ry)
			if rel {
				ry = c.placeY
			}
		}
	case 'C':
		if ln < 6 || ln%6 != 0 {
			return errParamMismatch
		}
		for i := 0; i < ln; i += 6 {
			c.cubicTo(points[i]+rx, points[i+1]+ry, points[i+2]+rx, points[i+3]+ry,
				points[i+4]+rx, points[i+5]+ry)
			if rel {
				rx, ry = c.placeX, c.placeY
			}
		}
	case 'S':
		if ln < 4 || ln%4 != 0 {
			return errParamMismatch
		}
		for i := 0; i < ln; i += 4 {
			c1x, c1y := c.reflectControl('C')
			c.cubicTo(c1x, c1y, points[i]+rx, points[i+1]+ry, points[i+2]+rx, points[i+3]+ry)
			c.lastKey = 'S'
			if rel {
				rx, ry = c.placeX, c.placeY
			}
		}
	case 'Q':
		if ln < 4 || ln%4 != 0 {
			return errParamMismatch
		}
		for i := 0; i < ln; i += 4 {
			c.quadTo(points[i]+rx, points[i+1]+ry, points[i+2]+rx, points[i+3]+ry)
			if rel {
				rx, ry = c.placeX, c.placeY
			}
		}
	case 'T':
		if ln < 2 || ln%2 != 0 {
			return errParamMismatch
		}
		for i := 0; i < ln; i += 2 {
			cx, cy := c.reflectControl('Q')
			c.quadTo(cx, cy, points[i]+rx, points[i+1]+ry)
			c.lastKey = 'T'
			if rel {
				rx, ry = c.placeX, c.placeY
			}
		}
	case 'A':
		if ln < 7 || ln%7 != 0 {
			return errParamMismatch
		}
		for i := 0; i < ln; i += 7 {
			c.arcTo(points[i], points[i+1], points[i+2], points[i+3] != 0,
				points[i+4] != 0, points[i+5]+rx, points[i+6]+ry)
			if rel {
				rx, ry = c.placeX, c.placeY
			}
		}
	default:
		return errCommand
	}
	c.lastKey = k
	return nil
}

func (c *pathCursor) lineTo(x, y float64) {
	c.path.Line(toFixedP(x, y))
	c.placeX, c.placeY = x, y
}

func (c *pathCursor) quadTo(cx, cy, x, y float64) {
	c.path.QuadBezier(toFixedP(cx, cy), toFixedP(x, y))
	c.cntlPtX, c.cntlPtY = cx, cy
	c.placeX, c.placeY = x, y
}

func (c *pathCursor) cubicTo(c1x, c1y, c2x, c2y, x, y float64) {
	c.path.CubeBezier(toFixedP(c1x, c1y), toFixedP(c2x, c2y), toFixedP(x, y))
	c.cntlPtX, c.cntlPtY = c2x, c2y
	c.placeX, c.placeY = x, y
}

// reflectControl mirrors the previous control point around the
// current point, or degrades to the current point when the previous
// command was not of the matching curve family.
func (c *pathCursor) reflectControl(family byte) (float64, float64) {
	prevCurve := (family == 'C' && (c.lastKey == 'C' || c.lastKey == 'S')) ||
		(family == 'Q' && (c.lastKey == 'Q' || c.lastKey == 'T'))
	if !prevCurve {
		return c.placeX, c.placeY
	}
	return 2*c.placeX - c.cntlPtX, 2*c.placeY - c.cntlPtY
}

// maxDx is the maximum radians a cubic splice is allowed to span
// in ellipse parametric when approximating an off-axis ellipse.
const maxDx float64 = math.Pi / 8

// arcTo approximates an elliptical arc with cubic beziers by the
// method of L. Maisonobe, "Drawing an elliptical arc using polylines,
// quadratic or cubic Bezier curves", 2003.
// https://www.spaceroots.org/documents/elllipse/elliptical-arc.pdf
func (c *pathCursor) arcTo(ra, rb, rotDeg float64, largeArc, sweep bool, x, y float64) {
	if ra == 0 || rb == 0 || (x == c.placeX && y == c.placeY) {
		c.lineTo(x, y)
		return
	}
	ra, rb = math.Abs(ra), math.Abs(rb)
	rotX := rotDeg * math.Pi / 180
	cx, cy := findEllipseCenter(&ra, &rb, rotX, c.placeX, c.placeY, x, y, sweep, !largeArc)

	startAngle := math.Atan2(c.placeY-cy, c.placeX-cx) - rotX
	endAngle := math.Atan2(y-cy, x-cx) - rotX
	etaStart := math.Atan2(math.Sin(startAngle)/rb, math.Cos(startAngle)/ra)
	etaEnd := math.Atan2(math.Sin(endAngle)/rb, math.Cos(endAngle)/ra)
	deltaEta := etaEnd - etaStart
	arcBig := math.Abs(deltaEta) > math.Pi
	if arcBig != largeArc { // Go has no boolean XOR
		if deltaEta < 0 {
			deltaEta += math.Pi * 2
		} else {
			deltaEta -= math.Pi * 2
		}
	}
	if deltaEta < 0 && sweep {
		deltaEta += math.Pi * 2
	} else if deltaEta >= 0 && !sweep {
		deltaEta -= math.Pi * 2
	}

	segs := int(math.Abs(deltaEta)/maxDx) + 1
	dEta := deltaEta / float64(segs)
	tde := math.Tan(dEta / 2)
	alpha := math.Sin(dEta) * (math.Sqrt(4+3*tde*tde) - 1) / 3
	lx, ly := c.placeX, c.placeY
	sinTheta, cosTheta := math.Sin(rotX), math.Cos(rotX)
	ldx, ldy := ellipsePrime(ra, rb, sinTheta, cosTheta, etaStart)
	for i := 1; i <= segs; i++ {
		eta := etaStart + dEta*float64(i)
		var px, py float64
		if i == segs {
			px, py = x, y // exact end point, no roundoff error
		} else {
			px, py = ellipsePointAt(ra, rb, sinTheta, cosTheta, eta, cx, cy)
		}
		dx, dy := ellipsePrime(ra, rb, sinTheta, cosTheta, eta)
		c.cubicTo(lx+alpha*ldx, ly+alpha*ldy, px-alpha*dx, py-alpha*dy, px, py)
		lx, ly, ldx, ldy = px, py, dx, dy
	}
}

// ellipsePrime gives tangent vectors for the parameterized ellipse.
func ellipsePrime(a, b, sinTheta, cosTheta, eta float64) (px, py float64) {
	bCosEta := b * math.Cos(eta)
	aSinEta := a * math.Sin(eta)
	px = -aSinEta*cosTheta - bCosEta*sinTheta
	py = -aSinEta*sinTheta + bCosEta*cosTheta
	return
}

// ellipsePointAt gives points for the parameterized ellipse.
func ellipsePointAt(a, b, sinTheta, cosTheta, eta, cx, cy float64) (px, py float64) {
	aCosEta := a * math.Cos(eta)
	bSinEta := b * math.Sin(eta)
	px = cx + aCosEta*cosTheta - bSinEta*sinTheta
	py = cy + aCosEta*sinTheta + bSinEta*cosTheta
	return
}

// findEllipseCenter locates the center of the ellipse if it exists.
// If it does not, the radii are increased minimally for a solution to
// be possible while preserving the ra to rb ratio. The problem is
// reduced by coordinate transformations to finding the center of a
// circle through the origin and an arbitrary point.
func findEllipseCenter(ra, rb *float64, rotX, startX, startY, endX, endY float64, sweep, smallArc bool) (cx, cy float64) {
	cos, sin := math.Cos(rotX), math.Sin(rotX)

	// move the origin to the start point
	nx, ny := endX-startX, endY-startY
	// rotate the ellipse x-axis to the coordinate x-axis
	nx, ny = nx*cos+ny*sin, -nx*sin+ny*cos
	// scale X so that ra = rb: the ellipse is a circle, foci and center coincide
	nx *= *rb / *ra

	midX, midY := nx/2, ny/2
	midlenSq := midX*midX + midY*midY

	var hr float64
	if *rb**rb < midlenSq {
		// requested ellipse does not exist, scale ra, rb to fit
		nrb := math.Sqrt(midlenSq)
		if *ra == *rb {
			*ra = nrb // prevents roundoff
		} else {
			*ra = *ra * nrb / *rb
		}
		*rb = nrb
	} else {
		hr = math.Sqrt(*rb**rb-midlenSq) / math.Sqrt(midlenSq)
	}
	// if hr is zero, both answers are the same
	if (sweep && smallArc) || (!sweep && !smallArc) {
		cx = midX + midY*hr
		cy = midY - midX*hr
	} else {
		cx = midX - midY*hr
		cy = midY + midX*hr
	}

	// reverse the scale, then reverse rotate and translate back
	cx *= *ra / *rb
	return cx*cos - cy*sin + startX, cx*sin + cy*cos + startY
}
