package svgdom

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/srwiley/rasterx"
)

// Matrix2D is the affine transform representation, shared with the
// rasterx geometry package.
type Matrix2D = rasterx.Matrix2D

// Identity is the do-nothing transform matrix.
var Identity = rasterx.Identity

var errParamMismatch = errors.New("transform: parameter mismatch")

// Transform keeps both the accumulated matrix of a transform
// attribute and the literal components it was written with.
// The flattener needs the literal translate pair to decide whether a
// translation is purely positional (ResetTranslation) and the
// decomposed scale pair to detect the scale(1,-1) mirror idiom.
type Transform struct {
	Matrix Matrix2D

	TranslateX, TranslateY float64 // accumulated literal translate()
	ScaleA, ScaleD         float64 // accumulated literal scale()
	RotateDeg              float64 // accumulated literal rotate(), degrees
	RotateCX, RotateCY     float64 // center of the last rotate()

	simple bool // only translate/scale/rotate commands seen
}

// NewTransform returns the identity transform.
func NewTransform() Transform {
	return Transform{Matrix: Identity, ScaleA: 1, ScaleD: 1, simple: true}
}

// Rotation returns a transform rotating by deg degrees around the
// point (cx, cy), the form used by mirror-correction groups.
func Rotation(deg, cx, cy float64) Transform {
	t := NewTransform()
	t.Matrix = Identity.Translate(cx, cy).Rotate(deg * math.Pi / 180).Translate(-cx, -cy)
	t.RotateDeg, t.RotateCX, t.RotateCY = deg, cx, cy
	return t
}

// IsIdentity reports whether the transform does nothing.
func (t Transform) IsIdentity() bool { return t.Matrix == Identity }

// IsMirror reports whether the transform flips vertically around the
// x axis without any rotation or skew: the scale-a=1, scale-d=-1
// authoring pattern. General negative scales are deliberately not
// detected (best-effort heuristic, see the flattener).
func (t Transform) IsMirror() bool {
	return t.Matrix.A == 1 && t.Matrix.D == -1 && t.Matrix.B == 0 && t.Matrix.C == 0
}

// ResetTranslation zeroes each translation component whose rendered
// value exactly equals the literal translate() it came from, that is
// a translation which is purely positional and becomes redundant
// once the node has been re-parented.
func (t *Transform) ResetTranslation() {
	if t.Matrix.E != 0 && t.Matrix.E == t.TranslateX {
		t.Matrix.E, t.TranslateX = 0, 0
	}
	if t.Matrix.F != 0 && t.Matrix.F == t.TranslateY {
		t.Matrix.F, t.TranslateY = 0, 0
	}
}

// Apply maps a point through the transform matrix.
func (t Transform) Apply(x, y float64) (float64, float64) {
	m := t.Matrix
	return m.A*x + m.C*y + m.E, m.B*x + m.D*y + m.F
}

// matrixApprox compares matrices up to the float noise of composing
// trigonometric rotations.
func matrixApprox(a, b Matrix2D) bool {
	const eps = 1e-12
	return math.Abs(a.A-b.A) < eps && math.Abs(a.B-b.B) < eps &&
		math.Abs(a.C-b.C) < eps && math.Abs(a.D-b.D) < eps &&
		math.Abs(a.E-b.E) < eps && math.Abs(a.F-b.F) < eps
}

// Attr synthesizes the transform attribute value.
// Rotation-only and translation-only transforms are written in their
// readable command form, but only when that form reconstructs the
// matrix: the command must parse back to the same geometry and the
// same literal decomposition, or the reset rule would misfire on the
// next pass. Anything else falls back to matrix().
func (t Transform) Attr() string {
	m := t.Matrix
	if m == Identity {
		return ""
	}
	pureRotation := t.simple && t.RotateDeg != 0 &&
		t.TranslateX == 0 && t.TranslateY == 0 && t.ScaleA == 1 && t.ScaleD == 1 &&
		matrixApprox(Rotation(t.RotateDeg, t.RotateCX, t.RotateCY).Matrix, m)
	if pureRotation {
		if t.RotateCX != 0 || t.RotateCY != 0 {
			return fmt.Sprintf("rotate(%s %s %s)",
				num(t.RotateDeg), num(t.RotateCX), num(t.RotateCY))
		}
		return fmt.Sprintf("rotate(%s)", num(t.RotateDeg))
	}
	// the translate() form re-parses as a literal translation, so it
	// is only correct when the translation came from literal commands
	if m.A == 1 && m.B == 0 && m.C == 0 && m.D == 1 &&
		m.E == t.TranslateX && m.F == t.TranslateY {
		return fmt.Sprintf("translate(%s %s)", num(m.E), num(m.F))
	}
	return fmt.Sprintf("matrix(%s %s %s %s %s %s)",
		num(m.A), num(m.B), num(m.C), num(m.D), num(m.E), num(m.F))
}

func num(f float64) string { return strconv.FormatFloat(f, 'g', -1, 64) }

// ParseTransform reads a transform attribute value.
// On a malformed value the identity transform is returned together
// with the error, so callers can warn and carry on.
func ParseTransform(v string) (Transform, error) {
	t := NewTransform()
	for _, part := range strings.Split(v, ")") {
		part = strings.TrimSpace(part)
		if len(part) == 0 {
			continue
		}
		d := strings.SplitN(part, "(", 2)
		if len(d) != 2 || len(d[1]) < 1 {
			return NewTransform(), errParamMismatch // badly formed transformation
		}
		points, err := parsePoints(d[1])
		if err != nil {
			return NewTransform(), err
		}
		if err := t.readCommand(strings.ToLower(strings.TrimSpace(d[0])), points); err != nil {
			return NewTransform(), err
		}
	}
	return t, nil
}

func (t *Transform) readCommand(k string, points []float64) error {
	ln := len(points)
	switch k {
	case "rotate":
		if ln == 1 {
			t.Matrix = t.Matrix.Rotate(points[0] * math.Pi / 180)
			t.RotateDeg += points[0]
			t.RotateCX, t.RotateCY = 0, 0
		} else if ln == 3 {
			t.Matrix = t.Matrix.Translate(points[1], points[2]).
				Rotate(points[0] * math.Pi / 180).
				Translate(-points[1], -points[2])
			t.RotateDeg += points[0]
			t.RotateCX, t.RotateCY = points[1], points[2]
		} else {
			return errParamMismatch
		}
	case "translate":
		if ln == 1 {
			t.Matrix = t.Matrix.Translate(points[0], 0)
			t.TranslateX += points[0]
		} else if ln == 2 {
			t.Matrix = t.Matrix.Translate(points[0], points[1])
			t.TranslateX += points[0]
			t.TranslateY += points[1]
		} else {
			return errParamMismatch
		}
	case "scale":
		if ln == 1 {
			t.Matrix = t.Matrix.Scale(points[0], points[0])
			t.ScaleA *= points[0]
			t.ScaleD *= points[0]
		} else if ln == 2 {
			t.Matrix = t.Matrix.Scale(points[0], points[1])
			t.ScaleA *= points[0]
			t.ScaleD *= points[1]
		} else {
			return errParamMismatch
		}
	case "skewx":
		if ln != 1 {
			return errParamMismatch
		}
		t.Matrix = t.Matrix.SkewX(points[0] * math.Pi / 180)
		t.simple = false
	case "skewy":
		if ln != 1 {
			return errParamMismatch
		}
		t.Matrix = t.Matrix.SkewY(points[0] * math.Pi / 180)
		t.simple = false
	case "matrix":
		if ln != 6 {
			return errParamMismatch
		}
		t.Matrix = t.Matrix.Mult(Matrix2D{
			A: points[0], B: points[1],
			C: points[2], D: points[3],
			E: points[4], F: points[5],
		})
		t.simple = false
	default:
		return errParamMismatch
	}
	return nil
}
