// Lays a flattened SVG group out on a fixed inspection canvas:
// computes its bounding box, scales it into a nested viewport
// centered on the canvas, and draws the box outline for inspection.
package svglayout

import (
	"github.com/benoitkugler/svgflat/svgdom"
)

// Canvas geometry. The canvas is fixed; imported content is scaled
// uniformly into the 150-unit slot at its center.
const (
	CanvasWidth  = 600.0
	CanvasHeight = 400.0

	slotWidth        = 150.0
	maxSlotHeight    = 360.0 // above this the slot is force-capped
	cappedSlotHeight = 320.0 // so tall narrow content stays inside the canvas
)

// Viewport is the nested svg element holding the imported shapes.
// Its viewBox maps the content's canvas-space box into the slot.
type Viewport struct {
	X, Y, W, H float64
	ViewBox    svgdom.Bounds
}

// Document is the assembled normalized document: canvas background,
// the two reference gridlines, the nested viewport with the
// flattened content, and the diagnostic outline rectangle.
// ContentBounds is the flattened group's box in its own local
// coordinate space, returned to the caller as metadata.
type Document struct {
	Content       *svgdom.Node
	Viewport      Viewport
	ContentBounds svgdom.Bounds
}

// Layout builds the normalized document around the flattened group,
// which the document takes ownership of. A group without measurable
// geometry lays out with a zero box instead of failing.
func Layout(flattened *svgdom.Node) *Document {
	// the canvas-space box establishes the coordinate window the
	// nested viewport maps from
	window := flattened.TransformedBounds()
	// the own-space box is the one drawn for inspection
	local := flattened.BoundingBox()

	// fixed width, height follows the aspect ratio
	height := 0.0
	if window.W > 0 {
		height = slotWidth * window.H / window.W
	}
	if height > maxSlotHeight {
		height = cappedSlotHeight
	}

	return &Document{
		Content: flattened,
		Viewport: Viewport{
			X:       CanvasWidth/2 - slotWidth/2,
			Y:       CanvasHeight/2 - height/2,
			W:       slotWidth,
			H:       height,
			ViewBox: window,
		},
		ContentBounds: local,
	}
}
