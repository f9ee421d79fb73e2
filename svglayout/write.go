package svglayout

import (
	"fmt"
	"io"
	"strconv"

	svg "github.com/ajstarks/svgo/float"
)

// colors of the inspection scaffolding
const (
	backgroundFill = "#f7f7f7"
	gridStroke     = "#cccccc"
	outlineStroke  = "#222222"
	viewportFill   = "#ffffff"
)

// WriteSVG serializes the assembled document.
func (d *Document) WriteSVG(w io.Writer) {
	canvas := svg.New(w)
	canvas.Start(CanvasWidth, CanvasHeight,
		fmt.Sprintf(`viewBox="0 0 %d %d"`, int(CanvasWidth), int(CanvasHeight)))

	canvas.Rect(0, 0, CanvasWidth, CanvasHeight, `fill="`+backgroundFill+`"`)
	canvas.Line(0, CanvasHeight/2, CanvasWidth, CanvasHeight/2, `stroke="`+gridStroke+`"`)
	canvas.Line(CanvasWidth/2, 0, CanvasWidth/2, CanvasHeight, `stroke="`+gridStroke+`"`)

	// svgo has no helper for a nested viewport, written by hand
	vp := d.Viewport
	fmt.Fprintf(canvas.Writer,
		`<svg x="%s" y="%s" width="%s" height="%s" viewBox="%s %s %s %s" preserveAspectRatio="xMidYMid meet" fill="%s">`+"\n",
		num(vp.X), num(vp.Y), num(vp.W), num(vp.H),
		num(vp.ViewBox.X), num(vp.ViewBox.Y), num(vp.ViewBox.W), num(vp.ViewBox.H),
		viewportFill)
	d.Content.WriteTo(canvas)
	fmt.Fprintln(canvas.Writer, "</svg>")

	canvas.Rect(d.ContentBounds.X, d.ContentBounds.Y, d.ContentBounds.W, d.ContentBounds.H,
		`fill="none"`, `stroke="`+outlineStroke+`"`, `stroke-width="2"`)

	canvas.End()
}

func num(f float64) string { return strconv.FormatFloat(f, 'g', -1, 64) }
