// The per-input boundary of the normalization pipeline: raw SVG text
// in, normalized SVG text plus its bounding box out.
// Each conversion either returns a complete result or an error for
// that input; no partial output is ever produced.
package svgconvert

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/benoitkugler/svgflat/svgdom"
	"github.com/benoitkugler/svgflat/svgflatten"
	"github.com/benoitkugler/svgflat/svglayout"
)

// Result is the output of one conversion.
type Result struct {
	SVG    []byte        // the normalized document
	Bounds svgdom.Bounds // the flattened content box, in its own space
}

// Convert normalizes one SVG fragment.
func Convert(src io.Reader) (Result, error) {
	root, err := svgdom.ReadFragmentStream(src, svgdom.IgnoreErrorMode)
	if err != nil {
		return Result{}, fmt.Errorf("parsing svg fragment: %w", err)
	}
	doc := svglayout.Layout(svgflatten.Flatten(root))
	var buf bytes.Buffer
	doc.WriteSVG(&buf)
	return Result{SVG: buf.Bytes(), Bounds: doc.ContentBounds}, nil
}

// ConvertString normalizes an in-memory fragment.
func ConvertString(svgText string) (Result, error) {
	return Convert(bytes.NewReader([]byte(svgText)))
}

// ConvertFile normalizes the named file. Errors carry the filename,
// so batch callers can report per-file failures and carry on.
func ConvertFile(path string) (Result, error) {
	fin, err := os.Open(path)
	if err != nil {
		return Result{}, err
	}
	defer fin.Close()
	res, err := Convert(fin)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", path, err)
	}
	return res, nil
}
