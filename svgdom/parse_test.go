package svgdom

import (
	"strings"
	"testing"
)

const sampleDoc = `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" width="30" height="30">
	<defs>
		<style type="text/css">.a{fill:red}</style>
	</defs>
	<g transform="translate(3 4)" fill="blue">
		<rect class="a" x="1" y="1" width="10" height="10"/>
		<unknownElement foo="bar"/>
	</g>
	<use xlink:href="#x"/>
	<switch><circle r="1"/></switch>
</svg>`

func TestReadFragment(t *testing.T) {
	root, err := ReadFragment(sampleDoc, IgnoreErrorMode)
	if err != nil {
		t.Fatal(err)
	}
	// a single top-level svg element becomes the root
	if root.Tag != "svg" || root.Kind != Group {
		t.Fatalf("unexpected root %s (%s)", root.Tag, root.Kind)
	}
	if root.Attr("width") != "30" {
		t.Errorf("expected attribute width=30, got %q", root.Attr("width"))
	}
	if root.Attr("xmlns") != "" {
		t.Error("namespace declarations should not be kept as attributes")
	}
	if len(root.Children) != 4 {
		t.Fatalf("expected 4 children, got %d", len(root.Children))
	}

	defs, g, use, sw := root.Children[0], root.Children[1], root.Children[2], root.Children[3]
	if defs.Kind != Defs || use.Kind != Use || sw.Kind != Switch {
		t.Errorf("unexpected kinds %s %s %s", defs.Kind, use.Kind, sw.Kind)
	}
	style := defs.Children[0]
	if style.Kind != Style || strings.TrimSpace(style.Text) != ".a{fill:red}" {
		t.Errorf("unexpected style node %s %q", style.Kind, style.Text)
	}

	if g.Kind != Group {
		t.Fatalf("expected a group, got %s", g.Kind)
	}
	// the transform attribute is parsed, not kept as text
	if g.Attr("transform") != "" {
		t.Error("the transform attribute should be decomposed")
	}
	if g.Transform.Matrix.E != 3 || g.Transform.Matrix.F != 4 {
		t.Errorf("unexpected transform %v", g.Transform.Matrix)
	}
	if g.Attr("fill") != "blue" {
		t.Errorf("expected attribute fill=blue, got %q", g.Attr("fill"))
	}

	rect, unknown := g.Children[0], g.Children[1]
	if rect.Kind != Shape || rect.Tag != "rect" || rect.Attr("class") != "a" {
		t.Errorf("unexpected shape node %s %s", rect.Kind, rect.Tag)
	}
	// unknown elements are kept, later stages drop them
	if unknown.Kind != Other || unknown.Attr("foo") != "bar" {
		t.Errorf("unexpected node %s", unknown.Kind)
	}
}

func TestReadFragmentBare(t *testing.T) {
	// a fragment without an svg wrapper parses under a synthetic root
	root, err := ReadFragment(`<rect width="1" height="1"/><circle r="2"/>`, IgnoreErrorMode)
	if err != nil {
		t.Fatal(err)
	}
	if len(root.Children) != 2 {
		t.Fatalf("expected 2 children, got %d", len(root.Children))
	}
	if root.CountShapes() != 2 {
		t.Errorf("expected 2 shapes, got %d", root.CountShapes())
	}
}

func TestReadFragmentInvalid(t *testing.T) {
	for _, input := range []string{
		"",
		"no markup at all",
		`<svg><rect></svg>`, // mismatched tags
	} {
		if _, err := ReadFragment(input, IgnoreErrorMode); err == nil {
			t.Errorf("input %q: expected an error", input)
		}
	}
}

func TestReadFragmentTransformModes(t *testing.T) {
	const doc = `<svg><g transform="frobnicate(1)"><rect width="1" height="1"/></g></svg>`

	// lenient modes degrade the transform to identity
	root, err := ReadFragment(doc, IgnoreErrorMode)
	if err != nil {
		t.Fatal(err)
	}
	if g := root.Children[0]; !g.Transform.IsIdentity() {
		t.Errorf("expected the identity transform, got %v", g.Transform.Matrix)
	}

	// strict mode fails the whole input
	if _, err := ReadFragment(doc, StrictErrorMode); err == nil {
		t.Error("expected an error in strict mode")
	}
}
