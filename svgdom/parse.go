package svgdom

import (
	"encoding/xml"
	"errors"
	"io"
	"log"
	"strings"

	"golang.org/x/net/html/charset"
)

// ErrorMode controls how the parser reacts to content it does not
// model: ignore it, log a warning, or fail the whole input.
type ErrorMode uint8

const (
	IgnoreErrorMode ErrorMode = iota
	WarnErrorMode
	StrictErrorMode
)

// ReadFragment parses an SVG fragment from text.
func ReadFragment(svgText string, errMode ErrorMode) (*Node, error) {
	return ReadFragmentStream(strings.NewReader(svgText), errMode)
}

// ReadFragmentStream parses an SVG fragment into a node tree.
// The returned node is the document element when the fragment has a
// single top-level svg element, otherwise a synthetic group holding
// the top-level content. Unknown elements are kept as Other nodes
// (later stages drop them); malformed transform attributes degrade
// to the identity transform unless errMode is strict.
func ReadFragmentStream(stream io.Reader, errMode ErrorMode) (*Node, error) {
	root := NewNode(Group, "svg")
	stack := []*Node{root}
	decoder := xml.NewDecoder(stream)
	decoder.CharsetReader = charset.NewReaderLabel
	seenTag := false
	for {
		t, err := decoder.Token()
		if err != nil {
			if err == io.EOF {
				if !seenTag {
					return nil, errors.New("invalid svg fragment")
				}
				break
			}
			return nil, err
		}
		switch se := t.(type) {
		case xml.StartElement:
			seenTag = true
			n := NewNode(KindOfTag(se.Name.Local), se.Name.Local)
			for _, attr := range se.Attr {
				switch {
				case attr.Name.Local == "transform":
					tr, errT := ParseTransform(attr.Value)
					if errT != nil {
						if errMode == StrictErrorMode {
							return nil, errT
						}
						if errMode == WarnErrorMode {
							log.Println("svgdom: unreadable transform " + attr.Value)
						}
					}
					n.Transform = tr
				case attr.Name.Local == "xmlns" || attr.Name.Space == "xmlns":
					// namespace declarations are re-synthesized when writing
				default:
					n.Attrs = append(n.Attrs, Attr{Key: attr.Name.Local, Value: attr.Value})
				}
			}
			if n.Kind == Other && errMode == WarnErrorMode {
				log.Println("svgdom: element " + se.Name.Local + " is not modelled")
			}
			stack[len(stack)-1].Append(n)
			stack = append(stack, n)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			// only style sheets carry text the normalizer preserves
			if top := stack[len(stack)-1]; top.Kind == Style {
				top.Text += string(se)
			}
		}
	}
	if len(root.Children) == 1 && root.Children[0].Tag == "svg" {
		return root.Children[0], nil
	}
	return root, nil
}
