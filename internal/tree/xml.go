package tree

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ParseXML parses the agent's XML page source into the same element shape
// as the JSON hierarchy. Tags are XCUIElementType* nodes (with an optional
// AppiumAUT wrapper) carrying name/label/value and bounds attributes.
func ParseXML(data []byte) (*Element, error) {
	decoder := xml.NewDecoder(strings.NewReader(string(data)))

	var roots []Element
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse hierarchy XML: %w", err)
		}
		start, ok := token.(xml.StartElement)
		if !ok {
			continue
		}
		if start.Name.Local == "AppiumAUT" {
			// Wrapper element: its children are the real roots.
			continue
		}
		el, err := parseXMLElement(decoder, start)
		if err != nil {
			return nil, err
		}
		roots = append(roots, el)
	}

	switch len(roots) {
	case 0:
		return nil, fmt.Errorf("no elements found in page source")
	case 1:
		return &roots[0], nil
	default:
		// Multiple top-level applications: wrap them under a synthetic root
		// so the indexer always has a single tree.
		return &Element{Type: "Root", Enabled: true, Visible: true, Children: roots}, nil
	}
}

func parseXMLElement(decoder *xml.Decoder, start xml.StartElement) (Element, error) {
	el := Element{
		Type:    stripTypePrefix(start.Name.Local),
		Enabled: true,
		Visible: true,
	}

	for _, attr := range start.Attr {
		switch attr.Name.Local {
		case "type":
			el.Type = stripTypePrefix(attr.Value)
		case "name":
			el.Identifier = attr.Value
		case "label":
			el.Label = attr.Value
		case "value":
			el.Value = attr.Value
		case "enabled":
			el.Enabled = attr.Value == "true"
		case "visible":
			el.Visible = attr.Value == "true"
		case "x":
			el.Frame.X = atoiSafe(attr.Value)
		case "y":
			el.Frame.Y = atoiSafe(attr.Value)
		case "width":
			el.Frame.Width = atoiSafe(attr.Value)
		case "height":
			el.Frame.Height = atoiSafe(attr.Value)
		}
	}

	for {
		token, err := decoder.Token()
		if err != nil {
			return el, fmt.Errorf("parse hierarchy XML: %w", err)
		}
		switch t := token.(type) {
		case xml.StartElement:
			child, err := parseXMLElement(decoder, t)
			if err != nil {
				return el, err
			}
			el.Children = append(el.Children, child)
		case xml.EndElement:
			return el, nil
		}
	}
}

func atoiSafe(s string) int {
	v, _ := strconv.Atoi(s)
	return v
}
