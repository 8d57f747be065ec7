package tree

import (
	"fmt"
	"strings"
)

// IndexedElement is an element tagged with its traversal index and depth.
// Indices are only meaningful against the snapshot that produced them: any
// UI mutation invalidates all previously issued indices.
type IndexedElement struct {
	Index   int     `yaml:"index"   json:"index"`
	Depth   int     `yaml:"depth"   json:"depth"`
	Element Element `yaml:"element" json:"element"`
}

// Index flattens the tree by deterministic pre-order depth-first
// traversal: parent before children, children in document order, indices
// assigned from 0. Running it twice on the same tree yields identical
// assignments.
func Index(root *Element) []IndexedElement {
	if root == nil {
		return nil
	}
	var out []IndexedElement
	indexRecursive(*root, 0, &out)
	return out
}

func indexRecursive(el Element, depth int, out *[]IndexedElement) {
	flat := el
	flat.Children = nil
	*out = append(*out, IndexedElement{
		Index:   len(*out),
		Depth:   depth,
		Element: flat,
	})
	for _, child := range el.Children {
		indexRecursive(child, depth+1, out)
	}
}

// Render produces the human/agent-readable tree view: one line per
// element, indentation proportional to depth, showing index, type, and
// the best identifying label.
func Render(elements []IndexedElement) string {
	var b strings.Builder
	for _, ie := range elements {
		b.WriteString(strings.Repeat("  ", ie.Depth))
		fmt.Fprintf(&b, "[%d] %s", ie.Index, ie.Element.Type)
		if label := ie.Element.BestLabel(); label != "" {
			fmt.Fprintf(&b, " %q", label)
		}
		if !ie.Element.Enabled {
			b.WriteString(" (disabled)")
		}
		if !ie.Element.Visible {
			b.WriteString(" (hidden)")
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// At returns the element with the given traversal index.
func At(elements []IndexedElement, index int) (*IndexedElement, error) {
	if index < 0 || index >= len(elements) {
		return nil, fmt.Errorf("element index %d out of range (snapshot has %d elements)", index, len(elements))
	}
	return &elements[index], nil
}
