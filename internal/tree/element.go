// Package tree converts the agent's nested accessibility hierarchy into a
// flat, stably-indexed element list with predicate-based lookup.
package tree

// Frame is an element's bounding rectangle in screen points.
type Frame struct {
	X      int `yaml:"x"      json:"x"`
	Y      int `yaml:"y"      json:"y"`
	Width  int `yaml:"width"  json:"width"`
	Height int `yaml:"height" json:"height"`
}

// Element is one node of the accessibility hierarchy. Trees are produced
// fresh on every fetch and never mutated in place.
type Element struct {
	Type       string    `yaml:"type"                 json:"type"`
	Identifier string    `yaml:"identifier,omitempty" json:"identifier,omitempty"`
	Label      string    `yaml:"label,omitempty"      json:"label,omitempty"`
	Value      string    `yaml:"value,omitempty"      json:"value,omitempty"`
	Enabled    bool      `yaml:"enabled"              json:"enabled"`
	Visible    bool      `yaml:"visible"              json:"visible"`
	Frame      Frame     `yaml:"frame"                json:"frame"`
	Children   []Element `yaml:"children,omitempty"   json:"children,omitempty"`
}

// BestLabel returns the most specific identifying text for the element, in
// priority order identifier > label > value.
func (e *Element) BestLabel() string {
	switch {
	case e.Identifier != "":
		return e.Identifier
	case e.Label != "":
		return e.Label
	default:
		return e.Value
	}
}

// CenterX returns the horizontal center of the element's frame.
func (e *Element) CenterX() int {
	return e.Frame.X + e.Frame.Width/2
}

// CenterY returns the vertical center of the element's frame.
func (e *Element) CenterY() int {
	return e.Frame.Y + e.Frame.Height/2
}
