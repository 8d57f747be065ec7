package tree

import (
	"encoding/json"
	"fmt"
	"strings"
)

// jsonNode mirrors the agent's accessible-source JSON. Field spellings
// vary across agent versions: rect vs frame for bounds, name vs
// rawIdentifier for the accessibility identifier, and boolean flags
// encoded as "1"/"0" strings, numbers, or real booleans.
type jsonNode struct {
	Type          string          `json:"type"`
	Name          string          `json:"name"`
	RawIdentifier string          `json:"rawIdentifier"`
	Label         string          `json:"label"`
	Value         json.RawMessage `json:"value"`
	Rect          *Frame          `json:"rect"`
	Frame         *Frame          `json:"frame"`
	IsEnabled     flexBool        `json:"isEnabled"`
	IsVisible     flexBool        `json:"isVisible"`
	Children      []jsonNode      `json:"children"`
}

// flexBool decodes true/false, 1/0, and "1"/"0"/"true"/"false". Absent
// fields decode to true: the agent omits flags it considers default-on.
type flexBool struct {
	set   bool
	value bool
}

func (b *flexBool) UnmarshalJSON(data []byte) error {
	b.set = true
	switch s := strings.Trim(string(data), `"`); s {
	case "true", "1":
		b.value = true
	case "false", "0", "null":
		b.value = false
	default:
		return fmt.Errorf("unexpected boolean value %s", data)
	}
	return nil
}

func (b flexBool) orDefault(def bool) bool {
	if !b.set {
		return def
	}
	return b.value
}

// ParseJSON parses the agent's accessible-source document into an element
// tree.
func ParseJSON(data []byte) (*Element, error) {
	var root jsonNode
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parse hierarchy JSON: %w", err)
	}
	el := convertJSONNode(root)
	return &el, nil
}

func convertJSONNode(n jsonNode) Element {
	el := Element{
		Type:       stripTypePrefix(n.Type),
		Identifier: n.RawIdentifier,
		Label:      n.Label,
		Value:      decodeValue(n.Value),
		Enabled:    n.IsEnabled.orDefault(true),
		Visible:    n.IsVisible.orDefault(true),
	}
	if el.Identifier == "" {
		el.Identifier = n.Name
	}
	if n.Rect != nil {
		el.Frame = *n.Rect
	} else if n.Frame != nil {
		el.Frame = *n.Frame
	}
	for _, child := range n.Children {
		el.Children = append(el.Children, convertJSONNode(child))
	}
	return el
}

// decodeValue renders the value member as text. The agent sends strings
// for text fields but numbers for sliders and steppers.
func decodeValue(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.Trim(string(raw), `"`)
}

// stripTypePrefix shortens "XCUIElementTypeButton" to "Button". Tags that
// do not carry the prefix pass through unchanged.
func stripTypePrefix(t string) string {
	return strings.TrimPrefix(t, "XCUIElementType")
}
