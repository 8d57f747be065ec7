package tree

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoMatch reports that a predicate matched no element (or its index
// selected past the end of the match list).
var ErrNoMatch = errors.New("no element matches predicate")

// AmbiguousError reports that a predicate without an index matched more
// than one element. Matching fails fast instead of silently picking the
// first candidate, so a vague predicate cannot cause a mis-tap.
type AmbiguousError struct {
	Indices []int
}

func (e *AmbiguousError) Error() string {
	parts := make([]string, len(e.Indices))
	for i, idx := range e.Indices {
		parts[i] = fmt.Sprintf("%d", idx)
	}
	return fmt.Sprintf("predicate matches %d elements (indices %s); add an index or a more specific field",
		len(e.Indices), strings.Join(parts, ", "))
}

// Predicate is a declarative field-matching query over an indexed element
// list. Every set field must match (AND); zero-valued fields are no
// constraint. Index, when set, selects the Nth (0-based) element among the
// filtered matches instead of requiring uniqueness.
type Predicate struct {
	Type string `json:"type,omitempty"`

	Identifier       string `json:"identifier,omitempty"`
	IdentifierPrefix string `json:"identifierPrefix,omitempty"`

	Label         string `json:"label,omitempty"`
	LabelContains string `json:"labelContains,omitempty"`
	LabelPrefix   string `json:"labelPrefix,omitempty"`

	Value         string `json:"value,omitempty"`
	ValueContains string `json:"valueContains,omitempty"`

	Visible *bool `json:"visible,omitempty"`
	Enabled *bool `json:"enabled,omitempty"`

	Index *int `json:"index,omitempty"`
}

// IsZero reports whether the predicate constrains nothing at all.
func (p Predicate) IsZero() bool {
	return p.Type == "" && p.Identifier == "" && p.IdentifierPrefix == "" &&
		p.Label == "" && p.LabelContains == "" && p.LabelPrefix == "" &&
		p.Value == "" && p.ValueContains == "" &&
		p.Visible == nil && p.Enabled == nil && p.Index == nil
}

// Matches applies the non-index fields of the predicate to one element.
func (p Predicate) Matches(el *Element) bool {
	if p.Type != "" && !strings.EqualFold(p.Type, el.Type) {
		return false
	}
	if p.Identifier != "" && p.Identifier != el.Identifier {
		return false
	}
	if p.IdentifierPrefix != "" && !strings.HasPrefix(el.Identifier, p.IdentifierPrefix) {
		return false
	}
	if p.Label != "" && p.Label != el.Label {
		return false
	}
	if p.LabelContains != "" && !containsFold(el.Label, p.LabelContains) {
		return false
	}
	if p.LabelPrefix != "" && !strings.HasPrefix(el.Label, p.LabelPrefix) {
		return false
	}
	if p.Value != "" && p.Value != el.Value {
		return false
	}
	if p.ValueContains != "" && !containsFold(el.Value, p.ValueContains) {
		return false
	}
	if p.Visible != nil && el.Visible != *p.Visible {
		return false
	}
	if p.Enabled != nil && el.Enabled != *p.Enabled {
		return false
	}
	return true
}

// Find resolves a predicate against an indexed snapshot. Without an index
// field the predicate must match exactly one element: zero matches is
// ErrNoMatch and several matches is an AmbiguousError. With an index
// field, the Nth match in traversal order is returned; an index at or past
// the match count is ErrNoMatch.
func Find(elements []IndexedElement, p Predicate) (*IndexedElement, error) {
	matches := FindAll(elements, p)
	if len(matches) == 0 {
		return nil, ErrNoMatch
	}

	if p.Index != nil {
		n := *p.Index
		if n < 0 || n >= len(matches) {
			return nil, fmt.Errorf("%w: nth-match index %d with only %d matches", ErrNoMatch, n, len(matches))
		}
		return matches[n], nil
	}

	if len(matches) > 1 {
		indices := make([]int, len(matches))
		for i, m := range matches {
			indices[i] = m.Index
		}
		return nil, &AmbiguousError{Indices: indices}
	}
	return matches[0], nil
}

// FindAll returns every element matching the predicate's field
// constraints, in traversal order. The index field is ignored here.
func FindAll(elements []IndexedElement, p Predicate) []*IndexedElement {
	var matches []*IndexedElement
	for i := range elements {
		if p.Matches(&elements[i].Element) {
			matches = append(matches, &elements[i])
		}
	}
	return matches
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
