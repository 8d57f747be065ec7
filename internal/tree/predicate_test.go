package tree

import (
	"errors"
	"testing"
)

func cellSnapshot() []IndexedElement {
	return Index(&Element{
		Type: "Application", Enabled: true, Visible: true,
		Children: []Element{
			{Type: "Button", Identifier: "loginButton", Label: "Sign In", Enabled: true, Visible: true},
			{Type: "Cell", Label: "Wi-Fi", Enabled: true, Visible: true},
			{Type: "Cell", Label: "Bluetooth", Enabled: true, Visible: true},
			{Type: "Cell", Label: "Bluetooth Sharing", Enabled: true, Visible: false},
		},
	})
}

func TestFind_Unique(t *testing.T) {
	found, err := Find(cellSnapshot(), Predicate{Identifier: "loginButton"})
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if found.Element.Label != "Sign In" {
		t.Errorf("label = %q", found.Element.Label)
	}
}

func TestFind_NoMatch(t *testing.T) {
	_, err := Find(cellSnapshot(), Predicate{Label: "Cellular"})
	if !errors.Is(err, ErrNoMatch) {
		t.Errorf("err = %v, want ErrNoMatch", err)
	}
}

func TestFind_AmbiguousFailsFast(t *testing.T) {
	_, err := Find(cellSnapshot(), Predicate{LabelContains: "bluetooth"})
	var ambiguous *AmbiguousError
	if !errors.As(err, &ambiguous) {
		t.Fatalf("err = %v, want AmbiguousError", err)
	}
	if len(ambiguous.Indices) != 2 {
		t.Fatalf("candidate indices = %v", ambiguous.Indices)
	}
	if ambiguous.Indices[0] != 3 || ambiguous.Indices[1] != 4 {
		t.Errorf("candidate indices = %v, want [3 4]", ambiguous.Indices)
	}
}

func TestFind_NthMatch(t *testing.T) {
	nth := 1
	found, err := Find(cellSnapshot(), Predicate{LabelContains: "bluetooth", Index: &nth})
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if found.Element.Label != "Bluetooth Sharing" {
		t.Errorf("label = %q", found.Element.Label)
	}
}

func TestFind_NthPastEnd(t *testing.T) {
	nth := 2
	_, err := Find(cellSnapshot(), Predicate{LabelContains: "bluetooth", Index: &nth})
	if !errors.Is(err, ErrNoMatch) {
		t.Errorf("err = %v, want ErrNoMatch", err)
	}
}

func TestFind_FieldsAreANDed(t *testing.T) {
	visible := true
	found, err := Find(cellSnapshot(), Predicate{LabelContains: "bluetooth", Visible: &visible})
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if found.Element.Label != "Bluetooth" {
		t.Errorf("label = %q", found.Element.Label)
	}
}

func TestMatches_CaseInsensitiveType(t *testing.T) {
	el := &Element{Type: "Button", Label: "OK"}
	if !(Predicate{Type: "button"}).Matches(el) {
		t.Error("type matching should ignore case")
	}
}

func TestPredicate_IsZero(t *testing.T) {
	if !(Predicate{}).IsZero() {
		t.Error("empty predicate should be zero")
	}
	if (Predicate{Type: "Button"}).IsZero() {
		t.Error("predicate with a type is not zero")
	}
	visible := false
	if (Predicate{Visible: &visible}).IsZero() {
		t.Error("predicate with a visibility constraint is not zero")
	}
}
