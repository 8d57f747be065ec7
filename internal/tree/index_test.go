package tree

import (
	"reflect"
	"strings"
	"testing"
)

func sampleTree() *Element {
	return &Element{
		Type: "Application", Label: "Settings", Enabled: true, Visible: true,
		Frame: Frame{Width: 390, Height: 844},
		Children: []Element{
			{
				Type: "NavigationBar", Identifier: "Settings", Enabled: true, Visible: true,
				Children: []Element{
					{Type: "Button", Label: "Back", Enabled: true, Visible: true,
						Frame: Frame{X: 10, Y: 50, Width: 44, Height: 44}},
				},
			},
			{
				Type: "Table", Enabled: true, Visible: true,
				Children: []Element{
					{Type: "Cell", Label: "General", Enabled: true, Visible: true},
					{Type: "Cell", Label: "Privacy", Enabled: false, Visible: true},
				},
			},
		},
	}
}

func TestIndex_PreOrder(t *testing.T) {
	elements := Index(sampleTree())
	if len(elements) != 6 {
		t.Fatalf("expected 6 elements, got %d", len(elements))
	}

	wantTypes := []string{"Application", "NavigationBar", "Button", "Table", "Cell", "Cell"}
	for i, want := range wantTypes {
		if elements[i].Index != i {
			t.Errorf("element %d: index = %d", i, elements[i].Index)
		}
		if elements[i].Element.Type != want {
			t.Errorf("element %d: type = %q, want %q", i, elements[i].Element.Type, want)
		}
	}

	wantDepths := []int{0, 1, 2, 1, 2, 2}
	for i, want := range wantDepths {
		if elements[i].Depth != want {
			t.Errorf("element %d: depth = %d, want %d", i, elements[i].Depth, want)
		}
	}
}

func TestIndex_Deterministic(t *testing.T) {
	root := sampleTree()
	first := Index(root)
	second := Index(root)
	if !reflect.DeepEqual(first, second) {
		t.Error("two traversals of the same tree produced different assignments")
	}
}

func TestIndex_StripsChildren(t *testing.T) {
	elements := Index(sampleTree())
	for _, ie := range elements {
		if ie.Element.Children != nil {
			t.Fatalf("element [%d] kept its children in flat form", ie.Index)
		}
	}
}

func TestIndex_Nil(t *testing.T) {
	if got := Index(nil); got != nil {
		t.Errorf("Index(nil) = %v, want nil", got)
	}
}

func TestRender_Outline(t *testing.T) {
	out := Render(Index(sampleTree()))
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 6 {
		t.Fatalf("expected 6 lines, got %d:\n%s", len(lines), out)
	}
	if lines[0] != `[0] Application "Settings"` {
		t.Errorf("line 0 = %q", lines[0])
	}
	if lines[2] != `    [2] Button "Back"` {
		t.Errorf("line 2 = %q", lines[2])
	}
	if !strings.HasSuffix(lines[5], `"Privacy" (disabled)`) {
		t.Errorf("disabled marker missing: %q", lines[5])
	}
}

func TestAt_OutOfRange(t *testing.T) {
	elements := Index(sampleTree())
	if _, err := At(elements, 6); err == nil {
		t.Error("expected error for index past the end")
	}
	if _, err := At(elements, -1); err == nil {
		t.Error("expected error for negative index")
	}
	ie, err := At(elements, 2)
	if err != nil {
		t.Fatalf("At(2): %v", err)
	}
	if ie.Element.Type != "Button" {
		t.Errorf("At(2) type = %q", ie.Element.Type)
	}
}
