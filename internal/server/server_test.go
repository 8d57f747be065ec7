package server

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/bidouilles/ios-simulator-mcp/internal/tree"
)

func TestParamHelpers(t *testing.T) {
	params := map[string]interface{}{
		"name":  "home",
		"x":     float64(120),
		"scale": 0.75,
		"flag":  true,
	}

	if got := stringParam(params, "name", ""); got != "home" {
		t.Errorf("stringParam = %q", got)
	}
	if got := stringParam(params, "missing", "fallback"); got != "fallback" {
		t.Errorf("stringParam default = %q", got)
	}
	if got := intParam(params, "x", 0); got != 120 {
		t.Errorf("intParam = %d", got)
	}
	if got := floatParam(params, "scale", 0); got != 0.75 {
		t.Errorf("floatParam = %v", got)
	}
	if got := floatParam(params, "x", 0); got != 120 {
		t.Errorf("floatParam from int-ish = %v", got)
	}
	if !boolParam(params, "flag", false) {
		t.Error("boolParam = false")
	}
	if boolParam(params, "missing", false) {
		t.Error("boolParam default not honored")
	}
}

func TestSnapshotCache(t *testing.T) {
	c := newSnapshotCache()
	if c.get("UDID") != nil {
		t.Error("empty cache returned a snapshot")
	}

	elements := []tree.IndexedElement{{Index: 0, Element: tree.Element{Type: "Application"}}}
	c.put("UDID", elements)
	got := c.get("UDID")
	if len(got) != 1 || got[0].Element.Type != "Application" {
		t.Errorf("cached snapshot = %v", got)
	}
	if c.get("OTHER") != nil {
		t.Error("snapshot leaked across devices")
	}

	c.invalidate("UDID")
	if c.get("UDID") != nil {
		t.Error("invalidated snapshot still resolvable")
	}
}

func TestPredicateFromParams(t *testing.T) {
	p := predicateFromParams(map[string]interface{}{
		"type":           "Button",
		"label_contains": "sign",
		"visible":        true,
		"index":          float64(2),
	})
	if p.Type != "Button" || p.LabelContains != "sign" {
		t.Errorf("predicate = %+v", p)
	}
	if p.Visible == nil || !*p.Visible {
		t.Error("visible constraint not mapped")
	}
	if p.Index == nil || *p.Index != 2 {
		t.Error("index not mapped")
	}

	if !predicateFromParams(map[string]interface{}{}).IsZero() {
		t.Error("empty params should map to a zero predicate")
	}
}

func TestStaticResources(t *testing.T) {
	docs := map[string]string{
		"ios-sim://api-reference":    apiReference,
		"ios-sim://automation-guide": automationGuide,
	}
	for uri, text := range docs {
		handler := staticResource(uri, text)
		contents, err := handler(context.Background(), mcp.ReadResourceRequest{})
		if err != nil {
			t.Fatalf("%s: %v", uri, err)
		}
		if len(contents) != 1 {
			t.Fatalf("%s: contents = %d, want 1", uri, len(contents))
		}
		tc, ok := contents[0].(mcp.TextResourceContents)
		if !ok {
			t.Fatalf("%s: contents type %T", uri, contents[0])
		}
		if tc.URI != uri || tc.MIMEType != "text/markdown" || tc.Text == "" {
			t.Errorf("%s: URI=%q MIMEType=%q empty=%v", uri, tc.URI, tc.MIMEType, tc.Text == "")
		}
	}

	// The reference must describe the registered tool surface, including
	// the Dart tooling discovery.
	for _, name := range []string{"list_devices", "start_bridge", "get_screenshot", "tap", "discover_dtd_uris"} {
		if !strings.Contains(apiReference, name) {
			t.Errorf("api reference missing %s", name)
		}
	}
}
