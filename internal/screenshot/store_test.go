package screenshot

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestStore_SaveScreenshot(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "artifacts")
	store := NewStore(dir)

	path, err := store.SaveScreenshot([]byte("png-bytes"), FormatPNG)
	if err != nil {
		t.Fatalf("SaveScreenshot: %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Errorf("artifact outside store dir: %s", path)
	}
	base := filepath.Base(path)
	if !strings.HasPrefix(base, "screenshot-") || !strings.HasSuffix(base, ".png") {
		t.Errorf("artifact name = %q", base)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "png-bytes" {
		t.Errorf("artifact content = %q, err = %v", data, err)
	}

	jpg, err := store.SaveScreenshot([]byte("x"), FormatJPEG)
	if err != nil {
		t.Fatalf("SaveScreenshot jpeg: %v", err)
	}
	if !strings.HasSuffix(jpg, ".jpg") {
		t.Errorf("jpeg artifact name = %q", jpg)
	}

	// Two saves in the same second must not collide.
	other, err := store.SaveScreenshot([]byte("y"), FormatPNG)
	if err != nil {
		t.Fatal(err)
	}
	if other == path {
		t.Error("artifact names collided")
	}
}

func TestStore_SaveRecording(t *testing.T) {
	store := NewStore(t.TempDir())
	path, err := store.SaveRecording([]byte("mp4"))
	if err != nil {
		t.Fatalf("SaveRecording: %v", err)
	}
	if !strings.HasSuffix(path, ".mp4") {
		t.Errorf("recording name = %q", path)
	}
}

func TestStore_DefaultDir(t *testing.T) {
	store := NewStore("")
	if store.Dir() == "" {
		t.Error("empty dir should fall back to a temp location")
	}
}
