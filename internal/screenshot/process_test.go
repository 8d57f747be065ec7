package screenshot

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/bidouilles/ios-simulator-mcp/internal/wda"
)

// encodePNG renders a w x h image with a marked top-left pixel.
func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 40, G: 40, B: 40, A: 255})
		}
	}
	img.Set(0, 0, color.RGBA{R: 255, A: 255})

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	return buf.Bytes()
}

func TestProcess_LandscapeRotateAndScale(t *testing.T) {
	raw := encodePNG(t, 2532, 1170)

	result, err := Process(raw, Options{Scale: 0.5, Format: FormatJPEG, Quality: 80}, wda.OrientationLandscape)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if result.Width != 585 || result.Height != 1266 {
		t.Errorf("dimensions = %dx%d, want 585x1266", result.Width, result.Height)
	}
	if result.Format != FormatJPEG {
		t.Errorf("format = %s", result.Format)
	}

	img, _, err := image.Decode(bytes.NewReader(result.Data))
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if img.Bounds().Dx() != 585 || img.Bounds().Dy() != 1266 {
		t.Errorf("encoded dimensions = %v", img.Bounds())
	}
}

func TestProcess_PortraitKeepsFraming(t *testing.T) {
	raw := encodePNG(t, 100, 200)

	result, err := Process(raw, Options{Scale: 1.0, Format: FormatPNG}, wda.OrientationPortrait)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if result.Width != 100 || result.Height != 200 {
		t.Errorf("dimensions = %dx%d", result.Width, result.Height)
	}
}

func TestProcess_ClampsOptions(t *testing.T) {
	raw := encodePNG(t, 100, 100)

	// Out-of-range scale falls back to the default rather than failing.
	result, err := Process(raw, Options{Scale: 3.0, Format: "bmp", Quality: 500}, wda.OrientationPortrait)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if result.Width != 50 || result.Height != 50 {
		t.Errorf("dimensions = %dx%d, want default 0.5 scale", result.Width, result.Height)
	}
	if result.Format != FormatPNG {
		t.Errorf("format = %s, want png default", result.Format)
	}
}

func TestProcess_JpgAlias(t *testing.T) {
	raw := encodePNG(t, 40, 40)
	result, err := Process(raw, Options{Scale: 1.0, Format: "jpg", Quality: 70}, wda.OrientationPortrait)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if result.Format != FormatJPEG {
		t.Errorf("format = %s", result.Format)
	}
}

func TestProcess_Rotate90Clockwise(t *testing.T) {
	// Marked pixel at the top-left of a landscape capture must land at the
	// top-right after clockwise rotation.
	raw := encodePNG(t, 4, 2)
	result, err := Process(raw, Options{Scale: 1.0, Format: FormatPNG}, wda.OrientationLandscape)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if result.Width != 2 || result.Height != 4 {
		t.Fatalf("dimensions = %dx%d, want 2x4", result.Width, result.Height)
	}

	img, _, err := image.Decode(bytes.NewReader(result.Data))
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	r, _, _, _ := img.At(1, 0).RGBA()
	if r>>8 != 255 {
		t.Errorf("marked pixel not at top-right after rotation (r=%d)", r>>8)
	}
}

func TestProcess_InvalidInput(t *testing.T) {
	if _, err := Process([]byte("not an image"), Options{Scale: 0.5}, wda.OrientationPortrait); err == nil {
		t.Error("expected decode error")
	}
}
