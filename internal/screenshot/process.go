// Package screenshot post-processes raw device screenshots: orientation
// correction, scaling, and re-encoding, plus artifact storage.
package screenshot

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	xdraw "golang.org/x/image/draw"

	"github.com/bidouilles/ios-simulator-mcp/internal/wda"
)

// Format is the output image encoding.
type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
)

// Options control post-processing. Out-of-range values are clamped, never
// rejected: a screenshot request must not fail on an encode-quality edge
// case.
type Options struct {
	Scale   float64
	Format  Format
	Quality int
}

// Result is a processed screenshot with size accounting.
type Result struct {
	Data          []byte
	Width         int
	Height        int
	Format        Format
	OriginalBytes int
	Bytes         int
	Reduction     float64
}

// clamp normalizes options to their documented ranges.
func (o Options) clamp() Options {
	if o.Scale < 0.1 || o.Scale > 1.0 {
		o.Scale = 0.5
	}
	switch o.Format {
	case FormatPNG, FormatJPEG:
	case "jpg":
		o.Format = FormatJPEG
	default:
		o.Format = FormatPNG
	}
	if o.Quality < 1 || o.Quality > 100 {
		o.Quality = 80
	}
	return o
}

// Process decodes raw screenshot bytes, corrects orientation, scales, and
// re-encodes. When the device reports landscape the decoded image is
// rotated 90 degrees back to upright before scaling: the agent captures
// the raw framebuffer in portrait framing regardless of rotation.
func Process(raw []byte, opts Options, orientation wda.Orientation) (*Result, error) {
	opts = opts.clamp()

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode screenshot: %w", err)
	}

	switch orientation {
	case wda.OrientationLandscape:
		// Device rotated left (home side right): rotate clockwise to
		// restore upright framing.
		img = rotate90(img, true)
	case wda.OrientationLandscapeRight:
		img = rotate90(img, false)
	}

	bounds := img.Bounds()
	width := int(float64(bounds.Dx()) * opts.Scale)
	height := int(float64(bounds.Dy()) * opts.Scale)
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}

	if width != bounds.Dx() || height != bounds.Dy() {
		scaled := image.NewRGBA(image.Rect(0, 0, width, height))
		xdraw.CatmullRom.Scale(scaled, scaled.Bounds(), img, bounds, xdraw.Over, nil)
		img = scaled
	}

	var buf bytes.Buffer
	switch opts.Format {
	case FormatJPEG:
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: opts.Quality})
	default:
		err = png.Encode(&buf, img)
	}
	if err != nil {
		return nil, fmt.Errorf("encode screenshot: %w", err)
	}

	out := buf.Bytes()
	reduction := 0.0
	if len(raw) > 0 {
		reduction = 100.0 * (1.0 - float64(len(out))/float64(len(raw)))
	}
	return &Result{
		Data:          out,
		Width:         width,
		Height:        height,
		Format:        opts.Format,
		OriginalBytes: len(raw),
		Bytes:         len(out),
		Reduction:     reduction,
	}, nil
}

// rotate90 rotates the image a quarter turn, clockwise or counter-
// clockwise, swapping width and height.
func rotate90(src image.Image, clockwise bool) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewRGBA(image.Rect(0, 0, h, w))

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := src.At(b.Min.X+x, b.Min.Y+y)
			if clockwise {
				dst.Set(h-1-y, x, c)
			} else {
				dst.Set(y, w-1-x, c)
			}
		}
	}
	return dst
}
