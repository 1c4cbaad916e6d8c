// Package imaging decodes page scans and prepares them for OCR.
//
// Scans may be JPEG, PNG, TIFF, BMP or WebP. Preparation converts the page to
// grayscale and upscales narrow scans so small print stays legible to the
// recognizer; the applied scale is reported so recognized positions can be
// mapped back to the scan's own coordinates.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // register JPEG decoder
	"image/png"
	"os"

	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"  // register BMP decoder
	_ "golang.org/x/image/tiff" // register TIFF decoder
	_ "golang.org/x/image/webp" // register WebP decoder

	"github.com/samplegit/quiz-app/format"
)

// Options controls page preparation
type Options struct {
	// MinWidth is the width below which a scan is upscaled; 0 disables scaling
	// Default: 1600 pixels
	MinWidth int

	// MaxScale caps the upscale factor
	// Default: 3
	MaxScale float64

	// Grayscale converts the page to 8-bit gray before recognition
	// Default: true
	Grayscale bool
}

// DefaultOptions returns the default preparation options
func DefaultOptions() Options {
	return Options{
		MinWidth:  1600,
		MaxScale:  3,
		Grayscale: true,
	}
}

// Page is a prepared page image ready for recognition
type Page struct {
	// Data is the PNG-encoded prepared image
	Data []byte

	// Width and Height are the prepared image dimensions
	Width  int
	Height int

	// Scale is the factor applied to the original scan (1 when unscaled)
	Scale float64

	// Format is the decoder name of the original scan ("jpeg", "png", ...)
	Format string
}

// Decode decodes a page scan in any registered format
func Decode(data []byte) (image.Image, string, error) {
	img, name, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}
	return img, name, nil
}

// ScaleFor returns the upscale factor Options would apply to an image of the given width
func (o Options) ScaleFor(width int) float64 {
	if o.MinWidth <= 0 || width <= 0 || width >= o.MinWidth {
		return 1
	}
	scale := float64(o.MinWidth) / float64(width)
	if o.MaxScale > 0 && scale > o.MaxScale {
		scale = o.MaxScale
	}
	return scale
}

// Prepare converts and scales an image according to opts and returns the
// result with the scale applied
func Prepare(img image.Image, opts Options) (image.Image, float64) {
	bounds := img.Bounds()
	scale := opts.ScaleFor(bounds.Dx())

	width := int(float64(bounds.Dx())*scale + 0.5)
	height := int(float64(bounds.Dy())*scale + 0.5)
	rect := image.Rect(0, 0, width, height)

	var dst draw.Image
	if opts.Grayscale {
		dst = image.NewGray(rect)
	} else {
		dst = image.NewRGBA(rect)
	}

	if scale == 1 {
		draw.Draw(dst, rect, img, bounds.Min, draw.Src)
	} else {
		draw.CatmullRom.Scale(dst, rect, img, bounds, draw.Src, nil)
	}

	return dst, scale
}

// EncodePNG encodes an image as PNG
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// PreparePage decodes, prepares and re-encodes a page scan
func PreparePage(data []byte, opts Options) (*Page, error) {
	img, name, err := Decode(data)
	if err != nil {
		return nil, err
	}

	prepared, scale := Prepare(img, opts)
	encoded, err := EncodePNG(prepared)
	if err != nil {
		return nil, err
	}

	b := prepared.Bounds()
	return &Page{
		Data:   encoded,
		Width:  b.Dx(),
		Height: b.Dy(),
		Scale:  scale,
		Format: name,
	}, nil
}

// ErrNotPageScan is returned when a file's content is not a supported image.
var ErrNotPageScan = errors.New("not a page scan")

// LoadPage reads and prepares a page scan from disk. The file's content
// decides its format; the extension only names the file in errors.
func LoadPage(path string, opts Options) (*Page, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if f := format.DetectFromMagic(data); !f.IsImage() {
		return nil, fmt.Errorf("%w: %s is named %s but holds %s", ErrNotPageScan, path, format.Detect(path), f)
	}
	page, err := PreparePage(data, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return page, nil
}
