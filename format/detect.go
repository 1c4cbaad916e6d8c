// Package format provides page file format detection.
package format

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"
)

// Format represents a supported page file format.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// JPEG indicates a JPEG page scan.
	JPEG
	// PNG indicates a PNG page scan.
	PNG
	// TIFF indicates a TIFF page scan.
	TIFF
	// BMP indicates a BMP page scan.
	BMP
	// WEBP indicates a WebP page scan.
	WEBP
	// HOCR indicates recognized text in hOCR (HTML) form.
	HOCR
	// PDF indicates a PDF exam booklet.
	PDF
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case JPEG:
		return "JPEG"
	case PNG:
		return "PNG"
	case TIFF:
		return "TIFF"
	case BMP:
		return "BMP"
	case WEBP:
		return "WEBP"
	case HOCR:
		return "HOCR"
	case PDF:
		return "PDF"
	default:
		return "Unknown"
	}
}

// Extension returns the typical file extension for the format.
func (f Format) Extension() string {
	switch f {
	case JPEG:
		return ".jpg"
	case PNG:
		return ".png"
	case TIFF:
		return ".tif"
	case BMP:
		return ".bmp"
	case WEBP:
		return ".webp"
	case HOCR:
		return ".hocr"
	case PDF:
		return ".pdf"
	default:
		return ""
	}
}

// IsImage reports whether the format is a raster page scan.
func (f Format) IsImage() bool {
	switch f {
	case JPEG, PNG, TIFF, BMP, WEBP:
		return true
	default:
		return false
	}
}

// ImageExtensions returns the extensions probed for page scans, in lookup order.
func ImageExtensions() []string {
	return []string{".jpg", ".jpeg", ".png", ".tif", ".tiff", ".bmp", ".webp"}
}

// Detect determines file format from filename extension.
func Detect(filename string) Format {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".jpg", ".jpeg":
		return JPEG
	case ".png":
		return PNG
	case ".tif", ".tiff":
		return TIFF
	case ".bmp":
		return BMP
	case ".webp":
		return WEBP
	case ".hocr", ".html", ".htm":
		return HOCR
	case ".pdf":
		return PDF
	default:
		return Unknown
	}
}

// DetectFromMagic checks file magic bytes to determine format.
// This provides more reliable detection than extension-based detection.
// Returns Unknown if the format cannot be determined from magic bytes alone.
func DetectFromMagic(data []byte) Format {
	switch {
	case len(data) >= 3 && data[0] == 0xFF && data[1] == 0xD8 && data[2] == 0xFF:
		return JPEG
	case bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")):
		return PNG
	case bytes.HasPrefix(data, []byte("II*\x00")), bytes.HasPrefix(data, []byte("MM\x00*")):
		return TIFF
	case bytes.HasPrefix(data, []byte("BM")) && len(data) >= 14:
		return BMP
	case len(data) >= 12 && bytes.Equal(data[0:4], []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WEBP")):
		return WEBP
	case bytes.HasPrefix(data, []byte("%PDF")):
		return PDF
	case detectHOCRMagic(data):
		return HOCR
	}
	return Unknown
}

// detectHOCRMagic checks if the data looks like an HTML document carrying
// OCR markup.
func detectHOCRMagic(data []byte) bool {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 {
		return false
	}

	upper := strings.ToUpper(string(trimmed[:min(len(trimmed), 2048)]))
	if !strings.HasPrefix(upper, "<!DOCTYPE HTML") &&
		!strings.HasPrefix(upper, "<HTML") &&
		!strings.HasPrefix(upper, "<?XML") {
		return false
	}
	return strings.Contains(upper, "OCR_PAGE") || strings.Contains(upper, "OCR-SYSTEM") || strings.Contains(upper, "OCR_LINE")
}

// DetectFromReader inspects the leading bytes of the content to determine format.
func DetectFromReader(r io.ReaderAt) (Format, error) {
	magic := make([]byte, 2048)
	n, err := r.ReadAt(magic, 0)
	if err != nil && err != io.EOF {
		return Unknown, err
	}
	return DetectFromMagic(magic[:n]), nil
}
