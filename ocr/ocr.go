//go:build ocr

// Package ocr recognizes text lines on page scans.
//
// This package wraps the Tesseract OCR engine via gosseract. It requires
// Tesseract and its Korean language data to be installed. On macOS:
//
//	brew install tesseract tesseract-lang
//
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr tesseract-ocr-kor
package ocr

import (
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/samplegit/quiz-app/text"
)

// Client wraps Tesseract for OCR operations.
// A Client is not safe for concurrent use; create one per worker.
type Client struct {
	client *gosseract.Client
}

// New creates a new OCR client with DefaultOptions.
// The client should be closed when no longer needed to release resources.
func New() (*Client, error) {
	return NewWithOptions(DefaultOptions())
}

// NewWithOptions creates a new OCR client with the given options
func NewWithOptions(opts Options) (*Client, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	c := &Client{client: gosseract.NewClient()}
	if opts.Language != "" {
		if err := c.SetLanguage(opts.Language); err != nil {
			c.Close()
			return nil, fmt.Errorf("failed to set language %q: %w", opts.Language, err)
		}
	}
	if err := c.SetPageSegMode(opts.PageSegMode); err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to set page segmentation mode: %w", err)
	}
	return c, nil
}

// Close releases OCR resources.
func (c *Client) Close() error {
	if c != nil && c.client != nil {
		return c.client.Close()
	}
	return nil
}

// Recognize performs OCR on image data (PNG, TIFF, JPEG, etc.) and returns
// one fragment per recognized text line, positioned at the top-left corner
// of the line's bounding box and tagged with page.
func (c *Client) Recognize(imageData []byte, page int) ([]text.Fragment, error) {
	if err := c.client.SetImageFromBytes(imageData); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	boxes, err := c.client.GetBoundingBoxes(gosseract.RIL_TEXTLINE)
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}

	frags := make([]text.Fragment, 0, len(boxes))
	for _, box := range boxes {
		word := strings.TrimSpace(box.Word)
		if word == "" {
			continue
		}
		frags = append(frags, text.Fragment{
			Page:       page,
			Row:        float64(box.Box.Min.Y),
			Column:     float64(box.Box.Min.X),
			Text:       word,
			Confidence: box.Confidence / 100,
		})
	}
	return frags, nil
}

// SetLanguage sets the language(s) for OCR recognition.
// Multiple languages can be specified as a "+" separated string (e.g., "kor+eng").
func (c *Client) SetLanguage(lang string) error {
	return c.client.SetLanguage(strings.Split(lang, "+")...)
}

// SetPageSegMode sets the page segmentation mode.
// This affects how Tesseract analyzes the page layout.
func (c *Client) SetPageSegMode(mode PageSegMode) error {
	return c.client.SetPageSegMode(gosseract.PageSegMode(mode))
}
