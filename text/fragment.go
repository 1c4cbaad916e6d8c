package text

import (
	"math"
	"strings"
)

// Fragment represents one piece of recognized text with the top-left
// position of its bounding box on a page image.
type Fragment struct {
	// Page is the 1-based page number within a round
	Page int

	// Row is the Y coordinate of the bounding box's top-left corner
	Row float64

	// Column is the X coordinate of the bounding box's top-left corner
	Column float64

	// Text is the recognized text
	Text string

	// Confidence is the recognition confidence reported by the engine (0.0 to 1.0).
	// It is carried for diagnostics and never used for segmentation decisions.
	Confidence float64
}

// Valid reports whether the fragment has a usable position and non-empty text.
// Fragments that are not valid are dropped before line merging.
func (f Fragment) Valid() bool {
	if f.Page < 1 {
		return false
	}
	if !finite(f.Row) || !finite(f.Column) || f.Row < 0 || f.Column < 0 {
		return false
	}
	return strings.TrimSpace(f.Text) != ""
}

// Less orders fragments by page, then row, then column.
func (f Fragment) Less(other Fragment) bool {
	if f.Page != other.Page {
		return f.Page < other.Page
	}
	if f.Row != other.Row {
		return f.Row < other.Row
	}
	return f.Column < other.Column
}

// Scale returns a copy of the fragment with its position divided by factor.
// A factor of zero or one returns the fragment unchanged.
func (f Fragment) Scale(factor float64) Fragment {
	if factor == 0 || factor == 1 {
		return f
	}
	f.Row /= factor
	f.Column /= factor
	return f
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
