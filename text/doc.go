// Package text defines the positioned text fragment produced by OCR engines
// and the normalization applied to recognized text.
//
// # Fragments
//
// A [Fragment] is the unit every fragment source yields: the recognized text,
// the page it came from, the top-left row and column of its bounding box, and
// the engine's confidence:
//
//	f := text.Fragment{Page: 1, Row: 120, Column: 48, Text: "1. 다음 중", Confidence: 0.91}
//
// Fragments with a negative or non-finite position, a page below 1, or blank
// text are not [Fragment.Valid] and are dropped before line merging.
//
// # Normalization
//
// [Normalize] composes Hangul to NFC and folds full-width ASCII to its
// narrow form, leaving circled-digit choice markers untouched.
package text
