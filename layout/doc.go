// Package layout turns positioned OCR fragments into logical lines in
// reading order and recognizes page boilerplate.
//
// # Line Normalization
//
// The [Normalizer] merges fragments that share a visual row:
//
//	normalizer := layout.NewNormalizer()
//	result := normalizer.Normalize(fragments)
//	for _, line := range result.Lines {
//	    fmt.Println(line.Key.Page, line.Text)
//	}
//
// Fragments are ordered by page, row and column. A fragment joins the open
// line when it is on the same page and its row is within
// [LineConfig.MergeThreshold] of the line's anchor (first) row; merged text
// is joined left to right with two spaces. Malformed fragments are counted
// in [LineLayout.Dropped] and never reach a line.
//
// Normalizing the collapsed output again ([Fragments]) yields the same lines.
//
// # Boilerplate
//
// The [BoilerplateFilter] matches lines that contain a configured header,
// footer or instruction phrase:
//
//	filter := layout.NewBoilerplateFilter()
//	if filter.IsBoilerplate(line.Text) {
//	    // round title, publisher notice, answer instructions...
//	}
//
// # Headers and Footers
//
// The [HeaderFooterDetector] finds lines that no keyword anticipated but that
// repeat at the same edge of most pages of a round, such as running titles
// and page numbers:
//
//	result := layout.NewHeaderFooterDetector().Detect(lines)
//	lines, removed := result.Filter(lines)
package layout
