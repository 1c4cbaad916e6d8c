package layout

import (
	"sort"
	"strings"

	"github.com/samplegit/quiz-app/text"
)

// fragmentSeparator joins fragments merged into one logical line.
const fragmentSeparator = "  "

// OrderKey positions a logical line within a round: page, then the line's
// anchor row, then its leftmost column.
type OrderKey struct {
	Page   int
	Row    float64
	Column float64
}

// Less reports whether k sorts before other.
func (k OrderKey) Less(other OrderKey) bool {
	if k.Page != other.Page {
		return k.Page < other.Page
	}
	if k.Row != other.Row {
		return k.Row < other.Row
	}
	return k.Column < other.Column
}

// LogicalLine is one visual row of a page: every fragment whose row lies
// within the merge threshold of the row's first (anchor) fragment.
type LogicalLine struct {
	// Key orders the line within its round
	Key OrderKey

	// Text is the merged text, fragments joined left to right with two spaces
	Text string

	// Fragments are the fragments that make up this line (sorted left to right)
	Fragments []text.Fragment
}

// LineConfig holds configuration for line normalization
type LineConfig struct {
	// MergeThreshold is the maximum row distance (exclusive) from a line's anchor
	// row for a fragment to be merged into that line. Larger values risk fusing
	// a question with its first choice; smaller values split wrapped rows.
	// Default: 20
	MergeThreshold float64
}

// DefaultLineConfig returns the default line normalization configuration
func DefaultLineConfig() LineConfig {
	return LineConfig{
		MergeThreshold: 20,
	}
}

// LineLayout is the result of normalizing one round's fragments
type LineLayout struct {
	// Lines are the logical lines in reading order
	Lines []LogicalLine

	// Dropped is the number of malformed fragments discarded before merging
	Dropped int

	// Config is the configuration used for normalization
	Config LineConfig
}

// LineCount returns the number of logical lines
func (l *LineLayout) LineCount() int {
	return len(l.Lines)
}

// Texts returns the text of every line in order
func (l *LineLayout) Texts() []string {
	texts := make([]string, len(l.Lines))
	for i, line := range l.Lines {
		texts[i] = line.Text
	}
	return texts
}

// Normalizer merges positioned fragments into logical lines
type Normalizer struct {
	config LineConfig
}

// NewNormalizer creates a normalizer with default configuration
func NewNormalizer() *Normalizer {
	return &Normalizer{
		config: DefaultLineConfig(),
	}
}

// NewNormalizerWithConfig creates a normalizer with custom configuration
func NewNormalizerWithConfig(config LineConfig) *Normalizer {
	if config.MergeThreshold <= 0 {
		config.MergeThreshold = DefaultLineConfig().MergeThreshold
	}
	return &Normalizer{
		config: config,
	}
}

// Normalize merges a round's fragments into logical lines.
//
// Fragments are normalized and malformed ones dropped, then sorted by page,
// row and column. A single scan opens a line at the first fragment and keeps
// appending while the next fragment is on the same page and its row is less
// than MergeThreshold away from the line's anchor row.
func (n *Normalizer) Normalize(fragments []text.Fragment) *LineLayout {
	result := &LineLayout{Config: n.config}

	valid := make([]text.Fragment, 0, len(fragments))
	for _, f := range text.NormalizeFragments(fragments) {
		if !f.Valid() {
			result.Dropped++
			continue
		}
		valid = append(valid, f)
	}
	if len(valid) == 0 {
		return result
	}

	sort.SliceStable(valid, func(i, j int) bool {
		return valid[i].Less(valid[j])
	})

	current := []text.Fragment{valid[0]}
	for _, f := range valid[1:] {
		anchor := current[0]
		if f.Page == anchor.Page && absFloat64(f.Row-anchor.Row) < n.config.MergeThreshold {
			current = append(current, f)
			continue
		}
		result.Lines = append(result.Lines, buildLine(current))
		current = []text.Fragment{f}
	}
	result.Lines = append(result.Lines, buildLine(current))

	return result
}

// buildLine assembles a logical line from fragments sharing a row
func buildLine(fragments []text.Fragment) LogicalLine {
	anchor := fragments[0]

	sorted := make([]text.Fragment, len(fragments))
	copy(sorted, fragments)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Column < sorted[j].Column
	})

	parts := make([]string, len(sorted))
	for i, f := range sorted {
		parts[i] = f.Text
	}

	return LogicalLine{
		Key: OrderKey{
			Page:   anchor.Page,
			Row:    anchor.Row,
			Column: sorted[0].Column,
		},
		Text:      strings.Join(parts, fragmentSeparator),
		Fragments: sorted,
	}
}

func absFloat64(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
