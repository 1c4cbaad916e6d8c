package layout

import (
	"regexp"
	"sort"
	"strings"
)

// RegionType indicates whether a repeated line sits at the top or bottom of its page
type RegionType int

const (
	Header RegionType = iota
	Footer
)

func (r RegionType) String() string {
	if r == Header {
		return "header"
	}
	return "footer"
}

// HeaderFooterConfig holds configuration for header/footer detection
type HeaderFooterConfig struct {
	// EdgeLines is how many lines at the top and at the bottom of each page
	// are header or footer candidates
	// Default: 2
	EdgeLines int

	// MinOccurrenceRatio is the minimum fraction of pages a line must appear on
	// to be considered a header/footer (0.0 to 1.0)
	// Default: 0.5 (50% of pages)
	MinOccurrenceRatio float64

	// ColumnTolerance is the maximum column difference for occurrences of
	// one line to count as the same position
	// Default: 40 pixels
	ColumnTolerance float64

	// MinPages is the minimum number of pages required for detection
	// Default: 2
	MinPages int

	// Keep reports lines that are never headers or footers, however often
	// they repeat. Question starts are protected this way.
	// Default: nil (every edge line is a candidate)
	Keep func(text string) bool
}

// DefaultHeaderFooterConfig returns sensible default configuration
func DefaultHeaderFooterConfig() HeaderFooterConfig {
	return HeaderFooterConfig{
		EdgeLines:          2,
		MinOccurrenceRatio: 0.5,
		ColumnTolerance:    40,
		MinPages:           2,
	}
}

// HeaderFooterRegion is one line repeated at the same edge of several pages
type HeaderFooterRegion struct {
	Type RegionType

	// Text is the line as it appeared on its first page
	Text string

	// Pattern is the text with digit runs replaced by '#'
	Pattern string

	// IsPageNumber indicates the line is a page number such as "- 3 -"
	IsPageNumber bool

	// Pages lists the pages the line appears on
	Pages []int
}

// HeaderFooterResult contains the detection results
type HeaderFooterResult struct {
	Headers []HeaderFooterRegion
	Footers []HeaderFooterRegion

	// Config used for detection
	Config HeaderFooterConfig

	matched map[OrderKey]bool
}

// HeaderFooterDetector finds lines repeated at the top or bottom of a round's pages
// that no keyword list anticipated, such as running titles and page numbers.
type HeaderFooterDetector struct {
	config HeaderFooterConfig
}

// NewHeaderFooterDetector creates a new detector with default configuration
func NewHeaderFooterDetector() *HeaderFooterDetector {
	return &HeaderFooterDetector{
		config: DefaultHeaderFooterConfig(),
	}
}

// NewHeaderFooterDetectorWithConfig creates a detector with custom configuration
func NewHeaderFooterDetectorWithConfig(config HeaderFooterConfig) *HeaderFooterDetector {
	defaults := DefaultHeaderFooterConfig()
	if config.EdgeLines <= 0 {
		config.EdgeLines = defaults.EdgeLines
	}
	if config.MinPages < 2 {
		config.MinPages = defaults.MinPages
	}
	if config.ColumnTolerance <= 0 {
		config.ColumnTolerance = defaults.ColumnTolerance
	}
	return &HeaderFooterDetector{
		config: config,
	}
}

// candidate is a line at the edge of its page
type candidate struct {
	line   LogicalLine
	region RegionType
}

// Detect analyzes the logical lines of one round, in reading order, to find
// headers and footers
func (d *HeaderFooterDetector) Detect(lines []LogicalLine) *HeaderFooterResult {
	result := &HeaderFooterResult{Config: d.config, matched: make(map[OrderKey]bool)}

	byPage := groupByPage(lines)
	if len(byPage) < d.config.MinPages {
		return result
	}

	groups := make(map[RegionType]map[string][]candidate)
	groups[Header] = make(map[string][]candidate)
	groups[Footer] = make(map[string][]candidate)

	for _, pageLines := range byPage {
		for _, c := range d.edgeCandidates(pageLines) {
			pattern := normalizeForComparison(c.line.Text)
			groups[c.region][pattern] = append(groups[c.region][pattern], c)
		}
	}

	minOccurrences := max(int(float64(len(byPage))*d.config.MinOccurrenceRatio), 2)

	for _, region := range []RegionType{Header, Footer} {
		for pattern, group := range groups[region] {
			// Very short text is more likely OCR debris than a running title
			if len([]rune(pattern)) <= 2 && !isPageNumberPattern(pattern) {
				continue
			}

			pages := distinctPages(group)
			if len(pages) < minOccurrences || !d.hasConsistentPosition(group) {
				continue
			}

			found := HeaderFooterRegion{
				Type:         region,
				Text:         group[0].line.Text,
				Pattern:      pattern,
				IsPageNumber: isPageNumberPattern(pattern),
				Pages:        pages,
			}
			if region == Header {
				result.Headers = append(result.Headers, found)
			} else {
				result.Footers = append(result.Footers, found)
			}
			for _, c := range group {
				result.matched[c.line.Key] = true
			}
		}
	}

	sortRegions(result.Headers)
	sortRegions(result.Footers)
	return result
}

// edgeCandidates returns the first and last EdgeLines lines of a page.
// A line in both ranges is only a header candidate.
func (d *HeaderFooterDetector) edgeCandidates(pageLines []LogicalLine) []candidate {
	n := len(pageLines)
	var out []candidate
	for i, line := range pageLines {
		if d.config.Keep != nil && d.config.Keep(line.Text) {
			continue
		}
		switch {
		case i < d.config.EdgeLines:
			out = append(out, candidate{line: line, region: Header})
		case i >= n-d.config.EdgeLines:
			out = append(out, candidate{line: line, region: Footer})
		}
	}
	return out
}

// hasConsistentPosition checks if candidates start at consistent columns
func (d *HeaderFooterDetector) hasConsistentPosition(group []candidate) bool {
	if len(group) < 2 {
		return false
	}
	minCol, maxCol := group[0].line.Key.Column, group[0].line.Key.Column
	for _, c := range group[1:] {
		minCol = min(minCol, c.line.Key.Column)
		maxCol = max(maxCol, c.line.Key.Column)
	}
	return maxCol-minCol <= d.config.ColumnTolerance
}

// IsHeaderFooter reports whether line was detected as a header or footer
func (r *HeaderFooterResult) IsHeaderFooter(line LogicalLine) bool {
	return r.matched[line.Key]
}

// Filter returns lines without detected headers and footers, and the number
// of lines removed
func (r *HeaderFooterResult) Filter(lines []LogicalLine) ([]LogicalLine, int) {
	if len(r.matched) == 0 {
		return lines, 0
	}
	kept := make([]LogicalLine, 0, len(lines))
	for _, line := range lines {
		if !r.matched[line.Key] {
			kept = append(kept, line)
		}
	}
	return kept, len(lines) - len(kept)
}

// HasHeadersOrFooters returns true if any header or footer was detected
func (r *HeaderFooterResult) HasHeadersOrFooters() bool {
	return len(r.Headers) > 0 || len(r.Footers) > 0
}

// Texts returns the representative text of every detected region
func (r *HeaderFooterResult) Texts() []string {
	var texts []string
	for _, h := range r.Headers {
		texts = append(texts, h.Text)
	}
	for _, f := range r.Footers {
		texts = append(texts, f.Text)
	}
	return texts
}

func groupByPage(lines []LogicalLine) [][]LogicalLine {
	var pages [][]LogicalLine
	for i, line := range lines {
		if i == 0 || line.Key.Page != lines[i-1].Key.Page {
			pages = append(pages, nil)
		}
		pages[len(pages)-1] = append(pages[len(pages)-1], line)
	}
	return pages
}

func distinctPages(group []candidate) []int {
	seen := make(map[int]bool)
	var pages []int
	for _, c := range group {
		if !seen[c.line.Key.Page] {
			seen[c.line.Key.Page] = true
			pages = append(pages, c.line.Key.Page)
		}
	}
	sort.Ints(pages)
	return pages
}

func sortRegions(regions []HeaderFooterRegion) {
	sort.Slice(regions, func(i, j int) bool {
		if len(regions[i].Pages) != len(regions[j].Pages) {
			return len(regions[i].Pages) > len(regions[j].Pages)
		}
		return regions[i].Pattern < regions[j].Pattern
	})
}

var digitRun = regexp.MustCompile(`\d+`)

// normalizeForComparison replaces digit runs with a placeholder and collapses spaces
func normalizeForComparison(s string) string {
	return strings.Join(strings.Fields(digitRun.ReplaceAllString(s, "#")), " ")
}

// isPageNumberPattern checks if normalized text looks like a page number
func isPageNumberPattern(normalizedText string) bool {
	patterns := []string{
		"#",
		"- # -",
		"-#-",
		"# / #",
		"#/#",
		"Page #",
		"# 페이지",
		"#쪽",
	}

	trimmed := strings.TrimSpace(normalizedText)
	for _, pattern := range patterns {
		if strings.EqualFold(trimmed, pattern) {
			return true
		}
	}
	return false
}
