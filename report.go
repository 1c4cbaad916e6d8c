package quizapp

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// WarningKind classifies a non-fatal extraction issue.
type WarningKind int

const (
	// MissingPage: no scan or hOCR file exists for a configured page
	MissingPage WarningKind = iota

	// UnreadablePage: the page exists but could not be recognized
	UnreadablePage

	// DuplicateQuestion: a question number appeared twice in a round; the
	// later occurrence replaced the earlier one
	DuplicateQuestion

	// EmptyRound: no question was found in a round
	EmptyRound
)

// String returns the warning kind's name
func (k WarningKind) String() string {
	switch k {
	case MissingPage:
		return "missing-page"
	case UnreadablePage:
		return "unreadable-page"
	case DuplicateQuestion:
		return "duplicate-question"
	case EmptyRound:
		return "empty-round"
	default:
		return "unknown"
	}
}

// Warning is a non-fatal issue found during extraction. It never changes the
// extracted questions.
type Warning struct {
	Kind  WarningKind
	Round int

	// Page is the 1-based page number, 0 when the warning concerns a round
	Page int

	// Question is the question number for DuplicateQuestion, otherwise 0
	Question int

	Message string
}

// String formats the warning on one line
func (w Warning) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] round %d", w.Kind, w.Round)
	if w.Page > 0 {
		fmt.Fprintf(&sb, " page %d", w.Page)
	}
	if w.Question > 0 {
		fmt.Fprintf(&sb, " question %d", w.Question)
	}
	if w.Message != "" {
		sb.WriteString(": ")
		sb.WriteString(w.Message)
	}
	return sb.String()
}

// FormatWarnings joins warnings one per line
func FormatWarnings(warnings []Warning) string {
	lines := make([]string, len(warnings))
	for i, w := range warnings {
		lines[i] = w.String()
	}
	return strings.Join(lines, "\n")
}

// RoundReport describes what happened while extracting one round
type RoundReport struct {
	Round int

	PagesConfigured int
	PagesProcessed  int
	SkippedPages    []int

	Questions        int
	DuplicateNumbers []int
	Incomplete       []int // questions with fewer than five resolved choices

	DroppedFragments int // malformed fragments discarded before line merging
	DiscardedLines   int // boilerplate, blank or pre-question lines

	HeaderFooterLines int // lines removed as repeated headers or footers
}

// Report is the diagnostic side channel of an extraction run. It is advisory
// only; the extracted questions do not depend on it.
type Report struct {
	RunID    uuid.UUID
	Rounds   []RoundReport
	Warnings []Warning
}

func newReport() *Report {
	return &Report{RunID: uuid.New()}
}

// TotalQuestions returns the number of questions across all rounds
func (r *Report) TotalQuestions() int {
	total := 0
	for _, rr := range r.Rounds {
		total += rr.Questions
	}
	return total
}

// SkippedPages returns the number of skipped pages across all rounds
func (r *Report) SkippedPages() int {
	total := 0
	for _, rr := range r.Rounds {
		total += len(rr.SkippedPages)
	}
	return total
}

// Round returns the report of one round
func (r *Report) Round(number int) (RoundReport, bool) {
	for _, rr := range r.Rounds {
		if rr.Round == number {
			return rr, true
		}
	}
	return RoundReport{}, false
}

// WarningsOf returns the warnings of one kind
func (r *Report) WarningsOf(kind WarningKind) []Warning {
	var out []Warning
	for _, w := range r.Warnings {
		if w.Kind == kind {
			out = append(out, w)
		}
	}
	return out
}
