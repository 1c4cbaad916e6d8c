package exam

import (
	"github.com/samplegit/quiz-app/layout"
	"github.com/samplegit/quiz-app/model"
)

// State is the segmenter's position relative to the open question
type State int

const (
	// AwaitingQuestion is the initial state: no question is open
	AwaitingQuestion State = iota
	// InBody means plain text extends the open question's body
	InBody
	// InChoices means plain text extends the most recent choice
	InChoices
)

// String returns a string representation of the state
func (s State) String() string {
	switch s {
	case InBody:
		return "in-body"
	case InChoices:
		return "in-choices"
	default:
		return "awaiting-question"
	}
}

// SegmentStats counts what the segmenter did with its input
type SegmentStats struct {
	// Questions is the number of question spans flushed (including replaced ones)
	Questions int

	// Duplicates lists question numbers whose earlier span was replaced, in
	// the order the replacements happened
	Duplicates []int

	// Discarded counts lines that attached to no question: boilerplate,
	// blank lines, and anything before the first question start
	Discarded int
}

// Segmenter folds classified lines, in document order, into question
// records stored in a round. One segmenter serves exactly one round.
type Segmenter struct {
	round *model.Round
	state State

	number  int
	body    []string
	choices ChoiceExtractor

	stats SegmentStats
}

// NewSegmenter creates a segmenter that writes into round
func NewSegmenter(round *model.Round) *Segmenter {
	return &Segmenter{
		round: round,
		state: AwaitingQuestion,
	}
}

// State returns the current state
func (s *Segmenter) State() State {
	return s.state
}

// Stats returns the counters accumulated so far
func (s *Segmenter) Stats() SegmentStats {
	stats := s.stats
	stats.Duplicates = append([]int(nil), s.stats.Duplicates...)
	return stats
}

// Feed advances the state machine by one classified line
func (s *Segmenter) Feed(line LineClass) {
	if line.Kind == LineQuestionStart {
		s.flush()
		s.number = line.Number
		s.body = []string{line.Text}
		s.choices.Reset()
		s.state = InBody
		return
	}

	if s.state == AwaitingQuestion || line.Kind == LineDiscarded {
		s.stats.Discarded++
		return
	}

	switch line.Kind {
	case LineChoices:
		s.choices.Add(line.Choices)
		s.state = InChoices

	case LinePlain:
		if s.state == InChoices && s.choices.ExtendLast(line.Text) {
			return
		}
		s.body = append(s.body, line.Text)
	}
}

// FeedAll feeds classified lines in order
func (s *Segmenter) FeedAll(lines []LineClass) {
	for _, l := range lines {
		s.Feed(l)
	}
}

// Close flushes the open question, if any. The segmenter returns to
// AwaitingQuestion.
func (s *Segmenter) Close() {
	s.flush()
}

// flush assembles the open question into the round. A question already
// stored under the same number is replaced.
func (s *Segmenter) flush() {
	if s.state == AwaitingQuestion {
		return
	}

	q := Assemble(s.number, s.body, s.choices.Parts())
	if s.round.Put(q) {
		s.stats.Duplicates = append(s.stats.Duplicates, q.Number)
	}
	s.stats.Questions++

	s.number = 0
	s.body = nil
	s.choices.Reset()
	s.state = AwaitingQuestion
}

// SegmentLines classifies lines with c and folds them into a new round
func SegmentLines(roundNumber int, lines []layout.LogicalLine, c *Classifier) (*model.Round, SegmentStats) {
	round := model.NewRound(roundNumber)
	seg := NewSegmenter(round)
	seg.FeedAll(c.ClassifyLines(lines))
	seg.Close()
	return round, seg.Stats()
}
