package exam

// ChoiceExtractor accumulates the choice parts of the open question in the
// order they were read. Later parts for a slot win when the list is folded.
type ChoiceExtractor struct {
	parts []ChoicePart
}

// Add appends the parts found on one line, left to right
func (e *ChoiceExtractor) Add(parts []ChoicePart) {
	e.parts = append(e.parts, parts...)
}

// ExtendLast appends continuation text to the most recently recorded choice.
// It reports false when no choice has been recorded yet.
func (e *ChoiceExtractor) ExtendLast(s string) bool {
	if len(e.parts) == 0 {
		return false
	}
	last := &e.parts[len(e.parts)-1]
	if last.Text == "" {
		last.Text = s
	} else {
		last.Text += " " + s
	}
	return true
}

// Len returns the number of recorded parts
func (e *ChoiceExtractor) Len() int {
	return len(e.parts)
}

// Parts returns a copy of the recorded parts in order
func (e *ChoiceExtractor) Parts() []ChoicePart {
	return append([]ChoicePart(nil), e.parts...)
}

// Reset clears the recorded parts
func (e *ChoiceExtractor) Reset() {
	e.parts = nil
}
