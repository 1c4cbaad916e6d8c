package model

import "strings"

// ChoiceCount is the number of answer slots every question carries
const ChoiceCount = 5

// Question numbering bounds for a round
const (
	MinQuestionNumber = 1
	MaxQuestionNumber = 105
)

// Question is one assembled exam question: its number, body text and five
// answer slots. Slot 1 is stored at index 0; an unresolved slot holds "".
type Question struct {
	Number  int
	Body    string
	Choices [ChoiceCount]string
}

// NewQuestion creates a question with all five slots unresolved
func NewQuestion(number int, body string) Question {
	return Question{Number: number, Body: body}
}

// ValidSlot reports whether slot is one of the five choice positions (1-5)
func ValidSlot(slot int) bool {
	return slot >= 1 && slot <= ChoiceCount
}

// Choice returns the text of a slot (1-5), or "" for an unresolved or invalid slot
func (q Question) Choice(slot int) string {
	if !ValidSlot(slot) {
		return ""
	}
	return q.Choices[slot-1]
}

// SetChoice sets the text of a slot (1-5). Invalid slots are ignored.
func (q *Question) SetChoice(slot int, text string) {
	if !ValidSlot(slot) {
		return
	}
	q.Choices[slot-1] = text
}

// Resolved returns the number of slots with non-empty text
func (q Question) Resolved() int {
	n := 0
	for _, c := range q.Choices {
		if strings.TrimSpace(c) != "" {
			n++
		}
	}
	return n
}

// Complete reports whether all five slots are resolved
func (q Question) Complete() bool {
	return q.Resolved() == ChoiceCount
}

// ChoiceMap returns the slots keyed "1" through "5"
func (q Question) ChoiceMap() map[string]string {
	m := make(map[string]string, ChoiceCount)
	for i, c := range q.Choices {
		m[slotKey(i+1)] = c
	}
	return m
}

func slotKey(slot int) string {
	return string(rune('0' + slot))
}
