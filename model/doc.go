// Package model defines the extracted exam structure: questions, rounds and
// the collection of rounds handed to exporters.
//
// # Questions
//
// A [Question] has a number, body text and exactly [ChoiceCount] answer
// slots. Slots are addressed 1 through 5; an unresolved slot holds the empty
// string, so every question always exposes all five:
//
//	q := model.NewQuestion(1, "What is X")
//	q.SetChoice(1, "Apple")
//	q.Choice(2) // ""
//
// # Rounds
//
// A [Round] maps question numbers to questions. [Round.Put] replaces an
// existing question with the same number and reports the replacement.
//
// # Serialization
//
// [Collection] and [Round] encode as JSON objects keyed by decimal strings in
// ascending numeric order:
//
//	{"1": {"1": {"text": "...", "choices": {"1": "...", ..., "5": "..."}}}}
//
// Rounds with no questions are kept as empty objects.
package model
