package model

import "sort"

// Round holds the questions extracted from one exam round, keyed by number
type Round struct {
	Number    int
	questions map[int]Question
}

// NewRound creates an empty round
func NewRound(number int) *Round {
	return &Round{
		Number:    number,
		questions: make(map[int]Question),
	}
}

// Put stores a question, replacing any earlier question with the same number.
// It reports whether an earlier question was replaced.
func (r *Round) Put(q Question) bool {
	_, replaced := r.questions[q.Number]
	r.questions[q.Number] = q
	return replaced
}

// Get returns the question with the given number
func (r *Round) Get(number int) (Question, bool) {
	q, ok := r.questions[number]
	return q, ok
}

// Len returns the number of questions in the round
func (r *Round) Len() int {
	return len(r.questions)
}

// Numbers returns the question numbers in ascending order
func (r *Round) Numbers() []int {
	numbers := make([]int, 0, len(r.questions))
	for n := range r.questions {
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)
	return numbers
}

// Questions returns the questions in ascending number order
func (r *Round) Questions() []Question {
	numbers := r.Numbers()
	out := make([]Question, len(numbers))
	for i, n := range numbers {
		out[i] = r.questions[n]
	}
	return out
}

// Incomplete returns the numbers of questions with fewer than five resolved choices
func (r *Round) Incomplete() []int {
	var out []int
	for _, q := range r.Questions() {
		if !q.Complete() {
			out = append(out, q.Number)
		}
	}
	return out
}

// Collection is the extraction result for a set of rounds
type Collection struct {
	rounds map[int]*Round
}

// NewCollection creates an empty collection
func NewCollection() *Collection {
	return &Collection{
		rounds: make(map[int]*Round),
	}
}

// Add stores a round, replacing any round with the same number
func (c *Collection) Add(r *Round) {
	c.rounds[r.Number] = r
}

// Round returns the round with the given number
func (c *Collection) Round(number int) (*Round, bool) {
	r, ok := c.rounds[number]
	return r, ok
}

// RoundNumbers returns the round numbers in ascending order
func (c *Collection) RoundNumbers() []int {
	numbers := make([]int, 0, len(c.rounds))
	for n := range c.rounds {
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)
	return numbers
}

// Len returns the number of rounds
func (c *Collection) Len() int {
	return len(c.rounds)
}

// TotalQuestions returns the number of questions across all rounds
func (c *Collection) TotalQuestions() int {
	total := 0
	for _, r := range c.rounds {
		total += r.Len()
	}
	return total
}
