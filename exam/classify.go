package exam

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/samplegit/quiz-app/layout"
	"github.com/samplegit/quiz-app/model"
	"github.com/samplegit/quiz-app/text"
)

// LineKind identifies the role of a logical line
type LineKind int

const (
	// LineDiscarded is blank text or page boilerplate; it contributes nothing
	LineDiscarded LineKind = iota
	// LineQuestionStart opens a new question
	LineQuestionStart
	// LineChoices carries one or more choice markers
	LineChoices
	// LinePlain is continuation text
	LinePlain
)

// String returns a string representation of the line kind
func (k LineKind) String() string {
	switch k {
	case LineQuestionStart:
		return "question"
	case LineChoices:
		return "choices"
	case LinePlain:
		return "plain"
	default:
		return "discarded"
	}
}

// ChoicePart is one marker found on a line: its slot and the text that
// follows it up to the next marker or the end of the line
type ChoicePart struct {
	Slot int
	Text string
}

// LineClass is the classification of one logical line. Which fields are set
// depends on Kind:
//
//   - LineQuestionStart: Number and Text (the remainder after the number)
//   - LineChoices: Choices, in left-to-right order
//   - LinePlain: Text
//   - LineDiscarded: Text holds the matched boilerplate keyword, if any
type LineClass struct {
	Kind    LineKind
	Number  int
	Text    string
	Choices []ChoicePart
}

// QuestionStart creates a question-start classification
func QuestionStart(number int, remainder string) LineClass {
	return LineClass{Kind: LineQuestionStart, Number: number, Text: remainder}
}

// Choices creates a choice-marker classification
func Choices(parts ...ChoicePart) LineClass {
	return LineClass{Kind: LineChoices, Choices: parts}
}

// Plain creates a plain-text classification
func Plain(s string) LineClass {
	return LineClass{Kind: LinePlain, Text: s}
}

// Discarded creates a discarded classification
func Discarded(reason string) LineClass {
	return LineClass{Kind: LineDiscarded, Text: reason}
}

// ClassifierConfig holds configuration for line classification
type ClassifierConfig struct {
	// MinQuestion and MaxQuestion bound accepted question numbers (inclusive).
	// Default: 1 and 105
	MinQuestion int
	MaxQuestion int

	// Boilerplate configures header/footer suppression
	Boilerplate layout.BoilerplateConfig
}

// DefaultClassifierConfig returns the default classification configuration
func DefaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{
		MinQuestion: model.MinQuestionNumber,
		MaxQuestion: model.MaxQuestionNumber,
		Boilerplate: layout.DefaultBoilerplateConfig(),
	}
}

// rule is one entry of the classification table. Rules are tried in order
// and the first that matches decides the line's class.
type rule struct {
	name  string
	match func(c *Classifier, line string) (LineClass, bool)
}

// rules is the classification precedence table. A question start outranks
// boilerplate so a question whose body contains a filtered phrase is kept.
var rules = []rule{
	{"blank", (*Classifier).matchBlank},
	{"question-start", (*Classifier).matchQuestionStart},
	{"boilerplate", (*Classifier).matchBoilerplate},
	{"choice-marker", (*Classifier).matchChoiceMarkers},
	{"plain", (*Classifier).matchPlain},
}

// RuleNames returns the classification rules in precedence order
func RuleNames() []string {
	names := make([]string, len(rules))
	for i, r := range rules {
		names[i] = r.name
	}
	return names
}

var (
	// questionStartPattern: optional whitespace, 1-3 digits, then '.' or
	// whitespace, then at least one character of remaining text
	questionStartPattern = regexp.MustCompile(`^\s*(\d{1,3})\s*[.\s]+(.+)$`)

	// parenMarkerPattern: "(1)" .. "(5)" or "1)" .. "5)"
	parenMarkerPattern = regexp.MustCompile(`\(?[1-5]\)`)
)

// circledSlots maps the reserved circled-digit glyphs to their slots
var circledSlots = map[rune]int{
	'①': 1,
	'②': 2,
	'③': 3,
	'④': 4,
	'⑤': 5,
}

// Classifier assigns a LineClass to each logical line. It holds no state
// between lines.
type Classifier struct {
	config      ClassifierConfig
	boilerplate *layout.BoilerplateFilter
}

// NewClassifier creates a classifier with default configuration
func NewClassifier() *Classifier {
	return NewClassifierWithConfig(DefaultClassifierConfig())
}

// NewClassifierWithConfig creates a classifier with custom configuration.
// An empty question range falls back to the default 1-105.
func NewClassifierWithConfig(config ClassifierConfig) *Classifier {
	if config.MinQuestion <= 0 || config.MaxQuestion < config.MinQuestion {
		config.MinQuestion = model.MinQuestionNumber
		config.MaxQuestion = model.MaxQuestionNumber
	}
	return &Classifier{
		config:      config,
		boilerplate: layout.NewBoilerplateFilterWithConfig(config.Boilerplate),
	}
}

// Config returns the classifier's configuration
func (c *Classifier) Config() ClassifierConfig {
	return c.config
}

// Classify classifies one line of text
func (c *Classifier) Classify(line string) LineClass {
	line = text.Normalize(line)
	for _, r := range rules {
		if class, ok := r.match(c, line); ok {
			return class
		}
	}
	return Plain(line)
}

// IsQuestionStart reports whether line opens a question
func (c *Classifier) IsQuestionStart(line string) bool {
	return c.Classify(line).Kind == LineQuestionStart
}

// ClassifyLines classifies logical lines in order
func (c *Classifier) ClassifyLines(lines []layout.LogicalLine) []LineClass {
	out := make([]LineClass, len(lines))
	for i, l := range lines {
		out[i] = c.Classify(l.Text)
	}
	return out
}

func (c *Classifier) matchBlank(line string) (LineClass, bool) {
	if line == "" {
		return Discarded(""), true
	}
	return LineClass{}, false
}

func (c *Classifier) matchQuestionStart(line string) (LineClass, bool) {
	m := questionStartPattern.FindStringSubmatch(line)
	if m == nil {
		return LineClass{}, false
	}
	number, err := strconv.Atoi(m[1])
	if err != nil || number < c.config.MinQuestion || number > c.config.MaxQuestion {
		return LineClass{}, false
	}
	return QuestionStart(number, strings.TrimSpace(m[2])), true
}

func (c *Classifier) matchBoilerplate(line string) (LineClass, bool) {
	if kw, ok := c.boilerplate.Match(line); ok {
		return Discarded(kw), true
	}
	return LineClass{}, false
}

func (c *Classifier) matchChoiceMarkers(line string) (LineClass, bool) {
	markers := findCircledMarkers(line)
	if len(markers) == 0 {
		markers = findParenMarkers(line)
	}
	if len(markers) == 0 {
		return LineClass{}, false
	}
	return Choices(splitAtMarkers(line, markers)...), true
}

func (c *Classifier) matchPlain(line string) (LineClass, bool) {
	return Plain(line), true
}

// marker is a choice marker's byte span within a line
type marker struct {
	start, end int
	slot       int
}

// findCircledMarkers locates every circled-digit glyph in the line
func findCircledMarkers(line string) []marker {
	var markers []marker
	for i, r := range line {
		if slot, ok := circledSlots[r]; ok {
			markers = append(markers, marker{start: i, end: i + utf8.RuneLen(r), slot: slot})
		}
	}
	return markers
}

// findParenMarkers locates "(n)" and "n)" markers that start the line or
// follow whitespace, and are followed by whitespace and then more text
func findParenMarkers(line string) []marker {
	var markers []marker
	for _, loc := range parenMarkerPattern.FindAllStringIndex(line, -1) {
		start, end := loc[0], loc[1]
		if start > 0 {
			prev, _ := utf8.DecodeLastRuneInString(line[:start])
			if !unicode.IsSpace(prev) {
				continue
			}
		}
		rest := line[end:]
		next, _ := utf8.DecodeRuneInString(rest)
		if !unicode.IsSpace(next) || strings.TrimSpace(rest) == "" {
			continue
		}
		digit := line[end-2]
		markers = append(markers, marker{start: start, end: end, slot: int(digit - '0')})
	}
	return markers
}

// splitAtMarkers cuts the line at each marker. Each part's text runs from the
// end of its marker to the start of the next. Text before the first marker
// is not part of any choice.
func splitAtMarkers(line string, markers []marker) []ChoicePart {
	parts := make([]ChoicePart, len(markers))
	for i, m := range markers {
		end := len(line)
		if i+1 < len(markers) {
			end = markers[i+1].start
		}
		parts[i] = ChoicePart{Slot: m.slot, Text: strings.TrimSpace(line[m.end:end])}
	}
	return parts
}
