// Package exam reconstructs exam questions from logical lines.
//
// # Classification
//
// The [Classifier] assigns every line a [LineClass] using an ordered rule
// table; the first matching rule wins:
//
//  1. question start: 1-3 digits followed by '.' or whitespace, number in 1-105
//  2. boilerplate: the line contains a configured header/footer keyword
//  3. choice markers: circled digits ①-⑤, or "(n)"/"n)" for n in 1-5
//  4. plain text
//
// A line carrying several markers yields one [ChoicePart] per marker, in
// left-to-right order.
//
// # Segmentation
//
// The [Segmenter] is a three-state machine (AwaitingQuestion, InBody,
// InChoices) fed one classified line at a time:
//
//	round := model.NewRound(1)
//	seg := exam.NewSegmenter(round)
//	for _, line := range lines {
//	    seg.Feed(classifier.Classify(line.Text))
//	}
//	seg.Close()
//
// Plain text after the first choice marker continues the most recent choice,
// which fits choices wrapped over several OCR lines but misattributes body
// text that resumes after the choices. A repeated question number replaces
// the earlier question; replacements are listed in [SegmentStats.Duplicates].
//
// # Assembly
//
// [Assemble] joins body parts, folds choice parts (later wins, blank parts
// ignored) and leaves unresolved slots empty.
package exam
