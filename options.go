package quizapp

import (
	"github.com/samplegit/quiz-app/exam"
	"github.com/samplegit/quiz-app/layout"
)

// extractOptions holds configuration for question extraction.
type extractOptions struct {
	// Round selection; nil means every configured round
	rounds []int

	// Pages fetched concurrently within a round
	workers int

	line       layout.LineConfig
	classifier exam.ClassifierConfig

	// Repeated header/footer removal; nil disables it
	headerFooter *layout.HeaderFooterConfig
}

// defaultOptions returns the default extraction options.
func defaultOptions() extractOptions {
	return extractOptions{
		rounds:     nil,
		workers:    1,
		line:       layout.DefaultLineConfig(),
		classifier: exam.DefaultClassifierConfig(),
	}
}

// clone creates a deep copy of extractOptions.
func (o extractOptions) clone() extractOptions {
	newOpts := extractOptions{
		workers:    o.workers,
		line:       o.line,
		classifier: o.classifier,
	}

	if o.rounds != nil {
		newOpts.rounds = make([]int, len(o.rounds))
		copy(newOpts.rounds, o.rounds)
	}
	if o.headerFooter != nil {
		hf := *o.headerFooter
		newOpts.headerFooter = &hf
	}
	if o.classifier.Boilerplate.Keywords != nil {
		newOpts.classifier.Boilerplate.Keywords = append([]string(nil), o.classifier.Boilerplate.Keywords...)
	}

	return newOpts
}
