// Package quizapp extracts multiple-choice exam questions from OCR'd page
// scans.
//
// Basic usage:
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    // handle error
//	}
//	src := quizapp.DirSource(cfg)
//	defer src.Close()
//
//	questions, report, err := quizapp.FromConfig(cfg, src).Extract(ctx)
//	if err != nil {
//	    // handle error
//	}
//	if len(report.Warnings) > 0 {
//	    log.Println("Warnings:", quizapp.FormatWarnings(report.Warnings))
//	}
//
// With options:
//
//	questions, _, err := quizapp.New(src, map[int]int{1: 14, 2: 14}).
//	    Rounds(2).
//	    Workers(4).
//	    MergeThreshold(15).
//	    Extract(ctx)
//
// The lower-level layout, exam and export packages can be used on their own
// when fragments come from somewhere else.
package quizapp

import (
	"errors"
	"fmt"
	"sort"

	"github.com/samplegit/quiz-app/config"
	"github.com/samplegit/quiz-app/imaging"
	"github.com/samplegit/quiz-app/ocr"
	"github.com/samplegit/quiz-app/source"
)

// ErrInvalidPageCount is returned for a round table with a round below 1 or a
// negative page count.
var ErrInvalidPageCount = errors.New("invalid page count")

// New returns an Extractor reading pages from src. pageCounts maps each
// round number to its number of pages. A round below 1 or a negative page
// count is reported by the terminal operation.
//
// Example:
//
//	questions, report, err := quizapp.New(src, map[int]int{1: 14}).Extract(ctx)
func New(src source.Source, pageCounts map[int]int) *Extractor {
	counts := make(map[int]int, len(pageCounts))
	for r, n := range pageCounts {
		counts[r] = n
	}
	return &Extractor{
		source:     src,
		pageCounts: counts,
		options:    defaultOptions(),
		logger:     discardLogger(),
		err:        checkPageCounts(counts),
	}
}

// checkPageCounts rejects rounds below 1 and negative page counts, lowest
// round first.
func checkPageCounts(counts map[int]int) error {
	rounds := make([]int, 0, len(counts))
	for r := range counts {
		rounds = append(rounds, r)
	}
	sort.Ints(rounds)
	for _, r := range rounds {
		if r < 1 {
			return fmt.Errorf("%w: round numbers must be positive, got %d", ErrInvalidPageCount, r)
		}
		if counts[r] < 0 {
			return fmt.Errorf("%w: round %d has %d pages", ErrInvalidPageCount, r, counts[r])
		}
	}
	return nil
}

// FromConfig returns an Extractor configured from cfg. An invalid cfg is
// reported by the terminal operation.
func FromConfig(cfg *config.Config, src source.Source) *Extractor {
	e := New(src, cfg.PageCounts())
	e.options.workers = cfg.Workers
	e.options.line.MergeThreshold = cfg.MergeThreshold
	e.options.classifier.MinQuestion = cfg.MinQuestion
	e.options.classifier.MaxQuestion = cfg.MaxQuestion
	e.options.classifier.Boilerplate.Keywords = append([]string(nil), cfg.Boilerplate...)
	if cfg.DetectHeadersFooters {
		e = e.DetectHeadersFooters()
	}
	if e.err == nil {
		e.err = cfg.Validate()
	}
	return e
}

// DirSource returns a directory source for cfg whose recognizers are
// Tesseract clients. In builds without OCR support it serves hOCR files only.
func DirSource(cfg *config.Config) *source.Dir {
	opts := imaging.DefaultOptions()
	opts.MinWidth = cfg.MinWidth

	dirCfg := source.DirConfig{
		Dir:         cfg.ImageDir,
		Pattern:     cfg.ImagePattern,
		PreferHOCR:  cfg.PreferHOCR,
		Recognizers: cfg.Workers,
		Retries:     cfg.Retries,
		RetryDelay:  cfg.RetryDelay(),
		Imaging:     opts,
	}

	ocrOpts := ocr.Options{
		Language:    cfg.Language,
		PageSegMode: ocr.PageSegMode(cfg.PageSegMode),
	}
	return source.NewDir(dirCfg, func() (source.Recognizer, error) {
		client, err := ocr.NewWithOptions(ocrOpts)
		if err != nil {
			return nil, err
		}
		return client, nil
	})
}
