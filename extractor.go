package quizapp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/samplegit/quiz-app/config"
	"github.com/samplegit/quiz-app/exam"
	"github.com/samplegit/quiz-app/layout"
	"github.com/samplegit/quiz-app/model"
	"github.com/samplegit/quiz-app/source"
	"github.com/samplegit/quiz-app/text"
)

// Extractor provides a fluent interface for extracting exam questions.
// Each configuration method returns a new Extractor instance, making it
// safe for concurrent use and allowing method chaining.
type Extractor struct {
	source     source.Source
	pageCounts map[int]int

	options extractOptions
	logger  *slog.Logger

	// Accumulated error (fail-fast)
	err error
}

// clone creates a shallow copy of the Extractor with a deep copy of options.
func (e *Extractor) clone() *Extractor {
	return &Extractor{
		source:     e.source,
		pageCounts: e.pageCounts,
		options:    e.options.clone(),
		logger:     e.logger,
		err:        e.err,
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Rounds restricts extraction to the given rounds. Rounds accumulate across
// calls; duplicates are ignored.
//
// Example:
//
//	questions, _, err := quizapp.New(src, counts).Rounds(3, 7).Extract(ctx)
func (e *Extractor) Rounds(rounds ...int) *Extractor {
	newExt := e.clone()
	newExt.options.rounds = append(newExt.options.rounds, rounds...)
	return newExt
}

// Workers sets how many pages of a round are fetched concurrently.
// Values below 1 are treated as 1.
func (e *Extractor) Workers(n int) *Extractor {
	newExt := e.clone()
	newExt.options.workers = max(n, 1)
	return newExt
}

// MergeThreshold sets the row distance below which fragments join one line.
func (e *Extractor) MergeThreshold(threshold float64) *Extractor {
	newExt := e.clone()
	newExt.options.line.MergeThreshold = threshold
	return newExt
}

// Boilerplate replaces the keywords that mark header and footer lines.
func (e *Extractor) Boilerplate(keywords ...string) *Extractor {
	newExt := e.clone()
	newExt.options.classifier.Boilerplate.Keywords = append([]string(nil), keywords...)
	return newExt
}

// QuestionRange sets the accepted question numbers (inclusive).
func (e *Extractor) QuestionRange(minQuestion, maxQuestion int) *Extractor {
	newExt := e.clone()
	if minQuestion < 1 || maxQuestion < minQuestion {
		newExt.err = fmt.Errorf("invalid question range [%d,%d]", minQuestion, maxQuestion)
		return newExt
	}
	newExt.options.classifier.MinQuestion = minQuestion
	newExt.options.classifier.MaxQuestion = maxQuestion
	return newExt
}

// DetectHeadersFooters removes lines repeated at the same edge of most pages
// of a round, such as running titles and page numbers, before segmentation.
// It complements the boilerplate keyword list.
func (e *Extractor) DetectHeadersFooters() *Extractor {
	newExt := e.clone()
	hf := layout.DefaultHeaderFooterConfig()
	newExt.options.headerFooter = &hf
	return newExt
}

// WithLogger sets the logger that receives per-page debug records.
func (e *Extractor) WithLogger(logger *slog.Logger) *Extractor {
	newExt := e.clone()
	if logger == nil {
		logger = discardLogger()
	}
	newExt.logger = logger
	return newExt
}

// Extract extracts every selected round and returns the questions with a
// diagnostic report. Missing or unreadable pages, duplicate question numbers
// and empty rounds are reported as warnings; only an invalid configuration,
// an unknown round or context cancellation returns an error.
//
// Example:
//
//	questions, report, err := quizapp.New(src, counts).Extract(ctx)
func (e *Extractor) Extract(ctx context.Context) (*model.Collection, *Report, error) {
	if e.err != nil {
		return nil, nil, e.err
	}

	rounds, err := e.resolveRounds()
	if err != nil {
		return nil, nil, err
	}

	classifier := exam.NewClassifierWithConfig(e.options.classifier)
	collection := model.NewCollection()
	report := newReport()

	for _, r := range rounds {
		round, rr, warnings, err := e.extractRound(ctx, r, classifier)
		if err != nil {
			return nil, nil, err
		}
		collection.Add(round)
		report.Rounds = append(report.Rounds, rr)
		report.Warnings = append(report.Warnings, warnings...)
	}

	return collection, report, nil
}

// ExtractRound extracts a single round.
func (e *Extractor) ExtractRound(ctx context.Context, round int) (*model.Round, *Report, error) {
	if e.err != nil {
		return nil, nil, e.err
	}
	if _, ok := e.pageCounts[round]; !ok {
		return nil, nil, fmt.Errorf("%w: %d", config.ErrUnknownRound, round)
	}

	classifier := exam.NewClassifierWithConfig(e.options.classifier)
	result, rr, warnings, err := e.extractRound(ctx, round, classifier)
	if err != nil {
		return nil, nil, err
	}

	report := newReport()
	report.Rounds = []RoundReport{rr}
	report.Warnings = warnings
	return result, report, nil
}

// resolveRounds returns the rounds to extract in ascending order
func (e *Extractor) resolveRounds() ([]int, error) {
	if len(e.options.rounds) == 0 {
		rounds := make([]int, 0, len(e.pageCounts))
		for r := range e.pageCounts {
			rounds = append(rounds, r)
		}
		sort.Ints(rounds)
		return rounds, nil
	}

	seen := make(map[int]bool)
	var rounds []int
	for _, r := range e.options.rounds {
		if _, ok := e.pageCounts[r]; !ok {
			return nil, fmt.Errorf("%w: %d", config.ErrUnknownRound, r)
		}
		if !seen[r] {
			seen[r] = true
			rounds = append(rounds, r)
		}
	}
	sort.Ints(rounds)
	return rounds, nil
}

// pageResult holds what was fetched for a single page.
type pageResult struct {
	fragments []text.Fragment
	err       error
}

// extractRound fetches a round's pages concurrently, then normalizes and
// segments them in page order.
func (e *Extractor) extractRound(ctx context.Context, round int, classifier *exam.Classifier) (*model.Round, RoundReport, []Warning, error) {
	pageCount := e.pageCounts[round]
	rr := RoundReport{Round: round, PagesConfigured: pageCount}
	results := make([]pageResult, pageCount)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(e.options.workers, 1))
	for i := range results {
		page := i + 1
		g.Go(func() error {
			frags, err := e.source.Fragments(gctx, round, page)
			if err != nil && gctx.Err() != nil {
				return gctx.Err()
			}
			results[i] = pageResult{fragments: frags, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, rr, nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, rr, nil, err
	}

	var warnings []Warning
	var all []text.Fragment
	for i, res := range results {
		page := i + 1
		if res.err != nil {
			kind := UnreadablePage
			if errors.Is(res.err, source.ErrPageNotFound) {
				kind = MissingPage
			}
			warnings = append(warnings, Warning{Kind: kind, Round: round, Page: page, Message: res.err.Error()})
			rr.SkippedPages = append(rr.SkippedPages, page)
			e.logger.Debug("page skipped", "round", round, "page", page, "error", res.err)
			continue
		}

		rr.PagesProcessed++
		for _, f := range res.fragments {
			// the page asked for is authoritative for ordering
			f.Page = page
			all = append(all, f)
		}
		e.logger.Debug("page read", "round", round, "page", page, "fragments", len(res.fragments))
	}

	lines := layout.NewNormalizerWithConfig(e.options.line).Normalize(all)
	logical := lines.Lines
	if e.options.headerFooter != nil {
		hfConfig := *e.options.headerFooter
		hfConfig.Keep = classifier.IsQuestionStart
		hf := layout.NewHeaderFooterDetectorWithConfig(hfConfig).Detect(logical)
		logical, rr.HeaderFooterLines = hf.Filter(logical)
		if hf.HasHeadersOrFooters() {
			e.logger.Debug("headers and footers removed", "round", round, "texts", hf.Texts(), "lines", rr.HeaderFooterLines)
		}
	}
	result, stats := exam.SegmentLines(round, logical, classifier)

	rr.Questions = result.Len()
	rr.DuplicateNumbers = stats.Duplicates
	rr.Incomplete = result.Incomplete()
	rr.DroppedFragments = lines.Dropped
	rr.DiscardedLines = stats.Discarded

	for _, n := range stats.Duplicates {
		warnings = append(warnings, Warning{
			Kind:     DuplicateQuestion,
			Round:    round,
			Question: n,
			Message:  "later occurrence replaced the earlier one",
		})
	}
	if result.Len() == 0 {
		warnings = append(warnings, Warning{Kind: EmptyRound, Round: round, Message: "no questions found"})
	}

	e.logger.Debug("round extracted", "round", round, "questions", rr.Questions, "skipped_pages", len(rr.SkippedPages))
	return result, rr, warnings, nil
}
