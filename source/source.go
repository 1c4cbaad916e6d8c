// Package source supplies the recognized text fragments of exam pages.
//
// A Source answers one question: what fragments were recognized on page p of
// round r. Dir reads page scans (or their hOCR output) from a directory and
// runs OCR on demand; Static serves fragments held in memory.
package source

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/samplegit/quiz-app/text"
)

// ErrPageNotFound is returned when no scan or hOCR file exists for a page.
var ErrPageNotFound = errors.New("page not found")

// ErrMultiPageHOCR is returned when a page's hOCR file holds several pages.
var ErrMultiPageHOCR = errors.New("hOCR file holds more than one page")

// Source provides the recognized fragments of one page.
// Implementations must be safe for concurrent use.
type Source interface {
	Fragments(ctx context.Context, round, page int) ([]text.Fragment, error)
}

// Recognizer turns a prepared page image into fragments.
// ocr.Client satisfies this interface.
type Recognizer interface {
	Recognize(imageData []byte, page int) ([]text.Fragment, error)
	Close() error
}

// NewRecognizerFunc creates a Recognizer for one worker
type NewRecognizerFunc func() (Recognizer, error)

type pageKey struct {
	round, page int
}

// Static is an in-memory Source
type Static struct {
	mu     sync.RWMutex
	pages  map[pageKey][]text.Fragment
	errors map[pageKey]error
}

// NewStatic creates an empty in-memory source
func NewStatic() *Static {
	return &Static{
		pages:  make(map[pageKey][]text.Fragment),
		errors: make(map[pageKey]error),
	}
}

// Set stores the fragments of a page, replacing earlier ones.
// Fragments with a zero Page are tagged with page.
func (s *Static) Set(round, page int, frags ...text.Fragment) *Static {
	stored := make([]text.Fragment, len(frags))
	for i, f := range frags {
		if f.Page == 0 {
			f.Page = page
		}
		stored[i] = f
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pages[pageKey{round, page}] = stored
	delete(s.errors, pageKey{round, page})
	return s
}

// SetError makes a page fail with err
func (s *Static) SetError(round, page int, err error) *Static {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errors[pageKey{round, page}] = err
	delete(s.pages, pageKey{round, page})
	return s
}

// Pages returns the stored page numbers of a round in ascending order
func (s *Static) Pages(round int) []int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var pages []int
	for k := range s.pages {
		if k.round == round {
			pages = append(pages, k.page)
		}
	}
	sort.Ints(pages)
	return pages
}

// Fragments returns a copy of the stored fragments
func (s *Static) Fragments(ctx context.Context, round, page int) ([]text.Fragment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if err, ok := s.errors[pageKey{round, page}]; ok {
		return nil, err
	}
	frags, ok := s.pages[pageKey{round, page}]
	if !ok {
		return nil, fmt.Errorf("%w: round %d page %d", ErrPageNotFound, round, page)
	}
	return append([]text.Fragment(nil), frags...), nil
}
