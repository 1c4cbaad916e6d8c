package source

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/samplegit/quiz-app/format"
	"github.com/samplegit/quiz-app/hocr"
	"github.com/samplegit/quiz-app/imaging"
	"github.com/samplegit/quiz-app/ocr"
	"github.com/samplegit/quiz-app/text"
)

// DirConfig holds configuration for a directory source
type DirConfig struct {
	// Dir is the directory holding page scans
	Dir string

	// Pattern names a page file without extension; it receives round and page
	// Default: "round%d_page%d"
	Pattern string

	// PreferHOCR reads an existing .hocr file instead of running OCR
	// Default: false
	PreferHOCR bool

	// Recognizers is the number of recognizers kept in the pool
	// Default: 1
	Recognizers int

	// Retries is the number of additional recognition attempts per page
	// Default: 2
	Retries int

	// RetryDelay is the initial delay between attempts
	// Default: 200ms
	RetryDelay time.Duration

	// Imaging controls scan preparation before OCR
	Imaging imaging.Options
}

// DefaultDirConfig returns the default directory source configuration
func DefaultDirConfig() DirConfig {
	return DirConfig{
		Pattern:     "round%d_page%d",
		Recognizers: 1,
		Retries:     2,
		RetryDelay:  200 * time.Millisecond,
		Imaging:     imaging.DefaultOptions(),
	}
}

// PageFiles lists the files found for one page
type PageFiles struct {
	Base  string
	Image string
	HOCR  string
}

// Dir reads pages from a directory of scans named by a pattern.
// Scans are recognized with recognizers drawn from a bounded pool; a sibling
// .hocr file is used when PreferHOCR is set, when no recognizer is
// available, or when recognition fails.
type Dir struct {
	config        DirConfig
	newRecognizer NewRecognizerFunc

	pool    chan Recognizer
	mu      sync.Mutex
	created int
	closed  bool
}

// NewDir creates a directory source. newRecognizer may be nil, in which case
// only hOCR files are read.
func NewDir(config DirConfig, newRecognizer NewRecognizerFunc) *Dir {
	defaults := DefaultDirConfig()
	if config.Pattern == "" {
		config.Pattern = defaults.Pattern
	}
	if config.Recognizers <= 0 {
		config.Recognizers = defaults.Recognizers
	}
	if config.Retries < 0 {
		config.Retries = 0
	}
	return &Dir{
		config:        config,
		newRecognizer: newRecognizer,
		pool:          make(chan Recognizer, config.Recognizers),
	}
}

// Config returns the effective configuration
func (d *Dir) Config() DirConfig {
	return d.config
}

// Locate finds the scan and hOCR files of a page
func (d *Dir) Locate(round, page int) PageFiles {
	base := filepath.Join(d.config.Dir, fmt.Sprintf(d.config.Pattern, round, page))
	files := PageFiles{Base: base}

	for _, ext := range format.ImageExtensions() {
		if isFile(base + ext) {
			files.Image = base + ext
			break
		}
	}
	if isFile(base + format.HOCR.Extension()) {
		files.HOCR = base + format.HOCR.Extension()
	}
	return files
}

// Fragments returns the fragments of a page
func (d *Dir) Fragments(ctx context.Context, round, page int) ([]text.Fragment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	files := d.Locate(round, page)
	if files.Image == "" && files.HOCR == "" {
		return nil, fmt.Errorf("%w: %s", ErrPageNotFound, files.Base)
	}

	if files.HOCR != "" && (d.config.PreferHOCR || files.Image == "" || d.newRecognizer == nil) {
		return readHOCR(files.HOCR, page)
	}
	if files.Image == "" || d.newRecognizer == nil {
		return nil, fmt.Errorf("%w: %s (no recognizer for scan)", ErrPageNotFound, files.Base)
	}

	frags, err := d.recognizeFile(ctx, files.Image, page)
	if err != nil && files.HOCR != "" && ctx.Err() == nil {
		return readHOCR(files.HOCR, page)
	}
	return frags, err
}

// readHOCR parses a page's hOCR file. A file holding more than one ocr_page
// is rejected: its later pages have no place in the round's page order.
func readHOCR(path string, page int) ([]text.Fragment, error) {
	frags, err := hocr.ParseFile(path, page)
	if err != nil {
		return nil, err
	}
	for _, f := range frags {
		if f.Page != page {
			return nil, fmt.Errorf("%w: %s", ErrMultiPageHOCR, path)
		}
	}
	return frags, nil
}

func (d *Dir) recognizeFile(ctx context.Context, path string, page int) ([]text.Fragment, error) {
	prepared, err := imaging.LoadPage(path, d.config.Imaging)
	if err != nil {
		return nil, err
	}

	var frags []text.Fragment
	err = retry.Do(
		func() error {
			rec, err := d.acquire(ctx)
			if err != nil {
				return err
			}
			result, err := rec.Recognize(prepared.Data, page)
			d.release(rec)
			if err != nil {
				return err
			}
			frags = result
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(uint(d.config.Retries+1)),
		retry.Delay(d.config.RetryDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return !errors.Is(err, ocr.ErrOCRNotEnabled) &&
				!errors.Is(err, context.Canceled) &&
				!errors.Is(err, context.DeadlineExceeded)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: recognition failed: %w", path, err)
	}

	for i := range frags {
		frags[i] = frags[i].Scale(prepared.Scale)
	}
	return frags, nil
}

// acquire takes a recognizer from the pool, creating one while the pool is
// below its size, and otherwise waits for one to be released.
func (d *Dir) acquire(ctx context.Context) (Recognizer, error) {
	select {
	case rec := <-d.pool:
		return rec, nil
	default:
	}

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil, errors.New("source closed")
	}
	if d.created < d.config.Recognizers {
		d.created++
		d.mu.Unlock()
		rec, err := d.newRecognizer()
		if err != nil {
			d.mu.Lock()
			d.created--
			d.mu.Unlock()
			return nil, err
		}
		return rec, nil
	}
	d.mu.Unlock()

	select {
	case rec := <-d.pool:
		return rec, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (d *Dir) release(rec Recognizer) {
	d.mu.Lock()
	closed := d.closed
	d.mu.Unlock()
	if closed {
		rec.Close()
		return
	}
	d.pool <- rec
}

// Close releases every pooled recognizer
func (d *Dir) Close() error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()

	var errs []error
	for {
		select {
		case rec := <-d.pool:
			if err := rec.Close(); err != nil {
				errs = append(errs, err)
			}
		default:
			return errors.Join(errs...)
		}
	}
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
