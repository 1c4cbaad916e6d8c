package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	quizapp "github.com/samplegit/quiz-app"
	"github.com/samplegit/quiz-app/config"
	"github.com/samplegit/quiz-app/export"
	"github.com/samplegit/quiz-app/ocr"
)

var (
	extractRounds  []int
	extractOut     string
	extractFormat  string
	extractWorkers int
	extractHOCR    bool
	extractDir     string
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract questions from page scans",
	Long: `Extract recognizes every configured page, segments the text into questions
and writes the collection to the output file.

Missing or unreadable pages are skipped with a warning; the run only fails on
configuration, cancellation or output errors.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		applyExtractFlags(cmd, cfg)

		if err := cfg.ResolvePageCounts(); err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		outFormat, err := outputFormat(cfg)
		if err != nil {
			return err
		}

		if !cfg.PreferHOCR {
			if client, err := ocr.New(); errors.Is(err, ocr.ErrOCRNotEnabled) {
				slog.Warn("OCR support not compiled in; reading hOCR files only")
				cfg.PreferHOCR = true
			} else if client != nil {
				client.Close()
			}
		}

		src := quizapp.DirSource(cfg)
		defer src.Close()

		ext := quizapp.FromConfig(cfg, src).WithLogger(slog.Default())
		if len(extractRounds) > 0 {
			ext = ext.Rounds(extractRounds...)
		}

		questions, report, err := ext.Extract(cmd.Context())
		if err != nil {
			return err
		}

		for _, w := range report.Warnings {
			slog.Warn(w.Kind.String(), "round", w.Round, "page", w.Page, "question", w.Question, "detail", w.Message, "run_id", report.RunID)
		}

		if err := export.WriteFile(cfg.Output, questions, outFormat); err != nil {
			return err
		}

		printSummary(cmd.OutOrStdout(), report, cfg.Output)
		return nil
	},
}

func init() {
	extractCmd.Flags().IntSliceVarP(&extractRounds, "round", "r", nil, "round to extract (repeatable; default all)")
	extractCmd.Flags().StringVarP(&extractOut, "out", "o", "", "output file (overrides config)")
	extractCmd.Flags().StringVar(&extractFormat, "format", "", "output format: js or json (default from extension)")
	extractCmd.Flags().IntVarP(&extractWorkers, "workers", "w", 0, "pages recognized concurrently (overrides config)")
	extractCmd.Flags().BoolVar(&extractHOCR, "hocr", false, "read .hocr files instead of running OCR")
	extractCmd.Flags().StringVar(&extractDir, "images", "", "directory of page scans (overrides config)")
}

// applyExtractFlags overrides config values with flags the user set
func applyExtractFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("out") {
		cfg.Output = extractOut
	}
	if flags.Changed("format") {
		cfg.Format = extractFormat
	}
	if flags.Changed("workers") {
		cfg.Workers = extractWorkers
	}
	if flags.Changed("hocr") {
		cfg.PreferHOCR = extractHOCR
	}
	if flags.Changed("images") {
		cfg.ImageDir = extractDir
	}
}

// outputFormat picks the output format from config, then the file extension
func outputFormat(cfg *config.Config) (export.Format, error) {
	if cfg.Format != "" {
		return export.ParseFormat(cfg.Format)
	}
	return export.DetectFormat(cfg.Output), nil
}

// printSummary prints per-round question counts and the grand total
func printSummary(w io.Writer, report *quizapp.Report, output string) {
	fmt.Fprintln(w, "Extraction summary:")
	for _, rr := range report.Rounds {
		line := fmt.Sprintf("  round %2d: %3d questions", rr.Round, rr.Questions)
		if len(rr.SkippedPages) > 0 {
			line += fmt.Sprintf(" (skipped pages %v)", rr.SkippedPages)
		}
		if len(rr.Incomplete) > 0 {
			line += fmt.Sprintf(" [%d incomplete]", len(rr.Incomplete))
		}
		fmt.Fprintln(w, line)
	}
	fmt.Fprintf(w, "  total:    %3d questions\n", report.TotalQuestions())
	fmt.Fprintf(w, "Wrote %s\n", output)
}
