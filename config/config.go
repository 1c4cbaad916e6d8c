// Package config loads extraction settings from a YAML file, QUIZOCR_
// environment variables and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/samplegit/quiz-app/layout"
)

// ErrUnknownRound is returned for a round that has no entry in the round table.
var ErrUnknownRound = errors.New("unknown round")

// Config holds every extraction setting.
type Config struct {
	// Input and output
	ImageDir     string `mapstructure:"image_dir" yaml:"image_dir"`
	ImagePattern string `mapstructure:"image_pattern" yaml:"image_pattern"`
	Output       string `mapstructure:"output" yaml:"output"`
	Format       string `mapstructure:"format" yaml:"format"` // "js" or "json"; empty picks by extension

	// Recognition
	Language    string `mapstructure:"language" yaml:"language"`
	PageSegMode int    `mapstructure:"page_seg_mode" yaml:"page_seg_mode"`
	PreferHOCR  bool   `mapstructure:"prefer_hocr" yaml:"prefer_hocr"`
	MinWidth    int    `mapstructure:"min_width" yaml:"min_width"` // scans narrower than this are upscaled

	// Concurrency and retries
	Workers      int `mapstructure:"workers" yaml:"workers"`
	Retries      int `mapstructure:"retries" yaml:"retries"`
	RetryDelayMS int `mapstructure:"retry_delay_ms" yaml:"retry_delay_ms"`

	// Segmentation
	MergeThreshold float64  `mapstructure:"merge_threshold" yaml:"merge_threshold"`
	MinQuestion    int      `mapstructure:"min_question" yaml:"min_question"`
	MaxQuestion    int      `mapstructure:"max_question" yaml:"max_question"`
	Boilerplate    []string `mapstructure:"boilerplate" yaml:"boilerplate"`

	// Remove lines repeated at the top or bottom of most pages of a round
	DetectHeadersFooters bool `mapstructure:"detect_headers_footers" yaml:"detect_headers_footers"`

	Rounds []RoundSpec `mapstructure:"rounds" yaml:"rounds"`
}

// RoundSpec configures one exam round. A zero Pages is derived from PDF.
type RoundSpec struct {
	Round int    `mapstructure:"round" yaml:"round"`
	Pages int    `mapstructure:"pages" yaml:"pages"`
	PDF   string `mapstructure:"pdf" yaml:"pdf,omitempty"`
}

// DefaultRounds returns the round table of the mock-exam series:
// rounds 1-6 have 14 pages, rounds 7-16 and 18 have 15.
func DefaultRounds() []RoundSpec {
	var rounds []RoundSpec
	for r := 1; r <= 6; r++ {
		rounds = append(rounds, RoundSpec{Round: r, Pages: 14})
	}
	for r := 7; r <= 16; r++ {
		rounds = append(rounds, RoundSpec{Round: r, Pages: 15})
	}
	return append(rounds, RoundSpec{Round: 18, Pages: 15})
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		ImageDir:       "images",
		ImagePattern:   "round%d_page%d",
		Output:         "questions_data.js",
		Language:       "kor+eng",
		PageSegMode:    3,
		MinWidth:       1600,
		Workers:        1,
		Retries:        2,
		RetryDelayMS:   200,
		MergeThreshold: layout.DefaultLineConfig().MergeThreshold,
		MinQuestion:    1,
		MaxQuestion:    105,
		Boilerplate:    layout.DefaultBoilerplateKeywords(),
		Rounds:         DefaultRounds(),
	}
}

// Load reads configuration from cfgFile, or from ./quizocr.yaml or
// $HOME/.quizocr/quizocr.yaml when cfgFile is empty. A missing default file
// is not an error.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("image_dir", defaults.ImageDir)
	v.SetDefault("image_pattern", defaults.ImagePattern)
	v.SetDefault("output", defaults.Output)
	v.SetDefault("format", defaults.Format)
	v.SetDefault("language", defaults.Language)
	v.SetDefault("page_seg_mode", defaults.PageSegMode)
	v.SetDefault("prefer_hocr", defaults.PreferHOCR)
	v.SetDefault("min_width", defaults.MinWidth)
	v.SetDefault("workers", defaults.Workers)
	v.SetDefault("retries", defaults.Retries)
	v.SetDefault("retry_delay_ms", defaults.RetryDelayMS)
	v.SetDefault("merge_threshold", defaults.MergeThreshold)
	v.SetDefault("min_question", defaults.MinQuestion)
	v.SetDefault("max_question", defaults.MaxQuestion)
	v.SetDefault("boilerplate", defaults.Boilerplate)
	v.SetDefault("detect_headers_footers", defaults.DetectHeadersFooters)
	v.SetDefault("rounds", defaults.Rounds)

	// Environment variables with QUIZOCR_ prefix
	v.SetEnvPrefix("QUIZOCR")
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("quizocr")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.quizocr")
	}

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for values the pipeline cannot use.
func (c *Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.Retries < 0 {
		return fmt.Errorf("retries must not be negative, got %d", c.Retries)
	}
	if c.MergeThreshold <= 0 {
		return fmt.Errorf("merge_threshold must be positive, got %v", c.MergeThreshold)
	}
	if c.MinQuestion < 1 || c.MaxQuestion > 999 || c.MinQuestion > c.MaxQuestion {
		return fmt.Errorf("question range [%d,%d] must lie within [1,999]", c.MinQuestion, c.MaxQuestion)
	}
	if c.PageSegMode < 0 || c.PageSegMode > 13 {
		return fmt.Errorf("page_seg_mode must be between 0 and 13, got %d", c.PageSegMode)
	}
	if c.Format != "" && c.Format != "js" && c.Format != "json" {
		return fmt.Errorf("format must be js or json, got %q", c.Format)
	}

	seen := make(map[int]bool, len(c.Rounds))
	for _, r := range c.Rounds {
		if r.Round < 1 {
			return fmt.Errorf("round numbers must be positive, got %d", r.Round)
		}
		if r.Pages < 0 {
			return fmt.Errorf("round %d: page count must not be negative, got %d", r.Round, r.Pages)
		}
		if r.Pages == 0 && r.PDF == "" {
			return fmt.Errorf("round %d: pages is 0 and no pdf is configured", r.Round)
		}
		if seen[r.Round] {
			return fmt.Errorf("round %d is configured twice", r.Round)
		}
		seen[r.Round] = true
	}
	return nil
}

// RetryDelay returns the retry delay as a duration
func (c *Config) RetryDelay() time.Duration {
	return time.Duration(c.RetryDelayMS) * time.Millisecond
}

// RoundNumbers returns the configured rounds in ascending order.
func (c *Config) RoundNumbers() []int {
	nums := make([]int, 0, len(c.Rounds))
	for _, r := range c.Rounds {
		nums = append(nums, r.Round)
	}
	sort.Ints(nums)
	return nums
}

// PageCount returns the number of pages of a round.
func (c *Config) PageCount(round int) (int, error) {
	for _, r := range c.Rounds {
		if r.Round == round {
			return r.Pages, nil
		}
	}
	return 0, fmt.Errorf("%w: %d", ErrUnknownRound, round)
}

// PageCounts returns the round table as a map of round to page count.
func (c *Config) PageCounts() map[int]int {
	counts := make(map[int]int, len(c.Rounds))
	for _, r := range c.Rounds {
		counts[r.Round] = r.Pages
	}
	return counts
}

// ResolvePageCounts fills in the page count of every round whose pages is 0
// from the page count of its exam PDF.
func (c *Config) ResolvePageCounts() error {
	for i, r := range c.Rounds {
		if r.Pages > 0 || r.PDF == "" {
			continue
		}
		n, err := pdfPageCount(r.PDF)
		if err != nil {
			return fmt.Errorf("round %d: %w", r.Round, err)
		}
		c.Rounds[i].Pages = n
	}
	return nil
}

func pdfPageCount(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open PDF %s: %w", path, err)
	}
	defer f.Close()

	n, err := api.PageCount(f, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to get page count for %s: %w", path, err)
	}
	return n, nil
}

// YAML returns the configuration in the config file format.
func (c *Config) YAML() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// WriteDefault writes the default configuration to the specified path.
func WriteDefault(path string) error {
	data, err := DefaultConfig().YAML()
	if err != nil {
		return err
	}

	header := []byte(`# quizocr configuration
# Every key can be overridden with a QUIZOCR_ environment variable,
# e.g. QUIZOCR_WORKERS=4 or QUIZOCR_IMAGE_DIR=/data/scans

`)
	return os.WriteFile(path, append(header, data...), 0o644)
}
