package layout

import (
	"strings"

	"github.com/samplegit/quiz-app/text"
)

// BoilerplateConfig holds the phrases that mark a line as page header,
// footer or instruction boilerplate
type BoilerplateConfig struct {
	// Keywords are matched as substrings of a line's normalized text
	Keywords []string
}

// DefaultBoilerplateKeywords returns the round-title, publisher and
// instruction phrases printed on every page of the mock exam booklets
func DefaultBoilerplateKeywords() []string {
	return []string{
		"적중",
		"간호조무사국가시험",
		"모의고사",
		"본 모의고사는",
		"전국간호",
		"제공하는",
		"가장 적합한 답",
		"안내문",
	}
}

// DefaultBoilerplateConfig returns the default boilerplate configuration
func DefaultBoilerplateConfig() BoilerplateConfig {
	return BoilerplateConfig{
		Keywords: DefaultBoilerplateKeywords(),
	}
}

// BoilerplateFilter recognizes header and footer lines by keyword
type BoilerplateFilter struct {
	keywords []string
}

// NewBoilerplateFilter creates a filter with the default keywords
func NewBoilerplateFilter() *BoilerplateFilter {
	return NewBoilerplateFilterWithConfig(DefaultBoilerplateConfig())
}

// NewBoilerplateFilterWithConfig creates a filter with custom keywords.
// Blank keywords are ignored.
func NewBoilerplateFilterWithConfig(config BoilerplateConfig) *BoilerplateFilter {
	f := &BoilerplateFilter{}
	for _, kw := range config.Keywords {
		kw = text.Normalize(kw)
		if kw != "" {
			f.keywords = append(f.keywords, kw)
		}
	}
	return f
}

// Match returns the first keyword contained in the line, if any
func (f *BoilerplateFilter) Match(line string) (string, bool) {
	for _, kw := range f.keywords {
		if strings.Contains(line, kw) {
			return kw, true
		}
	}
	return "", false
}

// IsBoilerplate reports whether the line contains any configured keyword
func (f *BoilerplateFilter) IsBoilerplate(line string) bool {
	_, ok := f.Match(line)
	return ok
}

// Keywords returns the normalized keywords in match order
func (f *BoilerplateFilter) Keywords() []string {
	return append([]string(nil), f.keywords...)
}
