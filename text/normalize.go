package text

import (
	"strings"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// Normalize prepares recognized text for classification.
//
// Hangul is composed to NFC so decomposed jamo sequences compare equal to
// their precomposed syllables, and full-width ASCII (digits, periods and
// parentheses are common in Korean exam scans) is folded to its narrow form.
// NFKC is deliberately not used: it would rewrite circled digits such as ①
// into plain digits and destroy the choice markers.
func Normalize(s string) string {
	s = norm.NFC.String(s)
	s = width.Fold.String(s)
	return strings.TrimSpace(s)
}

// NormalizeFragments returns copies of the fragments with normalized text.
func NormalizeFragments(fragments []Fragment) []Fragment {
	out := make([]Fragment, len(fragments))
	for i, f := range fragments {
		f.Text = Normalize(f.Text)
		out[i] = f
	}
	return out
}
