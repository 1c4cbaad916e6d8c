package layout

import (
	"math"
	"sort"
	"testing"

	"github.com/samplegit/quiz-app/text"
)

// makeFragment creates a test fragment at the given page position
func makeFragment(page int, row, column float64, txt string) text.Fragment {
	return text.Fragment{
		Page:       page,
		Row:        row,
		Column:     column,
		Text:       txt,
		Confidence: 0.9,
	}
}

func TestNormalizer_EmptyFragments(t *testing.T) {
	normalizer := NewNormalizer()
	result := normalizer.Normalize(nil)

	if result == nil {
		t.Fatal("Expected non-nil result")
	}
	if result.LineCount() != 0 {
		t.Errorf("Expected 0 lines, got %d", result.LineCount())
	}
	if result.Config.MergeThreshold != 20 {
		t.Errorf("Expected default threshold 20, got %v", result.Config.MergeThreshold)
	}
}

func TestNormalizer_SingleFragment(t *testing.T) {
	normalizer := NewNormalizer()
	result := normalizer.Normalize([]text.Fragment{
		makeFragment(1, 100, 40, "1. 다음 중 옳은 것은?"),
	})

	if result.LineCount() != 1 {
		t.Fatalf("Expected 1 line, got %d", result.LineCount())
	}

	line := result.Lines[0]
	if line.Text != "1. 다음 중 옳은 것은?" {
		t.Errorf("Expected question text, got '%s'", line.Text)
	}
	if line.Key != (OrderKey{Page: 1, Row: 100, Column: 40}) {
		t.Errorf("Unexpected key %+v", line.Key)
	}
}

func TestNormalizer_SameRowMergedLeftToRight(t *testing.T) {
	normalizer := NewNormalizer()
	result := normalizer.Normalize([]text.Fragment{
		makeFragment(1, 205, 400, "② Banana"),
		makeFragment(1, 200, 40, "① Apple"),
	})

	if result.LineCount() != 1 {
		t.Fatalf("Expected 1 line, got %d", result.LineCount())
	}
	if result.Lines[0].Text != "① Apple  ② Banana" {
		t.Errorf("Expected '① Apple  ② Banana', got '%s'", result.Lines[0].Text)
	}
	if len(result.Lines[0].Fragments) != 2 {
		t.Errorf("Expected 2 fragments, got %d", len(result.Lines[0].Fragments))
	}
}

func TestNormalizer_RowsBeyondThresholdSplit(t *testing.T) {
	normalizer := NewNormalizer()
	result := normalizer.Normalize([]text.Fragment{
		makeFragment(1, 100, 40, "one"),
		makeFragment(1, 119, 40, "still one"),
		makeFragment(1, 120, 40, "two"),
		makeFragment(1, 160, 40, "three"),
	})

	expected := []string{"one  still one", "two", "three"}
	texts := result.Texts()
	if len(texts) != len(expected) {
		t.Fatalf("Expected %d lines, got %d: %v", len(expected), len(texts), texts)
	}
	for i, want := range expected {
		if texts[i] != want {
			t.Errorf("Line %d: expected '%s', got '%s'", i, want, texts[i])
		}
	}
}

func TestNormalizer_ThresholdMeasuredFromAnchor(t *testing.T) {
	normalizer := NewNormalizer()
	// 100 -> 115 -> 130: each step is under 20 but 130 is 30 from the anchor
	result := normalizer.Normalize([]text.Fragment{
		makeFragment(1, 100, 10, "a"),
		makeFragment(1, 115, 10, "b"),
		makeFragment(1, 130, 10, "c"),
	})

	if result.LineCount() != 2 {
		t.Fatalf("Expected 2 lines, got %d", result.LineCount())
	}
	if result.Lines[1].Text != "c" {
		t.Errorf("Expected second line 'c', got '%s'", result.Lines[1].Text)
	}
}

func TestNormalizer_PagesNeverMerge(t *testing.T) {
	normalizer := NewNormalizer()
	result := normalizer.Normalize([]text.Fragment{
		makeFragment(2, 100, 10, "page two"),
		makeFragment(1, 105, 10, "page one"),
		makeFragment(1, 2000, 10, "page one bottom"),
	})

	expected := []string{"page one", "page one bottom", "page two"}
	texts := result.Texts()
	if len(texts) != 3 {
		t.Fatalf("Expected 3 lines, got %v", texts)
	}
	for i, want := range expected {
		if texts[i] != want {
			t.Errorf("Line %d: expected '%s', got '%s'", i, want, texts[i])
		}
	}
}

func TestNormalizer_DropsMalformedFragments(t *testing.T) {
	normalizer := NewNormalizer()
	result := normalizer.Normalize([]text.Fragment{
		makeFragment(1, 100, 10, "kept"),
		makeFragment(1, 100, 50, "   "),
		makeFragment(1, math.NaN(), 10, "nan row"),
		makeFragment(0, 100, 10, "no page"),
	})

	if result.Dropped != 3 {
		t.Errorf("Expected 3 dropped fragments, got %d", result.Dropped)
	}
	if result.LineCount() != 1 || result.Lines[0].Text != "kept" {
		t.Errorf("Expected single line 'kept', got %v", result.Texts())
	}
}

func TestNormalizer_CustomThreshold(t *testing.T) {
	fragments := []text.Fragment{
		makeFragment(1, 100, 10, "a"),
		makeFragment(1, 108, 10, "b"),
	}

	tight := NewNormalizerWithConfig(LineConfig{MergeThreshold: 5})
	if n := tight.Normalize(fragments).LineCount(); n != 2 {
		t.Errorf("Expected 2 lines with threshold 5, got %d", n)
	}

	defaulted := NewNormalizerWithConfig(LineConfig{})
	if n := defaulted.Normalize(fragments).LineCount(); n != 1 {
		t.Errorf("Expected zero threshold to fall back to default, got %d lines", n)
	}
}

func TestNormalizer_OrderingProperty(t *testing.T) {
	fragments := []text.Fragment{
		makeFragment(2, 300, 10, "p2 r300"),
		makeFragment(1, 500, 90, "p1 r500 right"),
		makeFragment(1, 80, 10, "p1 r80"),
		makeFragment(2, 40, 10, "p2 r40"),
		makeFragment(1, 505, 10, "p1 r505 left"),
		makeFragment(1, 260, 10, "p1 r260"),
	}

	result := NewNormalizer().Normalize(fragments)

	// Line keys must be strictly increasing in (page, row, column)
	keys := make([]OrderKey, len(result.Lines))
	for i, line := range result.Lines {
		keys[i] = line.Key
	}
	if !sort.SliceIsSorted(keys, func(i, j int) bool { return keys[i].Less(keys[j]) }) {
		t.Errorf("Expected keys in page/row/column order, got %+v", keys)
	}

	expected := []string{"p1 r80", "p1 r260", "p1 r505 left  p1 r500 right", "p2 r40", "p2 r300"}
	texts := result.Texts()
	if len(texts) != len(expected) {
		t.Fatalf("Expected %d lines, got %v", len(expected), texts)
	}
	for i, want := range expected {
		if texts[i] != want {
			t.Errorf("Line %d: expected '%s', got '%s'", i, want, texts[i])
		}
	}
}

func TestNormalizer_Idempotent(t *testing.T) {
	normalizer := NewNormalizer()
	first := normalizer.Normalize([]text.Fragment{
		makeFragment(1, 100, 300, "② Banana"),
		makeFragment(1, 102, 20, "① Apple"),
		makeFragment(1, 140, 20, "③ Cherry"),
		makeFragment(1, 171, 20, "wrapped"),
		makeFragment(2, 10, 20, "2. Next"),
	})

	collapsed := make([]text.Fragment, len(first.Lines))
	for i, line := range first.Lines {
		collapsed[i] = text.Fragment{Page: line.Key.Page, Row: line.Key.Row, Column: line.Key.Column, Text: line.Text}
	}
	second := normalizer.Normalize(collapsed)

	if second.LineCount() != first.LineCount() {
		t.Fatalf("Expected %d lines after re-normalizing, got %d", first.LineCount(), second.LineCount())
	}
	for i := range first.Lines {
		if first.Lines[i].Text != second.Lines[i].Text {
			t.Errorf("Line %d text changed: '%s' -> '%s'", i, first.Lines[i].Text, second.Lines[i].Text)
		}
		if first.Lines[i].Key != second.Lines[i].Key {
			t.Errorf("Line %d key changed: %+v -> %+v", i, first.Lines[i].Key, second.Lines[i].Key)
		}
	}
}
