package quizapp

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/samplegit/quiz-app/config"
	"github.com/samplegit/quiz-app/model"
	"github.com/samplegit/quiz-app/source"
	"github.com/samplegit/quiz-app/text"
)

// lines builds one page of fragments, one per line, 40 pixels apart
func lines(texts ...string) []text.Fragment {
	frags := make([]text.Fragment, len(texts))
	for i, s := range texts {
		frags[i] = text.Fragment{Row: float64(10 + i*40), Column: 50, Text: s, Confidence: 0.9}
	}
	return frags
}

func extractOne(t *testing.T, src source.Source, pages int) (*model.Round, *Report) {
	t.Helper()
	questions, report, err := New(src, map[int]int{1: pages}).Extract(context.Background())
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	round, ok := questions.Round(1)
	if !ok {
		t.Fatal("Expected round 1 in result")
	}
	return round, report
}

func TestScenarioA_OneChoicePerLine(t *testing.T) {
	src := source.NewStatic().Set(1, 1, lines(
		"1. What is X",
		"① Apple",
		"② Banana",
		"③ Cherry",
		"④ Date",
		"⑤ Egg",
		"2. Next",
	)...)

	round, _ := extractOne(t, src, 1)

	q, ok := round.Get(1)
	if !ok {
		t.Fatal("Expected question 1")
	}
	if q.Body != "What is X" {
		t.Errorf("Expected body %q, got %q", "What is X", q.Body)
	}
	want := [5]string{"Apple", "Banana", "Cherry", "Date", "Egg"}
	if q.Choices != want {
		t.Errorf("Expected choices %v, got %v", want, q.Choices)
	}

	q2, ok := round.Get(2)
	if !ok || q2.Body != "Next" {
		t.Errorf("Expected question 2 with body Next, got %+v", q2)
	}
	if q2.Resolved() != 0 {
		t.Errorf("Expected question 2 to have no choices, got %d", q2.Resolved())
	}
}

func TestScenarioB_PackedChoices(t *testing.T) {
	src := source.NewStatic().Set(1, 1, lines(
		"1. Pick one",
		"① Apple ② Banana",
	)...)

	round, _ := extractOne(t, src, 1)
	q, _ := round.Get(1)
	if q.Choice(1) != "Apple" || q.Choice(2) != "Banana" {
		t.Errorf("Expected slots 1 and 2 from one line, got %v", q.Choices)
	}
}

func TestScenarioB_PackedChoicesSplitAcrossFragments(t *testing.T) {
	// two fragments on one visual row merge into a single line
	src := source.NewStatic().Set(1, 1,
		text.Fragment{Row: 10, Column: 10, Text: "1. Pick one"},
		text.Fragment{Row: 60, Column: 400, Text: "② Banana"},
		text.Fragment{Row: 65, Column: 10, Text: "① Apple"},
	)

	round, _ := extractOne(t, src, 1)
	q, _ := round.Get(1)
	if q.Choice(1) != "Apple" || q.Choice(2) != "Banana" {
		t.Errorf("Expected slots 1 and 2 from merged row, got %v", q.Choices)
	}
}

func TestScenarioC_BoilerplateSuppressed(t *testing.T) {
	src := source.NewStatic().Set(1, 1, lines(
		"1. Body text",
		"전국모의고사 안내문",
		"① a",
	)...)

	round, report := extractOne(t, src, 1)
	q, _ := round.Get(1)
	if q.Body != "Body text" {
		t.Errorf("Expected boilerplate to be dropped from body, got %q", q.Body)
	}
	if q.Choice(1) != "a" {
		t.Errorf("Expected choice 1 %q, got %q", "a", q.Choice(1))
	}
	if rr, _ := report.Round(1); rr.DiscardedLines != 1 {
		t.Errorf("Expected 1 discarded line, got %d", rr.DiscardedLines)
	}
}

func TestScenarioD_MissingPage(t *testing.T) {
	src := source.NewStatic().
		Set(1, 1, lines("1. First", "① a")...).
		Set(1, 3, lines("2. Second", "① b")...)

	round, report := extractOne(t, src, 3)

	if round.Len() != 2 {
		t.Errorf("Expected 2 questions from pages 1 and 3, got %d", round.Len())
	}

	rr, ok := report.Round(1)
	if !ok {
		t.Fatal("Expected round report")
	}
	if rr.PagesConfigured != 3 || rr.PagesProcessed != 2 {
		t.Errorf("Expected 3 configured and 2 processed pages, got %d and %d", rr.PagesConfigured, rr.PagesProcessed)
	}
	if !reflect.DeepEqual(rr.SkippedPages, []int{2}) {
		t.Errorf("Expected skipped pages [2], got %v", rr.SkippedPages)
	}

	missing := report.WarningsOf(MissingPage)
	if len(missing) != 1 || missing[0].Page != 2 {
		t.Errorf("Expected one missing-page warning for page 2, got %v", missing)
	}
	if report.SkippedPages() != 1 {
		t.Errorf("Expected 1 skipped page in total, got %d", report.SkippedPages())
	}
}

func TestScenarioE_PartialChoices(t *testing.T) {
	src := source.NewStatic().Set(1, 1, lines(
		"7. Partial",
		"① one",
		"② two",
		"③ three",
	)...)

	round, report := extractOne(t, src, 1)
	q, ok := round.Get(7)
	if !ok {
		t.Fatal("Expected question 7")
	}
	want := [5]string{"one", "two", "three", "", ""}
	if q.Choices != want {
		t.Errorf("Expected %v, got %v", want, q.Choices)
	}
	if q.Body != "Partial" {
		t.Errorf("Expected body intact, got %q", q.Body)
	}
	if rr, _ := report.Round(1); !reflect.DeepEqual(rr.Incomplete, []int{7}) {
		t.Errorf("Expected incomplete [7], got %v", rr.Incomplete)
	}
}

func TestExtract_QuestionContinuesAcrossPages(t *testing.T) {
	// page 2 rows are smaller than page 1 rows; page order still wins
	src := source.NewStatic().
		Set(1, 1,
			text.Fragment{Row: 900, Column: 10, Text: "1. Spans pages"},
			text.Fragment{Row: 950, Column: 10, Text: "① a"},
		).
		Set(1, 2,
			text.Fragment{Row: 5, Column: 10, Text: "② b"},
			text.Fragment{Row: 60, Column: 10, Text: "2. Next"},
		)

	round, _ := extractOne(t, src, 2)
	q, _ := round.Get(1)
	if q.Choice(1) != "a" || q.Choice(2) != "b" {
		t.Errorf("Expected choices from both pages, got %v", q.Choices)
	}
	if _, ok := round.Get(2); !ok {
		t.Error("Expected question 2")
	}
}

func TestExtract_DuplicateQuestionWarning(t *testing.T) {
	src := source.NewStatic().Set(1, 1, lines(
		"3. first",
		"① x",
		"3. second",
		"① y",
	)...)

	round, report := extractOne(t, src, 1)
	q, _ := round.Get(3)
	if q.Body != "second" || q.Choice(1) != "y" {
		t.Errorf("Expected later occurrence to win, got %+v", q)
	}

	dups := report.WarningsOf(DuplicateQuestion)
	if len(dups) != 1 || dups[0].Question != 3 {
		t.Errorf("Expected one duplicate warning for question 3, got %v", dups)
	}
}

func TestExtract_EmptyRound(t *testing.T) {
	src := source.NewStatic().Set(1, 1, lines("모의고사 1회", "no questions here")...)

	round, report := extractOne(t, src, 1)
	if round.Len() != 0 {
		t.Errorf("Expected empty round, got %d questions", round.Len())
	}
	if len(report.WarningsOf(EmptyRound)) != 1 {
		t.Errorf("Expected an empty-round warning, got %v", report.Warnings)
	}
}

func TestExtract_UnreadablePage(t *testing.T) {
	src := source.NewStatic().
		SetError(1, 1, errors.New("engine crashed")).
		Set(1, 2, lines("1. Still here")...)

	round, report := extractOne(t, src, 2)
	if round.Len() != 1 {
		t.Errorf("Expected 1 question, got %d", round.Len())
	}
	unreadable := report.WarningsOf(UnreadablePage)
	if len(unreadable) != 1 || unreadable[0].Page != 1 {
		t.Errorf("Expected unreadable warning for page 1, got %v", unreadable)
	}
}

func TestExtract_RoundSelection(t *testing.T) {
	src := source.NewStatic().
		Set(1, 1, lines("1. one")...).
		Set(2, 1, lines("1. two")...).
		Set(3, 1, lines("1. three")...)
	base := New(src, map[int]int{1: 1, 2: 1, 3: 1})

	questions, _, err := base.Rounds(3, 2, 3).Extract(context.Background())
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if got := questions.RoundNumbers(); !reflect.DeepEqual(got, []int{2, 3}) {
		t.Errorf("Expected rounds [2 3], got %v", got)
	}

	// the base extractor is unchanged by the chained call
	all, _, err := base.Extract(context.Background())
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if all.Len() != 3 {
		t.Errorf("Expected 3 rounds from base extractor, got %d", all.Len())
	}

	if _, _, err := base.Rounds(17).Extract(context.Background()); !errors.Is(err, config.ErrUnknownRound) {
		t.Errorf("Expected ErrUnknownRound, got %v", err)
	}
}

func TestExtractRound(t *testing.T) {
	src := source.NewStatic().Set(4, 1, lines("5. body", "① a")...)
	e := New(src, map[int]int{4: 1})

	round, report, err := e.ExtractRound(context.Background(), 4)
	if err != nil {
		t.Fatalf("ExtractRound failed: %v", err)
	}
	if round.Number != 4 || round.Len() != 1 {
		t.Errorf("Unexpected round %d with %d questions", round.Number, round.Len())
	}
	if report.TotalQuestions() != 1 {
		t.Errorf("Expected 1 question in report, got %d", report.TotalQuestions())
	}

	if _, _, err := e.ExtractRound(context.Background(), 5); !errors.Is(err, config.ErrUnknownRound) {
		t.Errorf("Expected ErrUnknownRound, got %v", err)
	}
}

func TestExtract_WorkersDeterministic(t *testing.T) {
	src := source.NewStatic()
	for p := 1; p <= 6; p++ {
		src.Set(1, p, lines(
			"1"+string(rune('0'+p))+". question",
			"① a", "② b",
		)...)
	}

	serial, _, err := New(src, map[int]int{1: 6}).Extract(context.Background())
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	parallel, _, err := New(src, map[int]int{1: 6}).Workers(4).Extract(context.Background())
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	r1, _ := serial.Round(1)
	r2, _ := parallel.Round(1)
	if !reflect.DeepEqual(r1.Questions(), r2.Questions()) {
		t.Error("Expected identical results regardless of worker count")
	}
	if r1.Len() != 6 {
		t.Errorf("Expected 6 questions, got %d", r1.Len())
	}
}

func TestExtract_Options(t *testing.T) {
	src := source.NewStatic().Set(1, 1, lines(
		"CUSTOM HEADER",
		"1. body",
		"200. out of range",
	)...)

	round, _, err := New(src, map[int]int{1: 1}).
		Boilerplate("CUSTOM").
		QuestionRange(1, 300).
		ExtractRound(context.Background(), 1)
	if err != nil {
		t.Fatalf("ExtractRound failed: %v", err)
	}
	if _, ok := round.Get(200); !ok {
		t.Error("Expected question 200 with widened range")
	}
	q, _ := round.Get(1)
	if q.Body != "body" {
		t.Errorf("Expected body %q, got %q", "body", q.Body)
	}

	if _, _, err := New(src, map[int]int{1: 1}).QuestionRange(10, 1).Extract(context.Background()); err == nil {
		t.Error("Expected error for inverted question range")
	}
}

func TestExtract_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := source.NewStatic().Set(1, 1, lines("1. q")...)
	if _, _, err := New(src, map[int]int{1: 1}).Extract(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestExtract_InvalidPageCounts(t *testing.T) {
	tests := []struct {
		name   string
		counts map[int]int
	}{
		{"negative pages", map[int]int{1: -1}},
		{"zero round", map[int]int{0: 3, 1: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New(source.NewStatic(), tt.counts)
			if _, _, err := e.Extract(context.Background()); !errors.Is(err, ErrInvalidPageCount) {
				t.Errorf("Expected ErrInvalidPageCount from Extract, got %v", err)
			}
			if _, _, err := e.ExtractRound(context.Background(), 1); !errors.Is(err, ErrInvalidPageCount) {
				t.Errorf("Expected ErrInvalidPageCount from ExtractRound, got %v", err)
			}
		})
	}
}

func TestExtract_ZeroPagesIsEmptyRound(t *testing.T) {
	round, report := extractOne(t, source.NewStatic(), 0)
	if round.Len() != 0 {
		t.Errorf("Expected empty round, got %v", round.Numbers())
	}
	if len(report.WarningsOf(EmptyRound)) != 1 {
		t.Errorf("Expected one empty-round warning, got %v", report.Warnings)
	}
}

func TestFromConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Rounds = []config.RoundSpec{{Round: 2, Pages: 1}}
	src := source.NewStatic().Set(2, 1, lines("1. q", "① a")...)

	questions, report, err := FromConfig(cfg, src).Extract(context.Background())
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if questions.TotalQuestions() != 1 {
		t.Errorf("Expected 1 question, got %d", questions.TotalQuestions())
	}
	if report.RunID.String() == "" {
		t.Error("Expected run id")
	}

	cfg.Workers = 0
	if _, _, err := FromConfig(cfg, src).Extract(context.Background()); err == nil {
		t.Error("Expected error for invalid config")
	}
}

func TestFormatWarnings(t *testing.T) {
	warnings := []Warning{
		{Kind: MissingPage, Round: 1, Page: 2, Message: "gone"},
		{Kind: DuplicateQuestion, Round: 3, Question: 4},
	}
	want := "[missing-page] round 1 page 2: gone\n[duplicate-question] round 3 question 4"
	if got := FormatWarnings(warnings); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestExtract_DetectHeadersFooters(t *testing.T) {
	src := source.NewStatic().
		Set(1, 1, lines("Running Title", "1. first", "① a", "② b")...).
		Set(1, 2, lines("Running Title", "③ c", "2. second", "① d")...).
		Set(1, 3, lines("Running Title", "3. third", "① e", "② f")...)

	plain, _, err := New(src, map[int]int{1: 3}).ExtractRound(context.Background(), 1)
	if err != nil {
		t.Fatalf("ExtractRound failed: %v", err)
	}
	q, _ := plain.Get(1)
	if q.Choice(2) != "b Running Title" {
		t.Errorf("Expected title to run into the last choice without detection, got %q", q.Choice(2))
	}

	cleaned, report, err := New(src, map[int]int{1: 3}).DetectHeadersFooters().ExtractRound(context.Background(), 1)
	if err != nil {
		t.Fatalf("ExtractRound failed: %v", err)
	}
	q, _ = cleaned.Get(1)
	if q.Choice(2) != "b" || q.Choice(3) != "c" {
		t.Errorf("Expected clean choices, got %v", q.Choices)
	}
	if rr, _ := report.Round(1); rr.HeaderFooterLines != 3 {
		t.Errorf("Expected 3 header lines removed, got %d", rr.HeaderFooterLines)
	}
}

func TestExtract_DetectHeadersFootersKeepsQuestionStarts(t *testing.T) {
	words := []string{"사과", "포도", "수박"}
	src := source.NewStatic()
	for p := 1; p <= 3; p++ {
		w := words[p-1]
		src.Set(1, p, lines(
			fmt.Sprintf("%d. 다음 중 옳은 것은?", p),
			"① 가"+w,
			"② 나"+w,
			"③ 다"+w,
			"④ 라"+w,
			"⑤ 마"+w,
		)...)
	}

	round, report, err := New(src, map[int]int{1: 3}).DetectHeadersFooters().ExtractRound(context.Background(), 1)
	if err != nil {
		t.Fatalf("ExtractRound failed: %v", err)
	}
	if !reflect.DeepEqual(round.Numbers(), []int{1, 2, 3}) {
		t.Fatalf("Expected questions [1 2 3], got %v", round.Numbers())
	}
	q, _ := round.Get(2)
	if q.Body != "다음 중 옳은 것은?" || !q.Complete() {
		t.Errorf("Expected question 2 intact, got %+v", q)
	}
	if rr, _ := report.Round(1); rr.HeaderFooterLines != 0 {
		t.Errorf("Expected no lines removed, got %d", rr.HeaderFooterLines)
	}
}
