package layout

import "testing"

func TestBoilerplateFilter_DefaultKeywords(t *testing.T) {
	filter := NewBoilerplateFilter()

	tests := []struct {
		line string
		want bool
	}{
		{"전국모의고사 안내문", true},
		{"간호조무사국가시험 대비", true},
		{"다음 중 가장 적합한 답을 고르시오", true},
		{"환자의 체온을 측정하는 방법은?", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := filter.IsBoilerplate(tt.line); got != tt.want {
			t.Errorf("IsBoilerplate(%q): expected %v, got %v", tt.line, tt.want, got)
		}
	}
}

func TestBoilerplateFilter_Match(t *testing.T) {
	filter := NewBoilerplateFilterWithConfig(BoilerplateConfig{
		Keywords: []string{"", "  ", "HEADER", "FOOTER"},
	})

	if n := len(filter.Keywords()); n != 2 {
		t.Errorf("Expected blank keywords to be ignored, got %d keywords", n)
	}

	kw, ok := filter.Match("PAGE FOOTER 3")
	if !ok || kw != "FOOTER" {
		t.Errorf("Expected FOOTER match, got %q (%v)", kw, ok)
	}

	if _, ok := filter.Match("body text"); ok {
		t.Error("Expected no match for body text")
	}
}

func TestBoilerplateFilter_NormalizesKeywords(t *testing.T) {
	filter := NewBoilerplateFilterWithConfig(BoilerplateConfig{
		Keywords: []string{" 제１회 "},
	})

	if !filter.IsBoilerplate("제1회 모의") {
		t.Error("Expected full-width keyword to match its narrow form")
	}
}

func TestBoilerplateFilter_KeywordsIsCopy(t *testing.T) {
	filter := NewBoilerplateFilter()
	kws := filter.Keywords()
	kws[0] = "mutated"

	if filter.Keywords()[0] == "mutated" {
		t.Error("Keywords should return a copy")
	}
}
