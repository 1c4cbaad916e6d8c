package model

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

func TestQuestion_Slots(t *testing.T) {
	q := NewQuestion(7, "body")

	if q.Resolved() != 0 {
		t.Errorf("Expected 0 resolved slots, got %d", q.Resolved())
	}

	q.SetChoice(1, "Apple")
	q.SetChoice(5, "Egg")
	q.SetChoice(0, "ignored")
	q.SetChoice(6, "ignored")

	if q.Choice(1) != "Apple" || q.Choice(5) != "Egg" {
		t.Errorf("Unexpected choices %v", q.Choices)
	}
	if q.Choice(0) != "" || q.Choice(6) != "" {
		t.Error("Expected invalid slots to read as empty")
	}
	if q.Resolved() != 2 {
		t.Errorf("Expected 2 resolved slots, got %d", q.Resolved())
	}
	if q.Complete() {
		t.Error("Expected question to be incomplete")
	}
}

func TestQuestion_ChoiceMapHasFiveKeys(t *testing.T) {
	q := NewQuestion(1, "x")
	q.SetChoice(3, "Cherry")

	m := q.ChoiceMap()
	want := map[string]string{"1": "", "2": "", "3": "Cherry", "4": "", "5": ""}
	if !reflect.DeepEqual(m, want) {
		t.Errorf("Expected %v, got %v", want, m)
	}
}

func TestRound_PutReplaces(t *testing.T) {
	r := NewRound(1)

	if replaced := r.Put(NewQuestion(5, "first")); replaced {
		t.Error("Expected first Put not to replace")
	}
	if replaced := r.Put(NewQuestion(5, "second")); !replaced {
		t.Error("Expected second Put to replace")
	}

	q, ok := r.Get(5)
	if !ok || q.Body != "second" {
		t.Errorf("Expected later question to win, got %+v", q)
	}
	if r.Len() != 1 {
		t.Errorf("Expected 1 question, got %d", r.Len())
	}
}

func TestRound_NumbersSorted(t *testing.T) {
	r := NewRound(1)
	for _, n := range []int{10, 2, 105, 1} {
		r.Put(NewQuestion(n, ""))
	}

	want := []int{1, 2, 10, 105}
	if got := r.Numbers(); !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestRound_Incomplete(t *testing.T) {
	r := NewRound(1)
	full := NewQuestion(1, "")
	for s := 1; s <= ChoiceCount; s++ {
		full.SetChoice(s, "c")
	}
	r.Put(full)
	r.Put(NewQuestion(2, ""))

	if got := r.Incomplete(); !reflect.DeepEqual(got, []int{2}) {
		t.Errorf("Expected [2], got %v", got)
	}
}

func TestCollection_Totals(t *testing.T) {
	c := NewCollection()
	r1 := NewRound(1)
	r1.Put(NewQuestion(1, ""))
	r1.Put(NewQuestion(2, ""))
	c.Add(r1)
	c.Add(NewRound(3))

	if c.Len() != 2 {
		t.Errorf("Expected 2 rounds, got %d", c.Len())
	}
	if c.TotalQuestions() != 2 {
		t.Errorf("Expected 2 questions, got %d", c.TotalQuestions())
	}
	if got := c.RoundNumbers(); !reflect.DeepEqual(got, []int{1, 3}) {
		t.Errorf("Expected [1 3], got %v", got)
	}
}

func TestCollection_MarshalNumericOrder(t *testing.T) {
	c := NewCollection()
	r := NewRound(10)
	for _, n := range []int{10, 9, 1} {
		r.Put(NewQuestion(n, "q"))
	}
	c.Add(r)
	c.Add(NewRound(2))

	data, err := c.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON failed: %v", err)
	}
	s := string(data)

	if !strings.HasPrefix(s, `{"2":{},"10":{"1":`) {
		t.Errorf("Expected rounds in numeric order with empty round kept, got %s", s)
	}
	if strings.Index(s, `"9":`) > strings.Index(s, `"10":{"text"`) {
		t.Errorf("Expected question 9 before question 10, got %s", s)
	}
}

func TestQuestion_MarshalKeepsNonASCII(t *testing.T) {
	q := NewQuestion(1, "체온 < 37도 & 맥박")
	q.SetChoice(1, "①번")

	data, err := json.Marshal(q)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if decoded["text"] != "체온 < 37도 & 맥박" {
		t.Errorf("Unexpected text %v", decoded["text"])
	}

	raw, err := q.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON failed: %v", err)
	}
	if !strings.Contains(string(raw), "체온 < 37도 & 맥박") {
		t.Errorf("Expected unescaped text, got %s", raw)
	}
}

func TestCollection_UnmarshalRoundTrip(t *testing.T) {
	c := NewCollection()
	r := NewRound(4)
	q := NewQuestion(12, "본문")
	q.SetChoice(2, "둘")
	r.Put(q)
	c.Add(r)
	c.Add(NewRound(5))

	data, err := c.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON failed: %v", err)
	}

	decoded := NewCollection()
	if err := json.Unmarshal(data, decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	round, ok := decoded.Round(4)
	if !ok {
		t.Fatal("Expected round 4")
	}
	got, ok := round.Get(12)
	if !ok {
		t.Fatal("Expected question 12")
	}
	if got != q {
		t.Errorf("Expected %+v, got %+v", q, got)
	}
	if empty, ok := decoded.Round(5); !ok || empty.Len() != 0 {
		t.Error("Expected empty round 5 to survive")
	}
}
