package model

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// questionJSON is the wire shape of a question. The body is stored under
// "text", the key the quiz front end reads.
type questionJSON struct {
	Text    string            `json:"text"`
	Choices map[string]string `json:"choices"`
}

// MarshalJSON encodes the question as {"text": ..., "choices": {"1": ..., "5": ...}}
func (q Question) MarshalJSON() ([]byte, error) {
	return marshalNoEscape(questionJSON{Text: q.Body, Choices: q.ChoiceMap()})
}

// UnmarshalJSON decodes the wire shape. The question number is not part of
// it and is left unchanged.
func (q *Question) UnmarshalJSON(data []byte) error {
	var wire questionJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	q.Body = wire.Text
	q.Choices = [ChoiceCount]string{}
	for key, text := range wire.Choices {
		slot, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		q.SetChoice(slot, text)
	}
	return nil
}

// MarshalJSON encodes the round as an object keyed by question number,
// keys in ascending numeric order
func (r *Round) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, q := range r.Questions() {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(strconv.Quote(strconv.Itoa(q.Number)))
		buf.WriteByte(':')
		data, err := q.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(data)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalJSON encodes the collection as an object keyed by round number,
// keys in ascending numeric order. A round with no questions is encoded as
// an empty object rather than omitted.
func (c *Collection) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, n := range c.RoundNumbers() {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(strconv.Quote(strconv.Itoa(n)))
		buf.WriteByte(':')
		data, err := c.rounds[n].MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(data)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a collection written by MarshalJSON
func (c *Collection) UnmarshalJSON(data []byte) error {
	var wire map[string]map[string]Question
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	c.rounds = make(map[int]*Round, len(wire))
	for roundKey, questions := range wire {
		roundNum, err := strconv.Atoi(roundKey)
		if err != nil {
			continue
		}
		round := NewRound(roundNum)
		for qKey, q := range questions {
			num, err := strconv.Atoi(qKey)
			if err != nil {
				continue
			}
			q.Number = num
			round.Put(q)
		}
		c.rounds[roundNum] = round
	}
	return nil
}

// marshalNoEscape encodes v without HTML escaping so Korean text and
// comparison operators survive unchanged
func marshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
