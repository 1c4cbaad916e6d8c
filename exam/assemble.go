package exam

import (
	"strings"

	"github.com/samplegit/quiz-app/model"
)

// Assemble builds a question record from its accumulated parts.
//
// Body parts are joined with single spaces. Choice parts are folded in
// order so a later part overwrites an earlier one for the same slot; a part
// whose trimmed text is empty leaves its slot as it was. Slots nothing
// resolved stay "". Fewer than five resolved choices is not an error.
func Assemble(number int, bodyParts []string, choices []ChoicePart) model.Question {
	q := model.NewQuestion(number, joinParts(bodyParts))

	for _, part := range choices {
		txt := strings.TrimSpace(part.Text)
		if txt == "" {
			continue
		}
		q.SetChoice(part.Slot, txt)
	}

	return q
}

// joinParts joins non-blank parts with single spaces
func joinParts(parts []string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}
