package question

import (
	"github.com/ascendprep/ascend/internal/curriculum"
)

// Type identifies how a question is answered.
type Type string

const (
	TypeMultipleChoice Type = "multiple_choice"
	TypeNumerical      Type = "numerical"
)

// Default IRT parameters applied when a question is authored without them.
const (
	DefaultDiscrimination = 1.5
	DefaultDifficulty     = 0.0
	DefaultGuessingMC     = 0.25
	DefaultGuessing       = 0.0
)

// Question is a single authored item from the external content store.
// Immutable once authored.
type Question struct {
	ID         string              `json:"id"`
	Subject    curriculum.Subject  `json:"subject"`
	Chapter    string              `json:"chapter"`
	ChapterKey string              `json:"chapter_key"`
	Type       Type                `json:"type"`

	Text    string   `json:"text"`
	Options []string `json:"options,omitempty"`

	// Answer key. For multiple choice, CorrectOption holds the correct
	// option text. For numerical, either an accepted [RangeMin, RangeMax]
	// or an exact CorrectValue with tolerance is set.
	CorrectOption string   `json:"correct_option,omitempty"`
	CorrectValue  *float64 `json:"correct_value,omitempty"`
	RangeMin      *float64 `json:"range_min,omitempty"`
	RangeMax      *float64 `json:"range_max,omitempty"`

	// Raw IRT parameters as authored; nil when absent.
	A *float64 `json:"irt_a,omitempty"`
	B *float64 `json:"irt_b,omitempty"`
	C *float64 `json:"irt_c,omitempty"`
}

// Params returns the question's IRT parameters (discrimination, difficulty,
// guessing), applying the authoring defaults for absent values.
func (q *Question) Params() (a, b, c float64) {
	a, b = DefaultDiscrimination, DefaultDifficulty
	c = DefaultGuessing
	if q.Type == TypeMultipleChoice {
		c = DefaultGuessingMC
	}
	if q.A != nil {
		a = *q.A
	}
	if q.B != nil {
		b = *q.B
	}
	if q.C != nil {
		c = *q.C
	}
	return a, b, c
}

// HasDifficulty reports whether the difficulty parameter was authored.
func (q *Question) HasDifficulty() bool {
	return q.B != nil
}

// Difficulty returns the authored difficulty, or fallback when absent.
func (q *Question) Difficulty(fallback float64) float64 {
	if q.B != nil {
		return *q.B
	}
	return fallback
}

// View is the learner-facing projection of a question. It never carries
// the answer key.
type View struct {
	ID       string             `json:"id"`
	Subject  curriculum.Subject `json:"subject"`
	Chapter  string             `json:"chapter"`
	Type     Type               `json:"type"`
	Text     string             `json:"text"`
	Options  []string           `json:"options,omitempty"`
}

// ViewOf strips the answer key from a question for learner-facing output.
func ViewOf(q Question) View {
	return View{
		ID:      q.ID,
		Subject: q.Subject,
		Chapter: q.Chapter,
		Type:    q.Type,
		Text:    q.Text,
		Options: q.Options,
	}
}

// Dedupe returns the questions with duplicate identifiers removed, keeping
// the first occurrence, plus the number of duplicates dropped. Duplicates
// indicate an upstream data problem and are removed defensively.
func Dedupe(pool []Question) ([]Question, int) {
	seen := make(map[string]bool, len(pool))
	out := make([]Question, 0, len(pool))
	dropped := 0
	for _, q := range pool {
		if seen[q.ID] {
			dropped++
			continue
		}
		seen[q.ID] = true
		out = append(out, q)
	}
	return out, dropped
}
