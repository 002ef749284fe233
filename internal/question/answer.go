package question

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Tolerance for exact-value numerical answers: the larger of ±1% of the
// correct value and an absolute ±0.01.
const (
	relativeTolerance = 0.01
	absoluteTolerance = 0.01
)

// CheckAnswer validates the learner's submitted answer against the
// question's answer key.
//
// Multiple choice accepts either the option text (case-insensitive) or a
// 1-based option index. Numerical answers are parsed and checked against
// the accepted range, or against the exact value within tolerance.
//
// A malformed submission (non-numeric numerical answer, unknown question
// type, missing answer key) is an error with a named reason, never a
// silent incorrect.
func CheckAnswer(q *Question, submitted string) (bool, error) {
	submitted = strings.TrimSpace(submitted)
	if submitted == "" {
		return false, fmt.Errorf("question %s: empty answer", q.ID)
	}

	switch q.Type {
	case TypeMultipleChoice:
		return checkMultipleChoice(q, submitted), nil

	case TypeNumerical:
		v, err := strconv.ParseFloat(submitted, 64)
		if err != nil {
			return false, fmt.Errorf("question %s: non-numeric answer %q", q.ID, submitted)
		}
		return checkNumerical(q, v)

	default:
		return false, fmt.Errorf("question %s: unknown question type %q", q.ID, q.Type)
	}
}

func checkMultipleChoice(q *Question, submitted string) bool {
	// Try matching by 1-based index first.
	if idx, err := strconv.Atoi(submitted); err == nil && idx >= 1 && idx <= len(q.Options) {
		return strings.EqualFold(
			strings.TrimSpace(q.Options[idx-1]),
			strings.TrimSpace(q.CorrectOption),
		)
	}
	return strings.EqualFold(submitted, strings.TrimSpace(q.CorrectOption))
}

func checkNumerical(q *Question, v float64) (bool, error) {
	if q.RangeMin != nil && q.RangeMax != nil {
		return v >= *q.RangeMin && v <= *q.RangeMax, nil
	}
	if q.CorrectValue != nil {
		correct := *q.CorrectValue
		tol := math.Max(absoluteTolerance, relativeTolerance*math.Abs(correct))
		return math.Abs(v-correct) <= tol, nil
	}
	return false, fmt.Errorf("question %s: numerical question has no answer key", q.ID)
}
