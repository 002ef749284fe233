package recovery

import (
	"errors"
	"sort"

	"github.com/ascendprep/ascend/internal/irt"
	"github.com/ascendprep/ascend/internal/logging"
	"github.com/ascendprep/ascend/internal/question"
	"github.com/ascendprep/ascend/internal/sampling"
)

// Recovery quiz composition: one spaced-review item plus reduced-difficulty
// fresh items.
const (
	QuizSize    = 10
	reviewCount = 1
	easyCount   = 7
	mediumCount = 2

	easyUpperB   = 0.0
	mediumUpperB = 0.5
)

// focusChapterCount is how many of the learner's weakest chapters the
// builder draws from preferentially.
const focusChapterCount = 3

// ErrNoQuestions is returned when not a single recovery item could be
// assembled from the pool.
var ErrNoQuestions = errors.New("recovery: no questions available")

// BuildQuiz assembles a confidence-rebuilding quiz after the circuit
// breaker trips: 1 spaced-review item, up to 7 easy items (b <= 0.0) and
// up to 2 medium items (0.0 < b <= 0.5), drawn preferentially from the
// learner's lowest-theta chapters.
//
// review holds spaced-review candidates in review order (oldest due first).
// A short quiz is returned as-is with the shortfall logged; only an empty
// quiz is an error.
func BuildQuiz(pool []question.Question, estimates map[string]irt.Estimate, review []question.Question, g *sampling.Generator, log *logging.Logger) ([]question.Question, error) {
	focus := weakestChapters(estimates)

	placed := make(map[string]bool, QuizSize)
	var out []question.Question

	// Spaced-review item first.
	for _, q := range review {
		if !placed[q.ID] {
			out = append(out, q)
			placed[q.ID] = true
			break
		}
	}

	deduped, _ := question.Dedupe(pool)

	easy := bandCandidates(deduped, placed, func(b float64) bool { return b <= easyUpperB })
	out = appendPreferred(out, easy, focus, easyCount, placed, g)

	medium := bandCandidates(deduped, placed, func(b float64) bool { return b > easyUpperB && b <= mediumUpperB })
	out = appendPreferred(out, medium, focus, mediumCount, placed, g)

	if len(out) == 0 {
		return nil, ErrNoQuestions
	}
	if len(out) < QuizSize {
		log.Warn("recovery quiz short of target size",
			"assembled", len(out), "target", QuizSize)
	}
	return out, nil
}

// weakestChapters returns the learner's below-average-theta chapters,
// lowest three, as a set of chapter keys.
func weakestChapters(estimates map[string]irt.Estimate) map[string]bool {
	type chapterTheta struct {
		key   string
		theta float64
	}

	var attempted []chapterTheta
	var sum float64
	for key, est := range estimates {
		if est.Attempts == 0 {
			continue
		}
		attempted = append(attempted, chapterTheta{key: key, theta: est.Theta})
		sum += est.Theta
	}
	if len(attempted) == 0 {
		return nil
	}
	mean := sum / float64(len(attempted))

	var below []chapterTheta
	for _, ct := range attempted {
		if ct.theta < mean {
			below = append(below, ct)
		}
	}
	sort.Slice(below, func(i, j int) bool {
		if below[i].theta != below[j].theta {
			return below[i].theta < below[j].theta
		}
		return below[i].key < below[j].key
	})

	focus := make(map[string]bool, focusChapterCount)
	for i := 0; i < len(below) && i < focusChapterCount; i++ {
		focus[below[i].key] = true
	}
	return focus
}

func bandCandidates(pool []question.Question, placed map[string]bool, inBand func(b float64) bool) []question.Question {
	var out []question.Question
	for _, q := range pool {
		if placed[q.ID] {
			continue
		}
		if inBand(q.Difficulty(question.DefaultDifficulty)) {
			out = append(out, q)
		}
	}
	return out
}

// appendPreferred draws up to count questions from candidates, focus
// chapters first, shuffling within each preference group.
func appendPreferred(out, candidates []question.Question, focus map[string]bool, count int, placed map[string]bool, g *sampling.Generator) []question.Question {
	var preferred, rest []question.Question
	for _, q := range candidates {
		if focus[q.ChapterKey] {
			preferred = append(preferred, q)
		} else {
			rest = append(rest, q)
		}
	}

	taken := 0
	for _, group := range [][]question.Question{preferred, rest} {
		for _, q := range sampling.Shuffle(group, g) {
			if taken == count {
				return out
			}
			if placed[q.ID] {
				continue
			}
			out = append(out, q)
			placed[q.ID] = true
			taken++
		}
	}
	return out
}
