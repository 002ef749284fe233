package practice

import (
	"sort"

	"github.com/ascendprep/ascend/internal/question"
)

// Difficulty band thresholds for chapter practice.
const (
	easyUpperB   = 0.7
	mediumUpperB = 1.2
)

// Priorities for ranking questions inside a band.
const (
	priorityUnseen  = 3
	priorityWrong   = 2
	priorityCorrect = 1
)

// History records the learner's past outcomes per question identifier:
// true for answered correctly, false for answered wrong. Questions absent
// from the map are unseen.
type History map[string]bool

// band indices, easy to hard.
const (
	bandEasy = iota
	bandMedium
	bandHard
	bandCount
)

func bandOf(q *question.Question) int {
	b := q.Difficulty(question.DefaultDifficulty)
	switch {
	case b <= easyUpperB:
		return bandEasy
	case b <= mediumUpperB:
		return bandMedium
	default:
		return bandHard
	}
}

func priorityOf(q *question.Question, history History) int {
	correct, seen := history[q.ID]
	switch {
	case !seen:
		return priorityUnseen
	case !correct:
		return priorityWrong
	default:
		return priorityCorrect
	}
}

// Select picks up to target questions from a chapter's pool for focused
// practice. Unseen questions outrank previously-wrong ones, which outrank
// previously-correct ones; roughly a third of the target is drawn from each
// difficulty band, easy first, with shortfall backfilled from the remaining
// unused questions by ascending difficulty.
//
// The result is ordered strictly easy block, then medium, then hard, with
// priority order preserved inside each block. The ordering eases a
// struggling learner in and is never randomized.
func Select(pool []question.Question, history History, target int) []question.Question {
	if target <= 0 || len(pool) == 0 {
		return nil
	}

	deduped, _ := question.Dedupe(pool)

	var bands [bandCount][]question.Question
	for _, q := range deduped {
		b := bandOf(&q)
		bands[b] = append(bands[b], q)
	}

	// Within each band: priority descending, then difficulty ascending.
	for b := range bands {
		qs := bands[b]
		sort.SliceStable(qs, func(i, j int) bool {
			pi := priorityOf(&qs[i], history)
			pj := priorityOf(&qs[j], history)
			if pi != pj {
				return pi > pj
			}
			di := qs[i].Difficulty(question.DefaultDifficulty)
			dj := qs[j].Difficulty(question.DefaultDifficulty)
			if di != dj {
				return di < dj
			}
			return qs[i].ID < qs[j].ID
		})
	}

	// Per-band share: target/3, with the remainder going to the easier bands.
	share := [bandCount]int{}
	base := target / bandCount
	rem := target % bandCount
	for b := 0; b < bandCount; b++ {
		share[b] = base
		if rem > 0 {
			share[b]++
			rem--
		}
	}

	picked := make(map[string]bool, target)
	var blocks [bandCount][]question.Question
	total := 0
	for b := 0; b < bandCount; b++ {
		for _, q := range bands[b] {
			if len(blocks[b]) == share[b] {
				break
			}
			blocks[b] = append(blocks[b], q)
			picked[q.ID] = true
			total++
		}
	}

	// Backfill from the closest unused questions, difficulty ascending,
	// keeping each backfilled question in its own band's block.
	if total < target {
		var unused []question.Question
		for _, q := range deduped {
			if !picked[q.ID] {
				unused = append(unused, q)
			}
		}
		sort.SliceStable(unused, func(i, j int) bool {
			di := unused[i].Difficulty(question.DefaultDifficulty)
			dj := unused[j].Difficulty(question.DefaultDifficulty)
			if di != dj {
				return di < dj
			}
			return unused[i].ID < unused[j].ID
		})
		for _, q := range unused {
			if total == target {
				break
			}
			b := bandOf(&q)
			blocks[b] = append(blocks[b], q)
			picked[q.ID] = true
			total++
		}
	}

	out := make([]question.Question, 0, total)
	for b := 0; b < bandCount; b++ {
		out = append(out, blocks[b]...)
	}
	return out
}
