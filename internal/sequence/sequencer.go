package sequence

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ascendprep/ascend/internal/curriculum"
	"github.com/ascendprep/ascend/internal/logging"
	"github.com/ascendprep/ascend/internal/question"
	"github.com/ascendprep/ascend/internal/sampling"
)

// InsufficientPoolError reports that the question pool cannot fill the
// 30-item assessment even after backfill, naming what each block found.
type InsufficientPoolError struct {
	Found map[string]int // per block name
	Need  map[string]int
	Total int
}

func (e *InsufficientPoolError) Error() string {
	parts := make([]string, 0, len(e.Need))
	for _, name := range []string{"warmup", "core", "challenge"} {
		parts = append(parts, fmt.Sprintf("%s %d/%d", name, e.Found[name], e.Need[name]))
	}
	return fmt.Sprintf("insufficient question pool: assembled %d of %d (%s)", e.Total, AssessmentSize, strings.Join(parts, ", "))
}

// Build assembles the deterministic 30-item initial assessment sequence for
// a learner from the given question pool.
//
// The sequence is partitioned into Warmup/Core/Challenge difficulty blocks,
// each filled toward its per-subject quota, backfilled from adjacent bands
// when short, deduplicated, and subject-interleaved within each block. For
// a fixed learner identity and pool snapshot the output is identical across
// runs.
func Build(pool []question.Question, learnerID string, log *logging.Logger) ([]question.Question, error) {
	deduped, dropped := question.Dedupe(pool)
	if dropped > 0 {
		log.Warn("question pool contains duplicate identifiers", "dropped", dropped)
	}

	blocks := DefaultBlocks()
	g := sampling.NewGenerator(sampling.SeedFromIdentity(learnerID))

	// Classify the pool into difficulty bands.
	banded := make([][]question.Question, len(blocks))
	for _, q := range deduped {
		b := q.Difficulty(BandFallbackDifficulty)
		for i := range blocks {
			if blocks[i].Contains(b) {
				banded[i] = append(banded[i], q)
				break
			}
		}
	}

	used := make(map[string]bool, AssessmentSize)
	selected := make([][]question.Question, len(blocks))

	// Draw toward each block's subject quota.
	for i := range blocks {
		for _, subject := range curriculum.AllSubjects() {
			var candidates []question.Question
			for _, q := range banded[i] {
				if q.Subject == subject && !used[q.ID] {
					candidates = append(candidates, q)
				}
			}
			candidates = sampling.Shuffle(candidates, g)

			want := blocks[i].Quota.For(subject)
			for j := 0; j < want && j < len(candidates); j++ {
				selected[i] = append(selected[i], candidates[j])
				used[candidates[j].ID] = true
			}
		}
	}

	// Backfill short blocks from the nearest unused difficulty, adjacent
	// bands first by construction of the distance sort.
	for i := range blocks {
		short := blocks[i].Quota.Total() - len(selected[i])
		if short <= 0 {
			continue
		}
		log.Warn("assessment block short of quota, backfilling",
			"block", blocks[i].Name, "missing", short)

		var unused []question.Question
		for _, q := range deduped {
			if !used[q.ID] {
				unused = append(unused, q)
			}
		}
		target := blocks[i].TargetB
		sort.SliceStable(unused, func(a, b int) bool {
			da := math.Abs(unused[a].Difficulty(BandFallbackDifficulty) - target)
			db := math.Abs(unused[b].Difficulty(BandFallbackDifficulty) - target)
			if da != db {
				return da < db
			}
			return unused[a].ID < unused[b].ID
		})

		for _, q := range unused {
			if short == 0 {
				break
			}
			selected[i] = append(selected[i], q)
			used[q.ID] = true
			short--
		}
	}

	// Defensive whole-sequence deduplication. The used set should make this
	// a no-op; a hit indicates an upstream data problem.
	globalSeen := make(map[string]bool, AssessmentSize)
	total := 0
	for i := range selected {
		var clean []question.Question
		for _, q := range selected[i] {
			if globalSeen[q.ID] {
				log.Error("duplicate question crossed block boundary", "id", q.ID, "block", blocks[i].Name)
				continue
			}
			globalSeen[q.ID] = true
			clean = append(clean, q)
		}
		selected[i] = clean
		total += len(clean)
	}

	if total != AssessmentSize {
		err := &InsufficientPoolError{
			Found: make(map[string]int, len(blocks)),
			Need:  make(map[string]int, len(blocks)),
			Total: total,
		}
		for i := range blocks {
			err.Found[blocks[i].Name] = len(selected[i])
			err.Need[blocks[i].Name] = blocks[i].Quota.Total()
		}
		return nil, err
	}

	// Shuffle and subject-interleave within each block, then concatenate
	// in fixed Warmup -> Core -> Challenge order.
	out := make([]question.Question, 0, AssessmentSize)
	for i := range selected {
		interleaved, forced := sampling.InterleaveBySubject(selected[i],
			func(q question.Question) string { return string(q.Subject) }, g)
		if forced > 0 {
			log.Warn("subject interleave constraint unsatisfiable within block",
				"block", blocks[i].Name, "forced", forced)
		}
		out = append(out, interleaved...)
	}

	return out, nil
}
