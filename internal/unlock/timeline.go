package unlock

import (
	"sort"
	"time"

	"github.com/ascendprep/ascend/internal/curriculum"
)

// State is a learner's persisted unlock record. HighWaterMark only ever
// advances: once a countdown position has been reached, the chapters
// unlocked at that position stay unlocked even if the target exam date is
// later pushed back.
type State struct {
	HighWaterMark int             `json:"high_water_mark"`
	Overrides     map[string]bool `json:"overrides,omitempty"`
}

// ExamTarget is the learner's target exam month.
type ExamTarget struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
}

// MonthsUntil returns the number of whole months from now until the exam
// month. Zero or negative means the exam month has arrived or passed.
func (e ExamTarget) MonthsUntil(now time.Time) int {
	return (e.Year-now.Year())*12 + int(e.Month) - int(now.Month())
}

// CountdownPosition maps months-until-exam onto the 1..24 preparation
// schedule. A learner more than 24 months out sits at position 1; the
// position advances by one each month until the exam.
func CountdownPosition(monthsUntil int) int {
	pos := curriculum.MaxUnlockStep - monthsUntil + 1
	if pos < 1 {
		return 1
	}
	if pos > curriculum.MaxUnlockStep {
		return curriculum.MaxUnlockStep
	}
	return pos
}

// EffectivePosition combines the countdown with the stored high-water mark.
// Post-exam learners (monthsUntil <= 0) see the full schedule.
func EffectivePosition(monthsUntil int, state State) int {
	if monthsUntil <= 0 {
		return curriculum.MaxUnlockStep
	}
	pos := CountdownPosition(monthsUntil)
	if state.HighWaterMark > pos {
		return state.HighWaterMark
	}
	return pos
}

// Advance returns the high-water mark after observing the current countdown
// position, and whether it moved. The mark never decreases.
func (s *State) Advance(monthsUntil int) (mark int, moved bool) {
	if monthsUntil <= 0 {
		// Post-exam pins the mark at the final step.
		if s.HighWaterMark < curriculum.MaxUnlockStep {
			s.HighWaterMark = curriculum.MaxUnlockStep
			return s.HighWaterMark, true
		}
		return s.HighWaterMark, false
	}
	pos := CountdownPosition(monthsUntil)
	if pos > s.HighWaterMark {
		s.HighWaterMark = pos
		return s.HighWaterMark, true
	}
	return s.HighWaterMark, false
}

// UnlockedChapters returns the sorted keys of every chapter available to a
// learner: everything scheduled at or before the effective position, plus
// manual overrides.
func UnlockedChapters(exam ExamTarget, state State, now time.Time) []string {
	pos := EffectivePosition(exam.MonthsUntil(now), state)

	keys := make(map[string]bool)
	for _, key := range curriculum.UnlockedAtStep(pos) {
		keys[key] = true
	}
	for key, on := range state.Overrides {
		if on {
			keys[key] = true
		}
	}

	out := make([]string, 0, len(keys))
	for key := range keys {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}

// IsUnlocked reports whether one chapter is available to the learner.
func IsUnlocked(chapterKey string, exam ExamTarget, state State, now time.Time) bool {
	if state.Overrides[chapterKey] {
		return true
	}
	ch, err := curriculum.GetChapter(chapterKey)
	if err != nil {
		return false
	}
	return ch.UnlockStep <= EffectivePosition(exam.MonthsUntil(now), state)
}
