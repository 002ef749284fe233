package sequence

import (
	"math"

	"github.com/ascendprep/ascend/internal/curriculum"
)

// AssessmentSize is the exact length of an initial assessment sequence.
const AssessmentSize = 30

// BandFallbackDifficulty is the difficulty assumed for questions authored
// without an IRT difficulty parameter when classifying them into blocks.
const BandFallbackDifficulty = 0.9

// SubjectQuota fixes how many questions of each subject a block draws.
type SubjectQuota struct {
	Physics     int
	Chemistry   int
	Mathematics int
}

// For returns the quota for one subject.
func (q SubjectQuota) For(s curriculum.Subject) int {
	switch s {
	case curriculum.SubjectPhysics:
		return q.Physics
	case curriculum.SubjectChemistry:
		return q.Chemistry
	case curriculum.SubjectMathematics:
		return q.Mathematics
	}
	return 0
}

// Total returns the block size implied by the quota.
func (q SubjectQuota) Total() int {
	return q.Physics + q.Chemistry + q.Mathematics
}

// BlockConfig defines one contiguous difficulty block of the assessment.
// A question belongs to the block when LowerB < b <= UpperB.
type BlockConfig struct {
	Name    string
	Quota   SubjectQuota
	LowerB  float64 // exclusive
	UpperB  float64 // inclusive
	TargetB float64 // band center used for backfill distance
}

// Contains reports whether difficulty b falls in this block's band.
func (bc BlockConfig) Contains(b float64) bool {
	return b > bc.LowerB && b <= bc.UpperB
}

// DefaultBlocks returns the fixed Warmup/Core/Challenge block definitions:
// 10 + 12 + 8 questions with per-subject quotas of 3/3/4, 4/4/4 and 3/3/2
// across physics/chemistry/mathematics.
func DefaultBlocks() [3]BlockConfig {
	return [3]BlockConfig{
		{
			Name:    "warmup",
			Quota:   SubjectQuota{Physics: 3, Chemistry: 3, Mathematics: 4},
			LowerB:  math.Inf(-1),
			UpperB:  0.8,
			TargetB: 0.4,
		},
		{
			Name:    "core",
			Quota:   SubjectQuota{Physics: 4, Chemistry: 4, Mathematics: 4},
			LowerB:  0.8,
			UpperB:  1.1,
			TargetB: 0.95,
		},
		{
			Name:    "challenge",
			Quota:   SubjectQuota{Physics: 3, Chemistry: 3, Mathematics: 2},
			LowerB:  1.1,
			UpperB:  math.Inf(1),
			TargetB: 1.4,
		},
	}
}
