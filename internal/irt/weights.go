package irt

import (
	"sort"
	"strings"
	"time"

	"github.com/ascendprep/ascend/internal/curriculum"
)

// WeightedOverallTheta aggregates chapter estimates into a single theta,
// weighting each chapter by its curriculum-importance weight. Chapters with
// zero attempts contribute nothing to the weighted sum.
func WeightedOverallTheta(estimates map[string]Estimate) float64 {
	var sum, weightSum float64
	for key, est := range estimates {
		if est.Attempts == 0 {
			continue
		}
		w := curriculum.Weight(key)
		sum += w * est.Theta
		weightSum += w
	}
	if weightSum == 0 {
		return 0
	}
	return BoundTheta(sum / weightSum)
}

// SubjectTheta aggregates one subject's chapter estimates into a single
// subject-level Estimate using the same curriculum weighting.
//
// Attempts and accuracy are pooled across the subject's chapters; the
// percentile and standard error are derived from the aggregate.
func SubjectTheta(estimates map[string]Estimate, subject curriculum.Subject, now time.Time) Estimate {
	prefix := string(subject) + "_"

	var sum, weightSum float64
	var attempts int
	var correct float64
	for key, est := range estimates {
		if !strings.HasPrefix(key, prefix) || est.Attempts == 0 {
			continue
		}
		w := curriculum.Weight(key)
		sum += w * est.Theta
		weightSum += w
		attempts += est.Attempts
		correct += est.Accuracy * float64(est.Attempts)
	}

	out := Estimate{
		ChapterKey:  string(subject),
		Attempts:    attempts,
		LastUpdated: now,
	}
	if weightSum == 0 {
		out.Percentile = ThetaToPercentile(0)
		out.StandardError = StandardError(0, 0)
		return out
	}

	out.Theta = BoundTheta(sum / weightSum)
	out.Percentile = ThetaToPercentile(out.Theta)
	out.Accuracy = correct / float64(attempts)
	out.StandardError = StandardError(attempts, out.Accuracy)
	return out
}

// SortedKeys returns the chapter keys of an estimate map in sorted order,
// for deterministic iteration and reporting.
func SortedKeys(estimates map[string]Estimate) []string {
	keys := make([]string, 0, len(estimates))
	for k := range estimates {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
