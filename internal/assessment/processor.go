package assessment

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/ascendprep/ascend/internal/curriculum"
	"github.com/ascendprep/ascend/internal/irt"
	"github.com/ascendprep/ascend/internal/logging"
)

// ErrAllRejected is returned when every submitted response failed
// validation and there is nothing to estimate from.
var ErrAllRejected = errors.New("assessment: every response was rejected")

// SubjectReport is the per-subject slice of an assessment result.
type SubjectReport struct {
	Estimate irt.Estimate `json:"estimate"`
	// Accuracy is the raw fraction of correct answers in this subject,
	// unweighted, as a percentage.
	AccuracyPercent float64 `json:"accuracy_percent"`
	Answered        int     `json:"answered"`
}

// Result is the processed outcome of one diagnostic assessment.
type Result struct {
	ChapterEstimates  map[string]irt.Estimate                `json:"theta_by_chapter"`
	SubjectReports    map[curriculum.Subject]SubjectReport   `json:"theta_by_subject"`
	OverallTheta      float64                                `json:"overall_theta"`
	OverallPercentile float64                                `json:"overall_percentile"`
	// SubjectBalance is the population standard deviation of the subject
	// accuracy percentages. Near zero means even preparation; large values
	// flag a lopsided profile for downstream study planning.
	SubjectBalance float64    `json:"subject_balance"`
	Rejected       []Rejected `json:"rejected,omitempty"`
	ProcessedAt    time.Time  `json:"processed_at"`
}

// Process turns a completed assessment's responses into a proficiency
// snapshot. Malformed responses are dropped individually with a logged
// reason; the call fails only when nothing valid remains.
func Process(responses []Response, now time.Time, log *logging.Logger) (Result, error) {
	res := Result{ProcessedAt: now}

	type tally struct {
		attempts int
		correct  int
	}
	byChapter := make(map[string]*tally)

	valid := 0
	for i := range responses {
		r := &responses[i]
		if reason := r.validate(); reason != "" {
			res.Rejected = append(res.Rejected, Rejected{QuestionID: r.QuestionID, Reason: reason})
			log.Warn("rejecting assessment response",
				"question_id", r.QuestionID, "reason", reason)
			continue
		}
		valid++
		t := byChapter[r.ChapterKey]
		if t == nil {
			t = &tally{}
			byChapter[r.ChapterKey] = t
		}
		t.attempts++
		if r.Correct {
			t.correct++
		}
	}
	if valid == 0 {
		return Result{}, fmt.Errorf("%w (%d submitted)", ErrAllRejected, len(responses))
	}

	estimates := make(map[string]irt.Estimate, len(byChapter))
	for key, t := range byChapter {
		acc := float64(t.correct) / float64(t.attempts)
		estimates[key] = irt.NewEstimate(key, acc, t.attempts, now)
	}

	estimates = irt.ExpandBroadChapters(estimates, curriculum.BroadChildren)
	res.ChapterEstimates = estimates

	res.SubjectReports = make(map[curriculum.Subject]SubjectReport, len(curriculum.AllSubjects()))
	var accs []float64
	for _, subject := range curriculum.AllSubjects() {
		report := SubjectReport{Estimate: irt.SubjectTheta(estimates, subject, now)}

		var answered, correct int
		for i := range responses {
			r := &responses[i]
			if r.validate() == "" && r.Subject == subject {
				answered++
				if r.Correct {
					correct++
				}
			}
		}
		report.Answered = answered
		if answered > 0 {
			report.AccuracyPercent = 100 * float64(correct) / float64(answered)
			accs = append(accs, report.AccuracyPercent)
		}
		res.SubjectReports[subject] = report
	}

	res.OverallTheta = irt.WeightedOverallTheta(estimates)
	res.OverallPercentile = irt.ThetaToPercentile(res.OverallTheta)
	res.SubjectBalance = stddev(accs)

	log.Info("processed assessment",
		"responses", valid,
		"rejected", len(res.Rejected),
		"chapters", len(res.ChapterEstimates),
		"overall_theta", res.OverallTheta,
		"overall_percentile", res.OverallPercentile)
	return res, nil
}

func stddev(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	mean := sum / float64(len(xs))
	var ss float64
	for _, x := range xs {
		d := x - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(xs)))
}
