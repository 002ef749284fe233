package assessment

import (
	"context"
	"fmt"
	"time"

	"github.com/ascendprep/ascend/internal/logging"
	"github.com/ascendprep/ascend/internal/sequence"
)

// Recorder persists assessment outcomes. SaveAssessment must be atomic:
// the proficiency snapshot, the frozen baseline copy, and the individual
// response records commit together or not at all.
type Recorder interface {
	// ClearResponses removes the response records of a prior attempt.
	ClearResponses(ctx context.Context, learnerID string) error
	SaveAssessment(ctx context.Context, learnerID string, result Result, responses []Response) error
}

// Service runs the full assessment pipeline: process responses, then
// persist the snapshot, baseline, and responses in one transaction.
type Service struct {
	rec Recorder
	log *logging.Logger
}

func NewService(rec Recorder, log *logging.Logger) *Service {
	return &Service{rec: rec, log: log}
}

// Finalize processes a completed attempt and persists the outcome.
//
// Clearing a prior attempt's responses is best-effort: a failure there is
// logged and does not block the new write, so a retried attempt can leave
// stale response records behind in exchange for never losing fresh data.
func (s *Service) Finalize(ctx context.Context, learnerID string, responses []Response, now time.Time) (Result, error) {
	if len(responses) != sequence.AssessmentSize {
		return Result{}, fmt.Errorf("assessment: got %d responses, want exactly %d", len(responses), sequence.AssessmentSize)
	}

	result, err := Process(responses, now, s.log)
	if err != nil {
		return Result{}, err
	}

	if err := s.rec.ClearResponses(ctx, learnerID); err != nil {
		s.log.Warn("could not clear prior assessment responses",
			"learner_id", learnerID, "error", err)
	}

	if err := s.rec.SaveAssessment(ctx, learnerID, result, responses); err != nil {
		return Result{}, fmt.Errorf("persist assessment for %s: %w", learnerID, err)
	}

	s.log.Info("assessment finalized",
		"learner_id", learnerID, "overall_percentile", result.OverallPercentile)
	return result, nil
}
