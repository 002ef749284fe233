package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ascendprep/ascend/internal/assessment"
	"github.com/ascendprep/ascend/internal/practice"
	"github.com/ascendprep/ascend/internal/recovery"
	"github.com/ascendprep/ascend/internal/unlock"
)

// Collection names for learner-keyed documents.
const (
	colProficiency = "proficiency"
	colBaselines   = "baselines"
	colResponses   = "responses"
	colUnlocks     = "unlocks"
	colExamTargets = "exam_targets"
	colSessions    = "sessions"
	colFailures    = "failure_streaks"
)

// Session kinds.
const (
	SessionAssessment = "assessment"
	SessionPractice   = "practice"
	SessionRecovery   = "recovery"
	SessionUnlockQuiz = "unlock_quiz"
)

// Session records the ordered question identifiers handed to a learner for
// one attempt. Answer keys are never part of a session document.
type Session struct {
	ID          string    `json:"id"`
	LearnerID   string    `json:"learner_id"`
	Kind        string    `json:"kind"`
	ChapterKey  string    `json:"chapter_key,omitempty"`
	QuestionIDs []string  `json:"question_ids"`
	CreatedAt   time.Time `json:"created_at"`
}

// LearnerRepo provides learner-keyed persistence on top of a DocStore.
type LearnerRepo struct {
	ds DocStore
}

func NewLearnerRepo(ds DocStore) *LearnerRepo {
	return &LearnerRepo{ds: ds}
}

// LearnerRepo satisfies the assessment persistence contract.
var _ assessment.Recorder = (*LearnerRepo)(nil)

// Proficiency returns the learner's current proficiency snapshot.
func (r *LearnerRepo) Proficiency(ctx context.Context, learnerID string) (assessment.Result, error) {
	var res assessment.Result
	err := r.ds.Get(ctx, colProficiency, learnerID, &res)
	return res, err
}

// Baseline returns the frozen snapshot taken at the diagnostic assessment,
// for delta reporting against current proficiency.
func (r *LearnerRepo) Baseline(ctx context.Context, learnerID string) (assessment.Result, error) {
	var res assessment.Result
	err := r.ds.Get(ctx, colBaselines, learnerID, &res)
	return res, err
}

// ClearResponses removes a learner's stored assessment responses before a
// fresh diagnostic attempt. Practice responses are kept: they feed the
// progressive selector's history and must survive a re-take.
func (r *LearnerRepo) ClearResponses(ctx context.Context, learnerID string) error {
	_, err := r.ds.DeletePrefix(ctx, colResponses, learnerID+"/assessment/")
	return err
}

// SaveAssessment writes the proficiency snapshot, the frozen baseline copy,
// and every response record in one transaction. The write count is checked
// against the store's per-transaction capacity before anything is written.
func (r *LearnerRepo) SaveAssessment(ctx context.Context, learnerID string, result assessment.Result, responses []assessment.Response) error {
	writes := 2 + len(responses) // snapshot + baseline + one doc per response
	if writes > MaxWritesPerTxn {
		return &CapacityError{Writes: writes, Limit: MaxWritesPerTxn}
	}

	return r.ds.RunInTransaction(ctx, func(tx Txn) error {
		if err := tx.Set(colProficiency, learnerID, result); err != nil {
			return err
		}
		if err := tx.Set(colBaselines, learnerID, result); err != nil {
			return err
		}
		for i := range responses {
			resp := &responses[i]
			key := learnerID + "/assessment/" + resp.QuestionID
			if err := tx.Set(colResponses, key, resp); err != nil {
				return err
			}
		}
		return nil
	})
}

// SaveResponse records a single answered question outside an assessment.
func (r *LearnerRepo) SaveResponse(ctx context.Context, learnerID string, resp assessment.Response) error {
	return r.ds.Set(ctx, colResponses, learnerID+"/practice/"+resp.QuestionID, resp)
}

// Responses returns every stored response for a learner across both the
// assessment and practice key prefixes.
func (r *LearnerRepo) Responses(ctx context.Context, learnerID string) ([]assessment.Response, error) {
	docs, err := r.ds.List(ctx, colResponses, learnerID+"/")
	if err != nil {
		return nil, err
	}
	out := make([]assessment.Response, 0, len(docs))
	for _, doc := range docs {
		var resp assessment.Response
		if err := json.Unmarshal(doc.Data, &resp); err != nil {
			return nil, fmt.Errorf("decode response %s: %w", doc.Key, err)
		}
		out = append(out, resp)
	}
	return out, nil
}

// ResponseHistory builds the seen/correctness map consumed by the
// progressive selector from the learner's stored responses. When the same
// question appears under both prefixes, the most recent answer wins.
func (r *LearnerRepo) ResponseHistory(ctx context.Context, learnerID string) (practice.History, error) {
	responses, err := r.Responses(ctx, learnerID)
	if err != nil {
		return nil, err
	}
	latest := make(map[string]assessment.Response, len(responses))
	for _, resp := range responses {
		if prev, ok := latest[resp.QuestionID]; !ok || resp.AnsweredAt.After(prev.AnsweredAt) {
			latest[resp.QuestionID] = resp
		}
	}
	history := make(practice.History, len(latest))
	for id, resp := range latest {
		history[id] = resp.Correct
	}
	return history, nil
}

// FailureState reconstructs the learner's circuit-breaker state from the
// streak counter.
func (r *LearnerRepo) FailureState(ctx context.Context, learnerID string) (recovery.FailureState, error) {
	n, err := r.ds.Increment(ctx, colFailures, learnerID, 0)
	if err != nil {
		return recovery.FailureState{}, err
	}
	return recovery.FailureState{
		ConsecutiveFailures:  int(n),
		CircuitBreakerActive: n >= recovery.FailureThreshold,
	}, nil
}

// RecordQuizOutcome applies one quiz result to the failure streak. The
// streak uses the store's atomic increment so concurrent submissions for
// the same learner cannot lose updates. tripped is true only on the call
// that crossed the threshold.
func (r *LearnerRepo) RecordQuizOutcome(ctx context.Context, learnerID string, accuracy float64) (recovery.FailureState, bool, error) {
	if accuracy >= recovery.PassingAccuracy {
		if err := r.ds.ResetCounter(ctx, colFailures, learnerID); err != nil {
			return recovery.FailureState{}, false, err
		}
		return recovery.FailureState{}, false, nil
	}

	n, err := r.ds.Increment(ctx, colFailures, learnerID, 1)
	if err != nil {
		return recovery.FailureState{}, false, err
	}
	state := recovery.FailureState{
		ConsecutiveFailures:  int(n),
		CircuitBreakerActive: n >= recovery.FailureThreshold,
	}
	return state, n == recovery.FailureThreshold, nil
}

// UnlockState returns the learner's unlock record, zero-valued when none
// has been stored yet.
func (r *LearnerRepo) UnlockState(ctx context.Context, learnerID string) (unlock.State, error) {
	var s unlock.State
	err := r.ds.Get(ctx, colUnlocks, learnerID, &s)
	if errors.Is(err, ErrNotFound) {
		return unlock.State{}, nil
	}
	return s, err
}

// AdvanceHighWaterMark moves the stored high-water mark up to the current
// countdown position if it is ahead, inside a transaction so concurrent
// advances cannot regress the mark.
func (r *LearnerRepo) AdvanceHighWaterMark(ctx context.Context, learnerID string, monthsUntil int) (unlock.State, error) {
	var out unlock.State
	err := r.ds.RunInTransaction(ctx, func(tx Txn) error {
		var s unlock.State
		if err := tx.Get(colUnlocks, learnerID, &s); err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}
		if _, moved := s.Advance(monthsUntil); moved {
			if err := tx.Set(colUnlocks, learnerID, s); err != nil {
				return err
			}
		}
		out = s
		return nil
	})
	return out, err
}

// SetOverride manually unlocks (or re-locks) one chapter for a learner.
func (r *LearnerRepo) SetOverride(ctx context.Context, learnerID, chapterKey string, on bool) (unlock.State, error) {
	var out unlock.State
	err := r.ds.RunInTransaction(ctx, func(tx Txn) error {
		var s unlock.State
		if err := tx.Get(colUnlocks, learnerID, &s); err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}
		if s.Overrides == nil {
			s.Overrides = make(map[string]bool)
		}
		if on {
			s.Overrides[chapterKey] = true
		} else {
			delete(s.Overrides, chapterKey)
		}
		if err := tx.Set(colUnlocks, learnerID, s); err != nil {
			return err
		}
		out = s
		return nil
	})
	return out, err
}

// ExamTarget returns the learner's stored target exam month.
func (r *LearnerRepo) ExamTarget(ctx context.Context, learnerID string) (unlock.ExamTarget, error) {
	var e unlock.ExamTarget
	err := r.ds.Get(ctx, colExamTargets, learnerID, &e)
	return e, err
}

// SetExamTarget stores the learner's target exam month.
func (r *LearnerRepo) SetExamTarget(ctx context.Context, learnerID string, e unlock.ExamTarget) error {
	return r.ds.Set(ctx, colExamTargets, learnerID, e)
}

// SaveSession stores the ordered question list for one attempt.
func (r *LearnerRepo) SaveSession(ctx context.Context, s Session) error {
	if s.ID == "" || s.LearnerID == "" {
		return fmt.Errorf("session needs an id and a learner id")
	}
	return r.ds.Set(ctx, colSessions, s.LearnerID+"/"+s.ID, s)
}

// Session returns one stored attempt by learner and session identifier.
func (r *LearnerRepo) Session(ctx context.Context, learnerID, sessionID string) (Session, error) {
	var s Session
	err := r.ds.Get(ctx, colSessions, learnerID+"/"+sessionID, &s)
	return s, err
}

// Sessions lists a learner's stored attempts, ordered by session key.
func (r *LearnerRepo) Sessions(ctx context.Context, learnerID string) ([]Session, error) {
	docs, err := r.ds.List(ctx, colSessions, learnerID+"/")
	if err != nil {
		return nil, err
	}
	out := make([]Session, 0, len(docs))
	for _, doc := range docs {
		var s Session
		if err := json.Unmarshal(doc.Data, &s); err != nil {
			return nil, fmt.Errorf("decode session %s: %w", doc.Key, err)
		}
		out = append(out, s)
	}
	return out, nil
}
