package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ascendprep/ascend/internal/assessment"
	"github.com/ascendprep/ascend/internal/irt"
	"github.com/ascendprep/ascend/internal/recovery"
	"github.com/ascendprep/ascend/internal/unlock"
)

func testResult(t *testing.T) assessment.Result {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Second)
	return assessment.Result{
		ChapterEstimates: map[string]irt.Estimate{
			"physics_kinematics": irt.NewEstimate("physics_kinematics", 0.7, 10, now),
		},
		OverallTheta:      0.4,
		OverallPercentile: 65.5,
		ProcessedAt:       now,
	}
}

func testResponses(n int) []assessment.Response {
	out := make([]assessment.Response, n)
	for i := range out {
		out[i] = assessment.Response{
			QuestionID: fmt.Sprintf("q-%03d", i),
			Subject:    "physics",
			ChapterKey: "physics_kinematics",
			Correct:    i%2 == 0,
		}
	}
	return out
}

func TestSaveAssessmentRoundTrip(t *testing.T) {
	repo := NewLearnerRepo(openTestStore(t))
	ctx := context.Background()

	result := testResult(t)
	require.NoError(t, repo.SaveAssessment(ctx, "u1", result, testResponses(30)))

	snap, err := repo.Proficiency(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, result.OverallPercentile, snap.OverallPercentile)
	assert.Contains(t, snap.ChapterEstimates, "physics_kinematics")

	// The baseline is a frozen copy of the same snapshot.
	base, err := repo.Baseline(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, snap.OverallTheta, base.OverallTheta)

	history, err := repo.ResponseHistory(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, history, 30)
	assert.True(t, history["q-000"])
	assert.False(t, history["q-001"])
}

func TestSaveAssessmentCapacityCheck(t *testing.T) {
	repo := NewLearnerRepo(openTestStore(t))
	ctx := context.Background()

	err := repo.SaveAssessment(ctx, "u1", testResult(t), testResponses(MaxWritesPerTxn))
	var capErr *CapacityError
	require.ErrorAs(t, err, &capErr)
	assert.Equal(t, MaxWritesPerTxn+2, capErr.Writes)
	assert.Equal(t, MaxWritesPerTxn, capErr.Limit)

	// Rejected before any write: nothing is visible.
	_, err = repo.Proficiency(ctx, "u1")
	assert.ErrorIs(t, err, ErrNotFound)
	history, err := repo.ResponseHistory(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestClearResponsesScopedToLearner(t *testing.T) {
	repo := NewLearnerRepo(openTestStore(t))
	ctx := context.Background()

	require.NoError(t, repo.SaveAssessment(ctx, "u1", testResult(t), testResponses(5)))
	require.NoError(t, repo.SaveAssessment(ctx, "u2", testResult(t), testResponses(5)))

	require.NoError(t, repo.ClearResponses(ctx, "u1"))

	h1, err := repo.ResponseHistory(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, h1)

	h2, err := repo.ResponseHistory(ctx, "u2")
	require.NoError(t, err)
	assert.Len(t, h2, 5)
}

func TestClearResponsesKeepsPracticeHistory(t *testing.T) {
	repo := NewLearnerRepo(openTestStore(t))
	ctx := context.Background()

	require.NoError(t, repo.SaveAssessment(ctx, "u1", testResult(t), testResponses(5)))
	require.NoError(t, repo.SaveResponse(ctx, "u1", assessment.Response{
		QuestionID: "p-001",
		Subject:    "physics",
		ChapterKey: "physics_kinematics",
		Correct:    false,
		AnsweredAt: time.Now().UTC(),
	}))

	// A diagnostic re-take clears the assessment attempt only.
	require.NoError(t, repo.ClearResponses(ctx, "u1"))

	history, err := repo.ResponseHistory(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, history, 1)
	correct, seen := history["p-001"]
	assert.True(t, seen)
	assert.False(t, correct)

	responses, err := repo.Responses(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, responses, 1)
	assert.False(t, responses[0].AnsweredAt.IsZero())
}

func TestRecordQuizOutcomeStreak(t *testing.T) {
	repo := NewLearnerRepo(openTestStore(t))
	ctx := context.Background()

	for i := 1; i <= recovery.FailureThreshold-1; i++ {
		state, tripped, err := repo.RecordQuizOutcome(ctx, "u1", 0.3)
		require.NoError(t, err)
		assert.False(t, tripped, "tripped at failure %d", i)
		assert.Equal(t, i, state.ConsecutiveFailures)
		assert.False(t, state.CircuitBreakerActive)
	}

	state, tripped, err := repo.RecordQuizOutcome(ctx, "u1", 0.3)
	require.NoError(t, err)
	assert.True(t, tripped, "threshold crossing must report the trip")
	assert.True(t, state.CircuitBreakerActive)

	// Further failures stay active without re-tripping.
	state, tripped, err = repo.RecordQuizOutcome(ctx, "u1", 0.1)
	require.NoError(t, err)
	assert.False(t, tripped)
	assert.True(t, state.CircuitBreakerActive)

	// A pass resets everything.
	state, tripped, err = repo.RecordQuizOutcome(ctx, "u1", 0.8)
	require.NoError(t, err)
	assert.False(t, tripped)
	assert.Equal(t, recovery.FailureState{}, state)

	loaded, err := repo.FailureState(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, recovery.FailureState{}, loaded)
}

func TestAdvanceHighWaterMarkMonotonic(t *testing.T) {
	repo := NewLearnerRepo(openTestStore(t))
	ctx := context.Background()

	state, err := repo.AdvanceHighWaterMark(ctx, "u1", 14) // position 11
	require.NoError(t, err)
	assert.Equal(t, 11, state.HighWaterMark)

	// Exam postponed: position regresses, the stored mark must not.
	state, err = repo.AdvanceHighWaterMark(ctx, "u1", 22) // position 3
	require.NoError(t, err)
	assert.Equal(t, 11, state.HighWaterMark)

	loaded, err := repo.UnlockState(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 11, loaded.HighWaterMark)
}

func TestSetOverride(t *testing.T) {
	repo := NewLearnerRepo(openTestStore(t))
	ctx := context.Background()

	state, err := repo.SetOverride(ctx, "u1", "physics_optics", true)
	require.NoError(t, err)
	assert.True(t, state.Overrides["physics_optics"])

	state, err = repo.SetOverride(ctx, "u1", "physics_optics", false)
	require.NoError(t, err)
	assert.NotContains(t, state.Overrides, "physics_optics")
}

func TestUnlockStateMissingIsZero(t *testing.T) {
	repo := NewLearnerRepo(openTestStore(t))

	state, err := repo.UnlockState(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Equal(t, unlock.State{}, state)
}

func TestExamTargetRoundTrip(t *testing.T) {
	repo := NewLearnerRepo(openTestStore(t))
	ctx := context.Background()

	want := unlock.ExamTarget{Year: 2028, Month: time.April}
	require.NoError(t, repo.SetExamTarget(ctx, "u1", want))

	got, err := repo.ExamTarget(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSessionRoundTrip(t *testing.T) {
	repo := NewLearnerRepo(openTestStore(t))
	ctx := context.Background()

	s := Session{
		ID:          "s1",
		LearnerID:   "u1",
		Kind:        SessionAssessment,
		QuestionIDs: []string{"q1", "q2", "q3"},
		CreatedAt:   time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, repo.SaveSession(ctx, s))

	got, err := repo.Session(ctx, "u1", "s1")
	require.NoError(t, err)
	assert.Equal(t, s.QuestionIDs, got.QuestionIDs)

	all, err := repo.Sessions(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.Error(t, repo.SaveSession(ctx, Session{LearnerID: "u1"}))
}
