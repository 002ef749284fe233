package recovery

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/ascendprep/ascend/internal/irt"
	"github.com/ascendprep/ascend/internal/logging"
	"github.com/ascendprep/ascend/internal/question"
	"github.com/ascendprep/ascend/internal/sampling"
)

func fp(v float64) *float64 { return &v }

func TestFailureStateThreshold(t *testing.T) {
	var s FailureState

	// Four consecutive failures leave the breaker inactive.
	for i := 1; i <= 4; i++ {
		tripped := s.RecordQuiz(0.3)
		if tripped {
			t.Fatalf("breaker tripped at failure %d, want only at %d", i, FailureThreshold)
		}
		if s.CircuitBreakerActive {
			t.Fatalf("CircuitBreakerActive after %d failures, want false", i)
		}
	}
	if s.ConsecutiveFailures != 4 {
		t.Fatalf("ConsecutiveFailures = %d, want 4", s.ConsecutiveFailures)
	}

	// The fifth flips it.
	if tripped := s.RecordQuiz(0.4); !tripped {
		t.Error("fifth consecutive failure should trip the breaker")
	}
	if !s.CircuitBreakerActive {
		t.Error("CircuitBreakerActive = false after fifth failure")
	}

	// Further failures keep it active without re-reporting the trip.
	if tripped := s.RecordQuiz(0.2); tripped {
		t.Error("already-active breaker reported a second trip")
	}
}

func TestFailureStateReset(t *testing.T) {
	s := FailureState{ConsecutiveFailures: 7, CircuitBreakerActive: true}

	if tripped := s.RecordQuiz(0.5); tripped {
		t.Error("passing quiz reported a trip")
	}
	if s.ConsecutiveFailures != 0 || s.CircuitBreakerActive {
		t.Errorf("state after pass = %+v, want zeroed", s)
	}

	// A pass mid-streak also resets.
	var s2 FailureState
	s2.RecordQuiz(0.1)
	s2.RecordQuiz(0.1)
	s2.RecordQuiz(0.9)
	if s2.ConsecutiveFailures != 0 {
		t.Errorf("ConsecutiveFailures = %d after mid-streak pass, want 0", s2.ConsecutiveFailures)
	}
}

func recoveryPool() []question.Question {
	var pool []question.Question
	for i := 0; i < 10; i++ {
		pool = append(pool, question.Question{
			ID: fmt.Sprintf("easy-%d", i), ChapterKey: "physics_kinematics",
			Type: question.TypeNumerical, B: fp(-0.5),
		})
	}
	for i := 0; i < 4; i++ {
		pool = append(pool, question.Question{
			ID: fmt.Sprintf("med-%d", i), ChapterKey: "chemistry_mole_concept",
			Type: question.TypeNumerical, B: fp(0.3),
		})
	}
	for i := 0; i < 4; i++ {
		pool = append(pool, question.Question{
			ID: fmt.Sprintf("hard-%d", i), ChapterKey: "mathematics_trigonometry",
			Type: question.TypeNumerical, B: fp(1.5),
		})
	}
	return pool
}

func TestBuildQuizComposition(t *testing.T) {
	now := time.Now()
	estimates := map[string]irt.Estimate{
		"physics_kinematics":     irt.NewEstimate("physics_kinematics", 0.2, 10, now),
		"chemistry_mole_concept": irt.NewEstimate("chemistry_mole_concept", 0.6, 10, now),
		"mathematics_trigonometry": irt.NewEstimate("mathematics_trigonometry", 0.9, 10, now),
	}
	review := []question.Question{
		{ID: "review-1", ChapterKey: "physics_kinematics", Type: question.TypeNumerical, B: fp(0.2)},
	}

	g := sampling.NewGenerator(sampling.SeedFromIdentity("U1"))
	quiz, err := BuildQuiz(recoveryPool(), estimates, review, g, logging.NewNop())
	if err != nil {
		t.Fatalf("BuildQuiz error: %v", err)
	}

	if len(quiz) != QuizSize {
		t.Fatalf("len(quiz) = %d, want %d", len(quiz), QuizSize)
	}
	if quiz[0].ID != "review-1" {
		t.Errorf("first item = %s, want the spaced-review item", quiz[0].ID)
	}

	var easy, medium, hard int
	for _, q := range quiz[1:] {
		b := q.Difficulty(question.DefaultDifficulty)
		switch {
		case b <= 0.0:
			easy++
		case b <= 0.5:
			medium++
		default:
			hard++
		}
	}
	if easy != 7 || medium != 2 || hard != 0 {
		t.Errorf("composition easy/medium/hard = %d/%d/%d, want 7/2/0", easy, medium, hard)
	}

	// No duplicates.
	seen := make(map[string]bool)
	for _, q := range quiz {
		if seen[q.ID] {
			t.Fatalf("duplicate question %s in recovery quiz", q.ID)
		}
		seen[q.ID] = true
	}
}

func TestBuildQuizShortPool(t *testing.T) {
	pool := []question.Question{
		{ID: "easy-0", ChapterKey: "physics_kinematics", Type: question.TypeNumerical, B: fp(-0.2)},
		{ID: "easy-1", ChapterKey: "physics_kinematics", Type: question.TypeNumerical, B: fp(-0.1)},
	}

	g := sampling.NewGenerator(1)
	quiz, err := BuildQuiz(pool, nil, nil, g, logging.NewNop())
	if err != nil {
		t.Fatalf("a short pool should not be an error, got: %v", err)
	}
	if len(quiz) != 2 {
		t.Errorf("len(quiz) = %d, want 2 (whatever was found)", len(quiz))
	}
}

func TestBuildQuizEmptyPool(t *testing.T) {
	g := sampling.NewGenerator(1)
	_, err := BuildQuiz(nil, nil, nil, g, logging.NewNop())
	if !errors.Is(err, ErrNoQuestions) {
		t.Errorf("err = %v, want ErrNoQuestions", err)
	}
}

func TestWeakestChapters(t *testing.T) {
	now := time.Now()
	estimates := map[string]irt.Estimate{
		"a": irt.NewEstimate("a", 0.1, 10, now),
		"b": irt.NewEstimate("b", 0.3, 10, now),
		"c": irt.NewEstimate("c", 0.5, 10, now),
		"d": irt.NewEstimate("d", 0.9, 10, now),
		"e": irt.NewEstimate("e", 0.95, 10, now),
		"f": {ChapterKey: "f", Theta: -3, Attempts: 0}, // no attempts, excluded
	}

	focus := weakestChapters(estimates)
	if len(focus) > focusChapterCount {
		t.Fatalf("len(focus) = %d, want <= %d", len(focus), focusChapterCount)
	}
	if focus["f"] {
		t.Error("zero-attempt chapter selected as focus")
	}
	if !focus["a"] || !focus["b"] {
		t.Errorf("lowest-theta chapters missing from focus set: %v", focus)
	}
	if focus["e"] {
		t.Error("highest-theta chapter selected as focus")
	}
}
