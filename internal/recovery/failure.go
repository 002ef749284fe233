package recovery

// FailureThreshold is the number of consecutive failing quizzes that trips
// the circuit breaker.
const FailureThreshold = 5

// PassingAccuracy is the accuracy at or above which a quiz counts as passed.
const PassingAccuracy = 0.5

// FailureState tracks a learner's consecutive quiz failures.
type FailureState struct {
	ConsecutiveFailures  int  `json:"consecutive_failures"`
	CircuitBreakerActive bool `json:"circuit_breaker_active"`
}

// RecordQuiz applies one quiz outcome to the state. A passing quiz
// (accuracy >= 0.5) resets the streak and deactivates the breaker; a
// failing quiz increments the streak and activates the breaker once the
// streak reaches the threshold. Returns true when this call flipped the
// breaker from inactive to active.
func (s *FailureState) RecordQuiz(accuracy float64) (tripped bool) {
	if accuracy >= PassingAccuracy {
		s.ConsecutiveFailures = 0
		s.CircuitBreakerActive = false
		return false
	}

	s.ConsecutiveFailures++
	if !s.CircuitBreakerActive && s.ConsecutiveFailures >= FailureThreshold {
		s.CircuitBreakerActive = true
		return true
	}
	return false
}
