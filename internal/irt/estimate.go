package irt

import "time"

// Theta bounds for the supported ability range.
const (
	ThetaMin = -4.0
	ThetaMax = 4.0
)

// Estimate is a per-chapter latent ability estimate for one learner.
//
// Percentile is always derived from Theta via ThetaToPercentile; the two
// fields never disagree in a stored Estimate.
type Estimate struct {
	ChapterKey    string    `json:"chapter_key"`
	Theta         float64   `json:"theta"`
	Percentile    float64   `json:"percentile"`
	StandardError float64   `json:"confidence_se"`
	Attempts      int       `json:"attempts"`
	Accuracy      float64   `json:"accuracy"`
	IsDerived     bool      `json:"is_derived,omitempty"`
	LastUpdated   time.Time `json:"last_updated"`
}

// NewEstimate builds a consistent Estimate from observed accuracy and
// attempt count for a chapter.
func NewEstimate(chapterKey string, accuracy float64, attempts int, now time.Time) Estimate {
	theta := AccuracyToTheta(accuracy, attempts)
	return Estimate{
		ChapterKey:    chapterKey,
		Theta:         theta,
		Percentile:    ThetaToPercentile(theta),
		StandardError: StandardError(attempts, accuracy),
		Attempts:      attempts,
		Accuracy:      accuracy,
		LastUpdated:   now,
	}
}
