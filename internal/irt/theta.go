package irt

import "math"

// thetaScale converts the regularized log-odds of accuracy onto the theta
// scale of the reference ability distribution.
const thetaScale = 1.0

// BoundTheta clamps theta to the supported [ThetaMin, ThetaMax] range.
func BoundTheta(theta float64) float64 {
	if theta < ThetaMin {
		return ThetaMin
	}
	if theta > ThetaMax {
		return ThetaMax
	}
	return theta
}

// AccuracyToTheta maps observed accuracy over a number of attempts to an
// initial ability estimate.
//
// The raw accuracy is regularized toward 0.5 with a pseudo-count of one
// attempt (Laplace smoothing) before taking log-odds, so extreme accuracies
// stay finite and small samples produce less extreme estimates. Accuracy 0.5
// maps to theta 0 at any attempt count.
func AccuracyToTheta(accuracy float64, attempts int) float64 {
	if attempts < 1 {
		return 0
	}
	if accuracy < 0 {
		accuracy = 0
	} else if accuracy > 1 {
		accuracy = 1
	}

	n := float64(attempts)
	adjusted := (accuracy*n + 0.5) / (n + 1)
	theta := thetaScale * math.Log(adjusted/(1-adjusted))
	return BoundTheta(theta)
}

// StandardError returns the reported confidence signal for an estimate.
// It is monotonically non-increasing in attempts and never gates behavior.
func StandardError(attempts int, accuracy float64) float64 {
	if attempts < 1 {
		return 1.0
	}
	if accuracy < 0 {
		accuracy = 0
	} else if accuracy > 1 {
		accuracy = 1
	}

	n := float64(attempts)
	adjusted := (accuracy*n + 0.5) / (n + 1)
	return math.Sqrt(adjusted * (1 - adjusted) / n)
}
