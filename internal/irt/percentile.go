package irt

import "math"

// ThetaToPercentile converts theta to a 0-100 population-relative score
// using the standard normal reference ability distribution.
//
// This is the only path by which percentile is computed anywhere in the
// engine, so a stored percentile can always be re-derived from its theta.
func ThetaToPercentile(theta float64) float64 {
	p := 100 * 0.5 * (1 + math.Erf(theta/math.Sqrt2))
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
