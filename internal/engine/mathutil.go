package engine

import "math"

// sigmoid is the standard logistic function.
func sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}

// clamp bounds x to [lo, hi].
func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// populationVariance computes the population (not sample) variance.
// Returns 0 for fewer than one value.
func populationVariance(values []float64) float64 {
	n := float64(len(values))
	if n == 0 {
		return 0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / n

	var sq float64
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	return sq / n
}

// roundScore rounds an expected score to one decimal place for display.
func roundScore(x float64) float64 {
	return math.Round(x*10) / 10
}
