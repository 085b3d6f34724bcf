package analysis

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// rescale divides a copy of view by its largest magnitude so sums of squares
// stay in range. It returns the copy and the factor to multiply results back by.
func rescale(view []float64) ([]float64, float64) {
	factor := floats.Norm(view, math.Inf(1))
	if factor == 0 || !isFinite(factor) {
		return view, 1
	}
	scaled := make([]float64, len(view))
	floats.ScaleTo(scaled, 1/factor, view)
	return scaled, factor
}
