package analysis

import (
	"math"

	"anaviz/domain/analysis"
	"anaviz/domain/table"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// NumericColumnThreshold is the share of parseable cells a column must exceed to
// take part in the correlation matrix.
const NumericColumnThreshold = 0.5

// Correlate computes Pearson coefficients, rounded to two decimals, between every
// pair of numeric columns.
//
// Each column's numeric view is filtered on its own, so the two views of a pair are
// only aligned by position: the sums run over the first min(len) entries while each
// mean uses its view's full length.
func Correlate(t *table.Table) analysis.CorrelationMatrix {
	var headers []string
	var views [][]float64
	for col := 0; col < t.NumCols(); col++ {
		if !t.IsNumeric(col, NumericColumnThreshold) {
			continue
		}
		headers = append(headers, t.Header(col))
		views = append(views, t.NumericView(col))
	}

	if len(headers) == 0 {
		return analysis.NewCorrelationMatrix(nil, nil)
	}

	values := mat.NewSymDense(len(views), nil)
	for i := range views {
		for j := i; j < len(views); j++ {
			values.SetSym(i, j, pearson(views[i], views[j]))
		}
	}

	return analysis.NewCorrelationMatrix(headers, values)
}

// pearson retries on rescaled views when the sums overflow; the coefficient is
// scale invariant. A result that is still not finite counts as no correlation.
func pearson(v1, v2 []float64) float64 {
	if r := rawPearson(v1, v2); isFinite(r) {
		return r
	}
	s1, _ := rescale(v1)
	s2, _ := rescale(v2)
	if r := rawPearson(s1, s2); isFinite(r) {
		return r
	}
	return 0
}

func rawPearson(v1, v2 []float64) float64 {
	n := len(v1)
	if len(v2) < n {
		n = len(v2)
	}
	if n < 2 {
		return 0
	}

	mean1 := floats.Sum(v1) / float64(len(v1))
	mean2 := floats.Sum(v2) / float64(len(v2))

	var num, ss1, ss2 float64
	for k := 0; k < n; k++ {
		d1 := v1[k] - mean1
		d2 := v2[k] - mean2
		num += d1 * d2
		ss1 += d1 * d1
		ss2 += d2 * d2
	}

	den := math.Sqrt(ss1 * ss2)
	if den == 0 {
		return 0
	}
	return roundHalfUp(num/den*100) / 100
}

// roundHalfUp rounds to the nearest integer with ties going toward +Inf, so
// -2.5 becomes -2 rather than -3.
func roundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}
