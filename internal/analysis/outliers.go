package analysis

import (
	"sort"

	"anaviz/domain/analysis"
	"anaviz/domain/table"
)

// MinOutlierSamples is the smallest numeric view the IQR rule is applied to.
const MinOutlierSamples = 4

// DetectOutliers counts, per column, the numeric values outside
// [Q1 - 1.5*IQR, Q3 + 1.5*IQR].
func DetectOutliers(t *table.Table) analysis.OutlierReport {
	out := make(analysis.OutlierReport, 0, t.NumCols())
	for col := 0; col < t.NumCols(); col++ {
		out = append(out, analysis.OutlierRecord{
			Column:       t.Header(col),
			OutlierCount: countOutliers(t.NumericView(col)),
		})
	}
	return out
}

// quartiles uses plain order statistics on sorted data: Q1 at floor(0.25n) and
// Q3 at floor(0.75n), no interpolation.
func quartiles(sorted []float64) (q1, q3 float64) {
	n := len(sorted)
	return sorted[int(float64(n)*0.25)], sorted[int(float64(n)*0.75)]
}

func countOutliers(view []float64) int {
	if len(view) < MinOutlierSamples {
		return 0
	}

	sorted := append([]float64(nil), view...)
	sort.Float64s(sorted)

	q1, q3 := quartiles(sorted)
	iqr := q3 - q1
	lower := q1 - 1.5*iqr
	upper := q3 + 1.5*iqr

	count := 0
	for _, x := range sorted {
		if x < lower || x > upper {
			count++
		}
	}
	return count
}
