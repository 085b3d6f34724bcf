package analysis

import (
	"anaviz/domain/analysis"
	"anaviz/domain/table"

	"github.com/montanaflynn/stats"
)

// Summarize computes count, unique and, for columns holding numbers, mean,
// population standard deviation, min and max.
func Summarize(t *table.Table) analysis.Summary {
	out := make(analysis.Summary, 0, t.NumCols())
	for col := 0; col < t.NumCols(); col++ {
		out = append(out, analysis.ColumnSummary{
			Column: t.Header(col),
			Record: summarizeColumn(t, col),
		})
	}
	return out
}

func summarizeColumn(t *table.Table, col int) analysis.SummaryRecord {
	count := 0
	distinct := make(map[string]struct{})
	for _, cell := range t.Column(col) {
		if table.IsMissing(cell) {
			continue
		}
		count++
		distinct[cell] = struct{}{}
	}

	view := t.NumericView(col)
	if len(view) == 0 {
		return analysis.TextSummary{Count: count, Unique: len(distinct)}
	}

	// the view is non-empty, so none of these can fail
	mean := scaledStat(view, stats.Mean)
	std := scaledStat(view, stats.StandardDeviationPopulation)
	min, _ := stats.Min(view)
	max, _ := stats.Max(view)

	return analysis.NumericSummary{
		Count:  count,
		Unique: len(distinct),
		Mean:   mean,
		Std:    std,
		Min:    min,
		Max:    max,
	}
}

// scaledStat recomputes on a rescaled copy when the direct result overflows.
// Mean and standard deviation both scale linearly with the data.
func scaledStat(view []float64, fn func(stats.Float64Data) (float64, error)) float64 {
	if v, err := fn(view); err == nil && isFinite(v) {
		return v
	}
	scaled, factor := rescale(view)
	if v, err := fn(scaled); err == nil && isFinite(v*factor) {
		return v * factor
	}
	return 0
}
