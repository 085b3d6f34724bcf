package analysis

import (
	"anaviz/domain/analysis"
	"anaviz/domain/table"
)

// MissingOverview counts empty cells per column along with their share of all
// rows, rounded to two decimals. A table without rows reports 0% everywhere.
func MissingOverview(t *table.Table) analysis.MissingReport {
	total := t.NumRows()
	out := make(analysis.MissingReport, 0, t.NumCols())

	for col := 0; col < t.NumCols(); col++ {
		missing := 0
		for _, cell := range t.Column(col) {
			if table.IsMissing(cell) {
				missing++
			}
		}

		percentage := 0.0
		if total > 0 {
			percentage = roundHalfUp(float64(missing)/float64(total)*100*100) / 100
		}

		out = append(out, analysis.MissingRecord{
			Column:       t.Header(col),
			MissingCount: missing,
			Percentage:   percentage,
		})
	}

	return out
}
