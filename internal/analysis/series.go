package analysis

import (
	"anaviz/domain/analysis"
	"anaviz/domain/table"
)

// Project reshapes the table into chart rows keyed by xKey, yKey and, when it
// names a column, valueKey. The x cell is kept as the raw string; y and value
// cells become numbers when they parse. Rows with an empty x or an empty,
// non-numeric y are dropped. An unknown xKey or yKey yields no rows.
func Project(t *table.Table, xKey, yKey, valueKey string) []analysis.SeriesRow {
	rows := make([]analysis.SeriesRow, 0)

	xIdx := t.Index(xKey)
	yIdx := t.Index(yKey)
	if xIdx == -1 || yIdx == -1 {
		return rows
	}

	valueIdx := -1
	if valueKey != "" {
		valueIdx = t.Index(valueKey)
	}

	for i := 0; i < t.NumRows(); i++ {
		var row analysis.SeriesRow
		row.Set(xKey, analysis.StringValue(t.Cell(i, xIdx)))
		row.Set(yKey, coerce(t.Cell(i, yIdx)))
		if valueIdx != -1 {
			row.Set(valueKey, coerce(t.Cell(i, valueIdx)))
		}

		x, _ := row.Get(xKey)
		y, _ := row.Get(yKey)
		if x.Empty() || y.Empty() {
			continue
		}
		rows = append(rows, row)
	}

	return rows
}

func coerce(cell string) analysis.Value {
	if v, ok := table.ParseNumber(cell); ok {
		return analysis.NumberValue(cell, v)
	}
	return analysis.StringValue(cell)
}
