package table

import (
	"math"
	"strconv"
	"strings"
)

// ParseNumber reports whether the whole trimmed cell is a finite decimal float
// literal. Partial parses such as "12abc" fail, as do hex literals, NaN,
// infinities and values that overflow float64.
func ParseNumber(cell string) (float64, bool) {
	s := strings.TrimSpace(cell)
	if s == "" || isHexLiteral(s) {
		return 0, false
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func isHexLiteral(s string) bool {
	s = strings.TrimLeft(s, "+-")
	return len(s) > 1 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}

// IsMissing reports whether a cell carries no value.
func IsMissing(cell string) bool {
	return cell == ""
}

// NumericView returns the cells of column col that parse as numbers, in row order.
func (t *Table) NumericView(col int) []float64 {
	view := make([]float64, 0, len(t.rows))
	for _, row := range t.rows {
		if v, ok := ParseNumber(row[col]); ok {
			view = append(view, v)
		}
	}
	return view
}

// NumericFraction is the share of data rows whose cell in column col parses as a
// number. It is 0 for a table without rows.
func (t *Table) NumericFraction(col int) float64 {
	if len(t.rows) == 0 {
		return 0
	}
	return float64(len(t.NumericView(col))) / float64(len(t.rows))
}

// IsNumeric reports whether more than threshold of the column parses as numbers.
// The comparison is strict: a column at exactly the threshold is not numeric.
func (t *Table) IsNumeric(col int, threshold float64) bool {
	return t.NumericFraction(col) > threshold
}
