// Package analysis defines the result shapes produced by the analysis engines.
//
// Per-column results are ordered slices, one entry per header position. Their JSON
// form is the header-keyed object the charting frontend consumes; when two columns
// share a header, the later column wins in that keyed form.
package analysis

import (
	"encoding/json"

	"gonum.org/v1/gonum/mat"
)

// SummaryRecord is the per-column summary. It is either a TextSummary (no numeric
// values in the column) or a NumericSummary; the two are never mixed so "field
// absent" stays distinct from "field is zero".
type SummaryRecord interface {
	// NonEmpty is the number of non-empty cells.
	NonEmpty() int
	// Distinct is the number of distinct raw values among non-empty cells.
	Distinct() int
	// Numeric reports whether mean/std/min/max apply.
	Numeric() bool
}

// TextSummary summarizes a column without any numeric cells.
type TextSummary struct {
	Count  int `json:"count"`
	Unique int `json:"unique"`
}

func (s TextSummary) NonEmpty() int { return s.Count }
func (s TextSummary) Distinct() int { return s.Unique }
func (s TextSummary) Numeric() bool { return false }

// NumericSummary summarizes a column with at least one numeric cell. Std is the
// population standard deviation.
type NumericSummary struct {
	Count  int     `json:"count"`
	Unique int     `json:"unique"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

func (s NumericSummary) NonEmpty() int { return s.Count }
func (s NumericSummary) Distinct() int { return s.Unique }
func (s NumericSummary) Numeric() bool { return true }

// ColumnSummary pairs a header with its summary record.
type ColumnSummary struct {
	Column string
	Record SummaryRecord
}

// Summary is the summary of every column in header order.
type Summary []ColumnSummary

// ByHeader returns the header-keyed view.
func (s Summary) ByHeader() map[string]SummaryRecord {
	out := make(map[string]SummaryRecord, len(s))
	for _, c := range s {
		out[c.Column] = c.Record
	}
	return out
}

func (s Summary) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.ByHeader())
}

// MissingRecord counts empty cells in a column.
type MissingRecord struct {
	Column       string  `json:"-"`
	MissingCount int     `json:"Missing Values"`
	Percentage   float64 `json:"Percentage"`
}

// MissingReport is the missing-data overview in header order.
type MissingReport []MissingRecord

// ByHeader returns the header-keyed view.
func (r MissingReport) ByHeader() map[string]MissingRecord {
	out := make(map[string]MissingRecord, len(r))
	for _, rec := range r {
		out[rec.Column] = rec
	}
	return out
}

func (r MissingReport) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.ByHeader())
}

// OutlierRecord counts IQR outliers in a column.
type OutlierRecord struct {
	Column       string `json:"-"`
	OutlierCount int    `json:"Outlier Count"`
}

// OutlierReport is the outlier overview in header order.
type OutlierReport []OutlierRecord

// ByHeader returns the header-keyed view.
func (r OutlierReport) ByHeader() map[string]OutlierRecord {
	out := make(map[string]OutlierRecord, len(r))
	for _, rec := range r {
		out[rec.Column] = rec
	}
	return out
}

func (r OutlierReport) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.ByHeader())
}

// CorrelationMatrix holds pairwise coefficients between the numeric columns.
type CorrelationMatrix struct {
	columns []string
	values  *mat.SymDense
}

// NewCorrelationMatrix wraps coefficients for the given columns. values may be nil
// only when there are no columns.
func NewCorrelationMatrix(columns []string, values *mat.SymDense) CorrelationMatrix {
	return CorrelationMatrix{
		columns: append([]string(nil), columns...),
		values:  values,
	}
}

// Columns returns the participating headers in table order.
func (m CorrelationMatrix) Columns() []string {
	return append([]string(nil), m.columns...)
}

// Size returns the number of participating columns.
func (m CorrelationMatrix) Size() int {
	return len(m.columns)
}

// At returns the coefficient between the i-th and j-th participating columns.
func (m CorrelationMatrix) At(i, j int) float64 {
	return m.values.At(i, j)
}

// Coefficient looks up the coefficient between two headers.
func (m CorrelationMatrix) Coefficient(h1, h2 string) (float64, bool) {
	row, ok := m.ByHeader()[h1]
	if !ok {
		return 0, false
	}
	v, ok := row[h2]
	return v, ok
}

// ByHeader returns the nested header-keyed view. Later duplicate headers replace
// the whole row of an earlier one.
func (m CorrelationMatrix) ByHeader() map[string]map[string]float64 {
	out := make(map[string]map[string]float64, len(m.columns))
	for i, h1 := range m.columns {
		row := make(map[string]float64, len(m.columns))
		for j, h2 := range m.columns {
			row[h2] = m.values.At(i, j)
		}
		out[h1] = row
	}
	return out
}

func (m CorrelationMatrix) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.ByHeader())
}
