// Package table holds the immutable, string-typed dataset every analysis reads from.
package table

// Table represents a rectangular dataset: a header row plus data rows, all cells
// still typed as strings. A Table is never mutated after construction.
type Table struct {
	headers []string
	rows    [][]string
	ragged  int
}

// New builds a Table from a header row and data rows. Rows shorter than the header
// are padded with empty cells and longer rows lose their extra trailing cells, so
// every stored row has exactly len(headers) cells.
func New(headers []string, rows [][]string) *Table {
	t := &Table{
		headers: append([]string(nil), headers...),
		rows:    make([][]string, len(rows)),
	}

	width := len(headers)
	for i, row := range rows {
		if len(row) != width {
			t.ragged++
		}
		normalized := make([]string, width)
		copy(normalized, row)
		t.rows[i] = normalized
	}

	return t
}

// FromRecords treats the first record as the header row and the rest as data.
// An empty record set yields an empty table.
func FromRecords(records [][]string) *Table {
	if len(records) == 0 {
		return New(nil, nil)
	}
	return New(records[0], records[1:])
}

// Headers returns a copy of the header row.
func (t *Table) Headers() []string {
	return append([]string(nil), t.headers...)
}

// Header returns the header at position col.
func (t *Table) Header(col int) string {
	return t.headers[col]
}

// NumCols returns the number of columns.
func (t *Table) NumCols() int {
	return len(t.headers)
}

// NumRows returns the number of data rows (the header row excluded).
func (t *Table) NumRows() int {
	return len(t.rows)
}

// Cell returns the raw value at (row, col).
func (t *Table) Cell(row, col int) string {
	return t.rows[row][col]
}

// Row returns a copy of data row i.
func (t *Table) Row(i int) []string {
	return append([]string(nil), t.rows[i]...)
}

// Column returns a copy of the raw cells of column col in row order.
func (t *Table) Column(col int) []string {
	cells := make([]string, len(t.rows))
	for i, row := range t.rows {
		cells[i] = row[col]
	}
	return cells
}

// Index returns the position of the first column whose header equals name
// exactly, or -1.
func (t *Table) Index(name string) int {
	for i, h := range t.headers {
		if h == name {
			return i
		}
	}
	return -1
}

// Ragged reports how many input rows had to be padded or truncated.
func (t *Table) Ragged() int {
	return t.ragged
}

// Records returns the header row followed by every data row, copied.
func (t *Table) Records() [][]string {
	return t.Head(len(t.rows))
}

// Head returns the header row followed by at most n data rows, copied.
func (t *Table) Head(n int) [][]string {
	if n > len(t.rows) {
		n = len(t.rows)
	}
	if n < 0 {
		n = 0
	}
	records := make([][]string, 0, n+1)
	records = append(records, t.Headers())
	for i := 0; i < n; i++ {
		records = append(records, t.Row(i))
	}
	return records
}
