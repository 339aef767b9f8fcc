package cohort

// Table is an in-memory rectangular dataset as handed over by a reader: a
// header row naming the columns and one slice of raw cell values per row.
// Cells are left uninterpreted; rows may be shorter than the header.
type Table struct {
	Header []string
	Rows   [][]string

	index map[string]int
}

// NewTable indexes the header. If a column name repeats, the first occurrence
// wins.
func NewTable(header []string, rows [][]string) *Table {
	t := &Table{
		Header: header,
		Rows:   rows,
		index:  make(map[string]int, len(header)),
	}

	for i, name := range header {
		if _, exists := t.index[name]; exists {
			continue
		}
		t.index[name] = i
	}

	return t
}

// Len is the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// ColumnIndex returns the position of the named column.
func (t *Table) ColumnIndex(name string) (int, bool) {
	if t.index == nil {
		*t = *NewTable(t.Header, t.Rows)
	}

	i, exists := t.index[name]
	return i, exists
}

// Value returns the cell at row, col. Cells past the end of a short row are
// empty.
func (t *Table) Value(row, col int) string {
	if col < 0 || col >= len(t.Rows[row]) {
		return ""
	}

	return t.Rows[row][col]
}

// Column returns every value of the named column, in row order.
func (t *Table) Column(name string) ([]string, bool) {
	col, exists := t.ColumnIndex(name)
	if !exists {
		return nil, false
	}

	out := make([]string, len(t.Rows))
	for i := range t.Rows {
		out[i] = t.Value(i, col)
	}

	return out, true
}

// MissingColumns returns the names in expected that are not in the header,
// preserving the order of expected.
func (t *Table) MissingColumns(expected []string) []string {
	var missing []string
	for _, v := range expected {
		if _, exists := t.ColumnIndex(v); !exists {
			missing = append(missing, v)
		}
	}

	return missing
}
