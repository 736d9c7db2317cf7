// Package table provides the tabular snapshot the inference core runs
// against: an ordered schema plus rows of cell text, with the scalar
// reductions, cleaning, profiling, and pivot operations of the service
// surface. Workbook and CSV loaders live here too.
package table

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/sheetwright/sheetwright/internal/schema"
)

// ErrNoNumericValues is returned by reductions over columns that hold no
// parseable numbers.
var ErrNoNumericValues = errors.New("no numeric values in column")

// Table is an immutable snapshot of one worksheet: an ordered unique
// schema and rows of cell text. An empty cell is a null.
type Table struct {
	schema schema.Schema
	rows   [][]string
}

// New builds a Table. Column names must be unique; rows shorter than the
// schema are padded with empty cells.
func New(columns []string, rows [][]string) (*Table, error) {
	seen := make(map[string]bool, len(columns))
	for _, col := range columns {
		if seen[col] {
			return nil, fmt.Errorf("duplicate column %q", col)
		}
		seen[col] = true
	}
	sch := make(schema.Schema, len(columns))
	copy(sch, columns)

	padded := make([][]string, len(rows))
	for i, row := range rows {
		if len(row) >= len(columns) {
			padded[i] = row[:len(columns)]
			continue
		}
		tmp := make([]string, len(columns))
		copy(tmp, row)
		padded[i] = tmp
	}
	return &Table{schema: sch, rows: padded}, nil
}

// Schema returns the ordered column names.
func (t *Table) Schema() schema.Schema { return t.schema }

// Rows returns the data row count (header excluded).
func (t *Table) Rows() int { return len(t.rows) }

// Cols returns the column count.
func (t *Table) Cols() int { return len(t.schema) }

// Row returns one data row by zero-based index.
func (t *Table) Row(i int) []string { return t.rows[i] }

// Column returns all cells of the column at the zero-based position.
func (t *Table) Column(i int) ([]string, bool) {
	if i < 0 || i >= len(t.schema) {
		return nil, false
	}
	out := make([]string, len(t.rows))
	for r, row := range t.rows {
		out[r] = row[i]
	}
	return out, true
}

// ColumnByName returns all cells of the named column (exact match).
func (t *Table) ColumnByName(name string) ([]string, bool) {
	return t.Column(t.schema.Index(name))
}

// Preview returns up to limit leading rows as name→cell records, the
// shape API responses show to users.
func (t *Table) Preview(limit int) []map[string]string {
	if limit <= 0 || limit > len(t.rows) {
		limit = len(t.rows)
	}
	out := make([]map[string]string, limit)
	for i := 0; i < limit; i++ {
		rec := make(map[string]string, len(t.schema))
		for j, col := range t.schema {
			rec[col] = t.rows[i][j]
		}
		out[i] = rec
	}
	return out
}

// numeric parses the column's cells, skipping nulls and non-numbers.
func (t *Table) numeric(i int) []float64 {
	cells, ok := t.Column(i)
	if !ok {
		return nil
	}
	var vals []float64
	for _, cell := range cells {
		raw := strings.TrimSpace(cell)
		if raw == "" {
			continue
		}
		raw = strings.ReplaceAll(raw, ",", "")
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			vals = append(vals, v)
		}
	}
	return vals
}

// Mean averages the numeric cells of the column.
func (t *Table) Mean(i int) (float64, error) {
	vals := t.numeric(i)
	if len(vals) == 0 {
		return 0, ErrNoNumericValues
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals)), nil
}

// Sum totals the numeric cells of the column.
func (t *Table) Sum(i int) (float64, error) {
	vals := t.numeric(i)
	if len(vals) == 0 {
		return 0, ErrNoNumericValues
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum, nil
}

// CountNonNull counts cells that are not empty.
func (t *Table) CountNonNull(i int) (int, error) {
	cells, ok := t.Column(i)
	if !ok {
		return 0, fmt.Errorf("column index %d out of range", i)
	}
	var n int
	for _, cell := range cells {
		if strings.TrimSpace(cell) != "" {
			n++
		}
	}
	return n, nil
}

// Max returns the largest numeric cell of the column.
func (t *Table) Max(i int) (float64, error) {
	vals := t.numeric(i)
	if len(vals) == 0 {
		return 0, ErrNoNumericValues
	}
	maxV := vals[0]
	for _, v := range vals[1:] {
		if v > maxV {
			maxV = v
		}
	}
	return maxV, nil
}

// Min returns the smallest numeric cell of the column.
func (t *Table) Min(i int) (float64, error) {
	vals := t.numeric(i)
	if len(vals) == 0 {
		return 0, ErrNoNumericValues
	}
	minV := vals[0]
	for _, v := range vals[1:] {
		if v < minV {
			minV = v
		}
	}
	return minV, nil
}
