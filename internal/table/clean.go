package table

import "strings"

// CleanSummary reports what cleaning changed.
type CleanSummary struct {
	DroppedRows    int `json:"dropped_rows"`
	TrimmedColumns int `json:"trimmed_columns"`
}

// Clean returns a copy of t with fully-empty rows dropped and column
// names trimmed of surrounding whitespace. A trim that would collide
// with another header is skipped, keeping the schema unique.
func Clean(t *Table) (*Table, CleanSummary) {
	var summary CleanSummary

	counts := make(map[string]int, len(t.schema))
	for _, col := range t.schema {
		counts[strings.TrimSpace(col)]++
	}
	columns := make([]string, len(t.schema))
	for i, col := range t.schema {
		trimmed := strings.TrimSpace(col)
		if trimmed != col && counts[trimmed] == 1 {
			summary.TrimmedColumns++
			columns[i] = trimmed
			continue
		}
		columns[i] = col
	}

	var rows [][]string
	for _, row := range t.rows {
		empty := true
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				empty = false
				break
			}
		}
		if empty {
			summary.DroppedRows++
			continue
		}
		rows = append(rows, row)
	}

	cleaned := &Table{schema: columns, rows: rows}
	return cleaned, summary
}

// Profile is a lightweight description of a table.
type Profile struct {
	RowCount    int            `json:"row_count"`
	ColumnCount int            `json:"column_count"`
	Columns     []string       `json:"columns"`
	NullCounts  map[string]int `json:"null_counts"`
}

// Profiled computes row/column counts and per-column null counts.
func Profiled(t *Table) Profile {
	p := Profile{
		RowCount:    t.Rows(),
		ColumnCount: t.Cols(),
		Columns:     append([]string(nil), t.schema...),
		NullCounts:  make(map[string]int, t.Cols()),
	}
	for i, col := range t.schema {
		nonNull, _ := t.CountNonNull(i)
		p.NullCounts[col] = t.Rows() - nonNull
	}
	return p
}
