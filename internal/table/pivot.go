package table

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Aggregation functions the pivot supports.
var supportedAggFuncs = []string{"count", "mean", "sum"}

// Pivot groups rows by the index columns and aggregates each value column
// with aggfunc (sum, mean, or count). The result is a new table whose
// schema is index columns followed by value columns, sorted by the group
// key for stable output.
func Pivot(t *Table, index, values []string, aggfunc string) (*Table, error) {
	if !aggFuncSupported(aggfunc) {
		return nil, fmt.Errorf("unsupported aggfunc %q; use one of %s", aggfunc, strings.Join(supportedAggFuncs, ", "))
	}
	var missingIndex, missingValues []string
	idxPos := make([]int, 0, len(index))
	for _, col := range index {
		p := t.schema.Index(col)
		if p < 0 {
			missingIndex = append(missingIndex, col)
			continue
		}
		idxPos = append(idxPos, p)
	}
	valPos := make([]int, 0, len(values))
	for _, col := range values {
		p := t.schema.Index(col)
		if p < 0 {
			missingValues = append(missingValues, col)
			continue
		}
		valPos = append(valPos, p)
	}
	if len(missingIndex) > 0 || len(missingValues) > 0 {
		return nil, fmt.Errorf("missing columns - index: %s, values: %s",
			missingOrOK(missingIndex), missingOrOK(missingValues))
	}
	if len(idxPos) == 0 {
		return nil, fmt.Errorf("pivot requires at least one index column")
	}

	type acc struct {
		key   []string
		sum   []float64
		count []int
	}
	groups := make(map[string]*acc)
	for _, row := range t.rows {
		keyParts := make([]string, len(idxPos))
		for i, p := range idxPos {
			keyParts[i] = row[p]
		}
		key := strings.Join(keyParts, "\x1f")
		g := groups[key]
		if g == nil {
			g = &acc{key: keyParts, sum: make([]float64, len(valPos)), count: make([]int, len(valPos))}
			groups[key] = g
		}
		for i, p := range valPos {
			raw := strings.TrimSpace(row[p])
			if raw == "" {
				continue
			}
			if aggfunc == "count" {
				g.count[i]++
				continue
			}
			if v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64); err == nil {
				g.sum[i] += v
				g.count[i]++
			}
		}
	}

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	columns := append(append([]string{}, index...), values...)
	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		g := groups[k]
		row := append([]string{}, g.key...)
		for i := range valPos {
			row = append(row, formatAgg(aggfunc, g.sum[i], g.count[i]))
		}
		rows = append(rows, row)
	}
	return New(columns, rows)
}

func formatAgg(aggfunc string, sum float64, count int) string {
	switch aggfunc {
	case "count":
		return strconv.Itoa(count)
	case "mean":
		if count == 0 {
			return ""
		}
		return strconv.FormatFloat(sum/float64(count), 'f', -1, 64)
	default: // sum
		return strconv.FormatFloat(sum, 'f', -1, 64)
	}
}

func aggFuncSupported(aggfunc string) bool {
	for _, f := range supportedAggFuncs {
		if f == aggfunc {
			return true
		}
	}
	return false
}

func missingOrOK(cols []string) string {
	if len(cols) == 0 {
		return "OK"
	}
	return "[" + strings.Join(cols, ", ") + "]"
}
