// Package calc previews a formula's value directly against the table
// snapshot, without a spreadsheet engine or another oracle round-trip.
package calc

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/sheetwright/sheetwright/internal/schema"
	"github.com/sheetwright/sheetwright/internal/table"
)

// BinaryPlaceholder is returned for single-row arithmetic formulas, which
// have no meaningful whole-column preview.
const BinaryPlaceholder = "formula inserted; calculation requires a specific row"

var (
	// Strict aggregate shape: =FUNC(L<n>:L<m>).
	reAggregate = regexp.MustCompile(`^=([A-Za-z]+)\(([A-Za-z]+)(\d+):([A-Za-z]+)(\d+)\)$`)
	// Single-row arithmetic: =Name<n> op Name<n>.
	reBinary = regexp.MustCompile(`^=\S+\d+\s*[*/+\-]\s*\S+\d+$`)
)

// Preview evaluates formulaText against t and formats the result for
// display. It always returns some string for recognizable formulas —
// a value or an explanatory message — and never an error; only formulas
// the simulator does not understand, or column references past the table
// edge, yield the empty string (no preview).
//
// Reductions run over the entire column: the literal 2:100 window in the
// formula text is treated as cosmetic because no spreadsheet runtime
// exists here to honor it.
func Preview(formulaText string, t *table.Table) string {
	if m := reAggregate.FindStringSubmatch(formulaText); m != nil {
		// Only single-column ranges simulate; =SUM(A2:B100) spans columns
		// and gets no preview.
		if !strings.EqualFold(m[2], m[4]) {
			return ""
		}
		return previewAggregate(m[1], m[2], t)
	}
	if reBinary.MatchString(formulaText) {
		return BinaryPlaceholder
	}
	return ""
}

func previewAggregate(fn, letters string, t *table.Table) string {
	idx, err := schema.LettersToIndex(letters)
	if err != nil {
		return ""
	}
	if idx >= t.Cols() {
		// Column letter past the table edge: no preview.
		return ""
	}

	switch strings.ToUpper(fn) {
	case "COUNT":
		n, err := t.CountNonNull(idx)
		if err != nil {
			return fmt.Sprintf("could not calculate preview for column %s: %v", letters, err)
		}
		return humanize.Comma(int64(n))
	case "AVERAGE":
		v, err := t.Mean(idx)
		return formatReduction(v, err, letters)
	case "SUM":
		v, err := t.Sum(idx)
		return formatReduction(v, err, letters)
	case "MAX":
		v, err := t.Max(idx)
		return formatReduction(v, err, letters)
	case "MIN":
		v, err := t.Min(idx)
		return formatReduction(v, err, letters)
	}
	// Functions outside the simulator's vocabulary get no preview.
	return ""
}

func formatReduction(v float64, err error, letters string) string {
	if err != nil {
		return fmt.Sprintf("could not calculate preview for column %s: %v", letters, err)
	}
	return FormatNumber(v)
}

// FormatNumber renders a value with thousands separators: integer
// grouping for integral values, at most two decimals otherwise.
func FormatNumber(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return humanize.Comma(int64(v))
	}
	return humanize.FormatFloat("#,###.##", v)
}
