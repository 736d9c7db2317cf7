// Package formula turns free-text instructions into spreadsheet formulas:
// a deterministic rule-based path first, an oracle-backed fallback second.
package formula

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sheetwright/sheetwright/internal/schema"
)

// Op identifies a supported formula operator.
type Op string

const (
	OpAverage  Op = "AVERAGE"
	OpSum      Op = "SUM"
	OpCount    Op = "COUNT"
	OpMax      Op = "MAX"
	OpMin      Op = "MIN"
	OpMultiply Op = "BINARY_MULTIPLY"
	OpDivide   Op = "BINARY_DIVIDE"
)

// Aggregate reports whether the operator reduces a whole column range.
func (o Op) Aggregate() bool {
	switch o {
	case OpAverage, OpSum, OpCount, OpMax, OpMin:
		return true
	}
	return false
}

// Sentinel failures of the deterministic path. ErrUnresolvedOperator and
// ErrUnresolvedColumn hand control to the oracle fallback;
// ErrBinaryOperands is terminal — the binary branch never consults the
// oracle when it cannot find two columns.
var (
	ErrUnresolvedOperator = errors.New("no operator keyword matched the intent")
	ErrUnresolvedColumn   = errors.New("no schema column matched the intent")
	ErrBinaryOperands     = errors.New("binary arithmetic needs two matching columns")
)

// Fixed row window encoded into aggregate formulas, independent of actual
// table height.
const (
	rowFirst = 2
	rowLast  = 100
)

// operatorTable maps keyword categories to operators. Order is the
// tiebreaker: the first category with any keyword present in the lowered
// intent wins, regardless of where the keywords sit in the text.
var operatorTable = []struct {
	op       Op
	keywords []string
}{
	{OpAverage, []string{"mean", "average", "avg"}},
	{OpSum, []string{"sum", "total", "add up"}},
	{OpCount, []string{"count", "number of", "how many"}},
	{OpMax, []string{"max", "maximum", "highest", "largest"}},
	{OpMin, []string{"min", "minimum", "lowest", "smallest"}},
	{OpMultiply, []string{"multiply", "product", "*"}},
	{OpDivide, []string{"divide", "ratio", "/"}},
}

// ResolveOperator scans the ordered keyword table against the lowercased
// intent.
func ResolveOperator(intent string) (Op, bool) {
	lower := strings.ToLower(intent)
	for _, entry := range operatorTable {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				return entry.op, true
			}
		}
	}
	return "", false
}

// Synthesize runs the deterministic path: operator table, column matcher
// chain, then canonical formula text. It performs no network access.
//
// Binary multiply/divide short-circuits: it scans the schema for every
// member named in the intent and emits a first-row expression from the
// first two, or fails terminally.
func Synthesize(intent string, sch schema.Schema) (string, error) {
	op, ok := ResolveOperator(intent)
	if !ok {
		return "", ErrUnresolvedOperator
	}

	if !op.Aggregate() {
		return synthesizeBinary(op, intent, sch)
	}

	match, ok := ResolveColumn(intent, sch)
	if !ok {
		return "", ErrUnresolvedColumn
	}
	idx := sch.Index(match.Column)
	if idx < 0 {
		// Quoted labels can name something outside the schema; that is a
		// fallback case, not a hard error.
		return "", ErrUnresolvedColumn
	}
	letters, err := schema.ColumnLetters(idx)
	if err != nil {
		return "", fmt.Errorf("column letters for index %d: %w", idx, err)
	}
	return fmt.Sprintf("=%s(%s%d:%s%d)", op, letters, rowFirst, letters, rowLast), nil
}

func synthesizeBinary(op Op, intent string, sch schema.Schema) (string, error) {
	lower := strings.ToLower(intent)
	stripped := stripSpaces(lower)
	var operands []string
	for _, col := range sch {
		colLower := strings.ToLower(col)
		// Spacing variants count here too, same as the column matcher
		// chain: "unit price" names UnitPrice.
		if strings.Contains(lower, colLower) || strings.Contains(stripped, stripSpaces(colLower)) {
			operands = append(operands, col)
		}
	}
	if len(operands) < 2 {
		return "", ErrBinaryOperands
	}
	sym := "*"
	if op == OpDivide {
		sym = "/"
	}
	return fmt.Sprintf("=%s%d%s%s%d", operands[0], rowFirst, sym, operands[1], rowFirst), nil
}
