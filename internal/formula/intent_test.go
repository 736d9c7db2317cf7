package formula

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheetwright/sheetwright/internal/schema"
)

func TestResolveOperator(t *testing.T) {
	tests := []struct {
		intent string
		want   Op
		ok     bool
	}{
		{"average of unit price", OpAverage, true},
		{"what is the MEAN here", OpAverage, true},
		{"add up the revenue", OpSum, true},
		{"total revenue", OpSum, true},
		{"how many orders", OpCount, true},
		{"number of items", OpCount, true},
		{"highest score", OpMax, true},
		{"lowest score", OpMin, true},
		{"multiply qty by price", OpMultiply, true},
		{"qty * price", OpMultiply, true},
		{"ratio of a to b", OpDivide, true},
		{"qty / price", OpDivide, true},
		{"show me the data", "", false},
	}
	for _, tt := range tests {
		op, ok := ResolveOperator(tt.intent)
		assert.Equal(t, tt.ok, ok, tt.intent)
		assert.Equal(t, tt.want, op, tt.intent)
	}
}

func TestResolveOperatorTableOrderBreaksTies(t *testing.T) {
	// "average" and "count" both present: AVERAGE sits earlier in the
	// table, so it wins regardless of word order in the input.
	op, ok := ResolveOperator("count values then average them")
	require.True(t, ok)
	assert.Equal(t, OpAverage, op)
}

func TestResolveColumnPrecedence(t *testing.T) {
	sch := schema.Schema{"OrderID", "UnitPrice", "Qty"}

	tests := []struct {
		name     string
		intent   string
		wantCol  string
		wantRule string
	}{
		{"literal", "average of unitprice", "UnitPrice", "literal-substring"},
		{"spacing variant", "average of unit price", "UnitPrice", "whitespace-stripped"},
		{"quoted", `sum of 'Gross Margin'`, "Gross Margin", "quoted"},
		{"uppercase member", "please take the max over column Qty", "Qty", "literal-substring"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := ResolveColumn(tt.intent, sch)
			require.True(t, ok)
			assert.Equal(t, tt.wantCol, m.Column)
			assert.Equal(t, tt.wantRule, m.Rule)
		})
	}
}

func TestResolveColumnUppercaseMemberRule(t *testing.T) {
	// Force layer 4: member name does not appear as substring of the
	// intent body, only as a standalone capitalized trailing word.
	sch := schema.Schema{"Qty"}
	m, ok := ResolveColumn("the figure I want is Qty", sch)
	require.True(t, ok)
	assert.Equal(t, "Qty", m.Column)
	// Layer 1 already matches here; verify the dedicated rule in isolation.
	col, ok := matchUppercaseMember("whatever ends with Qty", sch)
	require.True(t, ok)
	assert.Equal(t, "Qty", col)

	_, ok = matchUppercaseMember("whatever ends with qty", sch)
	assert.False(t, ok, "lowercase word must not satisfy the uppercase rule")

	_, ok = matchUppercaseMember("whatever ends with Quantity", sch)
	assert.False(t, ok, "uppercase word that is not a member must not match")
}

func TestResolveColumnNoMatch(t *testing.T) {
	sch := schema.Schema{"OrderID"}
	_, ok := ResolveColumn("average of something else", sch)
	assert.False(t, ok)
}

func TestSynthesizeAggregate(t *testing.T) {
	sch := schema.Schema{"OrderID", "UnitPrice", "Qty"}

	got, err := Synthesize("average of UnitPrice", sch)
	require.NoError(t, err)
	assert.Equal(t, "=AVERAGE(B2:B100)", got)

	got, err = Synthesize("how many Qty entries", sch)
	require.NoError(t, err)
	assert.Equal(t, "=COUNT(C2:C100)", got)

	got, err = Synthesize("total order id", sch)
	require.NoError(t, err)
	assert.Equal(t, "=SUM(A2:A100)", got)
}

func TestSynthesizeWideSchema(t *testing.T) {
	sch := make(schema.Schema, 30)
	for i := range sch {
		sch[i] = "Col" + string(rune('A'+i%26)) + string(rune('0'+i/26))
	}
	sch[27] = "Revenue"

	got, err := Synthesize("sum of Revenue", sch)
	require.NoError(t, err)
	// Index 27 is the 28th column: AB under bijective base-26.
	assert.Equal(t, "=SUM(AB2:AB100)", got)
}

func TestSynthesizeBinaryMultiply(t *testing.T) {
	sch := schema.Schema{"Quantity", "UnitPrice"}
	got, err := Synthesize("Multiply Quantity by Unit Price", sch)
	require.NoError(t, err)
	assert.Equal(t, "=Quantity2*UnitPrice2", got)
}

func TestSynthesizeBinaryDivide(t *testing.T) {
	sch := schema.Schema{"Revenue", "Orders"}
	got, err := Synthesize("ratio of revenue to orders", sch)
	require.NoError(t, err)
	assert.Equal(t, "=Revenue2/Orders2", got)
}

func TestSynthesizeBinaryOperandsTerminal(t *testing.T) {
	sch := schema.Schema{"Quantity", "UnitPrice"}
	_, err := Synthesize("multiply quantity by something unknown", sch)
	assert.ErrorIs(t, err, ErrBinaryOperands)
}

func TestSynthesizeUnresolvedOperator(t *testing.T) {
	sch := schema.Schema{"Quantity"}
	_, err := Synthesize("describe the quantity column", sch)
	assert.ErrorIs(t, err, ErrUnresolvedOperator)
}

func TestSynthesizeUnresolvedColumn(t *testing.T) {
	sch := schema.Schema{"Quantity"}
	_, err := Synthesize("average of margin", sch)
	assert.ErrorIs(t, err, ErrUnresolvedColumn)
}

func TestSynthesizeQuotedNonMemberFallsToUnresolved(t *testing.T) {
	sch := schema.Schema{"Quantity"}
	_, err := Synthesize(`average of "Gross Margin"`, sch)
	assert.ErrorIs(t, err, ErrUnresolvedColumn)
}
