package schema

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMatchFold(t *testing.T) {
	sch := Schema{"OrderID", "UnitPrice", "Qty"}

	col, ok := sch.MatchFold("unitprice")
	require.True(t, ok)
	require.Equal(t, "UnitPrice", col)

	col, ok = sch.MatchFold("QTY")
	require.True(t, ok)
	require.Equal(t, "Qty", col)

	_, ok = sch.MatchFold("Revenue")
	require.False(t, ok)
}

func TestIndexAndContains(t *testing.T) {
	sch := Schema{"A", "B", "C"}
	require.Equal(t, 1, sch.Index("B"))
	require.Equal(t, -1, sch.Index("b")) // exact membership is case-sensitive
	require.True(t, sch.Contains("C"))
	require.False(t, sch.Contains("D"))
}

func TestColumnLetters(t *testing.T) {
	tests := []struct {
		index int
		want  string
	}{
		{0, "A"},
		{1, "B"},
		{25, "Z"},
		{26, "AA"},
		{27, "AB"},
		{51, "AZ"},
		{52, "BA"},
		{701, "ZZ"},
		{702, "AAA"},
	}
	for _, tt := range tests {
		got, err := ColumnLetters(tt.index)
		require.NoError(t, err)
		require.Equal(t, tt.want, got, "index %d", tt.index)

		back, err := LettersToIndex(got)
		require.NoError(t, err)
		require.Equal(t, tt.index, back)
	}
}

func TestLettersToIndexInvalid(t *testing.T) {
	_, err := LettersToIndex("1A")
	require.Error(t, err)
}
