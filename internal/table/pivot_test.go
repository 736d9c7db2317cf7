package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func salesTable(t *testing.T) *Table {
	t.Helper()
	return mustTable(t, []string{"Region", "Product", "Revenue"}, [][]string{
		{"East", "Widget", "100"},
		{"West", "Widget", "50"},
		{"East", "Gadget", "200"},
		{"East", "Widget", "25"},
		{"West", "Gadget", ""},
	})
}

func TestPivotSum(t *testing.T) {
	pivot, err := Pivot(salesTable(t), []string{"Region"}, []string{"Revenue"}, "sum")
	require.NoError(t, err)

	assert.Equal(t, []string{"Region", "Revenue"}, []string(pivot.Schema()))
	require.Equal(t, 2, pivot.Rows())
	assert.Equal(t, []string{"East", "325"}, pivot.Row(0))
	assert.Equal(t, []string{"West", "50"}, pivot.Row(1))
}

func TestPivotMean(t *testing.T) {
	pivot, err := Pivot(salesTable(t), []string{"Region"}, []string{"Revenue"}, "mean")
	require.NoError(t, err)
	require.Equal(t, 2, pivot.Rows())
	// East: (100+200+25)/3
	assert.Equal(t, []string{"East", "108.33333333333333"}, pivot.Row(0))
	assert.Equal(t, []string{"West", "50"}, pivot.Row(1))
}

func TestPivotCountSkipsNulls(t *testing.T) {
	pivot, err := Pivot(salesTable(t), []string{"Region"}, []string{"Revenue"}, "count")
	require.NoError(t, err)
	assert.Equal(t, []string{"East", "3"}, pivot.Row(0))
	assert.Equal(t, []string{"West", "1"}, pivot.Row(1))
}

func TestPivotMultiIndex(t *testing.T) {
	pivot, err := Pivot(salesTable(t), []string{"Region", "Product"}, []string{"Revenue"}, "sum")
	require.NoError(t, err)
	assert.Equal(t, []string{"Region", "Product", "Revenue"}, []string(pivot.Schema()))
	require.Equal(t, 4, pivot.Rows())
	assert.Equal(t, []string{"East", "Gadget", "200"}, pivot.Row(0))
	assert.Equal(t, []string{"East", "Widget", "125"}, pivot.Row(1))
}

func TestPivotUnsupportedAggFunc(t *testing.T) {
	_, err := Pivot(salesTable(t), []string{"Region"}, []string{"Revenue"}, "median")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unsupported aggfunc "median"`)
}

func TestPivotMissingColumns(t *testing.T) {
	_, err := Pivot(salesTable(t), []string{"Territory"}, []string{"Margin"}, "sum")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "index: [Territory]")
	assert.Contains(t, err.Error(), "values: [Margin]")

	_, err = Pivot(salesTable(t), []string{"Region"}, []string{"Margin"}, "sum")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "index: OK")
}
