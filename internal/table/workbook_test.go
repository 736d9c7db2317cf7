package table

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWorkbookRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "orders.xlsx")

	orig := mustTable(t, []string{"OrderID", "UnitPrice", "Qty"}, [][]string{
		{"1", "9.99", "3"},
		{"2", "4.50", "1"},
	})
	require.NoError(t, SaveWorkbook(orig, path, "Orders"))

	loaded, err := LoadWorkbook(path, "Orders")
	require.NoError(t, err)
	assert.Equal(t, []string{"OrderID", "UnitPrice", "Qty"}, []string(loaded.Schema()))
	require.Equal(t, 2, loaded.Rows())
	assert.Equal(t, []string{"1", "9.99", "3"}, loaded.Row(0))
	assert.Equal(t, []string{"2", "4.50", "1"}, loaded.Row(1))
}

func TestLoadWorkbookMissingFile(t *testing.T) {
	_, err := LoadWorkbook(filepath.Join(t.TempDir(), "nope.xlsx"), "Sheet1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "workbook not found")
}

func TestLoadWorkbookMissingSheet(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.xlsx")
	tab := mustTable(t, []string{"A"}, [][]string{{"1"}})
	require.NoError(t, SaveWorkbook(tab, path, "Data"))

	_, err := LoadWorkbook(path, "Other")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `worksheet "Other" not found`)
}

func TestInsertCellFormula(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.xlsx")
	tab := mustTable(t, []string{"Qty", "Price"}, [][]string{{"2", "5"}})
	require.NoError(t, SaveWorkbook(tab, path, "Sheet1"))

	require.NoError(t, InsertCellFormula(path, "Sheet1", "C2", "=SUM(A2:A100)"))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	got, err := f.GetCellFormula("Sheet1", "C2")
	require.NoError(t, err)
	assert.Equal(t, "SUM(A2:A100)", got)
}

func TestInsertCellFormulaMissingSheet(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.xlsx")
	tab := mustTable(t, []string{"A"}, [][]string{{"1"}})
	require.NoError(t, SaveWorkbook(tab, path, "Sheet1"))

	err := InsertCellFormula(path, "Ghost", "A1", "=SUM(A2:A3)")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `worksheet "Ghost" not found`)
}

func TestLoadCSV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.csv")
	require.NoError(t, os.WriteFile(path, []byte("Name,Qty\na,1\nb,2\n"), 0o644))

	tab, err := LoadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Name", "Qty"}, []string(tab.Schema()))
	require.Equal(t, 2, tab.Rows())
	assert.Equal(t, []string{"b", "2"}, tab.Row(1))
}

func TestLoadCSVTabDelimited(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.tsv")
	require.NoError(t, os.WriteFile(path, []byte("Name\tQty\na\t1\n"), 0o644))

	tab, err := LoadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Name", "Qty"}, []string(tab.Schema()))
	require.Equal(t, 1, tab.Rows())
}
