package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sheetwright/sheetwright/internal/table"
)

var cleanSheet string

var cleanCmd = &cobra.Command{
	Use:   "clean <file.xlsx>",
	Short: "Drop empty rows, trim headers and rewrite the worksheet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		t, err := table.LoadWorkbook(path, cleanSheet)
		if err != nil {
			return err
		}

		cleaned, summary := newService().CleanSheet(t)
		if err := table.SaveWorkbook(cleaned, path, cleanSheet); err != nil {
			return err
		}

		fmt.Printf("✓ Cleaned %s!%s: dropped %d empty rows, trimmed %d headers\n",
			path, cleanSheet, summary.DroppedRows, summary.TrimmedColumns)
		printProfile(table.Profiled(cleaned))
		return nil
	},
}

var profileCmd = &cobra.Command{
	Use:   "profile <file.xlsx>",
	Short: "Show row/column counts and per-column null counts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := loadTable(args[0], cleanSheet)
		if err != nil {
			return err
		}
		printProfile(table.Profiled(t))
		return nil
	},
}

func printProfile(p table.Profile) {
	fmt.Printf("Rows: %d  Columns: %d\n", p.RowCount, p.ColumnCount)
	for _, col := range p.Columns {
		fmt.Printf("  %-24s nulls: %d\n", col, p.NullCounts[col])
	}
}

func init() {
	cleanCmd.Flags().StringVar(&cleanSheet, "sheet", "Sheet1", "worksheet name")
	profileCmd.Flags().StringVar(&cleanSheet, "sheet", "Sheet1", "worksheet name")
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(profileCmd)
}
