package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sheetwright/sheetwright/internal/table"
)

var (
	formulaSheet  string
	formulaCell   string
	formulaDryRun bool
)

var formulaCmd = &cobra.Command{
	Use:   "formula <file.xlsx> <intent or =formula>",
	Short: "Synthesize a formula from plain English and insert it into a cell",
	Long: `Synthesize a spreadsheet formula from a natural-language intent, or pass
a literal formula starting with '='. The deterministic rules handle common
aggregations (sum, average, count, max, min) and two-column arithmetic;
anything else is delegated to the configured Ollama model.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		intent := strings.Join(args[1:], " ")

		t, err := table.LoadWorkbook(path, formulaSheet)
		if err != nil {
			return err
		}

		svc := newService()
		res, err := svc.InsertFormula(cmd.Context(), t, formulaCell, intent)
		if err != nil {
			return err
		}

		fmt.Printf("Formula: %s\n", res.Formula)
		if res.Preview != "" {
			fmt.Printf("Preview: %s\n", res.Preview)
		}
		if formulaDryRun {
			return nil
		}
		if err := table.InsertCellFormula(path, formulaSheet, formulaCell, res.Formula); err != nil {
			return err
		}
		fmt.Printf("✓ Inserted formula into %s!%s\n", formulaSheet, formulaCell)
		return nil
	},
}

func init() {
	formulaCmd.Flags().StringVar(&formulaSheet, "sheet", "Sheet1", "worksheet name")
	formulaCmd.Flags().StringVar(&formulaCell, "cell", "D2", "target cell reference")
	formulaCmd.Flags().BoolVar(&formulaDryRun, "dry-run", false, "print the formula without writing the workbook")
	rootCmd.AddCommand(formulaCmd)
}
