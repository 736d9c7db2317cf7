package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	pivotSheet   string
	pivotIndex   []string
	pivotValues  []string
	pivotAggfunc string
)

var pivotCmd = &cobra.Command{
	Use:   "pivot <file.xlsx>",
	Short: "Pivot a worksheet and print the result",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := loadTable(args[0], pivotSheet)
		if err != nil {
			return err
		}

		pivoted, err := newService().CreatePivot(cmd.Context(), t, pivotIndex, pivotValues, pivotAggfunc)
		if err != nil {
			return err
		}

		fmt.Println(strings.Join(pivoted.Schema(), "\t"))
		for i := 0; i < pivoted.Rows(); i++ {
			fmt.Println(strings.Join(pivoted.Row(i), "\t"))
		}
		return nil
	},
}

func init() {
	pivotCmd.Flags().StringVar(&pivotSheet, "sheet", "Sheet1", "worksheet name")
	pivotCmd.Flags().StringSliceVar(&pivotIndex, "index", nil, "columns to group by")
	pivotCmd.Flags().StringSliceVar(&pivotValues, "values", nil, "columns to aggregate")
	pivotCmd.Flags().StringVar(&pivotAggfunc, "aggfunc", "sum", "aggregation function (sum, mean, count)")
	_ = pivotCmd.MarkFlagRequired("index")
	_ = pivotCmd.MarkFlagRequired("values")
	rootCmd.AddCommand(pivotCmd)
}
