package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var querySheet string

var queryCmd = &cobra.Command{
	Use:   "query <file.xlsx> <question>",
	Short: "Ask a plain-English question about a worksheet",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := loadTable(args[0], querySheet)
		if err != nil {
			return err
		}

		answer, err := newService().QueryData(cmd.Context(), t, strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		fmt.Println(answer)
		return nil
	},
}

func init() {
	queryCmd.Flags().StringVar(&querySheet, "sheet", "Sheet1", "worksheet name")
	rootCmd.AddCommand(queryCmd)
}
