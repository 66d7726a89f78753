package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"hdlower/internal/fixtures"
)

var listFixturesCmd = &cobra.Command{
	Use:   "list-fixtures",
	Short: "List the modules available to the lower and dump-ir commands",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, fx := range fixtures.All() {
			fmt.Fprintf(cmd.OutOrStdout(), "%-16s %s\n", fx.Name, fx.Description)
		}
		return nil
	},
}
