// Command hdlowerc drives internal/lowpipeline over one of
// internal/fixtures' hand-built modules, since this repository's scope
// stops at lowering and never grows a parser or type checker (spec.md
// §1's Non-goals). It exists to give the lowering engine, the
// wave-parallel driver, the slice-metadata cache, and the progress UI a
// runnable front door, the way cmd/surge fronts the teacher's pipeline.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "hdlowerc",
	Short: "AST-to-IR lowering engine for a bit-precise hardware description language",
	Long:  `hdlowerc lowers a type-checked module's functions into flat, bit-precise IR.`,
}

func main() {
	rootCmd.AddCommand(lowerCmd)
	rootCmd.AddCommand(dumpIRCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(listFixturesCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|always|never)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress progress output")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
