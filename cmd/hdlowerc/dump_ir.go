package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"hdlower/internal/fixtures"
	"hdlower/internal/irb"
	"hdlower/internal/lowpipeline"
	"hdlower/internal/source"
)

var dumpIRCmd = &cobra.Command{
	Use:   "dump-ir <fixture>",
	Short: "Lower a fixture module and print its IR",
	Args:  cobra.ExactArgs(1),
	RunE:  runDumpIR,
}

func init() {
	dumpIRCmd.Flags().Bool("emit-positions", true, "emit source positions on every IR node")
}

func runDumpIR(cmd *cobra.Command, args []string) error {
	fx, err := fixtures.ByName(args[0])
	if err != nil {
		return err
	}
	emitPositions, err := cmd.Flags().GetBool("emit-positions")
	if err != nil {
		return err
	}

	pkg := irb.NewPackage(fx.Module.Name, source.NewFileSet())
	opts := lowpipeline.Options{EmitPositions: emitPositions}
	if err := lowpipeline.Run(cmd.Context(), pkg, fx.Module, fx.TypeInfo, opts, lowpipeline.NopSink{}); err != nil {
		return fmt.Errorf("lowering %q failed: %w", fx.Name, err)
	}
	return irb.DumpPackage(cmd.OutOrStdout(), pkg)
}
