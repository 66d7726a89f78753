package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"hdlower/internal/config"
	"hdlower/internal/fixtures"
	"hdlower/internal/hirtypes"
	"hdlower/internal/irb"
	"hdlower/internal/lowpipeline"
	"hdlower/internal/source"
	"hdlower/internal/uiprogress"
)

var lowerCmd = &cobra.Command{
	Use:   "lower <fixture>",
	Short: "Lower a fixture module to IR",
	Long:  `Lower runs internal/lowpipeline over one of the modules internal/fixtures registers, showing an interactive progress view on a terminal, or printing a pass/fail line per function with --quiet, --no-progress, or non-terminal output.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runLower,
}

func init() {
	lowerCmd.Flags().String("cache-dir", "", "slice-metadata cache directory (overrides hdlower.toml)")
	lowerCmd.Flags().Bool("emit-positions", true, "emit source positions on every IR node")
	lowerCmd.Flags().Bool("no-progress", false, "print plain pass/fail lines instead of the interactive progress view")
}

func runLower(cmd *cobra.Command, args []string) error {
	fx, err := fixtures.ByName(args[0])
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	cacheDirFlag, err := cmd.Flags().GetString("cache-dir")
	if err != nil {
		return err
	}
	emitPositions, err := cmd.Flags().GetBool("emit-positions")
	if err != nil {
		return err
	}
	noProgress, err := cmd.Flags().GetBool("no-progress")
	if err != nil {
		return err
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return err
	}
	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("emit-positions") {
		emitPositions = cfg.Lower.EmitPositions
	}
	if !cmd.Root().PersistentFlags().Changed("color") {
		colorFlag = string(cfg.UI.Color)
	}

	cacheDir := cacheDirFlag
	if cacheDir == "" {
		cacheDir = cfg.CacheDir()
	}
	var sliceCache *hirtypes.SliceCache
	if cacheDir != "" {
		sliceCache, err = hirtypes.NewSliceCacheWithDisk(cacheDir)
		if err != nil {
			return fmt.Errorf("failed to open slice cache at %q: %w", cacheDir, err)
		}
	} else {
		sliceCache = hirtypes.NewSliceCache()
	}

	pkg := irb.NewPackage(fx.Module.Name, source.NewFileSet())
	opts := lowpipeline.Options{EmitPositions: emitPositions, SliceCache: sliceCache}

	useColor := resolveColor(colorFlag, os.Stdout)
	interactive := !quiet && !noProgress && isTerminalFd(os.Stdout)

	if !interactive {
		sink := newPlainSink(cmd.OutOrStdout(), useColor)
		if err := lowpipeline.Run(cmd.Context(), pkg, fx.Module, fx.TypeInfo, opts, sink); err != nil {
			return fmt.Errorf("lowering %q failed: %w", fx.Name, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "lowered %d function(s) from %q\n", len(fx.Module.Funcs), fx.Name)
		return nil
	}

	return runLowerInteractive(cmd.Context(), pkg, fx, opts)
}

func runLowerInteractive(ctx context.Context, pkg *irb.Package, fx fixtures.Fixture, opts lowpipeline.Options) error {
	events := make(chan lowpipeline.Event, len(fx.Module.Funcs)*4)
	names := make([]string, len(fx.Module.Funcs))
	for i, fn := range fx.Module.Funcs {
		names[i] = fn.Name
	}

	model := uiprogress.NewProgressModel(fmt.Sprintf("lowering %s", fx.Name), names, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))

	runErr := make(chan error, 1)
	go func() {
		err := lowpipeline.Run(ctx, pkg, fx.Module, fx.TypeInfo, opts, lowpipeline.ChannelSink{Ch: events})
		close(events)
		runErr <- err
	}()

	if _, err := program.Run(); err != nil {
		<-runErr
		return fmt.Errorf("progress view failed: %w", err)
	}
	if err := <-runErr; err != nil {
		return fmt.Errorf("lowering %q failed: %w", fx.Name, err)
	}
	return nil
}

func loadConfig() (*config.Config, error) {
	dir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve working directory: %w", err)
	}
	return config.Load(dir)
}
