package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"zapc/internal/codegen"
	"zapc/internal/driver"
)

var generateCmd = &cobra.Command{
	Use:   "generate [schema]",
	Short: "Generate source code from a schema",
	Long: `Generate compiles the schema and emits bindings for the requested
targets (` + codegen.TargetList() + `). Targets and the output
directory default to the [generate] section of zap.toml.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringSliceP("target", "t", nil, "code generation targets")
	generateCmd.Flags().StringP("out", "o", "", "output directory")
	generateCmd.Flags().Bool("no-cache", false, "skip the descriptor cache and the evolution check")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	root, manifest, err := resolveSchemaArg(args)
	if err != nil {
		return err
	}

	targets, err := cmd.Flags().GetStringSlice("target")
	if err != nil {
		return err
	}
	outDir, err := cmd.Flags().GetString("out")
	if err != nil {
		return err
	}
	if manifest != nil {
		if len(targets) == 0 {
			targets = manifest.Config.Generate.Targets
		}
		if outDir == "" {
			outDir = manifest.OutDir()
		}
	}
	if len(targets) == 0 {
		return fmt.Errorf("no targets: pass --target or set [generate].targets in zap.toml")
	}
	if outDir == "" {
		outDir = filepath.Dir(root)
	}

	noCache, err := cmd.Flags().GetBool("no-cache")
	if err != nil {
		return err
	}
	opt, err := driverOptions(cmd, !noCache)
	if err != nil {
		return err
	}

	comp, err := driver.Compile(cmd.Context(), root, opt)
	if err != nil {
		return err
	}
	hadErrors, err := renderDiagnostics(cmd, comp)
	if err != nil {
		return err
	}
	if hadErrors || !comp.Succeeded() {
		return fmt.Errorf("generate failed")
	}

	files, err := driver.Generate(cmd.Context(), comp, targets, outDir)
	if err != nil {
		return err
	}
	if err := driver.WriteOutputs(files); err != nil {
		return err
	}

	quiet, err := quietFlag(cmd)
	if err != nil {
		return err
	}
	if !quiet {
		for _, f := range files {
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", f.Path)
		}
	}
	return nil
}
