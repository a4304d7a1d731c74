package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"zapc/internal/driver"
)

var compileCmd = &cobra.Command{
	Use:   "compile [schema]",
	Short: "Compile a schema to a wire descriptor",
	Long: `Compile parses the schema and its imports, assigns wire layout, and
writes the binary descriptor. With a cached previous descriptor the
compile also rejects incompatible evolution: moved or removed fields,
reused ordinals, reordered enum variants.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCompile,
}

func init() {
	compileCmd.Flags().StringP("out", "o", "", "descriptor output path (default: <schema>.zapd)")
	compileCmd.Flags().Bool("no-cache", false, "skip the descriptor cache and the evolution check")
}

func runCompile(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	root, _, err := resolveSchemaArg(args)
	if err != nil {
		return err
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
		return fmt.Errorf("compile failed")
	}

	outPath, err := cmd.Flags().GetString("out")
	if err != nil {
		return err
	}
	if outPath == "" {
		outPath = descriptorPath(root)
	}
	if err := driver.WriteFileAtomic(outPath, comp.Encoded); err != nil {
		return err
	}

	quiet, err := quietFlag(cmd)
	if err != nil {
		return err
	}
	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d declarations)\n", outPath, len(comp.Descriptor.Decls))
	}
	return nil
}

// descriptorPath derives the default output: api.zap -> api.zapd.
func descriptorPath(root string) string {
	base := strings.TrimSuffix(root, filepath.Ext(root))
	return base + ".zapd"
}
