package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"zapc/internal/driver"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate [flags] <legacy> [<clean> | <path>...]",
	Short: "Convert legacy .capnp schemas to the clean dialect",
	Long: `Migrate parses legacy punctuated schemas and writes clean-dialect
equivalents. With two arguments where the second is a .zap path, the
first schema converts to exactly that file:

  zapc migrate legacy.capnp clean.zap

Otherwise every argument is a legacy file or directory and each schema
converts to a sibling .zap (user.capnp becomes user.zap). Every
explicit @N ordinal is preserved, so compiling the migrated schema
reproduces the original wire layout bit for bit.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runMigrate,
}

func init() {
	migrateCmd.Flags().Bool("stdout", false, "print converted schemas to stdout instead of writing files")
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	toStdout, err := cmd.Flags().GetBool("stdout")
	if err != nil {
		return err
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return err
	}
	jobs, err := cmd.Root().PersistentFlags().GetInt("jobs")
	if err != nil {
		return err
	}
	quiet, err := quietFlag(cmd)
	if err != nil {
		return err
	}

	opt := driver.FormatOptions{
		MaxDiagnostics: maxDiagnostics,
		Stdout:         toStdout,
		Jobs:           jobs,
	}

	var results []driver.MigrateResult
	if len(args) == 2 && strings.HasSuffix(args[1], ".zap") {
		results = []driver.MigrateResult{driver.MigrateFile(args[0], args[1], opt)}
	} else {
		var err error
		results, err = driver.MigratePaths(cmd.Context(), args, opt)
		if err != nil {
			return err
		}
	}

	var hasErrors bool
	for _, res := range results {
		if res.Err != nil {
			hasErrors = true
			fmt.Fprintf(os.Stderr, "migrate: %s: %v\n", res.Path, res.Err)
			continue
		}
		if toStdout {
			_, _ = os.Stdout.Write(res.Converted)
			continue
		}
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", res.Path, res.OutPath)
		}
	}
	if hasErrors {
		return fmt.Errorf("migrate: failed to convert some files")
	}
	return nil
}
