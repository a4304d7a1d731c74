package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"zapc/internal/diag"
	"zapc/internal/diagfmt"
	"zapc/internal/driver"
)

var checkCmd = &cobra.Command{
	Use:   "check [path]",
	Short: "Type-check schemas without generating anything",
	Long: `Check compiles schemas and reports diagnostics. A directory argument
checks every schema beneath it, each file as its own root; a file
argument checks just that schema and its imports.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().String("format", "text", "output format (text|json)")
}

func runCheck(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	outputFormat, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	if outputFormat != "text" && outputFormat != "json" {
		return fmt.Errorf("check: unsupported output format %q", outputFormat)
	}

	target := "."
	if len(args) > 0 {
		target = args[0]
	}
	info, err := os.Stat(target)
	if err != nil {
		return err
	}

	opt, err := driverOptions(cmd, false)
	if err != nil {
		return err
	}

	if !info.IsDir() {
		return checkFile(cmd, target, opt, outputFormat)
	}
	return checkDirectory(cmd, target, opt, outputFormat)
}

func checkFile(cmd *cobra.Command, path string, opt driver.Options, outputFormat string) error {
	comp, err := driver.Compile(cmd.Context(), path, opt)
	if err != nil {
		return err
	}
	if outputFormat == "json" {
		comp.Bag.Sort()
		if err := diagfmt.JSON(cmd.OutOrStdout(), comp.Bag, comp.FileSet, diagfmt.JSONOpts{}); err != nil {
			return err
		}
		if comp.Bag.HasErrors() {
			return fmt.Errorf("check failed")
		}
		return nil
	}
	hadErrors, err := renderDiagnostics(cmd, comp)
	if err != nil {
		return err
	}
	if hadErrors {
		return fmt.Errorf("check failed")
	}
	return nil
}

func checkDirectory(cmd *cobra.Command, dir string, opt driver.Options, outputFormat string) error {
	results, err := driver.CheckDir(cmd.Context(), dir, opt)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		return fmt.Errorf("check: no schema files under %s", dir)
	}

	if outputFormat == "json" {
		return checkDirectoryJSON(cmd, results)
	}

	failed := 0
	rows := make([]diagfmt.SummaryRow, 0, len(results))
	for _, res := range results {
		if res.Err != nil {
			return res.Err
		}
		errs, warns := tally(res.Comp.Bag)
		if errs > 0 {
			failed++
			if _, err := renderDiagnostics(cmd, res.Comp); err != nil {
				return err
			}
		}
		rows = append(rows, diagfmt.SummaryRow{
			Path:     relPath(dir, res.Path),
			Errors:   errs,
			Warnings: warns,
		})
	}

	quiet, err := quietFlag(cmd)
	if err != nil {
		return err
	}
	if !quiet {
		diagfmt.Summary(cmd.OutOrStdout(), rows, terminalWidth())
	}
	if failed > 0 {
		return fmt.Errorf("check failed for %d of %d schemas", failed, len(results))
	}
	return nil
}

// checkDirectoryJSON emits one object per schema with its error and
// warning counts; per-diagnostic detail stays a single-file concern.
func checkDirectoryJSON(cmd *cobra.Command, results []driver.CheckResult) error {
	type row struct {
		Path     string `json:"path"`
		Errors   int    `json:"errors"`
		Warnings int    `json:"warnings"`
	}

	failed := false
	rows := make([]row, 0, len(results))
	for _, res := range results {
		if res.Err != nil {
			return res.Err
		}
		errs, warns := tally(res.Comp.Bag)
		if errs > 0 {
			failed = true
		}
		rows = append(rows, row{Path: res.Path, Errors: errs, Warnings: warns})
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(rows); err != nil {
		return err
	}
	if failed {
		return fmt.Errorf("check failed")
	}
	return nil
}

func tally(bag *diag.Bag) (errs, warns int) {
	for _, d := range bag.Items() {
		switch {
		case d.Severity >= diag.SevError:
			errs++
		case d.Severity == diag.SevWarning:
			warns++
		}
	}
	return errs, warns
}

func relPath(base, path string) string {
	if rel, err := filepath.Rel(base, path); err == nil {
		return rel
	}
	return path
}
