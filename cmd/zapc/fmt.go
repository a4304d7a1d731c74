package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"zapc/internal/driver"
)

var fmtCmd = &cobra.Command{
	Use:   "fmt [flags] <path> [path...]",
	Short: "Format clean-dialect schema files",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runFmt,
}

func init() {
	fmtCmd.Flags().Bool("check", false, "check if files are properly formatted")
	fmtCmd.Flags().String("format", "text", "output format (text|json)")
	fmtCmd.Flags().Bool("stdout", false, "print formatted schemas to stdout instead of rewriting files")
}

func runFmt(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	check, err := cmd.Flags().GetBool("check")
	if err != nil {
		return err
	}
	outputFormat, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	writeToStdout, err := cmd.Flags().GetBool("stdout")
	if err != nil {
		return err
	}

	if writeToStdout && check {
		return fmt.Errorf("fmt: --stdout cannot be used with --check")
	}
	if writeToStdout && outputFormat != "text" {
		return fmt.Errorf("fmt: --stdout is only supported with text output")
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

	results, err := driver.FormatPaths(cmd.Context(), args, driver.FormatOptions{
		Check:          check,
		MaxDiagnostics: maxDiagnostics,
		Stdout:         writeToStdout,
		Jobs:           jobs,
	})
	if err != nil {
		return err
	}

	var hasErrors, hasChanges bool
	switch outputFormat {
	case "text":
		if writeToStdout {
			renderFmtStdout(results, &hasErrors)
			if hasErrors {
				return fmt.Errorf("fmt: failed to format some files")
			}
			return nil
		}
		renderFmtText(results, check, quiet, &hasErrors, &hasChanges)
	case "json":
		if err := renderFmtJSON(results, check); err != nil {
			return err
		}
		for _, res := range results {
			hasErrors = hasErrors || res.Err != nil
			hasChanges = hasChanges || res.Changed
		}
	default:
		return fmt.Errorf("fmt: unsupported output format %q", outputFormat)
	}

	if hasErrors {
		return fmt.Errorf("fmt: failed to format some files")
	}
	if check && hasChanges {
		return fmt.Errorf("fmt: formatting changes required")
	}
	return nil
}

func renderFmtStdout(results []driver.FormatResult, hasErrors *bool) {
	for _, res := range results {
		if res.Err != nil {
			*hasErrors = true
			fmt.Fprintf(os.Stderr, "fmt: %s: %v\n", res.Path, res.Err)
			continue
		}
		_, _ = os.Stdout.Write(res.Formatted)
	}
}

func renderFmtText(results []driver.FormatResult, check, quiet bool, hasErrors, hasChanges *bool) {
	for _, res := range results {
		if res.Err != nil {
			*hasErrors = true
			fmt.Fprintf(os.Stderr, "fmt: %s: %v\n", res.Path, res.Err)
			continue
		}
		if !res.Changed {
			continue
		}
		*hasChanges = true
		if quiet {
			continue
		}
		if check {
			fmt.Fprintln(os.Stdout, res.Path)
		} else {
			fmt.Fprintf(os.Stdout, "reformatted %s\n", res.Path)
		}
	}
}

func renderFmtJSON(results []driver.FormatResult, check bool) error {
	type jsonResult struct {
		Path     string `json:"path"`
		Changed  bool   `json:"changed"`
		Error    string `json:"error,omitempty"`
		CheckRun bool   `json:"check"`
	}

	payload := make([]jsonResult, 0, len(results))
	for _, res := range results {
		jr := jsonResult{Path: res.Path, Changed: res.Changed, CheckRun: check}
		if res.Err != nil {
			jr.Error = res.Err.Error()
		}
		payload = append(payload, jr)
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(payload)
}
