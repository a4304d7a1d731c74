package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"zapc/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "zapc",
	Short: "Schema compiler for the zap interchange format",
	Long: `zapc compiles zap schemas: it checks them, tracks wire-format
evolution across recompiles, and generates code for Go, Rust, and
TypeScript.`,
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(fmtCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	rootCmd.PersistentFlags().Int("jobs", 0, "parallel workers (0 = one per CPU)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// terminalWidth returns the current width of stdout, or 80 when stdout
// is not a terminal.
func terminalWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}
