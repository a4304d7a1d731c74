package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"zapc/internal/diagfmt"
	"zapc/internal/driver"
	"zapc/internal/project"
)

// colorEnabled resolves the --color flag, also switching the global
// fatih/color state so every styled writer agrees.
func colorEnabled(cmd *cobra.Command) (bool, error) {
	mode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, err
	}
	var enabled bool
	switch mode {
	case "on":
		enabled = true
	case "off":
		enabled = false
	case "auto":
		enabled = isTerminal(os.Stdout)
	default:
		return false, fmt.Errorf("unsupported --color mode %q (must be auto, on, or off)", mode)
	}
	color.NoColor = !enabled
	return enabled, nil
}

// driverOptions collects the persistent flags every pipeline command
// shares. useCache opens the per-user descriptor cache.
func driverOptions(cmd *cobra.Command, useCache bool) (driver.Options, error) {
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return driver.Options{}, err
	}
	jobs, err := cmd.Root().PersistentFlags().GetInt("jobs")
	if err != nil {
		return driver.Options{}, err
	}
	opt := driver.Options{MaxDiagnostics: maxDiagnostics, Jobs: jobs}
	if useCache {
		cache, err := driver.OpenCache("zapc")
		if err != nil {
			return driver.Options{}, fmt.Errorf("cannot open descriptor cache: %w", err)
		}
		opt.Cache = cache
	}
	return opt, nil
}

// resolveSchemaArg picks the root schema: the explicit argument when
// given, otherwise [schema].root from the nearest zap.toml.
func resolveSchemaArg(args []string) (string, *project.Manifest, error) {
	manifest, found, err := project.Load(".")
	if err != nil {
		return "", nil, err
	}
	if len(args) > 0 {
		return args[0], manifest, nil
	}
	if !found {
		return "", nil, fmt.Errorf("no schema given and no %s found", project.ManifestName)
	}
	root, err := manifest.RootSchema()
	if err != nil {
		return "", nil, err
	}
	return root, manifest, nil
}

// renderDiagnostics prints the compilation's bag to stderr and reports
// whether it held errors.
func renderDiagnostics(cmd *cobra.Command, comp *driver.Compilation) (bool, error) {
	enabled, err := colorEnabled(cmd)
	if err != nil {
		return false, err
	}
	comp.Bag.Sort()
	diagfmt.Pretty(cmd.ErrOrStderr(), comp.Bag, comp.FileSet, diagfmt.PrettyOpts{
		Color:     enabled,
		ShowNotes: true,
	})
	return comp.Bag.HasErrors(), nil
}

func quietFlag(cmd *cobra.Command) (bool, error) {
	return cmd.Root().PersistentFlags().GetBool("quiet")
}
