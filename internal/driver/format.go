package driver

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"

	"zapc/internal/ast"
	"zapc/internal/diag"
	"zapc/internal/dialect"
	"zapc/internal/format"
	"zapc/internal/migrate"
	"zapc/internal/parser"
	"zapc/internal/source"
)

// FormatOptions configure FormatPaths.
type FormatOptions struct {
	// Check leaves files untouched and only reports whether they
	// would change.
	Check          bool
	MaxDiagnostics int
	// Stdout suppresses the rewrite; callers print Formatted
	// themselves.
	Stdout bool
	Jobs   int
}

// FormatResult is the outcome for one file.
type FormatResult struct {
	Path      string
	Formatted []byte
	Changed   bool
	Err       error
}

// FormatPaths canonicalizes clean-dialect files in place. Legacy files
// are refused: rewriting a .capnp in the clean syntax would leave the
// extension lying about the content; migrate handles those. Directory
// arguments expand to the .zap files beneath them; files are processed
// in parallel and results returned in argument order.
func FormatPaths(ctx context.Context, paths []string, opt FormatOptions) ([]FormatResult, error) {
	files, err := expandPaths(paths, ".zap")
	if err != nil {
		return nil, err
	}

	results := make([]FormatResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(Options{Jobs: opt.Jobs}.jobs(), max(len(files), 1)))
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			results[i] = formatOne(path, opt)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func formatOne(path string, opt FormatOptions) FormatResult {
	res := FormatResult{Path: path}

	fileSet := source.NewFileSet()
	srcID, err := fileSet.Load(path)
	if err != nil {
		res.Err = err
		return res
	}
	src := fileSet.Get(srcID)

	builder := ast.NewBuilder(0)
	bag := diag.NewBag(maxOrDefault(opt.MaxDiagnostics))
	fileID, ok := parser.ParseFile(src, dialect.Detect(src.Path, src.Content), builder, diag.BagReporter{Bag: bag})
	// A file can parse while the lexer reported errors (a mismatched
	// dedent can re-read as a top-level declaration); rewriting such a
	// file would silently restructure it.
	if !ok || bag.HasErrors() {
		res.Err = bagError(bag)
		return res
	}

	out, err := format.FormatFile(builder, fileID, format.Options{})
	if err != nil {
		res.Err = err
		return res
	}
	res.Formatted = out
	res.Changed = !bytes.Equal(src.Content, out)

	if res.Changed && !opt.Check && !opt.Stdout {
		res.Err = WriteFileAtomic(path, out)
	}
	return res
}

// MigrateResult is the outcome of converting one legacy file.
type MigrateResult struct {
	Path string
	// OutPath is the clean-dialect destination (.capnp -> .zap).
	OutPath   string
	Converted []byte
	Err       error
}

// MigratePaths converts legacy schemas to the clean dialect, writing
// each result next to its source with a .zap extension. Explicit
// ordinals survive, so the migrated file keeps its wire layout.
func MigratePaths(ctx context.Context, paths []string, opt FormatOptions) ([]MigrateResult, error) {
	files, err := expandPaths(paths, ".capnp")
	if err != nil {
		return nil, err
	}

	results := make([]MigrateResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(Options{Jobs: opt.Jobs}.jobs(), max(len(files), 1)))
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			results[i] = migrateOne(path, migratedPath(path), opt)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// MigrateFile converts one legacy schema to an explicit destination,
// for the pairwise `migrate legacy.capnp clean.zap` invocation.
func MigrateFile(src, dst string, opt FormatOptions) MigrateResult {
	return migrateOne(src, dst, opt)
}

func migrateOne(path, outPath string, opt FormatOptions) MigrateResult {
	res := MigrateResult{Path: path, OutPath: outPath}

	fileSet := source.NewFileSet()
	srcID, err := fileSet.Load(path)
	if err != nil {
		res.Err = err
		return res
	}

	bag := diag.NewBag(maxOrDefault(opt.MaxDiagnostics))
	out, ok := migrate.File(fileSet.Get(srcID), ast.NewBuilder(0), diag.BagReporter{Bag: bag})
	if !ok || bag.HasErrors() {
		res.Err = bagError(bag)
		return res
	}
	res.Converted = out

	if !opt.Check && !opt.Stdout {
		res.Err = WriteFileAtomic(res.OutPath, out)
	}
	return res
}

func migratedPath(path string) string {
	return strings.TrimSuffix(path, ".capnp") + ".zap"
}

// expandPaths replaces directory arguments with the matching schema
// files they contain. Explicit files must carry the expected extension.
func expandPaths(paths []string, ext string) ([]string, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			if !strings.HasSuffix(p, ext) {
				return nil, fmt.Errorf("%s: expected a %s file", p, ext)
			}
			files = append(files, p)
			continue
		}
		sub, err := listSchemaFiles(p)
		if err != nil {
			return nil, err
		}
		for _, s := range sub {
			if strings.HasSuffix(s, ext) {
				files = append(files, s)
			}
		}
	}
	return files, nil
}

func maxOrDefault(n int) int {
	if n <= 0 {
		return defaultMaxDiagnostics
	}
	return n
}

// bagError condenses a diagnostic bag into a single error for callers
// that do not render full diagnostics.
func bagError(bag *diag.Bag) error {
	first, ok := bag.FirstError()
	if !ok {
		return fmt.Errorf("failed with %d diagnostics", bag.Len())
	}
	if n := bag.Len(); n > 1 {
		return fmt.Errorf("%s (and %d more)", first.Message, n-1)
	}
	return fmt.Errorf("%s", first.Message)
}
