package driver

import (
	"context"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
)

// CheckResult is the outcome of compiling one root file during a
// directory-wide check.
type CheckResult struct {
	Path string
	Comp *Compilation
	Err  error
}

// listSchemaFiles returns every *.zap and *.capnp file under dir,
// sorted for a deterministic order.
func listSchemaFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasSuffix(path, ".zap") || strings.HasSuffix(path, ".capnp") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// CheckDir compiles every schema file under dir in parallel, each as
// its own root with its own file set and diagnostic bag. Imported
// files are checked again in their importer's context; that is
// intentional, a broken import should fail every file that uses it.
func CheckDir(ctx context.Context, dir string, opt Options) ([]CheckResult, error) {
	files, err := listSchemaFiles(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, nil
	}

	// Indices are unique per goroutine, so no mutex is needed.
	results := make([]CheckResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(opt.jobs(), len(files)))
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			comp, err := Compile(gctx, path, opt)
			results[i] = CheckResult{Path: path, Comp: comp, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
