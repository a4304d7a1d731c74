package driver

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"zapc/internal/codegen"
)

// GeneratedFile is one codegen output, held in memory until the caller
// decides to write it.
type GeneratedFile struct {
	Target  string
	Path    string
	Content []byte
}

// Generate runs every requested backend over the compiled schema,
// fanning out across goroutines. Outputs are named after the root
// schema: api.zap with target go becomes outDir/api.zap.go. Results
// come back in target order regardless of completion order.
func Generate(ctx context.Context, comp *Compilation, targets []string, outDir string) ([]GeneratedFile, error) {
	backends := make([]codegen.Backend, len(targets))
	for i, target := range targets {
		b, err := codegen.For(target)
		if err != nil {
			return nil, err
		}
		backends[i] = b
	}

	stem := rootStem(comp.Root)
	results := make([]GeneratedFile, len(targets))

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(min(len(targets), 4))
	for i, target := range targets {
		i, target := i, target
		g.Go(func() error {
			content, err := backends[i](comp.Schema)
			if err != nil {
				return err
			}
			results[i] = GeneratedFile{
				Target:  target,
				Path:    filepath.Join(outDir, stem+codegen.Extensions[target]),
				Content: content,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// WriteOutputs persists generated files, each via an atomic
// temp-and-rename so a crash never leaves a half-written output.
func WriteOutputs(files []GeneratedFile) error {
	for _, f := range files {
		if err := WriteFileAtomic(f.Path, f.Content); err != nil {
			return err
		}
	}
	return nil
}

// WriteFileAtomic writes data to path through a temp file in the same
// directory, then renames it into place.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		_ = os.Remove(f.Name())
	}()

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Chmod(0o644); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}

// rootStem strips the dialect extension: "schemas/api.zap" -> "api".
func rootStem(root string) string {
	base := filepath.Base(filepath.FromSlash(root))
	return strings.TrimSuffix(base, filepath.Ext(base))
}
