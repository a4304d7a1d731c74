package driver

import (
	"fmt"
	"path"
	"path/filepath"

	"zapc/internal/ast"
	"zapc/internal/diag"
	"zapc/internal/dialect"
	"zapc/internal/parser"
	"zapc/internal/resolver"
	"zapc/internal/source"
)

// pendingFile is one entry in the breadth-first load queue.
type pendingFile struct {
	// unitPath is the canonical slash path; it doubles as the key
	// the resolver uses to match imports to units.
	unitPath string
	// span points at the import that requested the file; zero for
	// the root.
	span source.Span
}

// loadClosure loads and parses the root file plus every transitively
// imported file, breadth-first. Missing imports are left to the
// resolver, which reports them with the import's span; only a missing
// root is an I/O diagnostic here.
func loadClosure(fileSet *source.FileSet, builder *ast.Builder, reporter diag.Reporter, rootPath string) (string, []resolver.Unit) {
	root := canonicalPath(rootPath)
	queue := []pendingFile{{unitPath: root}}
	seen := make(map[string]bool, 8)

	var units []resolver.Unit
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if seen[next.unitPath] {
			continue
		}
		seen[next.unitPath] = true

		srcID, err := fileSet.Load(filepath.FromSlash(next.unitPath))
		if err != nil {
			if next.unitPath == root {
				diag.Error(reporter, diag.IOLoadError, next.span,
					fmt.Sprintf("cannot read %s: %v", next.unitPath, err))
			}
			continue
		}
		src := fileSet.Get(srcID)

		kind := dialect.Detect(src.Path, src.Content)
		fileID, ok := parser.ParseFile(src, kind, builder, reporter)
		if !ok {
			continue
		}
		units = append(units, resolver.Unit{File: fileID, Path: next.unitPath})

		file := builder.File(fileID)
		for _, impID := range file.Imports() {
			imp := builder.Import(impID)
			queue = append(queue, pendingFile{
				unitPath: path.Join(path.Dir(next.unitPath), imp.Path),
				span:     imp.PathSpan,
			})
		}
	}
	return root, units
}

func canonicalPath(p string) string {
	return filepath.ToSlash(filepath.Clean(p))
}
