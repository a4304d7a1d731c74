package resolver

import (
	"fmt"
	"path"
	"slices"
	"strings"

	"zapc/internal/ast"
	"zapc/internal/diag"
)

// Unit couples a parsed file with its normalized source path (slash form,
// as stored in the FileSet).
type Unit struct {
	File ast.FileID
	Path string
}

// importGraph is the file dependency graph. Edges point from an importing
// file to its dependency; indices are positions in the unit slice.
type importGraph struct {
	builder *ast.Builder
	units   []Unit
	byPath  map[string]int
	edges   [][]int
	indeg   []int
	targets map[ast.ImportID]ast.FileID
}

// buildGraph resolves every import path against the importing file's
// directory and records the edges. Missing and self imports are reported
// and skipped so the sort can still run.
func buildGraph(builder *ast.Builder, units []Unit, reporter diag.Reporter) *importGraph {
	g := &importGraph{
		builder: builder,
		units:   units,
		byPath:  make(map[string]int, len(units)),
		edges:   make([][]int, len(units)),
		indeg:   make([]int, len(units)),
		targets: make(map[ast.ImportID]ast.FileID),
	}
	for i, u := range units {
		g.byPath[u.Path] = i
	}

	for from, u := range units {
		file := builder.File(u.File)
		seen := make(map[int]struct{})
		for _, impID := range file.Imports() {
			imp := builder.Import(impID)
			resolved := path.Join(path.Dir(u.Path), imp.Path)

			to, ok := g.byPath[resolved]
			if !ok {
				diag.Error(reporter, diag.ResMissingImport, imp.PathSpan,
					fmt.Sprintf("imported file %q not found", imp.Path))
				continue
			}
			if to == from {
				diag.Error(reporter, diag.ResSelfImport, imp.PathSpan,
					fmt.Sprintf("%q imports itself", u.Path))
				continue
			}
			g.targets[impID] = units[to].File
			if _, dup := seen[to]; dup {
				continue
			}
			seen[to] = struct{}{}
			g.edges[from] = append(g.edges[from], to)
			g.indeg[to]++
		}
		slices.Sort(g.edges[from])
	}
	return g
}

// toposort runs Kahn's algorithm. Dependencies sort before their importers
// (edges are walked in reverse). Files left with nonzero in-degree sit on
// a cycle and are reported.
func (g *importGraph) toposort(reporter diag.Reporter) ([]ast.FileID, bool) {
	// Reverse the edges: an import means "from depends on to", so "to"
	// must come out first.
	rev := make([][]int, len(g.units))
	indeg := make([]int, len(g.units))
	for from, tos := range g.edges {
		for _, to := range tos {
			rev[to] = append(rev[to], from)
			indeg[from]++
		}
	}

	current := make([]int, 0, len(g.units))
	for i := range g.units {
		if indeg[i] == 0 {
			current = append(current, i)
		}
	}
	slices.Sort(current)

	order := make([]ast.FileID, 0, len(g.units))
	for len(current) > 0 {
		next := make([]int, 0)
		for _, i := range current {
			order = append(order, g.units[i].File)
			for _, dep := range rev[i] {
				indeg[dep]--
				if indeg[dep] == 0 {
					next = append(next, dep)
				}
			}
		}
		slices.Sort(next)
		current = next
	}

	if len(order) == len(g.units) {
		return order, true
	}

	cyclic := make([]string, 0)
	for i := range g.units {
		if indeg[i] > 0 {
			cyclic = append(cyclic, g.units[i].Path)
		}
	}
	slices.Sort(cyclic)
	summary := strings.Join(cyclic, " -> ")
	for _, p := range cyclic {
		i := g.byPath[p]
		// Anchor the diagnostic on the file's first import.
		file := g.builder.File(g.units[i].File)
		sp := file.Span
		if imps := file.Imports(); len(imps) > 0 {
			sp = g.builder.Import(imps[0]).Span
		}
		diag.Error(reporter, diag.ResCircularImport, sp,
			fmt.Sprintf("%q participates in an import cycle: %s", p, summary))
	}
	return nil, false
}
