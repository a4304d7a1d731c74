// Package driver orchestrates one compiler invocation: loading the
// import closure, parsing, resolution, layout, IR construction, and
// descriptor encoding, plus the evolution check against the cached
// descriptor from the previous run.
package driver

import (
	"context"
	"runtime"

	"zapc/internal/ast"
	"zapc/internal/diag"
	"zapc/internal/ir"
	"zapc/internal/layout"
	"zapc/internal/project"
	"zapc/internal/resolver"
	"zapc/internal/source"
	"zapc/internal/wire"
)

const defaultMaxDiagnostics = 64

// Options configure a compilation.
type Options struct {
	// MaxDiagnostics caps the diagnostic bag; 0 picks a default.
	MaxDiagnostics int
	// Jobs limits parallelism for directory-wide operations;
	// 0 means GOMAXPROCS.
	Jobs int
	// Cache enables the evolution check against the previously
	// compiled descriptor. Nil disables both.
	Cache *DescriptorCache
}

func (o Options) maxDiagnostics() int {
	return maxOrDefault(o.MaxDiagnostics)
}

func (o Options) jobs() int {
	if o.Jobs <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return o.Jobs
}

// Compilation holds everything a single root schema produced. Later
// fields stay nil when an earlier phase reported errors.
type Compilation struct {
	// Root is the canonical slash path of the entry file.
	Root    string
	FileSet *source.FileSet
	Builder *ast.Builder
	Bag     *diag.Bag

	Units []resolver.Unit
	Order []ast.FileID

	// ContentHash aggregates the hashes of every loaded file.
	ContentHash project.Digest

	Layout     *layout.Schema
	Schema     *ir.Schema
	Descriptor *wire.Descriptor
	// Encoded is the serialized descriptor, ready to write to disk.
	Encoded []byte
}

// Succeeded reports whether the pipeline ran to completion without
// errors.
func (c *Compilation) Succeeded() bool {
	return c.Encoded != nil && !c.Bag.HasErrors()
}

// Compile runs the full pipeline for one root schema file. Diagnostics
// land in the returned Compilation's Bag; the error covers only setup
// failures such as an unreadable cache.
func Compile(ctx context.Context, rootPath string, opt Options) (*Compilation, error) {
	comp := &Compilation{
		FileSet: source.NewFileSet(),
		Builder: ast.NewBuilder(0),
		Bag:     diag.NewBag(opt.maxDiagnostics()),
	}
	reporter := diag.BagReporter{Bag: comp.Bag}

	comp.Root, comp.Units = loadClosure(comp.FileSet, comp.Builder, reporter, rootPath)
	if err := ctx.Err(); err != nil {
		return comp, err
	}
	if comp.Bag.HasErrors() || len(comp.Units) == 0 {
		return comp, nil
	}
	comp.ContentHash = contentHash(comp)

	res, ok := resolver.Resolve(comp.Builder, comp.Units, reporter)
	if !ok {
		return comp, nil
	}
	comp.Order = res.Order

	lay, ok := layout.Assign(comp.Builder, comp.Order, reporter)
	if !ok {
		return comp, nil
	}
	comp.Layout = lay

	if err := ctx.Err(); err != nil {
		return comp, err
	}
	comp.Schema = ir.Build(comp.Builder, lay, orderedInputs(comp))
	comp.Descriptor = wire.FromSchema(comp.Schema)

	encoded, err := wire.Emit(comp.Descriptor)
	if err != nil {
		return comp, err
	}

	if opt.Cache != nil {
		ok, err := checkEvolution(opt.Cache, comp, reporter)
		if err != nil {
			return comp, err
		}
		if !ok {
			return comp, nil
		}
	}

	comp.Encoded = encoded
	if opt.Cache != nil {
		if err := storeDescriptor(opt.Cache, comp); err != nil {
			return comp, err
		}
	}
	return comp, nil
}

// orderedInputs maps the resolved file order back to schema paths.
func orderedInputs(comp *Compilation) []ir.Input {
	byFile := make(map[ast.FileID]string, len(comp.Units))
	for _, u := range comp.Units {
		byFile[u.File] = u.Path
	}
	inputs := make([]ir.Input, 0, len(comp.Order))
	for _, fileID := range comp.Order {
		inputs = append(inputs, ir.Input{File: fileID, Path: byFile[fileID]})
	}
	return inputs
}

// contentHash folds every unit's source hash into one digest, in load
// order. Load order is deterministic (breadth-first over imports), so
// the digest is stable for unchanged sources.
func contentHash(comp *Compilation) project.Digest {
	deps := make([]project.Digest, 0, len(comp.Units))
	for _, u := range comp.Units {
		astFile := comp.Builder.File(u.File)
		deps = append(deps, comp.FileSet.Get(astFile.Source).Hash)
	}
	return project.Combine(project.HashPath(comp.Root), deps...)
}

// checkEvolution compares the new descriptor against the cached one.
// A missing or stale cache entry passes: there is nothing to be
// compatible with.
func checkEvolution(cache *DescriptorCache, comp *Compilation, reporter diag.Reporter) (bool, error) {
	var prior Payload
	found, err := cache.Get(project.HashPath(comp.Root), &prior)
	if err != nil {
		return false, err
	}
	if !found || prior.ContentHash == comp.ContentHash {
		return true, nil
	}
	old, err := wire.Read(prior.Descriptor)
	if err != nil {
		// Unreadable prior descriptor (e.g. written by an older
		// format version): treat as absent and overwrite.
		return true, nil
	}
	return wire.CheckEvolution(old, comp.Descriptor, reporter), nil
}

func storeDescriptor(cache *DescriptorCache, comp *Compilation) error {
	paths := make([]string, 0, len(comp.Units))
	for _, u := range comp.Units {
		paths = append(paths, u.Path)
	}
	return cache.Put(project.HashPath(comp.Root), &Payload{
		Schema:      payloadSchemaVersion,
		Root:        comp.Root,
		Files:       paths,
		ContentHash: comp.ContentHash,
		Descriptor:  comp.Encoded,
	})
}
