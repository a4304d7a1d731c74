package resolver

import (
	"fmt"

	"zapc/internal/ast"
	"zapc/internal/diag"
	"zapc/internal/source"
)

// Result is the outcome of name resolution over one compilation.
type Result struct {
	// Order lists the files topologically, dependencies first. Layout and
	// code generation walk this order so cross-file references always see
	// resolved targets.
	Order []ast.FileID
	// ImportTargets maps each import item to the file it names.
	ImportTargets map[ast.ImportID]ast.FileID
}

type resolver struct {
	builder  *ast.Builder
	reporter diag.Reporter
	targets  map[ast.ImportID]ast.FileID

	// fileScopes holds top-level declaration names per file.
	fileScopes map[ast.FileID]map[string]ast.DeclID
	// aliasScopes holds import aliases per file.
	aliasScopes map[ast.FileID]map[string]ast.FileID
	// openImports lists unaliased imports per file, in source order.
	openImports map[ast.FileID][]ast.FileID

	failed bool
}

// Resolve links every named type reference in units to its declaration,
// checks name and ordinal uniqueness, and orders the files so that
// dependencies come first. Resolution keeps going after an error to
// surface as many problems as one run can.
func Resolve(builder *ast.Builder, units []Unit, reporter diag.Reporter) (*Result, bool) {
	g := buildGraph(builder, units, reporter)
	order, ok := g.toposort(reporter)
	if !ok {
		return nil, false
	}

	r := &resolver{
		builder:     builder,
		reporter:    reporter,
		targets:     g.targets,
		fileScopes:  make(map[ast.FileID]map[string]ast.DeclID, len(units)),
		aliasScopes: make(map[ast.FileID]map[string]ast.FileID, len(units)),
		openImports: make(map[ast.FileID][]ast.FileID, len(units)),
	}
	if len(g.targets) != r.countImports(units) {
		// Some import did not resolve to a loaded file.
		r.failed = true
	}

	for _, fileID := range order {
		r.declareFile(fileID)
	}
	for _, fileID := range order {
		r.resolveFile(fileID)
	}

	if r.failed {
		return nil, false
	}
	return &Result{Order: order, ImportTargets: g.targets}, true
}

func (r *resolver) countImports(units []Unit) int {
	n := 0
	for _, u := range units {
		n += len(r.builder.File(u.File).Imports())
	}
	return n
}

func (r *resolver) errorf(code diag.Code, sp source.Span, format string, args ...any) {
	r.failed = true
	diag.Error(r.reporter, code, sp, fmt.Sprintf(format, args...))
}

func (r *resolver) duplicate(name string, sp, prev source.Span) {
	r.failed = true
	r.reporter.Report(diag.ResDuplicateName, diag.SevError, sp,
		fmt.Sprintf("%q is already declared in this scope", name),
		[]diag.Note{{Span: prev, Msg: "previous declaration here"}})
}

// declareFile builds the file's top-level scope and checks every
// declaration subtree for duplicate names and ordinals.
func (r *resolver) declareFile(fileID ast.FileID) {
	file := r.builder.File(fileID)

	scope := make(map[string]ast.DeclID)
	aliases := make(map[string]ast.FileID)
	open := make([]ast.FileID, 0, 2)

	for _, impID := range file.Imports() {
		imp := r.builder.Import(impID)
		target, ok := r.targets[impID]
		if !ok {
			continue
		}
		if imp.Alias == "" {
			open = append(open, target)
			continue
		}
		if _, dup := aliases[imp.Alias]; dup {
			r.duplicate(imp.Alias, imp.Span, imp.Span)
			continue
		}
		aliases[imp.Alias] = target
	}

	for _, declID := range file.Decls() {
		d := r.builder.Decl(declID)
		if prev, dup := scope[d.Name]; dup {
			r.duplicate(d.Name, d.NameSpan, r.builder.Decl(prev).NameSpan)
			continue
		}
		if _, shadow := aliases[d.Name]; shadow {
			r.errorf(diag.ResDuplicateName, d.NameSpan,
				"%q collides with an import alias", d.Name)
			continue
		}
		scope[d.Name] = declID
		r.checkDeclBody(declID)
	}

	r.fileScopes[fileID] = scope
	r.aliasScopes[fileID] = aliases
	r.openImports[fileID] = open
}

// checkDeclBody verifies member-name and ordinal uniqueness within one
// declaration and recurses into nested declarations.
func (r *resolver) checkDeclBody(declID ast.DeclID) {
	d := r.builder.Decl(declID)

	switch d.Kind {
	case ast.DeclStruct, ast.DeclUnion:
		r.checkStructBody(d)
	case ast.DeclEnum:
		seen := make(map[string]source.Span)
		for _, v := range d.Variants {
			if prev, dup := seen[v.Name]; dup {
				r.duplicate(v.Name, v.Span, prev)
				continue
			}
			seen[v.Name] = v.Span
		}
	case ast.DeclInterface:
		r.checkInterfaceBody(d)
	}
}

func (r *resolver) checkStructBody(d *ast.Decl) {
	names := make(map[string]source.Span)
	ordinals := make(map[int32]source.Span)

	var visitMember func(m ast.Member)
	visitMember = func(m ast.Member) {
		switch m.Kind {
		case ast.MemberField:
			f := r.builder.Field(m.Field)
			if prev, dup := names[f.Name]; dup {
				r.duplicate(f.Name, f.NameSpan, prev)
			} else {
				names[f.Name] = f.NameSpan
			}
			if f.HasOrdinal() {
				if prev, dup := ordinals[f.Ordinal]; dup {
					r.failed = true
					r.reporter.Report(diag.ResDuplicateOrdinal, diag.SevError, f.OrdinalSpan,
						fmt.Sprintf("ordinal @%d is used twice", f.Ordinal),
						[]diag.Note{{Span: prev, Msg: "first use here"}})
				} else {
					ordinals[f.Ordinal] = f.OrdinalSpan
				}
			}
		case ast.MemberUnion:
			u := r.builder.Decl(m.Decl)
			if u.Name != "" {
				if prev, dup := names[u.Name]; dup {
					r.duplicate(u.Name, u.NameSpan, prev)
				} else {
					names[u.Name] = u.NameSpan
				}
			}
			// Union fields share the struct's name and ordinal space.
			for _, um := range u.Members {
				visitMember(um)
			}
		case ast.MemberNested:
			nested := r.builder.Decl(m.Decl)
			if prev, dup := names[nested.Name]; dup {
				r.duplicate(nested.Name, nested.NameSpan, prev)
			} else {
				names[nested.Name] = nested.NameSpan
			}
			r.checkDeclBody(m.Decl)
		}
	}
	for _, m := range d.Members {
		visitMember(m)
	}
}

func (r *resolver) checkInterfaceBody(d *ast.Decl) {
	names := make(map[string]source.Span)
	ordinals := make(map[int32]source.Span)

	for _, nestedID := range d.Nested {
		nested := r.builder.Decl(nestedID)
		if prev, dup := names[nested.Name]; dup {
			r.duplicate(nested.Name, nested.NameSpan, prev)
		} else {
			names[nested.Name] = nested.NameSpan
		}
		r.checkDeclBody(nestedID)
	}
	for _, mID := range d.Methods {
		m := r.builder.Method(mID)
		if prev, dup := names[m.Name]; dup {
			r.duplicate(m.Name, m.NameSpan, prev)
		} else {
			names[m.Name] = m.NameSpan
		}
		if m.HasOrdinal() {
			if prev, dup := ordinals[m.Ordinal]; dup {
				r.failed = true
				r.reporter.Report(diag.ResDuplicateOrdinal, diag.SevError, m.OrdinalSpan,
					fmt.Sprintf("ordinal @%d is used twice", m.Ordinal),
					[]diag.Note{{Span: prev, Msg: "first use here"}})
			} else {
				ordinals[m.Ordinal] = m.OrdinalSpan
			}
		}
	}
}

// resolveFile links every type reference in the file and deep-checks
// defaults once their target declarations are known.
func (r *resolver) resolveFile(fileID ast.FileID) {
	file := r.builder.File(fileID)
	for _, declID := range file.Decls() {
		r.resolveDecl(fileID, declID)
	}
}

func (r *resolver) resolveDecl(fileID ast.FileID, declID ast.DeclID) {
	d := r.builder.Decl(declID)

	switch d.Kind {
	case ast.DeclStruct, ast.DeclUnion:
		for _, m := range d.Members {
			switch m.Kind {
			case ast.MemberField:
				r.resolveField(fileID, declID, m.Field)
			case ast.MemberUnion, ast.MemberNested:
				r.resolveDecl(fileID, m.Decl)
			}
		}
	case ast.DeclInterface:
		if d.Extends.IsValid() {
			if target := r.resolveType(fileID, declID, d.Extends); target.IsValid() {
				if r.builder.Decl(target).Kind != ast.DeclInterface {
					t := r.builder.Type(d.Extends)
					r.errorf(diag.ResUnresolvedType, t.Span,
						"%q is not an interface", t.PathString())
				}
			}
		}
		for _, nestedID := range d.Nested {
			r.resolveDecl(fileID, nestedID)
		}
		for _, mID := range d.Methods {
			m := r.builder.Method(mID)
			for _, p := range m.Params {
				r.resolveType(fileID, declID, p.Type)
			}
			for _, p := range m.Results {
				r.resolveType(fileID, declID, p.Type)
			}
		}
	case ast.DeclConst:
		r.resolveType(fileID, ast.NoDeclID, d.ConstType)
		r.checkValue(d.ConstType, d.ConstValue)
	}
}

func (r *resolver) resolveField(fileID ast.FileID, owner ast.DeclID, fieldID ast.FieldID) {
	f := r.builder.Field(fieldID)
	r.resolveType(fileID, owner, f.Type)
	r.checkValue(f.Type, f.Default)
}

// resolveType walks a type expression and links each TypeNamed node.
// Returns the target declaration for TypeNamed roots, NoDeclID otherwise.
func (r *resolver) resolveType(fileID ast.FileID, scope ast.DeclID, typeID ast.TypeID) ast.DeclID {
	if !typeID.IsValid() {
		return ast.NoDeclID
	}
	t := r.builder.Type(typeID)

	switch t.Kind {
	case ast.TypeList, ast.TypeOptional:
		r.resolveType(fileID, scope, t.Elem)
	case ast.TypeMap:
		r.resolveType(fileID, scope, t.Key)
		r.resolveType(fileID, scope, t.Val)
	case ast.TypeNamed:
		target := r.lookupPath(fileID, scope, t)
		if target.IsValid() {
			if r.builder.Decl(target).Kind == ast.DeclConst {
				r.errorf(diag.ResUnresolvedType, t.Span,
					"%q is a constant, not a type", t.PathString())
				return ast.NoDeclID
			}
			t.Decl = target
		}
		return target
	}
	return ast.NoDeclID
}

// lookupPath resolves a dotted reference. The first segment searches the
// lexical chain (enclosing declarations outward, then the file's top
// level, then aliases, then unaliased imports); later segments select
// nested declarations of the running target.
func (r *resolver) lookupPath(fileID ast.FileID, scope ast.DeclID, t *ast.Type) ast.DeclID {
	head := t.Path[0]
	rest := t.Path[1:]

	target := r.lookupHead(fileID, scope, head)
	if !target.IsValid() {
		// An alias can only start a dotted path.
		if alias, ok := r.aliasScopes[fileID][head]; ok && len(rest) > 0 {
			target = r.lookupIn(alias, rest[0])
			if !target.IsValid() {
				r.errorf(diag.ResUnresolvedType, t.Span,
					"%q has no declaration named %q", head, rest[0])
				return ast.NoDeclID
			}
			rest = rest[1:]
		} else {
			r.errorf(diag.ResUnresolvedType, t.Span, "cannot resolve %q", t.PathString())
			return ast.NoDeclID
		}
	}

	for _, seg := range rest {
		next := r.lookupNested(target, seg)
		if !next.IsValid() {
			r.errorf(diag.ResUnresolvedType, t.Span,
				"%q has no nested declaration %q", r.builder.QualifiedName(target), seg)
			return ast.NoDeclID
		}
		target = next
	}
	return target
}

// lookupHead searches enclosing declarations from the innermost outward,
// then the file scope, then unaliased imports in source order.
func (r *resolver) lookupHead(fileID ast.FileID, scope ast.DeclID, name string) ast.DeclID {
	for cur := scope; cur.IsValid(); cur = r.builder.Decl(cur).Parent {
		if r.builder.Decl(cur).Name == name {
			return cur
		}
		if id := r.lookupNested(cur, name); id.IsValid() {
			return id
		}
	}
	if id, ok := r.fileScopes[fileID][name]; ok {
		return id
	}
	for _, open := range r.openImports[fileID] {
		if id := r.lookupIn(open, name); id.IsValid() {
			return id
		}
	}
	return ast.NoDeclID
}

func (r *resolver) lookupIn(fileID ast.FileID, name string) ast.DeclID {
	if id, ok := r.fileScopes[fileID][name]; ok {
		return id
	}
	return ast.NoDeclID
}

func (r *resolver) lookupNested(declID ast.DeclID, name string) ast.DeclID {
	d := r.builder.Decl(declID)
	for _, nestedID := range d.NestedDecls() {
		if r.builder.Decl(nestedID).Name == name {
			return nestedID
		}
	}
	return ast.NoDeclID
}

// checkValue deep-checks a default against its resolved type. Shape
// mismatches against builtins were already rejected by the parser; this
// pass handles named types, where an enumerant name must belong to the
// target enum and anything else cannot take a default.
func (r *resolver) checkValue(typeID ast.TypeID, value ast.Value) {
	if !value.IsSet() || !typeID.IsValid() {
		return
	}
	t := r.builder.Type(typeID)
	for t.Kind == ast.TypeOptional {
		t = r.builder.Type(t.Elem)
	}
	if t.Kind != ast.TypeNamed || !t.Decl.IsValid() {
		return
	}

	target := r.builder.Decl(t.Decl)
	if target.Kind != ast.DeclEnum {
		r.errorf(diag.ResBadDefault, value.Span,
			"%s %q cannot have a default value", target.Kind, target.Name)
		return
	}
	if value.Kind != ast.ValueName {
		r.errorf(diag.ResBadDefault, value.Span,
			"default for enum %q must be a variant name", target.Name)
		return
	}
	for _, v := range target.Variants {
		if v.Name == value.Text {
			return
		}
	}
	r.errorf(diag.ResBadDefault, value.Span,
		"enum %q has no variant %q", target.Name, value.Text)
}
