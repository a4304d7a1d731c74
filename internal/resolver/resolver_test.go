package resolver_test

import (
	"testing"

	"zapc/internal/ast"
	"zapc/internal/diag"
	"zapc/internal/dialect"
	"zapc/internal/parser"
	"zapc/internal/resolver"
	"zapc/internal/source"
)

// resolveInputs parses named schemas and runs resolution over all of them.
func resolveInputs(t *testing.T, inputs map[string]string) (*ast.Builder, *resolver.Result, *diag.Bag, bool) {
	t.Helper()
	fs := source.NewFileSet()
	builder := ast.NewBuilder(0)
	bag := diag.NewBag(32)
	reporter := diag.BagReporter{Bag: bag}

	units := make([]resolver.Unit, 0, len(inputs))
	for name, text := range inputs {
		srcID := fs.AddVirtual(name, []byte(text))
		file := fs.Get(srcID)
		fileID, ok := parser.ParseFile(file, dialect.Clean, builder, reporter)
		if !ok {
			t.Fatalf("parse %s failed: %v", name, bag.Items())
		}
		units = append(units, resolver.Unit{File: fileID, Path: file.Path})
	}

	res, ok := resolver.Resolve(builder, units, reporter)
	return builder, res, bag, ok
}

func wantErrorCode(t *testing.T, bag *diag.Bag, code diag.Code) {
	t.Helper()
	for _, d := range bag.Items() {
		if d.Code == code {
			return
		}
	}
	t.Errorf("no %v diagnostic, got %v", code, bag.Items())
}

func TestResolveLocalReference(t *testing.T) {
	builder, _, bag, ok := resolveInputs(t, map[string]string{
		"a.zap": "struct Point\n  x Int32\n  y Int32\n\nstruct Line\n  from Point\n  to Point\n",
	})
	if !ok {
		t.Fatalf("resolve failed: %v", bag.Items())
	}

	var line *ast.Decl
	for i := uint32(1); i <= uint32(builder.Decls.Len()); i++ {
		d := builder.Decl(ast.DeclID(i))
		if d.Name == "Line" {
			line = d
		}
	}
	if line == nil {
		t.Fatal("Line not found")
	}
	from := builder.Field(line.Fields(builder.Decls)[0])
	typ := builder.Type(from.Type)
	if !typ.Decl.IsValid() {
		t.Fatal("Point reference not linked")
	}
	if builder.Decl(typ.Decl).Name != "Point" {
		t.Errorf("linked to %q, want Point", builder.Decl(typ.Decl).Name)
	}
}

func TestResolveNestedReference(t *testing.T) {
	builder, _, bag, ok := resolveInputs(t, map[string]string{
		"a.zap": "struct Outer\n  struct Inner\n    x Int32\n  one Inner\n\nstruct Other\n  two Outer.Inner\n",
	})
	if !ok {
		t.Fatalf("resolve failed: %v", bag.Items())
	}
	for _, typ := range builder.Types.Slice() {
		if typ.Kind == ast.TypeNamed && !typ.Decl.IsValid() {
			t.Errorf("unlinked reference %q", typ.PathString())
		}
	}
}

func TestUnresolvedType(t *testing.T) {
	_, _, bag, ok := resolveInputs(t, map[string]string{
		"a.zap": "struct S\n  ghost Phantom\n",
	})
	if ok {
		t.Fatal("expected resolution failure")
	}
	wantErrorCode(t, bag, diag.ResUnresolvedType)
}

func TestDuplicateTopLevel(t *testing.T) {
	_, _, bag, ok := resolveInputs(t, map[string]string{
		"a.zap": "struct S\n  x Int32\n\nstruct S\n  y Int32\n",
	})
	if ok {
		t.Fatal("expected resolution failure")
	}
	wantErrorCode(t, bag, diag.ResDuplicateName)
}

func TestDuplicateField(t *testing.T) {
	_, _, bag, ok := resolveInputs(t, map[string]string{
		"a.zap": "struct S\n  x Int32\n  x Text\n",
	})
	if ok {
		t.Fatal("expected resolution failure")
	}
	wantErrorCode(t, bag, diag.ResDuplicateName)
}

func TestDuplicateOrdinal(t *testing.T) {
	fs := source.NewFileSet()
	builder := ast.NewBuilder(0)
	bag := diag.NewBag(32)
	reporter := diag.BagReporter{Bag: bag}

	text := "struct S {\n  x @0 :Int32;\n  y @0 :Text;\n}\n"
	srcID := fs.AddVirtual("s.capnp", []byte(text))
	fileID, ok := parser.ParseFile(fs.Get(srcID), dialect.Legacy, builder, reporter)
	if !ok {
		t.Fatalf("parse failed: %v", bag.Items())
	}

	_, ok = resolver.Resolve(builder, []resolver.Unit{{File: fileID, Path: "s.capnp"}}, reporter)
	if ok {
		t.Fatal("expected resolution failure")
	}
	wantErrorCode(t, bag, diag.ResDuplicateOrdinal)
}

func TestUnionSharesOrdinalSpace(t *testing.T) {
	fs := source.NewFileSet()
	builder := ast.NewBuilder(0)
	bag := diag.NewBag(32)
	reporter := diag.BagReporter{Bag: bag}

	text := "struct S {\n  x @0 :Int32;\n  union {\n    a @0 :Int32;\n    b @1 :Int32;\n  }\n}\n"
	srcID := fs.AddVirtual("s.capnp", []byte(text))
	fileID, ok := parser.ParseFile(fs.Get(srcID), dialect.Legacy, builder, reporter)
	if !ok {
		t.Fatalf("parse failed: %v", bag.Items())
	}

	_, ok = resolver.Resolve(builder, []resolver.Unit{{File: fileID, Path: "s.capnp"}}, reporter)
	if ok {
		t.Fatal("union member reusing @0 should fail")
	}
	wantErrorCode(t, bag, diag.ResDuplicateOrdinal)
}

func TestCrossFileImport(t *testing.T) {
	builder, res, bag, ok := resolveInputs(t, map[string]string{
		"common.zap": "struct Point\n  x Int32\n  y Int32\n",
		"main.zap":   "using import \"common.zap\"\n\nstruct Line\n  from Point\n  to Point\n",
	})
	if !ok {
		t.Fatalf("resolve failed: %v", bag.Items())
	}
	if len(res.Order) != 2 {
		t.Fatalf("order = %v", res.Order)
	}
	// Dependency must sort first.
	first := builder.File(res.Order[0])
	if len(first.Imports()) != 0 {
		t.Error("importing file sorted before its dependency")
	}
}

func TestAliasedImport(t *testing.T) {
	_, _, bag, ok := resolveInputs(t, map[string]string{
		"geo/shapes.zap": "struct Circle\n  radius Float64\n",
		"main.zap":       "using Geo = import \"geo/shapes.zap\"\n\nstruct Canvas\n  main Geo.Circle\n",
	})
	if !ok {
		t.Fatalf("resolve failed: %v", bag.Items())
	}
}

func TestMissingImport(t *testing.T) {
	_, _, bag, ok := resolveInputs(t, map[string]string{
		"main.zap": "using import \"nowhere.zap\"\n\nstruct S\n  x Int32\n",
	})
	if ok {
		t.Fatal("expected resolution failure")
	}
	wantErrorCode(t, bag, diag.ResMissingImport)
}

func TestCircularImport(t *testing.T) {
	_, _, bag, ok := resolveInputs(t, map[string]string{
		"a.zap": "using import \"b.zap\"\n\nstruct A\n  x Int32\n",
		"b.zap": "using import \"a.zap\"\n\nstruct B\n  y Int32\n",
	})
	if ok {
		t.Fatal("expected resolution failure")
	}
	wantErrorCode(t, bag, diag.ResCircularImport)
}

func TestSelfImport(t *testing.T) {
	_, _, bag, ok := resolveInputs(t, map[string]string{
		"a.zap": "using import \"a.zap\"\n\nstruct A\n  x Int32\n",
	})
	if ok {
		t.Fatal("expected resolution failure")
	}
	wantErrorCode(t, bag, diag.ResSelfImport)
}

func TestEnumDefault(t *testing.T) {
	_, _, bag, ok := resolveInputs(t, map[string]string{
		"a.zap": "enum Color\n  red\n  green\n\nstruct S\n  tint Color = green\n",
	})
	if !ok {
		t.Fatalf("resolve failed: %v", bag.Items())
	}
}

func TestBadEnumDefault(t *testing.T) {
	_, _, bag, ok := resolveInputs(t, map[string]string{
		"a.zap": "enum Color\n  red\n  green\n\nstruct S\n  tint Color = purple\n",
	})
	if ok {
		t.Fatal("expected resolution failure")
	}
	wantErrorCode(t, bag, diag.ResBadDefault)
}

func TestStructDefaultRejected(t *testing.T) {
	_, _, bag, ok := resolveInputs(t, map[string]string{
		"a.zap": "struct Point\n  x Int32\n\nstruct S\n  p Point = origin\n",
	})
	if ok {
		t.Fatal("expected resolution failure")
	}
	wantErrorCode(t, bag, diag.ResBadDefault)
}

func TestExtendsMustBeInterface(t *testing.T) {
	_, _, bag, ok := resolveInputs(t, map[string]string{
		"a.zap": "struct Base\n  x Int32\n\ninterface Svc extends Base\n  ping () -> ()\n",
	})
	if ok {
		t.Fatal("expected resolution failure")
	}
	wantErrorCode(t, bag, diag.ResUnresolvedType)
}
