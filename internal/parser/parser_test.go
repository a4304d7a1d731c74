package parser_test

import (
	"testing"

	"zapc/internal/ast"
	"zapc/internal/diag"
	"zapc/internal/dialect"
	"zapc/internal/parser"
	"zapc/internal/source"
)

func parseSource(t *testing.T, input string, kind dialect.Kind) (*ast.Builder, ast.FileID, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	name := "test.zap"
	if kind == dialect.Legacy {
		name = "test.capnp"
	}
	fileID := fs.AddVirtual(name, []byte(input))
	file := fs.Get(fileID)

	builder := ast.NewBuilder(0)
	bag := diag.NewBag(16)
	id, ok := parser.ParseFile(file, kind, builder, diag.BagReporter{Bag: bag})
	if !ok && !bag.HasErrors() {
		t.Fatal("parse failed without diagnostics")
	}
	return builder, id, bag
}

func mustParse(t *testing.T, input string, kind dialect.Kind) (*ast.Builder, *ast.File) {
	t.Helper()
	builder, id, bag := parseSource(t, input, kind)
	if bag.HasErrors() {
		d, _ := bag.FirstError()
		t.Fatalf("unexpected diagnostic: %v", d)
	}
	return builder, builder.File(id)
}

func firstDecl(t *testing.T, builder *ast.Builder, file *ast.File) *ast.Decl {
	t.Helper()
	decls := file.Decls()
	if len(decls) == 0 {
		t.Fatal("no top-level declarations")
	}
	return builder.Decl(decls[0])
}

func TestCleanStruct(t *testing.T) {
	input := "struct Person\n  name Text\n  age UInt32\n  active Bool = true\n"
	builder, file := mustParse(t, input, dialect.Clean)

	d := firstDecl(t, builder, file)
	if d.Kind != ast.DeclStruct || d.Name != "Person" {
		t.Fatalf("decl = %v %q", d.Kind, d.Name)
	}
	fields := d.Fields(builder.Decls)
	if len(fields) != 3 {
		t.Fatalf("field count = %d, want 3", len(fields))
	}

	name := builder.Field(fields[0])
	if name.Name != "name" || name.HasOrdinal() {
		t.Errorf("field 0 = %q ordinal=%d", name.Name, name.Ordinal)
	}
	active := builder.Field(fields[2])
	if active.Default.Kind != ast.ValueBool || active.Default.Text != "true" {
		t.Errorf("default = %v %q", active.Default.Kind, active.Default.Text)
	}
}

func TestLegacyStruct(t *testing.T) {
	input := "struct Person @0xbf5147cbbecf40c1 {\n" +
		"  name @0 :Text;\n" +
		"  age @1 :UInt32;\n" +
		"}\n"
	builder, file := mustParse(t, input, dialect.Legacy)

	d := firstDecl(t, builder, file)
	fields := d.Fields(builder.Decls)
	if len(fields) != 2 {
		t.Fatalf("field count = %d, want 2", len(fields))
	}
	age := builder.Field(fields[1])
	if age.Ordinal != 1 {
		t.Errorf("age ordinal = %d, want 1", age.Ordinal)
	}
	typ := builder.Type(age.Type)
	if typ.Kind != ast.TypePrimitive || typ.Prim != ast.PrimUInt32 {
		t.Errorf("age type = %v %v", typ.Kind, typ.Prim)
	}
}

func TestNestedStruct(t *testing.T) {
	input := "struct Outer\n  label Text\n  struct Inner\n    x Int32\n  inner Inner\n"
	builder, file := mustParse(t, input, dialect.Clean)

	d := firstDecl(t, builder, file)
	if len(d.Members) != 3 {
		t.Fatalf("member count = %d, want 3", len(d.Members))
	}
	if d.Members[1].Kind != ast.MemberNested {
		t.Fatalf("member 1 kind = %v, want MemberNested", d.Members[1].Kind)
	}
	inner := builder.Decl(d.Members[1].Decl)
	if inner.Name != "Inner" || !inner.Parent.IsValid() {
		t.Errorf("inner = %q parent=%v", inner.Name, inner.Parent)
	}
	if got := builder.QualifiedName(d.Members[1].Decl); got != "Outer.Inner" {
		t.Errorf("qualified name = %q", got)
	}
}

func TestCleanUnion(t *testing.T) {
	input := "struct Shape\n  label Text\n  union\n    circle Float64\n    square Float64\n"
	builder, file := mustParse(t, input, dialect.Clean)

	d := firstDecl(t, builder, file)
	if len(d.Members) != 2 || d.Members[1].Kind != ast.MemberUnion {
		t.Fatalf("members = %+v", d.Members)
	}
	u := builder.Decl(d.Members[1].Decl)
	if u.Kind != ast.DeclUnion || u.Name != "" {
		t.Errorf("union = %v %q", u.Kind, u.Name)
	}
	if fields := d.Fields(builder.Decls); len(fields) != 3 {
		t.Errorf("flattened fields = %d, want 3", len(fields))
	}
}

func TestCleanNamedUnion(t *testing.T) {
	input := "struct Shape\n  union kind\n    circle Float64\n    square Float64\n"
	builder, file := mustParse(t, input, dialect.Clean)

	d := firstDecl(t, builder, file)
	u := builder.Decl(d.Members[0].Decl)
	if u.Name != "kind" {
		t.Errorf("union name = %q, want kind", u.Name)
	}
}

func TestLegacyNamedUnion(t *testing.T) {
	input := "struct Shape {\n" +
		"  kind :union {\n" +
		"    circle @0 :Float64;\n" +
		"    square @1 :Float64;\n" +
		"  }\n" +
		"}\n"
	builder, file := mustParse(t, input, dialect.Legacy)

	d := firstDecl(t, builder, file)
	if len(d.Members) != 1 || d.Members[0].Kind != ast.MemberUnion {
		t.Fatalf("members = %+v", d.Members)
	}
	u := builder.Decl(d.Members[0].Decl)
	if u.Name != "kind" {
		t.Errorf("union name = %q, want kind", u.Name)
	}
	fields := u.Fields(builder.Decls)
	if len(fields) != 2 || builder.Field(fields[1]).Ordinal != 1 {
		t.Errorf("union fields = %d", len(fields))
	}
}

func TestEnum(t *testing.T) {
	input := "enum Color\n  red\n  green\n  blue\n"
	builder, file := mustParse(t, input, dialect.Clean)

	d := firstDecl(t, builder, file)
	if d.Kind != ast.DeclEnum || len(d.Variants) != 3 {
		t.Fatalf("enum = %v variants=%d", d.Kind, len(d.Variants))
	}
	if d.Variants[2].Name != "blue" {
		t.Errorf("variant 2 = %q", d.Variants[2].Name)
	}
}

func TestInterface(t *testing.T) {
	input := "interface Greeter\n  sayHello (name Text) -> (greeting Text)\n  shutdown () -> ()\n"
	builder, file := mustParse(t, input, dialect.Clean)

	d := firstDecl(t, builder, file)
	if d.Kind != ast.DeclInterface || len(d.Methods) != 2 {
		t.Fatalf("interface = %v methods=%d", d.Kind, len(d.Methods))
	}
	m := builder.Method(d.Methods[0])
	if m.Name != "sayHello" || len(m.Params) != 1 || len(m.Results) != 1 {
		t.Errorf("method = %q params=%d results=%d", m.Name, len(m.Params), len(m.Results))
	}
	empty := builder.Method(d.Methods[1])
	if len(empty.Params) != 0 || len(empty.Results) != 0 {
		t.Errorf("shutdown params=%d results=%d", len(empty.Params), len(empty.Results))
	}
}

func TestInterfaceExtends(t *testing.T) {
	input := "interface Admin extends Greeter\n  ban (name Text) -> (ok Bool)\n"
	builder, file := mustParse(t, input, dialect.Clean)

	d := firstDecl(t, builder, file)
	if !d.Extends.IsValid() {
		t.Fatal("extends not recorded")
	}
	typ := builder.Type(d.Extends)
	if typ.Kind != ast.TypeNamed || typ.PathString() != "Greeter" {
		t.Errorf("extends = %v %q", typ.Kind, typ.PathString())
	}
}

func TestLegacyInterfaceExtends(t *testing.T) {
	input := "interface Admin extends(Greeter) {\n" +
		"  ban @0 (name :Text) -> (ok :Bool);\n" +
		"}\n"
	builder, file := mustParse(t, input, dialect.Legacy)

	d := firstDecl(t, builder, file)
	if !d.Extends.IsValid() {
		t.Fatal("extends not recorded")
	}
	m := builder.Method(d.Methods[0])
	if m.Ordinal != 0 || !m.HasOrdinal() {
		t.Errorf("method ordinal = %d", m.Ordinal)
	}
}

func TestImports(t *testing.T) {
	input := "using import \"common.zap\"\nusing Geo = import \"geo/shapes.zap\"\n\nstruct S\n  x Int32\n"
	builder, file := mustParse(t, input, dialect.Clean)

	imports := file.Imports()
	if len(imports) != 2 {
		t.Fatalf("import count = %d, want 2", len(imports))
	}
	plain := builder.Import(imports[0])
	if plain.Alias != "" || plain.Path != "common.zap" {
		t.Errorf("import 0 = %q %q", plain.Alias, plain.Path)
	}
	aliased := builder.Import(imports[1])
	if aliased.Alias != "Geo" || aliased.Path != "geo/shapes.zap" {
		t.Errorf("import 1 = %q %q", aliased.Alias, aliased.Path)
	}
}

func TestConst(t *testing.T) {
	input := "const maxRetries :UInt32 = 5\n"
	builder, file := mustParse(t, input, dialect.Clean)

	d := firstDecl(t, builder, file)
	if d.Kind != ast.DeclConst || d.Name != "maxRetries" {
		t.Fatalf("const = %v %q", d.Kind, d.Name)
	}
	if d.ConstValue.Kind != ast.ValueInt || d.ConstValue.Text != "5" {
		t.Errorf("value = %v %q", d.ConstValue.Kind, d.ConstValue.Text)
	}
}

func TestTypeExpressions(t *testing.T) {
	input := "struct S\n" +
		"  tags List(Text)\n" +
		"  index Map(Text, UInt64)\n" +
		"  maybe Int32?\n" +
		"  other pkg.Outer.Inner\n"
	builder, file := mustParse(t, input, dialect.Clean)

	d := firstDecl(t, builder, file)
	fields := d.Fields(builder.Decls)
	if len(fields) != 4 {
		t.Fatalf("field count = %d, want 4", len(fields))
	}

	list := builder.Type(builder.Field(fields[0]).Type)
	if list.Kind != ast.TypeList {
		t.Errorf("tags type = %v, want TypeList", list.Kind)
	}
	m := builder.Type(builder.Field(fields[1]).Type)
	if m.Kind != ast.TypeMap {
		t.Errorf("index type = %v, want TypeMap", m.Kind)
	}
	if k := builder.Type(m.Key); k.Prim != ast.PrimText {
		t.Errorf("map key = %v", k.Prim)
	}
	opt := builder.Type(builder.Field(fields[2]).Type)
	if opt.Kind != ast.TypeOptional {
		t.Errorf("maybe type = %v, want TypeOptional", opt.Kind)
	}
	named := builder.Type(builder.Field(fields[3]).Type)
	if named.Kind != ast.TypeNamed || named.PathString() != "pkg.Outer.Inner" {
		t.Errorf("other type = %v %q", named.Kind, named.PathString())
	}
}

func TestTopLevelComments(t *testing.T) {
	input := "# Schema for user records.\nstruct User\n  id UInt64\n"
	_, file := mustParse(t, input, dialect.Clean)

	if len(file.Items) != 2 || file.Items[0].Kind != ast.ItemComment {
		t.Fatalf("items = %+v", file.Items)
	}
	if file.Items[0].Comment != "Schema for user records." {
		t.Errorf("comment = %q", file.Items[0].Comment)
	}
}

func TestLegacyFileID(t *testing.T) {
	input := "@0x9eb32e19f86ee174;\n\nstruct S {\n  x @0 :Int32;\n}\n"
	builder, file := mustParse(t, input, dialect.Legacy)

	d := firstDecl(t, builder, file)
	if d.Name != "S" {
		t.Errorf("decl = %q", d.Name)
	}
}

func TestBadDefaultShape(t *testing.T) {
	_, _, bag := parseSource(t, "struct S\n  age UInt32 = \"old\"\n", dialect.Clean)
	d, ok := bag.FirstError()
	if !ok || d.Code != diag.SynBadDefault {
		t.Errorf("want SynBadDefault, got %v", bag.Items())
	}
}

func TestContainerDefaultRejected(t *testing.T) {
	_, _, bag := parseSource(t, "struct S\n  tags List(Text) = \"x\"\n", dialect.Clean)
	d, ok := bag.FirstError()
	if !ok || d.Code != diag.SynBadDefault {
		t.Errorf("want SynBadDefault, got %v", bag.Items())
	}
}

func TestMissingSemicolonLegacy(t *testing.T) {
	_, _, bag := parseSource(t, "struct S {\n  x @0 :Int32\n}\n", dialect.Legacy)
	if !bag.HasErrors() {
		t.Fatal("expected a syntax diagnostic")
	}
}

func TestFirstErrorOnly(t *testing.T) {
	_, _, bag := parseSource(t, "struct S\n  = Int32\n  also = bad\n", dialect.Clean)
	errs := 0
	for _, d := range bag.Items() {
		if d.Severity == diag.SevError {
			errs++
		}
	}
	if errs != 1 {
		t.Errorf("error count = %d, want 1", errs)
	}
}

func TestBadDedentFailsParse(t *testing.T) {
	// The dedented "struct B" line re-reads as a top-level declaration,
	// so the token stream parses; the lex error must still fail the
	// file.
	input := "struct A\n    x Int32\n  struct B\n      y Int32\n"

	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.zap", []byte(input)))
	bag := diag.NewBag(16)

	_, ok := parser.ParseFile(file, dialect.Clean, ast.NewBuilder(0), diag.BagReporter{Bag: bag})
	if ok {
		t.Fatal("parse succeeded despite a mismatched dedent")
	}
	d, found := bag.FirstError()
	if !found || d.Code != diag.LexBadIndent {
		t.Errorf("first error = %+v, want LexBadIndent", d)
	}
}
