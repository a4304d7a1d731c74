package format_test

import (
	"fmt"
	"strings"
	"testing"

	"zapc/internal/ast"
	"zapc/internal/diag"
	"zapc/internal/dialect"
	"zapc/internal/format"
	"zapc/internal/parser"
	"zapc/internal/source"
)

func formatSource(t *testing.T, input string, kind dialect.Kind) string {
	t.Helper()
	fs := source.NewFileSet()
	builder := ast.NewBuilder(0)
	bag := diag.NewBag(16)

	name := "test.zap"
	if kind == dialect.Legacy {
		name = "test.capnp"
	}
	srcID := fs.AddVirtual(name, []byte(input))
	fileID, ok := parser.ParseFile(fs.Get(srcID), kind, builder, diag.BagReporter{Bag: bag})
	if !ok {
		t.Fatalf("parse failed: %v", bag.Items())
	}

	out, err := format.FormatFile(builder, fileID, format.Options{})
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	return string(out)
}

func TestCanonicalStruct(t *testing.T) {
	got := formatSource(t, "struct  Person\n  name    Text\n  age UInt32   = 30\n", dialect.Clean)
	want := "struct Person\n  name Text\n  age UInt32 = 30\n"
	if got != want {
		t.Errorf("got:\n%q\nwant:\n%q", got, want)
	}
}

func TestIdempotent(t *testing.T) {
	inputs := []string{
		"struct A\n  x Int32\n\nstruct B\n  a A\n  tags List(Text)\n",
		"# Top comment.\nenum Color\n  red\n  green\n",
		"using import \"common.zap\"\n\nstruct S\n  p Map(Text, UInt64)\n  q Int32?\n",
		"interface Svc\n  get (key Text) -> (value Data)\n",
		"const limit :UInt32 = 10\n",
	}
	for _, input := range inputs {
		once := formatSource(t, input, dialect.Clean)
		twice := formatSource(t, once, dialect.Clean)
		if once != twice {
			t.Errorf("not idempotent:\nfirst:\n%s\nsecond:\n%s", once, twice)
		}
	}
}

// declSummary flattens a parsed file into one comparable string: every
// declaration, member, ordinal, type, and default, independent of
// spans and layout.
func declSummary(b *ast.Builder, file *ast.File) string {
	var sb strings.Builder
	for _, impID := range file.Imports() {
		imp := b.Import(impID)
		fmt.Fprintf(&sb, "import %q as %q\n", imp.Path, imp.Alias)
	}
	for _, id := range file.Decls() {
		summarizeDecl(&sb, b, id, "")
	}
	return sb.String()
}

func summarizeDecl(sb *strings.Builder, b *ast.Builder, id ast.DeclID, indent string) {
	d := b.Decl(id)
	fmt.Fprintf(sb, "%s%s %s", indent, d.Kind, d.Name)
	if d.Extends.IsValid() {
		fmt.Fprintf(sb, " extends %s", typeSummary(b, d.Extends))
	}
	if d.Kind == ast.DeclConst {
		fmt.Fprintf(sb, " :%s = %s", typeSummary(b, d.ConstType), d.ConstValue.Text)
	}
	sb.WriteString("\n")

	for _, m := range d.Members {
		switch m.Kind {
		case ast.MemberField:
			f := b.Field(m.Field)
			fmt.Fprintf(sb, "%s  field %s @%d %s", indent, f.Name, f.Ordinal, typeSummary(b, f.Type))
			if f.Default.IsSet() {
				fmt.Fprintf(sb, " = %s", f.Default.Text)
			}
			sb.WriteString("\n")
		case ast.MemberUnion, ast.MemberNested:
			summarizeDecl(sb, b, m.Decl, indent+"  ")
		}
	}
	for _, v := range d.Variants {
		fmt.Fprintf(sb, "%s  variant %s\n", indent, v.Name)
	}
	for _, nid := range d.Nested {
		summarizeDecl(sb, b, nid, indent+"  ")
	}
	for _, mid := range d.Methods {
		m := b.Method(mid)
		fmt.Fprintf(sb, "%s  method %s @%d (", indent, m.Name, m.Ordinal)
		for i, p := range m.Params {
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(sb, "%s %s", p.Name, typeSummary(b, p.Type))
		}
		sb.WriteString(") -> (")
		for i, p := range m.Results {
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(sb, "%s %s", p.Name, typeSummary(b, p.Type))
		}
		sb.WriteString(")\n")
	}
}

func typeSummary(b *ast.Builder, id ast.TypeID) string {
	t := b.Type(id)
	switch t.Kind {
	case ast.TypePrimitive:
		return t.Prim.String()
	case ast.TypeList:
		return "List(" + typeSummary(b, t.Elem) + ")"
	case ast.TypeMap:
		return "Map(" + typeSummary(b, t.Key) + ", " + typeSummary(b, t.Val) + ")"
	case ast.TypeOptional:
		return typeSummary(b, t.Elem) + "?"
	case ast.TypeNamed:
		return t.PathString()
	default:
		return "Void"
	}
}

func parseClean(t *testing.T, input string) (*ast.Builder, ast.FileID) {
	t.Helper()
	fs := source.NewFileSet()
	builder := ast.NewBuilder(0)
	bag := diag.NewBag(16)

	srcID := fs.AddVirtual("test.zap", []byte(input))
	fileID, ok := parser.ParseFile(fs.Get(srcID), dialect.Clean, builder, diag.BagReporter{Bag: bag})
	if !ok {
		t.Fatalf("parse failed: %v", bag.Items())
	}
	return builder, fileID
}

func TestReparseEquality(t *testing.T) {
	inputs := []string{
		"struct Person\n  name Text\n  age @3 UInt32 = 30\n  tags List(Text)\n  home Map(Text, Float64)?\n",
		"struct Shape\n  label @0 Text\n  union kind\n    circle Float64\n    square Float64\n",
		"struct Outer\n  struct Inner\n    x Int32\n  one Inner\n",
		"enum Color\n  red\n  green\n  blue\n",
		"interface Store extends Base\n  get @0 (key Text) -> (value Data)\n  put (key Text, value Data) -> ()\n",
		"using Geo = import \"geo.zap\"\n\nconst limit :UInt32 = 10\n",
	}
	for _, input := range inputs {
		builder, fileID := parseClean(t, input)
		before := declSummary(builder, builder.File(fileID))

		out, err := format.FormatFile(builder, fileID, format.Options{})
		if err != nil {
			t.Fatalf("format: %v", err)
		}
		builder2, fileID2 := parseClean(t, string(out))
		after := declSummary(builder2, builder2.File(fileID2))

		if before != after {
			t.Errorf("reparse changed the file:\ninput:\n%s\nbefore:\n%s\nafter:\n%s", input, before, after)
		}
	}
}

func TestLegacyToClean(t *testing.T) {
	input := "struct Person @0xbf5147cbbecf40c1 {\n" +
		"  name @0 :Text;\n" +
		"  age @1 :UInt32 = 30;\n" +
		"}\n"
	got := formatSource(t, input, dialect.Legacy)
	want := "struct Person\n  name @0 Text\n  age @1 UInt32 = 30\n"
	if got != want {
		t.Errorf("got:\n%q\nwant:\n%q", got, want)
	}
}

func TestOrdinalsPreservedOnReformat(t *testing.T) {
	// Output with pinned ordinals must survive a clean-dialect reparse
	// and reformat unchanged.
	legacy := "struct S {\n  a @0 :Int32;\n  b @1 :Text;\n}\n"
	migrated := formatSource(t, legacy, dialect.Legacy)
	again := formatSource(t, migrated, dialect.Clean)
	if migrated != again {
		t.Errorf("ordinals lost:\n%s\nvs\n%s", migrated, again)
	}
}

func TestUnionRendering(t *testing.T) {
	input := "struct Shape {\n" +
		"  kind :union {\n" +
		"    circle @0 :Float64;\n" +
		"    square @1 :Float64;\n" +
		"  }\n" +
		"}\n"
	got := formatSource(t, input, dialect.Legacy)
	want := "struct Shape\n  union kind\n    circle @0 Float64\n    square @1 Float64\n"
	if got != want {
		t.Errorf("got:\n%q\nwant:\n%q", got, want)
	}
}

func TestCommentsAttachToDecl(t *testing.T) {
	input := "# Person record.\nstruct Person\n  name Text\n\n# Colors.\nenum Color\n  red\n"
	got := formatSource(t, input, dialect.Clean)
	want := "# Person record.\nstruct Person\n  name Text\n\n# Colors.\nenum Color\n  red\n"
	if got != want {
		t.Errorf("got:\n%q\nwant:\n%q", got, want)
	}
}

func TestBlankLineBetweenDecls(t *testing.T) {
	got := formatSource(t, "struct A\n  x Int32\nstruct B\n  y Int32\n", dialect.Clean)
	want := "struct A\n  x Int32\n\nstruct B\n  y Int32\n"
	if got != want {
		t.Errorf("got:\n%q\nwant:\n%q", got, want)
	}
}

func TestImportsAndConst(t *testing.T) {
	input := "using Geo = import \"geo.zap\"\nusing import \"common.zap\"\n\nconst max :UInt32 = 9\n"
	got := formatSource(t, input, dialect.Clean)
	want := "using Geo = import \"geo.zap\"\nusing import \"common.zap\"\n\nconst max :UInt32 = 9\n"
	if got != want {
		t.Errorf("got:\n%q\nwant:\n%q", got, want)
	}
}

func TestNestedIndent(t *testing.T) {
	input := "struct Outer\n  struct Inner\n    x Int32\n  one Inner\n"
	got := formatSource(t, input, dialect.Clean)
	if got != input {
		t.Errorf("got:\n%q\nwant:\n%q", got, input)
	}
}
