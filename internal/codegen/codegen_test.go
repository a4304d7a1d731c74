package codegen_test

import (
	"errors"
	"strings"
	"testing"

	"zapc/internal/ast"
	"zapc/internal/codegen"
	"zapc/internal/diag"
	"zapc/internal/dialect"
	"zapc/internal/ir"
	"zapc/internal/layout"
	"zapc/internal/parser"
	"zapc/internal/resolver"
	"zapc/internal/source"
)

func compileSchema(t *testing.T, input string) *ir.Schema {
	t.Helper()
	fs := source.NewFileSet()
	builder := ast.NewBuilder(0)
	bag := diag.NewBag(32)
	reporter := diag.BagReporter{Bag: bag}

	srcID := fs.AddVirtual("test.zap", []byte(input))
	fileID, ok := parser.ParseFile(fs.Get(srcID), dialect.Clean, builder, reporter)
	if !ok {
		t.Fatalf("parse failed: %v", bag.Items())
	}
	res, ok := resolver.Resolve(builder, []resolver.Unit{{File: fileID, Path: "test.zap"}}, reporter)
	if !ok {
		t.Fatalf("resolve failed: %v", bag.Items())
	}
	lay, ok := layout.Assign(builder, res.Order, reporter)
	if !ok {
		t.Fatalf("layout failed: %v", bag.Items())
	}
	return ir.Build(builder, lay, []ir.Input{{File: fileID, Path: "test.zap"}})
}

const sample = "struct Person\n" +
	"  name Text\n" +
	"  age UInt32\n" +
	"  tags List(Text)\n" +
	"  nickname Text?\n" +
	"\n" +
	"enum Color\n" +
	"  red\n" +
	"  green\n" +
	"\n" +
	"interface Registry\n" +
	"  lookup (name Text) -> (found Person)\n"

func generate(t *testing.T, target, input string) string {
	t.Helper()
	backend, err := codegen.For(target)
	if err != nil {
		t.Fatalf("backend %s: %v", target, err)
	}
	out, err := backend(compileSchema(t, input))
	if err != nil {
		t.Fatalf("generate %s: %v", target, err)
	}
	return string(out)
}

func wantContains(t *testing.T, out string, parts ...string) {
	t.Helper()
	for _, p := range parts {
		if !strings.Contains(out, p) {
			t.Errorf("output missing %q:\n%s", p, out)
		}
	}
}

func TestGoOutput(t *testing.T) {
	out := generate(t, "go", sample)
	wantContains(t, out,
		"package schema",
		"type Person struct {",
		"Name string",
		"Age uint32",
		"Tags []string",
		"Nickname *string",
		"type Color uint16",
		"ColorRed Color = 0",
		"type Registry interface {",
		"Lookup(name string) (found *Person)",
	)
}

func TestRustOutput(t *testing.T) {
	out := generate(t, "rust", sample)
	wantContains(t, out,
		"pub struct Person {",
		"pub name: String",
		"pub age: u32",
		"pub tags: Vec<String>",
		"pub nickname: Option<String>",
		"pub enum Color {",
		"pub trait Registry {",
		"fn lookup(&self, name: String) -> Box<Person>;",
	)
}

func TestTypeScriptOutput(t *testing.T) {
	out := generate(t, "typescript", sample)
	wantContains(t, out,
		"export interface Person {",
		"name: string",
		"age: number",
		"tags: string[]",
		"nickname: string | null",
		"export enum Color {",
		"lookup(name: string): Promise<Person>;",
	)
}

func TestNestedNaming(t *testing.T) {
	out := generate(t, "go", "struct Outer\n  struct Inner\n    x Int32\n  one Inner\n")
	wantContains(t, out,
		"type Outer struct {",
		"type OuterInner struct {",
		"One *OuterInner",
	)
}

func TestUnionOutput(t *testing.T) {
	input := "struct Shape\n  union kind\n    circle Float64\n    square Float64\n"
	out := generate(t, "go", input)
	wantContains(t, out,
		"type ShapeKindTag uint16",
		"ShapeKindTagCircle ShapeKindTag = 0",
		"ShapeKindTagSquare ShapeKindTag = 1",
		"WhichKind ShapeKindTag",
	)

	rust := generate(t, "rust", input)
	wantContains(t, rust,
		"pub enum ShapeKind {",
		"Circle(f64), // @0",
	)
}

func TestConstOutput(t *testing.T) {
	out := generate(t, "go", "const maxRetries :UInt32 = 5\n")
	wantContains(t, out, "const MaxRetries uint32 = 5")

	rust := generate(t, "rust", "const maxRetries :UInt32 = 5\n")
	wantContains(t, rust, "pub const MAX_RETRIES: u32 = 5;")
}

func TestSlotComments(t *testing.T) {
	out := generate(t, "go", "struct S\n  flag Bool\n  name Text\n")
	wantContains(t, out,
		"// @0, data bits 0..0",
		"// @1, pointer 0",
	)
}

func TestUnknownTarget(t *testing.T) {
	_, err := codegen.For("cobol")
	var unknown *codegen.UnknownTargetError
	if !errors.As(err, &unknown) {
		t.Fatalf("err = %v, want UnknownTargetError", err)
	}
}

func TestGeneratedHeader(t *testing.T) {
	out := generate(t, "go", "struct S\n  x Int32\n")
	if !strings.HasPrefix(out, "// Code generated by zapc. DO NOT EDIT.") {
		t.Errorf("missing generated header:\n%s", out[:80])
	}
	wantContains(t, out, "// source: test.zap (0x")
}
