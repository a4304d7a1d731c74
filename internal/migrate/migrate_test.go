package migrate_test

import (
	"testing"

	"zapc/internal/ast"
	"zapc/internal/diag"
	"zapc/internal/dialect"
	"zapc/internal/layout"
	"zapc/internal/migrate"
	"zapc/internal/parser"
	"zapc/internal/resolver"
	"zapc/internal/source"
)

func migrateText(t *testing.T, input string) string {
	t.Helper()
	fs := source.NewFileSet()
	bag := diag.NewBag(16)
	srcID := fs.AddVirtual("test.capnp", []byte(input))

	out, ok := migrate.File(fs.Get(srcID), ast.NewBuilder(0), diag.BagReporter{Bag: bag})
	if !ok {
		t.Fatalf("migrate failed: %v", bag.Items())
	}
	return string(out)
}

func layoutOf(t *testing.T, input string, kind dialect.Kind) map[string]layout.Slot {
	t.Helper()
	fs := source.NewFileSet()
	builder := ast.NewBuilder(0)
	bag := diag.NewBag(16)
	reporter := diag.BagReporter{Bag: bag}

	name := "test.zap"
	if kind == dialect.Legacy {
		name = "test.capnp"
	}
	srcID := fs.AddVirtual(name, []byte(input))
	fileID, ok := parser.ParseFile(fs.Get(srcID), kind, builder, reporter)
	if !ok {
		t.Fatalf("parse failed: %v", bag.Items())
	}
	res, ok := resolver.Resolve(builder, []resolver.Unit{{File: fileID, Path: name}}, reporter)
	if !ok {
		t.Fatalf("resolve failed: %v", bag.Items())
	}
	schema, ok := layout.Assign(builder, res.Order, reporter)
	if !ok {
		t.Fatalf("layout failed: %v", bag.Items())
	}

	slots := make(map[string]layout.Slot)
	for _, sl := range schema.Structs {
		for _, f := range sl.Fields {
			slots[sl.Name+"."+f.Name] = f.Slot
		}
	}
	return slots
}

func TestMigrateBasics(t *testing.T) {
	input := "@0x9eb32e19f86ee174;\n\n" +
		"struct Person @0xbf5147cbbecf40c1 {\n" +
		"  name @0 :Text;\n" +
		"  age @1 :UInt32 = 30;\n" +
		"}\n"
	got := migrateText(t, input)
	want := "struct Person\n  name @0 Text\n  age @1 UInt32 = 30\n"
	if got != want {
		t.Errorf("got:\n%q\nwant:\n%q", got, want)
	}
}

func TestMigratePreservesLayout(t *testing.T) {
	legacy := "struct S {\n" +
		"  flag @2 :Bool;\n" +
		"  name @0 :Text;\n" +
		"  num @1 :UInt64;\n" +
		"}\n"
	migrated := migrateText(t, legacy)

	before := layoutOf(t, legacy, dialect.Legacy)
	after := layoutOf(t, migrated, dialect.Clean)

	for key, slot := range before {
		if after[key] != slot {
			t.Errorf("%s moved: %+v -> %+v", key, slot, after[key])
		}
	}
}

func TestMigrateUnion(t *testing.T) {
	input := "struct Shape {\n" +
		"  label @0 :Text;\n" +
		"  union {\n" +
		"    circle @1 :Float64;\n" +
		"    square @2 :Float64;\n" +
		"  }\n" +
		"}\n"
	got := migrateText(t, input)
	want := "struct Shape\n  label @0 Text\n  union\n    circle @1 Float64\n    square @2 Float64\n"
	if got != want {
		t.Errorf("got:\n%q\nwant:\n%q", got, want)
	}
}

func TestMigrateInterface(t *testing.T) {
	input := "interface Greeter {\n" +
		"  sayHello @0 (name :Text) -> (greeting :Text);\n" +
		"}\n"
	got := migrateText(t, input)
	want := "interface Greeter\n  sayHello @0 (name Text) -> (greeting Text)\n"
	if got != want {
		t.Errorf("got:\n%q\nwant:\n%q", got, want)
	}
}

func TestMigrateRejectsBrokenInput(t *testing.T) {
	fs := source.NewFileSet()
	bag := diag.NewBag(16)
	srcID := fs.AddVirtual("bad.capnp", []byte("struct {\n"))

	_, ok := migrate.File(fs.Get(srcID), ast.NewBuilder(0), diag.BagReporter{Bag: bag})
	if ok || !bag.HasErrors() {
		t.Error("expected migration failure with diagnostics")
	}
}
