package codegen

import (
	"bytes"
	"fmt"

	"zapc/internal/ir"
	"zapc/internal/layout"
)

// GenerateRust renders the schema as one Rust module.
func GenerateRust(s *ir.Schema) ([]byte, error) {
	g := &rustGen{}
	g.pf("// Code generated by zapc. DO NOT EDIT.\n")
	for _, f := range s.Files {
		g.pf("// source: %s (0x%016x)\n", f.Path, f.ID)
	}

	for i := range s.Decls {
		if err := g.decl(&s.Decls[i]); err != nil {
			return nil, err
		}
	}
	return g.buf.Bytes(), nil
}

type rustGen struct {
	buf bytes.Buffer
}

func (g *rustGen) pf(format string, args ...any) {
	fmt.Fprintf(&g.buf, format, args...)
}

func (g *rustGen) decl(d *ir.Decl) error {
	switch d.Kind {
	case ir.KindStruct:
		return g.structDecl(d)
	case ir.KindEnum:
		g.enumDecl(d)
	case ir.KindInterface:
		return g.traitDecl(d)
	case ir.KindConst:
		return g.constDecl(d)
	}
	return nil
}

func (g *rustGen) structDecl(d *ir.Decl) error {
	name := typeName(d.Name)

	// Each union group becomes its own Rust enum; plain fields stay on
	// the struct.
	for ui, u := range d.Unions {
		g.pf("\n#[derive(Debug, Clone, PartialEq)]\npub enum %s {\n", unionTypeName(name, u.Name, ui))
		for i := range d.Members {
			m := &d.Members[i]
			if m.Union != ui {
				continue
			}
			typ, err := g.typeOf(d, &m.Type)
			if err != nil {
				return err
			}
			g.pf("    %s(%s), // @%d\n", exported(m.Name), typ, m.Ordinal)
		}
		g.pf("}\n")
	}

	g.pf("\n/// %d data bytes, %d pointers (0x%016x).\n", d.DataBytes, d.PtrCount, d.ID)
	g.pf("#[derive(Debug, Clone, PartialEq)]\npub struct %s {\n", name)
	for i := range d.Members {
		m := &d.Members[i]
		if m.Union != layout.NoUnion {
			continue
		}
		typ, err := g.typeOf(d, &m.Type)
		if err != nil {
			return err
		}
		g.pf("    pub %s: %s, // @%d, %s\n", snake(m.Name), typ, m.Ordinal, slotComment(m.Slot))
	}
	for ui, u := range d.Unions {
		g.pf("    pub %s: %s, // %s\n", snake(unionFieldName(name, u.Name, ui)), unionTypeName(name, u.Name, ui), slotComment(u.TagSlot))
	}
	g.pf("}\n")
	return nil
}

func (g *rustGen) enumDecl(d *ir.Decl) {
	name := typeName(d.Name)
	g.pf("\n#[derive(Debug, Clone, Copy, PartialEq, Eq)]\n#[repr(u16)]\npub enum %s {\n", name)
	for i, v := range d.Variants {
		g.pf("    %s = %d,\n", exported(v), i)
	}
	g.pf("}\n")
}

func (g *rustGen) traitDecl(d *ir.Decl) error {
	name := typeName(d.Name)
	if d.Extends != "" {
		g.pf("\npub trait %s: %s {\n", name, typeName(d.Extends))
	} else {
		g.pf("\npub trait %s {\n", name)
	}
	for i := range d.Methods {
		m := &d.Methods[i]
		var args bytes.Buffer
		for _, p := range m.Params {
			typ, err := g.typeOf(d, &p.Type)
			if err != nil {
				return err
			}
			fmt.Fprintf(&args, ", %s: %s", snake(p.Name), typ)
		}
		ret, err := g.resultType(d, m.Results)
		if err != nil {
			return err
		}
		g.pf("    fn %s(&self%s) -> %s; // @%d\n", snake(m.Name), args.String(), ret, m.Ordinal)
	}
	g.pf("}\n")
	return nil
}

func (g *rustGen) resultType(d *ir.Decl, results []ir.Param) (string, error) {
	switch len(results) {
	case 0:
		return "()", nil
	case 1:
		return g.typeOf(d, &results[0].Type)
	default:
		var b bytes.Buffer
		b.WriteString("(")
		for i := range results {
			if i > 0 {
				b.WriteString(", ")
			}
			typ, err := g.typeOf(d, &results[i].Type)
			if err != nil {
				return "", err
			}
			b.WriteString(typ)
		}
		b.WriteString(")")
		return b.String(), nil
	}
}

func (g *rustGen) constDecl(d *ir.Decl) error {
	typ, err := g.typeOf(d, &d.ConstType)
	if err != nil {
		return err
	}
	g.pf("\npub const %s: %s = %s;\n", constName(d.Name), typ, d.ConstValue)
	return nil
}

func constName(name string) string {
	out := []byte(snake(name))
	for i, b := range out {
		if b >= 'a' && b <= 'z' {
			out[i] = b - ('a' - 'A')
		}
	}
	return string(out)
}

var rustPrims = map[ir.TypeTag]string{
	ir.TagVoid:    "()",
	ir.TagBool:    "bool",
	ir.TagInt8:    "i8",
	ir.TagInt16:   "i16",
	ir.TagInt32:   "i32",
	ir.TagInt64:   "i64",
	ir.TagUInt8:   "u8",
	ir.TagUInt16:  "u16",
	ir.TagUInt32:  "u32",
	ir.TagUInt64:  "u64",
	ir.TagFloat32: "f32",
	ir.TagFloat64: "f64",
	ir.TagText:    "String",
	ir.TagData:    "Vec<u8>",
}

func (g *rustGen) typeOf(d *ir.Decl, t *ir.TypeRef) (string, error) {
	if prim, ok := rustPrims[t.Tag]; ok {
		return prim, nil
	}
	switch t.Tag {
	case ir.TagList:
		elem, err := g.typeOf(d, t.Elem)
		if err != nil {
			return "", err
		}
		return "Vec<" + elem + ">", nil
	case ir.TagOptional:
		elem, err := g.typeOf(d, t.Elem)
		if err != nil {
			return "", err
		}
		return "Option<" + elem + ">", nil
	case ir.TagMap:
		key, err := g.typeOf(d, t.Key)
		if err != nil {
			return "", err
		}
		val, err := g.typeOf(d, t.Val)
		if err != nil {
			return "", err
		}
		return "std::collections::HashMap<" + key + ", " + val + ">", nil
	case ir.TagStruct:
		return "Box<" + typeName(t.Name) + ">", nil
	case ir.TagEnum:
		return typeName(t.Name), nil
	case ir.TagInterface:
		return "Box<dyn " + typeName(t.Name) + ">", nil
	default:
		return "", &UnsupportedTypeError{Target: "rust", Decl: d.Name, Tag: t.Tag}
	}
}
