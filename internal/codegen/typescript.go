package codegen

import (
	"bytes"
	"fmt"

	"zapc/internal/ir"
	"zapc/internal/layout"
)

// GenerateTypeScript renders the schema as one TypeScript module.
func GenerateTypeScript(s *ir.Schema) ([]byte, error) {
	g := &tsGen{}
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

type tsGen struct {
	buf bytes.Buffer
}

func (g *tsGen) pf(format string, args ...any) {
	fmt.Fprintf(&g.buf, format, args...)
}

func (g *tsGen) decl(d *ir.Decl) error {
	switch d.Kind {
	case ir.KindStruct:
		return g.structDecl(d)
	case ir.KindEnum:
		g.enumDecl(d)
	case ir.KindInterface:
		return g.interfaceDecl(d)
	case ir.KindConst:
		return g.constDecl(d)
	}
	return nil
}

func (g *tsGen) structDecl(d *ir.Decl) error {
	name := typeName(d.Name)

	for ui, u := range d.Unions {
		g.pf("\nexport type %s =\n", unionTypeName(name, u.Name, ui))
		variants := make([]string, 0, 4)
		for i := range d.Members {
			m := &d.Members[i]
			if m.Union != ui {
				continue
			}
			typ, err := g.typeOf(d, &m.Type)
			if err != nil {
				return err
			}
			variants = append(variants,
				fmt.Sprintf("  | { kind: %q; value: %s }", camel(m.Name), typ))
		}
		for i, v := range variants {
			sep := "\n"
			if i == len(variants)-1 {
				sep = ";\n"
			}
			g.pf("%s%s", v, sep)
		}
	}

	g.pf("\n/** %d data bytes, %d pointers (0x%016x). */\n", d.DataBytes, d.PtrCount, d.ID)
	g.pf("export interface %s {\n", name)
	for i := range d.Members {
		m := &d.Members[i]
		if m.Union != layout.NoUnion {
			continue
		}
		typ, err := g.typeOf(d, &m.Type)
		if err != nil {
			return err
		}
		g.pf("  %s: %s; // @%d, %s\n", camel(m.Name), typ, m.Ordinal, slotComment(m.Slot))
	}
	for ui, u := range d.Unions {
		g.pf("  %s: %s; // %s\n", camel(unionFieldName(name, u.Name, ui)), unionTypeName(name, u.Name, ui), slotComment(u.TagSlot))
	}
	g.pf("}\n")
	return nil
}

func (g *tsGen) enumDecl(d *ir.Decl) {
	name := typeName(d.Name)
	g.pf("\nexport enum %s {\n", name)
	for i, v := range d.Variants {
		g.pf("  %s = %d,\n", exported(v), i)
	}
	g.pf("}\n")
}

func (g *tsGen) interfaceDecl(d *ir.Decl) error {
	name := typeName(d.Name)
	if d.Extends != "" {
		g.pf("\nexport interface %s extends %s {\n", name, typeName(d.Extends))
	} else {
		g.pf("\nexport interface %s {\n", name)
	}
	for i := range d.Methods {
		m := &d.Methods[i]
		var args bytes.Buffer
		for j, p := range m.Params {
			if j > 0 {
				args.WriteString(", ")
			}
			typ, err := g.typeOf(d, &p.Type)
			if err != nil {
				return err
			}
			fmt.Fprintf(&args, "%s: %s", camel(p.Name), typ)
		}
		ret, err := g.resultType(d, m.Results)
		if err != nil {
			return err
		}
		g.pf("  %s(%s): Promise<%s>; // @%d\n", camel(m.Name), args.String(), ret, m.Ordinal)
	}
	g.pf("}\n")
	return nil
}

func (g *tsGen) resultType(d *ir.Decl, results []ir.Param) (string, error) {
	switch len(results) {
	case 0:
		return "void", nil
	case 1:
		return g.typeOf(d, &results[0].Type)
	default:
		var b bytes.Buffer
		b.WriteString("[")
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
		b.WriteString("]")
		return b.String(), nil
	}
}

func (g *tsGen) constDecl(d *ir.Decl) error {
	typ, err := g.typeOf(d, &d.ConstType)
	if err != nil {
		return err
	}
	g.pf("\nexport const %s: %s = %s;\n", camel(d.Name), typ, d.ConstValue)
	return nil
}

var tsPrims = map[ir.TypeTag]string{
	ir.TagVoid:    "void",
	ir.TagBool:    "boolean",
	ir.TagInt8:    "number",
	ir.TagInt16:   "number",
	ir.TagInt32:   "number",
	ir.TagInt64:   "bigint",
	ir.TagUInt8:   "number",
	ir.TagUInt16:  "number",
	ir.TagUInt32:  "number",
	ir.TagUInt64:  "bigint",
	ir.TagFloat32: "number",
	ir.TagFloat64: "number",
	ir.TagText:    "string",
	ir.TagData:    "Uint8Array",
}

func (g *tsGen) typeOf(d *ir.Decl, t *ir.TypeRef) (string, error) {
	if prim, ok := tsPrims[t.Tag]; ok {
		return prim, nil
	}
	switch t.Tag {
	case ir.TagList:
		elem, err := g.typeOf(d, t.Elem)
		if err != nil {
			return "", err
		}
		return elem + "[]", nil
	case ir.TagOptional:
		elem, err := g.typeOf(d, t.Elem)
		if err != nil {
			return "", err
		}
		return elem + " | null", nil
	case ir.TagMap:
		key, err := g.typeOf(d, t.Key)
		if err != nil {
			return "", err
		}
		val, err := g.typeOf(d, t.Val)
		if err != nil {
			return "", err
		}
		return "Map<" + key + ", " + val + ">", nil
	case ir.TagStruct, ir.TagEnum, ir.TagInterface:
		return typeName(t.Name), nil
	default:
		return "", &UnsupportedTypeError{Target: "typescript", Decl: d.Name, Tag: t.Tag}
	}
}
