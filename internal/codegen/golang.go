package codegen

import (
	"bytes"
	"fmt"

	"zapc/internal/ir"
	"zapc/internal/layout"
)

// GenerateGo renders the schema as a single Go source file: one struct,
// enum type, or interface per declaration, annotated with wire slots.
func GenerateGo(s *ir.Schema) ([]byte, error) {
	g := &goGen{}
	g.pf("// Code generated by zapc. DO NOT EDIT.\n")
	for _, f := range s.Files {
		g.pf("// source: %s (0x%016x)\n", f.Path, f.ID)
	}
	g.pf("\npackage schema\n")

	for i := range s.Decls {
		if err := g.decl(&s.Decls[i]); err != nil {
			return nil, err
		}
	}
	return g.buf.Bytes(), nil
}

type goGen struct {
	buf bytes.Buffer
}

func (g *goGen) pf(format string, args ...any) {
	fmt.Fprintf(&g.buf, format, args...)
}

func (g *goGen) decl(d *ir.Decl) error {
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

func (g *goGen) structDecl(d *ir.Decl) error {
	name := typeName(d.Name)
	g.pf("\n// %s: %d data bytes, %d pointers (0x%016x).\n", name, d.DataBytes, d.PtrCount, d.ID)

	if len(d.Unions) > 0 {
		g.unionTags(d, name)
	}

	g.pf("type %s struct {\n", name)
	for i := range d.Members {
		m := &d.Members[i]
		typ, err := g.typeOf(d, &m.Type)
		if err != nil {
			return err
		}
		g.pf("\t%s %s // @%d, %s\n", exported(m.Name), typ, m.Ordinal, slotComment(m.Slot))
	}
	for ui, u := range d.Unions {
		g.pf("\t%s %sTag // union tag, %s\n", unionFieldName(name, u.Name, ui), unionTypeName(name, u.Name, ui), slotComment(u.TagSlot))
	}
	g.pf("}\n")
	return nil
}

// unionTags emits the discriminant type and one constant per variant.
func (g *goGen) unionTags(d *ir.Decl, name string) {
	for ui, u := range d.Unions {
		tagType := unionTypeName(name, u.Name, ui) + "Tag"
		g.pf("\ntype %s uint16\n\nconst (\n", tagType)
		for i := range d.Members {
			m := &d.Members[i]
			if m.Union != ui {
				continue
			}
			g.pf("\t%s%s %s = %d\n", tagType, exported(m.Name), tagType, m.Variant)
		}
		g.pf(")\n")
	}
}

func unionTypeName(owner, union string, idx int) string {
	if union == "" {
		if idx == 0 {
			return owner + "Union"
		}
		return fmt.Sprintf("%sUnion%d", owner, idx)
	}
	return owner + exported(union)
}

func unionFieldName(owner, union string, idx int) string {
	if union == "" {
		if idx == 0 {
			return "Which"
		}
		return fmt.Sprintf("Which%d", idx)
	}
	return "Which" + exported(union)
}

func (g *goGen) enumDecl(d *ir.Decl) {
	name := typeName(d.Name)
	g.pf("\n// %s (0x%016x).\ntype %s uint16\n\nconst (\n", name, d.ID, name)
	for i, v := range d.Variants {
		g.pf("\t%s%s %s = %d\n", name, exported(v), name, i)
	}
	g.pf(")\n")
}

func (g *goGen) interfaceDecl(d *ir.Decl) error {
	name := typeName(d.Name)
	g.pf("\n// %s (0x%016x).\ntype %s interface {\n", name, d.ID, name)
	if d.Extends != "" {
		g.pf("\t%s\n", typeName(d.Extends))
	}
	for i := range d.Methods {
		m := &d.Methods[i]
		params, err := g.paramList(d, m.Params)
		if err != nil {
			return err
		}
		results, err := g.paramList(d, m.Results)
		if err != nil {
			return err
		}
		g.pf("\t%s(%s) (%s) // @%d\n", exported(m.Name), params, results, m.Ordinal)
	}
	g.pf("}\n")
	return nil
}

func (g *goGen) paramList(d *ir.Decl, params []ir.Param) (string, error) {
	var b bytes.Buffer
	for i := range params {
		if i > 0 {
			b.WriteString(", ")
		}
		typ, err := g.typeOf(d, &params[i].Type)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "%s %s", camel(params[i].Name), typ)
	}
	return b.String(), nil
}

func (g *goGen) constDecl(d *ir.Decl) error {
	typ, err := g.typeOf(d, &d.ConstType)
	if err != nil {
		return err
	}
	g.pf("\nconst %s %s = %s\n", exported(d.Name), typ, d.ConstValue)
	return nil
}

var goPrims = map[ir.TypeTag]string{
	ir.TagBool:    "bool",
	ir.TagInt8:    "int8",
	ir.TagInt16:   "int16",
	ir.TagInt32:   "int32",
	ir.TagInt64:   "int64",
	ir.TagUInt8:   "uint8",
	ir.TagUInt16:  "uint16",
	ir.TagUInt32:  "uint32",
	ir.TagUInt64:  "uint64",
	ir.TagFloat32: "float32",
	ir.TagFloat64: "float64",
	ir.TagText:    "string",
	ir.TagData:    "[]byte",
}

func (g *goGen) typeOf(d *ir.Decl, t *ir.TypeRef) (string, error) {
	if prim, ok := goPrims[t.Tag]; ok {
		return prim, nil
	}
	switch t.Tag {
	case ir.TagVoid:
		return "struct{}", nil
	case ir.TagList:
		elem, err := g.typeOf(d, t.Elem)
		if err != nil {
			return "", err
		}
		return "[]" + elem, nil
	case ir.TagOptional:
		elem, err := g.typeOf(d, t.Elem)
		if err != nil {
			return "", err
		}
		return "*" + elem, nil
	case ir.TagMap:
		key, err := g.typeOf(d, t.Key)
		if err != nil {
			return "", err
		}
		val, err := g.typeOf(d, t.Val)
		if err != nil {
			return "", err
		}
		return "map[" + key + "]" + val, nil
	case ir.TagStruct:
		return "*" + typeName(t.Name), nil
	case ir.TagEnum, ir.TagInterface:
		return typeName(t.Name), nil
	default:
		return "", &UnsupportedTypeError{Target: "go", Decl: d.Name, Tag: t.Tag}
	}
}

func slotComment(s layout.Slot) string {
	switch s.Region {
	case layout.RegionData:
		return fmt.Sprintf("data bits %d..%d", s.Offset, s.Offset+uint32(s.Width)-1)
	case layout.RegionPointer:
		return fmt.Sprintf("pointer %d", s.Offset)
	default:
		return "no slot"
	}
}
