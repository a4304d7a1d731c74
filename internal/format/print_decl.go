package format

import (
	"fmt"
	"strings"

	"zapc/internal/ast"
)

func (p *printer) printDecl(id ast.DeclID) {
	d := p.builder.Decl(id)
	switch d.Kind {
	case ast.DeclStruct:
		p.printStruct(d)
	case ast.DeclEnum:
		p.printEnum(d)
	case ast.DeclInterface:
		p.printInterface(d)
	case ast.DeclConst:
		p.printConst(d)
	case ast.DeclUnion:
		p.printUnion(d)
	}
}

func (p *printer) printStruct(d *ast.Decl) {
	p.line("struct " + d.Name)
	p.level++
	p.printMembers(d.Members)
	p.level--
}

func (p *printer) printMembers(members []ast.Member) {
	for _, m := range members {
		switch m.Kind {
		case ast.MemberField:
			p.printField(m.Field)
		case ast.MemberUnion:
			p.printUnion(p.builder.Decl(m.Decl))
		case ast.MemberNested:
			p.printDecl(m.Decl)
		}
	}
}

func (p *printer) printUnion(d *ast.Decl) {
	head := "union"
	if d.Name != "" {
		head += " " + d.Name
	}
	p.line(head)
	p.level++
	p.printMembers(d.Members)
	p.level--
}

func (p *printer) printField(id ast.FieldID) {
	f := p.builder.Field(id)
	var b strings.Builder
	b.WriteString(f.Name)
	if f.HasOrdinal() {
		fmt.Fprintf(&b, " @%d", f.Ordinal)
	}
	b.WriteString(" ")
	b.WriteString(p.typeText(f.Type))
	if f.Default.IsSet() {
		b.WriteString(" = ")
		b.WriteString(f.Default.Text)
	}
	p.line(b.String())
}

func (p *printer) printEnum(d *ast.Decl) {
	p.line("enum " + d.Name)
	p.level++
	for _, v := range d.Variants {
		p.line(v.Name)
	}
	p.level--
}

func (p *printer) printInterface(d *ast.Decl) {
	head := "interface " + d.Name
	if d.Extends.IsValid() {
		head += " extends " + p.typeText(d.Extends)
	}
	p.line(head)
	p.level++
	for _, nestedID := range d.Nested {
		p.printDecl(nestedID)
	}
	for _, mID := range d.Methods {
		p.printMethod(mID)
	}
	p.level--
}

func (p *printer) printMethod(id ast.MethodID) {
	m := p.builder.Method(id)
	var b strings.Builder
	b.WriteString(m.Name)
	if m.HasOrdinal() {
		fmt.Fprintf(&b, " @%d", m.Ordinal)
	}
	b.WriteString(" (")
	p.writeParams(&b, m.Params)
	b.WriteString(") -> (")
	p.writeParams(&b, m.Results)
	b.WriteString(")")
	p.line(b.String())
}

func (p *printer) writeParams(b *strings.Builder, params []ast.Param) {
	for i, param := range params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(param.Name)
		b.WriteString(" ")
		b.WriteString(p.typeText(param.Type))
	}
}

func (p *printer) printConst(d *ast.Decl) {
	var b strings.Builder
	b.WriteString("const ")
	b.WriteString(d.Name)
	b.WriteString(" :")
	b.WriteString(p.typeText(d.ConstType))
	b.WriteString(" = ")
	b.WriteString(d.ConstValue.Text)
	p.line(b.String())
}

func (p *printer) typeText(id ast.TypeID) string {
	t := p.builder.Type(id)
	switch t.Kind {
	case ast.TypePrimitive:
		return t.Prim.String()
	case ast.TypeList:
		return "List(" + p.typeText(t.Elem) + ")"
	case ast.TypeMap:
		return "Map(" + p.typeText(t.Key) + ", " + p.typeText(t.Val) + ")"
	case ast.TypeOptional:
		return p.typeText(t.Elem) + "?"
	case ast.TypeNamed:
		return t.PathString()
	default:
		return "Void"
	}
}
