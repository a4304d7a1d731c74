package parser

import (
	"zapc/internal/ast"
	"zapc/internal/diag"
	"zapc/internal/dialect"
	"zapc/internal/source"
	"zapc/internal/token"
)

// parseDecl dispatches on the declaration keyword. parent is the
// enclosing declaration for nested types, NoDeclID at top level.
func (p *Parser) parseDecl(fileID ast.FileID, parent ast.DeclID) (ast.DeclID, bool) {
	switch p.tok.Kind {
	case token.KwStruct:
		return p.parseStruct(fileID, parent)
	case token.KwEnum:
		return p.parseEnum(fileID, parent)
	case token.KwInterface:
		return p.parseInterface(fileID, parent)
	default:
		p.errExpected("'struct', 'enum' or 'interface'")
		return ast.NoDeclID, false
	}
}

func (p *Parser) parseStruct(fileID ast.FileID, parent ast.DeclID) (ast.DeclID, bool) {
	start := p.tok.Span
	p.expect(token.KwStruct)
	nameTok := p.expect(token.Ident)
	p.skipLegacyID()

	// Allocate before children so nested declarations can point at us.
	// Arena pointers go stale across allocations, so members collect
	// locally and are attached at the end.
	id := p.builder.AddDecl(ast.Decl{
		Kind:     ast.DeclStruct,
		Name:     nameTok.Text,
		Span:     start,
		NameSpan: nameTok.Span,
		Parent:   parent,
		File:     fileID,
	})

	p.blockOpen()
	members := p.parseStructBody(fileID, id)
	p.blockClose()
	if p.failed {
		return ast.NoDeclID, false
	}

	d := p.builder.Decl(id)
	d.Members = members
	return id, true
}

// parseStructBody reads fields, unions, and nested declarations until the
// block closes.
func (p *Parser) parseStructBody(fileID ast.FileID, parent ast.DeclID) []ast.Member {
	members := make([]ast.Member, 0, 8)
	for !p.failed && !p.atBlockClose() {
		switch p.tok.Kind {
		case token.Newline, token.Comment:
			p.advance()

		case token.KwStruct, token.KwEnum:
			nested, ok := p.parseDecl(fileID, parent)
			if !ok {
				return members
			}
			members = append(members, ast.Member{Kind: ast.MemberNested, Decl: nested})

		case token.KwUnion:
			group, ok := p.parseUnion(fileID, parent, "", p.tok.Span)
			if !ok {
				return members
			}
			members = append(members, ast.Member{Kind: ast.MemberUnion, Decl: group})

		case token.Ident:
			member, ok := p.parseFieldOrNamedUnion(fileID, parent)
			if !ok {
				return members
			}
			members = append(members, member)

		default:
			p.errExpected("a field or nested declaration")
			return members
		}
	}
	return members
}

// parseFieldOrNamedUnion parses either a field or the legacy named-union
// form 'name :union { ... }'.
func (p *Parser) parseFieldOrNamedUnion(fileID ast.FileID, parent ast.DeclID) (ast.Member, bool) {
	nameTok := p.expect(token.Ident)
	ordinal, ordinalSpan := p.parseOptionalOrdinal()
	p.eat(token.Colon)

	if p.at(token.KwUnion) {
		group, ok := p.parseUnion(fileID, parent, nameTok.Text, nameTok.Span)
		if !ok {
			return ast.Member{}, false
		}
		return ast.Member{Kind: ast.MemberUnion, Decl: group}, true
	}

	typeID := p.parseType()
	value := ast.Value{}
	if p.eat(token.Assign) {
		value = p.parseValue()
	}
	p.endOfStmt()
	if p.failed {
		return ast.Member{}, false
	}
	p.checkDefaultShape(typeID, value)

	fieldID := p.builder.AddField(ast.Field{
		Name:        nameTok.Text,
		Span:        nameTok.Span,
		NameSpan:    nameTok.Span,
		Type:        typeID,
		Default:     value,
		Ordinal:     ordinal,
		OrdinalSpan: ordinalSpan,
	})
	return ast.Member{Kind: ast.MemberField, Field: fieldID}, true
}

// parseUnion parses a union group. In the clean dialect the keyword may be
// followed by a name ('union shape'); the legacy named form arrives with
// the name already consumed by the caller.
func (p *Parser) parseUnion(fileID ast.FileID, parent ast.DeclID, name string, start source.Span) (ast.DeclID, bool) {
	p.expect(token.KwUnion)
	if name == "" && p.dialect == dialect.Clean && p.at(token.Ident) {
		name = p.tok.Text
		p.advance()
	}

	id := p.builder.AddDecl(ast.Decl{
		Kind:     ast.DeclUnion,
		Name:     name,
		Span:     start,
		NameSpan: start,
		Parent:   parent,
		File:     fileID,
	})

	p.blockOpen()
	members := make([]ast.Member, 0, 4)
	for !p.failed && !p.atBlockClose() {
		switch p.tok.Kind {
		case token.Newline, token.Comment:
			p.advance()
		case token.Ident:
			member, ok := p.parseFieldOrNamedUnion(fileID, id)
			if !ok || member.Kind != ast.MemberField {
				if member.Kind == ast.MemberUnion {
					p.errorAt(diag.SynUnionOutsideStruct, p.tok.Span, "unions cannot nest")
				}
				return ast.NoDeclID, false
			}
			members = append(members, member)
		default:
			p.errExpected("a union field")
			return ast.NoDeclID, false
		}
	}
	p.blockClose()
	if p.failed {
		return ast.NoDeclID, false
	}

	d := p.builder.Decl(id)
	d.Members = members
	return id, true
}

func (p *Parser) parseEnum(fileID ast.FileID, parent ast.DeclID) (ast.DeclID, bool) {
	start := p.tok.Span
	p.expect(token.KwEnum)
	nameTok := p.expect(token.Ident)
	p.skipLegacyID()

	p.blockOpen()
	variants := make([]ast.EnumVariant, 0, 8)
	for !p.failed && !p.atBlockClose() {
		switch p.tok.Kind {
		case token.Newline, token.Comment:
			p.advance()
		case token.Ident:
			variant := ast.EnumVariant{Name: p.tok.Text, Span: p.tok.Span}
			p.advance()
			// Legacy variants may carry '@N'; position defines the
			// ordinal either way.
			p.parseOptionalOrdinal()
			p.endOfStmt()
			variants = append(variants, variant)
		default:
			p.errExpected("an enum variant")
			return ast.NoDeclID, false
		}
	}
	p.blockClose()
	if p.failed {
		return ast.NoDeclID, false
	}

	id := p.builder.AddDecl(ast.Decl{
		Kind:     ast.DeclEnum,
		Name:     nameTok.Text,
		Span:     start.Cover(nameTok.Span),
		NameSpan: nameTok.Span,
		Parent:   parent,
		File:     fileID,
		Variants: variants,
	})
	return id, true
}

func (p *Parser) parseInterface(fileID ast.FileID, parent ast.DeclID) (ast.DeclID, bool) {
	start := p.tok.Span
	p.expect(token.KwInterface)
	nameTok := p.expect(token.Ident)

	extends := ast.NoTypeID
	if p.eat(token.KwExtends) {
		paren := p.eat(token.LParen)
		extends = p.parseNamedType()
		if paren {
			p.expect(token.RParen)
		}
	}
	p.skipLegacyID()

	id := p.builder.AddDecl(ast.Decl{
		Kind:     ast.DeclInterface,
		Name:     nameTok.Text,
		Span:     start.Cover(nameTok.Span),
		NameSpan: nameTok.Span,
		Parent:   parent,
		File:     fileID,
		Extends:  extends,
	})

	p.blockOpen()
	methods := make([]ast.MethodID, 0, 8)
	nested := make([]ast.DeclID, 0)
	for !p.failed && !p.atBlockClose() {
		switch p.tok.Kind {
		case token.Newline, token.Comment:
			p.advance()
		case token.KwStruct, token.KwEnum:
			child, ok := p.parseDecl(fileID, id)
			if !ok {
				return ast.NoDeclID, false
			}
			nested = append(nested, child)
		case token.Ident:
			m, ok := p.parseMethod()
			if !ok {
				return ast.NoDeclID, false
			}
			methods = append(methods, m)
		default:
			p.errExpected("a method or nested declaration")
			return ast.NoDeclID, false
		}
	}
	p.blockClose()
	if p.failed {
		return ast.NoDeclID, false
	}

	d := p.builder.Decl(id)
	d.Methods = methods
	d.Nested = nested
	return id, true
}

// parseMethod parses 'name [@N] (params) -> (results)'.
func (p *Parser) parseMethod() (ast.MethodID, bool) {
	nameTok := p.expect(token.Ident)
	ordinal, ordinalSpan := p.parseOptionalOrdinal()

	params := p.parseParamList()
	p.expect(token.Arrow)
	results := p.parseParamList()
	p.endOfStmt()
	if p.failed {
		return ast.NoMethodID, false
	}

	id := p.builder.AddMethod(ast.Method{
		Name:        nameTok.Text,
		Span:        nameTok.Span,
		NameSpan:    nameTok.Span,
		Params:      params,
		Results:     results,
		Ordinal:     ordinal,
		OrdinalSpan: ordinalSpan,
	})
	return id, true
}

// parseParamList parses '(name Type, ...)', which may be empty.
func (p *Parser) parseParamList() []ast.Param {
	p.expect(token.LParen)
	params := make([]ast.Param, 0, 4)
	for !p.failed && !p.at(token.RParen) && !p.at(token.EOF) {
		nameTok := p.expect(token.Ident)
		p.eat(token.Colon)
		typeID := p.parseType()
		params = append(params, ast.Param{
			Name: nameTok.Text,
			Span: nameTok.Span,
			Type: typeID,
		})
		if !p.eat(token.Comma) {
			break
		}
	}
	p.expect(token.RParen)
	return params
}
