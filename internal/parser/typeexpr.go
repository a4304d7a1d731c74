package parser

import (
	"strconv"

	"zapc/internal/ast"
	"zapc/internal/diag"
	"zapc/internal/source"
	"zapc/internal/token"
)

// parseOptionalOrdinal consumes '@N' when present. Hex ordinals are type
// IDs, not wire positions, and are rejected here.
func (p *Parser) parseOptionalOrdinal() (int32, source.Span) {
	if !p.at(token.Ordinal) {
		return ast.NoOrdinal, source.Span{}
	}
	tok := p.tok
	p.advance()

	n, err := strconv.ParseInt(tok.Text, 10, 32)
	if err != nil || n < 0 {
		p.errorAt(diag.LexBadOrdinal, tok.Span, "ordinal must be a small decimal number")
		return ast.NoOrdinal, tok.Span
	}
	return int32(n), tok.Span
}

// parseType parses a type expression: a builtin, List(T), Map(K, V), a
// dotted reference, each optionally followed by '?' suffixes.
func (p *Parser) parseType() ast.TypeID {
	if !p.at(token.Ident) {
		p.errorAt(diag.SynExpectType, p.tok.Span,
			"expected a type, found "+p.describe(p.tok))
		return ast.NoTypeID
	}
	head := p.tok
	p.advance()

	var id ast.TypeID
	switch {
	case head.Text == "List" && p.at(token.LParen):
		p.advance()
		elem := p.parseType()
		end := p.expect(token.RParen)
		id = p.builder.AddType(ast.Type{
			Kind: ast.TypeList,
			Span: head.Span.Cover(end.Span),
			Elem: elem,
		})

	case head.Text == "Map" && p.at(token.LParen):
		p.advance()
		key := p.parseType()
		p.expect(token.Comma)
		val := p.parseType()
		end := p.expect(token.RParen)
		id = p.builder.AddType(ast.Type{
			Kind: ast.TypeMap,
			Span: head.Span.Cover(end.Span),
			Key:  key,
			Val:  val,
		})

	default:
		if prim, ok := ast.LookupPrim(head.Text); ok {
			id = p.builder.AddType(ast.Type{
				Kind: ast.TypePrimitive,
				Span: head.Span,
				Prim: prim,
			})
			break
		}
		id = p.parseNamedTail(head)
	}
	if p.failed {
		return ast.NoTypeID
	}

	for p.at(token.Question) {
		q := p.tok
		p.advance()
		id = p.builder.AddType(ast.Type{
			Kind: ast.TypeOptional,
			Span: p.builder.Type(id).Span.Cover(q.Span),
			Elem: id,
		})
	}
	return id
}

// parseNamedType parses a dotted reference where a builtin would be a
// mistake, e.g. the target of 'extends'.
func (p *Parser) parseNamedType() ast.TypeID {
	if !p.at(token.Ident) {
		p.errorAt(diag.SynExpectType, p.tok.Span,
			"expected a type name, found "+p.describe(p.tok))
		return ast.NoTypeID
	}
	head := p.tok
	p.advance()
	return p.parseNamedTail(head)
}

func (p *Parser) parseNamedTail(head token.Token) ast.TypeID {
	path := []string{head.Text}
	sp := head.Span
	for p.eat(token.Dot) {
		seg := p.expect(token.Ident)
		if p.failed {
			return ast.NoTypeID
		}
		path = append(path, seg.Text)
		sp = sp.Cover(seg.Span)
	}
	return p.builder.AddType(ast.Type{
		Kind: ast.TypeNamed,
		Span: sp,
		Path: path,
	})
}

// parseValue parses a default-value literal. Text keeps the exact source
// spelling so the formatter and code generators reprint it verbatim.
func (p *Parser) parseValue() ast.Value {
	tok := p.tok
	var kind ast.ValueKind
	switch tok.Kind {
	case token.IntLit:
		kind = ast.ValueInt
	case token.FloatLit:
		kind = ast.ValueFloat
	case token.StringLit:
		kind = ast.ValueString
	case token.KwTrue, token.KwFalse:
		kind = ast.ValueBool
	case token.Ident:
		kind = ast.ValueName
	default:
		p.errorAt(diag.SynBadDefault, tok.Span,
			"expected a literal default, found "+p.describe(tok))
		return ast.Value{}
	}
	p.advance()
	return ast.Value{Kind: kind, Text: tok.Text, Span: tok.Span}
}

// checkDefaultShape rejects defaults whose literal shape cannot match the
// written type. Only primitives are checked here; named types wait for the
// resolver, and containers never take defaults.
func (p *Parser) checkDefaultShape(typeID ast.TypeID, value ast.Value) {
	if !value.IsSet() || !typeID.IsValid() || p.failed {
		return
	}
	t := p.builder.Type(typeID)
	for t.Kind == ast.TypeOptional {
		t = p.builder.Type(t.Elem)
	}

	switch t.Kind {
	case ast.TypeList, ast.TypeMap:
		p.errorAt(diag.SynBadDefault, value.Span, "container types cannot have defaults")
		return
	case ast.TypePrimitive:
		// checked below
	default:
		return
	}

	ok := false
	switch t.Prim {
	case ast.PrimBool:
		ok = value.Kind == ast.ValueBool
	case ast.PrimFloat32, ast.PrimFloat64:
		ok = value.Kind == ast.ValueFloat || value.Kind == ast.ValueInt
	case ast.PrimText, ast.PrimData:
		ok = value.Kind == ast.ValueString
	case ast.PrimVoid:
		ok = false
	default:
		ok = value.Kind == ast.ValueInt
	}
	if !ok {
		p.errorAt(diag.SynBadDefault, value.Span,
			"default value does not fit type "+t.Prim.String())
	}
}
