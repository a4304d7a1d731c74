package parser

import (
	"strings"

	"zapc/internal/ast"
	"zapc/internal/diag"
	"zapc/internal/token"
)

// parseTopLevel walks the file's items until EOF or the first error.
func (p *Parser) parseTopLevel(fileID ast.FileID) {
	file := p.builder.File(fileID)
	file.Dialect = p.lx.Dialect()

	for !p.failed && !p.at(token.EOF) {
		switch p.tok.Kind {
		case token.Newline:
			p.advance()

		case token.Comment:
			file.Items = append(file.Items, ast.Item{
				Kind:    ast.ItemComment,
				Span:    p.tok.Span,
				Comment: strings.TrimSpace(p.tok.Text),
			})
			p.advance()

		case token.Ordinal:
			// Legacy file-ID annotation: @0x...;
			if !strings.HasPrefix(p.tok.Text, "0x") {
				p.errorAt(diag.SynUnexpectedToken, p.tok.Span, "stray ordinal at top level")
				return
			}
			p.advance()
			p.eat(token.Semicolon)

		case token.KwUsing:
			if id, ok := p.parseImport(); ok {
				file.Items = append(file.Items, ast.Item{
					Kind:   ast.ItemImport,
					Span:   p.builder.Import(id).Span,
					Import: id,
				})
			}

		case token.KwConst:
			if id, ok := p.parseConst(fileID); ok {
				file.Items = append(file.Items, ast.Item{
					Kind: ast.ItemDecl,
					Span: p.builder.Decl(id).Span,
					Decl: id,
				})
			}

		case token.KwStruct, token.KwEnum, token.KwInterface:
			if id, ok := p.parseDecl(fileID, ast.NoDeclID); ok {
				file.Items = append(file.Items, ast.Item{
					Kind: ast.ItemDecl,
					Span: p.builder.Decl(id).Span,
					Decl: id,
				})
			}

		default:
			p.errExpected("a declaration")
			return
		}
	}
}

// parseImport parses 'using import "path"' and
// 'using Alias = import "path"'.
func (p *Parser) parseImport() (ast.ImportID, bool) {
	start := p.tok.Span
	p.expect(token.KwUsing)

	alias := ""
	if p.at(token.Ident) {
		alias = p.tok.Text
		p.advance()
		p.expect(token.Assign)
	}
	p.expect(token.KwImport)

	if !p.at(token.StringLit) {
		p.errorAt(diag.SynBadImport, p.tok.Span, "import path must be a string literal")
		return ast.NoImportID, false
	}
	pathTok := p.tok
	p.advance()
	p.endOfStmt()
	if p.failed {
		return ast.NoImportID, false
	}

	id := p.builder.AddImport(ast.Import{
		Alias:    alias,
		Path:     unquote(pathTok.Text),
		Span:     start.Cover(pathTok.Span),
		PathSpan: pathTok.Span,
	})
	return id, true
}

// parseConst parses 'const name :Type = value'. The colon is written in
// both dialects here; the clean grammar also accepts its absence.
func (p *Parser) parseConst(fileID ast.FileID) (ast.DeclID, bool) {
	start := p.tok.Span
	p.expect(token.KwConst)

	nameTok := p.expect(token.Ident)
	p.eat(token.Colon)
	typeID := p.parseType()
	p.expect(token.Assign)
	value := p.parseValue()
	p.endOfStmt()
	if p.failed {
		return ast.NoDeclID, false
	}

	p.checkDefaultShape(typeID, value)
	id := p.builder.AddDecl(ast.Decl{
		Kind:       ast.DeclConst,
		Name:       nameTok.Text,
		Span:       start.Cover(value.Span),
		NameSpan:   nameTok.Span,
		File:       fileID,
		ConstType:  typeID,
		ConstValue: value,
	})
	return id, true
}

// unquote strips the surrounding quotes of a string literal and unescapes
// \" and \\. The lexer guarantees the quotes are present.
func unquote(text string) string {
	if len(text) < 2 {
		return text
	}
	body := text[1 : len(text)-1]
	if !strings.Contains(body, "\\") {
		return body
	}
	var b strings.Builder
	for i := 0; i < len(body); i++ {
		if body[i] == '\\' && i+1 < len(body) {
			i++
			b.WriteByte(body[i])
			continue
		}
		b.WriteByte(body[i])
	}
	return b.String()
}
