package parser

import (
	"fmt"
	"strings"

	"zapc/internal/ast"
	"zapc/internal/diag"
	"zapc/internal/dialect"
	"zapc/internal/lexer"
	"zapc/internal/source"
	"zapc/internal/token"
)

// Parser consumes the token stream of either dialect and builds one AST
// file. There is no error recovery: the first syntax error poisons the
// parser and ParseFile reports failure.
type Parser struct {
	builder  *ast.Builder
	lx       *lexer.Lexer
	tok      token.Token
	reporter diag.Reporter
	dialect  dialect.Kind
	failed   bool
}

// ParseFile parses one schema file into builder. The returned FileID is
// valid only when ok is true. Lexer errors are fatal: a file whose
// token stream happens to parse after a bad dedent is still rejected.
func ParseFile(file *source.File, kind dialect.Kind, builder *ast.Builder, reporter diag.Reporter) (ast.FileID, bool) {
	p := &Parser{
		builder:  builder,
		reporter: reporter,
		dialect:  kind,
	}
	p.lx = lexer.New(file, kind, lexer.Options{Reporter: lexReporter{p: p, next: reporter}})
	p.advance()

	fileID := builder.NewFile(file.ID, source.Span{File: file.ID, Start: 0, End: uint32(len(file.Content))})
	p.parseTopLevel(fileID)
	return fileID, !p.failed
}

func (p *Parser) advance() {
	p.tok = p.lx.Next()
}

// lexReporter forwards lexer diagnostics and poisons the parser on the
// first error, keeping the one-error-per-file policy across both
// stages.
type lexReporter struct {
	p    *Parser
	next diag.Reporter
}

func (r lexReporter) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note) {
	if sev >= diag.SevError {
		if r.p.failed {
			return
		}
		r.p.failed = true
	}
	r.next.Report(code, sev, primary, msg, notes)
}

func (p *Parser) at(k token.Kind) bool {
	return p.tok.Kind == k
}

// expect consumes a token of kind k or fails the parse.
func (p *Parser) expect(k token.Kind) token.Token {
	if p.tok.Kind != k {
		p.errExpected(k.String())
		return p.tok
	}
	t := p.tok
	p.advance()
	return t
}

// eat consumes the current token when it matches k.
func (p *Parser) eat(k token.Kind) bool {
	if p.tok.Kind == k {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) errExpected(what string) {
	p.errorAt(diag.SynUnexpectedToken, p.tok.Span,
		fmt.Sprintf("expected %s, found %s", what, p.describe(p.tok)))
}

func (p *Parser) describe(t token.Token) string {
	switch t.Kind {
	case token.Ident, token.IntLit, token.FloatLit, token.StringLit:
		return fmt.Sprintf("%s %q", t.Kind, t.Text)
	default:
		return t.Kind.String()
	}
}

// errorAt reports a diagnostic and poisons the parser; all later errors
// are swallowed so only the first one surfaces.
func (p *Parser) errorAt(code diag.Code, sp source.Span, msg string) {
	if p.failed {
		return
	}
	p.failed = true
	diag.Error(p.reporter, code, sp, msg)
}

// skipTrivia consumes comments and, in the clean dialect, newlines.
// Top-level comment preservation is handled separately by parseTopLevel.
func (p *Parser) skipTrivia() {
	for {
		switch p.tok.Kind {
		case token.Comment:
			p.advance()
		case token.Newline:
			p.advance()
		default:
			return
		}
	}
}

// endOfStmt consumes a statement terminator: a semicolon in the legacy
// dialect, a newline (or block edge) in the clean one.
func (p *Parser) endOfStmt() {
	if p.failed {
		return
	}
	if p.dialect == dialect.Legacy {
		p.expect(token.Semicolon)
		return
	}
	// Trailing comments sit between the statement and its newline.
	for p.at(token.Comment) {
		p.advance()
	}
	switch p.tok.Kind {
	case token.Newline:
		p.advance()
	case token.BlockClose, token.EOF:
		// Block edges terminate the last statement implicitly.
	default:
		p.errExpected("end of line")
	}
}

// blockOpen consumes the start of a declaration body.
func (p *Parser) blockOpen() {
	if p.failed {
		return
	}
	if p.dialect == dialect.Legacy {
		p.expect(token.LBrace)
		return
	}
	// struct Name \n <BlockOpen>; comments may precede the indent.
	for p.at(token.Comment) || p.at(token.Newline) {
		p.advance()
	}
	p.expect(token.BlockOpen)
}

// atBlockClose reports whether the body has ended without consuming.
func (p *Parser) atBlockClose() bool {
	if p.dialect == dialect.Legacy {
		return p.at(token.RBrace) || p.at(token.EOF)
	}
	return p.at(token.BlockClose) || p.at(token.EOF)
}

// blockClose consumes the end of a declaration body.
func (p *Parser) blockClose() {
	if p.failed {
		return
	}
	if p.dialect == dialect.Legacy {
		p.expect(token.RBrace)
		return
	}
	p.expect(token.BlockClose)
}

// skipLegacyID consumes an optional @0x file/type ID annotation, which the
// legacy dialect allows after declaration names.
func (p *Parser) skipLegacyID() {
	if p.at(token.Ordinal) && strings.HasPrefix(p.tok.Text, "0x") {
		p.advance()
	}
}
