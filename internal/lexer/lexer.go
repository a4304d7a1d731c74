package lexer

import (
	"zapc/internal/diag"
	"zapc/internal/dialect"
	"zapc/internal/source"
	"zapc/internal/token"
)

// Lexer turns schema text into tokens. The grammar downstream is shared;
// the dialect only changes which layout/punctuation tokens are produced:
// clean input yields Newline/BlockOpen/BlockClose from the indentation
// stack, legacy input yields braces and semicolons verbatim.
type Lexer struct {
	file    *source.File
	cursor  Cursor
	opts    Options
	dialect dialect.Kind

	look    *token.Token
	pending []token.Token

	// Indentation stack for the clean dialect. Always starts with 0.
	indents     []uint32
	atLineStart bool
	badIndent   bool
}

func New(file *source.File, kind dialect.Kind, opts Options) *Lexer {
	return &Lexer{
		file:        file,
		cursor:      NewCursor(file),
		opts:        opts,
		dialect:     kind,
		indents:     []uint32{0},
		atLineStart: true,
	}
}

// Dialect returns the dialect this lexer was created with.
func (lx *Lexer) Dialect() dialect.Kind { return lx.dialect }

// Next returns the next token. After EOF it always returns EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}
	if len(lx.pending) > 0 {
		tok := lx.pending[0]
		lx.pending = lx.pending[1:]
		return tok
	}

	if lx.dialect == dialect.Legacy {
		return lx.nextLegacy()
	}
	return lx.nextClean()
}

// Peek returns the next token without consuming it.
func (lx *Lexer) Peek() token.Token {
	t := lx.Next()
	lx.look = &t
	return t
}

// Tokenize drains the lexer into a slice ending with EOF.
func Tokenize(file *source.File, kind dialect.Kind, opts Options) []token.Token {
	lx := New(file, kind, opts)
	out := make([]token.Token, 0, 64)
	for {
		tok := lx.Next()
		out = append(out, tok)
		if tok.Kind == token.EOF {
			return out
		}
	}
}

func (lx *Lexer) emptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
}

func (lx *Lexer) eofToken() token.Token {
	return token.Token{Kind: token.EOF, Span: lx.emptySpan()}
}

// nextLegacy skips insignificant whitespace and scans one token.
func (lx *Lexer) nextLegacy() token.Token {
	for !lx.cursor.EOF() {
		switch lx.cursor.Peek() {
		case ' ', '\t', '\r', '\n':
			lx.cursor.Bump()
		default:
			return lx.scanToken()
		}
	}
	return lx.eofToken()
}

// nextClean handles the off-side rule, then scans one token.
func (lx *Lexer) nextClean() token.Token {
	for {
		if lx.atLineStart {
			if done := lx.handleLineStart(); done {
				if len(lx.pending) > 0 {
					tok := lx.pending[0]
					lx.pending = lx.pending[1:]
					return tok
				}
				return lx.eofToken()
			}
			if len(lx.pending) > 0 {
				tok := lx.pending[0]
				lx.pending = lx.pending[1:]
				return tok
			}
		}

		if lx.cursor.EOF() {
			lx.flushEOF()
			if len(lx.pending) > 0 {
				tok := lx.pending[0]
				lx.pending = lx.pending[1:]
				return tok
			}
			return lx.eofToken()
		}

		switch lx.cursor.Peek() {
		case ' ', '\t':
			lx.cursor.Bump()
		case '\n':
			mark := lx.cursor.Mark()
			lx.cursor.Bump()
			lx.atLineStart = true
			return token.Token{Kind: token.Newline, Span: lx.cursor.SpanFrom(mark), Text: "\n"}
		default:
			return lx.scanToken()
		}
	}
}

// handleLineStart measures indentation, skips blank and comment-only
// lines, and queues BlockOpen/BlockClose tokens. It reports true when the
// file ended.
func (lx *Lexer) handleLineStart() bool {
	for {
		mark := lx.cursor.Mark()
		width := uint32(0)
		for !lx.cursor.EOF() {
			b := lx.cursor.Peek()
			if b != ' ' && b != '\t' {
				break
			}
			lx.cursor.Bump()
			width++
		}

		if lx.cursor.EOF() {
			lx.flushEOF()
			return true
		}

		// Blank lines never open or close blocks.
		if lx.cursor.Peek() == '\n' {
			lx.cursor.Bump()
			continue
		}
		// Comment-only lines keep the surrounding indentation intact.
		if lx.cursor.Peek() == '#' {
			lx.atLineStart = false
			lx.pending = append(lx.pending, lx.scanComment())
			return false
		}

		lx.atLineStart = false
		lx.applyIndent(width, lx.cursor.SpanFrom(mark))
		return false
	}
}

func (lx *Lexer) applyIndent(width uint32, sp source.Span) {
	top := lx.indents[len(lx.indents)-1]
	switch {
	case width > top:
		lx.indents = append(lx.indents, width)
		lx.pending = append(lx.pending, token.Token{Kind: token.BlockOpen, Span: sp})
	case width < top:
		for len(lx.indents) > 1 && lx.indents[len(lx.indents)-1] > width {
			lx.indents = lx.indents[:len(lx.indents)-1]
			lx.pending = append(lx.pending, token.Token{Kind: token.BlockClose, Span: sp})
		}
		if lx.indents[len(lx.indents)-1] != width && !lx.badIndent {
			lx.badIndent = true
			lx.report(diag.LexBadIndent, sp, "dedent does not match any enclosing indentation level")
		}
	}
}

// flushEOF closes any open blocks before the final EOF.
func (lx *Lexer) flushEOF() {
	for len(lx.indents) > 1 {
		lx.indents = lx.indents[:len(lx.indents)-1]
		lx.pending = append(lx.pending, token.Token{Kind: token.BlockClose, Span: lx.emptySpan()})
	}
}
