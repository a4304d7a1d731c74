package lexer

import (
	"zapc/internal/diag"
	"zapc/internal/token"
)

func isIdentStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isIdentContinue(b byte) bool {
	return isIdentStart(b) || isDec(b)
}

func isDec(b byte) bool {
	return b >= '0' && b <= '9'
}

func isHex(b byte) bool {
	return isDec(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

// scanToken dispatches on the current byte. Layout handling has already
// happened; this is shared by both dialects.
func (lx *Lexer) scanToken() token.Token {
	ch := lx.cursor.Peek()
	switch {
	case isIdentStart(ch):
		return lx.scanIdentOrKeyword()
	case isDec(ch):
		return lx.scanNumber(false)
	case ch == '"':
		return lx.scanString()
	case ch == '#':
		return lx.scanComment()
	case ch == '@':
		return lx.scanOrdinal()
	default:
		return lx.scanPunct()
	}
}

// scanIdentOrKeyword scans an identifier and checks the keyword table.
// Keywords are case-sensitive; Token.Text is exactly the source slice.
func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	for !lx.cursor.EOF() && isIdentContinue(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}

	sp := lx.cursor.SpanFrom(start)
	text := string(lx.file.Content[sp.Start:sp.End])
	if k, ok := token.LookupKeyword(text); ok {
		return token.Token{Kind: k, Span: sp, Text: text}
	}
	return token.Token{Kind: token.Ident, Span: sp, Text: text}
}

// scanNumber scans an integer or float literal. neg marks a consumed
// leading minus.
func (lx *Lexer) scanNumber(neg bool) token.Token {
	start := lx.cursor.Mark()
	if neg {
		start-- // include the minus
	}

	if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == '0' && (b1 == 'x' || b1 == 'X') {
		lx.cursor.Bump()
		lx.cursor.Bump()
		digits := 0
		for !lx.cursor.EOF() && isHex(lx.cursor.Peek()) {
			lx.cursor.Bump()
			digits++
		}
		sp := lx.cursor.SpanFrom(start)
		text := string(lx.file.Content[sp.Start:sp.End])
		if digits == 0 {
			lx.report(diag.LexBadNumber, sp, "hex literal without digits")
			return token.Token{Kind: token.Invalid, Span: sp, Text: text}
		}
		return token.Token{Kind: token.IntLit, Span: sp, Text: text}
	}

	for !lx.cursor.EOF() && isDec(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}

	kind := token.IntLit
	if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == '.' && isDec(b1) {
		kind = token.FloatLit
		lx.cursor.Bump()
		for !lx.cursor.EOF() && isDec(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
	}

	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: kind, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}

// scanString scans a double-quoted literal with \-escapes. Text keeps the
// quotes so the formatter can reprint the literal verbatim.
func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // opening quote

	for !lx.cursor.EOF() {
		b := lx.cursor.Bump()
		if b == '\\' && !lx.cursor.EOF() {
			lx.cursor.Bump()
			continue
		}
		if b == '"' {
			sp := lx.cursor.SpanFrom(start)
			return token.Token{Kind: token.StringLit, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
		}
		if b == '\n' {
			break
		}
	}

	sp := lx.cursor.SpanFrom(start)
	lx.report(diag.LexUnterminatedString, sp, "unterminated string literal")
	return token.Token{Kind: token.Invalid, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}

// scanComment scans a '#' comment to end of line, excluding the newline.
// Text is the comment body without the marker.
func (lx *Lexer) scanComment() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '#'
	for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
		lx.cursor.Bump()
	}
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: token.Comment, Span: sp, Text: string(lx.file.Content[sp.Start+1 : sp.End])}
}

// scanOrdinal scans '@N' (decimal) or '@0x...' (file-ID annotation).
// Text is the part after '@'.
func (lx *Lexer) scanOrdinal() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '@'

	if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == '0' && (b1 == 'x' || b1 == 'X') {
		lx.cursor.Bump()
		lx.cursor.Bump()
		for !lx.cursor.EOF() && isHex(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		sp := lx.cursor.SpanFrom(start)
		return token.Token{Kind: token.Ordinal, Span: sp, Text: string(lx.file.Content[sp.Start+1 : sp.End])}
	}

	digits := 0
	for !lx.cursor.EOF() && isDec(lx.cursor.Peek()) {
		lx.cursor.Bump()
		digits++
	}
	sp := lx.cursor.SpanFrom(start)
	if digits == 0 {
		lx.report(diag.LexBadOrdinal, sp, "'@' must be followed by a number")
		return token.Token{Kind: token.Invalid, Span: sp, Text: "@"}
	}
	return token.Token{Kind: token.Ordinal, Span: sp, Text: string(lx.file.Content[sp.Start+1 : sp.End])}
}

func (lx *Lexer) scanPunct() token.Token {
	start := lx.cursor.Mark()
	b := lx.cursor.Bump()

	var kind token.Kind
	switch b {
	case '(':
		kind = token.LParen
	case ')':
		kind = token.RParen
	case '{':
		kind = token.LBrace
	case '}':
		kind = token.RBrace
	case ':':
		kind = token.Colon
	case ';':
		kind = token.Semicolon
	case ',':
		kind = token.Comma
	case '.':
		kind = token.Dot
	case '=':
		kind = token.Assign
	case '?':
		kind = token.Question
	case '-':
		if lx.cursor.Eat('>') {
			kind = token.Arrow
		} else if !lx.cursor.EOF() && isDec(lx.cursor.Peek()) {
			return lx.scanNumber(true)
		} else {
			sp := lx.cursor.SpanFrom(start)
			lx.report(diag.LexInvalidChar, sp, "unexpected character '-'")
			return token.Token{Kind: token.Invalid, Span: sp, Text: "-"}
		}
	default:
		sp := lx.cursor.SpanFrom(start)
		text := string(lx.file.Content[sp.Start:sp.End])
		lx.report(diag.LexInvalidChar, sp, "unexpected character "+quoteByte(b))
		return token.Token{Kind: token.Invalid, Span: sp, Text: text}
	}

	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: kind, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}

func quoteByte(b byte) string {
	if b >= 0x20 && b < 0x7f {
		return "'" + string(rune(b)) + "'"
	}
	return "(non-printable)"
}
