package token

import (
	"zapc/internal/source"
)

// Token represents a single schema token with its location.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
}

// IsLiteral reports whether the token is a numeric, boolean, or string literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case IntLit, FloatLit, StringLit, KwTrue, KwFalse:
		return true
	default:
		return false
	}
}

// IsKeyword reports whether the token is a schema keyword.
func (t Token) IsKeyword() bool {
	switch t.Kind {
	case KwStruct, KwEnum, KwUnion, KwInterface, KwExtends, KwConst, KwUsing, KwImport, KwTrue, KwFalse:
		return true
	default:
		return false
	}
}

// IsLayout reports whether the token is a synthetic layout token produced
// by the clean-dialect indentation tracker.
func (t Token) IsLayout() bool {
	switch t.Kind {
	case Newline, BlockOpen, BlockClose:
		return true
	default:
		return false
	}
}
