package token

// Kind represents the category of a schema token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Newline is a significant line break (clean dialect only).
	Newline
	// BlockOpen is a synthetic block start emitted on indent growth
	// (clean dialect only).
	BlockOpen
	// BlockClose is a synthetic block end emitted per indent pop
	// (clean dialect only).
	BlockClose

	// Ident represents an identifier token.
	Ident
	// KwStruct represents the 'struct' keyword.
	KwStruct // struct
	// KwEnum represents the 'enum' keyword.
	KwEnum // enum
	// KwUnion represents the 'union' keyword.
	KwUnion // union
	// KwInterface represents the 'interface' keyword.
	KwInterface // interface
	// KwExtends represents the 'extends' keyword.
	KwExtends // extends
	// KwConst represents the 'const' keyword.
	KwConst // const
	// KwUsing represents the 'using' keyword.
	KwUsing // using
	// KwImport represents the 'import' keyword.
	KwImport // import
	// KwTrue represents the 'true' keyword.
	KwTrue // true
	// KwFalse represents the 'false' keyword.
	KwFalse // false

	// IntLit represents an integer literal token.
	IntLit
	// FloatLit represents a float literal token.
	FloatLit
	// StringLit represents a string literal token.
	StringLit

	// Ordinal is an explicit wire ordinal '@N'.
	Ordinal // @N
	// Comment is a '#' comment running to end of line.
	Comment

	// LParen represents the left parenthesis token.
	LParen // (
	// RParen represents the right parenthesis token.
	RParen // )
	// LBrace represents the left brace token (legacy dialect).
	LBrace // {
	// RBrace represents the right brace token (legacy dialect).
	RBrace // }
	// Colon represents the colon token (legacy dialect).
	Colon // :
	// Semicolon represents the semicolon token (legacy dialect).
	Semicolon // ;
	// Comma represents the comma token.
	Comma // ,
	// Dot represents the dot token.
	Dot // .
	// Assign represents the assign token.
	Assign // =
	// Question represents the optional-type marker.
	Question // ?
	// Arrow represents the method result arrow.
	Arrow // ->
)

func (k Kind) String() string {
	switch k {
	case Invalid:
		return "invalid"
	case EOF:
		return "eof"
	case Newline:
		return "newline"
	case BlockOpen:
		return "block-open"
	case BlockClose:
		return "block-close"
	case Ident:
		return "identifier"
	case KwStruct:
		return "'struct'"
	case KwEnum:
		return "'enum'"
	case KwUnion:
		return "'union'"
	case KwInterface:
		return "'interface'"
	case KwExtends:
		return "'extends'"
	case KwConst:
		return "'const'"
	case KwUsing:
		return "'using'"
	case KwImport:
		return "'import'"
	case KwTrue:
		return "'true'"
	case KwFalse:
		return "'false'"
	case IntLit:
		return "integer literal"
	case FloatLit:
		return "float literal"
	case StringLit:
		return "string literal"
	case Ordinal:
		return "ordinal"
	case Comment:
		return "comment"
	case LParen:
		return "'('"
	case RParen:
		return "')'"
	case LBrace:
		return "'{'"
	case RBrace:
		return "'}'"
	case Colon:
		return "':'"
	case Semicolon:
		return "';'"
	case Comma:
		return "','"
	case Dot:
		return "'.'"
	case Assign:
		return "'='"
	case Question:
		return "'?'"
	case Arrow:
		return "'->'"
	}
	return "unknown"
}
