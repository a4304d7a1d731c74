package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Lexical.
	LexInvalidChar        Code = 1001
	LexUnterminatedString Code = 1002
	LexBadNumber          Code = 1003
	LexBadIndent          Code = 1004
	LexBadOrdinal         Code = 1005

	// Syntax.
	SynUnexpectedToken    Code = 2001
	SynExpectIdentifier   Code = 2002
	SynExpectType         Code = 2003
	SynUnclosedBrace      Code = 2004
	SynUnclosedParen      Code = 2005
	SynExpectSemicolon    Code = 2006
	SynBadDefault         Code = 2007
	SynBadImport          Code = 2008
	SynUnionOutsideStruct Code = 2009

	// Resolution.
	ResUnresolvedType   Code = 3001
	ResDuplicateName    Code = 3002
	ResCircularImport   Code = 3003
	ResDuplicateOrdinal Code = 3004
	ResSelfImport       Code = 3005
	ResMissingImport    Code = 3006
	ResBadDefault       Code = 3007

	// Layout / evolution.
	LayIncompatibleEvolution Code = 4001
	LayOrdinalGap            Code = 4002

	// Code generation.
	GenUnsupportedType   Code = 5001
	GenUnsupportedTarget Code = 5002

	// Driver I/O.
	IOLoadError  Code = 6001
	IOWriteError Code = 6002
)

var codeDescription = map[Code]string{
	UnknownCode:           "unknown error",
	LexInvalidChar:        "invalid character",
	LexUnterminatedString: "unterminated string literal",
	LexBadNumber:          "malformed number literal",
	LexBadIndent:          "inconsistent indentation",
	LexBadOrdinal:         "malformed ordinal",
	SynUnexpectedToken:    "unexpected token",
	SynExpectIdentifier:   "expected identifier",
	SynExpectType:         "expected type",
	SynUnclosedBrace:      "unclosed brace",
	SynUnclosedParen:      "unclosed parenthesis",
	SynExpectSemicolon:    "expected semicolon",
	SynBadDefault:         "default value does not match field type",
	SynBadImport:          "malformed import",
	SynUnionOutsideStruct: "union outside struct",

	ResUnresolvedType:   "unresolved type",
	ResDuplicateName:    "duplicate name",
	ResCircularImport:   "circular import",
	ResDuplicateOrdinal: "duplicate ordinal",
	ResSelfImport:       "file imports itself",
	ResMissingImport:    "imported file not found",
	ResBadDefault:       "default value does not match resolved type",

	LayIncompatibleEvolution: "incompatible schema evolution",
	LayOrdinalGap:            "ordinal leaves a gap",

	GenUnsupportedType:   "type not supported by target",
	GenUnsupportedTarget: "unknown code generation target",

	IOLoadError:  "cannot read file",
	IOWriteError: "cannot write file",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("RES%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("LAY%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("GEN%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("IO%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
