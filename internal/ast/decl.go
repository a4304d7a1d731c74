package ast

import (
	"zapc/internal/source"
)

// DeclKind discriminates declarations.
type DeclKind uint8

const (
	DeclInvalid DeclKind = iota
	DeclStruct
	DeclEnum
	DeclUnion
	DeclInterface
	DeclConst
)

func (k DeclKind) String() string {
	switch k {
	case DeclStruct:
		return "struct"
	case DeclEnum:
		return "enum"
	case DeclUnion:
		return "union"
	case DeclInterface:
		return "interface"
	case DeclConst:
		return "const"
	default:
		return "invalid"
	}
}

// MemberKind discriminates ordered body elements of a struct.
type MemberKind uint8

const (
	MemberField MemberKind = iota
	// MemberUnion is a union group; its fields share one tagged slot and
	// continue the enclosing struct's ordinal sequence.
	MemberUnion
	// MemberNested is a nested struct or enum declaration. It occupies no
	// wire slot of its own.
	MemberNested
)

// Member is one ordered element of a struct body.
type Member struct {
	Kind  MemberKind
	Field FieldID // MemberField
	Decl  DeclID  // MemberUnion, MemberNested
}

// EnumVariant is a bare enumerant; its ordinal is its position.
type EnumVariant struct {
	Name string
	Span source.Span
}

// Decl is a schema declaration. Nested declarations are attached through
// Members/Nested and are visible only within the enclosing scope subtree.
type Decl struct {
	Kind     DeclKind
	Name     string
	Span     source.Span
	NameSpan source.Span

	// Parent is the enclosing declaration, 0 for top-level.
	Parent DeclID
	// File is the declaring file.
	File FileID

	// Struct/union bodies.
	Members []Member
	// Enum bodies.
	Variants []EnumVariant
	// Interface bodies.
	Methods []MethodID
	Extends TypeID // optional 'extends Parent' reference
	// Interface-nested declarations (structs/enums declared in an
	// interface body).
	Nested []DeclID

	// Const payload.
	ConstType  TypeID
	ConstValue Value
}

// Fields returns the field IDs of a struct or union body in order,
// flattening union groups into their member fields.
func (d *Decl) Fields(decls *Arena[Decl]) []FieldID {
	out := make([]FieldID, 0, len(d.Members))
	for _, m := range d.Members {
		switch m.Kind {
		case MemberField:
			out = append(out, m.Field)
		case MemberUnion:
			if u := decls.Get(uint32(m.Decl)); u != nil {
				for _, um := range u.Members {
					if um.Kind == MemberField {
						out = append(out, um.Field)
					}
				}
			}
		}
	}
	return out
}

// NestedDecls returns the nested struct/enum/union declarations of d.
func (d *Decl) NestedDecls() []DeclID {
	out := make([]DeclID, 0, len(d.Nested))
	for _, m := range d.Members {
		if m.Kind == MemberNested || m.Kind == MemberUnion {
			out = append(out, m.Decl)
		}
	}
	out = append(out, d.Nested...)
	return out
}
