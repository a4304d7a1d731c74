package ir

import (
	"zapc/internal/layout"
)

// Kind discriminates IR declarations.
type Kind uint8

const (
	KindStruct Kind = iota
	KindEnum
	KindInterface
	KindConst
)

func (k Kind) String() string {
	switch k {
	case KindStruct:
		return "struct"
	case KindEnum:
		return "enum"
	case KindInterface:
		return "interface"
	case KindConst:
		return "const"
	default:
		return "invalid"
	}
}

// TypeTag is the wire-level type discriminator, shared with the binary
// descriptor format.
type TypeTag uint8

const (
	TagVoid TypeTag = iota
	TagBool
	TagInt8
	TagInt16
	TagInt32
	TagInt64
	TagUInt8
	TagUInt16
	TagUInt32
	TagUInt64
	TagFloat32
	TagFloat64
	TagText
	TagData
	TagList
	TagMap
	TagOptional
	TagStruct
	TagEnum
	TagInterface
)

// TypeRef is a resolved type expression. Named references carry the
// qualified name of their target declaration.
type TypeRef struct {
	Tag  TypeTag
	Name string   // TagStruct/TagEnum/TagInterface
	Elem *TypeRef // TagList/TagOptional
	Key  *TypeRef // TagMap
	Val  *TypeRef // TagMap
}

// Member is one field of a struct or union, with its assigned wire slot.
type Member struct {
	Name    string
	Type    TypeRef
	Ordinal uint32
	Slot    layout.Slot

	// Default is the literal source spelling, "" when absent.
	Default string

	// Union indexes Decl.Unions, layout.NoUnion for plain fields.
	Union   int
	Variant uint16
}

// Union is one tagged group inside a struct.
type Union struct {
	Name    string
	TagSlot layout.Slot
}

// Param is one method parameter or result.
type Param struct {
	Name string
	Type TypeRef
}

// Method is one interface method with its wire ordinal.
type Method struct {
	Name    string
	Ordinal uint32
	Params  []Param
	Results []Param
}

// Decl is one flattened declaration. Nested declarations appear as their
// own entries under their dot-joined qualified name.
type Decl struct {
	Name string // qualified, dot-joined
	File string // declaring schema path
	Kind Kind
	ID   uint64 // stable 64-bit identity

	// Struct payload.
	DataBytes uint32
	PtrCount  uint16
	Members   []Member
	Unions    []Union

	// Enum payload: variant names, ordinal = index.
	Variants []string

	// Interface payload.
	Methods []Method
	Extends string // qualified name, "" when absent

	// Const payload.
	ConstType  TypeRef
	ConstValue string
}

// FileInfo records one compiled schema file.
type FileInfo struct {
	Path string
	ID   uint64
}

// Schema is the immutable compilation result handed to code generators
// and the wire emitter. Decls are ordered deterministically: files in
// dependency order, declarations in source order, nested before the next
// sibling.
type Schema struct {
	Files []FileInfo
	Decls []Decl
}

// Decl returns the declaration with the given qualified name, or nil.
func (s *Schema) Decl(name string) *Decl {
	for i := range s.Decls {
		if s.Decls[i].Name == name {
			return &s.Decls[i]
		}
	}
	return nil
}
