package ast

import (
	"strings"

	"zapc/internal/source"
)

// TypeKind discriminates type expressions.
type TypeKind uint8

const (
	TypeInvalid TypeKind = iota
	// TypePrimitive covers the builtin scalar and blob types.
	TypePrimitive
	// TypeList is List(T).
	TypeList
	// TypeMap is Map(K, V).
	TypeMap
	// TypeOptional is T?.
	TypeOptional
	// TypeNamed is a reference to a user declaration, possibly dotted
	// (Outer.Inner, Alias.Type). Unresolved until the resolver rewrites
	// Decl from 0 to a concrete handle.
	TypeNamed
)

// PrimKind enumerates builtin types.
type PrimKind uint8

const (
	PrimInvalid PrimKind = iota
	PrimVoid
	PrimBool
	PrimInt8
	PrimInt16
	PrimInt32
	PrimInt64
	PrimUInt8
	PrimUInt16
	PrimUInt32
	PrimUInt64
	PrimFloat32
	PrimFloat64
	PrimText
	PrimData
)

var primNames = map[string]PrimKind{
	"Void":    PrimVoid,
	"Bool":    PrimBool,
	"Int8":    PrimInt8,
	"Int16":   PrimInt16,
	"Int32":   PrimInt32,
	"Int64":   PrimInt64,
	"UInt8":   PrimUInt8,
	"UInt16":  PrimUInt16,
	"UInt32":  PrimUInt32,
	"UInt64":  PrimUInt64,
	"Float32": PrimFloat32,
	"Float64": PrimFloat64,
	"Text":    PrimText,
	"Data":    PrimData,
}

// LookupPrim returns the builtin type named by text, if any.
func LookupPrim(text string) (PrimKind, bool) {
	k, ok := primNames[text]
	return k, ok
}

func (p PrimKind) String() string {
	for name, k := range primNames {
		if k == p {
			return name
		}
	}
	return "Invalid"
}

// BitWidth returns the data-region width in bits, or 0 for pointer-kind
// builtins (Text, Data) and Void.
func (p PrimKind) BitWidth() uint16 {
	switch p {
	case PrimBool:
		return 1
	case PrimInt8, PrimUInt8:
		return 8
	case PrimInt16, PrimUInt16:
		return 16
	case PrimInt32, PrimUInt32, PrimFloat32:
		return 32
	case PrimInt64, PrimUInt64, PrimFloat64:
		return 64
	default:
		return 0
	}
}

// IsPointer reports whether the builtin lives in the pointer region.
func (p PrimKind) IsPointer() bool {
	return p == PrimText || p == PrimData
}

// Type is one node of a type expression tree.
type Type struct {
	Kind TypeKind
	Span source.Span

	// TypePrimitive
	Prim PrimKind

	// TypeList / TypeOptional element, TypeMap key/value.
	Elem TypeID
	Key  TypeID
	Val  TypeID

	// TypeNamed: dotted path segments and, after resolution, the target.
	Path []string
	Decl DeclID
}

// PathString joins the dotted path of a TypeNamed node.
func (t *Type) PathString() string {
	return strings.Join(t.Path, ".")
}
