package layout

import (
	"zapc/internal/ast"
)

// Region says where a slot lives on the wire.
type Region uint8

const (
	// RegionNone marks slotless members (Void fields).
	RegionNone Region = iota
	// RegionData is the bit-packed scalar region.
	RegionData
	// RegionPointer is the pointer table after the data region.
	RegionPointer
)

func (r Region) String() string {
	switch r {
	case RegionData:
		return "data"
	case RegionPointer:
		return "pointer"
	default:
		return "none"
	}
}

// Slot is one wire location: a bit offset and width in the data region, or
// an index in the pointer region (Width 0).
type Slot struct {
	Region Region
	Offset uint32
	Width  uint16
}

// NoUnion marks fields that are not part of a union group.
const NoUnion = -1

// FieldLayout is the assigned wire placement of one field.
type FieldLayout struct {
	Field   ast.FieldID
	Name    string
	Ordinal uint32
	Slot    Slot

	// Union is an index into StructLayout.Unions, NoUnion for plain
	// fields. Variant is the discriminant value within that union.
	Union   int
	Variant uint16
}

// UnionLayout is one union group: its 16-bit tag slot in the data region.
type UnionLayout struct {
	Decl    ast.DeclID
	Name    string
	TagSlot Slot
}

// StructLayout is the complete wire shape of a struct.
type StructLayout struct {
	Decl ast.DeclID
	Name string

	// DataBytes is the data-region size: the smallest power of two of
	// whole bytes covering every placed bit. Zero when no data slots.
	DataBytes uint32
	// PtrCount is the pointer-region slot count.
	PtrCount uint16

	// Fields in ascending ordinal order.
	Fields []FieldLayout
	Unions []UnionLayout
}

// MethodLayout is the assigned ordinal of one interface method.
type MethodLayout struct {
	Method  ast.MethodID
	Name    string
	Ordinal uint32
}

// InterfaceLayout orders an interface's methods by wire ordinal.
type InterfaceLayout struct {
	Decl    ast.DeclID
	Name    string
	Methods []MethodLayout
}

// Schema holds the layouts of every struct and interface in one
// compilation.
type Schema struct {
	Structs    map[ast.DeclID]*StructLayout
	Interfaces map[ast.DeclID]*InterfaceLayout
}

// Struct returns the layout for a struct or union declaration.
func (s *Schema) Struct(id ast.DeclID) *StructLayout {
	return s.Structs[id]
}

// Interface returns the layout for an interface declaration.
func (s *Schema) Interface(id ast.DeclID) *InterfaceLayout {
	return s.Interfaces[id]
}
