// Package wire defines the compiled binary schema descriptor: a compact,
// deterministic encoding of every declaration's identity and wire slots.
// The descriptor is the compatibility contract between schema revisions;
// the evolution check compares a fresh compilation against the previously
// emitted descriptor.
package wire

import (
	"zapc/internal/ir"
)

// Magic starts every descriptor file.
const Magic = "ZAPD"

// FormatVersion is bumped on any change to the descriptor encoding.
const FormatVersion uint32 = 1

// MemberRecord is one field's wire placement in a descriptor.
type MemberRecord struct {
	Name    string
	Tag     ir.TypeTag
	Ordinal uint16
	Region  uint8
	Offset  uint32
	Width   uint16
}

// MethodRecord is one interface method.
type MethodRecord struct {
	Name    string
	Ordinal uint16
}

// DeclRecord is one declaration in a descriptor.
type DeclRecord struct {
	Name string
	Kind ir.Kind
	ID   uint64

	// KindStruct
	DataBytes uint32
	PtrCount  uint16
	Members   []MemberRecord

	// KindEnum
	Variants []string

	// KindInterface
	Methods []MethodRecord

	// KindConst
	ConstTag   ir.TypeTag
	ConstValue string
}

// FileRecord is one compiled schema file.
type FileRecord struct {
	Path string
	ID   uint64
}

// Descriptor is the decoded form of a compiled schema.
type Descriptor struct {
	Version uint32
	Files   []FileRecord
	Decls   []DeclRecord
}

// Decl returns the record with the given qualified name, or nil.
func (d *Descriptor) Decl(name string) *DeclRecord {
	for i := range d.Decls {
		if d.Decls[i].Name == name {
			return &d.Decls[i]
		}
	}
	return nil
}

// FromSchema converts a compiled ir.Schema into descriptor records.
func FromSchema(s *ir.Schema) *Descriptor {
	d := &Descriptor{
		Version: FormatVersion,
		Files:   make([]FileRecord, 0, len(s.Files)),
		Decls:   make([]DeclRecord, 0, len(s.Decls)),
	}
	for _, f := range s.Files {
		d.Files = append(d.Files, FileRecord{Path: f.Path, ID: f.ID})
	}
	for i := range s.Decls {
		d.Decls = append(d.Decls, declRecord(&s.Decls[i]))
	}
	return d
}

func declRecord(decl *ir.Decl) DeclRecord {
	r := DeclRecord{
		Name: decl.Name,
		Kind: decl.Kind,
		ID:   decl.ID,
	}
	switch decl.Kind {
	case ir.KindStruct:
		r.DataBytes = decl.DataBytes
		r.PtrCount = decl.PtrCount
		r.Members = make([]MemberRecord, 0, len(decl.Members))
		for _, m := range decl.Members {
			r.Members = append(r.Members, MemberRecord{
				Name:    m.Name,
				Tag:     m.Type.Tag,
				Ordinal: uint16(m.Ordinal),
				Region:  uint8(m.Slot.Region),
				Offset:  m.Slot.Offset,
				Width:   m.Slot.Width,
			})
		}
	case ir.KindEnum:
		r.Variants = append(r.Variants, decl.Variants...)
	case ir.KindInterface:
		r.Methods = make([]MethodRecord, 0, len(decl.Methods))
		for _, m := range decl.Methods {
			r.Methods = append(r.Methods, MethodRecord{
				Name:    m.Name,
				Ordinal: uint16(m.Ordinal),
			})
		}
	case ir.KindConst:
		r.ConstTag = decl.ConstType.Tag
		r.ConstValue = decl.ConstValue
	}
	return r
}
