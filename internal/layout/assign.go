package layout

import (
	"fmt"
	"slices"

	"fortio.org/safecast"

	"zapc/internal/ast"
	"zapc/internal/diag"
	"zapc/internal/source"
)

// Assigner computes wire layouts over a resolved AST.
type Assigner struct {
	builder  *ast.Builder
	reporter diag.Reporter
	schema   *Schema
	failed   bool
}

// Assign walks every declaration of the given files (dependency order) and
// assigns ordinals and wire slots. Layouts depend only on the declaration
// itself, so the resulting Schema is stable across unrelated edits.
func Assign(builder *ast.Builder, order []ast.FileID, reporter diag.Reporter) (*Schema, bool) {
	a := &Assigner{
		builder:  builder,
		reporter: reporter,
		schema: &Schema{
			Structs:    make(map[ast.DeclID]*StructLayout),
			Interfaces: make(map[ast.DeclID]*InterfaceLayout),
		},
	}
	for _, fileID := range order {
		for _, declID := range builder.File(fileID).Decls() {
			a.assignDecl(declID)
		}
	}
	return a.schema, !a.failed
}

func (a *Assigner) errorf(code diag.Code, sp source.Span, format string, args ...any) {
	a.failed = true
	diag.Error(a.reporter, code, sp, fmt.Sprintf(format, args...))
}

func (a *Assigner) assignDecl(declID ast.DeclID) {
	d := a.builder.Decl(declID)
	switch d.Kind {
	case ast.DeclStruct:
		a.assignStruct(declID)
		for _, m := range d.Members {
			if m.Kind == ast.MemberNested {
				a.assignDecl(m.Decl)
			}
		}
	case ast.DeclInterface:
		a.assignInterface(declID)
		for _, nestedID := range d.Nested {
			a.assignDecl(nestedID)
		}
	}
}

// fieldEntry pairs a field with its union group during assignment.
type fieldEntry struct {
	field ast.FieldID
	union int // index into unions, NoUnion for plain fields
}

// assignStruct gives every field an ordinal and a wire slot. Slots are
// allocated in ordinal order, so a schema that only appends fields with
// fresh ordinals keeps every existing slot in place.
func (a *Assigner) assignStruct(declID ast.DeclID) {
	d := a.builder.Decl(declID)

	entries := make([]fieldEntry, 0, len(d.Members))
	unions := make([]UnionLayout, 0)
	for _, m := range d.Members {
		switch m.Kind {
		case ast.MemberField:
			entries = append(entries, fieldEntry{field: m.Field, union: NoUnion})
		case ast.MemberUnion:
			u := a.builder.Decl(m.Decl)
			idx := len(unions)
			unions = append(unions, UnionLayout{Decl: m.Decl, Name: u.Name})
			for _, um := range u.Members {
				if um.Kind == ast.MemberField {
					entries = append(entries, fieldEntry{field: um.Field, union: idx})
				}
			}
		}
	}

	ordinals := a.assignOrdinals(entries)

	// Ascending ordinal order decouples slot placement from source order.
	byOrdinal := make([]int, len(entries))
	for i := range byOrdinal {
		byOrdinal[i] = i
	}
	slices.SortFunc(byOrdinal, func(x, y int) int {
		return int(ordinals[x]) - int(ordinals[y])
	})

	sl := &StructLayout{
		Decl:   declID,
		Name:   a.builder.QualifiedName(declID),
		Fields: make([]FieldLayout, 0, len(entries)),
		Unions: unions,
	}
	alloc := newBitAlloc()
	ptrNext := uint16(0)
	tagged := make(map[int]bool, len(unions))
	variants := make(map[int]uint16, len(unions))

	for _, i := range byOrdinal {
		e := entries[i]
		f := a.builder.Field(e.field)

		fl := FieldLayout{
			Field:   e.field,
			Name:    f.Name,
			Ordinal: ordinals[i],
			Union:   e.union,
		}
		if e.union != NoUnion {
			// The tag is placed when the union's lowest ordinal comes up,
			// keeping it stable under additive evolution.
			if !tagged[e.union] {
				tagged[e.union] = true
				sl.Unions[e.union].TagSlot = Slot{
					Region: RegionData,
					Offset: alloc.place(16),
					Width:  16,
				}
			}
			fl.Variant = variants[e.union]
			variants[e.union]++
		}

		switch kind, width := a.slotShape(f.Type); kind {
		case RegionData:
			fl.Slot = Slot{Region: RegionData, Offset: alloc.place(width), Width: width}
		case RegionPointer:
			fl.Slot = Slot{Region: RegionPointer, Offset: uint32(ptrNext)}
			ptrNext++
		case RegionNone:
			fl.Slot = Slot{Region: RegionNone}
		}
		sl.Fields = append(sl.Fields, fl)
	}

	sl.DataBytes = dataRegionBytes(alloc.used)
	sl.PtrCount = ptrNext
	a.schema.Structs[declID] = sl
}

// assignOrdinals honors explicit @N and fills the rest positionally with
// the lowest unused values. The final set must be exactly 0..n-1.
func (a *Assigner) assignOrdinals(entries []fieldEntry) []uint32 {
	ordinals := make([]uint32, len(entries))
	used := make(map[uint32]bool, len(entries))

	for i, e := range entries {
		f := a.builder.Field(e.field)
		if !f.HasOrdinal() {
			continue
		}
		n, err := safecast.Conv[uint32](f.Ordinal)
		if err != nil {
			a.errorf(diag.LexBadOrdinal, f.OrdinalSpan, "ordinal out of range")
			continue
		}
		ordinals[i] = n
		used[n] = true
	}

	next := uint32(0)
	for i, e := range entries {
		f := a.builder.Field(e.field)
		if f.HasOrdinal() {
			continue
		}
		for used[next] {
			next++
		}
		ordinals[i] = next
		used[next] = true
	}

	for i, e := range entries {
		if int(ordinals[i]) >= len(entries) {
			f := a.builder.Field(e.field)
			a.errorf(diag.LayOrdinalGap, f.OrdinalSpan,
				"ordinal @%d leaves a gap: %d members need ordinals 0..%d",
				ordinals[i], len(entries), len(entries)-1)
		}
	}
	return ordinals
}

func (a *Assigner) assignInterface(declID ast.DeclID) {
	d := a.builder.Decl(declID)

	il := &InterfaceLayout{
		Decl:    declID,
		Name:    a.builder.QualifiedName(declID),
		Methods: make([]MethodLayout, 0, len(d.Methods)),
	}
	ordinals := make([]uint32, len(d.Methods))
	used := make(map[uint32]bool, len(d.Methods))

	for i, mID := range d.Methods {
		m := a.builder.Method(mID)
		if !m.HasOrdinal() {
			continue
		}
		n, err := safecast.Conv[uint32](m.Ordinal)
		if err != nil {
			a.errorf(diag.LexBadOrdinal, m.OrdinalSpan, "ordinal out of range")
			continue
		}
		ordinals[i] = n
		used[n] = true
	}
	next := uint32(0)
	for i, mID := range d.Methods {
		m := a.builder.Method(mID)
		if m.HasOrdinal() {
			continue
		}
		for used[next] {
			next++
		}
		ordinals[i] = next
		used[next] = true
	}
	for i, mID := range d.Methods {
		m := a.builder.Method(mID)
		if int(ordinals[i]) >= len(d.Methods) {
			a.errorf(diag.LayOrdinalGap, m.OrdinalSpan,
				"ordinal @%d leaves a gap: %d methods need ordinals 0..%d",
				ordinals[i], len(d.Methods), len(d.Methods)-1)
		}
		il.Methods = append(il.Methods, MethodLayout{
			Method:  mID,
			Name:    m.Name,
			Ordinal: ordinals[i],
		})
	}
	slices.SortFunc(il.Methods, func(x, y MethodLayout) int {
		return int(x.Ordinal) - int(y.Ordinal)
	})
	a.schema.Interfaces[declID] = il
}

// slotShape maps a field type to its wire region and data width.
func (a *Assigner) slotShape(typeID ast.TypeID) (Region, uint16) {
	t := a.builder.Type(typeID)
	switch t.Kind {
	case ast.TypePrimitive:
		switch {
		case t.Prim == ast.PrimVoid:
			return RegionNone, 0
		case t.Prim.IsPointer():
			return RegionPointer, 0
		default:
			return RegionData, t.Prim.BitWidth()
		}
	case ast.TypeList, ast.TypeMap, ast.TypeOptional:
		return RegionPointer, 0
	case ast.TypeNamed:
		if t.Decl.IsValid() && a.builder.Decl(t.Decl).Kind == ast.DeclEnum {
			// Enums ride in the data region as 16-bit variant indices.
			return RegionData, 16
		}
		return RegionPointer, 0
	default:
		return RegionNone, 0
	}
}

// bitAlloc hands out data-region bit ranges, first fit at offsets aligned
// to the requested width. Widths are powers of two, so stepping by the
// width itself keeps natural alignment.
type bitAlloc struct {
	taken []bool
	used  uint32 // highest placed end offset
}

func newBitAlloc() *bitAlloc {
	return &bitAlloc{taken: make([]bool, 0, 64)}
}

func (b *bitAlloc) place(width uint16) uint32 {
	w := uint32(width)
	for off := uint32(0); ; off += w {
		if b.rangeFree(off, w) {
			b.mark(off, w)
			if off+w > b.used {
				b.used = off + w
			}
			return off
		}
	}
}

func (b *bitAlloc) rangeFree(off, w uint32) bool {
	for i := off; i < off+w; i++ {
		if i < uint32(len(b.taken)) && b.taken[i] {
			return false
		}
	}
	return true
}

func (b *bitAlloc) mark(off, w uint32) {
	for uint32(len(b.taken)) < off+w {
		b.taken = append(b.taken, false)
	}
	for i := off; i < off+w; i++ {
		b.taken[i] = true
	}
}

// dataRegionBytes rounds the used bit count up to a whole byte, then to
// the next power of two.
func dataRegionBytes(usedBits uint32) uint32 {
	if usedBits == 0 {
		return 0
	}
	bytes := (usedBits + 7) / 8
	p := uint32(1)
	for p < bytes {
		p <<= 1
	}
	return p
}
