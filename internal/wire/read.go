package wire

import (
	"encoding/binary"
	"errors"
	"fmt"

	"zapc/internal/ir"
)

// ErrBadMagic marks data that is not a descriptor at all.
var ErrBadMagic = errors.New("not a schema descriptor")

// ErrVersion marks a descriptor written by an incompatible format.
var ErrVersion = errors.New("unsupported descriptor version")

// Read decodes a descriptor emitted by Emit.
func Read(data []byte) (*Descriptor, error) {
	r := &reader{data: data}

	magic := r.raw(4)
	if r.err != nil || string(magic) != Magic {
		return nil, ErrBadMagic
	}
	version := r.u32()
	if version != FormatVersion {
		return nil, fmt.Errorf("%w: %d", ErrVersion, version)
	}

	fileCount := r.u32()
	declCount := r.u32()

	d := &Descriptor{
		Version: version,
		Files:   make([]FileRecord, 0, fileCount),
		Decls:   make([]DeclRecord, 0, declCount),
	}
	for i := uint32(0); i < fileCount && r.err == nil; i++ {
		d.Files = append(d.Files, FileRecord{Path: r.str(), ID: r.u64()})
	}
	for i := uint32(0); i < declCount && r.err == nil; i++ {
		d.Decls = append(d.Decls, r.decl())
	}
	if r.err != nil {
		return nil, r.err
	}
	return d, nil
}

type reader struct {
	data []byte
	pos  int
	err  error
}

func (r *reader) raw(n int) []byte {
	if r.err != nil {
		return nil
	}
	if r.pos+n > len(r.data) {
		r.err = fmt.Errorf("truncated descriptor at offset %d", r.pos)
		return nil
	}
	out := r.data[r.pos : r.pos+n]
	r.pos += n
	return out
}

func (r *reader) u8() uint8 {
	b := r.raw(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (r *reader) u16() uint16 {
	b := r.raw(2)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}

func (r *reader) u32() uint32 {
	b := r.raw(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (r *reader) u64() uint64 {
	b := r.raw(8)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}

func (r *reader) str() string {
	n := r.u16()
	return string(r.raw(int(n)))
}

func (r *reader) decl() DeclRecord {
	rec := DeclRecord{
		Name: r.str(),
		Kind: ir.Kind(r.u8()),
		ID:   r.u64(),
	}
	switch rec.Kind {
	case ir.KindStruct:
		rec.DataBytes = r.u32()
		rec.PtrCount = r.u16()
		n := r.u16()
		rec.Members = make([]MemberRecord, 0, n)
		for i := uint16(0); i < n && r.err == nil; i++ {
			rec.Members = append(rec.Members, MemberRecord{
				Name:    r.str(),
				Tag:     ir.TypeTag(r.u8()),
				Ordinal: r.u16(),
				Region:  r.u8(),
				Offset:  r.u32(),
				Width:   r.u16(),
			})
		}
	case ir.KindEnum:
		n := r.u16()
		rec.Variants = make([]string, 0, n)
		for i := uint16(0); i < n && r.err == nil; i++ {
			rec.Variants = append(rec.Variants, r.str())
		}
	case ir.KindInterface:
		n := r.u16()
		rec.Methods = make([]MethodRecord, 0, n)
		for i := uint16(0); i < n && r.err == nil; i++ {
			rec.Methods = append(rec.Methods, MethodRecord{Name: r.str(), Ordinal: r.u16()})
		}
	case ir.KindConst:
		rec.ConstTag = ir.TypeTag(r.u8())
		rec.ConstValue = r.str()
	default:
		r.err = fmt.Errorf("unknown declaration kind %d in descriptor", rec.Kind)
	}
	return rec
}
