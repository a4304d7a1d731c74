package wire

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"fortio.org/safecast"

	"zapc/internal/ir"
)

// Emit encodes a descriptor. The encoding is little-endian throughout and
// byte-identical for identical input.
func Emit(d *Descriptor) ([]byte, error) {
	w := &writer{}
	w.raw([]byte(Magic))
	w.u32(FormatVersion)

	fileCount, err := safecast.Conv[uint32](len(d.Files))
	if err != nil {
		return nil, fmt.Errorf("file count overflow: %w", err)
	}
	declCount, err := safecast.Conv[uint32](len(d.Decls))
	if err != nil {
		return nil, fmt.Errorf("declaration count overflow: %w", err)
	}
	w.u32(fileCount)
	w.u32(declCount)

	for _, f := range d.Files {
		w.str(f.Path)
		w.u64(f.ID)
	}
	for i := range d.Decls {
		if err := w.decl(&d.Decls[i]); err != nil {
			return nil, err
		}
	}
	return w.buf.Bytes(), w.err
}

type writer struct {
	buf bytes.Buffer
	err error
}

func (w *writer) raw(b []byte) {
	if w.err == nil {
		_, w.err = w.buf.Write(b)
	}
}

func (w *writer) u8(v uint8)   { w.raw([]byte{v}) }
func (w *writer) u16(v uint16) { w.raw(binary.LittleEndian.AppendUint16(nil, v)) }
func (w *writer) u32(v uint32) { w.raw(binary.LittleEndian.AppendUint32(nil, v)) }
func (w *writer) u64(v uint64) { w.raw(binary.LittleEndian.AppendUint64(nil, v)) }

func (w *writer) str(s string) {
	n, err := safecast.Conv[uint16](len(s))
	if err != nil {
		w.err = fmt.Errorf("string %q too long for descriptor: %w", s[:32], err)
		return
	}
	w.u16(n)
	w.raw([]byte(s))
}

func (w *writer) decl(r *DeclRecord) error {
	w.str(r.Name)
	w.u8(uint8(r.Kind))
	w.u64(r.ID)

	switch r.Kind {
	case ir.KindStruct:
		w.u32(r.DataBytes)
		w.u16(r.PtrCount)
		n, err := safecast.Conv[uint16](len(r.Members))
		if err != nil {
			return fmt.Errorf("member count overflow in %s: %w", r.Name, err)
		}
		w.u16(n)
		for _, m := range r.Members {
			w.str(m.Name)
			w.u8(uint8(m.Tag))
			w.u16(m.Ordinal)
			w.u8(m.Region)
			w.u32(m.Offset)
			w.u16(m.Width)
		}
	case ir.KindEnum:
		n, err := safecast.Conv[uint16](len(r.Variants))
		if err != nil {
			return fmt.Errorf("variant count overflow in %s: %w", r.Name, err)
		}
		w.u16(n)
		for _, v := range r.Variants {
			w.str(v)
		}
	case ir.KindInterface:
		n, err := safecast.Conv[uint16](len(r.Methods))
		if err != nil {
			return fmt.Errorf("method count overflow in %s: %w", r.Name, err)
		}
		w.u16(n)
		for _, m := range r.Methods {
			w.str(m.Name)
			w.u16(m.Ordinal)
		}
	case ir.KindConst:
		w.u8(uint8(r.ConstTag))
		w.str(r.ConstValue)
	}
	return w.err
}
