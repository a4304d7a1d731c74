package ir

import (
	"zapc/internal/ast"
	"zapc/internal/layout"
)

// Input couples a parsed file with its schema path, in dependency order.
type Input struct {
	File ast.FileID
	Path string
}

// Build flattens a resolved, laid-out AST into an ir.Schema. The result
// shares nothing with the builder and is safe for concurrent readers.
func Build(builder *ast.Builder, lay *layout.Schema, inputs []Input) *Schema {
	b := &irBuilder{builder: builder, lay: lay}
	s := &Schema{
		Files: make([]FileInfo, 0, len(inputs)),
		Decls: make([]Decl, 0, 16),
	}
	for _, in := range inputs {
		s.Files = append(s.Files, FileInfo{Path: in.Path, ID: StableID(in.Path)})
		file := builder.File(in.File)
		for _, declID := range file.Decls() {
			b.flatten(s, in.Path, declID)
		}
	}
	return s
}

type irBuilder struct {
	builder *ast.Builder
	lay     *layout.Schema
}

// flatten emits declID and then its nested declarations depth-first.
func (b *irBuilder) flatten(s *Schema, path string, declID ast.DeclID) {
	d := b.builder.Decl(declID)
	name := b.builder.QualifiedName(declID)

	switch d.Kind {
	case ast.DeclStruct:
		s.Decls = append(s.Decls, b.structDecl(path, declID, name))
		for _, m := range d.Members {
			if m.Kind == ast.MemberNested {
				b.flatten(s, path, m.Decl)
			}
		}
	case ast.DeclEnum:
		variants := make([]string, len(d.Variants))
		for i, v := range d.Variants {
			variants[i] = v.Name
		}
		s.Decls = append(s.Decls, Decl{
			Name:     name,
			File:     path,
			Kind:     KindEnum,
			ID:       StableID(path + ":" + name),
			Variants: variants,
		})
	case ast.DeclInterface:
		s.Decls = append(s.Decls, b.interfaceDecl(path, declID, name))
		for _, nestedID := range d.Nested {
			b.flatten(s, path, nestedID)
		}
	case ast.DeclConst:
		s.Decls = append(s.Decls, Decl{
			Name:       name,
			File:       path,
			Kind:       KindConst,
			ID:         StableID(path + ":" + name),
			ConstType:  b.typeRef(d.ConstType),
			ConstValue: d.ConstValue.Text,
		})
	}
}

func (b *irBuilder) structDecl(path string, declID ast.DeclID, name string) Decl {
	sl := b.lay.Struct(declID)
	out := Decl{
		Name:      name,
		File:      path,
		Kind:      KindStruct,
		ID:        StableID(path + ":" + name),
		DataBytes: sl.DataBytes,
		PtrCount:  sl.PtrCount,
		Members:   make([]Member, 0, len(sl.Fields)),
		Unions:    make([]Union, 0, len(sl.Unions)),
	}
	for _, u := range sl.Unions {
		out.Unions = append(out.Unions, Union{Name: u.Name, TagSlot: u.TagSlot})
	}
	for _, fl := range sl.Fields {
		f := b.builder.Field(fl.Field)
		out.Members = append(out.Members, Member{
			Name:    fl.Name,
			Type:    b.typeRef(f.Type),
			Ordinal: fl.Ordinal,
			Slot:    fl.Slot,
			Default: f.Default.Text,
			Union:   fl.Union,
			Variant: fl.Variant,
		})
	}
	return out
}

func (b *irBuilder) interfaceDecl(path string, declID ast.DeclID, name string) Decl {
	il := b.lay.Interface(declID)
	d := b.builder.Decl(declID)

	out := Decl{
		Name:    name,
		File:    path,
		Kind:    KindInterface,
		ID:      StableID(path + ":" + name),
		Methods: make([]Method, 0, len(il.Methods)),
	}
	if d.Extends.IsValid() {
		ext := b.builder.Type(d.Extends)
		if ext.Decl.IsValid() {
			out.Extends = b.builder.QualifiedName(ext.Decl)
		}
	}
	for _, ml := range il.Methods {
		m := b.builder.Method(ml.Method)
		out.Methods = append(out.Methods, Method{
			Name:    ml.Name,
			Ordinal: ml.Ordinal,
			Params:  b.params(m.Params),
			Results: b.params(m.Results),
		})
	}
	return out
}

func (b *irBuilder) params(in []ast.Param) []Param {
	out := make([]Param, 0, len(in))
	for _, p := range in {
		out = append(out, Param{Name: p.Name, Type: b.typeRef(p.Type)})
	}
	return out
}

var primTags = map[ast.PrimKind]TypeTag{
	ast.PrimVoid:    TagVoid,
	ast.PrimBool:    TagBool,
	ast.PrimInt8:    TagInt8,
	ast.PrimInt16:   TagInt16,
	ast.PrimInt32:   TagInt32,
	ast.PrimInt64:   TagInt64,
	ast.PrimUInt8:   TagUInt8,
	ast.PrimUInt16:  TagUInt16,
	ast.PrimUInt32:  TagUInt32,
	ast.PrimUInt64:  TagUInt64,
	ast.PrimFloat32: TagFloat32,
	ast.PrimFloat64: TagFloat64,
	ast.PrimText:    TagText,
	ast.PrimData:    TagData,
}

func (b *irBuilder) typeRef(typeID ast.TypeID) TypeRef {
	if !typeID.IsValid() {
		return TypeRef{Tag: TagVoid}
	}
	t := b.builder.Type(typeID)
	switch t.Kind {
	case ast.TypePrimitive:
		return TypeRef{Tag: primTags[t.Prim]}
	case ast.TypeList:
		elem := b.typeRef(t.Elem)
		return TypeRef{Tag: TagList, Elem: &elem}
	case ast.TypeOptional:
		elem := b.typeRef(t.Elem)
		return TypeRef{Tag: TagOptional, Elem: &elem}
	case ast.TypeMap:
		key := b.typeRef(t.Key)
		val := b.typeRef(t.Val)
		return TypeRef{Tag: TagMap, Key: &key, Val: &val}
	case ast.TypeNamed:
		if !t.Decl.IsValid() {
			return TypeRef{Tag: TagVoid}
		}
		name := b.builder.QualifiedName(t.Decl)
		switch b.builder.Decl(t.Decl).Kind {
		case ast.DeclEnum:
			return TypeRef{Tag: TagEnum, Name: name}
		case ast.DeclInterface:
			return TypeRef{Tag: TagInterface, Name: name}
		default:
			return TypeRef{Tag: TagStruct, Name: name}
		}
	default:
		return TypeRef{Tag: TagVoid}
	}
}

// StableID hashes a key to a 64-bit identity with the high bit forced, so
// IDs never collide with small hand-written values.
func StableID(key string) uint64 {
	const (
		fnvOffset64 = 14695981039346656037
		fnvPrime64  = 1099511628211
	)
	hash := uint64(fnvOffset64)
	for i := 0; i < len(key); i++ {
		hash ^= uint64(key[i])
		hash *= fnvPrime64
	}
	return hash | (1 << 63)
}
