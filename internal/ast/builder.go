package ast

import (
	"zapc/internal/source"
)

// Builder owns the arenas for one parse. One Builder may hold many files;
// handles are only meaningful within their Builder.
type Builder struct {
	Files   *Arena[File]
	Decls   *Arena[Decl]
	Fields  *Arena[Field]
	Methods *Arena[Method]
	Types   *Arena[Type]
	Imports *Arena[Import]
}

// NewBuilder creates a Builder with per-kind arenas sized to capHint.
// If capHint is 0 a small default is used.
func NewBuilder(capHint uint) *Builder {
	if capHint == 0 {
		capHint = 1 << 6
	}
	return &Builder{
		Files:   NewArena[File](4),
		Decls:   NewArena[Decl](capHint),
		Fields:  NewArena[Field](capHint),
		Methods: NewArena[Method](capHint / 2),
		Types:   NewArena[Type](capHint),
		Imports: NewArena[Import](8),
	}
}

// NewFile allocates a File node and returns its handle.
func (b *Builder) NewFile(src source.FileID, span source.Span) FileID {
	return FileID(b.Files.Allocate(File{
		Span:   span,
		Source: src,
		Items:  make([]Item, 0, 8),
	}))
}

func (b *Builder) File(id FileID) *File       { return b.Files.Get(uint32(id)) }
func (b *Builder) Decl(id DeclID) *Decl       { return b.Decls.Get(uint32(id)) }
func (b *Builder) Field(id FieldID) *Field    { return b.Fields.Get(uint32(id)) }
func (b *Builder) Method(id MethodID) *Method { return b.Methods.Get(uint32(id)) }
func (b *Builder) Type(id TypeID) *Type       { return b.Types.Get(uint32(id)) }
func (b *Builder) Import(id ImportID) *Import { return b.Imports.Get(uint32(id)) }

// AddDecl allocates a declaration and returns its handle.
func (b *Builder) AddDecl(d Decl) DeclID {
	return DeclID(b.Decls.Allocate(d))
}

// AddField allocates a field and returns its handle.
func (b *Builder) AddField(f Field) FieldID {
	return FieldID(b.Fields.Allocate(f))
}

// AddMethod allocates a method and returns its handle.
func (b *Builder) AddMethod(m Method) MethodID {
	return MethodID(b.Methods.Allocate(m))
}

// AddType allocates a type expression and returns its handle.
func (b *Builder) AddType(t Type) TypeID {
	return TypeID(b.Types.Allocate(t))
}

// AddImport allocates an import and returns its handle.
func (b *Builder) AddImport(i Import) ImportID {
	return ImportID(b.Imports.Allocate(i))
}

// QualifiedName returns the dot-joined path of a declaration from its
// outermost ancestor.
func (b *Builder) QualifiedName(id DeclID) string {
	d := b.Decl(id)
	if d == nil {
		return ""
	}
	if !d.Parent.IsValid() {
		return d.Name
	}
	return b.QualifiedName(d.Parent) + "." + d.Name
}
