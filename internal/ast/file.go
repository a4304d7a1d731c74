package ast

import (
	"zapc/internal/dialect"
	"zapc/internal/source"
)

// ItemKind discriminates ordered top-level items of a file.
type ItemKind uint8

const (
	ItemImport ItemKind = iota
	ItemDecl
	ItemComment
)

// Item preserves top-level source order for the formatter and migrator.
type Item struct {
	Kind   ItemKind
	Span   source.Span
	Import ImportID
	Decl   DeclID
	// Comment text without the leading '#'.
	Comment string
}

// File is one parsed schema file.
type File struct {
	Span    source.Span
	Source  source.FileID
	Dialect dialect.Kind
	Items   []Item
}

// Imports returns the file's import items in order.
func (f *File) Imports() []ImportID {
	out := make([]ImportID, 0, 4)
	for _, it := range f.Items {
		if it.Kind == ItemImport {
			out = append(out, it.Import)
		}
	}
	return out
}

// Decls returns the file's top-level declaration IDs in order.
func (f *File) Decls() []DeclID {
	out := make([]DeclID, 0, len(f.Items))
	for _, it := range f.Items {
		if it.Kind == ItemDecl {
			out = append(out, it.Decl)
		}
	}
	return out
}
