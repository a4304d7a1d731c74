package ast

type (
	// FileID identifies a parsed schema file in a Builder.
	FileID uint32
	// DeclID identifies a struct/enum/union/interface/const declaration.
	DeclID uint32
	// FieldID identifies a field inside a struct or union.
	FieldID uint32
	// MethodID identifies an interface method.
	MethodID uint32
	// TypeID identifies a type expression.
	TypeID uint32
	// ImportID identifies a 'using import' item.
	ImportID uint32
)

const (
	NoFileID   FileID   = 0
	NoDeclID   DeclID   = 0
	NoFieldID  FieldID  = 0
	NoMethodID MethodID = 0
	NoTypeID   TypeID   = 0
	NoImportID ImportID = 0
)

func (id FileID) IsValid() bool   { return id != NoFileID }
func (id DeclID) IsValid() bool   { return id != NoDeclID }
func (id FieldID) IsValid() bool  { return id != NoFieldID }
func (id MethodID) IsValid() bool { return id != NoMethodID }
func (id TypeID) IsValid() bool   { return id != NoTypeID }
func (id ImportID) IsValid() bool { return id != NoImportID }
