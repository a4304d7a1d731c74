package ast

import (
	"zapc/internal/source"
)

// Param is one parameter or result of an interface method.
type Param struct {
	Name string
	Span source.Span
	Type TypeID
}

// Method is an interface member.
type Method struct {
	Name     string
	Span     source.Span
	NameSpan source.Span

	Params  []Param
	Results []Param

	// Ordinal is the explicit @N from the source, or NoOrdinal.
	Ordinal     int32
	OrdinalSpan source.Span
}

// HasOrdinal reports whether the method carries an explicit wire ordinal.
func (m *Method) HasOrdinal() bool { return m.Ordinal != NoOrdinal }
