package ast

import (
	"zapc/internal/source"
)

// ValueKind discriminates literal default values.
type ValueKind uint8

const (
	ValueNone ValueKind = iota
	ValueInt
	ValueFloat
	ValueString
	ValueBool
	// ValueName is a bare identifier default (an enumerant).
	ValueName
)

// Value is a literal default, kept as source text plus a shape tag.
// Deep checking against the resolved type happens in the resolver.
type Value struct {
	Kind ValueKind
	Text string
	Span source.Span
}

// IsSet reports whether a default was written in the source.
func (v Value) IsSet() bool { return v.Kind != ValueNone }

// NoOrdinal marks a member without an explicit @N.
const NoOrdinal int32 = -1

// Field is a struct or union member.
type Field struct {
	Name     string
	Span     source.Span
	NameSpan source.Span

	Type    TypeID
	Default Value

	// Ordinal is the explicit @N from the source, or NoOrdinal. The
	// layout assigner fills positional ordinals later.
	Ordinal     int32
	OrdinalSpan source.Span
}

// HasOrdinal reports whether the field carries an explicit wire ordinal.
func (f *Field) HasOrdinal() bool { return f.Ordinal != NoOrdinal }
