package codegen

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// titler capitalizes the first letter of a segment without touching the
// rest, so acronym-style names survive (userID -> UserID).
var titler = cases.Title(language.English, cases.NoLower)

// typeName flattens a qualified declaration name (Outer.Inner) into one
// exported identifier (OuterInner).
func typeName(qualified string) string {
	parts := strings.Split(qualified, ".")
	var b strings.Builder
	for _, p := range parts {
		b.WriteString(titler.String(p))
	}
	return b.String()
}

// exported upper-cases the first letter of a member name.
func exported(name string) string {
	return titler.String(name)
}

// snake converts a camelCase member name to snake_case.
func snake(name string) string {
	var b strings.Builder
	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// camel lower-cases the first letter of a member name.
func camel(name string) string {
	if name == "" {
		return name
	}
	return strings.ToLower(name[:1]) + name[1:]
}
