// Package migrate converts legacy punctuated schemas to the clean
// dialect. The conversion is the canonical formatter with one guarantee
// on top: every explicit @N ordinal survives, so compiling the migrated
// file reproduces the exact wire layout of the original.
package migrate

import (
	"zapc/internal/ast"
	"zapc/internal/diag"
	"zapc/internal/dialect"
	"zapc/internal/format"
	"zapc/internal/parser"
	"zapc/internal/source"
)

// File parses src as the legacy dialect and renders clean text.
func File(src *source.File, builder *ast.Builder, reporter diag.Reporter) ([]byte, bool) {
	fileID, ok := parser.ParseFile(src, dialect.Legacy, builder, reporter)
	if !ok {
		return nil, false
	}
	out, err := format.FormatFile(builder, fileID, format.Options{})
	if err != nil {
		return nil, false
	}
	return out, true
}
