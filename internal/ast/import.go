package ast

import (
	"zapc/internal/source"
)

// Import is a file-level 'using import "path"' or
// 'using Alias = import "path"'.
type Import struct {
	Alias    string // "" when unaliased
	Path     string // as written, relative to the importing file
	Span     source.Span
	PathSpan source.Span
}
