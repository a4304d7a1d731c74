// Package codegen renders a compiled schema into source code for a
// target language. Backends are pure functions over the immutable IR, so
// the driver is free to run them concurrently.
package codegen

import (
	"fmt"

	"zapc/internal/ir"
)

// Backend renders one schema into one generated source file.
type Backend func(*ir.Schema) ([]byte, error)

// UnknownTargetError names a target no backend claims.
type UnknownTargetError struct {
	Target string
}

func (e *UnknownTargetError) Error() string {
	return fmt.Sprintf("unknown code generation target %q (known: %s)", e.Target, TargetList())
}

// UnsupportedTypeError marks a schema type the target cannot express.
type UnsupportedTypeError struct {
	Target string
	Decl   string
	Tag    ir.TypeTag
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("%s: type in %q is not supported by the %s target", e.Target, e.Decl, e.Target)
}

var backends = map[string]Backend{
	"go":         GenerateGo,
	"rust":       GenerateRust,
	"typescript": GenerateTypeScript,
}

// Extensions maps each target to its output file extension.
var Extensions = map[string]string{
	"go":         ".zap.go",
	"rust":       ".zap.rs",
	"typescript": ".zap.ts",
}

// For returns the backend for a target tag.
func For(target string) (Backend, error) {
	b, ok := backends[target]
	if !ok {
		return nil, &UnknownTargetError{Target: target}
	}
	return b, nil
}

// TargetList returns the known target tags for error messages and help
// text, in stable order.
func TargetList() string {
	return "go, rust, typescript"
}
