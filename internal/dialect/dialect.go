package dialect

import "fmt"

// Kind identifies one of the two concrete schema syntaxes.
type Kind uint8

const (
	Unknown Kind = iota
	// Clean is the whitespace-significant dialect (.zap). Blocks are
	// defined by indentation; no colons or semicolons.
	Clean
	// Legacy is the punctuated dialect (.capnp): braces, semicolons,
	// explicit @N ordinals, file-ID annotations.
	Legacy

	kindCount
)

func (k Kind) String() string {
	switch k {
	case Clean:
		return "clean"
	case Legacy:
		return "legacy"
	default:
		return "unknown"
	}
}

func (k Kind) GoString() string {
	return fmt.Sprintf("dialect.Kind(%s)", k.String())
}
