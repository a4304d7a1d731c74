// Package diagfmt renders diagnostics for humans and machines: an
// annotated source-line format for terminals, a JSON array for tooling,
// and a styled summary for directory-wide checks.
package diagfmt

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeFull prints paths as stored in the file set.
	PathModeFull PathMode = iota
	// PathModeBasename prints only the file name.
	PathModeBasename
)

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color     bool
	ShowNotes bool
	PathMode  PathMode
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	PathMode PathMode
	// Max truncates the output, not the bag; 0 means everything.
	Max int
}
