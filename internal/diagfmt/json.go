package diagfmt

import (
	"encoding/json"
	"io"
	"path/filepath"

	"zapc/internal/diag"
	"zapc/internal/source"
)

// jsonDiagnostic is the stable machine-readable shape of one
// diagnostic. Line and Col are omitted for unlocated diagnostics.
type jsonDiagnostic struct {
	Severity string     `json:"severity"`
	Code     string     `json:"code"`
	Message  string     `json:"message"`
	File     string     `json:"file,omitempty"`
	Line     uint32     `json:"line,omitempty"`
	Col      uint32     `json:"col,omitempty"`
	Notes    []jsonNote `json:"notes,omitempty"`
}

type jsonNote struct {
	Message string `json:"message"`
	File    string `json:"file,omitempty"`
	Line    uint32 `json:"line,omitempty"`
	Col     uint32 `json:"col,omitempty"`
}

// JSON writes the bag as a JSON array, one object per diagnostic.
func JSON(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	items := bag.Items()
	if opts.Max > 0 && len(items) > opts.Max {
		items = items[:opts.Max]
	}

	out := make([]jsonDiagnostic, 0, len(items))
	for _, d := range items {
		jd := jsonDiagnostic{
			Severity: d.Severity.String(),
			Code:     d.Code.ID(),
			Message:  d.Message,
		}
		jd.File, jd.Line, jd.Col = position(fs, d.Primary, opts.PathMode)
		for _, n := range d.Notes {
			jn := jsonNote{Message: n.Msg}
			jn.File, jn.Line, jn.Col = position(fs, n.Span, opts.PathMode)
			jd.Notes = append(jd.Notes, jn)
		}
		out = append(out, jd)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func position(fs *source.FileSet, sp source.Span, mode PathMode) (string, uint32, uint32) {
	if !located(sp) {
		return "", 0, 0
	}
	start, _ := fs.Resolve(sp)
	path := fs.Get(sp.File).Path
	if mode == PathModeBasename {
		path = filepath.Base(path)
	}
	return path, start.Line, start.Col
}
