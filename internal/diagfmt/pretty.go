package diagfmt

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"zapc/internal/diag"
	"zapc/internal/source"
)

type palette struct {
	err  *color.Color
	warn *color.Color
	info *color.Color
	bold *color.Color
	dim  *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:  color.New(color.FgRed, color.Bold),
		warn: color.New(color.FgYellow, color.Bold),
		info: color.New(color.FgCyan),
		bold: color.New(color.Bold),
		dim:  color.New(color.Faint),
	}
	if !enabled {
		for _, c := range []*color.Color{p.err, p.warn, p.info, p.bold, p.dim} {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty renders each diagnostic as
//
//	path:line:col: SEVERITY[CODE]: message
//
// followed by the source line with a caret underline, then any notes.
// Callers should bag.Sort() first for stable output.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	p := newPalette(opts.Color)
	for _, d := range bag.Items() {
		printHeader(w, fs, p, d.Primary, d.Severity, fmt.Sprintf("%s[%s]", d.Severity, d.Code.ID()), d.Message, opts)
		printContext(w, fs, p, d.Primary)
		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			printHeader(w, fs, p, n.Span, diag.SevInfo, "note", n.Msg, opts)
			printContext(w, fs, p, n.Span)
		}
	}
}

// located reports whether the span points into real source. Evolution
// diagnostics compare descriptors, not files, and carry a zero span.
func located(sp source.Span) bool {
	return sp != (source.Span{})
}

func printHeader(w io.Writer, fs *source.FileSet, p palette, sp source.Span, sev diag.Severity, label, msg string, opts PrettyOpts) {
	tag := p.severity(sev).Sprint(label)
	if !located(sp) {
		fmt.Fprintf(w, "%s: %s\n", tag, p.bold.Sprint(msg))
		return
	}
	start, _ := fs.Resolve(sp)
	path := fs.Get(sp.File).Path
	if opts.PathMode == PathModeBasename {
		path = filepath.Base(path)
	}
	fmt.Fprintf(w, "%s:%d:%d: %s: %s\n", path, start.Line, start.Col, tag, p.bold.Sprint(msg))
}

// printContext shows the offending line and underlines the span. The
// underline is positioned by display width, so tabs and wide runes
// stay aligned.
func printContext(w io.Writer, fs *source.FileSet, p palette, sp source.Span) {
	if !located(sp) {
		return
	}
	start, end := fs.Resolve(sp)
	file := fs.Get(sp.File)
	line := file.GetLine(start.Line)
	if line == "" && start.Line != 1 {
		return
	}

	prefix := fmt.Sprintf("%5d | ", start.Line)
	fmt.Fprintf(w, "%s%s\n", p.dim.Sprint(prefix), line)

	pad := displayWidth(line, int(start.Col)-1)
	width := 1
	if end.Line == start.Line && end.Col > start.Col {
		width = displayWidth(line[min(int(start.Col)-1, len(line)):], int(end.Col-start.Col))
	}
	marker := strings.Repeat(" ", pad) + "^" + strings.Repeat("~", max(width-1, 0))
	fmt.Fprintf(w, "%s%s\n", p.dim.Sprint("      | "), p.err.Sprint(marker))
}

// displayWidth measures the terminal width of the first n bytes of s.
func displayWidth(s string, n int) int {
	if n > len(s) {
		n = len(s)
	}
	if n < 0 {
		n = 0
	}
	return runewidth.StringWidth(s[:n])
}
