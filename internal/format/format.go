// Package format renders a parsed schema file as canonical clean-dialect
// text. The output is idempotent: formatting already-formatted text is a
// fixed point, and reparsing the output yields the same AST modulo spans.
package format

import (
	"errors"

	"zapc/internal/ast"
)

// Options control the canonical rendering.
type Options struct {
	// IndentWidth is the number of spaces per nesting level.
	IndentWidth int
}

func (o Options) withDefaults() Options {
	if o.IndentWidth == 0 {
		o.IndentWidth = 2
	}
	return o
}

// FormatFile renders one parsed file. Explicit ordinals are kept as
// written, so a migrated legacy file keeps its wire layout across a
// reformat.
func FormatFile(builder *ast.Builder, fileID ast.FileID, opt Options) ([]byte, error) {
	if builder == nil {
		return nil, errors.New("format: nil builder")
	}
	if !fileID.IsValid() {
		return nil, errors.New("format: invalid file id")
	}
	file := builder.File(fileID)
	if file == nil {
		return nil, errors.New("format: missing ast file")
	}

	pr := printer{
		builder: builder,
		file:    file,
		opt:     opt.withDefaults(),
	}
	pr.printFile()
	return pr.buf, nil
}

type printer struct {
	builder *ast.Builder
	file    *ast.File
	opt     Options
	buf     []byte
	level   int
}

func (p *printer) write(s string) {
	p.buf = append(p.buf, s...)
}

func (p *printer) line(s string) {
	for i := 0; i < p.level*p.opt.IndentWidth; i++ {
		p.buf = append(p.buf, ' ')
	}
	p.write(s)
	p.buf = append(p.buf, '\n')
}

func (p *printer) blank() {
	if n := len(p.buf); n >= 2 && !(p.buf[n-1] == '\n' && p.buf[n-2] == '\n') {
		p.buf = append(p.buf, '\n')
	}
}

// printFile walks the top-level items in source order. Declarations get
// one blank line between them; comments and imports stay adjacent to
// whatever follows them.
func (p *printer) printFile() {
	prevKind := ast.ItemComment
	for i, item := range p.file.Items {
		switch item.Kind {
		case ast.ItemComment:
			if i > 0 && prevKind == ast.ItemDecl {
				p.blank()
			}
			p.line("# " + item.Comment)
		case ast.ItemImport:
			if i > 0 && prevKind == ast.ItemDecl {
				p.blank()
			}
			p.printImport(item.Import)
		case ast.ItemDecl:
			// Comments stay attached to the declaration they precede.
			if i > 0 && prevKind != ast.ItemComment {
				p.blank()
			}
			p.printDecl(item.Decl)
		}
		prevKind = item.Kind
	}
}

func (p *printer) printImport(id ast.ImportID) {
	imp := p.builder.Import(id)
	if imp.Alias != "" {
		p.line("using " + imp.Alias + " = import " + quote(imp.Path))
		return
	}
	p.line("using import " + quote(imp.Path))
}

func quote(s string) string {
	out := make([]byte, 0, len(s)+2)
	out = append(out, '"')
	for i := 0; i < len(s); i++ {
		if s[i] == '"' || s[i] == '\\' {
			out = append(out, '\\')
		}
		out = append(out, s[i])
	}
	out = append(out, '"')
	return string(out)
}
