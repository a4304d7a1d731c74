package lexer_test

import (
	"testing"

	"zapc/internal/diag"
	"zapc/internal/dialect"
	"zapc/internal/lexer"
	"zapc/internal/source"
	"zapc/internal/token"
)

func makeTestLexer(input string, kind dialect.Kind) (*lexer.Lexer, *diag.Bag) {
	fs := source.NewFileSet()
	name := "test.zap"
	if kind == dialect.Legacy {
		name = "test.capnp"
	}
	fileID := fs.AddVirtual(name, []byte(input))
	file := fs.Get(fileID)

	bag := diag.NewBag(16)
	lx := lexer.New(file, kind, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
	return lx, bag
}

func collectKinds(lx *lexer.Lexer) []token.Kind {
	kinds := make([]token.Kind, 0, 32)
	for {
		tok := lx.Next()
		kinds = append(kinds, tok.Kind)
		if tok.Kind == token.EOF {
			return kinds
		}
	}
}

func kindsEqual(got, want []token.Kind) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func TestCleanStructTokens(t *testing.T) {
	lx, bag := makeTestLexer("struct Person\n  name Text\n  age UInt32\n", dialect.Clean)

	want := []token.Kind{
		token.KwStruct, token.Ident, token.Newline,
		token.BlockOpen,
		token.Ident, token.Ident, token.Newline,
		token.Ident, token.Ident, token.Newline,
		token.BlockClose,
		token.EOF,
	}
	got := collectKinds(lx)
	if !kindsEqual(got, want) {
		t.Errorf("kinds = %v, want %v", got, want)
	}
	if bag.HasErrors() {
		t.Errorf("unexpected diagnostics: %v", bag.Items())
	}
}

func TestCleanNestedBlocks(t *testing.T) {
	input := "struct Outer\n  value Text\n  struct Inner\n    x Int32\n  y Bool\n"
	lx, bag := makeTestLexer(input, dialect.Clean)

	opens, closes := 0, 0
	for {
		tok := lx.Next()
		switch tok.Kind {
		case token.BlockOpen:
			opens++
		case token.BlockClose:
			closes++
		}
		if tok.Kind == token.EOF {
			break
		}
	}
	if opens != 2 || closes != 2 {
		t.Errorf("opens = %d closes = %d, want 2/2", opens, closes)
	}
	if bag.HasErrors() {
		t.Errorf("unexpected diagnostics: %v", bag.Items())
	}
}

func TestCleanBlankAndCommentLines(t *testing.T) {
	input := "struct A\n\n  # comment inside\n  x Int32\n"
	lx, bag := makeTestLexer(input, dialect.Clean)

	got := collectKinds(lx)
	want := []token.Kind{
		token.KwStruct, token.Ident, token.Newline,
		token.Comment, token.Newline,
		token.BlockOpen,
		token.Ident, token.Ident, token.Newline,
		token.BlockClose,
		token.EOF,
	}
	if !kindsEqual(got, want) {
		t.Errorf("kinds = %v, want %v", got, want)
	}
	if bag.HasErrors() {
		t.Errorf("unexpected diagnostics: %v", bag.Items())
	}
}

func TestCleanBadDedent(t *testing.T) {
	input := "struct A\n    x Int32\n  y Int32\n"
	lx, bag := makeTestLexer(input, dialect.Clean)
	collectKinds(lx)

	if !bag.HasErrors() {
		t.Fatal("expected an indentation diagnostic")
	}
	d, _ := bag.FirstError()
	if d.Code != diag.LexBadIndent {
		t.Errorf("code = %v, want LexBadIndent", d.Code)
	}
}

func TestCleanEOFClosesBlocks(t *testing.T) {
	lx, _ := makeTestLexer("struct A\n  x Int32", dialect.Clean)
	got := collectKinds(lx)
	want := []token.Kind{
		token.KwStruct, token.Ident, token.Newline,
		token.BlockOpen,
		token.Ident, token.Ident,
		token.BlockClose,
		token.EOF,
	}
	if !kindsEqual(got, want) {
		t.Errorf("kinds = %v, want %v", got, want)
	}
}

func TestLegacyStructTokens(t *testing.T) {
	input := "struct Person {\n  name @0 :Text;\n}"
	lx, bag := makeTestLexer(input, dialect.Legacy)

	want := []token.Kind{
		token.KwStruct, token.Ident, token.LBrace,
		token.Ident, token.Ordinal, token.Colon, token.Ident, token.Semicolon,
		token.RBrace,
		token.EOF,
	}
	got := collectKinds(lx)
	if !kindsEqual(got, want) {
		t.Errorf("kinds = %v, want %v", got, want)
	}
	if bag.HasErrors() {
		t.Errorf("unexpected diagnostics: %v", bag.Items())
	}
}

func TestOrdinalText(t *testing.T) {
	lx, _ := makeTestLexer("x @3 :Int32;", dialect.Legacy)
	lx.Next() // x
	tok := lx.Next()
	if tok.Kind != token.Ordinal || tok.Text != "3" {
		t.Errorf("ordinal = %v %q, want Ordinal \"3\"", tok.Kind, tok.Text)
	}
}

func TestFileIDAnnotation(t *testing.T) {
	lx, bag := makeTestLexer("@0x9eb32e19f86ee174;", dialect.Legacy)
	tok := lx.Next()
	if tok.Kind != token.Ordinal || tok.Text != "0x9eb32e19f86ee174" {
		t.Errorf("got %v %q, want hex ordinal", tok.Kind, tok.Text)
	}
	if bag.HasErrors() {
		t.Errorf("unexpected diagnostics: %v", bag.Items())
	}
}

func TestStringAndNumberLiterals(t *testing.T) {
	input := `host Text = "localhost"` + "\nport UInt16 = 9999\nratio Float64 = 0.5\noffset Int32 = -7\n"
	lx, bag := makeTestLexer(input, dialect.Clean)

	var lits []token.Token
	for {
		tok := lx.Next()
		if tok.Kind == token.EOF {
			break
		}
		if tok.IsLiteral() {
			lits = append(lits, tok)
		}
	}
	if len(lits) != 4 {
		t.Fatalf("literal count = %d, want 4", len(lits))
	}
	if lits[0].Kind != token.StringLit || lits[0].Text != `"localhost"` {
		t.Errorf("lit 0 = %v %q", lits[0].Kind, lits[0].Text)
	}
	if lits[1].Kind != token.IntLit || lits[1].Text != "9999" {
		t.Errorf("lit 1 = %v %q", lits[1].Kind, lits[1].Text)
	}
	if lits[2].Kind != token.FloatLit || lits[2].Text != "0.5" {
		t.Errorf("lit 2 = %v %q", lits[2].Kind, lits[2].Text)
	}
	if lits[3].Kind != token.IntLit || lits[3].Text != "-7" {
		t.Errorf("lit 3 = %v %q", lits[3].Kind, lits[3].Text)
	}
	if bag.HasErrors() {
		t.Errorf("unexpected diagnostics: %v", bag.Items())
	}
}

func TestUnterminatedString(t *testing.T) {
	lx, bag := makeTestLexer(`name Text = "oops`+"\n", dialect.Clean)
	collectKinds(lx)
	d, ok := bag.FirstError()
	if !ok || d.Code != diag.LexUnterminatedString {
		t.Errorf("want LexUnterminatedString, got %v", bag.Items())
	}
}

func TestMethodArrow(t *testing.T) {
	lx, _ := makeTestLexer("sayHello (name Text) -> (greeting Text)\n", dialect.Clean)
	sawArrow := false
	for {
		tok := lx.Next()
		if tok.Kind == token.Arrow {
			sawArrow = true
		}
		if tok.Kind == token.EOF {
			break
		}
	}
	if !sawArrow {
		t.Error("expected an Arrow token")
	}
}
