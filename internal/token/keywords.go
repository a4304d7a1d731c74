package token

// keywords maps source text to keyword kinds. Keywords are case-sensitive
// and lowercase only; "Struct" is an identifier.
var keywords = map[string]Kind{
	"struct":    KwStruct,
	"enum":      KwEnum,
	"union":     KwUnion,
	"interface": KwInterface,
	"extends":   KwExtends,
	"const":     KwConst,
	"using":     KwUsing,
	"import":    KwImport,
	"true":      KwTrue,
	"false":     KwFalse,
}

// LookupKeyword returns the keyword kind for text, if any.
func LookupKeyword(text string) (Kind, bool) {
	k, ok := keywords[text]
	return k, ok
}
