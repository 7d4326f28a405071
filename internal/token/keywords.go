package token

var keywords = map[string]Kind{
	"bitflags": KwBitflags,
	"package":  KwPackage,
}

// LookupKeyword reports whether ident is a keyword of the declaration
// language. Keywords are case-sensitive.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}
