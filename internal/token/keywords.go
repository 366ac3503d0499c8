package token

var keywords = map[string]Kind{
	"package":     KwPackage,
	"part":        KwPart,
	"item":        KwItem,
	"attribute":   KwAttribute,
	"port":        KwPort,
	"action":      KwAction,
	"connection":  KwConnection,
	"interface":   KwInterface,
	"requirement": KwRequirement,
	"constraint":  KwConstraint,
	"state":       KwState,
	"calc":        KwCalc,
	"enum":        KwEnum,
	"def":         KwDef,
	"import":      KwImport,
	"alias":       KwAlias,
	"for":         KwFor,
	"public":      KwPublic,
	"private":     KwPrivate,
	"ref":         KwRef,
	"specializes": KwSpecializes,
	"subsets":     KwSubsets,
	"doc":         KwDoc,
}

// LookupKeyword reports whether ident is a reserved word and which kind.
// Keywords are case sensitive; only the lowercase spellings are reserved.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}
