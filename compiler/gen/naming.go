package gen

import (
	"go/token"
	"go/types"
	"strings"
	"unicode"

	"github.com/go-openapi/inflect"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.Und, cases.NoLower)

// exported capitalizes the first word of an identifier.
func exported(name string) string {
	if name == "" {
		return ""
	}
	return titleCaser.String(name[:1]) + name[1:]
}

// fieldIdent derives a field identifier from an accessor name: the leading
// initialism (or first rune) is lowercased, so ID becomes id and HTTPCode
// becomes httpCode.
func fieldIdent(accessor string) string {
	if accessor == "" {
		return ""
	}
	runes := []rune(accessor)
	n := 0
	for n < len(runes) && unicode.IsUpper(runes[n]) {
		n++
	}
	switch {
	case n == 0:
		return accessor
	case n == len(runes):
		// All upper: ID -> id.
		return strings.ToLower(accessor)
	case n == 1:
		return string(unicode.ToLower(runes[0])) + string(runes[1:])
	default:
		// Leading initialism followed by a word: lowercase up to the rune
		// that starts the next word. HTTPCode -> httpCode.
		return strings.ToLower(string(runes[:n-1])) + string(runes[n-1:])
	}
}

// structField returns the struct field name for a schema field, prefixing
// it when it would collide with a Go keyword or be exported.
func structField(name string) string {
	if token.Lookup(name).IsKeyword() || (name != "" && unicode.IsUpper([]rune(name)[0])) {
		return "_" + name
	}
	return name
}

// singular returns the singular form of a plural field name for use in
// add/put convenience methods. The second result is false when no
// convenience method should be generated: when singularization leaves the
// name unchanged, when the singular is a Go keyword, or when it collides
// with a predeclared identifier (string, error, len, ...). Ambiguity is
// skipped silently; only the plural-form mutators are generated then.
func singular(name string) (string, bool) {
	s := inflect.Singularize(name)
	if s == "" || s == name {
		return "", false
	}
	if token.Lookup(s).IsKeyword() {
		return "", false
	}
	if types.Universe.Lookup(s) != nil {
		return "", false
	}
	return s, true
}
