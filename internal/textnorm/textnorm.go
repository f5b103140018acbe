// Package textnorm provides the accent- and case-folding used by every
// text-matching operation over the norm: search terms, index filters and
// vide resolution all compare folded text, while highlighting must still
// operate on the original accented source.
package textnorm

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var foldTransformer = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// Normalize decomposes s, strips combining diacritics and lower-cases the
// result. It is pure and idempotent.
func Normalize(s string) string {
	folded, _, err := transform.String(foldTransformer, s)
	if err != nil {
		// The chain cannot fail on valid UTF-8; fall back to the input.
		folded = s
	}
	return strings.ToLower(folded)
}

// accentClasses maps each ASCII letter to the class of diacritic-bearing
// variants that occur in Portuguese legal text.
var accentClasses = map[rune]string{
	'a': "aáàâãä",
	'e': "eéèêë",
	'i': "iíìîï",
	'o': "oóòôõö",
	'u': "uúùûü",
	'c': "cç",
	'n': "nñ",
	'y': "yýÿ",
}

// BuildAccentInsensitivePattern expands term into a regular expression
// fragment that matches the term against non-normalized source text: each
// plain ASCII letter also matches its accented variants, so occurrences can
// be located (and highlighted) in the original text without folding it.
// The returned fragment carries no anchors or flags.
func BuildAccentInsensitivePattern(term string) string {
	var b strings.Builder
	for _, r := range term {
		if class, ok := accentClasses[unicode.ToLower(r)]; ok {
			b.WriteByte('[')
			b.WriteString(class)
			b.WriteString(strings.ToUpper(class))
			b.WriteByte(']')
			continue
		}
		b.WriteString(regexp.QuoteMeta(string(r)))
	}
	return b.String()
}

// CompilePattern compiles the accent-insensitive expansion of term as a
// case-insensitive regexp.
func CompilePattern(term string) (*regexp.Regexp, error) {
	return regexp.Compile("(?i)" + BuildAccentInsensitivePattern(term))
}
