package gen

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// snake converts a Go identifier to snake_case. An underscore goes between a
// lower-case letter or digit and the next upper-case letter, and before the
// last letter of an acronym followed by a lower-case word. A trailing
// plural "s" stays with its acronym:
//
//	FullName  full_name
//	HTTPCode  http_code
//	UserIDs   user_ids
//	already_x already_x
func snake(s string) string {
	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(s) + 4)
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			switch {
			case prev == '_':
			case unicode.IsLower(prev) || unicode.IsDigit(prev):
				b.WriteByte('_')
			case unicode.IsUpper(prev) && i+1 < len(runes) && unicode.IsLower(runes[i+1]) && !pluralSuffix(runes, i+1):
				b.WriteByte('_')
			}
		}
		b.WriteRune(r)
	}
	// Casers keep state and are not shared between goroutines.
	return cases.Lower(language.Und).String(b.String())
}

// pluralSuffix reports whether runes[i] is a lone "s" closing a word.
func pluralSuffix(runes []rune, i int) bool {
	return runes[i] == 's' && (i+1 == len(runes) || !unicode.IsLower(runes[i+1]))
}

// words splits an identifier into lower-case words separated by spaces.
func words(s string) string {
	return strings.ReplaceAll(snake(s), "_", " ")
}
