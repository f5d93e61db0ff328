// Package format turns raw roster fields into their display form.
package format

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Digits returns s with every non-digit removed.
func Digits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// CPF renders an 11-digit CPF as XXX.XXX.XXX-XX. Any other digit count is
// returned as the bare digits.
func CPF(s string) string {
	d := Digits(s)
	if len(d) != 11 {
		return d
	}
	return d[0:3] + "." + d[3:6] + "." + d[6:9] + "-" + d[9:11]
}

// connectives stay lower-case unless they open the name.
var connectives = map[string]bool{
	"da": true, "das": true, "de": true, "do": true, "dos": true, "e": true,
}

// Name collapses whitespace and capitalizes each word, e.g.
// "  MARIA  DA silva" -> "Maria da Silva".
func Name(s string) string {
	words := strings.FieldsFunc(s, unicode.IsSpace)
	if len(words) == 0 {
		return ""
	}
	lower := cases.Lower(language.BrazilianPortuguese)
	title := cases.Title(language.BrazilianPortuguese)
	for i, w := range words {
		lw := lower.String(w)
		if i > 0 && connectives[lw] {
			words[i] = lw
			continue
		}
		words[i] = title.String(lw)
	}
	return strings.Join(words, " ")
}
