package inventory

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Category groups equipment by kind for display.
type Category string

const (
	Helmet Category = "helmet"
	Cap    Category = "cap"
	Shirt  Category = "shirt"
	Pants  Category = "pants"
	Boots  Category = "boots"
	Baton  Category = "baton"
	Belt   Category = "belt"
	Radio  Category = "radio"
	Other  Category = "other"
)

var categories = map[string]Category{
	"capacete":     Helmet,
	"bone":         Cap,
	"gandola":      Shirt,
	"camisa":       Shirt,
	"calca":        Pants,
	"coturno":      Boots,
	"tonfa":        Baton,
	"cinto":        Belt,
	"cinto tatico": Belt,
	"radio":        Radio,
}

// Key lower-cases nome, trims it and strips accents: "Cinto Tático " -> "cinto tatico".
func Key(nome string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, strings.ToLower(strings.TrimSpace(nome)))
	if err != nil {
		return strings.ToLower(strings.TrimSpace(nome))
	}
	return out
}

// CategoryOf maps an equipment name to its category.
func CategoryOf(nome string) Category {
	if c, ok := categories[Key(nome)]; ok {
		return c
	}
	return Other
}
