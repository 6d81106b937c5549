package languageutil

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// NormalizeEnum turns a model answer like " T-Shirt " into "t-shirt".
// Casers are stateful, so each call gets its own.
func NormalizeEnum(value string) string {
	return cases.Lower(language.English).String(strings.TrimSpace(value))
}

// Plural is the naive English plural used in generated reasons: "hoodie" ->
// "hoodies", "dress" -> "dresses", "pants" stays.
func Plural(noun string) string {
	switch {
	case strings.HasSuffix(noun, "ss"), strings.HasSuffix(noun, "sh"), strings.HasSuffix(noun, "ch"):
		return noun + "es"
	case strings.HasSuffix(noun, "s"):
		return noun
	default:
		return noun + "s"
	}
}
