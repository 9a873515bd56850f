package builder

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// StudlyCaps converts a dash-case, snake_case or dotted name to StudlyCaps:
// "not-blank" becomes "NotBlank". Existing capitals are kept.
func StudlyCaps(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '-' || r == '_' || r == '.' || r == ' '
	})
	caser := cases.Title(language.Und, cases.NoLower)
	var b strings.Builder
	for _, p := range parts {
		b.WriteString(caser.String(p))
	}
	return b.String()
}

// splitClass splits "namespace:Name" into its parts. A reference without a
// namespace returns an empty namespace.
func splitClass(ref string) (namespace, name string) {
	if ns, n, ok := strings.Cut(ref, ":"); ok {
		return ns, n
	}
	return "", ref
}
