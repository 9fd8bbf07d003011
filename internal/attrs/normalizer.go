// Package attrs canonicalizes product attribute values so that values which
// differ only in display formatting compare equal. Width and height style
// options are historically entered with an Indonesian axis marker ("L 100"
// for Lebar, "T 240" for Tinggi); identity must not depend on whether the
// marker was typed.
package attrs

import (
	"strings"

	"github.com/noah-isme/backend-gorden/internal/common"
)

// displayPrefixes is the fixed alphabet of axis markers that may prefix a
// value. Matching is case-insensitive and only whole leading tokens count.
var displayPrefixes = []string{"L", "T"}

// Normalize coerces value to its canonical comparable form: string coercion,
// whitespace trim, and removal of leading axis markers. It is total; unknown
// input types collapse to their string form (possibly empty).
func Normalize(value any) string {
	s := common.StringOf(value)
	for {
		token, rest, found := strings.Cut(s, " ")
		if !found || strings.TrimSpace(rest) == "" {
			return s
		}
		if !isPrefix(token) {
			return s
		}
		s = strings.TrimSpace(rest)
	}
}

// PrefixFor returns the display prefix carried by values of the named
// option, or "" when the option has no prefix convention.
func PrefixFor(optionName string) string {
	name := strings.ToLower(optionName)
	switch {
	case strings.Contains(name, "lebar") || strings.Contains(name, "width"):
		return "L"
	case strings.Contains(name, "tinggi") || strings.Contains(name, "height"):
		return "T"
	default:
		return ""
	}
}

// Denormalize re-applies the canonical "<PREFIX> <value>" display form for
// options that carry a prefix convention. Idempotent: an already prefixed
// value is rewritten to the same single-prefix form, never doubled.
func Denormalize(optionName, value string) string {
	prefix := PrefixFor(optionName)
	core := Normalize(value)
	if prefix == "" || core == "" {
		return core
	}
	return prefix + " " + core
}

func isPrefix(token string) bool {
	for _, p := range displayPrefixes {
		if strings.EqualFold(token, p) {
			return true
		}
	}
	return false
}
