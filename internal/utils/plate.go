package utils

import (
	"strings"
	"unicode"
)

// NormalizePlate maps Arabic-Indic and Persian digits to ASCII, uppercases Latin letters and
// drops spaces, dashes and any other separators. Arabic letters are kept as they are.
func NormalizePlate(plate string) string {
	var b strings.Builder
	b.Grow(len(plate))

	for _, r := range strings.TrimSpace(plate) {
		switch {
		case r >= '٠' && r <= '٩':
			b.WriteRune('0' + (r - '٠'))
		case r >= '۰' && r <= '۹':
			b.WriteRune('0' + (r - '۰'))
		case unicode.IsDigit(r) || unicode.IsLetter(r):
			b.WriteRune(unicode.ToUpper(r))
		}
	}
	return b.String()
}
