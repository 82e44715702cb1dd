package source

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var accentFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// foldAccents maps accented characters to their unaccented ASCII
// equivalents ("Duración" -> "Duracion"). Input that fails to transform is
// returned unchanged; header matching then simply falls back to the raw form.
func foldAccents(s string) string {
	out, _, err := transform.String(accentFolder, s)
	if err != nil {
		return s
	}
	return out
}

// NormalizeHeader converts a free-text source column header to its canonical
// lookup form: accents folded, trimmed, lowercased, inner whitespace
// collapsed to single underscores, punctuation stripped.
func NormalizeHeader(header string) string {
	h := foldAccents(strings.TrimSpace(header))
	h = strings.ToLower(h)

	var b strings.Builder
	lastUnderscore := false
	for _, r := range h {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastUnderscore = false
		case unicode.IsSpace(r) || r == '_' || r == '-':
			if !lastUnderscore && b.Len() > 0 {
				b.WriteByte('_')
				lastUnderscore = true
			}
		default:
			// Punctuation ("Costes tot.reales") is dropped outright.
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}
