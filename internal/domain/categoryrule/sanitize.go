package categoryrule

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	installmentPattern = regexp.MustCompile(`(?i)parcela\s+\d+\s*/\s*\d+`)
	nonAlphanumeric    = regexp.MustCompile(`[^a-zA-Z0-9\s]+`)
	whitespaceRuns     = regexp.MustCompile(`\s+`)

	// NFD decomposition followed by removal of combining marks turns
	// "Pão de Açúcar" into "Pao de Acucar".
	diacriticStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// Sanitize reduces a raw statement description to its canonical matching
// form: installment markers ("Parcela 3/12") removed, diacritics stripped,
// punctuation dropped, whitespace collapsed, lowercased. Both rule keywords
// and lookup inputs go through this, so matching stays symmetric.
func Sanitize(description string) string {
	s := installmentPattern.ReplaceAllString(description, "")
	if stripped, _, err := transform.String(diacriticStripper, s); err == nil {
		s = stripped
	}
	s = nonAlphanumeric.ReplaceAllString(s, "")
	s = whitespaceRuns.ReplaceAllString(s, " ")
	return strings.ToLower(strings.TrimSpace(s))
}
