package entity

import "unicode"

// Stored names are matched byte-for-byte, so literals from the NLU service
// are re-cased before lookup. Only ASCII a-z is ever changed; every other
// rune, including non-ASCII letters, is kept as is.

// TitleCase upper-cases an ASCII lowercase letter at the start of s or
// directly after a Unicode white-space rune: "security camera" becomes
// "Security Camera", "pixel-based image" becomes "Pixel-based Image".
func TitleCase(s string) string {
	out := []rune(s)
	boundary := true
	for i, r := range out {
		if boundary && r >= 'a' && r <= 'z' {
			out[i] = r - 'a' + 'A'
		}
		boundary = unicode.IsSpace(r)
	}
	return string(out)
}

// CapitalizeFirst upper-cases only the first rune when it is ASCII a-z.
func CapitalizeFirst(s string) string {
	out := []rune(s)
	if len(out) > 0 && out[0] >= 'a' && out[0] <= 'z' {
		out[0] = out[0] - 'a' + 'A'
	}
	return string(out)
}

// Candidates lists the spellings tried for a literal, most likely first and
// without duplicates.
func Candidates(literal string) []string {
	title := TitleCase(literal)
	first := CapitalizeFirst(literal)
	if title == first {
		return []string{title}
	}
	return []string{title, first}
}
