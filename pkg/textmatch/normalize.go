// Package textmatch implements OCR-tolerant title normalization and the
// tiered similarity cascade used to decide whether two gazette titles denote
// the same organization or document despite extraction noise.
package textmatch

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// dotLeaderPattern matches runs of dot/bullet leader characters that pad
	// summary lines up to their page numbers.
	dotLeaderPattern = regexp.MustCompile(`[.\x{2022}\x{00B7}]{3,}`)

	// hyphenWrapPattern matches a soft line-wrap hyphenation: a hyphen at a
	// line end followed by the continuation on the next line.
	hyphenWrapPattern = regexp.MustCompile(`-[ \t]*\r?\n[ \t]*`)

	whitespacePattern = regexp.MustCompile(`\s+`)
)

// accentStripper removes combining marks after NFD decomposition so that
// "DIREÇÃO" and "DIRECAO" produce the same letters-only key.
var accentStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// StripBold removes markdown-style bold delimiters surrounding the string and
// any stray ** left inside by the PDF-to-markdown step.
func StripBold(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "**") && strings.HasSuffix(s, "**") && len(s) >= 4 {
		s = strings.TrimSpace(s[2 : len(s)-2])
	}
	s = strings.ReplaceAll(s, "**", "")
	return strings.TrimSpace(s)
}

// Normalize applies the full cleanup pipeline. Every stage is idempotent, so
// Normalize(Normalize(s)) == Normalize(s):
//
//  1. strip surrounding bold delimiters
//  2. rejoin hyphenated line wraps and drop dot leaders
//  3. collapse whitespace runs to single spaces
//  4. join OCR inter-letter spacing in capitalized runs
//     ("D IREÇÃO" → "DIREÇÃO")
//  5. drop a trailing colon left by summary leaders
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	s = StripBold(s)
	s = hyphenWrapPattern.ReplaceAllString(s, "")
	s = dotLeaderPattern.ReplaceAllString(s, "")
	s = strings.TrimSpace(whitespacePattern.ReplaceAllString(s, " "))
	s = joinSpacedCaps(s)
	if strings.HasSuffix(s, ":") {
		s = strings.TrimSpace(strings.TrimSuffix(s, ":"))
	}
	return s
}

// joinSpacedCaps removes every single space standing between two uppercase
// letters (accented forms included), collapsing the letter-spacing artifacts
// PDF extraction produces in all-caps headers.
func joinSpacedCaps(s string) string {
	rs := []rune(s)
	out := make([]rune, 0, len(rs))
	for i, r := range rs {
		if r == ' ' && len(out) > 0 && isUpperLetter(out[len(out)-1]) &&
			i+1 < len(rs) && isUpperLetter(rs[i+1]) {
			continue
		}
		out = append(out, r)
	}
	return string(out)
}

func isUpperLetter(r rune) bool {
	return unicode.IsLetter(r) && unicode.IsUpper(r)
}

// Tight returns the normalized string with all spaces removed. It tolerates
// letter-spacing noise that survived joinSpacedCaps (mixed-case titles).
func Tight(s string) string {
	return strings.ReplaceAll(Normalize(s), " ", "")
}

// LettersOnly returns the most aggressive comparison key: accents stripped,
// lower-cased, and every non-alphanumeric rune removed.
func LettersOnly(s string) string {
	s = stripAccents(Normalize(s))
	s = strings.ToLower(s)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// OrgKey is the identity key for organization headers: letters-only,
// uppercased. Two org anchors denote the same organization iff their OrgKeys
// are equal.
func OrgKey(s string) string {
	return strings.ToUpper(LettersOnly(s))
}

func stripAccents(s string) string {
	out, _, err := transform.String(accentStripper, s)
	if err != nil {
		return s
	}
	return out
}

// Tokens returns the lower-cased whitespace token set of a string, used for
// coarse org-to-window matching. Only bold delimiters are stripped: the caps
// joining of Normalize would fuse an all-caps header into a single token.
func Tokens(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, t := range strings.Fields(strings.ToLower(StripBold(s))) {
		set[t] = struct{}{}
	}
	return set
}

// TokenJaccard computes the Jaccard similarity of two token sets.
func TokenJaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	inter := 0
	for t := range a {
		if _, ok := b[t]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// TokenOverlap counts tokens shared by both sets.
func TokenOverlap(a, b map[string]struct{}) int {
	n := 0
	for t := range a {
		if _, ok := b[t]; ok {
			n++
		}
	}
	return n
}
