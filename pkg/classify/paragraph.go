package classify

import (
	"strings"
	"unicode"
)

// AssembleParagraphs merges contiguous TextLine spans into Paragraph spans.
// Header, junk and marker spans pass through untouched. A paragraph opens at
// a TextLine whose first significant character is uppercase or a digit, and
// keeps absorbing the next TextLine while the accumulated text lacks a strong
// sentence terminator, or has one but the next line opens in lowercase (a
// wrapped continuation rather than a new sentence).
func AssembleParagraphs(buf string, spans []Span) []Span {
	out := make([]Span, 0, len(spans))
	for i := 0; i < len(spans); {
		sp := spans[i]
		if sp.Label != LabelTextLine || !opensParagraph(sp.Text) {
			out = append(out, sp)
			i++
			continue
		}

		start, end := sp.Start, sp.End
		i++
		for i < len(spans) && spans[i].Label == LabelTextLine {
			if endsSentence(buf[start:end]) && !opensLowercase(spans[i].Text) {
				break
			}
			end = spans[i].End
			i++
		}
		out = append(out, Span{Label: LabelParagraph, Text: buf[start:end], Start: start, End: end})
	}
	return out
}

// firstSignificant returns the first letter or digit rune, skipping leading
// whitespace, punctuation and symbols.
func firstSignificant(s string) (rune, bool) {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r, true
		}
		if unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsSymbol(r) {
			continue
		}
		return r, true
	}
	return 0, false
}

func opensParagraph(s string) bool {
	r, ok := firstSignificant(s)
	return ok && (unicode.IsUpper(r) || unicode.IsDigit(r))
}

func opensLowercase(s string) bool {
	r, ok := firstSignificant(s)
	return ok && unicode.IsLower(r)
}

// endsSentence reports whether the text closes with a strong sentence
// terminator, ignoring trailing whitespace.
func endsSentence(s string) bool {
	s = strings.TrimRightFunc(s, unicode.IsSpace)
	if s == "" {
		return false
	}
	switch s[len(s)-1] {
	case '.', '!', '?':
		return true
	}
	return false
}
