package textmatch

import "strings"

// Thresholds holds the tunable constants of the matching cascade. The
// defaults follow the most permissive production settings; callers may load
// different values from configuration.
type Thresholds struct {
	// ContainmentRatio is the minimum shorter/longer length ratio required
	// for a containment match. It prevents a three-letter fragment from
	// matching a fifty-letter title.
	ContainmentRatio float64

	// NGramSize is the character n-gram size for the last cascade stage.
	NGramSize int

	// NGramJaccardMin is the minimum n-gram Jaccard similarity.
	NGramJaccardMin float64

	// NGramMinLetters is the minimum letters-only length for either side
	// before the n-gram stage applies at all.
	NGramMinLetters int
}

// DefaultThresholds returns the production defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{
		ContainmentRatio: 0.5,
		NGramSize:        3,
		NGramJaccardMin:  0.5,
		NGramMinLetters:  6,
	}
}

// Matcher decides whether two title strings denote the same entity under OCR
// noise. It is stateless and safe for concurrent use.
type Matcher struct {
	t Thresholds
}

// NewMatcher creates a Matcher with the given thresholds. Zero-valued fields
// fall back to the defaults.
func NewMatcher(t Thresholds) *Matcher {
	def := DefaultThresholds()
	if t.ContainmentRatio <= 0 {
		t.ContainmentRatio = def.ContainmentRatio
	}
	if t.NGramSize <= 0 {
		t.NGramSize = def.NGramSize
	}
	if t.NGramJaccardMin <= 0 {
		t.NGramJaccardMin = def.NGramJaccardMin
	}
	if t.NGramMinLetters <= 0 {
		t.NGramMinLetters = def.NGramMinLetters
	}
	return &Matcher{t: t}
}

// Match reports whether a and b denote the same title.
func (m *Matcher) Match(a, b string) bool {
	_, ok := m.Score(a, b)
	return ok
}

// Score runs the cascade and returns a confidence score on a hit. Stages are
// evaluated in order and the first hit wins:
//
//  1. exact normalized equality        → 1.0
//  2. tight-key equality               → 0.9
//  3. letters-only equality            → 0.85
//  4. containment, ratio ≥ threshold   → 0.7 · ratio
//  5. n-gram Jaccard ≥ threshold       → jaccard value
//
// No stage matches below its minimum ratio or threshold.
func (m *Matcher) Score(a, b string) (float64, bool) {
	an, bn := Normalize(a), Normalize(b)
	if an == "" || bn == "" {
		return 0, false
	}
	if an == bn {
		return 1.0, true
	}
	if Tight(an) == Tight(bn) {
		return 0.9, true
	}

	al, bl := LettersOnly(an), LettersOnly(bn)
	if al == "" || bl == "" {
		return 0, false
	}
	if al == bl {
		return 0.85, true
	}

	if strings.Contains(al, bl) || strings.Contains(bl, al) {
		shorter, longer := len(al), len(bl)
		if shorter > longer {
			shorter, longer = longer, shorter
		}
		ratio := float64(shorter) / float64(longer)
		if ratio >= m.t.ContainmentRatio {
			return 0.7 * ratio, true
		}
	}

	if len(al) >= m.t.NGramMinLetters && len(bl) >= m.t.NGramMinLetters {
		j := ngramJaccard(al, bl, m.t.NGramSize)
		if j >= m.t.NGramJaccardMin {
			return j, true
		}
	}

	return 0, false
}

// PickCanonical tests a header block (one or more raw header lines) against a
// set of allowed canonical titles and returns the best-matching title. The
// joined block is tried first; if it matches nothing, each line is tried on
// its own.
func (m *Matcher) PickCanonical(blockLines []string, allowed []string) (string, bool) {
	if len(allowed) == 0 {
		return "", false
	}

	if title, ok := m.bestAllowed(strings.Join(blockLines, "\n"), allowed); ok {
		return title, true
	}
	for _, line := range blockLines {
		if title, ok := m.bestAllowed(line, allowed); ok {
			return title, true
		}
	}
	return "", false
}

// bestAllowed returns the highest-scoring allowed title for the candidate.
func (m *Matcher) bestAllowed(candidate string, allowed []string) (string, bool) {
	best := ""
	bestScore := 0.0
	for _, title := range allowed {
		score, ok := m.Score(candidate, title)
		if ok && score > bestScore {
			best = title
			bestScore = score
		}
	}
	return best, best != ""
}

// ngramJaccard computes the Jaccard similarity between the character n-gram
// sets of two strings.
func ngramJaccard(a, b string, n int) float64 {
	na, nb := ngrams(a, n), ngrams(b, n)
	if len(na) == 0 || len(nb) == 0 {
		return 0
	}
	inter := 0
	for g := range na {
		if _, ok := nb[g]; ok {
			inter++
		}
	}
	union := len(na) + len(nb) - inter
	return float64(inter) / float64(union)
}

func ngrams(s string, n int) map[string]struct{} {
	set := make(map[string]struct{})
	rs := []rune(s)
	if len(rs) < n {
		if len(rs) > 0 {
			set[string(rs)] = struct{}{}
		}
		return set
	}
	for i := 0; i+n <= len(rs); i++ {
		set[string(rs[i:i+n])] = struct{}{}
	}
	return set
}
