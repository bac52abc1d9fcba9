package align

import (
	"unicode"

	"github.com/coolbeans/boletim/pkg/classify"
	"github.com/coolbeans/boletim/pkg/textmatch"
)

// DefaultMergeMaxGap bounds the gap, in bytes, between adjacent org-header
// spans coalesced into one anchor.
const DefaultMergeMaxGap = 200

// anchor is a coalesced run of organization header spans treated as one
// candidate organization occurrence.
type anchor struct {
	start int
	end   int
	text  string
}

// namedAnchor is an anchor accepted against the index, renamed to the
// canonical organization text it matched.
type namedAnchor struct {
	anchor
	name string
}

// coalesceAnchors folds runs of org-header spans separated only by small
// whitespace/punctuation gaps into single anchors. Wrapped headers and
// headers split by page rules come out as one candidate.
func coalesceAnchors(body string, spans []classify.Span, maxGap int) []anchor {
	var anchors []anchor
	for _, sp := range spans {
		if sp.Label != classify.LabelOrgHeader && sp.Label != classify.LabelStarredOrgHeader {
			continue
		}
		if n := len(anchors); n > 0 && coalescableGap(body, anchors[n-1].end, sp.Start, maxGap) {
			anchors[n-1].end = sp.End
			anchors[n-1].text = body[anchors[n-1].start:sp.End]
			continue
		}
		anchors = append(anchors, anchor{start: sp.Start, end: sp.End, text: sp.Text})
	}
	return anchors
}

// coalescableGap reports whether the body text between two spans is short
// noise: bounded length, containing only whitespace, punctuation, symbols and
// digits (page numbers and rules).
func coalescableGap(body string, from, to, maxGap int) bool {
	if to < from || to-from > maxGap {
		return false
	}
	for _, r := range body[from:to] {
		if unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsSymbol(r) || unicode.IsDigit(r) {
			continue
		}
		return false
	}
	return true
}

// matchAnchors keeps only anchors identifiable as one of the declared
// organizations, attaching the canonical name. Identity is checked by
// aggressive org key first, then by the full cascade, then by a two-token
// overlap for anchors polluted by coalesced neighbors.
func matchAnchors(anchors []anchor, names []string, m *textmatch.Matcher) []namedAnchor {
	keys := make([]string, len(names))
	toks := make([]map[string]struct{}, len(names))
	for i, n := range names {
		keys[i] = textmatch.OrgKey(n)
		toks[i] = textmatch.Tokens(n)
	}

	var kept []namedAnchor
	for _, a := range anchors {
		aKey := textmatch.OrgKey(a.text)
		aToks := textmatch.Tokens(a.text)
		for i, n := range names {
			if aKey == keys[i] || m.Match(a.text, n) || textmatch.TokenOverlap(aToks, toks[i]) >= 2 {
				kept = append(kept, namedAnchor{anchor: a, name: n})
				break
			}
		}
	}
	return kept
}

// tileWindows turns kept anchors into a gapless tiling of [lo, hi). The first
// window absorbs any preamble before its anchor; the last window runs to hi.
func tileWindows(kept []namedAnchor, lo, hi int) []Window {
	if len(kept) == 0 {
		return nil
	}
	windows := make([]Window, len(kept))
	for i, a := range kept {
		start := a.start
		if i == 0 {
			start = lo
		}
		end := hi
		if i+1 < len(kept) {
			end = kept[i+1].start
		}
		windows[i] = Window{Name: a.name, Start: start, End: end}
	}
	return windows
}

// buildWindows runs the full window pass over [lo, hi): coalesce org anchors,
// keep the ones the index declares, tile.
func buildWindows(body string, spans []classify.Span, names []string, m *textmatch.Matcher, maxGap, lo, hi int) []Window {
	anchors := coalesceAnchors(body, spans, maxGap)
	kept := matchAnchors(anchors, names, m)
	return tileWindows(kept, lo, hi)
}

// spansWithin filters spans to those fully inside the window, preserving
// order.
func spansWithin(spans []classify.Span, w Window) []classify.Span {
	var out []classify.Span
	for _, sp := range spans {
		if sp.Start >= w.Start && sp.End <= w.End {
			out = append(out, sp)
		}
	}
	return out
}

// contentStart returns the offset where slice content begins after a header
// that ends at headerEnd: the header's own line terminator is skipped.
func contentStart(body string, headerEnd int) int {
	i := headerEnd
	if i < len(body) && body[i] == '\r' {
		i++
	}
	if i < len(body) && body[i] == '\n' {
		i++
	}
	return i
}

// windowText returns the body text of a window with the leading organization
// header line removed, when the window opens with one.
func windowText(body string, spans []classify.Span, w Window) string {
	start := w.Start
	for _, sp := range spansWithin(spans, w) {
		if sp.Label != classify.LabelOrgHeader && sp.Label != classify.LabelStarredOrgHeader {
			break
		}
		start = contentStart(body, sp.End)
	}
	if start > w.End {
		start = w.End
	}
	return body[start:w.End]
}
