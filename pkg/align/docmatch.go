package align

import (
	"github.com/coolbeans/boletim/pkg/classify"
	"github.com/coolbeans/boletim/pkg/textmatch"
)

// Confidence values for segments recovered without an exact title match.
const (
	confWholeWindow = 0.8
	confCutPoint    = 0.6
	confSalvage     = 0.5
)

// headerRef ties one doc-name header to the end of the window that bounds
// its slice.
type headerRef struct {
	span      classify.Span
	windowEnd int
}

// headerStream collects doc-name headers across an organization's windows in
// body order.
func headerStream(spans []classify.Span, windows []Window) []headerRef {
	var refs []headerRef
	for _, w := range windows {
		for _, sp := range spansWithin(spans, w) {
			if sp.Label == classify.LabelDocNameHeader {
				refs = append(refs, headerRef{span: sp, windowEnd: w.End})
			}
		}
	}
	return refs
}

// sliceEnd returns where the slice opened by refs[j] closes: the next header
// of the same window, or the window end.
func sliceEnd(refs []headerRef, j int) int {
	if j+1 < len(refs) && refs[j+1].windowEnd == refs[j].windowEnd {
		return refs[j+1].span.Start
	}
	return refs[j].windowEnd
}

// sliceAt builds the DocSlice for the header at refs[j]. The interval keeps
// the header; the text starts after the header's line terminator.
func sliceAt(body string, refs []headerRef, j int, title string, status Status, confidence float64) DocSlice {
	end := sliceEnd(refs, j)
	start := refs[j].span.Start
	textFrom := contentStart(body, refs[j].span.End)
	if textFrom > end {
		textFrom = end
	}
	return DocSlice{
		Title:      title,
		Text:       body[textFrom:end],
		Status:     status,
		Confidence: confidence,
		Start:      start,
		End:        end,
	}
}

// placeholder emits an empty slice for a document that could not be located.
func placeholder(title string, status Status, at int) DocSlice {
	return DocSlice{Title: title, Status: status, Start: at, End: at}
}

// matchDocs aligns the expected document titles of one organization against
// the doc-name headers found in its windows. The cursor only advances, so a
// consumed header is never rematched and repeated identical titles resolve to
// successive occurrences. When nothing matches by name, the fallback ladder
// applies.
func (a *Aligner) matchDocs(body string, spans []classify.Span, windows []Window, expected []string) ([]DocSlice, Status) {
	refs := headerStream(spans, windows)

	type hit struct {
		ref   int
		score float64
	}
	hits := make([]*hit, len(expected))
	cursor := 0
	matched := 0
	for i, title := range expected {
		for j := cursor; j < len(refs); j++ {
			if score, ok := a.matcher.Score(refs[j].span.Text, title); ok {
				hits[i] = &hit{ref: j, score: score}
				cursor = j + 1
				matched++
				break
			}
		}
	}

	if matched > 0 {
		slices := make([]DocSlice, len(expected))
		for i, title := range expected {
			if h := hits[i]; h != nil {
				slices[i] = sliceAt(body, refs, h.ref, title, StatusOK, h.score)
			} else {
				slices[i] = placeholder(title, StatusUnanchored, windowsEnd(windows))
			}
		}
		status := StatusOK
		if matched < len(expected) || len(refs) > len(expected) {
			status = StatusPartial
		}
		return slices, status
	}

	return a.fallback(body, spans, windows, refs, expected)
}

// fallback implements the recovery ladder for windows where no header
// matched any expected title by name.
func (a *Aligner) fallback(body string, spans []classify.Span, windows []Window, refs []headerRef, expected []string) ([]DocSlice, Status) {
	switch {
	case len(refs) == 0 && len(expected) == 1:
		// The whole window is the single expected document.
		text, start, end := windowsText(body, spans, windows)
		return []DocSlice{{
			Title: expected[0], Text: text,
			Status: StatusOK, Confidence: confWholeWindow,
			Start: start, End: end,
		}}, StatusOK

	case len(refs) == 0 && len(expected) > 1:
		return a.fallbackCutPoints(body, spans, windows, expected)

	case len(refs) > 0:
		// Headers exist but none carries an expected title. Slice by every
		// header present, named from its own text; identity is unconfirmed.
		slices := make([]DocSlice, 0, len(refs))
		for j := range refs {
			title := textmatch.Normalize(refs[j].span.Text)
			slices = append(slices, sliceAt(body, refs, j, title, StatusPartial, confSalvage))
		}
		for i := len(refs); i < len(expected); i++ {
			slices = append(slices, placeholder(expected[i], StatusUnanchored, windowsEnd(windows)))
		}
		return slices, StatusDocMissing
	}

	// No windows at all.
	slices := make([]DocSlice, len(expected))
	for i, title := range expected {
		slices[i] = placeholder(title, StatusOrgMissing, 0)
	}
	return slices, StatusOrgMissing
}

// fallbackCutPoints maps repeated organization occurrences (each already its
// own window) to the expected documents in order. Without repeats the whole
// window is salvaged as the first document and the rest reported missing.
func (a *Aligner) fallbackCutPoints(body string, spans []classify.Span, windows []Window, expected []string) ([]DocSlice, Status) {
	if len(windows) > 1 {
		n := min(len(windows), len(expected))
		slices := make([]DocSlice, 0, len(expected))
		for i := 0; i < n; i++ {
			w := windows[i]
			slices = append(slices, DocSlice{
				Title: expected[i], Text: windowText(body, spans, w),
				Status: StatusOK, Confidence: confCutPoint,
				Start: w.Start, End: w.End,
			})
		}
		for i := n; i < len(expected); i++ {
			slices = append(slices, placeholder(expected[i], StatusDocMissing, windowsEnd(windows)))
		}
		if len(windows) == len(expected) {
			return slices, StatusOK
		}
		return slices, StatusPartial
	}

	text, start, end := windowsText(body, spans, windows)
	slices := []DocSlice{{
		Title: expected[0], Text: text,
		Status: StatusPartial, Confidence: confSalvage,
		Start: start, End: end,
	}}
	for _, title := range expected[1:] {
		slices = append(slices, placeholder(title, StatusDocMissing, end))
	}
	return slices, StatusPartial
}

// windowsText concatenates the header-stripped text of the organization's
// windows and reports the covered interval.
func windowsText(body string, spans []classify.Span, windows []Window) (string, int, int) {
	if len(windows) == 0 {
		return "", 0, 0
	}
	text := ""
	for _, w := range windows {
		text += windowText(body, spans, w)
	}
	return text, windows[0].Start, windows[len(windows)-1].End
}

func windowsEnd(windows []Window) int {
	if len(windows) == 0 {
		return 0
	}
	return windows[len(windows)-1].End
}
