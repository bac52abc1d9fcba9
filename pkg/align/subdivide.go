package align

import (
	"strings"

	"github.com/coolbeans/boletim/pkg/classify"
)

// headerBlock is a run of consecutive doc-name header spans inside a slice.
// A block closes as soon as non-whitespace text intervenes before the next
// header.
type headerBlock struct {
	lines []string
	start int
	end   int
}

// groupHeaderBlocks collects header blocks from the classified spans of a
// slice text.
func groupHeaderBlocks(text string, spans []classify.Span) []headerBlock {
	var blocks []headerBlock
	open := -1
	for _, sp := range spans {
		if sp.Label != classify.LabelDocNameHeader {
			open = -1
			continue
		}
		if open >= 0 && strings.TrimSpace(text[blocks[open].end:sp.Start]) != "" {
			open = -1
		}
		if open < 0 {
			blocks = append(blocks, headerBlock{start: sp.Start})
			open = len(blocks) - 1
		}
		blocks[open].lines = append(blocks[open].lines, sp.Text)
		blocks[open].end = sp.End
	}
	return blocks
}

// Subdivide recovers nested structure inside one document slice. The slice
// text is re-classified, its header blocks are tested against the document's
// own declared child titles (never a sibling's), and each approved block
// opens a SubSlice running to the next approved block. With no approved
// block, one SubSlice spans the whole text, titled from the first header
// block if present. Offsets are relative to the slice text.
func (a *Aligner) Subdivide(text string, childTitles []string) []SubSlice {
	spans := a.classifier.Classify(text)
	blocks := groupHeaderBlocks(text, spans)

	type approved struct {
		block headerBlock
		title string
	}
	var hits []approved
	for _, b := range blocks {
		if title, ok := a.matcher.PickCanonical(b.lines, childTitles); ok {
			hits = append(hits, approved{block: b, title: title})
		}
	}

	if len(hits) == 0 {
		title := ""
		if len(blocks) > 0 {
			title = strings.Join(blocks[0].lines, " ")
		}
		return []SubSlice{{
			Title: title,
			Body:  text,
			Start: 0,
			End:   len(text),
		}}
	}

	subs := make([]SubSlice, len(hits))
	for i, h := range hits {
		bodyStart := contentStart(text, h.block.end)
		bodyEnd := len(text)
		if i+1 < len(hits) {
			bodyEnd = hits[i+1].block.start
		}
		if bodyStart > bodyEnd {
			bodyStart = bodyEnd
		}
		subs[i] = SubSlice{
			Title:       h.title,
			HeaderLines: h.block.lines,
			Body:        text[bodyStart:bodyEnd],
			Start:       h.block.start,
			End:         bodyEnd,
		}
	}
	return subs
}
