package index

import (
	"github.com/coolbeans/boletim/pkg/classify"
)

// Extractor walks the classified spans of a summary buffer and produces the
// relation graph plus the serialized payload tree. It handles the flat and
// hierarchical corpus variants; the third series has its own extractor.
type Extractor struct{}

// NewExtractor creates an Extractor.
func NewExtractor() *Extractor { return &Extractor{} }

// subAccum collects one sub-organization and its documents inside a starred
// block.
type subAccum struct {
	org  classify.Span
	docs []classify.Span
}

// itemAccum collects one summary item. A starred item owns sub-organizations;
// a plain item owns its documents directly.
type itemAccum struct {
	id      int
	org     classify.Span
	starred bool
	docs    []classify.Span
	subs    []*subAccum
}

// Extract derives relations and the payload from summary spans. Item
// boundaries follow the starred-block rule: a starred header always opens a
// new item, a plain header opens one only outside a starred block.
func (e *Extractor) Extract(buf string, spans []classify.Span) ([]Relation, *Payload) {
	var (
		relations []Relation
		items     []*itemAccum
		cur       *itemAccum
		curSub    *subAccum
		lastDoc   *classify.Span
	)

	openItem := func(org classify.Span, starred bool) {
		cur = &itemAccum{id: len(items), org: org, starred: starred}
		curSub = nil
		lastDoc = nil
		items = append(items, cur)
	}

	for _, sp := range spans {
		switch sp.Label {
		case classify.LabelStarredOrgHeader:
			openItem(sp, true)

		case classify.LabelOrgHeader:
			if cur != nil && cur.starred {
				// A plain header inside a starred block is a
				// sub-organization; it opens its own document scope.
				curSub = &subAccum{org: sp}
				cur.subs = append(cur.subs, curSub)
				lastDoc = nil
				relations = append(relations, Relation{
					Head: cur.org, Tail: sp, Kind: KindOrgSubOrg,
					ParagraphID: cur.id, Evidence: evidence(buf, cur.org, sp),
				})
			} else {
				openItem(sp, false)
			}

		case classify.LabelDocNameHeader:
			if cur == nil {
				continue
			}
			lastDoc = &sp
			if curSub != nil {
				curSub.docs = append(curSub.docs, sp)
				relations = append(relations, Relation{
					Head: curSub.org, Tail: sp, Kind: KindSubOrgDoc,
					ParagraphID: cur.id, Evidence: evidence(buf, curSub.org, sp),
				})
			} else {
				cur.docs = append(cur.docs, sp)
				relations = append(relations, Relation{
					Head: cur.org, Tail: sp, Kind: KindOrgDoc,
					ParagraphID: cur.id, Evidence: evidence(buf, cur.org, sp),
				})
			}

		case classify.LabelParagraph, classify.LabelTextLine:
			if lastDoc != nil {
				relations = append(relations, Relation{
					Head: *lastDoc, Tail: sp, Kind: KindDocContent,
					ParagraphID: cur.id,
				})
				lastDoc = nil
			}

		case classify.LabelJunk, classify.LabelSummaryMarker:
			// Noise never affects item state.
		}
	}

	relations = pruneSubOrgDuplicates(relations)
	return relations, buildPayload(items)
}

// pruneSubOrgDuplicates drops sub_org->doc_name edges whose document is
// already reachable through a direct org->doc_name edge from the same
// organization, so a document is never booked twice under two kinds.
func pruneSubOrgDuplicates(relations []Relation) []Relation {
	direct := make(map[[2]string]struct{})
	for _, r := range relations {
		if r.Kind == KindOrgDoc {
			direct[[2]string{r.Head.Text, r.Tail.Text}] = struct{}{}
		}
	}
	out := relations[:0]
	for _, r := range relations {
		if r.Kind == KindSubOrgDoc {
			if _, dup := direct[[2]string{r.Head.Text, r.Tail.Text}]; dup {
				continue
			}
		}
		out = append(out, r)
	}
	return out
}

// buildPayload serializes accumulated items. The payload is hierarchical when
// any starred block exists; in that case a plain item with documents becomes
// a self-entry so its documents keep a place in the sub-organization list.
func buildPayload(items []*itemAccum) *Payload {
	hierarchical := false
	for _, it := range items {
		if it.starred {
			hierarchical = true
			break
		}
	}

	if !hierarchical {
		p := &Payload{Kind: PayloadFlat}
		for _, it := range items {
			p.Flat = append(p.Flat, FlatItem{
				ParagraphID: it.id,
				Org:         spanTitle(it.org),
				Docs:        spanTitles(it.docs),
			})
		}
		return p
	}

	p := &Payload{Kind: PayloadHierarchical}
	for _, it := range items {
		hi := HierItem{ParagraphID: it.id, TopOrg: spanTitle(it.org)}
		if len(it.docs) > 0 {
			hi.SubOrgs = append(hi.SubOrgs, SubOrgEntry{
				Org:  spanTitle(it.org),
				Docs: spanTitles(it.docs),
			})
		}
		for _, sub := range it.subs {
			hi.SubOrgs = append(hi.SubOrgs, SubOrgEntry{
				Org:  spanTitle(sub.org),
				Docs: spanTitles(sub.docs),
			})
		}
		p.Hier = append(p.Hier, hi)
	}
	return p
}

func spanTitle(sp classify.Span) Title {
	return Title{Text: sp.Text, Label: string(sp.Label)}
}

func spanTitles(spans []classify.Span) []Title {
	out := make([]Title, len(spans))
	for i, sp := range spans {
		out[i] = spanTitle(sp)
	}
	return out
}
