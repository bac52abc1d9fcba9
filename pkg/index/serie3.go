package index

import (
	"github.com/coolbeans/boletim/pkg/classify"
)

// ThirdSeriesExtractor handles the third-series summary variant. Items there
// either open directly with a document title (the prevailing organization
// context applies) or open with organization headers; an organization item
// with content but no document title at all stays headerless, keyed off the
// organization, with no fictitious title synthesized.
type ThirdSeriesExtractor struct{}

// NewThirdSeriesExtractor creates a ThirdSeriesExtractor.
func NewThirdSeriesExtractor() *ThirdSeriesExtractor { return &ThirdSeriesExtractor{} }

// orgTable assigns stable numeric ids to organizations. Identity is the exact
// text+label pair; every item referencing the same organization reuses its
// id.
type orgTable struct {
	ids  map[Title]int
	refs []OrgRef
	span map[int]classify.Span
}

func newOrgTable() *orgTable {
	return &orgTable{ids: make(map[Title]int), span: make(map[int]classify.Span)}
}

func (t *orgTable) id(sp classify.Span) int {
	key := spanTitle(sp)
	if id, ok := t.ids[key]; ok {
		return id
	}
	id := len(t.refs)
	t.ids[key] = id
	t.refs = append(t.refs, OrgRef{ID: id, Text: key.Text, Label: key.Label})
	t.span[id] = sp
	return id
}

// Extract walks third-series summary spans into relations and a child-based
// payload.
func (e *ThirdSeriesExtractor) Extract(buf string, spans []classify.Span) ([]Relation, *Payload) {
	var (
		relations []Relation
		items     []ChildItem
		orgs      = newOrgTable()

		ctx     []int // prevailing organization context, by id
		ctxOpen bool  // false once a doc or content closed the header run
		cur     *ChildItem
		sawBody bool // current item already got its first content span
	)

	closeItem := func() {
		if cur != nil {
			items = append(items, *cur)
			cur = nil
		}
		sawBody = false
	}

	for _, sp := range spans {
		switch sp.Label {
		case classify.LabelOrgHeader, classify.LabelStarredOrgHeader:
			closeItem()
			if !ctxOpen {
				ctx = nil
				ctxOpen = true
			}
			ctx = append(ctx, orgs.id(sp))

		case classify.LabelDocNameHeader:
			ctxOpen = false
			if cur == nil {
				cur = &ChildItem{
					ParagraphID: len(items),
					OrgIDs:      append([]int(nil), ctx...),
					DocName:     &Title{Text: sp.Text, Label: string(sp.Label)},
				}
				for _, id := range ctx {
					relations = append(relations, Relation{
						Head: orgs.span[id], Tail: sp, Kind: KindOrgDoc,
						ParagraphID: cur.ParagraphID,
						Evidence:    evidence(buf, orgs.span[id], sp),
					})
				}
			} else {
				cur.Children = append(cur.Children, ChildTitle{
					Child: sp.Text, Label: string(sp.Label),
				})
			}

		case classify.LabelParagraph, classify.LabelTextLine:
			ctxOpen = false
			if cur == nil {
				if len(ctx) == 0 {
					continue
				}
				// Headerless item: content hangs directly off the
				// organizations.
				cur = &ChildItem{
					ParagraphID: len(items),
					OrgIDs:      append([]int(nil), ctx...),
				}
				for _, id := range ctx {
					relations = append(relations, Relation{
						Head: orgs.span[id], Tail: sp, Kind: KindOrgContent,
						ParagraphID: cur.ParagraphID,
					})
				}
				sawBody = true
				continue
			}
			if !sawBody && cur.DocName != nil {
				relations = append(relations, Relation{
					Head: classify.Span{
						Label: classify.Label(cur.DocName.Label),
						Text:  cur.DocName.Text,
					},
					Tail: sp, Kind: KindDocContent,
					ParagraphID: cur.ParagraphID,
				})
				sawBody = true
			}

		case classify.LabelJunk, classify.LabelSummaryMarker:
		}
	}
	closeItem()

	payload := &Payload{Kind: PayloadChildBased, Orgs: orgs.refs, Items: items}
	return relations, payload
}
