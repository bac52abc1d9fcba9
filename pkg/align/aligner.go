package align

import (
	"fmt"
	"strings"

	"github.com/coolbeans/boletim/pkg/classify"
	"github.com/coolbeans/boletim/pkg/index"
	"github.com/coolbeans/boletim/pkg/textmatch"
)

// Aligner anchors an index payload against classified body spans. It is
// stateless across calls and safe for concurrent use.
type Aligner struct {
	matcher     *textmatch.Matcher
	classifier  *classify.Classifier
	mergeMaxGap int
	subdivide   bool
}

// Option configures an Aligner.
type Option func(*Aligner)

// WithMatcher overrides the matching cascade.
func WithMatcher(m *textmatch.Matcher) Option {
	return func(a *Aligner) { a.matcher = m }
}

// WithClassifier overrides the classifier used for recursive subdivision.
func WithClassifier(c *classify.Classifier) Option {
	return func(a *Aligner) { a.classifier = c }
}

// WithMergeMaxGap overrides the anchor coalescing gap bound.
func WithMergeMaxGap(n int) Option {
	return func(a *Aligner) {
		if n > 0 {
			a.mergeMaxGap = n
		}
	}
}

// WithSubdivision toggles the recursive subdivision pass.
func WithSubdivision(enabled bool) Option {
	return func(a *Aligner) { a.subdivide = enabled }
}

// New creates an Aligner with default cascade thresholds, classifier and gap
// bound.
func New(opts ...Option) *Aligner {
	a := &Aligner{
		matcher:     textmatch.NewMatcher(textmatch.DefaultThresholds()),
		classifier:  classify.New(),
		mergeMaxGap: DefaultMergeMaxGap,
		subdivide:   true,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Align reconstructs per-organization results from body text, its classified
// spans, and the index payload. The payload must be fully built before the
// call; it is read, never written. The only error condition is a malformed
// payload.
func (a *Aligner) Align(body string, spans []classify.Span, payload *index.Payload) ([]OrgResult, Summary, error) {
	if payload == nil {
		return nil, Summary{}, fmt.Errorf("%w: nil payload", index.ErrMalformed)
	}
	if err := payload.Validate(); err != nil {
		return nil, Summary{}, err
	}

	switch payload.Kind {
	case index.PayloadFlat:
		results, summary := a.alignFlat(body, spans, payload.Flat)
		return results, summary, nil
	case index.PayloadHierarchical:
		results, summary := a.alignHierarchical(body, spans, payload.Hier)
		return results, summary, nil
	default:
		results, summary := a.alignChildBased(body, spans, payload)
		return results, summary, nil
	}
}

// windowQueue hands out an organization's windows in body order, one item at
// a time, so repeated payload entries for the same organization consume
// successive occurrences.
type windowQueue struct {
	byName map[string][]Window
}

func newWindowQueue(windows []Window) *windowQueue {
	q := &windowQueue{byName: make(map[string][]Window)}
	for _, w := range windows {
		q.byName[w.Name] = append(q.byName[w.Name], w)
	}
	return q
}

// take removes and returns the earliest remaining window for the name.
func (q *windowQueue) take(name string) (Window, bool) {
	ws := q.byName[name]
	if len(ws) == 0 {
		return Window{}, false
	}
	q.byName[name] = ws[1:]
	return ws[0], true
}

// takeAll removes and returns every remaining window for the name.
func (q *windowQueue) takeAll(name string) []Window {
	ws := q.byName[name]
	q.byName[name] = nil
	return ws
}

func (a *Aligner) alignFlat(body string, spans []classify.Span, items []index.FlatItem) ([]OrgResult, Summary) {
	names := make([]string, 0, len(items))
	for _, it := range items {
		names = append(names, it.Org.Text)
	}
	queue := newWindowQueue(buildWindows(body, spans, names, a.matcher, a.mergeMaxGap, 0, len(body)))

	var (
		results []OrgResult
		summary Summary
	)
	for _, it := range items {
		expected := titleTexts(it.Docs)
		windows := queue.takeAll(it.Org.Text)
		result := a.alignOrg(body, spans, it.Org.Text, windows, expected)
		results = append(results, result)
		summary.add(result, len(expected))
	}
	return results, summary
}

func (a *Aligner) alignHierarchical(body string, spans []classify.Span, items []index.HierItem) ([]OrgResult, Summary) {
	names := make([]string, 0, len(items))
	for _, it := range items {
		names = append(names, it.TopOrg.Text)
	}
	topQueue := newWindowQueue(buildWindows(body, spans, names, a.matcher, a.mergeMaxGap, 0, len(body)))

	var (
		results []OrgResult
		summary Summary
	)
	for _, it := range items {
		top, found := topQueue.take(it.TopOrg.Text)

		subNames := make([]string, 0, len(it.SubOrgs))
		for _, sub := range it.SubOrgs {
			subNames = append(subNames, sub.Org.Text)
		}

		var subQueue *windowQueue
		if found {
			inner := spansWithin(spans, top)
			// Sub-organization anchors recur legitimately; every matching
			// occurrence becomes its own window inside the top window.
			subQueue = newWindowQueue(buildWindows(body, inner, subNames, a.matcher, a.mergeMaxGap, top.Start, top.End))
		}

		for _, sub := range it.SubOrgs {
			expected := titleTexts(sub.Docs)
			var windows []Window
			if subQueue != nil {
				windows = subQueue.takeAll(sub.Org.Text)
			}
			result := a.alignOrg(body, spans, sub.Org.Text, windows, expected)
			results = append(results, result)
			summary.add(result, len(expected))
		}
	}
	return results, summary
}

// alignOrg resolves one organization's expected documents inside its windows
// and assigns the organization status.
func (a *Aligner) alignOrg(body string, spans []classify.Span, org string, windows []Window, expected []string) OrgResult {
	if len(windows) == 0 {
		docs := make([]DocSlice, len(expected))
		for i, title := range expected {
			docs[i] = placeholder(title, StatusOrgMissing, 0)
		}
		return OrgResult{Org: org, Status: StatusOrgMissing, Docs: docs}
	}

	docs, status := a.matchDocs(body, spans, windows, expected)
	return OrgResult{Org: org, Status: status, Window: windows[0], Docs: docs}
}

// childOrgState tracks one organization's windows and its advancing header
// cursor shared by every item that references the organization.
type childOrgState struct {
	windows []Window
	refs    []headerRef
	cursor  int
	claimed []int // ref indexes matched by some item's doc name, ascending
}

// alignChildBased resolves third-series items in two phases. First every
// item's document title claims a header through the organization's advancing
// cursor; then slices are cut between claimed headers only, so a document's
// child headers stay inside its own slice.
func (a *Aligner) alignChildBased(body string, spans []classify.Span, payload *index.Payload) ([]OrgResult, Summary) {
	names := make([]string, 0, len(payload.Orgs))
	for _, o := range payload.Orgs {
		names = append(names, o.Text)
	}
	windows := buildWindows(body, spans, names, a.matcher, a.mergeMaxGap, 0, len(body))

	states := make(map[string]*childOrgState)
	for _, w := range windows {
		st := states[w.Name]
		if st == nil {
			st = &childOrgState{}
			states[w.Name] = st
		}
		st.windows = append(st.windows, w)
	}
	for _, st := range states {
		st.refs = headerStream(spans, st.windows)
	}

	// Phase one: claim headers.
	type claim struct {
		state *childOrgState
		ref   int
		score float64
	}
	claims := make(map[int]*claim, len(payload.Items))
	itemStates := make(map[int]*childOrgState, len(payload.Items))
	for i, item := range payload.Items {
		var state *childOrgState
		for _, id := range item.OrgIDs {
			ref, _ := payload.OrgByID(id)
			if st, ok := states[ref.Text]; ok {
				state = st
				break
			}
		}
		itemStates[i] = state
		if state == nil || item.DocName == nil {
			continue
		}
		for j := state.cursor; j < len(state.refs); j++ {
			if score, ok := a.matcher.Score(state.refs[j].span.Text, item.DocName.Text); ok {
				claims[i] = &claim{state: state, ref: j, score: score}
				state.cursor = j + 1
				state.claimed = append(state.claimed, j)
				break
			}
		}
	}

	// Phase two: cut slices between claimed headers.
	var (
		results []OrgResult
		summary Summary
	)
	for i, item := range payload.Items {
		orgLabel := childOrgLabel(payload, item)
		state := itemStates[i]

		var result OrgResult
		switch {
		case state == nil:
			title := ""
			if item.DocName != nil {
				title = item.DocName.Text
			}
			result = OrgResult{
				Org:    orgLabel,
				Status: StatusOrgMissing,
				Docs:   []DocSlice{placeholder(title, StatusOrgMissing, 0)},
			}

		case item.DocName == nil:
			result = a.alignHeaderless(body, spans, orgLabel, state)

		case claims[i] != nil:
			c := claims[i]
			slice := a.claimedSlice(body, state, c.ref, item.DocName.Text, c.score)
			result = OrgResult{Org: orgLabel, Status: StatusOK, Window: state.windows[0], Docs: []DocSlice{slice}}

		case len(state.refs) == 0:
			text, start, end := windowsText(body, spans, state.windows)
			result = OrgResult{
				Org:    orgLabel,
				Status: StatusOK,
				Window: state.windows[0],
				Docs: []DocSlice{{
					Title: item.DocName.Text, Text: text,
					Status: StatusOK, Confidence: confWholeWindow,
					Start: start, End: end,
				}},
			}

		default:
			result = OrgResult{
				Org:    orgLabel,
				Status: StatusDocMissing,
				Window: state.windows[0],
				Docs:   []DocSlice{placeholder(item.DocName.Text, StatusUnanchored, windowsEnd(state.windows))},
			}
		}

		if a.subdivide && len(item.Children) > 0 {
			for d := range result.Docs {
				if result.Docs[d].Text != "" {
					result.Docs[d].Subs = a.Subdivide(result.Docs[d].Text, childTexts(item.Children))
				}
			}
		}

		results = append(results, result)
		summary.add(result, 1)
	}
	return results, summary
}

// claimedSlice cuts the slice for a claimed header: it runs to the next
// claimed header of the same window, never to an unclaimed child header.
func (a *Aligner) claimedSlice(body string, state *childOrgState, ref int, title string, score float64) DocSlice {
	end := state.refs[ref].windowEnd
	for _, next := range state.claimed {
		if next > ref && state.refs[next].windowEnd == state.refs[ref].windowEnd {
			end = state.refs[next].span.Start
			break
		}
	}
	start := state.refs[ref].span.Start
	textFrom := contentStart(body, state.refs[ref].span.End)
	if textFrom > end {
		textFrom = end
	}
	return DocSlice{
		Title:      title,
		Text:       body[textFrom:end],
		Status:     StatusOK,
		Confidence: score,
		Start:      start,
		End:        end,
	}
}

// alignHeaderless attributes the window content before the first claimed
// header directly to the organization, without synthesizing a document title.
func (a *Aligner) alignHeaderless(body string, spans []classify.Span, org string, state *childOrgState) OrgResult {
	w := state.windows[0]
	end := w.End
	for _, j := range state.claimed {
		if state.refs[j].windowEnd == w.End && state.refs[j].span.Start < end {
			end = state.refs[j].span.Start
			break
		}
	}
	bounded := Window{Name: w.Name, Start: w.Start, End: end}
	return OrgResult{
		Org:    org,
		Status: StatusOK,
		Window: w,
		Docs: []DocSlice{{
			Text:       windowText(body, spans, bounded),
			Status:     StatusOK,
			Confidence: confWholeWindow,
			Start:      bounded.Start,
			End:        bounded.End,
		}},
	}
}

func childOrgLabel(payload *index.Payload, item index.ChildItem) string {
	names := make([]string, 0, len(item.OrgIDs))
	for _, id := range item.OrgIDs {
		ref, _ := payload.OrgByID(id)
		names = append(names, ref.Text)
	}
	return strings.Join(names, " / ")
}

func titleTexts(titles []index.Title) []string {
	out := make([]string, len(titles))
	for i, t := range titles {
		out[i] = t.Text
	}
	return out
}

func childTexts(children []index.ChildTitle) []string {
	out := make([]string, len(children))
	for i, c := range children {
		out[i] = c.Child
	}
	return out
}
