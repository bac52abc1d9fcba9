// Package align reconstructs per-organization and per-document body segments
// by anchoring the authoritative index tree against the classified spans of a
// gazette body. Alignment failures are status values on the output, never
// errors; the caller branches on status, not on absence of data.
package align

// Status describes how a segment was recovered.
type Status string

const (
	// StatusOK means every expectation was met exactly.
	StatusOK Status = "ok"

	// StatusPartial means some but not all expected documents matched, or
	// extra segments exist beyond the expected count.
	StatusPartial Status = "partial"

	// StatusDocMissing means the organization was found but zero documents
	// matched.
	StatusDocMissing Status = "doc_missing"

	// StatusOrgMissing means the organization has no anchor in the body;
	// its documents are emitted as empty placeholders.
	StatusOrgMissing Status = "org_missing"

	// StatusUnanchored means one specific document title could not be
	// located at all.
	StatusUnanchored Status = "unanchored"
)

// Window is a half-open body interval attributed to one organization anchor.
// Sorted by Start, windows tile the body: each window's End equals the next
// window's Start and the last window ends at the buffer length.
type Window struct {
	Name  string `json:"name"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// SubSlice is a nested subdivision inside a DocSlice, created when an
// internal header block canonically matches one of the document's declared
// child titles. Offsets are relative to the parent slice text.
type SubSlice struct {
	Title       string   `json:"title"`
	HeaderLines []string `json:"header_lines"`
	Body        string   `json:"body"`
	Start       int      `json:"start"`
	End         int      `json:"end"`
}

// DocSlice is one recovered document segment. Its interval is contained in
// the parent organization window; Text excludes the matched header line.
type DocSlice struct {
	Title      string     `json:"doc_name"`
	Text       string     `json:"text"`
	Status     Status     `json:"status"`
	Confidence float64    `json:"confidence"`
	Start      int        `json:"start"`
	End        int        `json:"end"`
	Subs       []SubSlice `json:"subs,omitempty"`
}

// OrgResult is the alignment outcome for one organization of the index.
type OrgResult struct {
	Org    string     `json:"org"`
	Status Status     `json:"status"`
	Window Window     `json:"window"`
	Docs   []DocSlice `json:"docs"`
}

// Summary aggregates alignment counters over one body.
type Summary struct {
	Total        int `json:"total"`
	OK           int `json:"ok"`
	Partial      int `json:"partial"`
	DocMissing   int `json:"doc_missing"`
	OrgMissing   int `json:"org_missing"`
	DocsExpected int `json:"docs_expected"`
	DocsMatched  int `json:"docs_matched"`
}

// add folds one organization result into the counters. expected is the
// document count the index declared for the organization, which the produced
// slice count may exceed but never undercuts.
func (s *Summary) add(r OrgResult, expected int) {
	s.Total++
	switch r.Status {
	case StatusOK:
		s.OK++
	case StatusPartial:
		s.Partial++
	case StatusDocMissing:
		s.DocMissing++
	case StatusOrgMissing:
		s.OrgMissing++
	}
	s.DocsExpected += expected
	for _, d := range r.Docs {
		if d.Status == StatusOK || d.Status == StatusPartial {
			s.DocsMatched++
		}
	}
}
