// Package classify converts a gazette text buffer into an ordered sequence of
// non-overlapping labeled spans. Each classification pass is a single
// line-by-line state machine; spans from the passes are merged afterwards by
// keeping the longest span on overlap.
package classify

// Label identifies the semantic category of a classified span.
type Label string

const (
	// LabelOrgHeader marks an all-caps organization header line (or run of
	// lines).
	LabelOrgHeader Label = "org_header"

	// LabelStarredOrgHeader marks an organization header carrying an asterisk
	// marker, which declares that the organization owns sub-organizations.
	LabelStarredOrgHeader Label = "starred_org_header"

	// LabelDocNameHeader marks a bold-delimited document title block.
	LabelDocNameHeader Label = "doc_name_header"

	// LabelJunk marks short punctuation-only noise such as page rules and
	// leader fragments.
	LabelJunk Label = "junk"

	// LabelTextLine marks a plain content line that matched no other
	// category.
	LabelTextLine Label = "text_line"

	// LabelParagraph marks a run of text lines assembled by the paragraph
	// pass.
	LabelParagraph Label = "paragraph"

	// LabelSummaryMarker marks the heading line that opens the summary
	// section.
	LabelSummaryMarker Label = "summary_marker"
)

// Span is a labeled half-open byte interval [Start, End) into the buffer it
// was classified from. Spans are immutable once produced; within one merged
// pass they are sorted by Start and mutually non-overlapping.
type Span struct {
	Label Label  `json:"label"`
	Text  string `json:"text"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// Len returns the span's length in bytes.
func (s Span) Len() int { return s.End - s.Start }

// Overlaps reports whether two spans share at least one byte.
func (s Span) Overlaps(o Span) bool { return s.Start < o.End && o.Start < s.End }
