// Package index extracts the authoritative organization/document tree from
// the classified spans of a gazette summary section. Extraction first derives
// a directed relation graph over spans, then serializes it into an ordered
// payload tree consumed read-only by the body aligner.
package index

import "github.com/coolbeans/boletim/pkg/classify"

// Kind identifies the direction and meaning of a relation edge.
type Kind string

const (
	// KindOrgDoc links an organization header to a document title it owns.
	KindOrgDoc Kind = "org->doc_name"

	// KindOrgSubOrg links a starred organization to one of its
	// sub-organizations.
	KindOrgSubOrg Kind = "org->sub_org"

	// KindSubOrgDoc links a sub-organization to a document title declared
	// inside its starred block scope.
	KindSubOrgDoc Kind = "sub_org->doc_name"

	// KindDocContent links a document title to the content span immediately
	// following it.
	KindDocContent Kind = "doc_name->content"

	// KindOrgContent links an organization directly to content when the item
	// declares no document title at all. No fictitious title is synthesized.
	KindOrgContent Kind = "org->content"
)

// Relation is a directed edge between two classified spans of one summary
// buffer. Evidence carries the raw text strictly between head and tail, kept
// for diagnostics only.
type Relation struct {
	Head        classify.Span
	Tail        classify.Span
	Kind        Kind
	ParagraphID int
	Evidence    string
}

// evidence extracts the raw text strictly between two spans. Order of the
// arguments does not matter.
func evidence(buf string, a, b classify.Span) string {
	lo, hi := a.End, b.Start
	if b.End <= a.Start {
		lo, hi = b.End, a.Start
	}
	if lo < 0 || hi > len(buf) || lo >= hi {
		return ""
	}
	return buf[lo:hi]
}
