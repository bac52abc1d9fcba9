package index

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformed is returned when a payload document is not one of the three
// known schemas. It is the only hard error in the pipeline; every other
// failure mode is a status value on the alignment output.
var ErrMalformed = errors.New("malformed index payload")

// PayloadKind tags which schema a Payload carries.
type PayloadKind string

const (
	// PayloadFlat is one organization with a document list per item.
	PayloadFlat PayloadKind = "flat"

	// PayloadHierarchical is a top organization owning sub-organizations,
	// each with its own document list.
	PayloadHierarchical PayloadKind = "hierarchical"

	// PayloadChildBased is the third-series schema: a shared organization
	// table plus items referencing organizations by id, with optional
	// document name and child titles.
	PayloadChildBased PayloadKind = "child_based"
)

// Title is a text/label pair naming an organization or document.
type Title struct {
	Text  string `json:"text"`
	Label string `json:"label"`
}

// FlatItem is one summary item of a flat payload.
type FlatItem struct {
	ParagraphID int     `json:"paragraph_id"`
	Org         Title   `json:"org"`
	Docs        []Title `json:"docs"`
}

// SubOrgEntry is one sub-organization with its documents.
type SubOrgEntry struct {
	Org  Title   `json:"org"`
	Docs []Title `json:"docs"`
}

// HierItem is one summary item of a hierarchical payload.
type HierItem struct {
	ParagraphID int           `json:"paragraph_id"`
	TopOrg      Title         `json:"top_org"`
	SubOrgs     []SubOrgEntry `json:"sub_orgs"`
}

// OrgRef is an entry of the shared organization table of a child-based
// payload. IDs are stable: every item referencing the same text/label pair
// reuses the same id.
type OrgRef struct {
	ID    int    `json:"id"`
	Text  string `json:"text"`
	Label string `json:"label"`
}

// ChildTitle is a nested title declared under a document.
type ChildTitle struct {
	Child string `json:"child"`
	Label string `json:"label"`
}

// ChildItem is one item of a child-based payload. DocName is nil for
// headerless items whose content hangs directly off the organizations.
type ChildItem struct {
	ParagraphID int          `json:"paragraph_id"`
	OrgIDs      []int        `json:"org_ids"`
	DocName     *Title       `json:"doc_name"`
	Children    []ChildTitle `json:"children"`
}

// Payload is the authoritative index tree, a tagged union over the three
// schemas. Exactly the field set matching Kind is populated. A Payload is
// built once and consumed read-only.
type Payload struct {
	Kind PayloadKind

	Flat  []FlatItem  // Kind == PayloadFlat
	Hier  []HierItem  // Kind == PayloadHierarchical
	Orgs  []OrgRef    // Kind == PayloadChildBased
	Items []ChildItem // Kind == PayloadChildBased
}

// OrgByID resolves an organization id of a child-based payload.
func (p *Payload) OrgByID(id int) (OrgRef, bool) {
	for _, o := range p.Orgs {
		if o.ID == id {
			return o, true
		}
	}
	return OrgRef{}, false
}

// Validate checks the structural invariants of the populated variant. It is
// called once at the JSON boundary; deeper pipeline stages never re-inspect
// the payload shape.
func (p *Payload) Validate() error {
	switch p.Kind {
	case PayloadFlat:
		for i, it := range p.Flat {
			if it.Org.Text == "" {
				return fmt.Errorf("%w: flat item %d has no org", ErrMalformed, i)
			}
		}
	case PayloadHierarchical:
		for i, it := range p.Hier {
			if it.TopOrg.Text == "" {
				return fmt.Errorf("%w: hierarchical item %d has no top_org", ErrMalformed, i)
			}
			for j, sub := range it.SubOrgs {
				if sub.Org.Text == "" {
					return fmt.Errorf("%w: item %d sub_org %d has no org", ErrMalformed, i, j)
				}
			}
		}
	case PayloadChildBased:
		for i, it := range p.Items {
			for _, id := range it.OrgIDs {
				if _, ok := p.OrgByID(id); !ok {
					return fmt.Errorf("%w: item %d references unknown org id %d", ErrMalformed, i, id)
				}
			}
		}
	default:
		return fmt.Errorf("%w: unknown payload kind %q", ErrMalformed, p.Kind)
	}
	return nil
}

type flatEnvelope struct {
	Items []FlatItem `json:"items"`
}

type hierEnvelope struct {
	Items []HierItem `json:"items"`
}

type childEnvelope struct {
	Orgs  []OrgRef    `json:"orgs"`
	Items []ChildItem `json:"items"`
}

// MarshalJSON serializes the populated variant under its schema.
func (p Payload) MarshalJSON() ([]byte, error) {
	switch p.Kind {
	case PayloadFlat:
		return json.Marshal(flatEnvelope{Items: p.Flat})
	case PayloadHierarchical:
		return json.Marshal(hierEnvelope{Items: p.Hier})
	case PayloadChildBased:
		return json.Marshal(childEnvelope{Orgs: p.Orgs, Items: p.Items})
	}
	return nil, fmt.Errorf("%w: unknown payload kind %q", ErrMalformed, p.Kind)
}

// UnmarshalJSON detects the schema variant by key shape, decodes it, and
// validates once. A document matching none of the schemas fails with
// ErrMalformed before any alignment work can start.
func (p *Payload) UnmarshalJSON(data []byte) error {
	var probe struct {
		Orgs  json.RawMessage   `json:"orgs"`
		Items []json.RawMessage `json:"items"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	switch {
	case probe.Orgs != nil:
		var env childEnvelope
		if err := json.Unmarshal(data, &env); err != nil {
			return fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		*p = Payload{Kind: PayloadChildBased, Orgs: env.Orgs, Items: env.Items}

	case len(probe.Items) > 0 && itemHasKey(probe.Items[0], "top_org"):
		var env hierEnvelope
		if err := json.Unmarshal(data, &env); err != nil {
			return fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		*p = Payload{Kind: PayloadHierarchical, Hier: env.Items}

	case probe.Items != nil:
		var env flatEnvelope
		if err := json.Unmarshal(data, &env); err != nil {
			return fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		*p = Payload{Kind: PayloadFlat, Flat: env.Items}

	default:
		return fmt.Errorf("%w: no items or orgs key", ErrMalformed)
	}
	return p.Validate()
}

// itemHasKey reports whether a raw JSON object carries the given key.
func itemHasKey(raw json.RawMessage, key string) bool {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return false
	}
	_, ok := obj[key]
	return ok
}
