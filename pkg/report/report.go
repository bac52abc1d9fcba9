// Package report renders alignment results for humans: a Markdown report
// suitable for repository rendering, an HTML version of that Markdown, and a
// compact console summary.
package report

import (
	"fmt"
	"strings"

	"github.com/coolbeans/boletim/pkg/align"
)

// Report bundles the alignment output of one gazette for rendering.
type Report struct {
	// Name identifies the source document.
	Name string

	// Orgs are the per-organization results in index order.
	Orgs []align.OrgResult

	// Summary holds the aggregated counters.
	Summary align.Summary
}

// statusBadge maps a status to its Markdown badge.
func statusBadge(s align.Status) string {
	switch s {
	case align.StatusOK:
		return "✅"
	case align.StatusPartial:
		return "⚠️"
	case align.StatusDocMissing, align.StatusUnanchored:
		return "❌"
	case align.StatusOrgMissing:
		return "🚫"
	}
	return "❓"
}

// ToMarkdown generates the full Markdown report: a summary table followed by
// one section per organization with its document slices.
func (r *Report) ToMarkdown() string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Reconstruction Report: %s\n\n", r.Name)

	b.WriteString("## Summary\n\n")
	b.WriteString("| Metric | Value |\n")
	b.WriteString("|--------|-------|\n")
	fmt.Fprintf(&b, "| Organizations | %d |\n", r.Summary.Total)
	fmt.Fprintf(&b, "| OK | %d |\n", r.Summary.OK)
	fmt.Fprintf(&b, "| Partial | %d |\n", r.Summary.Partial)
	fmt.Fprintf(&b, "| Documents missing | %d |\n", r.Summary.DocMissing)
	fmt.Fprintf(&b, "| Organizations missing | %d |\n", r.Summary.OrgMissing)
	fmt.Fprintf(&b, "| Documents expected | %d |\n", r.Summary.DocsExpected)
	fmt.Fprintf(&b, "| Documents matched | %d |\n", r.Summary.DocsMatched)
	b.WriteString("\n")

	for _, org := range r.Orgs {
		fmt.Fprintf(&b, "## %s %s\n\n", statusBadge(org.Status), orgHeading(org))

		if len(org.Docs) == 0 {
			b.WriteString("_No documents declared._\n\n")
			continue
		}

		b.WriteString("| Document | Status | Confidence | Length |\n")
		b.WriteString("|----------|--------|-----------:|-------:|\n")
		for _, d := range org.Docs {
			title := d.Title
			if title == "" {
				title = "_(untitled)_"
			}
			fmt.Fprintf(&b, "| %s | %s %s | %.2f | %d |\n",
				title, statusBadge(d.Status), d.Status, d.Confidence, len(d.Text))
		}
		b.WriteString("\n")

		for _, d := range org.Docs {
			if len(d.Subs) == 0 {
				continue
			}
			fmt.Fprintf(&b, "### Subdivisions of %s\n\n", d.Title)
			for _, sub := range d.Subs {
				title := sub.Title
				if title == "" {
					title = "(untitled)"
				}
				fmt.Fprintf(&b, "- **%s** (%d bytes)\n", title, len(sub.Body))
			}
			b.WriteString("\n")
		}
	}

	return b.String()
}

// String renders a compact console summary, one line per organization.
func (r *Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %d orgs, %d/%d docs matched (ok %d, partial %d, doc_missing %d, org_missing %d)\n",
		r.Name, r.Summary.Total, r.Summary.DocsMatched, r.Summary.DocsExpected,
		r.Summary.OK, r.Summary.Partial, r.Summary.DocMissing, r.Summary.OrgMissing)
	for _, org := range r.Orgs {
		fmt.Fprintf(&b, "  [%s] %s (%d docs)\n", org.Status, orgHeading(org), len(org.Docs))
	}
	return b.String()
}

func orgHeading(org align.OrgResult) string {
	name := strings.TrimSpace(strings.ReplaceAll(org.Org, "**", ""))
	if name == "" {
		return "(unnamed organization)"
	}
	return name
}
