package report

import (
	"strings"
	"testing"

	"github.com/coolbeans/boletim/pkg/align"
)

func sampleReport() *Report {
	return &Report{
		Name: "bo_2020_01.txt",
		Orgs: []align.OrgResult{
			{
				Org:    "**MINISTÉRIO DAS FINANÇAS**",
				Status: align.StatusOK,
				Docs: []align.DocSlice{
					{Title: "Despacho n.º 1/2020", Text: "corpo.\n", Status: align.StatusOK, Confidence: 1.0},
				},
			},
			{
				Org:    "ORG B",
				Status: align.StatusOrgMissing,
				Docs: []align.DocSlice{
					{Title: "Aviso n.º 2/2020", Status: align.StatusOrgMissing},
				},
			},
		},
		Summary: align.Summary{
			Total: 2, OK: 1, OrgMissing: 1,
			DocsExpected: 2, DocsMatched: 1,
		},
	}
}

func TestToMarkdown(t *testing.T) {
	out := sampleReport().ToMarkdown()

	for _, want := range []string{
		"# Reconstruction Report: bo_2020_01.txt",
		"| Organizations | 2 |",
		"| Documents matched | 1 |",
		"MINISTÉRIO DAS FINANÇAS",
		"| Despacho n.º 1/2020 | ✅ ok | 1.00 | 7 |",
		"org_missing",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "## **MINISTÉRIO") {
		t.Error("org heading keeps bold delimiters")
	}
}

func TestToHTML(t *testing.T) {
	out, err := sampleReport().ToHTML()
	if err != nil {
		t.Fatalf("html: %v", err)
	}
	for _, want := range []string{
		"<!DOCTYPE html>",
		"<table>",
		"MINISTÉRIO DAS FINANÇAS",
		"<title>bo_2020_01.txt</title>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("html missing %q", want)
		}
	}
}

func TestString(t *testing.T) {
	out := sampleReport().String()
	if !strings.Contains(out, "1/2 docs matched") {
		t.Errorf("console summary = %q", out)
	}
	if !strings.Contains(out, "[org_missing] ORG B") {
		t.Errorf("per-org line missing: %q", out)
	}
}
