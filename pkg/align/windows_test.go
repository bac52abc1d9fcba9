package align

import (
	"testing"

	"github.com/coolbeans/boletim/pkg/classify"
	"github.com/coolbeans/boletim/pkg/textmatch"
)

func TestCoalesceAnchors(t *testing.T) {
	body := "MINISTÉRIO DAS FINANÇAS\n---\nE DO PLANEAMENTO\n\ntexto corrido.\nCÂMARA MUNICIPAL DA PRAIA\n"
	spans := classify.New().Classify(body)

	anchors := coalesceAnchors(body, spans, DefaultMergeMaxGap)
	if len(anchors) != 2 {
		t.Fatalf("anchors = %+v, want wrapped header coalesced across the rule", anchors)
	}
	if textmatch.OrgKey(anchors[0].text) != textmatch.OrgKey("MINISTÉRIO DAS FINANÇAS E DO PLANEAMENTO") {
		t.Errorf("coalesced anchor text = %q", anchors[0].text)
	}
}

func TestCoalesceRespectsGapBound(t *testing.T) {
	body := "MINISTÉRIO DAS FINANÇAS\n---\nE DO PLANEAMENTO\n"
	spans := classify.New().Classify(body)

	anchors := coalesceAnchors(body, spans, 2)
	if len(anchors) != 2 {
		t.Fatalf("anchors = %+v, want separate anchors under a tight gap bound", anchors)
	}
}

func TestMatchAnchorsKeepsDeclaredOnly(t *testing.T) {
	m := textmatch.NewMatcher(textmatch.DefaultThresholds())
	anchors := []anchor{
		{text: "MINISTÉRIO DAS FINANÇAS"},
		{text: "RODAPÉ DE PÁGINA QUALQUER"},
		{text: "M INISTÉRIO DAS F INANÇAS"}, // OCR spacing, same org
	}
	kept := matchAnchors(anchors, []string{"Ministério das Finanças"}, m)
	if len(kept) != 2 {
		t.Fatalf("kept = %+v, want both occurrences of the declared org", kept)
	}
	for _, k := range kept {
		if k.name != "Ministério das Finanças" {
			t.Errorf("anchor renamed to %q, want the canonical text", k.name)
		}
	}
}

func TestTileWindows(t *testing.T) {
	kept := []namedAnchor{
		{anchor: anchor{start: 10, end: 20}, name: "A"},
		{anchor: anchor{start: 50, end: 60}, name: "B"},
	}
	windows := tileWindows(kept, 0, 100)
	if len(windows) != 2 {
		t.Fatalf("windows = %+v", windows)
	}
	if windows[0].Start != 0 || windows[0].End != 50 {
		t.Errorf("window 0 = %+v, want [0,50)", windows[0])
	}
	if windows[1].Start != 50 || windows[1].End != 100 {
		t.Errorf("window 1 = %+v, want [50,100)", windows[1])
	}
	if tileWindows(nil, 0, 100) != nil {
		t.Error("no anchors must yield no windows")
	}
}
