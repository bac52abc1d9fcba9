package classify

import (
	"strings"
	"testing"
)

func labels(spans []Span) []Label {
	out := make([]Label, len(spans))
	for i, sp := range spans {
		out[i] = sp.Label
	}
	return out
}

func TestClassifyBasicDocument(t *testing.T) {
	buf := "### **Sumário**\n" +
		"**MINISTÉRIO DAS FINANÇAS**\n" +
		"**Despacho n.º 12/2012**\n" +
		"Nomeia o diretor de serviços.\n" +
		"----\n" +
		"texto corrido sem categoria\n"

	c := New()
	spans := c.Classify(buf)

	want := []Label{
		LabelSummaryMarker,
		LabelOrgHeader,
		LabelDocNameHeader,
		LabelTextLine,
		LabelJunk,
		LabelTextLine,
	}
	got := labels(spans)
	if len(got) != len(want) {
		t.Fatalf("got %d spans %v, want %d %v", len(got), got, len(want), want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("span %d: label = %q, want %q (text %q)", i, got[i], want[i], spans[i].Text)
		}
	}

	for i := 1; i < len(spans); i++ {
		if spans[i].Start < spans[i-1].End {
			t.Errorf("spans %d and %d overlap", i-1, i)
		}
	}
	for _, sp := range spans {
		if buf[sp.Start:sp.End] != sp.Text {
			t.Errorf("span text %q does not match its offsets", sp.Text)
		}
		if strings.HasSuffix(sp.Text, "\n") {
			t.Errorf("span %q keeps its line terminator", sp.Text)
		}
	}
}

func TestOrgHeaderRuns(t *testing.T) {
	buf := "DIREÇÃO REGIONAL\nDA SAÚDE\n\nSECRETARIA GERAL *\n"
	spans := New().Classify(buf)

	if len(spans) != 2 {
		t.Fatalf("got %d spans %v, want 2", len(spans), spans)
	}
	if spans[0].Label != LabelOrgHeader || spans[0].Text != "DIREÇÃO REGIONAL\nDA SAÚDE" {
		t.Errorf("run span = %+v, want merged two-line org header", spans[0])
	}
	if spans[1].Label != LabelStarredOrgHeader {
		t.Errorf("starred header label = %q", spans[1].Label)
	}
}

func TestOrgHeaderEligibility(t *testing.T) {
	tests := []struct {
		text string
		want Label
	}{
		{"MINISTÉRIO DAS FINANÇAS", LabelOrgHeader},
		{"**CÂMARA MUNICIPAL DA PRAIA**", LabelOrgHeader},
		{"SECRETARIA GERAL *", LabelStarredOrgHeader},
		{"Ministério das Finanças", ""}, // lowercase letters
		{"MINISTÉRIO", ""},              // no space
		{"12 34", ""},                   // no letters
		{"", ""},
	}
	for _, tt := range tests {
		if got := orgHeaderLabel(tt.text); got != tt.want {
			t.Errorf("orgHeaderLabel(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestDocNameLine(t *testing.T) {
	c := New()
	tests := []struct {
		text string
		want bool
	}{
		{"**Despacho n.º 12/2012**", true},
		{"**AVISO N.º 3/2020**", true},     // allow-listed type
		{"**Aviso** **n.º 4/2020**", true}, // adjacent blocks merged
		{"**DIREÇÃO REGIONAL**", false},    // all caps, not allow-listed
		{"Despacho n.º 12/2012", false},    // not bold
		{"** **", false},
	}
	for _, tt := range tests {
		if got := c.isDocNameLine(tt.text); got != tt.want {
			t.Errorf("isDocNameLine(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestDocNameBeatsOrgHeaderOnSameLine(t *testing.T) {
	spans := New().Classify("**DESPACHO N.º 3**\n")
	if len(spans) != 1 || spans[0].Label != LabelDocNameHeader {
		t.Fatalf("spans = %v, want one doc_name_header", spans)
	}
}

func TestJunkLine(t *testing.T) {
	c := New()
	tests := []struct {
		text string
		want bool
	}{
		{"----", true},
		{"  12  ", true},
		{". . . . .", true},
		{"---|---", false},                       // pipe
		{"--a--", false},                         // letter
		{strings.Repeat("-", 21), false},         // too long
		{"", false},
	}
	for _, tt := range tests {
		if got := c.isJunkLine(tt.text); got != tt.want {
			t.Errorf("isJunkLine(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestJunkSuppressedUnderConfirmedSpan(t *testing.T) {
	// The header run swallows the line range; the junk pass must not emit a
	// competing span inside it.
	buf := "**Despacho n.º 12/2012**\n"
	spans := New().Classify(buf)
	for _, sp := range spans {
		if sp.Label == LabelJunk {
			t.Fatalf("junk span survived inside %v", spans)
		}
	}
}

func TestAssembleParagraphs(t *testing.T) {
	buf := "Primeira frase do ato\n" +
		"que continua na linha seguinte.\n" +
		"Segunda frase completa.\n" +
		"continuação em minúscula apesar do ponto.\n" +
		"**Despacho 2**\n" +
		"Outro parágrafo.\n"

	c := New()
	spans := AssembleParagraphs(buf, c.Classify(buf))

	var paras []Span
	for _, sp := range spans {
		if sp.Label == LabelParagraph {
			paras = append(paras, sp)
		}
	}
	if len(paras) != 3 {
		t.Fatalf("got %d paragraphs %v, want 3", len(paras), paras)
	}

	if paras[0].Text != "Primeira frase do ato\nque continua na linha seguinte." {
		t.Errorf("first paragraph = %q, want unterminated wrap absorbed", paras[0].Text)
	}
	if !strings.HasSuffix(paras[1].Text, "apesar do ponto.") {
		t.Errorf("second paragraph = %q, want lowercase continuation absorbed", paras[1].Text)
	}
	if paras[2].Text != "Outro parágrafo." {
		t.Errorf("third paragraph = %q", paras[2].Text)
	}

	// The header must survive the paragraph pass untouched.
	found := false
	for _, sp := range spans {
		if sp.Label == LabelDocNameHeader {
			found = true
		}
	}
	if !found {
		t.Error("doc name header lost during paragraph assembly")
	}
}

func TestAssembleParagraphsStopsAtTerminator(t *testing.T) {
	buf := "Uma frase completa.\nOutra frase distinta.\n"
	c := New()
	spans := AssembleParagraphs(buf, c.Classify(buf))
	if len(spans) != 2 {
		t.Fatalf("got %v, want two separate paragraphs", spans)
	}
	for _, sp := range spans {
		if sp.Label != LabelParagraph {
			t.Errorf("label = %q, want paragraph", sp.Label)
		}
	}
}
