package pipeline

import (
	"strings"
	"testing"

	"github.com/coolbeans/boletim/pkg/align"
	"github.com/coolbeans/boletim/pkg/config"
	"github.com/coolbeans/boletim/pkg/index"
)

const gazette = "### **Sumário**\n" +
	"**MINISTÉRIO DAS FINANÇAS**\n" +
	"**Despacho n.º 1/2020**\n" +
	"**Aviso n.º 2/2020**\n" +
	"**CÂMARA MUNICIPAL DA PRAIA**\n" +
	"**Edital n.º 3/2020**\n" +
	"**MINISTÉRIO DAS FINANÇAS**\n" +
	"**Despacho n.º 1/2020**\n" +
	"Nomeia o diretor de serviços do ministério.\n" +
	"**Aviso n.º 2/2020**\n" +
	"Publica a lista definitiva de candidatos.\n" +
	"**CÂMARA MUNICIPAL DA PRAIA**\n" +
	"**Edital n.º 3/2020**\n" +
	"Convoca a assembleia municipal para sessão ordinária.\n"

func TestDetectSeries(t *testing.T) {
	tests := []struct {
		name string
		want Series
	}{
		{"bo_2020_12_iiiserie.txt", SeriesThird},
		{"bo-iii-serie-45.md", SeriesThird},
		{"bo_2020_12_iserie.txt", SeriesGeneral},
		{"gazette.txt", SeriesGeneral},
	}
	for _, tt := range tests {
		if got := DetectSeries(tt.name); got != tt.want {
			t.Errorf("DetectSeries(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestSplit(t *testing.T) {
	p := New(config.Default())
	summary, body := p.Split(gazette)

	if !strings.Contains(summary, "**Edital n.º 3/2020**") {
		t.Errorf("summary lost its listing: %q", summary)
	}
	if !strings.HasPrefix(body, "**MINISTÉRIO DAS FINANÇAS**") {
		t.Errorf("body must open at the re-occurring org: %q", body)
	}
	if !strings.Contains(body, "Nomeia o diretor") {
		t.Errorf("body lost its content: %q", body)
	}
	if strings.Contains(summary, "Nomeia o diretor") {
		t.Errorf("summary swallowed body content: %q", summary)
	}
}

func TestSplitWithoutMarker(t *testing.T) {
	p := New(config.Default())
	summary, body := p.Split("**ORG A**\ntexto sem sumário.\n")
	if summary != "" || !strings.Contains(body, "texto sem sumário") {
		t.Errorf("split = (%q, %q)", summary, body)
	}
}

func TestProcessEndToEnd(t *testing.T) {
	p := New(config.Default())
	result, err := p.Process("bo_2020_01_iserie.txt", gazette)
	if err != nil {
		t.Fatalf("process: %v", err)
	}

	if result.Series != SeriesGeneral {
		t.Errorf("series = %q", result.Series)
	}
	if result.Payload.Kind != index.PayloadFlat {
		t.Fatalf("payload kind = %q (%+v)", result.Payload.Kind, result.Payload)
	}
	if len(result.Payload.Flat) != 2 {
		t.Fatalf("payload items = %+v", result.Payload.Flat)
	}

	if len(result.Orgs) != 2 {
		t.Fatalf("org results = %+v", result.Orgs)
	}
	for _, org := range result.Orgs {
		if org.Status != align.StatusOK {
			t.Errorf("org %q status = %q (%+v)", org.Org, org.Status, org.Docs)
		}
	}
	if result.Summary.DocsExpected != 3 || result.Summary.DocsMatched != 3 {
		t.Errorf("summary = %+v", result.Summary)
	}

	texts := map[string]string{}
	for _, org := range result.Orgs {
		for _, d := range org.Docs {
			texts[d.Title] = d.Text
		}
	}
	if texts["**Despacho n.º 1/2020**"] != "Nomeia o diretor de serviços do ministério.\n" {
		t.Errorf("despacho text = %q", texts["**Despacho n.º 1/2020**"])
	}
	if texts["**Edital n.º 3/2020**"] != "Convoca a assembleia municipal para sessão ordinária.\n" {
		t.Errorf("edital text = %q", texts["**Edital n.º 3/2020**"])
	}
}
