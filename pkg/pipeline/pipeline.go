// Package pipeline wires the reconstruction stages together: split a gazette
// text into its summary and body sections, extract the index from the
// summary, and align it against the body. Stages are pure batch transforms;
// the index is frozen before alignment reads it.
package pipeline

import (
	"strings"

	"github.com/coolbeans/boletim/pkg/align"
	"github.com/coolbeans/boletim/pkg/classify"
	"github.com/coolbeans/boletim/pkg/config"
	"github.com/coolbeans/boletim/pkg/index"
	"github.com/coolbeans/boletim/pkg/textmatch"
)

// Series identifies the gazette series, which selects the index extractor.
type Series string

const (
	// SeriesGeneral covers the first and second series (flat or
	// hierarchical summaries).
	SeriesGeneral Series = "general"

	// SeriesThird covers the third series (child-based summaries).
	SeriesThird Series = "third"
)

// DetectSeries guesses the series from a file name. Third-series gazettes
// carry an "iii serie" marker in their names.
func DetectSeries(name string) Series {
	key := textmatch.LettersOnly(name)
	if strings.Contains(key, "iiiserie") || strings.Contains(key, "serieiii") {
		return SeriesThird
	}
	return SeriesGeneral
}

// Result is the full outcome of processing one gazette text.
type Result struct {
	Name      string
	Series    Series
	Payload   *index.Payload
	Relations []index.Relation
	Orgs      []align.OrgResult
	Summary   align.Summary
}

// Pipeline processes gazette texts with one fixed configuration. It is
// stateless across documents and safe for concurrent use.
type Pipeline struct {
	classifier *classify.Classifier
	aligner    *align.Aligner
}

// New builds a pipeline from configuration.
func New(cfg config.Config) *Pipeline {
	return &Pipeline{
		classifier: cfg.Classifier(),
		aligner:    cfg.Aligner(),
	}
}

// Split cuts the gazette text at the summary marker and locates the body:
// the body starts where the first summary organization re-occurs after the
// summary listing. Without a marker the whole text is body; without a
// re-occurrence the text after the marker serves as both sections.
func (p *Pipeline) Split(text string) (summary, body string) {
	spans := p.classifier.Classify(text)

	markerEnd := -1
	for _, sp := range spans {
		if sp.Label == classify.LabelSummaryMarker {
			markerEnd = sp.End
			break
		}
	}
	if markerEnd < 0 {
		return "", text
	}

	// First organization named after the marker.
	firstKey := ""
	firstEnd := -1
	for _, sp := range spans {
		if sp.Start < markerEnd {
			continue
		}
		if sp.Label == classify.LabelOrgHeader || sp.Label == classify.LabelStarredOrgHeader {
			firstKey = textmatch.OrgKey(sp.Text)
			firstEnd = sp.End
			break
		}
	}
	if firstKey == "" {
		return "", text
	}

	// The body opens at that organization's re-occurrence.
	for _, sp := range spans {
		if sp.Start <= firstEnd {
			continue
		}
		if sp.Label != classify.LabelOrgHeader && sp.Label != classify.LabelStarredOrgHeader {
			continue
		}
		if textmatch.OrgKey(sp.Text) == firstKey {
			return text[markerEnd:sp.Start], text[sp.Start:]
		}
	}

	rest := text[markerEnd:]
	return rest, rest
}

// Process runs the full reconstruction over one gazette text. name selects
// the series; the text carries both sections.
func (p *Pipeline) Process(name, text string) (*Result, error) {
	summary, body := p.Split(text)

	summarySpans := p.classifier.Classify(summary)
	summarySpans = classify.AssembleParagraphs(summary, summarySpans)

	var (
		relations []index.Relation
		payload   *index.Payload
	)
	series := DetectSeries(name)
	if series == SeriesThird {
		relations, payload = index.NewThirdSeriesExtractor().Extract(summary, summarySpans)
	} else {
		relations, payload = index.NewExtractor().Extract(summary, summarySpans)
	}

	bodySpans := p.classifier.Classify(body)
	orgs, counters, err := p.aligner.Align(body, bodySpans, payload)
	if err != nil {
		return nil, err
	}

	return &Result{
		Name:      name,
		Series:    series,
		Payload:   payload,
		Relations: relations,
		Orgs:      orgs,
		Summary:   counters,
	}, nil
}
