package classify

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/coolbeans/boletim/pkg/textmatch"
)

var (
	// boldGapPattern matches the seam between two adjacent bold blocks that
	// are separated only by spaces, so "**Aviso** **n.º 4**" becomes a
	// single block before the document-name check.
	boldGapPattern = regexp.MustCompile(`\*\*[ \t]+\*\*`)

	// wholeBoldPattern matches a line that is exactly one bold block.
	wholeBoldPattern = regexp.MustCompile(`^\*\*([^*]+)\*\*$`)
)

// defaultDocNames is the allow-list of all-caps document type names accepted
// as document headers even though they contain no lowercase letter. Keys are
// letters-only forms.
var defaultDocNames = []string{
	"Anúncio", "Aviso", "Contrato", "Convocatória", "Convite",
	"Declaração", "Deliberação", "Despacho", "Edital", "Extrato",
	"Lista", "Louvor", "Regulamento", "Retificação",
}

// DefaultJunkMaxLen is the maximum trimmed length of a junk line.
const DefaultJunkMaxLen = 20

// Classifier classifies gazette text buffers. The zero value is not usable;
// construct one with New. A Classifier is stateless across calls and safe for
// concurrent use.
type Classifier struct {
	junkMaxLen int
	docNames   []string
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithJunkMaxLen overrides the maximum trimmed length of a junk line.
func WithJunkMaxLen(n int) Option {
	return func(c *Classifier) {
		if n > 0 {
			c.junkMaxLen = n
		}
	}
}

// WithDocNameAllowList replaces the all-caps document name allow-list.
func WithDocNameAllowList(names []string) Option {
	return func(c *Classifier) {
		c.docNames = make([]string, len(names))
		for i, n := range names {
			c.docNames[i] = textmatch.LettersOnly(n)
		}
	}
}

// New creates a Classifier with the default junk length and document name
// allow-list.
func New(opts ...Option) *Classifier {
	c := &Classifier{junkMaxLen: DefaultJunkMaxLen}
	WithDocNameAllowList(defaultDocNames)(c)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// line is one buffer line with its byte interval. End excludes the trailing
// line terminator, so a span built from lines is already trimmed.
type line struct {
	text  string
	start int
	end   int
}

// splitLines cuts the buffer into lines, handling both \n and \r\n.
func splitLines(buf string) []line {
	var lines []line
	start := 0
	for i := 0; i < len(buf); i++ {
		if buf[i] != '\n' {
			continue
		}
		end := i
		if end > start && buf[end-1] == '\r' {
			end--
		}
		lines = append(lines, line{text: buf[start:end], start: start, end: end})
		start = i + 1
	}
	if start < len(buf) {
		lines = append(lines, line{text: buf[start:], start: start, end: len(buf)})
	}
	return lines
}

// runBuilder accumulates consecutive same-label lines into one span. Push
// returns a flushed span whenever the incoming label closes the open run.
type runBuilder struct {
	label Label
	start int
	end   int
	open  bool
}

// push feeds the next line's label into the run. An empty label means the
// line is ineligible and only flushes. The returned span is valid when the
// second result is true.
func (b *runBuilder) push(label Label, ln line) (Span, bool) {
	if b.open && label == b.label {
		b.end = ln.end
		return Span{}, false
	}
	flushed, ok := b.flush()
	if label != "" {
		b.label = label
		b.start = ln.start
		b.end = ln.end
		b.open = true
	}
	return flushed, ok
}

// flush closes the open run, if any.
func (b *runBuilder) flush() (Span, bool) {
	if !b.open {
		return Span{}, false
	}
	b.open = false
	return Span{Label: b.label, Start: b.start, End: b.end}, true
}

// Classify runs every classification pass over the buffer and merges the
// results into one sorted, non-overlapping span list. Uncovered non-empty
// lines become TextLine spans.
func (c *Classifier) Classify(buf string) []Span {
	lines := splitLines(buf)

	spans := mergeSpans(
		c.summaryMarkerPass(lines),
		c.orgHeaderPass(lines),
		c.docNamePass(lines),
		c.junkPass(lines),
	)
	spans = c.fillTextLines(buf, lines, spans)

	for i := range spans {
		spans[i].Text = buf[spans[i].Start:spans[i].End]
	}
	return spans
}

// summaryMarkerPass finds the heading line that opens the summary section.
func (c *Classifier) summaryMarkerPass(lines []line) []Span {
	var spans []Span
	for _, ln := range lines {
		trimmed := strings.TrimSpace(ln.text)
		if strings.HasPrefix(trimmed, "#") && textmatch.LettersOnly(trimmed) == "sumario" {
			spans = append(spans, Span{Label: LabelSummaryMarker, Start: ln.start, End: ln.end})
		}
	}
	return spans
}

// orgHeaderPass merges consecutive organization header lines into runs.
// Starred and plain headers are distinct labels, so a starred line always
// closes a plain run and vice versa.
func (c *Classifier) orgHeaderPass(lines []line) []Span {
	var spans []Span
	var run runBuilder
	for _, ln := range lines {
		label := orgHeaderLabel(ln.text)
		if sp, ok := run.push(label, ln); ok {
			spans = append(spans, sp)
		}
	}
	if sp, ok := run.flush(); ok {
		spans = append(spans, sp)
	}
	return spans
}

// orgHeaderLabel classifies one line as an org header, a starred org header,
// or neither (empty label). Headers have at least one space, at least one
// letter, and zero lowercase letters after bold stripping.
func orgHeaderLabel(text string) Label {
	inner := textmatch.StripBold(text)
	if !strings.Contains(inner, " ") {
		return ""
	}
	hasLetter := false
	for _, r := range inner {
		if unicode.IsLower(r) {
			return ""
		}
		if unicode.IsLetter(r) {
			hasLetter = true
		}
	}
	if !hasLetter {
		return ""
	}
	if strings.Contains(inner, "*") {
		return LabelStarredOrgHeader
	}
	return LabelOrgHeader
}

// docNamePass emits one span per document-name line. Unlike org headers,
// consecutive titles stay separate spans; later stages group them into header
// blocks when needed. Bold blocks on one line separated only by spaces are
// merged before the check.
func (c *Classifier) docNamePass(lines []line) []Span {
	var spans []Span
	for _, ln := range lines {
		if c.isDocNameLine(ln.text) {
			spans = append(spans, Span{Label: LabelDocNameHeader, Start: ln.start, End: ln.end})
		}
	}
	return spans
}

// isDocNameLine reports whether the line is a bold-delimited document title:
// a single bold block (adjacent blocks joined first) whose inner text either
// contains a lowercase letter or opens with an allow-listed document type.
// The allow-list check runs on the letters-only key, so OCR letter spacing
// ("D ESPACHO 1") does not hide a known type.
func (c *Classifier) isDocNameLine(text string) bool {
	merged := strings.TrimSpace(boldGapPattern.ReplaceAllString(text, " "))
	m := wholeBoldPattern.FindStringSubmatch(merged)
	if m == nil {
		return false
	}
	inner := strings.TrimSpace(m[1])
	if inner == "" {
		return false
	}
	if strings.ContainsFunc(inner, unicode.IsLower) {
		return true
	}
	key := textmatch.LettersOnly(inner)
	for _, name := range c.docNames {
		if strings.HasPrefix(key, name) {
			return true
		}
	}
	return false
}

// junkPass emits one span per junk line. Junk lines never merge into runs.
func (c *Classifier) junkPass(lines []line) []Span {
	var spans []Span
	for _, ln := range lines {
		if c.isJunkLine(ln.text) {
			spans = append(spans, Span{Label: LabelJunk, Start: ln.start, End: ln.end})
		}
	}
	return spans
}

// isJunkLine reports whether the line is short noise: punctuation, digits and
// symbols only, with no letters and no pipe.
func (c *Classifier) isJunkLine(text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || len([]rune(trimmed)) > c.junkMaxLen {
		return false
	}
	for _, r := range trimmed {
		if r == '|' || unicode.IsLetter(r) {
			return false
		}
		if !unicode.IsPunct(r) && !unicode.IsDigit(r) && !unicode.IsSymbol(r) && !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

// mergeSpans combines spans from distinct passes. On overlap the longer span
// wins, a later pass beats an earlier one at equal length, and a junk span is
// always suppressed when it overlaps any kept span.
func mergeSpans(passes ...[]Span) []Span {
	type ranked struct {
		Span
		pass int
	}
	var all []ranked
	for i, p := range passes {
		for _, sp := range p {
			all = append(all, ranked{Span: sp, pass: i})
		}
	}
	sort.SliceStable(all, func(i, j int) bool {
		if (all[i].Label == LabelJunk) != (all[j].Label == LabelJunk) {
			return all[j].Label == LabelJunk
		}
		if all[i].Len() != all[j].Len() {
			return all[i].Len() > all[j].Len()
		}
		return all[i].pass > all[j].pass
	})

	var kept []Span
	for _, r := range all {
		overlaps := false
		for _, k := range kept {
			if r.Overlaps(k) {
				overlaps = true
				break
			}
		}
		if !overlaps {
			kept = append(kept, r.Span)
		}
	}
	sort.Slice(kept, func(i, j int) bool { return kept[i].Start < kept[j].Start })
	return kept
}

// fillTextLines adds a TextLine span for every non-empty line not covered by
// an existing span. Text lines stay per-line so the paragraph pass can see
// line boundaries.
func (c *Classifier) fillTextLines(buf string, lines []line, spans []Span) []Span {
	out := spans
	for _, ln := range lines {
		if strings.TrimSpace(ln.text) == "" {
			continue
		}
		covered := false
		candidate := Span{Start: ln.start, End: ln.end}
		for _, sp := range spans {
			if candidate.Overlaps(sp) {
				covered = true
				break
			}
		}
		if !covered {
			candidate.Label = LabelTextLine
			out = append(out, candidate)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}
