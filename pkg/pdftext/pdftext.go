// Package pdftext loads the raw text of a gazette PDF. The reconstruction
// core consumes text buffers only; this loader exists for the CLI shell.
package pdftext

import (
	"fmt"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
)

// ExtractFile returns the plain text of every page of a PDF, pages separated
// by form feeds.
func ExtractFile(path string) (string, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening pdf %s: %w", path, err)
	}
	defer f.Close()

	var buf strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// A single damaged page must not sink the rest of the gazette.
			continue
		}
		if i > 1 {
			buf.WriteString("\f")
		}
		buf.WriteString(text)
	}
	if strings.TrimSpace(buf.String()) == "" {
		return "", fmt.Errorf("pdf %s yielded no text", path)
	}
	return buf.String(), nil
}
