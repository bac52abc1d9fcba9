package report

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// md renders the report Markdown. Table support is required for the summary
// tables; unsafe raw HTML stays disabled.
var md = goldmark.New(
	goldmark.WithExtensions(extension.Table),
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

const htmlShell = `<!DOCTYPE html>
<html lang="pt">
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
body { font-family: sans-serif; max-width: 60rem; margin: 2rem auto; padding: 0 1rem; }
table { border-collapse: collapse; }
th, td { border: 1px solid #ccc; padding: 0.3rem 0.6rem; }
th { background: #f2f2f2; }
</style>
</head>
<body>
%s</body>
</html>
`

// ToHTML renders the Markdown report as a standalone HTML page.
func (r *Report) ToHTML() (string, error) {
	var body strings.Builder
	if err := md.Convert([]byte(r.ToMarkdown()), &body); err != nil {
		return "", fmt.Errorf("rendering report: %w", err)
	}
	return fmt.Sprintf(htmlShell, htmlEscape(r.Name), body.String()), nil
}

func htmlEscape(s string) string {
	replacer := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return replacer.Replace(s)
}
