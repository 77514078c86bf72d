package reports

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"energydash/internal/charts"
	"energydash/internal/config"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
{{.EChartsCDN}}
<style>
body { font-family: sans-serif; max-width: 1100px; margin: 0 auto; padding: 1em; background: #fafafa; }
table { border-collapse: collapse; }
td, th { border: 1px solid #ccc; padding: 2px 8px; }
.chart-container { margin: 1em 0; }
footer { color: #777; font-size: 0.8em; margin-top: 2em; }
</style>
</head>
<body>
{{.Content}}
<h2>Generation by source</h2>
<p><img src="{{.StackImage}}" alt="Stacked generation by source" width="100%"></p>
<p><img src="{{.LegendImage}}" alt="Heat scale"></p>
<p><a href="{{.StackPage}}">Interactive chart</a></p>
{{range .Hovers}}{{.}}
{{end}}<footer>Generated {{.GeneratedAt}} by energydash {{.Version}}</footer>
</body>
</html>
`

// HTMLBuilder turns markdown and chart snippets into a snapshot page.
type HTMLBuilder struct {
	goldmark goldmark.Markdown
	page     *template.Template
}

// NewHTMLBuilder creates an HTML builder
func NewHTMLBuilder() *HTMLBuilder {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
		),
	)
	return &HTMLBuilder{
		goldmark: md,
		page:     template.Must(template.New("snapshot").Parse(pageTemplate)),
	}
}

// PageData fills the snapshot page. Image and page links are relative to
// the snapshot folder.
type PageData struct {
	Title       string
	GeneratedAt string
	Version     string
	EChartsCDN  template.HTML
	Content     template.HTML
	StackImage  string
	LegendImage string
	StackPage   string
	Hovers      []template.HTML
}

// ConvertMarkdownToHTML converts markdown to HTML using goldmark
func (h *HTMLBuilder) ConvertMarkdownToHTML(markdownContent string) (string, error) {
	var buf bytes.Buffer
	if err := h.goldmark.Convert([]byte(markdownContent), &buf); err != nil {
		return "", fmt.Errorf("failed to convert markdown: %w", err)
	}
	return buf.String(), nil
}

// BuildPage renders the markdown summary and hover snippets into a complete
// HTML document.
func (h *HTMLBuilder) BuildPage(title, markdown string, hovers []charts.ChartSnippet, generatedAt time.Time) (string, error) {
	content, err := h.ConvertMarkdownToHTML(markdown)
	if err != nil {
		return "", err
	}

	data := PageData{
		Title:       title,
		GeneratedAt: generatedAt.UTC().Format("2006-01-02 15:04:05 UTC"),
		Version:     config.GetVersion(),
		EChartsCDN:  template.HTML(charts.EChartsCDN),
		Content:     template.HTML(content),
		StackImage:  StackImageFile,
		LegendImage: LegendImageFile,
		StackPage:   StackPageFile,
	}
	for _, s := range hovers {
		data.Hovers = append(data.Hovers, template.HTML(s.HTML))
	}

	var buf bytes.Buffer
	if err := h.page.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}
