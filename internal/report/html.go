package report

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

//go:embed templates/*.html
var templateFS embed.FS

var md = goldmark.New(goldmark.WithExtensions(extension.Table))

var page = template.Must(template.New("report.html").ParseFS(templateFS, "templates/report.html"))

type sectionView struct {
	Key  string
	Body template.HTML
}

// renderHTML converts each section's markdown to HTML and places it in the
// page template.
func renderHTML(w io.Writer, rep *Report) error {
	sections := make([]sectionView, 0, len(rep.Sections))
	for _, s := range rep.Sections {
		body, err := renderMarkdown(markdownSection(s))
		if err != nil {
			return fmt.Errorf("rendering section %s: %w", s.Key, err)
		}
		sections = append(sections, sectionView{Key: s.Key, Body: body})
	}

	return page.ExecuteTemplate(w, "report.html", map[string]any{
		"Title":    rep.Title,
		"Source":   rep.Source,
		"Sections": sections,
	})
}

func renderMarkdown(text string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(text), &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil //nolint: gosec
}
