package report

import (
	"fmt"
	"strings"
)

// toMarkdown renders the report as GitHub-flavored markdown.
func toMarkdown(rep *Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", rep.Title)
	if rep.Source != "" {
		fmt.Fprintf(&b, "Source: `%s`\n\n", rep.Source)
	}

	var sections []string
	for _, s := range rep.Sections {
		sections = append(sections, markdownSection(s))
	}
	b.WriteString(strings.Join(sections, "\n\n"))
	b.WriteString("\n")
	return b.String()
}

func markdownSection(s Section) string {
	parts := []string{"## " + escapeMarkdown(s.Title)}
	for _, blk := range s.Blocks {
		switch {
		case blk.Table != nil:
			parts = append(parts, markdownTable(blk.Table))
		case blk.Summary != nil:
			lines := []string{"**" + escapeMarkdown(blk.Summary.Title) + "**", ""}
			for _, f := range blk.Summary.Fields {
				lines = append(lines, fmt.Sprintf("- %s: %s", f.Label, escapeMarkdown(f.Value)))
			}
			parts = append(parts, strings.Join(lines, "\n"))
		default:
			parts = append(parts, escapeMarkdown(blk.Text))
		}
	}
	return strings.Join(parts, "\n\n")
}

func markdownTable(t *Table) string {
	var b strings.Builder
	b.WriteString("| " + strings.Join(escapeCells(t.Headers), " | ") + " |\n")
	seps := make([]string, len(t.Headers))
	for i := range seps {
		seps[i] = "---"
	}
	b.WriteString("| " + strings.Join(seps, " | ") + " |")
	for _, row := range t.Rows {
		b.WriteString("\n| " + strings.Join(escapeCells(row), " | ") + " |")
	}
	return b.String()
}

func escapeCells(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = strings.ReplaceAll(escapeMarkdown(c), "|", `\|`)
	}
	return out
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
	"<", "&lt;",
	">", "&gt;",
)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
