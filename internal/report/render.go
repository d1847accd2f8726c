package report

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Format is an output rendering.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// ParseFormat accepts text, markdown (or md) and html.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt":
		return FormatText, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "html":
		return FormatHTML, nil
	default:
		return "", fmt.Errorf("unknown output format %q (valid: text, markdown, html)", s)
	}
}

// Render writes rep to w in the given format.
func Render(w io.Writer, rep *Report, format Format) error {
	switch format {
	case FormatText, "":
		return renderText(w, rep)
	case FormatMarkdown:
		_, err := io.WriteString(w, toMarkdown(rep))
		return err
	case FormatHTML:
		return renderHTML(w, rep)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// WriteFile renders rep and writes it to path, creating parent directories.
// Nothing is written if rendering fails.
func WriteFile(path string, rep *Report, format Format) error {
	var buf bytes.Buffer
	if err := Render(&buf, rep, format); err != nil {
		return fmt.Errorf("rendering report: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	slog.Info("report written", "path", path, "format", format, "sections", len(rep.Sections))
	return nil
}
