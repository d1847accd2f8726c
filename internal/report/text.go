package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

const rule = "============================================================"

func renderText(w io.Writer, rep *Report) error {
	bw := bufio.NewWriter(w)

	// blank is set when the last line written was already empty
	blank := true
	for _, s := range rep.Sections {
		if s.Banner {
			fmt.Fprintf(bw, "%s\n %s\n%s\n", rule, s.Title, rule)
		} else {
			if !blank {
				bw.WriteString("\n")
			}
			fmt.Fprintf(bw, "=== %s ===\n", s.Title)
		}
		blank = false

		for _, b := range s.Blocks {
			switch {
			case b.Table != nil:
				if err := writeTextTable(bw, b.Table); err != nil {
					return err
				}
				blank = false
			case b.Summary != nil:
				fmt.Fprintln(bw, b.Summary.Title)
				for _, f := range b.Summary.Fields {
					fmt.Fprintf(bw, "  %s: %s\n", f.Label, f.Value)
				}
				bw.WriteString("\n")
				blank = true
			default:
				fmt.Fprintln(bw, b.Text)
				blank = false
			}
		}

		if s.Banner {
			fmt.Fprintf(bw, "%s\n\n", rule)
			blank = true
		}
	}
	return bw.Flush()
}

func writeTextTable(w io.Writer, t *Table) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(t.Headers, "\t"))
	for _, row := range t.Rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}
