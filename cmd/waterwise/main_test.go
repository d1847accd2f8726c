package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/TobiSchelling/waterwise/internal/config"
	"github.com/TobiSchelling/waterwise/internal/report"
)

func TestResolveOutputPath(t *testing.T) {
	tests := []struct {
		flag, configured string
		format           report.Format
		want             string
	}{
		{"out.txt", "water_use_summary.txt", report.FormatHTML, "out.txt"},
		{"", "water_use_summary.txt", report.FormatText, "water_use_summary.txt"},
		{"", "water_use_summary.txt", report.FormatMarkdown, "water_use_summary.md"},
		{"", "reports/summary.txt", report.FormatHTML, "reports/summary.html"},
		{"", "summary.report", report.FormatHTML, "summary.report"},
	}
	for _, tt := range tests {
		if got := resolveOutputPath(tt.flag, tt.configured, tt.format); got != tt.want {
			t.Errorf("resolveOutputPath(%q, %q, %s) = %q, want %q", tt.flag, tt.configured, tt.format, got, tt.want)
		}
	}
}

func TestFirstNonEmpty(t *testing.T) {
	if got := firstNonEmpty("", "markdown", "text"); got != "markdown" {
		t.Errorf("expected markdown, got %q", got)
	}
	if got := firstNonEmpty("", ""); got != "" {
		t.Errorf("expected empty, got %q", got)
	}
}

const commandInput = "SUPPLIER_NAME,AWU_TOTAL_RES_GAL,AWU_POTABLE_TOTAL_RES_GAL,AWU_TOTAL_RES_RGPCD\n" +
	"Los Angeles DWP,1000000,800000,100\n" +
	"Fresno Irrigation,0,500,90\n"

// resetFlags clears flag variables left over from a previous Execute.
func resetFlags() {
	verbose = false
	configPath = ""
	dryRun = false
	outputPath = ""
	format = ""
	sections = nil
	table = ""
	sheet = ""
}

func TestCommands(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	input := filepath.Join(dir, "water.csv")
	if err := os.WriteFile(input, []byte(commandInput), 0o644); err != nil {
		t.Fatalf("failed to write input: %v", err)
	}
	cfgFile := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(cfgFile, config.DefaultConfigYAML, 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	tests := []struct {
		name      string
		args      []string
		want      []string
		report    string
		reportHas string
	}{
		{
			name:      "analyze writes report",
			args:      []string{"analyze", input, "-o", filepath.Join(dir, "summary.txt")},
			want:      []string{"Step 1/5: Load", "Step 5/5: Aggregate", "All results have been saved to"},
			report:    filepath.Join(dir, "summary.txt"),
			reportHas: "Los Angeles DWP (Southern California)",
		},
		{
			name:      "analyze markdown",
			args:      []string{"analyze", input, "--format", "markdown", "-o", filepath.Join(dir, "summary.md")},
			want:      []string{"All results have been saved to"},
			report:    filepath.Join(dir, "summary.md"),
			reportHas: "# California Water Use Analysis",
		},
		{
			name: "analyze dry run",
			args: []string{"analyze", input, "--dry-run", "-o", filepath.Join(dir, "dry.txt")},
			want: []string{"[dry-run] Kept 1 good records, dropped 1 incomplete", "[dry-run] Would write text report to"},
		},
		{
			name: "inspect",
			args: []string{"inspect", input},
			want: []string{"Rows: 2", "good: 1", "incomplete: 1"},
		},
		{
			name: "region",
			args: []string{"region", "San Diego Water Co", "Sacramento Utilities"},
			want: []string{"San Diego Water Co: Southern California", "Sacramento Utilities: Northern California"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetFlags()
			var out bytes.Buffer
			rootCmd.SetOut(&out)
			rootCmd.SetArgs(append([]string{"--config", cfgFile}, tt.args...))
			defer rootCmd.SetOut(nil)

			if err := rootCmd.Execute(); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			for _, want := range tt.want {
				if !strings.Contains(out.String(), want) {
					t.Errorf("expected output to contain %q, got:\n%s", want, out.String())
				}
			}

			if tt.report == "" {
				return
			}
			data, err := os.ReadFile(tt.report)
			if err != nil {
				t.Fatalf("expected report file: %v", err)
			}
			if !strings.Contains(string(data), tt.reportHas) {
				t.Errorf("expected report to contain %q", tt.reportHas)
			}
		})
	}

	if _, err := os.Stat(filepath.Join(dir, "dry.txt")); !os.IsNotExist(err) {
		t.Errorf("expected dry run to write no report, got %v", err)
	}
}
