package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/TobiSchelling/waterwise/internal/config"
	"github.com/TobiSchelling/waterwise/internal/pipeline"
	"github.com/TobiSchelling/waterwise/internal/quality"
	"github.com/TobiSchelling/waterwise/internal/region"
	"github.com/TobiSchelling/waterwise/internal/report"
	"github.com/TobiSchelling/waterwise/internal/source"
	"github.com/TobiSchelling/waterwise/internal/water"
)

var version = "dev"

var (
	verbose    bool
	configPath string
	cfg        *config.Config
	logLevel   = new(slog.LevelVar)
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "waterwise",
	Short:   "California residential water use analysis",
	Long:    "waterwise derives efficiency, population and overuse metrics from supplier water use data and writes a summary report.",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogging()

		// Skip config loading for init and version
		if cmd.Name() == "init" || cmd.Name() == "version" {
			return nil
		}

		path, err := config.ResolveConfigPath(configPath)
		if err != nil {
			return err
		}
		cfg, err = config.Load(path)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if path != "" {
			slog.Debug("loaded config", "path", path)
		}

		if !verbose && cfg.Logging.Level != "" {
			if err := logLevel.UnmarshalText([]byte(cfg.Logging.Level)); err != nil {
				return fmt.Errorf("invalid log level %q: %w", cfg.Logging.Level, err)
			}
		}
		return nil
	},
}

func setupLogging() {
	opts := &slog.HandlerOptions{Level: logLevel}
	if verbose {
		logLevel.Set(slog.LevelDebug)
		opts.AddSource = true
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, opts)))
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(regionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("waterwise", version)
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration in ~/.config/waterwise/",
	RunE: func(cmd *cobra.Command, args []string) error {
		target := filepath.Join(config.ConfigDir(), "config.yaml")
		if _, err := os.Stat(target); err == nil {
			fmt.Printf("Config already exists: %s\n", target)
			return nil
		}

		if err := os.MkdirAll(config.ConfigDir(), 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}

		if err := os.WriteFile(target, config.DefaultConfigYAML, 0o644); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}

		fmt.Printf("Created config: %s\n", target)
		fmt.Println("Edit it to set column names, thresholds and region keywords.")
		return nil
	},
}

// --- analyze command ---

var (
	dryRun     bool
	outputPath string
	format     string
	sections   []string
	table      string
	sheet      string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [input]",
	Short: "Run the pipeline: load -> normalize -> derive -> classify overuse -> aggregate, then write the report",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		input, err := resolveInput(args)
		if err != nil {
			return err
		}
		applyInputFlags()

		outFormat, err := report.ParseFormat(firstNonEmpty(format, cfg.Output.Format))
		if err != nil {
			return err
		}
		if len(sections) == 0 {
			sections = cfg.Output.Sections
		}
		assembler, err := report.NewAssembler(sections)
		if err != nil {
			return err
		}

		pipe := pipeline.New(cfg)
		var result *pipeline.Result
		if dryRun {
			result = pipe.DryRun(input)
		} else {
			result = pipe.Run(input)
		}

		for i, step := range result.Steps {
			fmt.Fprintf(out, "\nStep %d/%d: %s\n", i+1, pipeline.TotalSteps, step.Name)
			if step.Err != nil {
				fmt.Fprintf(out, "  Error: %v\n", step.Err)
			} else {
				fmt.Fprintf(out, "  %s\n", step.Summary)
			}
		}
		if err := result.Err(); err != nil {
			return err
		}

		target := resolveOutputPath(outputPath, cfg.Output.Path, outFormat)
		if dryRun {
			fmt.Fprintf(out, "\n[dry-run] Would write %s report to %s\n", outFormat, target)
			return nil
		}

		if err := report.WriteFile(target, assembler.Build(result), outFormat); err != nil {
			return err
		}
		fmt.Fprintf(out, "\nAll results have been saved to %s\n", target)
		return nil
	},
}

func init() {
	analyzeCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Run every step but do not write the report")
	analyzeCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Report output path")
	analyzeCmd.Flags().StringVar(&format, "format", "", "Report format: text, markdown or html")
	analyzeCmd.Flags().StringSliceVar(&sections, "sections", nil, "Report sections to include ("+strings.Join(report.AllSections, ", ")+")")
	addInputFlags(analyzeCmd)
}

func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&table, "table", "", "Table to read from a SQLite input")
	cmd.Flags().StringVar(&sheet, "sheet", "", "Sheet to read from an Excel input")
}

func applyInputFlags() {
	if table != "" {
		cfg.Input.Table = table
	}
	if sheet != "" {
		cfg.Input.Sheet = sheet
	}
}

func resolveInput(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if cfg.Input.Path != "" {
		return cfg.Input.Path, nil
	}
	return "", errors.New("no input given: pass a file or set input.path in the config")
}

// resolveOutputPath prefers the flag, then the config. When the configured
// default keeps its .txt extension, it is swapped to match the format.
func resolveOutputPath(flag, configured string, f report.Format) string {
	if flag != "" {
		return flag
	}
	if filepath.Ext(configured) != ".txt" {
		return configured
	}
	base := strings.TrimSuffix(configured, ".txt")
	switch f {
	case report.FormatMarkdown:
		return base + ".md"
	case report.FormatHTML:
		return base + ".html"
	default:
		return configured
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// --- inspect command ---

var inspectCmd = &cobra.Command{
	Use:   "inspect [input]",
	Short: "Show columns, row counts and data quality of an input file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		input, err := resolveInput(args)
		if err != nil {
			return err
		}
		applyInputFlags()

		ds, err := source.Load(input, source.Options{Table: cfg.Input.Table, Sheet: cfg.Input.Sheet})
		if err != nil {
			return err
		}

		cols := cfg.WaterColumns()
		fmt.Fprintf(out, "Input: %s (%s)\n", ds.Path, ds.Format)
		fmt.Fprintf(out, "Rows: %d\n", len(ds.Records))
		fmt.Fprintf(out, "Columns: %d\n", len(ds.Columns))

		fmt.Fprintln(out, "\nRequired columns:")
		printPresence(out, ds, cols.Required())
		fmt.Fprintln(out, "\nOptional columns:")
		printPresence(out, ds, cols.Optional())

		if missing := ds.MissingColumns(cols.Required()); len(missing) > 0 {
			fmt.Fprintf(out, "\nCannot assess data quality: %d required column(s) missing\n", len(missing))
			return nil
		}

		normalizer := quality.NewNormalizer(cols, region.NewClassifier(cfg.Regions.Southern, cfg.Regions.Northern))
		var counts quality.Counts
		for _, raw := range ds.Records {
			if normalizer.Assess(raw) == water.QualityGood {
				counts.Good++
			} else {
				counts.Incomplete++
			}
		}
		fmt.Fprintln(out, "\nData quality:")
		fmt.Fprintf(out, "  good: %d\n", counts.Good)
		fmt.Fprintf(out, "  incomplete: %d\n", counts.Incomplete)
		return nil
	},
}

func init() {
	addInputFlags(inspectCmd)
}

func printPresence(w io.Writer, ds *source.Dataset, names []string) {
	for _, name := range names {
		mark := "missing"
		if ds.HasColumn(name) {
			mark = "ok"
		}
		fmt.Fprintf(w, "  %-40s %s\n", name, mark)
	}
}

// --- region command ---

var regionCmd = &cobra.Command{
	Use:   "region [name...]",
	Short: "Classify supplier names into California regions",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		classifier := region.NewClassifier(cfg.Regions.Southern, cfg.Regions.Northern)
		for _, name := range args {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", name, classifier.Classify(name))
		}
		return nil
	},
}
