package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/yildizm/dashdrop/internal/config"
	"github.com/yildizm/dashdrop/internal/dataset"
	"github.com/yildizm/dashdrop/internal/emoji"
	"github.com/yildizm/dashdrop/internal/formatter"
	"github.com/yildizm/dashdrop/internal/report"
)

var (
	analyzeDryRun     bool
	analyzeNoImages   bool
	analyzeOutputFile string
)

func newAnalyzeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [file]",
		Short: "Upload a file for analysis and chart the result",
		Long: `Upload a file to the analysis server and render the returned charts.

The bar and line charts are written as PNG files to the configured output
directory, and the report is printed in the selected output format.

Examples:
  dashdrop analyze sales.csv
  dashdrop analyze --output json sales.xlsx
  dashdrop analyze --dry-run sales.csv
  dashdrop analyze --server http://analysis:8000 data.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: runAnalyze,
	}

	cmd.Flags().BoolVar(&analyzeDryRun, "dry-run", false, "inspect the file without uploading it")
	cmd.Flags().BoolVar(&analyzeNoImages, "no-images", false, "do not write chart PNG files")
	cmd.Flags().StringVar(&analyzeOutputFile, "output-file", "", "save output to file instead of stdout")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg := GetGlobalConfig()
	if analyzeNoImages {
		cfg.Render.Images = false
	}

	var path string
	if len(args) == 1 && strings.TrimSpace(args[0]) != "" {
		path = filepath.Clean(args[0])
	}

	if analyzeDryRun {
		if path == "" {
			return fmt.Errorf("dry run needs a file")
		}
		return runDryRun(cmd.OutOrStdout(), path)
	}

	// fail before any network activity on a bad format
	f, err := getFormatter(getOutputFormat(), useColor(), cfg)
	if err != nil {
		return fmt.Errorf("failed to get formatter: %w", err)
	}

	stderr := cmd.ErrOrStderr()
	view := newConsoleView(stderr, imagePaths(cfg))
	ctrl, renderer, err := newSession(cfg, view, newLogger("analyze", stderr))
	if err != nil {
		return err
	}

	if err := ctrl.Submit(baseContext(cmd), path); err != nil {
		return err
	}

	return writeReport(cmd.OutOrStdout(), f, renderer.Last(), analyzeOutputFile)
}

// runDryRun prints what would be uploaded
func runDryRun(w io.Writer, path string) error {
	info, err := dataset.Inspect(path)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, emoji.Prefix("file", info.Name))
	fmt.Fprintf(w, "  Path:   %s\n", info.Path)
	fmt.Fprintf(w, "  Size:   %s\n", info.SizeLabel())
	fmt.Fprintf(w, "  Format: %s\n", info.Format)
	if rows := info.RowsLabel(); rows != "" {
		fmt.Fprintf(w, "  Rows:   %s\n", rows)
	}
	if len(info.Sheets) > 0 {
		fmt.Fprintf(w, "  Sheets: %v\n", info.Sheets)
	}

	cfg := GetGlobalConfig()
	fmt.Fprintln(w, emoji.Prefix("upload", fmt.Sprintf("Would upload to %s%s as %q",
		cfg.Server.URL, cfg.Server.Endpoint, cfg.Server.FieldName)))
	return nil
}

// writeReport formats rep and writes it to outputFile, or to w when empty
func writeReport(w io.Writer, f formatter.Formatter, rep *report.Report, outputFile string) error {
	output, err := f.Format(rep)
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}

	if outputFile == "" {
		_, err := w.Write(output)
		return err
	}

	if err := writeOutputBytesToFile(output, outputFile); err != nil {
		return fmt.Errorf("failed to write output to file: %w", err)
	}
	if isVerbose() {
		fmt.Fprintf(os.Stderr, "Output saved to: %s\n", outputFile)
	}
	return nil
}

// getFormatter returns the appropriate formatter for the given format
func getFormatter(format string, color bool, cfg *config.Config) (formatter.Formatter, error) {
	switch format {
	case "json":
		return formatter.NewJSON(), nil
	case "markdown", "md":
		return formatter.NewMarkdown(), nil
	case "csv":
		return formatter.NewCSV(), nil
	case "text", "terminal", "":
		return formatter.NewTerminal(color,
			formatter.WithSize(cfg.Render.TerminalWidth, cfg.Render.TerminalHeight),
			formatter.WithChartColors(cfg.Render.BarColor, cfg.Render.LineColor),
			formatter.WithEmoji(!isEmojiDisabled()),
		), nil
	default:
		return nil, fmt.Errorf("unknown format: %s", format)
	}
}

// writeOutputBytesToFile writes output to a file with proper error handling
func writeOutputBytesToFile(output []byte, filePath string) error {
	cleanPath := filepath.Clean(filePath)
	if dir := filepath.Dir(cleanPath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	file, err := os.Create(cleanPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && isVerbose() {
			fmt.Fprintf(os.Stderr, "Warning: failed to close output file: %v\n", closeErr)
		}
	}()

	if _, err := file.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := file.Sync(); err != nil {
		return fmt.Errorf("failed to sync output file: %w", err)
	}
	return nil
}
