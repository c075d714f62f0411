package formatter

import (
	"fmt"
	"strings"

	"github.com/yildizm/dashdrop/internal/canvas"
	"github.com/yildizm/dashdrop/internal/dashboard"
	"github.com/yildizm/dashdrop/internal/report"
	"github.com/yildizm/go-termfmt"
)

// terminalFormatter draws the charts as text using go-termfmt for structure
type terminalFormatter struct {
	opts      *termfmt.TerminalOptions
	width     int
	height    int
	barColor  string
	lineColor string
}

// TerminalOption configures the terminal formatter
type TerminalOption func(*terminalFormatter)

// WithSize sets the chart area in cells
func WithSize(width, height int) TerminalOption {
	return func(f *terminalFormatter) {
		if width > 0 {
			f.width = width
		}
		if height > 0 {
			f.height = height
		}
	}
}

// WithChartColors overrides the series colors
func WithChartColors(bar, line string) TerminalOption {
	return func(f *terminalFormatter) {
		f.barColor, f.lineColor = bar, line
	}
}

// WithEmoji toggles emoji symbols
func WithEmoji(enabled bool) TerminalOption {
	return func(f *terminalFormatter) {
		f.opts.Emoji = enabled
	}
}

// NewTerminal creates a new terminal formatter with optional color support
func NewTerminal(color bool, opts ...TerminalOption) Formatter {
	tOpts := termfmt.DefaultOptions()
	tOpts.Color = color
	tOpts.Emoji = true
	f := &terminalFormatter{opts: tOpts, width: 60, height: 10}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *terminalFormatter) Format(rep *report.Report) ([]byte, error) {
	var b strings.Builder

	f.writeHeader(&b)
	f.writeStatistics(&b, rep)

	bar, line, err := f.draw(rep)
	if err != nil {
		return nil, err
	}
	b.WriteString(bar + "\n\n")
	b.WriteString(line + "\n\n")

	f.writeHighlights(&b, rep)
	f.writeWarnings(&b, rep.Warnings)

	return []byte(b.String()), nil
}

// draw renders both charts onto terminal surfaces and returns their text
func (f *terminalFormatter) draw(rep *report.Report) (string, string, error) {
	barSurface := canvas.NewTerminal(f.width, f.height)
	lineSurface := canvas.NewTerminal(f.width, f.height)
	r := dashboard.NewRenderer(barSurface, lineSurface, dashboard.WithColors(f.barColor, f.lineColor))

	if err := r.Render(rep); err != nil {
		return "", "", err
	}
	bar, line := barSurface.String(), lineSurface.String()
	return bar, line, r.Close()
}

func (f *terminalFormatter) writeHeader(b *strings.Builder) {
	header := "Dashboard Summary"
	headerLen := len(header)

	b.WriteString("╔" + strings.Repeat("═", headerLen+2) + "╗\n")
	b.WriteString("║ " + header + " ║\n")
	b.WriteString("╚" + strings.Repeat("═", headerLen+2) + "╝\n\n")
}

func (f *terminalFormatter) writeStatistics(b *strings.Builder, rep *report.Report) {
	symbol := termfmt.GetEmoji("statistics", f.opts)
	b.WriteString(symbol + " Statistics\n")

	barStats := computeStats(rep.Charts.Bar)
	lineStats := computeStats(rep.Charts.Line)

	items := []termfmt.TreeItem{
		{Label: "Bar Chart", Value: fmt.Sprintf("%s (%s points)", chartTitle(rep.Charts.Bar), formatNumber(barStats.Points))},
		{Label: "Line Chart", Value: fmt.Sprintf("%s (%s points)", chartTitle(rep.Charts.Line), formatNumber(lineStats.Points))},
	}
	source := rep.Source
	if source == "" {
		source = report.KeyCharts
	}
	items = append(items, termfmt.TreeItem{Label: "Response Key", Value: source, Last: true})

	tree := termfmt.TreeViewWithOptions(items, f.opts)
	b.WriteString(tree + "\n\n")
}

func (f *terminalFormatter) writeHighlights(b *strings.Builder, rep *report.Report) {
	symbol := termfmt.GetEmoji("insights", f.opts)
	b.WriteString(symbol + " Highlights\n")

	barStats := computeStats(rep.Charts.Bar)
	lineStats := computeStats(rep.Charts.Line)
	info := termfmt.GetEmoji("info", f.opts)

	fmt.Fprintf(b, "• %s Highest bar: %s (%s), lowest: %s (%s)\n", info,
		barStats.MaxLabel, formatValue(barStats.Max), barStats.MinLabel, formatValue(barStats.Min))
	fmt.Fprintf(b, "• %s %s\n", info, trendSentence(rep.Charts.Line, lineStats))
}

func (f *terminalFormatter) writeWarnings(b *strings.Builder, warnings []string) {
	if len(warnings) == 0 {
		return
	}
	symbol := termfmt.GetEmoji("warning", f.opts)
	b.WriteString("\n" + symbol + " Warnings\n")
	for _, w := range warnings {
		b.WriteString("• " + w + "\n")
	}
}

// trendSentence compares the first and last point of the line series
func trendSentence(c *report.Chart, s ChartStats) string {
	if c == nil || s.Points < 2 {
		return "Trend needs at least two points"
	}
	first, last := c.Values[0], c.Values[s.Points-1]
	switch {
	case last > first:
		return fmt.Sprintf("Trend rose from %s to %s (%s → %s)", formatValue(first), formatValue(last), c.Labels[0], c.Labels[s.Points-1])
	case last < first:
		return fmt.Sprintf("Trend fell from %s to %s (%s → %s)", formatValue(first), formatValue(last), c.Labels[0], c.Labels[s.Points-1])
	default:
		return fmt.Sprintf("Trend flat at %s", formatValue(first))
	}
}
