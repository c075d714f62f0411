package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/yildizm/dashdrop/internal/report"
)

// markdownFormatter formats output as Markdown
type markdownFormatter struct {
	now func() time.Time
}

// NewMarkdown creates a new Markdown formatter
func NewMarkdown() Formatter {
	return &markdownFormatter{now: time.Now}
}

func (f *markdownFormatter) Format(rep *report.Report) ([]byte, error) {
	var b strings.Builder

	b.WriteString("# Dashboard Report\n\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", f.now().Format("2006-01-02 15:04:05"))

	f.writeSummaryTable(&b, rep)
	f.writeChartSection(&b, "Bar Chart", rep.Charts.Bar)
	f.writeChartSection(&b, "Line Chart", rep.Charts.Line)

	if len(rep.Warnings) > 0 {
		b.WriteString("## Warnings\n\n")
		for _, w := range rep.Warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
		b.WriteString("\n")
	}

	return []byte(b.String()), nil
}

func (f *markdownFormatter) writeSummaryTable(b *strings.Builder, rep *report.Report) {
	b.WriteString("## Summary\n\n")
	b.WriteString("| Chart | Title | Points | Min | Max | Mean |\n")
	b.WriteString("|-------|-------|-------:|----:|----:|-----:|\n")
	for _, row := range []struct {
		name  string
		chart *report.Chart
	}{
		{"bar", rep.Charts.Bar},
		{"line", rep.Charts.Line},
	} {
		s := computeStats(row.chart)
		fmt.Fprintf(b, "| %s | %s | %d | %s | %s | %s |\n",
			row.name, escapeCell(chartTitle(row.chart)), s.Points,
			formatValue(s.Min), formatValue(s.Max), fmt.Sprintf("%.2f", s.Mean))
	}
	b.WriteString("\n")
}

func (f *markdownFormatter) writeChartSection(b *strings.Builder, heading string, c *report.Chart) {
	fmt.Fprintf(b, "## %s: %s\n\n", heading, escapeCell(chartTitle(c)))
	rows := pairs(c)
	if len(rows) == 0 {
		b.WriteString("_No data._\n\n")
		return
	}
	b.WriteString("| Label | Value |\n")
	b.WriteString("|-------|------:|\n")
	for _, p := range rows {
		fmt.Fprintf(b, "| %s | %s |\n", escapeCell(p[0]), p[1])
	}
	b.WriteString("\n")
}

// escapeCell keeps a value from breaking the table layout
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
