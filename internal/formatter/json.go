package formatter

import (
	"encoding/json"

	"github.com/yildizm/dashdrop/internal/report"
)

// jsonFormatter formats output as JSON under the canonical "charts" key
type jsonFormatter struct{}

// NewJSON creates a new JSON formatter
func NewJSON() Formatter {
	return &jsonFormatter{}
}

// JSONOutput is the document written by the JSON formatter
type JSONOutput struct {
	Charts   report.Charts `json:"charts"`
	Summary  SummaryOutput `json:"summary"`
	Source   string        `json:"source,omitempty"`
	Warnings []string      `json:"warnings,omitempty"`
}

// SummaryOutput holds per-chart statistics
type SummaryOutput struct {
	Bar  ChartStats `json:"bar_chart"`
	Line ChartStats `json:"line_chart"`
}

func (f *jsonFormatter) Format(rep *report.Report) ([]byte, error) {
	output := &JSONOutput{
		Charts: rep.Charts,
		Summary: SummaryOutput{
			Bar:  computeStats(rep.Charts.Bar),
			Line: computeStats(rep.Charts.Line),
		},
		Source:   rep.Source,
		Warnings: rep.Warnings,
	}

	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
