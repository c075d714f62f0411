package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/yildizm/dashdrop/internal/report"
)

// csvFormatter writes one row per chart point
type csvFormatter struct{}

// NewCSV creates a new CSV formatter
func NewCSV() Formatter {
	return &csvFormatter{}
}

func (f *csvFormatter) Format(rep *report.Report) ([]byte, error) {
	var b bytes.Buffer
	writer := csv.NewWriter(&b)

	if err := writer.Write([]string{"chart", "label", "value"}); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, c := range []struct {
		name  string
		chart *report.Chart
	}{
		{"bar_chart", rep.Charts.Bar},
		{"line_chart", rep.Charts.Line},
	} {
		for _, p := range pairs(c.chart) {
			if err := writer.Write([]string{c.name, p[0], p[1]}); err != nil {
				return nil, fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return b.Bytes(), nil
}
