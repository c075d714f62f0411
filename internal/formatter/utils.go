package formatter

import (
	"strconv"

	"github.com/yildizm/dashdrop/internal/report"
)

// ChartStats summarises one chart's series
type ChartStats struct {
	Points   int     `json:"points"`
	Total    float64 `json:"total"`
	Mean     float64 `json:"mean"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	MinLabel string  `json:"min_label,omitempty"`
	MaxLabel string  `json:"max_label,omitempty"`
}

// computeStats walks the labelled points of c; extra labels or values are ignored
func computeStats(c *report.Chart) ChartStats {
	var s ChartStats
	if c == nil {
		return s
	}
	n := min(len(c.Labels), len(c.Values))
	for i := 0; i < n; i++ {
		v := c.Values[i]
		if i == 0 || v < s.Min {
			s.Min, s.MinLabel = v, c.Labels[i]
		}
		if i == 0 || v > s.Max {
			s.Max, s.MaxLabel = v, c.Labels[i]
		}
		s.Total += v
	}
	s.Points = n
	if n > 0 {
		s.Mean = s.Total / float64(n)
	}
	return s
}

// pairs returns label/value cells, padding the shorter side with blanks
func pairs(c *report.Chart) [][2]string {
	if c == nil {
		return nil
	}
	n := max(len(c.Labels), len(c.Values))
	out := make([][2]string, n)
	for i := range out {
		if i < len(c.Labels) {
			out[i][0] = c.Labels[i]
		}
		if i < len(c.Values) {
			out[i][1] = formatValue(c.Values[i])
		}
	}
	return out
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// formatNumber formats numbers with commas for readability
func formatNumber(n int) string {
	return addCommas(strconv.Itoa(n))
}

// addCommas adds commas to number strings
func addCommas(s string) string {
	if len(s) <= 3 {
		return s
	}
	return addCommas(s[:len(s)-3]) + "," + s[len(s)-3:]
}

// chartTitle falls back to a placeholder for untitled or missing charts
func chartTitle(c *report.Chart) string {
	if c == nil {
		return "(missing)"
	}
	if c.Title == "" {
		return "(untitled)"
	}
	return c.Title
}
