// Package formatter renders an analysis report for output.
package formatter

import "github.com/yildizm/dashdrop/internal/report"

// Formatter defines the interface for output formatting
type Formatter interface {
	Format(rep *report.Report) ([]byte, error)
}
