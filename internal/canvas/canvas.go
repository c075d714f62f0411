// Package canvas provides the drawing surfaces charts are bound to.
package canvas

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/yildizm/dashdrop/internal/dashboard"
)

// ErrNoData is returned when a chart has no points to draw
var ErrNoData = errors.New("no data points to draw")

func checkSpec(spec dashboard.Spec) error {
	if len(spec.Labels) != len(spec.Values) {
		return fmt.Errorf("labels and values differ in length (%d != %d)", len(spec.Labels), len(spec.Values))
	}
	if len(spec.Values) == 0 {
		return ErrNoData
	}
	switch spec.Kind {
	case dashboard.KindBar, dashboard.KindLine:
		return nil
	default:
		return fmt.Errorf("unsupported chart kind %q", spec.Kind)
	}
}

func valueRange(values []float64) (lo, hi float64) {
	lo, hi = values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

// formatValue prints whole numbers without a fraction
func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
