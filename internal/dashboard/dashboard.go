package dashboard

import (
	"errors"
	"fmt"
	"sync"

	"github.com/yildizm/dashdrop/internal/logger"
	"github.com/yildizm/dashdrop/internal/report"
)

// Kind identifies the chart type drawn on a surface
type Kind string

const (
	KindBar  Kind = "bar"
	KindLine Kind = "line"
)

// Default series colors
const (
	DefaultBarColor  = "#3498db"
	DefaultLineColor = "#e74c3c"
)

// Spec is everything a surface needs to draw one chart
type Spec struct {
	Kind   Kind
	Title  string
	Labels []string
	Values []float64
	Color  string
}

// Instance is a live chart bound to a surface
type Instance interface {
	Destroy() error
}

// Surface is a fixed drawing target
type Surface interface {
	Draw(spec Spec) (Instance, error)
}

// Renderer owns the bar and line chart instances of one dashboard.
// Every Render destroys the previous instances before drawing new ones,
// so each surface carries at most one live chart.
type Renderer struct {
	mu        sync.Mutex
	barSurf   Surface
	lineSurf  Surface
	barChart  Instance
	lineChart Instance
	barColor  string
	lineColor string
	log       *logger.Logger
}

// Option configures a Renderer
type Option func(*Renderer)

// WithColors overrides the series colors
func WithColors(bar, line string) Option {
	return func(r *Renderer) {
		if bar != "" {
			r.barColor = bar
		}
		if line != "" {
			r.lineColor = line
		}
	}
}

// WithLogger sets the renderer's logger
func WithLogger(l *logger.Logger) Option {
	return func(r *Renderer) {
		r.log = l.WithComponent("dashboard")
	}
}

// NewRenderer creates a renderer bound to two surfaces
func NewRenderer(bar, line Surface, opts ...Option) *Renderer {
	r := &Renderer{
		barSurf:   bar,
		lineSurf:  line,
		barColor:  DefaultBarColor,
		lineColor: DefaultLineColor,
		log:       logger.Discard(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render replaces the dashboard's charts with the ones in rep
func (r *Renderer) Render(rep *report.Report) error {
	if rep == nil {
		return errors.New("nothing to render")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.destroyLocked(); err != nil {
		return err
	}

	if rep.Charts.Bar == nil {
		return errors.New(`cannot render bar chart: "bar_chart" is missing`)
	}
	bar, err := r.barSurf.Draw(specFor(KindBar, rep.Charts.Bar, r.barColor))
	if err != nil {
		return fmt.Errorf("bar chart: %w", err)
	}
	r.barChart = bar

	if rep.Charts.Line == nil {
		return errors.New(`cannot render line chart: "line_chart" is missing`)
	}
	line, err := r.lineSurf.Draw(specFor(KindLine, rep.Charts.Line, r.lineColor))
	if err != nil {
		return fmt.Errorf("line chart: %w", err)
	}
	r.lineChart = line

	r.log.DebugWithFields("dashboard rendered", []logger.Field{
		logger.F("bar_points", len(rep.Charts.Bar.Values)),
		logger.F("line_points", len(rep.Charts.Line.Values)),
	})
	return nil
}

// Live returns the current chart instances; nil means the slot is empty
func (r *Renderer) Live() (bar, line Instance) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.barChart, r.lineChart
}

// Close destroys any live charts
func (r *Renderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.destroyLocked()
}

func (r *Renderer) destroyLocked() error {
	var errs []error
	if r.barChart != nil {
		if err := r.barChart.Destroy(); err != nil {
			errs = append(errs, fmt.Errorf("destroy bar chart: %w", err))
		}
		r.barChart = nil
	}
	if r.lineChart != nil {
		if err := r.lineChart.Destroy(); err != nil {
			errs = append(errs, fmt.Errorf("destroy line chart: %w", err))
		}
		r.lineChart = nil
	}
	return errors.Join(errs...)
}

func specFor(kind Kind, c *report.Chart, color string) Spec {
	return Spec{
		Kind:   kind,
		Title:  c.Title,
		Labels: c.Labels,
		Values: c.Values,
		Color:  color,
	}
}
