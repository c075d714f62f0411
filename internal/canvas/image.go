package canvas

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"github.com/yildizm/dashdrop/internal/dashboard"
)

// Image is a PNG file surface. Each Draw overwrites the file and
// destroying the chart removes it.
type Image struct {
	mu     sync.Mutex
	path   string
	width  int
	height int
	live   int
	gen    uint64
}

// NewImage creates a PNG surface at path
func NewImage(path string, width, height int) *Image {
	return &Image{path: path, width: width, height: height}
}

// Path returns the file the surface draws into
func (im *Image) Path() string {
	return im.path
}

// Live reports how many charts drawn on this surface are not yet destroyed
func (im *Image) Live() int {
	im.mu.Lock()
	defer im.mu.Unlock()
	return im.live
}

// Draw renders spec to the PNG file
func (im *Image) Draw(spec dashboard.Spec) (dashboard.Instance, error) {
	if err := checkSpec(spec); err != nil {
		return nil, err
	}

	im.mu.Lock()
	defer im.mu.Unlock()

	if dir := filepath.Dir(im.path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("create chart directory: %w", err)
		}
	}

	f, err := os.Create(im.path)
	if err != nil {
		return nil, fmt.Errorf("create chart file: %w", err)
	}
	if err := RenderPNG(f, spec, im.width, im.height); err != nil {
		_ = f.Close()
		_ = os.Remove(im.path)
		return nil, err
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("close chart file: %w", err)
	}

	im.gen++
	im.live++
	return &imageChart{surface: im, gen: im.gen}, nil
}

type imageChart struct {
	surface *Image
	gen     uint64
	once    sync.Once
	err     error
}

func (c *imageChart) Destroy() error {
	c.once.Do(func() {
		im := c.surface
		im.mu.Lock()
		defer im.mu.Unlock()
		im.live--
		if im.gen != c.gen {
			return
		}
		if err := os.Remove(im.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			c.err = err
		}
	})
	return c.err
}

// RenderPNG writes spec as a PNG chart to w
func RenderPNG(w io.Writer, spec dashboard.Spec, width, height int) error {
	if err := checkSpec(spec); err != nil {
		return err
	}
	color := seriesColor(spec.Color)

	if spec.Kind == dashboard.KindBar {
		return renderBarPNG(w, spec, color, width, height)
	}
	return renderLinePNG(w, spec, color, width, height)
}

// seriesColor parses #rgb or #rrggbb, falling back to go-chart's default blue
func seriesColor(hex string) drawing.Color {
	h := strings.TrimPrefix(hex, "#")
	if len(h) != 3 && len(h) != 6 {
		return chart.ColorBlue
	}
	return drawing.ColorFromHex(h)
}

func renderBarPNG(w io.Writer, spec dashboard.Spec, color drawing.Color, width, height int) error {
	bars := make([]chart.Value, len(spec.Values))
	for i, v := range spec.Values {
		bars[i] = chart.Value{
			Label: spec.Labels[i],
			Value: v,
			Style: chart.Style{FillColor: color, StrokeColor: color, StrokeWidth: 1},
		}
	}

	// bars grow from zero, and a flat range would be rejected
	lo, hi := valueRange(spec.Values)
	lo, hi = min(lo, 0), max(hi, 0)
	if hi == lo {
		hi = lo + 1
	}

	barWidth := max(4, min(60, (width-120)/(2*len(bars))))
	graph := chart.BarChart{
		Title:      spec.Title,
		Width:      width,
		Height:     height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		BarWidth:   barWidth,
		BarSpacing: barWidth,
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: lo, Max: hi},
		},
		Bars: bars,
	}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render bar chart: %w", err)
	}
	return nil
}

func renderLinePNG(w io.Writer, spec dashboard.Spec, color drawing.Color, width, height int) error {
	xs := make([]float64, len(spec.Values))
	ticks := make([]chart.Tick, len(spec.Values))
	for i, label := range spec.Labels {
		xs[i] = float64(i)
		ticks[i] = chart.Tick{Value: float64(i), Label: label}
	}

	lo, hi := valueRange(spec.Values)
	if hi == lo {
		lo, hi = lo-1, hi+1
	}
	xMax := float64(max(len(xs)-1, 1))

	graph := chart.Chart{
		Title:      spec.Title,
		Width:      width,
		Height:     height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis: chart.XAxis{
			Ticks: ticks,
			Range: &chart.ContinuousRange{Min: 0, Max: xMax},
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: lo, Max: hi},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    spec.Title,
				XValues: xs,
				YValues: spec.Values,
				Style: chart.Style{
					StrokeColor: color,
					StrokeWidth: 2,
					DotColor:    color,
					DotWidth:    3,
				},
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render line chart: %w", err)
	}
	return nil
}
