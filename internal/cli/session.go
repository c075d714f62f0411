package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/yildizm/dashdrop/internal/canvas"
	"github.com/yildizm/dashdrop/internal/config"
	"github.com/yildizm/dashdrop/internal/dashboard"
	"github.com/yildizm/dashdrop/internal/emoji"
	"github.com/yildizm/dashdrop/internal/logger"
	"github.com/yildizm/dashdrop/internal/report"
	"github.com/yildizm/dashdrop/internal/upload"
)

// Chart image file names inside render.output_dir
const (
	barImageName  = "bar_chart.png"
	lineImageName = "line_chart.png"
)

// consoleView prints controller feedback as lines on a writer
type consoleView struct {
	mu     sync.Mutex
	w      io.Writer
	images []string
	shown  bool
}

func newConsoleView(w io.Writer, images []string) *consoleView {
	return &consoleView{w: w, images: images}
}

func (v *consoleView) Alert(msg string) {
	v.println(emoji.Prefix("warning", msg))
}

func (v *consoleView) SetStatus(msg string) {
	key := "info"
	switch {
	case strings.HasPrefix(msg, upload.StatusProcessing):
		key = "processing"
	case msg == upload.StatusComplete:
		key = "success"
	case strings.HasPrefix(msg, "Error: "):
		key = "error"
	}
	v.println(emoji.Prefix(key, msg))
}

func (v *consoleView) ShowDashboard() {
	v.mu.Lock()
	v.shown = true
	v.mu.Unlock()

	if len(v.images) == 0 {
		return
	}
	v.println(emoji.Prefix("dashboard", "Charts written to "+strings.Join(v.images, ", ")))
}

// Shown reports whether a dashboard has been revealed
func (v *consoleView) Shown() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.shown
}

func (v *consoleView) println(line string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	fmt.Fprintln(v.w, line)
}

// sessionRenderer draws reports onto the PNG surfaces, when enabled, and
// keeps the last report that rendered successfully for formatted output
type sessionRenderer struct {
	images *dashboard.Renderer

	mu   sync.Mutex
	last *report.Report
}

func (r *sessionRenderer) Render(rep *report.Report) error {
	var err error
	if r.images != nil {
		err = r.images.Render(rep)
	} else if rep == nil {
		err = fmt.Errorf("no report to render")
	} else {
		err = rep.Validate()
	}
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.last = rep
	r.mu.Unlock()
	return nil
}

// Last returns the most recently rendered report
func (r *sessionRenderer) Last() *report.Report {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

// imagePaths returns where the chart PNGs are written, or nil when disabled
func imagePaths(cfg *config.Config) []string {
	if !cfg.Render.Images {
		return nil
	}
	return []string{
		filepath.Join(cfg.Render.OutputDir, barImageName),
		filepath.Join(cfg.Render.OutputDir, lineImageName),
	}
}

// newSession builds a controller that renders into the configured images
// and reports through view
func newSession(cfg *config.Config, view upload.View, log *logger.Logger) (*upload.Controller, *sessionRenderer, error) {
	policy, err := upload.ParseOverlapPolicy(cfg.Upload.Overlap)
	if err != nil {
		return nil, nil, err
	}

	renderer := &sessionRenderer{}
	if paths := imagePaths(cfg); paths != nil {
		bar := canvas.NewImage(paths[0], cfg.Render.Width, cfg.Render.Height)
		line := canvas.NewImage(paths[1], cfg.Render.Width, cfg.Render.Height)
		renderer.images = dashboard.NewRenderer(bar, line,
			dashboard.WithColors(cfg.Render.BarColor, cfg.Render.LineColor),
			dashboard.WithLogger(log))
	}

	ctrl := upload.NewController(upload.NewClientFromConfig(cfg, log), renderer, view,
		upload.WithOverlap(policy),
		upload.WithPreflight(cfg.Upload.Preflight),
		upload.WithLogger(log))
	return ctrl, renderer, nil
}
