package upload

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/yildizm/dashdrop/internal/dataset"
	"github.com/yildizm/dashdrop/internal/logger"
	"github.com/yildizm/dashdrop/internal/report"
)

// Messages shown to the user
const (
	AlertSelectFile  = "Select a file."
	StatusProcessing = "Processing..."
	StatusComplete   = "Analysis Complete."
	statusErrPrefix  = "Error: "
)

var (
	// ErrNoFile is returned when a submission has no file selected
	ErrNoFile = errors.New("no file selected")

	// ErrBusy is returned under the reject policy while a submission is in flight
	ErrBusy = errors.New("an analysis is already in progress")

	// ErrSuperseded is returned to a submission replaced by a newer one
	ErrSuperseded = errors.New("analysis superseded by a newer submission")
)

// OverlapPolicy decides what happens when a file is submitted while
// another submission is still waiting for the server
type OverlapPolicy string

const (
	// Supersede cancels the in-flight submission in favour of the new one
	Supersede OverlapPolicy = "supersede"
	// Reject refuses the new submission
	Reject OverlapPolicy = "reject"
)

// ParseOverlapPolicy converts a config value into a policy
func ParseOverlapPolicy(s string) (OverlapPolicy, error) {
	switch p := OverlapPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case Supersede, Reject:
		return p, nil
	case "":
		return Supersede, nil
	default:
		return "", fmt.Errorf("invalid overlap policy: %s", s)
	}
}

// View is the part of the front-end the controller talks to
type View interface {
	// Alert shows a blocking notice to the user
	Alert(msg string)
	// SetStatus replaces the status line
	SetStatus(msg string)
	// ShowDashboard reveals the charts
	ShowDashboard()
}

// Renderer draws a decoded report
type Renderer interface {
	Render(rep *report.Report) error
}

// Analyzer uploads a file and returns the decoded report
type Analyzer interface {
	Analyze(ctx context.Context, path string) (*report.Report, error)
}

// Controller runs the submit, upload, render cycle for one front-end
type Controller struct {
	analyzer  Analyzer
	renderer  Renderer
	view      View
	policy    OverlapPolicy
	preflight bool
	inspect   func(ctx context.Context, path string) (*dataset.Info, error)
	log       *logger.Logger

	// viewMu serializes rendering and view updates. It is never taken
	// while holding mu, so Cancel and Busy stay free while a view call blocks.
	viewMu sync.Mutex

	// mu guards seq, inFlight and cancel
	mu       sync.Mutex
	seq      uint64
	inFlight bool
	cancel   context.CancelFunc
}

// ControllerOption configures a Controller
type ControllerOption func(*Controller)

// WithOverlap sets the overlap policy
func WithOverlap(p OverlapPolicy) ControllerOption {
	return func(c *Controller) {
		if p != "" {
			c.policy = p
		}
	}
}

// WithPreflight enables dataset inspection alongside the upload. The row
// count is added to the status line if it is known before the server answers.
func WithPreflight(enabled bool) ControllerOption {
	return func(c *Controller) {
		c.preflight = enabled
	}
}

// WithLogger sets the controller's logger
func WithLogger(l *logger.Logger) ControllerOption {
	return func(c *Controller) {
		c.log = l.WithComponent("upload")
	}
}

// NewController wires an analyzer, a renderer and a view together
func NewController(analyzer Analyzer, renderer Renderer, view View, opts ...ControllerOption) *Controller {
	c := &Controller{
		analyzer: analyzer,
		renderer: renderer,
		view:     view,
		policy:   Supersede,
		inspect:  dataset.InspectContext,
		log:      logger.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Submit uploads the file at path and renders the result.
//
// An empty path alerts the user and returns ErrNoFile without any network
// activity. A submission replaced by a newer one returns ErrSuperseded and
// leaves the view and the charts to its successor.
func (c *Controller) Submit(ctx context.Context, path string) error {
	if path == "" {
		c.view.Alert(AlertSelectFile)
		return ErrNoFile
	}

	ctx, seq, cancel, err := c.begin(ctx)
	if err != nil {
		c.log.Warn("submission of %s rejected: %v", path, err)
		return err
	}
	defer cancel()
	defer c.finish(seq)

	if !c.show(seq, func() { c.view.SetStatus(StatusProcessing) }) {
		return ErrSuperseded
	}

	pctx, stopPreflight := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		c.reportRows(pctx, seq, path)
	}()

	c.log.InfoWithFields("uploading", []logger.Field{logger.Path(path)})
	rep, err := c.analyzer.Analyze(ctx, path)
	stopPreflight()
	<-done

	c.viewMu.Lock()
	defer c.viewMu.Unlock()

	if !c.isCurrent(seq) {
		c.log.Debug("discarding result of superseded submission %d", seq)
		return ErrSuperseded
	}
	if err == nil {
		err = c.renderer.Render(rep)
	}
	if err != nil {
		c.view.SetStatus(statusErrPrefix + err.Error())
		c.log.ErrorWithFields("analysis failed", []logger.Field{logger.Path(path), logger.Error(err)})
		return err
	}

	c.view.SetStatus(StatusComplete)
	c.view.ShowDashboard()
	c.log.InfoWithFields("analysis complete", []logger.Field{logger.Path(path)})
	return nil
}

// Busy reports whether a submission is waiting for the server
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight
}

// Cancel aborts the in-flight submission, if any
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
	}
}

func (c *Controller) begin(parent context.Context) (context.Context, uint64, context.CancelFunc, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.inFlight {
		if c.policy == Reject {
			return nil, 0, nil, ErrBusy
		}
		c.log.Debug("superseding submission %d", c.seq)
		c.cancel()
	}

	ctx, cancel := context.WithCancel(parent)
	c.seq++
	c.inFlight = true
	c.cancel = cancel
	return ctx, c.seq, cancel, nil
}

func (c *Controller) finish(seq uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if seq == c.seq {
		c.inFlight = false
		c.cancel = nil
	}
}

func (c *Controller) isCurrent(seq uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return seq == c.seq
}

// show runs fn under viewMu when seq is still the latest submission
func (c *Controller) show(seq uint64, fn func()) bool {
	c.viewMu.Lock()
	defer c.viewMu.Unlock()
	if !c.isCurrent(seq) {
		return false
	}
	fn()
	return true
}

// reportRows counts the rows of path and adds them to the status line.
// It gives up silently once ctx is done, which happens as soon as the
// upload returns.
func (c *Controller) reportRows(ctx context.Context, seq uint64, path string) {
	if !c.preflight {
		return
	}
	info, err := c.inspect(ctx, path)
	if err != nil {
		c.log.Debug("preflight skipped: %v", err)
		return
	}
	label := info.RowsLabel()
	if label == "" {
		return
	}
	c.show(seq, func() {
		if ctx.Err() == nil {
			c.view.SetStatus(fmt.Sprintf("%s (%s)", StatusProcessing, label))
		}
	})
}
