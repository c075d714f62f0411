package ui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/yildizm/dashdrop/internal/canvas"
	"github.com/yildizm/dashdrop/internal/config"
	"github.com/yildizm/dashdrop/internal/dashboard"
	"github.com/yildizm/dashdrop/internal/logger"
	"github.com/yildizm/dashdrop/internal/upload"
)

// Options configures the interactive front-end
type Options struct {
	InitialPath string
	Theme       Theme
	Logger      *logger.Logger
}

// Run starts the interactive front-end and blocks until the user quits
func Run(ctx context.Context, cfg *config.Config, opts Options) error {
	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}
	policy, err := upload.ParseOverlapPolicy(cfg.Upload.Overlap)
	if err != nil {
		return err
	}

	bar := canvas.NewTerminal(cfg.Render.TerminalWidth, cfg.Render.TerminalHeight)
	line := canvas.NewTerminal(cfg.Render.TerminalWidth, cfg.Render.TerminalHeight)
	renderer := dashboard.NewRenderer(bar, line,
		dashboard.WithColors(cfg.Render.BarColor, cfg.Render.LineColor),
		dashboard.WithLogger(log))

	view := &programView{}
	ctrl := upload.NewController(upload.NewClientFromConfig(cfg, log), renderer, view,
		upload.WithOverlap(policy),
		upload.WithPreflight(cfg.Upload.Preflight),
		upload.WithLogger(log))

	theme := opts.Theme
	if theme.Name == "" {
		theme = DefaultTheme
	}
	model := NewModel(ctx, ctrl, bar, line, opts.InitialPath, theme)

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	view.attach(p.Send)

	_, runErr := p.Run()
	ctrl.Cancel()
	if errors.Is(runErr, tea.ErrProgramKilled) && ctx.Err() != nil {
		runErr = nil
	}
	return errors.Join(runErr, renderer.Close())
}
