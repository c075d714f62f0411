package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/yildizm/dashdrop/internal/logger"
	"github.com/yildizm/dashdrop/internal/ui"
)

var (
	tuiTheme   string
	tuiLogFile string
)

func newTUICommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tui [file]",
		Short: "Start the interactive dashboard",
		Long: `Start the interactive terminal dashboard.

Type a file path and press enter to upload it. The status line follows the
request and the charts appear once the analysis completes. Press esc or
ctrl+c to quit.

Examples:
  dashdrop tui
  dashdrop tui sales.csv
  dashdrop tui --theme high-contrast --log-file dashdrop.log`,
		Args: cobra.MaximumNArgs(1),
		RunE: runTUI,
	}

	cmd.Flags().StringVar(&tuiTheme, "theme", "default",
		fmt.Sprintf("color theme (%s)", strings.Join(ui.AvailableThemes(), ", ")))
	cmd.Flags().StringVar(&tuiLogFile, "log-file", "", "write logs to this file while the dashboard runs")

	return cmd
}

func runTUI(cmd *cobra.Command, args []string) error {
	theme, ok := ui.ThemeByName(tuiTheme)
	if !ok {
		return fmt.Errorf("unknown theme: %s (available: %s)", tuiTheme, strings.Join(ui.AvailableThemes(), ", "))
	}

	var initialPath string
	if len(args) == 1 {
		initialPath = args[0]
	}

	// the alt screen owns the terminal, so logs go to a file or nowhere
	log := logger.Discard()
	if tuiLogFile != "" {
		// #nosec G304 - path supplied by the user on the command line
		f, err := os.OpenFile(filepath.Clean(tuiLogFile), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer func() {
			if err := f.Close(); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to close log file: %v\n", err)
			}
		}()
		log = newLogger("ui", f)
	}

	ctx, stop := signal.NotifyContext(baseContext(cmd), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return ui.Run(ctx, GetGlobalConfig(), ui.Options{
		InitialPath: initialPath,
		Theme:       theme,
		Logger:      log,
	})
}

func baseContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
