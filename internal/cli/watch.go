package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/yildizm/dashdrop/internal/emoji"
	"github.com/yildizm/dashdrop/internal/logger"
	"github.com/yildizm/dashdrop/internal/upload"
)

var watchDebounce time.Duration

func newWatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Re-analyze a file every time it changes",
		Long: `Watch a file and upload it for analysis whenever it is written.

Uses file system notifications to detect changes. Bursts of writes are
collapsed into one upload, and a change arriving while an upload is in
flight supersedes it, so the charts always reflect the latest content.
Press Ctrl+C to stop watching.

Examples:
  dashdrop watch sales.csv
  dashdrop watch --debounce 1s export.xlsx`,
		Args: cobra.ExactArgs(1),
		RunE: runWatch,
	}

	cmd.Flags().DurationVar(&watchDebounce, "debounce", 0, "quiet period before re-uploading (default from config)")

	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg := GetGlobalConfig()
	if cmd.Flag("debounce").Changed {
		cfg.Watch.Debounce = watchDebounce
	}

	filename := filepath.Clean(args[0])
	if err := validateWatchFilePath(filename); err != nil {
		return fmt.Errorf("invalid file path: %w", err)
	}

	f, err := getFormatter(getOutputFormat(), useColor(), cfg)
	if err != nil {
		return fmt.Errorf("failed to get formatter: %w", err)
	}

	stderr := cmd.ErrOrStderr()
	log := newLogger("watch", stderr)
	ctrl, renderer, err := newSession(cfg, newConsoleView(stderr, imagePaths(cfg)), log)
	if err != nil {
		return err
	}

	watcher, err := createWatcher(filename)
	if err != nil {
		return err
	}
	defer cleanupWatcher(watcher)

	ctx, stop := signal.NotifyContext(baseContext(cmd), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	var outMu sync.Mutex
	submit := func() {
		err := ctrl.Submit(ctx, filename)
		switch {
		case errors.Is(err, upload.ErrSuperseded):
			log.Debug("upload of %s superseded by a newer change", filename)
			return
		case err != nil:
			return
		}
		outMu.Lock()
		defer outMu.Unlock()
		if err := writeReport(out, f, renderer.Last(), ""); err != nil {
			log.Warn("failed to print report: %v", err)
		}
	}

	fmt.Fprintln(stderr, emoji.Prefix("watch", "Watching "+filename+" (Ctrl+C to stop)"))

	d := newDebouncer(cfg.Watch.Debounce, submit)
	defer d.Stop()
	d.Trigger()

	err = runWatchLoop(ctx, watcher, filename, d, log)
	ctrl.Cancel()
	return err
}

// debouncer runs fn once a burst of Trigger calls has been quiet for delay
type debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	fn      func()
	timer   *time.Timer
	stopped bool
}

func newDebouncer(delay time.Duration, fn func()) *debouncer {
	return &debouncer{delay: delay, fn: fn}
}

// Trigger restarts the quiet period
func (d *debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.fn)
}

// Stop drops any pending run
func (d *debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
	}
}

// cleanupWatcher safely closes watcher with error logging
func cleanupWatcher(watcher *fsnotify.Watcher) {
	if err := watcher.Close(); err != nil && isVerbose() {
		fmt.Fprintf(os.Stderr, "Warning: failed to close watcher: %v\n", err)
	}
}

// createWatcher watches the directory holding filename, so editors that
// replace the file on save are still seen
func createWatcher(filename string) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	if err := watcher.Add(filepath.Dir(filename)); err != nil {
		cleanupWatcher(watcher)
		return nil, fmt.Errorf("failed to watch file: %w", err)
	}

	return watcher, nil
}

// runWatchLoop feeds relevant events to the debouncer until ctx is done
func runWatchLoop(ctx context.Context, watcher *fsnotify.Watcher, filename string, d *debouncer, log *logger.Logger) error {
	for {
		select {
		case <-ctx.Done():
			log.Debug("stopping watch of %s", filename)
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if isRelevantEvent(event, filename) {
				log.DebugWithFields("change detected", []logger.Field{logger.Path(event.Name), logger.F("op", event.Op.String())})
				d.Trigger()
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			log.Warn("watcher error: %v", err)
		}
	}
}

// isRelevantEvent reports whether event is a write or create of filename
func isRelevantEvent(event fsnotify.Event, filename string) bool {
	if filepath.Clean(event.Name) != filename {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
}

// validateWatchFilePath validates that a file path is safe to watch
func validateWatchFilePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("empty file path")
	}

	cleanPath := filepath.Clean(path)

	info, err := os.Stat(cleanPath)
	if err != nil {
		return fmt.Errorf("cannot access file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("cannot watch directory, must be a file")
	}

	return nil
}
