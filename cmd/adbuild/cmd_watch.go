package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"adbuild/internal/selection"
	"adbuild/internal/watch"
)

// runWatch builds once, then rebuilds the same session on every settled change.
func runWatch(cmd *cobra.Command, args []string) error {
	p, err := loadProject()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if err := os.MkdirAll(p.cfg.BuildRoot(), 0755); err != nil {
		return fmt.Errorf("create build directory: %w", err)
	}

	session, err := collectSession(cmd, p)
	if errors.Is(err, selection.ErrNoSelection) {
		fmt.Fprintln(out, noSelectionMessage)
		return nil
	}
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := watch.New(p.cfg.SourceRoot(), p.cfg.Watch.Ignore, p.cfg.Watch.GetDebounce())
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Stop()
	w.Exclude(p.cfg.BuildRoot())

	if err := buildSession(ctx, p, session, out); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	if err := w.Start(gctx); err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	fmt.Fprintf(out, "\nWatching %s for changes (Ctrl+C to stop)...\n", p.cfg.SourceRoot())

	g.Go(func() error {
		for batch := range w.Changes() {
			getLogger().Info("Change detected", zap.Strings("paths", batch))
			fmt.Fprintf(out, "\nChange detected in %d file(s), rebuilding...\n", len(batch))
			if err := buildSession(gctx, p, session, out); err != nil {
				return err
			}
		}
		return nil
	})

	err = g.Wait()
	fmt.Fprintln(out, "Watch stopped.")
	return err
}
