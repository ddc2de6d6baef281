package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"adbuild/cmd/adbuild/ui"
	"adbuild/internal/selection"
	"adbuild/internal/synth"
)

const noSelectionMessage = "No valid networks selected. Exiting..."

// runBuild prompts for whatever the flags left open and runs one build batch.
func runBuild(cmd *cobra.Command, args []string) error {
	p, err := loadProject()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "Current working directory:", p.workspace)
	fmt.Fprintln(out, "Template directory:", p.cfg.TemplateRoot())

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

	return buildSession(ctx, p, session, out)
}

// collectSession asks for the prefix and then the selection, using the picker
// when --tui is set.
func collectSession(cmd *cobra.Command, p *project) (*selection.Session, error) {
	out := cmd.OutOrStdout()
	in := selection.NewLineReader(cmd.InOrStdin(), out)

	prefix, err := selection.AskPrefix(in, buildPrefix)
	if err != nil {
		return nil, err
	}
	if err := synth.ValidatePrefix(prefix); err != nil {
		return nil, err
	}

	raw := buildNetworks
	if buildTUI && raw == "" {
		picked, err := ui.PickNetworks(p.catalog, in.Reader, out)
		if err != nil {
			if errors.Is(err, ui.ErrPickerCanceled) {
				return nil, selection.ErrNoSelection
			}
			return nil, err
		}
		if picked == "" {
			return nil, selection.ErrNoSelection
		}
		raw = picked
	}

	networks, err := selection.AskNetworks(in, out, p.catalog, raw)
	if err != nil {
		return nil, err
	}
	return &selection.Session{Prefix: prefix, Networks: networks}, nil
}

// buildSession runs the batch and prints the summary.
func buildSession(ctx context.Context, p *project, session *selection.Session, out io.Writer) error {
	orch, err := p.newOrchestrator(out)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "\nBuilding for: %s\n", strings.Join(session.Networks, ", "))
	fmt.Fprint(out, "Starting build process...\n\n")

	outcomes := orch.Run(ctx, session.Prefix, session.Networks)

	fmt.Fprint(out, "\nAll builds completed.\n")
	fmt.Fprintln(out, ui.RenderSummary(ui.DefaultStyles(), outcomes))

	getLogger().Info("Batch finished",
		zap.String("prefix", session.Prefix),
		zap.Int("networks", len(session.Networks)))
	return nil
}
