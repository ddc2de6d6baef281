package ui

import (
	"fmt"
	"strings"
	"time"

	"adbuild/internal/orchestrator"
)

// RenderSummary renders one line per outcome followed by the totals.
func RenderSummary(s Styles, outcomes []orchestrator.BuildOutcome) string {
	var sb strings.Builder
	for _, o := range outcomes {
		d := o.Duration.Round(10 * time.Millisecond)
		switch o.Status() {
		case orchestrator.StatusBuilt:
			fmt.Fprintf(&sb, "%s %-12s %8s  %s\n", s.Success.Render("✓"), o.Network, d, s.Muted.Render(o.OutputDir))
		case orchestrator.StatusPartial:
			fmt.Fprintf(&sb, "%s %-12s %8s  %s\n", s.Warning.Render("!"), o.Network, d, s.Muted.Render(o.OutputDir))
			for _, w := range o.Warnings {
				fmt.Fprintf(&sb, "    %s\n", s.Warning.Render(w.Error()))
			}
		default:
			fmt.Fprintf(&sb, "%s %-12s %8s  %s\n", s.Error.Render("✗"), o.Network, d, s.Error.Render(errString(o.Err)))
		}
	}
	sb.WriteString(s.Body.Render("Summary: " + orchestrator.Summarize(outcomes).String()))
	return sb.String()
}

func errString(err error) string {
	if err == nil {
		return "failed"
	}
	return err.Error()
}
