package orchestrator

import (
	"fmt"
	"time"
)

// Status classifies a BuildOutcome.
type Status string

const (
	StatusBuilt   Status = "built"
	StatusPartial Status = "partial"
	StatusFailed  Status = "failed"
)

// BuildOutcome is the result of one network's build. It is never persisted.
type BuildOutcome struct {
	Network   string
	Success   bool
	Err       error
	Warnings  []error
	OutputDir string
	Duration  time.Duration
}

// Status reports built, partial (succeeded with warnings) or failed.
func (b BuildOutcome) Status() Status {
	switch {
	case !b.Success:
		return StatusFailed
	case len(b.Warnings) > 0:
		return StatusPartial
	default:
		return StatusBuilt
	}
}

// Summary counts outcomes by status.
type Summary struct {
	Built   int
	Partial int
	Failed  int
}

// Summarize tallies outcomes.
func Summarize(outcomes []BuildOutcome) Summary {
	var s Summary
	for _, o := range outcomes {
		switch o.Status() {
		case StatusBuilt:
			s.Built++
		case StatusPartial:
			s.Partial++
		case StatusFailed:
			s.Failed++
		}
	}
	return s
}

// Total is the number of outcomes counted.
func (s Summary) Total() int { return s.Built + s.Partial + s.Failed }

func (s Summary) String() string {
	return fmt.Sprintf("%d built, %d partial, %d failed", s.Built, s.Partial, s.Failed)
}
