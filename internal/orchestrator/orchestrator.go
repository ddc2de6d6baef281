// Package orchestrator runs the sequential per-network build loop.
//
// Each network is isolated: a missing template, a failed bundler run or a
// post-processing failure ends that network only and the loop moves on.
package orchestrator

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"adbuild/internal/bundler"
	"adbuild/internal/synth"
)

// PostProcessor finishes a bundled output directory.
type PostProcessor interface {
	Process(spec *synth.BuildSpec) ([]error, error)
}

// Options configures an Orchestrator.
type Options struct {
	Synth   *synth.Synthesizer
	Bundler bundler.Bundler
	Post    PostProcessor
	Logger  *zap.Logger

	// Out receives the console progress lines. Defaults to os.Stdout.
	Out io.Writer
}

// Orchestrator drives synthesize, bundle and post-process for each network.
type Orchestrator struct {
	synth   *synth.Synthesizer
	bundler bundler.Bundler
	post    PostProcessor
	logger  *zap.Logger
	out     io.Writer
}

// New creates an Orchestrator.
func New(opts Options) (*Orchestrator, error) {
	if opts.Synth == nil {
		return nil, fmt.Errorf("synthesizer is required")
	}
	if opts.Bundler == nil {
		return nil, fmt.Errorf("bundler is required")
	}
	if opts.Post == nil {
		return nil, fmt.Errorf("post-processor is required")
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	return &Orchestrator{
		synth:   opts.Synth,
		bundler: opts.Bundler,
		post:    opts.Post,
		logger:  opts.Logger,
		out:     opts.Out,
	}, nil
}

// Run builds networks in order and returns one outcome per entry. Duplicate
// entries are built again. Cancellation marks the networks not yet started failed.
func (o *Orchestrator) Run(ctx context.Context, prefix string, networks []string) []BuildOutcome {
	runID := uuid.NewString()
	log := o.logger.With(zap.String("run_id", runID), zap.String("prefix", prefix))
	log.Info("Starting build run", zap.Strings("networks", networks), zap.String("engine", o.bundler.Name()))

	outcomes := make([]BuildOutcome, 0, len(networks))
	for _, id := range networks {
		if err := ctx.Err(); err != nil {
			outcomes = append(outcomes, BuildOutcome{Network: id, Err: err})
			continue
		}

		fmt.Fprintf(o.out, "Building for %s...\n", id)
		outcome := o.buildOne(ctx, log.With(zap.String("network", id)), prefix, id)
		outcomes = append(outcomes, outcome)

		if outcome.Err != nil {
			fmt.Fprintf(o.out, "Error building for %s: %v\n", id, outcome.Err)
			continue
		}
		fmt.Fprintf(o.out, "Build for %s completed successfully.\n", id)
	}

	sum := Summarize(outcomes)
	log.Info("Build run finished",
		zap.Int("built", sum.Built),
		zap.Int("partial", sum.Partial),
		zap.Int("failed", sum.Failed))
	return outcomes
}

func (o *Orchestrator) buildOne(ctx context.Context, log *zap.Logger, prefix, id string) (outcome BuildOutcome) {
	start := time.Now()
	outcome = BuildOutcome{Network: id}
	defer func() {
		outcome.Duration = time.Since(start)
		if outcome.Err != nil {
			log.Error("Network build failed", zap.Error(outcome.Err), zap.Duration("duration", outcome.Duration))
		} else {
			log.Info("Network build finished", zap.Int("warnings", len(outcome.Warnings)), zap.Duration("duration", outcome.Duration))
		}
	}()

	spec, err := o.synth.Synthesize(id, prefix)
	if err != nil {
		outcome.Err = err
		return outcome
	}
	outcome.OutputDir = spec.OutputDir

	configPath, err := o.synth.WriteTemp(spec)
	if err != nil {
		outcome.Err = err
		return outcome
	}
	removed := false
	removeConfig := func() {
		if removed {
			return
		}
		removed = true
		if err := os.Remove(configPath); err != nil && !os.IsNotExist(err) {
			log.Warn("Failed to remove temp config", zap.String("path", configPath), zap.Error(err))
		}
	}
	defer removeConfig()

	// A started network runs to completion; cancellation only stops the loop.
	log.Debug("Invoking bundler", zap.String("config", configPath))
	err = o.bundler.Bundle(context.WithoutCancel(ctx), spec, configPath)
	removeConfig()
	if err != nil {
		outcome.Err = err
		return outcome
	}

	warnings, err := o.post.Process(spec)
	outcome.Warnings = warnings
	for _, w := range warnings {
		log.Warn("Post-processing warning", zap.Error(w))
	}
	if err != nil {
		outcome.Err = fmt.Errorf("post-process %s: %w", id, err)
		return outcome
	}

	outcome.Success = true
	return outcome
}
