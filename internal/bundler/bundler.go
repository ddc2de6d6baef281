// Package bundler invokes the JavaScript bundler for one network build.
//
// Two engines exist. The webpack engine spawns the configured command against
// the rendered webpack.config.js; the esbuild engine runs in process from the
// rendered JSON config. Both are synchronous and leave the bundle and the
// rewritten index.html in the spec's output directory.
package bundler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"adbuild/internal/config"
	"adbuild/internal/synth"
	"adbuild/internal/tactile"
)

// ErrBundlerInvocationFailed is returned when the bundler exits non-zero or cannot start.
var ErrBundlerInvocationFailed = errors.New("bundler invocation failed")

// Bundler produces the bundle for spec from the config at configPath.
type Bundler interface {
	Name() string
	Bundle(ctx context.Context, spec *synth.BuildSpec, configPath string) error
}

// Options wires a bundler to its surroundings.
type Options struct {
	Config      config.BundlerConfig
	ProjectRoot string

	// Executor runs the webpack command. Defaults to a DirectExecutor.
	Executor tactile.Executor

	// Stdout and Stderr receive bundler output. Default to the process streams.
	Stdout io.Writer
	Stderr io.Writer
}

// New returns the bundler for opts.Config.Engine.
func New(opts Options) (Bundler, error) {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}

	switch opts.Config.Engine {
	case config.EngineWebpack, "":
		if opts.Executor == nil {
			opts.Executor = tactile.NewDirectExecutor()
		}
		return &Webpack{
			Command:     opts.Config.Command,
			Args:        opts.Config.Args,
			EnvVars:     opts.Config.EnvVars,
			ProjectRoot: opts.ProjectRoot,
			Executor:    opts.Executor,
			Stdout:      opts.Stdout,
			Stderr:      opts.Stderr,
		}, nil
	case config.EngineEsbuild:
		return &Esbuild{Stderr: opts.Stderr}, nil
	default:
		return nil, fmt.Errorf("unknown bundler engine %q", opts.Config.Engine)
	}
}
