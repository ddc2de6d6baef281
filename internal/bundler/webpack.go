package bundler

import (
	"context"
	"fmt"
	"io"

	"adbuild/internal/build"
	"adbuild/internal/config"
	"adbuild/internal/logging"
	"adbuild/internal/synth"
	"adbuild/internal/tactile"
)

// Webpack spawns `<Command> <Args...> <configPath>` in the project root.
type Webpack struct {
	Command     string
	Args        []string
	EnvVars     map[string]string
	ProjectRoot string
	Executor    tactile.Executor
	Stdout      io.Writer
	Stderr      io.Writer
}

func (w *Webpack) Name() string { return config.EngineWebpack }

// Bundle runs webpack and blocks until it exits.
func (w *Webpack) Bundle(ctx context.Context, spec *synth.BuildSpec, configPath string) error {
	args := make([]string, 0, len(w.Args)+1)
	args = append(args, w.Args...)
	args = append(args, configPath)

	cmd := tactile.Command{
		Binary:           w.Command,
		Arguments:        args,
		WorkingDirectory: w.ProjectRoot,
		Environment:      build.GetBundlerEnv(&config.BundlerConfig{EnvVars: w.EnvVars}, w.ProjectRoot, spec.Network),
		Stdout:           w.Stdout,
		Stderr:           w.Stderr,
		Tags:             map[string]string{"network": spec.Network},
	}

	logging.Bundle("Running %s for %s", cmd.CommandString(), spec.Network)
	result, err := w.Executor.Execute(ctx, cmd)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBundlerInvocationFailed, err)
	}
	if !result.Success {
		logging.BundleError("webpack failed for %s: exit=%d %s", spec.Network, result.ExitCode, result.Error)
		return fmt.Errorf("%w: %s exited with code %d: %s", ErrBundlerInvocationFailed, w.Command, result.ExitCode, result.Error)
	}

	logging.BundleDebug("webpack finished for %s in %s", spec.Network, result.Duration)
	return nil
}
