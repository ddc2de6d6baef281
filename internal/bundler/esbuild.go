package bundler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/evanw/esbuild/pkg/api"

	"adbuild/internal/config"
	"adbuild/internal/logging"
	"adbuild/internal/synth"
)

// Esbuild bundles in process from a rendered synth.EsbuildConfig.
type Esbuild struct {
	Stderr io.Writer
}

func (e *Esbuild) Name() string { return config.EngineEsbuild }

// Bundle reads configPath, cleans the output dir, builds, then emits index.html.
func (e *Esbuild) Bundle(ctx context.Context, spec *synth.BuildSpec, configPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("%w: read config: %v", ErrBundlerInvocationFailed, err)
	}
	var cfg synth.EsbuildConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("%w: parse config %s: %v", ErrBundlerInvocationFailed, configPath, err)
	}

	if err := os.RemoveAll(cfg.OutputDir); err != nil {
		return fmt.Errorf("%w: clean %s: %v", ErrBundlerInvocationFailed, cfg.OutputDir, err)
	}

	loaders := make(map[string]api.Loader, len(cfg.Loaders))
	for ext, name := range cfg.Loaders {
		loader, ok := loaderByName[name]
		if !ok {
			return fmt.Errorf("%w: unknown loader %q for %s", ErrBundlerInvocationFailed, name, ext)
		}
		loaders[ext] = loader
	}

	logging.Bundle("Running esbuild for %s: %s -> %s", cfg.Network, cfg.EntryPoint, cfg.Outfile)
	result := api.Build(api.BuildOptions{
		EntryPoints:       []string{cfg.EntryPoint},
		Outfile:           cfg.Outfile,
		AbsWorkingDir:     cfg.AbsWorkingDir,
		Bundle:            true,
		Write:             true,
		Format:            api.FormatIIFE,
		Target:            api.ES2017,
		Platform:          api.PlatformBrowser,
		LogLevel:          api.LogLevelSilent,
		MinifyWhitespace:  cfg.Minify,
		MinifyIdentifiers: cfg.Minify,
		MinifySyntax:      cfg.Minify,
		Loader:            loaders,
		Define:            cfg.Define,
	})

	for _, msg := range result.Warnings {
		logging.BundleDebug("esbuild warning for %s: %s", cfg.Network, msg.Text)
	}
	if len(result.Errors) > 0 {
		if e.Stderr != nil {
			for _, line := range api.FormatMessages(result.Errors, api.FormatMessagesOptions{Kind: api.ErrorMessage}) {
				fmt.Fprint(e.Stderr, line)
			}
		}
		logging.BundleError("esbuild failed for %s with %d error(s)", cfg.Network, len(result.Errors))
		return fmt.Errorf("%w: esbuild reported %d error(s): %s", ErrBundlerInvocationFailed, len(result.Errors), result.Errors[0].Text)
	}

	if err := e.emitHTML(cfg); err != nil {
		return fmt.Errorf("%w: %v", ErrBundlerInvocationFailed, err)
	}

	logging.BundleDebug("esbuild finished for %s", cfg.Network)
	return nil
}

// emitHTML writes the template with its script tags pointed at the bundle.
func (e *Esbuild) emitHTML(cfg synth.EsbuildConfig) error {
	tmpl, err := os.ReadFile(cfg.Template)
	if err != nil {
		return fmt.Errorf("read template: %w", err)
	}
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	html := RewriteScripts(string(tmpl), cfg.ScriptName)
	return os.WriteFile(filepath.Join(cfg.OutputDir, cfg.HTMLFilename), []byte(html), 0644)
}

var loaderByName = map[string]api.Loader{
	"dataurl": api.LoaderDataURL,
	"base64":  api.LoaderBase64,
	"text":    api.LoaderText,
	"file":    api.LoaderFile,
	"json":    api.LoaderJSON,
	"js":      api.LoaderJS,
}
