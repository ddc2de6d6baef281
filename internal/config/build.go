package config

import (
	"fmt"
	"time"
)

// Bundler engines.
const (
	EngineWebpack = "webpack"
	EngineEsbuild = "esbuild"
)

// BundlerConfig configures how each network bundle is produced.
type BundlerConfig struct {
	// Engine selects the bundler: webpack (spawned) or esbuild (in process).
	Engine string `yaml:"engine" env:"ADBUILD_ENGINE"`

	// Command and Args spawn the webpack engine; the temp config path is appended.
	Command string   `yaml:"command" env:"ADBUILD_BUNDLER_COMMAND"`
	Args    []string `yaml:"args"`

	// HTMLPlugin is the require() path of the script-rewriting webpack plugin,
	// relative to the project root.
	HTMLPlugin string `yaml:"html_plugin"`

	// EnvVars are additional environment variables for the bundler process.
	EnvVars map[string]string `yaml:"env_vars,omitempty"`

	// Minify toggles esbuild minification.
	Minify bool `yaml:"minify"`
}

// DefaultBundlerConfig returns sensible defaults.
func DefaultBundlerConfig() BundlerConfig {
	return BundlerConfig{
		Engine:     EngineWebpack,
		Command:    "npx",
		Args:       []string{"webpack", "--config"},
		HTMLPlugin: "./CustomHtmlWebpackPlugin",
		EnvVars:    make(map[string]string),
		Minify:     true,
	}
}

// Validate checks the engine selection.
func (b BundlerConfig) Validate() error {
	switch b.Engine {
	case EngineWebpack:
		if b.Command == "" {
			return fmt.Errorf("bundler.command is required for the webpack engine")
		}
	case EngineEsbuild:
	default:
		return fmt.Errorf("invalid bundler engine: %q (valid: %s, %s)", b.Engine, EngineWebpack, EngineEsbuild)
	}
	return nil
}

// GetDebounce returns the watch debounce as a duration.
func (w WatchConfig) GetDebounce() time.Duration {
	d, err := time.ParseDuration(w.Debounce)
	if err != nil || d <= 0 {
		return 500 * time.Millisecond
	}
	return d
}
