package bundler

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adbuild/internal/config"
	"adbuild/internal/synth"
)

// newProject lays out a minimal playable project with one network template.
func newProject(t *testing.T, network string) (*synth.Synthesizer, *synth.BuildSpec) {
	t.Helper()
	root := t.TempDir()

	templateDir := filepath.Join(root, "src", "index", network)
	require.NoError(t, os.MkdirAll(templateDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(templateDir, "index.html"),
		[]byte(`<html><body><script src="./src/index.js"></script><script>// P3 SCRIPT HERE</script></body></html>`), 0644))

	pixel := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}
	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "logo.png"), pixel, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "index.js"),
		[]byte("import logo from './logo.png';\nwindow.__net = process.env.AD_NETWORK;\nwindow.__logo = logo;\n"), 0644))

	s := &synth.Synthesizer{
		ProjectRoot:  root,
		TemplateRoot: filepath.Join(root, "src", "index"),
		BuildRoot:    filepath.Join(root, "dist"),
		Entry:        "./src/index.js",
		HTMLPlugin:   "./CustomHtmlWebpackPlugin",
		Minify:       true,
		Renderer:     synth.EsbuildRenderer{},
	}
	spec, err := s.Synthesize(network, "game")
	require.NoError(t, err)
	return s, spec
}

func TestEsbuild_Bundle(t *testing.T) {
	s, spec := newProject(t, "tiktok")
	configPath, err := s.WriteTemp(spec)
	require.NoError(t, err)
	defer os.Remove(configPath)

	// Stale output must be cleaned.
	require.NoError(t, os.MkdirAll(spec.OutputDir, 0755))
	stale := filepath.Join(spec.OutputDir, "stale.txt")
	require.NoError(t, os.WriteFile(stale, []byte("old"), 0644))

	b, err := New(Options{Config: config.BundlerConfig{Engine: config.EngineEsbuild}, ProjectRoot: s.ProjectRoot})
	require.NoError(t, err)
	assert.Equal(t, "esbuild", b.Name())

	require.NoError(t, b.Bundle(context.Background(), spec, configPath))

	script, err := os.ReadFile(spec.ScriptPath())
	require.NoError(t, err)
	assert.Contains(t, string(script), `"tiktok"`)
	assert.Contains(t, string(script), "data:image/png;base64,")
	assert.NotContains(t, string(script), "process.env.AD_NETWORK")

	html, err := os.ReadFile(spec.IndexPath())
	require.NoError(t, err)
	assert.Contains(t, string(html), `<script src="playable.js"></script>`)
	assert.Contains(t, string(html), "// P3 SCRIPT HERE")

	_, err = os.Stat(stale)
	assert.True(t, os.IsNotExist(err), "output dir should be cleaned before build")
}

func TestEsbuild_BundleError(t *testing.T) {
	s, spec := newProject(t, "unity")
	require.NoError(t, os.WriteFile(filepath.Join(s.ProjectRoot, "src", "index.js"), []byte("import './missing.js';\n"), 0644))

	configPath, err := s.WriteTemp(spec)
	require.NoError(t, err)
	defer os.Remove(configPath)

	var stderr bytes.Buffer
	b := &Esbuild{Stderr: &stderr}
	err = b.Bundle(context.Background(), spec, configPath)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBundlerInvocationFailed)
	assert.Contains(t, stderr.String(), "missing.js")
}

func TestEsbuild_BadConfig(t *testing.T) {
	_, spec := newProject(t, "unity")
	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0644))

	err := (&Esbuild{}).Bundle(context.Background(), spec, bad)
	assert.ErrorIs(t, err, ErrBundlerInvocationFailed)
}

func TestWebpack_Bundle(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses sh")
	}
	_, spec := newProject(t, "vungle")
	root := t.TempDir()
	configPath := filepath.Join(root, "webpack.vungle.config.js")
	require.NoError(t, os.WriteFile(configPath, nil, 0644))

	// The config path is appended last, so it arrives as $0.
	b, err := New(Options{
		Config: config.BundlerConfig{
			Engine:  config.EngineWebpack,
			Command: "sh",
			Args:    []string{"-c", `printf '%s %s' "$AD_NETWORK" "$NODE_ENV" > "$0"`},
		},
		ProjectRoot: root,
	})
	require.NoError(t, err)
	assert.Equal(t, "webpack", b.Name())

	require.NoError(t, b.Bundle(context.Background(), spec, configPath))

	got, err := os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Equal(t, "vungle production", string(got))
}

func TestWebpack_NonZeroExit(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses sh")
	}
	_, spec := newProject(t, "vungle")

	var stderr bytes.Buffer
	b, err := New(Options{
		Config: config.BundlerConfig{
			Engine:  config.EngineWebpack,
			Command: "sh",
			Args:    []string{"-c", "echo compile error >&2; exit 2"},
		},
		ProjectRoot: t.TempDir(),
		Stderr:      &stderr,
	})
	require.NoError(t, err)

	err = b.Bundle(context.Background(), spec, "unused.js")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBundlerInvocationFailed)
	assert.Contains(t, err.Error(), "code 2")
	assert.True(t, strings.Contains(stderr.String(), "compile error"))
}

func TestWebpack_MissingCommand(t *testing.T) {
	_, spec := newProject(t, "vungle")
	b, err := New(Options{
		Config:      config.BundlerConfig{Engine: config.EngineWebpack, Command: "adbuild-no-such-bundler"},
		ProjectRoot: t.TempDir(),
	})
	require.NoError(t, err)

	err = b.Bundle(context.Background(), spec, "unused.js")
	assert.ErrorIs(t, err, ErrBundlerInvocationFailed)
}

func TestNew_UnknownEngine(t *testing.T) {
	_, err := New(Options{Config: config.BundlerConfig{Engine: "parcel"}})
	assert.Error(t, err)
}
