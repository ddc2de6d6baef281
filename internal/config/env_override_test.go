package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvOverrides(t *testing.T) {
	t.Run("paths and engine", func(t *testing.T) {
		t.Setenv("ADBUILD_BUILD_DIR", "out")
		t.Setenv("ADBUILD_TEMPLATE_DIR", "templates")
		t.Setenv("ADBUILD_ENGINE", "esbuild")

		cfg := DefaultConfig()
		require.NoError(t, cfg.applyEnvOverrides())

		assert.Equal(t, "out", cfg.Paths.BuildDir)
		assert.Equal(t, "templates", cfg.Paths.TemplateDir)
		assert.Equal(t, EngineEsbuild, cfg.Bundler.Engine)
		assert.Equal(t, "./src/index.js", cfg.Paths.Entry, "unset vars keep defaults")
	})

	t.Run("debug toggle", func(t *testing.T) {
		t.Setenv("ADBUILD_DEBUG", "true")

		cfg := DefaultConfig()
		require.NoError(t, cfg.applyEnvOverrides())
		assert.True(t, cfg.Logging.DebugMode)
	})

	t.Run("invalid bool", func(t *testing.T) {
		t.Setenv("ADBUILD_DEBUG", "maybe")

		cfg := DefaultConfig()
		assert.Error(t, cfg.applyEnvOverrides())
	})

	t.Run("env wins over file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), DefaultFileName)
		cfg := DefaultConfig()
		cfg.Bundler.Command = "yarn"
		require.NoError(t, cfg.Save(path))

		t.Setenv("ADBUILD_BUNDLER_COMMAND", "pnpm")
		loaded, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "pnpm", loaded.Bundler.Command)
	})
}
