package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestWatcher_EmitsSettledBatch(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "scenes"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "node_modules", "pkg"), 0755))

	w, err := New(root, []string{"node_modules"}, 50*time.Millisecond)
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	assert.Equal(t, 2, w.Stats().WatchedDirs, "root and scenes, not node_modules")

	target := filepath.Join(root, "scenes", "Main.js")
	require.NoError(t, os.WriteFile(target, []byte("export default 1;"), 0644))

	select {
	case batch := <-w.Changes():
		assert.Contains(t, batch, target)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for change batch")
	}
	assert.GreaterOrEqual(t, w.Stats().Batches, 1)
}

func TestWatcher_NewDirectoryIsWatched(t *testing.T) {
	root := t.TempDir()
	w, err := New(root, nil, 50*time.Millisecond)
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	sub := filepath.Join(root, "assets")
	require.NoError(t, os.Mkdir(sub, 0755))

	// Drain the batch for the mkdir, then write inside the new dir.
	select {
	case <-w.Changes():
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for mkdir batch")
	}

	target := filepath.Join(sub, "logo.png")
	require.NoError(t, os.WriteFile(target, []byte{1}, 0644))

	deadline := time.After(5 * time.Second)
	for {
		select {
		case batch := <-w.Changes():
			for _, p := range batch {
				if p == target {
					return
				}
			}
		case <-deadline:
			t.Fatal("write in new directory was not reported")
		}
	}
}

func TestWatcher_StopClosesChanges(t *testing.T) {
	w, err := New(t.TempDir(), nil, 0)
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	w.Stop()
	w.Stop()

	_, ok := <-w.Changes()
	assert.False(t, ok)
}

func TestWatcher_ContextCancel(t *testing.T) {
	w, err := New(t.TempDir(), nil, 0)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, w.Start(ctx))
	cancel()

	select {
	case _, ok := <-w.Changes():
		assert.False(t, ok)
	case <-time.After(5 * time.Second):
		t.Fatal("changes not closed after cancel")
	}
	w.Stop()
}

func TestWatcher_Ignored(t *testing.T) {
	root := t.TempDir()
	w, err := New(root, []string{".git", "dist"}, 0)
	require.NoError(t, err)
	defer w.Stop()

	assert.False(t, w.Ignored(root))
	assert.False(t, w.Ignored(filepath.Join(root, "src", "index.js")))
	assert.True(t, w.Ignored(filepath.Join(root, "dist", "game_unity", "index.html")))
	assert.True(t, w.Ignored(filepath.Join(root, "src", ".git", "HEAD")))
}

func TestWatcher_ExcludesNestedBuildDir(t *testing.T) {
	src := t.TempDir()
	out := filepath.Join(src, "out")
	require.NoError(t, os.MkdirAll(filepath.Join(out, "game_unity"), 0755))

	w, err := New(src, []string{"node_modules"}, 50*time.Millisecond)
	require.NoError(t, err)
	w.Exclude(out)
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	assert.Equal(t, 1, w.Stats().WatchedDirs, "only the source root")
	assert.True(t, w.Ignored(out))
	assert.True(t, w.Ignored(filepath.Join(out, "game_unity", "index.html")))
	assert.False(t, w.Ignored(filepath.Join(src, "outline.js")))

	built := filepath.Join(out, "index.html")
	require.NoError(t, os.WriteFile(built, []byte("<html></html>"), 0644))
	edited := filepath.Join(src, "game.js")
	require.NoError(t, os.WriteFile(edited, []byte("export default 2;"), 0644))

	select {
	case batch := <-w.Changes():
		assert.Contains(t, batch, edited)
		assert.NotContains(t, batch, built)
		assert.NotContains(t, batch, out)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for change batch")
	}
}

func TestMergePaths(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, mergePaths([]string{"c", "a"}, []string{"b", "a"}))
	assert.Equal(t, []string{"x"}, mergePaths([]string{"x"}, nil))
}
