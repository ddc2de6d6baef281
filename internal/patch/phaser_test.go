package patch

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContent(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"top", "if(window.top!==window.self){}", "if(window!==window.self){}"},
		{"top of window", "window.top.window.focus()", "window.focus()"},
		{"minified isTop", "this.isTop = !0,this.x=1", "this.isTop=!1,this.x=1"},
		{"isTop true", "this.isTop=true;", "this.isTop=false;"},
		{"untouched", "this.isTop=!1;", "this.isTop=!1;"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Content(tt.in))
		})
	}
}

func TestPhaser(t *testing.T) {
	root := t.TempDir()
	dist := filepath.Join(root, "node_modules", "phaser", "dist")
	require.NoError(t, os.MkdirAll(dist, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dist, "phaser.js"), []byte("this.isTop = true; window.top.focus();"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dist, "phaser.min.js"), []byte("clean"), 0644))

	var out bytes.Buffer
	results, err := Phaser(root, &out)
	require.NoError(t, err)

	assert.Equal(t, []Result{
		{Path: "node_modules/phaser/dist/phaser.js", Changed: true},
		{Path: "node_modules/phaser/dist/phaser.min.js", Changed: false},
	}, results)

	got, err := os.ReadFile(filepath.Join(dist, "phaser.js"))
	require.NoError(t, err)
	assert.Equal(t, "this.isTop=false; window.focus();", string(got))

	assert.Contains(t, out.String(), "Patching node_modules/phaser/dist/phaser.js...")
	assert.Contains(t, out.String(), "All patches complete. Please delete your dist folder and rebuild.")
}

func TestPhaser_NothingInstalled(t *testing.T) {
	var out bytes.Buffer
	results, err := Phaser(t.TempDir(), &out)
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Contains(t, out.String(), "All patches complete.")
}
