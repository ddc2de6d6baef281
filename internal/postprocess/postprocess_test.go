package postprocess

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adbuild/internal/network"
	"adbuild/internal/synth"
)

const templateHTML = `<html><script>
var url = 'https://old.example/ios'; // IOS
var android = 'https://old.example/android';   //   ANDROID
// P3 SCRIPT HERE
</script><script>// P3 SCRIPT HERE</script></html>`

var testLinks = network.StoreLinks{
	network.DefaultLinkKey: {IOS: "https://google.com", Android: "https://google.com"},
	"unity":                {IOS: "https://apps.apple.com/app/id1", Android: "https://play.google.com/store/apps/details?id=a&b=$1"},
}

// newSpec creates an output dir holding index.html and, when script is
// non-empty, the bundle.
func newSpec(t *testing.T, id, script string) *synth.BuildSpec {
	t.Helper()
	root := t.TempDir()
	caps := network.CapabilitiesFor(id)
	spec := &synth.BuildSpec{
		Network:             id,
		Prefix:              "game",
		RequiresInlining:    caps.RequiresInlining,
		OutputDir:           filepath.Join(root, "dist", "game_"+id),
		TemplateDir:         filepath.Join(root, "src", "index", id),
		EntryScriptFilename: caps.ScriptFilename,
		Capabilities:        caps,
	}
	spec.TemplatePath = filepath.Join(spec.TemplateDir, "index.html")
	require.NoError(t, os.MkdirAll(spec.OutputDir, 0755))
	require.NoError(t, os.MkdirAll(spec.TemplateDir, 0755))
	require.NoError(t, os.WriteFile(spec.IndexPath(), []byte(templateHTML), 0644))
	if script != "" {
		require.NoError(t, os.WriteFile(spec.ScriptPath(), []byte(script), 0644))
	}
	return spec
}

func TestProcess_InlinesAndInjects(t *testing.T) {
	spec := newSpec(t, "unity", "console.log('$1 & $&');")
	var out bytes.Buffer
	p := New(testLinks, &out)

	warnings, err := p.Process(spec)
	require.NoError(t, err)
	assert.Empty(t, warnings)

	html, err := os.ReadFile(spec.IndexPath())
	require.NoError(t, err)
	want := `<html><script>
var url = 'https://apps.apple.com/app/id1'; // IOS
var android = 'https://play.google.com/store/apps/details?id=a&b=$1'; // ANDROID
console.log('$1 & $&');
</script><script>// P3 SCRIPT HERE</script></html>`
	assert.Equal(t, want, string(html))

	_, err = os.Stat(spec.ScriptPath())
	assert.True(t, os.IsNotExist(err), "inlined script should be removed")
	assert.Contains(t, out.String(), "Embedded script into index.html for unity.")
}

func TestProcess_RequiresInliningOnlyInjects(t *testing.T) {
	spec := newSpec(t, "tencent", "bundle();")
	p := New(testLinks, nil)

	warnings, err := p.Process(spec)
	require.NoError(t, err)
	assert.Empty(t, warnings)

	html, err := os.ReadFile(spec.IndexPath())
	require.NoError(t, err)
	assert.Contains(t, string(html), "var url = 'https://google.com'; // IOS")
	assert.Contains(t, string(html), "// P3 SCRIPT HERE")
	assert.NotContains(t, string(html), "bundle();")

	_, err = os.Stat(spec.ScriptPath())
	assert.NoError(t, err, "script stays alongside index.html")
}

func TestProcess_AdikteevStandalone(t *testing.T) {
	spec := newSpec(t, "adikteev", "creative();")
	require.NoError(t, os.WriteFile(filepath.Join(spec.TemplateDir, "style.css"), []byte("body{}"), 0644))
	var out bytes.Buffer

	warnings, err := New(testLinks, &out).Process(spec)
	require.NoError(t, err)
	assert.Empty(t, warnings)

	css, err := os.ReadFile(filepath.Join(spec.OutputDir, "style.css"))
	require.NoError(t, err)
	assert.Equal(t, "body{}", string(css))
	assert.FileExists(t, filepath.Join(spec.OutputDir, "creative.js"))
	assert.Contains(t, out.String(), "style.css copied to build directory for adikteev.")
}

func TestProcess_MissingArtifact(t *testing.T) {
	spec := newSpec(t, "vungle", "")

	warnings, err := New(testLinks, nil).Process(spec)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.ErrorIs(t, warnings[0], ErrMissingArtifact)

	// Injection is skipped along with inlining.
	html, err := os.ReadFile(spec.IndexPath())
	require.NoError(t, err)
	assert.Equal(t, templateHTML, string(html))
}

func TestProcess_MissingIndexForInjectOnly(t *testing.T) {
	spec := newSpec(t, "smadex", "x();")
	require.NoError(t, os.Remove(spec.IndexPath()))

	warnings, err := New(testLinks, nil).Process(spec)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.ErrorIs(t, warnings[0], ErrMissingArtifact)
}

func TestProcess_MissingAuxWarns(t *testing.T) {
	spec := newSpec(t, "tiktok", "tt();")
	var out bytes.Buffer

	warnings, err := New(testLinks, &out).Process(spec)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.ErrorIs(t, warnings[0], ErrAuxiliaryCopyMissing)
	assert.Contains(t, out.String(), "config.json not found for tiktok.")

	// Inlining still happens.
	_, statErr := os.Stat(spec.ScriptPath())
	assert.True(t, os.IsNotExist(statErr))
}

func TestInjectStoreLinks_Idempotent(t *testing.T) {
	link := network.StoreLink{IOS: "https://a.example", Android: "https://b.example"}
	once := InjectStoreLinks(templateHTML, link)
	twice := InjectStoreLinks(once, link)
	assert.Equal(t, once, twice)
	assert.Contains(t, once, "var android = 'https://b.example'; // ANDROID")
}

func TestInjectStoreLinks_NoMarkers(t *testing.T) {
	html := "<html><body>no links</body></html>"
	assert.Equal(t, html, InjectStoreLinks(html, network.StoreLink{IOS: "x", Android: "y"}))
}
