// Package patch rewrites installed Phaser sources so input handling never
// touches window.top, which throws inside cross-origin ad iframes.
package patch

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"

	"adbuild/internal/logging"
)

// PhaserFiles are the project-relative files patched when present.
var PhaserFiles = []string{
	"node_modules/phaser/dist/phaser.js",
	"node_modules/phaser/dist/phaser.min.js",
	"node_modules/phaser/dist/phaser-arcade-physics.js",
	"node_modules/phaser/dist/phaser-arcade-physics.min.js",
	"node_modules/phaser/dist/phaser.esm.js",
	"node_modules/phaser/dist/phaser.esm.min.js",
	"node_modules/phaser/src/input/mouse/MouseManager.js",
	"node_modules/phaser/src/input/touch/TouchManager.js",
}

type rewrite struct {
	pattern     *regexp.Regexp
	replacement string
}

// Order matters: collapsing window.top can produce window.window.
var rewrites = []rewrite{
	{regexp.MustCompile(`window\.top`), "window"},
	{regexp.MustCompile(`window\.window`), "window"},
	{regexp.MustCompile(`this\.isTop\s*=\s*!0`), "this.isTop=!1"},
	{regexp.MustCompile(`this\.isTop\s*=\s*true`), "this.isTop=false"},
}

// Result reports one patched file.
type Result struct {
	Path    string
	Changed bool
}

// Content applies the rewrites to src.
func Content(src string) string {
	for _, r := range rewrites {
		src = r.pattern.ReplaceAllLiteralString(src, r.replacement)
	}
	return src
}

// Phaser patches every existing PhaserFiles entry under projectRoot, printing
// progress to out. Missing files are skipped silently.
func Phaser(projectRoot string, out io.Writer) ([]Result, error) {
	var results []Result
	for _, rel := range PhaserFiles {
		full := filepath.Join(projectRoot, filepath.FromSlash(rel))
		info, err := os.Stat(full)
		if err != nil || info.IsDir() {
			continue
		}

		fmt.Fprintf(out, "Patching %s...\n", rel)
		data, err := os.ReadFile(full)
		if err != nil {
			return results, fmt.Errorf("read %s: %w", rel, err)
		}
		patched := Content(string(data))
		changed := patched != string(data)
		if changed {
			if err := os.WriteFile(full, []byte(patched), info.Mode().Perm()); err != nil {
				return results, fmt.Errorf("write %s: %w", rel, err)
			}
		}
		logging.Build("Patched %s (changed=%v)", full, changed)
		fmt.Fprintf(out, "✓ Patched %s\n", rel)
		results = append(results, Result{Path: rel, Changed: changed})
	}

	fmt.Fprintln(out, "\nAll patches complete. Please delete your dist folder and rebuild.")
	return results, nil
}
