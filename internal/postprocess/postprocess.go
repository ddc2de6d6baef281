// Package postprocess finishes a network build after the bundler: it copies
// auxiliary files, inlines the bundle into index.html and injects store links.
package postprocess

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"adbuild/internal/logging"
	"adbuild/internal/network"
	"adbuild/internal/synth"
)

var (
	// ErrMissingArtifact means index.html or the bundle was not produced.
	ErrMissingArtifact = errors.New("build artifact missing")

	// ErrAuxiliaryCopyMissing means an auxiliary source file does not exist.
	ErrAuxiliaryCopyMissing = errors.New("auxiliary file not found")
)

// ScriptMarker is the placeholder in index.html replaced by the bundle text.
const ScriptMarker = "// P3 SCRIPT HERE"

var (
	iosLinkPattern     = regexp.MustCompile(`var url = '.*?';\s*//\s*IOS`)
	androidLinkPattern = regexp.MustCompile(`var android = '.*?';\s*//\s*ANDROID`)
)

// Processor applies post-processing to a bundled network output directory.
type Processor struct {
	StoreLinks network.StoreLinks

	// Out receives progress lines. Nil discards them.
	Out io.Writer
}

// New returns a Processor using links, falling back to the default table when nil.
func New(links network.StoreLinks, out io.Writer) *Processor {
	if links == nil {
		links = network.DefaultStoreLinks()
	}
	return &Processor{StoreLinks: links, Out: out}
}

func (p *Processor) printf(format string, args ...interface{}) {
	if p.Out != nil {
		fmt.Fprintf(p.Out, format+"\n", args...)
	}
}

// Process runs aux copies, then either inlining plus injection or injection alone.
// Warnings are recoverable conditions; a non-nil error is a filesystem failure.
func (p *Processor) Process(spec *synth.BuildSpec) ([]error, error) {
	var warnings []error

	for _, aux := range spec.Capabilities.AuxFiles {
		w, err := p.CopyAux(spec, aux)
		if err != nil {
			return warnings, err
		}
		if w != nil {
			warnings = append(warnings, w)
		}
	}

	if !spec.Capabilities.SkipsInlining() {
		w, err := p.Inline(spec)
		if err != nil {
			return warnings, err
		}
		if w != nil {
			warnings = append(warnings, w)
		}
		return warnings, nil
	}

	w, err := p.InjectFile(spec)
	if err != nil {
		return warnings, err
	}
	if w != nil {
		warnings = append(warnings, w)
	}
	return warnings, nil
}

// CopyAux copies one auxiliary file from the template dir into the output dir.
// A missing source yields a warning, not an error.
func (p *Processor) CopyAux(spec *synth.BuildSpec, aux network.AuxFile) (warning error, err error) {
	src := filepath.Join(spec.TemplateDir, aux.Src)
	dst := filepath.Join(spec.OutputDir, aux.Dst)

	data, err := os.ReadFile(src)
	if err != nil {
		if os.IsNotExist(err) {
			logging.PostWarn("%s not found for %s: %s", aux.Src, spec.Network, src)
			p.printf("%s not found for %s.", aux.Src, spec.Network)
			return fmt.Errorf("%w: %s", ErrAuxiliaryCopyMissing, src), nil
		}
		return nil, fmt.Errorf("read %s: %w", src, err)
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return nil, fmt.Errorf("create %s: %w", filepath.Dir(dst), err)
	}
	if err := os.WriteFile(dst, data, 0644); err != nil {
		return nil, fmt.Errorf("write %s: %w", dst, err)
	}

	logging.PostDebug("Copied %s -> %s", src, dst)
	p.printf("%s copied to build directory for %s.", aux.Dst, spec.Network)
	return nil, nil
}

// Inline embeds the bundle at the first ScriptMarker, injects store links,
// writes index.html and deletes the standalone bundle.
func (p *Processor) Inline(spec *synth.BuildSpec) (warning error, err error) {
	indexPath := spec.IndexPath()
	scriptPath := spec.ScriptPath()

	if !fileExists(indexPath) || !fileExists(scriptPath) {
		logging.PostWarn("Cannot inline %s: index=%s script=%s", spec.Network, indexPath, scriptPath)
		p.printf("index.html or %s not found for %s.", spec.EntryScriptFilename, spec.Network)
		return fmt.Errorf("%w: index.html or %s in %s", ErrMissingArtifact, spec.EntryScriptFilename, spec.OutputDir), nil
	}

	html, err := os.ReadFile(indexPath)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", indexPath, err)
	}
	script, err := os.ReadFile(scriptPath)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", scriptPath, err)
	}

	content := strings.Replace(string(html), ScriptMarker, string(script), 1)
	content = InjectStoreLinks(content, p.StoreLinks.Resolve(spec.Network))

	if err := os.WriteFile(indexPath, []byte(content), 0644); err != nil {
		return nil, fmt.Errorf("write %s: %w", indexPath, err)
	}
	if err := os.Remove(scriptPath); err != nil {
		return nil, fmt.Errorf("remove %s: %w", scriptPath, err)
	}

	logging.Post("Embedded script into index.html for %s (%d bytes)", spec.Network, len(script))
	p.printf("Embedded script into index.html for %s.", spec.Network)
	return nil, nil
}

// InjectFile injects store links into index.html alone.
func (p *Processor) InjectFile(spec *synth.BuildSpec) (warning error, err error) {
	indexPath := spec.IndexPath()
	html, err := os.ReadFile(indexPath)
	if err != nil {
		if os.IsNotExist(err) {
			logging.PostWarn("index.html not found for %s: %s", spec.Network, indexPath)
			return fmt.Errorf("%w: %s", ErrMissingArtifact, indexPath), nil
		}
		return nil, fmt.Errorf("read %s: %w", indexPath, err)
	}

	content := InjectStoreLinks(string(html), p.StoreLinks.Resolve(spec.Network))
	if err := os.WriteFile(indexPath, []byte(content), 0644); err != nil {
		return nil, fmt.Errorf("write %s: %w", indexPath, err)
	}

	logging.Post("Injected store links into index.html for %s", spec.Network)
	p.printf("Injected store links into index.html for %s.", spec.Network)
	return nil, nil
}

// InjectStoreLinks rewrites the IOS and ANDROID link assignments. URLs are
// inserted literally and applying it twice yields the same text.
func InjectStoreLinks(html string, link network.StoreLink) string {
	html = iosLinkPattern.ReplaceAllLiteralString(html, "var url = '"+link.IOS+"'; // IOS")
	return androidLinkPattern.ReplaceAllLiteralString(html, "var android = '"+link.Android+"'; // ANDROID")
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
