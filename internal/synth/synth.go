// Package synth derives the per-network build spec and renders the transient
// bundler configuration the bundler is invoked against.
package synth

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"adbuild/internal/logging"
	"adbuild/internal/network"
)

// ErrTemplateNotFound is returned when <templateRoot>/<network>/index.html is missing.
var ErrTemplateNotFound = errors.New("template file not found")

// ErrInvalidPrefix is returned when a prefix would place output outside the build root.
var ErrInvalidPrefix = errors.New("invalid project prefix")

const (
	// TemplateFilename is both the per-network template name and the emitted html name.
	TemplateFilename = "index.html"

	// inlineExtensions are bundled as data URLs.
	inlineExtensions = "gif|png|jpe?g|svg|mp3|m4a|ogg|wav|json|xml"
)

// AssetExtensions lists the file extensions matched by inlineExtensions.
var AssetExtensions = []string{".gif", ".png", ".jpg", ".jpeg", ".svg", ".mp3", ".m4a", ".ogg", ".wav", ".json", ".xml"}

// BuildSpec is everything one network's build needs. It lives for one loop iteration.
type BuildSpec struct {
	Network             string
	Prefix              string
	RequiresInlining    bool
	OutputDir           string
	TemplatePath        string
	TemplateDir         string
	EntryScriptFilename string
	Capabilities        network.Capabilities
}

// ScriptPath is the emitted bundle path.
func (s *BuildSpec) ScriptPath() string {
	return filepath.Join(s.OutputDir, s.EntryScriptFilename)
}

// IndexPath is the emitted html path.
func (s *BuildSpec) IndexPath() string {
	return filepath.Join(s.OutputDir, TemplateFilename)
}

// Synthesizer builds specs and bundler configs from resolved paths.
type Synthesizer struct {
	ProjectRoot  string
	TemplateRoot string
	BuildRoot    string
	Entry        string
	HTMLPlugin   string
	Minify       bool
	Renderer     Renderer
}

// OutputDirFor returns <buildRoot>/<prefix>_<network>.
func (s *Synthesizer) OutputDirFor(prefix, id string) string {
	return filepath.Join(s.BuildRoot, prefix+"_"+id)
}

// ValidatePrefix rejects prefixes that are not a single path element once
// joined with a network id. The empty prefix is allowed.
func ValidatePrefix(prefix string) error {
	name := prefix + "_x"
	if strings.ContainsAny(prefix, `/\`) || !filepath.IsLocal(name) || filepath.Base(name) != name {
		return fmt.Errorf("%w: %q", ErrInvalidPrefix, prefix)
	}
	return nil
}

// Synthesize derives the build spec for id. A prefix that escapes the build
// root or a missing template fails.
func (s *Synthesizer) Synthesize(id, prefix string) (*BuildSpec, error) {
	if err := ValidatePrefix(prefix); err != nil {
		return nil, err
	}

	templateDir := filepath.Join(s.TemplateRoot, id)
	templatePath := filepath.Join(templateDir, TemplateFilename)

	logging.BuildDebug("Checking for template file: %s", templatePath)
	if _, err := os.Stat(templatePath); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, templatePath)
		}
		return nil, fmt.Errorf("stat template %s: %w", templatePath, err)
	}

	caps := network.CapabilitiesFor(id)
	return &BuildSpec{
		Network:             id,
		Prefix:              prefix,
		RequiresInlining:    caps.RequiresInlining,
		OutputDir:           s.OutputDirFor(prefix, id),
		TemplatePath:        templatePath,
		TemplateDir:         templateDir,
		EntryScriptFilename: caps.ScriptFilename,
		Capabilities:        caps,
	}, nil
}

// Render serializes the bundler configuration for spec.
func (s *Synthesizer) Render(spec *BuildSpec) ([]byte, error) {
	return s.Renderer.Render(s, spec)
}

// WriteTemp renders spec and writes it to a uniquely named file in the project
// root. The caller must remove the returned path.
func (s *Synthesizer) WriteTemp(spec *BuildSpec) (string, error) {
	content, err := s.Render(spec)
	if err != nil {
		return "", err
	}

	f, err := os.CreateTemp(s.ProjectRoot, s.Renderer.Pattern(spec.Network))
	if err != nil {
		return "", fmt.Errorf("create temp config: %w", err)
	}
	path := f.Name()

	if _, err := f.Write(content); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("write temp config: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("close temp config: %w", err)
	}

	logging.BuildDebug("Wrote %s config for %s: %s (%d bytes)", s.Renderer.Name(), spec.Network, path, len(content))
	return path, nil
}
