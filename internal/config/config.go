package config

import (
	"fmt"
	"os"
	"path/filepath"

	"adbuild/internal/network"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// DefaultFileName is the config file looked up in the workspace root.
const DefaultFileName = "adbuild.yaml"

// Config holds all adbuild configuration.
type Config struct {
	Paths   PathsConfig   `yaml:"paths"`
	Bundler BundlerConfig `yaml:"bundler"`

	// Networks overrides the catalog order. Empty means network.DefaultNetworks.
	Networks []string `yaml:"networks,omitempty"`

	StoreLinks network.StoreLinks `yaml:"store_links"`

	Watch   WatchConfig   `yaml:"watch"`
	Logging LoggingConfig `yaml:"logging"`
}

// PathsConfig locates the playable project. Relative paths resolve against
// ProjectRoot, which itself resolves against the workspace.
type PathsConfig struct {
	ProjectRoot string `yaml:"project_root" env:"ADBUILD_PROJECT_ROOT"`
	TemplateDir string `yaml:"template_dir" env:"ADBUILD_TEMPLATE_DIR"`
	BuildDir    string `yaml:"build_dir" env:"ADBUILD_BUILD_DIR"`
	Entry       string `yaml:"entry" env:"ADBUILD_ENTRY"`
	SourceDir   string `yaml:"source_dir" env:"ADBUILD_SOURCE_DIR"`
}

// WatchConfig configures the source watcher.
type WatchConfig struct {
	Debounce string   `yaml:"debounce"`
	Ignore   []string `yaml:"ignore,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Paths: PathsConfig{
			ProjectRoot: ".",
			TemplateDir: filepath.Join("src", "index"),
			BuildDir:    "dist",
			Entry:       "./src/index.js",
			SourceDir:   "src",
		},
		Bundler:    DefaultBundlerConfig(),
		StoreLinks: network.DefaultStoreLinks(),
		Watch: WatchConfig{
			Debounce: "500ms",
			Ignore:   []string{".git", "node_modules", "dist"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields defaults.
// Environment overrides are applied last.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides overlays ADBUILD_* variables. Unset variables leave
// the loaded values untouched.
func (c *Config) applyEnvOverrides() error {
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Paths.TemplateDir == "" || c.Paths.BuildDir == "" || c.Paths.Entry == "" {
		return fmt.Errorf("paths.template_dir, paths.build_dir and paths.entry are required")
	}
	if err := c.Bundler.Validate(); err != nil {
		return err
	}
	if err := c.StoreLinks.Validate(); err != nil {
		return err
	}
	catalog, err := c.Catalog()
	if err != nil {
		return err
	}
	for id := range c.StoreLinks {
		if id != network.DefaultLinkKey && !catalog.Contains(id) {
			return fmt.Errorf("store_links: %w: %s", network.ErrUnknownNetwork, id)
		}
	}
	return nil
}

// Catalog builds the network catalog from the configured order.
func (c *Config) Catalog() (*network.Catalog, error) {
	if len(c.Networks) == 0 {
		return network.DefaultCatalog(), nil
	}
	return network.NewCatalog(c.Networks)
}

// Resolve makes ProjectRoot absolute against workspace.
func (c *Config) Resolve(workspace string) error {
	root := c.Paths.ProjectRoot
	if root == "" {
		root = "."
	}
	if !filepath.IsAbs(root) {
		root = filepath.Join(workspace, root)
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolve project root: %w", err)
	}
	c.Paths.ProjectRoot = abs
	return nil
}

func (c *Config) under(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Paths.ProjectRoot, p)
}

// TemplateRoot is the directory holding <network>/index.html templates.
func (c *Config) TemplateRoot() string { return c.under(c.Paths.TemplateDir) }

// BuildRoot is the directory receiving <prefix>_<network> outputs.
func (c *Config) BuildRoot() string { return c.under(c.Paths.BuildDir) }

// SourceRoot is the directory the watcher observes.
func (c *Config) SourceRoot() string { return c.under(c.Paths.SourceDir) }

// FindWorkspaceRoot walks up from the current directory looking for adbuild.yaml
// or package.json. If neither is found, returns the current working directory.
func FindWorkspaceRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	originalDir := dir
	for {
		if _, err := os.Stat(filepath.Join(dir, DefaultFileName)); err == nil {
			return dir, nil
		}
		if _, err := os.Stat(filepath.Join(dir, "package.json")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return originalDir, nil
}
