package main

import (
	"fmt"
	"io"
	"path/filepath"

	"go.uber.org/zap"

	"adbuild/internal/bundler"
	"adbuild/internal/config"
	"adbuild/internal/logging"
	"adbuild/internal/network"
	"adbuild/internal/orchestrator"
	"adbuild/internal/postprocess"
	"adbuild/internal/synth"
	"adbuild/internal/tactile"
)

// project is the loaded workspace a command operates on.
type project struct {
	workspace string
	cfg       *config.Config
	catalog   *network.Catalog
}

// configPath resolves --config against the workspace.
func configPath(ws string) string {
	path := configFile
	if path == "" {
		path = config.DefaultFileName
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(ws, path)
	}
	return path
}

// loadProject resolves the workspace, loads and validates the config and
// starts the file loggers.
func loadProject() (*project, error) {
	ws := workspace
	if ws == "" {
		var err error
		ws, err = config.FindWorkspaceRoot()
		if err != nil {
			return nil, fmt.Errorf("find workspace: %w", err)
		}
	}
	ws, err := filepath.Abs(ws)
	if err != nil {
		return nil, fmt.Errorf("resolve workspace: %w", err)
	}

	path := configPath(ws)
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if buildEngine != "" {
		cfg.Bundler.Engine = buildEngine
	}
	if err := cfg.Resolve(ws); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	catalog, err := cfg.Catalog()
	if err != nil {
		return nil, err
	}

	if err := logging.Initialize(ws, cfg.Logging.Options()); err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}
	logging.Boot("Loaded config %s (engine=%s, networks=%d)", path, cfg.Bundler.Engine, catalog.Len())
	getLogger().Debug("Loaded config",
		zap.String("path", path),
		zap.String("project_root", cfg.Paths.ProjectRoot),
		zap.String("engine", cfg.Bundler.Engine))

	return &project{workspace: ws, cfg: cfg, catalog: catalog}, nil
}

// newOrchestrator wires the synthesizer, bundler and post-processor from config.
func (p *project) newOrchestrator(out io.Writer) (*orchestrator.Orchestrator, error) {
	cfg := p.cfg
	renderer, err := synth.RendererFor(cfg.Bundler.Engine)
	if err != nil {
		return nil, err
	}

	executor := tactile.NewDirectExecutor()
	log := getLogger()
	executor.SetAuditCallback(func(e tactile.AuditEvent) {
		fields := []zap.Field{
			zap.String("event", string(e.Type)),
			zap.String("command", e.Command.CommandString()),
		}
		if e.Result != nil {
			fields = append(fields, zap.Int("exit_code", e.Result.ExitCode), zap.Duration("duration", e.Result.Duration))
		}
		log.Debug("Bundler process", fields...)
	})

	b, err := bundler.New(bundler.Options{
		Config:      cfg.Bundler,
		ProjectRoot: cfg.Paths.ProjectRoot,
		Executor:    executor,
		Stdout:      out,
	})
	if err != nil {
		return nil, err
	}

	return orchestrator.New(orchestrator.Options{
		Synth: &synth.Synthesizer{
			ProjectRoot:  cfg.Paths.ProjectRoot,
			TemplateRoot: cfg.TemplateRoot(),
			BuildRoot:    cfg.BuildRoot(),
			Entry:        cfg.Paths.Entry,
			HTMLPlugin:   cfg.Bundler.HTMLPlugin,
			Minify:       cfg.Bundler.Minify,
			Renderer:     renderer,
		},
		Bundler: b,
		Post:    postprocess.New(cfg.StoreLinks, out),
		Logger:  log,
		Out:     out,
	})
}

func getLogger() *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
