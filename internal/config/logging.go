package config

import "adbuild/internal/logging"

// LoggingConfig configures the file debug logs.
type LoggingConfig struct {
	Level      string          `yaml:"level" json:"level,omitempty"`                               // debug, info, warn, error
	Format     string          `yaml:"format" json:"format,omitempty"`                             // json, text
	DebugMode  bool            `yaml:"debug_mode" json:"debug_mode,omitempty" env:"ADBUILD_DEBUG"` // false = no log files
	Categories map[string]bool `yaml:"categories" json:"categories,omitempty"`
}

// Options converts to the logging package's options.
func (c LoggingConfig) Options() logging.Options {
	return logging.Options{
		DebugMode:  c.DebugMode,
		Level:      c.Level,
		JSONFormat: c.Format == "json",
		Categories: c.Categories,
	}
}
