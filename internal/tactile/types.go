// Package tactile is the process execution layer: it runs the external tools
// the orchestrator depends on (the bundler) and reports structured results.
package tactile

import (
	"io"
	"strings"
	"time"
)

// Command represents a command to be executed.
type Command struct {
	// Binary is the executable to run (e.g., "npx", "node").
	Binary string `json:"binary"`

	// Arguments are the command-line arguments.
	Arguments []string `json:"arguments"`

	// WorkingDirectory is the directory to execute in.
	WorkingDirectory string `json:"working_directory,omitempty"`

	// Environment is the full KEY=VALUE environment. Empty inherits the parent's.
	Environment []string `json:"environment,omitempty"`

	// Stdout and Stderr receive the process streams as they are produced.
	// Nil writers are captured into the result only.
	Stdout io.Writer `json:"-"`
	Stderr io.Writer `json:"-"`

	// Tags are arbitrary key-value pairs for audit.
	Tags map[string]string `json:"tags,omitempty"`
}

// CommandString returns the full command as a string (for display/logging).
func (c Command) CommandString() string {
	if len(c.Arguments) == 0 {
		return c.Binary
	}
	return c.Binary + " " + strings.Join(c.Arguments, " ")
}

// ExecutionResult captures the outcome of one command.
type ExecutionResult struct {
	// Success is true when the process started and exited 0.
	Success  bool   `json:"success"`
	ExitCode int    `json:"exit_code"`
	Error    string `json:"error,omitempty"`

	// Stdout and Stderr hold the tail of each stream, bounded by MaxCapturedBytes.
	Stdout string `json:"stdout"`
	Stderr string `json:"stderr"`

	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
	Duration   time.Duration `json:"duration"`

	Command *Command `json:"-"`
}

// Output returns stdout and stderr joined.
func (r *ExecutionResult) Output() string {
	if r.Stderr == "" {
		return r.Stdout
	}
	if r.Stdout == "" {
		return r.Stderr
	}
	return r.Stdout + "\n" + r.Stderr
}

// AuditEventType names the lifecycle points of an execution.
type AuditEventType string

const (
	AuditEventStart    AuditEventType = "start"
	AuditEventComplete AuditEventType = "complete"
	AuditEventError    AuditEventType = "error"
)

// AuditEvent is emitted to the executor's audit callback.
type AuditEvent struct {
	Type      AuditEventType
	Timestamp time.Time
	Command   Command
	Result    *ExecutionResult
}
