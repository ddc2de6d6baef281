package tactile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sync"
	"time"

	"adbuild/internal/logging"
)

// MaxCapturedBytes bounds the per-stream tail kept in ExecutionResult.
const MaxCapturedBytes = 64 * 1024

// DirectExecutor executes commands directly on the host using os/exec.
// There is no timeout: a command runs until it exits or ctx is canceled.
type DirectExecutor struct {
	mu            sync.RWMutex
	auditCallback func(AuditEvent)
}

// NewDirectExecutor creates a new direct executor.
func NewDirectExecutor() *DirectExecutor {
	return &DirectExecutor{}
}

// SetAuditCallback sets the callback for audit events.
func (e *DirectExecutor) SetAuditCallback(callback func(AuditEvent)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.auditCallback = callback
}

func (e *DirectExecutor) emitAudit(event AuditEvent) {
	e.mu.RLock()
	callback := e.auditCallback
	e.mu.RUnlock()

	if callback != nil {
		callback(event)
	}
}

// Validate checks if a command can be executed.
func (e *DirectExecutor) Validate(cmd Command) error {
	if cmd.Binary == "" {
		return fmt.Errorf("binary is required")
	}
	return nil
}

// Execute runs a command directly on the host, streaming output to the
// command's writers while keeping a bounded tail for the result.
func (e *DirectExecutor) Execute(ctx context.Context, cmd Command) (*ExecutionResult, error) {
	timer := logging.StartTimer(logging.CategoryTactile, "Direct command execution")
	defer timer.Stop()

	if err := e.Validate(cmd); err != nil {
		logging.TactileWarn("Command validation failed: %s %v - %v", cmd.Binary, cmd.Arguments, err)
		return nil, err
	}

	logging.Tactile("Executing command: %s (dir=%s)", cmd.CommandString(), cmd.WorkingDirectory)

	result := &ExecutionResult{
		ExitCode: -1,
		Command:  &cmd,
	}
	e.emitAudit(AuditEvent{Type: AuditEventStart, Timestamp: time.Now(), Command: cmd})

	execCmd := exec.CommandContext(ctx, cmd.Binary, cmd.Arguments...)
	execCmd.Dir = cmd.WorkingDirectory
	if len(cmd.Environment) > 0 {
		execCmd.Env = cmd.Environment
	}

	stdoutTail := &tailBuffer{max: MaxCapturedBytes}
	stderrTail := &tailBuffer{max: MaxCapturedBytes}
	execCmd.Stdout = teeWriter(cmd.Stdout, stdoutTail)
	execCmd.Stderr = teeWriter(cmd.Stderr, stderrTail)

	result.StartedAt = time.Now()
	err := execCmd.Run()
	result.FinishedAt = time.Now()
	result.Duration = result.FinishedAt.Sub(result.StartedAt)
	result.Stdout = stdoutTail.String()
	result.Stderr = stderrTail.String()

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		result.Success = true
		result.ExitCode = 0
	case errors.As(err, &exitErr):
		result.ExitCode = exitErr.ExitCode()
		result.Error = err.Error()
		logging.TactileDebug("Command exited non-zero: %s -> %d", cmd.Binary, result.ExitCode)
	default:
		result.Error = err.Error()
		logging.TactileError("Command failed: %s - %v", cmd.Binary, err)
		e.emitAudit(AuditEvent{Type: AuditEventError, Timestamp: time.Now(), Command: cmd, Result: result})
		return result, nil
	}

	e.emitAudit(AuditEvent{Type: AuditEventComplete, Timestamp: time.Now(), Command: cmd, Result: result})
	logging.Tactile("Command completed: %s -> exit=%d, duration=%s", cmd.Binary, result.ExitCode, result.Duration)
	return result, nil
}

func teeWriter(w io.Writer, tail *tailBuffer) io.Writer {
	if w == nil {
		return tail
	}
	return io.MultiWriter(w, tail)
}

// tailBuffer keeps the last max bytes written to it.
type tailBuffer struct {
	buf []byte
	max int
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.buf = append(t.buf, p...)
	if over := len(t.buf) - t.max; over > 0 {
		t.buf = append(t.buf[:0], t.buf[over:]...)
	}
	return len(p), nil
}

func (t *tailBuffer) String() string {
	return string(t.buf)
}
