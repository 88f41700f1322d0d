// Package git provides an abstraction layer for executing git commands
// with support for timeouts, context cancellation, and testing.
package git

import (
	"context"
	"os/exec"
	"time"
)

// DefaultTimeout is the default timeout for git operations.
const DefaultTimeout = 30 * time.Second

// Executor defines the interface for running git commands.
// This abstraction allows for testing and timeout support.
type Executor interface {
	// Run executes a git command and discards stdout/stderr.
	// Returns error if the command fails.
	Run(ctx context.Context, args ...string) error

	// Output executes a git command and returns stdout.
	// Returns the output and any error.
	Output(ctx context.Context, args ...string) ([]byte, error)
}

// DefaultExecutor implements Executor using exec.CommandContext.
// When Dir is set, commands run in that directory.
type DefaultExecutor struct {
	Timeout time.Duration
	Dir     string
}

// NewDefaultExecutor creates a new DefaultExecutor with the default timeout,
// running commands in the given directory ("" means the current directory).
func NewDefaultExecutor(dir string) *DefaultExecutor {
	return &DefaultExecutor{Timeout: DefaultTimeout, Dir: dir}
}

// NewExecutorWithTimeout creates a new DefaultExecutor with a custom timeout.
func NewExecutorWithTimeout(dir string, timeout time.Duration) *DefaultExecutor {
	return &DefaultExecutor{Timeout: timeout, Dir: dir}
}

// Run executes a git command and discards stdout/stderr.
func (e *DefaultExecutor) Run(ctx context.Context, args ...string) error {
	ctx, cancel := e.contextWithTimeout(ctx)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = e.Dir
	return cmd.Run()
}

// Output executes a git command and returns stdout.
func (e *DefaultExecutor) Output(ctx context.Context, args ...string) ([]byte, error) {
	ctx, cancel := e.contextWithTimeout(ctx)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = e.Dir
	return cmd.Output()
}

// contextWithTimeout returns a context with the executor's timeout applied.
// If the provided context already has a deadline, it is used if shorter.
func (e *DefaultExecutor) contextWithTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.Timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, e.Timeout)
}
