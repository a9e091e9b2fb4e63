package ffmpeg

import (
	"context"
	"os/exec"
	"time"
)

// waitDelay bounds how long Wait blocks on output pipes after the process is
// killed, in case a grandchild outlived the process group kill
const waitDelay = 5 * time.Second

// maxDiagnosticBytes caps how much of the diagnostic stream is retained per run
const maxDiagnosticBytes = 64 * 1024

// CommandRunner defines the interface for running external commands
// This allows mocking exec.Command in tests
type CommandRunner interface {
	// Run executes a command and returns the tail of its diagnostic stream
	Run(ctx context.Context, name string, args ...string) (string, error)
	// Output executes a command and returns its standard output
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecCommandRunner is the production implementation using os/exec.
// Each command runs in its own process group so that cancelling the context
// kills the whole tree, not just the direct child.
type ExecCommandRunner struct{}

// Run executes a command and returns the tail of its stderr
func (r *ExecCommandRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	stderr := newTailBuffer(maxDiagnosticBytes)
	cmd.Stderr = stderr
	cmd.WaitDelay = waitDelay
	configureProcessGroup(cmd)

	err := cmd.Run()
	return stderr.String(), err
}

// Output executes a command and returns its stdout
func (r *ExecCommandRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.WaitDelay = waitDelay
	configureProcessGroup(cmd)
	return cmd.Output()
}
