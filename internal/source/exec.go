package source

import (
	"bytes"
	"context"
	"os/exec"
)

// CommandRunner executes an external command and returns its stdout.
// Indirection point so sources can be tested without a cluster.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if stderr.Len() > 0 {
			return nil, &CommandError{Err: err, Stderr: stderr.String()}
		}
		return nil, err
	}
	return stdout.Bytes(), nil
}

// CommandError carries the stderr of a failed command.
type CommandError struct {
	Err    error
	Stderr string
}

func (e *CommandError) Error() string {
	return e.Err.Error() + ": " + e.Stderr
}

func (e *CommandError) Unwrap() error {
	return e.Err
}
