package exec

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
)

// ExecutionResult holds the outcome of a command execution.
type ExecutionResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Executor runs external commands. Tests substitute a fake.
type Executor interface {
	Run(ctx context.Context, command string, args ...string) (*ExecutionResult, error)
}

// CommandExecutor runs commands on the host system.
type CommandExecutor struct {
	// Dir is the working directory of the commands. Empty means the current one.
	Dir string
}

// NewCommandExecutor creates a CommandExecutor running commands in dir.
func NewCommandExecutor(dir string) *CommandExecutor {
	return &CommandExecutor{Dir: dir}
}

// Run executes the given command and returns its result.
// A non-zero exit code is reported through the result, not as an error.
func (e *CommandExecutor) Run(ctx context.Context, command string, args ...string) (*ExecutionResult, error) {
	cmd := exec.CommandContext(ctx, command, args...)
	cmd.Dir = e.Dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, err
		}
	}

	return &ExecutionResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: cmd.ProcessState.ExitCode(),
	}, nil
}

// Available reports whether command can be found in the system path.
func Available(command string) bool {
	_, err := exec.LookPath(command)
	return err == nil
}
