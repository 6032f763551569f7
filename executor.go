package fingerprint

import (
	"context"
	"os/exec"
	"strings"
	"time"
)

// defaultCommandExecutor implements CommandExecutor using actual system command execution.
type defaultCommandExecutor struct {
	Timeout time.Duration
}

// Execute runs a system command with a timeout and returns the trimmed output.
// It uses context.WithTimeout to prevent commands from hanging indefinitely.
func (e *defaultCommandExecutor) Execute(ctx context.Context, name string, args ...string) (string, error) {
	timeout := e.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(timeoutCtx, name, args...)
	output, err := cmd.Output()
	if err != nil {
		return "", &CommandError{Command: name, Err: err}
	}

	return strings.TrimSpace(string(output)), nil
}

// executeCommand runs name through executor, falling back to the default
// executor when none is configured.
func executeCommand(ctx context.Context, executor CommandExecutor, name string, args ...string) (string, error) {
	if executor == nil {
		executor = &defaultCommandExecutor{
			Timeout: defaultTimeout,
		}
	}

	return executor.Execute(ctx, name, args...)
}
