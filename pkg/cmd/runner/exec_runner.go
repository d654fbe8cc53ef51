package runner

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// ExecRunner executes external binaries while capturing their output.
// It is the exec counterpart of CommandRunner for tools that devctl drives
// through their CLI rather than a Go API (minikube, kubectl passthrough).
type ExecRunner interface {
	// Run executes the binary, streaming output to the console while capturing it.
	Run(ctx context.Context, name string, args ...string) (CommandResult, error)

	// RunQuiet executes the binary capturing output without console display.
	// Used for probes whose output is parsed rather than shown to the user.
	RunQuiet(ctx context.Context, name string, args ...string) (CommandResult, error)
}

// OSExecRunner executes binaries via os/exec with console output.
// Like CobraCommandRunner it displays output in real-time while also
// capturing it for programmatic access via CommandResult.
type OSExecRunner struct {
	stdout io.Writer
	stderr io.Writer
}

// NewOSExecRunner creates an exec runner that displays output to the given
// writers while capturing it for the result.
//
// If stdout or stderr are nil, they default to os.Stdout and os.Stderr respectively.
func NewOSExecRunner(stdout, stderr io.Writer) *OSExecRunner {
	if stdout == nil {
		stdout = os.Stdout
	}

	if stderr == nil {
		stderr = os.Stderr
	}

	return &OSExecRunner{
		stdout: stdout,
		stderr: stderr,
	}
}

// Run executes the binary and displays output in real-time to the console.
func (r *OSExecRunner) Run(
	ctx context.Context,
	name string,
	args ...string,
) (CommandResult, error) {
	var outBuf, errBuf bytes.Buffer

	// Use io.MultiWriter to display AND capture output
	return r.run(
		ctx,
		name,
		args,
		io.MultiWriter(&outBuf, r.stdout),
		io.MultiWriter(&errBuf, r.stderr),
		&outBuf,
		&errBuf,
	)
}

// RunQuiet executes the binary capturing output without console display.
func (r *OSExecRunner) RunQuiet(
	ctx context.Context,
	name string,
	args ...string,
) (CommandResult, error) {
	var outBuf, errBuf bytes.Buffer

	return r.run(ctx, name, args, &outBuf, &errBuf, &outBuf, &errBuf)
}

func (r *OSExecRunner) run(
	ctx context.Context,
	name string,
	args []string,
	stdout, stderr io.Writer,
	outBuf, errBuf *bytes.Buffer,
) (CommandResult, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	execErr := cmd.Run()

	result := CommandResult{
		Stdout: outBuf.String(),
		Stderr: errBuf.String(),
	}

	if execErr != nil {
		return result, fmt.Errorf("command execution failed: %w", execErr)
	}

	return result, nil
}
