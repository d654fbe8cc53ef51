package runner_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/k8s-rollouts/devctl/pkg/cmd/runner"
)

func TestOSExecRunner_RunPropagatesStdout(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer

	execRunner := runner.NewOSExecRunner(&stdout, &stderr)

	res, err := execRunner.Run(context.Background(), "sh", "-c", "echo hello world")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(res.Stdout, "hello world") {
		t.Fatalf("expected stdout to contain greeting, got %q", res.Stdout)
	}

	if !strings.Contains(stdout.String(), "hello world") {
		t.Fatalf("expected console output to contain greeting, got %q", stdout.String())
	}
}

func TestOSExecRunner_RunCapturesStderr(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer

	execRunner := runner.NewOSExecRunner(&stdout, &stderr)

	res, err := execRunner.Run(context.Background(), "sh", "-c", "echo detail 1>&2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(res.Stderr, "detail") {
		t.Fatalf("expected stderr capture, got %q", res.Stderr)
	}

	if !strings.Contains(stderr.String(), "detail") {
		t.Fatalf("expected console stderr to contain detail, got %q", stderr.String())
	}
}

func TestOSExecRunner_RunReturnsError(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer

	execRunner := runner.NewOSExecRunner(&stdout, &stderr)

	res, err := execRunner.Run(context.Background(), "sh", "-c", "echo partial; exit 3")
	if err == nil {
		t.Fatal("expected error when command fails")
	}

	if !strings.Contains(err.Error(), "command execution failed") {
		t.Fatalf("expected wrapped error message, got %q", err.Error())
	}

	// Output produced before the failure is still captured
	if !strings.Contains(res.Stdout, "partial") {
		t.Fatalf("expected stdout capture, got %q", res.Stdout)
	}
}

func TestOSExecRunner_RunQuietSkipsConsole(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer

	execRunner := runner.NewOSExecRunner(&stdout, &stderr)

	res, err := execRunner.RunQuiet(context.Background(), "sh", "-c", "echo probe output")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(res.Stdout, "probe output") {
		t.Fatalf("expected stdout capture, got %q", res.Stdout)
	}

	if stdout.Len() != 0 {
		t.Fatalf("expected no console output, got %q", stdout.String())
	}
}

func TestOSExecRunner_RunHonorsContextCancellation(t *testing.T) {
	t.Parallel()

	execRunner := runner.NewOSExecRunner(nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := execRunner.Run(ctx, "sh", "-c", "sleep 10")
	if err == nil {
		t.Fatal("expected error for canceled context")
	}
}
