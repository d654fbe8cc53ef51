// Package supervisor manages detached background processes for a cluster
// environment (port-forward supervisors, the minikube dashboard and tunnel).
//
// Each process is recorded as JSON in ~/.devctl/<cluster>/<name>.json with
// its output redirected to <name>.log in the same directory. Processes are
// started in their own process group so that stopping them also takes down
// any children they spawned.
package supervisor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"
	"time"
)

const (
	// stateDir is the directory under the user's home where process state is stored.
	stateDir = ".devctl"
	// dirPermissions is the permission mode for state directories.
	dirPermissions = 0o700
	// filePermissions is the permission mode for state and log files.
	filePermissions = 0o600

	// startupProbe is how long a process must survive before its state is written.
	startupProbe = 500 * time.Millisecond
	// defaultStopGracePeriod is how long Stop waits after SIGTERM before SIGKILL.
	defaultStopGracePeriod = 5 * time.Second
	// pollInterval is the liveness re-check cadence while waiting for exits.
	pollInterval = 100 * time.Millisecond
)

// Sentinel errors for supervised process operations.
var (
	// ErrProcessNotFound is returned when no live supervised process exists by that name.
	ErrProcessNotFound = errors.New("supervised process not found")

	// ErrProcessAlreadyRunning is returned when starting a name that is still alive.
	ErrProcessAlreadyRunning = errors.New("supervised process already running")

	// ErrProcessExited is returned when a process dies before surviving the startup probe.
	ErrProcessExited = errors.New("supervised process exited during startup")
)

// ProcessState describes one supervised background process.
type ProcessState struct {
	Name      string    `json:"name"`
	PID       int       `json:"pid"`
	Command   string    `json:"command"`
	Args      []string  `json:"args,omitempty"`
	StartedAt time.Time `json:"startedAt"`
	LogPath   string    `json:"logPath"`
}

// ProcessStatus pairs a recorded state with its current liveness.
type ProcessStatus struct {
	ProcessState

	Alive bool
}

// Supervisor manages the detached background processes of one cluster.
type Supervisor struct {
	baseDir     string
	clusterName string
	stopGrace   time.Duration
}

// NewSupervisor creates a supervisor storing state under ~/.devctl/<cluster>/.
func NewSupervisor(clusterName string) (*Supervisor, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}

	return NewSupervisorWithBaseDir(clusterName, filepath.Join(home, stateDir)), nil
}

// NewSupervisorWithBaseDir creates a supervisor with an explicit state
// directory for testing purposes.
func NewSupervisorWithBaseDir(clusterName, baseDir string) *Supervisor {
	return &Supervisor{
		baseDir:     baseDir,
		clusterName: clusterName,
		stopGrace:   defaultStopGracePeriod,
	}
}

// WithStopGracePeriod overrides how long Stop waits between SIGTERM and SIGKILL.
func (s *Supervisor) WithStopGracePeriod(grace time.Duration) *Supervisor {
	s.stopGrace = grace

	return s
}

// StateDir returns the directory holding this cluster's process state and logs.
func (s *Supervisor) StateDir() string {
	return filepath.Join(s.baseDir, s.clusterName)
}

// Start spawns a detached background process and records its state.
// The process runs in its own process group with output redirected to a log
// file; state is written only after the process survives a startup probe, so
// immediately-failing commands are reported instead of recorded.
// Returns an error wrapping ErrProcessAlreadyRunning when the name is taken
// by a live process; stale state from a dead process is replaced.
func (s *Supervisor) Start(
	ctx context.Context,
	name string,
	command string,
	args ...string,
) (*ProcessState, error) {
	existing, err := s.Load(name)
	if err == nil {
		if isAlive(existing.PID) {
			return nil, fmt.Errorf(
				"%w: %s (pid %d)", ErrProcessAlreadyRunning, name, existing.PID,
			)
		}

		// Stale state from a dead process is cleaned up on any operation.
		_ = os.Remove(s.statePath(name))
	} else if !errors.Is(err, ErrProcessNotFound) {
		return nil, err
	}

	err = os.MkdirAll(s.StateDir(), dirPermissions)
	if err != nil {
		return nil, fmt.Errorf("failed to create state directory %s: %w", s.StateDir(), err)
	}

	logPath := s.logPath(name)

	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, filePermissions)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", logPath, err)
	}

	defer func() { _ = logFile.Close() }()

	// No CommandContext here: the process must outlive this invocation.
	cmd := exec.Command(command, args...) //nolint:gosec // command comes from devctl itself
	cmd.Stdout = logFile
	cmd.Stderr = logFile
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	err = cmd.Start()
	if err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", command, err)
	}

	state := &ProcessState{
		Name:      name,
		PID:       cmd.Process.Pid,
		Command:   command,
		Args:      args,
		StartedAt: time.Now().UTC(),
		LogPath:   logPath,
	}

	err = s.probeStartup(ctx, cmd, state)
	if err != nil {
		return nil, err
	}

	err = s.writeState(state)
	if err != nil {
		// Do not leave an untracked process behind.
		_ = killGroup(state.PID, syscall.SIGKILL)

		return nil, err
	}

	return state, nil
}

// probeStartup waits for the startup probe to elapse, failing if the process
// exits first. Waiting on the child directly avoids the zombie pitfall of a
// signal-0 check against our own unreaped child.
func (s *Supervisor) probeStartup(
	ctx context.Context,
	cmd *exec.Cmd,
	state *ProcessState,
) error {
	exited := make(chan error, 1)

	go func() { exited <- cmd.Wait() }()

	select {
	case waitErr := <-exited:
		detail := ""
		if waitErr != nil {
			detail = ": " + waitErr.Error()
		}

		return fmt.Errorf(
			"%w: %s%s (log: %s)", ErrProcessExited, state.Name, detail, state.LogPath,
		)
	case <-ctx.Done():
		_ = killGroup(state.PID, syscall.SIGKILL)

		return ctx.Err() //nolint:wrapcheck // context cancellation passes through untouched
	case <-time.After(startupProbe):
		return nil
	}
}

func (s *Supervisor) writeState(state *ProcessState) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal process state: %w", err)
	}

	statePath := s.statePath(state.Name)

	err = os.WriteFile(statePath, data, filePermissions)
	if err != nil {
		return fmt.Errorf("failed to write process state %s: %w", statePath, err)
	}

	return nil
}

func (s *Supervisor) statePath(name string) string {
	return filepath.Join(s.StateDir(), name+".json")
}

func (s *Supervisor) logPath(name string) string {
	return filepath.Join(s.StateDir(), name+".log")
}
