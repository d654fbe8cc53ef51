package supervisor

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Load reads the recorded state of a supervised process.
// Returns an error wrapping ErrProcessNotFound when no state exists.
func (s *Supervisor) Load(name string) (*ProcessState, error) {
	statePath := s.statePath(name)

	data, err := os.ReadFile(statePath) //nolint:gosec // path is derived from the state dir
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrProcessNotFound, name)
		}

		return nil, fmt.Errorf("failed to read process state %s: %w", statePath, err)
	}

	var state ProcessState

	err = json.Unmarshal(data, &state)
	if err != nil {
		return nil, fmt.Errorf("failed to parse process state %s: %w", statePath, err)
	}

	return &state, nil
}

// Status reports every recorded process with its current liveness.
// Stale entries are reported rather than removed so that inspection does
// not mutate state; mutating operations clean them up. Entries come back
// sorted by name.
func (s *Supervisor) Status() ([]ProcessStatus, error) {
	entries, err := os.ReadDir(s.StateDir())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to read state directory %s: %w", s.StateDir(), err)
	}

	var statuses []ProcessStatus

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}

		state, err := s.Load(strings.TrimSuffix(entry.Name(), ".json"))
		if err != nil {
			return nil, err
		}

		statuses = append(statuses, ProcessStatus{
			ProcessState: *state,
			Alive:        isAlive(state.PID),
		})
	}

	return statuses, nil
}
