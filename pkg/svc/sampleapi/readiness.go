package sampleapi

import (
	"runtime"
	"syscall"
)

const (
	// maxHeapBytes is the heap size above which the memory check reports
	// unready. Generous for a demo service; a leaking demo/memory loop will
	// eventually trip it.
	maxHeapBytes = 1 << 30
	// minDiskFraction is the minimum fraction of free disk space required.
	minDiskFraction = 0.05
)

// readinessCheck is one named readiness probe.
type readinessCheck struct {
	Name string `json:"name"`
	OK   bool   `json:"ok"`
	Info string `json:"info,omitempty"`
}

// readinessChecks runs all readiness probes and reports whether every one
// passed.
func (s *Server) readinessChecks() ([]readinessCheck, bool) {
	checks := []readinessCheck{
		s.checkSimulatedReadiness(),
		checkMemoryHeadroom(),
		checkDiskHeadroom(),
		s.checkConfig(),
	}

	allOK := true
	for _, check := range checks {
		if !check.OK {
			allOK = false
		}
	}

	return checks, allOK
}

// checkSimulatedReadiness fails when SAMPLE_API_SIMULATE_UNREADY is set,
// which lets rollout demos force a failing readiness gate.
func (s *Server) checkSimulatedReadiness() readinessCheck {
	if s.settings.SimulateUnready {
		return readinessCheck{
			Name: "simulated",
			OK:   false,
			Info: "SIMULATE_UNREADY is enabled",
		}
	}

	return readinessCheck{Name: "simulated", OK: true}
}

func checkMemoryHeadroom() readinessCheck {
	var stats runtime.MemStats

	runtime.ReadMemStats(&stats)

	if stats.HeapAlloc > maxHeapBytes {
		return readinessCheck{
			Name: "memory",
			OK:   false,
			Info: "heap allocation exceeds headroom limit",
		}
	}

	return readinessCheck{Name: "memory", OK: true}
}

func checkDiskHeadroom() readinessCheck {
	var stat syscall.Statfs_t

	err := syscall.Statfs("/", &stat)
	if err != nil {
		return readinessCheck{Name: "disk", OK: false, Info: err.Error()}
	}

	if stat.Blocks == 0 {
		return readinessCheck{Name: "disk", OK: true}
	}

	free := float64(stat.Bavail) / float64(stat.Blocks)
	if free < minDiskFraction {
		return readinessCheck{
			Name: "disk",
			OK:   false,
			Info: "less than 5% disk space free",
		}
	}

	return readinessCheck{Name: "disk", OK: true}
}

func (s *Server) checkConfig() readinessCheck {
	err := s.settings.Validate()
	if err != nil {
		return readinessCheck{Name: "config", OK: false, Info: err.Error()}
	}

	if s.settings.Version == "" {
		return readinessCheck{Name: "config", OK: false, Info: "version is empty"}
	}

	return readinessCheck{Name: "config", OK: true}
}
