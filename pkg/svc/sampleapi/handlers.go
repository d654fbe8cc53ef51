package sampleapi

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"net/http"
	"strconv"
	"time"

	"github.com/k8s-rollouts/devctl/internal/buildmeta"
)

const (
	defaultSlowDelaySeconds = 5
	maxSlowDelaySeconds     = 30
	maxErrorRatePercent     = 100
	minCPUDurationSeconds   = 1
	maxCPUDurationSeconds   = 10
	defaultMemorySizeMB     = 10
	minMemorySizeMB         = 1
	maxMemorySizeMB         = 100
)

func (s *Server) handleIndex(writer http.ResponseWriter, _ *http.Request) {
	s.writeJSON(writer, http.StatusOK, map[string]any{
		"service": "sample-api",
		"version": s.settings.Version,
		"endpoints": []string{
			"/health/live",
			"/health/ready",
			"/health/startup",
			"/api/version",
			"/api/info",
			"/api/changelog",
			"/demo/slow",
			"/demo/error",
			"/demo/cpu",
			"/demo/memory",
			"/metrics",
		},
	})
}

func (s *Server) handleLive(writer http.ResponseWriter, _ *http.Request) {
	s.writeJSON(writer, http.StatusOK, map[string]string{"status": "alive"})
}

func (s *Server) handleReady(writer http.ResponseWriter, _ *http.Request) {
	checks, allOK := s.readinessChecks()

	if !allOK {
		s.writeJSON(writer, http.StatusServiceUnavailable, map[string]any{
			"status": "not ready",
			"checks": checks,
		})

		return
	}

	s.started.Store(true)
	s.writeJSON(writer, http.StatusOK, map[string]any{
		"status": "ready",
		"checks": checks,
	})
}

// handleStartup reports ready once the first readiness check has passed and
// keeps reporting ready afterwards, so a later readiness dip does not restart
// the container.
func (s *Server) handleStartup(writer http.ResponseWriter, _ *http.Request) {
	if s.started.Load() {
		s.writeJSON(writer, http.StatusOK, map[string]string{"status": "started"})

		return
	}

	_, allOK := s.readinessChecks()
	if allOK {
		s.started.Store(true)
		s.writeJSON(writer, http.StatusOK, map[string]string{"status": "started"})

		return
	}

	s.writeJSON(writer, http.StatusServiceUnavailable, map[string]string{"status": "starting"})
}

func (s *Server) handleVersion(writer http.ResponseWriter, _ *http.Request) {
	s.writeJSON(writer, http.StatusOK, map[string]string{
		"version":   s.settings.Version,
		"gitCommit": buildmeta.Commit,
		"buildDate": buildmeta.Date,
		"uptime":    time.Since(s.startTime).Round(time.Second).String(),
	})
}

func (s *Server) handleInfo(writer http.ResponseWriter, _ *http.Request) {
	s.writeJSON(writer, http.StatusOK, map[string]string{
		"name":         "sample-api",
		"version":      s.settings.Version,
		"strategy":     s.settings.Strategy,
		"podName":      s.settings.PodName,
		"podNamespace": s.settings.PodNamespace,
	})
}

func (s *Server) handleChangelog(writer http.ResponseWriter, _ *http.Request) {
	s.writeJSON(writer, http.StatusOK, map[string]any{"releases": changelog()})
}

// handleSlow sleeps for the requested number of seconds before responding,
// for exercising latency-based analysis.
func (s *Server) handleSlow(writer http.ResponseWriter, req *http.Request) {
	delay, err := queryInt(req, "delay", defaultSlowDelaySeconds, 0, maxSlowDelaySeconds)
	if err != nil {
		s.writeBadRequest(writer, err)

		return
	}

	start := time.Now()

	select {
	case <-req.Context().Done():
		return
	case <-time.After(time.Duration(delay) * time.Second):
	}

	s.writeJSON(writer, http.StatusOK, map[string]any{
		"requestedDelaySeconds": delay,
		"elapsed":               time.Since(start).Round(time.Millisecond).String(),
	})
}

// handleError fails with a 500 at the requested percentage rate, for
// exercising success-rate analysis.
func (s *Server) handleError(writer http.ResponseWriter, req *http.Request) {
	rate, err := queryInt(req, "rate", 0, 0, maxErrorRatePercent)
	if err != nil {
		s.writeBadRequest(writer, err)

		return
	}

	if rand.IntN(maxErrorRatePercent) < rate {
		s.metrics.errorsTotal.WithLabelValues("simulated").Inc()
		s.writeJSON(writer, http.StatusInternalServerError, map[string]any{
			"error":       "simulated failure",
			"ratePercent": rate,
		})

		return
	}

	s.writeJSON(writer, http.StatusOK, map[string]any{
		"status":      "ok",
		"ratePercent": rate,
	})
}

// handleCPU busy-loops for the requested number of seconds.
func (s *Server) handleCPU(writer http.ResponseWriter, req *http.Request) {
	duration, err := queryInt(
		req, "duration", minCPUDurationSeconds, minCPUDurationSeconds, maxCPUDurationSeconds,
	)
	if err != nil {
		s.writeBadRequest(writer, err)

		return
	}

	deadline := time.Now().Add(time.Duration(duration) * time.Second)

	var iterations uint64
	for time.Now().Before(deadline) {
		iterations++
	}

	s.writeJSON(writer, http.StatusOK, map[string]any{
		"durationSeconds": duration,
		"iterations":      iterations,
	})
}

// handleMemory allocates the requested number of megabytes, touches them and
// releases them when the request ends.
func (s *Server) handleMemory(writer http.ResponseWriter, req *http.Request) {
	sizeMB, err := queryInt(req, "size_mb", defaultMemorySizeMB, minMemorySizeMB, maxMemorySizeMB)
	if err != nil {
		s.writeBadRequest(writer, err)

		return
	}

	block := make([]byte, sizeMB*1024*1024)
	for i := 0; i < len(block); i += 4096 {
		block[i] = 1
	}

	s.writeJSON(writer, http.StatusOK, map[string]any{
		"allocatedMB": sizeMB,
		"touched":     len(block),
	})
}

func (s *Server) writeJSON(writer http.ResponseWriter, status int, payload any) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)

	err := json.NewEncoder(writer).Encode(payload)
	if err != nil {
		s.logger.WithError(err).Error("failed to encode response")
	}
}

func (s *Server) writeBadRequest(writer http.ResponseWriter, err error) {
	s.writeJSON(writer, http.StatusBadRequest, map[string]string{"error": err.Error()})
}

// queryInt parses an integer query parameter, applying a default when absent
// and rejecting values outside [minValue, maxValue].
func queryInt(req *http.Request, name string, defaultValue, minValue, maxValue int) (int, error) {
	raw := req.URL.Query().Get(name)
	if raw == "" {
		return defaultValue, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("parameter %q must be an integer: %w", name, err)
	}

	if value < minValue || value > maxValue {
		return 0, fmt.Errorf(
			"%w: parameter %q must be between %d and %d",
			errParameterOutOfRange, name, minValue, maxValue,
		)
	}

	return value, nil
}
