// Package sampleapi implements the demo HTTP service deployed through the
// GitOps pipeline. It exposes health probes, version metadata, a set of demo
// endpoints for exercising rollout analysis (latency, errors, cpu, memory),
// and Prometheus metrics.
//
// The service runs as `devctl sample-api serve` so the demo image reuses the
// CLI binary.
package sampleapi
