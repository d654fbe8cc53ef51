// Package rollouts drives Argo Rollouts resources through the dynamic
// Kubernetes client: reading rollout status, watching progress, and the
// promote/abort/retry/set-image actions. It patches Rollout objects the same
// way the kubectl-argo-rollouts plugin does and leaves the actual rollout
// orchestration to the controller running in the cluster.
package rollouts
