// Package manifests builds the Kubernetes manifest set of the sample
// application: an Argo Rollout for the configured strategy, the stable,
// preview and canary Services, a success-rate AnalysisTemplate backed by
// Prometheus, and the app and preview Ingress resources.
//
// The manifests are typed structs marshalled to YAML, parameterized by the
// environment configuration. They are what `manifest render` emits and what
// `init` scaffolds into the GitOps repository.
package manifests
