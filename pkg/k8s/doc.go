// Package k8s provides Kubernetes client configuration and general-purpose utilities.
//
// This package offers reusable utilities for working with Kubernetes clusters,
// including REST client configuration, kubeconfig management, DNS label
// sanitization, and pod failure diagnostics.
//
// For resource readiness polling, see the [readiness] sub-package.
//
// Key features:
//   - REST config building from kubeconfig files (BuildRESTConfig)
//   - Clientset and dynamic client creation (NewClientset, NewDynamicClient)
//   - Namespace creation and labelling (EnsureNamespace)
//   - Kubeconfig cleanup (CleanupKubeconfig)
//   - DNS label sanitization (SanitizeToDNSLabel)
//   - Pod failure diagnostics (DiagnosePodFailures)
package k8s
