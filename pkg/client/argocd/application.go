package argocd

import (
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"
)

const (
	defaultApplicationName   = "app-of-apps"
	defaultDestinationServer = "https://kubernetes.default.svc"
	defaultProject           = "default"
	defaultTargetRevision    = "main"
	// defaultSourcePath matches the app-of-apps layout scaffolded by devctl init.
	defaultSourcePath = "argocd/apps"

	argoCDRefreshAnnotationKey    = "argocd.argoproj.io/refresh"
	argoCDHardRefreshAnnotation   = "hard"
	argoCDNormalRefreshAnnotation = "normal"
)

func applicationGVR() schema.GroupVersionResource {
	return schema.GroupVersionResource{
		Group:    "argoproj.io",
		Version:  "v1alpha1",
		Resource: "applications",
	}
}

func buildApplication(opts BootstrapOptions) *unstructured.Unstructured {
	name := opts.ApplicationName
	if name == "" {
		name = defaultApplicationName
	}

	sourcePath := opts.Path
	if sourcePath == "" {
		sourcePath = defaultSourcePath
	}

	project := opts.Project
	if project == "" {
		project = defaultProject
	}

	obj := map[string]any{
		"apiVersion": "argoproj.io/v1alpha1",
		"kind":       "Application",
		"metadata": map[string]any{
			"name":      name,
			"namespace": argoCDNamespace,
		},
		"spec": map[string]any{
			"project": project,
			"source": map[string]any{
				"repoURL":        opts.RepositoryURL,
				"targetRevision": opts.TargetRevision,
				"path":           sourcePath,
			},
			// Child Applications the root app generates are themselves
			// created in the argocd namespace.
			"destination": map[string]any{
				"server":    defaultDestinationServer,
				"namespace": argoCDNamespace,
			},
			"syncPolicy": map[string]any{
				"automated":   map[string]any{"prune": true, "selfHeal": true},
				"syncOptions": []any{"CreateNamespace=true"},
			},
		},
	}

	return &unstructured.Unstructured{Object: obj}
}
