package verify

import (
	"context"
	"strings"

	"github.com/k8s-rollouts/devctl/pkg/client/argocd"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/kubernetes"
)

const gitopsSuiteName = "gitops"

const (
	argocdNamespace            = "argocd"
	repositorySecretSelector   = "argocd.argoproj.io/secret-type=repository"
	defaultRootApplicationName = "app-of-apps"
)

// ApplicationLister lists Argo CD Application statuses.
type ApplicationLister interface {
	ListApplicationStatuses(ctx context.Context) ([]argocd.ApplicationStatus, error)
}

// GitOpsSuite checks the Argo CD control plane: application sync/health,
// auto-sync on the root application, and repository credentials.
type GitOpsSuite struct {
	client  kubernetes.Interface
	dynamic dynamic.Interface
	apps    ApplicationLister
	rootApp string
}

// NewGitOpsSuite creates the gitops suite. rootApp may be empty to use the
// default root application name.
func NewGitOpsSuite(
	client kubernetes.Interface,
	dynamicClient dynamic.Interface,
	apps ApplicationLister,
	rootApp string,
) *GitOpsSuite {
	if rootApp == "" {
		rootApp = defaultRootApplicationName
	}

	return &GitOpsSuite{client: client, dynamic: dynamicClient, apps: apps, rootApp: rootApp}
}

// Name implements Suite.
func (s *GitOpsSuite) Name() string { return gitopsSuiteName }

// Run implements Suite.
func (s *GitOpsSuite) Run(ctx context.Context) []Result {
	return []Result{
		s.checkApplicationsSynced(ctx),
		s.checkAutoSync(ctx),
		s.checkRepositorySecret(ctx),
	}
}

func (s *GitOpsSuite) checkApplicationsSynced(ctx context.Context) Result {
	const name = "applications-synced"

	statuses, err := s.apps.ListApplicationStatuses(ctx)
	if err != nil {
		return fail(gitopsSuiteName, name, "failed to list applications: %v", err)
	}

	if len(statuses) == 0 {
		return fail(gitopsSuiteName, name, "no applications found; run 'devctl app bootstrap'")
	}

	var unsynced []string

	for _, status := range statuses {
		if !status.Synced() {
			unsynced = append(
				unsynced,
				status.Name+" ("+status.SyncStatus+"/"+status.HealthStatus+")",
			)
		}
	}

	if len(unsynced) > 0 {
		return fail(gitopsSuiteName, name, "%s", strings.Join(unsynced, ", "))
	}

	return pass(gitopsSuiteName, name)
}

// checkAutoSync verifies the root application has automated sync with prune
// and self-heal enabled.
func (s *GitOpsSuite) checkAutoSync(ctx context.Context) Result {
	const name = "auto-sync-enabled"

	app, err := s.dynamic.Resource(applicationGVR()).
		Namespace(argocdNamespace).
		Get(ctx, s.rootApp, metav1.GetOptions{})
	if err != nil {
		return fail(gitopsSuiteName, name, "failed to get application %q: %v", s.rootApp, err)
	}

	automated, found, err := unstructured.NestedMap(app.Object, "spec", "syncPolicy", "automated")
	if err != nil || !found || automated == nil {
		return fail(gitopsSuiteName, name, "application %q has no automated sync policy", s.rootApp)
	}

	return pass(gitopsSuiteName, name)
}

func (s *GitOpsSuite) checkRepositorySecret(ctx context.Context) Result {
	const name = "repository-secret"

	secrets, err := s.client.CoreV1().Secrets(argocdNamespace).List(ctx, metav1.ListOptions{
		LabelSelector: repositorySecretSelector,
	})
	if err != nil {
		return fail(gitopsSuiteName, name, "failed to list repository secrets: %v", err)
	}

	if len(secrets.Items) == 0 {
		return fail(gitopsSuiteName, name, "no repository secret found in namespace %s", argocdNamespace)
	}

	return pass(gitopsSuiteName, name)
}

func applicationGVR() schema.GroupVersionResource {
	return schema.GroupVersionResource{
		Group:    "argoproj.io",
		Version:  "v1alpha1",
		Resource: "applications",
	}
}
