package argocd

import (
	"strings"

	"github.com/k8s-rollouts/devctl/pkg/k8s"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

const (
	argoCDNamespace = "argocd"

	repositorySecretPrefix = "repo-"
	// maxSecretNameLength keeps derived names within the DNS label limit.
	maxSecretNameLength = 63
)

type repositorySecretOptions struct {
	repositoryURL string
	username      string
	password      string
	insecure      bool
}

// repositorySecretName derives a deterministic Secret name from the
// repository URL so repeated bootstraps update the same Secret.
func repositorySecretName(repositoryURL string) string {
	name := repositorySecretPrefix + k8s.SanitizeToDNSLabel(repositoryURL)
	if len(name) > maxSecretNameLength {
		name = strings.TrimRight(name[:maxSecretNameLength], "-")
	}

	return name
}

func buildRepositorySecret(opts repositorySecretOptions) *corev1.Secret {
	data := map[string]string{
		"type": "git",
		"url":  opts.repositoryURL,
	}

	if opts.username != "" {
		data["username"] = opts.username
	}

	if opts.password != "" {
		data["password"] = opts.password
	}

	if opts.insecure {
		data["insecure"] = "true"
	}

	return &corev1.Secret{
		ObjectMeta: metav1.ObjectMeta{
			Name:      repositorySecretName(opts.repositoryURL),
			Namespace: argoCDNamespace,
			Labels:    map[string]string{"argocd.argoproj.io/secret-type": "repository"},
		},
		StringData: data,
	}
}
