package v1alpha1

import "github.com/k8s-rollouts/devctl/pkg/utils/envvar"

// ExpandEnvVars expands environment variable placeholders in all string fields
// of the environment configuration. This includes paths, credentials, contexts,
// and repository locations.
//
// Placeholders use the format ${VAR_NAME}. If a referenced environment variable
// is not set, the placeholder is replaced with an empty string.
//
// This method should be called after unmarshaling the configuration to ensure
// all user-facing string values support environment variable expansion.
func (e *Environment) ExpandEnvVars() {
	e.expandConnection()
	e.expandGitOps()
	e.expandSampleApp()
	e.expandObservability()
}

func (e *Environment) expandConnection() {
	connection := &e.Spec.Connection

	connection.Kubeconfig = envvar.Expand(connection.Kubeconfig)
	connection.Context = envvar.Expand(connection.Context)
}

func (e *Environment) expandGitOps() {
	gitOps := &e.Spec.GitOps

	gitOps.RepoURL = envvar.Expand(gitOps.RepoURL)
	gitOps.ChartPath = envvar.Expand(gitOps.ChartPath)
	gitOps.AppOfAppsPath = envvar.Expand(gitOps.AppOfAppsPath)
}

func (e *Environment) expandSampleApp() {
	sampleApp := &e.Spec.SampleApp

	sampleApp.Image.Repository = envvar.Expand(sampleApp.Image.Repository)
	sampleApp.Image.Tag = envvar.Expand(sampleApp.Image.Tag)
}

func (e *Environment) expandObservability() {
	observability := &e.Spec.Observability

	// GrafanaAdminPassword commonly references a secret via ${GRAFANA_ADMIN_PASSWORD}.
	observability.GrafanaAdminPassword = envvar.Expand(observability.GrafanaAdminPassword)
}
