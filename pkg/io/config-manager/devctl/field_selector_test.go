package configmanager_test

import (
	"testing"
	"time"

	"github.com/k8s-rollouts/devctl/pkg/apis/environment/v1alpha1"
	configmanager "github.com/k8s-rollouts/devctl/pkg/io/config-manager/devctl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

type standardFieldSelectorCase struct {
	name            string
	factory         func() configmanager.FieldSelector[v1alpha1.Environment]
	expectedDesc    string
	expectedDefault any
	assertPointer   func(*testing.T, *v1alpha1.Environment, any)
}

type defaultSelectorCase struct {
	name            string
	selector        configmanager.FieldSelector[v1alpha1.Environment]
	expectedDefault any
	assertField     func(*testing.T, any)
}

//nolint:funlen // Table-driven cases are verbose; keep assertions straightforward.
func TestStandardFieldSelectors(t *testing.T) {
	t.Parallel()

	cases := []standardFieldSelectorCase{
		{
			name:            "provisioner",
			factory:         configmanager.DefaultProvisionerFieldSelector,
			expectedDesc:    "Cluster provisioner to use",
			expectedDefault: v1alpha1.ProvisionerMinikube,
			assertPointer: func(t *testing.T, environment *v1alpha1.Environment, ptr any) {
				t.Helper()
				assertPointerSame(t, ptr, &environment.Spec.Cluster.Provisioner)
			},
		},
		{
			name:            "cluster name",
			factory:         configmanager.DefaultClusterNameFieldSelector,
			expectedDesc:    "Name of the cluster (also the minikube profile name)",
			expectedDefault: v1alpha1.DefaultClusterName,
			assertPointer: func(t *testing.T, environment *v1alpha1.Environment, ptr any) {
				t.Helper()
				assertPointerSame(t, ptr, &environment.Spec.Cluster.Name)
			},
		},
		{
			name:            "kubernetes version",
			factory:         configmanager.DefaultKubernetesVersionFieldSelector,
			expectedDesc:    "Kubernetes version for the cluster (empty uses the provisioner default)",
			expectedDefault: nil,
			assertPointer: func(t *testing.T, environment *v1alpha1.Environment, ptr any) {
				t.Helper()
				assertPointerSame(t, ptr, &environment.Spec.Cluster.KubernetesVersion)
			},
		},
		{
			name:            "nodes",
			factory:         configmanager.DefaultNodesFieldSelector,
			expectedDesc:    "Number of cluster nodes",
			expectedDefault: v1alpha1.DefaultNodes,
			assertPointer: func(t *testing.T, environment *v1alpha1.Environment, ptr any) {
				t.Helper()
				assertPointerSame(t, ptr, &environment.Spec.Cluster.Nodes)
			},
		},
		{
			name:            "cpus",
			factory:         configmanager.DefaultCPUsFieldSelector,
			expectedDesc:    "Number of CPUs to allocate to the cluster",
			expectedDefault: v1alpha1.DefaultCPUs,
			assertPointer: func(t *testing.T, environment *v1alpha1.Environment, ptr any) {
				t.Helper()
				assertPointerSame(t, ptr, &environment.Spec.Cluster.CPUs)
			},
		},
		{
			name:            "memory",
			factory:         configmanager.DefaultMemoryFieldSelector,
			expectedDesc:    "Amount of memory to allocate to the cluster (e.g. 8g)",
			expectedDefault: v1alpha1.DefaultMemory,
			assertPointer: func(t *testing.T, environment *v1alpha1.Environment, ptr any) {
				t.Helper()
				assertPointerSame(t, ptr, &environment.Spec.Cluster.Memory)
			},
		},
		{
			name:            "context",
			factory:         configmanager.DefaultContextFieldSelector,
			expectedDesc:    "Kubernetes context of cluster",
			expectedDefault: nil,
			assertPointer: func(t *testing.T, environment *v1alpha1.Environment, ptr any) {
				t.Helper()
				assertPointerSame(t, ptr, &environment.Spec.Connection.Context)
			},
		},
		{
			name:            "kubeconfig",
			factory:         configmanager.DefaultKubeconfigFieldSelector,
			expectedDesc:    "Path to kubeconfig file",
			expectedDefault: v1alpha1.DefaultKubeconfigPath,
			assertPointer: func(t *testing.T, environment *v1alpha1.Environment, ptr any) {
				t.Helper()
				assertPointerSame(t, ptr, &environment.Spec.Connection.Kubeconfig)
			},
		},
		{
			name:            "timeout",
			factory:         configmanager.DefaultTimeoutFieldSelector,
			expectedDesc:    "Timeout for cluster provisioning and workload readiness (e.g. 5m)",
			expectedDefault: metav1.Duration{Duration: 5 * time.Minute},
			assertPointer: func(t *testing.T, environment *v1alpha1.Environment, ptr any) {
				t.Helper()
				assertPointerSame(t, ptr, &environment.Spec.Connection.Timeout)
			},
		},
		{
			name:    "strategy",
			factory: configmanager.DefaultStrategyFieldSelector,
			expectedDesc: "Rollout strategy for the sample app (BlueGreen deploys a preview stack, " +
				"Canary shifts traffic in steps)",
			expectedDefault: v1alpha1.StrategyBlueGreen,
			assertPointer: func(t *testing.T, environment *v1alpha1.Environment, ptr any) {
				t.Helper()
				assertPointerSame(t, ptr, &environment.Spec.SampleApp.Strategy)
			},
		},
		{
			name:            "replicas",
			factory:         configmanager.DefaultReplicasFieldSelector,
			expectedDesc:    "Number of sample app replicas",
			expectedDefault: v1alpha1.DefaultReplicas,
			assertPointer: func(t *testing.T, environment *v1alpha1.Environment, ptr any) {
				t.Helper()
				assertPointerSame(t, ptr, &environment.Spec.SampleApp.Replicas)
			},
		},
		{
			name:            "repo url",
			factory:         configmanager.DefaultRepoURLFieldSelector,
			expectedDesc:    "Git repository URL Argo CD pulls manifests from",
			expectedDefault: nil,
			assertPointer: func(t *testing.T, environment *v1alpha1.Environment, ptr any) {
				t.Helper()
				assertPointerSame(t, ptr, &environment.Spec.GitOps.RepoURL)
			},
		},
		{
			name:            "target revision",
			factory:         configmanager.DefaultTargetRevisionFieldSelector,
			expectedDesc:    "Git revision Argo CD tracks (branch, tag, or commit)",
			expectedDefault: v1alpha1.DefaultTargetRevision,
			assertPointer: func(t *testing.T, environment *v1alpha1.Environment, ptr any) {
				t.Helper()
				assertPointerSame(t, ptr, &environment.Spec.GitOps.TargetRevision)
			},
		},
	}

	for _, testCase := range cases {
		caseData := testCase
		t.Run(caseData.name, func(t *testing.T) {
			t.Parallel()

			environment := &v1alpha1.Environment{}
			selector := caseData.factory()

			assert.Equal(t, caseData.expectedDesc, selector.Description)
			assert.Equal(t, caseData.expectedDefault, selector.DefaultValue)

			pointer := selector.Selector(environment)
			caseData.assertPointer(t, environment, pointer)
		})
	}
}

func assertPointerSame[T any](t *testing.T, actual any, expected *T) {
	t.Helper()

	value, ok := actual.(*T)
	require.True(t, ok)
	assert.Same(t, expected, value)
}

func TestDefaultEnvironmentFieldSelectorsProvideDefaults(t *testing.T) {
	t.Parallel()

	selectors := configmanager.DefaultEnvironmentFieldSelectors()
	require.Len(t, selectors, 7)

	environment := v1alpha1.NewEnvironment()

	for _, selectorCase := range defaultSelectorCases(selectors) {
		caseData := selectorCase
		t.Run(caseData.name, func(t *testing.T) {
			t.Parallel()

			field := caseData.selector.Selector(environment)
			if caseData.expectedDefault != nil {
				assert.Equal(t, caseData.expectedDefault, caseData.selector.DefaultValue)
			}

			caseData.assertField(t, field)
		})
	}
}

//nolint:funlen // Explicit cases improve readability over indirect indexing.
func defaultSelectorCases(
	selectors []configmanager.FieldSelector[v1alpha1.Environment],
) []defaultSelectorCase {
	return []defaultSelectorCase{
		{
			name:            "provisioner",
			selector:        selectors[0],
			expectedDefault: v1alpha1.ProvisionerMinikube,
			assertField: func(t *testing.T, field any) {
				t.Helper()

				_, ok := field.(*v1alpha1.Provisioner)
				require.True(t, ok)
			},
		},
		{
			name:            "cluster name",
			selector:        selectors[1],
			expectedDefault: v1alpha1.DefaultClusterName,
			assertField: func(t *testing.T, field any) {
				t.Helper()

				_, ok := field.(*string)
				require.True(t, ok)
			},
		},
		{
			name:     "context",
			selector: selectors[2],
			assertField: func(t *testing.T, field any) {
				t.Helper()

				_, ok := field.(*string)
				require.True(t, ok)
			},
		},
		{
			name:            "kubeconfig",
			selector:        selectors[3],
			expectedDefault: v1alpha1.DefaultKubeconfigPath,
			assertField: func(t *testing.T, field any) {
				t.Helper()

				_, ok := field.(*string)
				require.True(t, ok)
			},
		},
		{
			name:            "timeout",
			selector:        selectors[4],
			expectedDefault: metav1.Duration{Duration: 5 * time.Minute},
			assertField: func(t *testing.T, field any) {
				t.Helper()

				_, ok := field.(*metav1.Duration)
				require.True(t, ok)
			},
		},
		{
			name:            "strategy",
			selector:        selectors[5],
			expectedDefault: v1alpha1.StrategyBlueGreen,
			assertField: func(t *testing.T, field any) {
				t.Helper()

				_, ok := field.(*v1alpha1.Strategy)
				require.True(t, ok)
			},
		},
		{
			name:            "replicas",
			selector:        selectors[6],
			expectedDefault: v1alpha1.DefaultReplicas,
			assertField: func(t *testing.T, field any) {
				t.Helper()

				_, ok := field.(*int32)
				require.True(t, ok)
			},
		},
	}
}

func TestClusterFieldSelectors(t *testing.T) {
	t.Parallel()

	selectors := configmanager.ClusterFieldSelectors()
	require.Len(t, selectors, 4)

	environment := v1alpha1.NewEnvironment()

	_, ok := selectors[0].Selector(environment).(*string)
	require.True(t, ok, "kubernetes version selector should address a string field")

	nodes, ok := selectors[1].Selector(environment).(*int32)
	require.True(t, ok)
	assert.Same(t, &environment.Spec.Cluster.Nodes, nodes)

	cpus, ok := selectors[2].Selector(environment).(*int32)
	require.True(t, ok)
	assert.Same(t, &environment.Spec.Cluster.CPUs, cpus)

	memory, ok := selectors[3].Selector(environment).(*string)
	require.True(t, ok)
	assert.Same(t, &environment.Spec.Cluster.Memory, memory)
}

func TestGitOpsFieldSelectors(t *testing.T) {
	t.Parallel()

	selectors := configmanager.GitOpsFieldSelectors()
	require.Len(t, selectors, 2)

	environment := v1alpha1.NewEnvironment()

	repoURL, ok := selectors[0].Selector(environment).(*string)
	require.True(t, ok)
	assert.Same(t, &environment.Spec.GitOps.RepoURL, repoURL)

	revision, ok := selectors[1].Selector(environment).(*string)
	require.True(t, ok)
	assert.Same(t, &environment.Spec.GitOps.TargetRevision, revision)
}
