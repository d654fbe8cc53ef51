package helm

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockInterface is a mock implementation of the Interface for testing.
type MockInterface struct {
	mock.Mock
}

// NewMockInterface creates a new MockInterface instance.
func NewMockInterface() *MockInterface {
	return &MockInterface{}
}

// InstallChart mocks installing a chart.
func (m *MockInterface) InstallChart(ctx context.Context, spec *ChartSpec) (*ReleaseInfo, error) {
	args := m.Called(ctx, spec)

	result, ok := args.Get(0).(*ReleaseInfo)
	if !ok {
		return nil, args.Error(1) //nolint:wrapcheck // Mock function, wrapping not needed
	}

	return result, args.Error(1) //nolint:wrapcheck // Mock function, wrapping not needed
}

// InstallOrUpgradeChart mocks installing or upgrading a chart.
func (m *MockInterface) InstallOrUpgradeChart(
	ctx context.Context,
	spec *ChartSpec,
) (*ReleaseInfo, error) {
	args := m.Called(ctx, spec)

	result, ok := args.Get(0).(*ReleaseInfo)
	if !ok {
		return nil, args.Error(1) //nolint:wrapcheck // Mock function, wrapping not needed
	}

	return result, args.Error(1) //nolint:wrapcheck // Mock function, wrapping not needed
}

// UninstallRelease mocks uninstalling a release.
func (m *MockInterface) UninstallRelease(ctx context.Context, releaseName, namespace string) error {
	args := m.Called(ctx, releaseName, namespace)

	return args.Error(0) //nolint:wrapcheck // Mock function, wrapping not needed
}

// AddRepository mocks adding a Helm repository.
func (m *MockInterface) AddRepository(
	ctx context.Context,
	entry *RepositoryEntry,
	timeout time.Duration,
) error {
	args := m.Called(ctx, entry, timeout)

	return args.Error(0) //nolint:wrapcheck // Mock function, wrapping not needed
}

// TemplateChart mocks rendering chart templates.
func (m *MockInterface) TemplateChart(ctx context.Context, spec *ChartSpec) (string, error) {
	args := m.Called(ctx, spec)

	return args.String(0), args.Error(1)
}

// GetReleaseInfo mocks fetching release metadata.
func (m *MockInterface) GetReleaseInfo(
	ctx context.Context,
	releaseName, namespace string,
) (*ReleaseInfo, error) {
	args := m.Called(ctx, releaseName, namespace)

	result, ok := args.Get(0).(*ReleaseInfo)
	if !ok {
		return nil, args.Error(1) //nolint:wrapcheck // Mock function, wrapping not needed
	}

	return result, args.Error(1) //nolint:wrapcheck // Mock function, wrapping not needed
}
