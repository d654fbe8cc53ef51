package v1alpha1

import (
	"fmt"
	"slices"
	"strings"
)

// --- Enum Interface ---

// EnumValuer is implemented by string-based enum types to provide their valid values.
// The schema generator uses this interface to automatically discover enum constraints.
type EnumValuer interface {
	// ValidValues returns all valid string values for this enum type.
	ValidValues() []string
}

// --- Provisioner Types ---

// Provisioner defines which local cluster tool provisions the environment.
type Provisioner string

const (
	// ProvisionerMinikube provisions the cluster with minikube (docker driver).
	ProvisionerMinikube Provisioner = "Minikube"
	// ProvisionerKind provisions the cluster with kind.
	ProvisionerKind Provisioner = "Kind"
)

// ValidProvisioners returns all supported provisioners.
func ValidProvisioners() []Provisioner {
	return []Provisioner{ProvisionerMinikube, ProvisionerKind}
}

// Set for Provisioner (pflag.Value interface).
func (p *Provisioner) Set(value string) error {
	for _, provisioner := range ValidProvisioners() {
		if strings.EqualFold(value, string(provisioner)) {
			*p = provisioner

			return nil
		}
	}

	return fmt.Errorf(
		"%w: %s (valid options: %s, %s)",
		ErrInvalidProvisioner,
		value,
		ProvisionerMinikube,
		ProvisionerKind,
	)
}

// IsValid checks if the provisioner value is supported.
func (p *Provisioner) IsValid() bool {
	return slices.Contains(ValidProvisioners(), *p)
}

// String returns the string representation of the Provisioner.
func (p *Provisioner) String() string {
	return string(*p)
}

// Type returns the type of the Provisioner.
func (p *Provisioner) Type() string {
	return "Provisioner"
}

// Default returns the default value for Provisioner (Minikube).
func (p *Provisioner) Default() any {
	return ProvisionerMinikube
}

// ValidValues returns all valid Provisioner values as strings.
func (p *Provisioner) ValidValues() []string {
	return []string{
		string(ProvisionerMinikube),
		string(ProvisionerKind),
	}
}

// ContextName returns the kubeconfig context name for a given cluster name.
// Each provisioner has its own context naming convention:
//   - Minikube: <name> (the profile name)
//   - Kind: kind-<name>
//
// Returns empty string if name is empty.
func (p *Provisioner) ContextName(clusterName string) string {
	if clusterName == "" {
		return ""
	}

	switch *p {
	case ProvisionerMinikube:
		return clusterName
	case ProvisionerKind:
		return "kind-" + clusterName
	default:
		return ""
	}
}

// NodeContainerName returns the docker container name of the first cluster node.
// Minikube names the container after the profile; kind appends a role suffix.
func (p *Provisioner) NodeContainerName(clusterName string) string {
	if clusterName == "" {
		return ""
	}

	switch *p {
	case ProvisionerMinikube:
		return clusterName
	case ProvisionerKind:
		return clusterName + "-control-plane"
	default:
		return ""
	}
}

// --- Strategy Types ---

// Strategy defines the Argo Rollouts deployment strategy for the sample application.
type Strategy string

const (
	// StrategyBlueGreen deploys with a blue-green active/preview service pair.
	StrategyBlueGreen Strategy = "BlueGreen"
	// StrategyCanary deploys with stepped canary traffic shifting and analysis.
	StrategyCanary Strategy = "Canary"
)

// ValidStrategies returns all supported rollout strategies.
func ValidStrategies() []Strategy {
	return []Strategy{StrategyBlueGreen, StrategyCanary}
}

// Set for Strategy (pflag.Value interface).
func (s *Strategy) Set(value string) error {
	for _, strategy := range ValidStrategies() {
		if strings.EqualFold(value, string(strategy)) {
			*s = strategy

			return nil
		}
	}

	return fmt.Errorf(
		"%w: %s (valid options: %s, %s)",
		ErrInvalidStrategy,
		value,
		StrategyBlueGreen,
		StrategyCanary,
	)
}

// IsValid checks if the strategy value is supported.
func (s *Strategy) IsValid() bool {
	return slices.Contains(ValidStrategies(), *s)
}

// String returns the string representation of the Strategy.
func (s *Strategy) String() string {
	return string(*s)
}

// Type returns the type of the Strategy.
func (s *Strategy) Type() string {
	return "Strategy"
}

// Default returns the default value for Strategy (BlueGreen).
func (s *Strategy) Default() any {
	return StrategyBlueGreen
}

// ValidValues returns all valid Strategy values as strings.
func (s *Strategy) ValidValues() []string {
	return []string{
		string(StrategyBlueGreen),
		string(StrategyCanary),
	}
}
