// Package environment provides validation for devctl Environment configurations.
package environment

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/k8s-rollouts/devctl/pkg/apis/environment/v1alpha1"
	"github.com/k8s-rollouts/devctl/pkg/io/validator"
)

// Validator validates v1alpha1.Environment configurations.
type Validator struct{}

// Compile-time interface compliance verification.
var _ validator.Validator[*v1alpha1.Environment] = (*Validator)(nil)

// NewValidator creates a new Environment validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate checks metadata, cluster settings, the sample app rollout strategy,
// and port-forward definitions against the Environment schema.
func (v *Validator) Validate(config *v1alpha1.Environment) *validator.ValidationResult {
	result := validator.NewValidationResult("devctl.yaml")

	if config == nil {
		result.AddError(validator.ValidationError{
			Field:   "config",
			Message: "configuration is nil",
		})

		return result
	}

	validator.ValidateMetadata(
		config.Kind,
		config.APIVersion,
		v1alpha1.Kind,
		v1alpha1.APIVersion,
		result,
	)

	v.validateCluster(&config.Spec.Cluster, result)
	v.validateSampleApp(&config.Spec.SampleApp, result)
	v.validateForwards(config.Spec.Forwards, result)

	return result
}

func (v *Validator) validateCluster(
	cluster *v1alpha1.ClusterSpec,
	result *validator.ValidationResult,
) {
	err := v1alpha1.ValidateClusterName(cluster.Name)
	if err != nil {
		result.AddError(validator.ValidationError{
			Field:         "spec.cluster.name",
			Message:       err.Error(),
			CurrentValue:  cluster.Name,
			FixSuggestion: "Use a DNS-1123 compliant name such as 'k8s-rollouts'",
		})
	}

	if cluster.Provisioner != "" && !cluster.Provisioner.IsValid() {
		result.AddError(validator.ValidationError{
			Field:         "spec.cluster.provisioner",
			Message:       "provisioner is not supported",
			CurrentValue:  string(cluster.Provisioner),
			ExpectedValue: provisionerValues(),
			FixSuggestion: "Set provisioner to 'Minikube' or 'Kind'",
		})
	}

	if cluster.Nodes < 0 {
		result.AddError(validator.ValidationError{
			Field:         "spec.cluster.nodes",
			Message:       "node count cannot be negative",
			CurrentValue:  strconv.FormatInt(int64(cluster.Nodes), 10),
			FixSuggestion: "Set nodes to 1 or more, or leave it unset to use the default",
		})
	}

	if cluster.CPUs < 0 {
		result.AddError(validator.ValidationError{
			Field:         "spec.cluster.cpus",
			Message:       "CPU count cannot be negative",
			CurrentValue:  strconv.FormatInt(int64(cluster.CPUs), 10),
			FixSuggestion: "Set cpus to 1 or more, or leave it unset to use the default",
		})
	}
}

func (v *Validator) validateSampleApp(
	sampleApp *v1alpha1.SampleAppSpec,
	result *validator.ValidationResult,
) {
	if sampleApp.Strategy != "" && !sampleApp.Strategy.IsValid() {
		result.AddError(validator.ValidationError{
			Field:         "spec.sampleApp.strategy",
			Message:       "rollout strategy is not supported",
			CurrentValue:  string(sampleApp.Strategy),
			ExpectedValue: strategyValues(),
			FixSuggestion: "Set strategy to 'BlueGreen' or 'Canary'",
		})
	}

	err := v1alpha1.ValidateReplicas(sampleApp.Replicas)
	if err != nil {
		result.AddError(validator.ValidationError{
			Field:         "spec.sampleApp.replicas",
			Message:       err.Error(),
			CurrentValue:  strconv.FormatInt(int64(sampleApp.Replicas), 10),
			FixSuggestion: "Set replicas to a positive count, or leave it unset to use the default",
		})
	}
}

func (v *Validator) validateForwards(
	forwards []v1alpha1.ForwardSpec,
	result *validator.ValidationResult,
) {
	seen := make(map[string]bool, len(forwards))

	for index, forward := range forwards {
		field := fmt.Sprintf("spec.forwards[%d]", index)

		err := v1alpha1.ValidateForward(forward)
		if err != nil {
			result.AddError(validator.ValidationError{
				Field:         field,
				Message:       err.Error(),
				FixSuggestion: "Give each forward a name, namespace, selector, and remote port",
			})

			continue
		}

		if seen[forward.Name] {
			result.AddError(validator.ValidationError{
				Field:         field + ".name",
				Message:       "forward name is already in use",
				CurrentValue:  forward.Name,
				FixSuggestion: "Give each forward a unique name",
			})
		}

		seen[forward.Name] = true
	}
}

func provisionerValues() string {
	provisioners := v1alpha1.ValidProvisioners()

	values := make([]string, 0, len(provisioners))
	for _, provisioner := range provisioners {
		values = append(values, string(provisioner))
	}

	return strings.Join(values, ", ")
}

func strategyValues() string {
	strategies := v1alpha1.ValidStrategies()

	values := make([]string, 0, len(strategies))
	for _, strategy := range strategies {
		values = append(values, string(strategy))
	}

	return strings.Join(values, ", ")
}
