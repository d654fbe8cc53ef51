package helm

import (
	"fmt"

	"sigs.k8s.io/yaml"
)

// chartValues parses the spec's inline values document into the map the Helm
// actions consume. An empty document yields an empty map, not nil, so the
// actions always receive overridable values.
func chartValues(spec *ChartSpec) (map[string]any, error) {
	vals := map[string]any{}

	if spec.ValuesYaml == "" {
		return vals, nil
	}

	err := yaml.Unmarshal([]byte(spec.ValuesYaml), &vals)
	if err != nil {
		return nil, fmt.Errorf("failed to parse ValuesYaml: %w", err)
	}

	return vals, nil
}
