package configmanager

import (
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	mapstructure "github.com/go-viper/mapstructure/v2"
	"github.com/k8s-rollouts/devctl/pkg/apis/environment/v1alpha1"
	configmanagerinterface "github.com/k8s-rollouts/devctl/pkg/io/config-manager"
	"github.com/k8s-rollouts/devctl/pkg/utils/notify"
	"github.com/k8s-rollouts/devctl/pkg/utils/timer"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// ConfigManager implements configuration management for devctl v1alpha1.Environment configurations.
type ConfigManager struct {
	Viper           *viper.Viper
	fieldSelectors  []FieldSelector[v1alpha1.Environment]
	Config          *v1alpha1.Environment
	configLoaded    bool           // Track if config has been actually loaded
	configFileFound bool           // Track if a config file was found and read
	Writer          io.Writer      // Writer for output notifications
	command         *cobra.Command // Associated Cobra command for flag introspection
}

// Compile-time interface compliance verification.
var _ configmanagerinterface.ConfigManager[v1alpha1.Environment] = (*ConfigManager)(nil)

// NewConfigManager creates a new configuration manager with the specified field selectors.
// Initializes Viper with all configuration including paths and environment handling.
func NewConfigManager(
	writer io.Writer,
	fieldSelectors ...FieldSelector[v1alpha1.Environment],
) *ConfigManager {
	viperInstance := InitializeViper()
	config := v1alpha1.NewEnvironment()

	manager := &ConfigManager{
		Viper:          viperInstance,
		fieldSelectors: fieldSelectors,
		Config:         config,
		configLoaded:   false,
		Writer:         writer,
	}

	return manager
}

// NewCommandConfigManager constructs a ConfigManager bound to the provided Cobra command.
// It registers the supplied field selectors, binds flags from struct fields, and writes output
// to the command's standard output writer.
func NewCommandConfigManager(
	cmd *cobra.Command,
	selectors []FieldSelector[v1alpha1.Environment],
) *ConfigManager {
	manager := NewConfigManager(cmd.OutOrStdout(), selectors...)
	manager.command = cmd
	manager.AddFlagsFromFields(cmd)

	return manager
}

// Load loads the configuration from files and environment variables.
// Returns the loaded config (either freshly loaded or previously cached) and an error
// if loading failed. Returns nil config on error.
// Configuration priority: defaults < config files < environment variables < flags.
func (m *ConfigManager) Load(
	opts configmanagerinterface.LoadOptions,
) (*v1alpha1.Environment, error) {
	if !opts.Silent {
		m.notifyLoadingStart()
	}

	if m.configLoaded {
		if !opts.Silent {
			m.notifyConfigReused()
		}

		return m.Config, nil
	}

	if !opts.Silent {
		m.notifyLoadingConfig()
	}

	if !opts.IgnoreConfigFile {
		err := m.readConfig(opts.Silent)
		if err != nil {
			return nil, err
		}
	}

	flagOverrides := m.captureChangedFlagValues()

	err := m.unmarshalAndApplyDefaults()
	if err != nil {
		return nil, err
	}

	err = m.applyFlagOverrides(flagOverrides)
	if err != nil {
		return nil, err
	}

	m.applyConnectionDefaults()

	if !opts.SkipValidation {
		err = m.validateConfig()
		if err != nil {
			return nil, err
		}
	}

	if !opts.Silent {
		m.notifyLoadingComplete(opts.Timer)
	}

	m.configLoaded = true

	return m.Config, nil
}

func (m *ConfigManager) readConfig(silent bool) error {
	err := m.Viper.ReadInConfig()
	if err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("failed to read config file: %w", err)
		}

		m.configFileFound = false
		if !silent {
			m.notifyUsingDefaults()
		}
	} else {
		m.configFileFound = true
		if !silent {
			m.notifyConfigFound()
		}
	}

	return nil
}

func (m *ConfigManager) unmarshalAndApplyDefaults() error {
	decoderConfig := func(dc *mapstructure.DecoderConfig) {
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			metav1DurationDecodeHook(),
		)
	}

	// Reset TypeMeta fields only if a config file was found.
	// This allows validation to catch incorrect values from config files
	// while preserving defaults when loading from environment variables only.
	if m.configFileFound {
		m.Config.APIVersion = ""
		m.Config.Kind = ""
	}

	err := m.Viper.Unmarshal(m.Config, decoderConfig)
	if err != nil {
		return fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	// Do NOT restore defaults for TypeMeta fields - they should be validated as-is.
	// This ensures validation will catch incorrect/missing apiVersion and kind values.

	m.Config.ExpandEnvVars()

	// Apply field selector defaults for empty fields
	for _, fieldSelector := range m.fieldSelectors {
		fieldPtr := fieldSelector.Selector(m.Config)
		if fieldPtr != nil && isFieldEmpty(fieldPtr) {
			setFieldValue(fieldPtr, fieldSelector.DefaultValue)
		}
	}

	return nil
}

func (m *ConfigManager) captureChangedFlagValues() map[string]string {
	if m.command == nil {
		return nil
	}

	flags := m.command.Flags()
	overrides := make(map[string]string)

	flags.Visit(func(f *pflag.Flag) {
		overrides[f.Name] = f.Value.String()
	})

	return overrides
}

func (m *ConfigManager) applyFlagOverrides(overrides map[string]string) error {
	if overrides == nil {
		return nil
	}

	for _, selector := range m.fieldSelectors {
		fieldPtr := selector.Selector(m.Config)
		if fieldPtr == nil {
			continue
		}

		flagName := m.GenerateFlagName(fieldPtr)

		value, ok := overrides[flagName]
		if !ok {
			continue
		}

		err := setFieldValueFromFlag(fieldPtr, value)
		if err != nil {
			return fmt.Errorf("failed to apply flag override for %s: %w", flagName, err)
		}
	}

	return nil
}

// applyConnectionDefaults derives the kubeconfig context from the provisioner
// and cluster name when the user did not configure one. A context matching the
// other provisioner's naming convention is treated as a stale derived value and
// replaced as well.
func (m *ConfigManager) applyConnectionDefaults() {
	if m.Config == nil {
		return
	}

	cluster := &m.Config.Spec.Cluster

	expected := cluster.Provisioner.ContextName(cluster.Name)
	if expected == "" {
		return
	}

	current := strings.TrimSpace(m.Config.Spec.Connection.Context)
	if current == "" || contextIsOppositeDefault(current, cluster) {
		m.Config.Spec.Connection.Context = expected
	}
}

func contextIsOppositeDefault(current string, cluster *v1alpha1.ClusterSpec) bool {
	switch cluster.Provisioner {
	case v1alpha1.ProvisionerMinikube:
		other := v1alpha1.ProvisionerKind

		return current == other.ContextName(cluster.Name)
	case v1alpha1.ProvisionerKind:
		other := v1alpha1.ProvisionerMinikube

		return current == other.ContextName(cluster.Name)
	default:
		return false
	}
}

func (m *ConfigManager) notifyLoadingStart() {
	notify.WriteMessage(notify.Message{
		Type:    notify.TitleType,
		Content: "Load config...",
		Emoji:   "⏳",
		Writer:  m.Writer,
	})
}

func (m *ConfigManager) notifyConfigReused() {
	notify.WriteMessage(notify.Message{
		Type:    notify.SuccessType,
		Content: "config already loaded, reusing existing config",
		Writer:  m.Writer,
	})
}

func (m *ConfigManager) notifyLoadingConfig() {
	notify.WriteMessage(notify.Message{
		Type:    notify.ActivityType,
		Content: "loading devctl config",
		Writer:  m.Writer,
	})
}

func (m *ConfigManager) notifyUsingDefaults() {
	notify.WriteMessage(notify.Message{
		Type:    notify.ActivityType,
		Content: "using default config",
		Writer:  m.Writer,
	})
}

func (m *ConfigManager) notifyConfigFound() {
	notify.WriteMessage(notify.Message{
		Type:    notify.ActivityType,
		Content: "'%s' found",
		Args:    []any{m.Viper.ConfigFileUsed()},
		Writer:  m.Writer,
	})
}

func (m *ConfigManager) notifyLoadingComplete(tmr timer.Timer) {
	notify.WriteMessage(notify.Message{
		Type:    notify.SuccessType,
		Content: "config loaded",
		Timer:   tmr,
		Writer:  m.Writer,
	})
}

// isFieldEmpty checks if a field pointer points to an empty/zero value.
func isFieldEmpty(fieldPtr any) bool {
	if fieldPtr == nil {
		return true
	}

	fieldVal := reflect.ValueOf(fieldPtr)
	if fieldVal.Kind() != reflect.Ptr || fieldVal.IsNil() {
		return true
	}

	fieldVal = fieldVal.Elem()

	return fieldVal.IsZero()
}
