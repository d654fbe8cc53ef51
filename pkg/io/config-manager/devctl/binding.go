package configmanager

import (
	"fmt"
	"reflect"
	"strings"
	"time"
	"unicode"

	mapstructure "github.com/go-viper/mapstructure/v2"
	"github.com/k8s-rollouts/devctl/pkg/apis/environment/v1alpha1"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// EnvPrefix is the prefix for environment variables that override config values.
const EnvPrefix = "DEVCTL"

// configFileName is the base name of the config file Viper searches for.
const configFileName = "devctl"

// InitializeViper creates a Viper instance configured for devctl config files
// and environment variable overrides (DEVCTL_SPEC_CLUSTER_NAME and friends).
func InitializeViper() *viper.Viper {
	viperInstance := viper.New()
	viperInstance.SetConfigName(configFileName)
	viperInstance.SetConfigType("yaml")
	viperInstance.AddConfigPath(".")
	viperInstance.SetEnvPrefix(EnvPrefix)
	viperInstance.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viperInstance.AutomaticEnv()

	return viperInstance
}

// metav1DurationDecodeHook decodes duration strings like "5m" into metav1.Duration values.
func metav1DurationDecodeHook() mapstructure.DecodeHookFuncType {
	return func(_ reflect.Type, to reflect.Type, data any) (any, error) {
		if to != reflect.TypeOf(metav1.Duration{}) {
			return data, nil
		}

		raw, ok := data.(string)
		if !ok {
			return data, nil
		}

		duration, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("parse duration %q: %w", raw, err)
		}

		return metav1.Duration{Duration: duration}, nil
	}
}

// AddFlagsFromFields registers a CLI flag on the command for every field selector.
// Selectors whose function returns nil are skipped.
func (m *ConfigManager) AddFlagsFromFields(cmd *cobra.Command) {
	for _, fieldSelector := range m.fieldSelectors {
		m.addFlagFromField(cmd, fieldSelector)
	}
}

func (m *ConfigManager) addFlagFromField(
	cmd *cobra.Command,
	fieldSelector FieldSelector[v1alpha1.Environment],
) {
	fieldPtr := fieldSelector.Selector(m.Config)
	if fieldPtr == nil {
		return
	}

	flagName := m.GenerateFlagName(fieldPtr)
	if flagName == "" {
		return
	}

	bindFlag(cmd.Flags(), fieldPtr, fieldSelector, flagName, m.GenerateShorthand(flagName))
}

// bindFlag registers the flag so that flag writes go directly to the config field.
// Enum types bind through their pflag.Value implementation, which keeps the enum
// type name as the flag type and validates values on Set.
func bindFlag(
	flags *pflag.FlagSet,
	fieldPtr any,
	fieldSelector FieldSelector[v1alpha1.Environment],
	flagName, shorthand string,
) {
	if value, ok := fieldPtr.(pflag.Value); ok {
		setFieldValue(fieldPtr, fieldSelector.DefaultValue)
		flags.VarP(value, flagName, shorthand, fieldSelector.Description)

		return
	}

	switch ptr := fieldPtr.(type) {
	case *string:
		flags.StringVarP(
			ptr, flagName, shorthand,
			defaultValueAs[string](fieldSelector.DefaultValue), fieldSelector.Description,
		)
	case *int32:
		flags.Int32VarP(
			ptr, flagName, shorthand,
			defaultValueAs[int32](fieldSelector.DefaultValue), fieldSelector.Description,
		)
	case *bool:
		flags.BoolVarP(
			ptr, flagName, shorthand,
			defaultValueAs[bool](fieldSelector.DefaultValue), fieldSelector.Description,
		)
	case *metav1.Duration:
		flags.DurationVarP(
			&ptr.Duration, flagName, shorthand,
			defaultValueAs[metav1.Duration](fieldSelector.DefaultValue).Duration,
			fieldSelector.Description,
		)
	}
}

func defaultValueAs[T any](value any) T {
	typed, ok := value.(T)
	if !ok {
		var zero T

		return zero
	}

	return typed
}

// flagNameOverrides maps config field paths to flag names where the mechanical
// kebab-case conversion of the leaf field would be wrong or ambiguous.
var flagNameOverrides = map[string]string{
	"Spec.Cluster.CPUs":               "cpus",
	"Spec.SampleApp.Namespace":        "app-namespace",
	"Spec.SampleApp.Image.Repository": "image-repository",
	"Spec.SampleApp.Image.Tag":        "image-tag",
	"Spec.SampleApp.Hosts.App":        "app-host",
	"Spec.SampleApp.Hosts.Preview":    "preview-host",
	"Spec.Observability.Namespace":    "monitoring-namespace",
}

// GenerateFlagName derives the CLI flag name for a field of the managed config.
// Returns an empty string when the pointer does not address a config field.
func (m *ConfigManager) GenerateFlagName(fieldPtr any) string {
	path := m.findFieldPath(fieldPtr)
	if len(path) == 0 {
		return ""
	}

	if override, ok := flagNameOverrides[strings.Join(path, ".")]; ok {
		return override
	}

	return kebabCase(path[len(path)-1])
}

// GenerateShorthand returns the single-letter shorthand for well-known flags.
// Flags without a registered shorthand get none.
func (m *ConfigManager) GenerateShorthand(flagName string) string {
	shorthands := map[string]string{
		"provisioner": "p",
		"name":        "n",
		"context":     "c",
		"kubeconfig":  "k",
		"timeout":     "t",
		"strategy":    "s",
	}

	return shorthands[flagName]
}

func (m *ConfigManager) findFieldPath(fieldPtr any) []string {
	if fieldPtr == nil || m.Config == nil {
		return nil
	}

	target := reflect.ValueOf(fieldPtr)
	if target.Kind() != reflect.Ptr || target.IsNil() {
		return nil
	}

	root := reflect.ValueOf(m.Config).Elem()

	return findFieldPath(root, target.Pointer(), target.Type().Elem(), nil)
}

// findFieldPath walks the struct tree looking for the field the pointer addresses.
// Both the address and the static type must match, so a pointer to a struct field
// is not confused with a pointer to that struct's first member.
func findFieldPath(
	value reflect.Value,
	target uintptr,
	targetType reflect.Type,
	path []string,
) []string {
	valueType := value.Type()

	for index := range value.NumField() {
		field := value.Field(index)
		if !field.CanAddr() {
			continue
		}

		fieldPath := append(path[:len(path):len(path)], valueType.Field(index).Name)

		if field.Addr().Pointer() == target && field.Type() == targetType {
			return fieldPath
		}

		if field.Kind() == reflect.Struct {
			found := findFieldPath(field, target, targetType, fieldPath)
			if found != nil {
				return found
			}
		}
	}

	return nil
}

// kebabCase converts a Go field name to kebab-case, folding acronym runs into a
// single word ("RepoURL" becomes "repo-url", "KubernetesVersion" becomes
// "kubernetes-version").
func kebabCase(name string) string {
	var builder strings.Builder

	runes := []rune(name)
	for index, char := range runes {
		if unicode.IsUpper(char) {
			previousLower := index > 0 && !unicode.IsUpper(runes[index-1])
			startsNewWord := index > 0 && index+1 < len(runes) &&
				unicode.IsUpper(runes[index-1]) && unicode.IsLower(runes[index+1])

			if previousLower || startsNewWord {
				builder.WriteRune('-')
			}

			builder.WriteRune(unicode.ToLower(char))

			continue
		}

		builder.WriteRune(char)
	}

	return builder.String()
}

// setFieldValue assigns a default value to the field the pointer addresses.
// Values are matched by assignability; untyped numeric defaults arriving as int
// are converted within numeric kinds only.
func setFieldValue(fieldPtr any, value any) {
	if fieldPtr == nil || value == nil {
		return
	}

	target := reflect.ValueOf(fieldPtr)
	if target.Kind() != reflect.Ptr || target.IsNil() {
		return
	}

	targetField := target.Elem()
	source := reflect.ValueOf(value)

	if source.Type().AssignableTo(targetField.Type()) {
		targetField.Set(source)

		return
	}

	if isNumericKind(source.Kind()) && isNumericKind(targetField.Kind()) &&
		source.CanConvert(targetField.Type()) {
		targetField.Set(source.Convert(targetField.Type()))
	}
}

func isNumericKind(kind reflect.Kind) bool {
	switch kind {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}
