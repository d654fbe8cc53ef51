package sampleapi

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// envPrefix is the prefix for all service environment variables
// (SAMPLE_API_PORT, SAMPLE_API_VERSION, ...).
const envPrefix = "sample_api"

// ErrInvalidPort indicates a port outside the usable range.
var ErrInvalidPort = errors.New("invalid port")

// Settings holds the service configuration, populated from the environment.
type Settings struct {
	Port            int           `default:"8000"  envconfig:"PORT"`
	Version         string        `default:"0.2.1" envconfig:"VERSION"`
	Strategy        string        `default:""      envconfig:"STRATEGY"`
	PodName         string        `default:""      envconfig:"POD_NAME"`
	PodNamespace    string        `default:""      envconfig:"POD_NAMESPACE"`
	SimulateUnready bool          `default:"false" envconfig:"SIMULATE_UNREADY"`
	ShutdownGrace   time.Duration `default:"10s"   envconfig:"SHUTDOWN_GRACE"`
}

// SettingsFromEnv reads the service settings from SAMPLE_API_* environment
// variables, applying defaults for unset values.
func SettingsFromEnv() (Settings, error) {
	var settings Settings

	err := envconfig.Process(envPrefix, &settings)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to process environment: %w", err)
	}

	err = settings.Validate()
	if err != nil {
		return Settings{}, err
	}

	return settings, nil
}

// Validate checks the settings for values the server cannot start with.
func (s Settings) Validate() error {
	if s.Port < 1 || s.Port > 65535 {
		return fmt.Errorf("%w: %d", ErrInvalidPort, s.Port)
	}

	return nil
}
