package sampleapi

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/k8s-rollouts/devctl/pkg/svc/sampleapi"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewServeCmd creates the sample-api serve command.
func NewServeCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the sample API over HTTP",
		Long: `Serve the demo HTTP service with health probes, version and info ` +
			`endpoints, failure-injection endpoints, and Prometheus metrics. ` +
			`Configuration comes from SAMPLE_API_* environment variables.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, port)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "Port to listen on (overrides the environment)")

	return cmd
}

func runServe(cmd *cobra.Command, port int) error {
	settings, err := sampleapi.SettingsFromEnv()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	if port != 0 {
		settings.Port = port

		err = settings.Validate()
		if err != nil {
			return fmt.Errorf("invalid settings: %w", err)
		}
	}

	logger := logrus.New()
	logger.SetOutput(cmd.ErrOrStderr())

	// JSON logs in the cluster, plain text on a developer machine.
	if settings.PodName != "" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = sampleapi.NewServer(settings, logger).Run(ctx)
	if err != nil {
		return fmt.Errorf("sample-api server failed: %w", err)
	}

	return nil
}
