// Package sampleapi provides the sample-api command serving the demo HTTP
// service that the rollout deploys into the cluster. The same binary serves
// as CLI and container entrypoint.
package sampleapi

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewSampleAPICmd creates the parent sample-api command.
func NewSampleAPICmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "sample-api",
		Short:        "Run the sample demo service",
		Args:         cobra.NoArgs,
		RunE:         handleSampleAPIRunE,
		SilenceUsage: true,
	}

	cmd.AddCommand(NewServeCmd())

	return cmd
}

func handleSampleAPIRunE(cmd *cobra.Command, _ []string) error {
	err := cmd.Help()
	if err != nil {
		return fmt.Errorf("displaying sample-api command help: %w", err)
	}

	return nil
}
