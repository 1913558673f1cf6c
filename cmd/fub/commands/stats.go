package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// NewStatsCommand creates the stats command.
func NewStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show account identity and session statistics",
		Long:  "Fetch the authenticated account identity and print the session counters",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			identity, err := client.Identity().Me(context.Background())
			if err != nil {
				return fmt.Errorf("failed to fetch identity: %w", err)
			}

			return StandardYAMLRenderer(map[string]interface{}{
				"account": map[string]string{
					"id":    itemString(identity, "id"),
					"name":  itemString(identity, "name"),
					"email": itemString(identity, "email"),
				},
				"session": client.Stats(),
			})
		},
	}
}

// NewVersionCommand creates the version command.
func NewVersionCommand(version, commit, date string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			return StandardYAMLRenderer(map[string]string{
				"version": version,
				"commit":  commit,
				"date":    date,
			})
		},
	}
}
