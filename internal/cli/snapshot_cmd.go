package cli

import (
	"fmt"

	"github.com/alexanderramin/irrigo/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newSnapshotCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Maintain the cached cumulative series",
	}
	cmd.AddCommand(newSnapshotRefreshCmd(a), newSnapshotVerifyCmd(a))
	return cmd
}

func newSnapshotRefreshCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh [PROJECT]",
		Short: "Rebuild the cache of one project, or of all active projects",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				weeks, err := a.Snapshots.Refresh(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				printf(cmd.OutOrStdout(), "Refreshed %d weeks\n", weeks)
				return nil
			}
			n, err := a.Snapshots.RefreshAll(cmd.Context())
			if err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "Refreshed %d projects\n", n)
			return nil
		},
	}
}

func newSnapshotVerifyCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "verify PROJECT",
		Short: "Compare the cache with a fresh computation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.Snapshots.Verify(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "%s", formatter.FormatVerify(res))
			if len(res.Drift) > 0 {
				return fmt.Errorf("snapshot cache drifted in %d weeks; run 'irrigo snapshot refresh %s'", len(res.Drift), args[0])
			}
			return nil
		},
	}
}
