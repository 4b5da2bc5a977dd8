package cli

import (
	"fmt"
	"time"

	"github.com/alexanderramin/irrigo/internal/app"
	"github.com/alexanderramin/irrigo/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newStatusCmd(a *App) *cobra.Command {
	var projects []string
	var all bool
	var asOf string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show where every project stands against its plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := app.StatusRequest{ProjectScope: projects, IncludeArchived: all}
			if asOf != "" {
				t, err := time.Parse("2006-01-02", asOf)
				if err != nil {
					return fmt.Errorf("invalid --as-of date %q: use YYYY-MM-DD", asOf)
				}
				req.Now = &t
			}

			resp, err := a.Status.GetStatus(cmd.Context(), req)
			if err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "%s\n", formatter.FormatStatus(resp, a.Config.Thresholds()))
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&projects, "project", nil, "Limit to these projects (ID or short ID)")
	cmd.Flags().BoolVar(&all, "all", false, "Include archived projects")
	cmd.Flags().StringVar(&asOf, "as-of", "", "Evaluate as of this date (YYYY-MM-DD)")
	return cmd
}
