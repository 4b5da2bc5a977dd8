package cli

import (
	"github.com/alexanderramin/irrigo/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newCalendarCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "calendar PROJECT",
		Short: "Show the month/week partition of a project's contract",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.Projects.Resolve(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			cal, err := a.Projects.Calendar(cmd.Context(), p.ID)
			if err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "%s\n", formatter.FormatCalendar(cal))
			return nil
		},
	}
}
