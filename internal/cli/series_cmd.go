package cli

import (
	"github.com/alexanderramin/irrigo/internal/app"
	"github.com/alexanderramin/irrigo/internal/cli/formatter"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newSeriesCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "series",
		Short: "Cumulative plan vs actual per week",
	}
	cmd.AddCommand(newSeriesShowCmd(a), newSeriesViewCmd(a))
	return cmd
}

func loadSeries(cmd *cobra.Command, a *App, ref string, year int) (*app.SeriesResponse, error) {
	return a.Schedule.Series(cmd.Context(), app.SeriesRequest{ProjectID: ref, Year: year})
}

func newSeriesShowCmd(a *App) *cobra.Command {
	var year int

	cmd := &cobra.Command{
		Use:   "show PROJECT",
		Short: "Print the cumulative series table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := loadSeries(cmd, a, args[0], year)
			if err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "%s\n", formatter.FormatSeries(resp, a.Config.Thresholds()))
			return nil
		},
	}
	cmd.Flags().IntVar(&year, "year", 0, "Only weeks of this year (default: whole contract)")
	return cmd
}

func newSeriesViewCmd(a *App) *cobra.Command {
	var year int

	cmd := &cobra.Command{
		Use:   "view PROJECT",
		Short: "Browse the series interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := loadSeries(cmd, a, args[0], year)
			if err != nil {
				return err
			}
			if !a.interactive() {
				printf(cmd.OutOrStdout(), "%s\n", formatter.FormatSeries(resp, a.Config.Thresholds()))
				return nil
			}
			_, err = tea.NewProgram(newSeriesView(resp, a.Config.Thresholds()), tea.WithAltScreen()).Run()
			return err
		},
	}
	cmd.Flags().IntVar(&year, "year", 0, "Only weeks of this year (default: whole contract)")
	return cmd
}
