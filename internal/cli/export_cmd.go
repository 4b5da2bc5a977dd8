package cli

import (
	"fmt"
	"os"

	"github.com/alexanderramin/irrigo/internal/export"
	"github.com/spf13/cobra"
)

func newExportCmd(a *App) *cobra.Command {
	var out string
	var year int

	cmd := &cobra.Command{
		Use:   "export PROJECT",
		Short: "Write the series and schedule of a project to an Excel workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := loadSeries(cmd, a, args[0], year)
			if err != nil {
				return err
			}
			if out == "" {
				out = resp.Project.DisplayID() + ".xlsx"
			}

			wb, err := export.Workbook(resp)
			if err != nil {
				return err
			}
			defer wb.Close()
			if err := wb.SaveAs(out); err != nil {
				return fmt.Errorf("saving %s: %w", out, err)
			}
			if info, err := os.Stat(out); err == nil {
				a.logger().Debug("workbook written", "path", out, "bytes", info.Size())
			}
			printf(cmd.OutOrStdout(), "Wrote %s (%d weeks)\n", out, len(resp.Points))
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default: SHORTID.xlsx)")
	cmd.Flags().IntVar(&year, "year", 0, "Only weeks of this year (default: whole contract)")
	return cmd
}
