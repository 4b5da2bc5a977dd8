package cli

import (
	"github.com/alexanderramin/irrigo/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newImportCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Create a project with its work items and schedule from a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.Import.ImportProject(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "%s Imported %s [%s]: %d activities, %d sub-activities, %d schedule entries\n",
				formatter.StyleGreen.Render("✔"), res.Project.Name, res.Project.DisplayID(),
				res.ActivityCount, res.SubActivityCount, res.EntryCount)
			return nil
		},
	}
}
