package cli

import (
	"fmt"

	"github.com/alexanderramin/irrigo/internal/cli/formatter"
	"github.com/alexanderramin/irrigo/internal/domain"
	"github.com/spf13/cobra"
)

func newProjectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage projects",
	}
	cmd.AddCommand(
		newProjectAddCmd(app),
		newProjectListCmd(app),
		newProjectInspectCmd(app),
		newProjectArchiveCmd(app),
		newProjectUnarchiveCmd(app),
		newProjectRemoveCmd(app),
	)
	return cmd
}

func newProjectAddCmd(app *App) *cobra.Command {
	var p domain.Project

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a new project",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Projects.Create(cmd.Context(), &p); err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "Created project %s [%s]\n", p.Name, p.ShortID)
			return nil
		},
	}

	cmd.Flags().StringVar(&p.ShortID, "id", "", "Short ID (3-6 letters + 2-4 digits, e.g. IRG01)")
	cmd.Flags().StringVar(&p.Name, "name", "", "Project name")
	cmd.Flags().StringVar(&p.Location, "location", "", "Site location")
	cmd.Flags().StringVar(&p.Contractor, "contractor", "", "Contractor name")
	cmd.Flags().StringVar(&p.ContractStart, "start", "", "Contract start (DD/MM/YYYY or YYYY-MM-DD)")
	cmd.Flags().StringVar(&p.ContractEnd, "end", "", "Contract end (DD/MM/YYYY or YYYY-MM-DD)")
	cmd.Flags().IntVar(&p.Year, "year", 0, "Reference year (defaults to the contract start year)")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newProjectListCmd(app *App) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			projects, err := app.Projects.List(cmd.Context(), all)
			if err != nil {
				return err
			}
			if len(projects) == 0 {
				printf(cmd.OutOrStdout(), "No projects found.\n")
				return nil
			}
			printf(cmd.OutOrStdout(), "%s\n", formatter.FormatProjectList(projects))
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "Include archived projects")
	return cmd
}

func newProjectInspectCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect PROJECT",
		Short: "Show project details, calendar and work items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := app.Projects.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			cal, err := app.Projects.Calendar(ctx, p.ID)
			if err != nil {
				return err
			}
			items, err := app.WorkItems.Tree(ctx, p.ID)
			if err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "%s\n", formatter.FormatProjectInspect(formatter.ProjectInspectData{
				Project:  p,
				Calendar: cal,
				Items:    items,
			}))
			return nil
		},
	}
}

func newProjectArchiveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "archive PROJECT",
		Short: "Archive a project; it stops accepting reports",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.Projects.Resolve(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := app.Projects.Archive(cmd.Context(), p.ID); err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "Archived project %s\n", p.DisplayID())
			return nil
		},
	}
}

func newProjectUnarchiveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "unarchive PROJECT",
		Short: "Restore an archived project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.Projects.Resolve(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := app.Projects.Unarchive(cmd.Context(), p.ID); err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "Restored project %s\n", p.DisplayID())
			return nil
		},
	}
}

func newProjectRemoveCmd(app *App) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "remove PROJECT",
		Short: "Delete an archived project with all its data",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.Projects.Resolve(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !force && app.interactive() {
				confirmed := false
				title := fmt.Sprintf("Delete %s (%s) and all its reports?", p.Name, p.DisplayID())
				if err := confirmForm(title, &confirmed).Run(); err != nil {
					return err
				}
				if !confirmed {
					printf(cmd.OutOrStdout(), "Cancelled.\n")
					return nil
				}
			}
			if err := app.Projects.Delete(cmd.Context(), p.ID, force); err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "Removed project %s\n", p.DisplayID())
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Delete even when the project is not archived")
	return cmd
}
