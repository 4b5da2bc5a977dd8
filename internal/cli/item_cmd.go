package cli

import (
	"github.com/alexanderramin/irrigo/internal/cli/formatter"
	"github.com/alexanderramin/irrigo/internal/domain"
	"github.com/spf13/cobra"
)

func newItemCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "item",
		Short: "Manage activities and sub-activities",
	}
	cmd.AddCommand(newItemAddCmd(app), newItemListCmd(app), newItemRemoveCmd(app))
	return cmd
}

func newItemAddCmd(app *App) *cobra.Command {
	var projectRef, parentRef, name string
	var weight float64
	var order int

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an activity, or a sub-activity with --parent",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := app.Projects.Resolve(ctx, projectRef)
			if err != nil {
				return err
			}

			w := &domain.WorkItem{
				ProjectID:  p.ID,
				Name:       name,
				Kind:       domain.KindActivity,
				OrderIndex: order,
				Weight:     weight,
			}
			if parentRef != "" {
				parent, err := resolveItem(ctx, app, p.ID, parentRef)
				if err != nil {
					return err
				}
				w.Kind = domain.KindSubActivity
				w.ParentID = &parent.ID
			}
			if err := app.WorkItems.Create(ctx, w); err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "Added %s %s %s\n", formatter.KindBadge(w.Kind), w.Name, formatter.TruncID(w.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&projectRef, "project", "", "Project ID or short ID")
	cmd.Flags().StringVar(&name, "name", "", "Item name")
	cmd.Flags().StringVar(&parentRef, "parent", "", "Parent activity (ID or name); makes a sub-activity")
	cmd.Flags().Float64Var(&weight, "weight", 0, "Weight in percentage points (0-100)")
	cmd.Flags().IntVar(&order, "order", 0, "Display order among siblings")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newItemListCmd(app *App) *cobra.Command {
	var tree bool

	cmd := &cobra.Command{
		Use:   "list PROJECT",
		Short: "List a project's work items with progress",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := app.Projects.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			roots, err := app.WorkItems.Tree(ctx, p.ID)
			if err != nil {
				return err
			}
			if len(roots) == 0 {
				printf(cmd.OutOrStdout(), "No work items in %s.\n", p.DisplayID())
				return nil
			}
			if tree {
				printf(cmd.OutOrStdout(), "%s", formatter.FormatItemTree(roots))
				return nil
			}
			printf(cmd.OutOrStdout(), "%s", formatter.FormatItemTable(roots))
			return nil
		},
	}
	cmd.Flags().BoolVar(&tree, "tree", false, "Show as a tree")
	return cmd
}

func newItemRemoveCmd(app *App) *cobra.Command {
	var projectRef string

	cmd := &cobra.Command{
		Use:   "remove ITEM",
		Short: "Delete a work item with its children and schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := resolveItem(cmd.Context(), app, projectRef, args[0])
			if err != nil {
				return err
			}
			if err := app.WorkItems.Delete(cmd.Context(), w.ID); err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "Removed %s\n", w.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&projectRef, "project", "", "Project, to match the item by name")
	return cmd
}
