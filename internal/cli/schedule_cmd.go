package cli

import (
	"fmt"

	"github.com/alexanderramin/irrigo/internal/app"
	"github.com/alexanderramin/irrigo/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newScheduleCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Edit and show weekly plan/actual cells",
	}
	cmd.AddCommand(newScheduleSetCmd(a), newScheduleShowCmd(a))
	return cmd
}

func newScheduleSetCmd(a *App) *cobra.Command {
	var projectRef, itemRef string
	var req app.SetCellRequest
	var plan, actual float64

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Set the plan and/or actual percentage of one week",
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := resolveItem(cmd.Context(), a, projectRef, itemRef)
			if err != nil {
				return err
			}
			req.WorkItemID = w.ID
			if cmd.Flags().Changed("plan") {
				req.Plan = &plan
			}
			if cmd.Flags().Changed("actual") {
				req.Actual = &actual
			}

			e, err := a.Schedule.SetCell(cmd.Context(), req)
			if err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "%s %d-%02d W%d: plan %s, actual %s\n",
				w.Name, e.Year, e.Month, e.Week, formatter.Percent(e.Plan()), formatter.Percent(e.Actual()))
			return nil
		},
	}

	cmd.Flags().StringVar(&projectRef, "project", "", "Project, to match the item by name")
	cmd.Flags().StringVar(&itemRef, "item", "", "Work item ID or name")
	cmd.Flags().IntVar(&req.Year, "year", 0, "Year (defaults to the project year)")
	cmd.Flags().IntVar(&req.Month, "month", 0, "Month 1-12")
	cmd.Flags().IntVar(&req.Week, "week", 0, "Week of the month 1-5")
	cmd.Flags().Float64Var(&plan, "plan", 0, "Plan percentage")
	cmd.Flags().Float64Var(&actual, "actual", 0, "Actual percentage")
	_ = cmd.MarkFlagRequired("item")
	_ = cmd.MarkFlagRequired("month")
	_ = cmd.MarkFlagRequired("week")
	return cmd
}

func newScheduleShowCmd(a *App) *cobra.Command {
	var projectRef string

	cmd := &cobra.Command{
		Use:   "show ITEM",
		Short: "List the schedule entries of a work item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := resolveItem(cmd.Context(), a, projectRef, args[0])
			if err != nil {
				return err
			}
			entries, err := a.Schedule.ListByWorkItem(cmd.Context(), w.ID)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				printf(cmd.OutOrStdout(), "No schedule entries for %s.\n", w.Name)
				return nil
			}

			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []string{
					fmt.Sprintf("%d-%02d W%d", e.Year, e.Month, e.Week),
					cell(e.PlanPercentage),
					cell(e.ActualPercentage),
				})
			}
			printf(cmd.OutOrStdout(), "%s\n%s", formatter.Header(w.Name),
				formatter.RenderTable([]string{"WEEK", "PLAN", "ACTUAL"}, rows, 1, 2))
			return nil
		},
	}
	cmd.Flags().StringVar(&projectRef, "project", "", "Project, to match the item by name")
	return cmd
}

func cell(v *float64) string {
	if v == nil {
		return formatter.Dim("--")
	}
	return formatter.Percent(*v)
}
