package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/irrigo/internal/app"
	"github.com/alexanderramin/irrigo/internal/cli/formatter"
	"github.com/alexanderramin/irrigo/internal/domain"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func newReportCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Record and list daily field progress",
	}
	cmd.AddCommand(newReportSubmitCmd(a), newReportListCmd(a))
	return cmd
}

func newReportSubmitCmd(a *App) *cobra.Command {
	var projectRef, itemRef string
	var f reportFields

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a daily progress report for a sub-activity",
		Long: `Submit a daily progress report. The increment is added to the actual
percentage of the week owning the date. When stdin is a terminal, missing
values are asked for interactively.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			missing := itemRef == "" || f.Date == "" || f.Increment == ""
			if missing && !a.interactive() {
				return fmt.Errorf("--item, --date and --increment are required when stdin is not a terminal")
			}

			if itemRef != "" {
				w, err := resolveItem(ctx, a, projectRef, itemRef)
				if err != nil {
					return err
				}
				f.ItemID = w.ID
			}
			if missing {
				if err := askReport(ctx, a, projectRef, &f); err != nil {
					return err
				}
			}

			inc, err := strconv.ParseFloat(strings.TrimSpace(f.Increment), 64)
			if err != nil {
				return app.NewRequestError(app.ErrInvalidInput, fmt.Sprintf("increment %q is not a number", f.Increment))
			}
			resp, err := a.Progress.SubmitDailyReport(ctx, app.SubmitReportRequest{
				SubActivityID:     f.ItemID,
				Date:              strings.TrimSpace(f.Date),
				ProgressIncrement: inc,
				Note:              f.Note,
				ReportedBy:        f.ReportedBy,
			})
			if err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "%s", formatter.FormatReportResult(resp))
			return nil
		},
	}

	cmd.Flags().StringVar(&projectRef, "project", "", "Project, to match the item by name")
	cmd.Flags().StringVar(&itemRef, "item", "", "Sub-activity ID or name")
	cmd.Flags().StringVar(&f.Date, "date", "", "Report date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.Increment, "increment", "", "Progress made that day, in percent")
	cmd.Flags().StringVar(&f.Note, "note", "", "Free-text note")
	cmd.Flags().StringVar(&f.ReportedBy, "by", "", "Reporter name")
	return cmd
}

// askReport fills the report fields through the interactive form, picking
// the project and sub-activity first when they are unknown.
func askReport(ctx context.Context, a *App, projectRef string, f *reportFields) error {
	var subs []*domain.WorkItem
	if f.ItemID == "" {
		projectID := ""
		if projectRef != "" {
			p, err := a.Projects.Resolve(ctx, projectRef)
			if err != nil {
				return err
			}
			projectID = p.ID
		} else {
			projects, err := a.Projects.List(ctx, false)
			if err != nil {
				return err
			}
			if len(projects) == 0 {
				return fmt.Errorf("no active projects")
			}
			if err := runForm(projectSelect(projects, &projectID)); err != nil {
				return err
			}
		}

		items, err := a.WorkItems.ListByProject(ctx, projectID)
		if err != nil {
			return err
		}
		subs = lo.Filter(items, func(w *domain.WorkItem, _ int) bool { return w.Kind == domain.KindSubActivity })
		if len(subs) == 0 {
			return fmt.Errorf("project has no sub-activities to report on")
		}
	}
	return runForm(reportForm(subs, f))
}

func newReportListCmd(a *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list PROJECT",
		Short: "Show recent daily reports of a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.Projects.Resolve(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			reports, err := a.Progress.ListReports(cmd.Context(), p.ID, limit)
			if err != nil {
				return err
			}
			if len(reports) == 0 {
				printf(cmd.OutOrStdout(), "No reports for %s.\n", p.DisplayID())
				return nil
			}
			printf(cmd.OutOrStdout(), "%s", formatter.FormatReportList(reports))
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of reports")
	return cmd
}
