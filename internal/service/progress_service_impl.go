package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/alexanderramin/irrigo/internal/app"
	"github.com/alexanderramin/irrigo/internal/calendar"
	"github.com/alexanderramin/irrigo/internal/db"
	"github.com/alexanderramin/irrigo/internal/domain"
	"github.com/alexanderramin/irrigo/internal/progress"
	"github.com/alexanderramin/irrigo/internal/repository"
	"github.com/google/uuid"
)

type progressService struct {
	reports  repository.DailyReportRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewProgressService(reports repository.DailyReportRepo, uow db.UnitOfWork, observers ...UseCaseObserver) ProgressService {
	return &progressService{reports: reports, uow: uow, observer: useCaseObserverOrNoop(observers)}
}

// SubmitDailyReport merges one field report into its owning weekly entry.
// The increment is added by a single atomic upsert, the report is kept for
// audit, and the cumulative series is recomputed from the stored entries
// before the transaction commits.
func (s *progressService) SubmitDailyReport(ctx context.Context, req app.SubmitReportRequest) (resp *app.SubmitReportResponse, err error) {
	start := time.Now()
	defer func() {
		fields := map[string]any{"sub_activity_id": req.SubActivityID, "date": req.Date, "increment": req.ProgressIncrement}
		if resp != nil {
			fields["week"] = resp.Instruction.Key().String()
		}
		observe(ctx, s.observer, "progress.submit_daily_report", start, err, fields)
	}()

	date, err := validateReport(req)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	report := &domain.DailyProgressReport{
		ID:                uuid.New().String(),
		SubActivityID:     req.SubActivityID,
		Date:              date,
		ProgressIncrement: req.ProgressIncrement,
		Note:              strings.TrimSpace(req.Note),
		ReportedBy:        strings.TrimSpace(req.ReportedBy),
		CreatedAt:         now,
	}

	resp = &app.SubmitReportResponse{Report: report}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txProjects := repository.NewSQLiteProjectRepo(tx)
		txItems := repository.NewSQLiteWorkItemRepo(tx)
		txSchedules := repository.NewSQLiteScheduleRepo(tx)
		txReports := repository.NewSQLiteDailyReportRepo(tx)
		txSnapshots := repository.NewSQLiteSnapshotRepo(tx)

		item, err := txItems.GetByID(ctx, req.SubActivityID)
		if err != nil {
			return err
		}
		if item.Kind != domain.KindSubActivity {
			return app.NewRequestError(app.ErrNotSubActivity,
				fmt.Sprintf("%q is an activity; progress is reported on sub-activities", item.Name))
		}
		p, err := txProjects.GetByID(ctx, item.ProjectID)
		if err != nil {
			return err
		}
		if p.Status == domain.ProjectArchived {
			return app.NewRequestError(app.ErrProjectNotActive, fmt.Sprintf("project %s is archived", p.DisplayID()))
		}

		cal := projectCalendar(p, now)
		key, ok := calendar.Resolve(cal, date)
		if !ok {
			return app.NewRequestError(app.ErrInvalidDate, fmt.Sprintf("date %s is outside the contract period %s to %s",
				date.Format(time.DateOnly), cal.Start.Format(time.DateOnly), cal.End.Format(time.DateOnly)))
		}
		existing, err := txSchedules.GetByKey(ctx, item.ID, key)
		if err != nil {
			if !errors.Is(err, repository.ErrNotFound) {
				return err
			}
			existing = nil
		}

		inst, err := progress.ApplyDailyProgress(*report, existing, cal)
		if err != nil {
			return err
		}
		entry, err := txSchedules.ApplyIncrement(ctx, inst.SubActivityID, inst.Key(), inst.Increment)
		if err != nil {
			return err
		}

		report.Week = inst.Key()
		if err := txReports.Create(ctx, report); err != nil {
			return err
		}

		series, err := rebuildSnapshots(ctx, p, txItems, txSchedules, txSnapshots, now)
		if err != nil {
			return err
		}

		resp.Instruction = inst
		resp.Entry = entry
		resp.Series = series
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// validateReport applies the boundary rules for a report: a real calendar
// date and an increment between 0 and 100.
func validateReport(req app.SubmitReportRequest) (time.Time, error) {
	if strings.TrimSpace(req.SubActivityID) == "" {
		return time.Time{}, app.NewRequestError(app.ErrMissingSubActivity, "sub-activity is required")
	}
	date, err := calendar.ParseReportDate(req.Date)
	if err != nil {
		return time.Time{}, app.NewRequestError(app.ErrInvalidDate, fmt.Sprintf("date %q must be YYYY-MM-DD", req.Date))
	}
	inc := req.ProgressIncrement
	if math.IsNaN(inc) || inc < 0 || inc > domain.MaxPercentage {
		return time.Time{}, app.NewRequestError(app.ErrInvalidInput,
			fmt.Sprintf("progress increment %.2f must be between 0 and 100", inc))
	}
	return date, nil
}

func (s *progressService) ListReports(ctx context.Context, projectID string, limit int) ([]*domain.DailyProgressReport, error) {
	return s.reports.ListByProject(ctx, projectID, limit)
}
