package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/irrigo/internal/db"
	"github.com/alexanderramin/irrigo/internal/domain"
)

const reportDateLayout = "2006-01-02"

const dailyReportColumns = `r.id, r.work_item_id, r.report_date, r.increment, r.year, r.month, r.week,
		r.note, r.reported_by, r.created_at`

// SQLiteDailyReportRepo keeps the audit log of field reports.
type SQLiteDailyReportRepo struct {
	db db.DBTX
}

func NewSQLiteDailyReportRepo(db db.DBTX) *SQLiteDailyReportRepo {
	return &SQLiteDailyReportRepo{db: db}
}

func (r *SQLiteDailyReportRepo) Create(ctx context.Context, rep *domain.DailyProgressReport) error {
	query := `INSERT INTO daily_reports (id, work_item_id, report_date, increment, year, month, week,
		note, reported_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		rep.ID,
		rep.SubActivityID,
		rep.Date.Format(reportDateLayout),
		rep.ProgressIncrement,
		rep.Week.Year, rep.Week.Month, rep.Week.Week,
		rep.Note,
		rep.ReportedBy,
		formatTime(rep.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting daily report: %w", err)
	}
	return nil
}

func (r *SQLiteDailyReportRepo) ListByWorkItem(ctx context.Context, workItemID string) ([]*domain.DailyProgressReport, error) {
	query := `SELECT ` + dailyReportColumns + ` FROM daily_reports r
		WHERE r.work_item_id = ? ORDER BY r.report_date, r.created_at`
	rows, err := r.db.QueryContext(ctx, query, workItemID)
	if err != nil {
		return nil, fmt.Errorf("listing daily reports by work item: %w", err)
	}
	defer rows.Close()
	return scanDailyReports(rows)
}

// ListByProject returns the most recent reports first. A limit of zero or
// less returns all of them.
func (r *SQLiteDailyReportRepo) ListByProject(ctx context.Context, projectID string, limit int) ([]*domain.DailyProgressReport, error) {
	query := `SELECT ` + dailyReportColumns + ` FROM daily_reports r
		JOIN work_items w ON w.id = r.work_item_id
		WHERE w.project_id = ?
		ORDER BY r.report_date DESC, r.created_at DESC`
	args := []any{projectID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing daily reports by project: %w", err)
	}
	defer rows.Close()
	return scanDailyReports(rows)
}

func scanDailyReports(rows *sql.Rows) ([]*domain.DailyProgressReport, error) {
	var reports []*domain.DailyProgressReport
	for rows.Next() {
		var rep domain.DailyProgressReport
		var dateStr, createdAtStr string
		if err := rows.Scan(&rep.ID, &rep.SubActivityID, &dateStr, &rep.ProgressIncrement,
			&rep.Week.Year, &rep.Week.Month, &rep.Week.Week,
			&rep.Note, &rep.ReportedBy, &createdAtStr); err != nil {
			return nil, fmt.Errorf("scanning daily report row: %w", err)
		}

		var err error
		if rep.Date, err = time.Parse(reportDateLayout, dateStr); err != nil {
			return nil, fmt.Errorf("parsing report_date: %w", err)
		}
		if rep.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr); err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		reports = append(reports, &rep)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating daily reports: %w", err)
	}
	return reports, nil
}
