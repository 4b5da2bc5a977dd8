package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/irrigo/internal/db"
	"github.com/alexanderramin/irrigo/internal/domain"
	"github.com/google/uuid"
)

const scheduleColumns = `id, work_item_id, year, month, week, plan_percentage, actual_percentage, created_at, updated_at`

const scheduleColumnsAliased = `s.id, s.work_item_id, s.year, s.month, s.week, s.plan_percentage, s.actual_percentage,
		s.created_at, s.updated_at`

// SQLiteScheduleRepo implements ScheduleRepo using a SQLite database.
type SQLiteScheduleRepo struct {
	db db.DBTX
}

// NewSQLiteScheduleRepo creates a new SQLiteScheduleRepo.
func NewSQLiteScheduleRepo(db db.DBTX) *SQLiteScheduleRepo {
	return &SQLiteScheduleRepo{db: db}
}

func (r *SQLiteScheduleRepo) GetByKey(ctx context.Context, workItemID string, key domain.ScheduleKey) (*domain.ScheduleEntry, error) {
	query := `SELECT ` + scheduleColumns + ` FROM schedule_entries
		WHERE work_item_id = ? AND year = ? AND month = ? AND week = ?`
	row := r.db.QueryRowContext(ctx, query, workItemID, key.Year, key.Month, key.Week)

	var e domain.ScheduleEntry
	var plan, actual sql.NullFloat64
	var createdAtStr, updatedAtStr string
	err := row.Scan(&e.ID, &e.WorkItemID, &e.Year, &e.Month, &e.Week, &plan, &actual, &createdAtStr, &updatedAtStr)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("schedule entry %s: %w", key, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning schedule entry: %w", err)
	}
	if err := populateScheduleEntry(&e, plan, actual, createdAtStr, updatedAtStr); err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *SQLiteScheduleRepo) ListByWorkItem(ctx context.Context, workItemID string) ([]domain.ScheduleEntry, error) {
	query := `SELECT ` + scheduleColumns + ` FROM schedule_entries
		WHERE work_item_id = ? ORDER BY year, month, week`
	rows, err := r.db.QueryContext(ctx, query, workItemID)
	if err != nil {
		return nil, fmt.Errorf("listing schedule entries by work item: %w", err)
	}
	defer rows.Close()
	return scanScheduleEntries(rows)
}

func (r *SQLiteScheduleRepo) ListByProject(ctx context.Context, projectID string) ([]domain.ScheduleEntry, error) {
	query := `SELECT ` + scheduleColumnsAliased + `
		FROM schedule_entries s
		JOIN work_items w ON w.id = s.work_item_id
		WHERE w.project_id = ?
		ORDER BY s.year, s.month, s.week, w.order_index`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing schedule entries by project: %w", err)
	}
	defer rows.Close()
	return scanScheduleEntries(rows)
}

func (r *SQLiteScheduleRepo) UpsertCell(ctx context.Context, e *domain.ScheduleEntry) (*domain.ScheduleEntry, error) {
	id := e.ID
	if id == "" {
		id = uuid.New().String()
	}
	now := nowUTC()
	query := `INSERT INTO schedule_entries (` + scheduleColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(work_item_id, year, month, week) DO UPDATE SET
			plan_percentage   = COALESCE(excluded.plan_percentage, schedule_entries.plan_percentage),
			actual_percentage = COALESCE(excluded.actual_percentage, schedule_entries.actual_percentage),
			updated_at        = excluded.updated_at`
	_, err := r.db.ExecContext(ctx, query,
		id, e.WorkItemID, e.Year, e.Month, e.Week,
		nullableFloatToValue(e.PlanPercentage),
		nullableFloatToValue(e.ActualPercentage),
		now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("upserting schedule entry: %w", err)
	}
	return r.GetByKey(ctx, e.WorkItemID, e.Key())
}

func (r *SQLiteScheduleRepo) ApplyIncrement(ctx context.Context, workItemID string, key domain.ScheduleKey, increment float64) (*domain.ScheduleEntry, error) {
	now := nowUTC()
	query := `INSERT INTO schedule_entries (` + scheduleColumns + `)
		VALUES (?, ?, ?, ?, ?, 0, MIN(?, ?), ?, ?)
		ON CONFLICT(work_item_id, year, month, week) DO UPDATE SET
			actual_percentage = MIN(COALESCE(schedule_entries.actual_percentage, 0) + ?, ?),
			updated_at        = excluded.updated_at`
	_, err := r.db.ExecContext(ctx, query,
		uuid.New().String(), workItemID, key.Year, key.Month, key.Week,
		increment, domain.MaxPercentage,
		now, now,
		increment, domain.MaxPercentage,
	)
	if err != nil {
		return nil, fmt.Errorf("applying progress increment: %w", err)
	}
	return r.GetByKey(ctx, workItemID, key)
}

func (r *SQLiteScheduleRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM schedule_entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting schedule entry: %w", err)
	}
	return requireAffected(res, "schedule entry")
}

func scanScheduleEntries(rows *sql.Rows) ([]domain.ScheduleEntry, error) {
	var entries []domain.ScheduleEntry
	for rows.Next() {
		var e domain.ScheduleEntry
		var plan, actual sql.NullFloat64
		var createdAtStr, updatedAtStr string
		if err := rows.Scan(&e.ID, &e.WorkItemID, &e.Year, &e.Month, &e.Week, &plan, &actual,
			&createdAtStr, &updatedAtStr); err != nil {
			return nil, fmt.Errorf("scanning schedule entry row: %w", err)
		}
		if err := populateScheduleEntry(&e, plan, actual, createdAtStr, updatedAtStr); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating schedule entries: %w", err)
	}
	return entries, nil
}

func populateScheduleEntry(e *domain.ScheduleEntry, plan, actual sql.NullFloat64, createdAtStr, updatedAtStr string) error {
	e.PlanPercentage = nullableFloat(plan)
	e.ActualPercentage = nullableFloat(actual)

	var err error
	e.CreatedAt, e.UpdatedAt, err = parseTimestamps(createdAtStr, updatedAtStr)
	if err != nil {
		return fmt.Errorf("parsing schedule entry timestamps: %w", err)
	}
	return nil
}
