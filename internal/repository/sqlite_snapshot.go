package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/irrigo/internal/db"
	"github.com/alexanderramin/irrigo/internal/domain"
)

// SQLiteSnapshotRepo stores the cached cumulative series of each project.
type SQLiteSnapshotRepo struct {
	db db.DBTX
}

func NewSQLiteSnapshotRepo(db db.DBTX) *SQLiteSnapshotRepo {
	return &SQLiteSnapshotRepo{db: db}
}

// Replace swaps the project's cached series for snaps. Run it inside a
// transaction so readers never see a half-written series.
func (r *SQLiteSnapshotRepo) Replace(ctx context.Context, projectID string, snaps []domain.CumulativeSnapshot) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM cumulative_snapshots WHERE project_id = ?`, projectID); err != nil {
		return fmt.Errorf("clearing snapshots: %w", err)
	}

	query := `INSERT INTO cumulative_snapshots (project_id, year, month, week, label,
		weekly_plan, weekly_actual, cumulative_plan, cumulative_actual, cumulative_deviation, computed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	for _, s := range snaps {
		_, err := r.db.ExecContext(ctx, query,
			projectID, s.Year, s.Month, s.Week, s.Label,
			s.WeeklyPlan, s.WeeklyActual, s.CumulativePlan, s.CumulativeActual, s.CumulativeDeviation,
			formatTime(s.ComputedAt),
		)
		if err != nil {
			return fmt.Errorf("inserting snapshot %d-%02d/W%d: %w", s.Year, s.Month, s.Week, err)
		}
	}
	return nil
}

func (r *SQLiteSnapshotRepo) ListByProject(ctx context.Context, projectID string) ([]domain.CumulativeSnapshot, error) {
	query := `SELECT project_id, year, month, week, label, weekly_plan, weekly_actual,
		cumulative_plan, cumulative_actual, cumulative_deviation, computed_at
		FROM cumulative_snapshots WHERE project_id = ? ORDER BY year, month, week`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	defer rows.Close()

	var snaps []domain.CumulativeSnapshot
	for rows.Next() {
		var s domain.CumulativeSnapshot
		var computedAtStr string
		if err := rows.Scan(&s.ProjectID, &s.Year, &s.Month, &s.Week, &s.Label,
			&s.WeeklyPlan, &s.WeeklyActual, &s.CumulativePlan, &s.CumulativeActual, &s.CumulativeDeviation,
			&computedAtStr); err != nil {
			return nil, fmt.Errorf("scanning snapshot row: %w", err)
		}
		if s.ComputedAt, err = time.Parse(time.RFC3339, computedAtStr); err != nil {
			return nil, fmt.Errorf("parsing computed_at: %w", err)
		}
		snaps = append(snaps, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating snapshots: %w", err)
	}
	return snaps, nil
}
