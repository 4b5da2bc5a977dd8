package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Every step is idempotent.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// ALTER TABLE statements are re-run on every start.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := migrateScheduleEntryKey(db); err != nil {
		return fmt.Errorf("enforcing unique schedule entry key: %w", err)
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS projects (
		id             TEXT PRIMARY KEY,
		short_id       TEXT NOT NULL DEFAULT '',
		name           TEXT NOT NULL,
		location       TEXT NOT NULL DEFAULT '',
		contract_start TEXT NOT NULL DEFAULT '',
		contract_end   TEXT NOT NULL DEFAULT '',
		year           INTEGER NOT NULL DEFAULT 0,
		status         TEXT NOT NULL DEFAULT 'active'
		               CHECK(status IN ('active','suspended','done','archived')),
		archived_at    TEXT,
		created_at     TEXT NOT NULL,
		updated_at     TEXT NOT NULL
	)`,

	`CREATE UNIQUE INDEX IF NOT EXISTS idx_projects_short_id ON projects(short_id) WHERE short_id != ''`,

	`CREATE TABLE IF NOT EXISTS work_items (
		id          TEXT PRIMARY KEY,
		project_id  TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		parent_id   TEXT REFERENCES work_items(id) ON DELETE CASCADE,
		name        TEXT NOT NULL,
		kind        TEXT NOT NULL CHECK(kind IN ('activity','sub_activity')),
		order_index INTEGER NOT NULL DEFAULT 0,
		weight      REAL NOT NULL DEFAULT 0,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_work_items_project ON work_items(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_work_items_parent ON work_items(parent_id)`,

	`CREATE TABLE IF NOT EXISTS schedule_entries (
		id                TEXT PRIMARY KEY,
		work_item_id      TEXT NOT NULL REFERENCES work_items(id) ON DELETE CASCADE,
		year              INTEGER NOT NULL,
		month             INTEGER NOT NULL CHECK(month BETWEEN 1 AND 12),
		week              INTEGER NOT NULL CHECK(week BETWEEN 1 AND 5),
		plan_percentage   REAL,
		actual_percentage REAL,
		created_at        TEXT NOT NULL,
		updated_at        TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_schedule_entries_item ON schedule_entries(work_item_id)`,

	`CREATE TABLE IF NOT EXISTS daily_reports (
		id           TEXT PRIMARY KEY,
		work_item_id TEXT NOT NULL REFERENCES work_items(id) ON DELETE CASCADE,
		report_date  TEXT NOT NULL,
		increment    REAL NOT NULL,
		year         INTEGER NOT NULL,
		month        INTEGER NOT NULL,
		week         INTEGER NOT NULL,
		note         TEXT NOT NULL DEFAULT '',
		created_at   TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_daily_reports_item ON daily_reports(work_item_id)`,
	`CREATE INDEX IF NOT EXISTS idx_daily_reports_date ON daily_reports(report_date)`,

	`CREATE TABLE IF NOT EXISTS cumulative_snapshots (
		project_id           TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		year                 INTEGER NOT NULL,
		month                INTEGER NOT NULL,
		week                 INTEGER NOT NULL,
		label                TEXT NOT NULL DEFAULT '',
		weekly_plan          REAL NOT NULL DEFAULT 0,
		weekly_actual        REAL NOT NULL DEFAULT 0,
		cumulative_plan      REAL NOT NULL DEFAULT 0,
		cumulative_actual    REAL NOT NULL DEFAULT 0,
		cumulative_deviation REAL NOT NULL DEFAULT 0,
		computed_at          TEXT NOT NULL,
		PRIMARY KEY (project_id, year, month, week)
	)`,

	// Contractor and reporter were added after the first field rollout.
	`ALTER TABLE projects ADD COLUMN contractor TEXT NOT NULL DEFAULT ''`,
	`ALTER TABLE daily_reports ADD COLUMN reported_by TEXT NOT NULL DEFAULT ''`,
}

// migrateScheduleEntryKey collapses duplicate schedule entries left by
// databases created before the unique key existed, keeping the most recently
// updated row per (work_item_id, year, month, week), then adds the unique
// index the atomic progress upsert depends on.
func migrateScheduleEntryKey(db *sql.DB) error {
	ctx := context.Background()

	var exists int
	if err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'index' AND name = 'idx_schedule_entries_key'`,
	).Scan(&exists); err != nil {
		return fmt.Errorf("checking schedule entry index: %w", err)
	}
	if exists > 0 {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting migration transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM schedule_entries
		WHERE id NOT IN (
			SELECT id FROM (
				SELECT id, ROW_NUMBER() OVER (
					PARTITION BY work_item_id, year, month, week
					ORDER BY updated_at DESC, id DESC
				) AS rn
				FROM schedule_entries
			) WHERE rn = 1
		)`); err != nil {
		return fmt.Errorf("removing duplicate schedule entries: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `CREATE UNIQUE INDEX idx_schedule_entries_key
		ON schedule_entries(work_item_id, year, month, week)`); err != nil {
		return fmt.Errorf("creating idx_schedule_entries_key: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing schedule entry key migration: %w", err)
	}
	committed = true
	return nil
}
