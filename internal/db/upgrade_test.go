package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMigrate_UpgradePath_LegacySchema upgrades a database created before
// the contractor and reporter columns and the unique schedule key existed.
// Data must survive, new columns get defaults, and duplicate schedule rows
// collapse to the most recently updated one.
func TestMigrate_UpgradePath_LegacySchema(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	legacy := []string{
		`CREATE TABLE projects (
			id             TEXT PRIMARY KEY,
			short_id       TEXT NOT NULL DEFAULT '',
			name           TEXT NOT NULL,
			location       TEXT NOT NULL DEFAULT '',
			contract_start TEXT NOT NULL DEFAULT '',
			contract_end   TEXT NOT NULL DEFAULT '',
			year           INTEGER NOT NULL DEFAULT 0,
			status         TEXT NOT NULL DEFAULT 'active',
			archived_at    TEXT,
			created_at     TEXT NOT NULL,
			updated_at     TEXT NOT NULL
		)`,
		`CREATE TABLE work_items (
			id          TEXT PRIMARY KEY,
			project_id  TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
			parent_id   TEXT REFERENCES work_items(id) ON DELETE CASCADE,
			name        TEXT NOT NULL,
			kind        TEXT NOT NULL,
			order_index INTEGER NOT NULL DEFAULT 0,
			weight      REAL NOT NULL DEFAULT 0,
			created_at  TEXT NOT NULL,
			updated_at  TEXT NOT NULL
		)`,
		`CREATE TABLE schedule_entries (
			id                TEXT PRIMARY KEY,
			work_item_id      TEXT NOT NULL REFERENCES work_items(id) ON DELETE CASCADE,
			year              INTEGER NOT NULL,
			month             INTEGER NOT NULL,
			week              INTEGER NOT NULL,
			plan_percentage   REAL,
			actual_percentage REAL,
			created_at        TEXT NOT NULL,
			updated_at        TEXT NOT NULL
		)`,
		`CREATE TABLE daily_reports (
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
		`INSERT INTO projects (id, short_id, name, created_at, updated_at)
			VALUES ('p1', 'IRG01', 'Canal', '2025-01-01T00:00:00Z', '2025-01-01T00:00:00Z')`,
		`INSERT INTO work_items (id, project_id, name, kind, weight, created_at, updated_at)
			VALUES ('w1', 'p1', 'Excavation', 'sub_activity', 50, '2025-01-01T00:00:00Z', '2025-01-01T00:00:00Z')`,
		`INSERT INTO schedule_entries (id, work_item_id, year, month, week, plan_percentage, actual_percentage, created_at, updated_at)
			VALUES ('e-old', 'w1', 2025, 5, 1, 5, 2, '2025-01-01T00:00:00Z', '2025-05-20T00:00:00Z')`,
		`INSERT INTO schedule_entries (id, work_item_id, year, month, week, plan_percentage, actual_percentage, created_at, updated_at)
			VALUES ('e-new', 'w1', 2025, 5, 1, 5, 4, '2025-01-01T00:00:00Z', '2025-05-22T00:00:00Z')`,
		`INSERT INTO schedule_entries (id, work_item_id, year, month, week, plan_percentage, actual_percentage, created_at, updated_at)
			VALUES ('e-w2', 'w1', 2025, 5, 2, 10, 0, '2025-01-01T00:00:00Z', '2025-05-20T00:00:00Z')`,
		`INSERT INTO daily_reports (id, work_item_id, report_date, increment, year, month, week, created_at)
			VALUES ('r1', 'w1', '2025-05-22', 2, 2025, 5, 1, '2025-05-22T00:00:00Z')`,
	}
	for _, stmt := range legacy {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}

	require.NoError(t, Migrate(db))

	var contractor string
	require.NoError(t, db.QueryRow(`SELECT contractor FROM projects WHERE id = 'p1'`).Scan(&contractor))
	assert.Equal(t, "", contractor)

	var reportedBy string
	require.NoError(t, db.QueryRow(`SELECT reported_by FROM daily_reports WHERE id = 'r1'`).Scan(&reportedBy))
	assert.Equal(t, "", reportedBy)

	rows, err := db.Query(`SELECT id FROM schedule_entries ORDER BY month, week`)
	require.NoError(t, err)
	var ids []string
	for rows.Next() {
		var id string
		require.NoError(t, rows.Scan(&id))
		ids = append(ids, id)
	}
	require.NoError(t, rows.Close())
	assert.Equal(t, []string{"e-new", "e-w2"}, ids)

	var idx string
	require.NoError(t, db.QueryRow(`SELECT name FROM sqlite_master WHERE type='index' AND name='idx_schedule_entries_key'`).Scan(&idx))

	// A second run leaves the upgraded database alone.
	require.NoError(t, Migrate(db))
}
