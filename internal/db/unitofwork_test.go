package db_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/alexanderramin/irrigo/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openUoW(t *testing.T, path string) (*sql.DB, *db.SQLiteUnitOfWork) {
	t.Helper()
	database, err := db.OpenDB(path)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	_, err = database.Exec(`CREATE TABLE IF NOT EXISTS uow_test (id TEXT PRIMARY KEY, val INTEGER NOT NULL)`)
	require.NoError(t, err)

	return database, db.NewSQLiteUnitOfWork(database)
}

func readVal(t *testing.T, database *sql.DB, id string) (int, bool) {
	t.Helper()
	var val int
	err := database.QueryRow(`SELECT val FROM uow_test WHERE id = ?`, id).Scan(&val)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false
	}
	require.NoError(t, err)
	return val, true
}

func TestWithinTx_CommitOnSuccess(t *testing.T) {
	database, uow := openUoW(t, ":memory:")

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO uow_test (id, val) VALUES (?, ?)`, "k1", 1)
		return err
	})
	require.NoError(t, err)

	val, found := readVal(t, database, "k1")
	assert.True(t, found, "row should exist after commit")
	assert.Equal(t, 1, val)
}

func TestWithinTx_RollbackOnError(t *testing.T) {
	database, uow := openUoW(t, ":memory:")

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO uow_test (id, val) VALUES (?, ?)`, "k2", 2); err != nil {
			return err
		}
		return errors.New("deliberate failure")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "deliberate failure")

	_, found := readVal(t, database, "k2")
	assert.False(t, found, "row should not exist after rollback")
}

func TestWithinReadTx_SeesCommittedRows(t *testing.T) {
	_, uow := openUoW(t, ":memory:")
	ctx := context.Background()

	require.NoError(t, uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO uow_test (id, val) VALUES (?, ?)`, "r1", 7)
		return err
	}))

	var got int
	err := uow.WithinReadTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return tx.QueryRowContext(ctx, `SELECT val FROM uow_test WHERE id = ?`, "r1").Scan(&got)
	})
	require.NoError(t, err)
	assert.Equal(t, 7, got)

	sentinel := errors.New("stop")
	err = uow.WithinReadTx(ctx, func(ctx context.Context, tx db.DBTX) error { return sentinel })
	assert.ErrorIs(t, err, sentinel)
}

func TestWithinTx_RollbackOnPanic(t *testing.T) {
	database, uow := openUoW(t, ":memory:")

	assert.Panics(t, func() {
		_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
			_, _ = tx.ExecContext(ctx, `INSERT INTO uow_test (id, val) VALUES (?, ?)`, "k3", 3)
			panic("boom")
		})
	})

	_, found := readVal(t, database, "k3")
	assert.False(t, found, "row should not exist after panic rollback")
}

func TestWithinTx_ConcurrentIncrementsSerialize(t *testing.T) {
	database, uow := openUoW(t, filepath.Join(t.TempDir(), "uow.db"))
	_, err := database.Exec(`INSERT INTO uow_test (id, val) VALUES ('counter', 0)`)
	require.NoError(t, err)

	const workers = 20
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
				var v int
				if err := tx.QueryRowContext(ctx, `SELECT val FROM uow_test WHERE id = 'counter'`).Scan(&v); err != nil {
					return err
				}
				_, err := tx.ExecContext(ctx, `UPDATE uow_test SET val = ? WHERE id = 'counter'`, v+1)
				return err
			})
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	val, _ := readVal(t, database, "counter")
	assert.Equal(t, workers, val, "read-modify-write inside WithinTx must not lose updates")
}
